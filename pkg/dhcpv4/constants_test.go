package dhcpv4

import "testing"

func TestMessageTypeString(t *testing.T) {
	tests := []struct {
		mt   MessageType
		want string
	}{
		{MessageTypeDiscover, "DHCPDISCOVER"},
		{MessageTypeOffer, "DHCPOFFER"},
		{MessageTypeRequest, "DHCPREQUEST"},
		{MessageTypeDecline, "DHCPDECLINE"},
		{MessageTypeAck, "DHCPACK"},
		{MessageTypeNak, "DHCPNAK"},
		{MessageTypeRelease, "DHCPRELEASE"},
		{MessageTypeInform, "DHCPINFORM"},
		{MessageType(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.mt.String(); got != tt.want {
			t.Errorf("MessageType(%d).String() = %q, want %q", tt.mt, got, tt.want)
		}
	}
}

func TestOptionCodeValues(t *testing.T) {
	// Verify key option codes match RFC 2132 values
	tests := []struct {
		code OptionCode
		want byte
	}{
		{OptionPad, 0},
		{OptionDomainNameServer, 6},
		{OptionHostname, 12},
		{OptionIPLeaseTime, 51},
		{OptionDHCPMessageType, 53},
		{OptionServerIdentifier, 54},
		{OptionParameterRequestList, 55},
		{OptionRenewalTime, 58},
		{OptionRebindingTime, 59},
		{OptionClientIdentifier, 61},
		{OptionEnd, 255},
	}
	for _, tt := range tests {
		if byte(tt.code) != tt.want {
			t.Errorf("OptionCode %d: got %d, want %d", tt.code, byte(tt.code), tt.want)
		}
	}
}

func TestMessageLayoutConstants(t *testing.T) {
	if MinMessageSize != 236 {
		t.Errorf("MinMessageSize = %d, want 236", MinMessageSize)
	}
	if MaxMessageSize != 548 {
		t.Errorf("MaxMessageSize = %d, want 548", MaxMessageSize)
	}
	if OptionsOffset != CookieOffset+4 {
		t.Errorf("OptionsOffset = %d, want %d", OptionsOffset, CookieOffset+4)
	}
	if ServerPort != 67 {
		t.Errorf("ServerPort = %d, want 67", ServerPort)
	}
	if ClientPort != 68 {
		t.Errorf("ClientPort = %d, want 68", ClientPort)
	}
}

func TestMagicCookie(t *testing.T) {
	if MagicCookie != 0x63825363 {
		t.Errorf("MagicCookie = 0x%08x, want 0x63825363", MagicCookie)
	}
	expected := []byte{99, 130, 83, 99}
	for i, b := range MagicCookieBytes {
		if b != expected[i] {
			t.Errorf("MagicCookieBytes[%d] = %d, want %d", i, b, expected[i])
		}
	}
	if got, _ := BytesToUint32(MagicCookieBytes); got != MagicCookie {
		t.Errorf("BytesToUint32(MagicCookieBytes) = 0x%08x, want 0x%08x", got, MagicCookie)
	}
}
