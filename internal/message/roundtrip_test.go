package message

import (
	"encoding/binary"
	"net"
	"reflect"
	"testing"

	"github.com/lumen-dhcpc/lumen-dhcpc/pkg/dhcpv4"
)

// encodeReply serializes a reply's fixed fields and registered options.
// Test-only oracle: the production decoder never builds messages.
func encodeReply(m *Message) []byte {
	opts := []byte{byte(dhcpv4.OptionDHCPMessageType), 1, byte(m.MsgType)}
	appendU32 := func(code dhcpv4.OptionCode, v uint32) {
		opts = append(opts, byte(code), 4)
		opts = append(opts, dhcpv4.Uint32ToBytes(v)...)
	}
	if m.LeaseTime != 0 {
		appendU32(dhcpv4.OptionIPLeaseTime, m.LeaseTime)
	}
	if m.ServerID != 0 {
		appendU32(dhcpv4.OptionServerIdentifier, m.ServerID)
	}
	if m.RenewalTime != 0 {
		appendU32(dhcpv4.OptionRenewalTime, m.RenewalTime)
	}
	if m.RebindingTime != 0 {
		appendU32(dhcpv4.OptionRebindingTime, m.RebindingTime)
	}
	if len(m.DNSServers) > 0 {
		opts = append(opts, byte(dhcpv4.OptionDomainNameServer), byte(4*len(m.DNSServers)))
		for _, s := range m.DNSServers {
			opts = append(opts, dhcpv4.Uint32ToBytes(s)...)
		}
	}
	opts = append(opts, byte(dhcpv4.OptionEnd))

	buf := make([]byte, dhcpv4.OptionsOffset+len(opts))
	buf[0] = byte(m.Opcode)
	buf[1] = byte(m.HType)
	buf[2] = m.HLen
	buf[3] = m.Hops
	binary.BigEndian.PutUint32(buf[4:8], m.XID)
	binary.BigEndian.PutUint16(buf[8:10], m.Secs)
	binary.BigEndian.PutUint16(buf[10:12], m.Flags)
	binary.BigEndian.PutUint32(buf[12:16], m.CIAddr)
	binary.BigEndian.PutUint32(buf[16:20], m.YIAddr)
	binary.BigEndian.PutUint32(buf[20:24], m.SIAddr)
	binary.BigEndian.PutUint32(buf[24:28], m.GIAddr)
	copy(buf[28:44], m.CHAddr)
	copy(buf[44:108], m.SName[:])
	copy(buf[108:236], m.File[:])
	binary.BigEndian.PutUint32(buf[236:240], m.Cookie)
	copy(buf[dhcpv4.OptionsOffset:], opts)
	return buf
}

func TestRoundTrip(t *testing.T) {
	orig := &Message{
		Opcode:        dhcpv4.OpCodeBootReply,
		HType:         dhcpv4.HardwareTypeEthernet,
		HLen:          dhcpv4.EthernetAddrLen,
		XID:           0x12345678,
		YIAddr:        0xC0A80164,
		SIAddr:        0xC0A80101,
		CHAddr:        net.HardwareAddr{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
		Cookie:        dhcpv4.MagicCookie,
		MsgType:       dhcpv4.MessageTypeAck,
		LeaseTime:     86400,
		ServerID:      0xC0A80101,
		RenewalTime:   43200,
		RebindingTime: 75600,
		DNSServers:    []uint32{0x08080808, 0x08080404},
	}
	copy(orig.SName[:], "dhcp1")

	decoded, err := Decode(encodeReply(orig))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	if !reflect.DeepEqual(decoded, orig) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, orig)
	}
}
