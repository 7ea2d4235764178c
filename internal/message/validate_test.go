package message

import (
	"errors"
	"testing"

	"github.com/lumen-dhcpc/lumen-dhcpc/pkg/dhcpv4"
)

func validReplyHeader() *Message {
	return &Message{
		Opcode: dhcpv4.OpCodeBootReply,
		HType:  dhcpv4.HardwareTypeEthernet,
		HLen:   dhcpv4.EthernetAddrLen,
		XID:    0xCAFEBABE,
		Cookie: dhcpv4.MagicCookie,
	}
}

func TestValidateAcceptsReply(t *testing.T) {
	if err := validReplyHeader().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Message)
	}{
		{"bootrequest", func(m *Message) { m.Opcode = dhcpv4.OpCodeBootRequest }},
		{"zero opcode", func(m *Message) { m.Opcode = 0 }},
		{"token ring htype", func(m *Message) { m.HType = 6 }},
		{"short hlen", func(m *Message) { m.HLen = 4 }},
		{"long hlen", func(m *Message) { m.HLen = 8 }},
		{"nonzero secs", func(m *Message) { m.Secs = 10 }},
		{"broadcast flag", func(m *Message) { m.Flags = 0x8000 }},
		{"nonzero low flags", func(m *Message) { m.Flags = 0x0001 }},
		{"wrong cookie", func(m *Message) { m.Cookie = 0x12345678 }},
		{"zero cookie", func(m *Message) { m.Cookie = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validReplyHeader()
			tt.mutate(m)
			if err := m.Validate(); !errors.Is(err, ErrValidationFailed) {
				t.Errorf("Validate() = %v, want ErrValidationFailed", err)
			}
		})
	}
}

// Validate must not look at fields the state machine owns.
func TestValidateIgnoresStateMachineFields(t *testing.T) {
	m := validReplyHeader()
	m.XID = 0 // unmatched xid is the client's problem, not the validator's
	m.Hops = 7
	m.CHAddr = nil
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
