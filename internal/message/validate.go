package message

import (
	"fmt"

	"github.com/lumen-dhcpc/lumen-dhcpc/pkg/dhcpv4"
)

// Validate checks the already-extracted fixed fields of a server reply.
// It is a pure function of the header: transaction-ID and hardware
// address matching against the outstanding request belong to the state
// machine, not here. All failures wrap ErrValidationFailed.
func (m *Message) Validate() error {
	if m.Opcode != dhcpv4.OpCodeBootReply {
		return fmt.Errorf("%w: opcode %d is not BOOTREPLY", ErrValidationFailed, m.Opcode)
	}
	if m.HType != dhcpv4.HardwareTypeEthernet {
		return fmt.Errorf("%w: hardware type %d is not Ethernet", ErrValidationFailed, m.HType)
	}
	if m.HLen != dhcpv4.EthernetAddrLen {
		return fmt.Errorf("%w: hardware address length %d, want %d",
			ErrValidationFailed, m.HLen, dhcpv4.EthernetAddrLen)
	}
	// RFC 2131: secs must be zero in server replies.
	if m.Secs != 0 {
		return fmt.Errorf("%w: nonzero secs %d in reply", ErrValidationFailed, m.Secs)
	}
	// This client never requests broadcast replies.
	if m.Flags != 0 {
		return fmt.Errorf("%w: nonzero flags 0x%04x in reply", ErrValidationFailed, m.Flags)
	}
	if m.Cookie != dhcpv4.MagicCookie {
		return fmt.Errorf("%w: magic cookie 0x%08x, want 0x%08x",
			ErrValidationFailed, m.Cookie, dhcpv4.MagicCookie)
	}
	return nil
}
