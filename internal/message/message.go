// Package message implements decoding and validation of DHCPv4 server
// replies (RFC 2131 §2, RFC 2132), including the typed option extraction
// used by the client state machine. The decoder operates on untrusted
// bytes: every length is checked before any field is trusted.
package message

import (
	"bytes"
	"net"
	"time"

	"github.com/lumen-dhcpc/lumen-dhcpc/pkg/dhcpv4"
)

// Message is one decoded DHCPv4 packet. Multi-byte integer fields are in
// host order; the four address fields stay as uint32 the way the state
// machine consumes them, with net.IP accessors for display.
type Message struct {
	Opcode dhcpv4.OpCode       // 1=BOOTREQUEST, 2=BOOTREPLY
	HType  dhcpv4.HardwareType // Hardware address type (1=Ethernet)
	HLen   byte                // Hardware address length (6 for Ethernet)
	Hops   byte                // Relay hops, unchecked
	XID    uint32              // Transaction ID
	Secs   uint16              // Seconds elapsed
	Flags  uint16              // Flags (bit 15 = broadcast)
	CIAddr uint32              // Client IP address
	YIAddr uint32              // 'Your' (client) IP address
	SIAddr uint32              // Next server IP address
	GIAddr uint32              // Relay agent IP address
	CHAddr net.HardwareAddr    // Client hardware address, HLen bytes
	SName  [dhcpv4.ServerNameSize]byte // Server host name
	File   [dhcpv4.BootFileSize]byte   // Boot file name
	Cookie uint32              // Magic cookie

	// Typed option outputs, populated by the option registry.
	MsgType       dhcpv4.MessageType // option 53
	LeaseTime     uint32             // option 51, seconds
	ServerID      uint32             // option 54
	RenewalTime   uint32             // option 58, seconds
	RebindingTime uint32             // option 59, seconds
	DNSServers    []uint32           // option 6, stream order
}

// ClientIP returns ciaddr as a net.IP.
func (m *Message) ClientIP() net.IP { return dhcpv4.Uint32ToIP(m.CIAddr) }

// YourIP returns yiaddr (the address being offered or acknowledged).
func (m *Message) YourIP() net.IP { return dhcpv4.Uint32ToIP(m.YIAddr) }

// NextServerIP returns siaddr.
func (m *Message) NextServerIP() net.IP { return dhcpv4.Uint32ToIP(m.SIAddr) }

// RelayAgentIP returns giaddr.
func (m *Message) RelayAgentIP() net.IP { return dhcpv4.Uint32ToIP(m.GIAddr) }

// ServerIdentifier returns option 54 as a net.IP.
func (m *Message) ServerIdentifier() net.IP { return dhcpv4.Uint32ToIP(m.ServerID) }

// DNSServerIPs returns option 6 as net.IPs, preserving stream order.
func (m *Message) DNSServerIPs() []net.IP { return dhcpv4.Uint32ListToIPs(m.DNSServers) }

// ServerName returns the sname field up to the first NUL.
func (m *Message) ServerName() string { return cString(m.SName[:]) }

// BootFile returns the file field up to the first NUL.
func (m *Message) BootFile() string { return cString(m.File[:]) }

// LeaseDuration returns option 51 as a duration.
func (m *Message) LeaseDuration() time.Duration {
	return time.Duration(m.LeaseTime) * time.Second
}

// RenewalDuration returns option 58 as a duration, or zero if absent.
func (m *Message) RenewalDuration() time.Duration {
	return time.Duration(m.RenewalTime) * time.Second
}

// RebindingDuration returns option 59 as a duration, or zero if absent.
func (m *Message) RebindingDuration() time.Duration {
	return time.Duration(m.RebindingTime) * time.Second
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
