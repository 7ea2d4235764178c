// Package dhcpv4 provides wire-format constants and encoding helpers for
// DHCPv4 (RFC 2131/2132) messages.
package dhcpv4

import "net"

// DHCP Message Types (RFC 2131 §9.6)
type MessageType byte

const (
	MessageTypeDiscover MessageType = 1 // DHCPDISCOVER
	MessageTypeOffer    MessageType = 2 // DHCPOFFER
	MessageTypeRequest  MessageType = 3 // DHCPREQUEST
	MessageTypeDecline  MessageType = 4 // DHCPDECLINE
	MessageTypeAck      MessageType = 5 // DHCPACK
	MessageTypeNak      MessageType = 6 // DHCPNAK
	MessageTypeRelease  MessageType = 7 // DHCPRELEASE
	MessageTypeInform   MessageType = 8 // DHCPINFORM
)

func (m MessageType) String() string {
	switch m {
	case MessageTypeDiscover:
		return "DHCPDISCOVER"
	case MessageTypeOffer:
		return "DHCPOFFER"
	case MessageTypeRequest:
		return "DHCPREQUEST"
	case MessageTypeDecline:
		return "DHCPDECLINE"
	case MessageTypeAck:
		return "DHCPACK"
	case MessageTypeNak:
		return "DHCPNAK"
	case MessageTypeRelease:
		return "DHCPRELEASE"
	case MessageTypeInform:
		return "DHCPINFORM"
	default:
		return "UNKNOWN"
	}
}

// DHCP Op Codes (RFC 2131 §2)
type OpCode byte

const (
	OpCodeBootRequest OpCode = 1 // BOOTREQUEST
	OpCodeBootReply   OpCode = 2 // BOOTREPLY
)

// Hardware Types (RFC 1700)
type HardwareType byte

const (
	HardwareTypeEthernet HardwareType = 1
)

// DHCP Option Codes (RFC 2132 and extensions)
type OptionCode byte

const (
	OptionPad                  OptionCode = 0
	OptionSubnetMask           OptionCode = 1
	OptionTimeOffset           OptionCode = 2
	OptionRouter               OptionCode = 3
	OptionTimeServer           OptionCode = 4
	OptionNameServer           OptionCode = 5
	OptionDomainNameServer     OptionCode = 6
	OptionHostname             OptionCode = 12
	OptionDomainName           OptionCode = 15
	OptionInterfaceMTU         OptionCode = 26
	OptionBroadcastAddress     OptionCode = 28
	OptionNTPServers           OptionCode = 42
	OptionVendorSpecific       OptionCode = 43
	OptionRequestedIP          OptionCode = 50
	OptionIPLeaseTime          OptionCode = 51
	OptionOverload             OptionCode = 52
	OptionDHCPMessageType      OptionCode = 53
	OptionServerIdentifier     OptionCode = 54
	OptionParameterRequestList OptionCode = 55
	OptionMessage              OptionCode = 56
	OptionMaxDHCPMessageSize   OptionCode = 57
	OptionRenewalTime          OptionCode = 58
	OptionRebindingTime        OptionCode = 59
	OptionVendorClassID        OptionCode = 60
	OptionClientIdentifier     OptionCode = 61
	OptionTFTPServerName       OptionCode = 66
	OptionBootfileName         OptionCode = 67
	OptionClientFQDN           OptionCode = 81
	OptionEnd                  OptionCode = 255
)

// optionNames maps known option codes to their RFC names, for log
// readability when skipping unrecognized options.
var optionNames = map[OptionCode]string{
	OptionSubnetMask:           "Subnet Mask",
	OptionTimeOffset:           "Time Offset",
	OptionRouter:               "Router",
	OptionTimeServer:           "Time Server",
	OptionNameServer:           "Name Server",
	OptionDomainNameServer:     "Domain Name Server",
	OptionHostname:             "Host Name",
	OptionDomainName:           "Domain Name",
	OptionInterfaceMTU:         "Interface MTU",
	OptionBroadcastAddress:     "Broadcast Address",
	OptionNTPServers:           "NTP Servers",
	OptionVendorSpecific:       "Vendor Specific",
	OptionRequestedIP:          "Requested IP",
	OptionIPLeaseTime:          "IP Lease Time",
	OptionOverload:             "Overload",
	OptionDHCPMessageType:      "DHCP Message Type",
	OptionServerIdentifier:     "Server Identifier",
	OptionParameterRequestList: "Parameter Request List",
	OptionMessage:              "Message",
	OptionMaxDHCPMessageSize:   "Max DHCP Message Size",
	OptionRenewalTime:          "Renewal Time (T1)",
	OptionRebindingTime:        "Rebinding Time (T2)",
	OptionVendorClassID:        "Vendor Class Identifier",
	OptionClientIdentifier:     "Client Identifier",
	OptionTFTPServerName:       "TFTP Server Name",
	OptionBootfileName:         "Bootfile Name",
	OptionClientFQDN:           "Client FQDN",
}

func (c OptionCode) String() string {
	if name, ok := optionNames[c]; ok {
		return name
	}
	return "Unknown"
}

// DHCP Message Layout (RFC 2131 §2)
const (
	FixedHeaderSize = 236 // op through file, before the magic cookie
	CookieOffset    = 236
	OptionsOffset   = 240 // first option byte
	MinMessageSize  = 236 // smallest accepted datagram
	MaxMessageSize  = 548 // largest accepted datagram
	OptionsAreaSize = 312 // maximum options region
	ChaddrSize      = 16  // chaddr field width
	ServerNameSize  = 64  // sname field width
	BootFileSize    = 128 // file field width
	EthernetAddrLen = 6   // hlen for Ethernet
)

// DHCP Ports
const (
	ServerPort = 67
	ClientPort = 68
)

// MagicCookie is the fixed marker confirming DHCP-format options follow
// (RFC 2131 §3).
const MagicCookie uint32 = 0x63825363

// MagicCookieBytes is the cookie in wire order.
var MagicCookieBytes = []byte{99, 130, 83, 99}

// Broadcast MAC and IP
var (
	BroadcastMAC = net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	BroadcastIP  = net.IPv4(255, 255, 255, 255)
	ZeroIP       = net.IPv4(0, 0, 0, 0)
)
