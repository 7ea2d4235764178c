package client

import (
	"net"

	"github.com/lumen-dhcpc/lumen-dhcpc/pkg/dhcpv4"
)

// minPacketSize pads outgoing packets to the BOOTP minimum so relays
// that enforce it do not drop us.
const minPacketSize = 300

// parameterRequestList is the option 55 payload sent with every
// DISCOVER and REQUEST: subnet mask, router, DNS, domain name, lease
// time, T1, T2.
var parameterRequestList = []byte{
	byte(dhcpv4.OptionSubnetMask),
	byte(dhcpv4.OptionRouter),
	byte(dhcpv4.OptionDomainNameServer),
	byte(dhcpv4.OptionDomainName),
	byte(dhcpv4.OptionIPLeaseTime),
	byte(dhcpv4.OptionRenewalTime),
	byte(dhcpv4.OptionRebindingTime),
}

// requestParams carries the per-message variable parts of an outgoing
// client message. Zero values omit the corresponding option.
type requestParams struct {
	msgType     dhcpv4.MessageType
	xid         uint32
	ciaddr      net.IP // set when renewing, rebinding, or releasing
	requestedIP net.IP // option 50
	serverID    net.IP // option 54
	hostname    string // option 12
}

// buildRequest serializes one outgoing BOOTREQUEST for the given
// hardware address. Replies come back unicast: the broadcast flag is
// never set, and the validator holds servers to that.
func buildRequest(p requestParams, mac net.HardwareAddr) []byte {
	opts := []byte{byte(dhcpv4.OptionDHCPMessageType), 1, byte(p.msgType)}

	// Client identifier: hardware type prefix plus MAC (RFC 2132 §9.14).
	opts = append(opts, byte(dhcpv4.OptionClientIdentifier), byte(1+len(mac)), byte(dhcpv4.HardwareTypeEthernet))
	opts = append(opts, mac...)

	if p.requestedIP != nil {
		opts = append(opts, byte(dhcpv4.OptionRequestedIP), 4)
		opts = append(opts, dhcpv4.IPToBytes(p.requestedIP)...)
	}
	if p.serverID != nil {
		opts = append(opts, byte(dhcpv4.OptionServerIdentifier), 4)
		opts = append(opts, dhcpv4.IPToBytes(p.serverID)...)
	}
	if p.hostname != "" {
		opts = append(opts, byte(dhcpv4.OptionHostname), byte(len(p.hostname)))
		opts = append(opts, p.hostname...)
	}
	if p.msgType == dhcpv4.MessageTypeDiscover || p.msgType == dhcpv4.MessageTypeRequest {
		opts = append(opts, byte(dhcpv4.OptionParameterRequestList), byte(len(parameterRequestList)))
		opts = append(opts, parameterRequestList...)
	}
	opts = append(opts, byte(dhcpv4.OptionEnd))

	size := dhcpv4.OptionsOffset + len(opts)
	if size < minPacketSize {
		size = minPacketSize
	}
	buf := make([]byte, size)

	buf[0] = byte(dhcpv4.OpCodeBootRequest)
	buf[1] = byte(dhcpv4.HardwareTypeEthernet)
	buf[2] = dhcpv4.EthernetAddrLen
	copy(buf[4:8], dhcpv4.Uint32ToBytes(p.xid))
	if p.ciaddr != nil {
		copy(buf[12:16], dhcpv4.IPToBytes(p.ciaddr))
	}
	copy(buf[28:28+len(mac)], mac)
	copy(buf[dhcpv4.CookieOffset:dhcpv4.OptionsOffset], dhcpv4.MagicCookieBytes)
	copy(buf[dhcpv4.OptionsOffset:], opts)

	return buf
}
