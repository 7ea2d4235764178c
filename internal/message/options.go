package message

import (
	"fmt"

	"github.com/lumen-dhcpc/lumen-dhcpc/pkg/dhcpv4"
)

// optionBinding ties an option code to the parser that decodes its value
// and the Message field it populates. The registry is static: each entry
// names its output field through the assignment closure, so there are no
// runtime output slots to dangle.
type optionBinding struct {
	parse func(m *Message, value []byte) error
}

// uint8Option builds a binding parser requiring exactly one value byte.
func uint8Option(assign func(*Message, byte)) func(*Message, []byte) error {
	return func(m *Message, value []byte) error {
		if len(value) != 1 {
			return fmt.Errorf("expected 1 byte, got %d", len(value))
		}
		assign(m, value[0])
		return nil
	}
}

// uint32Option builds a binding parser requiring exactly four value
// bytes, reassembled from network byte order.
func uint32Option(assign func(*Message, uint32)) func(*Message, []byte) error {
	return func(m *Message, value []byte) error {
		v, err := dhcpv4.BytesToUint32(value)
		if err != nil {
			return err
		}
		assign(m, v)
		return nil
	}
}

// uint32ListOption builds a binding parser requiring a positive multiple
// of four value bytes, one uint32 per chunk in stream order.
func uint32ListOption(assign func(*Message, []uint32)) func(*Message, []byte) error {
	return func(m *Message, value []byte) error {
		vs, err := dhcpv4.BytesToUint32List(value)
		if err != nil {
			return err
		}
		assign(m, vs)
		return nil
	}
}

// optionRegistry maps the option codes this client acts on to their
// decoders. Codes not listed here are skipped during decode.
var optionRegistry = map[dhcpv4.OptionCode]optionBinding{
	dhcpv4.OptionDomainNameServer: {uint32ListOption(func(m *Message, v []uint32) { m.DNSServers = v })},
	dhcpv4.OptionIPLeaseTime:      {uint32Option(func(m *Message, v uint32) { m.LeaseTime = v })},
	dhcpv4.OptionDHCPMessageType:  {uint8Option(func(m *Message, v byte) { m.MsgType = dhcpv4.MessageType(v) })},
	dhcpv4.OptionServerIdentifier: {uint32Option(func(m *Message, v uint32) { m.ServerID = v })},
	dhcpv4.OptionRenewalTime:      {uint32Option(func(m *Message, v uint32) { m.RenewalTime = v })},
	dhcpv4.OptionRebindingTime:    {uint32Option(func(m *Message, v uint32) { m.RebindingTime = v })},
}
