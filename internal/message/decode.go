package message

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/lumen-dhcpc/lumen-dhcpc/pkg/dhcpv4"
)

// Decode parses one raw DHCPv4 datagram into a Message. The fixed header
// is read field by field with explicit big-endian conversion, the fixed
// fields are validated, and the options region is walked as a TLV stream
// through the option registry. Decoding is atomic: on any failure no
// Message is returned. Every error wraps one of the sentinels in
// errors.go.
func Decode(buf []byte) (*Message, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: nil or empty buffer", ErrInvalidInput)
	}
	if len(buf) < dhcpv4.MinMessageSize || len(buf) > dhcpv4.MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes, want %d-%d",
			ErrInvalidLength, len(buf), dhcpv4.MinMessageSize, dhcpv4.MaxMessageSize)
	}

	m := &Message{}
	m.Opcode = dhcpv4.OpCode(buf[0])
	m.HType = dhcpv4.HardwareType(buf[1])
	m.HLen = buf[2]
	m.Hops = buf[3]
	m.XID = binary.BigEndian.Uint32(buf[4:8])
	m.Secs = binary.BigEndian.Uint16(buf[8:10])
	m.Flags = binary.BigEndian.Uint16(buf[10:12])
	m.CIAddr = binary.BigEndian.Uint32(buf[12:16])
	m.YIAddr = binary.BigEndian.Uint32(buf[16:20])
	m.SIAddr = binary.BigEndian.Uint32(buf[20:24])
	m.GIAddr = binary.BigEndian.Uint32(buf[24:28])

	// chaddr carries HLen significant bytes inside a 16-byte field. A
	// length claiming more than the field holds is a protocol violation;
	// reject before slicing rather than trusting it.
	if int(m.HLen) > dhcpv4.ChaddrSize {
		return nil, fmt.Errorf("%w: hardware address length %d exceeds chaddr field size %d",
			ErrValidationFailed, m.HLen, dhcpv4.ChaddrSize)
	}
	m.CHAddr = make([]byte, m.HLen)
	copy(m.CHAddr, buf[28:28+int(m.HLen)])

	copy(m.SName[:], buf[44:108])
	copy(m.File[:], buf[108:236])

	// A datagram of 236-239 bytes passes the length bounds but cannot
	// carry the cookie; the zero cookie then fails validation below.
	if len(buf) >= dhcpv4.OptionsOffset {
		m.Cookie = binary.BigEndian.Uint32(buf[dhcpv4.CookieOffset:dhcpv4.OptionsOffset])
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	if err := m.parseOptions(buf[dhcpv4.OptionsOffset:]); err != nil {
		return nil, err
	}

	return m, nil
}

// parseOptions walks the options region as a TLV stream (RFC 2132).
// Pad (0) consumes a single byte; End (255) terminates the stream and
// requires that the mandatory Message Type option was seen. Any other
// tag needs a length byte and a value that fits inside the region — a
// value ending exactly at the last byte is legal, one past it is not.
// A repeated tag is a hard error, not a later-wins override.
func (m *Message) parseOptions(opts []byte) error {
	seen := make(map[dhcpv4.OptionCode]bool)

	i := 0
	for i < len(opts) {
		code := dhcpv4.OptionCode(opts[i])
		i++

		if code == dhcpv4.OptionPad {
			continue
		}
		if code == dhcpv4.OptionEnd {
			if !seen[dhcpv4.OptionDHCPMessageType] {
				return fmt.Errorf("%w: missing mandatory option 53 (DHCP Message Type)",
					ErrMalformedOptions)
			}
			return nil
		}

		if i >= len(opts) {
			return fmt.Errorf("%w: option %d has no length byte", ErrMalformedOptions, code)
		}
		length := int(opts[i])
		i++

		if i+length > len(opts) {
			return fmt.Errorf("%w: option %d declares %d value bytes, %d remain",
				ErrInvalidLength, code, length, len(opts)-i)
		}
		if seen[code] {
			return fmt.Errorf("%w: repeated option %d", ErrMalformedOptions, code)
		}
		seen[code] = true

		if binding, ok := optionRegistry[code]; ok {
			if err := binding.parse(m, opts[i:i+length]); err != nil {
				return fmt.Errorf("%w: option %d (%s): %v", ErrOptionDecodeFailed, code, code, err)
			}
		} else {
			slog.Debug("ignoring unrecognized DHCP option",
				"option", int(code), "name", code.String(), "length", length)
		}

		i += length
	}

	// Ran off the region without seeing End.
	return fmt.Errorf("%w: options stream not terminated by End", ErrMalformedOptions)
}
