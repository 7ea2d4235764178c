package dhcpv4

// Checksum computes the standard Internet checksum (RFC 1071) over b:
// the one's complement of the one's-complement sum of successive
// big-endian 16-bit words. An odd trailing byte is treated as the high
// byte of a zero-padded word. Used for IP/UDP framing of raw DHCP
// datagrams; must stay bit-exact.
func Checksum(b []byte) uint16 {
	var sum uint32

	for len(b) > 1 {
		sum += uint32(b[0])<<8 | uint32(b[1])
		b = b[2:]
	}
	if len(b) == 1 {
		sum += uint32(b[0]) << 8
	}

	sum = (sum >> 16) + (sum & 0xffff)
	sum += sum >> 16

	return ^uint16(sum)
}
