package dhcpv4

import (
	"net"
	"testing"
)

func TestBytesToUint32(t *testing.T) {
	v, err := BytesToUint32([]byte{0x00, 0x00, 0x01, 0x00})
	if err != nil {
		t.Fatalf("BytesToUint32 error: %v", err)
	}
	if v != 256 {
		t.Errorf("BytesToUint32 = %d, want 256", v)
	}

	if _, err := BytesToUint32([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for 3-byte input")
	}
}

func TestBytesToUint16(t *testing.T) {
	v, err := BytesToUint16([]byte{0x02, 0x30})
	if err != nil {
		t.Fatalf("BytesToUint16 error: %v", err)
	}
	if v != 560 {
		t.Errorf("BytesToUint16 = %d, want 560", v)
	}

	if _, err := BytesToUint16([]byte{1}); err == nil {
		t.Error("expected error for 1-byte input")
	}
}

func TestUint32RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 256, 0xdeadbeef, 0xffffffff} {
		got, err := BytesToUint32(Uint32ToBytes(v))
		if err != nil {
			t.Fatalf("round trip error for %d: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip = %d, want %d", got, v)
		}
	}
}

func TestIPUint32Conversions(t *testing.T) {
	ip := net.IPv4(8, 8, 4, 4)
	n := IPToUint32(ip)
	if n != 0x08080404 {
		t.Errorf("IPToUint32(8.8.4.4) = 0x%08x, want 0x08080404", n)
	}
	if back := Uint32ToIP(n); !back.Equal(ip) {
		t.Errorf("Uint32ToIP = %s, want %s", back, ip)
	}

	// Non-IPv4 addresses map to zero
	if IPToUint32(net.ParseIP("2001:db8::1")) != 0 {
		t.Error("IPToUint32 of IPv6 address should be 0")
	}
}

func TestBytesToUint32List(t *testing.T) {
	ns, err := BytesToUint32List([]byte{8, 8, 8, 8, 8, 8, 4, 4})
	if err != nil {
		t.Fatalf("BytesToUint32List error: %v", err)
	}
	if len(ns) != 2 || ns[0] != 0x08080808 || ns[1] != 0x08080404 {
		t.Errorf("BytesToUint32List = %v, want [0x08080808 0x08080404]", ns)
	}

	if _, err := BytesToUint32List(nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := BytesToUint32List([]byte{1, 2, 3, 4, 5}); err == nil {
		t.Error("expected error for non-multiple-of-4 input")
	}
}

func TestUint32ListToIPs(t *testing.T) {
	ips := Uint32ListToIPs([]uint32{0x08080808, 0x08080404})
	if len(ips) != 2 {
		t.Fatalf("got %d IPs, want 2", len(ips))
	}
	if !ips[0].Equal(net.IPv4(8, 8, 8, 8)) || !ips[1].Equal(net.IPv4(8, 8, 4, 4)) {
		t.Errorf("Uint32ListToIPs = %v, want [8.8.8.8 8.8.4.4]", ips)
	}
}

func TestFormatMAC(t *testing.T) {
	got := FormatMAC([]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
	if got != "00:11:22:33:44:55" {
		t.Errorf("FormatMAC = %q, want %q", got, "00:11:22:33:44:55")
	}
}
