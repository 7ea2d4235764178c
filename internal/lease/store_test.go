package lease

import (
	"net"
	"path/filepath"
	"testing"
	"time"
)

func testLease(networkID string) *Lease {
	return &Lease{
		NetworkID:     networkID,
		Interface:     "eth0",
		MAC:           net.HardwareAddr{0xAA, 0xBB, 0xCC, 0x00, 0x11, 0x22},
		IP:            net.IPv4(192, 168, 1, 100),
		ServerID:      net.IPv4(192, 168, 1, 1),
		DNSServers:    []net.IP{net.IPv4(8, 8, 8, 8), net.IPv4(8, 8, 4, 4)},
		AcquiredAt:    time.Now().Truncate(time.Second),
		LeaseTime:     24 * time.Hour,
		RenewalTime:   12 * time.Hour,
		RebindingTime: 21 * time.Hour,
	}
}

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leases.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestStorePutGet(t *testing.T) {
	s, _ := openTestStore(t)

	l := testLease("home-wifi")
	if err := s.Put(l); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got := s.Get("home-wifi")
	if got == nil {
		t.Fatal("Get returned nil after Put")
	}
	if !got.IP.Equal(l.IP) {
		t.Errorf("IP = %v, want %v", got.IP, l.IP)
	}
	if got.MAC.String() != l.MAC.String() {
		t.Errorf("MAC = %v, want %v", got.MAC, l.MAC)
	}
	if got.LeaseTime != l.LeaseTime {
		t.Errorf("LeaseTime = %v, want %v", got.LeaseTime, l.LeaseTime)
	}
	if len(got.DNSServers) != 2 || !got.DNSServers[0].Equal(net.IPv4(8, 8, 8, 8)) {
		t.Errorf("DNSServers = %v", got.DNSServers)
	}
}

func TestStoreGetUnknownNetwork(t *testing.T) {
	s, _ := openTestStore(t)
	if got := s.Get("never-seen"); got != nil {
		t.Errorf("Get(unknown) = %v, want nil", got)
	}
}

func TestStorePutRejectsEmptyNetworkID(t *testing.T) {
	s, _ := openTestStore(t)
	l := testLease("")
	if err := s.Put(l); err == nil {
		t.Error("Put with empty network id should fail")
	}
}

func TestStoreOneLeasePerNetwork(t *testing.T) {
	s, _ := openTestStore(t)

	first := testLease("office")
	if err := s.Put(first); err != nil {
		t.Fatalf("Put: %v", err)
	}

	second := testLease("office")
	second.IP = net.IPv4(10, 0, 0, 50)
	if err := s.Put(second); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
	if got := s.Get("office"); !got.IP.Equal(second.IP) {
		t.Errorf("IP = %v, want %v", got.IP, second.IP)
	}
}

func TestStoreDelete(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Put(testLease("home-wifi")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete("home-wifi"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := s.Get("home-wifi"); got != nil {
		t.Errorf("Get after Delete = %v, want nil", got)
	}

	// Deleting a missing lease is not an error.
	if err := s.Delete("home-wifi"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leases.db")

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	l := testLease("home-wifi")
	if err := s.Put(l); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got := s2.Get("home-wifi")
	if got == nil {
		t.Fatal("lease lost across reopen")
	}
	if !got.IP.Equal(l.IP) || got.NetworkID != l.NetworkID {
		t.Errorf("reloaded lease = %+v, want %+v", got, l)
	}
}

func TestStoreGetReturnsClone(t *testing.T) {
	s, _ := openTestStore(t)
	if err := s.Put(testLease("home-wifi")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got := s.Get("home-wifi")
	got.IP[0] = 99

	again := s.Get("home-wifi")
	if again.IP.Equal(got.IP) {
		t.Error("mutating a returned lease leaked into the store")
	}
}

func TestLeaseExpiry(t *testing.T) {
	l := testLease("home-wifi")
	l.AcquiredAt = time.Now().Add(-25 * time.Hour)
	if !l.IsExpired() {
		t.Error("lease acquired 25h ago with 24h duration should be expired")
	}
	if l.Remaining() != 0 {
		t.Errorf("Remaining on expired lease = %v, want 0", l.Remaining())
	}

	l.AcquiredAt = time.Now()
	if l.IsExpired() {
		t.Error("fresh lease reported expired")
	}
	if l.Remaining() > 24*time.Hour {
		t.Errorf("Remaining = %v, want <= 24h", l.Remaining())
	}
}
