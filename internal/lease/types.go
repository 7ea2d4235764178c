// Package lease persists the lease a client holds on each network so a
// restart can try to reclaim its previous address instead of starting
// from scratch.
package lease

import (
	"encoding/json"
	"net"
	"time"
)

// Lease is one acquired binding, as granted by a server's ACK.
type Lease struct {
	// NetworkID names the network the lease was acquired on. Leases are
	// only meaningful on the network that granted them; the caller picks
	// an identifier stable across reattachments (SSID, wired profile
	// name, and so on).
	NetworkID string `json:"network_id"`

	Interface string           `json:"interface"`
	MAC       net.HardwareAddr `json:"mac"`

	IP       net.IP `json:"ip"`
	ServerID net.IP `json:"server_id"`

	DNSServers []net.IP `json:"dns_servers,omitempty"`

	AcquiredAt    time.Time     `json:"acquired_at"`
	LeaseTime     time.Duration `json:"lease_time"`
	RenewalTime   time.Duration `json:"renewal_time,omitempty"`
	RebindingTime time.Duration `json:"rebinding_time,omitempty"`
}

// Expiry returns the absolute expiry time.
func (l *Lease) Expiry() time.Time {
	return l.AcquiredAt.Add(l.LeaseTime)
}

// IsExpired returns true if the lease has expired.
func (l *Lease) IsExpired() bool {
	return time.Now().After(l.Expiry())
}

// Remaining returns the time remaining on the lease.
func (l *Lease) Remaining() time.Duration {
	r := time.Until(l.Expiry())
	if r < 0 {
		return 0
	}
	return r
}

// MarshalJSON implements custom JSON marshalling.
func (l *Lease) MarshalJSON() ([]byte, error) {
	type Alias Lease
	return json.Marshal(&struct {
		MAC string `json:"mac"`
		*Alias
	}{
		MAC:   l.MAC.String(),
		Alias: (*Alias)(l),
	})
}

// UnmarshalJSON implements custom JSON unmarshalling.
func (l *Lease) UnmarshalJSON(data []byte) error {
	type Alias Lease
	aux := &struct {
		MAC string `json:"mac"`
		*Alias
	}{
		Alias: (*Alias)(l),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	var err error
	l.MAC, err = net.ParseMAC(aux.MAC)
	if err != nil {
		return err
	}
	return nil
}

// Clone returns a deep copy of the lease.
func (l *Lease) Clone() *Lease {
	c := *l
	c.MAC = make(net.HardwareAddr, len(l.MAC))
	copy(c.MAC, l.MAC)
	c.IP = make(net.IP, len(l.IP))
	copy(c.IP, l.IP)
	c.ServerID = make(net.IP, len(l.ServerID))
	copy(c.ServerID, l.ServerID)
	if l.DNSServers != nil {
		c.DNSServers = make([]net.IP, len(l.DNSServers))
		for i, s := range l.DNSServers {
			c.DNSServers[i] = make(net.IP, len(s))
			copy(c.DNSServers[i], s)
		}
	}
	return &c
}
