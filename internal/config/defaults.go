package config

import "time"

// Default configuration values.
const (
	DefaultInterface       = "eth0"
	DefaultLogLevel        = "info"
	DefaultLeaseDB         = "/var/lib/lumen-dhcpc/leases.db"
	DefaultDiscoverTimeout = 4 * time.Second
	DefaultRequestTimeout  = 4 * time.Second
	DefaultMaxRetries      = 5
	DefaultMetricsListen   = ""
	DefaultDNSCheckTimeout = 2 * time.Second
	DefaultDNSCheckDomain  = "."
)
