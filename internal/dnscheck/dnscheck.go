// Package dnscheck probes the DNS servers a lease handed out, so a
// server that assigns dead resolvers is noticed right after binding
// instead of at first lookup.
package dnscheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/miekg/dns"

	"github.com/lumen-dhcpc/lumen-dhcpc/internal/metrics"
)

// Result is the outcome of probing one server.
type Result struct {
	Server  net.IP
	OK      bool
	Latency time.Duration
	Err     error
}

// Checker probes resolvers with a single recursive query each.
type Checker struct {
	timeout time.Duration
	domain  string
	port    string
	logger  *slog.Logger
}

// New builds a checker. domain is the question name; "." asks for the
// root NS set, which every recursive resolver can answer.
func New(timeout time.Duration, domain string, logger *slog.Logger) *Checker {
	return &Checker{
		timeout: timeout,
		domain:  dns.Fqdn(domain),
		port:    "53",
		logger:  logger,
	}
}

// ProbeAll queries every server once and returns per-server results.
func (c *Checker) ProbeAll(ctx context.Context, servers []net.IP) []Result {
	results := make([]Result, 0, len(servers))
	for _, server := range servers {
		if ctx.Err() != nil {
			return results
		}
		results = append(results, c.probe(ctx, server))
	}
	return results
}

func (c *Checker) probe(ctx context.Context, server net.IP) Result {
	client := &dns.Client{Timeout: c.timeout}

	qtype := dns.TypeNS
	if c.domain != "." {
		qtype = dns.TypeA
	}
	msg := new(dns.Msg)
	msg.SetQuestion(c.domain, qtype)
	msg.RecursionDesired = true

	addr := net.JoinHostPort(server.String(), c.port)
	start := time.Now()
	reply, _, err := client.ExchangeContext(ctx, msg, addr)
	elapsed := time.Since(start)

	if err != nil {
		metrics.DNSProbes.WithLabelValues(probeFailureLabel(err)).Inc()
		c.logger.Warn("DNS server probe failed", "server", server, "error", err)
		return Result{Server: server, Err: err}
	}
	if reply.Rcode != dns.RcodeSuccess && reply.Rcode != dns.RcodeNameError {
		err := fmt.Errorf("probe of %s returned %s", server, dns.RcodeToString[reply.Rcode])
		metrics.DNSProbes.WithLabelValues("error").Inc()
		c.logger.Warn("DNS server probe failed", "server", server, "rcode", dns.RcodeToString[reply.Rcode])
		return Result{Server: server, Err: err}
	}

	metrics.DNSProbes.WithLabelValues("ok").Inc()
	metrics.DNSProbeDuration.Observe(elapsed.Seconds())
	c.logger.Debug("DNS server probe ok",
		"server", server, "latency_ms", float64(elapsed.Microseconds())/1000)
	return Result{Server: server, OK: true, Latency: elapsed}
}

func probeFailureLabel(err error) string {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return "timeout"
	}
	return "error"
}
