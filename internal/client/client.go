// Package client drives DHCPv4 lease acquisition on one interface: the
// INIT/SELECTING/REQUESTING/BOUND/RENEWING/REBINDING state machine of
// RFC 2131 §4.4, built on the message decoder and the lease store.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"time"

	"github.com/lumen-dhcpc/lumen-dhcpc/internal/config"
	"github.com/lumen-dhcpc/lumen-dhcpc/internal/lease"
	"github.com/lumen-dhcpc/lumen-dhcpc/internal/message"
	"github.com/lumen-dhcpc/lumen-dhcpc/internal/metrics"
	"github.com/lumen-dhcpc/lumen-dhcpc/pkg/dhcpv4"
)

// State is a phase of the acquisition state machine.
type State int

const (
	StateInit State = iota
	StateSelecting
	StateRequesting
	StateBound
	StateRenewing
	StateRebinding
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateSelecting:
		return "SELECTING"
	case StateRequesting:
		return "REQUESTING"
	case StateBound:
		return "BOUND"
	case StateRenewing:
		return "RENEWING"
	case StateRebinding:
		return "REBINDING"
	default:
		return "UNKNOWN"
	}
}

// maxBackoff caps the per-attempt retransmission timeout.
const maxBackoff = 64 * time.Second

// Client acquires and maintains a lease on one interface. Not safe for
// concurrent use; Run owns all state.
type Client struct {
	cfg       *config.Config
	iface     *net.Interface
	transport *Transport
	store     *lease.Store // nil disables persistence
	logger    *slog.Logger

	// OnBound, when set, is called after every successful bind with a
	// copy of the new lease.
	OnBound func(*lease.Lease)

	state   State
	xid     uint32
	current *lease.Lease

	acquisitionStart time.Time
}

// New builds a client for the configured interface. The store may be
// nil when persistence is disabled.
func New(cfg *config.Config, store *lease.Store, logger *slog.Logger) (*Client, error) {
	iface, err := net.InterfaceByName(cfg.Client.Interface)
	if err != nil {
		return nil, fmt.Errorf("looking up interface %s: %w", cfg.Client.Interface, err)
	}
	if len(iface.HardwareAddr) != dhcpv4.EthernetAddrLen {
		return nil, fmt.Errorf("interface %s has no Ethernet address", cfg.Client.Interface)
	}

	transport, err := NewTransport(cfg.Client.Interface)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:       cfg,
		iface:     iface,
		transport: transport,
		store:     store,
		logger:    logger.With("interface", cfg.Client.Interface),
		state:     StateInit,
	}, nil
}

// Close releases the socket.
func (c *Client) Close() error {
	return c.transport.Close()
}

// Lease returns a copy of the current binding, or nil when unbound.
func (c *Client) Lease() *lease.Lease {
	if c.current == nil {
		return nil
	}
	return c.current.Clone()
}

// Run drives the state machine until ctx is cancelled. A stored
// unexpired lease for the configured network is reclaimed via
// INIT-REBOOT before falling back to full discovery.
func (c *Client) Run(ctx context.Context) error {
	if old := c.storedLease(); old != nil {
		if err := c.reboot(ctx, old); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Info("could not reclaim stored lease, starting discovery",
				"ip", old.IP, "error", err)
			c.setState(StateInit)
		}
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var err error
		switch c.state {
		case StateInit:
			err = c.acquire(ctx)
		case StateBound:
			err = c.maintain(ctx)
		default:
			// Intermediate states are only held inside acquire,
			// reboot, and maintain.
			c.setState(StateInit)
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("restarting acquisition", "state", c.state, "error", err)
			c.setState(StateInit)
		}
	}
}

// Release tells the server the address is no longer needed and drops
// the stored lease. Best effort: servers do not acknowledge RELEASE.
func (c *Client) Release() error {
	if c.current == nil {
		return nil
	}

	pkt := buildRequest(requestParams{
		msgType:  dhcpv4.MessageTypeRelease,
		xid:      rand.Uint32(),
		ciaddr:   c.current.IP,
		serverID: c.current.ServerID,
	}, c.iface.HardwareAddr)

	if err := c.transport.SendTo(pkt, c.current.ServerID); err != nil {
		return err
	}
	metrics.MessagesSent.WithLabelValues(dhcpv4.MessageTypeRelease.String()).Inc()
	c.logger.Info("released lease", "ip", c.current.IP, "server", c.current.ServerID)

	if c.store != nil && c.cfg.Client.NetworkID != "" {
		if err := c.store.Delete(c.cfg.Client.NetworkID); err != nil {
			return err
		}
	}
	c.current = nil
	metrics.LeaseExpirySeconds.Set(0)
	return nil
}

func (c *Client) setState(s State) {
	if s == c.state {
		return
	}
	metrics.StateTransitions.WithLabelValues(c.state.String(), s.String()).Inc()
	c.logger.Debug("state transition", "from", c.state, "to", s)
	c.state = s
}

func (c *Client) storedLease() *lease.Lease {
	if c.store == nil || c.cfg.Client.NetworkID == "" {
		return nil
	}
	l := c.store.Get(c.cfg.Client.NetworkID)
	if l == nil || l.IsExpired() {
		return nil
	}
	if !bytes.Equal(l.MAC, c.iface.HardwareAddr) {
		c.logger.Debug("stored lease belongs to a different hardware address", "mac", l.MAC)
		return nil
	}
	return l
}

// reboot attempts INIT-REBOOT: broadcast a REQUEST for the previously
// held address without a server identifier (RFC 2131 §3.2).
func (c *Client) reboot(ctx context.Context, old *lease.Lease) error {
	c.xid = rand.Uint32()
	c.acquisitionStart = time.Now()
	c.setState(StateRequesting)

	pkt := buildRequest(requestParams{
		msgType:     dhcpv4.MessageTypeRequest,
		xid:         c.xid,
		requestedIP: old.IP,
		hostname:    c.cfg.Client.Hostname,
	}, c.iface.HardwareAddr)

	m, err := c.exchange(ctx, pkt, nil, c.cfg.GetRequestTimeout(), 1)
	if err != nil {
		return err
	}
	if m.MsgType == dhcpv4.MessageTypeNak {
		return fmt.Errorf("server declined reclaim of %s", old.IP)
	}
	return c.bind(m)
}

// acquire runs DISCOVER/OFFER then REQUEST/ACK from scratch.
func (c *Client) acquire(ctx context.Context) error {
	c.xid = rand.Uint32()
	c.acquisitionStart = time.Now()
	c.setState(StateSelecting)

	discover := buildRequest(requestParams{
		msgType:  dhcpv4.MessageTypeDiscover,
		xid:      c.xid,
		hostname: c.cfg.Client.Hostname,
	}, c.iface.HardwareAddr)

	offer, err := c.exchange(ctx, discover, nil, c.cfg.GetDiscoverTimeout(), c.cfg.Client.MaxRetries)
	if err != nil {
		return fmt.Errorf("no offer received: %w", err)
	}
	if offer.MsgType != dhcpv4.MessageTypeOffer {
		return fmt.Errorf("expected DHCPOFFER, got %s", offer.MsgType)
	}
	c.logger.Info("received offer", "ip", offer.YourIP(), "server", offer.ServerIdentifier())

	c.setState(StateRequesting)
	request := buildRequest(requestParams{
		msgType:     dhcpv4.MessageTypeRequest,
		xid:         c.xid,
		requestedIP: offer.YourIP(),
		serverID:    offer.ServerIdentifier(),
		hostname:    c.cfg.Client.Hostname,
	}, c.iface.HardwareAddr)

	m, err := c.exchange(ctx, request, nil, c.cfg.GetRequestTimeout(), c.cfg.Client.MaxRetries)
	if err != nil {
		return fmt.Errorf("no reply to request: %w", err)
	}
	if m.MsgType == dhcpv4.MessageTypeNak {
		return fmt.Errorf("server %s declined request for %s", m.ServerIdentifier(), offer.YourIP())
	}
	return c.bind(m)
}

// maintain sleeps through BOUND and handles renewal. Renewal is
// unicast to the granting server until T2, then broadcast until
// expiry, then back to INIT.
func (c *Client) maintain(ctx context.Context) error {
	t1, t2 := renewalTimers(c.current.LeaseTime, c.current.RenewalTime, c.current.RebindingTime)

	if err := sleepUntil(ctx, c.current.AcquiredAt.Add(t1)); err != nil {
		return err
	}

	c.setState(StateRenewing)
	c.xid = rand.Uint32()
	renew := buildRequest(requestParams{
		msgType:  dhcpv4.MessageTypeRequest,
		xid:      c.xid,
		ciaddr:   c.current.IP,
		hostname: c.cfg.Client.Hostname,
	}, c.iface.HardwareAddr)

	rebindAt := c.current.AcquiredAt.Add(t2)
	for time.Now().Before(rebindAt) {
		m, err := c.exchange(ctx, renew, c.current.ServerID, c.cfg.GetRequestTimeout(), 1)
		if err == nil {
			if m.MsgType == dhcpv4.MessageTypeNak {
				return fmt.Errorf("server declined renewal of %s", c.current.IP)
			}
			return c.bindRenewal(m)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	c.setState(StateRebinding)
	expiry := c.current.Expiry()
	for time.Now().Before(expiry) {
		m, err := c.exchange(ctx, renew, nil, c.cfg.GetRequestTimeout(), 1)
		if err == nil {
			if m.MsgType == dhcpv4.MessageTypeNak {
				return fmt.Errorf("server declined rebind of %s", c.current.IP)
			}
			return c.bindRenewal(m)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	c.logger.Warn("lease expired without renewal", "ip", c.current.IP)
	c.current = nil
	metrics.LeaseExpirySeconds.Set(0)
	return errors.New("lease expired")
}

// exchange sends pkt (unicast to server, or broadcast when server is
// nil) and waits for a matching reply, retransmitting with doubled
// timeouts up to retries additional times.
func (c *Client) exchange(ctx context.Context, pkt []byte, server net.IP, timeout time.Duration, retries int) (*message.Message, error) {
	msgType := dhcpv4.MessageType(pkt[dhcpv4.OptionsOffset+2])

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var err error
		if server != nil {
			err = c.transport.SendTo(pkt, server)
		} else {
			err = c.transport.Broadcast(pkt)
		}
		if err != nil {
			return nil, err
		}
		metrics.MessagesSent.WithLabelValues(msgType.String()).Inc()

		m, err := c.collectReply(ctx, time.Now().Add(timeout))
		if err == nil {
			return m, nil
		}
		var nerr net.Error
		if !errors.As(err, &nerr) || !nerr.Timeout() {
			return nil, err
		}
		if attempt >= retries {
			return nil, fmt.Errorf("no reply after %d attempts", attempt+1)
		}

		metrics.Retransmissions.WithLabelValues(msgType.String()).Inc()
		timeout *= 2
		if timeout > maxBackoff {
			timeout = maxBackoff
		}
		c.logger.Debug("retransmitting", "msg_type", msgType, "attempt", attempt+1, "timeout", timeout)
	}
}

// collectReply reads datagrams until one decodes cleanly and matches
// the outstanding transaction, or the deadline passes. Malformed and
// mismatched datagrams are counted and dropped without aborting the
// wait: an attacker blasting garbage must not starve out the real
// server's reply.
func (c *Client) collectReply(ctx context.Context, deadline time.Time) (*message.Message, error) {
	buf := make([]byte, 1500)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, from, err := c.transport.Receive(buf, deadline)
		if err != nil {
			return nil, err
		}

		m, err := message.Decode(buf[:n])
		if err != nil {
			metrics.DecodeErrors.WithLabelValues(errKind(err)).Inc()
			c.logger.Debug("dropping undecodable datagram", "from", from, "bytes", n, "error", err)
			continue
		}

		if m.XID != c.xid {
			metrics.DiscardedReplies.WithLabelValues("xid_mismatch").Inc()
			c.logger.Debug("dropping reply for foreign transaction",
				"xid", fmt.Sprintf("0x%08x", m.XID), "want", fmt.Sprintf("0x%08x", c.xid))
			continue
		}
		if !bytes.Equal(m.CHAddr, c.iface.HardwareAddr) {
			metrics.DiscardedReplies.WithLabelValues("chaddr_mismatch").Inc()
			c.logger.Debug("dropping reply for foreign hardware address", "chaddr", m.CHAddr)
			continue
		}
		switch m.MsgType {
		case dhcpv4.MessageTypeOffer, dhcpv4.MessageTypeAck, dhcpv4.MessageTypeNak:
		default:
			metrics.DiscardedReplies.WithLabelValues("unexpected_type").Inc()
			c.logger.Debug("dropping reply with unexpected message type", "msg_type", m.MsgType)
			continue
		}

		metrics.MessagesReceived.WithLabelValues(m.MsgType.String()).Inc()
		return m, nil
	}
}

// bind installs a lease from an ACK and enters BOUND.
func (c *Client) bind(m *message.Message) error {
	l, err := c.leaseFromAck(m)
	if err != nil {
		return err
	}

	c.current = l
	c.setState(StateBound)
	metrics.LeaseAcquisitions.Inc()
	metrics.AcquisitionDuration.Observe(time.Since(c.acquisitionStart).Seconds())
	metrics.LeaseExpirySeconds.Set(float64(l.Expiry().Unix()))
	c.logger.Info("bound",
		"ip", l.IP, "server", l.ServerID,
		"lease_time", l.LeaseTime, "dns_servers", l.DNSServers)

	return c.persistAndNotify(l)
}

// bindRenewal installs a lease from a renewal ACK.
func (c *Client) bindRenewal(m *message.Message) error {
	l, err := c.leaseFromAck(m)
	if err != nil {
		return err
	}

	c.current = l
	c.setState(StateBound)
	metrics.LeaseRenewals.Inc()
	metrics.LeaseExpirySeconds.Set(float64(l.Expiry().Unix()))
	c.logger.Info("renewed", "ip", l.IP, "lease_time", l.LeaseTime)

	return c.persistAndNotify(l)
}

func (c *Client) persistAndNotify(l *lease.Lease) error {
	if c.store != nil && c.cfg.Client.NetworkID != "" {
		if err := c.store.Put(l); err != nil {
			return fmt.Errorf("persisting lease: %w", err)
		}
	}
	if c.OnBound != nil {
		c.OnBound(l.Clone())
	}
	return nil
}

func (c *Client) leaseFromAck(m *message.Message) (*lease.Lease, error) {
	if m.MsgType != dhcpv4.MessageTypeAck {
		return nil, fmt.Errorf("expected DHCPACK, got %s", m.MsgType)
	}
	if m.YIAddr == 0 {
		return nil, errors.New("ACK carries no address")
	}
	if m.LeaseTime == 0 {
		return nil, errors.New("ACK carries no lease time")
	}
	if m.ServerID == 0 {
		return nil, errors.New("ACK carries no server identifier")
	}

	return &lease.Lease{
		NetworkID:     c.cfg.Client.NetworkID,
		Interface:     c.cfg.Client.Interface,
		MAC:           c.iface.HardwareAddr,
		IP:            m.YourIP(),
		ServerID:      m.ServerIdentifier(),
		DNSServers:    m.DNSServerIPs(),
		AcquiredAt:    time.Now(),
		LeaseTime:     m.LeaseDuration(),
		RenewalTime:   m.RenewalDuration(),
		RebindingTime: m.RebindingDuration(),
	}, nil
}

// renewalTimers returns T1 and T2, defaulting to 50% and 87.5% of the
// lease time when the server did not supply options 58/59 (RFC 2131
// §4.4.5).
func renewalTimers(leaseTime, t1, t2 time.Duration) (time.Duration, time.Duration) {
	if t1 == 0 {
		t1 = leaseTime / 2
	}
	if t2 == 0 {
		t2 = leaseTime * 7 / 8
	}
	return t1, t2
}

// errKind maps decoder sentinels to metric label values.
func errKind(err error) string {
	switch {
	case errors.Is(err, message.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, message.ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, message.ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, message.ErrMalformedOptions):
		return "malformed_options"
	case errors.Is(err, message.ErrOptionDecodeFailed):
		return "option_decode_failed"
	default:
		return "other"
	}
}

func sleepUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
