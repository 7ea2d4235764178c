package client

import (
	"context"
	"fmt"
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/lumen-dhcpc/lumen-dhcpc/pkg/dhcpv4"
)

// Transport owns the client's UDP socket on port 68. The socket is
// bound to one interface so replies on other links never reach the
// state machine, and broadcast is enabled for the pre-address phases.
type Transport struct {
	conn *net.UDPConn
}

// NewTransport opens the client socket bound to ifname.
func NewTransport(ifname string) (*Transport, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, raw syscall.RawConn) error {
			var ctrlErr error
			err := raw.Control(func(fd uintptr) {
				ctrlErr = setSocketOptions(int(fd), ifname)
			})
			if err != nil {
				return err
			}
			return ctrlErr
		},
	}

	pc, err := lc.ListenPacket(context.Background(), "udp4", fmt.Sprintf("0.0.0.0:%d", dhcpv4.ClientPort))
	if err != nil {
		return nil, fmt.Errorf("opening client socket on %s: %w", ifname, err)
	}

	return &Transport{conn: pc.(*net.UDPConn)}, nil
}

func setSocketOptions(fd int, ifname string) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("setting SO_REUSEADDR: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_BROADCAST, 1); err != nil {
		return fmt.Errorf("setting SO_BROADCAST: %w", err)
	}
	if ifname != "" {
		if err := unix.BindToDevice(fd, ifname); err != nil {
			return fmt.Errorf("binding socket to %s: %w", ifname, err)
		}
	}
	return nil
}

// Broadcast sends one datagram to 255.255.255.255:67.
func (t *Transport) Broadcast(b []byte) error {
	dst := &net.UDPAddr{IP: dhcpv4.BroadcastIP, Port: dhcpv4.ServerPort}
	if _, err := t.conn.WriteToUDP(b, dst); err != nil {
		return fmt.Errorf("broadcasting %d bytes: %w", len(b), err)
	}
	return nil
}

// SendTo sends one datagram unicast to a known server.
func (t *Transport) SendTo(b []byte, server net.IP) error {
	dst := &net.UDPAddr{IP: server, Port: dhcpv4.ServerPort}
	if _, err := t.conn.WriteToUDP(b, dst); err != nil {
		return fmt.Errorf("sending %d bytes to %s: %w", len(b), server, err)
	}
	return nil
}

// Receive reads one datagram into buf, waiting at most until deadline.
// Timeouts surface as errors satisfying net.Error with Timeout() true.
func (t *Transport) Receive(buf []byte, deadline time.Time) (int, *net.UDPAddr, error) {
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return 0, nil, fmt.Errorf("setting read deadline: %w", err)
	}
	n, addr, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		return 0, nil, err
	}
	return n, addr, nil
}

// Close closes the socket, unblocking any pending Receive.
func (t *Transport) Close() error {
	return t.conn.Close()
}
