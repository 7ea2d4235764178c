package client

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lumen-dhcpc/lumen-dhcpc/internal/message"
)

func TestRenewalTimers(t *testing.T) {
	tests := []struct {
		name              string
		leaseTime, t1, t2 time.Duration
		wantT1, wantT2    time.Duration
	}{
		{
			"server supplied both",
			24 * time.Hour, 10 * time.Hour, 20 * time.Hour,
			10 * time.Hour, 20 * time.Hour,
		},
		{
			"defaults from lease time",
			8 * time.Hour, 0, 0,
			4 * time.Hour, 7 * time.Hour,
		},
		{
			"only T1 supplied",
			8 * time.Hour, 3 * time.Hour, 0,
			3 * time.Hour, 7 * time.Hour,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t1, t2 := renewalTimers(tt.leaseTime, tt.t1, tt.t2)
			if t1 != tt.wantT1 || t2 != tt.wantT2 {
				t.Errorf("renewalTimers = %v, %v, want %v, %v", t1, t2, tt.wantT1, tt.wantT2)
			}
		})
	}
}

func TestErrKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{message.ErrInvalidInput, "invalid_input"},
		{message.ErrInvalidLength, "invalid_length"},
		{message.ErrValidationFailed, "validation_failed"},
		{message.ErrMalformedOptions, "malformed_options"},
		{message.ErrOptionDecodeFailed, "option_decode_failed"},
		{fmt.Errorf("wrapped: %w", message.ErrMalformedOptions), "malformed_options"},
		{errors.New("something else"), "other"},
	}
	for _, tt := range tests {
		if got := errKind(tt.err); got != tt.want {
			t.Errorf("errKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestStateString(t *testing.T) {
	states := map[State]string{
		StateInit:       "INIT",
		StateSelecting:  "SELECTING",
		StateRequesting: "REQUESTING",
		StateBound:      "BOUND",
		StateRenewing:   "RENEWING",
		StateRebinding:  "REBINDING",
		State(99):       "UNKNOWN",
	}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
