package message

import "errors"

// Decode failure taxonomy. Every failure returned by Decode wraps exactly
// one of these sentinels; callers discriminate with errors.Is to decide
// whether to drop the datagram and keep waiting or abandon the exchange.
var (
	// ErrInvalidInput is returned for a nil or empty buffer.
	ErrInvalidInput = errors.New("invalid input buffer")

	// ErrInvalidLength is returned when the datagram length is outside
	// [236, 548], or an option's declared length would overrun the buffer.
	ErrInvalidLength = errors.New("invalid message length")

	// ErrValidationFailed is returned when a fixed-header field fails the
	// reply validity checks (opcode, hardware type/length, secs, flags,
	// magic cookie).
	ErrValidationFailed = errors.New("message validation failed")

	// ErrMalformedOptions is returned for a structurally broken options
	// stream: missing length byte, repeated option, missing End
	// terminator, or missing mandatory Message Type option.
	ErrMalformedOptions = errors.New("malformed options")

	// ErrOptionDecodeFailed is returned when a recognized option's value
	// does not match its type's length constraints.
	ErrOptionDecodeFailed = errors.New("option decode failed")
)
