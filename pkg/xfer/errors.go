package xfer

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout indicates no reply arrived within the timeout.
	// The transfer is aborted and must be restarted from the beginning.
	ErrTimeout = errors.New("timed out waiting for reply")
	// ErrTooManyRetries indicates the retry policy gave up on a packet.
	ErrTooManyRetries = errors.New("too many retries")
)

// PacketError reports which packet a transfer failed on.
type PacketError struct {
	Packet   int
	Attempts int
	Err      error
}

// Error implements error.
func (e *PacketError) Error() string {
	return fmt.Sprintf("packet %d (attempt %d): %v", e.Packet, e.Attempts, e.Err)
}

// Unwrap returns the underlying error.
func (e *PacketError) Unwrap() error {
	return e.Err
}
