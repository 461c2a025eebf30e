package xfer

// RetryPolicy decides how many times a rejected packet is sent.
type RetryPolicy struct {
	// MaxAttempts bounds the number of sends of a single packet.
	// 0 means unbounded.
	MaxAttempts int
}

// Unbounded resends rejected packets forever.
var Unbounded = RetryPolicy{}

// Allow tells whether the attempt-th send of a packet may happen.
// attempt starts from 1.
func (p RetryPolicy) Allow(attempt int) bool {
	return p.MaxAttempts <= 0 || attempt <= p.MaxAttempts
}
