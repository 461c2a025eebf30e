package xfer

// Session is the state of one file transfer.
type Session struct {
	// Packet is the 1-based index of the current packet,
	// or the number of packets sent once done.
	Packet int
	// Attempts counts sends of the current packet.
	Attempts int
	// BytesSent counts file bytes acknowledged by the device.
	BytesSent int64
	// Size is the file size, -1 if unknown.
	Size int64
}

// Remaining returns the number of file bytes not yet acknowledged,
// or -1 if the size is unknown.
func (s Session) Remaining() int64 {
	if s.Size < 0 {
		return -1
	}
	return s.Size - s.BytesSent
}

// Packets returns the number of packets needed for size bytes.
func (p Protocol) Packets(size int64) int64 {
	if size <= 0 || p.PayloadSize <= 0 {
		return 0
	}
	n := int64(p.PayloadSize)
	return (size + n - 1) / n
}
