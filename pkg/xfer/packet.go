package xfer

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ChecksumSize is the number of bytes following the payload.
const ChecksumSize = 2

// Protocol defines the constants the device expects.
type Protocol struct {
	// PayloadSize is the fixed number of payload bytes in every packet.
	PayloadSize int
	// FillByte pads the last payload up to PayloadSize.
	FillByte byte
	// NAK is the reply asking for a resend.
	NAK byte
	// ACK is the only accepted reply when StrictACK is set.
	ACK byte
	// StrictACK rejects replies other than ACK instead of accepting
	// anything that is not NAK.
	StrictACK bool
}

// DefaultProtocol is what the receiving firmware implements.
var DefaultProtocol = Protocol{
	PayloadSize: 128,
	FillByte:    26,
	NAK:         'R',
}

// Validate checks the protocol is usable.
func (p Protocol) Validate() error {
	if p.PayloadSize <= 0 {
		return fmt.Errorf("invalid payload size %d", p.PayloadSize)
	}
	if p.StrictACK && p.ACK == p.NAK {
		return fmt.Errorf("ACK and NAK are both 0x%02x", p.NAK)
	}
	return nil
}

// PacketSize returns the number of bytes of a packet on the wire.
func (p Protocol) PacketSize() int {
	return p.PayloadSize + ChecksumSize
}

// Accepted tells whether a reply byte acknowledges the packet.
func (p Protocol) Accepted(reply byte) bool {
	if p.StrictACK {
		return reply == p.ACK
	}
	return reply != p.NAK
}

// NewPacket pads chunk to PayloadSize and computes the checksum.
func (p Protocol) NewPacket(chunk []byte) (*Packet, error) {
	if len(chunk) > p.PayloadSize {
		return nil, fmt.Errorf("chunk of %d bytes exceeds payload size %d", len(chunk), p.PayloadSize)
	}
	payload := make([]byte, p.PayloadSize)
	n := copy(payload, chunk)
	for i := n; i < len(payload); i++ {
		payload[i] = p.FillByte
	}
	return &Packet{Payload: payload, Checksum: Checksum(payload)}, nil
}

// Checksum computes 0xffff minus the byte sum of the payload, mod 65536.
// For payloads up to 257 bytes the sum never exceeds 0xffff.
func Checksum(payload []byte) uint16 {
	var sum uint16
	for _, b := range payload {
		sum += uint16(b)
	}
	return 0xffff - sum
}

// Packet is a padded payload with its checksum.
type Packet struct {
	Payload  []byte
	Checksum uint16
}

// Bytes returns encoded bytes for sending.
func (p *Packet) Bytes() []byte {
	b := make([]byte, len(p.Payload)+ChecksumSize)
	copy(b, p.Payload)
	binary.LittleEndian.PutUint16(b[len(p.Payload):], p.Checksum)
	return b
}

// WriteTo writes encoded bytes.
func (p *Packet) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.Bytes())
	return int64(n), err
}
