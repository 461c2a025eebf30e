package xfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultTimeout is how long Sender waits for a reply.
const DefaultTimeout = 5 * time.Second

// Channel is a duplex byte stream with a read timeout,
// e.g. go.bug.st/serial.Port.
// A Read returning 0 bytes without error, or a timeout error,
// means nothing arrived within the timeout.
type Channel interface {
	io.ReadWriter
	SetReadTimeout(time.Duration) error
}

// Sender transfers files over a Channel.
// A Sender must not be used by multiple transfers at the same time.
type Sender struct {
	Channel  Channel
	Protocol Protocol
	Retry    RetryPolicy
	Timeout  time.Duration
	Reporter Reporter
}

// NewSender creates a Sender with the default protocol.
func NewSender(ch Channel) *Sender {
	return &Sender{
		Channel:  ch,
		Protocol: DefaultProtocol,
		Retry:    Unbounded,
		Timeout:  DefaultTimeout,
		Reporter: LogReporter{},
	}
}

// SendFile sends the file at path.
func (s *Sender) SendFile(ctx context.Context, path string) (Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return Session{Size: -1}, err
	}
	defer f.Close()
	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return s.Send(ctx, f, size)
}

// Send sends everything read from r. size is only used for reporting,
// -1 if unknown.
func (s *Sender) Send(ctx context.Context, r io.Reader, size int64) (sess Session, err error) {
	sess.Size = size
	defer func() {
		if err != nil {
			s.report(Event{Kind: EventFailed, Session: sess, Err: err})
		}
	}()
	if err = s.Protocol.Validate(); err != nil {
		return
	}
	if err = s.Channel.SetReadTimeout(s.timeout()); err != nil {
		return
	}

	s.report(Event{Kind: EventStart, Session: sess})
	chunks := NewChunker(r, s.Protocol.PayloadSize)
	for {
		chunk, e := chunks.Next()
		if e == io.EOF {
			break
		}
		if e != nil {
			return sess, e
		}
		pkt, e := s.Protocol.NewPacket(chunk)
		if e != nil {
			return sess, e
		}
		sess.Packet++
		sess.Attempts = 0
		if err = s.deliver(ctx, &sess, pkt.Bytes()); err != nil {
			return
		}
		sess.BytesSent += int64(len(chunk))
	}
	s.report(Event{Kind: EventDone, Session: sess})
	return
}

// deliver sends the encoded packet until it's accepted.
func (s *Sender) deliver(ctx context.Context, sess *Session, b []byte) error {
	reply := make([]byte, 1)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		sess.Attempts++
		if !s.Retry.Allow(sess.Attempts) {
			return s.packetErr(sess, ErrTooManyRetries)
		}
		if _, err := s.Channel.Write(b); err != nil {
			return s.packetErr(sess, err)
		}
		s.report(Event{Kind: EventSent, Session: *sess})

		n, err := s.Channel.Read(reply)
		if err != nil && !os.IsTimeout(err) {
			return s.packetErr(sess, err)
		}
		if n == 0 {
			return s.packetErr(sess, ErrTimeout)
		}
		if s.Protocol.Accepted(reply[0]) {
			s.report(Event{Kind: EventAcknowledged, Session: *sess, Reply: reply[0]})
			return nil
		}
		s.report(Event{Kind: EventRejected, Session: *sess, Reply: reply[0]})
	}
}

func (s *Sender) packetErr(sess *Session, err error) error {
	return &PacketError{Packet: sess.Packet, Attempts: sess.Attempts, Err: err}
}

func (s *Sender) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultTimeout
}

func (s *Sender) report(ev Event) {
	if s.Reporter != nil {
		s.Reporter.Report(ev)
	}
}

// String describes the sender for diagnostics.
func (s *Sender) String() string {
	return fmt.Sprintf("payload=%d fill=0x%02x nak=0x%02x timeout=%s",
		s.Protocol.PayloadSize, s.Protocol.FillByte, s.Protocol.NAK, s.timeout())
}
