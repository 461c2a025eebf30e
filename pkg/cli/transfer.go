// Package cli provides the pieces shared by the command line tools.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"

	"github.com/robotalks/sendbin/pkg/ports"
	"github.com/robotalks/sendbin/pkg/runner"
	"github.com/robotalks/sendbin/pkg/xfer"
)

// Transfer describes one file transfer.
type Transfer struct {
	Conn     ports.Config
	File     string
	Protocol xfer.Protocol
	Retry    xfer.RetryPolicy
	Reporter xfer.Reporter
}

// NewTransfer creates a Transfer with default settings.
func NewTransfer(port, file string) *Transfer {
	t := &Transfer{
		Conn:     *ports.NewConfig(),
		File:     file,
		Protocol: xfer.DefaultProtocol,
		Retry:    xfer.Unbounded,
	}
	t.Conn.Port = port
	return t
}

// Describe returns the line printed when a transfer starts.
func (t *Transfer) Describe() string {
	return fmt.Sprintf("Sending '%s' to %s at %d baud", t.File, t.Conn.Port, t.Conn.BaudRate)
}

// Run opens the file and the channel, and sends the file.
// The channel is closed on return, or as soon as ctx is canceled.
func (t *Transfer) Run(ctx context.Context) (sess xfer.Session, err error) {
	f, err := os.Open(t.File)
	if err != nil {
		return xfer.Session{Size: -1}, err
	}
	defer f.Close()
	size := int64(-1)
	if info, e := f.Stat(); e == nil {
		size = info.Size()
	}

	conn, err := t.Conn.Open()
	if err != nil {
		return xfer.Session{Size: size}, err
	}
	s := xfer.NewSender(conn)
	s.Protocol, s.Retry, s.Timeout = t.Protocol, t.Retry, t.Conn.ReadTimeout
	if t.Reporter != nil {
		s.Reporter = xfer.Reporters{xfer.LogReporter{}, t.Reporter}
	}
	glog.V(1).Infof("%s: %s", t.Conn.Port, s)
	err = runner.RunWithContextCloser(ctx, conn, func() error {
		var e error
		sess, e = s.Send(ctx, f, size)
		return e
	})
	return
}

// ParseByte parses a byte given as a number (0x06, 6) or a single character.
func ParseByte(value string) (byte, error) {
	if n, err := strconv.ParseUint(value, 0, 8); err == nil {
		return byte(n), nil
	}
	if len(value) == 1 {
		return value[0], nil
	}
	return 0, fmt.Errorf("invalid byte %q", value)
}
