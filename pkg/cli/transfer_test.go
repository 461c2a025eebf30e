package cli

import (
	"context"
	"errors"
	"io"
	"io/ioutil"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/sendbin/pkg/xfer"
)

// ackServer accepts one connection and acknowledges every packet.
func ackServer(t *testing.T, packetSize int) (string, <-chan int) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	countCh := make(chan int, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, packetSize)
		count := 0
		for {
			if _, err := io.ReadFull(conn, buf); err != nil {
				countCh <- count
				return
			}
			count++
			conn.Write([]byte{'K'})
		}
	}()
	return "tcp://" + ln.Addr().String(), countCh
}

func TestTransferRun(t *testing.T) {
	dir, err := ioutil.TempDir("", "cli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	file := filepath.Join(dir, "image.bin")
	require.NoError(t, ioutil.WriteFile(file, make([]byte, 1000), 0644))

	port, countCh := ackServer(t, xfer.DefaultProtocol.PacketSize())
	tr := NewTransfer(port, file)
	tr.Conn.ReadTimeout = time.Second
	var events []xfer.EventKind
	tr.Reporter = xfer.ReportFunc(func(ev xfer.Event) { events = append(events, ev.Kind) })
	require.Equal(t, "Sending '"+file+"' to "+port+" at 19200 baud", tr.Describe())

	sess, err := tr.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 8, sess.Packet)
	require.Equal(t, int64(1000), sess.BytesSent)
	require.Equal(t, 8, <-countCh)
	require.Equal(t, xfer.EventDone, events[len(events)-1])
}

func TestTransferTimeoutReleasesChannel(t *testing.T) {
	dir, err := ioutil.TempDir("", "cli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	file := filepath.Join(dir, "image.bin")
	require.NoError(t, ioutil.WriteFile(file, make([]byte, 300), 0644))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	receivedCh := make(chan int64, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		// never reply, count bytes until the sender closes.
		n, _ := io.Copy(ioutil.Discard, conn)
		receivedCh <- n
	}()

	tr := NewTransfer("tcp://"+ln.Addr().String(), file)
	tr.Conn.ReadTimeout = 100 * time.Millisecond
	var events []xfer.EventKind
	tr.Reporter = xfer.ReportFunc(func(ev xfer.Event) { events = append(events, ev.Kind) })

	sess, err := tr.Run(context.Background())
	require.True(t, errors.Is(err, xfer.ErrTimeout))
	require.Equal(t, 1, sess.Packet)
	require.Equal(t, int64(0), sess.BytesSent)
	require.Equal(t, xfer.EventFailed, events[len(events)-1])

	select {
	case n := <-receivedCh:
		require.Equal(t, int64(xfer.DefaultProtocol.PacketSize()), n)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after timeout")
	}
}

func TestTransferMissingFile(t *testing.T) {
	tr := NewTransfer("tcp://127.0.0.1:1", "/nonexistent/file.bin")
	_, err := tr.Run(context.Background())
	require.True(t, os.IsNotExist(err))
}

func TestParseByte(t *testing.T) {
	testCases := []struct {
		in     string
		expect byte
	}{
		{"0x06", 6},
		{"6", 6},
		{"K", 'K'},
		{"255", 255},
	}
	for _, tc := range testCases {
		b, err := ParseByte(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.expect, b)
	}
	_, err := ParseByte("256")
	require.Error(t, err)
}
