package ports

import (
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpenInvalid(t *testing.T) {
	_, err := Open("", 19200, time.Second)
	require.Error(t, err)
	_, err = Open("udp://localhost:1", 19200, time.Second)
	require.Error(t, err)
}

func TestOpenTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		received <- buf
		conn.Write([]byte{'A'})
		// hold the connection open without replying further.
		time.Sleep(time.Second)
	}()

	conf := NewConfig()
	conf.Port = "tcp://" + ln.Addr().String()
	conf.ReadTimeout = 100 * time.Millisecond
	conn, err := conf.Open()
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, <-received)

	reply := make([]byte, 1)
	n, err := conn.Read(reply)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, byte('A'), reply[0])

	require.NoError(t, conn.SetReadTimeout(50*time.Millisecond))
	n, err = conn.Read(reply)
	require.Equal(t, 0, n)
	require.True(t, os.IsTimeout(err))
}

func TestParseBaudRate(t *testing.T) {
	baud, err := ParseBaudRate("115200")
	require.NoError(t, err)
	require.Equal(t, 115200, baud)
	_, err = ParseBaudRate("fast")
	require.Error(t, err)
	_, err = ParseBaudRate("0")
	require.Error(t, err)
}

func TestNewConfig(t *testing.T) {
	conf := NewConfig()
	require.Equal(t, 5*time.Second, conf.ReadTimeout)
	conf.BaudRate = 1
	require.NotEqual(t, 1, Default().BaudRate)
}
