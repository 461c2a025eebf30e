package ports

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
	"golang.org/x/net/websocket"

	"github.com/robotalks/sendbin/pkg/xfer"
)

// Conn is an opened channel.
type Conn interface {
	xfer.Channel
	io.Closer
}

// Open opens the channel described by the config.
func (c *Config) Open() (Conn, error) {
	return Open(c.Port, c.BaudRate, c.ReadTimeout)
}

// Open opens a serial device or a network serial bridge.
// tcp://host:port dials a raw TCP bridge (e.g. ser2net),
// ws:// and wss:// dial a websocket bridge exchanging binary frames.
func Open(port string, baud int, timeout time.Duration) (Conn, error) {
	if port == "" {
		return nil, fmt.Errorf("no port specified")
	}
	if strings.Contains(port, "://") {
		u, err := url.Parse(port)
		if err != nil {
			return nil, fmt.Errorf("invalid port URL: %v", err)
		}
		switch u.Scheme {
		case "tcp":
			return dialTCP(u.Host, timeout)
		case "ws", "wss":
			return dialWebsocket(u, timeout)
		default:
			return nil, fmt.Errorf("unknown port URL scheme: %q", u.Scheme)
		}
	}
	return openSerial(port, baud, timeout)
}

func openSerial(name string, baud int, timeout time.Duration) (Conn, error) {
	p, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(timeout); err != nil {
		p.Close()
		return nil, err
	}
	glog.V(1).Infof("opened serial port %s at %d baud", name, baud)
	return p, nil
}

func dialTCP(addr string, timeout time.Duration) (Conn, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("connected to %s", addr)
	return &netConn{Conn: conn, timeout: timeout}, nil
}

func dialWebsocket(u *url.URL, timeout time.Duration) (Conn, error) {
	origin := "http://localhost/"
	conf, err := websocket.NewConfig(u.String(), origin)
	if err != nil {
		return nil, err
	}
	conf.Dialer = &net.Dialer{Timeout: timeout}
	ws, err := websocket.DialConfig(conf)
	if err != nil {
		return nil, err
	}
	ws.PayloadType = websocket.BinaryFrame
	glog.V(1).Infof("connected to %s", u)
	return &netConn{Conn: ws, timeout: timeout}, nil
}

// netConn adapts a net.Conn to xfer.Channel using read deadlines.
type netConn struct {
	net.Conn
	timeout time.Duration
}

// SetReadTimeout implements xfer.Channel.
func (c *netConn) SetReadTimeout(d time.Duration) error {
	c.timeout = d
	return nil
}

// Read implements io.Reader.
func (c *netConn) Read(p []byte) (int, error) {
	if c.timeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(p)
}
