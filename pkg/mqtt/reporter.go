package mqtt

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/sendbin/pkg/xfer"
)

// ProgressTopic is the topic pattern progress messages are published to,
// relative to the queue prefix.
const ProgressTopic = "sendbin/+/progress"

// Publisher publishes payloads to topics.
type Publisher interface {
	Pub(topic string, payload []byte) paho.Token
}

// Progress is the message published for transfer events.
type Progress struct {
	Event     string    `json:"event"`
	Host      string    `json:"host"`
	Port      string    `json:"port,omitempty"`
	File      string    `json:"file,omitempty"`
	Packet    int       `json:"packet"`
	Attempts  int       `json:"attempts,omitempty"`
	BytesSent int64     `json:"bytes_sent"`
	Size      int64     `json:"size"`
	Reply     *byte     `json:"reply,omitempty"`
	Error     string    `json:"error,omitempty"`
	Time      time.Time `json:"time"`
}

// HostID returns an identifier of this machine which doesn't expose the raw machine ID.
func HostID() string {
	id, err := machineid.ProtectedID("sendbin")
	if err != nil {
		glog.V(1).Infof("machine id unavailable: %v", err)
		if id, err = os.Hostname(); err != nil {
			return "unknown"
		}
		return id
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}

// Reporter publishes transfer events as Progress messages.
// Per-send events are not published, only outcomes of each packet.
type Reporter struct {
	Publisher Publisher
	Host      string
	Port      string
	File      string
	// WaitTimeout bounds waiting for delivery of final events.
	WaitTimeout time.Duration
}

// NewReporter creates a Reporter.
func NewReporter(pub Publisher, port, file string) *Reporter {
	return &Reporter{
		Publisher:   pub,
		Host:        HostID(),
		Port:        port,
		File:        file,
		WaitTimeout: time.Second,
	}
}

// Topic returns the topic messages are published to.
func (r *Reporter) Topic() string {
	return "sendbin/" + r.Host + "/progress"
}

// Report implements xfer.Reporter.
func (r *Reporter) Report(ev xfer.Event) {
	if ev.Kind == xfer.EventSent {
		return
	}
	msg := NewProgress(ev)
	msg.Host, msg.Port, msg.File = r.Host, r.Port, r.File
	payload, err := json.Marshal(msg)
	if err != nil {
		glog.Errorf("encode progress: %v", err)
		return
	}
	token := r.Publisher.Pub(r.Topic(), payload)
	if ev.Kind == xfer.EventDone || ev.Kind == xfer.EventFailed {
		if !token.WaitTimeout(r.WaitTimeout) {
			glog.Warningf("progress %s not delivered", msg.Event)
		} else if err := token.Error(); err != nil {
			glog.Warningf("progress %s: %v", msg.Event, err)
		}
	}
}

// NewProgress converts an event.
func NewProgress(ev xfer.Event) *Progress {
	s := ev.Session
	msg := &Progress{
		Event:     ev.Kind.String(),
		Packet:    s.Packet,
		Attempts:  s.Attempts,
		BytesSent: s.BytesSent,
		Size:      s.Size,
		Time:      time.Now(),
	}
	if ev.Kind == xfer.EventRejected || ev.Kind == xfer.EventAcknowledged {
		reply := ev.Reply
		msg.Reply = &reply
	}
	if ev.Err != nil {
		msg.Error = ev.Err.Error()
	}
	return msg
}

// DecodeProgress decodes a Progress message.
func DecodeProgress(payload []byte) (*Progress, error) {
	var msg Progress
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// String implements fmt.Stringer.
func (p *Progress) String() string {
	s := fmt.Sprintf("%s %s -> %s: %s packet %d, %d/%d bytes",
		p.Host, p.File, p.Port, p.Event, p.Packet, p.BytesSent, p.Size)
	if p.Attempts > 1 {
		s += fmt.Sprintf(", attempt %d", p.Attempts)
	}
	if p.Reply != nil {
		s += fmt.Sprintf(", reply 0x%02x", *p.Reply)
	}
	if p.Error != "" {
		s += ", error: " + p.Error
	}
	return s
}
