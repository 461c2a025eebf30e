package xfer

import (
	"github.com/golang/glog"
)

// EventKind identifies what happened during a transfer.
type EventKind int

// Event kinds.
const (
	EventStart EventKind = iota
	EventSent
	EventRejected
	EventAcknowledged
	EventDone
	EventFailed
)

var eventNames = [...]string{
	EventStart:        "start",
	EventSent:         "sent",
	EventRejected:     "rejected",
	EventAcknowledged: "acknowledged",
	EventDone:         "done",
	EventFailed:       "failed",
}

// String implements fmt.Stringer.
func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is emitted by Sender while transferring.
type Event struct {
	Kind    EventKind
	Session Session
	// Reply is the byte received for EventRejected and EventAcknowledged.
	Reply byte
	// Err is set for EventFailed.
	Err error
}

// Reporter receives transfer events.
// It is called synchronously from the transfer loop.
type Reporter interface {
	Report(Event)
}

// ReportFunc is func type of Reporter.
type ReportFunc func(Event)

// Report implements Reporter.
func (f ReportFunc) Report(ev Event) {
	f(ev)
}

// Reporters fans out events to all reporters.
type Reporters []Reporter

// Report implements Reporter.
func (r Reporters) Report(ev Event) {
	for _, rep := range r {
		if rep != nil {
			rep.Report(ev)
		}
	}
}

// LogReporter logs events using glog.
type LogReporter struct{}

// Report implements Reporter.
func (LogReporter) Report(ev Event) {
	s := ev.Session
	switch ev.Kind {
	case EventStart:
		glog.Infof("sending %d bytes", s.Size)
	case EventSent:
		glog.V(1).Infof("packet %d sent (attempt %d)", s.Packet, s.Attempts)
	case EventRejected:
		glog.Infof("packet %d: checksum failed, retrying", s.Packet)
	case EventAcknowledged:
		glog.V(1).Infof("packet %d acknowledged (0x%02x)", s.Packet, ev.Reply)
	case EventDone:
		glog.Infof("sent %d bytes in %d packets", s.BytesSent, s.Packet)
	case EventFailed:
		glog.Errorf("transfer failed: %v", ev.Err)
	}
}
