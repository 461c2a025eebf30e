package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/pterm/pterm"

	"github.com/robotalks/sendbin/pkg/cli"
	"github.com/robotalks/sendbin/pkg/mqtt"
	"github.com/robotalks/sendbin/pkg/ports"
	"github.com/robotalks/sendbin/pkg/runner"
	"github.com/robotalks/sendbin/pkg/xfer"
)

//go-build: CGO_ENABLED=0

var (
	listOnly   bool
	maxRetries int
	strictACK  bool
	ackByte    = "0x06"
	mqttURL    string
	progress   = true
)

func init() {
	if val := os.Getenv("SENDBIN_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.BoolVar(&listOnly, "list", listOnly, "List serial devices and exit.")
	flag.IntVar(&maxRetries, "max-retries", maxRetries, "Max sends of a rejected packet, 0 for unlimited.")
	flag.BoolVar(&strictACK, "strict-ack", strictACK, "Only accept the -ack reply instead of anything but NAK.")
	flag.StringVar(&ackByte, "ack", ackByte, "Reply byte accepted with -strict-ack.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL to publish progress to, e.g. mqtt://localhost:1883/lab/.")
	flag.BoolVar(&progress, "progress", progress, "Show a progress bar.")
	flag.Set("logtostderr", "true")
	ports.SetupFlags()
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <serial_port> <file_path> [baudrate]\n", os.Args[0])
	flag.PrintDefaults()
}

func fail(err error) int {
	if errors.Is(err, xfer.ErrTimeout) {
		pterm.Error.Println("Timed out waiting for reply")
	} else {
		pterm.Error.Println(err)
	}
	return 1
}

func main() {
	flag.Usage = usage
	flag.Parse()
	code := run(flag.Args())
	glog.Flush()
	os.Exit(code)
}

// run returns the exit code, so deferred cleanup happens before exiting.
func run(args []string) int {
	if listOnly {
		infoList, err := ports.List()
		if err != nil {
			return fail(err)
		}
		for _, info := range infoList {
			fmt.Println(ports.Format(info))
		}
		return 0
	}

	if len(args) < 2 {
		flag.Usage()
		return 1
	}
	t := cli.NewTransfer(args[0], args[1])
	if len(args) > 2 {
		baud, err := ports.ParseBaudRate(args[2])
		if err != nil {
			return fail(fmt.Errorf("invalid baudrate %q", args[2]))
		}
		t.Conn.BaudRate = baud
	}
	t.Retry.MaxAttempts = maxRetries
	if strictACK {
		b, err := cli.ParseByte(ackByte)
		if err != nil {
			return fail(err)
		}
		t.Protocol.StrictACK, t.Protocol.ACK = true, b
	}

	var reporters xfer.Reporters
	if progress {
		reporters = append(reporters, &progressBar{protocol: t.Protocol})
	}
	if mqttURL != "" {
		q, err := mqtt.NewQueueFromURL(mqttURL, "sendbin-"+mqtt.HostID())
		if err != nil {
			return fail(err)
		}
		if err := q.Connect(); err != nil {
			return fail(fmt.Errorf("mqtt connect: %v", err))
		}
		defer q.Close()
		reporters = append(reporters, mqtt.NewReporter(q, t.Conn.Port, t.File))
	}
	t.Reporter = reporters

	ctx, cancel := runner.WithSignals(context.Background())
	defer cancel()

	pterm.Info.Println(t.Describe())
	sess, err := t.Run(ctx)
	if err != nil {
		return fail(err)
	}
	pterm.Success.Printfln("Sent %d bytes in %d packets", sess.BytesSent, sess.Packet)
	return 0
}

// progressBar shows acknowledged packets.
type progressBar struct {
	protocol xfer.Protocol
	bar      *pterm.ProgressbarPrinter
}

func (p *progressBar) Report(ev xfer.Event) {
	switch ev.Kind {
	case xfer.EventStart:
		if total := p.protocol.Packets(ev.Session.Size); total > 0 {
			p.bar, _ = pterm.DefaultProgressbar.
				WithTotal(int(total)).
				WithTitle("Packets").
				Start()
		}
	case xfer.EventAcknowledged:
		if p.bar != nil {
			p.bar.Increment()
		}
	case xfer.EventDone, xfer.EventFailed:
		if p.bar != nil {
			p.bar.Stop()
			p.bar = nil
		}
	}
}
