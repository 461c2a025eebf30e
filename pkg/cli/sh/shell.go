package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/sendbin/pkg/cli"
	"github.com/robotalks/sendbin/pkg/ports"
	"github.com/robotalks/sendbin/pkg/xfer"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	*Settings
	Interactive bool
	OutputJSON  bool

	Shell *ishell.Shell
}

// Settings are changed by the set command and apply to following transfers.
type Settings struct {
	Config   *ports.Config
	Protocol xfer.Protocol
	Retry    xfer.RetryPolicy

	onChange func()
}

// NewSettings creates Settings with the default protocol.
func NewSettings(conf *ports.Config) *Settings {
	return &Settings{
		Config:   conf,
		Protocol: xfer.DefaultProtocol,
		Retry:    xfer.Unbounded,
	}
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&SendCmd,
		&SetCmd,
		&ShowCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell.
func New(conf *ports.Config) *Shell {
	s := &Shell{
		Settings:    NewSettings(conf),
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell: ishell.New(),
	}
	s.onChange = s.updatePrompt
	s.Shell.Set(shellKey, s)
	s.updatePrompt()
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

func (s *Shell) updatePrompt() {
	port := s.Config.Port
	if port == "" {
		port = "none"
	}
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", port))
}

// Set changes a setting by name.
func (s *Settings) Set(name, value string) error {
	switch name {
	case "port":
		s.Config.Port = value
		if s.onChange != nil {
			s.onChange()
		}
	case "baud":
		baud, err := ports.ParseBaudRate(value)
		if err != nil {
			return fmt.Errorf("invalid baud rate %q", value)
		}
		s.Config.BaudRate = baud
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout %q", value)
		}
		s.Config.ReadTimeout = d
	case "retries":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid retries %q", value)
		}
		s.Retry.MaxAttempts = n
	case "strict":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid strict %q", value)
		}
		s.Protocol.StrictACK = on
	case "ack":
		b, err := cli.ParseByte(value)
		if err != nil {
			return err
		}
		s.Protocol.ACK = b
	default:
		return fmt.Errorf("unknown setting %q", name)
	}
	return nil
}

// Pairs returns the current settings as name/value pairs.
func (s *Settings) Pairs() [][2]string {
	return [][2]string{
		{"port", s.Config.Port},
		{"baud", strconv.Itoa(s.Config.BaudRate)},
		{"timeout", s.Config.ReadTimeout.String()},
		{"retries", strconv.Itoa(s.Retry.MaxAttempts)},
		{"strict", strconv.FormatBool(s.Protocol.StrictACK)},
		{"ack", fmt.Sprintf("0x%02x", s.Protocol.ACK)},
	}
}

// NewTransfer creates a Transfer using current settings.
func (s *Settings) NewTransfer(file string) *cli.Transfer {
	t := cli.NewTransfer(s.Config.Port, file)
	t.Conn = *s.Config
	t.Protocol, t.Retry = s.Protocol, s.Retry
	return t
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd lists serial devices.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "list serial devices",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			infoList, err := ports.List()
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(infoList) == 0 {
					// in case infoList is nil, make it empty slice.
					infoList = []ports.PortInfo{}
				}
				out, err := json.Marshal(infoList)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infoList) == 0 {
				c.Println("No serial devices found")
				return
			}
			for _, info := range infoList {
				c.Println(ports.Format(info))
			}
		},
	}

	// SendCmd sends a file.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "FILE [PORT [BAUD]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("usage: send FILE [PORT [BAUD]]"))
				return
			}
			if len(c.Args) > 1 {
				if err := s.Set("port", c.Args[1]); err != nil {
					c.Err(err)
					return
				}
			}
			if len(c.Args) > 2 {
				if err := s.Set("baud", c.Args[2]); err != nil {
					c.Err(err)
					return
				}
			}
			if s.Config.Port == "" {
				c.Err(fmt.Errorf("no port, use: set port NAME"))
				return
			}
			t := s.NewTransfer(c.Args[0])
			c.Println(t.Describe())
			if s.Interactive {
				pb := c.ProgressBar()
				t.Reporter = progressReporter(pb, t.Protocol)
				pb.Start()
				defer pb.Stop()
			}
			sess, err := t.Run(context.Background())
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("Sent %d bytes in %d packets\n", sess.BytesSent, sess.Packet)
		},
	}

	// SetCmd changes settings.
	SetCmd = ishell.Cmd{
		Name: "set",
		Help: "NAME VALUE (port, baud, timeout, retries, strict, ack)",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("usage: set NAME VALUE"))
				return
			}
			if err := ShellFrom(c).Set(c.Args[0], c.Args[1]); err != nil {
				c.Err(err)
			}
		},
	}

	// ShowCmd prints current settings.
	ShowCmd = ishell.Cmd{
		Name: "show",
		Help: "print settings",
		Func: func(c *ishell.Context) {
			var lines []string
			for _, kv := range ShellFrom(c).Pairs() {
				lines = append(lines, kv[0]+" = "+kv[1])
			}
			c.Println(strings.Join(lines, "\n"))
		},
	}
)

func progressReporter(pb ishell.ProgressBar, p xfer.Protocol) xfer.Reporter {
	return xfer.ReportFunc(func(ev xfer.Event) {
		total := p.Packets(ev.Session.Size)
		if ev.Kind != xfer.EventAcknowledged || total == 0 {
			return
		}
		percent := int(int64(ev.Session.Packet) * 100 / total)
		pb.Suffix(fmt.Sprintf(" %d%%", percent))
		pb.Progress(percent)
	})
}

// Main is a helper to provide a single call in main.
func Main() {
	ports.SetupFlags()
	flag.Parse()
	New(ports.NewConfig()).Run(flag.Args()...)
}
