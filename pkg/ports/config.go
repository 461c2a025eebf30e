package ports

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config defines how a channel is opened.
type Config struct {
	// Port is a serial device name (e.g. /dev/ttyUSB0, COM3),
	// or a tcp:// / ws:// URL of a serial bridge.
	Port        string
	BaudRate    int
	ReadTimeout time.Duration
}

var defaultConfig = Config{
	BaudRate:    19200,
	ReadTimeout: 5 * time.Second,
}

func init() {
	if val := os.Getenv("SENDBIN_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("SENDBIN_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil && baud > 0 {
			defaultConfig.BaudRate = baud
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Serial baud rate.")
	flag.DurationVar(&defaultConfig.ReadTimeout, "timeout", defaultConfig.ReadTimeout, "Timeout waiting for a reply.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// ParseBaudRate parses a baud rate argument.
func ParseBaudRate(s string) (int, error) {
	baud, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if baud <= 0 {
		return 0, strconv.ErrRange
	}
	return baud, nil
}
