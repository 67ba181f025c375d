package connection

import (
	"log"
	"time"

	"github.com/go-mclib/mcio/types"
)

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// Config mirrors the original _Connection constructor's keyword arguments.
type Config struct {
	Host              string
	ActionPort        int
	ObservationPort   int
	WaitForConnection bool
	ConnectTimeout    time.Duration
	Logger            Logger
	Debug             bool
}

// DefaultConfig returns a Config pointed at localhost on the protocol's
// default ports, blocking construction until both channels connect.
func DefaultConfig() Config {
	return Config{
		Host:              types.DefaultHost,
		ActionPort:        types.DefaultActionPort,
		ObservationPort:   types.DefaultObservationPort,
		WaitForConnection: true,
	}
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = types.DefaultHost
	}
	if c.ActionPort == 0 {
		c.ActionPort = types.DefaultActionPort
	}
	if c.ObservationPort == 0 {
		c.ObservationPort = types.DefaultObservationPort
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}
