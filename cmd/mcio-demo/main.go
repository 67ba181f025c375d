// Command mcio-demo drives a fine-grained environment against a running
// mod for a fixed number of steps, logging basic telemetry. It exists to
// exercise the library end-to-end from a real process, not as a full
// agent harness.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/go-mclib/mcio/connection"
	"github.com/go-mclib/mcio/env"
)

func main() {
	host := flag.String("host", "localhost", "mod host")
	actionPort := flag.Int("action-port", 4001, "action channel port")
	obsPort := flag.Int("obs-port", 8001, "observation channel port")
	steps := flag.Int("steps", 100, "number of steps to run")
	async := flag.Bool("async", false, "use the async controller instead of sync")
	flag.Parse()

	cfg := env.DefaultConfig()
	cfg.Connection = connection.Config{
		Host:              *host,
		ActionPort:        *actionPort,
		ObservationPort:   *obsPort,
		WaitForConnection: true,
		ConnectTimeout:    30 * time.Second,
	}
	if *async {
		cfg.Mode = env.Async
	}

	e := env.NewFineGrainedEnv(cfg)
	defer e.Close()

	obs, _, err := e.Reset(nil)
	if err != nil {
		log.Fatalf("reset: %v", err)
	}
	log.Printf("reset ok, frame format=%s, player pos=%+v", obs.FrameFormat, obs.PlayerPos)

	noop := env.FineGrainedCallbacks().NoopAction()
	for i := 0; i < *steps; i++ {
		obs, _, terminated, _, _, err := e.Step(noop, nil)
		if err != nil {
			log.Fatalf("step %d: %v", i, err)
		}
		if terminated {
			log.Printf("terminated at step %d", i)
			break
		}
		if i%20 == 0 {
			log.Printf("step %d: frame format=%s, pos=%+v", i, obs.FrameFormat, obs.PlayerPos)
		}
	}
}
