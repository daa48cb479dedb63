package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/kartsim/internal/config"
	"github.com/zeusync/kartsim/internal/injector"
	"github.com/zeusync/kartsim/internal/sim"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code so deferred cleanups finish before exit.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("kartsim", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to a YAML config file")
	realtime := flags.Bool("realtime", false, "tick at the configured rate instead of replaying as fast as possible")
	debug := flags.Bool("debug", false, "show the collider and its bounds helper, log at debug level")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "Error loading config:", err)
		return 1
	}
	if *debug {
		cfg.Log.Level = "debug"
		cfg.Collider.Debug = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, cleanup, err := injector.InitializeSimulation(cfg, sim.DemoTrack())
	if err != nil {
		fmt.Fprintln(stderr, "Error initializing simulation:", err)
		return 1
	}
	defer cleanup()
	defer s.Close()

	drive := s.Replay
	if *realtime {
		drive = s.Run
	}
	sum, err := drive(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "Error running simulation:", err)
		return 1
	}

	p := sum.Final.Position
	fmt.Fprintf(stdout, "frames=%d simulated=%.2fs collider=%s triangles=%d impacts=%d boosts=%d final=(%.2f, %.2f, %.2f)\n",
		sum.Frames, sum.Simulated, sum.Collider, sum.Triangles, sum.Impacts, sum.Boosts, p[0], p[1], p[2])
	return 0
}
