package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zhubert/chatmodal/internal/app"
	"github.com/zhubert/chatmodal/internal/config"
	"github.com/zhubert/chatmodal/internal/demo"
	"github.com/zhubert/chatmodal/internal/demo/scenarios"
	"github.com/zhubert/chatmodal/internal/logger"
)

const defaultScenario = "overview"

var (
	demoPort    int
	demoLatency time.Duration
	demoList    bool
)

var demoCmd = &cobra.Command{
	Use:   "demo [scenario]",
	Short: "Run the widget against an in-process fake backend",
	Long: `Starts the fake chat backend seeded from a scenario and runs the widget
against it. Nothing is sent to a real assistant service and the stored
session id is left untouched.

Run 'chatmodal demo --list' to see the available scenarios.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDemo,
}

var serveDemoCmd = &cobra.Command{
	Use:   "serve-demo [scenario]",
	Short: "Serve the fake backend without the widget",
	Long: `Serves the fake chat backend until interrupted, so another process (or
another chatmodal started with --api-base) can use it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServeDemo,
}

func init() {
	for _, c := range []*cobra.Command{demoCmd, serveDemoCmd} {
		c.Flags().IntVarP(&demoPort, "port", "p", 0, "Port for the fake backend (0 picks a free one)")
		c.Flags().DurationVar(&demoLatency, "latency", 0, "Artificial delay added to every response")
		c.Flags().BoolVar(&demoList, "list", false, "List available scenarios and exit")
	}
	addWidgetFlags(demoCmd)

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(serveDemoCmd)
}

func getScenario(args []string) (*demo.Scenario, error) {
	name := defaultScenario
	if len(args) > 0 {
		name = args[0]
	}
	scenario := scenarios.Get(name)
	if scenario == nil {
		return nil, fmt.Errorf("unknown scenario %q\nRun 'chatmodal demo --list' to see available scenarios", name)
	}
	if demoLatency > 0 {
		s := *scenario
		s.Latency = demoLatency
		scenario = &s
	}
	return scenario, nil
}

func printScenarios(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available demo scenarios:")
	fmt.Fprintln(out)
	for _, s := range scenarios.All() {
		fmt.Fprintf(out, "  %-15s %s\n", s.Name, s.Description)
	}
}

// startBackend listens on demoPort and returns the server for scenario.
func startBackend(scenario *demo.Scenario) (*http.Server, net.Listener, error) {
	backend, err := demo.NewServer(scenario)
	if err != nil {
		return nil, nil, fmt.Errorf("error seeding scenario: %w", err)
	}
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", demoPort))
	if err != nil {
		return nil, nil, fmt.Errorf("error listening: %w", err)
	}
	srv := &http.Server{
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv, ln, nil
}

// serve runs srv on ln until it is shut down.
func serve(srv *http.Server, ln net.Listener) error {
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithComponent("demo").Warn("demo backend shutdown", "error", err)
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	if demoList {
		printScenarios(cmd)
		return nil
	}
	scenario, err := getScenario(args)
	if err != nil {
		return err
	}
	srv, ln, err := startBackend(scenario)
	if err != nil {
		return err
	}

	opts := config.Default()
	opts.SetBaseURL("http://" + ln.Addr().String())
	opts.UserID = scenario.UserID
	applyFlags(cmd, opts)

	defer logger.Close()
	log := logger.WithComponent("demo")
	log.Info("demo started", "scenario", scenario.Name, "addr", ln.Addr().String())

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return serve(srv, ln)
	})
	g.Go(func() error {
		defer shutdown(srv)
		// A memory store keeps the demo away from the real session id.
		m := app.New(app.Options{Config: opts, Storage: config.NewMemoryStore(), Version: version})
		p := tea.NewProgram(m, tea.WithContext(ctx))
		_, err := p.Run()
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("error running demo: %w", err)
	}
	return nil
}

func runServeDemo(cmd *cobra.Command, args []string) error {
	if demoList {
		printScenarios(cmd)
		return nil
	}
	scenario, err := getScenario(args)
	if err != nil {
		return err
	}
	srv, ln, err := startBackend(scenario)
	if err != nil {
		return err
	}

	port := ln.Addr().(*net.TCPAddr).Port
	if err := logger.Init(logger.DemoLogPath(port)); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	defer logger.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Fake backend for scenario %q on http://%s\n", scenario.Name, ln.Addr())
	fmt.Fprintf(cmd.OutOrStdout(), "Connect with: chatmodal --api-base http://%s --user-id %d\n", ln.Addr(), scenario.UserID)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return serve(srv, ln)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown(srv)
		return nil
	})
	return g.Wait()
}
