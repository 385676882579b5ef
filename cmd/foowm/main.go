package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/thejerf/suture/v4"

	"github.com/footron/foowm/internal/command"
	"github.com/footron/foowm/internal/config"
	"github.com/footron/foowm/internal/logging"
	"github.com/footron/foowm/internal/platform"
	"github.com/footron/foowm/internal/policy"
	"github.com/footron/foowm/internal/wm"
)

// displayConn is the display connection the run command drives.
type displayConn interface {
	platform.Display
	Wake()
	Disconnect()
}

var (
	configPath string
	noColor    bool

	scenarioFlag string
	layoutFlag   string
	levelFlag    string
	verboseFlag  bool
	endpointFlag string

	errorColor = color.New(color.FgRed, color.Bold)
)

var rootCmd = &cobra.Command{
	Use:   "foowm",
	Short: "Window manager for the exhibit display",
	Long: `foowm arranges the exhibit display: a status placard, a loading window,
hidden capture helpers, and the experience content viewport.

An external controller switches layouts and clears content over the control
channel; "foowm send" publishes the same messages by hand.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the window manager on $DISPLAY",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig(cmd)
		if err != nil {
			return err
		}
		return runWM(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: $XDG_CONFIG_HOME/foowm/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "Control channel endpoint (default from config)")

	runCmd.Flags().StringVar(&scenarioFlag, "scenario", "", "Display scenario: center, production, fullscreen")
	runCmd.Flags().StringVar(&layoutFlag, "layout", "", "Initial layout: full, fit4k, production (default depends on scenario)")
	runCmd.Flags().StringVar(&levelFlag, "level", "", "Log level: debug, info, warn, error")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log at debug level")
	runCmd.MarkFlagsMutuallyExclusive("level", "verbose")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprint(os.Stderr, "foowm: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.LoadResult, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// effectiveConfig loads the config file and applies command-line overrides.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	res, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg := res.Config

	flags := cmd.Flags()
	if flags.Changed("scenario") {
		cfg.Scenario = policy.Scenario(scenarioFlag)
	}
	if flags.Changed("layout") {
		cfg.Layout = policy.Layout(layoutFlag)
	}
	if flags.Changed("level") {
		cfg.LogLevel = levelFlag
	}
	if flags.Changed("verbose") && verboseFlag {
		cfg.LogLevel = "debug"
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint = endpointFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid option: %w", err)
	}
	return cfg, nil
}

func runWM(cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, level)

	display, err := openDisplay()
	if err != nil {
		return err
	}
	defer display.Disconnect()

	queue := command.NewQueue()
	manager := wm.New(display, queue, wm.Options{
		Scenario:   cfg.Scenario,
		Layout:     cfg.InitialLayout(),
		ClearTypes: cfg.ClearTypes,
		Logger:     logger,
	})
	if err := manager.Setup(); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The receiver only feeds the queue; a transport failure restarts it
	// without touching the event loop.
	supervisor := suture.New("foowm", suture.Spec{
		EventHook: func(e suture.Event) {
			logger.Warn("control channel supervisor event", "event", e.String())
		},
	})
	supervisor.Add(command.NewReceiver(cfg.Endpoint, queue, display.Wake, logger))
	supervisorDone := supervisor.ServeBackground(ctx)

	go func() {
		<-ctx.Done()
		display.Disconnect()
	}()

	logger.Info("window manager running",
		"scenario", manager.Scenario(),
		"layout", manager.Layout(),
		"endpoint", cfg.Endpoint)

	err = manager.Run()
	if ctx.Err() != nil && errors.Is(err, platform.ErrDisplayClosed) {
		logger.Info("shutting down")
		if serr := <-supervisorDone; serr != nil && !errors.Is(serr, context.Canceled) {
			logger.Warn("control channel stopped with error", "error", serr)
		}
		return nil
	}
	return err
}
