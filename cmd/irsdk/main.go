package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/voyagen/irsdk/internal/sdkconfig"
	"github.com/voyagen/irsdk/internal/telemlog"
	"github.com/voyagen/irsdk/irsdk"
)

var version = "dev"

func main() {
	var testFile string
	var dumpFile string
	var parseFile string
	var configPath string
	var logLevel string
	var logFile string
	var showVersion bool

	root := &cobra.Command{
		Use:   "irsdk",
		Short: "iRacing shared-memory telemetry client",
		Long:  "Attaches to the iRacing shared-memory telemetry region (or a recorded test file), decodes it, and optionally dumps or parses a snapshot.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println(version)
				return nil
			}

			cfg, err := sdkconfig.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if logFile != "" {
				cfg.LogFile = logFile
			}
			if err := telemlog.Init(cfg.LogLevel, cfg.LogFile); err != nil {
				return fmt.Errorf("init logging: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			c := irsdk.New(cfg)
			ok, err := c.Startup(ctx, testFile, dumpFile)
			if err != nil {
				return fmt.Errorf("startup: %w", err)
			}
			if !ok {
				return fmt.Errorf("simulator not available (use --test for a recorded file)")
			}
			defer c.Shutdown()

			if parseFile != "" {
				if err := c.ParseTo(ctx, parseFile); err != nil {
					return fmt.Errorf("parse: %w", err)
				}
				fmt.Printf("wrote: %s\n", parseFile)
				return nil
			}

			connected, err := c.IsConnected(ctx)
			if err != nil {
				return fmt.Errorf("is_connected: %w", err)
			}
			fmt.Printf("attached: true\nconnected: %v\n", connected)
			return nil
		},
	}

	root.Flags().BoolVar(&showVersion, "version", false, "Print the client version and exit")
	root.Flags().StringVar(&testFile, "test", "", "Path to a recorded test file to use instead of the live shared-memory region")
	root.Flags().StringVar(&dumpFile, "dump", "", "Path to write a raw copy of the attached region to, once, at startup")
	root.Flags().StringVar(&parseFile, "parse", "", "Path to write the normalized session-info document plus every telemetry variable's current value")
	root.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file overlaying the defaults")
	root.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	root.Flags().StringVar(&logFile, "log-file", "", "Override the configured log file path")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
