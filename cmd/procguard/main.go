package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loykin/procguard"
	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GlobalFlags holds minimal global/persistent flags for CLI commands
type GlobalFlags struct {
	ConfigPath string // Only config path for CLI commands
}

// buildRoot creates the root command and wires all subcommands
func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	inspectFlags := &InspectFlags{}
	terminateFlags := &TerminateFlags{}
	quarantineFlags := &QuarantineFlags{}
	serveFlags := &ServeFlags{}
	templateFlags := &TemplateCreateFlags{}

	guardCommand := command{out: os.Stdout}

	root := createRootCommand(globalFlags)

	// Add subcommands
	root.AddCommand(
		createInspectCommand(guardCommand, globalFlags, inspectFlags),
		createTerminateCommand(guardCommand, globalFlags, terminateFlags),
		createQuarantineCommand(guardCommand, globalFlags, quarantineFlags),
		createServeCommand(globalFlags, serveFlags),
		createTemplateCommand(guardCommand, templateFlags),
	)

	return root
}

// createRootCommand creates the root command with minimal persistent flags
func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "procguard",
		Short: "Process forensics and response tool",
		Long: `Procguard inspects suspicious processes and takes corrective action,
locally or through a remote agent started with 'procguard serve'.

Examples:
  procguard inspect 1234
  procguard terminate 1234
  procguard quarantine 1234 --quarantine-dir=/var/lib/procguard/quarantine
  procguard serve config.toml       # Start the HTTP agent
  procguard inspect 1234 --api-url=http://remote:8080/api  # Remote inspect`,
	}

	// Only essential flags for CLI commands
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to TOML config file (optional)")

	return root
}

// createInspectCommand creates the inspect subcommand
func createInspectCommand(guardCommand command, globalFlags *GlobalFlags, inspectFlags *InspectFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <pid>",
		Short: "Resolve a pid into a normalized process record",
		Long: `Inspect resolves a pid into its executable path, filesystem root,
working directory and command line using the platform lookup strategy.

Examples:
  procguard inspect 1234
  procguard inspect 1234 --environ          # Include the captured environment
  procguard inspect 1234 --json
  procguard inspect 1234 --api-url=http://remote:8080/api`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inspectFlags.ConfigPath = globalFlags.ConfigPath
			return guardCommand.Inspect(*inspectFlags, args[0])
		},
	}

	cmd.Flags().BoolVar(&inspectFlags.Environ, "environ", false, "include the captured environment (may hold credentials)")
	cmd.Flags().BoolVar(&inspectFlags.JSON, "json", false, "print the record as JSON")

	// Remote agent connection
	cmd.Flags().StringVar(&inspectFlags.APIUrl, "api-url", "", "remote agent URL (e.g. http://host:8080/api)")
	cmd.Flags().DurationVar(&inspectFlags.APITimeout, "api-timeout", 10*time.Second, "request timeout")
	cmd.Flags().StringVar(&inspectFlags.Token, "token", "", "bearer token for the remote agent")

	return cmd
}

// createTerminateCommand creates the terminate subcommand
func createTerminateCommand(guardCommand command, globalFlags *GlobalFlags, terminateFlags *TerminateFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terminate <pid>",
		Short: "Forcibly kill a process",
		Long: `Terminate resolves the pid first, so the record of what was killed
survives the kill, then issues a forced, non-graceful termination.
A failed lookup aborts the action.

Examples:
  procguard terminate 1234
  procguard terminate 1234 --json
  procguard terminate 1234 --api-url=http://remote:8080/api --token=s3cret`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			terminateFlags.ConfigPath = globalFlags.ConfigPath
			return guardCommand.Terminate(*terminateFlags, args[0])
		},
	}

	cmd.Flags().BoolVar(&terminateFlags.JSON, "json", false, "print the result as JSON")

	// Remote agent connection
	cmd.Flags().StringVar(&terminateFlags.APIUrl, "api-url", "", "remote agent URL (e.g. http://host:8080/api)")
	cmd.Flags().DurationVar(&terminateFlags.APITimeout, "api-timeout", 10*time.Second, "request timeout")
	cmd.Flags().StringVar(&terminateFlags.Token, "token", "", "bearer token for the remote agent")

	return cmd
}

// createQuarantineCommand creates the quarantine subcommand
func createQuarantineCommand(guardCommand command, globalFlags *GlobalFlags, quarantineFlags *QuarantineFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quarantine <pid>",
		Short: "Move a process executable into quarantine",
		Long: `Quarantine moves the executable behind the pid into the quarantine
directory and strips permissions from the original path. The two steps
are independent: a failed move does not stop the permission strip, and
the per-step outcome is always reported.

Examples:
  procguard quarantine 1234
  procguard quarantine 1234 --quarantine-dir=/var/lib/procguard/quarantine
  procguard quarantine 1234 --json
  procguard quarantine 1234 --api-url=http://remote:8080/api --token=s3cret`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quarantineFlags.ConfigPath = globalFlags.ConfigPath
			return guardCommand.Quarantine(*quarantineFlags, args[0])
		},
	}

	cmd.Flags().StringVar(&quarantineFlags.QuarantineDir, "quarantine-dir", "", "directory receiving quarantined executables (overrides config)")
	cmd.Flags().BoolVar(&quarantineFlags.JSON, "json", false, "print the result as JSON")

	// Remote agent connection
	cmd.Flags().StringVar(&quarantineFlags.APIUrl, "api-url", "", "remote agent URL (e.g. http://host:8080/api)")
	cmd.Flags().DurationVar(&quarantineFlags.APITimeout, "api-timeout", 10*time.Second, "request timeout")
	cmd.Flags().StringVar(&quarantineFlags.Token, "token", "", "bearer token for the remote agent")

	return cmd
}

// createServeCommand creates the serve subcommand
func createServeCommand(globalFlags *GlobalFlags, serveFlags *ServeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [config.toml]",
		Short: "Start the procguard HTTP agent",
		Long: `Start the procguard agent serving the process API over HTTP.
All configuration is loaded from a TOML config file.

Examples:
  procguard serve config.toml       # Start with specific config file
  procguard serve --config=config.toml
  procguard serve config.toml --daemonize  # Run in background`,
		RunE: func(cmd *cobra.Command, args []string) error {
			serveFlags.ConfigPath = globalFlags.ConfigPath
			return runServeCommand(serveFlags, args)
		},
	}

	// Add daemonize flags
	cmd.Flags().BoolVar(&serveFlags.Daemonize, "daemonize", false, "run as daemon in background")
	cmd.Flags().StringVar(&serveFlags.PidFile, "pidfile", "", "write the daemon PID to this file")
	cmd.Flags().StringVar(&serveFlags.LogFile, "logfile", "", "redirect daemon logs to file")

	return cmd
}

func runServeCommand(flags *ServeFlags, args []string) error {
	configPath := flags.ConfigPath
	if len(args) > 0 {
		configPath = args[0]
	}

	if configPath == "" {
		return fmt.Errorf("config file required for serve command. Use --config=config.toml or provide as argument")
	}

	cfg, sum, err := procguard.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// If daemonize is requested, re-invoke in the background and exit
	if flags.Daemonize {
		return daemonize(flags.PidFile, flags.LogFile)
	}

	slog.SetDefault(procguard.NewLogger(cfg.Log))

	guard := procguard.New(cfg.QuarantineDir)

	if cfg.Audit.DSN != "" {
		sink, err := procguard.NewAuditSink(cfg.Audit.DSN)
		if err != nil {
			return fmt.Errorf("error opening audit sink: %w", err)
		}
		guard.SetAuditSinks(sink)
		defer func() { _ = procguard.CloseSink(sink) }()
	}

	if err := procguard.RegisterMetricsDefault(); err != nil {
		fmt.Printf("Warning: failed to register metrics: %v\n", err)
	}

	server, err := procguard.NewHTTPServer(guard, cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	slog.Info("agent started", "listen", cfg.Server.Listen, "base_path", cfg.Server.BasePath, "config_sha1", sum)
	fmt.Printf("Starting procguard server on %s%s\n", cfg.Server.Listen, cfg.Server.BasePath)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("Shutting down...")
	return server.Close()
}

// createTemplateCommand creates the template command
func createTemplateCommand(guardCommand command, templateFlags *TemplateCreateFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Create config file templates",
		Long: `Create agent configuration templates for common deployments.
Templates can be edited and passed to 'procguard serve'.

Supported template types:
  minimal   - Quarantine directory and console logging
  server    - Adds the HTTP API listener
  audited   - Adds an audit sink and file logging
  full      - All sections with rotation defaults

Examples:
  procguard template --type=minimal
  procguard template --type=server --output=./procguard.toml
  procguard template --type=audited --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return guardCommand.TemplateCreate(*templateFlags)
		},
	}

	// Add flags specific to template command
	cmd.Flags().StringVar(&templateFlags.Type, "type", "", "template type (required): minimal, server, audited, full")
	cmd.Flags().StringVar(&templateFlags.Output, "output", "", "output file path (defaults to templates/<type>.toml)")
	cmd.Flags().BoolVar(&templateFlags.Force, "force", false, "overwrite existing template file")

	// Mark required flags
	if err := cmd.MarkFlagRequired("type"); err != nil {
		panic(err)
	}

	return cmd
}
