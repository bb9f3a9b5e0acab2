package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fsgate/internal/config"
	"fsgate/internal/sandbox"
	"fsgate/internal/server"
	"fsgate/internal/tools"
)

var (
	configPath string
	debugMode  bool
	logFile    string
)

func main() {
	if err := newApp().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fsgate",
		Short:         "Sandboxed filesystem tool server speaking MCP over stdio",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON configuration file")
	cmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (logs disabled by default; stdout carries the protocol)")
	cmd.AddCommand(
		newServeCommand(),
		newInfoCommand(),
	)
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool catalog over stdio",
		Long: `Serve the tool catalog over stdio.

Expected to be executed by an MCP client, not by a human.`,
		Args: cobra.NoArgs,
		RunE: serveAction,
	}
}

func serveAction(cmd *cobra.Command, _ []string) error {
	srv, logger, err := buildServer()
	if err != nil {
		return err
	}

	// SIGINT/SIGTERM cancel the context; the SDK closes the transport
	// before Run returns, so shutdown is clean and exits with status 0.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("server terminated")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the advertised tool catalog as JSON",
		Args:  cobra.NoArgs,
		RunE:  infoAction,
	}
}

func infoAction(cmd *cobra.Command, _ []string) error {
	srv, _, err := buildServer()
	if err != nil {
		return err
	}
	catalog, err := srv.Catalog(cmd.Context())
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(map[string]interface{}{"tools": catalog}, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func buildServer() (*server.Server, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if debugMode {
		cfg.Debug = true
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	logger := initLogger(cfg.Debug, cfg.LogFile)
	logger.Info().
		Strs("allowed_roots", cfg.AllowedRoots).
		Strs("blocked_roots", cfg.BlockedRoots).
		Msg("fsgate starting")

	policy, err := sandbox.NewPolicy(cfg.AllowedRoots, cfg.BlockedRoots, cfg.AllowedExtensions)
	if err != nil {
		return nil, logger, err
	}
	registry := tools.NewRegistry(policy, tools.Limits{
		MaxFileSizeBytes:    cfg.ToolLimits.MaxFileSizeBytes,
		MaxDirectoryEntries: cfg.ToolLimits.MaxDirectoryEntries,
	}, logger)
	return server.New(registry, logger), logger, nil
}

func initLogger(debug bool, logFilePath string) zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// stdout belongs to the MCP transport; logs go to a file when
	// configured and nowhere otherwise.
	var output io.Writer
	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		output = file
	} else {
		output = io.Discard
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
