package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"country-capital/internal/client"
	"country-capital/internal/config"
	"country-capital/internal/logger"
	"country-capital/internal/models"
	"country-capital/internal/services"
)

// newRootCmd builds the CLI. Without a subcommand it opens the lookup window.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "country-capital",
		Short:         "Look up a country's capital and flag",
		Long:          `A desktop tool that resolves a country name to its capital and flag using the REST Countries API.`,
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runGUI(cmd.Context(), cfg)
		},
	}

	rootCmd.PersistentFlags().String("base-url", "", "REST Countries API root (env COUNTRY_API_BASE_URL)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per-request timeout (env COUNTRY_API_TIMEOUT)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (env LOG_LEVEL)")

	rootCmd.AddCommand(newLookupCmd())
	return rootCmd
}

func newLookupCmd() *cobra.Command {
	var flagOut string

	cmd := &cobra.Command{
		Use:   "lookup <country name>",
		Short: "Print the capital and flag URL of a country without opening a window",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runLookup(cmd, cfg, strings.Join(args, " "), flagOut)
		},
	}

	cmd.Flags().StringVarP(&flagOut, "flag-out", "o", "", "write the flag PNG to this file")
	return cmd
}

// loadConfig reads the environment and applies any flags given on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.API.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("timeout") {
		cfg.API.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logger.ZerologAdapter {
	level, _ := logger.ParseLevel(cfg.Log.Level)
	return logger.New(level, cfg.Log.JSON)
}

func newClient(cfg *config.Config, log logger.Logger) *client.RestCountriesClient {
	return client.NewRestCountriesClient(client.Options{
		BaseURL:      cfg.API.BaseURL,
		Timeout:      cfg.API.Timeout,
		MaxRedirects: cfg.API.MaxRedirects,
		Logger:       log,
	})
}

func runLookup(cmd *cobra.Command, cfg *config.Config, name, flagOut string) error {
	log := newLogger(cfg)
	service := services.NewLookupService(newClient(cfg, log), nil, models.NewInMemoryCache(), nil, log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*cfg.API.Timeout+time.Second)
	defer cancel()

	result, err := service.Lookup(ctx, name)
	if err != nil {
		return errors.New(services.Describe(err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Country: %s\n", result.Record.CommonName())
	fmt.Fprintf(out, "Official name: %s\n", result.Record.OfficialName())
	fmt.Fprintf(out, "Capital: %s\n", result.Record.Capital())
	fmt.Fprintf(out, "Flag: %s\n", result.Record.FlagURL())

	if flagOut == "" {
		return nil
	}

	data, err := service.FlagBytes(ctx, result.Record)
	if err != nil {
		log.Error("Lookup", err, map[string]interface{}{"url": result.Record.FlagURL()})
		return errors.New(services.MsgFlagNotFound)
	}
	if err := os.WriteFile(flagOut, data, 0o644); err != nil {
		return fmt.Errorf("write flag: %w", err)
	}
	fmt.Fprintf(out, "Flag written to %s (%d bytes)\n", flagOut, len(data))
	return nil
}
