package cli

import (
	"time"

	"github.com/spf13/cobra"

	"housing-stats/config"
	"housing-stats/utils"
)

// RootOptions holds the configuration and global flags shared by all commands.
type RootOptions struct {
	Config  *config.Config
	Verbose bool
}

// NewRootCommand creates the root command of the housing-stats CLI.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &RootOptions{Config: cfg}

	cmd := &cobra.Command{
		Use:   "housing-stats",
		Short: "Guangzhou new-build housing statistics",
		Long: `Generate a synthetic year of Guangzhou new-build housing statistics,
scrape the figures published by the housing authority, and report on
what has been stored.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "print debug logs")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewScrapeCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}

// logger builds a logger writing to the command's output streams.
func (o *RootOptions) logger(cmd *cobra.Command) *utils.Logger {
	level := o.Config.LogLevel
	if o.Verbose {
		level = "debug"
	}
	return utils.NewLoggerTo(cmd.OutOrStdout(), cmd.ErrOrStderr(), level)
}

func (o *RootOptions) retry(logger *utils.Logger) *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: o.Config.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}
}
