package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"web-scraper-go/internal/app"
)

const (
	outputConsole = "console"
	outputJSON    = "json"
)

type loader func(app.Options) (*app.App, error)

// cli carries flag values and the loaded application between commands.
type cli struct {
	opts   app.Options
	output string
	load   loader
	app    *app.App
}

// NewRootCmd builds the scraper-cli command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(app.Load)
}

func newRootCmd(load loader) *cobra.Command {
	c := &cli{load: load}

	rootCmd := &cobra.Command{
		Use:          "scraper-cli",
		Short:        "scraper-cli saves named scrape jobs and runs them against live pages.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkOutput(); err != nil {
				return err
			}
			a, err := c.load(c.opts)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil {
				c.app.Close()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.opts.ConfigFile, "config", "scraper.json", "Configuration file path")
	flags.StringVarP(&c.output, "output", "o", outputConsole, "Output format: console, json")
	flags.BoolVarP(&c.opts.Verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(c.jobsCmd(), c.runCmd(), c.configCmd())
	return rootCmd
}

func (c *cli) checkOutput() error {
	if c.output != outputConsole && c.output != outputJSON {
		return fmt.Errorf("unknown output format %q (use console or json)", c.output)
	}
	return nil
}

// ExecuteContext runs the CLI with ctx, which cancels an in-flight scrape.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
