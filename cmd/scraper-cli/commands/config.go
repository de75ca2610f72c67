package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"web-scraper-go/internal/config"
)

func (c *cli) configCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *c.app.Config
			cfg.Store.SupabaseURL = maskString(cfg.Store.SupabaseURL)
			cfg.Store.SupabaseKey = maskString(cfg.Store.SupabaseKey)

			out := cmd.OutOrStdout()
			if c.output == outputJSON {
				return writeJSON(out, cfg)
			}

			fmt.Fprintln(out, "Current Configuration:")
			fmt.Fprintf(out, "Store Backend: %s\n", cfg.Store.Backend)
			fmt.Fprintf(out, "Jobs File: %s\n", cfg.Store.Path)
			fmt.Fprintf(out, "Supabase URL: %s\n", cfg.Store.SupabaseURL)
			fmt.Fprintf(out, "Supabase Key: %s\n", cfg.Store.SupabaseKey)
			fmt.Fprintf(out, "Supabase Table: %s\n", cfg.Store.SupabaseTable)
			fmt.Fprintf(out, "Request Timeout: %v\n", cfg.Scraper.RequestTimeout)
			fmt.Fprintf(out, "User Agent: %s\n", cfg.Scraper.UserAgent)
			fmt.Fprintf(out, "Log Level: %s\n", cfg.Logging.Level)
			return nil
		},
	}
	configCmd.AddCommand(c.configInitCmd())
	return configCmd
}

func (c *cli) configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file to the --config path.",
		Args:  cobra.NoArgs,
		// The existing file may be the broken one being replaced, so it is not loaded.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.checkOutput()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.opts.ConfigFile
			if err := config.DefaultConfig().WriteFile(path, force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return fmt.Errorf("%w (use --force to replace it)", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if c.output == outputJSON {
				return writeJSON(out, map[string]string{"path": path})
			}
			fmt.Fprintf(out, "Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing configuration file")
	return cmd
}
