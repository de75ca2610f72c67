package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const noMatchesMessage = "No elements found with the given selector."

var errScrapeFailed = errors.New("scrape failed")

type runOutput struct {
	URL        string   `json:"url"`
	Selector   string   `json:"selector"`
	Items      []string `json:"items"`
	Error      string   `json:"error,omitempty"`
	DurationMs int64    `json:"duration_ms"`
}

func (c *cli) runCmd() *cobra.Command {
	var (
		url      string
		selector string
		jobName  string
	)

	cmd := &cobra.Command{
		Use:   "run [--job <name>] [--url <url>] [--selector <css>]",
		Short: "Fetch a page and print the text of every matching element.",
		Long: "Runs a single scrape. The URL and selector come from --url/--selector, " +
			"or from a saved job with --job; explicit flags override the saved values.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if name := strings.TrimSpace(jobName); name != "" {
				store, err := c.app.Store()
				if err != nil {
					return err
				}
				job, err := store.Get(ctx, name)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("url") {
					url = job.URL
				}
				if !cmd.Flags().Changed("selector") {
					selector = job.Selector
				}
			}

			if c.output == outputConsole {
				fmt.Fprintln(cmd.ErrOrStderr(), "Scraping, please wait...")
			}

			result, err := c.app.Executor.Run(ctx, url, selector)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.output == outputJSON {
				items := result.Items
				if items == nil {
					items = []string{}
				}
				if err := writeJSON(out, runOutput{
					URL:        result.URL,
					Selector:   result.Selector,
					Items:      items,
					Error:      result.Diagnostic(),
					DurationMs: result.Duration.Milliseconds(),
				}); err != nil {
					return err
				}
			} else {
				lines := result.Lines()
				if len(lines) == 0 {
					fmt.Fprintln(out, noMatchesMessage)
				}
				for _, line := range lines {
					fmt.Fprintln(out, line)
				}
			}

			if result.Failed() {
				return errScrapeFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Page URL (https:// is assumed when no scheme is given)")
	cmd.Flags().StringVar(&selector, "selector", "", "CSS selector")
	cmd.Flags().StringVar(&jobName, "job", "", "Saved job to run")
	return cmd
}
