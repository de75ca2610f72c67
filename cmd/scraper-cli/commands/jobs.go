package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"web-scraper-go/internal/models"
	"web-scraper-go/internal/storage"
)

func (c *cli) jobsCmd() *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage saved scrape jobs.",
	}
	jobsCmd.AddCommand(c.jobsListCmd(), c.jobsShowCmd(), c.jobsSaveCmd(), c.jobsDeleteCmd())
	return jobsCmd
}

func (c *cli) jobsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved jobs in name order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.app.Store()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			names, err := store.List(ctx)
			if err != nil {
				return err
			}

			jobs := make([]models.JobDefinition, 0, len(names))
			for _, name := range names {
				job, err := store.Get(ctx, name)
				if err != nil {
					return err
				}
				jobs = append(jobs, job)
			}

			out := cmd.OutOrStdout()
			if c.output == outputJSON {
				return writeJSON(out, jobs)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No saved jobs.")
				return nil
			}
			renderJobs(out, jobs)
			return nil
		},
	}
}

func (c *cli) jobsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved job.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.app.Store()
			if err != nil {
				return err
			}

			job, err := store.Get(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.output == outputJSON {
				return writeJSON(out, job)
			}
			fmt.Fprintf(out, "Name: %s\nURL: %s\nSelector: %s\n", job.Name, job.URL, job.Selector)
			return nil
		},
	}
}

func (c *cli) jobsSaveCmd() *cobra.Command {
	var job models.JobDefinition

	cmd := &cobra.Command{
		Use:   "save --name <name> --url <url> --selector <css>",
		Short: "Create a job or replace the job with the same name.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.app.Store()
			if err != nil {
				return err
			}

			def := models.JobDefinition{
				Name:     strings.TrimSpace(job.Name),
				URL:      strings.TrimSpace(job.URL),
				Selector: strings.TrimSpace(job.Selector),
			}
			if err := store.Upsert(cmd.Context(), def); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Job '%s' saved successfully.\n", def.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&job.Name, "name", "", "Job name")
	cmd.Flags().StringVar(&job.URL, "url", "", "Page URL (https:// is assumed when no scheme is given)")
	cmd.Flags().StringVar(&job.Selector, "selector", "", "CSS selector")
	return cmd
}

func (c *cli) jobsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved job.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return models.RequiredFieldsError("name")
			}

			store, err := c.app.Store()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if _, err := store.Get(ctx, name); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("job %q not found in saved jobs", name)
				}
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintf(out, "Are you sure you want to delete the job '%s'? [y/N] ", name)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "yes":
				default:
					fmt.Fprintln(out, "Delete cancelled.")
					return nil
				}
			}

			if err := store.Delete(ctx, name); err != nil {
				return err
			}
			fmt.Fprintf(out, "Job '%s' deleted.\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}
