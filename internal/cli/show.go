package cli

import (
	"github.com/spf13/cobra"

	"github.com/libscout/libscout/pkg/errors"
)

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var metadataPath string

	cmd := &cobra.Command{
		Use:   "show owner/repo",
		Short: "Show details for one library repository",
		Long: `Fetch a repository directly and show its latest release, stars, and
attribution. With --file, the library file's header comment block is
parsed for richer metadata.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			owner, repo, err := errors.ParseRepoRef(args[0])
			if err != nil {
				return err
			}

			svc, err := c.newService()
			if err != nil {
				return err
			}

			spinner := newSpinner(ctx, "Fetching "+args[0]+"...")
			spinner.Start()

			result, err := svc.Describe(ctx, owner, repo)
			if err != nil {
				spinner.StopWithError("Fetch failed")
				return err
			}
			spinner.Stop()

			printPackage(*result)

			if metadataPath != "" {
				meta, err := svc.FetchMetadata(ctx, owner, repo, metadataPath)
				if err != nil {
					printWarning("Header metadata unavailable: %s", errors.UserMessage(err))
					return nil
				}
				printInfo("Header metadata")
				if meta.Description != "" {
					printKeyValue("Description", meta.Description)
				}
				if meta.Author != "" {
					printKeyValue("Author", meta.Author)
				}
				if meta.Version != "" {
					printKeyValue("Version", meta.Version)
				}
				if meta.Date != "" {
					printKeyValue("Date", meta.Date)
				}
				if meta.Link != "" {
					printKeyValue("Link", meta.Link)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metadataPath, "file", "", "library file path to parse for header metadata")

	return cmd
}
