package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/libscout/libscout/pkg/discovery"
)

// categoriesCommand creates the categories command.
func (c *CLI) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the known library categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, cat := range discovery.Categories() {
				fmt.Println(cat)
			}
			return nil
		},
	}
}
