// Package cli implements the libscout command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/libscout/libscout/pkg/buildinfo"
	"github.com/libscout/libscout/pkg/discovery"
	"github.com/libscout/libscout/pkg/github"
)

// appName is the application name used for directories and display.
const appName = "libscout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Libscout discovers AutoHotkey script libraries on GitHub",
		Long:         `Libscout searches GitHub for community script libraries, ranks the matches by relevance, and assembles version and attribution metadata for each one.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.searchCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.categoriesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newService builds a discovery service from the resolved configuration.
func (c *CLI) newService() (*discovery.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client := github.NewClient(github.Config{
		Token:  cfg.Token,
		Logger: c.Logger,
	})
	return discovery.NewService(client, discovery.Config{Logger: c.Logger}), nil
}
