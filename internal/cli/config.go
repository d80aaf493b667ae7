package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// Config holds user settings read from the config file. Every field is
// optional; the GITHUB_TOKEN environment variable overrides Token.
type Config struct {
	// Token is a GitHub personal access token. Raises the API quota from
	// 10 to 30 search requests per minute.
	Token string `toml:"token"`

	// Limit is the default maximum number of search results.
	Limit int `toml:"limit"`

	// Sort is the default sort key: stars, updated, or name.
	Sort string `toml:"sort"`

	// Order is the default sort order: asc or desc.
	Order string `toml:"order"`

	// Addr is the default listen address for the serve command.
	Addr string `toml:"addr"`
}

const defaultAddr = "127.0.0.1:8370"

// configDir returns the configuration directory using the XDG standard
// (~/.config/libscout/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// loadConfig reads the config file if it exists and applies environment
// overrides. A missing file yields defaults, not an error.
func loadConfig() (Config, error) {
	cfg := Config{Addr: defaultAddr}

	path, err := configPath()
	if err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.Token = token
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	return cfg, nil
}

// writeConfig persists cfg to the config file, creating the directory if
// needed.
func writeConfig(cfg Config) (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	path := filepath.Join(dir, "config.toml")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return path, nil
}

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage libscout configuration",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil {
				printInfo("Config already exists")
				printDetail("Path: %s", path)
				return nil
			}

			written, err := writeConfig(Config{Addr: defaultAddr})
			if err != nil {
				return err
			}
			printSuccess("Config created")
			printDetail("Path: %s", written)
			printDetail("Set token = \"...\" or export GITHUB_TOKEN to raise API limits")
			return nil
		},
	}
}
