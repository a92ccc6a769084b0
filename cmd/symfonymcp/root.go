package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/dejo1307/symfonymcp/internal/completion"
	"github.com/dejo1307/symfonymcp/internal/config"
	"github.com/dejo1307/symfonymcp/internal/logger"
	"github.com/dejo1307/symfonymcp/internal/server"
	"github.com/dejo1307/symfonymcp/internal/source"
)

var (
	configPath  string
	projectRoot string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "symfonymcp",
	Short: "Symfony configuration completion over MCP",
	Long: `symfonymcp resolves YAML configuration keys against a Symfony configuration
reference XML and lists the options and sections valid at that position.

The reference is read from <project>/.idea/symfony2-config.xml when present,
otherwise the bundled reference is used. Without a subcommand the MCP server
is started on stdio.`,
	Version:       server.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "symfonymcp.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&projectRoot, "project", "p", "", "Project root (overrides project_root from the config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig reads the config file, falling back to defaults when it is
// missing, and applies flag overrides.
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		// If config file doesn't exist, use defaults
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		}
		cfg = config.Default()
	}
	if projectRoot != "" {
		cfg.ProjectRoot = projectRoot
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg
}

// setup loads config, initializes logging and builds the completion service.
func setup() (*config.Config, *completion.Service, error) {
	cfg := loadConfig()
	if err := logger.Initialize(cfg.Log.Level, cfg.Log.JSON); err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, completion.New(cfg, source.NewCache()), nil
}
