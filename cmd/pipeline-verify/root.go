package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kubev2v/pipeline-verifier/internal/config"
	"github.com/kubev2v/pipeline-verifier/internal/logger"
)

const envPrefix = "PIPELINE_VERIFY"

var errChecksFailed = errors.New("verification failed")

// flagKeys maps each configuration flag to its viper key.
var flagKeys = map[string]string{
	"podman-socket":           "fleet.podman-socket",
	"compose-command":         "fleet.compose-command",
	"compose-dir":             "fleet.compose-dir",
	"provision-timeout":       "fleet.provision-timeout",
	"stop-timeout":            "fleet.stop-timeout",
	"input":                   "paths.input",
	"event-log":               "paths.event-log",
	"config-root":             "paths.config-root",
	"config-patterns":         "paths.config-patterns",
	"settle-mode":             "settle.mode",
	"settle-period":           "settle.period",
	"settle-initial-interval": "settle.initial-interval",
	"settle-max-interval":     "settle.max-interval",
	"settle-max-wait":         "settle.max-wait",
	"workers":                 "runner.workers",
	"store-path":              "store.path",
	"log-format":              "log-format",
	"log-level":               "log-level",
}

// cli carries the state shared by every command of one invocation.
type cli struct {
	configFile string
	noColor    bool
	cfg        *config.Configuration
	log        *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "pipeline-verify",
		Short:         "End-to-end verification of the containerized log pipeline",
		Long:          "pipeline-verify starts the agent, splitter and target nodes, checks their\nconfiguration, logs and event log, and tears the fleet down again.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(envPrefix),
			c.loadConfiguration,
		),
	}

	defaults, err := config.NewConfigurationWithDefaults()
	if err != nil {
		panic(err)
	}
	registerFlags(root.PersistentFlags(), defaults)
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(c.newRunCmd())
	root.AddCommand(c.newTeardownCmd())
	root.AddCommand(c.newHistoryCmd())
	root.AddCommand(c.newShowCmd())
	return root
}

func registerFlags(f *pflag.FlagSet, d *config.Configuration) {
	f.String("podman-socket", d.Fleet.PodmanSocket, "Podman API socket")
	f.String("compose-command", d.Fleet.ComposeCommand, "Command that brings the fleet up")
	f.String("compose-dir", d.Fleet.ComposeDir, "Working directory of the compose command")
	f.Duration("provision-timeout", d.Fleet.ProvisionTimeout, "Deadline of the compose command (0 means none)")
	f.Uint("stop-timeout", d.Fleet.StopTimeout, "Seconds a node gets to stop before it is killed")

	f.String("input", d.Paths.InputArtifact, "Input artifact fed into the agent")
	f.String("event-log", d.Paths.EventLog, "Event log written by the targets")
	f.String("config-root", d.Paths.ConfigRoot, "Directory holding the agent, splitter and target directories")
	f.StringSlice("config-patterns", d.Paths.ConfigPatterns, "Glob patterns of the configuration artifacts")

	f.String("settle-mode", d.Settle.Mode, "How to wait for the pipeline to drain: stable (poll until unchanged) or fixed (constant --settle-period)")
	f.Duration("settle-period", d.Settle.Period, "Wait used in fixed mode")
	f.Duration("settle-initial-interval", d.Settle.InitialInterval, "First poll interval in stable mode")
	f.Duration("settle-max-interval", d.Settle.MaxInterval, "Longest poll interval in stable mode")
	f.Duration("settle-max-wait", d.Settle.MaxWait, "Give up waiting after this long in stable mode")

	f.Int("workers", d.Runner.Workers, "Checks run concurrently")
	f.String("store-path", d.Store.Path, "DuckDB file keeping the run history (empty disables it)")

	f.String("log-format", d.LogFormat, "Log format: console or json")
	f.String("log-level", d.LogLevel, "Log level")
}

// loadConfiguration layers flags over environment, config file and defaults.
func (c *cli) loadConfiguration(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}

	if c.configFile != "" {
		v.SetConfigFile(c.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", c.configFile, err)
		}
	}

	cfg, err := config.NewConfigurationWithDefaults()
	if err != nil {
		return err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(log)

	if c.noColor {
		color.NoColor = true
	}

	c.cfg = cfg
	c.log = log
	log.Debug("configuration loaded", zap.Any("config", cfg.DebugMap()))
	return nil
}
