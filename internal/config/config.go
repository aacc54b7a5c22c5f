package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"
)

const (
	SettleModeFixed  = "fixed"
	SettleModeStable = "stable"
)

type Configuration struct {
	Fleet     Fleet  `mapstructure:"fleet"`
	Paths     Paths  `mapstructure:"paths"`
	Settle    Settle `mapstructure:"settle"`
	Runner    Runner `mapstructure:"runner"`
	Store     Store  `mapstructure:"store"`
	LogFormat string `mapstructure:"log-format" default:"console"`
	LogLevel  string `mapstructure:"log-level" default:"debug"`
}

type Fleet struct {
	PodmanSocket     string        `mapstructure:"podman-socket" default:"unix:///run/user/1000/podman/podman.sock"`
	ComposeCommand   string        `mapstructure:"compose-command" default:"docker-compose up -d"`
	ComposeDir       string        `mapstructure:"compose-dir" default:".."`
	ProvisionTimeout time.Duration `mapstructure:"provision-timeout" default:"0s"`
	StopTimeout      uint          `mapstructure:"stop-timeout" default:"10"`
}

type Paths struct {
	InputArtifact  string   `mapstructure:"input" default:"../agent/inputs/large_1M_events.log"`
	EventLog       string   `mapstructure:"event-log" default:"../events.log"`
	ConfigRoot     string   `mapstructure:"config-root" default:".."`
	ConfigPatterns []string `mapstructure:"config-patterns" default:"[\"*.json\"]"`
}

type Settle struct {
	Mode string `mapstructure:"mode" default:"stable"`
	// Period is the constant wait used in fixed mode.
	Period          time.Duration `mapstructure:"period" default:"3s"`
	InitialInterval time.Duration `mapstructure:"initial-interval" default:"500ms"`
	MaxInterval     time.Duration `mapstructure:"max-interval" default:"5s"`
	MaxWait         time.Duration `mapstructure:"max-wait" default:"2m"`
}

type Runner struct {
	Workers int `mapstructure:"workers" default:"1"`
}

type Store struct {
	// Path of the DuckDB file holding the run history. Empty disables persistence.
	Path string `mapstructure:"path" default:""`
}

func NewConfigurationWithDefaults() (*Configuration, error) {
	c := &Configuration{}
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("failed to apply configuration defaults: %w", err)
	}
	return c, nil
}

func (c *Configuration) Validate() error {
	if c.Fleet.ComposeCommand == "" {
		return errors.New("compose command is empty")
	}
	if c.Fleet.PodmanSocket == "" {
		return errors.New("podman socket is empty")
	}
	if c.Fleet.ProvisionTimeout < 0 {
		return fmt.Errorf("invalid provision timeout %s", c.Fleet.ProvisionTimeout)
	}
	if c.Paths.InputArtifact == "" || c.Paths.EventLog == "" || c.Paths.ConfigRoot == "" {
		return errors.New("input, event log and config root paths are required")
	}
	if len(c.Paths.ConfigPatterns) == 0 {
		return errors.New("at least one config pattern is required")
	}
	switch c.Settle.Mode {
	case SettleModeFixed:
		if c.Settle.Period < 0 {
			return fmt.Errorf("invalid settle period %s", c.Settle.Period)
		}
	case SettleModeStable:
		if c.Settle.InitialInterval <= 0 || c.Settle.MaxInterval <= 0 || c.Settle.MaxWait <= 0 {
			return errors.New("stable settle intervals must be positive")
		}
	default:
		return fmt.Errorf("invalid settle mode %q: must be %q or %q", c.Settle.Mode, SettleModeFixed, SettleModeStable)
	}
	if c.Runner.Workers < 1 {
		return fmt.Errorf("invalid number of workers %d", c.Runner.Workers)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}

// DebugMap returns the configuration as a flat map for structured logging.
func (c *Configuration) DebugMap() map[string]any {
	return map[string]any{
		"podman_socket":     c.Fleet.PodmanSocket,
		"compose_command":   c.Fleet.ComposeCommand,
		"compose_dir":       c.Fleet.ComposeDir,
		"provision_timeout": c.Fleet.ProvisionTimeout.String(),
		"input":             c.Paths.InputArtifact,
		"event_log":         c.Paths.EventLog,
		"config_root":       c.Paths.ConfigRoot,
		"config_patterns":   c.Paths.ConfigPatterns,
		"settle_mode":       c.Settle.Mode,
		"settle_period":     c.Settle.Period.String(),
		"settle_max_wait":   c.Settle.MaxWait.String(),
		"workers":           c.Runner.Workers,
		"store_path":        c.Store.Path,
		"log_format":        c.LogFormat,
		"log_level":         c.LogLevel,
	}
}
