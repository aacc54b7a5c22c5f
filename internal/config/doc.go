// Package config defines the configuration structure for the pipeline verifier.
//
// Defaults are declared with `default` struct tags and applied by creasty/defaults.
// The CLI binds its flags, an optional config file and PIPELINE_VERIFY_* environment
// variables through viper and unmarshals into Configuration using the mapstructure keys.
//
// # Configuration Structure
//
//	Configuration
//	├── Fleet          - Container runtime and provisioning trigger
//	├── Paths          - Input artifact, event log, role configuration root
//	├── Settle         - How long to wait for the pipeline to drain
//	├── Runner         - Check runner concurrency
//	├── Store          - Run history database
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Fleet Configuration
//
//	┌──────────────────┬────────────────────────────────────────────┬───────────────────────────────────┐
//	│ Field            │ Default                                    │ Description                       │
//	├──────────────────┼────────────────────────────────────────────┼───────────────────────────────────┤
//	│ PodmanSocket     │ "unix:///run/user/1000/podman/podman.sock" │ Container API socket              │
//	│ ComposeCommand   │ "docker-compose up -d"                     │ Opaque fleet trigger (sh -c)      │
//	│ ComposeDir       │ ".."                                       │ Working dir of the trigger        │
//	│ ProvisionTimeout │ 0                                          │ Trigger deadline, 0 means none    │
//	│ StopTimeout      │ 10                                         │ Seconds before a stop kills       │
//	└──────────────────┴────────────────────────────────────────────┴───────────────────────────────────┘
//
// # Paths Configuration
//
//	┌────────────────┬───────────────────────────────────────┬───────────────────────────────────┐
//	│ Field          │ Default                               │ Description                       │
//	├────────────────┼───────────────────────────────────────┼───────────────────────────────────┤
//	│ InputArtifact  │ "../agent/inputs/large_1M_events.log" │ Events fed into the agent         │
//	│ EventLog       │ "../events.log"                       │ Final output of the pipeline      │
//	│ ConfigRoot     │ ".."                                  │ Parent of the role directories    │
//	│ ConfigPatterns │ ["*.json"]                            │ Artifacts checked per role        │
//	└────────────────┴───────────────────────────────────────┴───────────────────────────────────┘
//
// # Settle Configuration
//
// Mode "fixed" sleeps Period before counting lines. Mode "stable" polls the event
// log with exponential backoff between InitialInterval and MaxInterval until its line
// count stops changing, giving up after MaxWait.
package config
