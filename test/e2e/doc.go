/*
Package main provides the end-to-end suite that runs against a real pipeline fleet.

# Package Structure

	test/e2e/
	├── main.go   Entry point: flags, configuration, harness setup, Ginkgo runner
	├── tests.go  Ginkgo tests, one fresh fleet per test
	└── doc.go    This file

# Running

The suite is a plain binary so it can be pointed at any checkout of the pipeline:

	go run ./test/e2e \
	    -compose-dir=.. \
	    -input=../agent/inputs/large_1M_events.log \
	    -event-log=../events.log \
	    -settle-mode=stable

Each test opens a session in BeforeEach, which runs the compose command and lists
the nodes, and closes it in AfterEach, which stops and prunes every node and removes
the event log. "Verification run" drives the same catalog as `pipeline-verify run`.

# Flags

	┌─────────────────────┬──────────────────────────────────────────────┐
	│ Flag                │ Default                                      │
	├─────────────────────┼──────────────────────────────────────────────┤
	│ -podman-socket      │ unix:///run/user/1000/podman/podman.sock     │
	│ -compose-command    │ docker-compose up -d                         │
	│ -compose-dir        │ ..                                           │
	│ -provision-timeout  │ 0 (none)                                     │
	│ -input              │ ../agent/inputs/large_1M_events.log          │
	│ -event-log          │ ../events.log                                │
	│ -config-root        │ ..                                           │
	│ -settle-mode        │ stable                                       │
	│ -settle-period      │ 3s                                           │
	│ -settle-max-wait    │ 2m                                           │
	│ -log-level          │ debug                                        │
	└─────────────────────┴──────────────────────────────────────────────┘
*/
package main
