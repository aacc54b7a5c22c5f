package store

const (
	tableRuns         = "runs"
	tableCheckResults = "check_results"
)

var runColumns = []string{
	"id",
	"started_at",
	"finished_at",
	"provision_error",
	"passed",
}

var checkResultColumns = []string{
	"run_id",
	"position",
	"name",
	"aspect",
	"outcome",
	"detail",
	"duration_us",
}
