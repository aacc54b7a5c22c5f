package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/kubev2v/pipeline-verifier/internal/models"
)

const maxDetailWidth = 80

var outcomeColors = map[models.Outcome]*color.Color{
	models.OutcomePassed:   color.New(color.FgGreen),
	models.OutcomeFailed:   color.New(color.FgRed),
	models.OutcomeTimedOut: color.New(color.FgYellow),
	models.OutcomeErrored:  color.New(color.FgMagenta, color.Bold),
}

// Outcome renders the outcome name in its color. Colors are dropped when color.NoColor is set.
func Outcome(o models.Outcome) string {
	c, ok := outcomeColors[o]
	if !ok {
		return string(o)
	}
	return c.Sprint(string(o))
}

// Run writes one row per check followed by a totals footer.
func Run(w io.Writer, run models.Run) {
	fmt.Fprintf(w, "Run %s\n", run.ID)
	if run.ProvisionError != "" {
		fmt.Fprintf(w, "Provisioning: %s\n", color.RedString(run.ProvisionError))
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Check", "Aspect", "Outcome", "Duration", "Detail"})
	for _, r := range run.Results {
		t.AppendRow(table.Row{r.Name, string(r.Aspect), Outcome(r.Outcome), r.Duration.Round(time.Millisecond), r.Detail})
	}
	t.AppendFooter(table.Row{"", "", summary(run), run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond), verdict(run)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, WidthMax: maxDetailWidth},
	})
	t.Render()
}

// History writes one row per run, newest first as given.
func History(w io.Writer, runs []models.Run, total int) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Run", "Started", "Duration", "Passed", "Failed", "Timed Out", "Errored", "Verdict"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
			run.Count(models.OutcomePassed),
			run.Count(models.OutcomeFailed),
			run.Count(models.OutcomeTimedOut),
			run.Count(models.OutcomeErrored),
			verdict(run),
		})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d of %d runs", len(runs), total)})
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func summary(run models.Run) string {
	return fmt.Sprintf("%d/%d passed", run.Count(models.OutcomePassed), len(run.Results))
}

func verdict(run models.Run) string {
	if run.Passed() {
		return color.GreenString("PASS")
	}
	return color.RedString("FAIL")
}
