package promotion

import (
	"fmt"
	"strings"
	"time"
)

// Outcome is what happened to one job.
type Outcome string

const (
	// OutcomeActivated means the embedding was committed and the row is active.
	OutcomeActivated Outcome = "activated"

	// OutcomeSkipped means the content item could not be found.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFailed means the job was rolled back after an error.
	OutcomeFailed Outcome = "failed"

	// OutcomePlanned means a dry run computed the update and rolled it back.
	OutcomePlanned Outcome = "planned"
)

// JobResult records one job's outcome.
type JobResult struct {
	PromotionID string
	ArticleID   string
	Outcome     Outcome
	Err         error
}

// Report contains statistics from a run.
type Report struct {
	Discovered int
	Activated  int
	Skipped    int
	Failed     int
	Planned    int

	Jobs []JobResult

	// Aborted is set when the run stopped before every discovered job was
	// attempted: no connection, discovery failure, cancellation or a panic
	// outside the job loop.
	Aborted error

	StartedAt time.Time
	Duration  time.Duration
}

func (r *Report) add(res JobResult) {
	r.Jobs = append(r.Jobs, res)
	switch res.Outcome {
	case OutcomeActivated:
		r.Activated++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	case OutcomePlanned:
		r.Planned++
	}
}

// Attempted returns the number of jobs the run got to.
func (r *Report) Attempted() int {
	return len(r.Jobs)
}

// Summary returns a human-readable summary of the run.
func (r *Report) Summary() string {
	s := fmt.Sprintf(
		"Run complete: %d discovered, %d activated, %d skipped (no content item), %d failed",
		r.Discovered, r.Activated, r.Skipped, r.Failed,
	)
	if r.Planned > 0 {
		s += fmt.Sprintf(", %d planned (dry run)", r.Planned)
	}
	if r.Aborted != nil {
		s += fmt.Sprintf("\nRun aborted after %d of %d jobs: %v", r.Attempted(), r.Discovered, r.Aborted)
	}
	return s
}

// Markdown renders the report as a markdown document with one table row
// per attempted job.
func (r *Report) Markdown() string {
	var b strings.Builder

	b.WriteString("# Promotion run\n\n")
	b.WriteString("| Discovered | Activated | Skipped | Failed | Planned | Duration |\n")
	b.WriteString("|---:|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %s |\n\n",
		r.Discovered, r.Activated, r.Skipped, r.Failed, r.Planned, r.Duration.Round(time.Millisecond))

	if r.Aborted != nil {
		fmt.Fprintf(&b, "> **Aborted** after %d of %d jobs: %s\n\n", r.Attempted(), r.Discovered, markdownCell(r.Aborted.Error()))
	}

	if len(r.Jobs) == 0 {
		b.WriteString("_No jobs attempted._\n")
		return b.String()
	}

	b.WriteString("## Jobs\n\n")
	b.WriteString("| Promotion | Article | Outcome | Error |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, j := range r.Jobs {
		errText := ""
		if j.Err != nil {
			errText = markdownCell(j.Err.Error())
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			markdownCell(j.PromotionID), markdownCell(j.ArticleID), j.Outcome, errText)
	}

	return b.String()
}

// markdownCell keeps a value on one table row.
func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
