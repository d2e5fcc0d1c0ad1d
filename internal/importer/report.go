package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stircraft/internal/recipes"
)

// RecordError describes a record, or a whole letter fetch, that could not be
// imported.
type RecordError struct {
	Letter     rune
	ExternalID string
	Name       string
	Err        error
}

func (e *RecordError) Error() string {
	switch {
	case e.ExternalID != "" || e.Name != "":
		return fmt.Sprintf("record %s %q: %v", e.ExternalID, e.Name, e.Err)
	case e.Letter != 0:
		return fmt.Sprintf("letter %q: %v", e.Letter, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Report summarises one pipeline run.
type Report struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Duration  time.Duration
	Processed int
	Created   int
	Skipped   int
	Failed    int
	Purged    *recipes.PurgeResult
	Failures  []*RecordError
}

func (r *Report) fail(err *RecordError) {
	r.Failed++
	r.Failures = append(r.Failures, err)
}

// String renders a human readable summary with one line per failure.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "import %s finished in %s: %d created, %d skipped, %d failed",
		r.RunID, r.Duration.Round(time.Millisecond), r.Created, r.Skipped, r.Failed)
	if r.Purged != nil {
		fmt.Fprintf(&b, "\ncleared %d cocktails, %d ingredients, %d vessels",
			r.Purged.Cocktails, r.Purged.Ingredients, r.Purged.Vessels)
	}
	for _, failure := range r.Failures {
		fmt.Fprintf(&b, "\n  failed %s", failure.Error())
	}
	return b.String()
}
