package mapper

import (
	"fmt"

	"github.com/bbmri-tools/directory-sync/pkg/common/logger"
	"github.com/bbmri-tools/directory-sync/pkg/common/models"
)

// RecordError marks a single source record that could not be turned into a
// valid entity. It never aborts the batch.
type RecordError struct {
	Identity string
	reason   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %s: %v", e.Identity, e.reason)
}

func (e *RecordError) Unwrap() error {
	return e.reason
}

// Report summarizes one builder pass over a fetched result array.
type Report struct {
	Fetched int
	Mapped  int
	Skipped []models.SkipReason
}

func (r *Report) skip(kind string, err *RecordError) {
	r.Skipped = append(r.Skipped, models.SkipReason{
		Identity: err.Identity,
		Reason:   err.reason.Error(),
	})
	logger.Log.WithFields(map[string]interface{}{
		"kind":     kind,
		"identity": err.Identity,
	}).WithError(err.reason).Warn("Skipping record")
}

// identity names a record for skip reporting, preferring its identifier and
// falling back to its array index.
func identity(record map[string]interface{}, index int) string {
	if id := stringAt(record, "", "id"); id != "" {
		return id
	}
	return fmt.Sprintf("record[%d]", index)
}
