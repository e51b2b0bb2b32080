package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	recordsCreated     atomic.Int64
	followUpsCreated   atomic.Int64
	imagesAppended     atomic.Int64
	validationFailures atomic.Int64
	notFoundResponses  atomic.Int64
	auditEntries       atomic.Int64
)

func IncRecordsCreated()     { recordsCreated.Add(1) }
func IncFollowUpsCreated()   { followUpsCreated.Add(1) }
func IncImagesAppended()     { imagesAppended.Add(1) }
func IncValidationFailures() { validationFailures.Add(1) }
func IncNotFoundResponses()  { notFoundResponses.Add(1) }
func IncAuditEntries()       { auditEntries.Add(1) }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP radiograph_records_created_total Number of primary radiograph records created.\n")
	fmt.Fprintf(w, "# TYPE radiograph_records_created_total counter\n")
	fmt.Fprintf(w, "radiograph_records_created_total %d\n", recordsCreated.Load())

	fmt.Fprintf(w, "# HELP radiograph_followups_created_total Number of follow-up records created.\n")
	fmt.Fprintf(w, "# TYPE radiograph_followups_created_total counter\n")
	fmt.Fprintf(w, "radiograph_followups_created_total %d\n", followUpsCreated.Load())

	fmt.Fprintf(w, "# HELP radiograph_images_appended_total Number of image references attached to records.\n")
	fmt.Fprintf(w, "# TYPE radiograph_images_appended_total counter\n")
	fmt.Fprintf(w, "radiograph_images_appended_total %d\n", imagesAppended.Load())

	fmt.Fprintf(w, "# HELP radiograph_validation_failures_total Number of create/update payloads rejected by validation.\n")
	fmt.Fprintf(w, "# TYPE radiograph_validation_failures_total counter\n")
	fmt.Fprintf(w, "radiograph_validation_failures_total %d\n", validationFailures.Load())

	fmt.Fprintf(w, "# HELP radiograph_notfound_responses_total Number of lookups that resolved to no visible record.\n")
	fmt.Fprintf(w, "# TYPE radiograph_notfound_responses_total counter\n")
	fmt.Fprintf(w, "radiograph_notfound_responses_total %d\n", notFoundResponses.Load())

	fmt.Fprintf(w, "# HELP radiograph_audit_entries_total Number of audit trail entries written.\n")
	fmt.Fprintf(w, "# TYPE radiograph_audit_entries_total counter\n")
	fmt.Fprintf(w, "radiograph_audit_entries_total %d\n", auditEntries.Load())
}

func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WritePrometheus(w)
	}
}
