package model

import (
	"fmt"
	"time"
)

// UploadOutcome reports what happened to one batch. Err is nil on success.
type UploadOutcome struct {
	Target      Target
	Rows        int
	CompletedAt time.Time
	Err         error
}

// OK reports whether the upload succeeded.
func (o UploadOutcome) OK() bool { return o.Err == nil }

func (o UploadOutcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("upload to %s database, %s table failed: %v", o.Target.Namespace, o.Target.Table, o.Err)
	}
	return fmt.Sprintf("%d rows uploaded to the %s database and %s table at %s",
		o.Rows, o.Target.Namespace, o.Target.Table, o.CompletedAt.Format(DateLayout))
}

// TickStats is a snapshot of the scheduler's cumulative counters.
type TickStats struct {
	Ticks          int64
	Fetched        int64
	Dropped        int64
	RowsUploaded   int64
	UploadFailures int64
	LastTickAt     time.Time
	LastOutcome    string
}
