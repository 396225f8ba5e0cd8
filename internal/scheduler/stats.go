package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"StonksPoller/internal/model"
)

// Stats accumulates tick counters. Safe for concurrent readers.
type Stats struct {
	ticks          atomic.Int64
	fetched        atomic.Int64
	dropped        atomic.Int64
	rowsUploaded   atomic.Int64
	uploadFailures atomic.Int64

	mu          sync.Mutex
	lastTickAt  time.Time
	lastOutcome string
}

func (s *Stats) record(requested int, batch model.Batch, out model.UploadOutcome, at time.Time) {
	s.ticks.Add(1)
	s.fetched.Add(int64(batch.Len()))
	s.dropped.Add(int64(requested - batch.Len()))
	if out.OK() {
		s.rowsUploaded.Add(int64(out.Rows))
	} else {
		s.uploadFailures.Add(1)
	}

	s.mu.Lock()
	s.lastTickAt = at
	s.lastOutcome = out.String()
	s.mu.Unlock()
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() model.TickStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.TickStats{
		Ticks:          s.ticks.Load(),
		Fetched:        s.fetched.Load(),
		Dropped:        s.dropped.Load(),
		RowsUploaded:   s.rowsUploaded.Load(),
		UploadFailures: s.uploadFailures.Load(),
		LastTickAt:     s.lastTickAt,
		LastOutcome:    s.lastOutcome,
	}
}
