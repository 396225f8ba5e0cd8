package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"StonksPoller/internal/model"
)

// Uploader hands batches to a Recorder and turns every failure into an outcome.
type Uploader struct {
	Recorder Recorder

	logger *slog.Logger
	now    func() time.Time
}

// NewUploader creates a new Uploader.
func NewUploader(rec Recorder, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{Recorder: rec, logger: logger, now: time.Now}
}

// Upload appends batch to target. It never returns an error or panics;
// failures are reported in the outcome.
func (u *Uploader) Upload(ctx context.Context, batch model.Batch, target model.Target) (out model.UploadOutcome) {
	out.Target = target

	defer func() {
		if p := recover(); p != nil {
			out.Rows = 0
			out.Err = fmt.Errorf("%s recorder panicked: %v", u.Recorder.Name(), p)
		}
		out.CompletedAt = u.now()
		if out.Err != nil {
			u.logger.Error("upload failed",
				"namespace", target.Namespace,
				"table", target.Table,
				"rows", batch.Len(),
				"error", out.Err,
			)
			return
		}
		u.logger.Info("upload complete",
			"namespace", target.Namespace,
			"table", target.Table,
			"rows", out.Rows,
			"at", out.CompletedAt.Format(model.DateLayout),
		)
	}()

	if batch.Len() == 0 {
		return out
	}

	n, err := u.Recorder.Append(ctx, target, batch)
	if err != nil {
		out.Err = fmt.Errorf("%s: %w", u.Recorder.Name(), err)
		return out
	}
	out.Rows = n
	return out
}
