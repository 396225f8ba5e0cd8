package recorder

import (
	"context"
	"log/slog"

	"StonksPoller/internal/model"
)

// NoopRecorder logs batches instead of storing them. Used for dry runs.
type NoopRecorder struct {
	logger *slog.Logger
}

func NewNoopRecorder(logger *slog.Logger) *NoopRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopRecorder{logger: logger}
}

func (n *NoopRecorder) Name() string { return "none" }

func (n *NoopRecorder) Append(_ context.Context, target model.Target, batch model.Batch) (int, error) {
	n.logger.Info("dry run, batch discarded",
		"namespace", target.Namespace,
		"table", target.Table,
		"rows", batch.Len(),
		"symbols", batch.Symbols(),
	)
	return batch.Len(), nil
}
