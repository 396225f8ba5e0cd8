package recorder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"StonksPoller/internal/config"
	"StonksPoller/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubRecorder struct {
	calls int
	err   error
	panic bool
}

func (s *stubRecorder) Name() string { return "stub" }

func (s *stubRecorder) Append(_ context.Context, _ model.Target, batch model.Batch) (int, error) {
	s.calls++
	if s.panic {
		panic("boom")
	}
	if s.err != nil {
		return 0, s.err
	}
	return batch.Len(), nil
}

func TestUploader_Success(t *testing.T) {
	rec := NewSQLiteRecorder(t.TempDir())
	u := NewUploader(rec, quietLogger())
	target := model.Target{Namespace: "financialdata", Table: "financial_data"}

	out := u.Upload(context.Background(), testBatch(time.Now()), target)
	if !out.OK() {
		t.Fatalf("Upload() failed: %v", out.Err)
	}
	if out.Rows != 2 {
		t.Errorf("Rows = %d, want 2", out.Rows)
	}
	if out.Target != target {
		t.Errorf("Target = %+v, want %+v", out.Target, target)
	}
	if out.CompletedAt.IsZero() {
		t.Error("CompletedAt not set")
	}
}

func TestUploader_EmptyBatchIsNoop(t *testing.T) {
	stub := &stubRecorder{err: errors.New("should not be called")}
	u := NewUploader(stub, quietLogger())

	out := u.Upload(context.Background(), model.Batch{}, model.Target{Namespace: "ns", Table: "t"})
	if !out.OK() {
		t.Fatalf("Upload() of empty batch failed: %v", out.Err)
	}
	if out.Rows != 0 {
		t.Errorf("Rows = %d, want 0", out.Rows)
	}
	if stub.calls != 0 {
		t.Errorf("recorder calls = %d, want 0", stub.calls)
	}
}

func TestUploader_RecorderErrorBecomesOutcome(t *testing.T) {
	cause := errors.New("disk full")
	u := NewUploader(&stubRecorder{err: cause}, quietLogger())

	out := u.Upload(context.Background(), testBatch(time.Now()), model.Target{Namespace: "ns", Table: "t"})
	if out.OK() {
		t.Fatal("expected failure outcome")
	}
	if !errors.Is(out.Err, cause) {
		t.Errorf("Err = %v, want wrapping %v", out.Err, cause)
	}
	if out.Rows != 0 {
		t.Errorf("Rows = %d, want 0", out.Rows)
	}
}

func TestUploader_PanicBecomesOutcome(t *testing.T) {
	u := NewUploader(&stubRecorder{panic: true}, quietLogger())

	out := u.Upload(context.Background(), testBatch(time.Now()), model.Target{Namespace: "ns", Table: "t"})
	if out.OK() {
		t.Fatal("expected failure outcome after panic")
	}
}

func TestUploader_UnreachablePostgres(t *testing.T) {
	rec := NewPostgresRecorder(config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "nobody",
		Password: "x",
		SSLMode:  "disable",
	})
	u := NewUploader(rec, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := u.Upload(ctx, testBatch(time.Now()), model.Target{Namespace: "financialdata", Table: "financial_data"})
	if out.OK() {
		t.Fatal("expected failure outcome for unreachable database")
	}
	if out.Target.Namespace != "financialdata" {
		t.Errorf("Target = %+v", out.Target)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		driver  string
		want    string
		wantErr bool
	}{
		{config.DriverPostgres, "postgres", false},
		{config.DriverSQLite, "sqlite", false},
		{config.DriverNone, "none", false},
		{"mysql", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			rec, err := New(config.DatabaseConfig{Driver: tt.driver, SQLiteDir: t.TempDir()}, quietLogger())
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if rec.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", rec.Name(), tt.want)
			}
		})
	}
}

func TestNoopRecorder(t *testing.T) {
	n, err := NewNoopRecorder(quietLogger()).Append(context.Background(), model.Target{}, testBatch(time.Now()))
	if err != nil || n != 2 {
		t.Errorf("Append() = %d, %v; want 2, nil", n, err)
	}
}
