package notifier

import (
	"fmt"
	"html"
	"strings"

	"StonksPoller/internal/model"
)

// FormatUploadFailure formats a failed upload for the operator chat.
func FormatUploadFailure(tickID string, out model.UploadOutcome) string {
	var b strings.Builder
	b.WriteString("❌ <b>Upload failed</b>\n\n")
	b.WriteString(fmt.Sprintf("Target: %s\n", html.EscapeString(out.Target.String())))
	b.WriteString(fmt.Sprintf("Time: %s\n", out.CompletedAt.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("Tick: <code>%s</code>\n", tickID))
	if out.Err != nil {
		b.WriteString(fmt.Sprintf("Error: %s\n", html.EscapeString(out.Err.Error())))
	}
	return b.String()
}

// FormatStatus formats the cumulative tick counters.
func FormatStatus(s model.TickStats, target model.Target) string {
	var b strings.Builder
	b.WriteString("📊 <b>Poller status</b>\n\n")
	b.WriteString(fmt.Sprintf("Target: %s\n", html.EscapeString(target.String())))
	b.WriteString(fmt.Sprintf("Ticks: %d\n", s.Ticks))
	b.WriteString(fmt.Sprintf("Records fetched: %d\n", s.Fetched))
	b.WriteString(fmt.Sprintf("Symbols dropped: %d\n", s.Dropped))
	b.WriteString(fmt.Sprintf("Rows uploaded: %d\n", s.RowsUploaded))
	b.WriteString(fmt.Sprintf("Upload failures: %d\n", s.UploadFailures))
	if s.LastTickAt.IsZero() {
		b.WriteString("Last tick: never\n")
	} else {
		b.WriteString(fmt.Sprintf("Last tick: %s\n", s.LastTickAt.Format(model.DateLayout)))
		b.WriteString(fmt.Sprintf("Last outcome: %s\n", html.EscapeString(s.LastOutcome)))
	}
	return b.String()
}

// FormatSymbols lists the polled symbols.
func FormatSymbols(symbols []model.Symbol) string {
	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = string(s)
	}
	return fmt.Sprintf("📈 <b>Symbols</b> (%d)\n\n%s", len(symbols), html.EscapeString(strings.Join(names, ", ")))
}
