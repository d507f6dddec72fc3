// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress renders per-item progress lines with an ETA for the
// batch stages.
package progress

import (
	"fmt"
	"time"
)

// Tracker accumulates completion state for a fixed-size batch.
type Tracker struct {
	total int
	done  int
	start time.Time
}

// NewTracker starts tracking a batch of total items.
func NewTracker(total int) *Tracker {
	return &Tracker{total: total, start: time.Now()}
}

// Advance marks one item finished.
func (t *Tracker) Advance() { t.done++ }

// Done returns the number of finished items.
func (t *Tracker) Done() int { return t.done }

// Elapsed returns the time since tracking started.
func (t *Tracker) Elapsed() time.Duration { return time.Since(t.start) }

// Line renders a progress prefix like "[12/300  4.0% ETA:02m03s]" followed
// by the detail text.
func (t *Tracker) Line(detail string) string {
	rate := 1.0
	if t.total > 0 {
		rate = float64(t.done) / float64(t.total)
	}

	eta := time.Duration(-1)
	if rate > 0 {
		elapsed := t.Elapsed()
		eta = time.Duration(float64(elapsed)/rate) - elapsed
	}

	return fmt.Sprintf("[%d/%d %5.1f%% ETA:%s] %s", t.done, t.total, rate*100, FormatETA(eta), detail)
}

// FormatETA renders a duration as "1h02m03s" or "02m03s"; negative
// durations (unknown ETA) render as "--:--".
func FormatETA(d time.Duration) string {
	if d < 0 {
		return "--:--"
	}
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%02dm%02ds", m, s)
}
