// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"strings"
	"testing"
	"time"
)

func TestFormatETA(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-1, "--:--"},
		{0, "00m00s"},
		{63 * time.Second, "01m03s"},
		{59 * time.Minute, "59m00s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h02m03s"},
		{25 * time.Hour, "25h00m00s"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.d); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTrackerLine(t *testing.T) {
	tr := NewTracker(100)
	for i := 0; i < 25; i++ {
		tr.Advance()
	}
	if tr.Done() != 25 {
		t.Errorf("Done = %d", tr.Done())
	}

	line := tr.Line("file.xml")
	if !strings.HasPrefix(line, "[25/100 ") {
		t.Errorf("line = %q, want the count prefix", line)
	}
	if !strings.Contains(line, " 25.0% ") {
		t.Errorf("line = %q, want the percentage", line)
	}
	if !strings.HasSuffix(line, " file.xml") {
		t.Errorf("line = %q, want the detail suffix", line)
	}
}

func TestTrackerLineZeroProgress(t *testing.T) {
	tr := NewTracker(10)
	line := tr.Line("start")
	if !strings.Contains(line, "ETA:--:--") {
		t.Errorf("line = %q, ETA should be unknown before any completion", line)
	}
}
