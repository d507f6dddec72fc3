// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/insert-engine/internal/document"
	"github.com/pdiddy/insert-engine/internal/progress"
	"github.com/pdiddy/insert-engine/pkg/types"
)

// RowSink persists batches of rawdata rows. The SQLite store implements it;
// tests substitute a recorder.
type RowSink interface {
	UpsertRawRows(rows []types.RawRow) error
}

// Summary holds counts from one ingest run.
type Summary struct {
	Files       int
	Rows        int
	Failed      int
	Slowest     string
	SlowestTime time.Duration
	FailedCSV   string
}

// Run extracts archives under cfg.DocsDir, walks every XML file, converts
// each document to rows, and writes them to the sink. A file that fails to
// parse or store is recorded in the failed-file report and skipped; the run
// only errors when the input tree itself is unusable.
func Run(sink RowSink, cfg types.IngestConfig, out io.Writer) (Summary, error) {
	if err := ExtractZips(cfg.DocsDir, out); err != nil {
		return Summary{}, fmt.Errorf("extracting archives: %w", err)
	}

	files, err := listXMLFiles(cfg.DocsDir)
	if err != nil {
		return Summary{}, fmt.Errorf("scanning %s: %w", cfg.DocsDir, err)
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "no XML files under %s\n", cfg.DocsDir)
		return Summary{}, nil
	}

	report, err := newFailureReport(cfg.LogsDir)
	if err != nil {
		return Summary{}, err
	}
	defer report.Close()

	summary := Summary{FailedCSV: report.Path()}
	tracker := progress.NewTracker(len(files))

	for _, path := range files {
		start := time.Now()
		rows, err := ingestFile(sink, path)
		elapsed := time.Since(start)
		tracker.Advance()

		if err != nil {
			summary.Failed++
			report.Record(path, err, elapsed)
			fmt.Fprintf(out, "\r%s", tracker.Line(fmt.Sprintf("%s ERROR time=%.2fs", filepath.Base(path), elapsed.Seconds())))
			continue
		}

		summary.Files++
		summary.Rows += rows
		if elapsed > summary.SlowestTime {
			summary.SlowestTime = elapsed
			summary.Slowest = path
		}
		fmt.Fprintf(out, "\r%s", tracker.Line(fmt.Sprintf("%s rows=%d time=%.2fs", filepath.Base(path), rows, elapsed.Seconds())))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "files=%d rows=%d errors=%d total=%.1fs avg=%.2fs slowest=%.2fs %s\n",
		summary.Files, summary.Rows, summary.Failed,
		tracker.Elapsed().Seconds(),
		tracker.Elapsed().Seconds()/float64(len(files)),
		summary.SlowestTime.Seconds(), filepath.Base(summary.Slowest))
	return summary, nil
}

func ingestFile(sink RowSink, path string) (int, error) {
	doc, err := document.ParseFile(path)
	if err != nil {
		return 0, err
	}
	rows, err := Rows(doc, path)
	if err != nil {
		return 0, err
	}
	if err := sink.UpsertRawRows(rows); err != nil {
		return 0, fmt.Errorf("storing rows: %w", err)
	}
	return len(rows), nil
}

func listXMLFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".xml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// failureReport appends per-file errors to logs/failed_files.csv.
type failureReport struct {
	f    *os.File
	path string
}

func newFailureReport(logsDir string) (*failureReport, error) {
	if logsDir == "" {
		logsDir = "logs"
	}
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}
	path := filepath.Join(logsDir, "failed_files.csv")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating failure report: %w", err)
	}
	if _, err := f.WriteString("file,error,seconds\n"); err != nil {
		f.Close()
		return nil, err
	}
	return &failureReport{f: f, path: path}, nil
}

func (r *failureReport) Path() string { return r.path }

func (r *failureReport) Record(path string, err error, elapsed time.Duration) {
	// Keep the CSV single-line per failure: fold newlines and commas away.
	msg := strings.NewReplacer("\n", " ", "\r", " ", ",", "，").Replace(err.Error())
	fmt.Fprintf(r.f, "%s,%s,%.2f\n", path, msg, elapsed.Seconds())
}

func (r *failureReport) Close() error { return r.f.Close() }
