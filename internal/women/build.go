// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package women

import (
	"fmt"
	"io"

	"github.com/pdiddy/insert-engine/internal/document"
	"github.com/pdiddy/insert-engine/pkg/types"
)

// DocSource streams stored documents. The SQLite store implements it.
type DocSource interface {
	EachDocument(fn func(pkg, yj, brand, docXML string) error) error
}

// Sink persists women rows.
type Sink interface {
	RecreateWomen() error
	UpsertWomenRows(rows []types.WomenRow) error
}

// Summary holds counts from one women build run.
type Summary struct {
	Scanned     int
	Upserted    int
	ParseErrors int
}

// Build rebuilds the women table: every stored document is re-parsed and
// its pregnancy and nursing sections extracted. Documents that fail to
// parse still produce a row with empty texts, so the table keeps one row
// per rawdata key.
func Build(src DocSource, sink Sink, cfg types.RebuildConfig, w io.Writer) (Summary, error) {
	if err := sink.RecreateWomen(); err != nil {
		return Summary{}, err
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	progressEvery := cfg.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = 2000
	}

	var summary Summary
	var batch []types.WomenRow

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := sink.UpsertWomenRows(batch); err != nil {
			return err
		}
		summary.Upserted += len(batch)
		batch = batch[:0]
		return nil
	}

	err := src.EachDocument(func(pkg, yj, brand, docXML string) error {
		summary.Scanned++

		var doc *document.Node
		if docXML != "" {
			var err error
			if doc, err = document.ParseString(docXML); err != nil {
				summary.ParseErrors++
				doc = nil
			}
		}

		pregnant := ExtractSection(doc, PregnantTags)
		nursing := ExtractSection(doc, NursingTags)

		row := types.WomenRow{
			PackageInsertNo: pkg,
			YJCode:          yj,
			BrandNameJa:     brand,
			PregnantText:    pregnant.Text,
			NursingText:     nursing.Text,
			HasPregnant:     pregnant.Text != "",
			HasNursing:      nursing.Text != "",
		}
		if pregnant.SourceID != "" || nursing.SourceID != "" {
			row.SrcIDs = map[string]string{}
			if pregnant.SourceID != "" {
				row.SrcIDs["pregnant"] = pregnant.SourceID
			}
			if nursing.SourceID != "" {
				row.SrcIDs["nursing"] = nursing.SourceID
			}
		}

		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
		if summary.Scanned%progressEvery == 0 {
			fmt.Fprintf(w, "scanned=%d upserted=%d\n", summary.Scanned, summary.Upserted)
		}
		return nil
	})
	if err != nil {
		return summary, err
	}
	if err := flush(); err != nil {
		return summary, err
	}
	return summary, nil
}
