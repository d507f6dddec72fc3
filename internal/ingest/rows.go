// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest walks a distribution tree of package-insert XML files and
// converts each document into per-brand rawdata rows.
package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/pdiddy/insert-engine/internal/document"
	"github.com/pdiddy/insert-engine/internal/interaction"
	"github.com/pdiddy/insert-engine/pkg/types"
)

// serialized JSON sections stored on every row.
var sectionPaths = []struct {
	path   string
	assign func(*types.RawRow, string)
}{
	{"pi:ApprovalEtc", func(r *types.RawRow, v string) { r.ApprovalEtcJSON = v }},
	{"pi:IndicationsOrEfficacy", func(r *types.RawRow, v string) { r.IndicationsJSON = v }},
	{"pi:InfoDoseAdmin", func(r *types.RawRow, v string) { r.InfoDoseAdminJSON = v }},
	{"pi:Interactions", func(r *types.RawRow, v string) { r.InteractionsJSON = v }},
	{"pi:AdverseReactions", func(r *types.RawRow, v string) { r.AdverseReactionsJSON = v }},
	{"pi:Composition", func(r *types.RawRow, v string) { r.CompositionJSON = v }},
	{"pi:Properties", func(r *types.RawRow, v string) { r.PropertyJSON = v }},
}

// Rows converts one parsed document into rawdata rows: one per brand under
// ApprovalEtc, or a single row with an empty YJ code when the document
// declares no brands. Document-level fields and the serialized section JSON
// are shared across the rows of a document.
func Rows(doc *document.Node, path string) ([]types.RawRow, error) {
	base := types.RawRow{
		PackageInsertNo:    document.PathText(doc, "pi:PackageInsertNo"),
		CompanyIdentifier:  document.PathText(doc, "pi:CompanyIdentifier"),
		PreparedYM:         document.PathText(doc, "pi:DateOfPreparationOrRevision/pi:PreparationOrRevision/pi:YearMonth"),
		GenericNameJa:      docFieldText(doc, "pi:GenericName"),
		TherapeuticClassJa: docFieldText(doc, "pi:TherapeuticClassification"),
		RawXMLPath:         path,
		DocXML:             doc.XML(),
	}

	for _, s := range sectionPaths {
		v, err := document.SerializeJSON(document.FindFirst(doc, s.path))
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", s.path, err)
		}
		s.assign(&base, v)
	}

	inter := interaction.Collect(doc)
	flat, err := json.Marshal(inter.Flat)
	if err != nil {
		return nil, fmt.Errorf("marshaling flattened interactions: %w", err)
	}
	base.InteractionsFlat = string(flat)

	brands := document.FindAll(doc, "pi:ApprovalEtc/pi:DetailBrandName")
	if len(brands) == 0 {
		return []types.RawRow{base}, nil
	}

	rows := make([]types.RawRow, 0, len(brands))
	for _, br := range brands {
		row := base
		row.YJCode = document.PathText(br, "pi:BrandCode/pi:YJCode")
		row.BrandNameJa = document.SelectText(document.FindFirst(br, "pi:ApprovalBrandName"))
		row.BrandNameHiragana = document.PathText(br, "pi:BrandNameInHiragana/pi:NameInHiragana")
		row.TrademarkEn = document.PathText(br, "pi:TrademarkInEnglish/pi:TrademarkName")
		row.ApprovalNo = document.PathText(br, "pi:ApprovalAndLicenseNo/pi:ApprovalNo")
		row.StartMarketing = document.PathText(br, "pi:StartingDateOfMarketing")
		row.StandardNameJa = brandFieldText(br, "pi:StandardName/pi:StandardNameCategory/pi:StandardNameDetail", "pi:StandardName")
		row.StorageMethod = brandFieldText(br, "pi:Storage/pi:StorageMethod", "pi:Storage/pi:StorageMethod")
		row.ShelfLife = brandFieldText(br, "pi:Storage/pi:ShelfLife", "pi:Storage/pi:ShelfLife")
		rows = append(rows, row)
	}
	return rows, nil
}

// docFieldText reads a document-level field that may carry its value either
// in a language-variant Detail child or as plain element text.
func docFieldText(doc *document.Node, path string) string {
	if s := document.SelectText(document.FindFirst(doc, path+"/pi:Detail")); s != "" {
		return s
	}
	return document.PathText(doc, path)
}

// brandFieldText reads a brand field with a deep language-preferenced path
// and a plain-text fallback path.
func brandFieldText(br *document.Node, deepPath, fallbackPath string) string {
	if s := document.SelectText(document.FindFirst(br, deepPath)); s != "" {
		return s
	}
	return document.PathText(br, fallbackPath)
}
