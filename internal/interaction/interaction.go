// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package interaction flattens the two drug-interaction sections of a
// package insert into relational records.
package interaction

import (
	"github.com/pdiddy/insert-engine/internal/document"
	"github.com/pdiddy/insert-engine/pkg/types"
)

// Section paths below the document root.
const (
	summaryPath         = "pi:Interactions/pi:SummaryOfCombination//pi:Detail"
	contraindicatedPath = "pi:Interactions/pi:ContraIndicatedCombinations//pi:Drug"
	cautionPath         = "pi:Interactions/pi:PrecautionsForCombinations//pi:Drug"
)

// PartnerGroup extracts the class label and the individual substance names
// from a Drug block.
//
// The class label is the first non-empty Detail directly under DrugName;
// documents occasionally carry several candidate labels, and only the first
// is authoritative. Individual names come from the SimpleList items, in
// document order, deduplicated by first occurrence.
func PartnerGroup(drug *document.Node) (group string, items []string) {
	dn := document.FindFirst(drug, "pi:DrugName")
	if dn == nil {
		return "", nil
	}

	for _, det := range document.FindAll(dn, "pi:Detail") {
		if s := document.DetailText(det); s != "" {
			group = s
			break
		}
	}

	seen := make(map[string]bool)
	for _, det := range document.FindAll(dn, "pi:SimpleList/pi:Item/pi:Detail") {
		s := document.DetailText(det)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		items = append(items, s)
	}
	return group, items
}

// Collect walks the contraindicated and caution sections and flattens every
// Drug block into records: one per individual substance, or a single record
// carrying the class label when no substances are listed, or nothing when
// the block names neither. Summary narrative texts are gathered separately,
// in document order, without dedup.
func Collect(root *document.Node) types.Interactions {
	out := types.Interactions{}

	for _, det := range document.FindAll(root, summaryPath) {
		if s := document.SelectText(det); s != "" {
			out.Summary = append(out.Summary, s)
		}
	}

	for _, drug := range document.FindAll(root, contraindicatedPath) {
		out.Flat = append(out.Flat, flattenDrug(drug, types.CategoryContraindicated)...)
	}
	for _, drug := range document.FindAll(root, cautionPath) {
		out.Flat = append(out.Flat, flattenDrug(drug, types.CategoryCaution)...)
	}
	return out
}

func flattenDrug(drug *document.Node, cat types.InteractionCategory) []types.InteractionRecord {
	group, items := PartnerGroup(drug)
	symptoms, mechanism := symptomsAndMechanism(drug)

	if len(items) > 0 {
		records := make([]types.InteractionRecord, 0, len(items))
		for _, p := range items {
			records = append(records, types.InteractionRecord{
				Partner:   p,
				Group:     group,
				Symptoms:  symptoms,
				Mechanism: mechanism,
				Category:  cat,
			})
		}
		return records
	}

	if group != "" {
		return []types.InteractionRecord{{
			Partner:   group,
			Group:     group,
			Symptoms:  symptoms,
			Mechanism: mechanism,
			Category:  cat,
		}}
	}
	return nil
}

// symptomsAndMechanism pulls the clinical-symptoms and mechanism texts of a
// Drug block. Fallback order: language-preferenced Detail subtree text, then
// the container's direct text.
func symptomsAndMechanism(drug *document.Node) (symptoms, mechanism string) {
	symptoms = sectionText(drug, "pi:ClinSymptomsAndMeasures")
	mechanism = sectionText(drug, "pi:MechanismAndRiskFactors")
	return symptoms, mechanism
}

func sectionText(drug *document.Node, path string) string {
	if s := document.SelectText(document.FindFirst(drug, path+"/pi:Detail")); s != "" {
		return s
	}
	return document.PathText(drug, path)
}
