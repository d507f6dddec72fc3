// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures and stage configuration
// of the insert-engine pipeline.
package types

// InteractionCategory identifies the severity class of a drug-interaction
// statement, using the canonical Japanese section vocabulary.
type InteractionCategory string

const (
	// CategoryContraindicated marks combinations that must not be
	// co-administered (併用禁忌).
	CategoryContraindicated InteractionCategory = "併用禁忌"

	// CategoryCaution marks combinations requiring caution (併用注意).
	CategoryCaution InteractionCategory = "併用注意"
)

// InteractionRecord is one flattened drug-interaction statement: a single
// partner substance (or class, when no individual substances are listed)
// paired with the symptoms and mechanism text of its source block.
type InteractionRecord struct {
	// Partner is the individual substance name, or the class label when the
	// source block lists no individual substances.
	Partner string `json:"partner"`

	// Group is the class label of the source block (e.g. "CYP3A阻害剤"),
	// empty when the block has none.
	Group string `json:"group,omitempty"`

	// Symptoms is the clinical symptoms and measures text.
	Symptoms string `json:"symptoms,omitempty"`

	// Mechanism is the mechanism and risk-factors text.
	Mechanism string `json:"mechanism,omitempty"`

	// Category is 併用禁忌 or 併用注意.
	Category InteractionCategory `json:"category"`
}

// Interactions is the output of flattening a document's interaction sections.
type Interactions struct {
	// Summary lists the narrative texts of the combination-summary section,
	// in document order.
	Summary []string `json:"summary"`

	// Flat lists one record per (partner, category) pair.
	Flat []InteractionRecord `json:"flat"`
}

// SectionExtraction is the aggregated text of all sections matching a tag set
// within one document, plus the id attribute of the first matching element.
type SectionExtraction struct {
	// Text is the concatenated, deduplicated, language-preferenced section
	// text. Empty when no matching section exists.
	Text string `json:"text,omitempty"`

	// SourceID is the id attribute of the first matching element, for
	// traceability back into the document.
	SourceID string `json:"source_id,omitempty"`
}

// Classification is the outcome of rule-based scoring of one section text.
type Classification struct {
	// Score is the ordinal risk level: 3 strongest, 0 unknown.
	Score int `json:"score"`

	// RuleTag names the rule that matched, "unclear" when no rule matched
	// non-empty text, or "none" for empty text.
	RuleTag string `json:"rule_tag"`
}

// EvidenceFlags maps indicator names to whether the corresponding textual
// pattern occurs in the section text. Flags are independent of one another.
type EvidenceFlags map[string]bool

// RawRow is one rawdata table row: the first-layer fields of a package
// insert expanded per brand, plus the serialized section JSON values.
type RawRow struct {
	PackageInsertNo    string `json:"package_insert_no"`
	YJCode             string `json:"yj_code"`
	CompanyIdentifier  string `json:"company_identifier,omitempty"`
	PreparedYM         string `json:"prepared_ym,omitempty"`
	BrandNameJa        string `json:"brand_name_ja,omitempty"`
	BrandNameHiragana  string `json:"brand_name_hiragana,omitempty"`
	TrademarkEn        string `json:"trademark_en,omitempty"`
	GenericNameJa      string `json:"generic_name_ja,omitempty"`
	StandardNameJa     string `json:"standard_name_ja,omitempty"`
	TherapeuticClassJa string `json:"therapeutic_class_ja,omitempty"`
	ApprovalNo         string `json:"approval_no,omitempty"`
	StartMarketing     string `json:"start_marketing,omitempty"`
	StorageMethod      string `json:"storage_method,omitempty"`
	ShelfLife          string `json:"shelf_life,omitempty"`

	// Serialized section subtrees, already marshaled to JSON. Empty string
	// means the section is absent from the document.
	ApprovalEtcJSON      string `json:"-"`
	IndicationsJSON      string `json:"-"`
	InfoDoseAdminJSON    string `json:"-"`
	InteractionsJSON     string `json:"-"`
	AdverseReactionsJSON string `json:"-"`
	CompositionJSON      string `json:"-"`
	PropertyJSON         string `json:"-"`

	// InteractionsFlat is the flattened interaction records as JSON.
	InteractionsFlat string `json:"-"`

	// DocXML is the full document re-serialized as XML.
	DocXML string `json:"-"`

	// RawXMLPath is the source file path.
	RawXMLPath string `json:"raw_xml_path,omitempty"`
}

// InteractionRow is one interaction table row, keyed back to its rawdata row.
type InteractionRow struct {
	PackageInsertNo    string
	YJCode             string
	SectionType        string
	PartnerGroupJa     string
	PartnerNameJa      string
	SymptomsMeasuresJa string
	MechanismJa        string
}

// WomenRow is one women table row: pregnancy/nursing section text for a
// brand, with classification results filled in by the label stage.
type WomenRow struct {
	PackageInsertNo string
	YJCode          string
	BrandNameJa     string
	PregnantText    string
	NursingText     string
	HasPregnant     bool
	HasNursing      bool

	// SrcIDs maps "pregnant"/"nursing" to the id attribute of the first
	// matching section element.
	SrcIDs map[string]string

	PregnantScore    int
	PregnantRule     string
	NursingScore     int
	NursingRule      string
	OverallScore     int
	PregnantEvidence EvidenceFlags
	NursingEvidence  EvidenceFlags
}

// RiskLabelRow is one risk_labels table row: simplified scheme labels derived
// from the classification scores.
type RiskLabelRow struct {
	PackageInsertNo string
	YJCode          string
	Scheme          string
	PregnantLabel   string
	NursingLabel    string
	PregnantScore   int
	NursingScore    int

	// EvidenceJSON carries rule tags and per-section evidence flags with
	// confidence, marshaled to JSON.
	EvidenceJSON string
}
