package sensitivity

// FieldClassification is the per-field (column) row of an entity
// classification. FCROMax is the maximum of the four FCRO sub-scores found
// in the justification, defaulting to 1 when no quadruple is present, and
// may later be overwritten by a manual comment override or a selective
// reclassification pass.
type FieldClassification struct {
	FieldName     string `json:"field_name"`
	FieldType     string `json:"field_type"`
	Sensitive     string `json:"sensitive"`
	LLMLevel      int    `json:"llm_level"`
	Justification string `json:"justification"`
	FCROMax       int    `json:"fcro_max"`
}
