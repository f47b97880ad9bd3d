package dtos

// DebugEntry is one row of the per hit debug listing
type DebugEntry struct {
	Param string `json:"param"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ParserMessageDTO is a message reported by the validation endpoint
type ParserMessageDTO struct {
	MessageType string `json:"messageType"`
	Description string `json:"description"`
	MessageCode string `json:"messageCode,omitempty"`
	Parameter   string `json:"parameter,omitempty"`
}

// HitParsingResultDTO is the validation outcome of a single hit
type HitParsingResultDTO struct {
	Valid         bool               `json:"valid"`
	ParserMessage []ParserMessageDTO `json:"parserMessage"`
	Hit           string             `json:"hit"`
}

// ValidationResult is the body returned by the validation endpoint
type ValidationResult struct {
	HitParsingResult []HitParsingResultDTO `json:"hitParsingResult"`
	ParserMessage    []ParserMessageDTO    `json:"parserMessage"`
}

// Valid reports whether every hit in the result passed validation
func (v *ValidationResult) Valid() bool {
	if v == nil {
		return false
	}
	for _, r := range v.HitParsingResult {
		if !r.Valid {
			return false
		}
	}
	return true
}
