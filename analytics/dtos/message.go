// Package dtos contains the data transfer objects exchanged with callers and with the
// collection endpoint.
package dtos

// CustomEntry is a one-shot custom dimension or metric carried by a message
type CustomEntry struct {
	Index interface{} `json:"index"`
	Value interface{} `json:"value"`
}

// Message is the inbound "send-analytics" request. Which fields are read depends on Type.
// For timing messages Value carries the time. Fractional values are truncated when the hit is built.
type Message struct {
	Type             string        `json:"type"`
	Name             string        `json:"name,omitempty"`
	Category         string        `json:"category,omitempty"`
	Action           string        `json:"action,omitempty"`
	Label            string        `json:"label,omitempty"`
	Value            *float64      `json:"value,omitempty"`
	Description      string        `json:"description,omitempty"`
	Fatal            bool          `json:"fatal,omitempty"`
	Network          string        `json:"network,omitempty"`
	Target           string        `json:"target,omitempty"`
	Variable         string        `json:"variable,omitempty"`
	CustomDimensions []CustomEntry `json:"customDimensions,omitempty"`
	CustomMetrics    []CustomEntry `json:"customMetrics,omitempty"`
}
