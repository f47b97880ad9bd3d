// Package service declares the transport used to deliver hits to the collection endpoint.
package service

import (
	"context"

	"github.com/advanced-rest-client/app-analytics/analytics/dtos"
)

// RecordOptions tunes how a single hit body is delivered
type RecordOptions struct {
	// Debug routes the hit to the validation endpoint, nothing is collected
	Debug bool
	// CacheBuster appends z=<epoch ms> to the request URL
	CacheBuster bool
}

// HitRecorder interface to be implemented by hit transports.
// The validation result is only returned when opts.Debug is set.
type HitRecorder interface {
	Record(ctx context.Context, body string, opts RecordOptions) (*dtos.ValidationResult, error)
}
