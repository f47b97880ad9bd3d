// Package listener forwards debug information about hits to user supplied listeners
package listener

import (
	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/advanced-rest-client/app-analytics/analytics/dtos"
	"github.com/advanced-rest-client/app-analytics/analytics/encoding"
	"github.com/advanced-rest-client/app-analytics/analytics/params"
)

// HitDebugListener receives the parameter listing of every hit sent while debug is on
type HitDebugListener interface {
	OnHitDebug(hitType string, entries []dtos.DebugEntry)
}

// StructureDebugListener receives the validation endpoint response in debug endpoint mode
type StructureDebugListener interface {
	OnStructureDebug(result *dtos.ValidationResult)
}

// WrapperDebugListener dispatches to whichever listeners are configured
type WrapperDebugListener struct {
	Hit       HitDebugListener
	Structure StructureDebugListener
}

// NewDebugListenerWrapper instantiates a new WrapperDebugListener. Either listener may be nil.
func NewDebugListenerWrapper(hit HitDebugListener, structure StructureDebugListener) *WrapperDebugListener {
	return &WrapperDebugListener{
		Hit:       hit,
		Structure: structure,
	}
}

// DebugEntries turns encoded hit parameters into a readable listing
func DebugEntries(p *params.Parameters) []dtos.DebugEntry {
	entries := make([]dtos.DebugEntry, 0, p.Len())
	p.Each(func(key string, value string) {
		entries = append(entries, dtos.DebugEntry{
			Param: key,
			Name:  constants.ParamName(key),
			Value: encoding.Decode(value),
		})
	})
	return entries
}

// SendHitDebug sends the listing of an encoded hit
func (w *WrapperDebugListener) SendHitDebug(hitType string, p *params.Parameters) {
	if w == nil || w.Hit == nil {
		return
	}
	w.Hit.OnHitDebug(hitType, DebugEntries(p))
}

// SendStructureDebug sends a validation result
func (w *WrapperDebugListener) SendStructureDebug(result *dtos.ValidationResult) {
	if w == nil || w.Structure == nil || result == nil {
		return
	}
	w.Structure.OnStructureDebug(result)
}
