// Package params holds the ordered parameter mapping sent with each hit and the
// builder of the session-wide base parameters.
package params

import "strings"

// Parameters is an ordered mapping of protocol parameter names to values.
// Keys iterate in insertion order, setting an existing key keeps its position.
type Parameters struct {
	keys   []string
	values map[string]string
}

// New creates an empty mapping
func New() *Parameters {
	return &Parameters{values: make(map[string]string)}
}

// Set stores value under key
func (p *Parameters) Set(key string, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key
func (p *Parameters) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key is present
func (p *Parameters) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Len returns the number of parameters
func (p *Parameters) Len() int {
	return len(p.keys)
}

// Keys returns the parameter names in iteration order
func (p *Parameters) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Each calls fn for every parameter in iteration order
func (p *Parameters) Each(fn func(key string, value string)) {
	for _, k := range p.keys {
		fn(k, p.values[k])
	}
}

// Map returns the parameters as a plain map
func (p *Parameters) Map() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy
func (p *Parameters) Clone() *Parameters {
	out := &Parameters{
		keys:   make([]string, len(p.keys)),
		values: make(map[string]string, len(p.values)),
	}
	copy(out.keys, p.keys)
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// Transform replaces every value with fn(value)
func (p *Parameters) Transform(fn func(string) string) {
	for k, v := range p.values {
		p.values[k] = fn(v)
	}
}

// Merge returns base overlaid with override. Keys of base keep their position,
// override wins on collision and its new keys are appended in its own order.
func Merge(base *Parameters, override *Parameters) *Parameters {
	out := base.Clone()
	override.Each(out.Set)
	return out
}

// Body serializes the parameters as key=value pairs joined by '&'.
// Values are written as stored, callers encode them beforehand.
func (p *Parameters) Body() string {
	var sb strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(p.values[k])
	}
	return sb.String()
}
