// Package custom keeps the custom dimensions and metrics attached to every hit.
package custom

import (
	"strconv"
	"strings"
	"sync"

	"github.com/advanced-rest-client/app-analytics/analytics/encoding"
	"github.com/advanced-rest-client/app-analytics/analytics/validator"
	"github.com/splitio/go-toolkit/v5/logging"
)

// Kind selects one of the two custom property collections
type Kind int

const (
	// Dimension custom dimension, sent as cd<index>
	Dimension Kind = iota
	// Metric custom metric, sent as cm<index>
	Metric
)

func (k Kind) String() string {
	switch k {
	case Dimension:
		return "dimension"
	case Metric:
		return "metric"
	}
	return "unknown"
}

// ParseKind maps a descriptor type attribute to a Kind
func ParseKind(value string) (Kind, bool) {
	switch value {
	case "dimension":
		return Dimension, true
	case "metric":
		return Metric, true
	}
	return 0, false
}

// Property is a single custom dimension or metric slot
type Property struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

// Registry stores custom dimensions and metrics keyed by index.
// Iteration order is insertion order. The change hook fires only when the stored
// state actually changed, and always outside the registry lock.
type Registry struct {
	mutex      sync.Mutex
	dimensions []Property
	metrics    []Property
	onChange   func()
	logger     logging.LoggerInterface
}

// NewRegistry creates an empty registry
func NewRegistry(logger logging.LoggerInterface) *Registry {
	return &Registry{
		dimensions: make([]Property, 0),
		metrics:    make([]Property, 0),
		logger:     logger,
	}
}

// OnChange registers the hook run after every structural change
func (r *Registry) OnChange(fn func()) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.onChange = fn
}

func (r *Registry) collection(kind Kind) *[]Property {
	if kind == Metric {
		return &r.metrics
	}
	return &r.dimensions
}

func normalizeValue(kind Kind, value interface{}) string {
	formatted := encoding.FormatValue(value)
	if kind != Metric {
		return formatted
	}
	if strings.TrimSpace(formatted) == "" {
		return "0"
	}
	if f, err := strconv.ParseFloat(formatted, 64); err == nil {
		return encoding.FormatValue(f)
	}
	return formatted
}

func position(list []Property, index int) int {
	for i, p := range list {
		if p.Index == index {
			return i
		}
	}
	return -1
}

// Add inserts or updates the property at index. Adding an unchanged value is a no-op.
func (r *Registry) Add(kind Kind, index interface{}, value interface{}) error {
	i, err := validator.ValidateIndex(index)
	if err != nil {
		return err
	}
	v := normalizeValue(kind, value)

	r.mutex.Lock()
	list := r.collection(kind)
	pos := position(*list, i)
	if pos != -1 {
		if (*list)[pos].Value == v {
			r.mutex.Unlock()
			return nil
		}
		(*list)[pos].Value = v
	} else {
		*list = append(*list, Property{Index: i, Value: v})
	}
	hook := r.onChange
	r.mutex.Unlock()

	if r.logger != nil {
		r.logger.Debug("Custom", kind.String(), i, "set to", v)
	}
	if hook != nil {
		hook()
	}
	return nil
}

// Remove deletes the property at index and reports whether anything was removed.
// Unknown or non numeric indexes are ignored.
func (r *Registry) Remove(kind Kind, index interface{}) bool {
	i, err := validator.ParseIndex(index)
	if err != nil {
		return false
	}

	r.mutex.Lock()
	list := r.collection(kind)
	pos := position(*list, i)
	if pos == -1 {
		r.mutex.Unlock()
		return false
	}
	*list = append((*list)[:pos], (*list)[pos+1:]...)
	hook := r.onChange
	r.mutex.Unlock()

	if r.logger != nil {
		r.logger.Debug("Custom", kind.String(), i, "removed")
	}
	if hook != nil {
		hook()
	}
	return true
}

// Get returns the value stored at index
func (r *Registry) Get(kind Kind, index int) (string, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	list := *r.collection(kind)
	pos := position(list, index)
	if pos == -1 {
		return "", false
	}
	return list[pos].Value, true
}

// Dimensions returns a copy of the custom dimensions
func (r *Registry) Dimensions() []Property {
	return r.snapshot(Dimension)
}

// Metrics returns a copy of the custom metrics
func (r *Registry) Metrics() []Property {
	return r.snapshot(Metric)
}

func (r *Registry) snapshot(kind Kind) []Property {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	list := *r.collection(kind)
	out := make([]Property, len(list))
	copy(out, list)
	return out
}
