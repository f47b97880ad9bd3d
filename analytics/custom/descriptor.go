package custom

import (
	"github.com/advanced-rest-client/app-analytics/analytics/validator"
)

// Descriptor attribute names
const (
	FieldType  = "type"
	FieldIndex = "index"
	FieldValue = "value"
)

// Descriptor is the current state of a declarative custom property owned by the caller.
// All attributes are kept in their raw string form.
type Descriptor struct {
	Type  string `json:"type"`
	Index string `json:"index"`
	Value string `json:"value"`
}

func (d Descriptor) target() (Kind, int, bool) {
	kind, ok := ParseKind(d.Type)
	if !ok {
		return 0, 0, false
	}
	index, err := validator.ParseIndex(d.Index)
	if err != nil || index == 0 {
		return 0, 0, false
	}
	return kind, index, true
}

// OnDescriptorAdded registers the property described by d.
// Descriptors without a known type or a numeric index are ignored.
func (r *Registry) OnDescriptorAdded(d Descriptor) error {
	kind, index, ok := d.target()
	if !ok {
		return nil
	}
	return r.Add(kind, index, d.Value)
}

// OnDescriptorRemoved drops the property described by d
func (r *Registry) OnDescriptorRemoved(d Descriptor) {
	kind, index, ok := d.target()
	if !ok {
		return
	}
	r.Remove(kind, index)
}

// OnDescriptorFieldChanged reconciles the registry after one attribute of d changed.
// d holds the attribute values after the change, oldValue the previous value of field.
func (r *Registry) OnDescriptorFieldChanged(d Descriptor, field string, oldValue string) error {
	if field != FieldType && field != FieldIndex && field != FieldValue {
		return nil
	}
	index, err := validator.ParseIndex(d.Index)
	if err != nil {
		return nil
	}
	kind, known := ParseKind(d.Type)

	switch {
	case field == FieldType && oldValue != "":
		if oldKind, ok := ParseKind(oldValue); ok {
			r.Remove(oldKind, index)
		}
	case field == FieldIndex && oldValue != "":
		if oldIndex, err := validator.ParseIndex(oldValue); err == nil && known {
			r.Remove(kind, oldIndex)
		}
	}

	if !known {
		return nil
	}
	return r.Add(kind, index, d.Value)
}
