// Package validator checks caller input before anything is queued or sent.
package validator

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/splitio/go-toolkit/v5/datastructures/set"
)

var (
	// ErrInvalidIndex is returned when a custom property index is not a number
	ErrInvalidIndex = errors.New("index is not a number")
	// ErrIndexOutOfRange is returned when a custom property index is outside [1, 200]
	ErrIndexOutOfRange = errors.New("index out of bounds")
	// ErrMissingParameters is matched by every *MissingParametersError
	ErrMissingParameters = errors.New("missing required parameters")
	// ErrUnknownHitType is returned when dispatching a hit kind the protocol does not know
	ErrUnknownHitType = errors.New("unknown hit type")
)

var hitTypes = func() *set.ThreadUnsafeSet {
	types := set.NewSet()
	for _, hitType := range constants.HitTypes {
		types.Add(hitType)
	}
	return types
}()

// MissingParametersError names every required field that was absent in a hit request.
type MissingParametersError struct {
	Fields []string
}

func (e *MissingParametersError) Error() string {
	return "Missing required parameters: " + strings.Join(e.Fields, ", ")
}

// Is makes errors.Is(err, ErrMissingParameters) hold
func (e *MissingParametersError) Is(target error) bool {
	return target == ErrMissingParameters
}

// Field is a named required value and whether the caller supplied it
type Field struct {
	Name    string
	Present bool
}

// Required builds a Field
func Required(name string, present bool) Field {
	return Field{Name: name, Present: present}
}

// RequireFields returns a *MissingParametersError listing all absent fields, in order
func RequireFields(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if !f.Present {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingParametersError{Fields: missing}
}

// ValidateHitType fails with ErrUnknownHitType when hitType is not a Measurement Protocol hit kind
func ValidateHitType(hitType string) error {
	if !hitTypes.Has(hitType) {
		return ErrUnknownHitType
	}
	return nil
}

// ParseIndex coerces a custom property index to an integer.
// Integers, integral floats and numeric strings are accepted.
func ParseIndex(index interface{}) (int, error) {
	var f float64
	switch v := index.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, ErrInvalidIndex
		}
		f = parsed
	default:
		return 0, ErrInvalidIndex
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, ErrInvalidIndex
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, ErrIndexOutOfRange
	}
	return int(f), nil
}

// ValidateIndex coerces index and checks it addresses one of the 200 custom slots
func ValidateIndex(index interface{}) (int, error) {
	i, err := ParseIndex(index)
	if err != nil {
		return 0, err
	}
	if i < constants.MinCustomIndex || i > constants.MaxCustomIndex {
		return 0, ErrIndexOutOfRange
	}
	return i, nil
}
