// Package hits validates hit requests and builds their type specific parameters.
// Returned values are not encoded, the dispatcher encodes them once before sending.
package hits

import (
	"strconv"

	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/advanced-rest-client/app-analytics/analytics/custom"
	"github.com/advanced-rest-client/app-analytics/analytics/params"
	"github.com/advanced-rest-client/app-analytics/analytics/validator"
)

// CustomData holds custom dimensions and metrics sent with a single hit only.
// They are written straight into the hit and never stored in the registry.
type CustomData struct {
	Dimensions []custom.Property
	Metrics    []custom.Property
}

func (c *CustomData) apply(p *params.Parameters) {
	if c == nil {
		return
	}
	for _, d := range c.Dimensions {
		p.Set(constants.CustomDimensionParam(d.Index), d.Value)
	}
	for _, m := range c.Metrics {
		p.Set(constants.CustomMetricParam(m.Index), m.Value)
	}
}

// Screenview describes a screenview hit
type Screenview struct {
	Name string
}

// Event describes an event hit. A nil Value is not sent.
type Event struct {
	Category string
	Action   string
	Label    string
	Value    *int64
}

// Exception describes an exception hit
type Exception struct {
	Description string
	Fatal       bool
}

// Social describes a social interaction hit
type Social struct {
	Network string
	Action  string
	Target  string
}

// Timing describes a user timing hit. Time is in milliseconds.
type Timing struct {
	Category string
	Variable string
	Time     *int64
	Label    string
}

// Int64 returns a pointer to v, for the optional numeric fields
func Int64(v int64) *int64 {
	return &v
}

// BuildScreenview returns the parameters of a screenview hit
func BuildScreenview(s Screenview, opts *CustomData) (*params.Parameters, error) {
	if err := validator.RequireFields(validator.Required("name", s.Name != "")); err != nil {
		return nil, err
	}
	p := params.New()
	p.Set(constants.ParamScreenName, s.Name)
	opts.apply(p)
	return p, nil
}

// BuildEvent returns the parameters of an event hit
func BuildEvent(e Event, opts *CustomData) (*params.Parameters, error) {
	err := validator.RequireFields(
		validator.Required("category", e.Category != ""),
		validator.Required("action", e.Action != ""),
	)
	if err != nil {
		return nil, err
	}
	p := params.New()
	p.Set(constants.ParamEventCategory, e.Category)
	p.Set(constants.ParamEventAction, e.Action)
	if e.Label != "" {
		p.Set(constants.ParamEventLabel, e.Label)
	}
	if e.Value != nil {
		p.Set(constants.ParamEventValue, strconv.FormatInt(*e.Value, 10))
	}
	opts.apply(p)
	return p, nil
}

// BuildException returns the parameters of an exception hit
func BuildException(e Exception, opts *CustomData) (*params.Parameters, error) {
	if err := validator.RequireFields(validator.Required("description", e.Description != "")); err != nil {
		return nil, err
	}
	fatal := "0"
	if e.Fatal {
		fatal = "1"
	}
	p := params.New()
	p.Set(constants.ParamExceptionDesc, e.Description)
	p.Set(constants.ParamExceptionFatal, fatal)
	opts.apply(p)
	return p, nil
}

// BuildSocial returns the parameters of a social hit
func BuildSocial(s Social, opts *CustomData) (*params.Parameters, error) {
	err := validator.RequireFields(
		validator.Required("network", s.Network != ""),
		validator.Required("action", s.Action != ""),
		validator.Required("target", s.Target != ""),
	)
	if err != nil {
		return nil, err
	}
	p := params.New()
	p.Set(constants.ParamSocialNetwork, s.Network)
	p.Set(constants.ParamSocialAction, s.Action)
	p.Set(constants.ParamSocialTarget, s.Target)
	opts.apply(p)
	return p, nil
}

// BuildTiming returns the parameters of a timing hit
func BuildTiming(t Timing, opts *CustomData) (*params.Parameters, error) {
	err := validator.RequireFields(
		validator.Required("category", t.Category != ""),
		validator.Required("variable", t.Variable != ""),
		validator.Required("time", t.Time != nil),
	)
	if err != nil {
		return nil, err
	}
	p := params.New()
	p.Set(constants.ParamTimingCategory, t.Category)
	p.Set(constants.ParamTimingVariable, t.Variable)
	p.Set(constants.ParamTimingTime, strconv.FormatInt(*t.Time, 10))
	if t.Label != "" {
		p.Set(constants.ParamTimingLabel, t.Label)
	}
	opts.apply(p)
	return p, nil
}
