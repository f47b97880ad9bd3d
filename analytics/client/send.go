package client

import (
	"context"

	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/advanced-rest-client/app-analytics/analytics/hits"
	"github.com/advanced-rest-client/app-analytics/analytics/params"
)

// SendHit sends a hit of the given type. Values of hit must not be encoded.
// The call fails before any network activity when the type is unknown.
func (t *Tracker) SendHit(ctx context.Context, hitType string, hit *params.Parameters) error {
	mode := t.mode()
	t.mutex.RLock()
	base := t.base
	t.mutex.RUnlock()
	return t.dispatcher.dispatch(ctx, hitType, hit, base, mode)
}

// SendScreen sends a screenview hit
func (t *Tracker) SendScreen(ctx context.Context, name string, data *hits.CustomData) error {
	hit, err := hits.BuildScreenview(hits.Screenview{Name: name}, data)
	if err != nil {
		return err
	}
	return t.SendHit(ctx, constants.HitScreenview, hit)
}

// SendEvent sends an event hit. Category and action are required.
func (t *Tracker) SendEvent(ctx context.Context, event hits.Event, data *hits.CustomData) error {
	hit, err := hits.BuildEvent(event, data)
	if err != nil {
		return err
	}
	return t.SendHit(ctx, constants.HitEvent, hit)
}

// SendException sends an exception hit
func (t *Tracker) SendException(ctx context.Context, description string, fatal bool, data *hits.CustomData) error {
	hit, err := hits.BuildException(hits.Exception{Description: description, Fatal: fatal}, data)
	if err != nil {
		return err
	}
	return t.SendHit(ctx, constants.HitException, hit)
}

// SendSocial sends a social interaction hit. Network, action and target are required.
func (t *Tracker) SendSocial(ctx context.Context, social hits.Social, data *hits.CustomData) error {
	hit, err := hits.BuildSocial(social, data)
	if err != nil {
		return err
	}
	return t.SendHit(ctx, constants.HitSocial, hit)
}

// SendTimings sends a user timing hit. Category, variable and time are required.
func (t *Tracker) SendTimings(ctx context.Context, timing hits.Timing, data *hits.CustomData) error {
	hit, err := hits.BuildTiming(timing, data)
	if err != nil {
		return err
	}
	return t.SendHit(ctx, constants.HitTiming, hit)
}
