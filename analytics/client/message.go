package client

import (
	"context"
	"fmt"

	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/advanced-rest-client/app-analytics/analytics/custom"
	"github.com/advanced-rest-client/app-analytics/analytics/dtos"
	"github.com/advanced-rest-client/app-analytics/analytics/encoding"
	"github.com/advanced-rest-client/app-analytics/analytics/hits"
	"github.com/advanced-rest-client/app-analytics/analytics/validator"
)

func customProperties(entries []dtos.CustomEntry) ([]custom.Property, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	properties := make([]custom.Property, 0, len(entries))
	for _, entry := range entries {
		index, err := validator.ValidateIndex(entry.Index)
		if err != nil {
			return nil, fmt.Errorf("custom property %v: %w", entry.Index, err)
		}
		properties = append(properties, custom.Property{Index: index, Value: encoding.FormatValue(entry.Value)})
	}
	return properties, nil
}

func customData(msg dtos.Message) (*hits.CustomData, error) {
	dimensions, err := customProperties(msg.CustomDimensions)
	if err != nil {
		return nil, err
	}
	metrics, err := customProperties(msg.CustomMetrics)
	if err != nil {
		return nil, err
	}
	if dimensions == nil && metrics == nil {
		return nil, nil
	}
	return &hits.CustomData{Dimensions: dimensions, Metrics: metrics}, nil
}

// HandleMessage sends the hit described by an inbound message. Messages are ignored while the
// tracker is disabled, unknown types are logged and ignored. Invalid timing messages are
// logged instead of returned.
func (t *Tracker) HandleMessage(ctx context.Context, msg dtos.Message) error {
	if t.mode().disabled {
		t.logger.Debug("Tracking disabled, message ignored")
		return nil
	}

	data, err := customData(msg)
	if err != nil && msg.Type != constants.HitTiming {
		return err
	}

	switch msg.Type {
	case constants.HitScreenview:
		return t.SendScreen(ctx, msg.Name, data)
	case constants.HitEvent:
		return t.SendEvent(ctx, hits.Event{
			Category: msg.Category,
			Action:   msg.Action,
			Label:    msg.Label,
			Value:    truncate(msg.Value),
		}, data)
	case constants.HitException:
		return t.SendException(ctx, msg.Description, msg.Fatal, data)
	case constants.HitSocial:
		return t.SendSocial(ctx, hits.Social{
			Network: msg.Network,
			Action:  msg.Action,
			Target:  msg.Target,
		}, data)
	case constants.HitTiming:
		if err == nil {
			err = t.SendTimings(ctx, hits.Timing{
				Category: msg.Category,
				Variable: msg.Variable,
				Time:     truncate(msg.Value),
				Label:    msg.Label,
			}, data)
		}
		if err != nil {
			t.logger.Warning("Timing not sent:", err.Error())
		}
		return nil
	default:
		t.logger.Warning(fmt.Sprintf("Unknown type [%s]", msg.Type))
		return nil
	}
}

// truncate drops the fractional part of a message value
func truncate(value *float64) *int64 {
	if value == nil {
		return nil
	}
	n := int64(*value)
	return &n
}
