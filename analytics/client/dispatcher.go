package client

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/advanced-rest-client/app-analytics/analytics/encoding"
	"github.com/advanced-rest-client/app-analytics/analytics/listener"
	"github.com/advanced-rest-client/app-analytics/analytics/params"
	"github.com/advanced-rest-client/app-analytics/analytics/service"
	"github.com/advanced-rest-client/app-analytics/analytics/storage"
	"github.com/advanced-rest-client/app-analytics/analytics/telemetry"
	"github.com/advanced-rest-client/app-analytics/analytics/validator"
	"github.com/splitio/go-toolkit/v5/logging"
	"golang.org/x/sync/errgroup"
)

// ErrTransportFailure is returned when a hit could neither be delivered nor queued
var ErrTransportFailure = errors.New("unable to send data")

// dispatchMode is the part of the tracker state that decides where a body goes
type dispatchMode struct {
	disabled bool
	offline  bool
	debug    bool
	record   service.RecordOptions
}

type dispatcher struct {
	recorder  service.HitRecorder
	queue     storage.OfflineQueue
	listener  *listener.WrapperDebugListener
	telemetry *telemetry.Storage
	logger    logging.LoggerInterface
	workers   int
	flushing  int32
	rerun     int32
}

// dispatch encodes hit, merges it over base and hands the body to the transport
func (d *dispatcher) dispatch(ctx context.Context, hitType string, hit *params.Parameters, base *params.Parameters, mode dispatchMode) error {
	if err := validator.ValidateHitType(hitType); err != nil {
		return err
	}

	encoded := params.New()
	encoded.Set(constants.ParamHitType, hitType)
	if hit != nil {
		hit.Each(func(key string, value string) {
			if key != constants.ParamHitType {
				encoded.Set(key, value)
			}
		})
	}
	encoded.Transform(encoding.Encode)
	post := params.Merge(base, encoded)

	if mode.debug {
		d.logger.Debug("Running command for", hitType)
		d.listener.SendHitDebug(hitType, post)
	}
	return d.transport(ctx, post.Body(), mode)
}

func (d *dispatcher) transport(ctx context.Context, body string, mode dispatchMode) error {
	if mode.disabled {
		d.telemetry.RecordSuppressed()
		return nil
	}

	if mode.offline {
		if err := d.queue.Push(body); err != nil {
			d.telemetry.RecordFailed()
			d.logger.Error("Offline queue rejected hit", err.Error())
			return fmt.Errorf("%w: %w", ErrTransportFailure, err)
		}
		d.telemetry.RecordQueued()
		return nil
	}

	result, err := d.recorder.Record(ctx, body, mode.record)
	if err != nil {
		if qerr := d.queue.Push(body); qerr != nil {
			d.telemetry.RecordFailed()
			d.logger.Error("Hit dropped, offline queue rejected it", qerr.Error())
			return fmt.Errorf("%w: %w", ErrTransportFailure, err)
		}
		d.telemetry.RecordRequeued()
		d.logger.Warning("Hit not delivered, queued for a later flush:", err.Error())
		return nil
	}

	d.telemetry.RecordSent()
	if mode.record.Debug {
		d.listener.SendStructureDebug(result)
	}
	return nil
}

// flush takes every queued body and sends it again. Bodies that fail are dropped.
// A flush requested while another one runs returns immediately and the running one drains again.
func (d *dispatcher) flush(ctx context.Context, opts service.RecordOptions) error {
	atomic.StoreInt32(&d.rerun, 1)
	var err error
	for atomic.LoadInt32(&d.rerun) == 1 {
		if !atomic.CompareAndSwapInt32(&d.flushing, 0, 1) {
			d.logger.Debug("Offline queue flush already running, queued hits will be picked up by it")
			return nil
		}
		for atomic.SwapInt32(&d.rerun, 0) == 1 {
			err = d.drain(ctx, opts)
		}
		atomic.StoreInt32(&d.flushing, 0)
	}
	return err
}

// drain resends a snapshot of the offline queue
func (d *dispatcher) drain(ctx context.Context, opts service.RecordOptions) error {
	bodies := d.queue.PopAll()
	if len(bodies) == 0 {
		return nil
	}
	d.telemetry.RecordFlush()
	d.logger.Info(fmt.Sprintf("Sending %d queued hits", len(bodies)))

	var group errgroup.Group
	if d.workers > 0 {
		group.SetLimit(d.workers)
	}
	for _, body := range bodies {
		body := body
		group.Go(func() error {
			result, err := d.recorder.Record(ctx, body, opts)
			if err != nil {
				d.telemetry.RecordDropped()
				d.logger.Warning("Queued hit dropped after a failed resend:", err.Error())
				return nil
			}
			d.telemetry.RecordSent()
			if opts.Debug {
				d.listener.SendStructureDebug(result)
			}
			return nil
		})
	}
	return group.Wait()
}
