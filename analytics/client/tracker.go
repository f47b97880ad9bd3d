package client

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/advanced-rest-client/app-analytics/analytics/conf"
	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/advanced-rest-client/app-analytics/analytics/custom"
	"github.com/advanced-rest-client/app-analytics/analytics/params"
	"github.com/advanced-rest-client/app-analytics/analytics/service"
	"github.com/advanced-rest-client/app-analytics/analytics/storage"
	"github.com/advanced-rest-client/app-analytics/analytics/telemetry"
	"github.com/splitio/go-toolkit/v5/asynctask"
	"github.com/splitio/go-toolkit/v5/logging"
)

// Tracker sends Measurement Protocol hits for a single tracking configuration.
// It is safe for concurrent use.
type Tracker struct {
	mutex      sync.RWMutex
	cfg        *conf.Config
	base       *params.Parameters
	registry   *custom.Registry
	dispatcher *dispatcher
	kv         storage.KeyValueStorage
	closer     io.Closer
	generateID func() string
	flushTask  *asynctask.AsyncTask
	telemetry  *telemetry.Storage
	logger     logging.LoggerInterface
	destroyed  int32
}

// restoreConfiguration reads the persisted state. A persisted disabled flag wins and leaves
// the client id unset. Otherwise the persisted id is used, or a new one is generated.
// Must be called with the mutex held.
func (t *Tracker) restoreConfiguration() {
	if t.cfg.ClientID != "" {
		return
	}

	disabled, found, err := t.kv.Get(constants.DisabledKey)
	if err != nil {
		t.logger.Error("Error reading the disabled flag", err.Error())
	}
	if found && disabled == "true" {
		t.cfg.Disabled = true
		return
	}

	cid, found, err := t.kv.Get(constants.ClientIDKey)
	if err != nil {
		t.logger.Error("Error reading the client id", err.Error())
	}
	if !found || cid == "" {
		cid = t.generateID()
		t.logger.Debug("Generated client id", cid)
	}
	t.cfg.ClientID = cid
	t.persist(constants.ClientIDKey, cid)
}

// persist stores value under key when it differs from the stored one
func (t *Tracker) persist(key string, value string) {
	current, found, err := t.kv.Get(key)
	if err == nil && found && current == value {
		return
	}
	if err := t.kv.Set(key, value); err != nil {
		t.logger.Error("Error persisting", key, err.Error())
	}
}

func (t *Tracker) rebuild() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.rebuildLocked()
}

// rebuildLocked recomputes the base parameters. Must be called with the mutex held.
func (t *Tracker) rebuildLocked() {
	cfg := t.cfg
	t.base = params.BuildBase(params.BaseInput{
		TrackingID:     cfg.TrackingID,
		ClientID:       cfg.ClientID,
		UserID:         cfg.UserID,
		AnonymizeIP:    cfg.AnonymizeIP,
		DataSource:     cfg.DataSource,
		Referrer:       cfg.Referrer,
		CampaignName:   cfg.Campaign.Name,
		CampaignSource: cfg.Campaign.Source,
		CampaignMedium: cfg.Campaign.Medium,
		AppName:        cfg.App.Name,
		AppVersion:     cfg.App.Version,
		AppID:          cfg.App.ID,
		AppInstallerID: cfg.App.InstallerID,
		Environment:    cfg.Environment,
		Dimensions:     t.registry.Dimensions(),
		Metrics:        t.registry.Metrics(),
	})
	t.logger.Debug("Base parameters rebuilt")
}

// update applies fn to the configuration and rebuilds the base parameters
func (t *Tracker) update(fn func(cfg *conf.Config)) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	fn(t.cfg)
	t.rebuildLocked()
}

func (t *Tracker) mode() dispatchMode {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return dispatchMode{
		disabled: t.cfg.Disabled,
		offline:  t.cfg.Offline,
		debug:    t.cfg.Debug,
		record: service.RecordOptions{
			Debug:       t.cfg.DebugEndpoint,
			CacheBuster: t.cfg.UseCacheBooster,
		},
	}
}

// Settings returns a copy of the current configuration
func (t *Tracker) Settings() conf.Config {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return *t.cfg
}

// BaseParameters returns a copy of the parameters merged into every hit. Values are encoded.
func (t *Tracker) BaseParameters() *params.Parameters {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.base.Clone()
}

// Stats returns the delivery counters
func (t *Tracker) Stats() telemetry.Stats {
	return t.telemetry.Snapshot()
}

// Pending returns how many hits wait in the offline queue
func (t *Tracker) Pending() int64 {
	return t.dispatcher.queue.Count()
}

// Flush sends the offline queue again. Nothing happens while the tracker is disabled or offline.
func (t *Tracker) Flush(ctx context.Context) error {
	mode := t.mode()
	if mode.disabled || mode.offline {
		return nil
	}
	return t.dispatcher.flush(ctx, mode.record)
}

// IsDestroyed returns true if the tracker has been destroyed
func (t *Tracker) IsDestroyed() bool {
	return atomic.LoadInt32(&t.destroyed) == 1
}

// Destroy stops the flush task, sends what is left in the offline queue and releases the storage
func (t *Tracker) Destroy() {
	if !atomic.CompareAndSwapInt32(&t.destroyed, 0, 1) {
		return
	}

	if t.flushTask != nil {
		// The task flushes once more when it stops
		if err := t.flushTask.Stop(true); err != nil {
			t.logger.Error("Error stopping flush task", err.Error())
		}
	} else if err := t.Flush(context.Background()); err != nil {
		t.logger.Error("Error flushing offline hits", err.Error())
	}

	if t.closer != nil {
		if err := t.closer.Close(); err != nil {
			t.logger.Error("Error closing storage", err.Error())
		}
	}
	t.logger.Info("Tracker destroyed")
}
