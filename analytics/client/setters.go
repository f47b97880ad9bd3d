package client

import (
	"context"
	"strconv"

	"github.com/advanced-rest-client/app-analytics/analytics/conf"
	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/advanced-rest-client/app-analytics/analytics/custom"
	"github.com/advanced-rest-client/app-analytics/analytics/params"
)

// SetTrackingID sets the tracking id (tid)
func (t *Tracker) SetTrackingID(id string) {
	t.update(func(cfg *conf.Config) { cfg.TrackingID = id })
}

// SetClientID sets the client id (cid) and persists it
func (t *Tracker) SetClientID(id string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.cfg.ClientID = id
	t.rebuildLocked()
	t.persist(constants.ClientIDKey, id)
}

// SetUserID sets the user id (uid)
func (t *Tracker) SetUserID(id string) {
	t.update(func(cfg *conf.Config) { cfg.UserID = id })
}

// SetDataSource sets the data source (ds)
func (t *Tracker) SetDataSource(source string) {
	t.update(func(cfg *conf.Config) { cfg.DataSource = source })
}

// SetAnonymizeIP toggles aip=1
func (t *Tracker) SetAnonymizeIP(anonymize bool) {
	t.update(func(cfg *conf.Config) { cfg.AnonymizeIP = anonymize })
}

// SetReferrer sets the document referrer (dr)
func (t *Tracker) SetReferrer(referrer string) {
	t.update(func(cfg *conf.Config) { cfg.Referrer = referrer })
}

// SetCampaignName sets cn
func (t *Tracker) SetCampaignName(name string) {
	t.update(func(cfg *conf.Config) { cfg.Campaign.Name = name })
}

// SetCampaignSource sets cs
func (t *Tracker) SetCampaignSource(source string) {
	t.update(func(cfg *conf.Config) { cfg.Campaign.Source = source })
}

// SetCampaignMedium sets cm
func (t *Tracker) SetCampaignMedium(medium string) {
	t.update(func(cfg *conf.Config) { cfg.Campaign.Medium = medium })
}

// SetAppName sets an
func (t *Tracker) SetAppName(name string) {
	t.update(func(cfg *conf.Config) { cfg.App.Name = name })
}

// SetAppVersion sets av
func (t *Tracker) SetAppVersion(version string) {
	t.update(func(cfg *conf.Config) { cfg.App.Version = version })
}

// SetAppID sets aid
func (t *Tracker) SetAppID(id string) {
	t.update(func(cfg *conf.Config) { cfg.App.ID = id })
}

// SetAppInstallerID sets aiid
func (t *Tracker) SetAppInstallerID(id string) {
	t.update(func(cfg *conf.Config) { cfg.App.InstallerID = id })
}

// SetEnvironment replaces the reported language, screen and viewport
func (t *Tracker) SetEnvironment(env params.Environment) {
	t.update(func(cfg *conf.Config) { cfg.Environment = env })
}

// SetUseCacheBooster toggles the z query parameter
func (t *Tracker) SetUseCacheBooster(use bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.cfg.UseCacheBooster = use
}

// SetDebug toggles the per hit debug listing
func (t *Tracker) SetDebug(debug bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.cfg.Debug = debug
}

// SetDebugEndpoint routes hits to the validation endpoint
func (t *Tracker) SetDebugEndpoint(debug bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.cfg.DebugEndpoint = debug
}

// SetDisabled turns every transmission off and persists the flag.
// Clearing it restores the persisted configuration.
func (t *Tracker) SetDisabled(disabled bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.cfg.Disabled = disabled
	t.persist(constants.DisabledKey, strconv.FormatBool(disabled))
	if !disabled {
		t.restoreConfiguration()
		t.rebuildLocked()
	}
}

// SetOffline switches offline mode. Hits sent while offline are queued. Going back online
// sends the queue before returning.
func (t *Tracker) SetOffline(offline bool) {
	t.mutex.Lock()
	wasOffline := t.cfg.Offline
	t.cfg.Offline = offline
	t.mutex.Unlock()

	if wasOffline && !offline {
		if err := t.Flush(context.Background()); err != nil {
			t.logger.Error("Error flushing offline hits", err.Error())
		}
	}
}

// AddCustomDimension sets a dimension sent with every hit
func (t *Tracker) AddCustomDimension(index interface{}, value interface{}) error {
	return t.registry.Add(custom.Dimension, index, value)
}

// RemoveCustomDimension removes a dimension. It reports whether one was removed.
func (t *Tracker) RemoveCustomDimension(index interface{}) bool {
	return t.registry.Remove(custom.Dimension, index)
}

// AddCustomMetric sets a metric sent with every hit
func (t *Tracker) AddCustomMetric(index interface{}, value interface{}) error {
	return t.registry.Add(custom.Metric, index, value)
}

// RemoveCustomMetric removes a metric. It reports whether one was removed.
func (t *Tracker) RemoveCustomMetric(index interface{}) bool {
	return t.registry.Remove(custom.Metric, index)
}

// CustomDimensions returns the registered dimensions
func (t *Tracker) CustomDimensions() []custom.Property {
	return t.registry.Dimensions()
}

// CustomMetrics returns the registered metrics
func (t *Tracker) CustomMetrics() []custom.Property {
	return t.registry.Metrics()
}

// OnDescriptorAdded registers the property described by d
func (t *Tracker) OnDescriptorAdded(d custom.Descriptor) error {
	return t.registry.OnDescriptorAdded(d)
}

// OnDescriptorRemoved removes the property described by d
func (t *Tracker) OnDescriptorRemoved(d custom.Descriptor) {
	t.registry.OnDescriptorRemoved(d)
}

// OnDescriptorFieldChanged reconciles a change of one descriptor field
func (t *Tracker) OnDescriptorFieldChanged(d custom.Descriptor, field string, oldValue string) error {
	return t.registry.OnDescriptorFieldChanged(d, field, oldValue)
}
