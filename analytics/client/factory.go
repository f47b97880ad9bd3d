// Package client contains the Measurement Protocol tracker and the dispatcher it uses to
// deliver or queue hits.
package client

import (
	"fmt"
	"io"
	"time"

	"github.com/advanced-rest-client/app-analytics/analytics"
	"github.com/advanced-rest-client/app-analytics/analytics/conf"
	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/advanced-rest-client/app-analytics/analytics/custom"
	"github.com/advanced-rest-client/app-analytics/analytics/listener"
	"github.com/advanced-rest-client/app-analytics/analytics/service"
	"github.com/advanced-rest-client/app-analytics/analytics/service/api"
	"github.com/advanced-rest-client/app-analytics/analytics/storage"
	"github.com/advanced-rest-client/app-analytics/analytics/storage/inmemory"
	"github.com/advanced-rest-client/app-analytics/analytics/storage/mutexqueue"
	"github.com/advanced-rest-client/app-analytics/analytics/storage/redisdb"
	"github.com/advanced-rest-client/app-analytics/analytics/storage/sqlite"
	"github.com/advanced-rest-client/app-analytics/analytics/tasks"
	"github.com/advanced-rest-client/app-analytics/analytics/telemetry"
	"github.com/google/uuid"
	"github.com/splitio/go-split-commons/v7/dtos"
	"github.com/splitio/go-toolkit/v5/logging"
)

// Option customizes the collaborators of a Tracker
type Option func(*trackerOptions)

type trackerOptions struct {
	recorder          service.HitRecorder
	kv                storage.KeyValueStorage
	queue             storage.OfflineQueue
	generateID        func() string
	hitListener       listener.HitDebugListener
	structureListener listener.StructureDebugListener
}

// WithHitRecorder replaces the HTTP transport
func WithHitRecorder(recorder service.HitRecorder) Option {
	return func(o *trackerOptions) {
		o.recorder = recorder
	}
}

// WithKeyValueStorage replaces the storage selected by the configuration
func WithKeyValueStorage(kv storage.KeyValueStorage) Option {
	return func(o *trackerOptions) {
		o.kv = kv
	}
}

// WithOfflineQueue replaces the in-memory offline queue
func WithOfflineQueue(queue storage.OfflineQueue) Option {
	return func(o *trackerOptions) {
		o.queue = queue
	}
}

// WithIDGenerator sets the function producing new client ids
func WithIDGenerator(generate func() string) Option {
	return func(o *trackerOptions) {
		o.generateID = generate
	}
}

// WithHitDebugListener receives the parameter listing of each hit when debug is on
func WithHitDebugListener(l listener.HitDebugListener) Option {
	return func(o *trackerOptions) {
		o.hitListener = l
	}
}

// WithStructureDebugListener receives the validation results in debug endpoint mode
func WithStructureDebugListener(l listener.StructureDebugListener) Option {
	return func(o *trackerOptions) {
		o.structureListener = l
	}
}

// setupLogger sets up the logger according to the parameters submitted by the user
func setupLogger(cfg *conf.Config) logging.LoggerInterface {
	var logger logging.LoggerInterface
	if cfg.Logger != nil {
		// If a custom logger is supplied, use it.
		logger = cfg.Logger
	} else {
		logger = logging.NewLogger(&cfg.LoggerConfig)
	}
	return logger
}

// setupStorage opens the key-value storage holding the client id and disabled flag.
// The returned closer is nil for storages without resources.
func setupStorage(cfg *conf.Config, logger logging.LoggerInterface) (storage.KeyValueStorage, io.Closer, error) {
	switch cfg.Storage.Type {
	case conf.StorageSQLite:
		store, err := sqlite.New(cfg.Storage.Path)
		if err != nil {
			logger.Error("Failed to open sqlite storage.")
			return nil, nil, err
		}
		return store, store, nil
	case conf.StorageRedis:
		redisCfg := cfg.Storage.Redis
		client, err := redisdb.NewPrefixedRedisClient(
			fmt.Sprintf("%s:%d", redisCfg.Host, redisCfg.Port),
			redisCfg.Password,
			redisCfg.Database,
			redisCfg.Prefix,
		)
		if err != nil {
			logger.Error("Failed to instantiate redis client.")
			return nil, nil, err
		}
		return redisdb.NewRedisKeyValueStorage(client, logger), nil, nil
	case conf.StorageMemory:
		return inmemory.NewMMKeyValueStorage(), nil, nil
	default:
		return nil, nil, fmt.Errorf("Invalid storage type \"%s\"", cfg.Storage.Type)
	}
}

// NewTracker instantiates a Tracker. The configuration is copied, normalized and completed with
// the persisted client id. When cfg is nil the defaults are used.
func NewTracker(cfg *conf.Config, opts ...Option) (*Tracker, error) {
	if cfg == nil {
		cfg = conf.Default()
	}
	settings := *cfg
	if err := conf.Normalize(&settings); err != nil {
		return nil, err
	}
	logger := setupLogger(&settings)

	options := &trackerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metadata := dtos.Metadata{
		SDKVersion:  analytics.UserAgent(),
		MachineIP:   settings.IPAddress,
		MachineName: settings.InstanceName,
	}

	var closer io.Closer
	kv := options.kv
	if kv == nil {
		var err error
		kv, closer, err = setupStorage(&settings, logger)
		if err != nil {
			return nil, err
		}
	}

	recorder := options.recorder
	if recorder == nil {
		recorder = api.NewHTTPHitRecorder(&settings, metadata, logger)
	}
	queue := options.queue
	if queue == nil {
		queue = mutexqueue.NewMQHitsStorage(settings.Advanced.OfflineQueueSize)
	}
	generateID := options.generateID
	if generateID == nil {
		generateID = uuid.NewString
	}

	telemetryStorage := telemetry.NewStorage()
	t := &Tracker{
		cfg:        &settings,
		registry:   custom.NewRegistry(logger),
		kv:         kv,
		closer:     closer,
		generateID: generateID,
		telemetry:  telemetryStorage,
		logger:     logger,
		dispatcher: &dispatcher{
			recorder:  recorder,
			queue:     queue,
			listener:  listener.NewDebugListenerWrapper(options.hitListener, options.structureListener),
			telemetry: telemetryStorage,
			logger:    logger,
			workers:   settings.Advanced.FlushWorkers,
		},
	}

	t.mutex.Lock()
	if settings.Disabled {
		t.persist(constants.DisabledKey, "true")
	} else {
		t.restoreConfiguration()
	}
	t.rebuildLocked()
	t.mutex.Unlock()
	t.registry.OnChange(t.rebuild)

	if settings.Advanced.FlushPeriod > 0 {
		t.flushTask = tasks.NewFlushOfflineHitsTask(
			t,
			settings.Advanced.FlushPeriod,
			time.Duration(settings.Advanced.FlushPeriod)*time.Second,
			logger,
		)
		t.flushTask.Start()
	}

	logger.Info("Tracker created for", settings.TrackingID)
	return t, nil
}
