// Package conf contains configuration structures used to setup the tracker
package conf

import (
	"fmt"
	"os"
	"os/user"
	"path"
	"strings"

	"github.com/advanced-rest-client/app-analytics/analytics/params"
	"github.com/splitio/go-toolkit/v5/datastructures/set"
	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/splitio/go-toolkit/v5/nethelpers"
)

// Storage types
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config struct used to setup a tracker.
//
// Parameters:
// - TrackingID (Required) Tracking ID / web property ID, e.g. UA-XXXX-Y
// - ClientID (Optional) Anonymous client id. Restored from storage or generated when empty
// - UserID (Optional) Known, non PII, user identifier
// - DataSource, Referrer (Optional) ds and dr parameters
// - AnonymizeIP (Optional) Sends aip=1 with every hit
// - UseCacheBooster (Optional) Appends a cache buster to the request URL
// - Campaign, App (Optional) Campaign and application fields
// - Debug (Optional) Emits a debug listing of every hit
// - DebugEndpoint (Optional) Sends hits to the validation endpoint instead of collecting them
// - Disabled (Optional) Suppresses every transmission. Persisted
// - Offline (Optional) Queues hits instead of sending them
// - Environment (Optional) Language, screen and viewport reported with every hit
// - Logger: (Optional) Custom logger complying with logging.LoggerInterface
// - LoggerConfig: (Optional) Options to setup the tracker's own logger
// - Storage: (Optional) Where the client id and disabled flag are persisted
// - Advanced: (Optional) Sets up various advanced options
type Config struct {
	TrackingID      string                  `koanf:"tracking_id"`
	ClientID        string                  `koanf:"client_id"`
	UserID          string                  `koanf:"user_id"`
	DataSource      string                  `koanf:"data_source"`
	AnonymizeIP     bool                    `koanf:"anonymize_ip"`
	UseCacheBooster bool                    `koanf:"use_cache_booster"`
	Referrer        string                  `koanf:"referrer"`
	Campaign        CampaignConfig          `koanf:"campaign"`
	App             AppConfig               `koanf:"app"`
	Debug           bool                    `koanf:"debug"`
	DebugEndpoint   bool                    `koanf:"debug_endpoint"`
	Disabled        bool                    `koanf:"disabled"`
	Offline         bool                    `koanf:"offline"`
	Environment     params.Environment      `koanf:"environment"`
	IPAddress       string                  `koanf:"ip_address"`
	InstanceName    string                  `koanf:"instance_name"`
	LogLevel        string                  `koanf:"log_level"`
	Logger          logging.LoggerInterface `koanf:"-"`
	LoggerConfig    logging.LoggerOptions   `koanf:"-"`
	Storage         StorageConfig           `koanf:"storage"`
	Advanced        AdvancedConfig          `koanf:"advanced"`
}

// CampaignConfig struct holds the campaign fields
type CampaignConfig struct {
	Name   string `koanf:"name"`
	Source string `koanf:"source"`
	Medium string `koanf:"medium"`
}

// AppConfig struct holds the application fields
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	ID          string `koanf:"id"`
	InstallerID string `koanf:"installer_id"`
}

// StorageConfig selects the key-value storage used for persisted state
type StorageConfig struct {
	Type  string      `koanf:"type"`
	Path  string      `koanf:"path"`
	Redis RedisConfig `koanf:"redis"`
}

// RedisConfig struct is used to cofigure the redis parameters
type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database int    `koanf:"database"`
	Password string `koanf:"password"`
	Prefix   string `koanf:"prefix"`
}

// AdvancedConfig exposes more configurable parameters
// - CollectURL - Base URL of the collection service
// - HTTPTimeout - Timeout in seconds for each hit request
// - OfflineQueueSize - How many hits can wait for connectivity. Further hits are rejected
// - FlushPeriod - Seconds between automatic offline queue flushes, 0 disables the task
// - FlushWorkers - How many queued hits are resent at the same time
type AdvancedConfig struct {
	CollectURL       string `koanf:"collect_url"`
	HTTPTimeout      int    `koanf:"http_timeout"`
	OfflineQueueSize int    `koanf:"offline_queue_size"`
	FlushPeriod      int    `koanf:"flush_period"`
	FlushWorkers     int    `koanf:"flush_workers"`
}

// Default returns a config struct with all the default values
func Default() *Config {
	ipAddress, err := nethelpers.ExternalIP()
	if err != nil {
		ipAddress = "unknown"
	}

	var dbPath string
	usr, err := user.Current()
	if err != nil {
		dbPath = "analytics.db"
	} else {
		dbPath = path.Join(usr.HomeDir, ".app-analytics.db")
	}

	return &Config{
		IPAddress:    ipAddress,
		InstanceName: fmt.Sprintf("ip-%s", strings.Replace(ipAddress, ".", "-", -1)),
		LogLevel:     "info",
		Logger:       nil,
		LoggerConfig: logging.LoggerOptions{},
		Environment: params.Environment{
			Language:   systemLanguage(),
			ColorDepth: defaultColorDepth,
		},
		Storage: StorageConfig{
			Type: StorageMemory,
			Path: dbPath,
			Redis: RedisConfig{
				Host:     defaultRedisHost,
				Port:     defaultRedisPort,
				Database: defaultRedisDb,
			},
		},
		Advanced: AdvancedConfig{
			HTTPTimeout:      defaultHTTPTimeout,
			OfflineQueueSize: defaultOfflineQueueSize,
			FlushPeriod:      defaultFlushPeriod,
			FlushWorkers:     defaultFlushWorkers,
		},
	}
}

// Normalize checks that the parameters passed by the user are correct and updates parameters if necessary.
// returns an error if something is wrong
func Normalize(cfg *Config) error {
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = StorageMemory
	}

	storageTypes := set.NewSet(
		StorageMemory,
		StorageSQLite,
		StorageRedis,
	)
	if !storageTypes.Has(cfg.Storage.Type) {
		return fmt.Errorf("Storage type must be one of: %v", storageTypes.List())
	}
	if cfg.Storage.Type == StorageSQLite && cfg.Storage.Path == "" {
		return fmt.Errorf("Storage path is required for %s storage", StorageSQLite)
	}

	if cfg.Advanced.HTTPTimeout < 0 || cfg.Advanced.OfflineQueueSize < 0 || cfg.Advanced.FlushPeriod < 0 || cfg.Advanced.FlushWorkers < 0 {
		return fmt.Errorf("Advanced options cannot be negative")
	}
	if cfg.Advanced.HTTPTimeout == 0 {
		cfg.Advanced.HTTPTimeout = defaultHTTPTimeout
	}
	if cfg.Advanced.FlushWorkers == 0 {
		cfg.Advanced.FlushWorkers = defaultFlushWorkers
	}

	if cfg.Environment.Language == "" {
		cfg.Environment.Language = systemLanguage()
	}
	if cfg.Environment.ColorDepth == 0 {
		cfg.Environment.ColorDepth = defaultColorDepth
	}

	if cfg.LogLevel != "" {
		level, err := ParseLogLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		cfg.LoggerConfig.LogLevel = level
	}

	return nil
}

// systemLanguage turns the POSIX locale (en_US.UTF-8) into a language tag (en-US)
func systemLanguage() string {
	for _, name := range []string{"LC_ALL", "LANG"} {
		locale := os.Getenv(name)
		if locale == "" || locale == "C" || locale == "POSIX" {
			continue
		}
		if i := strings.IndexAny(locale, ".@"); i != -1 {
			locale = locale[:i]
		}
		return strings.Replace(locale, "_", "-", -1)
	}
	return defaultLanguage
}

// ParseLogLevel maps a level name to a go-toolkit log level
func ParseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "none":
		return logging.LevelNone, nil
	case "error":
		return logging.LevelError, nil
	case "warning", "warn":
		return logging.LevelWarning, nil
	case "info":
		return logging.LevelInfo, nil
	case "debug":
		return logging.LevelDebug, nil
	case "verbose":
		return logging.LevelVerbose, nil
	case "all":
		return logging.LevelAll, nil
	}
	return 0, fmt.Errorf("unknown log level %q", level)
}
