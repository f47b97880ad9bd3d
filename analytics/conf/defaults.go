package conf

const (
	defaultHTTPTimeout      = 30
	defaultOfflineQueueSize = 5000
	defaultFlushPeriod      = 60
	defaultFlushWorkers     = 4
	defaultRedisHost        = "localhost"
	defaultRedisPort        = 6379
	defaultRedisDb          = 0
	defaultLanguage         = "en-US"
	defaultColorDepth       = 24
)
