// Package tasks holds the periodic background jobs of the tracker
package tasks

import (
	"context"
	"time"

	"github.com/splitio/go-toolkit/v5/asynctask"
	"github.com/splitio/go-toolkit/v5/logging"
)

// OfflineFlusher resends whatever hits were stored while delivery was not possible
type OfflineFlusher interface {
	Flush(ctx context.Context) error
	Pending() int64
}

func flushOfflineHits(flusher OfflineFlusher, timeout time.Duration, logger logging.LoggerInterface) error {
	if flusher.Pending() == 0 {
		logger.Debug("No hits in the offline queue. Nothing to send")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return flusher.Flush(ctx)
}

// NewFlushOfflineHitsTask creates a task that periodically drains the offline queue
func NewFlushOfflineHitsTask(
	flusher OfflineFlusher,
	period int,
	timeout time.Duration,
	logger logging.LoggerInterface,
) *asynctask.AsyncTask {
	record := func(logger logging.LoggerInterface) error {
		return flushOfflineHits(flusher, timeout, logger)
	}

	onStop := func(logger logging.LoggerInterface) {
		if err := flushOfflineHits(flusher, timeout, logger); err != nil {
			logger.Error("Error flushing offline hits on stop", err)
		}
	}

	return asynctask.NewAsyncTask("FlushOfflineHits", record, period, nil, onStop, logger)
}
