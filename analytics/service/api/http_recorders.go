package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/advanced-rest-client/app-analytics/analytics/conf"
	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/advanced-rest-client/app-analytics/analytics/dtos"
	"github.com/advanced-rest-client/app-analytics/analytics/service"
	splitdtos "github.com/splitio/go-split-commons/v7/dtos"
	"github.com/splitio/go-toolkit/v5/logging"
)

// HTTPHitRecorder is a struct responsible for submitting hits to the collection endpoint
type HTTPHitRecorder struct {
	client *HTTPClient
	logger logging.LoggerInterface
	now    func() time.Time
}

// Record posts a single serialized hit
func (h *HTTPHitRecorder) Record(ctx context.Context, body string, opts service.RecordOptions) (*dtos.ValidationResult, error) {
	path := constants.CollectPath
	if opts.Debug {
		path = constants.DebugPath + path
	}
	var query url.Values
	if opts.CacheBuster {
		query = url.Values{}
		query.Set(constants.CacheBusterParam, strconv.FormatInt(h.now().UnixMilli(), 10))
	}

	respBody, err := h.client.Post(ctx, path, query, []byte(body))
	if err != nil {
		h.logger.Error("Error posting hit", err.Error())
		return nil, err
	}

	if !opts.Debug {
		return nil, nil
	}

	var result dtos.ValidationResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		h.logger.Error("Error parsing validation result", err.Error())
		return nil, err
	}
	return &result, nil
}

// NewHTTPHitRecorder instantiates an HTTPHitRecorder
func NewHTTPHitRecorder(
	cfg *conf.Config,
	metadata splitdtos.Metadata,
	logger logging.LoggerInterface,
) *HTTPHitRecorder {
	client := NewHTTPClient(cfg, getURL(&cfg.Advanced), metadata.SDKVersion, logger)
	logger.Debug("Hit recorder created for", metadata.MachineName, metadata.MachineIP)
	return &HTTPHitRecorder{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}
