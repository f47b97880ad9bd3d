package client

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/advanced-rest-client/app-analytics/analytics/conf"
	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/advanced-rest-client/app-analytics/analytics/custom"
	"github.com/advanced-rest-client/app-analytics/analytics/dtos"
	"github.com/advanced-rest-client/app-analytics/analytics/hits"
	"github.com/advanced-rest-client/app-analytics/analytics/params"
	"github.com/advanced-rest-client/app-analytics/analytics/service"
	"github.com/advanced-rest-client/app-analytics/analytics/storage/inmemory"
	"github.com/advanced-rest-client/app-analytics/analytics/storage/mutexqueue"
	"github.com/advanced-rest-client/app-analytics/analytics/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderMock struct {
	mutex  sync.Mutex
	bodies []string
	opts   []service.RecordOptions
	err    error
	result *dtos.ValidationResult
}

func (r *recorderMock) Record(ctx context.Context, body string, opts service.RecordOptions) (*dtos.ValidationResult, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.bodies = append(r.bodies, body)
	r.opts = append(r.opts, opts)
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func (r *recorderMock) calls() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]string(nil), r.bodies...)
}

func testConfig() *conf.Config {
	cfg := conf.Default()
	cfg.TrackingID = "UA-X"
	cfg.Advanced.FlushPeriod = 0
	return cfg
}

func newTestTracker(t *testing.T, cfg *conf.Config, opts ...Option) (*Tracker, *recorderMock) {
	t.Helper()
	recorder := &recorderMock{}
	opts = append([]Option{WithHitRecorder(recorder)}, opts...)
	tracker, err := NewTracker(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(tracker.Destroy)
	return tracker, recorder
}

func bodyKeys(body string) []string {
	pairs := strings.Split(body, "&")
	keys := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		keys = append(keys, strings.SplitN(pair, "=", 2)[0])
	}
	return keys
}

func TestSendScreen(t *testing.T) {
	cfg := testConfig()
	cfg.App.Name = "app"
	tracker, recorder := newTestTracker(t, cfg)

	require.NoError(t, tracker.SendScreen(context.Background(), "Test", nil))

	calls := recorder.calls()
	require.Len(t, calls, 1)
	body := calls[0]
	assert.True(t, strings.HasSuffix(body, "t=screenview&cd=Test"), body)

	seen := map[string]int{}
	for _, key := range bodyKeys(body) {
		seen[key]++
	}
	for _, key := range tracker.BaseParameters().Keys() {
		assert.Equal(t, 1, seen[key], "base key %s", key)
	}
	assert.Equal(t, 1, seen["t"])
	assert.Equal(t, 1, seen["cd"])

	values, err := url.ParseQuery(body)
	require.NoError(t, err)
	assert.Equal(t, "UA-X", values.Get("tid"))
	assert.Equal(t, "app", values.Get("an"))
	assert.Equal(t, "1", values.Get("v"))
	assert.NotEmpty(t, values.Get("cid"))
}

func TestSendEventWithoutOptionalFields(t *testing.T) {
	tracker, recorder := newTestTracker(t, testConfig())
	require.NoError(t, tracker.SendEvent(context.Background(), hits.Event{Category: "c", Action: "a"}, nil))

	body := recorder.calls()[0]
	base := tracker.BaseParameters()
	keys := bodyKeys(body)
	assert.Equal(t, append(base.Keys(), "t", "ec", "ea"), keys)
	assert.NotContains(t, keys, "el")
	assert.NotContains(t, keys, "ev")
}

func TestSendEventZeroValue(t *testing.T) {
	tracker, recorder := newTestTracker(t, testConfig())
	err := tracker.SendEvent(context.Background(), hits.Event{Category: "c", Action: "a", Label: "l b", Value: hits.Int64(0)}, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(recorder.calls()[0], "t=event&ec=c&ea=a&el=l+b&ev=0"))
}

func TestMissingParametersFailBeforeNetwork(t *testing.T) {
	tracker, recorder := newTestTracker(t, testConfig())
	ctx := context.Background()

	err := tracker.SendEvent(ctx, hits.Event{Category: "c"}, nil)
	assert.ErrorIs(t, err, validator.ErrMissingParameters)
	assert.EqualError(t, err, "Missing required parameters: action")

	err = tracker.SendSocial(ctx, hits.Social{Network: "n"}, nil)
	assert.EqualError(t, err, "Missing required parameters: action, target")

	err = tracker.SendTimings(ctx, hits.Timing{Category: "c", Variable: "v"}, nil)
	assert.EqualError(t, err, "Missing required parameters: time")

	err = tracker.SendScreen(ctx, "", nil)
	assert.ErrorIs(t, err, validator.ErrMissingParameters)

	assert.Empty(t, recorder.calls())
	assert.Zero(t, tracker.Pending())
}

func TestSendHitUnknownType(t *testing.T) {
	tracker, recorder := newTestTracker(t, testConfig())
	err := tracker.SendHit(context.Background(), "unknown", params.New())
	assert.ErrorIs(t, err, validator.ErrUnknownHitType)
	assert.Empty(t, recorder.calls())
}

func TestSendHitOverridesBase(t *testing.T) {
	tracker, recorder := newTestTracker(t, testConfig())
	hit := params.New()
	hit.Set("tid", "UA-OTHER")
	hit.Set("dp", "/home page")
	require.NoError(t, tracker.SendHit(context.Background(), constants.HitPageview, hit))

	body := recorder.calls()[0]
	assert.True(t, strings.HasPrefix(body, "v=1&tid=UA-OTHER&cid="), body)
	assert.True(t, strings.HasSuffix(body, "t=pageview&dp=%2Fhome+page"), body)
	assert.Equal(t, 1, strings.Count(body, "tid="))
	_, ok := hit.Get("t")
	assert.False(t, ok, "caller parameters must not be modified")
}

func TestCustomPropertiesInBaseParameters(t *testing.T) {
	tracker, recorder := newTestTracker(t, testConfig())
	require.NoError(t, tracker.AddCustomDimension(1, "a value"))
	require.NoError(t, tracker.AddCustomMetric("2", 5))
	assert.ErrorIs(t, tracker.AddCustomDimension(201, "x"), validator.ErrIndexOutOfRange)
	assert.ErrorIs(t, tracker.AddCustomMetric("abc", 1), validator.ErrInvalidIndex)

	base := tracker.BaseParameters()
	cd1, _ := base.Get("cd1")
	cm2, _ := base.Get("cm2")
	assert.Equal(t, "a+value", cd1)
	assert.Equal(t, "5", cm2)

	data := &hits.CustomData{Dimensions: []custom.Property{{Index: 1, Value: "one shot"}}}
	require.NoError(t, tracker.SendScreen(context.Background(), "Main", data))
	body := recorder.calls()[0]
	assert.Equal(t, 1, strings.Count(body, "cd1="))
	assert.Contains(t, body, "cd1=one+shot")

	assert.True(t, tracker.RemoveCustomDimension("1"))
	assert.False(t, tracker.RemoveCustomDimension("1"))
	assert.True(t, tracker.RemoveCustomMetric(2))
	assert.False(t, tracker.BaseParameters().Has("cd1"))
	assert.False(t, tracker.BaseParameters().Has("cm2"))
}

func TestDescriptorReconciliation(t *testing.T) {
	tracker, _ := newTestTracker(t, testConfig())
	d := custom.Descriptor{Type: "dimension", Index: "3", Value: "x"}
	require.NoError(t, tracker.OnDescriptorAdded(d))
	assert.True(t, tracker.BaseParameters().Has("cd3"))

	d.Type = "metric"
	d.Value = "7"
	require.NoError(t, tracker.OnDescriptorFieldChanged(d, "type", "dimension"))
	assert.False(t, tracker.BaseParameters().Has("cd3"))
	cm3, _ := tracker.BaseParameters().Get("cm3")
	assert.Equal(t, "7", cm3)

	tracker.OnDescriptorRemoved(d)
	assert.Empty(t, tracker.CustomMetrics())
	assert.Empty(t, tracker.CustomDimensions())
}

func TestBaseParametersRebuiltBySetters(t *testing.T) {
	tracker, _ := newTestTracker(t, testConfig())
	tracker.SetTrackingID("UA-Y")
	tracker.SetUserID("user")
	tracker.SetAnonymizeIP(true)
	tracker.SetDataSource("go app")
	tracker.SetReferrer("https://example.com")
	tracker.SetCampaignName("n")
	tracker.SetCampaignSource("s")
	tracker.SetCampaignMedium("m")
	tracker.SetAppName("App Name")
	tracker.SetAppVersion("1.0")
	tracker.SetAppID("id")
	tracker.SetAppInstallerID("inst")
	tracker.SetEnvironment(params.Environment{Language: "pl-PL", ScreenWidth: 800, ScreenHeight: 600, ColorDepth: 24, ViewportWidth: 400, ViewportHeight: 300})

	base := tracker.BaseParameters().Map()
	assert.Equal(t, "UA-Y", base["tid"])
	assert.Equal(t, "user", base["uid"])
	assert.Equal(t, "1", base["aip"])
	assert.Equal(t, "go+app", base["ds"])
	assert.Equal(t, "https%3A%2F%2Fexample.com", base["dr"])
	assert.Equal(t, "n", base["cn"])
	assert.Equal(t, "s", base["cs"])
	assert.Equal(t, "m", base["cm"])
	assert.Equal(t, "App+Name", base["an"])
	assert.Equal(t, "1.0", base["av"])
	assert.Equal(t, "id", base["aid"])
	assert.Equal(t, "inst", base["aiid"])
	assert.Equal(t, "pl-PL", base["ul"])
	assert.Equal(t, "800x600", base["sr"])
	assert.Equal(t, "400x300", base["vp"])
	assert.Equal(t, "24", base["sd"])
}

func TestClientIDGeneratedAndRestored(t *testing.T) {
	shared := inmemory.NewMMKeyValueStorage()
	first, _ := newTestTracker(t, testConfig(), WithKeyValueStorage(shared))
	second, _ := newTestTracker(t, testConfig(), WithKeyValueStorage(inmemory.NewMMKeyValueStorage()))

	firstID := first.Settings().ClientID
	secondID := second.Settings().ClientID
	assert.NotEmpty(t, firstID)
	assert.NotEmpty(t, secondID)
	assert.NotEqual(t, firstID, secondID)

	stored, found, err := shared.Get(constants.ClientIDKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, firstID, stored)

	restored, _ := newTestTracker(t, testConfig(), WithKeyValueStorage(shared))
	assert.Equal(t, firstID, restored.Settings().ClientID)
}

func TestSetClientIDPersists(t *testing.T) {
	kv := inmemory.NewMMKeyValueStorage()
	tracker, _ := newTestTracker(t, testConfig(), WithKeyValueStorage(kv), WithIDGenerator(func() string { return "generated" }))
	assert.Equal(t, "generated", tracker.Settings().ClientID)

	tracker.SetClientID("custom")
	stored, _, _ := kv.Get(constants.ClientIDKey)
	assert.Equal(t, "custom", stored)
	cid, _ := tracker.BaseParameters().Get("cid")
	assert.Equal(t, "custom", cid)
}

func TestPersistedDisabledFlag(t *testing.T) {
	kv := inmemory.NewMMKeyValueStorage()
	require.NoError(t, kv.Set(constants.DisabledKey, "true"))
	require.NoError(t, kv.Set(constants.ClientIDKey, "stored"))

	tracker, recorder := newTestTracker(t, testConfig(), WithKeyValueStorage(kv))
	settings := tracker.Settings()
	assert.True(t, settings.Disabled)
	assert.Empty(t, settings.ClientID)

	require.NoError(t, tracker.SendScreen(context.Background(), "Main", nil))
	assert.Empty(t, recorder.calls())

	tracker.SetDisabled(false)
	assert.Equal(t, "stored", tracker.Settings().ClientID)
	cid, _ := tracker.BaseParameters().Get("cid")
	assert.Equal(t, "stored", cid)
	flag, _, _ := kv.Get(constants.DisabledKey)
	assert.Equal(t, "false", flag)
}

func TestDisabledSuppressesEverything(t *testing.T) {
	kv := inmemory.NewMMKeyValueStorage()
	tracker, recorder := newTestTracker(t, testConfig(), WithKeyValueStorage(kv))
	tracker.SetDisabled(true)
	tracker.SetOffline(true)

	for i := 0; i < 3; i++ {
		require.NoError(t, tracker.SendScreen(context.Background(), "Main", nil))
	}
	assert.Empty(t, recorder.calls())
	assert.Zero(t, tracker.Pending())
	assert.EqualValues(t, 3, tracker.Stats().Suppressed)

	flag, _, _ := kv.Get(constants.DisabledKey)
	assert.Equal(t, "true", flag)
}

func TestOfflineQueueDrainedWhenOnline(t *testing.T) {
	tracker, recorder := newTestTracker(t, testConfig())
	tracker.SetOffline(true)

	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, tracker.SendScreen(ctx, name, nil))
	}
	assert.Empty(t, recorder.calls())
	assert.EqualValues(t, 3, tracker.Pending())

	tracker.SetOffline(false)
	calls := recorder.calls()
	require.Len(t, calls, 3)
	assert.Zero(t, tracker.Pending())

	sort.Strings(calls)
	for i, name := range []string{"a", "b", "c"} {
		assert.True(t, strings.HasSuffix(calls[i], "cd="+name), calls[i])
	}

	stats := tracker.Stats()
	assert.EqualValues(t, 3, stats.Queued)
	assert.EqualValues(t, 3, stats.Sent)
	assert.EqualValues(t, 1, stats.Flushes)
}

func TestTransportFailureQueuesHit(t *testing.T) {
	tracker, recorder := newTestTracker(t, testConfig())
	recorder.err = errors.New("connection refused")

	require.NoError(t, tracker.SendScreen(context.Background(), "Main", nil))
	assert.EqualValues(t, 1, tracker.Pending())
	assert.EqualValues(t, 1, tracker.Stats().Requeued)

	// the queued hit fails again and is dropped
	require.NoError(t, tracker.Flush(context.Background()))
	assert.Zero(t, tracker.Pending())
	assert.EqualValues(t, 1, tracker.Stats().Dropped)
	assert.Len(t, recorder.calls(), 2)
}

func TestTransportFailureWithFullQueue(t *testing.T) {
	queue := mutexqueue.NewMQHitsStorage(1)
	require.NoError(t, queue.Push("queued"))
	tracker, recorder := newTestTracker(t, testConfig(), WithOfflineQueue(queue))
	recorder.err = errors.New("connection refused")

	err := tracker.SendScreen(context.Background(), "Main", nil)
	assert.ErrorIs(t, err, ErrTransportFailure)
	assert.EqualValues(t, 1, tracker.Stats().Failed)

	tracker.SetOffline(true)
	err = tracker.SendScreen(context.Background(), "Main", nil)
	assert.ErrorIs(t, err, ErrTransportFailure)
	assert.ErrorIs(t, err, mutexqueue.ErrorMaxSizeReached)
}

type blockingRecorder struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   int64
}

func (b *blockingRecorder) Record(ctx context.Context, body string, opts service.RecordOptions) (*dtos.ValidationResult, error) {
	atomic.AddInt64(&b.calls, 1)
	b.once.Do(func() { close(b.started) })
	<-b.release
	return nil, nil
}

func TestGoingOnlineDuringFlushDrainsNewHits(t *testing.T) {
	recorder := &blockingRecorder{started: make(chan struct{}), release: make(chan struct{})}
	tracker, err := NewTracker(testConfig(), WithHitRecorder(recorder))
	require.NoError(t, err)
	defer tracker.Destroy()

	ctx := context.Background()
	tracker.SetOffline(true)
	require.NoError(t, tracker.SendScreen(ctx, "a", nil))

	done := make(chan struct{})
	go func() {
		tracker.SetOffline(false)
		close(done)
	}()
	<-recorder.started

	tracker.SetOffline(true)
	require.NoError(t, tracker.SendScreen(ctx, "b", nil))
	require.NoError(t, tracker.SendScreen(ctx, "c", nil))
	tracker.SetOffline(false)

	close(recorder.release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("flush did not finish")
	}
	assert.Zero(t, tracker.Pending())
	assert.EqualValues(t, 3, atomic.LoadInt64(&recorder.calls))
	assert.EqualValues(t, 3, tracker.Stats().Sent)
}

type debugListenerMock struct {
	mutex   sync.Mutex
	entries []dtos.DebugEntry
	results []*dtos.ValidationResult
}

func (d *debugListenerMock) OnHitDebug(hitType string, entries []dtos.DebugEntry) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.entries = entries
}

func (d *debugListenerMock) OnStructureDebug(result *dtos.ValidationResult) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.results = append(d.results, result)
}

func TestDebugListing(t *testing.T) {
	debug := &debugListenerMock{}
	tracker, _ := newTestTracker(t, testConfig(), WithHitDebugListener(debug))
	require.NoError(t, tracker.SendScreen(context.Background(), "Main screen", nil))
	assert.Nil(t, debug.entries)

	tracker.SetDebug(true)
	require.NoError(t, tracker.SendScreen(context.Background(), "Main screen", nil))
	require.NotEmpty(t, debug.entries)
	last := debug.entries[len(debug.entries)-1]
	assert.Equal(t, dtos.DebugEntry{Param: "cd", Name: "Screen Name", Value: "Main screen"}, last)
}

func TestDebugEndpoint(t *testing.T) {
	debug := &debugListenerMock{}
	tracker, recorder := newTestTracker(t, testConfig(), WithStructureDebugListener(debug))
	recorder.result = &dtos.ValidationResult{}

	tracker.SetDebugEndpoint(true)
	tracker.SetUseCacheBooster(true)
	require.NoError(t, tracker.SendScreen(context.Background(), "Main", nil))

	require.Len(t, recorder.opts, 1)
	assert.Equal(t, service.RecordOptions{Debug: true, CacheBuster: true}, recorder.opts[0])
	require.Len(t, debug.results, 1)
	assert.Same(t, recorder.result, debug.results[0])
}

func TestHandleMessage(t *testing.T) {
	tracker, recorder := newTestTracker(t, testConfig())
	ctx := context.Background()

	err := tracker.HandleMessage(ctx, dtos.Message{
		Type:             "screenview",
		Name:             "Main",
		CustomDimensions: []dtos.CustomEntry{{Index: float64(2), Value: "x y"}},
		CustomMetrics:    []dtos.CustomEntry{{Index: "3", Value: float64(4)}},
	})
	require.NoError(t, err)
	require.NoError(t, tracker.HandleMessage(ctx, dtos.Message{Type: "event", Category: "c", Action: "a", Value: float64Ptr(3.9)}))
	require.NoError(t, tracker.HandleMessage(ctx, dtos.Message{Type: "exception", Description: "boom", Fatal: true}))
	require.NoError(t, tracker.HandleMessage(ctx, dtos.Message{Type: "social", Network: "n", Action: "a", Target: "t"}))
	require.NoError(t, tracker.HandleMessage(ctx, dtos.Message{Type: "timing", Category: "c", Variable: "v", Value: float64Ptr(0)}))

	calls := recorder.calls()
	require.Len(t, calls, 5)
	assert.True(t, strings.HasSuffix(calls[0], "t=screenview&cd=Main&cd2=x+y&cm3=4"), calls[0])
	assert.True(t, strings.HasSuffix(calls[1], "t=event&ec=c&ea=a&ev=3"), calls[1])
	assert.True(t, strings.HasSuffix(calls[2], "t=exception&exd=boom&exf=1"), calls[2])
	assert.True(t, strings.HasSuffix(calls[3], "t=social&sn=n&sa=a&st=t"), calls[3])
	assert.True(t, strings.HasSuffix(calls[4], "t=timing&utc=c&utv=v&utt=0"), calls[4])
}

func float64Ptr(v float64) *float64 {
	return &v
}

func TestHandleMessageErrors(t *testing.T) {
	tracker, recorder := newTestTracker(t, testConfig())
	ctx := context.Background()

	assert.NoError(t, tracker.HandleMessage(ctx, dtos.Message{Type: "unknown"}))
	assert.NoError(t, tracker.HandleMessage(ctx, dtos.Message{Type: "timing", Category: "c"}))
	assert.ErrorIs(t, tracker.HandleMessage(ctx, dtos.Message{Type: "event", Category: "c"}), validator.ErrMissingParameters)

	err := tracker.HandleMessage(ctx, dtos.Message{
		Type:             "screenview",
		Name:             "Main",
		CustomDimensions: []dtos.CustomEntry{{Index: 300, Value: "x"}},
	})
	assert.ErrorIs(t, err, validator.ErrIndexOutOfRange)
	assert.Empty(t, recorder.calls())

	tracker.SetDisabled(true)
	assert.NoError(t, tracker.HandleMessage(ctx, dtos.Message{Type: "event"}))
	assert.Empty(t, recorder.calls())
}

func TestSQLiteStorageRestoresClientID(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Type = conf.StorageSQLite
	cfg.Storage.Path = filepath.Join(t.TempDir(), "analytics.db")

	first, err := NewTracker(cfg, WithHitRecorder(&recorderMock{}))
	require.NoError(t, err)
	id := first.Settings().ClientID
	first.Destroy()
	assert.True(t, first.IsDestroyed())

	second, err := NewTracker(cfg, WithHitRecorder(&recorderMock{}))
	require.NoError(t, err)
	defer second.Destroy()
	assert.Equal(t, id, second.Settings().ClientID)
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Type = "files"
	_, err := NewTracker(cfg)
	assert.Error(t, err)
}
