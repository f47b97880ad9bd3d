package constants

import "strconv"

// ProtocolVersion is the Measurement Protocol version sent as `v` with every hit.
const ProtocolVersion = "1"

const (
	// HitPageview pageview
	HitPageview = "pageview"
	// HitScreenview screenview
	HitScreenview = "screenview"
	// HitEvent event
	HitEvent = "event"
	// HitTransaction transaction
	HitTransaction = "transaction"
	// HitItem item
	HitItem = "item"
	// HitSocial social
	HitSocial = "social"
	// HitException exception
	HitException = "exception"
	// HitTiming timing
	HitTiming = "timing"
)

// HitTypes lists every hit kind accepted by the dispatcher
var HitTypes = []string{
	HitPageview,
	HitScreenview,
	HitEvent,
	HitTransaction,
	HitItem,
	HitSocial,
	HitException,
	HitTiming,
}

// MinCustomIndex and MaxCustomIndex bound the custom dimension / metric slots
const (
	MinCustomIndex = 1
	MaxCustomIndex = 200
)

const (
	// ClientIDKey is the storage key of the persisted client id
	ClientIDKey = "apic.ga.cid"
	// DisabledKey is the storage key of the persisted disabled flag
	DisabledKey = "apic.ga.disabled"
)

const (
	// CollectURL production collection endpoint
	CollectURL = "https://www.google-analytics.com"
	// CollectPath path of the collection service
	CollectPath = "/collect"
	// DebugPath prefix of the validation service
	DebugPath = "/debug"
	// CacheBusterParam query parameter carrying the cache buster
	CacheBusterParam = "z"
)

// Measurement Protocol parameter keys
const (
	ParamVersion          = "v"
	ParamTrackingID       = "tid"
	ParamAnonymizeIP      = "aip"
	ParamDataSource       = "ds"
	ParamClientID         = "cid"
	ParamUserID           = "uid"
	ParamReferrer         = "dr"
	ParamCampaignName     = "cn"
	ParamCampaignSource   = "cs"
	ParamCampaignMedium   = "cm"
	ParamScreenResolution = "sr"
	ParamViewport         = "vp"
	ParamScreenColors     = "sd"
	ParamLanguage         = "ul"
	ParamHitType          = "t"
	ParamScreenName       = "cd"
	ParamAppName          = "an"
	ParamAppID            = "aid"
	ParamAppVersion       = "av"
	ParamAppInstallerID   = "aiid"
	ParamEventCategory    = "ec"
	ParamEventAction      = "ea"
	ParamEventLabel       = "el"
	ParamEventValue       = "ev"
	ParamSocialNetwork    = "sn"
	ParamSocialAction     = "sa"
	ParamSocialTarget     = "st"
	ParamTimingCategory   = "utc"
	ParamTimingVariable   = "utv"
	ParamTimingTime       = "utt"
	ParamTimingLabel      = "utl"
	ParamExceptionDesc    = "exd"
	ParamExceptionFatal   = "exf"
	customDimensionPrefix = "cd"
	customMetricPrefix    = "cm"
)

// CustomDimensionParam returns the parameter name of the custom dimension at index
func CustomDimensionParam(index int) string {
	return customDimensionPrefix + strconv.Itoa(index)
}

// CustomMetricParam returns the parameter name of the custom metric at index
func CustomMetricParam(index int) string {
	return customMetricPrefix + strconv.Itoa(index)
}
