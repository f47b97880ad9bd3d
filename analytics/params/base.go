package params

import (
	"strconv"

	"github.com/advanced-rest-client/app-analytics/analytics/constants"
	"github.com/advanced-rest-client/app-analytics/analytics/custom"
	"github.com/advanced-rest-client/app-analytics/analytics/encoding"
)

// Environment carries the runtime facts a browser would report. They are supplied by the
// caller at build time and are not owned by the builder.
type Environment struct {
	Language       string `koanf:"language"`
	ScreenWidth    int    `koanf:"screen_width"`
	ScreenHeight   int    `koanf:"screen_height"`
	ColorDepth     int    `koanf:"color_depth"`
	ViewportWidth  int    `koanf:"viewport_width"`
	ViewportHeight int    `koanf:"viewport_height"`
}

// BaseInput is everything the base parameters are derived from
type BaseInput struct {
	TrackingID     string
	ClientID       string
	UserID         string
	AnonymizeIP    bool
	DataSource     string
	Referrer       string
	CampaignName   string
	CampaignSource string
	CampaignMedium string
	AppName        string
	AppVersion     string
	AppID          string
	AppInstallerID string
	Environment    Environment
	Dimensions     []custom.Property
	Metrics        []custom.Property
}

// BuildBase computes the parameters shared by every hit. Optional values and custom
// properties are stored already encoded.
func BuildBase(in BaseInput) *Parameters {
	p := New()
	p.Set(constants.ParamVersion, constants.ProtocolVersion)
	p.Set(constants.ParamTrackingID, in.TrackingID)
	p.Set(constants.ParamClientID, in.ClientID)
	p.Set(constants.ParamLanguage, in.Environment.Language)
	p.Set(constants.ParamScreenResolution, dimensions(in.Environment.ScreenWidth, in.Environment.ScreenHeight))
	p.Set(constants.ParamScreenColors, strconv.Itoa(in.Environment.ColorDepth))

	if in.Environment.ViewportWidth != 0 && in.Environment.ViewportHeight != 0 {
		p.Set(constants.ParamViewport, dimensions(in.Environment.ViewportWidth, in.Environment.ViewportHeight))
	}
	if in.UserID != "" {
		p.Set(constants.ParamUserID, in.UserID)
	}
	if in.AnonymizeIP {
		p.Set(constants.ParamAnonymizeIP, "1")
	}

	optional := []struct {
		key   string
		value string
	}{
		{constants.ParamDataSource, in.DataSource},
		{constants.ParamReferrer, in.Referrer},
		{constants.ParamCampaignName, in.CampaignName},
		{constants.ParamCampaignSource, in.CampaignSource},
		{constants.ParamCampaignMedium, in.CampaignMedium},
		{constants.ParamAppVersion, in.AppVersion},
		{constants.ParamAppName, in.AppName},
		{constants.ParamAppID, in.AppID},
		{constants.ParamAppInstallerID, in.AppInstallerID},
	}
	for _, o := range optional {
		if o.value != "" {
			p.Set(o.key, encoding.Encode(o.value))
		}
	}

	for _, m := range in.Metrics {
		p.Set(constants.CustomMetricParam(m.Index), encoding.Encode(m.Value))
	}
	for _, d := range in.Dimensions {
		p.Set(constants.CustomDimensionParam(d.Index), encoding.Encode(d.Value))
	}
	return p
}

func dimensions(width int, height int) string {
	return strconv.Itoa(width) + "x" + strconv.Itoa(height)
}
