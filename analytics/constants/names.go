package constants

import "strconv"

// ParamNames maps a parameter name to the label printed in the debug listing.
var ParamNames = map[string]string{
	"v":      "Protocol Version",
	"tid":    "Tracking ID / Web Property ID",
	"aip":    "Anonymize IP",
	"ds":     "Data Source",
	"qt":     "Queue Time",
	"z":      "Cache Buster",
	"cid":    "Client ID",
	"uid":    "User ID",
	"sc":     "Session Control",
	"uip":    "IP Override",
	"ua":     "User Agent Override",
	"geoip":  "Geographical Override",
	"dr":     "Document Referrer",
	"cn":     "Campaign Name",
	"cs":     "Campaign Source",
	"cm":     "Campaign Medium",
	"ck":     "Campaign Keyword",
	"cc":     "Campaign Content",
	"ci":     "Campaign ID",
	"gclid":  "Google AdWords ID",
	"dclid":  "Google Display Ads ID",
	"sr":     "Screen Resolution",
	"vp":     "Viewport size",
	"de":     "Document Encoding",
	"sd":     "Screen Colors",
	"ul":     "User Language",
	"je":     "Java Enabled",
	"fl":     "Flash Version",
	"t":      "Hit type",
	"ni":     "Non-Interaction Hit",
	"dl":     "Document location URL",
	"dh":     "Document Host Name",
	"dp":     "Document Path",
	"dt":     "Document Title",
	"cd":     "Screen Name",
	"linkid": "Link ID",
	"an":     "Application Name",
	"aid":    "Application ID",
	"av":     "Application Version",
	"aiid":   "Application Installer ID",
	"ec":     "Event Category",
	"ea":     "Event Action",
	"el":     "Event Label",
	"ev":     "Event Value",
	"sn":     "Social Network",
	"sa":     "Social Action",
	"st":     "Social Action Target",
	"utc":    "User timing category",
	"utv":    "User timing variable name",
	"utt":    "User timing time",
	"utl":    "User timing label",
	"plt":    "Page Load Time",
	"dns":    "DNS Time",
	"pdt":    "Page Download Time",
	"rrt":    "Redirect Response Time",
	"tcp":    "TCP Connect Time",
	"srt":    "Server Response Time",
	"dit":    "DOM Interactive Time",
	"clt":    "Content Load Time",
	"exd":    "Exception Description",
	"exf":    "Is Exception Fatal?",
	"xid":    "Experiment ID",
	"xvar":   "Experiment Variant",
}

func init() {
	for i := MinCustomIndex; i <= MaxCustomIndex; i++ {
		ParamNames[CustomDimensionParam(i)] = "Custom dimension #" + strconv.Itoa(i)
		ParamNames[CustomMetricParam(i)] = "Custom metric #" + strconv.Itoa(i)
	}
}

// ParamName returns the display label of a parameter, or the parameter itself when unknown
func ParamName(param string) string {
	if name, ok := ParamNames[param]; ok {
		return name
	}
	return param
}
