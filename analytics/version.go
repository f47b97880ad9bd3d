// Package analytics contains the Measurement Protocol client version and the metadata
// attached to every request posted by the transport.
package analytics

// Version contains a string with the client version
const Version = "1.2.0"

// SDKName is prefixed to the version when reporting it to the collection endpoint
const SDKName = "go-app-analytics"

// UserAgent returns the value sent in the User-Agent header of every hit
func UserAgent() string {
	return SDKName + "/" + Version
}
