// Package encoding renders values the way the Measurement Protocol expects them on the wire.
package encoding

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// url.QueryEscape escapes a few characters that the collection endpoint expects verbatim.
var unreserved = strings.NewReplacer(
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Encode percent-encodes a single value, spaces become '+'.
// An empty value is returned unchanged. Encoding an already encoded value encodes it twice.
func Encode(value string) string {
	if value == "" {
		return value
	}
	return unreserved.Replace(url.QueryEscape(value))
}

// Decode reverses Encode. Values that cannot be decoded are returned as is.
func Decode(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}

// FormatValue renders a scalar as its wire string. Integral floats lose their fraction,
// nil renders as an empty string.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
