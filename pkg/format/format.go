package format

import (
	"fmt"
	"math"
)

const unitBase = 1024

var units = []string{"kB", "MB", "GB", "TB"}

// Bytes renders a byte count. Negative counts mean "not estimated" and
// render as "n/e"; counts under 1024 are exact ("999B"); larger counts use
// one decimal in base-1024 units ("1.0kB", "2.5MB"). A value that would
// round to 1024.0 moves up a unit.
func Bytes(n int64) string {
	if n < 0 {
		return "n/e"
	}
	if n < unitBase {
		return fmt.Sprintf("%dB", n)
	}
	v := float64(n) / unitBase
	i := 0
	for math.Round(v*10)/10 >= unitBase && i < len(units)-1 {
		v /= unitBase
		i++
	}
	return fmt.Sprintf("%.1f%s", v, units[i])
}

// Duration renders a time in seconds: "<1ms", "350ms" or "1.2s".
func Duration(seconds float64) string {
	ms := seconds * 1000
	switch {
	case ms < 1:
		return "<1ms"
	case ms < 1000:
		return fmt.Sprintf("%dms", int64(math.Round(ms)))
	default:
		return fmt.Sprintf("%.1fs", seconds)
	}
}

// NetworkProfile describes a connection used for transfer-time estimates.
type NetworkProfile struct {
	Name           string
	BytesPerSecond float64
	Latency        float64 // round-trip time in seconds
}

var (
	// Slow3G approximates a 400 kbit/s mobile connection.
	Slow3G = NetworkProfile{Name: "slow 3G", BytesPerSecond: 50 * unitBase, Latency: 0.4}
	// Fast4G approximates a 7 Mbit/s mobile connection.
	Fast4G = NetworkProfile{Name: "4G", BytesPerSecond: 875 * unitBase, Latency: 0.17}
)

// Profiles lists the profiles shown in tooltips, slowest first.
var Profiles = []NetworkProfile{Slow3G, Fast4G}

// TransferTime estimates how long downloading n bytes takes on p, in seconds.
func TransferTime(n int64, p NetworkProfile) float64 {
	if n <= 0 || p.BytesPerSecond <= 0 {
		return 0
	}
	return p.Latency + float64(n)/p.BytesPerSecond
}

// SizeLabel is the short inline annotation for a successful lookup.
func SizeLabel(size, gzip int64) string {
	return fmt.Sprintf("%s (gzip %s)", Bytes(size), Bytes(gzip))
}
