// Package astro holds the time, state and aberration primitives shared by
// the ephemeris and orientation queries.
package astro

import (
	"cmp"
	"fmt"
	"math"
	"strings"
	"time"
)

// Epoch is an instant on the TDB scale, held as whole seconds past the
// J2000 reference epoch (2000-01-01T12:00:00 TDB) plus a nanosecond
// offset. This is the "ephemeris time" scale used by SPK and BPC kernels.
//
// The zero value is J2000. Epochs are comparable with == and keep
// nanosecond resolution over the whole span of planetary ephemerides,
// which a float64 second count does not.
type Epoch struct {
	sec  int64
	nsec int32 // [0, 1e9)
}

const (
	// SecondsPerDay is the number of SI seconds in a Julian day.
	SecondsPerDay = 86400.0
	// DaysPerCentury is the number of days in a Julian century.
	DaysPerCentury = 36525.0
	// SecondsPerCentury is the number of SI seconds in a Julian century.
	SecondsPerCentury = SecondsPerDay * DaysPerCentury

	nanosPerSecond = 1_000_000_000
)

// j2000 is the reference epoch on a uniform (leap-second free) calendar.
var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

const gregorianLayout = "2006-01-02T15:04:05.000000000"

// NewEpoch returns the epoch sec seconds and nsec nanoseconds past J2000.
// nsec may lie outside [0, 1e9).
func NewEpoch(sec, nsec int64) Epoch {
	sec += nsec / nanosPerSecond
	nsec %= nanosPerSecond
	if nsec < 0 {
		nsec += nanosPerSecond
		sec--
	}
	return Epoch{sec: sec, nsec: int32(nsec)}
}

// FromSeconds returns the epoch seconds past J2000, rounded to the nearest
// nanosecond.
func FromSeconds(seconds float64) Epoch {
	whole := math.Floor(seconds)
	return NewEpoch(int64(whole), int64(math.Round((seconds-whole)*nanosPerSecond)))
}

// FromGregorianTDB returns the epoch of a TDB calendar date.
func FromGregorianTDB(year int, month time.Month, day, hour, minute, second, nanos int) Epoch {
	return FromTime(time.Date(year, month, day, hour, minute, second, nanos, time.UTC))
}

// FromTime interprets the wall clock of t, read in UTC, as a TDB calendar date.
//
// No time scale conversion is applied.
func FromTime(t time.Time) Epoch {
	t = t.UTC()
	return NewEpoch(t.Unix()-j2000.Unix(), int64(t.Nanosecond()))
}

// ParseTDB parses "YYYY-MM-DDTHH:MM:SS[.fffffffff]" with an optional " TDB"
// suffix as a TDB calendar date.
func ParseTDB(s string) (Epoch, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "TDB"))
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	return Epoch{}, fmt.Errorf("invalid TDB epoch %q", s)
}

// Seconds returns the TDB seconds past J2000.
func (e Epoch) Seconds() float64 { return float64(e.sec) + float64(e.nsec)/nanosPerSecond }

// Days returns the TDB days past J2000.
func (e Epoch) Days() float64 {
	return float64(e.sec)/SecondsPerDay + float64(e.nsec)/(nanosPerSecond*SecondsPerDay)
}

// Centuries returns the TDB Julian centuries past J2000.
func (e Epoch) Centuries() float64 {
	return float64(e.sec)/SecondsPerCentury + float64(e.nsec)/(nanosPerSecond*SecondsPerCentury)
}

// Add returns e shifted by seconds, rounded to the nearest nanosecond.
func (e Epoch) Add(seconds float64) Epoch {
	d := FromSeconds(seconds)
	return NewEpoch(e.sec+d.sec, int64(e.nsec)+int64(d.nsec))
}

// AddDuration returns e shifted by d.
func (e Epoch) AddDuration(d time.Duration) Epoch {
	return NewEpoch(e.sec, int64(e.nsec)+int64(d))
}

// Sub returns e - o in seconds.
func (e Epoch) Sub(o Epoch) float64 {
	return float64(e.sec-o.sec) + float64(int64(e.nsec)-int64(o.nsec))/nanosPerSecond
}

// Compare returns -1, 0 or +1 as e is before, equal to or after o.
func (e Epoch) Compare(o Epoch) int {
	if c := cmp.Compare(e.sec, o.sec); c != 0 {
		return c
	}
	return cmp.Compare(e.nsec, o.nsec)
}

// Before reports whether e is before o.
func (e Epoch) Before(o Epoch) bool { return e.Compare(o) < 0 }

// After reports whether e is after o.
func (e Epoch) After(o Epoch) bool { return e.Compare(o) > 0 }

// Time returns the TDB calendar date as a time.Time in UTC.
func (e Epoch) Time() time.Time {
	return time.Unix(j2000.Unix()+e.sec, int64(e.nsec)).UTC()
}

// String renders the epoch as an ISO calendar date in TDB.
func (e Epoch) String() string {
	return e.Time().Format(gregorianLayout) + " TDB"
}
