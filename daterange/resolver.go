package daterange

import (
	"time"

	"pincrime/types"
)

// Default number of days shown on initial load, before the user has touched
// any date control.
const defaultWindowDays = 7

// Inputs are the raw values of the two competing date controls as of one
// update: the explicit picker pair and the quick-select token. Any of them
// may be unset.
type Inputs struct {
	ExplicitStart *time.Time
	ExplicitEnd   *time.Time
	QuickSelect   types.QuickSelect
}

// Resolve reconciles the date picker and the quick-select dropdown into a
// single authoritative range against the dataset's latest known date.
//
// Precedence: a quick-select token set on this update wins and derives the
// range from latestDate. Otherwise an explicit pair passes through
// unchanged, which makes Resolve idempotent: feeding a resolved range back
// in with no quick-select reproduces it exactly. With neither input set the
// default window ending at latestDate is returned.
func Resolve(in Inputs, latestDate time.Time) types.DateRange {
	latestDate = truncate(latestDate)

	if offset, ok := types.QuickSelectOffsets[in.QuickSelect]; ok {
		return types.DateRange{
			Start:       latestDate.AddDate(0, 0, -offset),
			End:         latestDate,
			QuickSelect: in.QuickSelect,
		}
	}

	if in.ExplicitStart != nil && in.ExplicitEnd != nil {
		return clamp(types.DateRange{
			Start: truncate(*in.ExplicitStart),
			End:   truncate(*in.ExplicitEnd),
		}, latestDate)
	}

	return types.DateRange{
		Start: latestDate.AddDate(0, 0, -defaultWindowDays),
		End:   latestDate,
	}
}

// clamp enforces Start <= End. A reversed pair gets its end clamped to the
// dataset's latest date first; if the start still lies beyond that, it is
// pulled down to the end. The UI cannot express a rejection, so malformed
// input is normalized rather than errored.
func clamp(r types.DateRange, latestDate time.Time) types.DateRange {
	if !r.Start.After(r.End) {
		return r
	}
	r.End = latestDate
	if r.Start.After(r.End) {
		r.Start = r.End
	}
	return r
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
