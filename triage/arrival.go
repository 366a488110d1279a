package triage

import (
	"strconv"
	"strings"
	"time"
)

// brazilZone is the fixed reference zone of the court (UTC-3, no DST).
var brazilZone = time.FixedZone("UTC-3", -3*60*60)

// LocalNow returns the current time in the court's reference zone.
func LocalNow() time.Time {
	return time.Now().In(brazilZone)
}

// DateOf truncates t to a calendar date, represented as midnight UTC. All
// arrival dates and reference dates use this representation so that
// whole-day arithmetic is exact.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// maxEpochSeconds is 9999-12-31T23:59:59Z. Raw last-movement timestamps
// larger than this cannot be a seconds scale and are read as milliseconds.
const maxEpochSeconds = 253402300799

// dayFirstLayouts cover the day-first date shapes seen across export
// configurations.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
}

// parseDayFirstDate parses a day-first calendar date, dropping any
// time-of-day a layout may have carried.
func parseDayFirstDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstLayouts {
		if tm, err := time.Parse(layout, s); err == nil {
			return DateOf(tm), true
		}
	}
	return time.Time{}, false
}

// signalOutcome is the tagged result of one resolver strategy.
type signalOutcome int

const (
	// signalAbsent: the strategy's input field(s) are not present on the
	// record; the cascade moves on without treating this as a failure.
	signalAbsent signalOutcome = iota
	// signalParseError: input was present but unusable.
	signalParseError
	// signalResolved: the strategy produced an arrival date.
	signalResolved
)

// arrivalStrategy is one step of the resolution cascade.
type arrivalStrategy struct {
	resolution Resolution
	resolve    func(rec *CaseRecord) (time.Time, signalOutcome)
}

// arrivalStrategies returns the cascade in priority order. The first
// strategy that resolves wins; later signals are never consulted.
func arrivalStrategies() []arrivalStrategy {
	return []arrivalStrategy{
		{
			// Explicit formatted arrival (re-ingested exports).
			resolution: ResolutionExplicit,
			resolve: func(rec *CaseRecord) (time.Time, signalOutcome) {
				if rec.FormattedArrival == "" {
					return time.Time{}, signalAbsent
				}
				if d, ok := parseDayFirstDate(rec.FormattedArrival); ok {
					return d, signalResolved
				}
				return time.Time{}, signalParseError
			},
		},
		{
			// Task-panel arrival: "DD/MM/YYYY, HH:MM:SS" or a bare date.
			// Everything after the first comma is time-of-day and dropped.
			resolution: ResolutionFromTask,
			resolve: func(rec *CaseRecord) (time.Time, signalOutcome) {
				if rec.RawTaskArrival == "" {
					return time.Time{}, signalAbsent
				}
				datePart, _, _ := strings.Cut(rec.RawTaskArrival, ",")
				if d, ok := parseDayFirstDate(datePart); ok {
					return d, signalResolved
				}
				return time.Time{}, signalParseError
			},
		},
		{
			// Management-panel retroactive computation: last-movement epoch
			// timestamp minus the elapsed-days counter.
			resolution: ResolutionRetroactive,
			resolve: func(rec *CaseRecord) (time.Time, signalOutcome) {
				if rec.RawLastMovement == "" {
					return time.Time{}, signalAbsent
				}
				moved, ok := parseEpochDate(rec.RawLastMovement)
				if !ok {
					return time.Time{}, signalParseError
				}
				days, err := strconv.Atoi(strings.TrimSpace(rec.ElapsedDaysRaw))
				if err != nil || days < 0 {
					return time.Time{}, signalParseError
				}
				return moved.AddDate(0, 0, -days), signalResolved
			},
		},
	}
}

// parseEpochDate reads a numeric epoch timestamp string, disambiguates the
// seconds vs milliseconds scale, and truncates to a calendar date.
func parseEpochDate(s string) (time.Time, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v <= 0 {
		return time.Time{}, false
	}
	sec := v
	if v > maxEpochSeconds {
		sec = v / 1000
	}
	if sec > maxEpochSeconds {
		return time.Time{}, false
	}
	return DateOf(time.Unix(sec, 0).UTC()), true
}

// ResolveArrival runs the resolution cascade on rec and fills ArrivalDate,
// AgeDays and Resolution. AgeDays is always recomputed from the resolved
// arrival date, overriding any source-provided elapsed-days counter, and is
// clamped at zero when the arrival date lies in the future of the reference
// date. When no signal resolves the record is marked failed with a nil
// arrival and age zero; the caller decides which views exclude it.
func ResolveArrival(rec *CaseRecord, reference time.Time) {
	ref := DateOf(reference)
	for _, st := range arrivalStrategies() {
		d, outcome := st.resolve(rec)
		if outcome != signalResolved {
			continue
		}
		arrival := d
		rec.ArrivalDate = &arrival
		rec.Resolution = st.resolution
		age := int(ref.Sub(arrival).Hours() / 24)
		if age < 0 {
			age = 0
		}
		rec.AgeDays = age
		return
	}
	rec.ArrivalDate = nil
	rec.Resolution = ResolutionFailed
	rec.AgeDays = 0
}
