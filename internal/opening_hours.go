package internal

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const OPENING_HOURS_UNKNOWN = "Unknown"
const OPENING_HOURS_SEE_WEBSITE = "See website"

// Monday first, matching the legacy day index.
var weekdayKeys = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

type weeklyHours struct {
	types []string
	days  map[int][]int
}

type legacyHours struct {
	day   int
	open  string
	close string
}

// openingSchedule holds the two payload shapes seen from the tank service. Weekly
// schedules are the current format; day-indexed entries are the legacy fallback.
type openingSchedule struct {
	weekly []weeklyHours
	legacy []legacyHours
}

// ParseOpeningHours returns today's opening hours as "HH:MM-HH:MM".
func ParseOpeningHours(raw jsoniter.RawMessage, now time.Time) string {
	schedule, err := decodeOpeningSchedule(raw)
	if err != nil {
		return OPENING_HOURS_UNKNOWN
	}

	today := (int(now.Weekday()) + 6) % 7

	for _, entry := range schedule.orderedWeekly() {
		times, ok := entry.days[today]
		if ok && len(times) == 2 {
			return fmt.Sprintf("%s-%s", formatHHMM(times[0]), formatHHMM(times[1]))
		}
	}

	for _, entry := range schedule.legacy {
		if entry.day == today && entry.open != "" && entry.close != "" {
			return fmt.Sprintf("%s-%s", entry.open, entry.close)
		}
	}

	return OPENING_HOURS_SEE_WEBSITE
}

// orderedWeekly puts fuel schedules first, then untyped ones, then the rest (shop, car wash).
func (s *openingSchedule) orderedWeekly() []weeklyHours {
	rank := func(w weeklyHours) int {
		if len(w.types) == 0 {
			return 1
		}
		if slices.ContainsFunc(w.types, func(t string) bool { return strings.EqualFold(t, "fuel") }) {
			return 0
		}
		return 2
	}

	ordered := slices.Clone(s.weekly)
	slices.SortStableFunc(ordered, func(a, b weeklyHours) int {
		return rank(a) - rank(b)
	})
	return ordered
}

func decodeOpeningSchedule(raw jsoniter.RawMessage) (*openingSchedule, error) {
	if len(raw) == 0 || strings.TrimSpace(string(raw)) == "null" {
		return nil, errors.New("no opening times")
	}

	var entries []map[string]jsoniter.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(err, "opening times are not a list of objects")
	}
	if len(entries) == 0 {
		return nil, errors.New("no opening times")
	}

	schedule := &openingSchedule{}
	for i, entry := range entries {
		if _, ok := entry["Day"]; ok {
			legacy, err := decodeLegacyHours(entry)
			if err != nil {
				return nil, errors.Wrapf(err, "opening times entry %d", i)
			}
			schedule.legacy = append(schedule.legacy, *legacy)
			continue
		}

		weekly, err := decodeWeeklyHours(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "opening times entry %d", i)
		}
		schedule.weekly = append(schedule.weekly, *weekly)
	}

	return schedule, nil
}

func decodeWeeklyHours(entry map[string]jsoniter.RawMessage) (*weeklyHours, error) {
	weekly := &weeklyHours{days: make(map[int][]int)}

	if raw, ok := entry["types"]; ok {
		if err := json.Unmarshal(raw, &weekly.types); err != nil {
			return nil, errors.Wrap(err, "invalid types")
		}
	}

	for idx, key := range weekdayKeys {
		raw, ok := entry[key]
		if !ok {
			continue
		}
		var times []int
		if err := json.Unmarshal(raw, &times); err != nil {
			return nil, errors.Wrapf(err, "invalid times for %s", key)
		}
		weekly.days[idx] = times
	}

	if len(weekly.days) == 0 && len(weekly.types) == 0 {
		return nil, errors.New("unrecognised opening times entry")
	}
	return weekly, nil
}

func decodeLegacyHours(entry map[string]jsoniter.RawMessage) (*legacyHours, error) {
	var day int
	if err := json.Unmarshal(entry["Day"], &day); err != nil {
		return nil, errors.Wrap(err, "invalid day")
	}

	open, err := decodeClockTime(entry["Open"])
	if err != nil {
		return nil, errors.Wrap(err, "invalid opening time")
	}
	closing, err := decodeClockTime(entry["Close"])
	if err != nil {
		return nil, errors.Wrap(err, "invalid closing time")
	}

	return &legacyHours{day: day, open: open, close: closing}, nil
}

// decodeClockTime accepts "HH:MM" strings as well as HHMM integers.
func decodeClockTime(raw jsoniter.RawMessage) (string, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "", nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		return strings.TrimSpace(unquoted), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return "", err
	}
	return formatHHMM(n), nil
}

func formatHHMM(t int) string {
	return fmt.Sprintf("%02d:%02d", t/100, t%100)
}
