package extraction

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrNoUsableData no daily total and no app rows could be derived from the text
var ErrNoUsableData = errors.New("no usable screen time data found")

// AppUsage single per-app usage row
type AppUsage struct {
	AppName     string `json:"app_name"`
	MinutesUsed int    `json:"minutes_used"`
}

// Result structured usage data extracted from recognized screenshot text.
//
// DailyMinutes is the authoritative daily total. WeeklyMinutes and
// DailyAverage are only set when the source text exposes them (or when the
// daily total had to be derived from the weekly one).
type Result struct {
	DailyMinutes  int        `json:"daily_minutes"`
	WeeklyMinutes int        `json:"weekly_minutes,omitempty"`
	DailyAverage  int        `json:"daily_average,omitempty"`
	AppUsage      []AppUsage `json:"app_usage,omitempty"`
}

var (
	// duration patterns, tried in priority order
	patternHoursMinutes = regexp.MustCompile(`(?i)(\d+)\s*h(?:ours?)?\s*(\d+)\s*m(?:in(?:utes?)?)?`)
	patternHoursOnly    = regexp.MustCompile(`(?i)(\d+)\s*h(?:ours?)?`)
	// the unit is optional in the last tier so that rows like "Instagram 45"
	// still register as minutes
	patternMinutesOnly = regexp.MustCompile(`(?i)(\d+)\s*(?:m(?:in(?:utes?)?)?)?`)

	// section headers of the vendor settings report
	patternWeeklyHeader = regexp.MustCompile(`(?i)(?:last\s*7\s*days?|this\s*week|weekly)`)
	patternDailyHeader  = regexp.MustCompile(`(?i)today|daily average`)
	patternToday        = regexp.MustCompile(`(?i)today`)
	patternDailyAverage = regexp.MustCompile(`(?i)daily\s*average`)

	// app row shape: name made of letters/spaces followed by a number
	patternAppLine = regexp.MustCompile(`^([A-Za-z\s]+?)\s+\d+`)
)

// excludedWords marks lines that look like an app row but are really report
// chrome (totals, headers). Substring match, case-insensitive.
var excludedWords = []string{"screen", "time", "daily", "average", "total", "week", "today", "yesterday"}

// Extract parses recognized screenshot text into a usage Result.
//
// The input is line-oriented but not reliably tabular; the parser walks it in
// a single pass, tracking whether it is inside the weekly or the daily section
// of the report, and classifies every line carrying a duration as either a
// per-app row, the weekly total or the daily total. The heuristics are tuned
// against known vendor screen time screens and must stay byte-compatible with
// the screenshots they were calibrated on, so resist the urge to clean them up.
func Extract(rawText string) (*Result, error) {
	result := &Result{}

	inWeeklySection := false
	inDailySection := false

	for _, raw := range strings.Split(rawText, "\n") {
		line := strings.TrimSpace(raw)

		if patternWeeklyHeader.MatchString(line) {
			inWeeklySection = true
			inDailySection = false
			continue
		}
		if patternDailyHeader.MatchString(line) {
			inDailySection = true
			inWeeklySection = false
			continue
		}

		totalMinutes := lineMinutes(line)

		if totalMinutes > 0 {
			// a line shaped like "<name> <number>" is claimed by the app
			// branch even when the captured name turns out to be report
			// chrome; it must not leak into the totals
			if name, ok := appRowName(line); ok {
				if likelyAppName(name) {
					result.AppUsage = append(result.AppUsage, AppUsage{
						AppName:     name,
						MinutesUsed: totalMinutes,
					})
				}
			} else if inWeeklySection {
				result.WeeklyMinutes = totalMinutes
			} else if inDailySection || patternToday.MatchString(line) {
				result.DailyMinutes = totalMinutes
			}
		}

		// not exclusive with the branch above
		if patternDailyAverage.MatchString(line) && totalMinutes > 0 {
			result.DailyAverage = totalMinutes
		}
	}

	// derive the daily total from the weekly one when it never showed up
	if result.DailyMinutes == 0 && result.WeeklyMinutes > 0 {
		result.DailyAverage = int(math.Round(float64(result.WeeklyMinutes) / 7))
		result.DailyMinutes = result.DailyAverage
	}

	// last resort: sum the per-app rows
	if result.DailyMinutes == 0 && len(result.AppUsage) > 0 {
		sum := 0
		for _, app := range result.AppUsage {
			sum += app.MinutesUsed
		}
		result.DailyMinutes = sum
	}

	sort.SliceStable(result.AppUsage, func(i, j int) bool {
		return result.AppUsage[i].MinutesUsed > result.AppUsage[j].MinutesUsed
	})

	if result.DailyMinutes == 0 && len(result.AppUsage) == 0 {
		return nil, ErrNoUsableData
	}
	return result, nil
}

// lineMinutes extracts a duration from a single line. The combined
// "hours and minutes" pattern wins over hours-only, which wins over
// minutes-only. A line matching none of them contributes zero.
func lineMinutes(line string) int {
	var hours, minutes int

	if m := patternHoursMinutes.FindStringSubmatch(line); m != nil {
		hours, _ = strconv.Atoi(m[1])
		minutes, _ = strconv.Atoi(m[2])
	} else if m := patternHoursOnly.FindStringSubmatch(line); m != nil {
		hours, _ = strconv.Atoi(m[1])
	} else if m := patternMinutesOnly.FindStringSubmatch(line); m != nil {
		minutes, _ = strconv.Atoi(m[1])
	}
	return hours*60 + minutes
}

// appRowName reports whether the line has the per-app row shape and returns
// the captured name
func appRowName(line string) (string, bool) {
	m := patternAppLine.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", false
	}
	return name, true
}

// likelyAppName filters out generic report words that OCR picks up around the
// actual app list
func likelyAppName(name string) bool {
	if len(name) <= 1 {
		return false
	}
	lower := strings.ToLower(name)
	for _, word := range excludedWords {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}

// FormatMinutes renders minutes in the "2h 15m" style used by the reports
func FormatMinutes(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60

	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}
