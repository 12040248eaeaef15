// Package cycle resolves recurring month/day reset anchors against concrete
// instants: which anchor governs the period containing an instant, whether a
// given day is a reset day, and the storage key for a period.
package cycle

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

// ParseAnchors parses raw "MONTH-DAY" entries into concrete dates relative to
// the reference instant. An anchor whose month/day has not yet passed in the
// reference's year resolves to that year; otherwise to the next year. The
// result is sorted chronologically ascending. At least one entry is required.
func ParseAnchors(raw []string, ref time.Time) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidResetDate,
			"at least one reset date is required",
			domainerror.ErrInvalidResetDate,
		)
	}

	anchors := make([]time.Time, 0, len(raw))
	for _, entry := range raw {
		pieces := strings.Split(strings.TrimSpace(entry), "-")
		if len(pieces) != 2 {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidResetDate,
				fmt.Sprintf("reset date %q must be two numbers split by a dash: \"MONTH-DAY\"", entry),
				domainerror.ErrInvalidResetDate,
			)
		}

		month, err := strconv.Atoi(strings.TrimSpace(pieces[0]))
		if err != nil || month < 1 || month > 12 {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidResetDate,
				fmt.Sprintf("reset date %q month must be within [1, 12]", entry),
				domainerror.ErrInvalidResetDate,
			)
		}
		day, err := strconv.Atoi(strings.TrimSpace(pieces[1]))
		if err != nil || day < 1 || day > 31 {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidResetDate,
				fmt.Sprintf("reset date %q day must be within [1, 31]", entry),
				domainerror.ErrInvalidResetDate,
			)
		}

		// An anchor that already occurred this year belongs to next year.
		year := ref.Year()
		alreadyHappened := int(ref.Month()) > month ||
			(int(ref.Month()) == month && ref.Day() > day)
		if alreadyHappened {
			year++
		}

		// time.Date normalizes an overflowing day into the next month; a day
		// the month does not have must fail instead of shifting the anchor.
		anchor := time.Date(year, time.Month(month), day, 0, 0, 0, 0, ref.Location())
		if int(anchor.Month()) != month || anchor.Day() != day {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeInvalidResetDate,
				fmt.Sprintf("reset date %q day does not exist in that month", entry),
				domainerror.ErrInvalidResetDate,
			)
		}
		anchors = append(anchors, anchor)
	}

	sort.Slice(anchors, func(i, j int) bool { return anchors[i].Before(anchors[j]) })
	return anchors, nil
}

// IsResetDay reports whether the instant's month and day exactly match the
// earliest anchor's.
func IsResetDay(anchors []time.Time, t time.Time) bool {
	if len(anchors) == 0 {
		return false
	}
	first := anchors[0]
	return t.Month() == first.Month() && t.Day() == first.Day()
}

// PeriodAnchor returns the anchor governing the period containing the instant:
// the anchor with the smallest non-negative distance, where distance is
// (month delta) + (day delta)/40. Ties resolve to the first match in anchor
// order. When every distance is negative the earliest anchor wins, covering
// the wrap-around into a new year.
func PeriodAnchor(anchors []time.Time, t time.Time) time.Time {
	best := anchors[0]
	bestDistance := -1.0
	for _, a := range anchors {
		d := distance(a, t)
		if d < 0 {
			continue
		}
		if bestDistance < 0 || d < bestDistance {
			best = a
			bestDistance = d
		}
	}
	return best
}

// distance measures how far an instant sits past an anchor within a year.
// The day delta is scaled down by 40 so it can never outweigh a month.
func distance(anchor, t time.Time) float64 {
	months := float64(int(t.Month()) - int(anchor.Month()))
	days := float64(t.Day()-anchor.Day()) / 40.0
	return months + days
}

// PeriodKey builds the deterministic storage key for the period that the
// instant falls into under the governing anchor: "{year}-{month}-{day}" with
// the instant's year and the anchor's month and day.
func PeriodKey(anchor, t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(anchor.Month()), anchor.Day())
}

// TimeToNextReset returns the duration until the nearest future anchor. When
// no anchor lies ahead of now, the earliest anchor is rolled into next year.
func TimeToNextReset(anchors []time.Time, now time.Time) time.Duration {
	var best time.Duration
	found := false
	for _, a := range anchors {
		d := a.Sub(now)
		if d <= 0 {
			continue
		}
		if !found || d < best {
			best = d
			found = true
		}
	}
	if !found {
		best = anchors[0].AddDate(1, 0, 0).Sub(now)
	}
	return best
}
