package heyso

import "time"

// Calendar heat-map derivation: a bounded display tier per day, purely a
// function of the cached month bucket.

// TierNone marks a day with no entries.
const TierNone = -1

// HeatTier maps a raw count to a display tier: counts 1..4 map to tiers
// 0..3 and anything >= 5 caps at tier 4.
func HeatTier(count int) int {
	if count <= 0 {
		return TierNone
	}
	if count >= 5 {
		return 4
	}
	return count - 1
}

// CountsByDay indexes a month bucket by date key for O(1) per-day lookup.
func CountsByDay(counts []MonthlyCount) map[string]int {
	out := make(map[string]int, len(counts))
	for _, c := range counts {
		out[c.DiaryDate] = c.DiaryCount
	}
	return out
}

// DateKey formats t as the YYYY-MM-DD key the API uses.
func DateKey(t time.Time) string { return t.Format("2006-01-02") }

// MonthKey formats t as the YYYY-MM key the monthly endpoint expects.
func MonthKey(t time.Time) string { return t.Format("2006-01") }
