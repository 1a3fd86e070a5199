package models

// WeekdayNames are the weekly histogram bucket labels in the fixed
// reporting locale, Sunday first. The index matches time.Weekday.
var WeekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeeklyBucket is the classification count for one weekday. The histogram
// always carries all seven buckets, with explicit zeros for empty days.
type WeeklyBucket struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

// CategoryCount is the number of records observed for one category.
// Categories with no records are omitted, not zero-filled.
type CategoryCount struct {
	Category string `json:"category"`
	Amount   int    `json:"amount"`
}

// DashboardStats holds the aggregate metrics shown on the administrator
// dashboard.
type DashboardStats struct {
	TotalUsers           int             `json:"totalUsers"`
	TotalClassifications int             `json:"totalClassifications"`
	CategoryCounts       []CategoryCount `json:"categoryCounts"`
	WeeklyHistogram      []WeeklyBucket  `json:"weeklyHistogram"`
	DisposalRate         float64         `json:"disposalRate"`
}

// disposalDenominator is the fixed capacity the dashboard measures total
// classification volume against.
const disposalDenominator = 2000

// DisposalRate returns the display percentage for a classification total.
// It is a pure function of the total and performs no queries.
func DisposalRate(totalClassifications int) float64 {
	return float64(totalClassifications) / disposalDenominator * 100
}

// EmptyWeeklyHistogram returns all seven weekday buckets zeroed.
func EmptyWeeklyHistogram() []WeeklyBucket {
	buckets := make([]WeeklyBucket, len(WeekdayNames))
	for i, name := range WeekdayNames {
		buckets[i] = WeeklyBucket{Weekday: name}
	}
	return buckets
}

// EmptyDashboardStats returns the zeroed metrics object used when
// aggregation fails, so dashboards can render a defined no-data state.
func EmptyDashboardStats() DashboardStats {
	return DashboardStats{
		CategoryCounts:  []CategoryCount{},
		WeeklyHistogram: EmptyWeeklyHistogram(),
	}
}
