package analytics

import (
	"fmt"
	"sort"
	"time"

	"backend-worktracker/internal/location"
	"backend-worktracker/internal/session"
	"backend-worktracker/internal/shared/geo"
)

const msPerHour = 3600000.0

// Route joins one calendar day's points and sessions.
type Route struct {
	Date     string                `json:"date"`
	Points   []location.Point      `json:"points"`
	Sessions []session.WorkSession `json:"sessions"`
}

type PeriodTotal struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

type HourTotal struct {
	Hour  int     `json:"hour"`
	Total float64 `json:"total"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type MovementSummary struct {
	TotalDistanceM    float64      `json:"total_distance_m"`
	AvgDailyDistanceM float64      `json:"avg_daily_distance_m"`
	TopLabels         []LabelCount `json:"top_labels"`
	TopHours          []HourCount  `json:"top_hours"`
}

// CommuteSummary averages are milliseconds since local midnight, so they
// compare days with different dates.
type CommuteSummary struct {
	WorkDays              int     `json:"work_days"`
	AvgFirstStartMs       int64   `json:"avg_first_start_ms"`
	AvgLastEndMs          int64   `json:"avg_last_end_ms"`
	AvgFirstLastDistanceM float64 `json:"avg_first_last_distance_m"`
}

type ProjectSummary struct {
	ProjectName   string  `json:"project_name"`
	TotalEarnings float64 `json:"total_earnings"`
	TotalMs       int64   `json:"total_ms"`
	AvgHourlyRate float64 `json:"avg_hourly_rate"`
}

type OverallSummary struct {
	Sessions      int     `json:"sessions"`
	TotalEarnings float64 `json:"total_earnings"`
	TotalMs       int64   `json:"total_ms"`
	AvgHourlyRate float64 `json:"avg_hourly_rate"`
}

func dateOf(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02")
}

// DailyRoute filters points and sessions down to one calendar date. The
// second return is false when the date has no data at all.
func DailyRoute(date string, points []location.Point, sessions []session.WorkSession) (Route, bool) {
	r := Route{Date: date}
	for _, p := range points {
		if dateOf(p.Timestamp) == date {
			r.Points = append(r.Points, p)
		}
	}
	for _, ws := range sessions {
		if ws.Date == date {
			r.Sessions = append(r.Sessions, ws)
		}
	}
	sort.SliceStable(r.Points, func(i, j int) bool {
		return r.Points[i].Timestamp < r.Points[j].Timestamp
	})
	return r, len(r.Points) > 0 || len(r.Sessions) > 0
}

// BuildRoutes groups full history into per-day routes, oldest day first.
func BuildRoutes(points []location.Point, sessions []session.WorkSession) []Route {
	dates := map[string]bool{}
	for _, p := range points {
		dates[dateOf(p.Timestamp)] = true
	}
	for _, ws := range sessions {
		dates[ws.Date] = true
	}

	ordered := make([]string, 0, len(dates))
	for d := range dates {
		ordered = append(ordered, d)
	}
	sort.Strings(ordered)

	routes := make([]Route, 0, len(ordered))
	for _, d := range ordered {
		r, _ := DailyRoute(d, points, sessions)
		routes = append(routes, r)
	}
	return routes
}

// TotalDistance sums consecutive great-circle distances over points ordered
// by timestamp ascending.
func TotalDistance(points []location.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += geo.DistanceM(points[i-1].LatLng, points[i].LatLng)
	}
	return total
}

func TodaySessions(sessions []session.WorkSession, now time.Time) []session.WorkSession {
	today := now.Format("2006-01-02")
	out := []session.WorkSession{}
	for _, ws := range sessions {
		if ws.Date == today {
			out = append(out, ws)
		}
	}
	return out
}

// MonthlyEarnings groups by calendar month, most recent month first.
func MonthlyEarnings(sessions []session.WorkSession) []PeriodTotal {
	return earningsBy(sessions, func(t time.Time) (int, string) {
		return t.Year()*12 + int(t.Month()), fmt.Sprintf("%d년 %d월", t.Year(), int(t.Month()))
	})
}

// WeeklyEarnings groups by ISO week, most recent week first.
func WeeklyEarnings(sessions []session.WorkSession) []PeriodTotal {
	return earningsBy(sessions, func(t time.Time) (int, string) {
		year, week := t.ISOWeek()
		return year*100 + week, fmt.Sprintf("%d년 %d주차", year, week)
	})
}

func earningsBy(sessions []session.WorkSession, period func(time.Time) (int, string)) []PeriodTotal {
	totals := map[int]float64{}
	labels := map[int]string{}
	for _, ws := range sessions {
		key, label := period(time.UnixMilli(ws.StartTime))
		totals[key] += ws.Earnings()
		labels[key] = label
	}

	keys := make([]int, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	out := make([]PeriodTotal, 0, len(keys))
	for _, k := range keys {
		out = append(out, PeriodTotal{Label: labels[k], Total: totals[k]})
	}
	return out
}

// HourlyProductivity buckets earnings by session start hour. All 24 buckets
// are returned, highest total first, earlier hour first on ties.
func HourlyProductivity(sessions []session.WorkSession) []HourTotal {
	buckets := make([]HourTotal, 24)
	for h := range buckets {
		buckets[h].Hour = h
	}
	for _, ws := range sessions {
		h := time.UnixMilli(ws.StartTime).Hour()
		buckets[h].Total += ws.Earnings()
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Total > buckets[j].Total
	})
	return buckets
}

// AnalyzeMovement summarizes distance, the 5 most visited labels, and the 3
// busiest hours across daily routes.
func AnalyzeMovement(routes []Route) MovementSummary {
	sum := MovementSummary{TopLabels: []LabelCount{}, TopHours: []HourCount{}}

	labelCounts := map[string]int{}
	var hourCounts [24]int
	for _, r := range routes {
		sum.TotalDistanceM += TotalDistance(r.Points)
		for _, p := range r.Points {
			labelCounts[p.Label]++
			hourCounts[time.UnixMilli(p.Timestamp).Hour()]++
		}
	}
	if len(routes) > 0 {
		sum.AvgDailyDistanceM = sum.TotalDistanceM / float64(len(routes))
	}

	for label, count := range labelCounts {
		sum.TopLabels = append(sum.TopLabels, LabelCount{Label: label, Count: count})
	}
	sort.Slice(sum.TopLabels, func(i, j int) bool {
		if sum.TopLabels[i].Count != sum.TopLabels[j].Count {
			return sum.TopLabels[i].Count > sum.TopLabels[j].Count
		}
		return sum.TopLabels[i].Label < sum.TopLabels[j].Label
	})
	if len(sum.TopLabels) > 5 {
		sum.TopLabels = sum.TopLabels[:5]
	}

	for h, count := range hourCounts {
		if count > 0 {
			sum.TopHours = append(sum.TopHours, HourCount{Hour: h, Count: count})
		}
	}
	sort.SliceStable(sum.TopHours, func(i, j int) bool {
		return sum.TopHours[i].Count > sum.TopHours[j].Count
	})
	if len(sum.TopHours) > 3 {
		sum.TopHours = sum.TopHours[:3]
	}

	return sum
}

// CommutingPattern averages the earliest clock-in, latest clock-out, and
// first-to-last point displacement over days that have at least one session.
func CommutingPattern(routes []Route) CommuteSummary {
	var out CommuteSummary
	var startSum, endSum int64
	var distSum float64
	distDays := 0

	for _, r := range routes {
		if len(r.Sessions) == 0 {
			continue
		}
		out.WorkDays++

		earliest := r.Sessions[0].StartTime
		latest := r.Sessions[0].EndTime
		for _, ws := range r.Sessions[1:] {
			if ws.StartTime < earliest {
				earliest = ws.StartTime
			}
			if ws.EndTime > latest {
				latest = ws.EndTime
			}
		}
		startSum += msOfDay(earliest)
		endSum += msOfDay(latest)

		if len(r.Points) >= 2 {
			first := r.Points[0]
			last := r.Points[len(r.Points)-1]
			distSum += geo.DistanceM(first.LatLng, last.LatLng)
			distDays++
		}
	}

	if out.WorkDays > 0 {
		out.AvgFirstStartMs = startSum / int64(out.WorkDays)
		out.AvgLastEndMs = endSum / int64(out.WorkDays)
	}
	if distDays > 0 {
		out.AvgFirstLastDistanceM = distSum / float64(distDays)
	}
	return out
}

func msOfDay(ms int64) int64 {
	t := time.UnixMilli(ms)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return t.Sub(midnight).Milliseconds()
}

// EarningsByProject groups history by project name, highest total first.
func EarningsByProject(sessions []session.WorkSession) []ProjectSummary {
	byName := map[string]*ProjectSummary{}
	order := []string{}
	for _, ws := range sessions {
		ps, ok := byName[ws.ProjectName]
		if !ok {
			ps = &ProjectSummary{ProjectName: ws.ProjectName}
			byName[ws.ProjectName] = ps
			order = append(order, ws.ProjectName)
		}
		ps.TotalEarnings += ws.Earnings()
		ps.TotalMs += ws.Duration()
	}

	out := make([]ProjectSummary, 0, len(order))
	for _, name := range order {
		ps := byName[name]
		if hours := float64(ps.TotalMs) / msPerHour; hours > 0 {
			ps.AvgHourlyRate = ps.TotalEarnings / hours
		}
		out = append(out, *ps)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalEarnings > out[j].TotalEarnings
	})
	return out
}

// Summarize rolls the entire history into one earnings view.
func Summarize(sessions []session.WorkSession) OverallSummary {
	var out OverallSummary
	out.Sessions = len(sessions)
	for _, ws := range sessions {
		out.TotalEarnings += ws.Earnings()
		out.TotalMs += ws.Duration()
	}
	if hours := float64(out.TotalMs) / msPerHour; hours > 0 {
		out.AvgHourlyRate = out.TotalEarnings / hours
	}
	return out
}
