package server

import (
	"math"
	"sort"

	"github.com/momentum-md/momentum/internal/core/dateutil"
	"github.com/momentum-md/momentum/internal/core/model"
)

// ProjectStat is the response element for /api/projects.
type ProjectStat struct {
	Project string  `json:"project"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

// DayStat is the response element for /api/days.
type DayStat struct {
	Date    string  `json:"date"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

// WeekStat is the response element for /api/weeks.
type WeekStat struct {
	WeekStart string  `json:"weekStart"`
	Minutes   int     `json:"minutes"`
	Hours     float64 `json:"hours"`
}

// filterByRange returns entries whose Date falls within [from, to] inclusive.
// String comparison is safe because YYYY-MM-DD is lexicographically ordered.
func filterByRange(entries []model.TimeLogEntry, from, to string) []model.TimeLogEntry {
	var out []model.TimeLogEntry
	for _, e := range entries {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out
}

// aggregateByProject groups entries by project (original case), sums minutes,
// and returns sorted descending by minutes with name as tiebreaker.
func aggregateByProject(entries []model.TimeLogEntry) []ProjectStat {
	totals := make(map[string]int)
	for _, e := range entries {
		totals[e.Project] += e.Minutes
	}

	stats := make([]ProjectStat, 0, len(totals))
	for project, minutes := range totals {
		stats = append(stats, ProjectStat{
			Project: project,
			Minutes: minutes,
			Hours:   roundHours(minutes),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Minutes != stats[j].Minutes {
			return stats[i].Minutes > stats[j].Minutes
		}
		return stats[i].Project < stats[j].Project
	})

	return stats
}

// aggregateByDay groups entries by date, sums minutes, and fills zeros for
// every day in [from, to] that has no entries so charts get a contiguous
// sequence of dates.
func aggregateByDay(entries []model.TimeLogEntry, from, to string) []DayStat {
	totals := make(map[string]int)
	for _, e := range entries {
		totals[e.Date] += e.Minutes
	}

	var stats []DayStat
	for d := from; d <= to; d = dateutil.AddDays(d, 1) {
		mins := totals[d]
		stats = append(stats, DayStat{
			Date:    d,
			Minutes: mins,
			Hours:   roundHours(mins),
		})
	}

	return stats
}

// aggregateByWeek groups entries by their Sunday-start week, sums minutes,
// and returns sorted ascending by weekStart.
func aggregateByWeek(entries []model.TimeLogEntry) []WeekStat {
	totals := make(map[string]int)
	for _, e := range entries {
		totals[dateutil.GetWeekStartSunday(e.Date)] += e.Minutes
	}

	stats := make([]WeekStat, 0, len(totals))
	for weekStart, minutes := range totals {
		stats = append(stats, WeekStat{
			WeekStart: weekStart,
			Minutes:   minutes,
			Hours:     roundHours(minutes),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].WeekStart < stats[j].WeekStart
	})

	return stats
}

// roundHours converts minutes to hours rounded to 2 decimal places.
func roundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}
