package projections

import (
	"context"
	"sort"

	lessonstore "lessondesk/internal/adapters/storage/lesson"
)

// GetAnalyticsQuery carries input for the analytics projection.
type GetAnalyticsQuery struct {
	UserID string
}

// GetAnalyticsDeps holds dependencies for the analytics projection.
type GetAnalyticsDeps struct {
	LessonStore DashboardLessonStore
}

// ClientTotal aggregates lessons for one client.
type ClientTotal struct {
	ClientID string
	Name     string // "No client" for lessons without one
	Lessons  int
	Minutes  int
}

// WeekTotal aggregates lessons for one ISO week.
type WeekTotal struct {
	Year    int
	Week    int
	Lessons int
	Minutes int
}

// AnalyticsResult carries the output of the analytics projection.
type AnalyticsResult struct {
	TotalLessons int
	TotalMinutes int
	ClientTotals []ClientTotal // most minutes first
	WeekTotals   []WeekTotal   // oldest week first
}

// QueryGetAnalytics folds a user's lessons into per-client and per-week totals.
// PRE: UserID is non-empty
// POST: Totals cover every lesson exactly once
func QueryGetAnalytics(ctx context.Context, query GetAnalyticsQuery, deps GetAnalyticsDeps) (AnalyticsResult, error) {
	lessons, err := deps.LessonStore.ListByUserID(ctx, query.UserID, lessonstore.ListFilter{})
	if err != nil {
		return AnalyticsResult{}, err
	}

	result := AnalyticsResult{
		ClientTotals: []ClientTotal{},
		WeekTotals:   []WeekTotal{},
	}

	byClient := map[string]*ClientTotal{}
	type weekKey struct{ year, week int }
	byWeek := map[weekKey]*WeekTotal{}

	for _, l := range lessons {
		result.TotalLessons++
		result.TotalMinutes += l.DurationMinutes

		name := "No client"
		if l.Client != nil {
			name = l.Client.Name
		}
		ct, ok := byClient[l.ClientID]
		if !ok {
			ct = &ClientTotal{ClientID: l.ClientID, Name: name}
			byClient[l.ClientID] = ct
		}
		ct.Lessons++
		ct.Minutes += l.DurationMinutes

		year, week := l.CreatedAt.ISOWeek()
		wk := weekKey{year, week}
		wt, ok := byWeek[wk]
		if !ok {
			wt = &WeekTotal{Year: year, Week: week}
			byWeek[wk] = wt
		}
		wt.Lessons++
		wt.Minutes += l.DurationMinutes
	}

	for _, ct := range byClient {
		result.ClientTotals = append(result.ClientTotals, *ct)
	}
	sort.Slice(result.ClientTotals, func(i, j int) bool {
		if result.ClientTotals[i].Minutes != result.ClientTotals[j].Minutes {
			return result.ClientTotals[i].Minutes > result.ClientTotals[j].Minutes
		}
		return result.ClientTotals[i].Name < result.ClientTotals[j].Name
	})

	for _, wt := range byWeek {
		result.WeekTotals = append(result.WeekTotals, *wt)
	}
	sort.Slice(result.WeekTotals, func(i, j int) bool {
		if result.WeekTotals[i].Year != result.WeekTotals[j].Year {
			return result.WeekTotals[i].Year < result.WeekTotals[j].Year
		}
		return result.WeekTotals[i].Week < result.WeekTotals[j].Week
	})

	return result, nil
}
