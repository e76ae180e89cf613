package visit

import (
	"sort"
	"strings"
	"time"
)

// DateFilter selects a trailing window of visit dates.
type DateFilter string

const (
	DateAll       DateFilter = "all"
	DateToday     DateFilter = "today"
	DateYesterday DateFilter = "yesterday"
	DateWeek      DateFilter = "week"
	DateMonth     DateFilter = "month"
	DateYear      DateFilter = "year"
)

// SortOrder selects how the filtered view is ordered.
type SortOrder string

const (
	SortNewest   SortOrder = "newest"
	SortOldest   SortOrder = "oldest"
	SortNameAsc  SortOrder = "name-asc"
	SortNameDesc SortOrder = "name-desc"
)

// Criteria holds the active list filters. The zero value plus
// VisitType "all", DateFilter "all" and SortBy "newest" is the
// "show everything, newest first" view.
type Criteria struct {
	SearchTerm string
	VisitType  string // "all" or an exact visit type
	DateFilter DateFilter
	SortBy     SortOrder
}

// DefaultCriteria returns the unfiltered newest-first view.
func DefaultCriteria() Criteria {
	return Criteria{
		VisitType:  "all",
		DateFilter: DateAll,
		SortBy:     SortNewest,
	}
}

// Filter produces the filtered and sorted view of visits for the given
// criteria. Filters combine as a logical AND; sorting happens after
// filtering. The result is a fresh slice: the source and its order are
// never touched.
func Filter(visits []*Visit, c Criteria) []*Visit {
	return filterAt(visits, c, time.Now())
}

// filterAt is Filter with an injectable clock for the date windows.
func filterAt(visits []*Visit, c Criteria, now time.Time) []*Visit {
	result := make([]*Visit, 0, len(visits))
	term := strings.ToLower(strings.TrimSpace(c.SearchTerm))

	for _, v := range visits {
		if term != "" && !matchesSearch(v, term) {
			continue
		}
		if c.VisitType != "" && c.VisitType != "all" && string(v.VisitType) != c.VisitType {
			continue
		}
		if !matchesDate(v, c.DateFilter, now) {
			continue
		}
		result = append(result, v)
	}

	sortVisits(result, c.SortBy)
	return result
}

// matchesSearch checks the case-insensitive substring match across
// place, effective purpose, visit type, mantra and every family
// member's name and mantra.
func matchesSearch(v *Visit, term string) bool {
	if strings.Contains(strings.ToLower(v.Place), term) {
		return true
	}
	if strings.Contains(strings.ToLower(v.PurposeText()), term) {
		return true
	}
	if strings.Contains(strings.ToLower(string(v.VisitType)), term) {
		return true
	}
	if strings.Contains(strings.ToLower(string(v.Mantra)), term) {
		return true
	}
	for _, m := range v.FamilyMembers {
		if strings.Contains(strings.ToLower(m.Name), term) {
			return true
		}
		if strings.Contains(strings.ToLower(string(m.Mantra)), term) {
			return true
		}
	}
	return false
}

// matchesDate checks the visit date against the selected trailing
// window. Windows are anchored to local midnight: "today" is everything
// since midnight, "yesterday" the half-open day before it, and
// week/month/year are trailing spans ending now. Visits without a
// parseable date never match an active window.
func matchesDate(v *Visit, f DateFilter, now time.Time) bool {
	if f == "" || f == DateAll {
		return true
	}

	d, err := time.ParseInLocation("2006-01-02", v.Date, now.Location())
	if err != nil {
		return false
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch f {
	case DateToday:
		return !d.Before(midnight)
	case DateYesterday:
		yesterday := midnight.AddDate(0, 0, -1)
		return !d.Before(yesterday) && d.Before(midnight)
	case DateWeek:
		return !d.Before(midnight.AddDate(0, 0, -7))
	case DateMonth:
		return !d.Before(midnight.AddDate(0, -1, 0))
	case DateYear:
		return !d.Before(midnight.AddDate(-1, 0, 0))
	default:
		return true
	}
}

// sortVisits orders the slice in place. Missing dates sort as the Unix
// epoch; missing places sort as the empty string.
func sortVisits(visits []*Visit, by SortOrder) {
	sort.SliceStable(visits, func(i, j int) bool {
		switch by {
		case SortOldest:
			return sortDate(visits[i]).Before(sortDate(visits[j]))
		case SortNameAsc:
			return visits[i].Place < visits[j].Place
		case SortNameDesc:
			return visits[i].Place > visits[j].Place
		default: // newest
			return sortDate(visits[j]).Before(sortDate(visits[i]))
		}
	})
}

func sortDate(v *Visit) time.Time {
	d, err := time.ParseInLocation("2006-01-02", v.Date, time.Local)
	if err != nil {
		return time.Unix(0, 0)
	}
	return d
}
