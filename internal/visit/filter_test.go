package visit

import (
	"testing"
	"time"
)

func testVisits() []*Visit {
	custom := "Naam Diksha"
	return []*Visit{
		{
			ID:        "v1",
			VisitType: Individual,
			Place:     "Badri Ashram",
			Date:      "2024-01-05",
			Mantra:    Satnam,
			Purpose:   Seva,
			CreatedAt: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:            "v2",
			VisitType:     Family,
			Place:         "Ganga Satsang Bhavan",
			Date:          "2024-03-01",
			Mantra:        Saarnam,
			Purpose:       PurposeOther,
			CustomPurpose: &custom,
			FamilyMembers: []FamilyMember{
				{Name: "Ramesh", Relationship: Spouse, Mantra: PrathamNam},
			},
			CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "v3",
			VisitType: Individual,
			Place:     "Ashram Hall",
			Date:      "2023-12-20",
			Mantra:    PrathamNam,
			Purpose:   Darshan,
			CreatedAt: time.Date(2023, 12, 20, 10, 0, 0, 0, time.UTC),
		},
	}
}

func ids(visits []*Visit) []string {
	out := make([]string, len(visits))
	for i, v := range visits {
		out[i] = v.ID
	}
	return out
}

func assertOrder(t *testing.T, got []*Visit, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d visits %v, want %d", len(got), ids(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func TestFilterDefaultCriteria(t *testing.T) {
	visits := testVisits()
	got := Filter(visits, DefaultCriteria())

	assertOrder(t, got, "v2", "v1", "v3")

	// The input slice is never reordered.
	if visits[0].ID != "v1" || visits[2].ID != "v3" {
		t.Errorf("input mutated: %v", ids(visits))
	}
}

func TestFilterSearch(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{"place substring", "ganga", []string{"v2"}},
		{"place common word", "ashram", []string{"v1", "v3"}},
		{"custom purpose", "naam diksha", []string{"v2"}},
		{"fixed purpose", "darshan", []string{"v3"}},
		{"visit type", "family", []string{"v2"}},
		{"mantra", "satnam", []string{"v1"}},
		{"member name", "ramesh", []string{"v2"}},
		{"member mantra", "pratham", []string{"v2", "v3"}},
		{"no match", "zzz", nil},
		{"whitespace only", "   ", []string{"v2", "v1", "v3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCriteria()
			c.SearchTerm = tt.term
			assertOrder(t, Filter(testVisits(), c), tt.want...)
		})
	}
}

func TestFilterVisitType(t *testing.T) {
	c := DefaultCriteria()
	c.VisitType = string(Family)
	got := Filter(testVisits(), c)
	assertOrder(t, got, "v2")

	c.VisitType = string(Individual)
	got = Filter(testVisits(), c)
	assertOrder(t, got, "v1", "v3")
}

func TestFilterDateWindows(t *testing.T) {
	now := time.Date(2024, 3, 2, 15, 30, 0, 0, time.UTC)
	visits := []*Visit{
		{ID: "today", Date: "2024-03-02"},
		{ID: "yesterday", Date: "2024-03-01"},
		{ID: "lastweek", Date: "2024-02-26"},
		{ID: "lastmonth", Date: "2024-02-10"},
		{ID: "lastyear", Date: "2023-06-01"},
		{ID: "ancient", Date: "2022-01-01"},
		{ID: "garbled", Date: "not-a-date"},
	}

	tests := []struct {
		filter DateFilter
		want   []string
	}{
		{DateAll, []string{"today", "yesterday", "lastweek", "lastmonth", "lastyear", "ancient", "garbled"}},
		{DateToday, []string{"today"}},
		{DateYesterday, []string{"yesterday"}},
		{DateWeek, []string{"today", "yesterday", "lastweek"}},
		{DateMonth, []string{"today", "yesterday", "lastweek", "lastmonth"}},
		{DateYear, []string{"today", "yesterday", "lastweek", "lastmonth", "lastyear"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			c := DefaultCriteria()
			c.DateFilter = tt.filter

			got := filterAt(visits, c, now)
			assertOrder(t, got, tt.want...)
		})
	}
}

func TestFilterSortOrders(t *testing.T) {
	tests := []struct {
		sort SortOrder
		want []string
	}{
		{SortNewest, []string{"v2", "v1", "v3"}},
		{SortOldest, []string{"v3", "v1", "v2"}},
		{SortNameAsc, []string{"v3", "v1", "v2"}},
		{SortNameDesc, []string{"v2", "v1", "v3"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			c := DefaultCriteria()
			c.SortBy = tt.sort
			assertOrder(t, Filter(testVisits(), c), tt.want...)
		})
	}
}

func TestFilterCombined(t *testing.T) {
	c := DefaultCriteria()
	c.SearchTerm = "ashram"
	c.VisitType = string(Individual)
	c.SortBy = SortOldest

	got := Filter(testVisits(), c)
	assertOrder(t, got, "v3", "v1")
}

func TestFilterUnparseableDateSortsLast(t *testing.T) {
	visits := []*Visit{
		{ID: "good", Date: "2024-01-01"},
		{ID: "bad", Date: "garbled"},
	}

	c := DefaultCriteria()
	got := Filter(visits, c)
	assertOrder(t, got, "good", "bad")
}
