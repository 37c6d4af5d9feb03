package view

import (
	"errors"
	"testing"

	"github.com/mamadbah2/inventory-portal/internal/domain/models"
)

func TestIndex_LastWriteWins(t *testing.T) {
	users := []models.User{
		{ID: "u1", Name: "First"},
		{ID: "u2", Name: "Other"},
		{ID: "u1", Name: "Second"},
	}

	idx := Index(users, func(u models.User) string { return u.ID })
	if len(idx) != 2 {
		t.Fatalf("want 2 entries, got %d", len(idx))
	}
	if idx["u1"].Name != "Second" {
		t.Fatalf("want later duplicate to win, got %q", idx["u1"].Name)
	}
}

func TestEnrich_FallbacksOnMissingReferences(t *testing.T) {
	users := Index([]models.User{{ID: "u1", Name: "Rahim", Role: models.RoleStaff}}, func(u models.User) string { return u.ID })
	items := Index([]models.Item{{ID: "i1", Name: "Stapler"}}, func(i models.Item) string { return i.ID })

	rules := []Rule[models.DeadstockRecord, models.DeadstockRow]{
		{
			Resolve:  Ref(func(r models.DeadstockRecord) string { return r.UserID }, users, func(u models.User) string { return u.Name }),
			Fallback: models.UnknownUser,
			Set:      func(row *models.DeadstockRow, v string) { row.UserName = v },
		},
		{
			Resolve:  Ref(func(r models.DeadstockRecord) string { return r.ItemID }, items, func(i models.Item) string { return i.Name }),
			Fallback: models.UnknownItem,
			Set:      func(row *models.DeadstockRow, v string) { row.ItemName = v },
		},
	}

	cases := []struct {
		name     string
		rec      models.DeadstockRecord
		wantUser string
		wantItem string
	}{
		{"resolved", models.DeadstockRecord{UserID: "u1", ItemID: "i1"}, "Rahim", "Stapler"},
		{"user not loaded", models.DeadstockRecord{UserID: "ghost", ItemID: "i1"}, models.UnknownUser, "Stapler"},
		{"keys absent", models.DeadstockRecord{}, models.UnknownUser, models.UnknownItem},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := models.DeadstockRow{DeadstockRecord: tc.rec}
			Enrich(tc.rec, &row, rules...)
			if row.UserName != tc.wantUser || row.ItemName != tc.wantItem {
				t.Fatalf("want %q/%q, got %q/%q", tc.wantUser, tc.wantItem, row.UserName, row.ItemName)
			}
		})
	}
}

func TestEnrich_PanickingResolverFallsBack(t *testing.T) {
	var nilIdx map[string]*models.User
	rule := Rule[string, string]{
		Resolve: FirstOf(
			Ref(func(s string) string { return s }, nilIdx, func(u *models.User) string { return u.Name }),
			func(string) (string, bool) { panic("boom") },
		),
		Fallback: models.NotAvailable,
		Set:      func(row *string, v string) { *row = v },
	}

	var out string
	Enrich("x", &out, rule)
	if out != models.NotAvailable {
		t.Fatalf("want fallback, got %q", out)
	}
}

func TestFirstOf_UsesFirstHit(t *testing.T) {
	resolve := FirstOf(
		Field(func(s string) string { return "" }),
		Field(func(s string) string { return s + "-b" }),
		Field(func(s string) string { return s + "-c" }),
	)
	got, ok := resolve("a")
	if !ok || got != "a-b" {
		t.Fatalf("want a-b, got %q (%v)", got, ok)
	}
}

type row struct {
	name   string
	reason string
	role   string
}

var deadstockFilter = Filter[row]{
	Search: []func(row) string{
		func(r row) string { return r.name },
		func(r row) string { return r.reason },
	},
	Facets: []Facet[row]{
		{Name: "reason", All: "All Reasons", Value: func(r row) string { return r.reason }},
		{Name: "role", All: "All Roles", Value: func(r row) string { return r.role }},
	},
}

var rows = []row{
	{"Projector", "Damaged", "staff"},
	{"Pen drive", "Lost", "teacher"},
	{"Printer", "Damaged", "teacher"},
	{"Chair", "Broken", "staff"},
}

func TestFilter_SearchIsCaseInsensitiveSubset(t *testing.T) {
	got := deadstockFilter.Apply(rows, Query{Search: "PR"})
	if len(got) != 2 || got[0].name != "Projector" || got[1].name != "Printer" {
		t.Fatalf("unexpected result %+v", got)
	}

	got = deadstockFilter.Apply(rows, Query{Search: "lost"})
	if len(got) != 1 || got[0].name != "Pen drive" {
		t.Fatalf("reason field should be searched, got %+v", got)
	}
}

func TestFilter_SentinelAndEmptySelectionBypass(t *testing.T) {
	for _, sel := range []string{"All Reasons", ""} {
		got := deadstockFilter.Apply(rows, Query{Selections: map[string]string{"reason": sel}})
		if len(got) != len(rows) {
			t.Fatalf("selection %q should not filter, got %d rows", sel, len(got))
		}
	}
}

func TestFilter_CombinedEqualsIntersection(t *testing.T) {
	search := Query{Search: "p"}
	facet := Query{Selections: map[string]string{"reason": "Damaged", "role": "teacher"}}
	both := Query{Search: "p", Selections: facet.Selections}

	combined := deadstockFilter.Apply(rows, both)
	sequential := deadstockFilter.Apply(deadstockFilter.Apply(rows, facet), search)
	reversed := deadstockFilter.Apply(deadstockFilter.Apply(rows, search), facet)

	if len(combined) != 1 || combined[0].name != "Printer" {
		t.Fatalf("unexpected combined result %+v", combined)
	}
	if len(sequential) != len(combined) || len(reversed) != len(combined) {
		t.Fatalf("filters should commute: %d/%d/%d", len(combined), len(sequential), len(reversed))
	}
}

func TestFilter_OptionsFirstSeenOrder(t *testing.T) {
	opts := deadstockFilter.Options(rows)
	want := []string{"All Reasons", "Damaged", "Lost", "Broken"}
	got := opts["reason"]
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
}

func TestList_StateMachine(t *testing.T) {
	l := NewList(func(r row) string { return r.name })
	if l.State() != ListIdle {
		t.Fatalf("new list should be idle, got %s", l.State())
	}
	if l.Insert(row{name: "x"}) {
		t.Fatal("insert should be ignored before load")
	}
	if !l.BeginLoad() {
		t.Fatal("first load should start")
	}
	if l.BeginLoad() {
		t.Fatal("concurrent load should be rejected")
	}

	l.Loaded(rows)
	if !l.Insert(row{name: "Desk"}) {
		t.Fatal("insert should apply to loaded list")
	}
	if !l.Remove("Chair") || l.Remove("Chair") {
		t.Fatal("remove should match exactly once")
	}

	snap := l.Snapshot()
	if snap.State != ListLoaded || len(snap.Rows) != 4 || snap.Rows[0].name != "Desk" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	l.BeginLoad()
	l.Failed(errors.New("backend down"))
	snap = l.Snapshot()
	if snap.State != ListError || snap.Error != "backend down" || len(snap.Rows) != 0 {
		t.Fatalf("unexpected error snapshot %+v", snap)
	}

	l.BeginLoad()
	l.Failed(nil)
	if snap = l.Snapshot(); snap.State != ListError || snap.Error != "" {
		t.Fatalf("want previous error message cleared, got %+v", snap)
	}
}
