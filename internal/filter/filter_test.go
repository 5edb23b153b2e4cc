package filter

import (
	"testing"
	"time"
)

type item struct {
	name        string
	description string
	status      string
	itemType    string
	updatedAt   time.Time
}

func project(i item) Fields {
	return Fields{
		Name:        i.name,
		Description: i.description,
		Type:        i.itemType,
		Status:      i.status,
		UpdatedAt:   i.updatedAt,
	}
}

func day(offset int) time.Time {
	return time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func sample() []item {
	return []item{
		{name: "Irrigation Dakar", description: "Water network", status: "active", itemType: "development", updatedAt: day(0)},
		{name: "Site redesign", description: "New branding for Dakar office", status: "completed", itemType: "design", updatedAt: day(-3)},
		{name: "Market study", description: "Regional analysis", status: "active", itemType: "research", updatedAt: day(-1)},
		{name: "Ad campaign", description: "Radio spots", status: "on-hold", itemType: "marketing", updatedAt: day(-7)},
	}
}

func names(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func TestApplyDefaultsKeepEverything(t *testing.T) {
	items := sample()
	got := Apply(items, project, Defaults())
	if len(got) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(got))
	}
}

func TestApplySearchMatchesNameOrDescription(t *testing.T) {
	opts := Defaults()
	opts.Search = "dakar"

	got := Apply(sample(), project, opts)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(got), names(got))
	}
	// One matched on name, the other on description only
	for _, it := range got {
		if it.name != "Irrigation Dakar" && it.name != "Site redesign" {
			t.Errorf("unexpected match %q", it.name)
		}
	}
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	opts := Defaults()
	opts.Search = "MARKET"

	got := Apply(sample(), project, opts)
	if len(got) != 1 || got[0].name != "Market study" {
		t.Fatalf("expected Market study, got %v", names(got))
	}
}

func TestApplyStatusAndTypeEquality(t *testing.T) {
	opts := Defaults()
	opts.Status = "active"

	got := Apply(sample(), project, opts)
	if len(got) != 2 {
		t.Fatalf("status filter: expected 2, got %d", len(got))
	}

	opts.Type = "research"
	got = Apply(sample(), project, opts)
	if len(got) != 1 || got[0].name != "Market study" {
		t.Fatalf("combined filter: expected Market study, got %v", names(got))
	}
}

func TestApplyAllSentinelDisablesEnumFilters(t *testing.T) {
	opts := Defaults()
	opts.Status = All
	opts.Type = All

	got := Apply(sample(), project, opts)
	if len(got) != 4 {
		t.Fatalf("expected all 4 items, got %d", len(got))
	}
}

func TestApplyDateIgnoresTimeOfDay(t *testing.T) {
	// The filter date is at midnight, items carry 09:30. Same calendar
	// day must still match.
	picked := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	opts := Defaults()
	opts.Date = &picked

	got := Apply(sample(), project, opts)
	if len(got) != 1 || got[0].name != "Irrigation Dakar" {
		t.Fatalf("expected Irrigation Dakar, got %v", names(got))
	}
}

func TestApplySortNewestAndOldest(t *testing.T) {
	opts := Defaults()
	opts.Sort = SortNewest

	got := Apply(sample(), project, opts)
	if got[0].name != "Irrigation Dakar" || got[len(got)-1].name != "Ad campaign" {
		t.Fatalf("newest order wrong: %v", names(got))
	}

	opts.Sort = SortOldest
	got = Apply(sample(), project, opts)
	if got[0].name != "Ad campaign" || got[len(got)-1].name != "Irrigation Dakar" {
		t.Fatalf("oldest order wrong: %v", names(got))
	}
}

func TestApplySortAlphabeticalIgnoresCaseAndAccents(t *testing.T) {
	items := []item{
		{name: "zèbre"},
		{name: "Éclair"},
		{name: "abri"},
	}
	opts := Defaults()
	opts.Sort = SortAlphabetical

	got := Apply(items, project, opts)
	want := []string{"abri", "Éclair", "zèbre"}
	for i, name := range want {
		if got[i].name != name {
			t.Fatalf("alphabetical order wrong at %d: %v", i, names(got))
		}
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	items := sample()
	first := items[0].name

	opts := Defaults()
	opts.Sort = SortOldest
	Apply(items, project, opts)

	if items[0].name != first {
		t.Fatalf("input slice was reordered, first item now %q", items[0].name)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	opts := Defaults()
	opts.Search = "a"
	opts.Sort = SortAlphabetical

	once := Apply(sample(), project, opts)
	twice := Apply(once, project, opts)

	if len(once) != len(twice) {
		t.Fatalf("length changed on second apply: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].name != twice[i].name {
			t.Fatalf("order changed on second apply at %d", i)
		}
	}
}

func TestOptionsActive(t *testing.T) {
	if Defaults().Active() {
		t.Fatal("defaults must not count as active")
	}

	opts := Defaults()
	opts.Search = "x"
	if !opts.Active() {
		t.Fatal("search must count as active")
	}

	opts = Defaults()
	opts.Status = "active"
	if !opts.Active() {
		t.Fatal("status must count as active")
	}

	opts = Defaults()
	d := day(0)
	opts.Date = &d
	if !opts.Active() {
		t.Fatal("date must count as active")
	}
}
