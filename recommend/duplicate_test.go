package recommend

import (
	"testing"
	"time"

	"github.com/styleit-app/styleit-backend/models"
)

func TestIdentitySet(t *testing.T) {
	tests := []struct {
		name     string
		in       []string
		expected []string
	}{
		{"sorted and deduped", []string{"c", "a", "b", "a"}, []string{"a", "b", "c"}},
		{"blanks dropped", []string{"", "b", ""}, []string{"b"}},
		{"all blanks", []string{"", ""}, nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IdentitySet(tt.in)
			if len(got) != len(tt.expected) {
				t.Fatalf("IdentitySet(%v) = %v, want %v", tt.in, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("IdentitySet(%v) = %v, want %v", tt.in, got, tt.expected)
				}
			}
		})
	}
}

func TestFindExactMatchAnyOrder(t *testing.T) {
	saved := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	records := []Record{{
		ID:      "outfit-1",
		ItemIDs: []string{"itemA", "itemB", "itemC"},
		Date:    saved,
		Action:  ActionSaved,
	}}

	detector := NewDetector(0)
	detector.now = func() time.Time { return time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC) }

	// Order of the candidate never changes the verdict.
	orders := [][]string{
		{"itemA", "itemB", "itemC"},
		{"itemC", "itemB", "itemA"},
		{"itemB", "itemA", "itemC"},
	}
	for _, candidate := range orders {
		w := detector.Find(candidate, records, "")
		if w == nil || !w.IsDuplicate {
			t.Fatalf("Find(%v) missed the duplicate", candidate)
		}
		if !w.Date.Equal(saved) {
			t.Errorf("warning date = %v, want %v", w.Date, saved)
		}
		if w.DaysAgo != 7 {
			t.Errorf("daysAgo = %d, want 7", w.DaysAgo)
		}
	}
}

func TestFindSubsetIsNotDuplicate(t *testing.T) {
	records := []Record{{
		ID:      "outfit-1",
		ItemIDs: []string{"itemA", "itemB", "itemC"},
		Date:    time.Now(),
		Action:  ActionSaved,
	}}

	detector := NewDetector(0)
	if w := detector.Find([]string{"itemA", "itemB"}, records, ""); w != nil {
		t.Errorf("subset flagged as duplicate: %+v", w)
	}
	if w := detector.Find([]string{"itemA", "itemB", "itemC", "itemD"}, records, ""); w != nil {
		t.Errorf("superset flagged as duplicate: %+v", w)
	}
}

func TestFindSkipsExcludedRecord(t *testing.T) {
	records := []Record{{
		ID:      "plan-1",
		ItemIDs: []string{"itemA", "itemB"},
		Date:    time.Now(),
		Action:  ActionPlanned,
	}}

	detector := NewDetector(0)
	if w := detector.Find([]string{"itemA", "itemB"}, records, "plan-1"); w != nil {
		t.Errorf("record matched against itself despite exclusion: %+v", w)
	}
	if w := detector.Find([]string{"itemA", "itemB"}, records, "other"); w == nil {
		t.Error("exclusion of an unrelated id suppressed the match")
	}
}

func TestFindEmptySetsNeverMatch(t *testing.T) {
	records := []Record{
		{ID: "empty", ItemIDs: nil, Date: time.Now(), Action: ActionSaved},
		{ID: "idless", ItemIDs: []string{"", ""}, Date: time.Now(), Action: ActionSaved},
	}

	detector := NewDetector(0)
	if w := detector.Find(nil, records, ""); w != nil {
		t.Errorf("empty candidate matched: %+v", w)
	}
	if w := detector.Find([]string{""}, records, ""); w != nil {
		t.Errorf("id-less candidate matched: %+v", w)
	}
}

func TestFindMissingIDsExcludedFromIdentity(t *testing.T) {
	records := []Record{{
		ID:      "outfit-1",
		ItemIDs: []string{"itemA", ""},
		Date:    time.Now(),
		Action:  ActionSaved,
	}}

	detector := NewDetector(0)
	// The blank id drops out of both sides, so {itemA} matches {itemA, ""}.
	if w := detector.Find([]string{"itemA"}, records, ""); w == nil {
		t.Error("expected match after blank ids were dropped")
	}
}

func TestFindWindowRestrictsOldRecords(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []Record{{
		ID:      "outfit-1",
		ItemIDs: []string{"itemA"},
		Date:    now.AddDate(0, 0, -30),
		Action:  ActionSaved,
	}}

	detector := NewDetector(7)
	detector.now = func() time.Time { return now }
	if w := detector.Find([]string{"itemA"}, records, ""); w != nil {
		t.Errorf("record outside the window matched: %+v", w)
	}

	unbounded := NewDetector(0)
	unbounded.now = func() time.Time { return now }
	if w := unbounded.Find([]string{"itemA"}, records, ""); w == nil {
		t.Error("unbounded detector missed an old duplicate")
	}
}

func TestFindPlannedMessageUsesPlanDate(t *testing.T) {
	planDate := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	records := []Record{{
		ID:      "plan-1",
		ItemIDs: []string{"itemA", "itemB"},
		Date:    planDate,
		Action:  ActionPlanned,
	}}

	detector := NewDetector(0)
	w := detector.Find([]string{"itemB", "itemA"}, records, "")
	if w == nil {
		t.Fatal("expected duplicate warning")
	}
	if w.Message != "This outfit is already planned for Jun 15, 2024." {
		t.Errorf("unexpected message: %q", w.Message)
	}
}

func TestFindFutureDatedPlanClampsDaysAgo(t *testing.T) {
	records := []Record{{
		ID:      "plan-1",
		ItemIDs: []string{"itemA", "itemB"},
		Date:    time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC),
		Action:  ActionPlanned,
	}}

	detector := NewDetector(0)
	detector.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	w := detector.Find([]string{"itemA", "itemB"}, records, "")
	if w == nil {
		t.Fatal("expected duplicate warning")
	}
	if w.DaysAgo != 0 {
		t.Errorf("daysAgo = %d for a future plan, want 0", w.DaysAgo)
	}
}

func TestRecordsFromOutfitsPrefersWornDate(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	worn := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	outfits := []models.Outfit{
		{Items: []models.OutfitItem{{ItemID: "a"}}, CreatedAt: created},
		{Items: []models.OutfitItem{{ItemID: "b"}}, CreatedAt: created, LastWorn: &worn},
	}
	records := RecordsFromOutfits(outfits)

	if records[0].Action != ActionSaved || !records[0].Date.Equal(created) {
		t.Errorf("unworn outfit record wrong: %+v", records[0])
	}
	if records[1].Action != ActionWorn || !records[1].Date.Equal(worn) {
		t.Errorf("worn outfit record wrong: %+v", records[1])
	}
}
