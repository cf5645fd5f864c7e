package recommend

import (
	"fmt"
	"sort"
	"time"

	"github.com/styleit-app/styleit-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record actions describe how an existing outfit relates to its date, for the
// duplicate warning message.
const (
	ActionSaved   = "saved"
	ActionWorn    = "worn"
	ActionPlanned = "planned"
)

// Record is an existing saved or planned outfit reduced to what duplicate
// detection needs: its identity set and when it was saved, worn or planned.
type Record struct {
	ID      string
	ItemIDs []string
	Date    time.Time
	Action  string
}

// Warning is the duplicate verdict surfaced to clients. Saving is never
// blocked; the warning just tells the user they already have this outfit.
type Warning struct {
	IsDuplicate bool      `json:"isDuplicate"`
	Message     string    `json:"message"`
	DaysAgo     int       `json:"daysAgo"`
	Date        time.Time `json:"date"`
}

// IdentitySet normalizes a list of item ids into the canonical identity set:
// blanks dropped, duplicates removed, sorted. Two outfits are the same outfit
// exactly when their identity sets are equal.
func IdentitySet(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// OutfitItemIDs extracts source item ids from denormalized outfit items.
// Items saved without a back-reference are skipped; an outfit made entirely
// of id-less items can never be flagged as a duplicate.
func OutfitItemIDs(items []models.OutfitItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ItemID)
	}
	return ids
}

// WardrobeItemIDs extracts ids from live wardrobe items.
func WardrobeItemIDs(items []models.WardrobeItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.ID != primitive.NilObjectID {
			ids = append(ids, it.ID.Hex())
		}
	}
	return ids
}

// RecordsFromOutfits reduces saved outfits to duplicate-detection records.
// The worn date takes precedence over the saved date when present.
func RecordsFromOutfits(outfits []models.Outfit) []Record {
	records := make([]Record, 0, len(outfits))
	for _, o := range outfits {
		rec := Record{
			ID:      o.ID.Hex(),
			ItemIDs: OutfitItemIDs(o.Items),
			Date:    o.CreatedAt,
			Action:  ActionSaved,
		}
		if o.LastWorn != nil {
			rec.Date = *o.LastWorn
			rec.Action = ActionWorn
		}
		records = append(records, rec)
	}
	return records
}

// RecordsFromPlans reduces planned outfits to duplicate-detection records
// keyed by their calendar date.
func RecordsFromPlans(plans []models.PlannedOutfit) []Record {
	records := make([]Record, 0, len(plans))
	for _, p := range plans {
		records = append(records, Record{
			ID:      p.ID.Hex(),
			ItemIDs: OutfitItemIDs(p.Items),
			Date:    p.Date,
			Action:  ActionPlanned,
		})
	}
	return records
}

// Detector checks a candidate outfit against existing records by exact
// identity-set equality. WindowDays > 0 restricts the comparison to records
// dated within that many days; zero compares against everything.
type Detector struct {
	WindowDays int

	now func() time.Time
}

func NewDetector(windowDays int) *Detector {
	return &Detector{WindowDays: windowDays, now: time.Now}
}

// Find returns a warning for the first record whose identity set exactly
// equals the candidate's, or nil. Order of the candidate's items never
// changes the verdict. The record identified by excludeID is skipped, so
// re-saving a plan onto a new date does not collide with itself.
func (d *Detector) Find(candidateIDs []string, records []Record, excludeID string) *Warning {
	candidate := IdentitySet(candidateIDs)
	if len(candidate) == 0 {
		return nil
	}

	now := d.now()
	for _, rec := range records {
		if excludeID != "" && rec.ID == excludeID {
			continue
		}
		if d.WindowDays > 0 && rec.Date.Before(now.AddDate(0, 0, -d.WindowDays)) {
			continue
		}
		if !equalSets(candidate, IdentitySet(rec.ItemIDs)) {
			continue
		}

		// Future-dated plans would otherwise yield a negative age.
		daysAgo := int(now.Sub(rec.Date).Hours() / 24)
		if daysAgo < 0 {
			daysAgo = 0
		}
		w := &Warning{IsDuplicate: true, DaysAgo: daysAgo, Date: rec.Date}
		if rec.Action == ActionPlanned {
			w.Message = fmt.Sprintf("This outfit is already planned for %s.", rec.Date.Format("Jan 2, 2006"))
		} else {
			w.Message = fmt.Sprintf("This outfit was %s %d day(s) ago (%s).", rec.Action, daysAgo, rec.Date.Format("Jan 2, 2006"))
		}
		return w
	}
	return nil
}

func equalSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
