package recommend

import (
	"strings"

	"github.com/styleit-app/styleit-backend/models"
)

// OccasionRandom bypasses occasion filtering entirely and composes from the
// full wardrobe.
const OccasionRandom = "random"

// NormalizeTags flattens an item's occasion tags into lowercase trimmed
// tokens. Tags written as comma-joined strings ("casual, work") are split so
// a sloppy tagger never hides a match.
func NormalizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		for _, part := range strings.Split(tag, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// OccasionFilter narrows slot pools to items matching a requested occasion.
type OccasionFilter struct {
	occasions []models.Occasion
}

func NewOccasionFilter(tax Taxonomy) OccasionFilter {
	return OccasionFilter{occasions: tax.Occasions}
}

// matchTerms returns every term that counts as a hit for the occasion: the
// request itself, plus the configured occasion's id, label and keywords when
// the taxonomy knows it.
func (f OccasionFilter) matchTerms(occasion string) map[string]struct{} {
	terms := map[string]struct{}{strings.ToLower(strings.TrimSpace(occasion)): {}}
	for _, occ := range f.occasions {
		if !strings.EqualFold(occ.ID, occasion) && !strings.EqualFold(occ.Label, occasion) {
			continue
		}
		terms[strings.ToLower(occ.ID)] = struct{}{}
		terms[strings.ToLower(occ.Label)] = struct{}{}
		for _, k := range occ.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				terms[k] = struct{}{}
			}
		}
	}
	delete(terms, "")
	return terms
}

// Matches reports whether a single item is tagged for the occasion.
func (f OccasionFilter) Matches(item models.WardrobeItem, occasion string) bool {
	if strings.EqualFold(occasion, OccasionRandom) {
		return true
	}
	terms := f.matchTerms(occasion)
	for _, tag := range NormalizeTags(item.OccasionTags) {
		if _, ok := terms[tag]; ok {
			return true
		}
	}
	return false
}

// Filter narrows one slot's pool to occasion-matching items. When filtering
// would leave the slot empty it falls back to the unfiltered pool for that
// slot only, so one missing tag does not make a whole outfit impossible; the
// second return value reports that the fallback was taken.
func (f OccasionFilter) Filter(pool []models.WardrobeItem, occasion string) ([]models.WardrobeItem, bool) {
	if strings.EqualFold(occasion, OccasionRandom) {
		return pool, false
	}

	terms := f.matchTerms(occasion)
	var filtered []models.WardrobeItem
	for _, item := range pool {
		for _, tag := range NormalizeTags(item.OccasionTags) {
			if _, ok := terms[tag]; ok {
				filtered = append(filtered, item)
				break
			}
		}
	}

	if len(filtered) == 0 && len(pool) > 0 {
		return pool, true
	}
	return filtered, false
}
