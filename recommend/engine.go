package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/styleit-app/styleit-backend/models"
	"go.uber.org/zap"
)

// Catalog reads a user's wardrobe and outfit data. The engine only ever
// reads; persistence of a chosen outfit is the caller's business.
type Catalog interface {
	ListWardrobeItems(ctx context.Context, userID string) ([]models.WardrobeItem, error)
	ListOutfits(ctx context.Context, userID string) ([]models.Outfit, error)
	ListPlannedOutfits(ctx context.Context, userID string) ([]models.PlannedOutfit, error)
}

// TaxonomyProvider supplies the current category/occasion configuration.
type TaxonomyProvider interface {
	Taxonomy(ctx context.Context) (Taxonomy, error)
}

// OutfitPayload is the recommended outfit as it appears on the wire: one item
// per singleton slot (null when the slot is empty) plus an accessories list.
type OutfitPayload struct {
	Top         *models.WardrobeItem  `json:"top"`
	Bottom      *models.WardrobeItem  `json:"bottom"`
	Shoes       *models.WardrobeItem  `json:"shoes"`
	Outerwear   *models.WardrobeItem  `json:"outerwear"`
	Accessories []models.WardrobeItem `json:"accessories"`
}

// Result is the engine's response contract. A nil RecommendedOutfit together
// with a Message signals "no suitable outfit"; that is an answer, not an
// error.
type Result struct {
	Occasion          string         `json:"occasion"`
	RecommendedOutfit *OutfitPayload `json:"recommendedOutfit"`
	StylingTips       string         `json:"stylingTips,omitempty"`
	Confidence        float64        `json:"confidence,omitempty"`
	DuplicateWarning  *Warning       `json:"duplicateWarning,omitempty"`
	Message           string         `json:"message,omitempty"`
	AvailableItems    *SlotCounts    `json:"availableItems,omitempty"`
	FallbackSlots     []Slot         `json:"fallbackSlots,omitempty"`
}

// Engine sequences snapshot, classification, occasion filtering, composition
// and duplicate detection into one recommendation. It holds no state between
// calls: every invocation is a fresh computation over the latest snapshot.
type Engine struct {
	catalog    Catalog
	taxonomies TaxonomyProvider
	tips       TipWriter
	composer   *Composer
	detector   *Detector
	logger     *zap.Logger
}

func NewEngine(catalog Catalog, taxonomies TaxonomyProvider, tips TipWriter, composer *Composer, detector *Detector, logger *zap.Logger) *Engine {
	if tips == nil {
		tips = TemplateTips{}
	}
	if composer == nil {
		composer = NewComposer(nil)
	}
	if detector == nil {
		detector = NewDetector(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		catalog:    catalog,
		taxonomies: taxonomies,
		tips:       tips,
		composer:   composer,
		detector:   detector,
		logger:     logger,
	}
}

// Recommend composes an outfit for the occasion from the user's current
// wardrobe. Storage is never mutated; saving the result is a separate,
// explicit call by the client.
func (e *Engine) Recommend(ctx context.Context, userID, occasion string) (*Result, error) {
	occasion = strings.TrimSpace(occasion)
	if occasion == "" {
		return nil, errors.New("occasion is required")
	}

	tax, err := e.taxonomies.Taxonomy(ctx)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	items, err := e.catalog.ListWardrobeItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wardrobe items: %w", err)
	}

	random := strings.EqualFold(occasion, OccasionRandom)
	if len(items) == 0 {
		msg := fmt.Sprintf("No items found for %s occasion. Try uploading more items or selecting a different occasion.", occasion)
		if random {
			msg = "No items found in your wardrobe. Try uploading some items first!"
		}
		return &Result{Occasion: occasion, Message: msg}, nil
	}

	classifier := NewClassifier()
	var pools Pools
	for _, item := range items {
		switch classifier.Classify(item) {
		case SlotTop:
			pools.Tops = append(pools.Tops, item)
		case SlotBottom:
			pools.Bottoms = append(pools.Bottoms, item)
		case SlotShoes:
			pools.Shoes = append(pools.Shoes, item)
		case SlotOuterwear:
			pools.Outerwear = append(pools.Outerwear, item)
		case SlotAccessory:
			pools.Accessories = append(pools.Accessories, item)
		}
	}

	filter := NewOccasionFilter(tax)
	var fallbackSlots []Slot
	filterSlot := func(slot Slot, pool []models.WardrobeItem) []models.WardrobeItem {
		filtered, fellBack := filter.Filter(pool, occasion)
		if fellBack {
			fallbackSlots = append(fallbackSlots, slot)
		}
		return filtered
	}
	filtered := Pools{
		Tops:        filterSlot(SlotTop, pools.Tops),
		Bottoms:     filterSlot(SlotBottom, pools.Bottoms),
		Shoes:       filterSlot(SlotShoes, pools.Shoes),
		Outerwear:   filterSlot(SlotOuterwear, pools.Outerwear),
		Accessories: filterSlot(SlotAccessory, pools.Accessories),
	}

	comp, err := e.composer.Compose(filtered, occasion)
	if err != nil {
		var noOutfit *NoOutfitError
		if errors.As(err, &noOutfit) {
			counts := noOutfit.Counts
			e.logger.Info("no suitable outfit",
				zap.String("user", userID),
				zap.String("occasion", occasion),
				zap.Int("tops", counts.Tops),
				zap.Int("bottoms", counts.Bottoms),
				zap.Int("shoes", counts.Shoes))
			return &Result{
				Occasion:       occasion,
				Message:        capitalize(noOutfit.Error()) + ".",
				AvailableItems: &counts,
			}, nil
		}
		return nil, err
	}

	warning, err := e.duplicateWarning(ctx, userID, WardrobeItemIDs(comp.Items()), "")
	if err != nil {
		return nil, err
	}

	tips, err := e.tips.StylingTips(ctx, occasion, comp)
	if err != nil {
		// Tips are garnish; fall back to the template rather than failing
		// the whole recommendation.
		e.logger.Warn("styling tips generation failed", zap.Error(err))
		tips, _ = TemplateTips{}.StylingTips(ctx, occasion, comp)
	}

	counts := filtered.Counts()
	return &Result{
		Occasion: occasion,
		RecommendedOutfit: &OutfitPayload{
			Top:         comp.Top,
			Bottom:      comp.Bottom,
			Shoes:       comp.Shoes,
			Outerwear:   comp.Outerwear,
			Accessories: comp.Accessories,
		},
		StylingTips:      tips,
		Confidence:       comp.Confidence(),
		DuplicateWarning: warning,
		AvailableItems:   &counts,
		FallbackSlots:    fallbackSlots,
	}, nil
}

// CheckDuplicate compares a candidate item set against all of the user's
// saved and planned outfits. excludeID skips the record being updated in
// place so it does not count as its own duplicate.
func (e *Engine) CheckDuplicate(ctx context.Context, userID string, itemIDs []string, excludeID string) (*Warning, error) {
	return e.duplicateWarning(ctx, userID, itemIDs, excludeID)
}

func (e *Engine) duplicateWarning(ctx context.Context, userID string, itemIDs []string, excludeID string) (*Warning, error) {
	if len(IdentitySet(itemIDs)) == 0 {
		return nil, nil
	}

	outfits, err := e.catalog.ListOutfits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}
	plans, err := e.catalog.ListPlannedOutfits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list planned outfits: %w", err)
	}

	records := append(RecordsFromOutfits(outfits), RecordsFromPlans(plans)...)
	return e.detector.Find(itemIDs, records, excludeID), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
