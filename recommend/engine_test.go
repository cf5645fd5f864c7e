package recommend

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/styleit-app/styleit-backend/models"
)

// fixtureTaxonomy mirrors the seeded defaults closely enough for the engine
// and its collaborators. Shared by the classifier and filter tests.
func fixtureTaxonomy() Taxonomy {
	return Taxonomy{
		Categories: []models.Category{
			{ID: "tops", Label: "Tops", Order: 1},
			{ID: "bottoms", Label: "Bottoms", Order: 2},
			{ID: "shoes", Label: "Shoes", Order: 3},
			{ID: "outerwear", Label: "Outerwear", Order: 4},
			{ID: "accessories", Label: "Accessories", Order: 5},
		},
		Occasions: []models.Occasion{
			{ID: "casual", Label: "Casual", Keywords: []string{"casual", "everyday", "relaxed"}},
			{ID: "formal", Label: "Formal", Keywords: []string{"formal", "gala", "black tie", "elegant"}},
			{ID: "work", Label: "Work", Keywords: []string{"work", "office", "business"}},
			{ID: "sporty", Label: "Sporty", Keywords: []string{"sporty", "athletic", "gym"}},
		},
	}
}

type fakeCatalog struct {
	items   []models.WardrobeItem
	outfits []models.Outfit
	plans   []models.PlannedOutfit
	tax     *Taxonomy
}

func (f *fakeCatalog) ListWardrobeItems(ctx context.Context, userID string) ([]models.WardrobeItem, error) {
	return f.items, nil
}

func (f *fakeCatalog) ListOutfits(ctx context.Context, userID string) ([]models.Outfit, error) {
	return f.outfits, nil
}

func (f *fakeCatalog) ListPlannedOutfits(ctx context.Context, userID string) ([]models.PlannedOutfit, error) {
	return f.plans, nil
}

func (f *fakeCatalog) Taxonomy(ctx context.Context) (Taxonomy, error) {
	if f.tax != nil {
		return *f.tax, nil
	}
	return fixtureTaxonomy(), nil
}

type failingTips struct{}

func (failingTips) StylingTips(ctx context.Context, occasion string, comp *Composition) (string, error) {
	return "", errors.New("model unavailable")
}

func newTestEngine(catalog *fakeCatalog, tips TipWriter) *Engine {
	composer := NewComposer(rand.New(rand.NewSource(1)))
	return NewEngine(catalog, catalog, tips, composer, NewDetector(0), nil)
}

func tagged(it models.WardrobeItem, tags ...string) models.WardrobeItem {
	it.OccasionTags = tags
	return it
}

func TestRecommendRequiresOccasion(t *testing.T) {
	engine := newTestEngine(&fakeCatalog{}, nil)
	if _, err := engine.Recommend(context.Background(), "user-1", "  "); err == nil {
		t.Fatal("expected error for blank occasion")
	}
}

func TestRecommendEmptyWardrobe(t *testing.T) {
	engine := newTestEngine(&fakeCatalog{}, nil)

	res, err := engine.Recommend(context.Background(), "user-1", "formal")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.RecommendedOutfit != nil {
		t.Error("empty wardrobe produced an outfit")
	}
	if res.Message == "" {
		t.Error("empty wardrobe should carry an explanatory message")
	}

	res, err = engine.Recommend(context.Background(), "user-1", "random")
	if err != nil {
		t.Fatalf("Recommend(random): %v", err)
	}
	if res.Message != "No items found in your wardrobe. Try uploading some items first!" {
		t.Errorf("unexpected random message: %q", res.Message)
	}
}

func TestRecommendComposesFromWardrobe(t *testing.T) {
	catalog := &fakeCatalog{items: []models.WardrobeItem{
		tagged(item("White Tee", "TOPS", 0.9), "casual"),
		tagged(item("Jeans", "BOTTOMS", 0.8), "casual"),
		tagged(item("Sneakers", "SHOES", 0.7), "casual"),
	}}
	engine := newTestEngine(catalog, nil)

	res, err := engine.Recommend(context.Background(), "user-1", "casual")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	outfit := res.RecommendedOutfit
	if outfit == nil {
		t.Fatalf("no outfit returned: %+v", res)
	}
	if outfit.Top == nil || outfit.Bottom == nil || outfit.Shoes == nil {
		t.Fatalf("required slot missing: %+v", outfit)
	}
	if outfit.Top.Name != "White Tee" || outfit.Bottom.Name != "Jeans" || outfit.Shoes.Name != "Sneakers" {
		t.Errorf("slots filled with wrong items: %+v", outfit)
	}

	want := (0.9 + 0.8 + 0.7) / 3
	if diff := res.Confidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("confidence = %f, want %f", res.Confidence, want)
	}
	if res.StylingTips == "" {
		t.Error("styling tips missing")
	}
	if res.AvailableItems == nil || res.AvailableItems.Tops != 1 || res.AvailableItems.Shoes != 1 {
		t.Errorf("available counts wrong: %+v", res.AvailableItems)
	}
	if len(res.FallbackSlots) != 0 {
		t.Errorf("unexpected fallback slots: %v", res.FallbackSlots)
	}
	if res.DuplicateWarning != nil {
		t.Errorf("fresh outfit flagged as duplicate: %+v", res.DuplicateWarning)
	}
}

// A wardrobe whose only tops are knitwear must still fill the top slot, even
// when the stored outerwear category carries knitwear terms among its
// image-analysis keywords.
func TestRecommendComposesForKnitwearWardrobe(t *testing.T) {
	tax := fixtureTaxonomy()
	for i := range tax.Categories {
		if tax.Categories[i].ID == "outerwear" {
			tax.Categories[i].Keywords = []string{
				"jacket", "coat", "blazer", "windbreaker", "parka", "bomber",
				"trench", "raincoat", "outerwear", "hoodie", "sweater",
				"cardigan", "vest", "pullover",
			}
		}
	}
	catalog := &fakeCatalog{
		tax: &tax,
		items: []models.WardrobeItem{
			tagged(item("Cozy Sweater", "TOPS", 0.9), "casual"),
			tagged(item("Grey Hoodie", "TOPS", 0.8), "casual"),
			tagged(item("Jeans", "BOTTOMS", 0.8), "casual"),
			tagged(item("Sneakers", "SHOES", 0.7), "casual"),
		},
	}
	engine := newTestEngine(catalog, nil)

	res, err := engine.Recommend(context.Background(), "user-1", "casual")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	outfit := res.RecommendedOutfit
	if outfit == nil {
		t.Fatalf("knitwear wardrobe produced no outfit: %+v", res)
	}
	if outfit.Top == nil {
		t.Fatalf("top slot empty: %+v", outfit)
	}
	if outfit.Outerwear != nil {
		t.Errorf("knitwear misfiled as outerwear: %+v", outfit.Outerwear)
	}
	if res.AvailableItems == nil || res.AvailableItems.Tops != 2 {
		t.Errorf("available tops = %+v, want 2", res.AvailableItems)
	}
}

func TestRecommendNoOutfitForMissingSlot(t *testing.T) {
	catalog := &fakeCatalog{items: []models.WardrobeItem{
		tagged(item("White Tee", "TOPS", 0.9), "casual"),
		tagged(item("Jeans", "BOTTOMS", 0.8), "casual"),
	}}
	engine := newTestEngine(catalog, nil)

	res, err := engine.Recommend(context.Background(), "user-1", "casual")
	if err != nil {
		t.Fatalf("a composable gap is an outcome, not an error: %v", err)
	}
	if res.RecommendedOutfit != nil {
		t.Fatalf("outfit composed without shoes: %+v", res.RecommendedOutfit)
	}
	if res.Message == "" {
		t.Error("missing-slot result should explain itself")
	}
	if res.AvailableItems == nil || res.AvailableItems.Shoes != 0 || res.AvailableItems.Tops != 1 {
		t.Errorf("available counts wrong: %+v", res.AvailableItems)
	}
}

func TestRecommendReclassifiesHeavyTop(t *testing.T) {
	catalog := &fakeCatalog{items: []models.WardrobeItem{
		tagged(item("Linen Shirt", "TOPS", 0.9), "casual"),
		tagged(item("Wool Peacoat", "TOPS", 0.9), "casual"),
		tagged(item("Chinos", "BOTTOMS", 0.8), "casual"),
		tagged(item("Loafers", "SHOES", 0.7), "casual"),
	}}
	engine := newTestEngine(catalog, nil)

	// Outerwear inclusion is probabilistic, so assert over repeated runs that
	// the peacoat never lands in the top slot.
	sawOuterwear := false
	for i := 0; i < 50; i++ {
		res, err := engine.Recommend(context.Background(), "user-1", "casual")
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		outfit := res.RecommendedOutfit
		if outfit == nil {
			t.Fatalf("no outfit on run %d: %+v", i, res)
		}
		if outfit.Top.Name != "Linen Shirt" {
			t.Fatalf("peacoat classified as top: %+v", outfit.Top)
		}
		if outfit.Outerwear != nil {
			if outfit.Outerwear.Name != "Wool Peacoat" {
				t.Fatalf("unexpected outerwear: %+v", outfit.Outerwear)
			}
			sawOuterwear = true
		}
	}
	if !sawOuterwear {
		t.Error("peacoat never selected as outerwear across 50 runs")
	}
}

func TestRecommendReportsFallbackSlots(t *testing.T) {
	catalog := &fakeCatalog{items: []models.WardrobeItem{
		tagged(item("Track Top", "TOPS", 0.9), "sporty"),
		tagged(item("Joggers", "BOTTOMS", 0.8), "sporty"),
		tagged(item("Dress Shoes", "SHOES", 0.7), "formal"),
	}}
	engine := newTestEngine(catalog, nil)

	res, err := engine.Recommend(context.Background(), "user-1", "sporty")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.RecommendedOutfit == nil {
		t.Fatalf("fallback should still yield an outfit: %+v", res)
	}
	if res.RecommendedOutfit.Shoes == nil || res.RecommendedOutfit.Shoes.Name != "Dress Shoes" {
		t.Errorf("fallback shoe not used: %+v", res.RecommendedOutfit.Shoes)
	}

	found := false
	for _, slot := range res.FallbackSlots {
		if slot == SlotShoes {
			found = true
		}
		if slot == SlotTop || slot == SlotBottom {
			t.Errorf("slot %q wrongly reported as fallback", slot)
		}
	}
	if !found {
		t.Errorf("shoes fallback not reported: %v", res.FallbackSlots)
	}
}

func TestRecommendWarnsOnDuplicate(t *testing.T) {
	top := tagged(item("White Tee", "TOPS", 0.9), "casual")
	bottom := tagged(item("Jeans", "BOTTOMS", 0.8), "casual")
	shoes := tagged(item("Sneakers", "SHOES", 0.7), "casual")

	catalog := &fakeCatalog{
		items: []models.WardrobeItem{top, bottom, shoes},
		outfits: []models.Outfit{{
			Name: "Weekend",
			Items: []models.OutfitItem{
				{ItemID: top.ID.Hex(), Name: top.Name},
				{ItemID: bottom.ID.Hex(), Name: bottom.Name},
				{ItemID: shoes.ID.Hex(), Name: shoes.Name},
			},
			CreatedAt: time.Now().AddDate(0, 0, -3),
		}},
	}
	engine := newTestEngine(catalog, nil)

	// One item per required slot and nothing optional, so the composition is
	// forced to match the saved outfit.
	res, err := engine.Recommend(context.Background(), "user-1", "casual")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.RecommendedOutfit == nil {
		t.Fatalf("no outfit returned: %+v", res)
	}
	if res.DuplicateWarning == nil || !res.DuplicateWarning.IsDuplicate {
		t.Fatalf("duplicate not flagged: %+v", res.DuplicateWarning)
	}
	if res.DuplicateWarning.DaysAgo != 3 {
		t.Errorf("daysAgo = %d, want 3", res.DuplicateWarning.DaysAgo)
	}
}

func TestCheckDuplicateAgainstPlans(t *testing.T) {
	planDate := time.Now().AddDate(0, 0, 2)
	catalog := &fakeCatalog{plans: []models.PlannedOutfit{{
		Date: planDate,
		Items: []models.OutfitItem{
			{ItemID: "itemA"},
			{ItemID: "itemB"},
		},
	}}}
	engine := newTestEngine(catalog, nil)

	w, err := engine.CheckDuplicate(context.Background(), "user-1", []string{"itemB", "itemA"}, "")
	if err != nil {
		t.Fatalf("CheckDuplicate: %v", err)
	}
	if w == nil || !w.IsDuplicate {
		t.Fatal("planned duplicate not flagged")
	}

	// Excluding the plan's own id clears the warning for in-place updates.
	planID := catalog.plans[0].ID.Hex()
	w, err = engine.CheckDuplicate(context.Background(), "user-1", []string{"itemA", "itemB"}, planID)
	if err != nil {
		t.Fatalf("CheckDuplicate: %v", err)
	}
	if w != nil {
		t.Errorf("plan matched against itself: %+v", w)
	}
}

func TestRecommendFallsBackToTemplateTips(t *testing.T) {
	catalog := &fakeCatalog{items: []models.WardrobeItem{
		tagged(item("White Tee", "TOPS", 0.9), "casual"),
		tagged(item("Jeans", "BOTTOMS", 0.8), "casual"),
		tagged(item("Sneakers", "SHOES", 0.7), "casual"),
	}}
	engine := newTestEngine(catalog, failingTips{})

	res, err := engine.Recommend(context.Background(), "user-1", "casual")
	if err != nil {
		t.Fatalf("tip failure must not fail the recommendation: %v", err)
	}
	want, _ := TemplateTips{}.StylingTips(context.Background(), "casual", &Composition{})
	if res.StylingTips != want {
		t.Errorf("tips = %q, want template fallback %q", res.StylingTips, want)
	}
}

func TestRecommendRandomCanVary(t *testing.T) {
	catalog := &fakeCatalog{items: []models.WardrobeItem{
		item("White Tee", "TOPS", 0.9),
		item("Black Tee", "TOPS", 0.9),
		item("Henley", "TOPS", 0.9),
		item("Jeans", "BOTTOMS", 0.8),
		item("Sneakers", "SHOES", 0.7),
	}}
	engine := newTestEngine(catalog, nil)

	tops := make(map[string]bool)
	for i := 0; i < 100; i++ {
		res, err := engine.Recommend(context.Background(), "user-1", "random")
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		if res.RecommendedOutfit == nil {
			t.Fatalf("no outfit on run %d", i)
		}
		tops[res.RecommendedOutfit.Top.Name] = true
	}
	if len(tops) < 2 {
		t.Errorf("100 random runs never varied the top: %v", tops)
	}
}
