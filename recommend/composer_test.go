package recommend

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/styleit-app/styleit-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func item(name, category string, confidence float64) models.WardrobeItem {
	return models.WardrobeItem{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Category:   category,
		Confidence: confidence,
	}
}

func fixturePools() Pools {
	return Pools{
		Tops:    []models.WardrobeItem{item("Tee", "TOPS", 0.8), item("Shirt", "TOPS", 0.9)},
		Bottoms: []models.WardrobeItem{item("Jeans", "BOTTOMS", 0.7)},
		Shoes:   []models.WardrobeItem{item("Sneakers", "SHOES", 0.6)},
		Outerwear: []models.WardrobeItem{
			item("Denim Jacket", "OUTERWEAR", 0.9),
		},
		Accessories: []models.WardrobeItem{
			item("Silver Watch", "ACCESSORIES", 0.8),
			item("Gold Watch", "ACCESSORIES", 0.8),
			item("Leather Belt", "ACCESSORIES", 0.8),
		},
	}
}

func TestComposeFillsRequiredSlots(t *testing.T) {
	composer := NewComposer(rand.New(rand.NewSource(1)))

	comp, err := composer.Compose(fixturePools(), "casual")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if comp.Top == nil || comp.Bottom == nil || comp.Shoes == nil {
		t.Fatalf("required slot left empty: %+v", comp)
	}
	if comp.Top.Category != "TOPS" {
		t.Errorf("top slot filled with %q", comp.Top.Category)
	}
	if comp.Bottom.Category != "BOTTOMS" {
		t.Errorf("bottom slot filled with %q", comp.Bottom.Category)
	}
	if comp.Shoes.Category != "SHOES" {
		t.Errorf("shoes slot filled with %q", comp.Shoes.Category)
	}
	if len(comp.Accessories) > 2 {
		t.Errorf("got %d accessories, max is 2", len(comp.Accessories))
	}
}

func TestComposeMissingRequiredSlot(t *testing.T) {
	composer := NewComposer(rand.New(rand.NewSource(1)))

	pools := fixturePools()
	pools.Shoes = nil
	_, err := composer.Compose(pools, "formal")

	var noOutfit *NoOutfitError
	if !errors.As(err, &noOutfit) {
		t.Fatalf("expected NoOutfitError, got %v", err)
	}
	if noOutfit.Counts.Shoes != 0 || noOutfit.Counts.Tops != 2 {
		t.Errorf("counts wrong: %+v", noOutfit.Counts)
	}
	if noOutfit.Error() == "" {
		t.Error("error message is empty")
	}
}

func TestComposeConfidenceIsMeanOfSelected(t *testing.T) {
	composer := NewComposer(rand.New(rand.NewSource(7)))

	pools := Pools{
		Tops:    []models.WardrobeItem{item("Tee", "TOPS", 1.0)},
		Bottoms: []models.WardrobeItem{item("Jeans", "BOTTOMS", 0.5)},
		Shoes:   []models.WardrobeItem{item("Sneakers", "SHOES", 0.6)},
	}
	comp, err := composer.Compose(pools, "casual")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	want := (1.0 + 0.5 + 0.6) / 3
	if got := comp.Confidence(); got < want-1e-9 || got > want+1e-9 {
		t.Errorf("Confidence() = %v, want %v", got, want)
	}
}

func TestComposeTwoAccessoriesAreDifferentTypes(t *testing.T) {
	composer := NewComposer(rand.New(rand.NewSource(3)))
	pools := fixturePools()

	// Run enough compositions to hit the two-accessory branch several times.
	for i := 0; i < 200; i++ {
		comp, err := composer.Compose(pools, "casual")
		if err != nil {
			t.Fatalf("Compose failed: %v", err)
		}
		if len(comp.Accessories) == 2 {
			a, b := accessoryType(comp.Accessories[0]), accessoryType(comp.Accessories[1])
			if a == b {
				t.Fatalf("two accessories of the same type %q: %q and %q",
					a, comp.Accessories[0].Name, comp.Accessories[1].Name)
			}
		}
	}
}

func TestComposeSingleAccessoryTypeNeverPairs(t *testing.T) {
	composer := NewComposer(rand.New(rand.NewSource(5)))
	pools := fixturePools()
	pools.Accessories = []models.WardrobeItem{
		item("Silver Watch", "ACCESSORIES", 0.8),
		item("Gold Watch", "ACCESSORIES", 0.8),
	}

	for i := 0; i < 200; i++ {
		comp, err := composer.Compose(pools, "casual")
		if err != nil {
			t.Fatalf("Compose failed: %v", err)
		}
		if len(comp.Accessories) > 1 {
			t.Fatalf("only one accessory type available but %d picked", len(comp.Accessories))
		}
	}
}

func TestComposeCanVaryBetweenCalls(t *testing.T) {
	composer := NewComposer(rand.New(rand.NewSource(11)))
	pools := fixturePools()

	first, err := composer.Compose(pools, "random")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	for i := 0; i < 100; i++ {
		next, err := composer.Compose(pools, "random")
		if err != nil {
			t.Fatalf("Compose failed: %v", err)
		}
		if next.Top.Name != first.Top.Name ||
			(next.Outerwear == nil) != (first.Outerwear == nil) ||
			len(next.Accessories) != len(first.Accessories) {
			return // refresh produced a different outfit, as intended
		}
	}
	t.Error("100 compositions over a varied pool never differed")
}

func TestAccessoryType(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Baseball Cap", "hat"},
		{"Silver Watch", "watch"},
		{"Canvas Backpack", "bag"},
		{"Aviator Sunglasses", "sunglasses"},
		{"Silk Necktie", "tie"},
		{"Charm Bracelet", "bracelet"},
	}
	for _, tt := range tests {
		if got := accessoryType(models.WardrobeItem{Name: tt.name}); got != tt.expected {
			t.Errorf("accessoryType(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}

	// Unrecognized accessories still get distinct buckets.
	a := accessoryType(models.WardrobeItem{Name: "Pocket Square"})
	b := accessoryType(models.WardrobeItem{Name: "Lapel Pin"})
	if a == b {
		t.Errorf("distinct unknown accessories share bucket %q", a)
	}
}
