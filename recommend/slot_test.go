package recommend

import (
	"testing"

	"github.com/styleit-app/styleit-backend/models"
)

func TestClassify(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name     string
		item     models.WardrobeItem
		expected Slot
	}{
		{"plain top", models.WardrobeItem{Name: "Blue Tee", Category: "TOPS"}, SlotTop},
		{"lowercase category", models.WardrobeItem{Name: "Blue Tee", Category: "tops"}, SlotTop},
		{"singular alias", models.WardrobeItem{Name: "Blue Tee", Category: "Top"}, SlotTop},
		{"bottoms", models.WardrobeItem{Name: "Chinos", Category: "BOTTOMS"}, SlotBottom},
		{"footwear alias", models.WardrobeItem{Name: "Loafers", Category: "FOOTWEAR"}, SlotShoes},
		{"outerwear category", models.WardrobeItem{Name: "Denim Jacket", Category: "OUTERWEAR"}, SlotOuterwear},
		{"jackets category variant", models.WardrobeItem{Name: "Denim Jacket", Category: "JACKETS"}, SlotOuterwear},
		{"accessory", models.WardrobeItem{Name: "Leather Belt", Category: "ACCESSORIES"}, SlotAccessory},
		{"unknown category", models.WardrobeItem{Name: "Mystery", Category: "GADGETS"}, SlotUnclassified},
		{"empty category", models.WardrobeItem{Name: "Mystery"}, SlotUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.item); got != tt.expected {
				t.Errorf("Classify(%q/%q) = %q, want %q", tt.item.Name, tt.item.Category, got, tt.expected)
			}
		})
	}
}

func TestClassifyReclassifiesHeavyTopsAsOuterwear(t *testing.T) {
	classifier := NewClassifier()

	// A tagger that saw a peacoat and said TOPS is a common mislabel; the
	// name keywords resolve it.
	outerwearNames := []string{
		"Wool Peacoat", "Bomber Jacket", "Trench Coat", "Rain Coat",
		"Windbreaker", "Navy Blazer", "Down Vest", "Parka XL",
	}
	for _, name := range outerwearNames {
		t.Run(name, func(t *testing.T) {
			item := models.WardrobeItem{Name: name, Category: "TOPS"}
			if got := classifier.Classify(item); got != SlotOuterwear {
				t.Errorf("Classify(%q as TOPS) = %q, want %q", name, got, SlotOuterwear)
			}
		})
	}

	// Plain tops stay tops.
	if got := classifier.Classify(models.WardrobeItem{Name: "Linen Shirt", Category: "TOPS"}); got != SlotTop {
		t.Errorf("Classify(Linen Shirt) = %q, want %q", got, SlotTop)
	}
}

func TestClassifyKeepsKnitwearInTopSlot(t *testing.T) {
	classifier := NewClassifier()

	// The image-analysis keyword lists tag knitwear terms onto the
	// outerwear category; slot classification must not inherit them, or
	// every sweater-heavy wardrobe would lose its entire top pool.
	knitwearNames := []string{
		"Cozy Sweater", "Grey Hoodie", "Knit Cardigan", "Wool Pullover",
	}
	for _, name := range knitwearNames {
		t.Run(name, func(t *testing.T) {
			item := models.WardrobeItem{Name: name, Category: "TOPS"}
			if got := classifier.Classify(item); got != SlotTop {
				t.Errorf("Classify(%q as TOPS) = %q, want %q", name, got, SlotTop)
			}
		})
	}

	// The compound names on the fixed list still reclassify.
	if got := classifier.Classify(models.WardrobeItem{Name: "Sweater Jacket", Category: "TOPS"}); got != SlotOuterwear {
		t.Errorf("Classify(Sweater Jacket) = %q, want %q", got, SlotOuterwear)
	}
}
