package recommend

import (
	"strings"

	"github.com/styleit-app/styleit-backend/models"
)

// Slot is one of the fixed outfit roles an item can fill.
type Slot string

const (
	SlotTop          Slot = "top"
	SlotBottom       Slot = "bottom"
	SlotShoes        Slot = "shoes"
	SlotOuterwear    Slot = "outerwear"
	SlotAccessory    Slot = "accessory"
	SlotUnclassified Slot = "unclassified"
)

// Taxonomy is the admin-managed category/occasion configuration, read fresh
// on every request so keyword edits take effect without a restart.
type Taxonomy struct {
	Categories []models.Category
	Occasions  []models.Occasion
}

var (
	topCategories       = []string{"TOPS", "TOP"}
	bottomCategories    = []string{"BOTTOMS", "BOTTOM"}
	shoeCategories      = []string{"SHOES", "SHOE", "FOOTWEAR"}
	outerwearCategories = []string{"OUTERWEAR", "JACKET", "JACKETS", "COAT"}
	accessoryCategories = []string{"ACCESSORIES", "ACCESSORY"}

	// Items tagged as tops whose name reveals them to be outerwear. A heavy
	// top like a peacoat is visually outerwear even when the tagger said TOPS.
	// The list is deliberately fixed and narrow: category keywords configured
	// for image analysis include plain knitwear terms (sweater, hoodie) that
	// must keep filling the top slot.
	outerwearNameKeywords = []string{
		"JACKET", "COAT", "BLAZER", "WINDBREAKER",
		"PARKA", "BOMBER", "TRENCH", "RAINCOAT", "RAIN COAT",
		"VEST", "SWEATER COAT", "SWEATER JACKET",
	}
)

// Classifier maps wardrobe items to outfit slots. It is a pure function over
// the item; slot assignment never depends on admin keyword configuration.
type Classifier struct {
	outerwearKeywords []string
}

func NewClassifier() Classifier {
	return Classifier{outerwearKeywords: outerwearNameKeywords}
}

// Classify returns the slot for a wardrobe item, or SlotUnclassified when the
// item's category matches none of the known ones. Unclassified items are
// excluded from composition entirely.
func (c Classifier) Classify(item models.WardrobeItem) Slot {
	category := strings.ToUpper(strings.TrimSpace(item.Category))
	if category == "" {
		return SlotUnclassified
	}

	switch {
	case containsString(topCategories, category):
		if c.hasOuterwearKeyword(item.Name) {
			return SlotOuterwear
		}
		return SlotTop
	case containsString(bottomCategories, category):
		return SlotBottom
	case containsString(shoeCategories, category):
		return SlotShoes
	case containsString(accessoryCategories, category):
		return SlotAccessory
	case containsString(outerwearCategories, category),
		strings.Contains(category, "JACKET"),
		strings.Contains(category, "COAT"),
		strings.Contains(category, "OUTERWEAR"):
		return SlotOuterwear
	}

	return SlotUnclassified
}

func (c Classifier) hasOuterwearKeyword(name string) bool {
	nameUpper := strings.ToUpper(name)
	for _, keyword := range c.outerwearKeywords {
		if keyword != "" && strings.Contains(nameUpper, keyword) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
