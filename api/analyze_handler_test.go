package api

import (
	"reflect"
	"testing"

	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/utils"
)

func analyzeCategories() []models.Category {
	return []models.Category{
		{ID: "tops", Label: "Tops", Keywords: []string{"shirt", "t-shirt", "blouse", "sweater", "hoodie"}},
		{ID: "bottoms", Label: "Bottoms", Keywords: []string{"pants", "jeans", "shorts", "skirt"}},
		{ID: "shoes", Label: "Shoes", Keywords: []string{"shoe", "sneaker", "boot"}},
		{ID: "outerwear", Label: "Outerwear", Keywords: []string{"jacket", "coat", "blazer"}},
		{ID: "accessories", Label: "Accessories", Keywords: []string{"watch", "belt", "hat", "bag"}},
	}
}

func analyzeOccasions() []models.Occasion {
	return []models.Occasion{
		{ID: "casual", Label: "Casual", Keywords: []string{"everyday", "relaxed", "denim"}},
		{ID: "formal", Label: "Formal", Keywords: []string{"suit", "elegant", "dress shirt"}},
		{ID: "work", Label: "Work", Keywords: []string{"office", "business", "professional"}},
		{ID: "sporty", Label: "Sporty", Keywords: []string{"athletic", "gym", "running"}},
	}
}

func TestResolveCategory(t *testing.T) {
	cats := analyzeCategories()

	tests := []struct {
		name     string
		detected string
		allText  string
		want     string
	}{
		{"exact id", "SHOES", "", "SHOES"},
		{"keyword match", "T-SHIRT", "t-shirt cotton", "TOPS"},
		{"label substring", "TOP", "", "TOPS"},
		{"singular accessory", "ACCESSORY", "", "ACCESSORIES"},
		{"fallback map", "JEAN", "", "BOTTOMS"},
		{"fallback map outerwear first", "JACKET", "jacket", "OUTERWEAR"},
		{"unknown falls back to first", "GIZMO", "gizmo", "TOPS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveCategory(tt.detected, tt.allText, cats); got != tt.want {
				t.Errorf("resolveCategory(%q, %q) = %q, want %q", tt.detected, tt.allText, got, tt.want)
			}
		})
	}
}

func TestResolveCategoryEmptyTaxonomy(t *testing.T) {
	if got := resolveCategory("SHIRT", "shirt", nil); got != "CLOTHING" {
		t.Errorf("resolveCategory with no categories = %q, want CLOTHING", got)
	}
}

func TestResolveOccasions(t *testing.T) {
	occs := analyzeOccasions()

	tests := []struct {
		name     string
		category string
		allText  string
		want     []string
	}{
		{"keyword match", "tops", "athletic gym top", []string{"sporty"}},
		{"category rule", "shoes", "leather oxford shoe", []string{"formal", "work"}},
		{"default casual", "tops", "plain knit", []string{"casual"}},
		{"no duplicates", "bottoms", "denim jeans everyday", []string{"casual"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveOccasions(tt.category, tt.allText, occs)
			if !sameStringSet(got, tt.want) {
				t.Errorf("resolveOccasions(%q, %q) = %v, want %v", tt.category, tt.allText, got, tt.want)
			}
		})
	}
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := map[string]bool{}
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if !set[s] {
			return false
		}
	}
	return true
}

func TestFirstClothingObjectSkipsNonClothing(t *testing.T) {
	objects := []utils.VisionObject{
		{Name: "Person", Score: 0.95},
		{Name: "Shirt", Score: 0.88},
		{Name: "Pants", Score: 0.80},
	}
	obj := firstClothingObject(objects)
	if obj == nil || obj.Name != "Shirt" {
		t.Fatalf("firstClothingObject = %+v, want Shirt", obj)
	}
}

func TestFirstClothingLabelMatchesSubstrings(t *testing.T) {
	labels := []utils.VisionLabel{
		{Description: "Fashion", Score: 0.9},
		{Description: "Denim fabric", Score: 0.85},
	}
	label := firstClothingLabel(labels)
	if label == nil || label.Description != "Denim fabric" {
		t.Fatalf("firstClothingLabel = %+v, want Denim fabric", label)
	}
	if firstClothingLabel(labels[:1]) != nil {
		t.Fatal("Fashion alone should not match")
	}
}

func TestAnalyzeFallbackShape(t *testing.T) {
	got := analyzeFallback()
	want := AnalyzeResult{
		Category:     "CLOTHING",
		Confidence:   0.5,
		Tags:         []string{},
		OccasionTags: []string{"casual"},
		Description:  "Clothing item",
		Colors:       []string{"unknown"},
		Style:        "unknown",
		Source:       "fallback",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("analyzeFallback() = %+v, want %+v", got, want)
	}
}
