package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/store"
	"github.com/styleit-app/styleit-backend/utils"
)

// AnalyzeResult is the auto-tagging payload the upload form consumes.
type AnalyzeResult struct {
	Category       string   `json:"category"`
	Confidence     float64  `json:"confidence"`
	Tags           []string `json:"tags"`
	OccasionTags   []string `json:"occasionTags"`
	Description    string   `json:"description"`
	Colors         []string `json:"colors"`
	Style          string   `json:"style"`
	DetectedLabels []string `json:"detectedLabels,omitempty"`
	Source         string   `json:"source"`
}

// Vision object names that count as clothing.
var clothingObjectNames = map[string]bool{
	"Shirt": true, "Pants": true, "Dress": true, "T-shirt": true, "Jacket": true,
	"Coat": true, "Shorts": true, "Skirt": true, "Shoe": true, "Boot": true,
	"Hat": true, "Bag": true, "Watch": true, "Belt": true, "Sunglasses": true,
	"Necklace": true, "Ring": true, "Bracelet": true, "Earrings": true, "Tie": true,
	"Jeans": true, "Trousers": true, "Blouse": true, "Sweater": true, "Hoodie": true,
}

var clothingLabelTerms = []string{
	"clothing", "shirt", "pants", "dress", "jacket", "shoe", "hat", "bag",
	"watch", "strap", "tie", "accessory", "jewelry", "jeans", "denim", "trousers",
}

var colorNames = []string{
	"red", "blue", "green", "yellow", "black", "white", "gray", "brown",
	"pink", "purple", "orange", "silver", "gold", "bronze",
}

// Detected names mapped to taxonomy category ids, tried in order.
var fallbackCategoryMap = map[string][]string{
	"JACKET": {"outerwear", "tops"}, "COAT": {"outerwear", "tops"},
	"BLAZER": {"outerwear", "tops"}, "OUTERWEAR": {"outerwear", "tops"},
	"SHIRT": {"tops"}, "T-SHIRT": {"tops"}, "TOP": {"tops"}, "BLOUSE": {"tops"},
	"SWEATER": {"tops"}, "HOODIE": {"tops"}, "DRESS": {"tops"},
	"PANT": {"bottoms"}, "PANTS": {"bottoms"}, "JEAN": {"bottoms"},
	"JEANS": {"bottoms"}, "TROUSERS": {"bottoms"}, "SHORTS": {"bottoms"},
	"SKIRT": {"bottoms"},
	"SHOE":  {"shoes"}, "FOOTWEAR": {"shoes"}, "SNEAKER": {"shoes"}, "BOOT": {"shoes"},
	"WATCH": {"accessories"}, "HAT": {"accessories"}, "CAP": {"accessories"},
	"BAG": {"accessories"}, "BELT": {"accessories"}, "TIE": {"accessories"},
	"SUNGLASSES": {"accessories"}, "NECKLACE": {"accessories"}, "RING": {"accessories"},
	"BRACELET": {"accessories"}, "EARRINGS": {"accessories"}, "ACCESSORY": {"accessories"},
}

// Per-category occasion hints consulted on top of occasion keyword matching.
var occasionCategoryRules = map[string]map[string][]string{
	"shoes": {
		"formal": {"dress shoe", "oxford", "loafer", "heel", "pump"},
		"work":   {"dress shoe", "oxford", "loafer", "professional"},
		"sporty": {"sneaker", "running", "athletic", "trainer", "sport"},
		"casual": {"sneaker", "canvas", "flat", "slip-on"},
	},
	"tops": {
		"formal": {"dress shirt", "blouse", "suit", "tuxedo", "evening"},
		"work":   {"button", "polo", "blazer", "professional", "business"},
		"sporty": {"active", "athletic", "gym", "fitness", "workout"},
		"casual": {"t-shirt", "cotton", "relaxed", "everyday"},
	},
	"bottoms": {
		"formal": {"dress pants", "slacks", "trousers", "suit"},
		"work":   {"khaki", "chino", "dress pants", "professional"},
		"sporty": {"shorts", "active", "athletic", "gym"},
		"casual": {"jeans", "denim", "relaxed", "everyday"},
	},
	"accessories": {
		"formal": {"watch", "belt", "jewelry", "necklace", "ring", "bracelet"},
		"work":   {"watch", "belt", "bag", "briefcase"},
		"sporty": {"hat", "cap", "sunglasses", "fitness"},
		"casual": {"hat", "cap", "bag", "backpack", "sunglasses"},
	},
}

func analyzeFallback() AnalyzeResult {
	return AnalyzeResult{
		Category:     "CLOTHING",
		Confidence:   0.5,
		Tags:         []string{},
		OccasionTags: []string{"casual"},
		Description:  "Clothing item",
		Colors:       []string{"unknown"},
		Style:        "unknown",
		Source:       "fallback",
	}
}

// AnalyzeImageHandler runs Vision over a posted image and auto-tags category,
// occasions, and colors against the stored taxonomy. Vision or taxonomy
// failures degrade to a generic result; the upload flow never blocks on
// analysis.
func AnalyzeImageHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageData string `json:"imageData"` // base64, no data-URL prefix
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageData == "" {
		utils.RespondError(w, http.StatusBadRequest, "Image data is required")
		return
	}

	// Tolerate data-URL formatted payloads from the web client.
	if i := strings.Index(req.ImageData, ","); i >= 0 && strings.HasPrefix(req.ImageData, "data:") {
		req.ImageData = req.ImageData[i+1:]
	}
	imageBytes, err := base64.StdEncoding.DecodeString(req.ImageData)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid base64 image data")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	vision, err := utils.AnnotateImage(ctx, imageBytes)
	if err != nil {
		utils.Log.Warn("vision analysis failed", zap.Error(err))
		utils.RespondJSON(w, http.StatusOK, analyzeFallback())
		return
	}

	result := classifyVisionResult(ctx, vision)
	utils.RespondJSON(w, http.StatusOK, result)
}

func classifyVisionResult(ctx context.Context, vision *utils.VisionResult) AnalyzeResult {
	detected := "CLOTHING"
	confidence := 0.5
	description := "Clothing item detected"
	var tags []string

	if obj := firstClothingObject(vision.Objects); obj != nil {
		detected = strings.ToUpper(obj.Name)
		confidence = obj.Score
		description = obj.Name + " detected"
		tags = []string{strings.ToLower(obj.Name)}
	} else if label := firstClothingLabel(vision.Labels); label != nil {
		detected = strings.ToUpper(label.Description)
		confidence = label.Score
		description = label.Description + " detected"
		tags = []string{strings.ToLower(label.Description)}
	}

	var detectedLabels []string
	for _, label := range vision.Labels {
		detectedLabels = append(detectedLabels, label.Description)
	}
	allText := strings.ToLower(strings.Join(append(append([]string{}, tags...), detectedLabels...), " "))

	tax, err := store.NewMongo().Taxonomy(ctx)
	if err != nil {
		utils.Log.Warn("loading taxonomy for analysis", zap.Error(err))
	}

	category := resolveCategory(detected, allText, tax.Categories)
	occasionTags := resolveOccasions(category, allText, tax.Occasions)

	var colors []string
	for _, label := range vision.Labels {
		l := strings.ToLower(label.Description)
		for _, c := range colorNames {
			if l == c {
				colors = append(colors, c)
			}
		}
	}
	if len(colors) == 0 {
		colors = []string{"unknown"}
	}
	if tags == nil {
		tags = []string{}
	}

	return AnalyzeResult{
		Category:       category,
		Confidence:     confidence,
		Tags:           tags,
		OccasionTags:   occasionTags,
		Description:    description,
		Colors:         colors,
		Style:          "unknown",
		DetectedLabels: detectedLabels,
		Source:         "google-vision",
	}
}

func firstClothingObject(objects []utils.VisionObject) *utils.VisionObject {
	for i := range objects {
		if clothingObjectNames[objects[i].Name] {
			return &objects[i]
		}
	}
	return nil
}

func firstClothingLabel(labels []utils.VisionLabel) *utils.VisionLabel {
	for i := range labels {
		desc := strings.ToLower(labels[i].Description)
		for _, term := range clothingLabelTerms {
			if strings.Contains(desc, term) {
				return &labels[i]
			}
		}
	}
	return nil
}

// resolveCategory maps the detected object/label name to a stored category
// id. The cascade mirrors how admins expect custom categories to win: exact
// id, keyword match, label match, singular/plural stem, then the built-in
// fallback map, then the first stored category.
func resolveCategory(detected, allText string, categories []models.Category) string {
	if len(categories) == 0 {
		return "CLOTHING"
	}
	detectedLower := strings.ToLower(detected)
	words := fieldsSet(allText)

	for _, cat := range categories {
		if strings.EqualFold(cat.ID, detected) {
			return strings.ToUpper(cat.ID)
		}
	}

	for _, cat := range categories {
		for _, keyword := range cat.Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword == "" {
				continue
			}
			if keyword == detectedLower || words[keyword] || strings.Contains(allText, keyword) {
				return strings.ToUpper(cat.ID)
			}
		}
	}

	for _, cat := range categories {
		label := strings.ToLower(cat.Label)
		if label != "" && (label == detectedLower ||
			strings.Contains(label, detectedLower) || strings.Contains(detectedLower, label)) {
			return strings.ToUpper(cat.ID)
		}
	}

	stem := strings.TrimSuffix(strings.TrimSuffix(detectedLower, "es"), "s")
	for _, cat := range categories {
		catStem := strings.TrimSuffix(strings.TrimSuffix(strings.ToLower(cat.ID), "es"), "s")
		if stem != "" && stem == catStem {
			return strings.ToUpper(cat.ID)
		}
	}

	if ids, ok := fallbackCategoryMap[detected]; ok {
		for _, id := range ids {
			for _, cat := range categories {
				if strings.EqualFold(cat.ID, id) {
					return strings.ToUpper(cat.ID)
				}
			}
		}
	}

	return strings.ToUpper(categories[0].ID)
}

// resolveOccasions tags the item with every occasion whose keywords appear in
// the detected text, then applies the per-category hint tables. Casual is the
// default when nothing matches.
func resolveOccasions(category, allText string, occasions []models.Occasion) []string {
	var out []string
	seen := map[string]bool{}
	add := func(id string) {
		for _, occ := range occasions {
			if strings.EqualFold(occ.ID, id) && !seen[occ.ID] {
				seen[occ.ID] = true
				out = append(out, occ.ID)
			}
		}
	}
	words := fieldsSet(allText)

	for _, occ := range occasions {
		matched := strings.Contains(allText, strings.ToLower(occ.ID)) ||
			(occ.Label != "" && strings.Contains(allText, strings.ToLower(occ.Label)))
		for _, keyword := range occ.Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword != "" && (words[keyword] || strings.Contains(allText, keyword)) {
				matched = true
				break
			}
		}
		if matched {
			add(occ.ID)
		}
	}

	if rules, ok := occasionCategoryRules[strings.ToLower(category)]; ok {
		for occasionID, keywords := range rules {
			for _, keyword := range keywords {
				if strings.Contains(allText, keyword) {
					add(occasionID)
					break
				}
			}
		}
	}

	if len(out) == 0 {
		add("casual")
	}
	if len(out) == 0 && len(occasions) > 0 {
		out = append(out, occasions[0].ID)
	}
	return out
}

func fieldsSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(text) {
		set[w] = true
	}
	return set
}
