package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/utils"
)

// RecommendOutfitHandler runs the recommendation engine for the occasion in
// the path and returns its result unchanged, with image references resolved.
func RecommendOutfitHandler(w http.ResponseWriter, r *http.Request) {
	occasion := r.PathValue("occasion")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := Engine.Recommend(ctx, UserIDFromContext(r.Context()), occasion)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate recommendation")
		return
	}

	if outfit := result.RecommendedOutfit; outfit != nil {
		for _, item := range []*models.WardrobeItem{outfit.Top, outfit.Bottom, outfit.Shoes, outfit.Outerwear} {
			if item != nil {
				item.Image = utils.PresignImageURL(ctx, item.Image)
			}
		}
		for i := range outfit.Accessories {
			outfit.Accessories[i].Image = utils.PresignImageURL(ctx, outfit.Accessories[i].Image)
		}
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

type GeminiRecommendRequest struct {
	Occasion      string                `json:"occasion"`
	WardrobeItems []models.WardrobeItem `json:"wardrobeItems"`
}

// GeminiRecommendHandler is the model-driven alternative recommender: the
// client posts its wardrobe and Gemini picks the outfit by item name.
func GeminiRecommendHandler(w http.ResponseWriter, r *http.Request) {
	var req GeminiRecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Occasion == "" || len(req.WardrobeItems) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Occasion and wardrobe items are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	rec, err := utils.GeminiRecommendOutfit(ctx, req.Occasion, req.WardrobeItems)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate AI recommendation")
		return
	}
	utils.RespondJSON(w, http.StatusOK, rec)
}
