package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/store"
	"github.com/styleit-app/styleit-backend/utils"
)

type taxonomyRequest struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Color    string   `json:"color"`
	Order    int      `json:"order"`
	Keywords []string `json:"keywords"`
}

// normalizeKeywords lowercases, trims, and dedupes, preserving order. Extra
// terms are always folded in (an occasion's own id and label must match it).
func normalizeKeywords(keywords []string, extra ...string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(k string) {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			return
		}
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	for _, k := range keywords {
		add(k)
	}
	for _, k := range extra {
		add(k)
	}
	return out
}

// ListCategoriesHandler is public so the mobile app can render the wardrobe
// form before login.
func ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cur, err := utils.GetCollection(store.ColCategories).Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"order": 1}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load categories")
		return
	}
	var categories []models.Category
	if err := cur.All(ctx, &categories); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to decode categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	utils.RespondJSON(w, http.StatusOK, categories)
}

func ListOccasionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cur, err := utils.GetCollection(store.ColOccasions).Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"order": 1}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load occasions")
		return
	}
	var occasions []models.Occasion
	if err := cur.All(ctx, &occasions); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to decode occasions")
		return
	}
	if occasions == nil {
		occasions = []models.Occasion{}
	}
	utils.RespondJSON(w, http.StatusOK, occasions)
}

// CreateCategoryHandler adds an admin-defined category.
func CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req taxonomyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ID = strings.ToLower(strings.TrimSpace(req.ID))
	if req.ID == "" || req.Label == "" {
		utils.RespondError(w, http.StatusBadRequest, "Id and label are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	col := utils.GetCollection(store.ColCategories)

	if err := col.FindOne(ctx, bson.M{"id": req.ID}).Err(); err == nil {
		utils.RespondError(w, http.StatusConflict, "Category already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusInternalServerError, "Database error checking category")
		return
	}

	category := models.Category{
		ID:        req.ID,
		Label:     req.Label,
		Color:     req.Color,
		Order:     req.Order,
		Keywords:  normalizeKeywords(req.Keywords),
		CreatedAt: time.Now(),
	}
	if _, err := col.InsertOne(ctx, category); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, category)
}

// UpdateCategoryHandler edits label, color, order, or keywords.
func UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(r.PathValue("id"))

	var req struct {
		Label    *string  `json:"label"`
		Color    *string  `json:"color"`
		Order    *int     `json:"order"`
		Keywords []string `json:"keywords"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := bson.M{}
	if req.Label != nil {
		update["label"] = *req.Label
	}
	if req.Color != nil {
		update["color"] = *req.Color
	}
	if req.Order != nil {
		update["order"] = *req.Order
	}
	if req.Keywords != nil {
		update["keywords"] = normalizeKeywords(req.Keywords)
	}
	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	col := utils.GetCollection(store.ColCategories)

	res, err := col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": update})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Category not found")
		return
	}

	var category models.Category
	if err := col.FindOne(ctx, bson.M{"id": id}).Decode(&category); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load updated category")
		return
	}
	utils.RespondJSON(w, http.StatusOK, category)
}

func DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(r.PathValue("id"))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := utils.GetCollection(store.ColCategories).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Category not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

// CreateOccasionHandler adds an admin-defined occasion. The occasion's id and
// label always join its keywords so tag matching never misses them.
func CreateOccasionHandler(w http.ResponseWriter, r *http.Request) {
	var req taxonomyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ID = strings.ToLower(strings.TrimSpace(req.ID))
	if req.ID == "" || req.Label == "" {
		utils.RespondError(w, http.StatusBadRequest, "Id and label are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	col := utils.GetCollection(store.ColOccasions)

	if err := col.FindOne(ctx, bson.M{"id": req.ID}).Err(); err == nil {
		utils.RespondError(w, http.StatusConflict, "Occasion already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusInternalServerError, "Database error checking occasion")
		return
	}

	occasion := models.Occasion{
		ID:        req.ID,
		Label:     req.Label,
		Color:     req.Color,
		Order:     req.Order,
		Keywords:  normalizeKeywords(req.Keywords, req.ID, req.Label),
		CreatedAt: time.Now(),
	}
	if _, err := col.InsertOne(ctx, occasion); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create occasion")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, occasion)
}

func UpdateOccasionHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(r.PathValue("id"))

	var req struct {
		Label    *string  `json:"label"`
		Color    *string  `json:"color"`
		Order    *int     `json:"order"`
		Keywords []string `json:"keywords"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	col := utils.GetCollection(store.ColOccasions)

	var occasion models.Occasion
	if err := col.FindOne(ctx, bson.M{"id": id}).Decode(&occasion); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Occasion not found")
		return
	}

	update := bson.M{}
	if req.Label != nil {
		update["label"] = *req.Label
		occasion.Label = *req.Label
	}
	if req.Color != nil {
		update["color"] = *req.Color
	}
	if req.Order != nil {
		update["order"] = *req.Order
	}
	if req.Keywords != nil {
		update["keywords"] = normalizeKeywords(req.Keywords, occasion.ID, occasion.Label)
	}
	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	if _, err := col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": update}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update occasion")
		return
	}
	if err := col.FindOne(ctx, bson.M{"id": id}).Decode(&occasion); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load updated occasion")
		return
	}
	utils.RespondJSON(w, http.StatusOK, occasion)
}

func DeleteOccasionHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(r.PathValue("id"))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := utils.GetCollection(store.ColOccasions).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete occasion")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Occasion not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Occasion deleted"})
}
