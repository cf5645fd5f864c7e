package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/recommend"
	"github.com/styleit-app/styleit-backend/store"
	"github.com/styleit-app/styleit-backend/utils"
)

const defaultItemConfidence = 0.8

// ListWardrobeHandler returns the user's wardrobe, newest first, with image
// references resolved to loadable URLs.
func ListWardrobeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items, err := store.NewMongo().ListWardrobeItems(ctx, UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load wardrobe")
		return
	}
	for i := range items {
		items[i].Image = utils.PresignImageURL(ctx, items[i].Image)
	}
	if items == nil {
		items = []models.WardrobeItem{}
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

// CreateWardrobeItemHandler adds an item. The image arrives either as a
// multipart file upload or as an "image" URL/key field in a JSON body.
func CreateWardrobeItemHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	item := models.WardrobeItem{
		User:       uid,
		Confidence: defaultItemConfidence,
		CreatedAt:  time.Now(),
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		item.Name = r.FormValue("name")
		item.Category = r.FormValue("category")
		item.Color = r.FormValue("color")
		item.Description = r.FormValue("description")
		item.Style = r.FormValue("style")
		item.Tags = recommend.NormalizeTags(r.Form["tags"])
		item.OccasionTags = recommend.NormalizeTags(r.Form["occasionTags"])

		file, header, err := r.FormFile("image")
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Image file is required")
			return
		}
		defer file.Close()

		ref, err := utils.SaveUpload(ctx, file, header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			utils.Log.Error("saving upload", zap.Error(err))
			utils.RespondError(w, http.StatusInternalServerError, "Failed to store image")
			return
		}
		item.Image = ref
	} else {
		var req models.WardrobeItem
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		item.Name = req.Name
		item.Category = req.Category
		item.Image = req.Image
		item.Color = req.Color
		item.Colors = req.Colors
		item.Description = req.Description
		item.Style = req.Style
		item.Tags = recommend.NormalizeTags(req.Tags)
		item.OccasionTags = recommend.NormalizeTags(req.OccasionTags)
		if req.Confidence > 0 {
			item.Confidence = req.Confidence
		}
	}

	if item.Name == "" || item.Category == "" {
		utils.RespondError(w, http.StatusBadRequest, "Name and category are required")
		return
	}

	res, err := utils.GetCollection(store.ColWardrobeItems).InsertOne(ctx, item)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to save item")
		return
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	item.Image = utils.PresignImageURL(ctx, item.Image)
	utils.RespondJSON(w, http.StatusCreated, item)
}

// UpdateWardrobeItemHandler re-tags or renames an item. Only fields present
// in the body are touched.
func UpdateWardrobeItemHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}
	itemID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	var req struct {
		Name         *string  `json:"name"`
		Category     *string  `json:"category"`
		Color        *string  `json:"color"`
		Description  *string  `json:"description"`
		Style        *string  `json:"style"`
		Tags         []string `json:"tags"`
		OccasionTags []string `json:"occasionTags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := bson.M{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Category != nil {
		update["category"] = *req.Category
	}
	if req.Color != nil {
		update["color"] = *req.Color
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.Style != nil {
		update["style"] = *req.Style
	}
	if req.Tags != nil {
		update["tags"] = recommend.NormalizeTags(req.Tags)
	}
	if req.OccasionTags != nil {
		update["occasionTags"] = recommend.NormalizeTags(req.OccasionTags)
	}
	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	col := utils.GetCollection(store.ColWardrobeItems)
	res, err := col.UpdateOne(ctx, bson.M{"_id": itemID, "user": uid}, bson.M{"$set": update})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update item")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Item not found")
		return
	}

	var item models.WardrobeItem
	if err := col.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load updated item")
		return
	}
	item.Image = utils.PresignImageURL(ctx, item.Image)
	utils.RespondJSON(w, http.StatusOK, item)
}

// DeleteWardrobeItemHandler removes an item the user owns.
func DeleteWardrobeItemHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}
	itemID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := utils.GetCollection(store.ColWardrobeItems).DeleteOne(ctx, bson.M{"_id": itemID, "user": uid})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Item not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}
