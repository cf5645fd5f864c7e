package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/recommend"
	"github.com/styleit-app/styleit-backend/store"
	"github.com/styleit-app/styleit-backend/utils"
)

// Engine is the recommendation engine shared by the outfit, planner, and
// recommend handlers. Wired once at startup.
var Engine *recommend.Engine

type CreateOutfitRequest struct {
	Name       string              `json:"name"`
	Items      []models.OutfitItem `json:"items"`
	Occasion   string              `json:"occasion"`
	Confidence float64             `json:"confidence"`
}

// ListOutfitsHandler returns the user's saved outfits, newest first.
func ListOutfitsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	outfits, err := store.NewMongo().ListOutfits(ctx, UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load outfits")
		return
	}
	for i := range outfits {
		for j := range outfits[i].Items {
			outfits[i].Items[j].Image = utils.PresignImageURL(ctx, outfits[i].Items[j].Image)
		}
	}
	if outfits == nil {
		outfits = []models.Outfit{}
	}
	utils.RespondJSON(w, http.StatusOK, outfits)
}

// CreateOutfitHandler saves an outfit. A duplicate of an existing saved or
// planned outfit is still saved; the response just carries the warning.
func CreateOutfitHandler(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	var req CreateOutfitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || len(req.Items) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Name and items are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	warning, err := Engine.CheckDuplicate(ctx, userID, recommend.OutfitItemIDs(req.Items), "")
	if err != nil {
		utils.Log.Warn("duplicate check failed", zap.Error(err))
	}

	outfit := models.Outfit{
		User:       uid,
		Name:       req.Name,
		Items:      req.Items,
		Occasion:   req.Occasion,
		Confidence: req.Confidence,
		CreatedAt:  time.Now(),
	}
	res, err := utils.GetCollection(store.ColOutfits).InsertOne(ctx, outfit)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to save outfit")
		return
	}
	outfit.ID = res.InsertedID.(primitive.ObjectID)

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"outfit":           outfit,
		"duplicateWarning": warning,
	})
}

// DeleteOutfitHandler removes a saved outfit the user owns.
func DeleteOutfitHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}
	outfitID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid outfit id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := utils.GetCollection(store.ColOutfits).DeleteOne(ctx, bson.M{"_id": outfitID, "user": uid})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete outfit")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Outfit not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Outfit deleted"})
}

// WearOutfitHandler marks a saved outfit as worn now.
func WearOutfitHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}
	outfitID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid outfit id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	res, err := utils.GetCollection(store.ColOutfits).UpdateOne(ctx,
		bson.M{"_id": outfitID, "user": uid},
		bson.M{"$set": bson.M{"lastWorn": now}})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update outfit")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Outfit not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"lastWorn": now})
}
