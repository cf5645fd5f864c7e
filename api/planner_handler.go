package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/recommend"
	"github.com/styleit-app/styleit-backend/store"
	"github.com/styleit-app/styleit-backend/utils"
)

type PlanOutfitRequest struct {
	Date     string              `json:"date"` // YYYY-MM-DD
	Outfit   string              `json:"outfit,omitempty"`
	Name     string              `json:"name"`
	Occasion string              `json:"occasion"`
	Items    []models.OutfitItem `json:"items"`
	Notes    string              `json:"notes"`
}

// ListPlannedOutfitsHandler returns the user's planned outfits ordered by date.
func ListPlannedOutfitsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	plans, err := store.NewMongo().ListPlannedOutfits(ctx, UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load planned outfits")
		return
	}
	for i := range plans {
		for j := range plans[i].Items {
			plans[i].Items[j].Image = utils.PresignImageURL(ctx, plans[i].Items[j].Image)
		}
	}
	if plans == nil {
		plans = []models.PlannedOutfit{}
	}
	utils.RespondJSON(w, http.StatusOK, plans)
}

// PlanOutfitHandler assigns an outfit to a date. At most one plan exists per
// user per date; planning an occupied date overwrites the existing plan, and
// the overwritten plan is excluded from the duplicate check so a plan moved
// onto its own date never warns about itself.
func PlanOutfitHandler(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	var req PlanOutfitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}
	if len(req.Items) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Items are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	col := utils.GetCollection(store.ColPlannedOutfits)

	// When the date is already planned, the new plan replaces it.
	var existing models.PlannedOutfit
	excludeID := ""
	err = col.FindOne(ctx, bson.M{"user": uid, "date": date}).Decode(&existing)
	if err == nil {
		excludeID = existing.ID.Hex()
	} else if err != mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusInternalServerError, "Database error checking date")
		return
	}

	warning, err := Engine.CheckDuplicate(ctx, userID, recommend.OutfitItemIDs(req.Items), excludeID)
	if err != nil {
		utils.Log.Warn("duplicate check failed", zap.Error(err))
	}

	plan := models.PlannedOutfit{
		User:      uid,
		Date:      date,
		Name:      req.Name,
		Occasion:  req.Occasion,
		Items:     req.Items,
		Notes:     req.Notes,
		CreatedAt: time.Now(),
	}
	if req.Outfit != "" {
		if outfitID, err := primitive.ObjectIDFromHex(req.Outfit); err == nil {
			plan.Outfit = &outfitID
		}
	}
	if plan.Name == "" {
		plan.Name = "Planned outfit"
	}

	if excludeID != "" {
		plan.ID = existing.ID
		plan.CreatedAt = existing.CreatedAt
		if _, err := col.ReplaceOne(ctx, bson.M{"_id": existing.ID}, plan); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update plan")
			return
		}
	} else {
		res, err := col.InsertOne(ctx, plan)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to save plan")
			return
		}
		plan.ID = res.InsertedID.(primitive.ObjectID)
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"plan":             plan,
		"duplicateWarning": warning,
	})
}

// UpdatePlannedOutfitHandler edits a plan's name, occasion, items, or notes.
func UpdatePlannedOutfitHandler(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}
	planID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid plan id")
		return
	}

	var req struct {
		Name     *string             `json:"name"`
		Occasion *string             `json:"occasion"`
		Items    []models.OutfitItem `json:"items"`
		Notes    *string             `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	update := bson.M{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Occasion != nil {
		update["occasion"] = *req.Occasion
	}
	if req.Notes != nil {
		update["notes"] = *req.Notes
	}

	var warning *recommend.Warning
	if req.Items != nil {
		update["items"] = req.Items
		warning, err = Engine.CheckDuplicate(ctx, userID, recommend.OutfitItemIDs(req.Items), planID.Hex())
		if err != nil {
			utils.Log.Warn("duplicate check failed", zap.Error(err))
		}
	}
	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	col := utils.GetCollection(store.ColPlannedOutfits)
	res, err := col.UpdateOne(ctx, bson.M{"_id": planID, "user": uid}, bson.M{"$set": update})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update plan")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Plan not found")
		return
	}

	var plan models.PlannedOutfit
	if err := col.FindOne(ctx, bson.M{"_id": planID}).Decode(&plan); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load updated plan")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"plan":             plan,
		"duplicateWarning": warning,
	})
}

// DeletePlannedOutfitHandler removes a plan the user owns.
func DeletePlannedOutfitHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}
	planID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid plan id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := utils.GetCollection(store.ColPlannedOutfits).DeleteOne(ctx, bson.M{"_id": planID, "user": uid})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete plan")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "Plan not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Plan deleted"})
}
