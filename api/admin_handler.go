package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/store"
	"github.com/styleit-app/styleit-backend/utils"
)

// AdminListUsersHandler lists all accounts. Password hashes never serialize
// (json:"-" on the model).
func AdminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cur, err := utils.GetCollection(store.ColUsers).Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load users")
		return
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to decode users")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	utils.RespondJSON(w, http.StatusOK, users)
}

// AdminDeleteUserHandler removes an account and cascades its data. Admins
// cannot delete themselves.
func AdminDeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	targetID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	if targetID.Hex() == UserIDFromContext(r.Context()) {
		utils.RespondError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := deleteUserData(ctx, targetID); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete user data")
		return
	}
	res, err := utils.GetCollection(store.ColUsers).DeleteOne(ctx, bson.M{"_id": targetID})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.Log.Info("user deleted by admin",
		zap.String("admin", UserIDFromContext(r.Context())),
		zap.String("user", targetID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

// AdminSetRoleHandler changes a user's role.
func AdminSetRoleHandler(w http.ResponseWriter, r *http.Request) {
	targetID, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		utils.RespondError(w, http.StatusBadRequest, "Role must be user or admin")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := utils.GetCollection(store.ColUsers).UpdateOne(ctx,
		bson.M{"_id": targetID}, bson.M{"$set": bson.M{"role": req.Role}})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update role")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Role updated", "role": req.Role})
}

// AdminStatsHandler returns collection counts for the dashboard.
func AdminStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats := map[string]int64{}
	for name, col := range map[string]string{
		"users":          store.ColUsers,
		"wardrobeItems":  store.ColWardrobeItems,
		"outfits":        store.ColOutfits,
		"plannedOutfits": store.ColPlannedOutfits,
		"feedback":       store.ColFeedback,
	} {
		count, err := utils.GetCollection(col).CountDocuments(ctx, bson.M{})
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to count "+name)
			return
		}
		stats[name] = count
	}
	utils.RespondJSON(w, http.StatusOK, stats)
}

// AdminListUserWardrobeHandler lists a specific user's wardrobe.
func AdminListUserWardrobeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items, err := store.NewMongo().ListWardrobeItems(ctx, r.PathValue("userId"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Failed to load wardrobe")
		return
	}
	if items == nil {
		items = []models.WardrobeItem{}
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func AdminListUserOutfitsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	outfits, err := store.NewMongo().ListOutfits(ctx, r.PathValue("userId"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Failed to load outfits")
		return
	}
	if outfits == nil {
		outfits = []models.Outfit{}
	}
	utils.RespondJSON(w, http.StatusOK, outfits)
}

func AdminListUserPlansHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	plans, err := store.NewMongo().ListPlannedOutfits(ctx, r.PathValue("userId"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Failed to load planned outfits")
		return
	}
	if plans == nil {
		plans = []models.PlannedOutfit{}
	}
	utils.RespondJSON(w, http.StatusOK, plans)
}

// adminDeleteOwned deletes one document owned by the user in the path.
func adminDeleteOwned(w http.ResponseWriter, r *http.Request, collection, idParam, label string) {
	uid, err := primitive.ObjectIDFromHex(r.PathValue("userId"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	docID, err := primitive.ObjectIDFromHex(r.PathValue(idParam))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid "+label+" id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := utils.GetCollection(collection).DeleteOne(ctx, bson.M{"_id": docID, "user": uid})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete "+label)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, label+" not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": label + " deleted"})
}

func AdminDeleteUserWardrobeItemHandler(w http.ResponseWriter, r *http.Request) {
	adminDeleteOwned(w, r, store.ColWardrobeItems, "itemId", "item")
}

func AdminDeleteUserOutfitHandler(w http.ResponseWriter, r *http.Request) {
	adminDeleteOwned(w, r, store.ColOutfits, "outfitId", "outfit")
}

func AdminDeleteUserPlanHandler(w http.ResponseWriter, r *http.Request) {
	adminDeleteOwned(w, r, store.ColPlannedOutfits, "outfitId", "plan")
}
