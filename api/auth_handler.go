package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/styleit-app/styleit-backend/config"
	"github.com/styleit-app/styleit-backend/models"
	"github.com/styleit-app/styleit-backend/store"
	"github.com/styleit-app/styleit-backend/utils"
)

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func userPayload(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":    u.ID.Hex(),
		"email": u.Email,
		"name":  u.Name,
		"role":  u.Role,
	}
}

func authResponse(u *models.User) (map[string]interface{}, error) {
	token, err := utils.GenerateToken(u.ID.Hex(), u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"token": token, "user": userPayload(u)}, nil
}

// SignupHandler registers a new user account.
func SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if len(req.Password) < 6 {
		utils.RespondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	users := utils.GetCollection(store.ColUsers)

	err := users.FindOne(ctx, bson.M{"email": req.Email}).Err()
	if err == nil {
		utils.RespondError(w, http.StatusConflict, "User with this email already exists")
		return
	}
	if err != mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusInternalServerError, "Database error checking user")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Email:     req.Email,
		Password:  string(hash),
		Name:      req.Name,
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	res, err := users.InsertOne(ctx, user)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	payload, err := authResponse(&user)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	utils.Log.Info("user registered", zap.String("email", user.Email))
	utils.RespondJSON(w, http.StatusCreated, payload)
}

// LoginHandler exchanges email/password for a JWT.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := utils.GetCollection(store.ColUsers).FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	payload, err := authResponse(&user)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	utils.RespondJSON(w, http.StatusOK, payload)
}

// MeHandler returns the authenticated user's profile.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := utils.GetCollection(store.ColUsers).FindOne(ctx, bson.M{"_id": uid}).Decode(&user); err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": userPayload(&user)})
}

// UpdateProfileHandler changes name, email, or password. Email changes are
// checked for uniqueness; password changes require the current password.
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	users := utils.GetCollection(store.ColUsers)

	var user models.User
	if err := users.FindOne(ctx, bson.M{"_id": uid}).Decode(&user); err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" && email != user.Email {
		err := users.FindOne(ctx, bson.M{"email": email, "_id": bson.M{"$ne": uid}}).Err()
		if err == nil {
			utils.RespondError(w, http.StatusConflict, "Email is already in use")
			return
		}
		if err != mongo.ErrNoDocuments {
			utils.RespondError(w, http.StatusInternalServerError, "Database error checking email")
			return
		}
		update["email"] = email
	}
	if req.NewPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
			utils.RespondError(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		if len(req.NewPassword) < 6 {
			utils.RespondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		update["password"] = string(hash)
	}
	if len(update) == 0 {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": userPayload(&user)})
		return
	}

	if _, err := users.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": update}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	if err := users.FindOne(ctx, bson.M{"_id": uid}).Decode(&user); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load updated profile")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": userPayload(&user)})
}

// DeleteAccountHandler removes the user and all of their data.
func DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(UserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token subject")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := deleteUserData(ctx, uid); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete account data")
		return
	}
	if _, err := utils.GetCollection(store.ColUsers).DeleteOne(ctx, bson.M{"_id": uid}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	utils.Log.Info("account deleted", zap.String("user", uid.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

// deleteUserData cascades a user deletion across the owned collections.
func deleteUserData(ctx context.Context, uid primitive.ObjectID) error {
	for _, col := range []string{store.ColWardrobeItems, store.ColOutfits, store.ColPlannedOutfits} {
		if _, err := utils.GetCollection(col).DeleteMany(ctx, bson.M{"user": uid}); err != nil {
			return err
		}
	}
	return nil
}

func getOauthConfig() *oauth2.Config {
	return &oauth2.Config{
		RedirectURL:  config.GoogleRedirectURL,
		ClientID:     config.GoogleClientID,
		ClientSecret: config.GoogleClientSecret,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// GoogleLoginHandler redirects the browser to Google's consent screen.
func GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	// TODO: issue a per-session state value instead of a fixed one.
	url := getOauthConfig().AuthCodeURL("styleit-state")
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallbackHandler exchanges the OAuth code, finds or creates the user
// by their Google email, and returns the usual token response.
func GoogleCallbackHandler(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("state") != "styleit-state" {
		utils.RespondError(w, http.StatusBadRequest, "Invalid state")
		return
	}
	code := r.FormValue("code")
	if code == "" {
		utils.RespondError(w, http.StatusBadRequest, "Code not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	token, err := getOauthConfig().Exchange(ctx, code)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to exchange token")
		return
	}

	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to get user info")
		return
	}
	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to read user info")
		return
	}

	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(content, &info); err != nil || info.Email == "" {
		utils.RespondError(w, http.StatusInternalServerError, "Unexpected user info response")
		return
	}
	info.Email = strings.ToLower(info.Email)

	users := utils.GetCollection(store.ColUsers)
	var user models.User
	err = users.FindOne(ctx, bson.M{"email": info.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		user = models.User{
			Email:     info.Email,
			Name:      info.Name,
			Role:      models.RoleUser,
			CreatedAt: time.Now(),
		}
		res, insErr := users.InsertOne(ctx, user)
		if insErr != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}
		user.ID = res.InsertedID.(primitive.ObjectID)
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Database error loading user")
		return
	}

	payload, err := authResponse(&user)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	utils.RespondJSON(w, http.StatusOK, payload)
}
