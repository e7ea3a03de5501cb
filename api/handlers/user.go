package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eris-ems/eris-api/config"
	"github.com/eris-ems/eris-api/databases"
	"github.com/eris-ems/eris-api/models"
)

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

// UserHandler returns a user given a userID
func (u User) UserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	zap.S().Debugf("user_id: %v", userID)

	dbResp, err := u.DB.FindOne(r.Context(), bson.M{"_id": userID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}
	dbResp.Details.Password = ""

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UserCreateHandler creates a user
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var details models.UserDetails
	err := json.NewDecoder(r.Body).Decode(&details)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if details.Email == "" || details.Password == "" {
		config.ErrorStatus("email and password are required", http.StatusBadRequest, w, fmt.Errorf("email and password are required"))
		return
	}

	// check if the user already exists
	existingUser, _ := u.DB.FindOne(r.Context(), bson.M{"user.email": details.Email})
	if existingUser != nil {
		config.ErrorStatus("email already exists", http.StatusConflict, w, fmt.Errorf("duplicate email"))
		return
	}

	// hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(details.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}
	details.Password = string(hashedPassword)
	details.CreatedAt = time.Now().UTC()
	details.UpdatedAt = details.CreatedAt

	user := models.User{ID: uuid.New().String(), Details: details}
	if _, err := u.DB.InsertOne(r.Context(), user); err != nil {
		config.ErrorStatus("failed to insert user", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// UserCheckEmailHandler checks if an email exists using POST
func (u User) UserCheckEmailHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var details models.UserDetails
	err := json.NewDecoder(r.Body).Decode(&details)
	if err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}

	// check if the user already exists
	existingUser, _ := u.DB.FindOne(r.Context(), bson.M{"user.email": details.Email})
	if existingUser != nil {
		config.ErrorStatus("email already exists", http.StatusConflict, w, fmt.Errorf("duplicate email"))
		return
	}

	w.WriteHeader(http.StatusOK)
}

// UpdateUserByIDHandler updates a user's profile fields by ID
func (u User) UpdateUserByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	var details models.UserDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{"user.updatedAt": time.Now().UTC()}
	if details.FirstName != "" {
		set["user.firstName"] = details.FirstName
	}
	if details.LastName != "" {
		set["user.lastName"] = details.LastName
	}
	if details.Phone != "" {
		set["user.phone"] = details.Phone
	}
	if details.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(details.Password), bcrypt.DefaultCost)
		if err != nil {
			config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
			return
		}
		set["user.password"] = string(hashedPassword)
	}

	dbResp, err := u.DB.UpdateOne(r.Context(), bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		config.ErrorStatus("failed to update user", http.StatusNotFound, w, err)
		return
	}
	dbResp.Details.Password = ""

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
