package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/eris-ems/eris-api/api"
	"github.com/eris-ems/eris-api/config"
	"github.com/eris-ems/eris-api/databases"
	"github.com/eris-ems/eris-api/models"
)

var (
	// Page denotes the starting Page for pagination results
	Page = 0
)

// Team exported for testing purposes
type Team struct {
	DB  databases.TeamDatabase
	RDB databases.ResponseDatabase
}

// TeamAvailability summarizes team counts per status for the
// availability dashboard.
type TeamAvailability struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	OnCall      int `json:"onCall"`
	OnScene     int `json:"onScene"`
	Unavailable int `json:"unavailable"`
}

// TeamHandler returns all teams, optionally filtered by status
func (t Team) TeamHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf(fmt.Sprintf("limit not set, using default of %v, err: %v", Limit|10, err))
	}
	Page = getPage(Page, r)

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.TeamStatus(status).Valid() {
			config.ErrorStatus("unrecognized team status", http.StatusBadRequest, w, fmt.Errorf("unrecognized team status: %s", status))
			return
		}
		filter["team.status"] = status
	}

	dbResp, err := t.DB.FindPage(r.Context(), filter, Limit, Page)
	if err != nil {
		config.ErrorStatus("failed to get teams", http.StatusNotFound, w, err)
		return
	}
	// Because the frontend requires that the data elements inside models.Team exist, if
	// len == 0 then we will just return an empty data object
	if len(dbResp) == 0 {
		dbResp = []models.Team{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// TeamByIDHandler returns a team by ID
func (t Team) TeamByIDHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["team_id"]

	zap.S().Debugf("team_id: %v", teamID)

	dbResp, err := t.DB.FindOne(r.Context(), bson.M{"_id": teamID})
	if err != nil {
		config.ErrorStatus("failed to get team by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateTeamHandler creates a team
func (t Team) CreateTeamHandler(w http.ResponseWriter, r *http.Request) {
	var team models.Team
	if err := json.NewDecoder(r.Body).Decode(&team.Details); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if team.Details.Name == "" {
		config.ErrorStatus("team name is required", http.StatusBadRequest, w, fmt.Errorf("team name is required"))
		return
	}
	if team.Details.Status == "" {
		team.Details.Status = models.TeamStatusAvailable
	}
	if !team.Details.Status.Valid() {
		config.ErrorStatus("unrecognized team status", http.StatusBadRequest, w, fmt.Errorf("unrecognized team status: %s", team.Details.Status))
		return
	}
	if team.Details.Members == nil {
		team.Details.Members = []models.TeamMember{}
	}

	team.ID = uuid.New().String()
	team.Details.CreatedAt = time.Now().UTC()
	team.Details.UpdatedAt = team.Details.CreatedAt

	if _, err := t.DB.InsertOne(r.Context(), team); err != nil {
		config.ErrorStatus("failed to insert team", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(team)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateTeamByIDHandler updates a team by ID
func (t Team) UpdateTeamByIDHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["team_id"]

	var details models.TeamDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if details.Status != "" && !details.Status.Valid() {
		config.ErrorStatus("unrecognized team status", http.StatusBadRequest, w, fmt.Errorf("unrecognized team status: %s", details.Status))
		return
	}

	set := bson.M{"team.updatedAt": time.Now().UTC()}
	if details.Name != "" {
		set["team.name"] = details.Name
	}
	if details.Grade != 0 {
		set["team.grade"] = details.Grade
	}
	if details.Status != "" {
		set["team.status"] = details.Status
	}
	if details.Members != nil {
		set["team.members"] = details.Members
	}
	if details.BaseStation != "" {
		set["team.baseStation"] = details.BaseStation
	}

	dbResp, err := t.DB.UpdateOne(r.Context(), bson.M{"_id": teamID}, bson.M{"$set": set})
	if err != nil {
		config.ErrorStatus("failed to update team", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteTeamByIDHandler deletes a team by ID. Teams with an active
// response are protected from deletion.
func (t Team) DeleteTeamByIDHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["team_id"]

	active, err := t.RDB.CountDocuments(r.Context(), bson.M{
		"response.teamId": teamID,
		"response.status": bson.M{"$ne": models.ResponseStatusCompleted},
	})
	if err != nil {
		config.ErrorStatus("failed to count active responses", http.StatusInternalServerError, w, err)
		return
	}
	if active > 0 {
		config.ErrorStatus("team has active responses", http.StatusConflict, w, fmt.Errorf("team %s has %d active responses", teamID, active))
		return
	}

	if err := t.DB.DeleteOne(r.Context(), bson.M{"_id": teamID}); err != nil {
		config.ErrorStatus("failed to delete team", http.StatusNotFound, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"deleted": true}`))
}

// TeamAvailabilityHandler returns team counts per status for the
// availability dashboard
func (t Team) TeamAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	teams, err := t.DB.Find(ctx, bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get teams", http.StatusInternalServerError, w, err)
		return
	}

	avail := TeamAvailability{Total: len(teams)}
	for _, team := range teams {
		switch team.Details.Status {
		case models.TeamStatusAvailable:
			avail.Available++
		case models.TeamStatusOnCall:
			avail.OnCall++
		case models.TeamStatusOnScene:
			avail.OnScene++
		case models.TeamStatusUnavailable:
			avail.Unavailable++
		}
	}

	b, err := json.Marshal(avail)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func getPage(Page int, r *http.Request) int {
	if r.URL.Query().Get("page") == "" {
		zap.S().Warnf("page not set, using default of %v", Page)
	} else {
		var err error
		Page, err = strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			zap.S().Errorf(fmt.Sprintf("error parsing page number: %v", err))
		}
		if Page < 0 {
			zap.S().Warnf(fmt.Sprintf("cannot process page number less than 1. Got: %v", Page))
			return 0
		}
	}
	return Page
}
