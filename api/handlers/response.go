package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/eris-ems/eris-api/api"
	"github.com/eris-ems/eris-api/config"
	"github.com/eris-ems/eris-api/databases"
	"github.com/eris-ems/eris-api/dispatch"
	"github.com/eris-ems/eris-api/models"
)

// Response exported for testing purposes
type Response struct {
	DB  databases.ResponseDatabase
	TDB databases.TeamDatabase
	Hub *Hub
}

type transitionRequest struct {
	Status models.ResponseStatus `json:"status"`
}

type reassignRequest struct {
	TeamID string `json:"teamId"`
}

type updateResponseRequest struct {
	Location *string         `json:"location"`
	Notes    *string         `json:"notes"`
	Priority *int            `json:"priority"`
	Patient  *models.Patient `json:"patient"`
}

// ResponseHandler returns all responses, optionally filtered by status
// or the "active" pseudo-status (everything not yet completed)
func (re Response) ResponseHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf(fmt.Sprintf("limit not set, using default of %v, err: %v", Limit|10, err))
	}
	Page = getPage(Page, r)

	filter := bson.M{}
	switch status := r.URL.Query().Get("status"); status {
	case "":
	case "active":
		filter["response.status"] = bson.M{"$ne": models.ResponseStatusCompleted}
	default:
		if !models.ResponseStatus(status).Valid() {
			config.ErrorStatus("unrecognized response status", http.StatusBadRequest, w, fmt.Errorf("unrecognized response status: %s", status))
			return
		}
		filter["response.status"] = status
	}

	dbResp, err := re.DB.FindPage(r.Context(), filter, Limit, Page)
	if err != nil {
		config.ErrorStatus("failed to get responses", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Response{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ResponseByIDHandler returns a response by ID
func (re Response) ResponseByIDHandler(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["response_id"]

	zap.S().Debugf("response_id: %v", responseID)

	dbResp, err := re.DB.FindOne(r.Context(), bson.M{"_id": responseID})
	if err != nil {
		config.ErrorStatus("failed to get response by ID", http.StatusNotFound, w, err)
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

// TransitionResponseHandler moves a response to a new lifecycle status
// and applies the resulting team status change
func (re Response) TransitionResponseHandler(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["response_id"]

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	current, err := re.DB.FindOne(r.Context(), bson.M{"_id": responseID})
	if err != nil {
		config.ErrorStatus("failed to get response by ID", http.StatusNotFound, w, err)
		return
	}

	updated, teamUpdate, err := dispatch.Transition(*current, req.Status)
	if err != nil {
		var invalid *dispatch.InvalidTransitionError
		if errors.As(err, &invalid) {
			config.ErrorStatus("invalid response status", http.StatusBadRequest, w, err)
			return
		}
		config.ErrorStatus("failed to transition response", http.StatusInternalServerError, w, err)
		return
	}
	updated.Details.UpdatedAt = time.Now().UTC()

	dbResp, err := re.DB.ReplaceDetails(r.Context(), responseID, updated.Details)
	if err != nil {
		config.ErrorStatus("failed to update response", http.StatusInternalServerError, w, err)
		return
	}

	if teamUpdate != nil {
		_, err = re.TDB.UpdateOne(r.Context(), bson.M{"_id": teamUpdate.TeamID}, bson.M{"$set": bson.M{
			"team.status":    teamUpdate.Status,
			"team.updatedAt": time.Now().UTC(),
		}})
		if err != nil {
			zap.S().Errorw("failed to apply team status update", "teamId", teamUpdate.TeamID, "status", teamUpdate.Status, "error", err)
		}
	}

	api.CountTransition(string(req.Status))
	re.Hub.Broadcast(LiveEvent{
		Type:     "response.transitioned",
		Response: dbResp,
	})

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ReassignTeamHandler swaps the assigned team on a response
func (re Response) ReassignTeamHandler(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["response_id"]

	var req reassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.TeamID == "" {
		config.ErrorStatus("teamId is required", http.StatusBadRequest, w, fmt.Errorf("teamId is required"))
		return
	}

	if _, err := re.TDB.FindOne(r.Context(), bson.M{"_id": req.TeamID}); err != nil {
		config.ErrorStatus("failed to get team by ID", http.StatusNotFound, w, err)
		return
	}

	current, err := re.DB.FindOne(r.Context(), bson.M{"_id": responseID})
	if err != nil {
		config.ErrorStatus("failed to get response by ID", http.StatusNotFound, w, err)
		return
	}

	updated, err := dispatch.ReassignTeam(*current, req.TeamID)
	if err != nil {
		var terminal *dispatch.TerminalStateError
		if errors.As(err, &terminal) {
			config.ErrorStatus("response already completed", http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("failed to reassign team", http.StatusInternalServerError, w, err)
		return
	}
	updated.Details.UpdatedAt = time.Now().UTC()

	dbResp, err := re.DB.ReplaceDetails(r.Context(), responseID, updated.Details)
	if err != nil {
		config.ErrorStatus("failed to update response", http.StatusInternalServerError, w, err)
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

// UpdateResponseByIDHandler edits response details. Priority edits are
// rejected once the response has completed.
func (re Response) UpdateResponseByIDHandler(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["response_id"]

	var req updateResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	current, err := re.DB.FindOne(r.Context(), bson.M{"_id": responseID})
	if err != nil {
		config.ErrorStatus("failed to get response by ID", http.StatusNotFound, w, err)
		return
	}

	set := bson.M{"response.updatedAt": time.Now().UTC()}
	if req.Location != nil {
		set["response.location"] = *req.Location
	}
	if req.Notes != nil {
		set["response.notes"] = *req.Notes
	}
	if req.Patient != nil {
		set["response.patient"] = req.Patient
	}
	if req.Priority != nil {
		if current.Details.Status == models.ResponseStatusCompleted {
			config.ErrorStatus("cannot change priority of a completed response", http.StatusConflict, w,
				fmt.Errorf("response %s already completed", responseID))
			return
		}
		if *req.Priority < 1 || *req.Priority > 4 {
			config.ErrorStatus("priority must be between 1 and 4", http.StatusBadRequest, w, fmt.Errorf("invalid priority: %d", *req.Priority))
			return
		}
		set["response.priority"] = *req.Priority
	}

	dbResp, err := re.DB.UpdateOne(r.Context(), bson.M{"_id": responseID}, bson.M{"$set": set})
	if err != nil {
		config.ErrorStatus("failed to update response", http.StatusInternalServerError, w, err)
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

// DeleteResponseByIDHandler deletes a response by ID
func (re Response) DeleteResponseByIDHandler(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["response_id"]

	if err := re.DB.DeleteOne(r.Context(), bson.M{"_id": responseID}); err != nil {
		config.ErrorStatus("failed to delete response", http.StatusNotFound, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"deleted": true}`))
}
