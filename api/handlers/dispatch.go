package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/eris-ems/eris-api/api"
	"github.com/eris-ems/eris-api/config"
	"github.com/eris-ems/eris-api/databases"
	"github.com/eris-ems/eris-api/dispatch"
	"github.com/eris-ems/eris-api/models"
	templates "github.com/eris-ems/eris-api/templates/html"
)

// Dispatch exported for testing purposes
type Dispatch struct {
	TDB  databases.TeamDatabase
	RDB  databases.ResponseDatabase
	Hub  *Hub
	Conf config.Config
}

type createDispatchRequest struct {
	TeamID   string          `json:"teamId"`
	Priority int             `json:"priority"`
	Location string          `json:"location"`
	Patient  *models.Patient `json:"patient"`
}

// RecommendTeamsHandler ranks the current team roster against a
// situation type. Unknown situation types return an empty list rather
// than an error so dispatcher UIs can degrade gracefully.
func (d Dispatch) RecommendTeamsHandler(w http.ResponseWriter, r *http.Request) {
	situation := r.URL.Query().Get("situation")
	if situation == "" {
		config.ErrorStatus("query param situation is required", http.StatusBadRequest, w, fmt.Errorf("query param situation is required"))
		return
	}

	teams, err := d.TDB.Find(r.Context(), bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get teams", http.StatusInternalServerError, w, err)
		return
	}

	ranked := dispatch.RankTeams(teams, dispatch.SituationType(situation))

	b, err := json.Marshal(ranked)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateDispatchHandler dispatches a team to an incident and creates
// the response record
func (d Dispatch) CreateDispatchHandler(w http.ResponseWriter, r *http.Request) {
	var req createDispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Priority < 1 || req.Priority > 4 {
		config.ErrorStatus("priority must be between 1 and 4", http.StatusBadRequest, w, fmt.Errorf("invalid priority: %d", req.Priority))
		return
	}
	if req.Location == "" {
		config.ErrorStatus("location is required", http.StatusBadRequest, w, fmt.Errorf("location is required"))
		return
	}

	team, err := d.TDB.FindOne(r.Context(), bson.M{"_id": req.TeamID})
	if err != nil {
		config.ErrorStatus("failed to get team by ID", http.StatusNotFound, w, err)
		return
	}

	response := dispatch.NewResponse(req.TeamID, req.Priority, req.Location, req.Patient)
	response.Details.CreatedAt = response.Details.DispatchTime
	response.Details.UpdatedAt = response.Details.DispatchTime

	if _, err := d.RDB.InsertOne(r.Context(), response); err != nil {
		config.ErrorStatus("failed to insert response", http.StatusInternalServerError, w, err)
		return
	}

	// dispatched teams go on-call until they report on-scene
	_, err = d.TDB.UpdateOne(r.Context(), bson.M{"_id": req.TeamID}, bson.M{"$set": bson.M{
		"team.status":    models.TeamStatusOnCall,
		"team.updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		zap.S().Errorw("failed to set dispatched team on-call", "teamId", req.TeamID, "error", err)
	}

	api.CountDispatch(req.Priority)
	d.Hub.Broadcast(LiveEvent{
		Type:     "dispatch.created",
		Response: &response,
	})

	if req.Priority == 4 {
		go d.sendHighPriorityAlert(response, team.Details.Name)
	}

	b, err := json.Marshal(response)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

func (d Dispatch) sendHighPriorityAlert(response models.Response, teamName string) {
	toEmail := d.Conf.OpsAlertEmail
	if toEmail == "" {
		zap.S().Warn("OPS_ALERT_EMAIL not set, skipping high priority dispatch alert")
		return
	}

	subject := "Priority 4 dispatch"
	body := fmt.Sprintf("Response %s dispatched.\nTeam: %s\nLocation: %s\nDispatched at: %s",
		response.ID, teamName, response.Details.Location,
		response.Details.DispatchTime.Format(time.RFC3339))

	from := mail.NewEmail("ERIS Dispatch", "no-reply@eris-ems.org")
	to := mail.NewEmail("Operations", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, templates.RenderGenericEmail(subject, body))
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	resp, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send high priority dispatch alert", "error", err)
		return
	}
	if resp.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", resp.StatusCode, "body", resp.Body)
	}
}
