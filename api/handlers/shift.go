package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/eris-ems/eris-api/config"
	"github.com/eris-ems/eris-api/databases"
	"github.com/eris-ems/eris-api/models"
)

// Shift exported for testing purposes
type Shift struct {
	DB databases.ShiftDatabase
}

type clockInRequest struct {
	MemberID string `json:"memberId"`
	TeamID   string `json:"teamId"`
	Notes    string `json:"notes"`
}

// ClockInHandler opens a work shift for a team member. A member can
// only hold one open shift at a time.
func (s Shift) ClockInHandler(w http.ResponseWriter, r *http.Request) {
	var req clockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.MemberID == "" {
		config.ErrorStatus("memberId is required", http.StatusBadRequest, w, fmt.Errorf("memberId is required"))
		return
	}

	open, _ := s.DB.FindOne(r.Context(), bson.M{"shift.memberId": req.MemberID, "shift.clockOut": nil})
	if open != nil {
		config.ErrorStatus("member already clocked in", http.StatusConflict, w, fmt.Errorf("member %s has open shift %s", req.MemberID, open.ID))
		return
	}

	now := time.Now().UTC()
	shift := models.Shift{
		ID: uuid.New().String(),
		Details: models.ShiftDetails{
			MemberID:  req.MemberID,
			TeamID:    req.TeamID,
			ClockIn:   now,
			Notes:     req.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if _, err := s.DB.InsertOne(r.Context(), shift); err != nil {
		config.ErrorStatus("failed to insert shift", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(shift)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// ClockOutHandler closes a shift and derives the hours worked
func (s Shift) ClockOutHandler(w http.ResponseWriter, r *http.Request) {
	shiftID := mux.Vars(r)["shift_id"]

	shift, err := s.DB.FindOne(r.Context(), bson.M{"_id": shiftID})
	if err != nil {
		config.ErrorStatus("failed to get shift by ID", http.StatusNotFound, w, err)
		return
	}
	if shift.Details.ClockOut != nil {
		config.ErrorStatus("shift already closed", http.StatusConflict, w, fmt.Errorf("shift %s already clocked out", shiftID))
		return
	}

	now := time.Now().UTC()
	hours := now.Sub(shift.Details.ClockIn).Hours()

	dbResp, err := s.DB.UpdateOne(r.Context(), bson.M{"_id": shiftID}, bson.M{"$set": bson.M{
		"shift.clockOut":  now,
		"shift.hours":     hours,
		"shift.updatedAt": now,
	}})
	if err != nil {
		config.ErrorStatus("failed to update shift", http.StatusInternalServerError, w, err)
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

// ShiftHandler returns all shifts, optionally filtered by member
func (s Shift) ShiftHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if memberID := r.URL.Query().Get("member_id"); memberID != "" {
		filter["shift.memberId"] = memberID
	}

	dbResp, err := s.DB.Find(r.Context(), filter)
	if err != nil {
		config.ErrorStatus("failed to get shifts", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Shift{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ShiftsByMemberIDHandler returns all shifts for a member
func (s Shift) ShiftsByMemberIDHandler(w http.ResponseWriter, r *http.Request) {
	memberID := mux.Vars(r)["member_id"]

	dbResp, err := s.DB.Find(r.Context(), bson.M{"shift.memberId": memberID})
	if err != nil {
		config.ErrorStatus("failed to get shifts by member ID", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Shift{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
