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

	"github.com/eris-ems/eris-api/config"
	"github.com/eris-ems/eris-api/databases"
	"github.com/eris-ems/eris-api/models"
)

// Report exported for testing purposes
type Report struct {
	DB  databases.ReportDatabase
	RDB databases.ResponseDatabase
}

// ReportHandler returns all incident reports
func (rep Report) ReportHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := rep.DB.Find(r.Context(), bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Report{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ReportByIDHandler returns an incident report by ID
func (rep Report) ReportByIDHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	zap.S().Debugf("report_id: %v", reportID)

	dbResp, err := rep.DB.FindOne(r.Context(), bson.M{"_id": reportID})
	if err != nil {
		config.ErrorStatus("failed to get report by ID", http.StatusNotFound, w, err)
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

// ReportsByResponseIDHandler returns all incident reports filed
// against a response
func (rep Report) ReportsByResponseIDHandler(w http.ResponseWriter, r *http.Request) {
	responseID := mux.Vars(r)["response_id"]

	dbResp, err := rep.DB.Find(r.Context(), bson.M{"report.responseId": responseID})
	if err != nil {
		config.ErrorStatus("failed to get reports by response ID", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Report{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateReportHandler files an incident report against a response
func (rep Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	var report models.Report
	if err := json.NewDecoder(r.Body).Decode(&report.Details); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if report.Details.ResponseID == "" {
		config.ErrorStatus("responseId is required", http.StatusBadRequest, w, fmt.Errorf("responseId is required"))
		return
	}
	if _, err := rep.RDB.FindOne(r.Context(), bson.M{"_id": report.Details.ResponseID}); err != nil {
		config.ErrorStatus("failed to get response by ID", http.StatusNotFound, w, err)
		return
	}

	report.ID = uuid.New().String()
	report.Details.CreatedAt = time.Now().UTC()
	report.Details.UpdatedAt = report.Details.CreatedAt

	if _, err := rep.DB.InsertOne(r.Context(), report); err != nil {
		config.ErrorStatus("failed to insert report", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(report)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateReportByIDHandler updates an incident report by ID
func (rep Report) UpdateReportByIDHandler(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["report_id"]

	var details models.ReportDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{"report.updatedAt": time.Now().UTC()}
	if details.Title != "" {
		set["report.title"] = details.Title
	}
	if details.EmtName != "" {
		set["report.emtName"] = details.EmtName
	}
	if details.PatientName != "" {
		set["report.patientName"] = details.PatientName
	}
	if details.PatientCondition != "" {
		set["report.patientCondition"] = details.PatientCondition
	}
	if details.Procedures != "" {
		set["report.procedures"] = details.Procedures
	}
	if details.Medications != "" {
		set["report.medications"] = details.Medications
	}
	if details.VitalSigns != "" {
		set["report.vitalSigns"] = details.VitalSigns
	}
	if details.TransportDetails != "" {
		set["report.transportDetails"] = details.TransportDetails
	}
	if details.ScenePhotoURL != "" {
		set["report.scenePhotoUrl"] = details.ScenePhotoURL
	}
	if details.Notes != "" {
		set["report.notes"] = details.Notes
	}

	dbResp, err := rep.DB.UpdateOne(r.Context(), bson.M{"_id": reportID}, bson.M{"$set": set})
	if err != nil {
		config.ErrorStatus("failed to update report", http.StatusNotFound, w, err)
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
