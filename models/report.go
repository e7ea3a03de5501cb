package models

// Report holds the structure for the incident report collection in mongo
type Report struct {
	ID      string        `json:"_id" bson:"_id"`
	Details ReportDetails `json:"report" bson:"report"`
	Version int32         `json:"__v" bson:"__v"`
}

// ReportDetails holds the structure for the inner report structure as
// defined in the report collection in mongo. A report documents a
// single completed (or in-progress) response.
type ReportDetails struct {
	ResponseID       string      `json:"responseId" bson:"responseId"`
	Title            string      `json:"title" bson:"title"`
	EmtName          string      `json:"emtName" bson:"emtName"`
	PatientName      string      `json:"patientName" bson:"patientName"`
	PatientCondition string      `json:"patientCondition" bson:"patientCondition"`
	Procedures       string      `json:"procedures" bson:"procedures"`
	Medications      string      `json:"medications" bson:"medications"`
	VitalSigns       string      `json:"vitalSigns" bson:"vitalSigns"`
	TransportDetails string      `json:"transportDetails" bson:"transportDetails"`
	ScenePhotoURL    string      `json:"scenePhotoUrl" bson:"scenePhotoUrl"`
	Notes            string      `json:"notes" bson:"notes"`
	CreatedAt        interface{} `json:"createdAt" bson:"createdAt"`
	UpdatedAt        interface{} `json:"updatedAt" bson:"updatedAt"`
}
