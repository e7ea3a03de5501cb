package models

import "time"

// Shift holds the structure for the work shift collection in mongo
type Shift struct {
	ID      string       `json:"_id" bson:"_id"`
	Details ShiftDetails `json:"shift" bson:"shift"`
	Version int32        `json:"__v" bson:"__v"`
}

// ShiftDetails holds the structure for the inner shift structure as
// defined in the shift collection in mongo. ClockOut is nil while the
// member is still on the clock; Hours is derived when they clock out.
type ShiftDetails struct {
	MemberID  string      `json:"memberId" bson:"memberId"`
	TeamID    string      `json:"teamId" bson:"teamId"`
	ClockIn   time.Time   `json:"clockIn" bson:"clockIn"`
	ClockOut  *time.Time  `json:"clockOut" bson:"clockOut"`
	Hours     float64     `json:"hours" bson:"hours"`
	Notes     string      `json:"notes" bson:"notes"`
	CreatedAt interface{} `json:"createdAt" bson:"createdAt"`
	UpdatedAt interface{} `json:"updatedAt" bson:"updatedAt"`
}
