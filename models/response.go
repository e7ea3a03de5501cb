package models

import "time"

// ResponseStatus is the closed set of states a response moves through:
// dispatched -> on-scene -> transporting -> completed.
type ResponseStatus string

// The four recognized response statuses. Completed is terminal.
const (
	ResponseStatusDispatched   ResponseStatus = "dispatched"
	ResponseStatusOnScene      ResponseStatus = "on-scene"
	ResponseStatusTransporting ResponseStatus = "transporting"
	ResponseStatusCompleted    ResponseStatus = "completed"
)

// Valid reports whether s is one of the recognized response statuses.
func (s ResponseStatus) Valid() bool {
	switch s {
	case ResponseStatusDispatched, ResponseStatusOnScene, ResponseStatusTransporting, ResponseStatusCompleted:
		return true
	}
	return false
}

// Response holds the structure for the response collection in mongo.
// The _id is the uuid assigned at dispatch time, not a mongo ObjectID.
type Response struct {
	ID      string          `json:"_id" bson:"_id"`
	Details ResponseDetails `json:"response" bson:"response"`
	Version int32           `json:"__v" bson:"__v"`
}

// ResponseDetails holds the structure for the inner response structure
// as defined in the response collection in mongo.
//
// DispatchTime is set once at creation. ArrivalTime and CompletionTime
// are nil until the response first enters on-scene and completed
// respectively, and are never rewritten after that.
type ResponseDetails struct {
	TeamID         string         `json:"teamId" bson:"teamId"`
	Priority       int            `json:"priority" bson:"priority"`
	Status         ResponseStatus `json:"status" bson:"status"`
	Location       string         `json:"location" bson:"location"`
	DispatchTime   time.Time      `json:"dispatchTime" bson:"dispatchTime"`
	ArrivalTime    *time.Time     `json:"arrivalTime" bson:"arrivalTime"`
	CompletionTime *time.Time     `json:"completionTime" bson:"completionTime"`
	Patient        *Patient       `json:"patient" bson:"patient"`
	Notes          string         `json:"notes" bson:"notes"`
	CreatedAt      interface{}    `json:"createdAt" bson:"createdAt"`
	UpdatedAt      interface{}    `json:"updatedAt" bson:"updatedAt"`
}

// Patient is the optional patient record attached to a response.
type Patient struct {
	Name      string `json:"name" bson:"name"`
	Condition string `json:"condition" bson:"condition"`
}
