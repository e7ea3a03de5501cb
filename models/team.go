package models

// TeamStatus is the closed set of availability states a response team
// can be in. Team status is only changed by response lifecycle
// transitions and by explicit administrative edits.
type TeamStatus string

// The four recognized team statuses.
const (
	TeamStatusAvailable   TeamStatus = "available"
	TeamStatusOnCall      TeamStatus = "on-call"
	TeamStatusOnScene     TeamStatus = "on-scene"
	TeamStatusUnavailable TeamStatus = "unavailable"
)

// Valid reports whether s is one of the recognized team statuses.
func (s TeamStatus) Valid() bool {
	switch s {
	case TeamStatusAvailable, TeamStatusOnCall, TeamStatusOnScene, TeamStatusUnavailable:
		return true
	}
	return false
}

// Team holds the structure for the team collection in mongo
type Team struct {
	ID      string      `json:"_id" bson:"_id"`
	Details TeamDetails `json:"team" bson:"team"`
	Version int32       `json:"__v" bson:"__v"`
}

// TeamDetails holds the structure for the inner team structure as
// defined in the team collection in mongo
type TeamDetails struct {
	Name        string       `json:"name" bson:"name"`
	Grade       int          `json:"grade" bson:"grade"`
	Status      TeamStatus   `json:"status" bson:"status"`
	Members     []TeamMember `json:"members" bson:"members"`
	BaseStation string       `json:"baseStation" bson:"baseStation"`
	CreatedAt   interface{}  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   interface{}  `json:"updatedAt" bson:"updatedAt"`
}

// TeamMember is a single crew member on a response team. Qualification
// is a label from the fixed vocabulary used by the situation
// requirement table ("Basic Life Support", "Critical Care", ...).
type TeamMember struct {
	ID            string `json:"id" bson:"id"`
	Name          string `json:"name" bson:"name"`
	Role          string `json:"role" bson:"role"`
	Qualification string `json:"qualification" bson:"qualification"`
}
