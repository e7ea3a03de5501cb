package models

// User holds the structure for the user collection in mongo
type User struct {
	ID      string      `json:"_id" bson:"_id"`
	Details UserDetails `json:"user" bson:"user"`
	Version int32       `json:"__v" bson:"__v"`
}

// UserDetails holds the structure for the inner user structure as
// defined in the user collection in mongo. Operators log in with email
// or phone; employees additionally get access to team management and
// response tracking.
type UserDetails struct {
	FirstName  string      `json:"firstName" bson:"firstName"`
	LastName   string      `json:"lastName" bson:"lastName"`
	Email      string      `json:"email" bson:"email"`
	Phone      string      `json:"phone" bson:"phone"`
	Password   string      `json:"password" bson:"password"`
	IsEmployee bool        `json:"isEmployee" bson:"isEmployee"`
	CreatedAt  interface{} `json:"createdAt" bson:"createdAt"`
	UpdatedAt  interface{} `json:"updatedAt" bson:"updatedAt"`
}
