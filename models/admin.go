package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AdminUser holds the structure for the admin collection in mongo.
// Admin documents are flat, unlike the wrapped operator user documents.
type AdminUser struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Roles     []string           `json:"roles" bson:"roles"`
	Active    bool               `json:"active" bson:"active"`
	CreatedAt interface{}        `json:"createdAt" bson:"createdAt"`
	UpdatedAt interface{}        `json:"updatedAt" bson:"updatedAt"`
}
