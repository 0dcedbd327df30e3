package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Owner represents an account that owns catalog content (a platform admin
// or an independent coach). Clients who merely consume assigned plans have
// no ownership namespace of their own.
type Owner struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Ref returns the ownership namespace for content created by this owner.
func (o *Owner) Ref() OwnerRef {
	return OwnerRef{OwnerID: o.ID, Role: o.Role}
}
