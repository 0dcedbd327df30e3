package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role distinguishes ownership namespaces. Platform admins and independent
// coaches share the catalog but never edit each other's rows directly.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleCoach Role = "coach"
)

// Visibility controls whether foreign owners can see (and therefore clone)
// a content record.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// OwnerRef is the acting owner of an operation: the (ownerId, ownerRole)
// pair derived from the session by the auth layer.
type OwnerRef struct {
	OwnerID primitive.ObjectID
	Role    Role
}

// Ownership is embedded in every owned content record. ParentID, when set,
// names the single source record this one was cloned from. Parent linkage is
// always one hop: a clone of a clone points at the clone it was copied from,
// never at the original ancestor.
type Ownership struct {
	OwnerID   primitive.ObjectID  `bson:"uploadedBy" json:"uploadedBy"`
	OwnerRole Role                `bson:"uploaderRole" json:"uploaderRole"`
	ParentID  *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"`
}

// OwnedBy reports whether the record belongs to the given owner namespace.
func (o Ownership) OwnedBy(owner OwnerRef) bool {
	return o.OwnerID == owner.OwnerID && o.OwnerRole == owner.Role
}
