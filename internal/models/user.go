package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user.
	ID primitive.ObjectID `bson:"_id" json:"_id"`

	// Email is the user's email address (unique).
	// Trips, comments and fishing groups reference users by email.
	Email string `bson:"email" json:"email"`

	// Name is the display name of the user.
	Name string `bson:"name" json:"name"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized to clients.
	PasswordHash string `bson:"hash" json:"-"`

	// Role is either RoleUser or RoleAdmin.
	Role string `bson:"role" json:"role"`

	// FishingGroups lists the ids of the groups the user belongs to.
	FishingGroups []primitive.ObjectID `bson:"fishingGroup" json:"fishingGroup"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanModify reports whether the user may change a document owned by ownerEmail.
// Admins may change anything.
func (u *User) CanModify(ownerEmail string) bool {
	return u.Email == ownerEmail || u.IsAdmin()
}

// InGroup reports whether the user is a member of the given group.
func (u *User) InGroup(groupID primitive.ObjectID) bool {
	for _, id := range u.FishingGroups {
		if id == groupID {
			return true
		}
	}
	return false
}

// NewUser creates a regular user with no group memberships.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		ID:            primitive.NewObjectID(),
		Email:         email,
		Name:          name,
		PasswordHash:  passwordHash,
		Role:          RoleUser,
		FishingGroups: []primitive.ObjectID{},
	}
}
