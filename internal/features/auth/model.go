package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a marketplace account can hold.
const (
	RoleClient   = "client"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// User represents a registered account in the system
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthProvider string             `bson:"authProvider" json:"authProvider"` // currently "google"
	ProviderID   string             `bson:"providerId" json:"-"`
	Email        string             `bson:"email" json:"email"`
	Username     string             `bson:"username" json:"username"`
	DisplayName  string             `bson:"displayName" json:"displayName"`
	Bio          string             `bson:"bio" json:"bio"`
	AvatarURL    string             `bson:"avatarUrl" json:"avatarUrl"`
	Role         string             `bson:"role" json:"role"`
	IsSuperAdmin bool               `bson:"isSuperAdmin" json:"isSuperAdmin"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	IsDeleted    bool               `bson:"isDeleted" json:"-"`
	DeletedAt    *time.Time         `bson:"deletedAt,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the user may perform moderation operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperAdmin
}

// GoogleAuthRequest represents the payload for Google sign-in
type GoogleAuthRequest struct {
	GoogleIDToken string `json:"googleIdToken" binding:"required"`
	Role          string `json:"role" binding:"omitempty,oneof=client provider"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}

// UpdateProfileRequest represents the payload for updating the own profile
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" binding:"omitempty,min=3,max=50"`
	Bio         string `json:"bio" binding:"omitempty,max=160"`
	AvatarURL   string `json:"avatarUrl" binding:"omitempty,url"`
}

// PublicProfile is the subset of User safe for public display
type PublicProfile struct {
	ID          primitive.ObjectID `json:"id"`
	Username    string             `json:"username"`
	DisplayName string             `json:"displayName"`
	Bio         string             `json:"bio"`
	AvatarURL   string             `json:"avatarUrl"`
	Role        string             `json:"role"`
	JoinedAt    time.Time          `json:"joinedAt"`
}

// ToPublicProfile strips private fields for public display
func (u *User) ToPublicProfile() PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
		JoinedAt:    u.CreatedAt,
	}
}
