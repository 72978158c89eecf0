package models

import "time"

// UserDocument is the stored shape of an identity in the users collection.
type UserDocument struct {
	ID               string                `bson:"_id"`
	FullName         string                `bson:"fullName"`
	Username         string                `bson:"username"`
	Email            string                `bson:"email"`
	PhoneNumber      string                `bson:"phoneNumber,omitempty"`
	Nationality      string                `bson:"nationality,omitempty"`
	Password         string                `bson:"password"`
	ProfilePicture   string                `bson:"profilePicture,omitempty"`
	Role             string                `bson:"role"`
	IsVerified       bool                  `bson:"isVerified"`
	Verification     *VerificationDocument `bson:"verification,omitempty"`
	ResetCode        string                `bson:"resetPasswordToken,omitempty"`
	ResetExpiresAt   *time.Time            `bson:"resetPasswordExpires,omitempty"`
	RefreshTokenHash string                `bson:"refreshToken,omitempty"`
	CreatedAt        time.Time             `bson:"createdAt"`
	UpdatedAt        time.Time             `bson:"updatedAt"`
}

type VerificationDocument struct {
	Kind      string     `bson:"kind"`
	Secret    string     `bson:"secret"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty"`
}
