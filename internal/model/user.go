package model

import "time"

// User is a requester record as stored in the `users` table.  Accounts are
// provisioned by the identity system; this service only resolves an external
// login identity (the JWT subject) to a row and reads the linked profile.
//
// Fields:
//  ID         – primary key identifier.
//  ExternalID – identity-provider subject mapped to this user.
//  Name       – display name joined into calendar views.
//  Email      – contact address.
//  ProfileID  – foreign key into the profiles table.
//  IsActive   – whether the account is active.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type User struct {
	ID         uint64    // users.id
	ExternalID string    // users.external_id
	Name       string    // users.name
	Email      string    // users.email
	ProfileID  uint64    // users.profile_id
	IsActive   bool      // users.is_active
	CreatedAt  time.Time // users.created_at
	UpdatedAt  time.Time // users.updated_at
}

// Profile maps a profile ID to its name and capabilities.  IsAdmin is the
// single authorization flag the booking core consults: it decides the
// initial reservation status and gates approve/reject.
type Profile struct {
	ID      uint64 // profiles.id
	Name    string // profiles.name
	IsAdmin bool   // profiles.is_admin
}
