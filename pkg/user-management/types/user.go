package types

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ACCOUNT_TYPE_EMAIL = "email"

type PlatformUser struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Account    Account    `bson:"account" json:"account"`
	Profile    Profile    `bson:"profile" json:"profile"`
	Timestamps Timestamps `bson:"timestamps" json:"timestamps"`
	Consents   []Consent  `bson:"consents" json:"consents"`
}

type Account struct {
	Type                string `bson:"type" json:"type"`
	AccountID           string `bson:"accountID" json:"accountID"`
	AccountConfirmedAt  int64  `bson:"accountConfirmedAt" json:"accountConfirmedAt"`
	Password            string `bson:"password" json:"-"`
	FailedLoginAttempts int    `bson:"failedLoginAttempts" json:"-"`
	PasswordResetToken  string `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetAt     int64  `bson:"passwordResetAt,omitempty" json:"-"`
}

type Profile struct {
	Nickname          string `bson:"nickname" json:"nickname"`
	BirthYear         int    `bson:"birthYear" json:"birthYear"`
	Gender            string `bson:"gender" json:"gender"`
	PreferredLanguage string `bson:"preferredLanguage" json:"preferredLanguage"`
}

type Timestamps struct {
	CreatedAt          int64 `bson:"createdAt" json:"createdAt"`
	UpdatedAt          int64 `bson:"updatedAt" json:"updatedAt"`
	LastLogin          int64 `bson:"lastLogin" json:"lastLogin"`
	LastPasswordChange int64 `bson:"lastPasswordChange" json:"lastPasswordChange"`
	MarkedForDeletion  int64 `bson:"markedForDeletion" json:"markedForDeletion"`
}

type Consent struct {
	Scope     string `bson:"scope" json:"scope"`
	GivenAt   int64  `bson:"givenAt" json:"givenAt"`
	RevokedAt int64  `bson:"revokedAt" json:"revokedAt"`
}

// Age derives the user's age from the birth year in the profile. Returns
// -1 when the birth year is not set.
func (u PlatformUser) Age() int {
	if u.Profile.BirthYear < 1 {
		return -1
	}
	return time.Now().Year() - u.Profile.BirthYear
}

func (u *PlatformUser) GiveConsent(scope string) {
	for i, c := range u.Consents {
		if c.Scope == scope {
			u.Consents[i].GivenAt = time.Now().Unix()
			u.Consents[i].RevokedAt = 0
			return
		}
	}
	u.Consents = append(u.Consents, Consent{
		Scope:   scope,
		GivenAt: time.Now().Unix(),
	})
}

func (u *PlatformUser) RevokeConsent(scope string) error {
	for i, c := range u.Consents {
		if c.Scope == scope && c.RevokedAt == 0 {
			u.Consents[i].RevokedAt = time.Now().Unix()
			return nil
		}
	}
	return errors.New("consent with given scope not found")
}

func (u PlatformUser) HasActiveConsent(scope string) bool {
	for _, c := range u.Consents {
		if c.Scope == scope && c.GivenAt > 0 && c.RevokedAt == 0 {
			return true
		}
	}
	return false
}
