package types

import (
	"testing"
	"time"
)

func TestConsentHandling(t *testing.T) {
	t.Run("give and check consent", func(t *testing.T) {
		user := PlatformUser{}
		if user.HasActiveConsent("data_processing") {
			t.Error("consent should not be active yet")
		}

		user.GiveConsent("data_processing")
		if !user.HasActiveConsent("data_processing") {
			t.Error("consent should be active")
		}
		if user.HasActiveConsent("marketing") {
			t.Error("other scope should not be active")
		}
	})

	t.Run("revoke consent", func(t *testing.T) {
		user := PlatformUser{}
		user.GiveConsent("data_processing")

		if err := user.RevokeConsent("data_processing"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if user.HasActiveConsent("data_processing") {
			t.Error("revoked consent should not be active")
		}

		if err := user.RevokeConsent("data_processing"); err == nil {
			t.Error("revoking twice should fail")
		}
	})

	t.Run("re-giving a revoked consent reuses the record", func(t *testing.T) {
		user := PlatformUser{}
		user.GiveConsent("data_processing")
		if err := user.RevokeConsent("data_processing"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}

		user.GiveConsent("data_processing")
		if !user.HasActiveConsent("data_processing") {
			t.Error("consent should be active again")
		}
		if len(user.Consents) != 1 {
			t.Errorf("unexpected consent list: %v", user.Consents)
		}
	})
}

func TestAge(t *testing.T) {
	t.Run("without birth year", func(t *testing.T) {
		user := PlatformUser{}
		if user.Age() != -1 {
			t.Errorf("unexpected age: %d", user.Age())
		}
	})

	t.Run("with birth year", func(t *testing.T) {
		user := PlatformUser{Profile: Profile{BirthYear: time.Now().Year() - 30}}
		if user.Age() != 30 {
			t.Errorf("unexpected age: %d", user.Age())
		}
	})
}
