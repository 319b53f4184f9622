package apihandlers

import (
	"errors"
	"math/rand"
	"strings"
	"time"
	"unicode"
)

func (h *HttpEndpoints) isInstanceAllowed(instanceID string) bool {
	for _, id := range h.allowedInstanceIDs {
		if id == instanceID {
			return true
		}
	}
	return false
}

func sanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkPasswordFormat requires at least 8 characters with letters and digits
func checkPasswordFormat(password string) error {
	if len(password) < 8 {
		return errors.New("password must have at least 8 characters")
	}
	hasLetter := false
	hasDigit := false
	for _, r := range password {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain letters and digits")
	}
	return nil
}

func randomWait(minTimeSec int, maxTimeSec int) {
	time.Sleep(time.Duration(rand.Intn(maxTimeSec-minTimeSec)+minTimeSec) * time.Second)
}
