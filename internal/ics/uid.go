package ics

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"touhoucal/internal/model"
)

// UIDDomain is appended to every generated UID.
const UIDDomain = "touhou-calendar"

// UID derives a stable identifier from (month, day, name), so repeated
// imports update existing entries instead of duplicating them.
func UID(ev model.Event) string {
	key := fmt.Sprintf("%02d-%02d-%s", ev.Month, ev.Day, ev.Name)
	sum := sha256.Sum256([]byte(key))
	// First 16 hex chars.
	return hex.EncodeToString(sum[:8]) + "@" + UIDDomain
}
