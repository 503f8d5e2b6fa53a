// Package identity generates respondent identifiers.
//
// Each respondent gets a pair of codes: a high-entropy internal token used for
// research bookkeeping, and a shorter readable code shared with the respondent
// so they can reference their interview in follow-up questionnaires.
package identity

import (
	"time"

	"github.com/google/uuid"
)

// timestampLayout is a compact second-resolution timestamp, e.g. 20260825143007.
const timestampLayout = "20060102150405"

// Identifier pairs the internal token with its display-friendly derivative.
// Both are immutable for the lifetime of a session.
type Identifier struct {
	// ReadableID is the short code shown to respondents. It is derived from
	// the same components as InternalID and is not a uniqueness boundary.
	ReadableID string `json:"readableId"`

	// InternalID combines the full timestamp with a slice of a freshly drawn
	// UUID; collisions require two draws in the same second to share their
	// first eight hex characters.
	InternalID string `json:"internalId"`
}

// Generate produces a new identifier pair from the current time and a secure
// random source.
func Generate() Identifier {
	return generateAt(time.Now(), uuid.New())
}

func generateAt(now time.Time, random uuid.UUID) Identifier {
	ts := now.Format(timestampLayout)
	slice := random.String()[:8]
	return Identifier{
		InternalID: ts + "-" + slice,
		ReadableID: ts[len(ts)-6:] + "-" + slice[:6],
	}
}
