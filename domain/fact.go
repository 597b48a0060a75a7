package domain

import (
	"fmt"
	"time"
)

// FactKind enumerates the closed set of record types the registry emits.
type FactKind string

const (
	FactUserCreated      FactKind = "user_created"
	FactListingCreated   FactKind = "listing_created"
	FactListingPurchased FactKind = "listing_purchased"
)

// Fact is an immutable record of a state-changing event. The ordinal is
// assigned by the log at append time and totally orders all facts; it is
// zero until the fact has been appended.
type Fact struct {
	Ordinal    uint64   `json:"ordinal"`
	Kind       FactKind `json:"kind"`
	Creator    Identity `json:"creator"`
	ListingID  uint64   `json:"listing_id"`
	Buyer      Identity `json:"buyer,omitempty"`
	IsTeaching bool     `json:"is_teaching,omitempty"`
	Language   string   `json:"language,omitempty"`
	Rate       uint64   `json:"rate,omitempty"`
	Amount     uint64   `json:"amount,omitempty"`

	Languages      []string `json:"languages,omitempty"`
	Certifications []string `json:"certifications,omitempty"`

	RecordedAt time.Time `json:"recorded_at"`
}

// NewUserCreated records a one-time profile registration.
func NewUserCreated(p *Profile) *Fact {
	return &Fact{
		Kind:           FactUserCreated,
		Creator:        p.Owner,
		Languages:      p.Languages,
		Certifications: p.Certifications,
		RecordedAt:     time.Now().UTC(),
	}
}

// NewListingCreated records a freshly created, active listing.
func NewListingCreated(l *Listing) *Fact {
	return &Fact{
		Kind:       FactListingCreated,
		Creator:    l.Creator,
		ListingID:  l.ID,
		IsTeaching: l.IsTeaching,
		Language:   l.Language,
		Rate:       l.Rate,
		RecordedAt: time.Now().UTC(),
	}
}

// NewListingPurchased records a consumed listing and the amount moved.
func NewListingPurchased(buyer Identity, l *Listing) *Fact {
	return &Fact{
		Kind:       FactListingPurchased,
		Creator:    l.Creator,
		ListingID:  l.ID,
		Buyer:      buyer,
		Amount:     l.Rate,
		RecordedAt: time.Now().UTC(),
	}
}

// Key identifies a fact for at-least-once deduplication. Consumers treat two
// facts with the same key as replays of one event.
func (f *Fact) Key() string {
	return fmt.Sprintf("%s/%d/%s", f.Creator, f.ListingID, f.Kind)
}
