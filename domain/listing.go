package domain

import "time"

// Listing is a posted offer to teach or learn a language at a fixed rate.
// Ids are dense per creator, assigned from 0 in creation order. Rate is in
// base units of the 18-decimal marketplace token. A listing starts active
// and is consumed by the first successful purchase; consumed is terminal.
type Listing struct {
	ID         uint64    `json:"id"`
	Creator    Identity  `json:"creator"`
	IsTeaching bool      `json:"is_teaching"`
	Language   string    `json:"language"`
	Rate       uint64    `json:"rate"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate enforces the creation invariants: positive rate, non-empty language.
func (l *Listing) Validate() error {
	if l == nil {
		return ErrInvalidListing
	}
	if l.Language == "" {
		return WrapError(ErrCodeInvalid, "invalid listing", errEmptyLanguage)
	}
	if l.Rate == 0 {
		return WrapError(ErrCodeInvalid, "invalid listing", errZeroRate)
	}
	return l.Creator.Validate()
}

var (
	errEmptyLanguage = NewError(ErrCodeInvalid, "language must not be empty")
	errZeroRate      = NewError(ErrCodeInvalid, "rate must be positive")
)
