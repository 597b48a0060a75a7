package domain

import "time"

// Profile describes a registered participant: the languages they declare and
// any certifications they claim. Both sequences keep insertion order and are
// not deduplicated. Registration is one-time per identity.
type Profile struct {
	Owner          Identity  `json:"owner"`
	Languages      []string  `json:"languages"`
	Certifications []string  `json:"certifications"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *Profile) IsRegistered() bool {
	return p != nil && p.Owner != ""
}
