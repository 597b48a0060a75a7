package transport

// CreateUserRequest registers the caller's profile.
type CreateUserRequest struct {
	Languages      []string `json:"languages"`
	Certifications []string `json:"certifications"`
}

// CreateListingRequest posts a teaching or learning offer. Rate is in base
// units of the marketplace token.
type CreateListingRequest struct {
	IsTeaching bool   `json:"is_teaching"`
	Language   string `json:"language"`
	Rate       uint64 `json:"rate"`
}

// ApproveRequest grants the spender an allowance over the caller's balance.
type ApproveRequest struct {
	Spender string `json:"spender"`
	Amount  uint64 `json:"amount"`
}

// MintRequest seeds a balance; only honored while bootstrap mint is enabled.
type MintRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}
