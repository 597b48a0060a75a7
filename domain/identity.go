package domain

import "strings"

// Identity is an opaque account handle identifying a market participant.
// Handles are hex strings of at least 36 characters (an optional 0x prefix
// is accepted and stripped during normalization). Two identities are equal
// iff their normalized forms are byte-equal.
type Identity string

const minIdentityLen = 36

// NormalizeIdentity lowercases the handle, strips a leading 0x and validates
// the remainder as hex of sufficient length.
func NormalizeIdentity(raw string) (Identity, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "0x")
	if len(s) < minIdentityLen {
		return "", ErrInvalidIdentity
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", ErrInvalidIdentity
		}
	}
	return Identity(s), nil
}

// Validate reports whether the identity is already in normalized form.
func (i Identity) Validate() error {
	normalized, err := NormalizeIdentity(string(i))
	if err != nil {
		return err
	}
	if normalized != i {
		return ErrInvalidIdentity
	}
	return nil
}

func (i Identity) String() string {
	return string(i)
}
