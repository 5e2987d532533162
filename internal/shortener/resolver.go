package shortener

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// DenyReason explains why a resolution refused access.
type DenyReason string

const (
	DenyNone     DenyReason = ""
	DenyInactive DenyReason = "inactive"
	DenyExpired  DenyReason = "expired"
	DenyPassword DenyReason = "password"
)

// Resolution is the outcome of resolving a short code. Click recording only
// runs when AccessGranted is true; the gating checks all happen here, before
// any analytics work.
type Resolution struct {
	LinkID        string
	OwnerID       string
	TargetURL     string
	AccessGranted bool
	DenyReason    DenyReason
}

// Resolver resolves short codes to their targets, enforcing the link's
// active flag, expiry, and password.
type Resolver struct {
	links Repository
}

// NewResolver creates a resolver over the given repository.
func NewResolver(links Repository) *Resolver {
	return &Resolver{links: links}
}

// Resolve looks up code and checks access rules. password is the plaintext
// candidate supplied by the visitor, empty when none was provided.
// Returns ErrNotFound when no link matches the code.
func (r *Resolver) Resolve(ctx context.Context, code Code, password string) (*Resolution, error) {
	link, err := r.links.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	res := &Resolution{
		LinkID:    link.ID,
		OwnerID:   link.OwnerID,
		TargetURL: link.TargetURL,
	}

	switch {
	case !link.Active:
		res.DenyReason = DenyInactive
	case link.IsExpired():
		res.DenyReason = DenyExpired
	case link.PasswordHash != "" && !CheckPassword(link.PasswordHash, password):
		res.DenyReason = DenyPassword
	default:
		res.AccessGranted = true
	}

	return res, nil
}

// HashPassword hashes a link password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword reports whether candidate matches the stored hash.
func CheckPassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
