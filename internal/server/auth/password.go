package auth

import (
	"github.com/dmitrijs2005/inotebook/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces salted bcrypt digests. Every Hash call draws a
// fresh salt, so equal passwords hash to different strings.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher clamps cost into bcrypt's accepted range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	plain := []byte(password)
	defer common.WipeByteArray(plain)

	hash, err := bcrypt.GenerateFromPassword(plain, h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash is simply a
// mismatch.
func (h *PasswordHasher) Verify(password, hash string) bool {
	plain := []byte(password)
	defer common.WipeByteArray(plain)

	return bcrypt.CompareHashAndPassword([]byte(hash), plain) == nil
}
