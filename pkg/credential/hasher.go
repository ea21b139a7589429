package credential

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrMismatchedPassword = errors.New("password does not match")

// Verifier hashes and checks user passwords.
type Verifier interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

type bcryptVerifier struct {
	cost int
}

func NewBcryptVerifier(cost int) *bcryptVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &bcryptVerifier{cost: cost}
}

func (v *bcryptVerifier) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Verify returns ErrMismatchedPassword when password does not produce hash.
func (v *bcryptVerifier) Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatchedPassword
	}

	return err
}
