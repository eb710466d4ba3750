// Package security provides the password hashing and session token
// primitives the auth service plugs in.
package security

import "golang.org/x/crypto/bcrypt"

// BcryptHasher hashes guest passwords. The zero value uses the library
// default cost; tests drop Cost to the minimum to stay fast.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Compare returns bcrypt.ErrMismatchedHashAndPassword on a wrong password;
// the auth service folds that into its invalid-credentials error.
func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (h BcryptHasher) cost() int {
	if h.Cost >= bcrypt.MinCost {
		return h.Cost
	}
	return bcrypt.DefaultCost
}
