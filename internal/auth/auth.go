// Package auth implements the single-operator credential check.
//
// There is no user database: the deployment is configured with one
// username and one bcrypt password hash, and every authenticated request
// is verified against that pair.
package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mwhitfield/snagbook/internal/domain"
)

// BcryptCost is the cost factor used when hashing a new password.
// Cost 12 provides good security (~250ms on modern hardware) while being
// fast enough for login flows. NIST recommends cost 10+.
const BcryptCost = 12

// Credentials holds the configured operator identity.
type Credentials struct {
	Username     string
	PasswordHash string // bcrypt hash
}

// Verifier checks submitted credentials against the configured pair.
type Verifier struct {
	username     []byte
	passwordHash []byte
}

// NewVerifier creates a Verifier from the configured credentials.
// The password hash must be a bcrypt hash; anything else is a
// configuration error caught at startup.
func NewVerifier(creds Credentials) (*Verifier, error) {
	if creds.Username == "" {
		return nil, domain.Invalid("auth.new_verifier", "Auth username is not configured")
	}
	if !strings.HasPrefix(creds.PasswordHash, "$2") {
		return nil, domain.Invalid("auth.new_verifier", "Auth password hash is not a bcrypt hash")
	}
	return &Verifier{
		username:     []byte(creds.Username),
		passwordHash: []byte(creds.PasswordHash),
	}, nil
}

// Verify checks a submitted username and password.
// Returns EUNAUTHORIZED on any mismatch, without distinguishing which
// field was wrong.
//
// The username compare is constant-time, and the bcrypt compare runs
// even when the username does not match, so response timing reveals
// nothing about which credential failed.
func (v *Verifier) Verify(username, password string) error {
	const op = "auth.verify"

	userOK := subtle.ConstantTimeCompare([]byte(username), v.username) == 1
	passErr := bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password))

	if !userOK || passErr != nil {
		return domain.Unauthorized(op, "Invalid credentials")
	}
	return nil
}

// HashPassword hashes a plaintext password for configuration bootstrap.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", domain.Internal(err, "auth.hash_password", "Failed to hash password")
	}
	return string(hash), nil
}
