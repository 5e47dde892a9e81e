package passwordhasher

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"passreset/internal/core/domain/user"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes passwords with bcrypt after keying them with HMAC-SHA256.
// bcrypt only reads the first 72 bytes of its input, the digest keeps every
// password up to the accepted maximum significant.
type Bcrypt struct {
	secret []byte
	cost   int
}

func NewBcrypt(secret string, cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{secret: []byte(secret), cost: cost}
}

func (h *Bcrypt) HashPassword(password user.RawPassword) (hash user.PasswordHash, err error) {
	bcryptHash, err := bcrypt.GenerateFromPassword(h.prepare(password), h.cost)
	if err != nil {
		return hash, err
	}
	return user.PasswordHash(bcryptHash), nil
}

func (h *Bcrypt) ValidatePassword(password user.RawPassword, hash user.PasswordHash) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), h.prepare(password))
	return err == nil
}

func (h *Bcrypt) prepare(password user.RawPassword) []byte {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(password))
	digest := mac.Sum(nil)
	encoded := make([]byte, base64.RawStdEncoding.EncodedLen(len(digest)))
	base64.RawStdEncoding.Encode(encoded, digest)
	return encoded
}
