package hasher

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/andrasnagy-data/todo/internal/shared/config"
)

const DefaultCost = 10

// ErrPasswordTooLong is returned by Hash for passwords over bcrypt's
// 72 byte input limit.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// Bcrypt hashes passwords with a fresh salt per call.
type Bcrypt struct {
	cost int
}

func New(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func NewFromConfig(cfg *config.Config) *Bcrypt {
	return New(cfg.BcryptCost)
}

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. The comparison is done by
// bcrypt in constant time.
func (b *Bcrypt) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
