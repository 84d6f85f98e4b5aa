// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

var ErrMalformedHash = errors.New("malformed password hash")

// argonParams is one argon2id cost setting. Hashes are stored in the PHC
// form $argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<key>.
type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

// passwordCost is what new hashes use. Older hashes verify with their own
// parameters and are upgraded on the next successful login.
var passwordCost = argonParams{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	keyLen:  32,
}

func (p argonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

func (p argonParams) encode(salt, key []byte) string {
	enc := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.memory, p.time, p.threads,
		enc.EncodeToString(salt),
		enc.EncodeToString(key),
	)
}

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return passwordCost.encode(salt, passwordCost.derive(password, salt)), nil
}

// VerifyPassword reports whether password matches encoded. On a match made
// with outdated parameters it also returns a fresh hash to store.
func VerifyPassword(password, encoded string) (bool, string, error) {
	params, salt, key, err := parseHash(encoded)
	if err != nil {
		return false, "", err
	}

	if subtle.ConstantTimeCompare(key, params.derive(password, salt)) != 1 {
		return false, "", nil
	}
	if params == passwordCost {
		return true, "", nil
	}

	upgraded, err := HashPassword(password)
	if err != nil {
		//nolint:nilerr // the password matched; the upgrade can wait
		return true, "", nil
	}
	return true, upgraded, nil
}

// absentUserHash stands in when no account matches, so an unknown email
// costs the same as a wrong password.
var absentUserHash = sync.OnceValue(func() string {
	hash, err := HashPassword("mentorcamp-absent-user")
	if err != nil {
		panic(fmt.Sprintf("security: build placeholder hash: %v", err))
	}
	return hash
})

// VerifyPasswordTimingSafe verifies against encodedHash, or burns an
// equivalent derivation and fails when there is none.
func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, string, error) {
	if encodedHash == nil || *encodedHash == "" {
		//nolint:errcheck // only the cost matters
		_, _, _ = VerifyPassword(password, absentUserHash())
		return false, "", nil
	}
	return VerifyPassword(password, *encodedHash)
}

func parseHash(encoded string) (argonParams, []byte, []byte, error) {
	var p argonParams

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: version %q", ErrMalformedHash, fields[2])
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: params: %w", ErrMalformedHash, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: key: %w", ErrMalformedHash, err)
	}

	//nolint:gosec // G115: argon2id keys are a few dozen bytes
	p.keyLen = uint32(len(key))

	return p, salt, key, nil
}

// GenerateSecureToken returns length random bytes encoded URL-safe without
// padding, suitable for bearer tokens and confirmation links.
func GenerateSecureToken(length int) (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashToken is the lookup key stored for opaque tokens. Raw values are never
// persisted.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
