package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost settings. 64 MiB with 3 passes keeps a single hash well
// under 100ms on modest hardware while staying expensive for GPU attacks.
const (
	hashMemoryKiB   = 64 * 1024
	hashIterations  = 3
	hashParallelism = 1
	hashSaltBytes   = 16
	hashKeyBytes    = 32
)

var errMalformedHash = errors.New("malformed password hash")

// HashPassword derives an Argon2id key from the password with a fresh
// random salt and returns it as a self-describing PHC string
// ($argon2id$v=19$m=...,t=...,p=...$salt$key). Because the cost settings
// travel with the hash, stored values stay verifiable if the constants
// above are ever raised.
func HashPassword(password string) (string, error) {
	salt := make([]byte, hashSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("reading random salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, hashIterations, hashMemoryKiB, hashParallelism, hashKeyBytes)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		hashMemoryKiB, hashIterations, hashParallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key),
	), nil
}

// VerifyPassword re-derives the key using the parameters embedded in the
// stored hash and compares in constant time. A wrong password is (false, nil);
// an error means the stored value could not be parsed.
func VerifyPassword(password, stored string) (bool, error) {
	h, err := parseStoredHash(stored)
	if err != nil {
		return false, err
	}

	key := argon2.IDKey([]byte(password), h.salt, h.iterations, h.memoryKiB, h.parallelism, uint32(len(h.key))) //nolint:gosec // G115: key length always fits uint32

	return subtle.ConstantTimeCompare(h.key, key) == 1, nil
}

// storedHash holds the fields recovered from a PHC string.
type storedHash struct {
	memoryKiB   uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

// parseStoredHash splits a $argon2id$v=19$m=…,t=…,p=…$<salt>$<key> string
// into its fields, rejecting anything that is not an argon2id v19 hash.
func parseStoredHash(stored string) (storedHash, error) {
	var h storedHash

	rest, ok := strings.CutPrefix(stored, "$argon2id$")
	if !ok {
		return h, fmt.Errorf("%w: not an argon2id hash", errMalformedHash)
	}

	fields := strings.Split(rest, "$")
	if len(fields) != 4 { //nolint:mnd // version, cost params, salt, key
		return h, fmt.Errorf("%w: expected 4 fields, got %d", errMalformedHash, len(fields))
	}

	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil {
		return h, fmt.Errorf("%w: unreadable version field", errMalformedHash)
	}
	if version != argon2.Version {
		return h, fmt.Errorf("%w: unsupported argon2 version %d", errMalformedHash, version)
	}

	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &h.memoryKiB, &h.iterations, &h.parallelism); err != nil {
		return h, fmt.Errorf("%w: unreadable cost parameters", errMalformedHash)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(fields[2]); err != nil {
		return h, fmt.Errorf("%w: salt is not base64", errMalformedHash)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(fields[3]); err != nil {
		return h, fmt.Errorf("%w: key is not base64", errMalformedHash)
	}

	return h, nil
}
