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

// argonParams pins the Argon2id cost. The cost is fixed at build time
// on purpose: a digest must stay verifiable with the parameters encoded
// inside it, and callers never tune hashing per request.
type argonParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

// OWASP/CNIL recommended baseline.
var defaultArgonParams = argonParams{
	memory:      64 * 1024,
	iterations:  3,
	parallelism: 2,
	saltLength:  16,
	keyLength:   32,
}

var errMalformedDigest = errors.New("malformed password digest")

// HashPassword derives an Argon2id digest from a plain text password
// and encodes it in the PHC string format, salt included. It fails only
// if the system entropy source does.
func HashPassword(password string) (string, error) {
	salt := make([]byte, defaultArgonParams.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt generation: %w", err)
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		defaultArgonParams.iterations,
		defaultArgonParams.memory,
		defaultArgonParams.parallelism,
		defaultArgonParams.keyLength,
	)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		defaultArgonParams.memory,
		defaultArgonParams.iterations,
		defaultArgonParams.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// ComparePassword checks a plain text password against a stored PHC
// digest. The comparison is constant time; a malformed digest is an
// error, never a silent mismatch.
func ComparePassword(password, encodedDigest string) (bool, error) {
	params, salt, want, err := decodeDigest(encodedDigest)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey(
		[]byte(password),
		salt,
		params.iterations,
		params.memory,
		params.parallelism,
		params.keyLength,
	)

	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// decodeDigest splits a $argon2id$v=..$m=..,t=..,p=..$salt$hash string
// back into the parameters the digest was produced with.
func decodeDigest(encoded string) (argonParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return argonParams{}, nil, nil, errMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return argonParams{}, nil, nil, errMalformedDigest
	}
	if version != argon2.Version {
		return argonParams{}, nil, nil, fmt.Errorf("%w: unsupported argon2 version %d", errMalformedDigest, version)
	}

	var params argonParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&params.memory, &params.iterations, &params.parallelism); err != nil {
		return argonParams{}, nil, nil, errMalformedDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argonParams{}, nil, nil, errMalformedDigest
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return argonParams{}, nil, nil, errMalformedDigest
	}
	params.keyLength = uint32(len(hash))

	return params, salt, hash, nil
}
