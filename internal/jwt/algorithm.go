// Package jwt encodes, decodes and verifies JSON Web Tokens for the JWT
// tool. It supports the HMAC and RSA PKCS#1 v1.5 algorithms.
package jwt

import (
	"errors"
	"fmt"
	"strings"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrUnsupportedAlgorithm is returned for algorithm names outside Algorithms.
var ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

// Algorithm is a JWS "alg" value.
type Algorithm string

const (
	HS256 Algorithm = "HS256"
	HS384 Algorithm = "HS384"
	HS512 Algorithm = "HS512"
	RS256 Algorithm = "RS256"
	RS384 Algorithm = "RS384"
	RS512 Algorithm = "RS512"
)

// Algorithms lists the supported algorithms in display order.
func Algorithms() []Algorithm {
	return []Algorithm{HS256, HS384, HS512, RS256, RS384, RS512}
}

// ParseAlgorithm accepts an algorithm name in any case.
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range Algorithms() {
		if strings.EqualFold(strings.TrimSpace(s), string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
}

// String returns the algorithm name.
func (a Algorithm) String() string { return string(a) }

// IsHMAC reports whether a is signed with a shared secret.
func (a Algorithm) IsHMAC() bool {
	return a == HS256 || a == HS384 || a == HS512
}

// method returns the signing method for a.
func (a Algorithm) method() (gojwt.SigningMethod, error) {
	switch a {
	case HS256:
		return gojwt.SigningMethodHS256, nil
	case HS384:
		return gojwt.SigningMethodHS384, nil
	case HS512:
		return gojwt.SigningMethodHS512, nil
	case RS256:
		return gojwt.SigningMethodRS256, nil
	case RS384:
		return gojwt.SigningMethodRS384, nil
	case RS512:
		return gojwt.SigningMethodRS512, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, string(a))
}
