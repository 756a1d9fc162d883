package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"

	gojwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/ssh"
)

// ErrInvalidKey is returned when key material cannot be parsed.
var ErrInvalidKey = errors.New("invalid RSA key")

// ParsePrivateKey reads an RSA private key in PKCS#1, PKCS#8 or OpenSSH
// PEM form.
func ParsePrivateKey(data string) (*rsa.PrivateKey, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, ErrMissingKey
	}

	key, err := gojwt.ParseRSAPrivateKeyFromPEM([]byte(data))
	if err == nil {
		return key, nil
	}

	raw, sshErr := ssh.ParseRawPrivateKey([]byte(data))
	if sshErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	rsaKey, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private key is %T, not RSA", ErrInvalidKey, raw)
	}
	return rsaKey, nil
}

// ParsePublicKey reads an RSA public key in PKIX or PKCS#1 PEM form, from
// a PEM certificate, or from an "ssh-rsa" authorized_keys line.
func ParsePublicKey(data string) (*rsa.PublicKey, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, ErrMissingKey
	}

	if strings.HasPrefix(data, "ssh-") {
		pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		cpk, ok := pub.(ssh.CryptoPublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported ssh key type %s", ErrInvalidKey, pub.Type())
		}
		rsaKey, ok := cpk.CryptoPublicKey().(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: ssh key type %s is not RSA", ErrInvalidKey, pub.Type())
		}
		return rsaKey, nil
	}

	key, err := gojwt.ParseRSAPublicKeyFromPEM([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}
