package jwt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrEmptyToken is returned when an operation needs an encoded token.
	ErrEmptyToken = errors.New("no encoded token")
	// ErrInvalidClaims is returned when the decoded text is not a JSON object.
	ErrInvalidClaims = errors.New("claims must be a JSON object")
	// ErrMissingSecret is returned when HMAC signing has no secret.
	ErrMissingSecret = errors.New("secret is empty")
	// ErrMissingKey is returned when RSA signing or verification has no key.
	ErrMissingKey = errors.New("key is empty")
	// ErrVerification wraps signature and claim validation failures.
	ErrVerification = errors.New("token verification failed")
)

// Tool holds the state of the JWT encoder/decoder. The GUI edits the
// string fields directly and calls the operations on user actions.
//
// A Tool is not safe for concurrent use.
type Tool struct {
	Encoded    string
	Decoded    string
	Secret     string
	PublicKey  string
	PrivateKey string
	Algorithm  Algorithm

	// AddJTI makes Encode add a random "jti" claim when none is present.
	AddJTI bool

	// Verified is nil until a token has been checked.
	Verified *bool
}

// NewTool returns an empty tool using HS256.
func NewTool() *Tool {
	return &Tool{Algorithm: HS256}
}

// Encode signs the claims in Decoded and stores the token in Encoded.
// The new token is then verified.
func (t *Tool) Encode() error {
	claims, err := parseClaims(t.Decoded)
	if err != nil {
		return err
	}
	if t.AddJTI {
		claims = WithJTI(claims)
	}

	method, err := t.Algorithm.method()
	if err != nil {
		return err
	}
	key, err := t.signingKey()
	if err != nil {
		return err
	}

	signed, err := gojwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	t.Encoded = signed
	t.Decoded, err = prettyJSON(claims)
	if err != nil {
		return err
	}
	_ = t.Verify()
	return nil
}

// Decode parses Encoded without checking the signature and writes the
// pretty-printed claims to Decoded. The token is then verified; a
// verification failure is reported through Verified, not the error.
func (t *Tool) Decode() error {
	token, err := parseUnverified(t.Encoded)
	if err != nil {
		return err
	}
	decoded, err := prettyJSON(token.Claims)
	if err != nil {
		return err
	}
	t.Decoded = decoded
	_ = t.Verify()
	return nil
}

// Verify checks the signature of Encoded with the current key material and
// records the outcome in Verified. With no token, Verified becomes nil.
func (t *Tool) Verify() error {
	if strings.TrimSpace(t.Encoded) == "" {
		t.Verified = nil
		return nil
	}
	err := t.verify()
	ok := err == nil
	t.Verified = &ok
	return err
}

func (t *Tool) verify() error {
	key, err := t.verificationKey()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}
	parser := gojwt.NewParser(gojwt.WithValidMethods([]string{string(t.Algorithm)}))
	_, err = parser.Parse(strings.TrimSpace(t.Encoded), func(*gojwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerification, err)
	}
	return nil
}

// Header returns the pretty-printed header of Encoded.
func (t *Tool) Header() (string, error) {
	token, err := parseUnverified(t.Encoded)
	if err != nil {
		return "", err
	}
	return prettyJSON(token.Header)
}

// HeaderAlgorithm returns the algorithm named in Encoded's header.
func (t *Tool) HeaderAlgorithm() (Algorithm, error) {
	token, err := parseUnverified(t.Encoded)
	if err != nil {
		return "", err
	}
	alg, _ := token.Header["alg"].(string)
	return ParseAlgorithm(alg)
}

// Clear resets the token, the claims and the verification state.
// Keys and the algorithm are kept.
func (t *Tool) Clear() {
	t.Encoded = ""
	t.Decoded = ""
	t.Verified = nil
}

// VerifiedLabel is the indicator shown next to the buttons.
func (t *Tool) VerifiedLabel() string {
	switch {
	case t.Verified == nil:
		return "?"
	case *t.Verified:
		return "✔"
	default:
		return "✖"
	}
}

// WithJTI returns claims with a random UUID "jti" unless one is set.
// The input map is not modified.
func WithJTI(claims gojwt.MapClaims) gojwt.MapClaims {
	if _, ok := claims["jti"]; ok {
		return claims
	}
	out := make(gojwt.MapClaims, len(claims)+1)
	for k, v := range claims {
		out[k] = v
	}
	out["jti"] = uuid.NewString()
	return out
}

func (t *Tool) signingKey() (any, error) {
	if t.Algorithm.IsHMAC() {
		if t.Secret == "" {
			return nil, ErrMissingSecret
		}
		return []byte(t.Secret), nil
	}
	return ParsePrivateKey(t.PrivateKey)
}

func (t *Tool) verificationKey() (any, error) {
	if t.Algorithm.IsHMAC() {
		if t.Secret == "" {
			return nil, ErrMissingSecret
		}
		return []byte(t.Secret), nil
	}
	if strings.TrimSpace(t.PublicKey) == "" && strings.TrimSpace(t.PrivateKey) != "" {
		priv, err := ParsePrivateKey(t.PrivateKey)
		if err != nil {
			return nil, err
		}
		return &priv.PublicKey, nil
	}
	pub, err := ParsePublicKey(t.PublicKey)
	if err != nil {
		return nil, err
	}
	return pub, nil
}

func parseUnverified(encoded string) (*gojwt.Token, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrEmptyToken
	}
	token, _, err := gojwt.NewParser().ParseUnverified(encoded, gojwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return token, nil
}

func parseClaims(text string) (gojwt.MapClaims, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var claims map[string]any
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
	if claims == nil {
		return nil, ErrInvalidClaims
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidClaims)
	}
	return gojwt.MapClaims(claims), nil
}

func prettyJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("format json: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
