package render

import (
	"image/color"

	"github.com/opd-ai/go-devpick/internal/errstack"
	"github.com/opd-ai/go-devpick/internal/jwt"
	"github.com/opd-ai/go-devpick/internal/secrets"
)

const (
	jwtEncodedLines = 5
	jwtDecodedLines = 8
	jwtHeaderLines  = 4
	jwtKeyLines     = 9
)

// jwtPanel is the token encoder, decoder and verifier. width is the
// space available to the panel.
func (a *App) jwtPanel(width float64) {
	t := a.tool
	left := max(width*0.6, 200)
	right := max(width-left-3*itemSpacing, 160)

	a.ui.Heading("JWT Encoder/Decoder")
	a.ui.Horizontal(func() {
		a.ui.Vertical(func() {
			a.ui.Label("Encoded")
			if a.ui.TextField("jwt.encoded", &t.Encoded, FieldOptions{Width: left, Lines: jwtEncodedLines}).Changed {
				a.verifyToken()
			}

			a.ui.Horizontal(func() {
				a.ui.Label("Algorithm")
				for _, alg := range jwt.Algorithms() {
					if a.ui.Radio(alg.String(), t.Algorithm == alg).Clicked && t.Algorithm != alg {
						t.Algorithm = alg
						a.settings.JWTAlgorithm = alg
						a.verifyToken()
					}
				}
			})

			a.ui.Horizontal(func() {
				if a.ui.Button("Encode").Clicked {
					a.encodeToken()
				}
				if a.ui.Button("Decode").Clicked {
					a.decodeToken()
				}
				if a.ui.Button("Clear").Clicked {
					t.Clear()
				}
				a.ui.ColoredLabel("Verified "+t.VerifiedLabel(), a.verifiedColor())
			})

			a.ui.Label("Decoded")
			a.ui.TextField("jwt.decoded", &t.Decoded, FieldOptions{Width: left, Lines: jwtDecodedLines})

			a.ui.Label("Header")
			header, _ := t.Header()
			a.ui.TextField("jwt.header", &header, FieldOptions{Width: left, Lines: jwtHeaderLines, ReadOnly: true})
		})

		a.ui.Vertical(func() {
			if t.Algorithm.IsHMAC() {
				a.ui.Label("Secret")
				if a.ui.TextField("jwt.secret", &t.Secret, FieldOptions{Width: right, Masked: !a.showSecret}).Changed {
					a.verifyToken()
				}
				a.ui.Checkbox("Show secret", &a.showSecret)
			} else {
				a.ui.Label("Public Key")
				if a.ui.TextField("jwt.public", &t.PublicKey, FieldOptions{Width: right, Lines: jwtKeyLines}).Changed {
					a.verifyToken()
				}
				a.ui.Label("Private Key")
				if a.ui.TextField("jwt.private", &t.PrivateKey, FieldOptions{Width: right, Lines: jwtKeyLines}).Changed {
					a.verifyToken()
				}
			}
			a.ui.Checkbox("Add jti claim", &t.AddJTI)
		})
	})
}

func (a *App) verifiedColor() color.RGBA {
	th := a.ui.Theme()
	switch {
	case a.tool.Verified == nil:
		return th.Text
	case *a.tool.Verified:
		return th.Success
	default:
		return th.Error
	}
}

func (a *App) recordVerification() {
	if a.tool.Verified != nil {
		a.metrics.RecordVerification(*a.tool.Verified)
	}
}

// verifyToken re-checks the token after an edit. Failures only change
// the indicator.
func (a *App) verifyToken() {
	_ = a.tool.Verify()
	a.recordVerification()
}

func (a *App) encodeToken() {
	a.metrics.IncrementJWTEncodes()
	if err := a.tool.Encode(); err != nil {
		a.errors.Push(errstack.CategoryJWT, err)
		return
	}
	a.recordVerification()
	if a.settings.RememberJWTSecret {
		a.rememberSecrets()
	}
}

func (a *App) decodeToken() {
	a.metrics.IncrementJWTDecodes()
	if err := a.tool.Decode(); err != nil {
		a.errors.Push(errstack.CategoryJWT, err)
		return
	}
	a.recordVerification()
}

// rememberSecrets stores the signing material in use in the keychain.
func (a *App) rememberSecrets() {
	if a.deps.Secrets == nil {
		return
	}
	t := a.tool
	item, value := secrets.HMACSecret, t.Secret
	if !t.Algorithm.IsHMAC() {
		item, value = secrets.PrivateKey, t.PrivateKey
	}
	if value == "" {
		return
	}
	if err := a.deps.Secrets.Set(item, value); err != nil {
		a.errors.Push(errstack.CategoryJWT, err)
	}
}
