package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-devpick/internal/jwt"
	"github.com/opd-ai/go-devpick/internal/secrets"
)

// newSecretStore is replaced in tests.
var newSecretStore = func() *secrets.Store { return secrets.NewStore(true) }

type jwtOptions struct {
	algorithm string
	secret    string
	keyFile   string
	jti       bool
}

func newJWTCmd(root *rootOptions) *cobra.Command {
	opts := &jwtOptions{}
	cmd := &cobra.Command{
		Use:   "jwt",
		Short: "Encode, decode and verify JSON Web Tokens",
		Long: "Encode, decode and verify JSON Web Tokens.\n\n" +
			"The HMAC secret defaults to the one stored with 'devpick jwt secret set'\n" +
			"or $" + secrets.EnvVar(secrets.HMACSecret) + ". RSA keys are read from --key-file or the keychain.",
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.algorithm, "alg", "a", "", "signing algorithm (default from settings)")
	pf.StringVar(&opts.secret, "secret", "", "HMAC secret (overrides the keychain)")
	pf.StringVar(&opts.keyFile, "key-file", "", "PEM or OpenSSH RSA key file")

	encode := &cobra.Command{
		Use:   "encode [CLAIMS|-]",
		Short: "Sign a JSON claims object",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJWTEncode(cmd, root, opts, args)
		},
	}
	encode.Flags().BoolVar(&opts.jti, "jti", false, "add a random jti claim")

	cmd.AddCommand(
		encode,
		&cobra.Command{
			Use:   "decode [TOKEN|-]",
			Short: "Print the header and claims of a token",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runJWTDecode(cmd, root, opts, args)
			},
		},
		&cobra.Command{
			Use:   "verify [TOKEN|-]",
			Short: "Check the signature of a token",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runJWTVerify(cmd, root, opts, args)
			},
		},
		newSecretCmd(),
	)
	return cmd
}

// newTool builds a Tool for the selected algorithm and loads its key
// material. Missing keys are only an error when required is set.
func newTool(root *rootOptions, opts *jwtOptions, required bool) (*jwt.Tool, error) {
	tool := jwt.NewTool()

	alg := opts.algorithm
	if alg == "" {
		settings, _, err := root.loadSettings()
		if err != nil {
			return nil, err
		}
		alg = string(settings.JWTAlgorithm)
	}
	a, err := jwt.ParseAlgorithm(alg)
	if err != nil {
		return nil, err
	}
	tool.Algorithm = a

	if err := loadKeys(tool, opts); err != nil && required {
		return nil, err
	}
	return tool, nil
}

func loadKeys(tool *jwt.Tool, opts *jwtOptions) error {
	if tool.Algorithm.IsHMAC() {
		if opts.secret != "" {
			tool.Secret = opts.secret
			return nil
		}
		secret, _, err := newSecretStore().Get(secrets.HMACSecret)
		if err != nil {
			return err
		}
		if secret == "" {
			return fmt.Errorf("%w: use --secret or 'devpick jwt secret set'", jwt.ErrMissingSecret)
		}
		tool.Secret = secret
		return nil
	}

	if opts.keyFile != "" {
		data, err := os.ReadFile(opts.keyFile)
		if err != nil {
			return fmt.Errorf("read key file: %w", err)
		}
		if _, perr := jwt.ParsePublicKey(string(data)); perr == nil {
			tool.PublicKey = string(data)
		} else {
			tool.PrivateKey = string(data)
		}
		return nil
	}
	key, _, err := newSecretStore().Get(secrets.PrivateKey)
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("%w: use --key-file or 'devpick jwt secret set --item private-key'", jwt.ErrMissingKey)
	}
	tool.PrivateKey = key
	return nil
}

func runJWTEncode(cmd *cobra.Command, root *rootOptions, opts *jwtOptions, args []string) error {
	claims, err := argOrStdin(cmd, args)
	if err != nil {
		return err
	}
	tool, err := newTool(root, opts, true)
	if err != nil {
		return err
	}
	if !tool.Algorithm.IsHMAC() && tool.PrivateKey == "" {
		return fmt.Errorf("%w: signing needs a private key", jwt.ErrMissingKey)
	}
	tool.Decoded = claims
	tool.AddJTI = opts.jti
	if err := tool.Encode(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tool.Encoded)
	return nil
}

func runJWTDecode(cmd *cobra.Command, root *rootOptions, opts *jwtOptions, args []string) error {
	token, err := argOrStdin(cmd, args)
	if err != nil {
		return err
	}
	tool, err := newTool(root, opts, false)
	if err != nil {
		return err
	}
	tool.Encoded = strings.TrimSpace(token)
	if err := tool.Decode(); err != nil {
		return err
	}
	header, err := tool.Header()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Header:\n%s\n\nClaims:\n%s\n\n", header, tool.Decoded)
	if tool.Secret == "" && tool.PublicKey == "" && tool.PrivateKey == "" {
		fmt.Fprintln(out, "Verified: ? (no key)")
		return nil
	}
	fmt.Fprintf(out, "Verified: %s\n", tool.VerifiedLabel())
	return nil
}

func runJWTVerify(cmd *cobra.Command, root *rootOptions, opts *jwtOptions, args []string) error {
	token, err := argOrStdin(cmd, args)
	if err != nil {
		return err
	}
	tool, err := newTool(root, opts, true)
	if err != nil {
		return err
	}
	tool.Encoded = strings.TrimSpace(token)
	if tool.Encoded == "" {
		return jwt.ErrEmptyToken
	}
	if err := tool.Verify(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "signature verified")
	return nil
}

var errUnknownItem = errors.New("unknown secret item")

func parseItem(s string) (secrets.Item, error) {
	switch strings.ToLower(s) {
	case "hmac", "secret", string(secrets.HMACSecret):
		return secrets.HMACSecret, nil
	case "private-key", "rsa", string(secrets.PrivateKey):
		return secrets.PrivateKey, nil
	}
	return "", fmt.Errorf("%w: %q (want hmac or private-key)", errUnknownItem, s)
}
