package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/opd-ai/go-devpick/internal/secrets"
)

// readPassword is replaced in tests.
var readPassword = term.ReadPassword

func newSecretCmd() *cobra.Command {
	var item string
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage JWT signing material in the OS keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSecretStatus(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&item, "item", "hmac", "secret to manage: hmac or private-key")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set",
			Short: "Store a secret (prompted on a terminal, read from stdin otherwise)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				it, err := parseItem(item)
				if err != nil {
					return err
				}
				return runSecretSet(cmd, it)
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove a secret from the keychain",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				it, err := parseItem(item)
				if err != nil {
					return err
				}
				if err := newSecretStore().Delete(it); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", it)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where each secret is found (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSecretStatus(cmd)
			},
		},
	)
	return cmd
}

func runSecretSet(cmd *cobra.Command, item secrets.Item) error {
	var value string
	if fd, ok := stdinFd(cmd); ok && isTerminal(fd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Enter %s: ", item)
		b, err := readPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("read %s: %w", item, err)
		}
		value = string(b)
	} else {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		value = string(b)
	}
	if err := newSecretStore().Set(item, value); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s to the keychain\n", item)
	return nil
}

func runSecretStatus(cmd *cobra.Command) error {
	store := newSecretStore()
	out := cmd.OutOrStdout()
	for _, item := range []secrets.Item{secrets.HMACSecret, secrets.PrivateKey} {
		_, source, err := store.Get(item)
		switch {
		case err != nil:
			fmt.Fprintf(out, "%-16s error: %v\n", item, err)
		case source == secrets.SourceNone:
			fmt.Fprintf(out, "%-16s not set\n", item)
		default:
			fmt.Fprintf(out, "%-16s %s\n", item, source)
		}
	}
	return nil
}
