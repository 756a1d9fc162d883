package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/opd-ai/go-devpick/internal/config"
	"github.com/opd-ai/go-devpick/internal/logger"
)

// isTerminal is replaced in tests.
var isTerminal = term.IsTerminal

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	debugAddr  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	gui := &guiOptions{}

	cmd := &cobra.Command{
		Use:   "devpick",
		Short: "Color picker and JWT encoder/decoder",
		Long: "devpick picks colors from anywhere on the screen and encodes, decodes\n" +
			"and verifies JSON Web Tokens. Without a subcommand it opens the window.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, opts, gui)
		},
	}
	cmd.Version = Version
	cmd.SetVersionTemplate("devpick version {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "settings file (default is the user config directory)")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&opts.logFormat, "log-format", "auto", "log format: text, json or auto")
	pf.StringVar(&opts.debugAddr, "debug-addr", "", "serve /debug/vars on this address")
	addGUIFlags(cmd, gui)

	cmd.AddCommand(
		newGUICmd(opts),
		newJWTCmd(opts),
		newColorCmd(opts),
		newPaletteCmd(opts),
		newSettingsCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// settingsPath resolves --config, falling back to the default location.
func (o *rootOptions) settingsPath() (string, error) {
	if o.configPath != "" {
		return config.ExpandEnv(o.configPath), nil
	}
	return config.DefaultPath()
}

// loadSettings reads the settings file. A missing file yields defaults.
func (o *rootOptions) loadSettings() (*config.Settings, string, error) {
	path, err := o.settingsPath()
	if err != nil {
		return nil, "", err
	}
	s, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return s, path, nil
}

func (o *rootOptions) newLogger(w io.Writer) (*logger.SlogAdapter, error) {
	level, err := logger.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(o.logFormat)
	if err != nil {
		return nil, err
	}
	return logger.New(w, level, format), nil
}

// stdinFd returns the descriptor behind cmd's input when it is a file.
func stdinFd(cmd *cobra.Command) (int, bool) {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true
}

// argOrStdin returns args[0], or all of stdin when args is empty or "-".
func argOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	if fd, ok := stdinFd(cmd); ok && isTerminal(fd) {
		return "", errors.New("no input: pass it as an argument or pipe it on stdin")
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "devpick version %s\n", Version)
		},
	}
}
