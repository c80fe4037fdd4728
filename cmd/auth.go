package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oshokin/fbauth/internal/app"
)

// ErrNoInput indicates that stdin was closed before a value was entered.
var ErrNoInput = errors.New("no input")

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Create an email/password account and log in",
		Long: `Creates an account with the given email and password and stores the
returned session token. The password is asked for when --password is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := readCredentials(cmd)
			if err != nil {
				return err
			}

			return app.ExecuteRegisterCommand(cmd.Context(), appConfig, cmd.OutOrStdout(), email, password)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Long: `Signs in with the given email and password and stores the returned
session token. The password is asked for when --password is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := readCredentials(cmd)
			if err != nil {
				return err
			}

			return app.ExecuteLoginCommand(cmd.Context(), appConfig, cmd.OutOrStdout(), email, password)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Show the profile of the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.ExecuteProfileCommand(cmd.Context(), appConfig, cmd.OutOrStdout())
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.ExecuteLogoutCommand(cmd.Context(), appConfig, cmd.OutOrStdout())
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	for _, command := range []*cobra.Command{registerCmd, loginCmd} {
		command.Flags().StringP("email", "e", "", "account email.")
		command.Flags().StringP("password", "p", "", "account password (asked for when omitted).")
	}

	rootCmd.AddCommand(registerCmd, loginCmd, profileCmd, logoutCmd)
}

// readCredentials takes email and password from flags, prompting for the missing ones.
func readCredentials(cmd *cobra.Command) (string, string, error) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	prompter := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())

	var err error

	if !cmd.Flags().Changed("email") {
		if email, err = prompter.readLine("Email: "); err != nil {
			return "", "", err
		}
	}

	if !cmd.Flags().Changed("password") {
		if password, err = prompter.readSecret("Password: "); err != nil {
			return "", "", err
		}
	}

	return email, password, nil
}

// prompter reads answers from the user, hiding secrets when input is a terminal.
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{
		in:     in,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (p *prompter) readLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, prompt)

	line, err := p.reader.ReadString('\n')
	switch {
	case err == nil:
	case !errors.Is(err, io.EOF):
		return "", fmt.Errorf("failed to read input: %w", err)
	case line == "":
		return "", ErrNoInput
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (p *prompter) readSecret(prompt string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // File descriptors fit in int.
		return p.readLine(prompt)
	}

	_, _ = fmt.Fprint(p.out, prompt)

	secret, err := term.ReadPassword(int(f.Fd())) //nolint:gosec // File descriptors fit in int.

	_, _ = fmt.Fprintln(p.out)

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(secret), nil
}
