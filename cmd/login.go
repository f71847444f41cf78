// ABOUTME: Login and logout commands
// ABOUTME: Missing credentials are prompted for with a huh form

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/output"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/productform"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/usecase"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	Long: `Authenticate against the backend and store the session locally.

Missing --email or --password values are prompted for when running in a terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		form := productform.Login{Email: loginEmail, Password: loginPassword}
		if (form.Email == "" || form.Password == "") && term.IsTerminal(int(os.Stdin.Fd())) {
			if err := promptLogin(&form); err != nil {
				fmt.Fprintln(os.Stderr, "Login canceled.")
				os.Exit(exitUsage)
			}
		}

		exitCode := runLogin(ctx, os.Stdout, form)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runLogout(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Administrator e-mail")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

// promptLogin asks for whichever credentials are still empty.
func promptLogin(l *productform.Login) error {
	var fields []huh.Field
	if l.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("E-mail").
			Value(&l.Email).
			Validate(func(s string) error { return productform.ValidateField("email", s) }))
	}
	if l.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&l.Password).
			Validate(func(s string) error { return productform.ValidateField("password", s) }))
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

type loginView struct {
	Email     string `json:"email" yaml:"email"`
	Name      string `json:"name" yaml:"name"`
	ExpiresAt string `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

func runLogin(ctx context.Context, w io.Writer, form productform.Login) int {
	d, code := setup(w)
	if d == nil {
		return code
	}

	creds, err := productform.ParseLogin(form)
	if err != nil {
		return d.fail(w, err)
	}

	auth, err := usecase.NewLogin(d.auth, d.session).Execute(ctx, creds)
	if err != nil {
		// Bad credentials are an operation failure, not a stale session.
		if errors.Is(err, domain.ErrUnauthorized) {
			output.WriteError(w, d.format, err.Error(), exitError)
			return exitError
		}
		return d.fail(w, err)
	}

	view := loginView{Email: creds.Email, Name: auth.User.FullName()}
	if auth.User != nil {
		view.Email = auth.User.Email
	}
	if exp, ok := d.session.Expiry(); ok {
		view.ExpiresAt = exp.Format("2006-01-02 15:04:05")
	}

	if err := output.Write(w, d.format, view, func() string {
		s := fmt.Sprintf("Logged in as %s (%s)", view.Name, view.Email)
		if view.ExpiresAt != "" {
			s += "\nSession expires at " + view.ExpiresAt
		}
		return s
	}); err != nil {
		return d.fail(w, err)
	}
	return exitOK
}

func runLogout(w io.Writer) int {
	d, code := setup(w)
	if d == nil {
		return code
	}

	usecase.NewLogout(d.session).Execute()
	_ = output.Write(w, d.format, domain.Message{Status: true, Message: "logged out"}, func() string {
		return "Logged out."
	})
	return exitOK
}
