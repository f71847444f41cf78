// ABOUTME: whoami and refresh commands
// ABOUTME: Show the logged-in administrator and renew the session tokens

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/output"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/usecase"
)

var whoamiRemote bool

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in administrator",
	Long: `Show the administrator stored with the session.

With --remote the profile is loaded from the backend instead, which also
confirms the stored token is still accepted.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout, whoamiRemote)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Renew the session using the stored refresh token",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		exitCode := runRefresh(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "Load the profile from the backend")
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(refreshCmd)
}

type whoamiView struct {
	Name      string       `json:"name" yaml:"name"`
	Initials  string       `json:"initials" yaml:"initials"`
	User      *domain.User `json:"user,omitempty" yaml:"user,omitempty"`
	ExpiresAt string       `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired   bool         `json:"expired" yaml:"expired"`
}

func runWhoami(ctx context.Context, w io.Writer, remote bool) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	decision, code := d.requireAuth(w)
	if code != exitOK {
		return code
	}

	user := decision.User
	if remote {
		u, err := usecase.NewGetProfile(d.auth).Execute(ctx)
		if err != nil {
			return d.fail(w, err)
		}
		user = &u
	}

	view := whoamiView{Name: user.FullName(), Initials: user.Initials(), User: user}
	if exp, ok := d.session.Expiry(); ok {
		view.ExpiresAt = exp.Format(time.RFC3339)
		view.Expired = d.session.NeedsRefresh()
	}

	if err := output.Write(w, d.format, view, func() string { return formatWhoamiHuman(view) }); err != nil {
		return d.fail(w, err)
	}
	return exitOK
}

func formatWhoamiHuman(v whoamiView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]\n", v.Name, v.Initials)
	if v.User != nil {
		fmt.Fprintf(&sb, "E-mail: %s\n", v.User.Email)
		if v.User.DNI != 0 {
			fmt.Fprintf(&sb, "DNI:    %d\n", v.User.DNI)
		}
	} else {
		sb.WriteString("Profile not stored; use --remote to load it\n")
	}
	if v.ExpiresAt != "" {
		state := "valid"
		if v.Expired {
			state = "expired, run 'siria-admin refresh'"
		}
		fmt.Fprintf(&sb, "Token:  %s (%s)\n", v.ExpiresAt, state)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func runRefresh(ctx context.Context, w io.Writer) int {
	d, code := setup(w)
	if d == nil {
		return code
	}

	if _, err := usecase.NewRefreshSession(d.refresher).Execute(ctx); err != nil {
		return d.fail(w, err)
	}

	msg := domain.Message{Status: true, Message: "session refreshed"}
	if exp, ok := d.session.Expiry(); ok {
		msg.Message += ", expires at " + exp.Format(time.RFC3339)
	}
	if err := output.Write(w, d.format, msg, func() string { return "Session refreshed" + strings.TrimPrefix(msg.Message, "session refreshed") + "." }); err != nil {
		return d.fail(w, err)
	}
	return exitOK
}
