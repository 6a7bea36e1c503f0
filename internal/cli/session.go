package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	goRate "github.com/MrEthical07/goRate"
	"github.com/MrEthical07/goRate/route"
)

type loginOptions struct {
	email    string
	password string
}

func (a *app) loginCommand() *cobra.Command {
	var opts loginOptions
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&opts.email, "email", "", "Account email")
	cmd.Flags().StringVar(&opts.password, "password", "", "Account password (prompted when omitted)")
	cmd.Run = a.run(func(ctx context.Context, w io.Writer) int {
		return a.runLogin(ctx, w, opts)
	})
	return cmd
}

func (a *app) runLogin(ctx context.Context, w io.Writer, opts loginOptions) int {
	if err := a.ask("Sign in",
		field{flag: "email", label: "Email", value: &opts.email},
		field{flag: "password", label: "Password", value: &opts.password, secret: true},
	); err != nil {
		return a.fail(err)
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	id, err := c.Login(ctx, opts.email, opts.password)
	if err != nil {
		return a.fail(err)
	}

	if a.jsonOutput {
		fmt.Fprintln(w, formatJSON(id))
		return exitOK
	}
	fmt.Fprintln(w, okStyle.Render("Signed in"))
	fmt.Fprintln(w, formatIdentity(id))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Home:"), route.LandingFor(id.Role))
	return exitOK
}

func (a *app) logoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the persisted token",
		Args:  cobra.NoArgs,
	}
	cmd.Run = a.run(a.runLogout)
	return cmd
}

func (a *app) runLogout(ctx context.Context, w io.Writer) int {
	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	if err := c.Logout(ctx); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(w, "Signed out")
	return exitOK
}

func (a *app) whoamiCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
	}
	cmd.Run = a.run(a.runWhoami)
	return cmd
}

func (a *app) runWhoami(ctx context.Context, w io.Writer) int {
	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	id, ok := c.Identity()
	if !ok {
		return a.fail(goRate.ErrNotAuthenticated)
	}
	if a.jsonOutput {
		fmt.Fprintln(w, formatJSON(id))
		return exitOK
	}
	fmt.Fprintln(w, formatIdentity(id))
	return exitOK
}

type signupOptions struct {
	name     string
	email    string
	password string
	address  string
}

func (a *app) signupCommand() *cobra.Command {
	var opts signupOptions
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new user account",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&opts.name, "name", "", "Full name")
	cmd.Flags().StringVar(&opts.email, "email", "", "Email")
	cmd.Flags().StringVar(&opts.password, "password", "", "Password")
	cmd.Flags().StringVar(&opts.address, "address", "", "Address")
	cmd.Run = a.run(func(ctx context.Context, w io.Writer) int {
		return a.runSignup(ctx, w, opts)
	})
	return cmd
}

func (a *app) runSignup(ctx context.Context, w io.Writer, opts signupOptions) int {
	if err := a.ask("Create account",
		field{flag: "name", label: "Name", value: &opts.name},
		field{flag: "email", label: "Email", value: &opts.email},
		field{flag: "password", label: "Password", value: &opts.password, secret: true},
		field{flag: "address", label: "Address", value: &opts.address},
	); err != nil {
		return a.fail(err)
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	err = c.Signup(ctx, goRate.SignupRequest{
		Name:     opts.name,
		Email:    opts.email,
		Password: opts.password,
		Address:  opts.address,
	})
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(w, "Account created. Sign in with 'storerate login'.")
	return exitOK
}

type passwordOptions struct {
	current string
	next    string
	confirm string
}

func (a *app) passwordCommand() *cobra.Command {
	var opts passwordOptions
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the password of the signed-in account",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&opts.current, "current", "", "Current password")
	cmd.Flags().StringVar(&opts.next, "new", "", "New password")
	cmd.Flags().StringVar(&opts.confirm, "confirm", "", "New password again")
	cmd.Run = a.run(func(ctx context.Context, w io.Writer) int {
		return a.runPassword(ctx, w, opts)
	})
	return cmd
}

func (a *app) runPassword(ctx context.Context, w io.Writer, opts passwordOptions) int {
	if err := a.ask("Change password",
		field{flag: "current", label: "Current password", value: &opts.current, secret: true},
		field{flag: "new", label: "New password", value: &opts.next, secret: true},
		field{flag: "confirm", label: "Confirm new password", value: &opts.confirm, secret: true},
	); err != nil {
		return a.fail(err)
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	if err := c.ChangePassword(ctx, opts.current, opts.next, opts.confirm); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(w, "Password changed")
	return exitOK
}

func (a *app) openCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Show where a view path leads for the current session",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Run = func(c *cobra.Command, args []string) {
		a.run(func(ctx context.Context, w io.Writer) int {
			return a.runOpen(ctx, w, args[0])
		})(c, args)
	}
	return cmd
}

// runOpen exits non-zero when the path redirects elsewhere.
func (a *app) runOpen(ctx context.Context, w io.Writer, path string) int {
	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	out, err := c.Navigate(ctx, path)
	if err != nil {
		return a.fail(err)
	}

	if a.jsonOutput {
		fmt.Fprintln(w, formatJSON(map[string]string{
			"path":     route.Clean(path),
			"decision": out.Decision.String(),
			"target":   out.Target,
		}))
	} else {
		fmt.Fprintln(w, formatDecision(route.Clean(path), out))
	}

	if out.Decision.Denied() {
		return exitAuth
	}
	return exitOK
}
