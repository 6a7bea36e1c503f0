package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	goRate "github.com/MrEthical07/goRate"
)

func (a *app) usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users (admin)",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(a.usersCreateCommand(), a.usersUpdateCommand())
	cmd.Run = a.run(a.runUsers)
	return cmd
}

func (a *app) runUsers(ctx context.Context, w io.Writer) int {
	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	users, err := c.Users(ctx)
	if err != nil {
		return a.fail(err)
	}
	if a.jsonOutput {
		fmt.Fprintln(w, formatJSON(users))
		return exitOK
	}
	fmt.Fprintln(w, formatUsers(users))
	return exitOK
}

func (a *app) dashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard [search]",
		Short: "Show the landing view of the signed-in role",
	}
	cmd.Run = func(c *cobra.Command, args []string) {
		a.run(func(ctx context.Context, w io.Writer) int {
			return a.runDashboard(ctx, w, strings.Join(args, " "))
		})(c, args)
	}
	return cmd
}

// runDashboard picks the view from the role: admin, owner, or the store
// search of regular users.
func (a *app) runDashboard(ctx context.Context, w io.Writer, query string) int {
	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	id, ok := c.Identity()
	if !ok {
		return a.fail(goRate.ErrNotAuthenticated)
	}

	var (
		data     any
		rendered string
	)
	switch id.Role {
	case goRate.RoleAdmin:
		d, err := c.AdminDashboard(ctx)
		if err != nil {
			return a.fail(err)
		}
		data, rendered = d, formatAdminDashboard(d)
	case goRate.RoleOwner:
		d, err := c.OwnerDashboard(ctx)
		if err != nil {
			return a.fail(err)
		}
		data, rendered = d, formatOwnerDashboard(d)
	default:
		d, err := c.UserDashboard(ctx, query)
		if err != nil {
			return a.fail(err)
		}
		data, rendered = d, formatUserDashboard(d, id.UserID)
	}

	if a.jsonOutput {
		fmt.Fprintln(w, formatJSON(data))
		return exitOK
	}
	fmt.Fprintln(w, rendered)
	return exitOK
}
