package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	goRate "github.com/MrEthical07/goRate"
	"github.com/MrEthical07/goRate/identity"
)

type userOptions struct {
	name     string
	email    string
	password string
	address  string
	role     string
}

func (o *userOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.name, "name", "", "Full name")
	cmd.Flags().StringVar(&o.email, "email", "", "Email")
	cmd.Flags().StringVar(&o.password, "password", "", "Password")
	cmd.Flags().StringVar(&o.address, "address", "", "Address")
	cmd.Flags().StringVar(&o.role, "role", "", "Role: ADMIN, USER or OWNER")
}

func (a *app) usersCreateCommand() *cobra.Command {
	var opts userOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user (admin)",
		Args:  cobra.NoArgs,
	}
	opts.bind(cmd)
	cmd.Run = a.run(func(ctx context.Context, w io.Writer) int {
		return a.runCreateUser(ctx, w, opts)
	})
	return cmd
}

func (a *app) runCreateUser(ctx context.Context, w io.Writer, opts userOptions) int {
	if err := a.ask("Create user",
		field{flag: "name", label: "Name", value: &opts.name},
		field{flag: "email", label: "Email", value: &opts.email},
		field{flag: "password", label: "Password", value: &opts.password, secret: true},
		field{flag: "address", label: "Address", value: &opts.address},
	); err != nil {
		return a.fail(err)
	}
	if opts.role == "" && a.choose != nil {
		if err := a.choose("Role", roleChoices(), &opts.role); err != nil {
			return a.fail(err)
		}
	}
	if opts.role == "" {
		opts.role = string(goRate.RoleUser)
	}
	role, err := parseRole(opts.role)
	if err != nil {
		return a.fail(err)
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	user, err := c.CreateUser(ctx, goRate.UserInput{
		Name:     opts.name,
		Email:    opts.email,
		Password: opts.password,
		Address:  opts.address,
		Role:     role,
	})
	if err != nil {
		return a.fail(err)
	}
	if a.jsonOutput {
		fmt.Fprintln(w, formatJSON(user))
		return exitOK
	}
	fmt.Fprintf(w, "%s %s %s (%s)\n", okStyle.Render("Created"), roleBadge(user.Role), user.Email, user.ID)
	return exitOK
}

func (a *app) usersUpdateCommand() *cobra.Command {
	var opts userOptions
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a user (admin)",
		Args:  cobra.ExactArgs(1),
	}
	opts.bind(cmd)
	cmd.Run = func(c *cobra.Command, args []string) {
		a.run(func(ctx context.Context, w io.Writer) int {
			return a.runUpdateUser(ctx, w, args[0], opts)
		})(c, args)
	}
	return cmd
}

func (a *app) runUpdateUser(ctx context.Context, w io.Writer, id string, opts userOptions) int {
	if opts == (userOptions{}) {
		return a.fail(fmt.Errorf("%w: nothing to update", goRate.ErrInvalidInput))
	}
	var role goRate.Role
	if opts.role != "" {
		r, err := parseRole(opts.role)
		if err != nil {
			return a.fail(err)
		}
		role = r
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	user, err := c.UpdateUser(ctx, id, goRate.UserInput{
		Name:     opts.name,
		Email:    opts.email,
		Password: opts.password,
		Address:  opts.address,
		Role:     role,
	})
	if err != nil {
		return a.fail(err)
	}
	if a.jsonOutput {
		fmt.Fprintln(w, formatJSON(user))
		return exitOK
	}
	fmt.Fprintf(w, "%s %s %s (%s)\n", okStyle.Render("Updated"), roleBadge(user.Role), user.Email, user.ID)
	return exitOK
}

type storeOptions struct {
	name    string
	email   string
	address string
	owner   string
}

func (o *storeOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.name, "name", "", "Store name")
	cmd.Flags().StringVar(&o.email, "email", "", "Store email")
	cmd.Flags().StringVar(&o.address, "address", "", "Store address")
	cmd.Flags().StringVar(&o.owner, "owner", "", "Owner id or email")
}

func (a *app) storesCreateCommand() *cobra.Command {
	var opts storeOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a store (admin)",
		Args:  cobra.NoArgs,
	}
	opts.bind(cmd)
	cmd.Run = a.run(func(ctx context.Context, w io.Writer) int {
		return a.runCreateStore(ctx, w, opts)
	})
	return cmd
}

func (a *app) runCreateStore(ctx context.Context, w io.Writer, opts storeOptions) int {
	if err := a.ask("Create store",
		field{flag: "name", label: "Name", value: &opts.name},
		field{flag: "email", label: "Email", value: &opts.email},
		field{flag: "address", label: "Address", value: &opts.address},
	); err != nil {
		return a.fail(err)
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	ownerID, err := a.pickOwner(ctx, c, opts.owner, true)
	if err != nil {
		return a.fail(err)
	}

	store, err := c.CreateStore(ctx, goRate.StoreInput{
		Name:    opts.name,
		Email:   opts.email,
		Address: opts.address,
		OwnerID: ownerID,
	})
	if err != nil {
		return a.fail(err)
	}
	if a.jsonOutput {
		fmt.Fprintln(w, formatJSON(store))
		return exitOK
	}
	fmt.Fprintf(w, "%s %s (%s)\n", okStyle.Render("Created"), store.Name, store.ID)
	if store.Owner != nil {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Owner:"), store.Owner.Name)
	}
	return exitOK
}

func (a *app) storesUpdateCommand() *cobra.Command {
	var opts storeOptions
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a store (admin)",
		Args:  cobra.ExactArgs(1),
	}
	opts.bind(cmd)
	cmd.Run = func(c *cobra.Command, args []string) {
		a.run(func(ctx context.Context, w io.Writer) int {
			return a.runUpdateStore(ctx, w, args[0], opts)
		})(c, args)
	}
	return cmd
}

func (a *app) runUpdateStore(ctx context.Context, w io.Writer, id string, opts storeOptions) int {
	if opts == (storeOptions{}) {
		return a.fail(fmt.Errorf("%w: nothing to update", goRate.ErrInvalidInput))
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	var ownerID string
	if opts.owner != "" {
		if ownerID, err = a.pickOwner(ctx, c, opts.owner, false); err != nil {
			return a.fail(err)
		}
	}

	store, err := c.UpdateStore(ctx, id, goRate.StoreInput{
		Name:    opts.name,
		Email:   opts.email,
		Address: opts.address,
		OwnerID: ownerID,
	})
	if err != nil {
		return a.fail(err)
	}
	if a.jsonOutput {
		fmt.Fprintln(w, formatJSON(store))
		return exitOK
	}
	fmt.Fprintf(w, "%s %s (%s)\n", okStyle.Render("Updated"), store.Name, store.ID)
	return exitOK
}

// pickOwner resolves the owner of a store. A flag value matches a candidate
// by id or email. Without one the admin picks from the OWNER accounts when
// prompting is possible and interactive is set; otherwise the store gets no
// owner.
func (a *app) pickOwner(ctx context.Context, c *goRate.Client, flag string, interactive bool) (string, error) {
	if flag == "" && (!interactive || a.choose == nil) {
		return "", nil
	}

	owners, err := c.OwnerCandidates(ctx)
	if err != nil {
		return "", err
	}

	if flag != "" {
		for _, u := range owners {
			if u.ID == flag || strings.EqualFold(u.Email, flag) {
				return u.ID, nil
			}
		}
		return "", fmt.Errorf("%w: no OWNER account matches %q", goRate.ErrInvalidInput, flag)
	}

	options := make([]choice, 0, len(owners)+1)
	options = append(options, choice{label: "No owner", value: ""})
	for _, u := range owners {
		options = append(options, choice{label: fmt.Sprintf("%s <%s>", u.Name, u.Email), value: u.ID})
	}
	var picked string
	if err := a.choose("Store owner", options, &picked); err != nil {
		return "", err
	}
	return picked, nil
}

func roleChoices() []choice {
	roles := identity.Roles()
	out := make([]choice, 0, len(roles))
	for _, r := range roles {
		out = append(out, choice{label: string(r), value: string(r)})
	}
	return out
}

func parseRole(value string) (goRate.Role, error) {
	r, err := identity.ParseRole(strings.ToUpper(strings.TrimSpace(value)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", goRate.ErrInvalidInput, err)
	}
	return r, nil
}
