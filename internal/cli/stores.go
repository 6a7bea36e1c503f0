package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	goRate "github.com/MrEthical07/goRate"
)

// raterID is the user whose own rating the store views show. Only USER
// accounts rate stores.
func raterID(c *goRate.Client) string {
	id, ok := c.Identity()
	if !ok || id.Role != goRate.RoleUser {
		return ""
	}
	return id.UserID
}

func (a *app) storesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stores [search]",
		Short: "List stores, optionally matching a name or address",
	}
	cmd.AddCommand(a.storesCreateCommand(), a.storesUpdateCommand())
	cmd.Run = func(c *cobra.Command, args []string) {
		a.run(func(ctx context.Context, w io.Writer) int {
			return a.runStores(ctx, w, strings.Join(args, " "))
		})(c, args)
	}
	return cmd
}

func (a *app) runStores(ctx context.Context, w io.Writer, term string) int {
	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	stores, err := c.SearchStores(ctx, term)
	if err != nil {
		return a.fail(err)
	}
	if a.jsonOutput {
		fmt.Fprintln(w, formatJSON(stores))
		return exitOK
	}
	fmt.Fprintln(w, formatStores(stores, raterID(c)))
	return exitOK
}

func (a *app) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store <id>",
		Short: "Show a store with its ratings",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Run = func(c *cobra.Command, args []string) {
		a.run(func(ctx context.Context, w io.Writer) int {
			return a.runStore(ctx, w, args[0])
		})(c, args)
	}
	return cmd
}

func (a *app) runStore(ctx context.Context, w io.Writer, id string) int {
	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	store, err := c.Store(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	if a.jsonOutput {
		fmt.Fprintln(w, formatJSON(store))
		return exitOK
	}
	fmt.Fprintln(w, formatStore(store, raterID(c)))
	return exitOK
}

func (a *app) rateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate <store-id> <1-5>",
		Short: "Rate a store",
		Args:  cobra.ExactArgs(2),
	}
	cmd.Run = func(c *cobra.Command, args []string) {
		a.run(func(ctx context.Context, w io.Writer) int {
			return a.runRate(ctx, w, args[0], args[1])
		})(c, args)
	}
	return cmd
}

func (a *app) runRate(ctx context.Context, w io.Writer, storeID, value string) int {
	v, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: rating %q is not a number\n", value)
		return exitUsage
	}

	c, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer c.Close()

	store, err := c.RateStore(ctx, storeID, v)
	if err != nil {
		return a.fail(err)
	}
	if a.jsonOutput {
		fmt.Fprintln(w, formatJSON(store))
		return exitOK
	}
	fmt.Fprintf(w, "Rated %s %d/5. Average is now %.1f.\n", store.Name, v, store.AverageRating)
	fmt.Fprintln(w, formatStore(store, raterID(c)))
	return exitOK
}
