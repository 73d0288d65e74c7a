package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/qkart/qkart/internal/api"
	"github.com/qkart/qkart/internal/cart"
	"github.com/qkart/qkart/internal/notify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	loginUsername   string
	loginPassword   string
	registerConfirm string
	productsQuery   string
	cartAddQuantity int
	cartAddUpdate   bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), notify.NewWriter(os.Stdout), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		if !a.session.Login(cmd.Context(), loginUsername, loginPassword) {
			return fmt.Errorf("login failed")
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), notify.NewWriter(os.Stdout), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		confirm := registerConfirm
		if confirm == "" {
			confirm = loginPassword
		}
		if !a.session.Register(cmd.Context(), loginUsername, loginPassword, confirm) {
			return fmt.Errorf("registration failed")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), notify.NewWriter(os.Stdout), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		if err := a.session.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalog, optionally filtered",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), notify.NewWriter(os.Stderr), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		var ok bool
		if productsQuery != "" {
			ok = a.catalog.Search(cmd.Context(), productsQuery)
		} else {
			ok = a.catalog.FetchAll(cmd.Context())
		}
		if !ok {
			return fmt.Errorf("could not fetch products")
		}

		if a.store.NoResults() {
			fmt.Println("No products found")
			return nil
		}
		printProducts(a.store.Snapshot())
		return nil
	},
}

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the cart joined with the catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), notify.NewWriter(os.Stderr), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		items, _, err := loadCart(cmd, a)
		if err != nil {
			return err
		}
		printCart(items)
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <productId>",
	Short: "Add a product to the cart, or change its quantity with --update",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), notify.NewWriter(os.Stderr), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		current, products, err := loadCart(cmd, a)
		if err != nil {
			return err
		}

		items, entries := a.mutator.AddOrUpdate(
			cmd.Context(),
			a.session.Token(),
			current,
			products,
			args[0],
			cartAddQuantity,
			cart.AddOptions{PreventDuplicate: !cartAddUpdate},
		)
		if entries == nil {
			return fmt.Errorf("cart not changed")
		}
		printCart(items)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username")
	registerCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	registerCmd.Flags().StringVar(&registerConfirm, "confirm-password", "", "repeat the password (defaults to --password)")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("password")

	productsCmd.Flags().StringVarP(&productsQuery, "search", "s", "", "filter the catalog by text")

	cartAddCmd.Flags().IntVarP(&cartAddQuantity, "qty", "q", 1, "desired quantity")
	cartAddCmd.Flags().BoolVar(&cartAddUpdate, "update", false, "allow changing the quantity of an item already in the cart")
	cartCmd.AddCommand(cartAddCmd)
}

// loadCart fetches the catalog and the raw cart concurrently, then joins
// them into the display-ready cart.
func loadCart(cmd *cobra.Command, a *app) ([]cart.Item, []api.Product, error) {
	var entries []api.CartEntry

	g, gCtx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		if !a.catalog.FetchAll(gCtx) {
			return fmt.Errorf("could not fetch products")
		}
		return nil
	})
	g.Go(func() error {
		entries = a.mutator.Fetch(gCtx, a.session.Token())
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	products := a.store.Snapshot()
	return cart.ItemsFrom(entries, products), products, nil
}

func printProducts(products []api.Product) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tCOST\tRATING")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t$%d\t%d/5\n", p.ID, p.Name, p.Category, p.Cost, p.Rating)
	}
	_ = w.Flush()
}

func printCart(items []cart.Item) {
	if len(items) == 0 {
		fmt.Println("Cart is empty")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tCOST")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t$%d\n", item.ProductID, item.Name, item.Quantity, item.Cost*int64(item.Quantity))
	}
	fmt.Fprintf(w, "\tTOTAL\t\t$%d\n", cart.Total(items))
	_ = w.Flush()
}
