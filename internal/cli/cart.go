package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ram-us/internal/storefront"

	"github.com/spf13/cobra"
)

type cartView struct {
	Items      []storefront.CartItem `json:"items"`
	TotalItems int                   `json:"total_items"`
	TotalPrice string                `json:"total_price"`
}

func newCartView(cart *storefront.CartStore) cartView {
	return cartView{
		Items:      cart.Items(),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice().StringFixed(2),
	}
}

func emitCart(opts *RootOptions, cmd *cobra.Command, cart *storefront.CartStore) error {
	view := newCartView(cart)
	return opts.formatter(cmd).Emit(view, func(w io.Writer) {
		line(w, "ID\tPART\tNAME\tQTY\tPRICE")
		for _, item := range view.Items {
			line(w, "%d\t%s\t%s\t%d\t%s", item.ID, item.PartNumber, item.Name, item.Quantity, item.PriceRub.StringFixed(2))
		}
		line(w, "%d items, total %s ₽", view.TotalItems, view.TotalPrice)
	})
}

func parseProductID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}
	return uint(id), nil
}

// NewCartCommand 本地购物车
func NewCartCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the local cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, cleanup, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			return emitCart(opts, cmd, sess.Cart)
		},
	}

	var quantity int
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			sess, client, cleanup, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			product, err := client.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			sess.Cart.AddItem(cmd.Context(), product.ToCartItem())
			if quantity > 1 {
				if item, ok := sess.Cart.Item(id); ok {
					sess.Cart.UpdateQuantity(cmd.Context(), id, item.Quantity+quantity-1)
				}
			}
			return emitCart(opts, cmd, sess.Cart)
		},
	}
	add.Flags().IntVarP(&quantity, "qty", "q", 1, "quantity to add")

	cmd.AddCommand(add)
	cmd.AddCommand(&cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set the quantity of a cart line (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			sess, _, cleanup, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			sess.Cart.UpdateQuantity(cmd.Context(), id, qty)
			return emitCart(opts, cmd, sess.Cart)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			sess, _, cleanup, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			sess.Cart.RemoveItem(cmd.Context(), id)
			return emitCart(opts, cmd, sess.Cart)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, cleanup, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			sess.Cart.Clear(cmd.Context())
			return emitCart(opts, cmd, sess.Cart)
		},
	})
	return cmd
}

// NewGarageCommand 本地车库
func NewGarageCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "garage",
		Short: "Show the saved vehicle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, cleanup, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			return emitVehicle(opts, cmd, sess.Garage.Vehicle())
		},
	}

	var vehicle storefront.Vehicle
	set := &cobra.Command{
		Use:   "set",
		Short: "Save the vehicle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, cleanup, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			if err := sess.Garage.SetVehicle(cmd.Context(), vehicle); err != nil {
				return err
			}
			return emitVehicle(opts, cmd, sess.Garage.Vehicle())
		},
	}
	set.Flags().StringVar(&vehicle.Make, "make", "", "manufacturer")
	set.Flags().StringVar(&vehicle.Model, "model", "", "model")
	set.Flags().StringVar(&vehicle.Year, "year", "", "production year")
	set.Flags().StringVar(&vehicle.Engine, "engine", "", "engine")

	cmd.AddCommand(set)
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the saved vehicle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, cleanup, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			sess.Garage.ClearVehicle(cmd.Context())
			return emitVehicle(opts, cmd, nil)
		},
	})
	return cmd
}

func emitVehicle(opts *RootOptions, cmd *cobra.Command, v *storefront.Vehicle) error {
	return opts.formatter(cmd).Emit(v, func(w io.Writer) {
		if v == nil {
			line(w, "garage is empty")
			return
		}
		line(w, "%s %s %s %s", v.Make, v.Model, v.Year, v.Engine)
	})
}
