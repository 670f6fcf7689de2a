package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/storefront"

	"github.com/spf13/cobra"
)

type checkoutOptions struct {
	contact storefront.Contact
	mode    string
	city    string
	tariff  int
	pvz     string
}

// NewCheckoutCommand 从本地购物车下单并发起支付
func NewCheckoutCommand(opts *RootOptions) *cobra.Command {
	co := &checkoutOptions{}
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the local cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateDeliveryMode(co.mode); err != nil {
				return err
			}
			sess, _, cleanup, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			sess.Delivery.SetMode(ctx, co.mode)
			if co.mode != constants.DeliveryModePickup {
				if strings.TrimSpace(co.city) == "" {
					return storefront.ErrCityRequired
				}
				cities, err := sess.Delivery.SearchCities(ctx, co.city)
				if err != nil {
					return err
				}
				if len(cities) == 0 {
					return fmt.Errorf("city %q not found", co.city)
				}
				sess.Delivery.SelectCity(ctx, cities[0])
				if co.tariff > 0 {
					if err := sess.Delivery.SelectTariff(co.tariff); err != nil {
						return err
					}
				}
				if co.pvz != "" {
					if err := sess.Delivery.SelectPickupPoint(co.pvz); err != nil {
						return err
					}
				}
			}

			result, err := sess.Checkout.Submit(ctx, co.contact)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Emit(result, func(w io.Writer) {
				order := result.Order
				line(w, "order\t%s", order.OrderNo)
				line(w, "status\t%s", order.Status)
				line(w, "items\t%s", order.ItemsAmount.StringFixed(2))
				line(w, "delivery\t%s", order.DeliveryCost.StringFixed(2))
				line(w, "total\t%s", order.TotalAmount.StringFixed(2))
				if result.Degraded {
					line(w, "payment\t%s", result.Message)
					return
				}
				line(w, "payment\t%s", result.Payment.ConfirmationURL)
			})
		},
	}
	cmd.Flags().StringVar(&co.contact.Name, "name", "", "contact name")
	cmd.Flags().StringVar(&co.contact.Phone, "phone", "", "contact phone (+7...)")
	cmd.Flags().StringVar(&co.contact.Address, "address", "", "courier address")
	cmd.Flags().StringVar(&co.contact.Comment, "comment", "", "order comment")
	cmd.Flags().StringVar(&co.mode, "mode", constants.DeliveryModePvz, "delivery mode (pvz|courier|pickup)")
	cmd.Flags().StringVar(&co.city, "city", "", "city search query, first match is used")
	cmd.Flags().IntVar(&co.tariff, "tariff", 0, "tariff code (defaults to the cheapest)")
	cmd.Flags().StringVar(&co.pvz, "pvz", "", "pickup point code (defaults to the first)")
	return cmd
}
