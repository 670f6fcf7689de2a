package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ram-us/internal/constants"
	"github.com/ram-us/internal/storefront"

	"github.com/spf13/cobra"
)

// NewCitiesCommand 搜索 CDEK 城市
func NewCitiesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cities <query>",
		Short: "Search delivery cities",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, cleanup, err := opts.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			cities, err := sess.Delivery.SearchCities(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Emit(cities, func(w io.Writer) {
				if len(cities) == 0 {
					line(w, "no cities found")
					return
				}
				line(w, "CODE\tCITY\tREGION")
				for _, c := range cities {
					line(w, "%d\t%s\t%s", c.Code, c.City, c.Region)
				}
			})
		},
	}
}

type tariffsView struct {
	WeightGrams int                 `json:"weight_grams"`
	Tariffs     []storefront.Tariff `json:"tariffs"`
	Cheapest    *storefront.Tariff  `json:"cheapest,omitempty"`
}

// NewTariffsCommand 计算运费
func NewTariffsCommand(opts *RootOptions) *cobra.Command {
	var (
		cityCode int
		items    int
		mode     string
	)
	cmd := &cobra.Command{
		Use:   "tariffs",
		Short: "Calculate delivery tariffs for a city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cityCode <= 0 {
				return fmt.Errorf("--city-code is required")
			}
			if err := validateDeliveryMode(mode); err != nil {
				return err
			}
			if items <= 0 {
				sess, _, cleanup, err := opts.session(cmd.Context())
				if err != nil {
					return err
				}
				items = sess.Cart.TotalItems()
				cleanup()
			}
			weight := storefront.ShipmentWeight(items)
			tariffs, err := opts.client().CalculateTariffs(cmd.Context(), storefront.TariffRequest{
				CityCode:    cityCode,
				WeightGrams: weight,
				Mode:        mode,
			})
			if err != nil {
				return err
			}
			filtered := storefront.FilterTariffs(tariffs, mode)
			view := tariffsView{WeightGrams: weight, Tariffs: filtered, Cheapest: storefront.CheapestTariff(filtered)}
			return opts.formatter(cmd).Emit(view, func(w io.Writer) {
				line(w, "CODE\tNAME\tPRICE\tDAYS")
				for _, t := range view.Tariffs {
					marker := ""
					if view.Cheapest != nil && view.Cheapest.Code == t.Code {
						marker = " *"
					}
					line(w, "%d\t%s\t%s%s\t%d-%d", t.Code, t.Name, t.DeliverySum.StringFixed(2), marker, t.PeriodMin, t.PeriodMax)
				}
				line(w, "weight %d g", view.WeightGrams)
			})
		},
	}
	cmd.Flags().IntVar(&cityCode, "city-code", 0, "CDEK city code")
	cmd.Flags().IntVar(&items, "items", 0, "number of items (defaults to the local cart)")
	cmd.Flags().StringVar(&mode, "mode", constants.DeliveryModePvz, "delivery mode (pvz|courier)")
	return cmd
}

func validateDeliveryMode(mode string) error {
	switch mode {
	case constants.DeliveryModePvz, constants.DeliveryModeCourier, constants.DeliveryModePickup:
		return nil
	default:
		return fmt.Errorf("invalid delivery mode %q", mode)
	}
}
