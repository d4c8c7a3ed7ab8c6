package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	negotiationrender "github.com/bnema/haggle/internal/adapters/render/negotiation"
	"github.com/bnema/haggle/internal/application"
	"github.com/bnema/haggle/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var errPartialCoordinates = errors.New("--lat and --lng must be set together")

func newShopCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Manage shops",
	}

	cmd.AddCommand(newShopAddCmd(app))

	return cmd
}

func newShopAddCmd(app *app) *cobra.Command {
	var (
		id   string
		name string
		lat  float64
		lng  float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace a shop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			location, err := coordinatesFromFlags(cmd.Flags(), lat, lng)
			if err != nil {
				return err
			}

			shop, err := app.catalog.AddShop(cmd.Context(), application.AddShopCommand{
				ID:       domain.ShopID(id),
				Name:     name,
				Location: location,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "shop %s saved\n", shop.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "shop id (generated when empty)")
	cmd.Flags().StringVar(&name, "name", "", "shop name")
	cmd.Flags().Float64Var(&lat, "lat", 0, "shop latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "shop longitude")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProductCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}

	cmd.AddCommand(
		newProductAddCmd(app),
		newProductListCmd(app),
	)

	return cmd
}

func newProductAddCmd(app *app) *cobra.Command {
	var (
		id          string
		shopID      string
		name        string
		price       float64
		minPrice    float64
		maxDiscount float64
		fixed       bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace a product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("min-price") {
				minPrice = price
			}

			product, err := app.catalog.AddProduct(cmd.Context(), application.AddProductCommand{
				ID:                    domain.ProductID(id),
				ShopID:                domain.ShopID(shopID),
				Name:                  name,
				Price:                 price,
				MinPrice:              minPrice,
				MaxDiscountPercentage: maxDiscount,
				Negotiable:            !fixed,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "product %s saved\n", product.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "product id (generated when empty)")
	cmd.Flags().StringVar(&shopID, "shop", "", "owning shop id")
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().Float64Var(&price, "price", 0, "list price")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "lowest acceptable price (defaults to --price)")
	cmd.Flags().Float64Var(&maxDiscount, "max-discount", 0, "largest discount in percent")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "mark the product as not negotiable")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newProductListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := app.catalog.ListProducts(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tPRICE\tMIN\tMAX DISCOUNT\tNEGOTIABLE")
			for _, p := range products {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.0f%%\t%t\n", p.ID, p.Name, p.Price, p.MinPrice, p.MaxDiscountPercentage, p.Negotiable)
			}
			return w.Flush()
		},
	}
}

func newOrderCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage orders",
	}

	cmd.AddCommand(
		newOrderAddCmd(app),
		newOrderListCmd(app),
		newOrderQuoteCmd(app),
	)

	return cmd
}

func newOrderAddCmd(app *app) *cobra.Command {
	var (
		id        string
		shopID    string
		productID string
		courier   string
		status    string
		lat       float64
		lng       float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace an order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			delivery, err := coordinatesFromFlags(cmd.Flags(), lat, lng)
			if err != nil {
				return err
			}

			order, err := app.catalog.AddOrder(cmd.Context(), application.AddOrderCommand{
				ID:               domain.OrderID(id),
				ShopID:           domain.ShopID(shopID),
				ProductID:        domain.ProductID(productID),
				Delivery:         delivery,
				DeliveryPersonID: courier,
				Status:           domain.OrderStatus(status),
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "order %s saved\n", order.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "order id (generated when empty)")
	cmd.Flags().StringVar(&shopID, "shop", "", "shop id")
	cmd.Flags().StringVar(&productID, "product", "", "product id")
	cmd.Flags().StringVar(&courier, "courier", "", "delivery person id")
	cmd.Flags().StringVar(&status, "status", "", "pending, delivering or delivered (default pending)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "delivery latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "delivery longitude")
	_ = cmd.MarkFlagRequired("shop")

	return cmd
}

func newOrderListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := app.catalog.ListOrders(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tSHOP\tPRODUCT\tSTATUS\tCOURIER")
			for _, o := range orders {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.ShopID, o.ProductID, o.Status, o.DeliveryPersonID)
			}
			return w.Flush()
		},
	}
}

func newOrderQuoteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <order-id>",
		Short: "Show distance, timing and fee range for an order's delivery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quote, err := app.catalog.DeliveryQuote(cmd.Context(), domain.OrderID(args[0]))
			if err != nil {
				return err
			}

			output, err := negotiationrender.RenderQuote(quote)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}
}

func coordinatesFromFlags(flags *pflag.FlagSet, lat, lng float64) (*domain.Coordinates, error) {
	latSet, lngSet := flags.Changed("lat"), flags.Changed("lng")
	switch {
	case latSet && lngSet:
		return &domain.Coordinates{Lat: lat, Lng: lng}, nil
	case latSet || lngSet:
		return nil, errPartialCoordinates
	default:
		return nil, nil
	}
}
