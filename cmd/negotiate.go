package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bnema/haggle/internal/adapters/render/export"
	negotiationrender "github.com/bnema/haggle/internal/adapters/render/negotiation"
	"github.com/bnema/haggle/internal/application"
	"github.com/bnema/haggle/internal/domain"
	"github.com/spf13/cobra"
)

func newNegotiateCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "negotiate",
		Short: "Start and drive stored negotiations",
	}

	cmd.AddCommand(
		newNegotiateProductCmd(app),
		newNegotiateDeliveryCmd(app),
		newNegotiateOfferCmd(app),
		newNegotiateShowCmd(app),
		newNegotiateListCmd(app),
	)

	return cmd
}

func newNegotiateProductCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product <product-id>",
		Short: "Start negotiating a product's price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			negotiation, err := app.negotiations.StartProduct(cmd.Context(), domain.ProductID(args[0]))
			if err != nil {
				return err
			}

			return printStarted(cmd.OutOrStdout(), negotiation)
		},
	}
}

func newNegotiateDeliveryCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delivery <order-id>",
		Short: "Start negotiating an order's delivery fee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			negotiation, err := app.negotiations.StartDelivery(cmd.Context(), domain.OrderID(args[0]))
			if err != nil {
				return err
			}

			return printStarted(cmd.OutOrStdout(), negotiation)
		},
	}
}

func printStarted(w io.Writer, n domain.Negotiation) error {
	_, err := fmt.Fprintf(w, "negotiation %s started for %s %s\nopening price: %.2f (range %.2f - %.2f, %d rounds)\n",
		n.ID, n.Subject.Kind, n.Subject.RefID, n.OpeningPrice,
		n.State.Bounds.Min, n.State.Bounds.Max, n.State.Strategy.RoundCap)
	return err
}

func newNegotiateOfferCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "offer <negotiation-id> <price>",
		Short: "Send an offer to an open negotiation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			offer, err := parseOffer(args[1])
			if err != nil {
				return err
			}

			negotiation, decision, err := app.negotiations.SubmitOffer(cmd.Context(), application.SubmitOfferCommand{
				NegotiationID: domain.NegotiationID(args[0]),
				Offer:         offer,
			})
			if err != nil {
				return err
			}

			return printDecision(cmd.OutOrStdout(), decision, negotiation.State)
		},
	}
}

func printDecision(w io.Writer, decision domain.Decision, state domain.State) error {
	_, err := fmt.Fprintf(w, "%s\n%s\nround %d/%d, status %s\n",
		negotiationrender.RenderDecision(decision), decision.Message,
		state.Round, state.Strategy.RoundCap, state.Status)
	return err
}

func newNegotiateShowCmd(app *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <negotiation-id>",
		Short: "Show a negotiation and its rounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			negotiation, err := app.negotiations.Get(cmd.Context(), domain.NegotiationID(args[0]))
			if err != nil {
				return err
			}

			if outputFormat != export.FormatText {
				return export.Encode(cmd.OutOrStdout(), outputFormat, export.FromNegotiation(negotiation))
			}

			output, err := negotiationrender.RenderNegotiation(negotiation, negotiationrender.RenderOptions{Now: app.now()})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, yaml or toml")

	return cmd
}

func newNegotiateListCmd(app *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List negotiations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputFormat, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			summaries, err := app.negotiations.List(cmd.Context())
			if err != nil {
				return err
			}

			if outputFormat != export.FormatText {
				return export.Encode(cmd.OutOrStdout(), outputFormat, export.FromSummaries(summaries))
			}

			output, err := negotiationrender.RenderList(summaries)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, yaml or toml")

	return cmd
}

func parseOffer(raw string) (float64, error) {
	offer, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidOffer, raw)
	}
	return offer, nil
}
