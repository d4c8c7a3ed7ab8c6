package negotiation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/haggle/internal/application"
	"github.com/bnema/haggle/internal/domain"
	"github.com/bnema/haggle/internal/geo"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 24

type RenderOptions struct {
	Now time.Time
}

// RenderNegotiation shows one negotiation with its full round history.
func RenderNegotiation(n domain.Negotiation, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return negotiationView(n, opts, s) })
}

func RenderList(summaries []application.NegotiationSummary) (string, error) {
	return run(func(s styles) string { return listView(summaries, s) })
}

func RenderQuote(quote application.DeliveryQuote) (string, error) {
	return run(func(s styles) string { return quoteView(quote, s) })
}

// RenderDecision formats a single decision line, used by the chat loop after
// each offer.
func RenderDecision(d domain.Decision) string {
	return decisionLine(d, newStyles())
}

func negotiationView(n domain.Negotiation, opts RenderOptions, s styles) string {
	state := n.State
	lines := []string{
		s.subject.Render(subjectTitle(n.Subject, n.ID)),
		s.header.Render(fmt.Sprintf("status: %s  round %d/%d  %s",
			state.Status, state.Round, state.Strategy.RoundCap, formatAge(n.UpdatedAt, opts.Now))),
		s.detail.Render(fmt.Sprintf("range: %s - %s  max discount %.0f%%  opening %s",
			formatPrice(state.Bounds.Min), formatPrice(state.Bounds.Max),
			state.Bounds.MaxDiscount*100, formatPrice(n.OpeningPrice))),
	}

	if len(n.Rounds) == 0 {
		lines = append(lines, s.section.Render(s.empty.Render("No offers yet.")))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	rounds := make([]string, 0, len(n.Rounds))
	for _, round := range n.Rounds {
		rounds = append(rounds, roundLine(round, state.Bounds, s))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, rounds...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func roundLine(round domain.Round, bounds domain.Bounds, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.key.Render(fmt.Sprintf("#%d offer %s", round.Number, formatPrice(round.Offer))),
		" ",
		renderProgressBar(offerPercent(round.Offer, bounds), barWidth, s),
		" ",
		decisionLine(round.Decision, s),
	)
}

func decisionLine(d domain.Decision, s styles) string {
	switch d.Outcome {
	case domain.OutcomeAccept:
		return s.accepted.Render("accepted")
	case domain.OutcomeReject:
		return s.rejected.Render(fmt.Sprintf("rejected (%s)", reasonLabel(d.Reason)))
	case domain.OutcomeCounter:
		label := fmt.Sprintf("counter %s", formatPrice(d.Price))
		if !d.Continue {
			label += " (final)"
		}
		return s.countered.Render(label)
	default:
		return s.empty.Render("pending")
	}
}

func listView(summaries []application.NegotiationSummary, s styles) string {
	lines := []string{
		s.title.Render("Negotiations"),
		s.header.Render(fmt.Sprintf("negotiations: %d", len(summaries))),
	}

	if len(summaries) == 0 {
		lines = append(lines, s.empty.Render("No negotiations yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, summary := range summaries {
		detail := fmt.Sprintf("%s  round %d/%d  opening %s", summary.Status, summary.Round, summary.RoundCap, formatPrice(summary.OpeningPrice))
		if summary.LastOffer != nil {
			detail += "  last offer " + formatPrice(*summary.LastOffer)
		}
		if summary.LastCounter != nil {
			detail += "  last counter " + formatPrice(*summary.LastCounter)
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			s.subject.Render(subjectTitle(summary.Subject, summary.ID)),
			s.detail.Render(detail),
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func quoteView(q application.DeliveryQuote, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Delivery quote for %s", q.OrderID)),
	}

	if q.HasCoordinates {
		lines = append(lines, s.detail.Render("distance: "+q.Distance))
		for _, mode := range []geo.TransportMode{geo.TransportWalk, geo.TransportBike, geo.TransportCar} {
			lines = append(lines, s.meta.Render(fmt.Sprintf("  %-4s %d min", mode, q.TravelMinutes[mode])))
		}
	} else {
		lines = append(lines, s.empty.Render("distance: unknown, default fee range applies"))
	}

	lines = append(lines,
		s.detail.Render(fmt.Sprintf("estimated delivery: %d min", q.EstimatedMinutes)),
		s.detail.Render(fmt.Sprintf("fee range: %s - %s  opening %s",
			formatPrice(q.Bounds.Min), formatPrice(q.Bounds.Max), formatPrice(q.OpeningFee))),
	)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func subjectTitle(subject domain.Subject, id domain.NegotiationID) string {
	return fmt.Sprintf("%s %s (%s)", subject.Kind, subject.RefID, id)
}

func reasonLabel(reason domain.RejectReason) string {
	switch reason {
	case domain.RejectFullPrice:
		return "full price"
	case domain.RejectBelowMinimum:
		return "below minimum"
	case domain.RejectExceedsMaxDiscount:
		return "discount too deep"
	default:
		return string(reason)
	}
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// offerPercent places an offer inside [min, max] as 0..100.
func offerPercent(offer float64, bounds domain.Bounds) float64 {
	if bounds.Max == bounds.Min {
		return 100
	}

	return clampPercent((offer - bounds.Min) / (bounds.Max - bounds.Min) * 100)
}

func renderProgressBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatAge(updatedAt, now time.Time) string {
	if updatedAt.IsZero() {
		return ""
	}
	if now.IsZero() {
		return "updated " + updatedAt.Format(time.RFC3339)
	}

	elapsed := now.Sub(updatedAt)
	switch {
	case elapsed < time.Minute:
		return "updated just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("updated %s ago", plural(int(elapsed.Minutes()), "minute"))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("updated %s ago", plural(int(elapsed.Hours()), "hour"))
	default:
		return fmt.Sprintf("updated %s ago", plural(int(elapsed.Hours()/24), "day"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
