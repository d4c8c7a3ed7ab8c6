package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	negotiationrender "github.com/bnema/haggle/internal/adapters/render/negotiation"
	"github.com/bnema/haggle/internal/application"
	"github.com/bnema/haggle/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var errChatTarget = errors.New("pass a negotiation id, --product or --order")

type chatOfferFunc func(context.Context, float64) (domain.Negotiation, domain.Decision, error)

type chatDecisionMsg struct {
	offer       float64
	negotiation domain.Negotiation
	decision    domain.Decision
	err         error
}

var (
	chatTitleStyle  = lipgloss.NewStyle().Bold(true)
	chatYouStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	chatShopStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	chatErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	chatFooterStyle = lipgloss.NewStyle().Faint(true)
)

type chatModel struct {
	ctx         context.Context
	submit      chatOfferFunc
	input       textinput.Model
	spinner     spinner.Model
	negotiation domain.Negotiation
	transcript  []string
	busy        bool
	done        bool
	err         error
}

func newChatModel(ctx context.Context, negotiation domain.Negotiation, submit chatOfferFunc) chatModel {
	input := textinput.New()
	input.Placeholder = "your offer"
	input.Prompt = "> "
	input.CharLimit = 16
	input.Width = 20
	input.Focus()

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	opening := fmt.Sprintf("shop: I can do %.2f for this %s.", negotiation.OpeningPrice, negotiation.Subject.Kind)
	m := chatModel{
		ctx:         ctx,
		submit:      submit,
		input:       input,
		spinner:     s,
		negotiation: negotiation,
		transcript:  []string{chatShopStyle.Render(opening)},
	}
	if negotiation.State.Status.Terminal() {
		m.done = true
		m.transcript = append(m.transcript, chatShopStyle.Render(fmt.Sprintf("shop: this negotiation is already %s.", negotiation.State.Status)))
	}

	return m
}

func (m chatModel) Init() tea.Cmd {
	if m.done {
		return tea.Quit
	}
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			return m.submitOffer()
		}
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case chatDecisionMsg:
		return m.applyDecision(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) submitOffer() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return m, nil
	}

	offer, err := parseOffer(raw)
	if err != nil {
		m.transcript = append(m.transcript, chatErrorStyle.Render(fmt.Sprintf("%q is not a price", raw)))
		m.input.Reset()
		return m, nil
	}

	m.busy = true
	m.input.Reset()
	submit, ctx := m.submit, m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		negotiation, decision, err := submit(ctx, offer)
		return chatDecisionMsg{offer: offer, negotiation: negotiation, decision: decision, err: err}
	})
}

func (m chatModel) applyDecision(msg chatDecisionMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.transcript = append(m.transcript, chatYouStyle.Render(fmt.Sprintf("you: %.2f", msg.offer)))

	if msg.err != nil {
		m.transcript = append(m.transcript, chatErrorStyle.Render(msg.err.Error()))
		if errors.Is(msg.err, domain.ErrInvalidOffer) {
			return m, nil
		}
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}

	m.negotiation = msg.negotiation
	m.transcript = append(m.transcript, chatShopStyle.Render(fmt.Sprintf("shop: %s  [%s]", msg.decision.Message, negotiationrender.RenderDecision(msg.decision))))
	if msg.decision.Terminal() {
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m chatModel) View() string {
	lines := []string{chatTitleStyle.Render(fmt.Sprintf("Negotiating %s %s", m.negotiation.Subject.Kind, m.negotiation.Subject.RefID))}
	lines = append(lines, m.transcript...)

	if m.done {
		return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
	}

	if m.busy {
		lines = append(lines, m.spinner.View()+" thinking...")
	} else {
		lines = append(lines, m.input.View())
	}
	state := m.negotiation.State
	lines = append(lines, chatFooterStyle.Render(fmt.Sprintf("round %d/%d  enter to send, esc to leave", state.Round, state.Strategy.RoundCap)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func newChatCmd(app *app) *cobra.Command {
	var (
		productID string
		orderID   string
	)

	cmd := &cobra.Command{
		Use:   "chat [negotiation-id]",
		Short: "Negotiate interactively in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			negotiation, err := app.chatNegotiation(cmd.Context(), args, productID, orderID)
			if err != nil {
				return err
			}

			submit := func(ctx context.Context, offer float64) (domain.Negotiation, domain.Decision, error) {
				return app.negotiations.SubmitOffer(ctx, application.SubmitOfferCommand{NegotiationID: negotiation.ID, Offer: offer})
			}

			p := tea.NewProgram(
				newChatModel(cmd.Context(), negotiation, submit),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithContext(cmd.Context()),
			)

			finalModel, err := p.Run()
			if err != nil {
				return err
			}

			result, ok := finalModel.(chatModel)
			if !ok {
				return fmt.Errorf("unexpected final chat model type %T", finalModel)
			}

			return result.err
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "start a new negotiation for this product")
	cmd.Flags().StringVar(&orderID, "order", "", "start a new delivery negotiation for this order")

	return cmd
}

func (a *app) chatNegotiation(ctx context.Context, args []string, productID, orderID string) (domain.Negotiation, error) {
	targets := 0
	for _, set := range []bool{len(args) == 1, productID != "", orderID != ""} {
		if set {
			targets++
		}
	}
	if targets != 1 {
		return domain.Negotiation{}, errChatTarget
	}

	switch {
	case productID != "":
		return a.negotiations.StartProduct(ctx, domain.ProductID(productID))
	case orderID != "":
		return a.negotiations.StartDelivery(ctx, domain.OrderID(orderID))
	default:
		return a.negotiations.Get(ctx, domain.NegotiationID(args[0]))
	}
}
