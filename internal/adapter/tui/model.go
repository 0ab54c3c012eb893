package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simaogato/sendflow/internal/domain"
	"github.com/simaogato/sendflow/internal/usecase/flow"
)

const (
	colorText   = "#E6E6E6"
	colorSubtle = "#8A8F98"
	colorAccent = "#635BFF"
	colorDim    = "#4A4F57"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputAmount
	inputNote
)

// viewMsg carries a machine change into the bubbletea loop
type viewMsg flow.View

// Model is a terminal shell over a single flow machine
type Model struct {
	machine *flow.Machine
	catalog domain.Catalog
	view    flow.View

	updates     chan flow.View
	unsubscribe func()

	mode   inputMode
	buffer string

	width  int
	height int
}

// New wires a model to m. The model subscribes to m until Close is called.
func New(m *flow.Machine, cat domain.Catalog) *Model {
	updates := make(chan flow.View, 1)
	model := &Model{
		machine: m,
		catalog: cat,
		view:    m.View(),
		updates: updates,
	}
	model.unsubscribe = m.Subscribe(func(v flow.View) {
		// keep only the newest view; the model re-reads the machine anyway
		select {
		case updates <- v:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- v:
			default:
			}
		}
	})
	return model
}

// Close detaches the model from its machine
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) Init() tea.Cmd {
	return m.waitForView()
}

func (m *Model) waitForView() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		return viewMsg(<-updates)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.view = flow.View(msg)
		return m, m.waitForView()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode != inputNone {
			return m, m.handleInput(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "r":
		m.dispatch(flow.RequestReview{})
	case "enter":
		m.pressPrimary()
	case "b":
		m.dispatch(flow.Back{})
	case "esc":
		m.dispatch(flow.PressEscape{})
	case "p":
		m.dispatch(flow.OpenPopover{})
	case "o":
		m.dispatch(flow.OpenDialog{})
	case "x":
		m.dispatch(flow.Reset{Host: m.machine.State().Host})
	case "e":
		if !m.view.EditingEnabled {
			return nil
		}
		m.dispatch(flow.OpenClause{Clause: domain.ClauseAmount})
		m.mode = inputAmount
		m.buffer = m.view.AmountText
	case "n":
		if !m.view.EditingEnabled {
			return nil
		}
		m.mode = inputNote
		m.buffer = m.view.Draft.Note
	case "s":
		m.dispatch(flow.SetSender{ID: m.nextParty(m.view.Draft.SenderID, m.view.Draft.ReceiverID)})
	case "d":
		m.dispatch(flow.SetReceiver{ID: m.nextParty(m.view.Draft.ReceiverID, m.view.Draft.SenderID)})
	case "m":
		m.dispatch(flow.SetMethod{ID: m.nextMethod(m.view.Draft.MethodID)})
	case "v":
		m.dispatch(flow.SetRail{Rail: nextRail(m.view.Draft.Rail)})
	case "l":
		layout := domain.LayoutPayment
		if m.view.Layout == domain.LayoutPayment {
			layout = domain.LayoutCompany
		}
		m.dispatch(flow.SetLayout{Layout: layout})
	}
	return nil
}

func (m *Model) handleInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.finishInput(true)
	case tea.KeyEsc:
		m.finishInput(m.mode == inputAmount)
	case tea.KeyBackspace:
		if m.buffer != "" {
			r := []rune(m.buffer)
			m.buffer = string(r[:len(r)-1])
			m.syncAmount()
		}
	case tea.KeyRunes, tea.KeySpace:
		m.buffer += string(msg.Runes)
		m.syncAmount()
	}
	return nil
}

func (m *Model) syncAmount() {
	if m.mode == inputAmount {
		m.dispatch(flow.EditAmount{Text: m.buffer})
		m.buffer = m.view.AmountText
	}
}

func (m *Model) finishInput(commit bool) {
	switch m.mode {
	case inputAmount:
		m.dispatch(flow.CommitClause{})
	case inputNote:
		if commit {
			m.dispatch(flow.SetNote{Text: m.buffer})
		}
	}
	m.mode = inputNone
	m.buffer = ""
}

func (m *Model) pressPrimary() {
	switch m.view.PrimaryButton.Action {
	case flow.ActionRequestReview:
		m.dispatch(flow.RequestReview{})
	case flow.ActionConfirmSend:
		m.dispatch(flow.ConfirmSend{})
	case flow.ActionBack:
		m.dispatch(flow.Back{})
	}
}

func (m *Model) dispatch(a flow.Action) {
	m.view = m.machine.Dispatch(a)
}

func (m *Model) nextParty(current, other string) string {
	parties := m.catalog.Parties
	start := 0
	for i, p := range parties {
		if p.ID == current {
			start = i
			break
		}
	}
	for step := 1; step <= len(parties); step++ {
		p := parties[(start+step)%len(parties)]
		if p.ID != other {
			return p.ID
		}
	}
	return current
}

func (m *Model) nextMethod(current string) string {
	methods := m.catalog.Methods
	for i, method := range methods {
		if method.ID == current {
			return methods[(i+1)%len(methods)].ID
		}
	}
	if len(methods) > 0 {
		return methods[0].ID
	}
	return current
}

func nextRail(current domain.Rail) domain.Rail {
	opts := domain.RailOptions()
	for i, opt := range opts {
		if opt.Rail == current {
			return opts[(i+1)%len(opts)].Rail
		}
	}
	return opts[0].Rail
}

func (m *Model) View() string {
	v := m.view

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorText)).
		Bold(true)
	subtleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorSubtle))

	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Title))
	b.WriteString("\n")
	if v.Subtitle != "" {
		b.WriteString(subtleStyle.Render(v.Subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var cards []string
	if v.SenderCard != nil {
		cards = append(cards, renderCard(*v.SenderCard))
	}
	cards = append(cards, renderCard(v.ReceiverCard))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	if v.Card == domain.CardSending {
		b.WriteString(renderProgress(v.Progress, 30))
		b.WriteString("\n\n")
	}

	b.WriteString(v.Summary.Text)
	b.WriteString("\n")
	if v.NoteVisible && v.Draft.Note != "" {
		b.WriteString(subtleStyle.Render("Note: " + v.Draft.Note))
		b.WriteString("\n")
	}

	switch m.mode {
	case inputAmount:
		b.WriteString("\n" + titleStyle.Render("Amount: ") + m.buffer + "█\n")
	case inputNote:
		b.WriteString("\n" + titleStyle.Render("Note: ") + m.buffer + "█\n")
	}

	b.WriteString("\n")
	b.WriteString(renderButtons(v.PrimaryButton, v.SecondaryButton))
	b.WriteString("\n\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("phase %s · flow %s · card %s", v.Phase, v.Flow, v.Card)))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(helpLine(v)))

	content := lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorAccent)).
		Render(b.String())

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func renderCard(c flow.CardProps) string {
	color := c.Party.Color
	if c.Layout == domain.LayoutPayment && c.Method.Color != "" {
		color = c.Method.Color
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Width(26)
	if c.PlainHeader || color == "" {
		headerStyle = headerStyle.Foreground(lipgloss.Color(colorText))
	} else {
		headerStyle = headerStyle.
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(color))
	}

	amountStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorText))
	if c.Dimmed {
		amountStyle = amountStyle.Foreground(lipgloss.Color(colorDim))
	}

	lines := []string{
		headerStyle.Render(c.Header),
		amountStyle.Render(c.DisplayAmount + " " + c.Currency),
	}
	if c.StatusText != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(colorSubtle)).Render(c.StatusText))
	}
	if c.ShowFullContent {
		label := c.Party.Name
		if !c.Party.IsIndividual {
			label += "  " + c.Party.Handle()
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(colorSubtle)).Render(label))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(colorDim)).
		Margin(0, 1, 0, 0).
		Width(28).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderProgress(p float64, width int) string {
	filled := int(p * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent)).Render(strings.Repeat("━", filled))
	rest := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim)).Render(strings.Repeat("━", width-filled))
	return bar + rest + fmt.Sprintf(" %3.0f%%", p*100)
}

func renderButtons(primary flow.Button, secondary *flow.Button) string {
	style := lipgloss.NewStyle().Padding(0, 2)
	primaryStyle := style.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(colorAccent))
	if !primary.Enabled {
		primaryStyle = style.
			Foreground(lipgloss.Color(colorSubtle)).
			Background(lipgloss.Color(colorDim))
	}
	out := primaryStyle.Render(primary.Label)
	if secondary != nil {
		out = lipgloss.JoinHorizontal(lipgloss.Top,
			style.Foreground(lipgloss.Color(colorText)).Render(secondary.Label),
			" ",
			out)
	}
	return out
}

func helpLine(v flow.View) string {
	keys := []string{"enter primary", "b back", "esc close"}
	if v.EditingEnabled {
		keys = append(keys, "e amount", "n note", "s/d parties")
	}
	if v.MethodSelectorEnabled {
		keys = append(keys, "m method")
	}
	if v.RailSelectorEnabled {
		keys = append(keys, "v rail")
	}
	keys = append(keys, "x reset", "q quit")
	return strings.Join(keys, " · ")
}
