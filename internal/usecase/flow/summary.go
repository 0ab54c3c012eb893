package flow

import (
	"strings"

	"github.com/simaogato/sendflow/internal/domain"
)

// Summary is the sentence describing the transfer, split into clauses that
// can each be opened as an inline pill editor. At most one clause is
// Editing at a time.
type Summary struct {
	Clauses []SummaryClause `json:"clauses"`
	Text    string          `json:"text"`
}

type SummaryClause struct {
	Kind     domain.Clause  `json:"kind"`
	Prefix   string         `json:"prefix"`
	Text     string         `json:"text"`
	Editable bool           `json:"editable"`
	Editing  bool           `json:"editing"`
	Options  []ClauseOption `json:"options,omitempty"`
}

type ClauseOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// BuildSummary renders "Sending $X from <method> to <receiver> via <rail>."
func BuildSummary(cat domain.Catalog, s State) Summary {
	editable := s.Flow.Editable()
	person := s.PersonInvolved(cat)
	method, _ := cat.Method(s.Draft.MethodID)
	receiver, _ := cat.Party(s.Draft.ReceiverID)
	rail := s.Draft.Rail.Option()

	amountText := domain.FormatCurrency(s.Draft.AmountMinorUnits)
	if s.Editing == domain.ClauseAmount {
		amountText = "$" + s.AmountText
	}

	methods := make([]ClauseOption, 0, len(cat.Methods))
	for _, m := range cat.Methods {
		methods = append(methods, ClauseOption{Value: m.ID, Label: m.Label(), Selected: m.ID == method.ID})
	}
	recipients := make([]ClauseOption, 0, len(cat.Parties))
	for _, p := range cat.Parties {
		recipients = append(recipients, ClauseOption{Value: p.ID, Label: p.DisplayName, Selected: p.ID == receiver.ID})
	}
	rails := make([]ClauseOption, 0, 4)
	for _, r := range domain.RailOptions() {
		rails = append(rails, ClauseOption{Value: string(r.Rail), Label: r.Label, Selected: r.Rail == rail.Rail})
	}

	clauses := []SummaryClause{
		{Kind: domain.ClauseAmount, Prefix: "Sending", Text: amountText, Editable: editable},
		{Kind: domain.ClauseSource, Prefix: "from", Text: method.Label(), Editable: editable && person, Options: methods},
		{Kind: domain.ClauseRecipient, Prefix: "to", Text: receiver.DisplayName, Editable: editable, Options: recipients},
		{Kind: domain.ClauseRail, Prefix: "via", Text: rail.Label, Editable: editable && person, Options: rails},
	}

	parts := make([]string, 0, len(clauses)*2+1)
	for i := range clauses {
		clauses[i].Editing = s.Editing != domain.ClauseNone && clauses[i].Kind == s.Editing
		parts = append(parts, clauses[i].Prefix, clauses[i].Text)
	}

	return Summary{
		Clauses: clauses,
		Text:    strings.Join(parts, " ") + ". " + rail.TransferText,
	}
}
