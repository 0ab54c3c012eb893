package flow

import (
	"fmt"

	"github.com/simaogato/sendflow/internal/domain"
)

// Wire names of user actions.
const (
	ActionRequestReview       = "request_review"
	ActionConfirmSend         = "confirm_send"
	ActionBack                = "back"
	ActionCloseDialog         = "close_dialog"
	ActionOpenPopover         = "open_popover"
	ActionOpenDialog          = "open_dialog"
	ActionPickRecipient       = "pick_recipient"
	ActionEscape              = "escape"
	ActionClickOutside        = "click_outside"
	ActionOpenReview          = "open_review"
	ActionCloseReview         = "close_review"
	ActionChooseProfileOption = "choose_profile_option"
	ActionBackToProfile       = "back_to_profile"
	ActionOpenClause          = "open_clause"
	ActionCommitClause        = "commit_clause"
	ActionEditAmount          = "edit_amount"
	ActionSetSender           = "set_sender"
	ActionSetReceiver         = "set_receiver"
	ActionSetMethod           = "set_method"
	ActionSetRail             = "set_rail"
	ActionSetNote             = "set_note"
	ActionSetLayout           = "set_layout"
)

// WireAction is the transport form of a user action, for example
// {"type":"edit_amount","text":"12.5"} or {"type":"set_receiver","id":"openai"}.
// Timer actions and Reset have no wire form.
type WireAction struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	ID     string `json:"id,omitempty"`
	Clause string `json:"clause,omitempty"`
	Rail   string `json:"rail,omitempty"`
	Layout string `json:"layout,omitempty"`
}

// Decode turns a wire action into an Action.
func (w WireAction) Decode() (Action, error) {
	switch w.Type {
	case ActionRequestReview:
		return RequestReview{}, nil
	case ActionConfirmSend:
		return ConfirmSend{}, nil
	case ActionBack:
		return Back{}, nil
	case ActionCloseDialog:
		return CloseDialog{}, nil
	case ActionOpenPopover:
		return OpenPopover{}, nil
	case ActionOpenDialog:
		return OpenDialog{}, nil
	case ActionPickRecipient:
		return PickRecipient{ID: w.ID}, nil
	case ActionEscape:
		return PressEscape{}, nil
	case ActionClickOutside:
		return ClickOutside{}, nil
	case ActionOpenReview:
		return OpenReview{}, nil
	case ActionCloseReview:
		return CloseReview{}, nil
	case ActionChooseProfileOption:
		return ChooseProfileOption{Rail: domain.Rail(w.Rail)}, nil
	case ActionBackToProfile:
		return BackToProfile{}, nil
	case ActionOpenClause:
		return OpenClause{Clause: domain.Clause(w.Clause)}, nil
	case ActionCommitClause:
		return CommitClause{}, nil
	case ActionEditAmount:
		return EditAmount{Text: w.Text}, nil
	case ActionSetSender:
		return SetSender{ID: w.ID}, nil
	case ActionSetReceiver:
		return SetReceiver{ID: w.ID}, nil
	case ActionSetMethod:
		return SetMethod{ID: w.ID}, nil
	case ActionSetRail:
		return SetRail{Rail: domain.Rail(w.Rail)}, nil
	case ActionSetNote:
		return SetNote{Text: w.Text}, nil
	case ActionSetLayout:
		return SetLayout{Layout: domain.CardLayout(w.Layout)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAction, w.Type)
	}
}
