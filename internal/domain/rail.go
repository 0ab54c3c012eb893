package domain

// Rail represents the network a transfer travels over
type Rail string

const (
	RailNetworkInstant  Rail = "network-instant"
	RailBankTransfer    Rail = "bank-transfer"
	RailStoredValueLink Rail = "stored-value-link"
	RailStablecoin      Rail = "stablecoin"
)

// RailOption carries the fixed display metadata of a rail.
type RailOption struct {
	Rail         Rail   `json:"rail"`
	Label        string `json:"label"`
	Subtitle     string `json:"subtitle"`
	DeliveryText string `json:"delivery_text"`
	TransferText string `json:"transfer_text"`
	Currency     string `json:"currency"`
}

// railOptions is ordered as shown in the rail chooser.
var railOptions = []RailOption{
	{
		Rail:         RailNetworkInstant,
		Label:        "Stripe Network",
		Subtitle:     "Arrives instantly · Free",
		DeliveryText: "Receiving instantly",
		TransferText: "Funds will transfer instantly.",
		Currency:     "USD",
	},
	{
		Rail:         RailBankTransfer,
		Label:        "Direct Bank Transfer",
		Subtitle:     "1–3 business days · Free",
		DeliveryText: "1–3 business days",
		TransferText: "Funds will arrive in 1–3 business days.",
		Currency:     "USD",
	},
	{
		Rail:         RailStoredValueLink,
		Label:        "Link",
		Subtitle:     "Arrives instantly · Free",
		DeliveryText: "Receiving instantly",
		TransferText: "Funds will transfer instantly.",
		Currency:     "USD",
	},
	{
		Rail:         RailStablecoin,
		Label:        "Stablecoin",
		Subtitle:     "Arrives instantly · Fee varies",
		DeliveryText: "Receiving instantly",
		TransferText: "Funds will transfer instantly.",
		Currency:     "USDC",
	},
}

// RailOptions returns the rail table in chooser order.
func RailOptions() []RailOption {
	out := make([]RailOption, len(railOptions))
	copy(out, railOptions)
	return out
}

// LookupRail finds the option for a rail identifier.
func LookupRail(id string) (RailOption, bool) {
	for _, opt := range railOptions {
		if string(opt.Rail) == id {
			return opt, true
		}
	}
	return RailOption{}, false
}

// Option returns the metadata for r, falling back to the instant network
// rail for unknown values.
func (r Rail) Option() RailOption {
	if opt, ok := LookupRail(string(r)); ok {
		return opt
	}
	return railOptions[0]
}

// Valid reports whether r is one of the known rails
func (r Rail) Valid() bool {
	_, ok := LookupRail(string(r))
	return ok
}

// ProfileOption is a payment choice offered on the landing page; choosing
// one opens the payment flow on the matching rail.
type ProfileOption struct {
	Rail     Rail   `json:"rail"`
	Label    string `json:"label"`
	Subtitle string `json:"subtitle,omitempty"`
	Primary  bool   `json:"primary"`
}

// ProfileOptions returns the landing-page payment choices, primary first.
func ProfileOptions() []ProfileOption {
	return []ProfileOption{
		{Rail: RailNetworkInstant, Label: "Pay with your Stripe balance", Subtitle: "Arrives instantly · Free", Primary: true},
		{Rail: RailBankTransfer, Label: "Direct bank transfer"},
		{Rail: RailStablecoin, Label: "Pay with stablecoins"},
		{Rail: RailStoredValueLink, Label: "Pay with Link"},
	}
}
