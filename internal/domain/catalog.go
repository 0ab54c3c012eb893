package domain

import (
	"fmt"
	"strings"
)

// DefaultInstantMethodID is the funding method business-to-business
// transfers are pinned to.
const DefaultInstantMethodID = "stripe"

// Catalog holds the ordered counterparties and funding methods a flow can
// reference. Lookups are total: a missing id reports ok=false.
type Catalog struct {
	Parties []Party         `yaml:"parties" json:"parties"`
	Methods []FundingMethod `yaml:"methods" json:"methods"`
}

// Party finds a counterparty by id.
func (c Catalog) Party(id string) (Party, bool) {
	for _, p := range c.Parties {
		if p.ID == id {
			return p, true
		}
	}
	return Party{}, false
}

// Method finds a funding method by id.
func (c Catalog) Method(id string) (FundingMethod, bool) {
	for _, m := range c.Methods {
		if m.ID == id {
			return m, true
		}
	}
	return FundingMethod{}, false
}

// DefaultInstantMethod returns the method used when no individual is
// involved in a transfer.
func (c Catalog) DefaultInstantMethod() (FundingMethod, bool) {
	return c.Method(DefaultInstantMethodID)
}

// SearchRecipients lists parties that can receive from senderID, in catalog
// order. The query matches display names case-insensitively, and also
// emails for individuals. An empty query matches everyone.
func (c Catalog) SearchRecipients(senderID, query string) []Party {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Party, 0, len(c.Parties))
	for _, p := range c.Parties {
		if p.ID == senderID {
			continue
		}
		if q == "" ||
			strings.Contains(strings.ToLower(p.DisplayName), q) ||
			(p.IsIndividual && strings.Contains(strings.ToLower(p.Email), q)) {
			out = append(out, p)
		}
	}
	return out
}

// Validate ensures the catalog is usable by a flow.
// CRITICAL: ids are unique and the default instant method is present.
func (c Catalog) Validate() error {
	if len(c.Parties) < 2 {
		return fmt.Errorf("%w: at least two parties are required", ErrInvalidCatalog)
	}
	if len(c.Methods) == 0 {
		return fmt.Errorf("%w: at least one funding method is required", ErrInvalidCatalog)
	}

	seen := make(map[string]bool, len(c.Parties))
	for _, p := range c.Parties {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate party id %q", ErrInvalidCatalog, p.ID)
		}
		seen[p.ID] = true
	}

	seen = make(map[string]bool, len(c.Methods))
	for _, m := range c.Methods {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate funding method id %q", ErrInvalidCatalog, m.ID)
		}
		seen[m.ID] = true
	}

	if _, ok := c.DefaultInstantMethod(); !ok {
		return fmt.Errorf("%w: default instant method %q is missing", ErrInvalidCatalog, DefaultInstantMethodID)
	}

	return nil
}

// PersonInvolved reports whether either side of a transfer is an individual.
func PersonInvolved(sender, receiver Party) bool {
	return sender.IsIndividual || receiver.IsIndividual
}
