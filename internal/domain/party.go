package domain

import (
	"errors"
	"regexp"
	"strings"
)

var (
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	last4Pattern    = regexp.MustCompile(`^[0-9]{4}$`)
)

// Party represents a counterparty that can send or receive a transfer.
// Organizations carry a brand color and logo; individuals carry an email
// and render without a colored header.
type Party struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	DisplayName  string `yaml:"display_name" json:"display_name"`
	Color        string `yaml:"color" json:"color"`
	Icon         string `yaml:"icon" json:"icon"`
	LogoPath     string `yaml:"logo_path,omitempty" json:"logo_path,omitempty"`
	Description  string `yaml:"description,omitempty" json:"description,omitempty"`
	IsIndividual bool   `yaml:"is_individual,omitempty" json:"is_individual,omitempty"`
	Email        string `yaml:"email,omitempty" json:"email,omitempty"`
}

// Handle returns the @-handle shown next to organizations in pickers
// (lowercased name with whitespace removed).
func (p Party) Handle() string {
	return "@" + strings.Join(strings.Fields(strings.ToLower(p.Name)), "")
}

// Validate ensures the party adheres to domain rules
func (p Party) Validate() error {
	if p.ID == "" {
		return errors.New("party id cannot be empty")
	}
	if p.DisplayName == "" {
		return errors.New("party display name cannot be empty")
	}
	if !hexColorPattern.MatchString(p.Color) {
		return errors.New("party color must be a #RRGGBB hex color")
	}
	if p.IsIndividual && p.Email == "" {
		return errors.New("individual party must have an email")
	}
	return nil
}

// FundingMethod represents the account funds are drawn from.
type FundingMethod struct {
	ID             string `yaml:"id" json:"id"`
	Name           string `yaml:"name" json:"name"`
	DisplayName    string `yaml:"display_name" json:"display_name"`
	Color          string `yaml:"color" json:"color"`
	Gradient       string `yaml:"gradient,omitempty" json:"gradient,omitempty"`
	Icon           string `yaml:"icon" json:"icon"`
	Last4          string `yaml:"last4,omitempty" json:"last4,omitempty"`
	LogoPath       string `yaml:"logo_path,omitempty" json:"logo_path,omitempty"`
	MethodLogoPath string `yaml:"method_logo_path,omitempty" json:"method_logo_path,omitempty"`
}

// Label is the funding-source text used in the transfer summary.
func (m FundingMethod) Label() string {
	return "Main • " + m.DisplayName
}

// Validate ensures the funding method adheres to domain rules
func (m FundingMethod) Validate() error {
	if m.ID == "" {
		return errors.New("funding method id cannot be empty")
	}
	if m.DisplayName == "" {
		return errors.New("funding method display name cannot be empty")
	}
	if !hexColorPattern.MatchString(m.Color) {
		return errors.New("funding method color must be a #RRGGBB hex color")
	}
	if m.Last4 != "" && !last4Pattern.MatchString(m.Last4) {
		return errors.New("funding method last4 must be exactly four digits")
	}
	return nil
}
