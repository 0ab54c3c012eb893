package seeder

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/simaogato/sendflow/internal/domain"
)

// DefaultCatalog returns the built-in counterparties and funding methods.
// Ordering is significant: pickers list entries in this order.
func DefaultCatalog() domain.Catalog {
	return domain.Catalog{
		Parties: []domain.Party{
			{
				ID:          "greenfield",
				Name:        "Greenfield",
				DisplayName: "Greenfield",
				Color:       "#4E9B7C",
				Icon:        "△",
				LogoPath:    "/img/logo-24-greenfield.svg",
				Description: "Financial tools built for teams that move fast.",
			},
			{
				ID:          "anthropic",
				Name:        "Anthropic",
				DisplayName: "Anthropic",
				Color:       "#A86536",
				Icon:        `A\`,
				LogoPath:    "/img/logo-24-anthropic.svg",
				Description: "AI safety company building reliable, interpretable, and steerable AI systems.",
			},
			{
				ID:           "marcus-webb",
				Name:         "Marcus Webb",
				DisplayName:  "Marcus Webb",
				Color:        "#5E6AD2",
				Icon:         "MW",
				IsIndividual: true,
				Email:        "marcus@webb.co",
			},
			{
				ID:          "openai",
				Name:        "OpenAI",
				DisplayName: "OpenAI",
				Color:       "#000000",
				Icon:        "◉",
				LogoPath:    "/img/logo-24-openai.svg",
				Description: "OpenAI builds safe, powerful AI that helps people and organizations unlock potential.",
			},
			{
				ID:           "priya-anand",
				Name:         "Priya Anand",
				DisplayName:  "Priya Anand",
				Color:        "#2E9E5B",
				Icon:         "PA",
				IsIndividual: true,
				Email:        "priya.anand@gmail.com",
			},
			{
				ID:           "daniel-torres",
				Name:         "Fournier Systems",
				DisplayName:  "Fournier Systems",
				Color:        "#C44B4B",
				Icon:         "FS",
				IsIndividual: true,
				Email:        "dt@fournier.ai",
			},
			{
				ID:          "lovable",
				Name:        "Lovable",
				DisplayName: "Lovable",
				Color:       "#D658AC",
				Icon:        "◐",
				LogoPath:    "/img/logo-24-lovable.svg",
				Description: "Build beautiful software, effortlessly.",
			},
			{
				ID:          "cactuspractice",
				Name:        "Cactus Practice",
				DisplayName: "Cactus Practice",
				Color:       "#CD7609",
				Icon:        "🌵",
				LogoPath:    "/img/logo-24-cactus.svg",
				Description: "A landscape design studio that transforms drab into fab.",
			},
		},
		Methods: []domain.FundingMethod{
			{
				ID:             "usdc",
				Name:           "USDC",
				DisplayName:    "USDC",
				Color:          "#1485FF",
				Gradient:       "linear-gradient(to right, #1485FF, #004FA5)",
				Icon:           "◎",
				Last4:          "0451",
				LogoPath:       "/img/logo-24-usdc.svg",
				MethodLogoPath: "/img/method-32-usdc.svg",
			},
			{
				ID:             "stripe",
				Name:           "Stripe balance",
				DisplayName:    "Stripe balance",
				Color:          "#7B4EFF",
				Gradient:       "linear-gradient(to right, #7B4EFF, #531DF5)",
				Icon:           "S",
				LogoPath:       "/img/logo-24-stripe.svg",
				MethodLogoPath: "/img/method-32-stripe.svg",
			},
			{
				ID:             "wellsfargo",
				Name:           "Wells Fargo",
				DisplayName:    "Wells Fargo",
				Color:          "#454E5D",
				Gradient:       "linear-gradient(to right, #454E5D, #21252C)",
				Icon:           "WF",
				Last4:          "0451",
				LogoPath:       "/img/logo-24-wf.svg",
				MethodLogoPath: "/img/method-32-wf.svg",
			},
			{
				ID:             "unionbank",
				Name:           "Union Bank",
				DisplayName:    "Union Bank",
				Color:          "#454E5D",
				Gradient:       "linear-gradient(to right, #454E5D, #21252C)",
				Icon:           "🏛",
				Last4:          "0451",
				LogoPath:       "/img/logo-24-bank.svg",
				MethodLogoPath: "/img/method-32-bank.svg",
			},
		},
	}
}

// LoadCatalogFile reads a catalog from a YAML file
func LoadCatalogFile(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}

	var cat domain.Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	return cat, nil
}

// CatalogSeeder handles loading the catalog into its repository
type CatalogSeeder struct {
	repo domain.CatalogRepository
}

// NewCatalogSeeder creates a new CatalogSeeder instance
func NewCatalogSeeder(repo domain.CatalogRepository) *CatalogSeeder {
	return &CatalogSeeder{
		repo: repo,
	}
}

// Seed installs the catalog from path, or the built-in one when path is
// empty. The catalog is validated before it replaces the current one.
func (s *CatalogSeeder) Seed(ctx context.Context, path string) (domain.Catalog, error) {
	cat := DefaultCatalog()
	if path != "" {
		loaded, err := LoadCatalogFile(path)
		if err != nil {
			return domain.Catalog{}, err
		}
		cat = loaded
	}

	if err := cat.Validate(); err != nil {
		return domain.Catalog{}, err
	}

	if err := s.repo.Replace(ctx, cat); err != nil {
		return domain.Catalog{}, err
	}
	return cat, nil
}
