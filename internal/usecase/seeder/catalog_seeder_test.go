package seeder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/sendflow/internal/domain"
)

// MockCatalogRepository is a mock implementation of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Get(ctx context.Context) (domain.Catalog, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Catalog), args.Error(1)
}

func (m *MockCatalogRepository) Replace(ctx context.Context, catalog domain.Catalog) error {
	args := m.Called(ctx, catalog)
	return args.Error(0)
}

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()

	require.NoError(t, cat.Validate())
	assert.Len(t, cat.Parties, 8)
	assert.Len(t, cat.Methods, 4)
	assert.Equal(t, "usdc", cat.Methods[0].ID)

	individuals := 0
	for _, p := range cat.Parties {
		if p.IsIndividual {
			individuals++
		}
	}
	assert.Equal(t, 3, individuals)
}

func TestCatalogSeeder_Seed_Default(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCatalogRepository)
	repo.On("Replace", ctx, DefaultCatalog()).Return(nil)

	cat, err := NewCatalogSeeder(repo).Seed(ctx, "")

	assert.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), cat)
	repo.AssertExpectations(t)
}

func TestCatalogSeeder_Seed_FromFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
parties:
  - id: acme
    name: Acme
    display_name: Acme
    color: "#112233"
    icon: A
  - id: jo
    name: Jo Doe
    display_name: Jo Doe
    color: "#445566"
    icon: JD
    is_individual: true
    email: jo@example.com
methods:
  - id: stripe
    name: Stripe balance
    display_name: Stripe balance
    color: "#7B4EFF"
    icon: S
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	repo := new(MockCatalogRepository)
	repo.On("Replace", ctx, mock.AnythingOfType("domain.Catalog")).Return(nil)

	cat, err := NewCatalogSeeder(repo).Seed(ctx, path)

	require.NoError(t, err)
	require.Len(t, cat.Parties, 2)
	assert.True(t, cat.Parties[1].IsIndividual)
	assert.Equal(t, "jo@example.com", cat.Parties[1].Email)
	repo.AssertExpectations(t)
}

func TestCatalogSeeder_Seed_InvalidFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parties:\n  - id: only-one\n"), 0o600))

	repo := new(MockCatalogRepository)
	_, err := NewCatalogSeeder(repo).Seed(ctx, path)

	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
	repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestCatalogSeeder_Seed_MissingFile(t *testing.T) {
	repo := new(MockCatalogRepository)
	_, err := NewCatalogSeeder(repo).Seed(context.Background(), "/does/not/exist.yaml")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "read catalog file")
}

func TestCatalogSeeder_Seed_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCatalogRepository)
	repo.On("Replace", ctx, mock.Anything).Return(errors.New("repository down"))

	_, err := NewCatalogSeeder(repo).Seed(ctx, "")

	assert.EqualError(t, err, "repository down")
}
