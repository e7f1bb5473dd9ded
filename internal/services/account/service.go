// Package account manages trading accounts.
package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service implements AccountService on top of the ledger store.
type Service struct {
	ledger interfaces.LedgerStore
	logger *common.Logger
}

// NewService creates a new account service.
func NewService(ledger interfaces.LedgerStore, logger *common.Logger) *Service {
	return &Service{
		ledger: ledger,
		logger: logger,
	}
}

// CreateAccount creates an account with cash equal to its initial capital.
func (s *Service) CreateAccount(ctx context.Context, name string, accountType models.AccountType, initialCapital decimal.Decimal) (*models.Account, error) {
	if name == "" {
		return nil, fmt.Errorf("account name is required")
	}
	if initialCapital.IsNegative() {
		return nil, fmt.Errorf("initial capital must not be negative, got %s", initialCapital)
	}
	if accountType == "" {
		accountType = models.AccountTypeBrokerage
	}

	now := time.Now().UTC()
	account := &models.Account{
		ID:             uuid.New().String(),
		Name:           name,
		Type:           accountType,
		InitialCapital: initialCapital,
		CurrentCash:    initialCapital,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.ledger.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account '%s': %w", name, err)
	}

	s.logger.Info().
		Str("account_id", account.ID).
		Str("name", name).
		Str("type", string(accountType)).
		Str("initial_capital", initialCapital.String()).
		Msg("Account created")

	return account, nil
}

// GetAccount retrieves a single account.
func (s *Service) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	return s.ledger.GetAccount(ctx, accountID)
}

// ListAccounts returns all accounts.
func (s *Service) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	return s.ledger.ListAccounts(ctx)
}

// AdjustCash deposits into or withdraws from an account's cash balance.
func (s *Service) AdjustCash(ctx context.Context, accountID string, delta decimal.Decimal) (*models.Account, error) {
	if delta.IsZero() {
		return nil, fmt.Errorf("cash adjustment must not be zero")
	}
	if err := s.ledger.AdjustCash(ctx, accountID, delta); err != nil {
		return nil, fmt.Errorf("failed to adjust cash for account '%s': %w", accountID, err)
	}

	s.logger.Info().
		Str("account_id", accountID).
		Str("delta", delta.String()).
		Msg("Cash adjusted")

	return s.ledger.GetAccount(ctx, accountID)
}

// DeleteAccount removes an account and its ledger.
func (s *Service) DeleteAccount(ctx context.Context, accountID string) error {
	if err := s.ledger.DeleteAccount(ctx, accountID); err != nil {
		return fmt.Errorf("failed to delete account '%s': %w", accountID, err)
	}
	s.logger.Info().Str("account_id", accountID).Msg("Account deleted")
	return nil
}

// Ensure Service implements AccountService
var _ interfaces.AccountService = (*Service)(nil)
