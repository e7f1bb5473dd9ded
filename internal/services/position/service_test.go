package position

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

// --- Mocks ---

type mockLedger struct {
	accounts map[string]*models.Account
	txs      []*models.Transaction
}

func newMockLedger() *mockLedger {
	return &mockLedger{accounts: make(map[string]*models.Account)}
}

func (m *mockLedger) CreateAccount(_ context.Context, a *models.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockLedger) GetAccount(_ context.Context, id string) (*models.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("account '%s': %w", id, models.ErrAccountNotFound)
}

func (m *mockLedger) ListAccounts(_ context.Context) ([]*models.Account, error) {
	var all []*models.Account
	for _, a := range m.accounts {
		all = append(all, a)
	}
	return all, nil
}

func (m *mockLedger) DeleteAccount(_ context.Context, id string) error {
	delete(m.accounts, id)
	return nil
}

func (m *mockLedger) AdjustCash(_ context.Context, id string, delta decimal.Decimal) error {
	a, ok := m.accounts[id]
	if !ok {
		return models.ErrAccountNotFound
	}
	a.CurrentCash = a.CurrentCash.Add(delta)
	return nil
}

func (m *mockLedger) AppendTransaction(_ context.Context, tx *models.Transaction, cashDelta decimal.Decimal) error {
	a, ok := m.accounts[tx.AccountID]
	if !ok {
		return fmt.Errorf("account '%s': %w", tx.AccountID, models.ErrAccountNotFound)
	}
	tx.Seq = uint64(len(m.txs) + 1)
	m.txs = append(m.txs, tx)
	a.CurrentCash = a.CurrentCash.Add(cashDelta)
	return nil
}

func (m *mockLedger) GetTransactions(_ context.Context, accountID, symbol string) ([]*models.Transaction, error) {
	var result []*models.Transaction
	for _, tx := range m.txs {
		if tx.AccountID != accountID {
			continue
		}
		if symbol != "" && tx.Symbol != symbol {
			continue
		}
		result = append(result, tx)
	}
	return result, nil
}

func (m *mockLedger) Close() error { return nil }

// mockQuotes serves fixed prices and names; anything else degrades.
type mockQuotes struct {
	prices map[string]decimal.Decimal
	names  map[string]string
}

func (m *mockQuotes) GetLatestPrice(_ context.Context, symbol string) decimal.Decimal {
	if p, ok := m.prices[symbol]; ok {
		return p
	}
	return decimal.Zero
}

func (m *mockQuotes) GetDisplayName(_ context.Context, symbol string) string {
	if n, ok := m.names[symbol]; ok {
		return n
	}
	return symbol
}

func newTestService(ledger *mockLedger, quotes *mockQuotes) *Service {
	if quotes == nil {
		quotes = &mockQuotes{}
	}
	return NewService(ledger, quotes, common.NewSilentLogger())
}

func seedAccount(ledger *mockLedger, id, cash string) {
	ledger.accounts[id] = &models.Account{
		ID:             id,
		Name:           "test",
		Type:           models.AccountTypeSimulation,
		InitialCapital: dec(cash),
		CurrentCash:    dec(cash),
	}
}

// --- Tests ---

func TestGetPositions_UnknownAccount(t *testing.T) {
	svc := newTestService(newMockLedger(), nil)

	_, err := svc.GetPositions(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for unknown account")
	}
}

func TestGetPositions_EmptyLedger(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "100000")
	svc := newTestService(ledger, nil)

	positions, err := svc.GetPositions(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("got %d positions, want 0", len(positions))
	}
}

func TestGetPositions_ValuatesHoldings(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "100000")
	ledger.txs = []*models.Transaction{
		buyTx("600519.SH", 1000, "10.50", "5", date(2026, 1, 5), 1),
		buyTx("600519.SH", 500, "11.00", "0", date(2026, 1, 6), 2),
	}

	quotes := &mockQuotes{
		prices: map[string]decimal.Decimal{"600519.SH": dec("12.00")},
		names:  map[string]string{"600519.SH": "Kweichow Moutai"},
	}
	svc := newTestService(ledger, quotes)

	positions, err := svc.GetPositions(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}

	p := positions[0]
	if p.Shares != 1500 {
		t.Errorf("shares = %d, want 1500", p.Shares)
	}
	if !p.CostBasis.Equal(dec("16005")) {
		t.Errorf("cost basis = %s, want 16005", p.CostBasis)
	}
	if !p.MarketValue.Equal(dec("18000")) {
		t.Errorf("market value = %s, want 18000", p.MarketValue)
	}
	if p.Name != "Kweichow Moutai" {
		t.Errorf("name = %q", p.Name)
	}
}

func TestGetPositions_QuoteMissDegrades(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "100000")
	ledger.txs = []*models.Transaction{
		buyTx("999999.SH", 100, "10.00", "0", date(2026, 1, 5), 1),
	}
	svc := newTestService(ledger, nil)

	positions, err := svc.GetPositions(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("quote miss must not fail the read: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	if !positions[0].CurrentPrice.IsZero() {
		t.Errorf("price = %s, want 0", positions[0].CurrentPrice)
	}
	if positions[0].Name != "999999.SH" {
		t.Errorf("name = %q, want symbol fallback", positions[0].Name)
	}
}

func TestGetAccountSummary(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "83995")
	ledger.txs = []*models.Transaction{
		buyTx("600519.SH", 1000, "10.50", "5", date(2026, 1, 5), 1),
		buyTx("600519.SH", 500, "11.00", "0", date(2026, 1, 6), 2),
	}
	quotes := &mockQuotes{
		prices: map[string]decimal.Decimal{"600519.SH": dec("12.00")},
	}
	svc := newTestService(ledger, quotes)

	summary, err := svc.GetAccountSummary(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !summary.Cash.Equal(dec("83995")) {
		t.Errorf("cash = %s, want 83995", summary.Cash)
	}
	if !summary.PositionsValue.Equal(dec("18000")) {
		t.Errorf("positions value = %s, want 18000", summary.PositionsValue)
	}
	if !summary.TotalAssets.Equal(dec("101995")) {
		t.Errorf("total assets = %s, want 101995", summary.TotalAssets)
	}
	if !summary.TotalCost.Equal(dec("16005")) {
		t.Errorf("total cost = %s, want 16005", summary.TotalCost)
	}
	if !summary.TotalPnL.Equal(dec("1995")) {
		t.Errorf("total pnl = %s, want 1995", summary.TotalPnL)
	}
	if summary.PositionCount != 1 {
		t.Errorf("position count = %d, want 1", summary.PositionCount)
	}
}

func TestGetAccountSummary_NoPositionsZeroPct(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "50000")
	svc := newTestService(ledger, nil)

	summary, err := svc.GetAccountSummary(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.TotalPnLPct.IsZero() {
		t.Errorf("pnl pct = %s, want 0 with no cost basis", summary.TotalPnLPct)
	}
	if !summary.TotalAssets.Equal(dec("50000")) {
		t.Errorf("total assets = %s, want cash only", summary.TotalAssets)
	}
}

func TestGetAccountSummary_UnknownAccount(t *testing.T) {
	svc := newTestService(newMockLedger(), nil)

	_, err := svc.GetAccountSummary(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for unknown account")
	}
}
