package trade

import (
	"context"
	"fmt"
	"testing"
	"time"

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

func (m *mockLedger) ListAccounts(_ context.Context) ([]*models.Account, error) { return nil, nil }

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

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedAccount(ledger *mockLedger, id, cash string) {
	ledger.accounts[id] = &models.Account{
		ID:          id,
		Name:        "test",
		CurrentCash: dec(cash),
	}
}

// --- Tests ---

func TestBuyStock_DebitsAmountPlusFee(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "100000")
	svc := NewService(ledger, common.NewSilentLogger())

	tx, err := svc.BuyStock(context.Background(), "acct-1", "600519.SH", 1000, dec("10.50"), dec("5"), time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !tx.Amount.Equal(dec("10500")) {
		t.Errorf("amount = %s, want 10500", tx.Amount)
	}
	if tx.ID == "" {
		t.Error("transaction id was not assigned")
	}
	if tx.TradeDate.IsZero() {
		t.Error("trade date was not defaulted")
	}
	// Cash: 100000 - (10500 + 5)
	if !ledger.accounts["acct-1"].CurrentCash.Equal(dec("89495")) {
		t.Errorf("cash = %s, want 89495", ledger.accounts["acct-1"].CurrentCash)
	}
}

func TestSellStock_CreditsAmountMinusFee(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "83995")
	svc := NewService(ledger, common.NewSilentLogger())

	_, err := svc.SellStock(context.Background(), "acct-1", "600519.SH", 500, dec("12.00"), dec("5"), time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cash: 83995 + (6000 - 5). The fee reduces proceeds, it is not ignored.
	if !ledger.accounts["acct-1"].CurrentCash.Equal(dec("89990")) {
		t.Errorf("cash = %s, want 89990", ledger.accounts["acct-1"].CurrentCash)
	}
}

func TestRecordTransaction_SpecDateTruncated(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "100000")
	svc := NewService(ledger, common.NewSilentLogger())

	noon := time.Date(2026, 3, 15, 12, 30, 45, 0, time.UTC)
	tx, err := svc.BuyStock(context.Background(), "acct-1", "600519.SH", 10, dec("10"), dec("0"), noon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !tx.TradeDate.Equal(want) {
		t.Errorf("trade date = %v, want %v", tx.TradeDate, want)
	}
}

func TestRecordTransaction_UnknownAccount(t *testing.T) {
	svc := NewService(newMockLedger(), common.NewSilentLogger())

	_, err := svc.BuyStock(context.Background(), "missing", "600519.SH", 10, dec("10"), dec("0"), time.Time{})
	if err == nil {
		t.Fatal("expected error for unknown account")
	}
}

func TestRecordTransaction_RejectsInvalid(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "100000")
	svc := NewService(ledger, common.NewSilentLogger())

	tests := []struct {
		name string
		tx   *models.Transaction
	}{
		{"zero shares", &models.Transaction{AccountID: "acct-1", Symbol: "600519.SH", Side: models.TradeSideBuy, Shares: 0, Price: dec("10")}},
		{"negative shares", &models.Transaction{AccountID: "acct-1", Symbol: "600519.SH", Side: models.TradeSideBuy, Shares: -10, Price: dec("10")}},
		{"zero price", &models.Transaction{AccountID: "acct-1", Symbol: "600519.SH", Side: models.TradeSideBuy, Shares: 10, Price: decimal.Zero}},
		{"negative fee", &models.Transaction{AccountID: "acct-1", Symbol: "600519.SH", Side: models.TradeSideBuy, Shares: 10, Price: dec("10"), Fee: dec("-1")}},
		{"missing symbol", &models.Transaction{AccountID: "acct-1", Side: models.TradeSideBuy, Shares: 10, Price: dec("10")}},
		{"bad side", &models.Transaction{AccountID: "acct-1", Symbol: "600519.SH", Side: "short", Shares: 10, Price: dec("10")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.RecordTransaction(context.Background(), tt.tx); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if len(ledger.txs) != 0 {
		t.Errorf("invalid transactions reached the ledger: %d", len(ledger.txs))
	}
}

func TestOverdraftAllowedByDefault(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "100")
	svc := NewService(ledger, common.NewSilentLogger())

	_, err := svc.BuyStock(context.Background(), "acct-1", "600519.SH", 100, dec("10"), dec("0"), time.Time{})
	if err != nil {
		t.Fatalf("overdraft should be recorded, got error: %v", err)
	}

	if !ledger.accounts["acct-1"].CurrentCash.Equal(dec("-900")) {
		t.Errorf("cash = %s, want -900", ledger.accounts["acct-1"].CurrentCash)
	}
}

func TestAffordabilityCheckRejectsOverdraft(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "100")
	svc := NewService(ledger, common.NewSilentLogger(), WithAffordabilityCheck(true))

	_, err := svc.BuyStock(context.Background(), "acct-1", "600519.SH", 100, dec("10"), dec("0"), time.Time{})
	if err == nil {
		t.Fatal("expected affordability rejection")
	}
	if len(ledger.txs) != 0 {
		t.Error("rejected trade reached the ledger")
	}
	if !ledger.accounts["acct-1"].CurrentCash.Equal(dec("100")) {
		t.Errorf("cash = %s, want unchanged 100", ledger.accounts["acct-1"].CurrentCash)
	}
}

func TestAffordabilityCheckIgnoresSells(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "0")
	svc := NewService(ledger, common.NewSilentLogger(), WithAffordabilityCheck(true))

	_, err := svc.SellStock(context.Background(), "acct-1", "600519.SH", 100, dec("10"), dec("0"), time.Time{})
	if err != nil {
		t.Fatalf("sells are never affordability-checked, got: %v", err)
	}
}

func TestGetTransactions_FiltersBySymbol(t *testing.T) {
	ledger := newMockLedger()
	seedAccount(ledger, "acct-1", "100000")
	svc := NewService(ledger, common.NewSilentLogger())

	ctx := context.Background()
	if _, err := svc.BuyStock(ctx, "acct-1", "600519.SH", 10, dec("10"), dec("0"), time.Time{}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.BuyStock(ctx, "acct-1", "000001.SZ", 10, dec("10"), dec("0"), time.Time{}); err != nil {
		t.Fatal(err)
	}

	all, err := svc.GetTransactions(ctx, "acct-1", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("got %d transactions, want 2", len(all))
	}

	filtered, err := svc.GetTransactions(ctx, "acct-1", "600519.SH")
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].Symbol != "600519.SH" {
		t.Errorf("symbol filter failed: %+v", filtered)
	}
}

func TestGetTransactions_UnknownAccount(t *testing.T) {
	svc := NewService(newMockLedger(), common.NewSilentLogger())

	_, err := svc.GetTransactions(context.Background(), "missing", "")
	if err == nil {
		t.Fatal("expected error for unknown account")
	}
}
