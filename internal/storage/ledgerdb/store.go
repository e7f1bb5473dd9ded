// Package ledgerdb implements LedgerStore using BadgerHold.
// It owns accounts and the append-only transaction ledger.
package ledgerdb

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/shopspring/decimal"
	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Store implements interfaces.LedgerStore using BadgerHold.
//
// Trades against the same account are serialized through a per-account mutex,
// and each transaction append commits together with its cash adjustment in a
// single Badger transaction so no observer sees one without the other.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger

	// nextSeq hands out the ledger insert sequence. Seeded from the
	// highest stored sequence at open so restarts never reuse one.
	nextSeq atomic.Uint64

	mu           sync.Mutex
	accountLocks map[string]*sync.Mutex
}

// NewStore creates a new LedgerStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledgerdb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledgerdb at %s: %w", path, err)
	}

	s := &Store{
		db:           db,
		logger:       logger,
		accountLocks: make(map[string]*sync.Mutex),
	}
	if err := s.seedSequence(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().Str("path", path).Msg("LedgerDB opened")
	return s, nil
}

// seedSequence initializes the insert sequence from the stored ledger.
func (s *Store) seedSequence() error {
	var all []models.Transaction
	if err := s.db.Find(&all, nil); err != nil {
		return fmt.Errorf("failed to seed ledger sequence: %w", err)
	}
	var max uint64
	for i := range all {
		if all[i].Seq > max {
			max = all[i].Seq
		}
	}
	s.nextSeq.Store(max)
	return nil
}

// lockAccount returns the mutex serializing writes for one account.
func (s *Store) lockAccount(accountID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.accountLocks[accountID]
	if !ok {
		l = &sync.Mutex{}
		s.accountLocks[accountID] = l
	}
	return l
}

func (s *Store) CreateAccount(_ context.Context, account *models.Account) error {
	if err := s.db.Insert(account.ID, account); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("account '%s' already exists", account.ID)
		}
		return fmt.Errorf("failed to create account '%s': %w", account.ID, err)
	}
	return nil
}

func (s *Store) GetAccount(_ context.Context, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Get(accountID, &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("account '%s': %w", accountID, models.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("failed to get account '%s': %w", accountID, err)
	}
	return &account, nil
}

func (s *Store) ListAccounts(_ context.Context) ([]*models.Account, error) {
	var all []models.Account
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	result := make([]*models.Account, 0, len(all))
	for i := range all {
		result = append(result, &all[i])
	}
	return result, nil
}

func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	lock := s.lockAccount(accountID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return err
	}
	if err := s.db.Delete(accountID, models.Account{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete account '%s': %w", accountID, err)
	}
	if err := s.db.DeleteMatching(models.Transaction{}, badgerhold.Where("AccountID").Eq(accountID).Index("AccountID")); err != nil {
		return fmt.Errorf("failed to delete ledger for account '%s': %w", accountID, err)
	}
	return nil
}

func (s *Store) AdjustCash(ctx context.Context, accountID string, delta decimal.Decimal) error {
	lock := s.lockAccount(accountID)
	lock.Lock()
	defer lock.Unlock()
	return s.adjustCashLocked(accountID, delta)
}

// adjustCashLocked applies delta to the account's cash. Caller holds the
// account lock.
func (s *Store) adjustCashLocked(accountID string, delta decimal.Decimal) error {
	var account models.Account
	if err := s.db.Get(accountID, &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("account '%s': %w", accountID, models.ErrAccountNotFound)
		}
		return fmt.Errorf("failed to get account '%s': %w", accountID, err)
	}
	account.CurrentCash = account.CurrentCash.Add(delta)
	account.UpdatedAt = time.Now().UTC()
	if err := s.db.Update(accountID, &account); err != nil {
		return fmt.Errorf("failed to adjust cash for account '%s': %w", accountID, err)
	}
	return nil
}

func (s *Store) AppendTransaction(_ context.Context, tx *models.Transaction, cashDelta decimal.Decimal) error {
	lock := s.lockAccount(tx.AccountID)
	lock.Lock()
	defer lock.Unlock()

	tx.Seq = s.nextSeq.Add(1)

	// Single Badger transaction: the ledger append and the cash adjustment
	// commit or fail together.
	err := s.db.Badger().Update(func(btx *badger.Txn) error {
		var account models.Account
		if err := s.db.TxGet(btx, tx.AccountID, &account); err != nil {
			if err == badgerhold.ErrNotFound {
				return fmt.Errorf("account '%s': %w", tx.AccountID, models.ErrAccountNotFound)
			}
			return err
		}

		if err := s.db.TxInsert(btx, tx.ID, tx); err != nil {
			return fmt.Errorf("failed to insert transaction '%s': %w", tx.ID, err)
		}

		account.CurrentCash = account.CurrentCash.Add(cashDelta)
		account.UpdatedAt = time.Now().UTC()
		return s.db.TxUpdate(btx, account.ID, &account)
	})
	if err != nil {
		return fmt.Errorf("failed to append transaction for account '%s': %w", tx.AccountID, err)
	}
	return nil
}

func (s *Store) GetTransactions(_ context.Context, accountID, symbol string) ([]*models.Transaction, error) {
	var all []models.Transaction
	query := badgerhold.Where("AccountID").Eq(accountID).Index("AccountID")
	if err := s.db.Find(&all, query); err != nil {
		return nil, fmt.Errorf("failed to load ledger for account '%s': %w", accountID, err)
	}

	result := make([]*models.Transaction, 0, len(all))
	for i := range all {
		if symbol != "" && all[i].Symbol != symbol {
			continue
		}
		result = append(result, &all[i])
	}

	// Replay order: trade date ascending, insert sequence breaking ties.
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].TradeDate.Equal(result[j].TradeDate) {
			return result[i].TradeDate.Before(result[j].TradeDate)
		}
		return result[i].Seq < result[j].Seq
	})

	return result, nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure Store implements LedgerStore
var _ interfaces.LedgerStore = (*Store)(nil)
