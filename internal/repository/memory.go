package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Profanor/bullafric-fintech-api/internal/models"
	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for unit tests. A single mutex held
// for the whole of RunInTx gives the same all-or-nothing, serialized
// semantics the database provides: mutations run against live state and the
// pre-transaction snapshot is restored on failure.
type MemoryStore struct {
	mu    sync.Mutex
	state *memState
}

type memState struct {
	users        map[uuid.UUID]models.User
	wallets      map[uuid.UUID]models.Wallet
	transactions []models.Transaction
	nextTxID     int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: &memState{
			users:    make(map[uuid.UUID]models.User),
			wallets:  make(map[uuid.UUID]models.Wallet),
			nextTxID: 1,
		},
	}
}

func (st *memState) clone() *memState {
	users := make(map[uuid.UUID]models.User, len(st.users))
	for k, v := range st.users {
		users[k] = v
	}
	wallets := make(map[uuid.UUID]models.Wallet, len(st.wallets))
	for k, v := range st.wallets {
		wallets[k] = v
	}
	transactions := make([]models.Transaction, len(st.transactions))
	copy(transactions, st.transactions)
	return &memState{
		users:        users,
		wallets:      wallets,
		transactions: transactions,
		nextTxID:     st.nextTxID,
	}
}

func (s *MemoryStore) Queries() Querier {
	return &memQueries{store: s, autolock: true}
}

func (s *MemoryStore) RunInTx(_ context.Context, fn func(q Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&memQueries{store: s}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// memQueries operates on the store state. Outside RunInTx each call locks
// for itself; inside, the transaction already holds the mutex.
type memQueries struct {
	store    *MemoryStore
	autolock bool
}

func (q *memQueries) lock() func() {
	if q.autolock {
		q.store.mu.Lock()
		return q.store.mu.Unlock
	}
	return func() {}
}

func (q *memQueries) CreateUser(_ context.Context, user *models.User) error {
	defer q.lock()()
	st := q.store.state
	for _, u := range st.users {
		if u.ID == user.ID || u.Email == user.Email || u.Username == user.Username || u.PhoneNumber == user.PhoneNumber {
			return models.ErrUserExists
		}
	}
	user.CreatedAt = time.Now().UTC()
	st.users[user.ID] = *user
	return nil
}

func (q *memQueries) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	defer q.lock()()
	u, ok := q.store.state.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &u, nil
}

func (q *memQueries) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	defer q.lock()()
	for _, u := range q.store.state.users {
		if u.Email == login || u.PhoneNumber == login {
			u := u
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (q *memQueries) FindUserConflict(_ context.Context, email, username, phone string) (*models.User, error) {
	defer q.lock()()
	for _, u := range q.store.state.users {
		if u.Email == email || u.Username == username || u.PhoneNumber == phone {
			u := u
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (q *memQueries) CreateWallet(_ context.Context, wallet *models.Wallet) error {
	defer q.lock()()
	wallet.CreatedAt = time.Now().UTC()
	q.store.state.wallets[wallet.UserID] = *wallet
	return nil
}

func (q *memQueries) GetWallet(_ context.Context, ownerID uuid.UUID) (*models.Wallet, error) {
	defer q.lock()()
	w, ok := q.store.state.wallets[ownerID]
	if !ok {
		return nil, models.ErrWalletNotFound
	}
	return &w, nil
}

func (q *memQueries) WalletExists(_ context.Context, ownerID uuid.UUID) (bool, error) {
	defer q.lock()()
	_, ok := q.store.state.wallets[ownerID]
	return ok, nil
}

func (q *memQueries) AdjustBalance(_ context.Context, arg AdjustBalanceParams) (AdjustedWallet, error) {
	defer q.lock()()
	st := q.store.state
	w, ok := st.wallets[arg.OwnerID]
	if !ok {
		return AdjustedWallet{}, ErrNoRowsAffected
	}
	next := w.Balance + arg.Delta
	if arg.RequireSufficient && next < 0 {
		return AdjustedWallet{}, ErrNoRowsAffected
	}
	w.Balance = next
	st.wallets[arg.OwnerID] = w
	return AdjustedWallet{Balance: w.Balance, Currency: w.Currency}, nil
}

func (q *memQueries) AppendTransaction(_ context.Context, entry *models.Transaction) error {
	defer q.lock()()
	st := q.store.state
	entry.ID = st.nextTxID
	st.nextTxID++
	entry.CreatedAt = time.Now().UTC()
	st.transactions = append(st.transactions, *entry)
	return nil
}

func (q *memQueries) ListTransactions(_ context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	defer q.lock()()
	var entries []models.Transaction
	for _, t := range q.store.state.transactions {
		if (t.FromUserID != nil && *t.FromUserID == userID) || (t.ToUserID != nil && *t.ToUserID == userID) {
			entries = append(entries, t)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func (q *memQueries) TotalWalletBalance(_ context.Context) (int64, error) {
	defer q.lock()()
	var total int64
	for _, w := range q.store.state.wallets {
		total += w.Balance
	}
	return total, nil
}

func (q *memQueries) LedgerNetFlow(_ context.Context) (int64, error) {
	defer q.lock()()
	var net int64
	for _, t := range q.store.state.transactions {
		switch t.Type {
		case "FUND":
			net += t.Amount
		case "WITHDRAW":
			net -= t.Amount
		}
	}
	return net, nil
}
