package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"account-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Account Repo ---

// inMemoryAccountRepo stores accounts behind a plain RWMutex. Row-lock
// semantics come from serializingTransactor, which holds a single lock
// across Begin..Commit.
type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, tx pgx.Tx, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.Number]; ok {
		return fmt.Errorf("account number already exists")
	}
	cp := *account
	r.accounts[account.Number] = &cp
	return nil
}

func (r *inMemoryAccountRepo) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[number]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAccountRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, number string) (*domain.Account, error) {
	return r.GetByNumber(ctx, number)
}

func (r *inMemoryAccountRepo) Update(ctx context.Context, tx pgx.Tx, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.Number]; !ok {
		return fmt.Errorf("account not found: %s", account.Number)
	}
	cp := *account
	r.accounts[account.Number] = &cp
	return nil
}

func (r *inMemoryAccountRepo) Exists(ctx context.Context, number string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.accounts[number]
	return ok, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu      sync.RWMutex
	entries []domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *t)
	return nil
}

func (r *inMemoryTransactionRepo) ListForAccount(ctx context.Context, accountNumber string, limit int) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Transaction
	for i := range r.entries {
		if r.entries[i].Involves(accountNumber) {
			out = append(out, r.entries[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- Serializing Transactor ---

// serializingTransactor holds a single mutex across Begin..Commit so the
// concurrent-withdrawal tests observe the same serialization a row lock
// provides.
type serializingTransactor struct {
	mu *sync.Mutex
}

func newSerializingTransactor(mu *sync.Mutex) *serializingTransactor {
	return &serializingTransactor{mu: mu}
}

func (t *serializingTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &noopTx{release: t.mu}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing. Commit
// and Rollback release the transactor's lock exactly once.
type noopTx struct {
	release  *sync.Mutex
	done     bool
	releaseM sync.Mutex
}

func (t *noopTx) finish() {
	t.releaseM.Lock()
	defer t.releaseM.Unlock()
	if !t.done {
		t.done = true
		if t.release != nil {
			t.release.Unlock()
		}
	}
}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { t.finish(); return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { t.finish(); return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }

// --- Adjustable Clock ---

// fakeClock starts at a fixed instant and can be advanced by tests to
// exercise session expiry and the daily reset without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
