package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/mailer"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/sessiontokens"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// newTxDB returns a real *sql.DB so dbx.WithTx can begin and commit; the
// fake repositories ignore the handle they are given.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ---- users ----

type memUsers struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*models.User

	getErr    error
	createErr error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*models.User{}} }

func (r *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorDuplicate
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("u-%d", r.seq)
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	cp := *u
	r.byID[u.ID] = &cp
	return u, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) MarkVerified(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Verified = true
	return nil
}

func (r *memUsers) UpdatePassword(ctx context.Context, id string, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

// ---- session tokens ----

type memTokens struct {
	mu      sync.Mutex
	byToken map[string]*models.SessionToken

	createErr error
	findErr   error
}

func newMemTokens() *memTokens { return &memTokens{byToken: map[string]*models.SessionToken{}} }

func (r *memTokens) Create(ctx context.Context, t *models.SessionToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	t.ID = "st-" + t.Token
	t.CreatedAt = time.Now()
	cp := *t
	r.byToken[t.Token] = &cp
	return nil
}

func (r *memTokens) FindByToken(ctx context.Context, token string) (*models.SessionToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	t, ok := r.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTokens) DeleteAllForUser(ctx context.Context, userID string, purpose models.TokenPurpose) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.byToken {
		if t.UserID == userID && t.Purpose == purpose {
			delete(r.byToken, k)
			n++
		}
	}
	return n, nil
}

func (r *memTokens) DeleteByToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byToken[token]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byToken, token)
	return nil
}

func (r *memTokens) count(userID string, purpose models.TokenPurpose) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.byToken {
		if t.UserID == userID && t.Purpose == purpose {
			n++
		}
	}
	return n
}

// ---- tasks ----

type memTasks struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*models.Task

	err error
}

func newMemTasks() *memTasks { return &memTasks{byID: map[string]*models.Task{}} }

func (r *memTasks) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.seq++
	cp := *t
	cp.ID = fmt.Sprintf("t-%d", r.seq)
	cp.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	cp.UpdatedAt = cp.CreatedAt
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memTasks) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Task
	for _, t := range r.byID {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memTasks) Get(ctx context.Context, userID, taskID string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.byID[taskID]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTasks) Update(ctx context.Context, userID, taskID string, p models.TaskPatch) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[taskID]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = time.Now()
	cp := *t
	return &cp, nil
}

func (r *memTasks) Delete(ctx context.Context, userID, taskID string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[taskID]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	delete(r.byID, taskID)
	return t, nil
}

func (r *memTasks) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for id, t := range r.byID {
		if t.UserID == userID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

// ---- manager ----

type fakeRepoManager struct {
	u *memUsers
	s *memTokens
	t *memTasks
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newMemUsers(), s: newMemTokens(), t: newMemTasks()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository { return m.u }
func (m *fakeRepoManager) SessionTokens(db dbx.DBTX) sessiontokens.Repository { return m.s }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasks.Repository { return m.t }

// ---- mail ----

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) last() mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return mailer.Message{}
	}
	return f.sent[len(f.sent)-1]
}
