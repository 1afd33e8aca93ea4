package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/events"
	"github.com/mbecker/studycoach-api/internal/store"
)

// newTxDB returns a mock database for services that only use the
// connection to open transactions. The per-entity fakes below back the
// actual reads and writes.
func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create sqlmock database")
	t.Cleanup(func() { db.Close() })

	return db, mock
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// In-memory store fakes shared by the service tests. Each fake keeps
// entities in a map guarded by a mutex and returns the same instance
// from WithTx, so transactional code paths exercise the real service
// logic without a database.

type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := user.Validate(); err != nil {
		return err
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	user.HashedPassword = "hashed:" + user.Password
	user.Password = ""
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	if user.Password != "" {
		user.HashedPassword = "hashed:" + user.Password
		user.Password = ""
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

type mockTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	createErr error
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	if err := task.Validate(); err != nil {
		return err
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (m *mockTaskStore) ListPending(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Task
	for _, task := range m.tasks {
		if task.UserID == userID && task.Status != domain.TaskStatusCompleted {
			copied := *task
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockTaskStore) ListCompletedSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Task
	for _, task := range m.tasks {
		if task.UserID == userID && task.CompletedAt != nil && !task.CompletedAt.Before(since) {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskStore) ListDueReminders(
	ctx context.Context,
	before time.Time,
	limit int,
) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Task
	for _, task := range m.tasks {
		if task.ReminderAt != nil && !task.ReminderAt.After(before) &&
			task.Status != domain.TaskStatusCompleted {
			copied := *task
			out = append(out, &copied)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockTaskStore) ClearReminder(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	task.ReminderAt = nil
	return nil
}

func (m *mockTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return m }

type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.FocusSession
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[uuid.UUID]*domain.FocusSession)}
}

func (m *mockSessionStore) Create(ctx context.Context, session *domain.FocusSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := session.Validate(); err != nil {
		return err
	}
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *mockSessionStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.FocusSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (m *mockSessionStore) GetLive(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.FocusSession, error) {
	return m.getLive(userID)
}

func (m *mockSessionStore) GetLiveForUpdate(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.FocusSession, error) {
	return m.getLive(userID)
}

func (m *mockSessionStore) getLive(userID uuid.UUID) (*domain.FocusSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, session := range m.sessions {
		if session.UserID == userID && session.IsLive() {
			return session.Clone(), nil
		}
	}
	return nil, store.ErrSessionNotFound
}

func (m *mockSessionStore) Update(ctx context.Context, session *domain.FocusSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[session.ID]; !ok {
		return store.ErrSessionNotFound
	}
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *mockSessionStore) ListStartedBetween(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.FocusSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.FocusSession
	for _, session := range m.sessions {
		if session.UserID == userID &&
			!session.StartedAt.Before(from) && session.StartedAt.Before(to) {
			out = append(out, session.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (m *mockSessionStore) WithTx(tx *sql.Tx) store.SessionStore { return m }

type mockReviewItemStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.ReviewItem

	createMultipleErr error
}

func newMockReviewItemStore() *mockReviewItemStore {
	return &mockReviewItemStore{items: make(map[uuid.UUID]*domain.ReviewItem)}
}

func (m *mockReviewItemStore) Create(ctx context.Context, item *domain.ReviewItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := item.Validate(); err != nil {
		return err
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockReviewItemStore) CreateMultiple(
	ctx context.Context,
	items []*domain.ReviewItem,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createMultipleErr != nil {
		return m.createMultipleErr
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	for _, item := range items {
		copied := *item
		m.items[item.ID] = &copied
	}
	return nil
}

func (m *mockReviewItemStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.ReviewItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, store.ErrReviewItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (m *mockReviewItemStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	subject string,
) ([]*domain.ReviewItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.ReviewItem
	for _, item := range m.items {
		if item.UserID != userID {
			continue
		}
		if subject != "" && item.Subject != subject {
			continue
		}
		copied := *item
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockReviewItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return store.ErrReviewItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockReviewItemStore) WithTx(tx *sql.Tx) store.ReviewItemStore { return m }

type mockReviewStateStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]*domain.ReviewState // keyed by item ID
}

func newMockReviewStateStore() *mockReviewStateStore {
	return &mockReviewStateStore{states: make(map[uuid.UUID]*domain.ReviewState)}
}

func (m *mockReviewStateStore) Create(ctx context.Context, state *domain.ReviewState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := state.Validate(); err != nil {
		return err
	}
	copied := *state
	m.states[state.ItemID] = &copied
	return nil
}

func (m *mockReviewStateStore) Get(
	ctx context.Context,
	userID, itemID uuid.UUID,
) (*domain.ReviewState, error) {
	return m.get(userID, itemID)
}

func (m *mockReviewStateStore) GetForUpdate(
	ctx context.Context,
	userID, itemID uuid.UUID,
) (*domain.ReviewState, error) {
	return m.get(userID, itemID)
}

func (m *mockReviewStateStore) get(userID, itemID uuid.UUID) (*domain.ReviewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[itemID]
	if !ok || state.UserID != userID {
		return nil, store.ErrReviewStateNotFound
	}
	copied := *state
	return &copied, nil
}

func (m *mockReviewStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.states[state.ItemID]
	if !ok || existing.UserID != state.UserID {
		return store.ErrReviewStateNotFound
	}
	copied := *state
	m.states[state.ItemID] = &copied
	return nil
}

func (m *mockReviewStateStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.ReviewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.ReviewState
	for _, state := range m.states {
		if state.UserID == userID {
			copied := *state
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockReviewStateStore) ListReviewedBetween(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.ReviewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.ReviewState
	for _, state := range m.states {
		if state.UserID != userID || state.LastReviewedAt == nil {
			continue
		}
		if state.LastReviewedAt.Before(from) || !state.LastReviewedAt.Before(to) {
			continue
		}
		copied := *state
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore { return m }

type mockEmitter struct {
	mu      sync.Mutex
	events  []*events.JobRequestEvent
	emitErr error
}

func (m *mockEmitter) EmitEvent(ctx context.Context, event *events.JobRequestEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.emitErr != nil {
		return m.emitErr
	}
	m.events = append(m.events, event)
	return nil
}
