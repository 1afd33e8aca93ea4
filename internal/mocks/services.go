package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/domain/srs"
	"github.com/mbecker/studycoach-api/internal/service"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	GetUserFn            func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetUserByEmailFn     func(ctx context.Context, email string) (*domain.User, error)
	CreateUserFn         func(ctx context.Context, email, password string) (*domain.User, error)
	UpdatePreferencesFn  func(ctx context.Context, userID uuid.UUID, prefs domain.Preferences) error
	UpdateUserPasswordFn func(ctx context.Context, userID uuid.UUID, newPassword string) error
	DeleteUserFn         func(ctx context.Context, userID uuid.UUID) error

	// Default values used when functions aren't explicitly defined
	User *domain.User
	Err  error
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return m.User, m.Err
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetUserByEmailFn != nil {
		return m.GetUserByEmailFn(ctx, email)
	}
	return m.User, m.Err
}

func (m *MockUserService) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, email, password)
	}
	return m.User, m.Err
}

func (m *MockUserService) UpdatePreferences(
	ctx context.Context,
	userID uuid.UUID,
	prefs domain.Preferences,
) error {
	if m.UpdatePreferencesFn != nil {
		return m.UpdatePreferencesFn(ctx, userID, prefs)
	}
	return m.Err
}

func (m *MockUserService) UpdateUserPassword(
	ctx context.Context,
	userID uuid.UUID,
	newPassword string,
) error {
	if m.UpdateUserPasswordFn != nil {
		return m.UpdateUserPasswordFn(ctx, userID, newPassword)
	}
	return m.Err
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteUserFn != nil {
		return m.DeleteUserFn(ctx, userID)
	}
	return m.Err
}

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	CreateTaskFn   func(ctx context.Context, userID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error)
	GetTaskFn      func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	ListTasksFn    func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	CompleteTaskFn func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	DeleteTaskFn   func(ctx context.Context, userID, taskID uuid.UUID) error

	Task  *domain.Task
	Tasks []*domain.Task
	Err   error
}

func (m *MockTaskService) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, userID, input)
	}
	return m.Task, m.Err
}

func (m *MockTaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, userID, taskID)
	}
	return m.Task, m.Err
}

func (m *MockTaskService) ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, userID)
	}
	return m.Tasks, m.Err
}

func (m *MockTaskService) CompleteTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	if m.CompleteTaskFn != nil {
		return m.CompleteTaskFn(ctx, userID, taskID)
	}
	return m.Task, m.Err
}

func (m *MockTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, userID, taskID)
	}
	return m.Err
}

// MockPlanService implements service.PlanService for testing
type MockPlanService struct {
	GenerateDailyPlanFn func(ctx context.Context, userID uuid.UUID, today domain.Date) (*domain.DailyPlan, error)

	Plan *domain.DailyPlan
	Err  error
}

func (m *MockPlanService) GenerateDailyPlan(
	ctx context.Context,
	userID uuid.UUID,
	today domain.Date,
) (*domain.DailyPlan, error) {
	if m.GenerateDailyPlanFn != nil {
		return m.GenerateDailyPlanFn(ctx, userID, today)
	}
	return m.Plan, m.Err
}

// MockFocusService implements service.FocusService for testing
type MockFocusService struct {
	StartFn    func(ctx context.Context, userID uuid.UUID, subject string, durationMinutes int) (*domain.FocusSession, error)
	PauseFn    func(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error)
	ResumeFn   func(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error)
	ExtendFn   func(ctx context.Context, userID uuid.UUID, extraMinutes int) (*domain.FocusSession, error)
	CompleteFn func(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error)
	AbandonFn  func(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error)
	StatusFn   func(ctx context.Context, userID uuid.UUID) (*service.SessionStatus, error)

	Session *domain.FocusSession
	Stat    *service.SessionStatus
	Err     error
}

func (m *MockFocusService) Start(
	ctx context.Context,
	userID uuid.UUID,
	subject string,
	durationMinutes int,
) (*domain.FocusSession, error) {
	if m.StartFn != nil {
		return m.StartFn(ctx, userID, subject, durationMinutes)
	}
	return m.Session, m.Err
}

func (m *MockFocusService) Pause(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error) {
	if m.PauseFn != nil {
		return m.PauseFn(ctx, userID)
	}
	return m.Session, m.Err
}

func (m *MockFocusService) Resume(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error) {
	if m.ResumeFn != nil {
		return m.ResumeFn(ctx, userID)
	}
	return m.Session, m.Err
}

func (m *MockFocusService) Extend(
	ctx context.Context,
	userID uuid.UUID,
	extraMinutes int,
) (*domain.FocusSession, error) {
	if m.ExtendFn != nil {
		return m.ExtendFn(ctx, userID, extraMinutes)
	}
	return m.Session, m.Err
}

func (m *MockFocusService) Complete(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error) {
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, userID)
	}
	return m.Session, m.Err
}

func (m *MockFocusService) Abandon(ctx context.Context, userID uuid.UUID) (*domain.FocusSession, error) {
	if m.AbandonFn != nil {
		return m.AbandonFn(ctx, userID)
	}
	return m.Session, m.Err
}

func (m *MockFocusService) Status(ctx context.Context, userID uuid.UUID) (*service.SessionStatus, error) {
	if m.StatusFn != nil {
		return m.StatusFn(ctx, userID)
	}
	return m.Stat, m.Err
}

// MockReviewService implements service.ReviewService for testing
type MockReviewService struct {
	DueItemsFn     func(ctx context.Context, userID uuid.UUID, subject string, today domain.Date, limit int) ([]srs.DueItem, error)
	SubmitAnswerFn func(ctx context.Context, userID, itemID uuid.UUID, answer string, today domain.Date) (*service.SubmitAnswerResult, error)

	Due    []srs.DueItem
	Result *service.SubmitAnswerResult
	Err    error
}

func (m *MockReviewService) DueItems(
	ctx context.Context,
	userID uuid.UUID,
	subject string,
	today domain.Date,
	limit int,
) ([]srs.DueItem, error) {
	if m.DueItemsFn != nil {
		return m.DueItemsFn(ctx, userID, subject, today, limit)
	}
	return m.Due, m.Err
}

func (m *MockReviewService) SubmitAnswer(
	ctx context.Context,
	userID, itemID uuid.UUID,
	answer string,
	today domain.Date,
) (*service.SubmitAnswerResult, error) {
	if m.SubmitAnswerFn != nil {
		return m.SubmitAnswerFn(ctx, userID, itemID, answer, today)
	}
	return m.Result, m.Err
}

// MockQuizService implements service.QuizService for testing
type MockQuizService struct {
	CreateItemFn        func(ctx context.Context, userID uuid.UUID, subject, prompt, expectedAnswer string) (*domain.ReviewItem, error)
	CreateItemsFn       func(ctx context.Context, items []*domain.ReviewItem) error
	ListItemsFn         func(ctx context.Context, userID uuid.UUID, subject string) ([]*domain.ReviewItem, error)
	DeleteItemFn        func(ctx context.Context, userID, itemID uuid.UUID) error
	GenerateFromNotesFn func(ctx context.Context, userID uuid.UUID, subject, notes string) error

	Item  *domain.ReviewItem
	Items []*domain.ReviewItem
	Err   error
}

func (m *MockQuizService) CreateItem(
	ctx context.Context,
	userID uuid.UUID,
	subject, prompt, expectedAnswer string,
) (*domain.ReviewItem, error) {
	if m.CreateItemFn != nil {
		return m.CreateItemFn(ctx, userID, subject, prompt, expectedAnswer)
	}
	return m.Item, m.Err
}

func (m *MockQuizService) CreateItems(ctx context.Context, items []*domain.ReviewItem) error {
	if m.CreateItemsFn != nil {
		return m.CreateItemsFn(ctx, items)
	}
	return m.Err
}

func (m *MockQuizService) ListItems(
	ctx context.Context,
	userID uuid.UUID,
	subject string,
) ([]*domain.ReviewItem, error) {
	if m.ListItemsFn != nil {
		return m.ListItemsFn(ctx, userID, subject)
	}
	return m.Items, m.Err
}

func (m *MockQuizService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if m.DeleteItemFn != nil {
		return m.DeleteItemFn(ctx, userID, itemID)
	}
	return m.Err
}

func (m *MockQuizService) GenerateFromNotes(
	ctx context.Context,
	userID uuid.UUID,
	subject, notes string,
) error {
	if m.GenerateFromNotesFn != nil {
		return m.GenerateFromNotesFn(ctx, userID, subject, notes)
	}
	return m.Err
}

// MockRecapService implements service.RecapService for testing
type MockRecapService struct {
	DailyRecapFn func(ctx context.Context, userID uuid.UUID, today domain.Date) (*domain.RecapSummary, error)

	Recap *domain.RecapSummary
	Err   error
}

func (m *MockRecapService) DailyRecap(
	ctx context.Context,
	userID uuid.UUID,
	today domain.Date,
) (*domain.RecapSummary, error) {
	if m.DailyRecapFn != nil {
		return m.DailyRecapFn(ctx, userID, today)
	}
	return m.Recap, m.Err
}
