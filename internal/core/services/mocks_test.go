package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetUserActive(ctx context.Context, userID string, active bool, updatedBy string, at time.Time) error {
	args := m.Called(ctx, userID, active, updatedBy, at)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock GroupRepository ---
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error) {
	args := m.Called(ctx, groupID)
	var group *domain.Group
	if args.Get(0) != nil {
		group = args.Get(0).(*domain.Group)
	}
	return group, args.Error(1)
}

func (m *MockGroupRepository) ListGroupsByUserID(ctx context.Context, userID string) ([]domain.Group, error) {
	args := m.Called(ctx, userID)
	var groups []domain.Group
	if args.Get(0) != nil {
		groups = args.Get(0).([]domain.Group)
	}
	return groups, args.Error(1)
}

func (m *MockGroupRepository) CreateGroup(ctx context.Context, group domain.Group, owner domain.GroupMember, categories []domain.Category, audit domain.AuditLog) error {
	args := m.Called(ctx, group, owner, categories, audit)
	return args.Error(0)
}

func (m *MockGroupRepository) FindGroupMember(ctx context.Context, groupID, userID string) (*domain.GroupMember, error) {
	args := m.Called(ctx, groupID, userID)
	var member *domain.GroupMember
	if args.Get(0) != nil {
		member = args.Get(0).(*domain.GroupMember)
	}
	return member, args.Error(1)
}

func (m *MockGroupRepository) ListGroupMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	args := m.Called(ctx, groupID)
	var members []domain.GroupMember
	if args.Get(0) != nil {
		members = args.Get(0).([]domain.GroupMember)
	}
	return members, args.Error(1)
}

func (m *MockGroupRepository) AddGroupMember(ctx context.Context, membership domain.GroupMember) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockGroupRepository) AddNewUserToGroup(ctx context.Context, user domain.User, membership domain.GroupMember) error {
	args := m.Called(ctx, user, membership)
	return args.Error(0)
}

func (m *MockGroupRepository) UpdateMemberRole(ctx context.Context, groupID, userID string, role domain.GroupRole) error {
	args := m.Called(ctx, groupID, userID, role)
	return args.Error(0)
}

func (m *MockGroupRepository) CountActiveMemberships(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	var category *domain.Category
	if args.Get(0) != nil {
		category = args.Get(0).(*domain.Category)
	}
	return category, args.Error(1)
}

func (m *MockCategoryRepository) ListCategoriesForGroup(ctx context.Context, groupID string) ([]domain.Category, error) {
	args := m.Called(ctx, groupID)
	var categories []domain.Category
	if args.Get(0) != nil {
		categories = args.Get(0).([]domain.Category)
	}
	return categories, args.Error(1)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, groupID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, groupID, transactionID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, groupID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, groupID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTransactionRepository) ListPendingTransactions(ctx context.Context, groupID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, groupID)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) ListCompletedTransactions(ctx context.Context, groupID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, groupID)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) ListCompletedTransactionsSince(ctx context.Context, groupID string, since time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, groupID, since)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, txn domain.Transaction, audit domain.AuditLog) error {
	args := m.Called(ctx, txn, audit)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, before, after domain.Transaction, audit domain.AuditLog) error {
	args := m.Called(ctx, before, after, audit)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, txn domain.Transaction, audit domain.AuditLog) error {
	args := m.Called(ctx, txn, audit)
	return args.Error(0)
}

func (m *MockTransactionRepository) ConfirmTransaction(ctx context.Context, txn domain.Transaction, audit domain.AuditLog) error {
	args := m.Called(ctx, txn, audit)
	return args.Error(0)
}

// --- Mock RecurringRepository ---
type MockRecurringRepository struct {
	mock.Mock
}

func (m *MockRecurringRepository) FindTemplateByID(ctx context.Context, groupID, templateID string) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, groupID, templateID)
	var tmpl *domain.RecurringTemplate
	if args.Get(0) != nil {
		tmpl = args.Get(0).(*domain.RecurringTemplate)
	}
	return tmpl, args.Error(1)
}

func (m *MockRecurringRepository) ListTemplates(ctx context.Context, groupID string, includeInactive bool) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx, groupID, includeInactive)
	var templates []domain.RecurringTemplate
	if args.Get(0) != nil {
		templates = args.Get(0).([]domain.RecurringTemplate)
	}
	return templates, args.Error(1)
}

func (m *MockRecurringRepository) ListDueTemplates(ctx context.Context, groupID string, now time.Time) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx, groupID, now)
	var templates []domain.RecurringTemplate
	if args.Get(0) != nil {
		templates = args.Get(0).([]domain.RecurringTemplate)
	}
	return templates, args.Error(1)
}

func (m *MockRecurringRepository) ListGroupIDsWithDueTemplates(ctx context.Context, now time.Time) ([]string, error) {
	args := m.Called(ctx, now)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

func (m *MockRecurringRepository) SaveTemplate(ctx context.Context, tmpl domain.RecurringTemplate, audit domain.AuditLog) error {
	args := m.Called(ctx, tmpl, audit)
	return args.Error(0)
}

func (m *MockRecurringRepository) UpdateTemplate(ctx context.Context, tmpl domain.RecurringTemplate, audit domain.AuditLog) error {
	args := m.Called(ctx, tmpl, audit)
	return args.Error(0)
}

func (m *MockRecurringRepository) MaterializeDueTemplate(ctx context.Context, tmpl domain.RecurringTemplate, pending domain.Transaction, alert domain.Alert, nextRun time.Time) (bool, error) {
	args := m.Called(ctx, tmpl, pending, alert, nextRun)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecurringRepository) RecordTemplatePayment(ctx context.Context, tmpl domain.RecurringTemplate, payment domain.Transaction, nextRun time.Time, audit domain.AuditLog) error {
	args := m.Called(ctx, tmpl, payment, nextRun, audit)
	return args.Error(0)
}

// --- Mock GoalRepository ---
type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) FindGoalByID(ctx context.Context, groupID, goalID string) (*domain.Goal, error) {
	args := m.Called(ctx, groupID, goalID)
	var goal *domain.Goal
	if args.Get(0) != nil {
		goal = args.Get(0).(*domain.Goal)
	}
	return goal, args.Error(1)
}

func (m *MockGoalRepository) ListGoals(ctx context.Context, groupID string) ([]domain.Goal, error) {
	args := m.Called(ctx, groupID)
	var goals []domain.Goal
	if args.Get(0) != nil {
		goals = args.Get(0).([]domain.Goal)
	}
	return goals, args.Error(1)
}

func (m *MockGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal, audit domain.AuditLog) error {
	args := m.Called(ctx, goal, audit)
	return args.Error(0)
}

func (m *MockGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal, audit domain.AuditLog) error {
	args := m.Called(ctx, goal, audit)
	return args.Error(0)
}

func (m *MockGoalRepository) DeleteGoal(ctx context.Context, groupID, goalID string, audit domain.AuditLog) error {
	args := m.Called(ctx, groupID, goalID, audit)
	return args.Error(0)
}

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) SaveAuditLog(ctx context.Context, log domain.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditLogs(ctx context.Context, groupID string, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, groupID, limit)
	var logs []domain.AuditLog
	if args.Get(0) != nil {
		logs = args.Get(0).([]domain.AuditLog)
	}
	return logs, args.Error(1)
}

// --- Mock CompletionClient ---
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	args := m.Called(ctx, prompt, temperature)
	return args.String(0), args.Error(1)
}

// --- Mock StatementRenderer ---
type MockStatementRenderer struct {
	mock.Mock
}

func (m *MockStatementRenderer) RenderStatement(statement domain.SettlementStatement) ([]byte, error) {
	args := m.Called(statement)
	var pdf []byte
	if args.Get(0) != nil {
		pdf = args.Get(0).([]byte)
	}
	return pdf, args.Error(1)
}

// expectMembership makes FindGroupMember report userID with role in groupID,
// which is what the shared authorizer checks.
func expectMembership(repo *MockGroupRepository, groupID, userID string, role domain.GroupRole) *mock.Call {
	return repo.On("FindGroupMember", mock.Anything, groupID, userID).
		Return(&domain.GroupMember{GroupID: groupID, UserID: userID, Role: role}, nil)
}
