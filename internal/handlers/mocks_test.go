package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/SscSPs/couple_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// generateTestToken creates a signed access token for userID.
func generateTestToken(t *testing.T, userID string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Issuer:    "cfa-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

// newAuthedRouter returns a test router whose /api/v1 group requires a token.
func newAuthedRouter(t *testing.T) (*gin.Engine, *gin.RouterGroup) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())
	r := gin.New()
	return r, r.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret))
}

// --- Mock FinancialAccountService ---
type MockFinancialAccountService struct {
	mock.Mock
}

func (m *MockFinancialAccountService) CreateFinancialAccount(ctx context.Context, userID string, req dto.CreateFinancialAccountRequest) (*domain.FinancialAccount, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialAccount), args.Error(1)
}

func (m *MockFinancialAccountService) ListFinancialAccounts(ctx context.Context, userID string) ([]domain.FinancialAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialAccount), args.Error(1)
}

var _ portssvc.FinancialAccountSvcFacade = (*MockFinancialAccountService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) txn(args mock.Arguments) (*domain.Transaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, groupID, transactionID, requestingUserID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, groupID, transactionID, requestingUserID))
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, groupID, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, groupID, requestingUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockTransactionService) ListPendingTransactions(ctx context.Context, groupID, requestingUserID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, groupID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) PreviewSplits(ctx context.Context, groupID, requestingUserID string, amount int64, policy domain.SplitPolicy) ([]domain.Split, error) {
	args := m.Called(ctx, groupID, requestingUserID, amount, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Split), args.Error(1)
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, groupID, requestingUserID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, groupID, requestingUserID, req))
}

func (m *MockTransactionService) CreateTransactionAs(ctx context.Context, groupID, actor string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, groupID, actor, req))
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, groupID, transactionID, requestingUserID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, groupID, transactionID, requestingUserID, req))
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, groupID, transactionID, requestingUserID string) error {
	return m.Called(ctx, groupID, transactionID, requestingUserID).Error(0)
}

func (m *MockTransactionService) ConfirmPendingTransaction(ctx context.Context, groupID, transactionID, requestingUserID string, req dto.ConfirmTransactionRequest) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, groupID, transactionID, requestingUserID, req))
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock CommentService ---
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) AddComment(ctx context.Context, groupID, transactionID, requestingUserID string, req dto.CreateCommentRequest) (*domain.Comment, error) {
	args := m.Called(ctx, groupID, transactionID, requestingUserID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockCommentService) ListComments(ctx context.Context, groupID, transactionID, requestingUserID string) ([]domain.Comment, error) {
	args := m.Called(ctx, groupID, transactionID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

var _ portssvc.CommentSvcFacade = (*MockCommentService)(nil)

// --- Mock SettlementService ---
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) GetBalance(ctx context.Context, groupID, requestingUserID string) (*domain.BalanceBreakdown, error) {
	args := m.Called(ctx, groupID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceBreakdown), args.Error(1)
}

func (m *MockSettlementService) GenerateReport(ctx context.Context, groupID, requestingUserID string, now time.Time) (*domain.FinancialReport, error) {
	args := m.Called(ctx, groupID, requestingUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialReport), args.Error(1)
}

func (m *MockSettlementService) RenderStatementPDF(ctx context.Context, groupID, requestingUserID string, now time.Time) ([]byte, error) {
	args := m.Called(ctx, groupID, requestingUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ portssvc.SettlementSvcFacade = (*MockSettlementService)(nil)

// --- Mock WhatsAppService ---
type MockWhatsAppService struct {
	mock.Mock
}

func (m *MockWhatsAppService) VerifySubscription(mode, token, challenge string) (string, error) {
	args := m.Called(mode, token, challenge)
	return args.String(0), args.Error(1)
}

func (m *MockWhatsAppService) HandleWebhook(ctx context.Context, payload dto.WhatsAppWebhookPayload) error {
	return m.Called(ctx, payload).Error(0)
}

var _ portssvc.WhatsAppSvcFacade = (*MockWhatsAppService)(nil)
