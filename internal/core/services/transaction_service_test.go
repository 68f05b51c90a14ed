package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/core/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo      *MockTransactionRepository
	mockGroupRepo    *MockGroupRepository
	mockCategoryRepo *MockCategoryRepository
	mockGoalRepo     *MockGoalRepository
	service          portssvc.TransactionSvcFacade
	now              time.Time
	groupID          string
	members          []domain.GroupMember
	category         *domain.Category
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockGroupRepo = new(MockGroupRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockGoalRepo = new(MockGoalRepository)
	suite.now = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	suite.groupID = "group-1"
	suite.members = []domain.GroupMember{
		{UserID: "ana", UserName: "Ana", GroupID: suite.groupID, Role: domain.RoleOwner},
		{UserID: "luis", UserName: "Luis", GroupID: suite.groupID, Role: domain.RoleMember},
	}
	groupID := suite.groupID
	suite.category = &domain.Category{CategoryID: "cat-food", GroupID: &groupID, Name: "Mercado"}

	suite.service = services.NewTransactionService(
		suite.mockTxnRepo,
		suite.mockGroupRepo,
		suite.mockCategoryRepo,
		suite.mockGoalRepo,
		services.NewGroupAuthorizer(suite.mockGroupRepo),
		services.WithTransactionClock(func() time.Time { return suite.now }),
	)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func (suite *TransactionServiceTestSuite) expectGroupContext() {
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	suite.mockGroupRepo.On("ListGroupMembers", mock.Anything, suite.groupID).Return(suite.members, nil)
	suite.mockCategoryRepo.On("FindCategoryByID", mock.Anything, "cat-food").Return(suite.category, nil)
}

func (suite *TransactionServiceTestSuite) baseRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Amount:      10001,
		Description: "Mercado semanal",
		PayerID:     "ana",
		CategoryID:  "cat-food",
		Type:        domain.TransactionExpense,
	}
}

// --- CreateTransaction ---

func (suite *TransactionServiceTestSuite) TestCreateTransaction_DefaultsToEqualSplit() {
	ctx := context.Background()
	suite.expectGroupContext()
	suite.mockTxnRepo.On("CreateTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("domain.AuditLog")).
		Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, suite.groupID, "ana", suite.baseRequest())
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, txn.Status)
	suite.Equal(suite.now, txn.Date)
	suite.Equal("ana", txn.CreatedBy)
	suite.Require().Len(txn.Splits, 2)
	suite.Equal(int64(5001), txn.Splits[0].Amount)
	suite.Equal(int64(5000), txn.Splits[1].Amount)
	suite.Equal(txn.Amount, txn.SplitTotal())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_WithPolicy() {
	ctx := context.Background()
	suite.expectGroupContext()
	suite.mockTxnRepo.On("CreateTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	req := suite.baseRequest()
	req.Amount = 100000
	policy := domain.CustomSplit(map[string]float64{"ana": 70, "luis": 30})
	req.SplitPolicy = &policy

	txn, err := suite.service.CreateTransaction(ctx, suite.groupID, "ana", req)
	suite.Require().NoError(err)
	suite.Equal(int64(70000), txn.ShareOf("ana"))
	suite.Equal(int64(30000), txn.ShareOf("luis"))
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ExplicitSplitsMustAddUp() {
	ctx := context.Background()
	suite.expectGroupContext()

	req := suite.baseRequest()
	req.Splits = []dto.SplitRequest{{UserID: "ana", Amount: 5000}, {UserID: "luis", Amount: 4000}}

	txn, err := suite.service.CreateTransaction(ctx, suite.groupID, "ana", req)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_PercentagesOverHundred() {
	ctx := context.Background()
	suite.expectGroupContext()

	req := suite.baseRequest()
	policy := domain.CustomSplit(map[string]float64{"ana": 80, "luis": 30})
	req.SplitPolicy = &policy

	_, err := suite.service.CreateTransaction(ctx, suite.groupID, "ana", req)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_PayerNotMember() {
	ctx := context.Background()
	suite.expectGroupContext()

	req := suite.baseRequest()
	req.PayerID = "stranger"

	_, err := suite.service.CreateTransaction(ctx, suite.groupID, "ana", req)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_CategoryOfAnotherGroup() {
	ctx := context.Background()
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	suite.mockGroupRepo.On("ListGroupMembers", ctx, suite.groupID).Return(suite.members, nil)
	other := "group-2"
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-other").
		Return(&domain.Category{CategoryID: "cat-other", GroupID: &other}, nil).Once()

	req := suite.baseRequest()
	req.CategoryID = "cat-other"

	_, err := suite.service.CreateTransaction(ctx, suite.groupID, "ana", req)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_GlobalCategoryAllowed() {
	ctx := context.Background()
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	suite.mockGroupRepo.On("ListGroupMembers", ctx, suite.groupID).Return(suite.members, nil)
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-global").
		Return(&domain.Category{CategoryID: "cat-global"}, nil).Once()
	suite.mockTxnRepo.On("CreateTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	req := suite.baseRequest()
	req.CategoryID = "cat-global"

	_, err := suite.service.CreateTransaction(ctx, suite.groupID, "ana", req)
	suite.NoError(err)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_SavingLinkedToGoal() {
	ctx := context.Background()
	suite.expectGroupContext()
	suite.mockGoalRepo.On("FindGoalByID", ctx, suite.groupID, "goal-1").
		Return(&domain.Goal{GoalID: "goal-1", GroupID: suite.groupID}, nil).Once()
	suite.mockTxnRepo.On("CreateTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		goalID, amount, ok := t.GoalContribution()
		return ok && goalID == "goal-1" && amount == 10001
	}), mock.Anything).Return(nil).Once()

	req := suite.baseRequest()
	req.Type = domain.TransactionSaving
	goalID := "goal-1"
	req.GoalID = &goalID

	_, err := suite.service.CreateTransaction(ctx, suite.groupID, "ana", req)
	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_UnknownGoal() {
	ctx := context.Background()
	suite.expectGroupContext()
	suite.mockGoalRepo.On("FindGoalByID", ctx, suite.groupID, "nope").Return(nil, apperrors.ErrNotFound).Once()

	req := suite.baseRequest()
	goalID := "nope"
	req.GoalID = &goalID

	_, err := suite.service.CreateTransaction(ctx, suite.groupID, "ana", req)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_NonMemberIsNotFound() {
	ctx := context.Background()
	suite.mockGroupRepo.On("FindGroupMember", ctx, suite.groupID, "stranger").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateTransaction(ctx, suite.groupID, "stranger", suite.baseRequest())
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestCreateTransactionAs_SkipsMembershipCheck() {
	ctx := context.Background()
	suite.mockGroupRepo.On("FindGroupByID", ctx, suite.groupID).Return(&domain.Group{GroupID: suite.groupID}, nil).Once()
	suite.mockGroupRepo.On("ListGroupMembers", ctx, suite.groupID).Return(suite.members, nil)
	suite.mockCategoryRepo.On("FindCategoryByID", ctx, "cat-food").Return(suite.category, nil)
	suite.mockTxnRepo.On("CreateTransaction", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	txn, err := suite.service.CreateTransactionAs(ctx, suite.groupID, domain.WhatsAppActor, suite.baseRequest())
	suite.Require().NoError(err)
	suite.Equal(domain.WhatsAppActor, txn.CreatedBy)
	suite.mockGroupRepo.AssertNotCalled(suite.T(), "FindGroupMember", mock.Anything, mock.Anything, mock.Anything)
}

// --- UpdateTransaction / DeleteTransaction ---

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_ReplacesSplitsAndAudits() {
	ctx := context.Background()
	suite.expectGroupContext()
	before := &domain.Transaction{
		TransactionID: "tx-1",
		GroupID:       suite.groupID,
		Amount:        2000,
		Description:   "old",
		Date:          suite.now.Add(-48 * time.Hour),
		PayerID:       "ana",
		CategoryID:    "cat-food",
		Type:          domain.TransactionExpense,
		Status:        domain.StatusCompleted,
		Splits:        []domain.Split{{UserID: "ana", Amount: 1000}, {UserID: "luis", Amount: 1000}},
	}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.groupID, "tx-1").Return(before, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx, *before, mock.AnythingOfType("domain.Transaction"), mock.MatchedBy(func(l domain.AuditLog) bool {
		return l.Action == domain.AuditUpdate && l.Before != nil && l.After != nil
	})).Return(nil).Once()

	policy := domain.SingleAssignee("luis")
	req := dto.UpdateTransactionRequest{
		Amount:      3000,
		Description: "new",
		PayerID:     "ana",
		CategoryID:  "cat-food",
		Type:        domain.TransactionExpense,
		SplitPolicy: &policy,
	}
	after, err := suite.service.UpdateTransaction(ctx, suite.groupID, "tx-1", "ana", req)
	suite.Require().NoError(err)
	suite.Equal(before.Date, after.Date)
	suite.Equal(int64(3000), after.ShareOf("luis"))
	suite.Equal(int64(0), after.ShareOf("ana"))
	suite.Equal("ana", after.LastUpdatedBy)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_ConcurrentEditConflicts() {
	ctx := context.Background()
	suite.expectGroupContext()
	goalID := "goal-trip"
	readAt := suite.now.Add(-time.Hour)
	before := &domain.Transaction{
		TransactionID: "tx-s",
		GroupID:       suite.groupID,
		Amount:        100,
		Description:   "ahorro",
		Date:          suite.now.Add(-48 * time.Hour),
		PayerID:       "ana",
		CategoryID:    "cat-food",
		GoalID:        &goalID,
		Type:          domain.TransactionSaving,
		Status:        domain.StatusCompleted,
		Splits:        []domain.Split{{UserID: "ana", Amount: 50}, {UserID: "luis", Amount: 50}},
		AuditFields:   domain.NewAuditFields("ana", readAt),
	}
	conflict := apperrors.NewAppError(409, "transaction tx-s was modified or deleted concurrently", apperrors.ErrConflict)
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.groupID, "tx-s").Return(before, nil).Once()
	suite.mockTxnRepo.On("UpdateTransaction", ctx,
		mock.MatchedBy(func(b domain.Transaction) bool { return b.LastUpdatedAt.Equal(readAt) }),
		mock.MatchedBy(func(a domain.Transaction) bool { return a.LastUpdatedAt.Equal(suite.now) && a.Amount == 120 }),
		mock.Anything,
	).Return(conflict).Once()

	req := dto.UpdateTransactionRequest{
		Amount:      120,
		Description: "ahorro",
		PayerID:     "ana",
		CategoryID:  "cat-food",
		Type:        domain.TransactionSaving,
	}
	after, err := suite.service.UpdateTransaction(ctx, suite.groupID, "tx-s", "ana", req)
	suite.Nil(after)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_NotFound() {
	ctx := context.Background()
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.groupID, "missing").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteTransaction(ctx, suite.groupID, "missing", "ana")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "DeleteTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_Success() {
	ctx := context.Background()
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	txn := &domain.Transaction{TransactionID: "tx-1", GroupID: suite.groupID}
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.groupID, "tx-1").Return(txn, nil).Once()
	suite.mockTxnRepo.On("DeleteTransaction", ctx, *txn, mock.MatchedBy(func(l domain.AuditLog) bool {
		return l.Action == domain.AuditDelete && l.After == nil
	})).Return(nil).Once()

	suite.NoError(suite.service.DeleteTransaction(ctx, suite.groupID, "tx-1", "ana"))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- ConfirmPendingTransaction ---

func (suite *TransactionServiceTestSuite) pending() *domain.Transaction {
	return &domain.Transaction{
		TransactionID: "tx-p",
		GroupID:       suite.groupID,
		Amount:        90000,
		Description:   "Recurring: Arriendo",
		Date:          suite.now,
		PayerID:       "ana",
		CategoryID:    "cat-food",
		Type:          domain.TransactionExpense,
		Status:        domain.StatusPending,
	}
}

func (suite *TransactionServiceTestSuite) TestConfirmPendingTransaction_EqualByDefault() {
	ctx := context.Background()
	suite.expectGroupContext()
	expectMembership(suite.mockGroupRepo, suite.groupID, "luis", domain.RoleMember)
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.groupID, "tx-p").Return(suite.pending(), nil).Once()
	suite.mockTxnRepo.On("ConfirmTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.Anything).Return(nil).Once()

	amount := int64(95001)
	txn, err := suite.service.ConfirmPendingTransaction(ctx, suite.groupID, "tx-p", "luis", dto.ConfirmTransactionRequest{Amount: &amount})
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, txn.Status)
	suite.Equal(amount, txn.Amount)
	suite.Equal(amount, txn.SplitTotal())
	suite.Equal("luis", txn.LastUpdatedBy)
}

func (suite *TransactionServiceTestSuite) TestConfirmPendingTransaction_AlreadyCompleted() {
	ctx := context.Background()
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	done := suite.pending()
	done.Status = domain.StatusCompleted
	suite.mockTxnRepo.On("FindTransactionByID", ctx, suite.groupID, "tx-p").Return(done, nil).Once()

	_, err := suite.service.ConfirmPendingTransaction(ctx, suite.groupID, "tx-p", "ana", dto.ConfirmTransactionRequest{})
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ConfirmTransaction", mock.Anything, mock.Anything, mock.Anything)
}

// --- Reads ---

func (suite *TransactionServiceTestSuite) TestListTransactions_DefaultLimit() {
	ctx := context.Background()
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	next := "token"
	suite.mockTxnRepo.On("ListTransactions", ctx, suite.groupID, 20, (*string)(nil)).
		Return([]domain.Transaction{{TransactionID: "tx-1"}}, &next, nil).Once()

	res, err := suite.service.ListTransactions(ctx, suite.groupID, "ana", dto.ListTransactionsParams{})
	suite.Require().NoError(err)
	suite.Len(res.Transactions, 1)
	suite.Equal(&next, res.NextToken)
}

func (suite *TransactionServiceTestSuite) TestPreviewSplits() {
	ctx := context.Background()
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	suite.mockGroupRepo.On("ListGroupMembers", ctx, suite.groupID).Return(suite.members, nil).Once()

	splits, err := suite.service.PreviewSplits(ctx, suite.groupID, "ana", 101, domain.EqualSplit())
	suite.Require().NoError(err)
	suite.Require().Len(splits, 2)
	suite.Equal(int64(51), splits[0].Amount)
	suite.Equal(int64(50), splits[1].Amount)
}

func (suite *TransactionServiceTestSuite) TestPreviewSplits_CompletesSecondPercentage() {
	ctx := context.Background()
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	suite.mockGroupRepo.On("ListGroupMembers", ctx, suite.groupID).Return(suite.members, nil).Once()

	policy := domain.CustomSplit(map[string]float64{"luis": 30})
	splits, err := suite.service.PreviewSplits(ctx, suite.groupID, "ana", 10000, policy)
	suite.Require().NoError(err)
	suite.Require().Len(splits, 2)
	suite.Equal("ana", splits[0].UserID)
	suite.Equal(int64(7000), splits[0].Amount)
	suite.Require().NotNil(splits[0].Percentage)
	suite.InDelta(70.0, *splits[0].Percentage, 1e-9)
	suite.Equal(int64(3000), splits[1].Amount)
	suite.Len(policy.Percentages, 1, "caller's policy must not be modified")
}

func (suite *TransactionServiceTestSuite) TestPreviewSplits_AssigneeMustBeMember() {
	ctx := context.Background()
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	suite.mockGroupRepo.On("ListGroupMembers", ctx, suite.groupID).Return(suite.members, nil).Once()

	_, err := suite.service.PreviewSplits(ctx, suite.groupID, "ana", 100, domain.SingleAssignee("stranger"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestListPendingTransactions_RepoError() {
	ctx := context.Background()
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	suite.mockTxnRepo.On("ListPendingTransactions", ctx, suite.groupID).Return(nil, assert.AnError).Once()

	_, err := suite.service.ListPendingTransactions(ctx, suite.groupID, "ana")
	suite.ErrorIs(err, assert.AnError)
}
