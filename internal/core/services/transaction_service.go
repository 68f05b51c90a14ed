package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	"github.com/SscSPs/couple_finance_app/internal/core/finance"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/google/uuid"
)

type transactionService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	groupRepo    portsrepo.GroupRepositoryFacade
	categoryRepo portsrepo.CategoryReader
	goalRepo     portsrepo.GoalReader
	now          func() time.Time
}

// TransactionServiceOption configures a transaction service.
type TransactionServiceOption func(*transactionService)

// WithTransactionClock overrides the clock used for default dates and audit stamps.
func WithTransactionClock(now func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.now = now
	}
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	groupRepo portsrepo.GroupRepositoryFacade,
	categoryRepo portsrepo.CategoryReader,
	goalRepo portsrepo.GoalReader,
	authorizer portssvc.GroupAuthorizerSvc,
	opts ...TransactionServiceOption,
) portssvc.TransactionSvcFacade {
	s := &transactionService{
		BaseService:  BaseService{GroupAuthorizer: authorizer},
		txnRepo:      txnRepo,
		groupRepo:    groupRepo,
		categoryRepo: categoryRepo,
		goalRepo:     goalRepo,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransaction(ctx context.Context, groupID, transactionID, requestingUserID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	txn, err := s.txnRepo.FindTransactionByID(ctx, groupID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, groupID, requestingUserID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, groupID, limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("group_id", groupID))
		}
		return nil, err
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

func (s *transactionService) ListPendingTransactions(ctx context.Context, groupID, requestingUserID string) ([]domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	txns, err := s.txnRepo.ListPendingTransactions(ctx, groupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending transactions", slog.String("group_id", groupID))
		return nil, err
	}
	return txns, nil
}

func (s *transactionService) PreviewSplits(ctx context.Context, groupID, requestingUserID string, amount int64, policy domain.SplitPolicy) ([]domain.Split, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, validationErrorf("amount must be positive")
	}
	members, err := s.groupRepo.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.allocate(amount, policy, domain.MemberIDs(members))
}

func (s *transactionService) CreateTransaction(ctx context.Context, groupID, requestingUserID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.create(ctx, groupID, requestingUserID, req)
}

func (s *transactionService) CreateTransactionAs(ctx context.Context, groupID, actor string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if _, err := s.groupRepo.FindGroupByID(ctx, groupID); err != nil {
		s.LogError(ctx, err, "Group for system transaction not found", slog.String("group_id", groupID))
		return nil, err
	}
	return s.create(ctx, groupID, actor, req)
}

func (s *transactionService) create(ctx context.Context, groupID, actor string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	now := s.now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		GroupID:       groupID,
		Status:        domain.StatusCompleted,
		AuditFields:   domain.NewAuditFields(actor, now),
	}
	if err := s.applyRequest(ctx, &txn, req, now); err != nil {
		return nil, err
	}

	audit := newAuditLog(groupID, domain.EntityTransaction, txn.TransactionID, domain.AuditCreate, nil, txn, actor, now)
	if err := s.txnRepo.CreateTransaction(ctx, txn, audit); err != nil {
		s.LogError(ctx, err, "Failed to create transaction", slog.String("group_id", groupID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("group_id", groupID),
		slog.String("actor", actor))
	return &txn, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, groupID, transactionID, requestingUserID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	before, err := s.txnRepo.FindTransactionByID(ctx, groupID, transactionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	after := *before
	after.LastUpdatedAt = now
	after.LastUpdatedBy = requestingUserID
	if err := s.applyRequest(ctx, &after, dto.CreateTransactionRequest(req), before.Date); err != nil {
		return nil, err
	}

	audit := newAuditLog(groupID, domain.EntityTransaction, transactionID, domain.AuditUpdate, before, after, requestingUserID, now)
	if err := s.txnRepo.UpdateTransaction(ctx, *before, after, audit); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return &after, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, groupID, transactionID, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return err
	}
	txn, err := s.txnRepo.FindTransactionByID(ctx, groupID, transactionID)
	if err != nil {
		return err
	}

	audit := newAuditLog(groupID, domain.EntityTransaction, transactionID, domain.AuditDelete, txn, nil, requestingUserID, s.now())
	if err := s.txnRepo.DeleteTransaction(ctx, *txn, audit); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// ConfirmPendingTransaction completes a pending transaction, splitting it
// equally between the current members unless a policy is given.
func (s *transactionService) ConfirmPendingTransaction(ctx context.Context, groupID, transactionID, requestingUserID string, req dto.ConfirmTransactionRequest) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	before, err := s.txnRepo.FindTransactionByID(ctx, groupID, transactionID)
	if err != nil {
		return nil, err
	}
	if before.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: transaction %s is not pending", apperrors.ErrConflict, transactionID)
	}

	confirmed := *before
	if req.Amount != nil {
		confirmed.Amount = *req.Amount
	}
	policy := domain.EqualSplit()
	if req.SplitPolicy != nil {
		policy = *req.SplitPolicy
	}

	members, err := s.groupRepo.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	splits, err := s.allocate(confirmed.Amount, policy, domain.MemberIDs(members))
	if err != nil {
		return nil, err
	}

	now := s.now()
	confirmed.Splits = splits
	confirmed.Status = domain.StatusCompleted
	confirmed.LastUpdatedAt = now
	confirmed.LastUpdatedBy = requestingUserID
	if err := confirmed.Validate(); err != nil {
		return nil, err
	}

	audit := newAuditLog(groupID, domain.EntityTransaction, transactionID, domain.AuditUpdate, before, confirmed, requestingUserID, now)
	if err := s.txnRepo.ConfirmTransaction(ctx, confirmed, audit); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to confirm transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Pending transaction confirmed",
		slog.String("transaction_id", transactionID),
		slog.Int64("amount", confirmed.Amount))
	return &confirmed, nil
}

// applyRequest copies the editable fields of req onto txn after checking that
// every referenced payer, member, category and goal belongs to the group.
// defaultDate is used when the request has no date.
func (s *transactionService) applyRequest(ctx context.Context, txn *domain.Transaction, req dto.CreateTransactionRequest, defaultDate time.Time) error {
	members, err := s.groupRepo.ListGroupMembers(ctx, txn.GroupID)
	if err != nil {
		return err
	}
	memberIDs := domain.MemberIDs(members)
	isMember := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		isMember[id] = true
	}

	if !isMember[req.PayerID] {
		return validationErrorf("payer %s is not a member of the group", req.PayerID)
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return validationErrorf("category %s does not exist", req.CategoryID)
		}
		return err
	}
	if !category.IsVisibleTo(txn.GroupID) {
		return validationErrorf("category %s does not belong to the group", req.CategoryID)
	}

	var goalID *string
	if req.GoalID != nil && *req.GoalID != "" {
		if _, err := s.goalRepo.FindGoalByID(ctx, txn.GroupID, *req.GoalID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return validationErrorf("goal %s does not exist in the group", *req.GoalID)
			}
			return err
		}
		id := *req.GoalID
		goalID = &id
	}

	var splits []domain.Split
	switch {
	case len(req.Splits) > 0:
		splits = make([]domain.Split, len(req.Splits))
		for i, sr := range req.Splits {
			if !isMember[sr.UserID] {
				return validationErrorf("split user %s is not a member of the group", sr.UserID)
			}
			splits[i] = domain.Split{UserID: sr.UserID, Amount: sr.Amount, Percentage: sr.Percentage}
		}
	default:
		policy := domain.EqualSplit()
		if req.SplitPolicy != nil {
			policy = *req.SplitPolicy
		}
		splits, err = s.allocate(req.Amount, policy, memberIDs)
		if err != nil {
			return err
		}
	}

	txn.Amount = req.Amount
	txn.Description = strings.TrimSpace(req.Description)
	txn.Date = defaultDate
	if req.Date != nil {
		txn.Date = *req.Date
	}
	txn.PayerID = req.PayerID
	txn.CategoryID = req.CategoryID
	txn.GoalID = goalID
	txn.Type = req.Type
	txn.Splits = splits

	return txn.Validate()
}

func (s *transactionService) allocate(amount int64, policy domain.SplitPolicy, participants []string) ([]domain.Split, error) {
	policy = finance.CompleteTwoWay(policy, participants)
	if err := finance.ValidatePolicy(policy, participants); err != nil {
		return nil, err
	}
	return finance.CalculateSplits(amount, policy, participants), nil
}
