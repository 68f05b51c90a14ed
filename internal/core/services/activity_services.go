package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/couple_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/google/uuid"
)

// auditLogPageSize is how many entries ListAuditLogs returns.
const auditLogPageSize = 50

// --- Alerts ---

type alertService struct {
	BaseService
	alertRepo portsrepo.AlertRepositoryFacade
}

func NewAlertService(alertRepo portsrepo.AlertRepositoryFacade, authorizer portssvc.GroupAuthorizerSvc) portssvc.AlertSvcFacade {
	return &alertService{BaseService: BaseService{GroupAuthorizer: authorizer}, alertRepo: alertRepo}
}

func (s *alertService) ListUnreadAlerts(ctx context.Context, groupID, requestingUserID string) ([]domain.Alert, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	alerts, err := s.alertRepo.ListUnreadAlerts(ctx, groupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list alerts", slog.String("group_id", groupID))
		return nil, err
	}
	return alerts, nil
}

func (s *alertService) MarkAlertRead(ctx context.Context, groupID, alertID, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return err
	}
	return s.alertRepo.MarkAlertRead(ctx, groupID, alertID)
}

// --- Audit log ---

type auditService struct {
	BaseService
	auditRepo portsrepo.AuditRepositoryFacade
}

func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade, authorizer portssvc.GroupAuthorizerSvc) portssvc.AuditSvcFacade {
	return &auditService{BaseService: BaseService{GroupAuthorizer: authorizer}, auditRepo: auditRepo}
}

func (s *auditService) Record(ctx context.Context, log domain.AuditLog) error {
	if log.AuditID == "" {
		log.AuditID = uuid.NewString()
	}
	if log.ChangedAt.IsZero() {
		log.ChangedAt = time.Now()
	}
	if err := s.auditRepo.SaveAuditLog(ctx, log); err != nil {
		s.LogError(ctx, err, "Failed to record audit log",
			slog.String("entity_type", log.EntityType),
			slog.String("entity_id", log.EntityID))
		return err
	}
	return nil
}

// ListAuditLogs is restricted to group admins.
func (s *auditService) ListAuditLogs(ctx context.Context, groupID, requestingUserID string) ([]domain.AuditLog, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.auditRepo.ListAuditLogs(ctx, groupID, auditLogPageSize)
}

// --- Comments ---

type commentService struct {
	BaseService
	commentRepo portsrepo.CommentRepositoryFacade
	txnRepo     portsrepo.TransactionReader
	userRepo    portsrepo.UserReader
}

func NewCommentService(
	commentRepo portsrepo.CommentRepositoryFacade,
	txnRepo portsrepo.TransactionReader,
	userRepo portsrepo.UserReader,
	authorizer portssvc.GroupAuthorizerSvc,
) portssvc.CommentSvcFacade {
	return &commentService{
		BaseService: BaseService{GroupAuthorizer: authorizer},
		commentRepo: commentRepo,
		txnRepo:     txnRepo,
		userRepo:    userRepo,
	}
}

func (s *commentService) AddComment(ctx context.Context, groupID, transactionID, requestingUserID string, req dto.CreateCommentRequest) (*domain.Comment, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, validationErrorf("comment content is required")
	}
	// The transaction must belong to the group the caller is a member of.
	if _, err := s.txnRepo.FindTransactionByID(ctx, groupID, transactionID); err != nil {
		return nil, err
	}
	author, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}

	comment := domain.Comment{
		CommentID:     uuid.NewString(),
		TransactionID: transactionID,
		UserID:        requestingUserID,
		UserName:      author.DisplayName(),
		Content:       content,
		CreatedAt:     time.Now(),
	}
	if err := s.commentRepo.SaveComment(ctx, comment); err != nil {
		s.LogError(ctx, err, "Failed to save comment", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return &comment, nil
}

func (s *commentService) ListComments(ctx context.Context, groupID, transactionID, requestingUserID string) ([]domain.Comment, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	if _, err := s.txnRepo.FindTransactionByID(ctx, groupID, transactionID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListComments(ctx, transactionID)
}

// --- Financial accounts ---

type financialAccountService struct {
	BaseService
	accountRepo portsrepo.FinancialAccountRepositoryFacade
}

func NewFinancialAccountService(accountRepo portsrepo.FinancialAccountRepositoryFacade) portssvc.FinancialAccountSvcFacade {
	return &financialAccountService{accountRepo: accountRepo}
}

func (s *financialAccountService) CreateFinancialAccount(ctx context.Context, userID string, req dto.CreateFinancialAccountRequest) (*domain.FinancialAccount, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationErrorf("account name is required")
	}
	if !req.Type.IsValid() {
		return nil, validationErrorf("invalid account type %q", req.Type)
	}
	privacy := req.PrivacyLevel
	if privacy == "" {
		privacy = domain.PrivacyShared
	}
	if !privacy.IsValid() {
		return nil, validationErrorf("invalid privacy level %q", privacy)
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = domain.DefaultAccountCurrency
	}

	account := domain.FinancialAccount{
		AccountID:   uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Type:        req.Type,
		Balance:     req.Balance,
		Currency:    currency,
		Privacy:     privacy,
		AuditFields: domain.NewAuditFields(userID, time.Now()),
	}
	if err := s.accountRepo.SaveFinancialAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save financial account", slog.String("user_id", userID))
		return nil, err
	}
	return &account, nil
}

func (s *financialAccountService) ListFinancialAccounts(ctx context.Context, userID string) ([]domain.FinancialAccount, error) {
	accounts, err := s.accountRepo.ListFinancialAccountsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list financial accounts", slog.String("user_id", userID))
		return nil, err
	}
	return accounts, nil
}
