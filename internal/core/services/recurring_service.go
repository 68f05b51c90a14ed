package services

import (
	"context"
	"errors"
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

type recurringService struct {
	BaseService
	recurringRepo portsrepo.RecurringRepositoryFacade
	groupRepo     portsrepo.GroupRepositoryFacade
	categoryRepo  portsrepo.CategoryReader
	now           func() time.Time
}

// RecurringServiceOption configures a recurring service.
type RecurringServiceOption func(*recurringService)

// WithRecurringClock overrides the clock used by user-triggered operations.
func WithRecurringClock(now func() time.Time) RecurringServiceOption {
	return func(s *recurringService) {
		s.now = now
	}
}

// NewRecurringService creates a new recurring-template service.
func NewRecurringService(
	recurringRepo portsrepo.RecurringRepositoryFacade,
	groupRepo portsrepo.GroupRepositoryFacade,
	categoryRepo portsrepo.CategoryReader,
	authorizer portssvc.GroupAuthorizerSvc,
	opts ...RecurringServiceOption,
) portssvc.RecurringSvcFacade {
	s := &recurringService{
		BaseService:   BaseService{GroupAuthorizer: authorizer},
		recurringRepo: recurringRepo,
		groupRepo:     groupRepo,
		categoryRepo:  categoryRepo,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

func (s *recurringService) CreateTemplate(ctx context.Context, groupID, requestingUserID string, req dto.CreateRecurringTemplateRequest) (*domain.RecurringTemplate, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := s.now()
	tmpl := domain.RecurringTemplate{
		TemplateID:  uuid.NewString(),
		GroupID:     groupID,
		Name:        strings.TrimSpace(req.Name),
		Amount:      req.Amount,
		DayOfMonth:  req.DayOfMonth,
		PayerID:     req.PayerID,
		CategoryID:  req.CategoryID,
		Frequency:   domain.FrequencyMonthly,
		IsActive:    true,
		NextRun:     finance.FirstRun(now, req.DayOfMonth),
		SplitPolicy: domain.EqualSplit(),
		AuditFields: domain.NewAuditFields(requestingUserID, now),
	}
	if req.SplitPolicy != nil {
		tmpl.SplitPolicy = *req.SplitPolicy
	}
	if err := s.validateTemplate(ctx, tmpl); err != nil {
		return nil, err
	}

	audit := newAuditLog(groupID, domain.EntityRecurringTemplate, tmpl.TemplateID, domain.AuditCreate, nil, tmpl, requestingUserID, now)
	if err := s.recurringRepo.SaveTemplate(ctx, tmpl, audit); err != nil {
		s.LogError(ctx, err, "Failed to save recurring template", slog.String("group_id", groupID))
		return nil, err
	}

	s.LogInfo(ctx, "Recurring template created",
		slog.String("template_id", tmpl.TemplateID),
		slog.Time("next_run", tmpl.NextRun))
	return &tmpl, nil
}

func (s *recurringService) ListTemplates(ctx context.Context, groupID, requestingUserID string) ([]domain.RecurringTemplate, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	templates, err := s.recurringRepo.ListTemplates(ctx, groupID, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurring templates", slog.String("group_id", groupID))
		return nil, err
	}
	return templates, nil
}

// UpdateTemplate edits a template. A new day of month reschedules the next
// run, but never to an earlier date than the current one.
func (s *recurringService) UpdateTemplate(ctx context.Context, groupID, templateID, requestingUserID string, req dto.UpdateRecurringTemplateRequest) (*domain.RecurringTemplate, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	before, err := s.recurringRepo.FindTemplateByID(ctx, groupID, templateID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	after := *before
	if req.Name != nil {
		after.Name = strings.TrimSpace(*req.Name)
	}
	if req.Amount != nil {
		after.Amount = *req.Amount
	}
	if req.PayerID != nil {
		after.PayerID = *req.PayerID
	}
	if req.CategoryID != nil {
		after.CategoryID = *req.CategoryID
	}
	if req.SplitPolicy != nil {
		after.SplitPolicy = *req.SplitPolicy
	}
	if req.IsActive != nil {
		after.IsActive = *req.IsActive
	}
	if req.DayOfMonth != nil && *req.DayOfMonth != before.DayOfMonth {
		after.DayOfMonth = *req.DayOfMonth
		if rescheduled := finance.FirstRun(now, after.DayOfMonth); rescheduled.After(before.NextRun) {
			after.NextRun = rescheduled
		}
	}
	after.LastUpdatedAt = now
	after.LastUpdatedBy = requestingUserID

	if err := s.validateTemplate(ctx, after); err != nil {
		return nil, err
	}

	audit := newAuditLog(groupID, domain.EntityRecurringTemplate, templateID, domain.AuditUpdate, before, after, requestingUserID, now)
	if err := s.recurringRepo.UpdateTemplate(ctx, after, audit); err != nil {
		s.LogError(ctx, err, "Failed to update recurring template", slog.String("template_id", templateID))
		return nil, err
	}
	return &after, nil
}

func (s *recurringService) DeactivateTemplate(ctx context.Context, groupID, templateID, requestingUserID string) error {
	inactive := false
	_, err := s.UpdateTemplate(ctx, groupID, templateID, requestingUserID, dto.UpdateRecurringTemplateRequest{IsActive: &inactive})
	return err
}

// ConfirmRecurringPayment records the template's payment as a COMPLETED
// expense split by its stored policy and moves nextRun one period forward.
func (s *recurringService) ConfirmRecurringPayment(ctx context.Context, groupID, templateID, requestingUserID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	tmpl, err := s.recurringRepo.FindTemplateByID(ctx, groupID, templateID)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, validationErrorf("recurring template %s is inactive", templateID)
	}

	members, err := s.groupRepo.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	participants := domain.MemberIDs(members)
	if err := finance.ValidatePolicy(tmpl.SplitPolicy, participants); err != nil {
		return nil, err
	}

	now := s.now()
	templateRef := tmpl.TemplateID
	payment := domain.Transaction{
		TransactionID: uuid.NewString(),
		GroupID:       groupID,
		Amount:        tmpl.Amount,
		Description:   tmpl.Name,
		Date:          now,
		PayerID:       tmpl.PayerID,
		CategoryID:    tmpl.CategoryID,
		TemplateID:    &templateRef,
		Type:          domain.TransactionExpense,
		Status:        domain.StatusCompleted,
		Splits:        finance.CalculateSplits(tmpl.Amount, tmpl.SplitPolicy, participants),
		AuditFields:   domain.NewAuditFields(requestingUserID, now),
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}

	nextRun := finance.NextRun(tmpl.NextRun, tmpl.DayOfMonth)
	advanced := *tmpl
	advanced.NextRun = nextRun
	audit := newAuditLog(groupID, domain.EntityRecurringTemplate, templateID, domain.AuditUpdate, tmpl, advanced, requestingUserID, now)

	if err := s.recurringRepo.RecordTemplatePayment(ctx, *tmpl, payment, nextRun, audit); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to record recurring payment", slog.String("template_id", templateID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Recurring payment recorded",
		slog.String("template_id", templateID),
		slog.String("transaction_id", payment.TransactionID),
		slog.Time("next_run", nextRun))
	return &payment, nil
}

// ProcessDueTemplates raises a PENDING expense and an alert for each due
// template of the group. Templates already handled by a concurrent run are
// skipped; a failure on one template does not stop the others.
func (s *recurringService) ProcessDueTemplates(ctx context.Context, groupID string, now time.Time) (int, error) {
	templates, err := s.recurringRepo.ListDueTemplates(ctx, groupID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due templates", slog.String("group_id", groupID))
		return 0, err
	}

	created := 0
	var errs []error
	for _, tmpl := range templates {
		if !tmpl.IsDue(now) {
			continue
		}
		templateRef := tmpl.TemplateID
		pending := domain.Transaction{
			TransactionID: uuid.NewString(),
			GroupID:       groupID,
			Amount:        tmpl.Amount,
			Description:   tmpl.PendingDescription(),
			Date:          now,
			PayerID:       tmpl.PayerID,
			CategoryID:    tmpl.CategoryID,
			TemplateID:    &templateRef,
			Type:          domain.TransactionExpense,
			Status:        domain.StatusPending,
			AuditFields:   domain.NewAuditFields(domain.SystemActor, now),
		}
		alert := domain.Alert{
			AlertID:   uuid.NewString(),
			GroupID:   groupID,
			Title:     domain.RecurringDueAlertTitle,
			Message:   domain.RecurringDueAlertMessage(tmpl.Name),
			CreatedAt: now,
		}

		ok, err := s.recurringRepo.MaterializeDueTemplate(ctx, tmpl, pending, alert, finance.NextRun(tmpl.NextRun, tmpl.DayOfMonth))
		if err != nil {
			s.LogError(ctx, err, "Failed to materialize due template",
				slog.String("group_id", groupID),
				slog.String("template_id", tmpl.TemplateID))
			errs = append(errs, err)
			continue
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		s.LogInfo(ctx, "Pending recurring payments created",
			slog.String("group_id", groupID),
			slog.Int("count", created))
	}
	return created, errors.Join(errs...)
}

func (s *recurringService) RunDueTemplates(ctx context.Context, groupID, requestingUserID string, now time.Time) (int, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, groupID, domain.RoleAdmin); err != nil {
		return 0, err
	}
	return s.ProcessDueTemplates(ctx, groupID, now)
}

func (s *recurringService) ListGroupsWithDueTemplates(ctx context.Context, now time.Time) ([]string, error) {
	groupIDs, err := s.recurringRepo.ListGroupIDsWithDueTemplates(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to list groups with due templates")
		return nil, err
	}
	return groupIDs, nil
}

// validateTemplate checks the template fields, and that its payer, category
// and split policy fit the group.
func (s *recurringService) validateTemplate(ctx context.Context, tmpl domain.RecurringTemplate) error {
	if tmpl.Name == "" {
		return validationErrorf("template name is required")
	}
	if tmpl.Amount <= 0 {
		return validationErrorf("amount must be positive")
	}
	if tmpl.DayOfMonth < 1 || tmpl.DayOfMonth > 31 {
		return validationErrorf("day of month must be between 1 and 31")
	}

	members, err := s.groupRepo.ListGroupMembers(ctx, tmpl.GroupID)
	if err != nil {
		return err
	}
	participants := domain.MemberIDs(members)
	payerFound := false
	for _, id := range participants {
		if id == tmpl.PayerID {
			payerFound = true
			break
		}
	}
	if !payerFound {
		return validationErrorf("payer %s is not a member of the group", tmpl.PayerID)
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, tmpl.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return validationErrorf("category %s does not exist", tmpl.CategoryID)
		}
		return err
	}
	if !category.IsVisibleTo(tmpl.GroupID) {
		return validationErrorf("category %s does not belong to the group", tmpl.CategoryID)
	}

	return finance.ValidatePolicy(tmpl.SplitPolicy, participants)
}
