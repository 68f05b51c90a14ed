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

type RecurringServiceTestSuite struct {
	suite.Suite
	mockRecurringRepo *MockRecurringRepository
	mockGroupRepo     *MockGroupRepository
	mockCategoryRepo  *MockCategoryRepository
	service           portssvc.RecurringSvcFacade
	now               time.Time
	groupID           string
	members           []domain.GroupMember
}

func (suite *RecurringServiceTestSuite) SetupTest() {
	suite.mockRecurringRepo = new(MockRecurringRepository)
	suite.mockGroupRepo = new(MockGroupRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.now = time.Date(2024, 1, 20, 6, 0, 0, 0, time.UTC)
	suite.groupID = "group-1"
	suite.members = []domain.GroupMember{
		{UserID: "ana", GroupID: suite.groupID, Role: domain.RoleOwner},
		{UserID: "luis", GroupID: suite.groupID, Role: domain.RoleMember},
	}

	suite.service = services.NewRecurringService(
		suite.mockRecurringRepo,
		suite.mockGroupRepo,
		suite.mockCategoryRepo,
		services.NewGroupAuthorizer(suite.mockGroupRepo),
		services.WithRecurringClock(func() time.Time { return suite.now }),
	)
}

func TestRecurringServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}

func (suite *RecurringServiceTestSuite) expectGroupContext() {
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	suite.mockGroupRepo.On("ListGroupMembers", mock.Anything, suite.groupID).Return(suite.members, nil)
	groupID := suite.groupID
	suite.mockCategoryRepo.On("FindCategoryByID", mock.Anything, "cat-rent").
		Return(&domain.Category{CategoryID: "cat-rent", GroupID: &groupID, Name: "Arriendo"}, nil)
}

func (suite *RecurringServiceTestSuite) template(nextRun time.Time) domain.RecurringTemplate {
	return domain.RecurringTemplate{
		TemplateID:  "tmpl-1",
		GroupID:     suite.groupID,
		Name:        "Arriendo",
		Amount:      1500001,
		DayOfMonth:  31,
		PayerID:     "ana",
		CategoryID:  "cat-rent",
		Frequency:   domain.FrequencyMonthly,
		IsActive:    true,
		NextRun:     nextRun,
		SplitPolicy: domain.EqualSplit(),
	}
}

// --- CreateTemplate ---

func (suite *RecurringServiceTestSuite) TestCreateTemplate_PastDaySchedulesNextMonth() {
	ctx := context.Background()
	suite.expectGroupContext()
	suite.mockRecurringRepo.On("SaveTemplate", ctx, mock.AnythingOfType("domain.RecurringTemplate"), mock.MatchedBy(func(l domain.AuditLog) bool {
		return l.Action == domain.AuditCreate && l.EntityType == domain.EntityRecurringTemplate
	})).Return(nil).Once()

	tmpl, err := suite.service.CreateTemplate(ctx, suite.groupID, "ana", dto.CreateRecurringTemplateRequest{
		Name:       "Internet",
		Amount:     90000,
		DayOfMonth: 5,
		PayerID:    "ana",
		CategoryID: "cat-rent",
	})
	suite.Require().NoError(err)
	suite.Equal(time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), tmpl.NextRun)
	suite.Equal(domain.SplitAll, tmpl.SplitPolicy.Kind)
	suite.True(tmpl.IsActive)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestCreateTemplate_TodayStaysThisMonth() {
	ctx := context.Background()
	suite.expectGroupContext()
	suite.mockRecurringRepo.On("SaveTemplate", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	tmpl, err := suite.service.CreateTemplate(ctx, suite.groupID, "ana", dto.CreateRecurringTemplateRequest{
		Name: "Gym", Amount: 50000, DayOfMonth: 20, PayerID: "luis", CategoryID: "cat-rent",
	})
	suite.Require().NoError(err)
	suite.Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), tmpl.NextRun)
}

func (suite *RecurringServiceTestSuite) TestCreateTemplate_PayerNotMember() {
	ctx := context.Background()
	suite.expectGroupContext()

	_, err := suite.service.CreateTemplate(ctx, suite.groupID, "ana", dto.CreateRecurringTemplateRequest{
		Name: "Gym", Amount: 50000, DayOfMonth: 20, PayerID: "stranger", CategoryID: "cat-rent",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SaveTemplate", mock.Anything, mock.Anything, mock.Anything)
}

// --- UpdateTemplate ---

func (suite *RecurringServiceTestSuite) TestUpdateTemplate_DayChangeOnlyMovesForward() {
	ctx := context.Background()
	suite.expectGroupContext()
	current := suite.template(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.mockRecurringRepo.On("FindTemplateByID", ctx, suite.groupID, "tmpl-1").Return(&current, nil).Once()
	suite.mockRecurringRepo.On("UpdateTemplate", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	day := 25
	updated, err := suite.service.UpdateTemplate(ctx, suite.groupID, "tmpl-1", "ana", dto.UpdateRecurringTemplateRequest{DayOfMonth: &day})
	suite.Require().NoError(err)
	suite.Equal(25, updated.DayOfMonth)
	// Jan 25 would be earlier than the pending Jan 31 run.
	suite.Equal(current.NextRun, updated.NextRun)
}

func (suite *RecurringServiceTestSuite) TestDeactivateTemplate() {
	ctx := context.Background()
	suite.expectGroupContext()
	current := suite.template(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.mockRecurringRepo.On("FindTemplateByID", ctx, suite.groupID, "tmpl-1").Return(&current, nil).Once()
	suite.mockRecurringRepo.On("UpdateTemplate", ctx, mock.MatchedBy(func(t domain.RecurringTemplate) bool {
		return !t.IsActive
	}), mock.Anything).Return(nil).Once()

	suite.NoError(suite.service.DeactivateTemplate(ctx, suite.groupID, "tmpl-1", "ana"))
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

// --- ConfirmRecurringPayment ---

func (suite *RecurringServiceTestSuite) TestConfirmRecurringPayment_CompletesAndAdvances() {
	ctx := context.Background()
	suite.expectGroupContext()
	tmpl := suite.template(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.mockRecurringRepo.On("FindTemplateByID", ctx, suite.groupID, "tmpl-1").Return(&tmpl, nil).Once()
	suite.mockRecurringRepo.On("RecordTemplatePayment", ctx, tmpl, mock.AnythingOfType("domain.Transaction"),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), mock.Anything).Return(nil).Once()

	payment, err := suite.service.ConfirmRecurringPayment(ctx, suite.groupID, "tmpl-1", "ana")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, payment.Status)
	suite.Equal(domain.TransactionExpense, payment.Type)
	suite.Equal(tmpl.Amount, payment.SplitTotal())
	suite.Require().NotNil(payment.TemplateID)
	suite.Equal("tmpl-1", *payment.TemplateID)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestConfirmRecurringPayment_ConcurrentConfirmConflicts() {
	ctx := context.Background()
	suite.expectGroupContext()
	tmpl := suite.template(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.mockRecurringRepo.On("FindTemplateByID", ctx, suite.groupID, "tmpl-1").Return(&tmpl, nil).Once()
	suite.mockRecurringRepo.On("RecordTemplatePayment", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.NewAppError(409, "template already advanced", apperrors.ErrConflict)).Once()

	_, err := suite.service.ConfirmRecurringPayment(ctx, suite.groupID, "tmpl-1", "ana")
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *RecurringServiceTestSuite) TestConfirmRecurringPayment_Inactive() {
	ctx := context.Background()
	expectMembership(suite.mockGroupRepo, suite.groupID, "ana", domain.RoleOwner)
	tmpl := suite.template(suite.now)
	tmpl.IsActive = false
	suite.mockRecurringRepo.On("FindTemplateByID", ctx, suite.groupID, "tmpl-1").Return(&tmpl, nil).Once()

	_, err := suite.service.ConfirmRecurringPayment(ctx, suite.groupID, "tmpl-1", "ana")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- ProcessDueTemplates ---

func (suite *RecurringServiceTestSuite) TestProcessDueTemplates_CreatesPendingAndAlert() {
	ctx := context.Background()
	due := suite.template(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	due.DayOfMonth = 20
	suite.mockRecurringRepo.On("ListDueTemplates", ctx, suite.groupID, suite.now).Return([]domain.RecurringTemplate{due}, nil).Once()
	suite.mockRecurringRepo.On("MaterializeDueTemplate", ctx, due,
		mock.AnythingOfType("domain.Transaction"),
		mock.AnythingOfType("domain.Alert"),
		time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
	).Return(true, nil).Once().Run(func(args mock.Arguments) {
		pending := args.Get(2).(domain.Transaction)
		alert := args.Get(3).(domain.Alert)
		suite.Equal(domain.StatusPending, pending.Status)
		suite.Equal("Recurring: Arriendo", pending.Description)
		suite.Equal(domain.SystemActor, pending.CreatedBy)
		suite.Empty(pending.Splits)
		suite.Equal(domain.RecurringDueAlertTitle, alert.Title)
		suite.Equal("Payment for Arriendo is due. Please confirm calculated amount.", alert.Message)
		suite.False(alert.IsRead)
	})

	created, err := suite.service.ProcessDueTemplates(ctx, suite.groupID, suite.now)
	suite.Require().NoError(err)
	suite.Equal(1, created)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestProcessDueTemplates_SkipsAlreadyAdvanced() {
	ctx := context.Background()
	a := suite.template(suite.now.Add(-time.Hour))
	b := suite.template(suite.now.Add(-2 * time.Hour))
	b.TemplateID = "tmpl-2"
	suite.mockRecurringRepo.On("ListDueTemplates", ctx, suite.groupID, suite.now).Return([]domain.RecurringTemplate{a, b}, nil).Once()
	suite.mockRecurringRepo.On("MaterializeDueTemplate", ctx, a, mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
	suite.mockRecurringRepo.On("MaterializeDueTemplate", ctx, b, mock.Anything, mock.Anything, mock.Anything).Return(true, nil).Once()

	created, err := suite.service.ProcessDueTemplates(ctx, suite.groupID, suite.now)
	suite.Require().NoError(err)
	suite.Equal(1, created)
}

func (suite *RecurringServiceTestSuite) TestProcessDueTemplates_ContinuesAfterFailure() {
	ctx := context.Background()
	a := suite.template(suite.now.Add(-time.Hour))
	b := suite.template(suite.now.Add(-time.Hour))
	b.TemplateID = "tmpl-2"
	future := suite.template(suite.now.Add(time.Hour))
	future.TemplateID = "tmpl-future"
	suite.mockRecurringRepo.On("ListDueTemplates", ctx, suite.groupID, suite.now).Return([]domain.RecurringTemplate{a, b, future}, nil).Once()
	suite.mockRecurringRepo.On("MaterializeDueTemplate", ctx, a, mock.Anything, mock.Anything, mock.Anything).Return(false, assert.AnError).Once()
	suite.mockRecurringRepo.On("MaterializeDueTemplate", ctx, b, mock.Anything, mock.Anything, mock.Anything).Return(true, nil).Once()

	created, err := suite.service.ProcessDueTemplates(ctx, suite.groupID, suite.now)
	suite.ErrorIs(err, assert.AnError)
	suite.Equal(1, created)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "MaterializeDueTemplate", mock.Anything, future, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestRunDueTemplates_RequiresAdmin() {
	ctx := context.Background()
	expectMembership(suite.mockGroupRepo, suite.groupID, "luis", domain.RoleMember)

	_, err := suite.service.RunDueTemplates(ctx, suite.groupID, "luis", suite.now)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "ListDueTemplates", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestListGroupsWithDueTemplates() {
	ctx := context.Background()
	suite.mockRecurringRepo.On("ListGroupIDsWithDueTemplates", ctx, suite.now).Return([]string{"g1", "g2"}, nil).Once()

	ids, err := suite.service.ListGroupsWithDueTemplates(ctx, suite.now)
	suite.Require().NoError(err)
	suite.Equal([]string{"g1", "g2"}, ids)
}
