package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/couple_finance_app/internal/apperrors"
	"github.com/SscSPs/couple_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/couple_finance_app/internal/core/ports/services"
	"github.com/SscSPs/couple_finance_app/internal/core/services"
	"github.com/SscSPs/couple_finance_app/internal/dto"
	"github.com/SscSPs/couple_finance_app/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) TestCreateUser_NormalizesEmail() {
	ctx := context.Background()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "ana@example.com" && u.Name == "Ana" && u.IsActive &&
			u.CreatedBy == u.UserID && utils.CheckPasswordHash("supersecret", u.PasswordHash)
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, dto.RegisterRequest{
		Email:    "  Ana@Example.com ",
		Name:     " Ana ",
		Password: "supersecret",
	})
	suite.Require().NoError(err)
	suite.Equal("ana@example.com", user.Email)
	suite.NotEmpty(user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_Duplicate() {
	ctx := context.Background()
	suite.mockUserRepo.On("SaveUser", ctx, mock.Anything).Return(apperrors.NewConflictError("email taken")).Once()

	_, err := suite.service.CreateUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "supersecret"})
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestCreateUser_ShortPassword() {
	_, err := suite.service.CreateUser(context.Background(), dto.RegisterRequest{Email: "a@b.co", Password: "short"})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser() {
	ctx := context.Background()
	hash, err := utils.HashPassword("supersecret")
	suite.Require().NoError(err)
	suite.mockUserRepo.On("FindUserByEmail", ctx, "ana@example.com").
		Return(&domain.User{UserID: "u-ana", PasswordHash: hash, IsActive: true}, nil)

	user, err := suite.service.AuthenticateUser(ctx, "ANA@example.com", "supersecret")
	suite.Require().NoError(err)
	suite.Equal("u-ana", user.UserID)

	_, err = suite.service.AuthenticateUser(ctx, "ana@example.com", "wrong-password")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmail() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(ctx, "nobody@example.com", "whatever1")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Deactivated() {
	ctx := context.Background()
	hash, err := utils.HashPassword("supersecret")
	suite.Require().NoError(err)
	suite.mockUserRepo.On("FindUserByEmail", ctx, "luis@example.com").
		Return(&domain.User{UserID: "u-luis", PasswordHash: hash, IsActive: false}, nil).Once()

	_, err = suite.service.AuthenticateUser(ctx, "luis@example.com", "supersecret")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}
