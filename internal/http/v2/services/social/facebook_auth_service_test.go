package social

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellojohn-social/internal/domain/account"
	"github.com/dropDatabas3/hellojohn-social/internal/domain/repository"
	"github.com/dropDatabas3/hellojohn-social/internal/http/v2/providers"
)

type MockUserLoader struct{ mock.Mock }

func (m *MockUserLoader) LoadUser(ctx context.Context, clientToken string) (*account.ProviderProfile, error) {
	args := m.Called(ctx, clientToken)
	p, _ := args.Get(0).(*account.ProviderProfile)
	return p, args.Error(1)
}

type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) LoadByEmail(ctx context.Context, email string) (*repository.Account, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*repository.Account)
	return a, args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, in repository.UpsertAccountInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

type MockTokenIssuer struct{ mock.Mock }

func (m *MockTokenIssuer) Issue(ctx context.Context, subject string, expirationInMs int64) (string, error) {
	args := m.Called(ctx, subject, expirationInMs)
	return args.String(0), args.Error(1)
}

type sut struct {
	svc      FacebookAuthService
	users    *MockUserLoader
	accounts *MockAccountRepository
	tokens   *MockTokenIssuer
}

func newSut() sut {
	s := sut{
		users:    &MockUserLoader{},
		accounts: &MockAccountRepository{},
		tokens:   &MockTokenIssuer{},
	}
	s.svc = NewServices(Deps{Facebook: s.users, Accounts: s.accounts, Issuer: s.tokens}).Facebook
	return s
}

func (s sut) assertExpectations(t *testing.T) {
	s.users.AssertExpectations(t)
	s.accounts.AssertExpectations(t)
	s.tokens.AssertExpectations(t)
}

var jane = &account.ProviderProfile{ProviderID: "f1", Name: "Jane", Email: "jane@x.com"}

func TestPerform_NewAccount(t *testing.T) {
	s := newSut()
	s.users.On("LoadUser", mock.Anything, "any_token").Return(jane, nil).Once()
	s.accounts.On("LoadByEmail", mock.Anything, "jane@x.com").Return(nil, repository.ErrNotFound).Once()
	s.accounts.On("Save", mock.Anything, repository.UpsertAccountInput{
		ProviderID: "f1",
		Email:      "jane@x.com",
		Name:       "Jane",
	}).Return("new-id", nil).Once()
	s.tokens.On("Issue", mock.Anything, "new-id", AccessTokenExpirationMs).Return("any_generated_token", nil).Once()

	cred, err := s.svc.Perform(context.Background(), "any_token")

	require.NoError(t, err)
	assert.Equal(t, &AccessCredential{Token: "any_generated_token"}, cred)
	s.assertExpectations(t)
}

func TestPerform_PreservesCustomName(t *testing.T) {
	s := newSut()
	s.users.On("LoadUser", mock.Anything, "any_token").Return(jane, nil)
	s.accounts.On("LoadByEmail", mock.Anything, "jane@x.com").
		Return(&repository.Account{ID: "a1", Name: "Custom Name", Email: "jane@x.com"}, nil)
	s.accounts.On("Save", mock.Anything, repository.UpsertAccountInput{
		ID:         "a1",
		ProviderID: "f1",
		Email:      "jane@x.com",
		Name:       "Custom Name",
	}).Return("a1", nil).Once()
	s.tokens.On("Issue", mock.Anything, "a1", AccessTokenExpirationMs).Return("tok", nil)

	_, err := s.svc.Perform(context.Background(), "any_token")

	require.NoError(t, err)
	s.assertExpectations(t)
}

func TestPerform_AdoptsProviderNameWhenLocalNameMissing(t *testing.T) {
	s := newSut()
	s.users.On("LoadUser", mock.Anything, "any_token").Return(jane, nil)
	s.accounts.On("LoadByEmail", mock.Anything, "jane@x.com").Return(&repository.Account{ID: "a1"}, nil)
	s.accounts.On("Save", mock.Anything, repository.UpsertAccountInput{
		ID:         "a1",
		ProviderID: "f1",
		Email:      "jane@x.com",
		Name:       "Jane",
	}).Return("a1", nil).Once()
	s.tokens.On("Issue", mock.Anything, "a1", AccessTokenExpirationMs).Return("tok", nil)

	_, err := s.svc.Perform(context.Background(), "any_token")

	require.NoError(t, err)
	s.assertExpectations(t)
}

func TestPerform_IssuesForIDReturnedBySave(t *testing.T) {
	s := newSut()
	s.users.On("LoadUser", mock.Anything, "any_token").Return(jane, nil)
	s.accounts.On("LoadByEmail", mock.Anything, "jane@x.com").Return(&repository.Account{ID: "a1"}, nil)
	// El store puede resolver el upsert a otro id (carrera por el mismo email).
	s.accounts.On("Save", mock.Anything, mock.Anything).Return("a2", nil)
	s.tokens.On("Issue", mock.Anything, "a2", AccessTokenExpirationMs).Return("tok", nil).Once()

	cred, err := s.svc.Perform(context.Background(), "any_token")

	require.NoError(t, err)
	assert.Equal(t, "tok", cred.Token)
	s.assertExpectations(t)
}

func TestPerform_AuthenticationFailureMakesNoFurtherCalls(t *testing.T) {
	for name, gatewayErr := range map[string]error{
		"debug token without user id": providers.ErrProfileUnavailable,
		"nil profile without error":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			s := newSut()
			s.users.On("LoadUser", mock.Anything, "any_token").Return(nil, gatewayErr).Once()

			cred, err := s.svc.Perform(context.Background(), "any_token")

			assert.Nil(t, cred)
			assert.Equal(t, ErrAuthentication, err)
			s.accounts.AssertNotCalled(t, "LoadByEmail", mock.Anything, mock.Anything)
			s.accounts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			s.tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
			s.assertExpectations(t)
		})
	}
}

func TestPerform_BlankTokenSkipsGateway(t *testing.T) {
	s := newSut()

	cred, err := s.svc.Perform(context.Background(), "  ")

	assert.Nil(t, cred)
	assert.Equal(t, ErrAuthentication, err)
	s.users.AssertNotCalled(t, "LoadUser", mock.Anything, mock.Anything)
}

func TestPerform_LoadFailure(t *testing.T) {
	s := newSut()
	boom := errors.New("connection reset")
	s.users.On("LoadUser", mock.Anything, "any_token").Return(jane, nil)
	s.accounts.On("LoadByEmail", mock.Anything, "jane@x.com").Return(nil, boom)

	cred, err := s.svc.Perform(context.Background(), "any_token")

	assert.Nil(t, cred)
	assert.ErrorIs(t, err, ErrAccountUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrAuthentication)
	s.accounts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	s.tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestPerform_SaveFailure(t *testing.T) {
	s := newSut()
	s.users.On("LoadUser", mock.Anything, "any_token").Return(jane, nil)
	s.accounts.On("LoadByEmail", mock.Anything, "jane@x.com").Return(nil, repository.ErrNotFound)
	s.accounts.On("Save", mock.Anything, mock.Anything).Return("", errors.New("unique violation"))

	_, err := s.svc.Perform(context.Background(), "any_token")

	assert.ErrorIs(t, err, ErrAccountUnavailable)
	s.tokens.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestPerform_IssueFailure(t *testing.T) {
	s := newSut()
	s.users.On("LoadUser", mock.Anything, "any_token").Return(jane, nil)
	s.accounts.On("LoadByEmail", mock.Anything, "jane@x.com").Return(nil, repository.ErrNotFound)
	s.accounts.On("Save", mock.Anything, mock.Anything).Return("new-id", nil)
	s.tokens.On("Issue", mock.Anything, "new-id", AccessTokenExpirationMs).Return("", errors.New("token_error"))

	cred, err := s.svc.Perform(context.Background(), "any_token")

	assert.Nil(t, cred)
	assert.ErrorIs(t, err, ErrTokenIssue)
}

func TestPerform_ReverifiesEveryCall(t *testing.T) {
	s := newSut()
	s.users.On("LoadUser", mock.Anything, "any_token").Return(jane, nil).Twice()
	s.accounts.On("LoadByEmail", mock.Anything, "jane@x.com").Return(nil, repository.ErrNotFound).Twice()
	s.accounts.On("Save", mock.Anything, mock.Anything).Return("id", nil).Twice()
	s.tokens.On("Issue", mock.Anything, "id", AccessTokenExpirationMs).Return("tok", nil).Twice()

	for i := 0; i < 2; i++ {
		_, err := s.svc.Perform(context.Background(), "any_token")
		require.NoError(t, err)
	}
	s.assertExpectations(t)
}

func TestAccessTokenExpiration(t *testing.T) {
	assert.EqualValues(t, 1_800_000, AccessTokenExpirationMs)
}
