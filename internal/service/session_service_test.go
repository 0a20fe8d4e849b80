package service

import (
	"context"
	"testing"
	"time"

	"account-ledger/internal/core/domain"
	"account-ledger/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type sessionTestDeps struct {
	svc         *SessionServiceImpl
	sessionRepo *mocks.MockSessionRepository
	idGen       *mocks.MockIDGenerator
	clock       *mocks.MockClock
	ctrl        *gomock.Controller
}

func setupSessionService(t *testing.T) *sessionTestDeps {
	ctrl := gomock.NewController(t)
	d := &sessionTestDeps{
		sessionRepo: mocks.NewMockSessionRepository(ctrl),
		idGen:       mocks.NewMockIDGenerator(ctrl),
		clock:       mocks.NewMockClock(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewSessionService(d.sessionRepo, d.idGen, d.clock, zerolog.Nop())
	return d
}

func TestSessionService_Issue(t *testing.T) {
	d := setupSessionService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.clock.EXPECT().Now().Return(testNow)
	d.idGen.EXPECT().SessionToken().Return("aaaabbbbccccddddeeeeffff00001111", nil)

	var stored *domain.Session
	d.sessionRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, s *domain.Session) error {
			stored = s
			return nil
		})

	session, err := d.svc.Issue(ctx, "111111")
	require.NoError(t, err)

	assert.Equal(t, "111111", session.AccountNumber)
	assert.Equal(t, testNow.Add(domain.SessionTTL), session.ExpiresAt)
	assert.Same(t, session, stored)
}

func TestSessionService_Resolve_RenewsExpiry(t *testing.T) {
	d := setupSessionService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	token := "aaaabbbbccccddddeeeeffff00001111"
	session := &domain.Session{
		Token:         token,
		AccountNumber: "111111",
		CreatedAt:     testNow.Add(-20 * time.Minute),
		ExpiresAt:     testNow.Add(10 * time.Minute),
	}

	d.sessionRepo.EXPECT().Get(ctx, token).Return(session, nil)
	d.clock.EXPECT().Now().Return(testNow)
	d.sessionRepo.EXPECT().ExtendExpiry(ctx, token, testNow.Add(domain.SessionTTL)).Return(nil)

	accountNumber, err := d.svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "111111", accountNumber)
}

func TestSessionService_Resolve_Expired(t *testing.T) {
	d := setupSessionService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	token := "aaaabbbbccccddddeeeeffff00001111"
	session := &domain.Session{
		Token:         token,
		AccountNumber: "111111",
		ExpiresAt:     testNow.Add(-time.Second),
	}

	d.sessionRepo.EXPECT().Get(ctx, token).Return(session, nil)
	d.clock.EXPECT().Now().Return(testNow)
	d.sessionRepo.EXPECT().Delete(ctx, token).Return(nil)

	_, err := d.svc.Resolve(ctx, token)
	assertAppError(t, err, "AUTH_003")
}

func TestSessionService_Resolve_ExpiryBoundary(t *testing.T) {
	d := setupSessionService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	token := "aaaabbbbccccddddeeeeffff00001111"
	// Expiring exactly now is expired.
	session := &domain.Session{Token: token, AccountNumber: "111111", ExpiresAt: testNow}

	d.sessionRepo.EXPECT().Get(ctx, token).Return(session, nil)
	d.clock.EXPECT().Now().Return(testNow)
	d.sessionRepo.EXPECT().Delete(ctx, token).Return(nil)

	_, err := d.svc.Resolve(ctx, token)
	assertAppError(t, err, "AUTH_003")
}

func TestSessionService_Resolve_UnknownToken(t *testing.T) {
	d := setupSessionService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.sessionRepo.EXPECT().Get(ctx, "nope").Return(nil, nil)

	_, err := d.svc.Resolve(ctx, "nope")
	assertAppError(t, err, "AUTH_003")
}

func TestSessionService_Revoke(t *testing.T) {
	d := setupSessionService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.sessionRepo.EXPECT().Delete(ctx, "tok").Return(nil)

	assert.NoError(t, d.svc.Revoke(ctx, "tok"))
}
