package service_test

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks AuditPublisher,Notifier,Metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	auditmodels "vouch/internal/audit/models"
	"vouch/internal/claim/service"
	"vouch/internal/claim/service/mocks"
	claimstore "vouch/internal/claim/store"
	vmodels "vouch/internal/verification/models"
	vstore "vouch/internal/verification/store"
	id "vouch/pkg/domain"
	"vouch/pkg/requestcontext"
)

// Covers the side-channel collaborators (metrics, notifications, audit)
// that the state-based suite ignores.
func TestDecisionSideEffects(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)
	audit := mocks.NewMockAuditPublisher(ctrl)

	svc := service.New(
		claimstore.NewInMemory(),
		vstore.NewInMemory(),
		service.NewShardedMutexTx(),
		service.WithNotifier(notifier),
		service.WithMetrics(metrics),
		service.WithAuditPublisher(audit),
	)

	candidate := id.NewUserID()
	verifier := id.NewUserID()
	candidateCtx := requestcontext.WithTime(
		requestcontext.WithActor(t.Context(), id.Actor{ID: candidate, Role: id.RoleCandidate}), testNow)
	verifierCtx := requestcontext.WithTime(
		requestcontext.WithActor(t.Context(), id.Actor{ID: verifier, Role: id.RoleVerifier}), testNow)

	metrics.EXPECT().ClaimCreated()
	audit.EXPECT().Publish(gomock.Any(), eventWithAction(auditmodels.ActionClaimCreated))
	c, err := svc.Create(candidateCtx, validFields())
	require.NoError(t, err)

	metrics.EXPECT().ClaimSubmitted()
	audit.EXPECT().Publish(gomock.Any(), eventWithAction(auditmodels.ActionClaimSubmitted))
	notifier.EXPECT().Notify(gomock.Any(), candidate, gomock.Any(), gomock.Any())
	_, err = svc.Submit(candidateCtx, c.ID)
	require.NoError(t, err)

	metrics.EXPECT().DecisionRecorded("approved")
	metrics.EXPECT().ObserveScore(gomock.Any())
	audit.EXPECT().Publish(gomock.Any(), eventWithAction(auditmodels.ActionClaimVerified))
	notifier.EXPECT().Notify(gomock.Any(), candidate, gomock.Any(), gomock.Any())
	_, _, err = svc.Decide(verifierCtx, c.ID, service.DecisionInput{
		Outcome: vmodels.OutcomeApproved,
		Notes:   "Confirmed with the supervisor.",
	})
	require.NoError(t, err)
}

// eventWithAction matches audit events by action name only.
func eventWithAction(action string) gomock.Matcher {
	return gomock.Cond(func(e auditmodels.Event) bool { return e.Action == action })
}
