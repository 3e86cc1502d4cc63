package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/repositories"
	"restaurant_gateway/pkg/metrics"
)

func TestResolveResultConfirmsPending(t *testing.T) {
	repo := &fakePaymentRepo{payment: &models.Payment{ID: 7, Status: models.PaymentStatusPending}}
	svc := NewPaymentService(repo, nil)

	view := svc.ResolveResult(context.Background(), "42")
	require.NotNil(t, view.State)
	assert.Equal(t, models.PaymentPhaseConfirmed, view.State.Phase)
	assert.Equal(t, ViewPaymentSuccess, view.View)
	assert.Empty(t, view.Redirect)
	assert.Equal(t, 1, repo.confirms)
	assert.Equal(t, models.PaymentStatusSuccessful, view.Payment.Status)
}

func TestResolveResultTerminalFailure(t *testing.T) {
	repo := &fakePaymentRepo{payment: &models.Payment{ID: 7, Status: models.PaymentStatusCancelled}}
	svc := NewPaymentService(repo, nil)

	view := svc.ResolveResult(context.Background(), "42")
	assert.Equal(t, models.PaymentPhaseFailed, view.State.Phase)
	assert.Equal(t, "Status_Cancelled", view.State.Reason)
	assert.Equal(t, "/payment-failed?orderId=42&reason=Status_Cancelled", view.Redirect)
	assert.Zero(t, repo.confirms)
}

func TestResolveResultEdgeCases(t *testing.T) {
	t.Run("missing order id", func(t *testing.T) {
		svc := NewPaymentService(&fakePaymentRepo{}, nil)
		for _, raw := range []string{"", "abc", "0", "-3"} {
			assert.Equal(t, RouteHome, svc.ResolveResult(context.Background(), raw).Redirect, raw)
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		svc := NewPaymentService(&fakePaymentRepo{getErr: repositories.ErrUpstream}, nil)
		view := svc.ResolveResult(context.Background(), "42")
		assert.Equal(t, RouteMenu, view.Redirect)
		assert.Nil(t, view.State)
	})

	t.Run("already successful", func(t *testing.T) {
		repo := &fakePaymentRepo{payment: &models.Payment{Status: models.PaymentStatusSuccessful}}
		view := NewPaymentService(repo, nil).ResolveResult(context.Background(), "42")
		assert.Equal(t, models.PaymentPhaseConfirmed, view.State.Phase)
		assert.Zero(t, repo.confirms)
	})

	t.Run("confirm fails", func(t *testing.T) {
		repo := &fakePaymentRepo{payment: &models.Payment{Status: models.PaymentStatusPending}, confirmErr: repositories.ErrUpstream}
		view := NewPaymentService(repo, nil).ResolveResult(context.Background(), "42")
		assert.Equal(t, models.PaymentFailureConfirm, view.State.Reason)
		assert.Equal(t, "/payment-failed?orderId=42&reason=ConfirmFailed", view.Redirect)
	})

	t.Run("unknown status", func(t *testing.T) {
		repo := &fakePaymentRepo{payment: &models.Payment{Status: "Refunded"}}
		view := NewPaymentService(repo, nil).ResolveResult(context.Background(), "42")
		assert.Equal(t, "Status_Refunded", view.State.Reason)
	})
}

func TestResolveResultRecordsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	repo := &fakePaymentRepo{payment: &models.Payment{Status: models.PaymentStatusFailed}}
	svc := NewPaymentService(repo, metrics.New(reg))

	svc.ResolveResult(context.Background(), "42")

	count, err := testutil.GatherAndCount(reg, "gateway_payment_result_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPayWithCash(t *testing.T) {
	repo := &fakePaymentRepo{}
	svc := NewPaymentService(repo, nil)
	sess := newTestSession()

	_, err := svc.PayWithCash(context.Background(), sess)
	assert.ErrorIs(t, err, ErrNoPaymentIntent)

	svc.OpenModal(sess, models.OpenPaymentPayload{OrderID: 42, TotalAmount: 145000})
	res, err := svc.PayWithCash(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, MsgCashRequested, res.Message)
	assert.Equal(t, []int64{145000}, repo.cashAmounts, "amount comes from the modal, not a re-fetch")
	assert.Nil(t, sess.PaymentIntent())
}

func TestPayWithCashConflictKeepsModal(t *testing.T) {
	repo := &fakePaymentRepo{cashErr: fmt.Errorf("%w: status 409", repositories.ErrConflict)}
	svc := NewPaymentService(repo, nil)
	sess := newTestSession()
	svc.OpenModal(sess, models.OpenPaymentPayload{OrderID: 42, TotalAmount: 145000})

	_, err := svc.PayWithCash(context.Background(), sess)
	assert.ErrorIs(t, err, ErrPaymentExists)
	intent := sess.PaymentIntent()
	require.NotNil(t, intent)
	assert.Equal(t, models.PaymentMethodCash, intent.Method)
}

func TestPayWithGateway(t *testing.T) {
	repo := &fakePaymentRepo{}
	svc := NewPaymentService(repo, nil)
	sess := newTestSession()
	svc.OpenModal(sess, models.OpenPaymentPayload{OrderID: 42, TotalAmount: 145000})

	res, err := svc.PayWithGateway(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/checkout/abc", res.Redirect)
	assert.Nil(t, sess.PaymentIntent())

	repo.checkoutErr = repositories.ErrUpstream
	svc.OpenModal(sess, models.OpenPaymentPayload{OrderID: 43, TotalAmount: 1000})
	_, err = svc.PayWithGateway(context.Background(), sess)
	assert.ErrorIs(t, err, ErrPaymentGatewayFailed)
	assert.NotNil(t, sess.PaymentIntent(), "modal stays open after a failure")

	svc.CloseModal(sess)
	assert.Nil(t, sess.PaymentIntent())
}
