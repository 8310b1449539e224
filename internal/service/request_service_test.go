package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"celebrisaludos/internal/events"
	"celebrisaludos/internal/models"
)

func strPtr(s string) *string { return &s }

func fanInput(userID string) CreateRequestInput {
	return CreateRequestInput{
		UserID:         userID,
		UserName:       "Ana",
		PackageID:      "pkg_standard_02",
		RecipientName:  "Luis",
		Occasion:       "cumpleaños",
		MessageDetails: "Dile que lo queremos mucho",
	}
}

func TestCreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc, pub := newRequestService(t)

	before := time.Now().UTC().Truncate(time.Microsecond)
	created, err := svc.Create(ctx, fanInput("user_1"))
	after := time.Now().UTC()
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, models.RequestStatusPendingPayment, got.Status)
	assert.Regexp(t, `^req_`, got.ID)
	assert.Equal(t, "Saludo Estándar", got.PackageName)
	assert.Equal(t, 99.99, got.PackagePrice)
	assert.False(t, got.RequestedAt.Before(before))
	assert.False(t, got.RequestedAt.After(after))
	assert.Nil(t, got.VideoURL)
	assert.Nil(t, got.AdminNotes)

	assert.Equal(t, []events.Type{events.RequestCreated}, pub.types())
}

func TestCreateUnknownPackage(t *testing.T) {
	svc, pub := newRequestService(t)

	input := fanInput("user_1")
	input.PackageID = "pkg_missing"
	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, ErrUnknownPackage)
	assert.Empty(t, pub.types())
}

func TestGetMissing(t *testing.T) {
	svc, _ := newRequestService(t)

	_, err := svc.GetByID(context.Background(), "req_missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestConfirmPaymentFromAnyStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRequestService(t)

	for _, status := range models.RequestStatuses {
		t.Run(string(status), func(t *testing.T) {
			req, err := svc.Create(ctx, fanInput("user_1"))
			require.NoError(t, err)
			_, err = svc.UpdateStatus(ctx, req.ID, UpdateStatusInput{Status: status, VideoURL: strPtr("https://x/v.mp4")})
			require.NoError(t, err)

			paid, err := svc.ConfirmPayment(ctx, req.ID)
			require.NoError(t, err)
			assert.Equal(t, models.RequestStatusPendingApproval, paid.Status)

			stored, err := svc.GetByID(ctx, req.ID)
			require.NoError(t, err)
			assert.Equal(t, models.RequestStatusPendingApproval, stored.Status)
		})
	}
}

func TestConfirmPaymentMissing(t *testing.T) {
	svc, _ := newRequestService(t)

	_, err := svc.ConfirmPayment(context.Background(), "req_missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestLeavingCompletedClearsDelivery(t *testing.T) {
	ctx := context.Background()
	svc, pub := newRequestService(t)

	req, err := svc.Create(ctx, fanInput("user_1"))
	require.NoError(t, err)

	completed, err := svc.UpdateStatus(ctx, req.ID, UpdateStatusInput{
		Status:                models.RequestStatusCompleted,
		VideoURL:              strPtr("https://x/v.mp4"),
		CelebrityMessageToFan: strPtr("¡Gracias!"),
		AIImageConceptURL:     strPtr("https://img/concept.jpg"),
	})
	require.NoError(t, err)
	require.NotNil(t, completed.VideoURL)
	assert.Equal(t, "https://x/v.mp4", *completed.VideoURL)
	assert.Equal(t, "¡Gracias!", *completed.CelebrityMessageToFan)
	assert.Equal(t, "https://img/concept.jpg", *completed.AIImageConceptURL)

	rejected, err := svc.UpdateStatus(ctx, req.ID, UpdateStatusInput{Status: models.RequestStatusRejected})
	require.NoError(t, err)
	assert.Nil(t, rejected.VideoURL)
	assert.Nil(t, rejected.CelebrityMessageToFan)
	assert.Nil(t, rejected.AIImageConceptURL)

	stored, err := svc.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, stored.Status)
	assert.Nil(t, stored.VideoURL)
	assert.Nil(t, stored.CelebrityMessageToFan)
	assert.Nil(t, stored.AIImageConceptURL)

	assert.Equal(t, []events.Type{events.RequestCreated, events.StatusChanged, events.StatusChanged}, pub.types())
}

func TestNonCompletedIgnoresDeliveryFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRequestService(t)

	req, err := svc.Create(ctx, fanInput("user_1"))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, req.ID, UpdateStatusInput{
		Status:   models.RequestStatusRecording,
		VideoURL: strPtr("https://x/v.mp4"),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.VideoURL)
}

func TestCompletedKeepsUnsuppliedFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRequestService(t)

	req, err := svc.Create(ctx, fanInput("user_1"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, req.ID, UpdateStatusInput{
		Status:                models.RequestStatusCompleted,
		VideoURL:              strPtr("https://x/v.mp4"),
		CelebrityMessageToFan: strPtr("hola"),
	})
	require.NoError(t, err)

	again, err := svc.UpdateStatus(ctx, req.ID, UpdateStatusInput{
		Status:                models.RequestStatusCompleted,
		VideoURL:              strPtr(""),
		CelebrityMessageToFan: strPtr(""),
	})
	require.NoError(t, err)
	require.NotNil(t, again.VideoURL)
	assert.Equal(t, "https://x/v.mp4", *again.VideoURL)
	require.NotNil(t, again.CelebrityMessageToFan)
	assert.Equal(t, "", *again.CelebrityMessageToFan)
	assert.Nil(t, again.AIImageConceptURL)
}

func TestAdminNotesOverwriteOnlyWhenSupplied(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRequestService(t)

	req, err := svc.Create(ctx, fanInput("user_1"))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, req.ID, UpdateStatusInput{Status: models.RequestStatusApproved, AdminNotes: strPtr("looks fine")})
	require.NoError(t, err)
	assert.Equal(t, "looks fine", *updated.AdminNotes)

	updated, err = svc.UpdateStatus(ctx, req.ID, UpdateStatusInput{Status: models.RequestStatusRecording})
	require.NoError(t, err)
	assert.Equal(t, "looks fine", *updated.AdminNotes)

	updated, err = svc.UpdateStatus(ctx, req.ID, UpdateStatusInput{Status: models.RequestStatusRecording, AdminNotes: strPtr("")})
	require.NoError(t, err)
	require.NotNil(t, updated.AdminNotes)
	assert.Equal(t, "", *updated.AdminNotes)
}

func TestUpdateStatusAnyToAny(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRequestService(t)

	req, err := svc.Create(ctx, fanInput("user_1"))
	require.NoError(t, err)

	sequence := []models.RequestStatus{
		models.RequestStatusCompleted,
		models.RequestStatusPendingPayment,
		models.RequestStatusCancelled,
		models.RequestStatusApproved,
	}
	for _, status := range sequence {
		updated, err := svc.UpdateStatus(ctx, req.ID, UpdateStatusInput{Status: status})
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
		assert.Equal(t, req.RequestedAt, updated.RequestedAt)
		assert.Equal(t, req.PackageName, updated.PackageName)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRequestService(t)

	req, err := svc.Create(ctx, fanInput("user_1"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, req.ID, UpdateStatusInput{Status: "SHIPPED"})
	assert.Error(t, err)

	_, err = svc.UpdateStatus(ctx, "req_missing", UpdateStatusInput{Status: models.RequestStatusApproved})
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRequestService(t)

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	var mine []string
	for i := 0; i < 3; i++ {
		req, err := svc.Create(ctx, fanInput("user_1"))
		require.NoError(t, err)
		mine = append(mine, req.ID)

		_, err = svc.Create(ctx, fanInput("user_2"))
		require.NoError(t, err)
	}

	list, err := svc.ListByUser(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{mine[2], mine[1], mine[0]}, []string{list[0].ID, list[1].ID, list[2].ID})
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].RequestedAt.After(list[i].RequestedAt))
	}

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 6)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].RequestedAt.After(all[i].RequestedAt))
	}

	none, err := svc.ListByUser(ctx, "user_3")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListByStatusAndCounts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRequestService(t)

	var ids []string
	for i := 0; i < 3; i++ {
		req, err := svc.Create(ctx, fanInput("user_1"))
		require.NoError(t, err)
		ids = append(ids, req.ID)
	}
	_, err := svc.ConfirmPayment(ctx, ids[0])
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, ids[1], UpdateStatusInput{Status: models.RequestStatusCompleted})
	require.NoError(t, err)

	pending, err := svc.ListByStatus(ctx, models.RequestStatusPendingApproval)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ids[0], pending[0].ID)

	counts, err := svc.StatusCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, len(models.RequestStatuses)+1)

	byStatus := map[string]int{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, 3, byStatus[AllStatuses])
	assert.Equal(t, 1, byStatus["PENDING_PAYMENT"])
	assert.Equal(t, 1, byStatus["PENDING_APPROVAL"])
	assert.Equal(t, 1, byStatus["COMPLETED"])
	assert.Equal(t, 0, byStatus["REJECTED"])
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	svc, pub := newRequestService(t)
	pub.err = errors.New("stream down")

	req, err := svc.Create(ctx, fanInput("user_1"))
	require.NoError(t, err)

	paid, err := svc.ConfirmPayment(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPendingApproval, paid.Status)
	assert.Equal(t, []events.Type{events.RequestCreated, events.PaymentConfirmed}, pub.types())
}

func TestNilPublisher(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRequestService(t)
	svc.events = nil

	_, err := svc.Create(ctx, fanInput("user_1"))
	assert.NoError(t, err)
}
