package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportdesk/hub/internal/alerting"
	"github.com/supportdesk/hub/internal/models"
)

type mockFeedbackRepo struct {
	entries   []models.FeedbackEntry
	upsertErr error
	storedID  string
}

func (m *mockFeedbackRepo) Upsert(_ context.Context, entry *models.FeedbackEntry) (*models.FeedbackEntry, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}

	stored := *entry
	if m.storedID != "" {
		// Resubmission for an existing pair keeps the original id.
		stored.ID = m.storedID
	}

	return &stored, nil
}

func (m *mockFeedbackRepo) List(_ context.Context) ([]models.FeedbackEntry, error) {
	return m.entries, nil
}

type capturingAlertRaiser struct {
	alerts []models.Alert
	kinds  []string
	err    error
}

func (c *capturingAlertRaiser) Raise(_ context.Context, alert models.Alert, kind string) error {
	if c.err != nil {
		return c.err
	}

	c.alerts = append(c.alerts, alert)
	c.kinds = append(c.kinds, kind)

	return nil
}

func feedbackEntries(correct, incorrect int) []models.FeedbackEntry {
	entries := make([]models.FeedbackEntry, 0, correct+incorrect)
	for i := 0; i < correct; i++ {
		entries = append(entries, models.FeedbackEntry{Correct: true})
	}

	for i := 0; i < incorrect; i++ {
		entries = append(entries, models.FeedbackEntry{Correct: false})
	}

	return entries
}

func submitRequest(correct bool) *models.SubmitFeedbackRequest {
	return &models.SubmitFeedbackRequest{
		ArticleID: "art_1",
		Correct:   &correct,
	}
}

func TestFeedbackService_SubmitFeedback_ReturnsRunningAccuracy(t *testing.T) {
	repo := &mockFeedbackRepo{entries: feedbackEntries(3, 1)}
	svc := NewFeedbackService(repo, &capturingAlertRaiser{}, alerting.DefaultThresholds())

	result, err := svc.SubmitFeedback(context.Background(), submitRequest(true))
	require.NoError(t, err)

	assert.Equal(t, 75.0, result.AccuracyPercent)
	assert.Equal(t, "art_1", result.Entry.ArticleID)
	assert.True(t, result.Entry.Correct)
}

func TestFeedbackService_SubmitFeedback_LowAccuracyRaisesAlert(t *testing.T) {
	repo := &mockFeedbackRepo{entries: feedbackEntries(1, 3)}
	raiser := &capturingAlertRaiser{}
	svc := NewFeedbackService(repo, raiser, alerting.DefaultThresholds())

	_, err := svc.SubmitFeedback(context.Background(), submitRequest(false))
	require.NoError(t, err)

	require.Len(t, raiser.alerts, 1)
	assert.Equal(t, []string{"accuracy"}, raiser.kinds)
	assert.Contains(t, raiser.alerts[0].Message, "25.00%")
}

func TestFeedbackService_SubmitFeedback_HealthyAccuracyRaisesNothing(t *testing.T) {
	repo := &mockFeedbackRepo{entries: feedbackEntries(4, 1)}
	raiser := &capturingAlertRaiser{}
	svc := NewFeedbackService(repo, raiser, alerting.DefaultThresholds())

	_, err := svc.SubmitFeedback(context.Background(), submitRequest(true))
	require.NoError(t, err)

	assert.Empty(t, raiser.alerts)
}

func TestFeedbackService_SubmitFeedback_AlertFailureDoesNotFailSubmission(t *testing.T) {
	repo := &mockFeedbackRepo{entries: feedbackEntries(0, 2)}
	raiser := &capturingAlertRaiser{err: errors.New("queue down")}
	svc := NewFeedbackService(repo, raiser, alerting.DefaultThresholds())

	result, err := svc.SubmitFeedback(context.Background(), submitRequest(false))
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.AccuracyPercent)
}

func TestFeedbackService_SubmitFeedback_ResubmissionKeepsStoredID(t *testing.T) {
	repo := &mockFeedbackRepo{entries: feedbackEntries(1, 0), storedID: "fb_original"}
	svc := NewFeedbackService(repo, &capturingAlertRaiser{}, alerting.DefaultThresholds())

	result, err := svc.SubmitFeedback(context.Background(), submitRequest(true))
	require.NoError(t, err)

	assert.Equal(t, "fb_original", result.Entry.ID)
}

func TestFeedbackService_SubmitFeedback_UpsertErrorPropagates(t *testing.T) {
	repo := &mockFeedbackRepo{upsertErr: errors.New("db down")}
	svc := NewFeedbackService(repo, &capturingAlertRaiser{}, alerting.DefaultThresholds())

	_, err := svc.SubmitFeedback(context.Background(), submitRequest(true))
	require.Error(t, err)
}
