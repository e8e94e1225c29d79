package review

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soletta-dev/postpilot/logger"
	"github.com/soletta-dev/postpilot/store"
)

func TestMain(m *testing.M) {
	logger.InitDiscard()
	m.Run()
}

func newTestSystem(t *testing.T) *System {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewSystem(fs)
}

func newClockedSystem(t *testing.T, at time.Time) (*System, *time.Time) {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	now := at
	return NewSystemWithClock(fs, func() time.Time { return now }), &now
}

func TestDraftLifecycleEndToEnd(t *testing.T) {
	start := time.Date(2026, 3, 14, 6, 30, 0, 0, time.UTC)
	sys, clock := newClockedSystem(t, start)

	draftID, err := sys.CreateDraft("headlines", NewPost("Tech headlines for today"), map[string]string{"content_type": "headlines"})
	require.NoError(t, err)
	assert.Equal(t, "headlines_20260314_063000", draftID)

	draft, err := sys.GetDraft(draftID)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, StatusDraft, draft.Status)

	ok, err := sys.SubmitForReview(draftID)
	require.NoError(t, err)
	assert.True(t, ok)

	preview, err := sys.PreviewContent(draftID)
	require.NoError(t, err)
	assert.Equal(t, StatusReviewing, preview.Status)
	assert.Equal(t, len([]rune("Tech headlines for today")), preview.CharCount)
	assert.True(t, preview.LengthOk)

	*clock = start.Add(time.Hour)
	reviewID, err := sys.ApproveContent(draftID, "looks good")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reviewID, "review_"+draftID+"_"))

	approved, err := sys.GetApprovedContent()
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, draftID, approved[0].DraftID)

	publishID, err := sys.MarkAsPublished(draftID, []string{"12345"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(publishID, "pub_"+draftID+"_"))

	draft, err = sys.GetDraft(draftID)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, draft.Status)

	approved, err = sys.GetApprovedContent()
	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestGetDraftUnknownIsNil(t *testing.T) {
	sys := newTestSystem(t)

	draft, err := sys.GetDraft("nope")
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestPendingReviewsOldestFirst(t *testing.T) {
	start := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)
	sys, clock := newClockedSystem(t, start)

	first, err := sys.CreateDraft("headlines", NewPost("first"), nil)
	require.NoError(t, err)
	*clock = start.Add(time.Minute)
	second, err := sys.CreateDraft("focus", NewPost("second"), nil)
	require.NoError(t, err)

	pending, err := sys.GetPendingReviews()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first, pending[0].DraftID)
	assert.Equal(t, second, pending[1].DraftID)
}

func TestDraftIDCollisionGetsSuffix(t *testing.T) {
	sys, _ := newClockedSystem(t, time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC))

	a, err := sys.CreateDraft("thread", NewThread([]string{"x"}), nil)
	require.NoError(t, err)
	b, err := sys.CreateDraft("thread", NewThread([]string{"y"}), nil)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(b, a+"_"))
}

func TestPreviewThreadCounts(t *testing.T) {
	sys := newTestSystem(t)

	long := strings.Repeat("x", 300)
	draftID, err := sys.CreateDraft("thread", NewThread([]string{"short", long}), nil)
	require.NoError(t, err)

	preview, err := sys.PreviewContent(draftID)
	require.NoError(t, err)
	assert.Equal(t, 2, preview.ThreadLength)
	assert.Equal(t, 305, preview.TotalChars)
	assert.False(t, preview.LengthOk)

	// Preview is read-only, repeating it changes nothing.
	again, err := sys.PreviewContent(draftID)
	require.NoError(t, err)
	assert.Equal(t, preview, again)
}

func TestPreviewUnknownDraft(t *testing.T) {
	sys := newTestSystem(t)

	preview, err := sys.PreviewContent("missing")
	require.NoError(t, err)
	assert.Equal(t, "not found", preview.Err)
}

func TestSubmitForReviewTransitions(t *testing.T) {
	sys := newTestSystem(t)

	ok, err := sys.SubmitForReview("absent")
	require.NoError(t, err)
	assert.False(t, ok)

	draftID, err := sys.CreateDraft("focus", NewPost("body"), nil)
	require.NoError(t, err)

	ok, err = sys.SubmitForReview(draftID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Idempotent from reviewing.
	ok, err = sys.SubmitForReview(draftID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = sys.RejectContent(draftID, "off topic")
	require.NoError(t, err)

	// Decided drafts cannot go back to reviewing.
	ok, err = sys.SubmitForReview(draftID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRejectSetsStatusAndHistory(t *testing.T) {
	sys := newTestSystem(t)

	draftID, err := sys.CreateDraft("headlines", NewPost("body"), nil)
	require.NoError(t, err)

	_, err = sys.RejectContent(draftID, "tone is off")
	require.NoError(t, err)

	draft, err := sys.GetDraft(draftID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, draft.Status)

	history, err := sys.GetReviewHistory(7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, DecisionRejected, history[0].Decision)
	assert.Equal(t, "tone is off", history[0].Notes)
	assert.Equal(t, "headlines", history[0].Kind)
}

func TestScheduleContentOnlyFromApproved(t *testing.T) {
	sys := newTestSystem(t)

	draftID, err := sys.CreateDraft("focus", NewPost("body"), nil)
	require.NoError(t, err)

	when := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	ok, err := sys.ScheduleContent(draftID, when)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = sys.ApproveContent(draftID, "")
	require.NoError(t, err)

	ok, err = sys.ScheduleContent(draftID, when)
	require.NoError(t, err)
	assert.True(t, ok)

	draft, err := sys.GetDraft(draftID)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, draft.Status)
	require.NotNil(t, draft.ScheduledTime)
	assert.True(t, draft.ScheduledTime.Equal(when))
}

func TestMarkAsPublishedRecordsPostIDs(t *testing.T) {
	sys := newTestSystem(t)

	draftID, err := sys.CreateDraft("thread", NewThread([]string{"a", "b"}), nil)
	require.NoError(t, err)

	_, err = sys.MarkAsPublished(draftID, []string{"111", "222"})
	require.NoError(t, err)

	stats, err := sys.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalPublications)
	assert.Equal(t, 1, stats.PublishedContent)
}

func TestHistoryWindowAndOrder(t *testing.T) {
	start := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	sys, clock := newClockedSystem(t, start)

	old, err := sys.CreateDraft("headlines", NewPost("old"), nil)
	require.NoError(t, err)
	_, err = sys.ApproveContent(old, "")
	require.NoError(t, err)

	*clock = start.Add(10 * 24 * time.Hour)
	recent, err := sys.CreateDraft("focus", NewPost("recent"), nil)
	require.NoError(t, err)
	_, err = sys.RejectContent(recent, "no")
	require.NoError(t, err)

	*clock = start.Add(10*24*time.Hour + time.Hour)
	history, err := sys.GetReviewHistory(7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, recent, history[0].DraftID)

	history, err = sys.GetReviewHistory(30)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Newest first.
	assert.Equal(t, recent, history[0].DraftID)
	assert.Equal(t, old, history[1].DraftID)
}

func TestApprovalRateRounding(t *testing.T) {
	sys := newTestSystem(t)

	stats, err := sys.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.ApprovalRate)

	ids := make([]string, 4)
	for i := range ids {
		id, err := sys.CreateDraft("focus", NewPost("body"), nil)
		require.NoError(t, err)
		ids[i] = id
	}

	for _, id := range ids[:3] {
		_, err := sys.ApproveContent(id, "")
		require.NoError(t, err)
	}
	_, err = sys.RejectContent(ids[3], "no")
	require.NoError(t, err)

	stats, err = sys.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalReviews)
	assert.Equal(t, 75.0, stats.ApprovalRate)
}

func TestApprovalRateOneDecimal(t *testing.T) {
	sys := newTestSystem(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := sys.CreateDraft("focus", NewPost("body"), nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	_, err := sys.ApproveContent(ids[0], "")
	require.NoError(t, err)
	_, err = sys.RejectContent(ids[1], "no")
	require.NoError(t, err)
	_, err = sys.RejectContent(ids[2], "no")
	require.NoError(t, err)

	stats, err := sys.GetStats()
	require.NoError(t, err)
	// 1/3 = 33.333..., rounded to one decimal.
	assert.Equal(t, 33.3, stats.ApprovalRate)
}
