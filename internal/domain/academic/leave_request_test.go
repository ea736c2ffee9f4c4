package academic

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingLeave(t *testing.T, from, to time.Time) *LeaveRequest {
	t.Helper()
	req, err := NewLeaveRequest(uuid.New(), uuid.New(), RequesterStudent, from, to, "family event")
	require.NoError(t, err)
	return req
}

func TestNewLeaveRequest(t *testing.T) {
	tenantID := uuid.New()
	requesterID := uuid.New()
	from := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	t.Run("valid request", func(t *testing.T) {
		req, err := NewLeaveRequest(tenantID, requesterID, RequesterStudent, from, to, "medical")
		require.NoError(t, err)
		assert.Equal(t, LeavePending, req.Status)
		assert.Equal(t, 3, req.Days())
		assert.Nil(t, req.ReviewedBy)
	})

	t.Run("single day", func(t *testing.T) {
		req, err := NewLeaveRequest(tenantID, requesterID, RequesterStaff, from, from, "medical")
		require.NoError(t, err)
		assert.Equal(t, 1, req.Days())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewLeaveRequest(tenantID, requesterID, RequesterStudent, to, from, "medical")
		assert.Error(t, err)
	})

	t.Run("blank reason", func(t *testing.T) {
		_, err := NewLeaveRequest(tenantID, requesterID, RequesterStudent, from, to, "   ")
		assert.Error(t, err)
	})

	t.Run("invalid requester type", func(t *testing.T) {
		_, err := NewLeaveRequest(tenantID, requesterID, RequesterType("visitor"), from, to, "medical")
		assert.Error(t, err)
	})
}

func TestLeaveDecision(t *testing.T) {
	from := time.Now().AddDate(0, 0, 7)
	to := from.AddDate(0, 0, 2)

	t.Run("approve freezes the decision", func(t *testing.T) {
		req := newPendingLeave(t, from, to)
		reviewer := uuid.New()

		require.NoError(t, req.Approve(reviewer, "ok"))
		assert.Equal(t, LeaveApproved, req.Status)
		require.NotNil(t, req.ReviewedBy)
		assert.Equal(t, reviewer, *req.ReviewedBy)
		assert.NotNil(t, req.ReviewedAt)

		firstReviewedAt := *req.ReviewedAt
		err := req.Reject(uuid.New(), "changed my mind")
		assert.Error(t, err)
		assert.Equal(t, LeaveApproved, req.Status)
		assert.Equal(t, reviewer, *req.ReviewedBy)
		assert.Equal(t, firstReviewedAt, *req.ReviewedAt)
	})

	t.Run("reject", func(t *testing.T) {
		req := newPendingLeave(t, from, to)
		require.NoError(t, req.Reject(uuid.New(), "exam week"))
		assert.Equal(t, LeaveRejected, req.Status)
		assert.Error(t, req.Approve(uuid.New(), ""))
	})

	t.Run("nil reviewer", func(t *testing.T) {
		req := newPendingLeave(t, from, to)
		assert.Error(t, req.Approve(uuid.Nil, ""))
		assert.Equal(t, LeavePending, req.Status)
	})
}

func TestLeaveCancel(t *testing.T) {
	t.Run("pending cancels freely", func(t *testing.T) {
		req := newPendingLeave(t, time.Now().AddDate(0, 0, 3), time.Now().AddDate(0, 0, 4))
		require.NoError(t, req.Cancel(time.Now()))
		assert.Equal(t, LeaveCancelled, req.Status)
	})

	t.Run("approved cancels before it starts", func(t *testing.T) {
		req := newPendingLeave(t, time.Now().AddDate(0, 0, 3), time.Now().AddDate(0, 0, 4))
		require.NoError(t, req.Approve(uuid.New(), ""))
		require.NoError(t, req.Cancel(time.Now()))
		assert.Equal(t, LeaveCancelled, req.Status)
	})

	t.Run("approved cannot cancel once started", func(t *testing.T) {
		from := time.Now().AddDate(0, 0, -1)
		req := newPendingLeave(t, from, from.AddDate(0, 0, 3))
		require.NoError(t, req.Approve(uuid.New(), ""))
		assert.Error(t, req.Cancel(time.Now()))
		assert.Equal(t, LeaveApproved, req.Status)
	})

	t.Run("rejected stays rejected", func(t *testing.T) {
		req := newPendingLeave(t, time.Now().AddDate(0, 0, 3), time.Now().AddDate(0, 0, 4))
		require.NoError(t, req.Reject(uuid.New(), ""))
		assert.Error(t, req.Cancel(time.Now()))
	})
}

func TestLeaveCovers(t *testing.T) {
	from := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	req := newPendingLeave(t, from, to)

	assert.True(t, req.Covers(from))
	assert.True(t, req.Covers(time.Date(2026, 9, 11, 16, 0, 0, 0, time.UTC)))
	assert.True(t, req.Covers(to))
	assert.False(t, req.Covers(from.AddDate(0, 0, -1)))
	assert.False(t, req.Covers(to.AddDate(0, 0, 1)))
}
