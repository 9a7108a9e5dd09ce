package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportStatusCanTransition(t *testing.T) {
	cases := []struct {
		from ReportStatus
		to   ReportStatus
		want bool
	}{
		{ReportStatusPending, ReportStatusUnderReview, true},
		{ReportStatusPending, ReportStatusRejected, true},
		{ReportStatusPending, ReportStatusResolved, false},
		{ReportStatusPending, ReportStatusClosed, false},
		{ReportStatusUnderReview, ReportStatusInProgress, true},
		{ReportStatusUnderReview, ReportStatusRejected, true},
		{ReportStatusUnderReview, ReportStatusPending, false},
		{ReportStatusInProgress, ReportStatusResolved, true},
		{ReportStatusInProgress, ReportStatusRejected, true},
		{ReportStatusInProgress, ReportStatusUnderReview, false},
		{ReportStatusResolved, ReportStatusClosed, true},
		{ReportStatusResolved, ReportStatusInProgress, false},
		{ReportStatusRejected, ReportStatusPending, false},
		{ReportStatusClosed, ReportStatusResolved, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransition(tc.to))
		})
	}
}

func TestParseReportStatus(t *testing.T) {
	status, ok := ParseReportStatus("under_review")
	assert.True(t, ok)
	assert.Equal(t, ReportStatusUnderReview, status)

	_, ok = ParseReportStatus("archived")
	assert.False(t, ok)
}

func TestParseIssueType(t *testing.T) {
	for _, raw := range []string{"pothole", "damaged_road", "street_light", "drainage", "debris", "traffic_sign", "other"} {
		_, ok := ParseIssueType(raw)
		assert.True(t, ok, raw)
	}

	_, ok := ParseIssueType("graffiti")
	assert.False(t, ok)
}

func TestReportDeletableBy(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	report := Report{UserID: "owner", CreatedAt: created}
	window := 24 * time.Hour

	t.Run("owner inside window", func(t *testing.T) {
		now := created.Add(23 * time.Hour)
		assert.True(t, report.DeletableBy("owner", UserRoleCitizen, window, now))
	})

	t.Run("owner at window edge", func(t *testing.T) {
		now := created.Add(24 * time.Hour)
		assert.True(t, report.DeletableBy("owner", UserRoleCitizen, window, now))
	})

	t.Run("owner after window", func(t *testing.T) {
		now := created.Add(24*time.Hour + time.Minute)
		assert.False(t, report.DeletableBy("owner", UserRoleCitizen, window, now))
	})

	t.Run("non-owner inside window", func(t *testing.T) {
		now := created.Add(time.Hour)
		assert.False(t, report.DeletableBy("someone-else", UserRoleCitizen, window, now))
	})

	t.Run("admin after window", func(t *testing.T) {
		now := created.Add(30 * 24 * time.Hour)
		assert.True(t, report.DeletableBy("any-admin", UserRoleAdmin, window, now))
	})
}

func TestParseRoleAndStatus(t *testing.T) {
	role, ok := ParseRole("official")
	assert.True(t, ok)
	assert.Equal(t, UserRoleOfficial, role)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)

	status, ok := ParseAccountStatus("suspended")
	assert.True(t, ok)
	assert.Equal(t, AccountStatusSuspended, status)

	_, ok = ParseAccountStatus("banned")
	assert.False(t, ok)
}
