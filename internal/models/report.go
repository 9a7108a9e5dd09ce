package models

import "time"

type ReportStatus string

const (
	ReportStatusPending     ReportStatus = "pending"
	ReportStatusUnderReview ReportStatus = "under_review"
	ReportStatusInProgress  ReportStatus = "in_progress"
	ReportStatusResolved    ReportStatus = "resolved"
	ReportStatusRejected    ReportStatus = "rejected"
	ReportStatusClosed      ReportStatus = "closed"
)

func ParseReportStatus(s string) (ReportStatus, bool) {
	switch ReportStatus(s) {
	case ReportStatusPending, ReportStatusUnderReview, ReportStatusInProgress,
		ReportStatusResolved, ReportStatusRejected, ReportStatusClosed:
		return ReportStatus(s), true
	}
	return "", false
}

// CanTransition reports whether a status change follows the report lifecycle
// pending -> under_review -> in_progress -> resolved|rejected, resolved -> closed.
func (s ReportStatus) CanTransition(to ReportStatus) bool {
	switch s {
	case ReportStatusPending:
		return to == ReportStatusUnderReview || to == ReportStatusRejected
	case ReportStatusUnderReview:
		return to == ReportStatusInProgress || to == ReportStatusRejected
	case ReportStatusInProgress:
		return to == ReportStatusResolved || to == ReportStatusRejected
	case ReportStatusResolved:
		return to == ReportStatusClosed
	case ReportStatusRejected, ReportStatusClosed:
		return false
	}
	return false
}

type ReportPriority string

const (
	ReportPriorityLow    ReportPriority = "low"
	ReportPriorityMedium ReportPriority = "medium"
	ReportPriorityHigh   ReportPriority = "high"
)

func ParsePriority(s string) (ReportPriority, bool) {
	switch ReportPriority(s) {
	case ReportPriorityLow, ReportPriorityMedium, ReportPriorityHigh:
		return ReportPriority(s), true
	}
	return "", false
}

type IssueType string

const (
	IssueTypePothole     IssueType = "pothole"
	IssueTypeDamagedRoad IssueType = "damaged_road"
	IssueTypeStreetLight IssueType = "street_light"
	IssueTypeDrainage    IssueType = "drainage"
	IssueTypeDebris      IssueType = "debris"
	IssueTypeTrafficSign IssueType = "traffic_sign"
	IssueTypeOther       IssueType = "other"
)

func ParseIssueType(s string) (IssueType, bool) {
	switch IssueType(s) {
	case IssueTypePothole, IssueTypeDamagedRoad, IssueTypeStreetLight,
		IssueTypeDrainage, IssueTypeDebris, IssueTypeTrafficSign, IssueTypeOther:
		return IssueType(s), true
	}
	return "", false
}

type Report struct {
	ID          string
	UserID      string
	Title       string
	Description string
	IssueType   IssueType
	Status      ReportStatus
	Priority    ReportPriority
	Latitude    float64
	Longitude   float64
	Address     string
	Zone        *string
	IsAnonymous bool
	AssignedTo  *string
	Rating      *int
	ResolvedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DeletableBy reports whether the given user may still delete the report.
// Owners get a fixed window after creation; admins are not time-boxed.
func (r Report) DeletableBy(userID string, role UserRole, window time.Duration, now time.Time) bool {
	if role == UserRoleAdmin {
		return true
	}
	if r.UserID != userID {
		return false
	}
	return now.Sub(r.CreatedAt) <= window
}

type ReportImage struct {
	ID        string
	ReportID  string
	Bucket    string
	ObjectKey string
	Format    string
	SizeBytes int64
	Signature []byte
	CreatedAt time.Time
}

type ReportComment struct {
	ID        string
	ReportID  string
	UserID    string
	Body      string
	CreatedAt time.Time
}
