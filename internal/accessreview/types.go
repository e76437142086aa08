// Package accessreview implements automated access review sweeps for
// user accounts, privileged roles, API tokens, and sensitive resources,
// tracking findings, approval workflow state, and auto-revocation.
package accessreview

import (
	"time"

	"github.com/google/uuid"
)

// Frequency is how often a review kind recurs.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
)

// Duration returns the calendar span this frequency represents.
func (f Frequency) Duration() time.Duration {
	switch f {
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	case FrequencyQuarterly:
		return 90 * 24 * time.Hour
	case FrequencyAnnually:
		return 365 * 24 * time.Hour
	default:
		return 90 * 24 * time.Hour
	}
}

// NextReviewDate returns the next date a review of this frequency is due.
func (f Frequency) NextReviewDate(from time.Time) time.Time {
	return from.Add(f.Duration())
}

// Status is a review's lifecycle stage.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Kind identifies which of the four review workflows a review belongs to.
type Kind string

const (
	KindUserAccess       Kind = "user_access"
	KindPrivilegedAccess Kind = "privileged_access"
	KindAPIToken         Kind = "api_token"
	KindResourceAccess   Kind = "resource_access"
)

// UserAccessInfo is one user's access snapshot as reviewed by a user
// access review.
type UserAccessInfo struct {
	UserID        uuid.UUID
	Username      string
	Email         string
	Roles         []string
	Permissions   []string
	LastLogin     *time.Time
	AccessGranted time.Time
	DaysInactive  *uint64
	IsActive      bool
}

// PrivilegedAccessInfo is one privileged user's access snapshot.
type PrivilegedAccessInfo struct {
	UserID                uuid.UUID
	Username              string
	Roles                 []string
	MFAEnabled            bool
	Justification         *string
	JustificationExpires  *time.Time
	RecentActionsCount    uint64
	LastPrivilegedAction  *time.Time
}

// APITokenInfo is one API token's usage snapshot.
type APITokenInfo struct {
	TokenID    string
	Name       *string
	OwnerID    uuid.UUID
	Scopes     []string
	CreatedAt  time.Time
	LastUsed   *time.Time
	ExpiresAt  *time.Time
	DaysUnused *uint64
	IsActive   bool
}

// ResourceAccessInfo is one resource's access roster.
type ResourceAccessInfo struct {
	ResourceType    string
	ResourceID      string
	UsersWithAccess []uuid.UUID
	AccessLevels    map[uuid.UUID]string
	LastAccess      map[uuid.UUID]*time.Time
}

// Findings summarizes what a review swept up.
type Findings struct {
	InactiveUsers        uint32
	ExcessivePermissions uint32
	NoRecentAccess       uint32
	PrivilegedWithoutMFA uint32
	UnusedTokens         uint32
	ExcessiveScopes      uint32
	ExpiringSoon         uint32
	Custom               map[string]uint32
}

func newFindings() Findings {
	return Findings{Custom: make(map[string]uint32)}
}

// Actions tallies remediation taken during a review.
type Actions struct {
	UsersRevoked        uint32
	PermissionsReduced  uint32
	MFAEnforced         uint32
	TokensRevoked       uint32
	TokensRotated       uint32
	ScopesReduced       uint32
	Custom              map[string]uint32
}

func newActions() Actions {
	return Actions{Custom: make(map[string]uint32)}
}

// Review is one access review's full record.
type Review struct {
	ReviewID         string
	Kind             Kind
	Status           Status
	ReviewDate       time.Time
	DueDate          time.Time
	TotalItems       uint32
	ItemsReviewed    uint32
	Findings         Findings
	ActionsTaken     Actions
	PendingApprovals uint32
	NextReviewDate   time.Time
	Metadata         map[string]interface{}
}

// UserReviewItem tracks one user's approval state within a user access review.
type UserReviewItem struct {
	ReviewID         string
	UserID           uuid.UUID
	AccessInfo       UserAccessInfo
	Status           string
	ManagerID        *uuid.UUID
	ApprovalDeadline *time.Time
	ApprovedBy       *uuid.UUID
	ApprovedAt       *time.Time
	RejectionReason  *string
}

// UserReviewConfig configures the user access review workflow.
type UserReviewConfig struct {
	Enabled                bool
	Frequency              Frequency
	InactiveThresholdDays  uint64
	AutoRevokeInactive     bool
	RequireManagerApproval bool
	ApprovalTimeoutDays    uint64
}

// PrivilegedReviewConfig configures the privileged access review workflow.
type PrivilegedReviewConfig struct {
	Enabled             bool
	Frequency           Frequency
	RequireMFA          bool
	RequireJustification bool
	AlertOnEscalation   bool
}

// TokenReviewConfig configures the API token review workflow.
type TokenReviewConfig struct {
	Enabled               bool
	Frequency             Frequency
	UnusedThresholdDays   uint64
	AutoRevokeUnused      bool
	RotationThresholdDays uint64
}

// ResourceReviewConfig configures the resource access review workflow.
type ResourceReviewConfig struct {
	Enabled            bool
	Frequency          Frequency
	SensitiveResources []string
}

// NotificationConfig configures who gets told about review outcomes.
type NotificationConfig struct {
	Enabled    bool
	Channels   []string
	Recipients []string
}

// Config is the full access review engine configuration.
type Config struct {
	Enabled          bool
	UserReview       UserReviewConfig
	PrivilegedReview PrivilegedReviewConfig
	TokenReview      TokenReviewConfig
	ResourceReview   ResourceReviewConfig
	Notifications    NotificationConfig
}

// DefaultConfig mirrors the model's AccessReviewConfig::default().
func DefaultConfig() Config {
	return Config{
		Enabled: false,
		UserReview: UserReviewConfig{
			Enabled:                true,
			Frequency:              FrequencyQuarterly,
			InactiveThresholdDays:  90,
			AutoRevokeInactive:     true,
			RequireManagerApproval: true,
			ApprovalTimeoutDays:    30,
		},
		PrivilegedReview: PrivilegedReviewConfig{
			Enabled:              true,
			Frequency:            FrequencyMonthly,
			RequireMFA:           true,
			RequireJustification: true,
			AlertOnEscalation:    true,
		},
		TokenReview: TokenReviewConfig{
			Enabled:               true,
			Frequency:             FrequencyMonthly,
			UnusedThresholdDays:   90,
			AutoRevokeUnused:      true,
			RotationThresholdDays: 30,
		},
		ResourceReview: ResourceReviewConfig{
			Enabled:   true,
			Frequency: FrequencyQuarterly,
			SensitiveResources: []string{
				"billing", "user_data", "audit_logs", "security_settings",
			},
		},
		Notifications: NotificationConfig{
			Enabled:    true,
			Channels:   []string{"email"},
			Recipients: []string{"security_team", "compliance_team"},
		},
	}
}
