package accessreview

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

func errNotEnabled(what string) error {
	return errs.New("accessreview", errs.KindValidation, what+" is not enabled")
}

func errNotFound(what, id string) error {
	return errs.Newf("accessreview", errs.KindValidation, "%s %s not found", what, id)
}

// Engine runs automated access review sweeps and tracks their approval
// workflow state in memory.
type Engine struct {
	mu              sync.Mutex
	config          Config
	activeReviews   map[string]*Review
	userReviewItems map[string]map[uuid.UUID]*UserReviewItem
}

// NewEngine builds an Engine governed by config.
func NewEngine(config Config) *Engine {
	return &Engine{
		config:          config,
		activeReviews:   make(map[string]*Review),
		userReviewItems: make(map[string]map[uuid.UUID]*UserReviewItem),
	}
}

// GenerateReviewID builds a deterministic, human-legible review ID from
// its kind and date.
func (e *Engine) GenerateReviewID(kind Kind, date time.Time) string {
	var typeStr string
	switch kind {
	case KindUserAccess:
		typeStr = "user"
	case KindPrivilegedAccess:
		typeStr = "privileged"
	case KindAPIToken:
		typeStr = "token"
	case KindResourceAccess:
		typeStr = "resource"
	default:
		typeStr = "generic"
	}
	return fmt.Sprintf("review-%s-%s", date.Format("2006-01-02"), typeStr)
}

// StartUserAccessReview analyzes users and opens a user access review,
// creating one pending approval item per user.
func (e *Engine) StartUserAccessReview(users []UserAccessInfo) (*Review, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.config.Enabled || !e.config.UserReview.Enabled {
		return nil, errNotEnabled("user access review")
	}

	now := time.Now().UTC()
	reviewID := e.GenerateReviewID(KindUserAccess, now)
	dueDate := now.Add(time.Duration(e.config.UserReview.ApprovalTimeoutDays) * 24 * time.Hour)
	nextReview := e.config.UserReview.Frequency.NextReviewDate(now)

	findings := newFindings()
	items := make(map[uuid.UUID]*UserReviewItem, len(users))

	for _, user := range users {
		if user.DaysInactive != nil && *user.DaysInactive > e.config.UserReview.InactiveThresholdDays {
			findings.InactiveUsers++
		}
		if user.LastLogin == nil || user.LastLogin.Before(now.Add(-90*24*time.Hour)) {
			findings.NoRecentAccess++
		}
		if len(user.Permissions) > 10 {
			findings.ExcessivePermissions++
		}

		deadline := dueDate
		items[user.UserID] = &UserReviewItem{
			ReviewID:         reviewID,
			UserID:           user.UserID,
			AccessInfo:       user,
			Status:           "pending",
			ApprovalDeadline: &deadline,
		}
	}

	review := &Review{
		ReviewID:         reviewID,
		Kind:             KindUserAccess,
		Status:           StatusInProgress,
		ReviewDate:       now,
		DueDate:          dueDate,
		TotalItems:       uint32(len(users)),
		Findings:         findings,
		ActionsTaken:     newActions(),
		PendingApprovals: uint32(len(items)),
		NextReviewDate:   nextReview,
		Metadata:         make(map[string]interface{}),
	}

	e.activeReviews[reviewID] = review
	e.userReviewItems[reviewID] = items

	logging.Get(logging.CategoryAccessReview).Info(
		"started user access review %s for %d users (%d inactive, %d excessive permissions)",
		reviewID, len(users), findings.InactiveUsers, findings.ExcessivePermissions)

	return cloneReview(review), nil
}

// StartPrivilegedAccessReview analyzes privileged users and opens a
// privileged access review. Privileged reviews carry no per-user
// approval workflow, only aggregate findings, matching how the token
// and resource reviews behave.
func (e *Engine) StartPrivilegedAccessReview(users []PrivilegedAccessInfo) (*Review, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.config.Enabled || !e.config.PrivilegedReview.Enabled {
		return nil, errNotEnabled("privileged access review")
	}

	now := time.Now().UTC()
	reviewID := e.GenerateReviewID(KindPrivilegedAccess, now)
	dueDate := now.Add(30 * 24 * time.Hour)
	nextReview := e.config.PrivilegedReview.Frequency.NextReviewDate(now)

	findings := newFindings()
	var missingJustification uint32
	var escalationAlerts uint32

	for _, user := range users {
		if e.config.PrivilegedReview.RequireMFA && !user.MFAEnabled {
			findings.PrivilegedWithoutMFA++
		}
		if e.config.PrivilegedReview.RequireJustification {
			expired := user.JustificationExpires != nil && user.JustificationExpires.Before(now)
			if user.Justification == nil || expired {
				missingJustification++
			}
		}
		if e.config.PrivilegedReview.AlertOnEscalation && user.RecentActionsCount > 50 {
			escalationAlerts++
		}
	}
	findings.Custom["missing_justification"] = missingJustification
	findings.Custom["escalation_alerts"] = escalationAlerts

	review := &Review{
		ReviewID:         reviewID,
		Kind:             KindPrivilegedAccess,
		Status:           StatusInProgress,
		ReviewDate:       now,
		DueDate:          dueDate,
		TotalItems:       uint32(len(users)),
		Findings:         findings,
		ActionsTaken:     newActions(),
		PendingApprovals: uint32(len(users)),
		NextReviewDate:   nextReview,
		Metadata:         make(map[string]interface{}),
	}

	e.activeReviews[reviewID] = review

	logging.Get(logging.CategoryAccessReview).Info(
		"started privileged access review %s for %d users (%d without MFA)",
		reviewID, len(users), findings.PrivilegedWithoutMFA)

	return cloneReview(review), nil
}

// StartAPITokenReview analyzes tokens and opens an API token review.
func (e *Engine) StartAPITokenReview(tokens []APITokenInfo) (*Review, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.config.Enabled || !e.config.TokenReview.Enabled {
		return nil, errNotEnabled("API token review")
	}

	now := time.Now().UTC()
	reviewID := e.GenerateReviewID(KindAPIToken, now)
	dueDate := now.Add(14 * 24 * time.Hour)
	nextReview := e.config.TokenReview.Frequency.NextReviewDate(now)

	findings := newFindings()
	tokenIDs := make([]string, 0, len(tokens))

	for _, token := range tokens {
		tokenIDs = append(tokenIDs, token.TokenID)

		if token.DaysUnused != nil && *token.DaysUnused > e.config.TokenReview.UnusedThresholdDays {
			findings.UnusedTokens++
		}
		if len(token.Scopes) > 5 {
			findings.ExcessiveScopes++
		}
		if token.ExpiresAt != nil {
			rotationWindow := now.Add(time.Duration(e.config.TokenReview.RotationThresholdDays) * 24 * time.Hour)
			if !token.ExpiresAt.After(rotationWindow) {
				findings.ExpiringSoon++
			}
		}
	}

	review := &Review{
		ReviewID:         reviewID,
		Kind:             KindAPIToken,
		Status:           StatusInProgress,
		ReviewDate:       now,
		DueDate:          dueDate,
		TotalItems:       uint32(len(tokens)),
		Findings:         findings,
		ActionsTaken:     newActions(),
		PendingApprovals: uint32(len(tokens)),
		NextReviewDate:   nextReview,
		Metadata:         map[string]interface{}{"token_ids": tokenIDs},
	}

	e.activeReviews[reviewID] = review

	logging.Get(logging.CategoryAccessReview).Info(
		"started API token review %s for %d tokens (%d unused, %d expiring soon)",
		reviewID, len(tokens), findings.UnusedTokens, findings.ExpiringSoon)

	return cloneReview(review), nil
}

// StartResourceAccessReview analyzes resource access rosters and opens
// a resource access review.
func (e *Engine) StartResourceAccessReview(resources []ResourceAccessInfo) (*Review, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.config.Enabled || !e.config.ResourceReview.Enabled {
		return nil, errNotEnabled("resource access review")
	}

	now := time.Now().UTC()
	reviewID := e.GenerateReviewID(KindResourceAccess, now)
	dueDate := now.Add(30 * 24 * time.Hour)
	nextReview := e.config.ResourceReview.Frequency.NextReviewDate(now)
	staleThreshold := now.Add(-time.Duration(e.config.UserReview.InactiveThresholdDays) * 24 * time.Hour)

	findings := newFindings()
	var sensitiveCount uint32

	sensitive := make(map[string]bool, len(e.config.ResourceReview.SensitiveResources))
	for _, r := range e.config.ResourceReview.SensitiveResources {
		sensitive[r] = true
	}

	for _, resource := range resources {
		if sensitive[resource.ResourceType] {
			sensitiveCount++
		}

		var staleAccesses uint32
		for _, accessedAt := range resource.LastAccess {
			if accessedAt != nil && accessedAt.Before(staleThreshold) {
				staleAccesses++
			}
		}
		findings.NoRecentAccess += staleAccesses

		if len(resource.UsersWithAccess) > 20 {
			findings.ExcessivePermissions++
		}
	}
	findings.Custom["sensitive_resources_reviewed"] = sensitiveCount

	review := &Review{
		ReviewID:         reviewID,
		Kind:             KindResourceAccess,
		Status:           StatusInProgress,
		ReviewDate:       now,
		DueDate:          dueDate,
		TotalItems:       uint32(len(resources)),
		Findings:         findings,
		ActionsTaken:     newActions(),
		PendingApprovals: uint32(len(resources)),
		NextReviewDate:   nextReview,
		Metadata:         make(map[string]interface{}),
	}

	e.activeReviews[reviewID] = review

	logging.Get(logging.CategoryAccessReview).Info(
		"started resource access review %s for %d resources (%d sensitive)",
		reviewID, len(resources), sensitiveCount)

	return cloneReview(review), nil
}

// ApproveUserAccess marks a pending user review item approved.
func (e *Engine) ApproveUserAccess(reviewID string, userID, approvedBy uuid.UUID, justification *string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	review, item, err := e.lookupUserItem(reviewID, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	item.Status = "approved"
	item.ApprovedBy = &approvedBy
	item.ApprovedAt = &now

	review.ItemsReviewed++
	review.PendingApprovals = saturatingSub(review.PendingApprovals, 1)

	if justification != nil {
		review.Metadata[fmt.Sprintf("justification_%s", userID)] = *justification
	}
	return nil
}

// RevokeUserAccess marks a pending user review item revoked.
func (e *Engine) RevokeUserAccess(reviewID string, userID, _ uuid.UUID, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	review, item, err := e.lookupUserItem(reviewID, userID)
	if err != nil {
		return err
	}

	item.Status = "revoked"
	item.RejectionReason = &reason

	review.ItemsReviewed++
	review.PendingApprovals = saturatingSub(review.PendingApprovals, 1)
	review.ActionsTaken.UsersRevoked++
	review.Metadata[fmt.Sprintf("revocation_reason_%s", userID)] = reason

	logging.Get(logging.CategoryAccessReview).Warn("revoked access for user %s in review %s: %s", userID, reviewID, reason)
	return nil
}

// UpdateUserPermissions replaces a user's reviewed roles/permissions,
// marking the item reviewed if the change is a reduction.
func (e *Engine) UpdateUserPermissions(reviewID string, userID, updatedBy uuid.UUID, newRoles, newPermissions []string, reason *string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	review, item, err := e.lookupUserItem(reviewID, userID)
	if err != nil {
		return err
	}

	oldRoles := item.AccessInfo.Roles
	oldPermissions := item.AccessInfo.Permissions

	item.AccessInfo.Roles = newRoles
	item.AccessInfo.Permissions = newPermissions

	rolesReduced := len(newRoles) < len(oldRoles)
	permissionsReduced := len(newPermissions) < len(oldPermissions)

	if rolesReduced || permissionsReduced {
		item.Status = "permissions_updated"
		review.ItemsReviewed++
		review.PendingApprovals = saturatingSub(review.PendingApprovals, 1)
		review.ActionsTaken.PermissionsReduced++
	}

	review.Metadata[fmt.Sprintf("permission_update_%s", userID)] = map[string]interface{}{
		"updated_by":      updatedBy.String(),
		"old_roles":       oldRoles,
		"new_roles":       newRoles,
		"old_permissions": oldPermissions,
		"new_permissions": newPermissions,
		"reason":          reason,
		"updated_at":      time.Now().UTC(),
	}
	return nil
}

func (e *Engine) lookupUserItem(reviewID string, userID uuid.UUID) (*Review, *UserReviewItem, error) {
	review, ok := e.activeReviews[reviewID]
	if !ok {
		return nil, nil, errNotFound("review", reviewID)
	}
	items, ok := e.userReviewItems[reviewID]
	if !ok {
		return nil, nil, errNotFound("review items for", reviewID)
	}
	item, ok := items[userID]
	if !ok {
		return nil, nil, errNotFound("user", userID.String())
	}
	return review, item, nil
}

// GetReviewItems returns the per-user approval items for a review, if any.
func (e *Engine) GetReviewItems(reviewID string) (map[uuid.UUID]*UserReviewItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	items, ok := e.userReviewItems[reviewID]
	return items, ok
}

// GetReview returns a review by ID.
func (e *Engine) GetReview(reviewID string) (*Review, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	review, ok := e.activeReviews[reviewID]
	if !ok {
		return nil, false
	}
	return cloneReview(review), true
}

// GetAllReviews returns every active review.
func (e *Engine) GetAllReviews() []*Review {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Review, 0, len(e.activeReviews))
	for _, review := range e.activeReviews {
		out = append(out, cloneReview(review))
	}
	return out
}

// CheckAutoRevocation auto-revokes any pending user review item whose
// approval deadline has passed, returning the (reviewID, userID) pairs
// it revoked.
func (e *Engine) CheckAutoRevocation() []struct {
	ReviewID string
	UserID   uuid.UUID
} {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now().UTC()
	var revoked []struct {
		ReviewID string
		UserID   uuid.UUID
	}

	if !e.config.UserReview.AutoRevokeInactive {
		return revoked
	}

	for reviewID, items := range e.userReviewItems {
		review, ok := e.activeReviews[reviewID]
		if !ok {
			continue
		}
		for userID, item := range items {
			if item.Status != "pending" || item.ApprovalDeadline == nil {
				continue
			}
			if now.After(*item.ApprovalDeadline) {
				reason := "Access automatically revoked due to missing approval within deadline"
				item.Status = "auto_revoked"
				item.RejectionReason = &reason

				review.ItemsReviewed++
				review.PendingApprovals = saturatingSub(review.PendingApprovals, 1)
				review.ActionsTaken.UsersRevoked++

				revoked = append(revoked, struct {
					ReviewID string
					UserID   uuid.UUID
				}{ReviewID: reviewID, UserID: userID})
			}
		}
	}

	if len(revoked) > 0 {
		logging.Get(logging.CategoryAccessReview).Warn("auto-revoked %d user access items past their approval deadline", len(revoked))
	}
	return revoked
}

// CompleteReview marks a review completed.
func (e *Engine) CompleteReview(reviewID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	review, ok := e.activeReviews[reviewID]
	if !ok {
		return errNotFound("review", reviewID)
	}
	review.Status = StatusCompleted
	return nil
}

func saturatingSub(v uint32, by uint32) uint32 {
	if v < by {
		return 0
	}
	return v - by
}

func cloneReview(r *Review) *Review {
	cp := *r
	cp.Findings.Custom = cloneCounts(r.Findings.Custom)
	cp.ActionsTaken.Custom = cloneCounts(r.ActionsTaken.Custom)
	cp.Metadata = make(map[string]interface{}, len(r.Metadata))
	for k, v := range r.Metadata {
		cp.Metadata[k] = v
	}
	return &cp
}

func cloneCounts(m map[string]uint32) map[string]uint32 {
	out := make(map[string]uint32, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
