package accessreview

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
)

func enabledConfig() Config {
	c := DefaultConfig()
	c.Enabled = true
	return c
}

func TestFrequencyDuration(t *testing.T) {
	cases := map[Frequency]time.Duration{
		FrequencyMonthly:   30 * 24 * time.Hour,
		FrequencyQuarterly: 90 * 24 * time.Hour,
		FrequencyAnnually:  365 * 24 * time.Hour,
	}
	for freq, want := range cases {
		if got := freq.Duration(); got != want {
			t.Fatalf("%s.Duration() = %v, want %v", freq, got, want)
		}
	}
}

func TestGenerateReviewID(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	id := engine.GenerateReviewID(KindUserAccess, time.Now())
	if id[:7] != "review-" {
		t.Fatalf("expected review ID to start with 'review-', got %q", id)
	}
}

func TestStartUserAccessReviewRejectsWhenDisabled(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	_, err := engine.StartUserAccessReview(nil)
	if !errs.Is(err, errs.KindValidation) {
		t.Fatalf("expected a validation error when review is disabled, got %v", err)
	}
}

func TestStartUserAccessReviewComputesFindings(t *testing.T) {
	engine := NewEngine(enabledConfig())

	inactive120 := uint64(120)
	inactive10 := uint64(10)
	manyPerms := make([]string, 15)
	for i := range manyPerms {
		manyPerms[i] = "perm"
	}
	recentLogin := time.Now().Add(-10 * 24 * time.Hour)
	staleLogin := time.Now().Add(-120 * 24 * time.Hour)

	users := []UserAccessInfo{
		{
			UserID:        uuid.New(),
			Username:      "user1",
			Permissions:   []string{"read", "write"},
			LastLogin:     &recentLogin,
			AccessGranted: time.Now().Add(-100 * 24 * time.Hour),
			DaysInactive:  &inactive10,
			IsActive:      true,
		},
		{
			UserID:        uuid.New(),
			Username:      "user2",
			Permissions:   manyPerms,
			LastLogin:     &staleLogin,
			AccessGranted: time.Now().Add(-200 * 24 * time.Hour),
			DaysInactive:  &inactive120,
			IsActive:      true,
		},
	}

	review, err := engine.StartUserAccessReview(users)
	if err != nil {
		t.Fatalf("StartUserAccessReview failed: %v", err)
	}
	if review.Kind != KindUserAccess {
		t.Fatalf("expected KindUserAccess, got %v", review.Kind)
	}
	if review.TotalItems != 2 {
		t.Fatalf("expected 2 total items, got %d", review.TotalItems)
	}
	if review.Findings.InactiveUsers == 0 {
		t.Fatalf("expected at least one inactive user finding")
	}
	if review.Findings.ExcessivePermissions == 0 {
		t.Fatalf("expected at least one excessive permissions finding")
	}
}

func TestApproveUserAccess(t *testing.T) {
	engine := NewEngine(enabledConfig())
	user := UserAccessInfo{
		UserID:        uuid.New(),
		Username:      "user1",
		Permissions:   []string{"read"},
		AccessGranted: time.Now().Add(-10 * 24 * time.Hour),
		IsActive:      true,
	}
	review, err := engine.StartUserAccessReview([]UserAccessInfo{user})
	if err != nil {
		t.Fatalf("StartUserAccessReview failed: %v", err)
	}

	approver := uuid.New()
	if err := engine.ApproveUserAccess(review.ReviewID, user.UserID, approver, nil); err != nil {
		t.Fatalf("ApproveUserAccess failed: %v", err)
	}

	got, ok := engine.GetReview(review.ReviewID)
	if !ok {
		t.Fatalf("expected review %s to exist", review.ReviewID)
	}
	if got.ItemsReviewed != 1 || got.PendingApprovals != 0 {
		t.Fatalf("unexpected review state after approval: %+v", got)
	}
}

func TestRevokeUserAccess(t *testing.T) {
	engine := NewEngine(enabledConfig())
	user := UserAccessInfo{
		UserID:        uuid.New(),
		Username:      "user1",
		Permissions:   []string{"read"},
		AccessGranted: time.Now().Add(-10 * 24 * time.Hour),
		IsActive:      true,
	}
	review, err := engine.StartUserAccessReview([]UserAccessInfo{user})
	if err != nil {
		t.Fatalf("StartUserAccessReview failed: %v", err)
	}

	revoker := uuid.New()
	if err := engine.RevokeUserAccess(review.ReviewID, user.UserID, revoker, "no longer needed"); err != nil {
		t.Fatalf("RevokeUserAccess failed: %v", err)
	}

	got, ok := engine.GetReview(review.ReviewID)
	if !ok {
		t.Fatalf("expected review %s to exist", review.ReviewID)
	}
	if got.ActionsTaken.UsersRevoked != 1 {
		t.Fatalf("expected UsersRevoked=1, got %+v", got.ActionsTaken)
	}
}

func TestStartResourceAccessReview(t *testing.T) {
	engine := NewEngine(enabledConfig())
	userID := uuid.New()
	staleAccess := time.Now().Add(-120 * 24 * time.Hour)

	resources := []ResourceAccessInfo{
		{
			ResourceType:    "billing",
			ResourceID:      "res-1",
			UsersWithAccess: []uuid.UUID{userID},
			AccessLevels:    map[uuid.UUID]string{userID: "admin"},
			LastAccess:      map[uuid.UUID]*time.Time{userID: &staleAccess},
		},
	}

	review, err := engine.StartResourceAccessReview(resources)
	if err != nil {
		t.Fatalf("StartResourceAccessReview failed: %v", err)
	}
	if review.Kind != KindResourceAccess {
		t.Fatalf("expected KindResourceAccess, got %v", review.Kind)
	}
	if review.TotalItems != 1 {
		t.Fatalf("expected 1 total item, got %d", review.TotalItems)
	}
	if review.Findings.Custom["sensitive_resources_reviewed"] != 1 {
		t.Fatalf("expected 1 sensitive resource reviewed, got %+v", review.Findings.Custom)
	}
	if review.Findings.NoRecentAccess < 1 {
		t.Fatalf("expected at least one stale access finding, got %+v", review.Findings)
	}
}

func TestStartPrivilegedAccessReviewFlagsMissingMFA(t *testing.T) {
	engine := NewEngine(enabledConfig())
	users := []PrivilegedAccessInfo{
		{UserID: uuid.New(), Username: "admin1", MFAEnabled: false},
		{UserID: uuid.New(), Username: "admin2", MFAEnabled: true},
	}

	review, err := engine.StartPrivilegedAccessReview(users)
	if err != nil {
		t.Fatalf("StartPrivilegedAccessReview failed: %v", err)
	}
	if review.Findings.PrivilegedWithoutMFA != 1 {
		t.Fatalf("expected 1 user without MFA, got %d", review.Findings.PrivilegedWithoutMFA)
	}
}

func TestStartAPITokenReviewFlagsUnusedAndExpiring(t *testing.T) {
	engine := NewEngine(enabledConfig())
	unused := uint64(120)
	soonExpiry := time.Now().Add(5 * 24 * time.Hour)

	tokens := []APITokenInfo{
		{TokenID: "tok-1", OwnerID: uuid.New(), DaysUnused: &unused, IsActive: true},
		{TokenID: "tok-2", OwnerID: uuid.New(), ExpiresAt: &soonExpiry, IsActive: true},
	}

	review, err := engine.StartAPITokenReview(tokens)
	if err != nil {
		t.Fatalf("StartAPITokenReview failed: %v", err)
	}
	if review.Findings.UnusedTokens != 1 {
		t.Fatalf("expected 1 unused token, got %d", review.Findings.UnusedTokens)
	}
	if review.Findings.ExpiringSoon != 1 {
		t.Fatalf("expected 1 expiring-soon token, got %d", review.Findings.ExpiringSoon)
	}
}

func TestCheckAutoRevocationRevokesPastDeadline(t *testing.T) {
	engine := NewEngine(enabledConfig())
	user := UserAccessInfo{
		UserID:        uuid.New(),
		Username:      "user1",
		AccessGranted: time.Now().Add(-10 * 24 * time.Hour),
		IsActive:      true,
	}
	review, err := engine.StartUserAccessReview([]UserAccessInfo{user})
	if err != nil {
		t.Fatalf("StartUserAccessReview failed: %v", err)
	}

	items, _ := engine.GetReviewItems(review.ReviewID)
	past := time.Now().Add(-time.Hour)
	items[user.UserID].ApprovalDeadline = &past

	revoked := engine.CheckAutoRevocation()
	if len(revoked) != 1 {
		t.Fatalf("expected 1 auto-revoked item, got %d", len(revoked))
	}

	got, _ := engine.GetReview(review.ReviewID)
	if got.ActionsTaken.UsersRevoked != 1 {
		t.Fatalf("expected 1 revoked action, got %+v", got.ActionsTaken)
	}
}

func TestCompleteReview(t *testing.T) {
	engine := NewEngine(enabledConfig())
	review, err := engine.StartUserAccessReview(nil)
	if err != nil {
		t.Fatalf("StartUserAccessReview failed: %v", err)
	}
	if err := engine.CompleteReview(review.ReviewID); err != nil {
		t.Fatalf("CompleteReview failed: %v", err)
	}
	got, _ := engine.GetReview(review.ReviewID)
	if got.Status != StatusCompleted {
		t.Fatalf("expected StatusCompleted, got %v", got.Status)
	}
}
