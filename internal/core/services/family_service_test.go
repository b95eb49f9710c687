package services

import (
	"context"
	"testing"
	"time"

	"github.com/arogyahq/care-platform/internal/core/domain"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newFamilyServiceForTest(repo *mockFamilyRepo, users *mockUserRepo) *FamilyService {
	s := NewFamilyService(repo, users)
	s.now = fixedNow
	return s
}

func activeGrant(granter, grantee, member string, level domain.PermissionLevel) *domain.HealthPermission {
	return &domain.HealthPermission{
		ID:             "perm-" + granter + "-" + grantee + "-" + member,
		GranterUserID:  granter,
		GranteeUserID:  grantee,
		FamilyMemberID: member,
		Level:          level,
		IsActive:       true,
		CreatedAt:      fixedNow().Add(-24 * time.Hour),
	}
}

func TestFamilyService_HasAccess_ExactTriple(t *testing.T) {
	tests := []struct {
		name        string
		grant       *domain.HealthPermission
		granteeID   string
		granterID   string
		memberID    string
		required    domain.PermissionLevel
		wantAllowed bool
	}{
		{
			name:        "unscoped_grant_allows_unscoped_read",
			grant:       activeGrant("alice", "bob", "", domain.PermissionView),
			granteeID:   "bob",
			granterID:   "alice",
			memberID:    "",
			required:    domain.PermissionView,
			wantAllowed: true,
		},
		{
			name:        "unscoped_grant_does_not_cover_member_scope",
			grant:       activeGrant("alice", "bob", "", domain.PermissionFull),
			granteeID:   "bob",
			granterID:   "alice",
			memberID:    "member-1",
			required:    domain.PermissionView,
			wantAllowed: false,
		},
		{
			name:        "member_grant_does_not_cover_unscoped_read",
			grant:       activeGrant("alice", "bob", "member-1", domain.PermissionFull),
			granteeID:   "bob",
			granterID:   "alice",
			memberID:    "",
			required:    domain.PermissionView,
			wantAllowed: false,
		},
		{
			name:        "member_grant_allows_matching_member",
			grant:       activeGrant("alice", "bob", "member-1", domain.PermissionView),
			granteeID:   "bob",
			granterID:   "alice",
			memberID:    "member-1",
			required:    domain.PermissionView,
			wantAllowed: true,
		},
		{
			name:        "wrong_grantee_denied",
			grant:       activeGrant("alice", "bob", "", domain.PermissionFull),
			granteeID:   "mallory",
			granterID:   "alice",
			memberID:    "",
			required:    domain.PermissionView,
			wantAllowed: false,
		},
		{
			name:        "reversed_direction_denied",
			grant:       activeGrant("alice", "bob", "", domain.PermissionFull),
			granteeID:   "alice",
			granterID:   "bob",
			memberID:    "",
			required:    domain.PermissionView,
			wantAllowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockFamilyRepo()
			repo.addPermission(tt.grant)
			svc := newFamilyServiceForTest(repo, newMockUserRepo())

			ok, err := svc.HasAccess(context.Background(), tt.granteeID, tt.granterID, tt.memberID, tt.required)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantAllowed {
				t.Errorf("HasAccess = %v, want %v", ok, tt.wantAllowed)
			}
		})
	}
}

func TestFamilyService_HasAccess_LevelContainment(t *testing.T) {
	tests := []struct {
		granted     domain.PermissionLevel
		required    domain.PermissionLevel
		wantAllowed bool
	}{
		{domain.PermissionView, domain.PermissionView, true},
		{domain.PermissionView, domain.PermissionManage, false},
		{domain.PermissionView, domain.PermissionFull, false},
		{domain.PermissionManage, domain.PermissionView, true},
		{domain.PermissionManage, domain.PermissionManage, true},
		{domain.PermissionManage, domain.PermissionFull, false},
		{domain.PermissionFull, domain.PermissionView, true},
		{domain.PermissionFull, domain.PermissionManage, true},
		{domain.PermissionFull, domain.PermissionFull, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.granted)+"_satisfies_"+string(tt.required), func(t *testing.T) {
			repo := newMockFamilyRepo()
			repo.addPermission(activeGrant("alice", "bob", "", tt.granted))
			svc := newFamilyServiceForTest(repo, newMockUserRepo())

			ok, err := svc.HasAccess(context.Background(), "bob", "alice", "", tt.required)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantAllowed {
				t.Errorf("granted %s, required %s: got %v, want %v", tt.granted, tt.required, ok, tt.wantAllowed)
			}
		})
	}
}

func TestFamilyService_HasAccess_ExpiryIsSticky(t *testing.T) {
	repo := newMockFamilyRepo()
	expired := activeGrant("alice", "bob", "", domain.PermissionFull)
	past := fixedNow().Add(-time.Hour)
	expired.ExpiresAt = &past
	repo.addPermission(expired)

	svc := newFamilyServiceForTest(repo, newMockUserRepo())

	ok, err := svc.HasAccess(context.Background(), "bob", "alice", "", domain.PermissionView)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected expired permission to deny access")
	}
	if len(repo.DeactivateCalls) != 1 || repo.DeactivateCalls[0] != expired.ID {
		t.Errorf("expected the expired permission to be deactivated, got %v", repo.DeactivateCalls)
	}

	// The row was flipped inactive, so a later check finds nothing even if
	// the clock were rolled back.
	ok, err = svc.HasAccess(context.Background(), "bob", "alice", "", domain.PermissionView)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected deactivated permission to stay denied")
	}
}

func TestFamilyService_HasAccess_NoGrant(t *testing.T) {
	svc := newFamilyServiceForTest(newMockFamilyRepo(), newMockUserRepo())

	ok, err := svc.HasAccess(context.Background(), "bob", "alice", "", domain.PermissionView)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no grant to deny access")
	}
}

func TestFamilyService_GrantPermission(t *testing.T) {
	granteeUser := &domain.User{ID: "bob", Email: "bob@example.com", IsActive: true}

	tests := []struct {
		name      string
		setup     func(*mockFamilyRepo, *mockUserRepo)
		input     PermissionInput
		wantClass domain.ErrorClass
		wantErr   bool
	}{
		{
			name: "successful_grant",
			setup: func(repo *mockFamilyRepo, users *mockUserRepo) {
				users.add(granteeUser)
			},
			input: PermissionInput{GranteeUserID: "bob", Level: domain.PermissionView},
		},
		{
			name:      "self_grant_rejected",
			setup:     func(repo *mockFamilyRepo, users *mockUserRepo) {},
			input:     PermissionInput{GranteeUserID: "alice", Level: domain.PermissionView},
			wantErr:   true,
			wantClass: domain.ClassValidation,
		},
		{
			name:      "invalid_level_rejected",
			setup:     func(repo *mockFamilyRepo, users *mockUserRepo) {},
			input:     PermissionInput{GranteeUserID: "bob", Level: "admin"},
			wantErr:   true,
			wantClass: domain.ClassValidation,
		},
		{
			name:      "unknown_grantee_rejected",
			setup:     func(repo *mockFamilyRepo, users *mockUserRepo) {},
			input:     PermissionInput{GranteeUserID: "bob", Level: domain.PermissionView},
			wantErr:   true,
			wantClass: domain.ClassNotFound,
		},
		{
			name: "inactive_grantee_rejected",
			setup: func(repo *mockFamilyRepo, users *mockUserRepo) {
				users.add(&domain.User{ID: "bob", Email: "bob@example.com", IsActive: false})
			},
			input:     PermissionInput{GranteeUserID: "bob", Level: domain.PermissionView},
			wantErr:   true,
			wantClass: domain.ClassNotFound,
		},
		{
			name: "duplicate_active_grant_rejected",
			setup: func(repo *mockFamilyRepo, users *mockUserRepo) {
				users.add(granteeUser)
				repo.addPermission(activeGrant("alice", "bob", "", domain.PermissionView))
			},
			input:     PermissionInput{GranteeUserID: "bob", Level: domain.PermissionManage},
			wantErr:   true,
			wantClass: domain.ClassConflict,
		},
		{
			name: "member_scoped_grant_requires_owned_member",
			setup: func(repo *mockFamilyRepo, users *mockUserRepo) {
				users.add(granteeUser)
			},
			input:     PermissionInput{GranteeUserID: "bob", FamilyMemberID: "member-1", Level: domain.PermissionView},
			wantErr:   true,
			wantClass: domain.ClassNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockFamilyRepo()
			users := newMockUserRepo()
			tt.setup(repo, users)
			svc := newFamilyServiceForTest(repo, users)

			perm, err := svc.GrantPermission(context.Background(), "alice", tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if domain.ClassOf(err) != tt.wantClass {
					t.Errorf("error class = %v, want %v", domain.ClassOf(err), tt.wantClass)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !perm.IsActive {
				t.Error("new permission should be active")
			}
			if perm.GranterUserID != "alice" || perm.GranteeUserID != "bob" {
				t.Errorf("unexpected grant edge %s -> %s", perm.GranterUserID, perm.GranteeUserID)
			}
		})
	}
}

func TestFamilyService_GrantPermission_RetiresExpiredRow(t *testing.T) {
	repo := newMockFamilyRepo()
	users := newMockUserRepo()
	users.add(&domain.User{ID: "bob", Email: "bob@example.com", IsActive: true})

	stale := activeGrant("alice", "bob", "", domain.PermissionView)
	past := fixedNow().Add(-time.Hour)
	stale.ExpiresAt = &past
	repo.addPermission(stale)

	svc := newFamilyServiceForTest(repo, users)

	perm, err := svc.GrantPermission(context.Background(), "alice", PermissionInput{
		GranteeUserID: "bob",
		Level:         domain.PermissionManage,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.DeactivateCalls) != 1 || repo.DeactivateCalls[0] != stale.ID {
		t.Errorf("expected stale grant %s deactivated, got %v", stale.ID, repo.DeactivateCalls)
	}
	if perm.Level != domain.PermissionManage {
		t.Errorf("new grant level = %s, want manage", perm.Level)
	}
}

func TestFamilyService_RegrantAfterRevoke(t *testing.T) {
	repo := newMockFamilyRepo()
	users := newMockUserRepo()
	users.add(&domain.User{ID: "bob", Email: "bob@example.com", IsActive: true})
	svc := newFamilyServiceForTest(repo, users)

	perm, err := svc.GrantPermission(context.Background(), "alice", PermissionInput{
		GranteeUserID: "bob",
		Level:         domain.PermissionView,
	})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}

	if err := svc.RevokePermission(context.Background(), "alice", perm.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	// Revoking twice is a conflict.
	if err := svc.RevokePermission(context.Background(), "alice", perm.ID); domain.ClassOf(err) != domain.ClassConflict {
		t.Errorf("second revoke: got %v, want conflict", err)
	}

	// A fresh grant for the same triple is allowed once the old one is gone.
	if _, err := svc.GrantPermission(context.Background(), "alice", PermissionInput{
		GranteeUserID: "bob",
		Level:         domain.PermissionFull,
	}); err != nil {
		t.Fatalf("regrant: %v", err)
	}
}

func TestFamilyService_UpdatePermission_RevokedIsConflict(t *testing.T) {
	repo := newMockFamilyRepo()
	revoked := activeGrant("alice", "bob", "", domain.PermissionView)
	revoked.IsActive = false
	repo.addPermission(revoked)
	svc := newFamilyServiceForTest(repo, newMockUserRepo())

	_, err := svc.UpdatePermission(context.Background(), "alice", revoked.ID, PermissionUpdateInput{
		Level: domain.PermissionFull,
	})
	if domain.ClassOf(err) != domain.ClassConflict {
		t.Errorf("got %v, want conflict", err)
	}
}

func TestFamilyService_RemoveMember_BlockedByActivePermission(t *testing.T) {
	repo := newMockFamilyRepo()
	repo.members["member-1"] = &domain.FamilyMember{ID: "member-1", UserID: "alice", Name: "Mom", Relationship: "mother"}
	repo.memberHasPerms = true
	svc := newFamilyServiceForTest(repo, newMockUserRepo())

	err := svc.RemoveMember(context.Background(), "alice", "member-1")
	if domain.ClassOf(err) != domain.ClassConflict {
		t.Fatalf("got %v, want conflict", err)
	}
	if len(repo.DeleteMemberIDs) != 0 {
		t.Error("member must not be deleted while permissions reference it")
	}

	repo.memberHasPerms = false
	if err := svc.RemoveMember(context.Background(), "alice", "member-1"); err != nil {
		t.Fatalf("unexpected error after permissions cleared: %v", err)
	}
	if len(repo.DeleteMemberIDs) != 1 {
		t.Error("expected member deletion after permissions cleared")
	}
}

func TestFamilyService_GetSharedHistory(t *testing.T) {
	t.Run("denied_without_grant", func(t *testing.T) {
		svc := newFamilyServiceForTest(newMockFamilyRepo(), newMockUserRepo())

		_, _, err := svc.GetSharedHistory(context.Background(), "bob", "alice", "", domain.Page{Page: 1, Limit: 10})
		if domain.ClassOf(err) != domain.ClassForbidden {
			t.Errorf("got %v, want forbidden", err)
		}
	})

	t.Run("grant_alone_is_not_enough_repo_filters_per_record", func(t *testing.T) {
		repo := newMockFamilyRepo()
		repo.addPermission(activeGrant("alice", "bob", "", domain.PermissionView))
		repo.SharedHistory = []domain.MedicalHistory{}
		svc := newFamilyServiceForTest(repo, newMockUserRepo())

		records, meta, err := svc.GetSharedHistory(context.Background(), "bob", "alice", "", domain.Page{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 0 || meta.Total != 0 {
			t.Errorf("expected empty result when no record names the grantee, got %d records", len(records))
		}
		want := permKey{"alice", "bob", ""}
		if len(repo.SharedHistArgs) != 1 || repo.SharedHistArgs[0] != want {
			t.Errorf("repo queried with %v, want %v", repo.SharedHistArgs, want)
		}
	})

	t.Run("returns_shared_records", func(t *testing.T) {
		repo := newMockFamilyRepo()
		repo.addPermission(activeGrant("alice", "bob", "", domain.PermissionView))
		repo.SharedHistory = []domain.MedicalHistory{
			{ID: "rec-1", UserID: "alice", Title: "Diagnosis", IsShared: true, SharedWith: []string{"bob"}},
		}
		svc := newFamilyServiceForTest(repo, newMockUserRepo())

		records, meta, err := svc.GetSharedHistory(context.Background(), "bob", "alice", "", domain.Page{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 1 || records[0].ID != "rec-1" {
			t.Errorf("unexpected records: %+v", records)
		}
		if meta.Total != 1 {
			t.Errorf("meta.Total = %d, want 1", meta.Total)
		}
	})
}

func TestFamilyService_AddHistory_Ownership(t *testing.T) {
	repo := newMockFamilyRepo()
	repo.members["member-1"] = &domain.FamilyMember{ID: "member-1", UserID: "alice", Name: "Mom", Relationship: "mother"}
	svc := newFamilyServiceForTest(repo, newMockUserRepo())

	t.Run("direct_ownership", func(t *testing.T) {
		rec, err := svc.AddHistory(context.Background(), "alice", MedicalHistoryInput{
			RecordType: domain.RecordDiagnosis,
			Title:      "Hypertension",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.UserID != "alice" || rec.FamilyMemberID != "" {
			t.Errorf("expected user-owned record, got user=%q member=%q", rec.UserID, rec.FamilyMemberID)
		}
	})

	t.Run("member_ownership_excludes_user", func(t *testing.T) {
		rec, err := svc.AddHistory(context.Background(), "alice", MedicalHistoryInput{
			FamilyMemberID: "member-1",
			RecordType:     domain.RecordVaccination,
			Title:          "Flu shot",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.FamilyMemberID != "member-1" || rec.UserID != "" {
			t.Errorf("expected member-owned record, got user=%q member=%q", rec.UserID, rec.FamilyMemberID)
		}
	})

	t.Run("foreign_member_rejected", func(t *testing.T) {
		_, err := svc.AddHistory(context.Background(), "eve", MedicalHistoryInput{
			FamilyMemberID: "member-1",
			RecordType:     domain.RecordDiagnosis,
			Title:          "Sneaky",
		})
		if domain.ClassOf(err) != domain.ClassNotFound {
			t.Errorf("got %v, want not found", err)
		}
	})

	t.Run("missing_title_rejected", func(t *testing.T) {
		_, err := svc.AddHistory(context.Background(), "alice", MedicalHistoryInput{RecordType: domain.RecordOther})
		if domain.ClassOf(err) != domain.ClassValidation {
			t.Errorf("got %v, want validation", err)
		}
	})
}
