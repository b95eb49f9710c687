package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

// FamilyService owns family member profiles, medical history records, and
// the health permission grants that delegate read access between users.
type FamilyService struct {
	repo  ports.FamilyRepository
	users ports.UserRepository
	now   func() time.Time
}

func NewFamilyService(repo ports.FamilyRepository, users ports.UserRepository) *FamilyService {
	return &FamilyService{repo: repo, users: users, now: time.Now}
}

// Family members

type FamilyMemberInput struct {
	Name               string     `json:"name"`
	Relationship       string     `json:"relationship"`
	DateOfBirth        *time.Time `json:"date_of_birth"`
	Gender             string     `json:"gender"`
	Phone              string     `json:"phone"`
	Email              string     `json:"email"`
	BloodGroup         string     `json:"blood_group"`
	Allergies          []string   `json:"allergies"`
	ChronicConditions  []string   `json:"chronic_conditions"`
	CurrentMedications []string   `json:"current_medications"`
	IsDependent        bool       `json:"is_dependent"`
	CanManageOwnHealth bool       `json:"can_manage_own_health"`
}

func (s *FamilyService) AddMember(ctx context.Context, userID string, in FamilyMemberInput) (*domain.FamilyMember, error) {
	if in.Name == "" || in.Relationship == "" {
		return nil, domain.Validation("name and relationship are required")
	}

	member := &domain.FamilyMember{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Name:               in.Name,
		Relationship:       in.Relationship,
		DateOfBirth:        in.DateOfBirth,
		Gender:             in.Gender,
		Phone:              in.Phone,
		Email:              in.Email,
		BloodGroup:         in.BloodGroup,
		Allergies:          in.Allergies,
		ChronicConditions:  in.ChronicConditions,
		CurrentMedications: in.CurrentMedications,
		IsDependent:        in.IsDependent,
		CanManageOwnHealth: in.CanManageOwnHealth,
		CreatedAt:          s.now(),
		UpdatedAt:          s.now(),
	}
	if err := s.repo.CreateMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *FamilyService) ListMembers(ctx context.Context, userID string, f domain.FamilyMemberFilter, p domain.Page) ([]domain.FamilyMember, domain.PageMeta, error) {
	members, total, err := s.repo.ListMembers(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return members, p.Meta(total), nil
}

func (s *FamilyService) GetMember(ctx context.Context, userID, memberID string) (*domain.FamilyMember, error) {
	return s.repo.FindMember(ctx, memberID, userID)
}

func (s *FamilyService) UpdateMember(ctx context.Context, userID, memberID string, in FamilyMemberInput) (*domain.FamilyMember, error) {
	member, err := s.repo.FindMember(ctx, memberID, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		member.Name = in.Name
	}
	if in.Relationship != "" {
		member.Relationship = in.Relationship
	}
	if in.DateOfBirth != nil {
		member.DateOfBirth = in.DateOfBirth
	}
	if in.Gender != "" {
		member.Gender = in.Gender
	}
	if in.Phone != "" {
		member.Phone = in.Phone
	}
	if in.Email != "" {
		member.Email = in.Email
	}
	if in.BloodGroup != "" {
		member.BloodGroup = in.BloodGroup
	}
	if in.Allergies != nil {
		member.Allergies = in.Allergies
	}
	if in.ChronicConditions != nil {
		member.ChronicConditions = in.ChronicConditions
	}
	if in.CurrentMedications != nil {
		member.CurrentMedications = in.CurrentMedications
	}
	member.UpdatedAt = s.now()

	if err := s.repo.UpdateMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember refuses to delete a member that is still the scope of an
// active permission grant.
func (s *FamilyService) RemoveMember(ctx context.Context, userID, memberID string) error {
	member, err := s.repo.FindMember(ctx, memberID, userID)
	if err != nil {
		return err
	}

	held, err := s.repo.MemberHasActivePermissions(ctx, member.ID)
	if err != nil {
		return err
	}
	if held {
		return domain.Conflict("revoke the member's health permissions before removing them")
	}
	return s.repo.DeleteMember(ctx, member.ID)
}

// Medical history

type MedicalHistoryInput struct {
	FamilyMemberID string            `json:"family_member_id"`
	RecordType     domain.RecordType `json:"record_type"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	RecordDate     time.Time         `json:"record_date"`
	DoctorName     string            `json:"doctor_name"`
	HospitalName   string            `json:"hospital_name"`
	IsShared       *bool             `json:"is_shared"`
	SharedWith     []string          `json:"shared_with"`
}

// AddHistory creates a record owned either by the caller directly or by one
// of the caller's family members, never both.
func (s *FamilyService) AddHistory(ctx context.Context, userID string, in MedicalHistoryInput) (*domain.MedicalHistory, error) {
	if in.Title == "" || in.RecordType == "" {
		return nil, domain.Validation("title and record type are required")
	}

	record := &domain.MedicalHistory{
		ID:           uuid.NewString(),
		RecordType:   in.RecordType,
		Title:        in.Title,
		Description:  in.Description,
		RecordDate:   in.RecordDate,
		DoctorName:   in.DoctorName,
		HospitalName: in.HospitalName,
		SharedWith:   in.SharedWith,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}
	if in.IsShared != nil {
		record.IsShared = *in.IsShared
	}
	if record.SharedWith == nil {
		record.SharedWith = []string{}
	}

	if in.FamilyMemberID != "" {
		if _, err := s.repo.FindMember(ctx, in.FamilyMemberID, userID); err != nil {
			return nil, err
		}
		record.FamilyMemberID = in.FamilyMemberID
	} else {
		record.UserID = userID
	}

	if err := s.repo.CreateHistory(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *FamilyService) ListHistory(ctx context.Context, userID string, f domain.MedicalHistoryFilter, p domain.Page) ([]domain.MedicalHistory, domain.PageMeta, error) {
	records, total, err := s.repo.ListHistory(ctx, userID, f, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return records, p.Meta(total), nil
}

func (s *FamilyService) GetHistory(ctx context.Context, userID, recordID string) (*domain.MedicalHistory, error) {
	return s.repo.FindHistoryOwned(ctx, recordID, userID)
}

func (s *FamilyService) UpdateHistory(ctx context.Context, userID, recordID string, in MedicalHistoryInput) (*domain.MedicalHistory, error) {
	record, err := s.repo.FindHistoryOwned(ctx, recordID, userID)
	if err != nil {
		return nil, err
	}

	if in.RecordType != "" {
		record.RecordType = in.RecordType
	}
	if in.Title != "" {
		record.Title = in.Title
	}
	if in.Description != "" {
		record.Description = in.Description
	}
	if !in.RecordDate.IsZero() {
		record.RecordDate = in.RecordDate
	}
	if in.DoctorName != "" {
		record.DoctorName = in.DoctorName
	}
	if in.HospitalName != "" {
		record.HospitalName = in.HospitalName
	}
	if in.IsShared != nil {
		record.IsShared = *in.IsShared
	}
	if in.SharedWith != nil {
		record.SharedWith = in.SharedWith
	}
	record.UpdatedAt = s.now()

	if err := s.repo.UpdateHistory(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *FamilyService) RemoveHistory(ctx context.Context, userID, recordID string) error {
	record, err := s.repo.FindHistoryOwned(ctx, recordID, userID)
	if err != nil {
		return err
	}
	return s.repo.DeleteHistory(ctx, record.ID)
}

// Permissions

type PermissionInput struct {
	GranteeUserID  string                 `json:"grantee_user_id"`
	FamilyMemberID string                 `json:"family_member_id"`
	Level          domain.PermissionLevel `json:"permission_level"`
	ExpiresAt      *time.Time             `json:"expires_at"`
}

// GrantPermission creates a delegation edge from the caller to the grantee.
// At most one active grant may exist per (granter, grantee, member) triple.
func (s *FamilyService) GrantPermission(ctx context.Context, granterID string, in PermissionInput) (*domain.HealthPermission, error) {
	if !in.Level.Satisfies(domain.PermissionView) {
		return nil, domain.Validation("permission level must be view, manage, or full")
	}
	if in.GranteeUserID == granterID {
		return nil, domain.Validation("cannot grant a permission to yourself")
	}

	grantee, err := s.users.FindByID(ctx, in.GranteeUserID)
	if err != nil {
		return nil, err
	}
	if !grantee.IsActive {
		return nil, domain.NotFound("user not found")
	}

	if in.FamilyMemberID != "" {
		if _, err := s.repo.FindMember(ctx, in.FamilyMemberID, granterID); err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.FindActivePermission(ctx, granterID, in.GranteeUserID, in.FamilyMemberID)
	if err != nil && domain.ClassOf(err) != domain.ClassNotFound {
		return nil, err
	}
	if existing != nil && !existing.Expired(s.now()) {
		return nil, domain.Conflict("an active permission already exists for this user")
	}
	if existing != nil {
		// Expired leftover row; retire it so the unique-active rule holds.
		if err := s.repo.DeactivatePermission(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	perm := &domain.HealthPermission{
		ID:             uuid.NewString(),
		GranterUserID:  granterID,
		GranteeUserID:  in.GranteeUserID,
		FamilyMemberID: in.FamilyMemberID,
		Level:          in.Level,
		ExpiresAt:      in.ExpiresAt,
		IsActive:       true,
		CreatedAt:      s.now(),
		UpdatedAt:      s.now(),
	}
	if err := s.repo.CreatePermission(ctx, perm); err != nil {
		return nil, err
	}
	return perm, nil
}

func (s *FamilyService) ListPermissionsGranted(ctx context.Context, userID string, p domain.Page) ([]domain.HealthPermission, domain.PageMeta, error) {
	perms, total, err := s.repo.ListPermissionsGranted(ctx, userID, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return perms, p.Meta(total), nil
}

func (s *FamilyService) ListPermissionsReceived(ctx context.Context, userID string, p domain.Page) ([]domain.HealthPermission, domain.PageMeta, error) {
	perms, total, err := s.repo.ListPermissionsReceived(ctx, userID, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return perms, p.Meta(total), nil
}

type PermissionUpdateInput struct {
	Level     domain.PermissionLevel `json:"permission_level"`
	ExpiresAt *time.Time             `json:"expires_at"`
}

func (s *FamilyService) UpdatePermission(ctx context.Context, granterID, permID string, in PermissionUpdateInput) (*domain.HealthPermission, error) {
	perm, err := s.repo.FindPermission(ctx, permID, granterID)
	if err != nil {
		return nil, err
	}
	if !perm.IsActive {
		return nil, domain.Conflict("permission has been revoked")
	}

	if in.Level != "" {
		if !in.Level.Satisfies(domain.PermissionView) {
			return nil, domain.Validation("permission level must be view, manage, or full")
		}
		perm.Level = in.Level
	}
	if in.ExpiresAt != nil {
		perm.ExpiresAt = in.ExpiresAt
	}
	perm.UpdatedAt = s.now()

	if err := s.repo.UpdatePermission(ctx, perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// RevokePermission deactivates the grant; the row is kept for audit.
func (s *FamilyService) RevokePermission(ctx context.Context, granterID, permID string) error {
	perm, err := s.repo.FindPermission(ctx, permID, granterID)
	if err != nil {
		return err
	}
	if !perm.IsActive {
		return domain.Conflict("permission is already revoked")
	}
	return s.repo.DeactivatePermission(ctx, perm.ID)
}

// HasAccess decides whether the grantee may reach the granter's health
// data, optionally scoped to one family member, at the required level.
// Only the exact (granter, grantee, member) triple counts: an unscoped
// grant never covers member-scoped reads and vice versa. Expiry is
// enforced lazily, deactivating the row on first sight.
func (s *FamilyService) HasAccess(ctx context.Context, granteeID, granterID, familyMemberID string, required domain.PermissionLevel) (bool, error) {
	perm, err := s.repo.FindActivePermission(ctx, granterID, granteeID, familyMemberID)
	if err != nil {
		if domain.ClassOf(err) == domain.ClassNotFound {
			return false, nil
		}
		return false, err
	}
	if perm.Expired(s.now()) {
		if err := s.repo.DeactivatePermission(ctx, perm.ID); err != nil {
			return false, err
		}
		return false, nil
	}
	return perm.Level.Satisfies(required), nil
}

// GetSharedHistory returns another user's shared records. Access requires
// both a valid view-level permission and, per record, the shared flag plus
// the caller's id in the record's share list; the repository applies the
// per-record half of that conjunction.
func (s *FamilyService) GetSharedHistory(ctx context.Context, requesterID, granterID, familyMemberID string, p domain.Page) ([]domain.MedicalHistory, domain.PageMeta, error) {
	ok, err := s.HasAccess(ctx, requesterID, granterID, familyMemberID, domain.PermissionView)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	if !ok {
		return nil, domain.PageMeta{}, domain.Forbidden("access denied")
	}

	records, total, err := s.repo.ListSharedHistory(ctx, granterID, requesterID, familyMemberID, p)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return records, p.Meta(total), nil
}
