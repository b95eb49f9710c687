package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

type FamilyRepository struct {
	db *sql.DB
}

var _ ports.FamilyRepository = (*FamilyRepository)(nil)

func NewFamilyRepository(db *sql.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// Members

const memberColumns = `id, user_id, name, relationship, date_of_birth, gender, phone, email,
	blood_group, allergies, chronic_conditions, current_medications, is_dependent,
	can_manage_own_health, created_at, updated_at`

func (r *FamilyRepository) CreateMember(ctx context.Context, m *domain.FamilyMember) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO family_members (`+memberColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		m.ID, m.UserID, m.Name, m.Relationship, m.DateOfBirth, m.Gender, m.Phone, m.Email,
		m.BloodGroup, pq.Array(m.Allergies), pq.Array(m.ChronicConditions),
		pq.Array(m.CurrentMedications), m.IsDependent, m.CanManageOwnHealth,
		m.CreatedAt, m.UpdatedAt)
	return err
}

func (r *FamilyRepository) ListMembers(ctx context.Context, userID string, f domain.FamilyMemberFilter, p domain.Page) ([]domain.FamilyMember, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.Relationship != "" {
		args = append(args, f.Relationship)
		where = append(where, fmt.Sprintf("relationship = $%d", len(args)))
	}
	if f.IsDependent != nil {
		args = append(args, *f.IsDependent)
		where = append(where, fmt.Sprintf("is_dependent = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM family_members WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM family_members WHERE %s ORDER BY created_at ASC LIMIT $%d OFFSET $%d`,
			memberColumns, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	members := []domain.FamilyMember{}
	for rows.Next() {
		var m domain.FamilyMember
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Relationship, &m.DateOfBirth,
			&m.Gender, &m.Phone, &m.Email, &m.BloodGroup, pq.Array(&m.Allergies),
			pq.Array(&m.ChronicConditions), pq.Array(&m.CurrentMedications),
			&m.IsDependent, &m.CanManageOwnHealth, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		members = append(members, m)
	}
	return members, total, rows.Err()
}

func (r *FamilyRepository) FindMember(ctx context.Context, id, userID string) (*domain.FamilyMember, error) {
	var m domain.FamilyMember
	err := r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM family_members WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&m.ID, &m.UserID, &m.Name, &m.Relationship, &m.DateOfBirth,
		&m.Gender, &m.Phone, &m.Email, &m.BloodGroup, pq.Array(&m.Allergies),
		pq.Array(&m.ChronicConditions), pq.Array(&m.CurrentMedications),
		&m.IsDependent, &m.CanManageOwnHealth, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "family member not found")
	}
	return &m, nil
}

func (r *FamilyRepository) UpdateMember(ctx context.Context, m *domain.FamilyMember) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE family_members SET name = $3, relationship = $4, date_of_birth = $5, gender = $6,
		 phone = $7, email = $8, blood_group = $9, allergies = $10, chronic_conditions = $11,
		 current_medications = $12, is_dependent = $13, can_manage_own_health = $14, updated_at = $15
		 WHERE id = $1 AND user_id = $2`,
		m.ID, m.UserID, m.Name, m.Relationship, m.DateOfBirth, m.Gender, m.Phone, m.Email,
		m.BloodGroup, pq.Array(m.Allergies), pq.Array(m.ChronicConditions),
		pq.Array(m.CurrentMedications), m.IsDependent, m.CanManageOwnHealth, m.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "family member not found")
}

func (r *FamilyRepository) DeleteMember(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM family_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "family member not found")
}

func (r *FamilyRepository) MemberHasActivePermissions(ctx context.Context, memberID string) (bool, error) {
	var held bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM health_permissions WHERE family_member_id = $1 AND is_active = TRUE
		 )`, memberID).Scan(&held)
	return held, err
}

// Medical history

const historyColumns = `id, user_id, family_member_id, record_type, title, description,
	record_date, doctor_name, hospital_name, is_shared, shared_with, created_at, updated_at`

const historySelect = `id, COALESCE(user_id, ''), COALESCE(family_member_id, ''), record_type,
	title, description, record_date, doctor_name, hospital_name, is_shared, shared_with,
	created_at, updated_at`

func (r *FamilyRepository) CreateHistory(ctx context.Context, h *domain.MedicalHistory) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO medical_history (`+historyColumns+`)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		h.ID, h.UserID, h.FamilyMemberID, h.RecordType, h.Title, h.Description,
		h.RecordDate, h.DoctorName, h.HospitalName, h.IsShared, pq.Array(h.SharedWith),
		h.CreatedAt, h.UpdatedAt)
	return err
}

// ownedCondition matches records owned by the user directly or by one of
// the user's family members.
const ownedCondition = `(user_id = $1 OR family_member_id IN (
	SELECT id FROM family_members WHERE user_id = $1))`

func (r *FamilyRepository) ListHistory(ctx context.Context, userID string, f domain.MedicalHistoryFilter, p domain.Page) ([]domain.MedicalHistory, int, error) {
	where := []string{ownedCondition}
	args := []any{userID}
	if f.RecordType != "" {
		args = append(args, f.RecordType)
		where = append(where, fmt.Sprintf("record_type = $%d", len(args)))
	}
	if f.FamilyMemberID != "" {
		args = append(args, f.FamilyMemberID)
		where = append(where, fmt.Sprintf("family_member_id = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM medical_history WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM medical_history WHERE %s ORDER BY record_date DESC LIMIT $%d OFFSET $%d`,
			historySelect, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return scanHistoryRows(rows, total)
}

func (r *FamilyRepository) FindHistoryOwned(ctx context.Context, id, userID string) (*domain.MedicalHistory, error) {
	var h domain.MedicalHistory
	err := r.db.QueryRowContext(ctx,
		`SELECT `+historySelect+` FROM medical_history
		 WHERE id = $1 AND (user_id = $2 OR family_member_id IN (
		   SELECT id FROM family_members WHERE user_id = $2))`,
		id, userID,
	).Scan(&h.ID, &h.UserID, &h.FamilyMemberID, &h.RecordType, &h.Title, &h.Description,
		&h.RecordDate, &h.DoctorName, &h.HospitalName, &h.IsShared, pq.Array(&h.SharedWith),
		&h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "medical record not found")
	}
	return &h, nil
}

func (r *FamilyRepository) UpdateHistory(ctx context.Context, h *domain.MedicalHistory) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE medical_history SET record_type = $2, title = $3, description = $4,
		 record_date = $5, doctor_name = $6, hospital_name = $7, is_shared = $8,
		 shared_with = $9, updated_at = $10
		 WHERE id = $1`,
		h.ID, h.RecordType, h.Title, h.Description, h.RecordDate, h.DoctorName,
		h.HospitalName, h.IsShared, pq.Array(h.SharedWith), h.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "medical record not found")
}

func (r *FamilyRepository) DeleteHistory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medical_history WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "medical record not found")
}

// sharedHistoryFilter builds the WHERE clause for shared reads. Every
// bound argument must be referenced in the returned condition; Postgres
// rejects statements with unreferenced parameters at parse time.
func sharedHistoryFilter(granterUserID, granteeUserID, familyMemberID string) (string, []any) {
	// Shared reads require both the record-level flag and an explicit
	// entry in the record's share list.
	where := []string{
		"is_shared = TRUE",
		"$2 = ANY(shared_with)",
	}
	args := []any{granterUserID, granteeUserID}
	if familyMemberID != "" {
		args = append(args, familyMemberID)
		where = append(where,
			fmt.Sprintf("family_member_id = $%d", len(args)),
			"family_member_id IN (SELECT id FROM family_members WHERE user_id = $1)")
	} else {
		where = append(where, "user_id = $1")
	}
	return strings.Join(where, " AND "), args
}

func (r *FamilyRepository) ListSharedHistory(ctx context.Context, granterUserID, granteeUserID, familyMemberID string, p domain.Page) ([]domain.MedicalHistory, int, error) {
	cond, args := sharedHistoryFilter(granterUserID, granteeUserID, familyMemberID)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM medical_history WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit, p.Offset())
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM medical_history WHERE %s ORDER BY record_date DESC LIMIT $%d OFFSET $%d`,
			historySelect, cond, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return scanHistoryRows(rows, total)
}

func scanHistoryRows(rows *sql.Rows, total int) ([]domain.MedicalHistory, int, error) {
	records := []domain.MedicalHistory{}
	for rows.Next() {
		var h domain.MedicalHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.FamilyMemberID, &h.RecordType, &h.Title,
			&h.Description, &h.RecordDate, &h.DoctorName, &h.HospitalName, &h.IsShared,
			pq.Array(&h.SharedWith), &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, 0, err
		}
		records = append(records, h)
	}
	return records, total, rows.Err()
}

// Permissions

const permissionColumns = `id, granter_user_id, grantee_user_id, family_member_id,
	permission_level, expires_at, is_active, created_at, updated_at`

const permissionSelect = `id, granter_user_id, grantee_user_id, COALESCE(family_member_id, ''),
	permission_level, expires_at, is_active, created_at, updated_at`

func (r *FamilyRepository) CreatePermission(ctx context.Context, perm *domain.HealthPermission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO health_permissions (`+permissionColumns+`)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)`,
		perm.ID, perm.GranterUserID, perm.GranteeUserID, perm.FamilyMemberID,
		perm.Level, perm.ExpiresAt, perm.IsActive, perm.CreatedAt, perm.UpdatedAt)
	return err
}

func (r *FamilyRepository) FindActivePermission(ctx context.Context, granterUserID, granteeUserID, familyMemberID string) (*domain.HealthPermission, error) {
	// Exact triple match: an unscoped grant only matches an unscoped
	// lookup, a member-scoped grant only matches that member.
	query := `SELECT ` + permissionSelect + ` FROM health_permissions
	 WHERE granter_user_id = $1 AND grantee_user_id = $2 AND is_active = TRUE`
	args := []any{granterUserID, granteeUserID}
	if familyMemberID != "" {
		args = append(args, familyMemberID)
		query += ` AND family_member_id = $3`
	} else {
		query += ` AND family_member_id IS NULL`
	}

	var perm domain.HealthPermission
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&perm.ID, &perm.GranterUserID, &perm.GranteeUserID, &perm.FamilyMemberID,
		&perm.Level, &perm.ExpiresAt, &perm.IsActive, &perm.CreatedAt, &perm.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "permission not found")
	}
	return &perm, nil
}

func (r *FamilyRepository) ListPermissionsGranted(ctx context.Context, userID string, p domain.Page) ([]domain.HealthPermission, int, error) {
	return r.listPermissions(ctx, "granter_user_id", userID, p)
}

func (r *FamilyRepository) ListPermissionsReceived(ctx context.Context, userID string, p domain.Page) ([]domain.HealthPermission, int, error) {
	return r.listPermissions(ctx, "grantee_user_id", userID, p)
}

func (r *FamilyRepository) listPermissions(ctx context.Context, column, userID string, p domain.Page) ([]domain.HealthPermission, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM health_permissions WHERE %s = $1`, column),
		userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM health_permissions WHERE %s = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			permissionSelect, column),
		userID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	perms := []domain.HealthPermission{}
	for rows.Next() {
		var perm domain.HealthPermission
		if err := rows.Scan(&perm.ID, &perm.GranterUserID, &perm.GranteeUserID,
			&perm.FamilyMemberID, &perm.Level, &perm.ExpiresAt, &perm.IsActive,
			&perm.CreatedAt, &perm.UpdatedAt); err != nil {
			return nil, 0, err
		}
		perms = append(perms, perm)
	}
	return perms, total, rows.Err()
}

func (r *FamilyRepository) FindPermission(ctx context.Context, id, granterUserID string) (*domain.HealthPermission, error) {
	var perm domain.HealthPermission
	err := r.db.QueryRowContext(ctx,
		`SELECT `+permissionSelect+` FROM health_permissions
		 WHERE id = $1 AND granter_user_id = $2`,
		id, granterUserID,
	).Scan(&perm.ID, &perm.GranterUserID, &perm.GranteeUserID, &perm.FamilyMemberID,
		&perm.Level, &perm.ExpiresAt, &perm.IsActive, &perm.CreatedAt, &perm.UpdatedAt)
	if err != nil {
		return nil, asNotFound(err, "permission not found")
	}
	return &perm, nil
}

func (r *FamilyRepository) UpdatePermission(ctx context.Context, perm *domain.HealthPermission) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE health_permissions SET permission_level = $2, expires_at = $3, is_active = $4,
		 updated_at = $5
		 WHERE id = $1`,
		perm.ID, perm.Level, perm.ExpiresAt, perm.IsActive, perm.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, "permission not found")
}

func (r *FamilyRepository) DeactivatePermission(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE health_permissions SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "permission not found")
}
