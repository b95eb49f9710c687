package domain

import "time"

type FamilyMember struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	Name               string     `json:"name"`
	Relationship       string     `json:"relationship"`
	DateOfBirth        *time.Time `json:"date_of_birth,omitempty"`
	Gender             string     `json:"gender,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	Email              string     `json:"email,omitempty"`
	BloodGroup         string     `json:"blood_group,omitempty"`
	Allergies          []string   `json:"allergies"`
	ChronicConditions  []string   `json:"chronic_conditions"`
	CurrentMedications []string   `json:"current_medications"`
	IsDependent        bool       `json:"is_dependent"`
	CanManageOwnHealth bool       `json:"can_manage_own_health"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type RecordType string

const (
	RecordDiagnosis   RecordType = "diagnosis"
	RecordSurgery     RecordType = "surgery"
	RecordAllergy     RecordType = "allergy"
	RecordMedication  RecordType = "medication"
	RecordVaccination RecordType = "vaccination"
	RecordTestResult  RecordType = "test-result"
	RecordOther       RecordType = "other"
)

// MedicalHistory belongs to either a user or a family member, never both.
// Exactly one of UserID/FamilyMemberID is set.
type MedicalHistory struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id,omitempty"`
	FamilyMemberID string     `json:"family_member_id,omitempty"`
	RecordType     RecordType `json:"record_type"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	RecordDate     time.Time  `json:"record_date"`
	DoctorName     string     `json:"doctor_name,omitempty"`
	HospitalName   string     `json:"hospital_name,omitempty"`
	IsShared       bool       `json:"is_shared"`
	SharedWith     []string   `json:"shared_with"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SharedWithUser reports whether the record's own share list names the user.
func (m *MedicalHistory) SharedWithUser(userID string) bool {
	for _, id := range m.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

type PermissionLevel string

const (
	PermissionView   PermissionLevel = "view"
	PermissionManage PermissionLevel = "manage"
	PermissionFull   PermissionLevel = "full"
)

var permissionRank = map[PermissionLevel]int{
	PermissionView:   1,
	PermissionManage: 2,
	PermissionFull:   3,
}

// Satisfies implements the containment order view ⊆ manage ⊆ full: a grant
// at this level satisfies any requirement at the same or a lower level.
func (l PermissionLevel) Satisfies(required PermissionLevel) bool {
	have, ok := permissionRank[l]
	if !ok {
		return false
	}
	want, ok := permissionRank[required]
	if !ok {
		return false
	}
	return have >= want
}

// HealthPermission is a directed delegation edge from a granter to a
// grantee, optionally scoped to one family member. At most one active
// permission exists per (granter, grantee, familyMember) triple.
type HealthPermission struct {
	ID             string          `json:"id"`
	GranterUserID  string          `json:"granter_user_id"`
	GranteeUserID  string          `json:"grantee_user_id"`
	FamilyMemberID string          `json:"family_member_id,omitempty"`
	Level          PermissionLevel `json:"permission_level"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Expired reports whether the permission has an expiry in the past.
func (p *HealthPermission) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

type FamilyMemberFilter struct {
	Relationship string
	IsDependent  *bool
}

type MedicalHistoryFilter struct {
	RecordType     RecordType
	FamilyMemberID string
}
