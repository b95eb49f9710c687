package repository

import (
	"context"
	"database/sql"

	"github.com/arogyahq/care-platform/internal/core/domain"
	"github.com/arogyahq/care-platform/internal/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password, first_name, last_name, phone, date_of_birth,
	gender, address, city, state, zip_code, country, profile_picture,
	is_verified, is_active, last_login_at, preferences, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	prefs, err := jsonbValue(u.Preferences)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		u.ID, u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.DateOfBirth,
		u.Gender, u.Address, u.City, u.State, u.ZipCode, u.Country, u.ProfilePicture,
		u.IsVerified, u.IsActive, u.LastLoginAt, prefs, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return r.scan(row)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.scan(row)
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	prefs, err := jsonbValue(u.Preferences)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = $2, password = $3, first_name = $4, last_name = $5,
		 phone = $6, date_of_birth = $7, gender = $8, address = $9, city = $10,
		 state = $11, zip_code = $12, country = $13, profile_picture = $14,
		 is_verified = $15, is_active = $16, last_login_at = $17, preferences = $18,
		 updated_at = $19
		 WHERE id = $1`,
		u.ID, u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.DateOfBirth,
		u.Gender, u.Address, u.City, u.State, u.ZipCode, u.Country, u.ProfilePicture,
		u.IsVerified, u.IsActive, u.LastLoginAt, prefs, u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("user not found")
	}
	return nil
}

func (r *UserRepository) scan(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var prefs []byte
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Phone, &u.DateOfBirth,
		&u.Gender, &u.Address, &u.City, &u.State, &u.ZipCode, &u.Country, &u.ProfilePicture,
		&u.IsVerified, &u.IsActive, &u.LastLoginAt, &prefs, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, asNotFound(err, "user not found")
	}
	if err := scanJSONB(prefs, &u.Preferences); err != nil {
		return nil, err
	}
	return &u, nil
}
