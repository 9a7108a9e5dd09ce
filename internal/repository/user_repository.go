package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roadsense/api/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("official profile not found")
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, full_name, email, phone_number, password_hash, role, account_status, avatar_url, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PhoneNumber,
		&user.PasswordHash,
		&user.Role,
		&user.AccountStatus,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, full_name, email, phone_number, password_hash, role, account_status, avatar_url, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
		user.Role,
		user.AccountStatus,
		user.AvatarURL,
	)
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error {
	const query = `UPDATE users SET account_status = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, fullName string, phoneNumber *string) error {
	const query = `
		UPDATE users
		SET full_name = $2,
		    phone_number = COALESCE($3, phone_number),
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, fullName, phoneNumber)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id string, avatarURL string) error {
	const query = `UPDATE users SET avatar_url = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, avatarURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

type UserFilter struct {
	Role   string
	Status string
	Search string
	Limit  int
	Offset int
}

func (r *UserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1 = '' OR role = $1)
		  AND ($2 = '' OR account_status = $2)
		  AND ($3 = '' OR full_name ILIKE '%' || $3 || '%' OR email ILIKE '%' || $3 || '%')
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query, filter.Role, filter.Status, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) CountByRole(ctx context.Context) (map[models.UserRole]int, error) {
	const query = `SELECT role, COUNT(*) FROM users GROUP BY role`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.UserRole]int)
	for rows.Next() {
		var role models.UserRole
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, err
		}
		counts[role] = count
	}
	return counts, rows.Err()
}

func (r *UserRepository) CreateOfficialProfile(ctx context.Context, profile models.OfficialProfile) error {
	const query = `
		INSERT INTO official_profiles (
			user_id, employee_id, department, designation, zone, government_id_key
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.EmployeeID,
		profile.Department,
		profile.Designation,
		profile.Zone,
		profile.GovernmentIDKey,
	)
	return err
}

func (r *UserRepository) GetOfficialProfile(ctx context.Context, userID string) (models.OfficialProfile, error) {
	const query = `
		SELECT user_id, employee_id, department, designation, zone, government_id_key, verified_at, verified_by
		FROM official_profiles
		WHERE user_id = $1
	`

	row := r.pool.QueryRow(ctx, query, userID)
	var profile models.OfficialProfile
	if err := row.Scan(
		&profile.UserID,
		&profile.EmployeeID,
		&profile.Department,
		&profile.Designation,
		&profile.Zone,
		&profile.GovernmentIDKey,
		&profile.VerifiedAt,
		&profile.VerifiedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.OfficialProfile{}, ErrProfileNotFound
		}
		return models.OfficialProfile{}, err
	}
	return profile, nil
}

// ListPendingOfficials returns officials awaiting admin verification, oldest first.
func (r *UserRepository) ListPendingOfficials(ctx context.Context, limit, offset int) ([]models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = 'official' AND account_status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) MarkOfficialVerified(ctx context.Context, userID string, verifiedBy string) error {
	const query = `
		UPDATE official_profiles
		SET verified_at = NOW(), verified_by = $2
		WHERE user_id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, userID, verifiedBy)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
