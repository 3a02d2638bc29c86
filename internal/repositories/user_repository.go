package repositories

import (
	"context"
	"time"

	"lifetrack/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Count(ctx context.Context) (int, error)

	// LockForUpdate takes a row lock on the user for the rest of the
	// current transaction.
	LockForUpdate(ctx context.Context, id int64) error

	// refresh helpers
	UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	RotateRefresh(ctx context.Context, oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(ctx context.Context, userID int64) error
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)

	UpdateNotifications(ctx context.Context, user *models.User) error
}

type userRepository struct {
	q DBTX
}

func NewUserRepository(q DBTX) UserRepository {
	return &userRepository{q: q}
}

const userColumns = `id, email, display_name, password_hash, role_id,
       refresh_token, refresh_expires_at, refresh_revoked,
       telegram_chat_id, notify_telegram, notify_email, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.RoleID,
		&u.RefreshToken, &u.RefreshExpiresAt, &u.RefreshRevoked,
		&u.TelegramChatID, &u.NotifyTelegram, &u.NotifyEmail, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (email, display_name, password_hash, role_id,
			telegram_chat_id, notify_telegram, notify_email)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`
	err := r.q.QueryRowContext(ctx, q,
		user.Email, user.DisplayName, user.PasswordHash, user.RoleID,
		user.TelegramChatID, user.NotifyTelegram, user.NotifyEmail,
	).Scan(&user.ID, &user.CreatedAt)
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var c int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&c)
	return c, err
}

func (r *userRepository) LockForUpdate(ctx context.Context, id int64) error {
	var locked int64
	err := r.q.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	return mapError(err)
}

// ===== refresh helpers =====

func (r *userRepository) UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE id=$3
	`
	res, err := r.q.ExecContext(ctx, q, token, expiresAt, userID)
	if err != nil {
		return mapError(err)
	}
	return expectOne(res)
}

func (r *userRepository) RotateRefresh(ctx context.Context, oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	q := `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE refresh_token=$3 AND refresh_revoked = FALSE
		RETURNING ` + userColumns
	u, err := scanUser(r.q.QueryRowContext(ctx, q, newToken, newExpiresAt, oldToken))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) ClearRefresh(ctx context.Context, userID int64) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET refresh_token=NULL, refresh_expires_at=NULL, refresh_revoked=TRUE
		WHERE id=$1
	`, userID)
	return err
}

func (r *userRepository) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE refresh_token = $1`, token))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) UpdateNotifications(ctx context.Context, user *models.User) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET telegram_chat_id=$1, notify_telegram=$2, notify_email=$3
		WHERE id=$4
	`, user.TelegramChatID, user.NotifyTelegram, user.NotifyEmail, user.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}
