package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"filmpivot/models"
)

// ErrNoRows is returned by mutating repository calls that matched nothing.
var ErrNoRows = errors.New("no matching rows")

// UserRepository handles user persistence.
type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

const userColumns = `id, external_id, email, name, image_url, is_premium,
       billing_customer_id, billing_subscription_id, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	var (
		u                    models.User
		name, image          sql.NullString
		customer, subscr     sql.NullString
		createdAt, updatedAt int64
	)
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &name, &image, &u.IsPremium,
		&customer, &subscr, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	u.Name = stringPtr(name)
	u.ImageURL = stringPtr(image)
	u.BillingCustomerID = stringPtr(customer)
	u.BillingSubscriptionID = stringPtr(subscr)
	u.CreatedAt = fromUnix(createdAt)
	u.UpdatedAt = fromUnix(updatedAt)
	return &u, nil
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// CreateUser inserts a user for the profile's external id. When a user with
// that external id already exists it is returned unchanged.
func (r *UserRepository) CreateUser(ctx context.Context, p models.UserProfile) (*models.User, error) {
	existing, err := r.GetUserByExternalID(ctx, p.ExternalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := r.now().UTC()
	u := &models.User{
		ID:         uuid.NewString(),
		ExternalID: p.ExternalID,
		Email:      p.Email,
		Name:       p.Name,
		ImageURL:   p.ImageURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO users (id, external_id, email, name, image_url, is_premium, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, 0, ?, ?)
ON CONFLICT (external_id) DO NOTHING`,
		u.ID, u.ExternalID, u.Email, nullString(u.Name), nullString(u.ImageURL),
		toUnix(now), toUnix(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	// A concurrent insert may have won the race; return whichever row exists.
	return r.GetUserByExternalID(ctx, p.ExternalID)
}

// GetUserByID retrieves a user by internal id. Returns nil when absent.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetUserByExternalID retrieves a user by identity-provider id.
func (r *UserRepository) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return r.getOne(ctx, "external_id = ?", externalID)
}

// GetUserByBillingCustomerID retrieves the user linked to a billing customer.
func (r *UserRepository) GetUserByBillingCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	return r.getOne(ctx, "billing_customer_id = ?", customerID)
}

// UpdateUser overwrites the profile fields of the user with the given
// external id. Returns ErrNoRows when no such user exists.
func (r *UserRepository) UpdateUser(ctx context.Context, p models.UserProfile) (*models.User, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET email = ?, name = ?, image_url = ?, updated_at = ?
WHERE external_id = ?`,
		p.Email, nullString(p.Name), nullString(p.ImageURL), toUnix(r.now()), p.ExternalID,
	)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNoRows
	}
	return r.GetUserByExternalID(ctx, p.ExternalID)
}

// SetBillingCustomerID links a billing customer (and optionally the
// subscription) to the user.
func (r *UserRepository) SetBillingCustomerID(ctx context.Context, userID, customerID string, subscriptionID *string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET billing_customer_id = ?, billing_subscription_id = COALESCE(?, billing_subscription_id), updated_at = ?
WHERE id = ?`,
		customerID, nullString(subscriptionID), toUnix(r.now()), userID,
	)
	if err != nil {
		return fmt.Errorf("set billing customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRows
	}
	return nil
}

// SetPremiumStatus sets the premium flag and the subscription id together.
// A nil subscriptionID clears the stored subscription.
func (r *UserRepository) SetPremiumStatus(ctx context.Context, userID string, subscriptionID *string, premium bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET is_premium = ?, billing_subscription_id = ?, updated_at = ?
WHERE id = ?`,
		premium, nullString(subscriptionID), toUnix(r.now()), userID)
	if err != nil {
		return fmt.Errorf("set premium status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRows
	}
	return nil
}

// DeleteUserCascade removes the user together with their favorites,
// watchlist and discovery sessions in a single transaction. Returns
// ErrNoRows when the user does not exist.
func (r *UserRepository) DeleteUserCascade(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM favorites WHERE user_id = ?`,
		`DELETE FROM watchlist WHERE user_id = ?`,
		`DELETE FROM discovery_sessions WHERE user_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, userID); err != nil {
			return fmt.Errorf("delete user data: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRows
	}
	return tx.Commit()
}
