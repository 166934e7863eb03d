package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quickbite/quickbite-api/internal/models"
)

// AddressRepository handles persistence for saved delivery addresses.
type AddressRepository struct {
	db *sqlx.DB
}

// NewAddressRepository instantiates an address repository.
func NewAddressRepository(db *sqlx.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

const addressColumns = "id, user_id, address, latitude, longitude, is_default, created_at, updated_at"

// Create inserts an address. When the new address is the default, the user's
// previous default is cleared in the same transaction.
func (r *AddressRepository) Create(ctx context.Context, address *models.UserAddress) error {
	if address.ID == "" {
		address.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if address.CreatedAt.IsZero() {
		address.CreatedAt = now
	}
	address.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create address tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if address.IsDefault {
		if _, err = tx.ExecContext(ctx, `UPDATE user_addresses SET is_default = FALSE, updated_at = $2 WHERE user_id = $1 AND is_default = TRUE`, address.UserID, now); err != nil {
			return fmt.Errorf("clear default addresses: %w", err)
		}
	}

	const query = `INSERT INTO user_addresses (id, user_id, address, latitude, longitude, is_default, created_at, updated_at) VALUES (:id, :user_id, :address, :latitude, :longitude, :is_default, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, address); err != nil {
		return fmt.Errorf("create address: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create address tx: %w", err)
	}
	return nil
}

// ListByUser returns a user's addresses, default first, then newest.
func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]models.UserAddress, error) {
	query := fmt.Sprintf("SELECT %s FROM user_addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC", addressColumns)
	var addresses []models.UserAddress
	if err := r.db.SelectContext(ctx, &addresses, query, userID); err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

// FindByIDAndUser loads an address only when it belongs to the user.
func (r *AddressRepository) FindByIDAndUser(ctx context.Context, id, userID string) (*models.UserAddress, error) {
	query := fmt.Sprintf("SELECT %s FROM user_addresses WHERE id = $1 AND user_id = $2 LIMIT 1", addressColumns)
	var address models.UserAddress
	if err := r.db.GetContext(ctx, &address, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find address: %w", err)
	}
	return &address, nil
}

// Update modifies an address. Promoting it to default demotes the previous
// default within the same transaction.
func (r *AddressRepository) Update(ctx context.Context, address *models.UserAddress) error {
	now := time.Now().UTC()
	address.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update address tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if address.IsDefault {
		if _, err = tx.ExecContext(ctx, `UPDATE user_addresses SET is_default = FALSE, updated_at = $3 WHERE user_id = $1 AND is_default = TRUE AND id <> $2`, address.UserID, address.ID, now); err != nil {
			return fmt.Errorf("clear default addresses: %w", err)
		}
	}

	const query = `UPDATE user_addresses SET address = :address, latitude = :latitude, longitude = :longitude, is_default = :is_default, updated_at = :updated_at WHERE id = :id AND user_id = :user_id`
	if _, err = tx.NamedExecContext(ctx, query, address); err != nil {
		return fmt.Errorf("update address: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update address tx: %w", err)
	}
	return nil
}

// Delete removes an address owned by the user.
func (r *AddressRepository) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_addresses WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return nil
}
