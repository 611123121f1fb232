package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"storefront-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	FindWithRecentPurchases(ctx context.Context, id uint) (*UserWithPurchases, error)
	Update(ctx context.Context, id uint, firstName, lastName string) (*User, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const uniqueViolation = "23505"

func (r *repository) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*User, error) {
	log := logger.FromCtx(ctx)

	var u User
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, first_name, last_name, email, password_hash, created_at, updated_at`,
		firstName, lastName, email, passwordHash,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrEmailExists
		}
		log.Error("db: failed to insert user",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, created_at, updated_at
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, created_at, updated_at
		FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindAll deliberately leaves PasswordHash out of the projection.
func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, created_at, updated_at FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (r *repository) FindWithRecentPurchases(ctx context.Context, id uint) (*UserWithPurchases, error) {
	log := logger.FromCtx(ctx)

	u, err := r.FindByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			o.id,
			o.status,
			o.customer_first_name,
			o.customer_last_name,
			o.total_amount,
			o.created_at,
			COALESCE(
				JSON_AGG(
					JSON_BUILD_OBJECT(
						'id', p.id,
						'name', p.name,
						'quantity', op.quantity,
						'unit_price', op.unit_price
					)
				) FILTER (WHERE op.id IS NOT NULL),
				'[]'
			) AS products
		FROM orders o
		LEFT JOIN order_items op ON o.id = op.order_id
		LEFT JOIN products p ON op.product_id = p.id
		WHERE o.user_id = $1 AND o.status = 'complete'
		GROUP BY o.id, o.status, o.customer_first_name, o.customer_last_name, o.total_amount, o.created_at
		ORDER BY o.created_at DESC
		LIMIT 5`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &UserWithPurchases{User: *u, Purchases: []Purchase{}}

	for rows.Next() {
		var p Purchase
		var productsJSON []byte
		if err := rows.Scan(
			&p.ID, &p.Status, &p.CustomerFirstName, &p.CustomerLastName,
			&p.TotalAmount, &p.CreatedAt, &productsJSON,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(productsJSON, &p.Products); err != nil {
			log.Warn("failed to decode purchase products",
				zap.Uint("order_id", p.ID),
				zap.Error(err),
			)
			p.Products = []PurchaseProduct{}
		}

		result.Purchases = append(result.Purchases, p)
	}

	return result, rows.Err()
}

func (r *repository) Update(ctx context.Context, id uint, firstName, lastName string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING id, first_name, last_name, email, password_hash, created_at, updated_at`,
		firstName, lastName, id,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) Delete(ctx context.Context, id uint) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
