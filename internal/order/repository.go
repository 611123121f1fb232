package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrder persists the order, its items, and the stock decrements in
	// one transaction. It returns ErrInsufficientStock (and leaves no partial
	// state) when any item's conditional stock decrement matches no row.
	CreateOrder(ctx context.Context, o *Order, items []Item) (uint, error)
	FindByID(ctx context.Context, id uint) (*Detail, error)
	FindByUserID(ctx context.Context, userID uint) ([]Detail, error)
	FindCompletedByUserID(ctx context.Context, userID uint) ([]Detail, error)
	FindAll(ctx context.Context) ([]Detail, error)
	UpdateStatus(ctx context.Context, id uint, status Status) (*Order, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, user_id, status, customer_first_name, customer_last_name,
		customer_email, customer_address, payment_method, total_amount, created_at, updated_at`

func (r *repository) CreateOrder(ctx context.Context, o *Order, items []Item) (uint, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrder"),
		zap.Uint("user_id", o.UserID),
		zap.Int("item_count", len(items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return 0, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	var orderID uint
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, status, customer_first_name, customer_last_name,
			customer_email, customer_address, payment_method, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id`,
		o.UserID, o.Status, o.CustomerFirstName, o.CustomerLastName,
		o.CustomerEmail, o.CustomerAddress, o.PaymentMethod, o.TotalAmount,
	).Scan(&orderID)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return 0, err
	}

	for _, item := range items {
		// Same product twice on one order merges by summing quantity.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, created_at)
			VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
			ON CONFLICT (order_id, product_id)
			DO UPDATE SET quantity = order_items.quantity + EXCLUDED.quantity`,
			orderID, item.ProductID, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Uint("product_id", item.ProductID),
				zap.Error(err),
			)
			return 0, err
		}

		// Conditional decrement: the stock check and the write are one
		// statement, the sole defense against overselling under concurrency.
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1
			WHERE id = $2 AND stock >= $1`,
			item.Quantity, item.ProductID,
		)
		if err != nil {
			log.Error("failed to decrease stock",
				zap.Uint("product_id", item.ProductID),
				zap.Error(err),
			)
			return 0, err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if affected == 0 {
			log.Warn("stock raced to insufficiency, rolling back order",
				zap.Uint("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
			)
			return 0, fmt.Errorf("%w: product %d", ErrInsufficientStock, item.ProductID)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return 0, err
	}

	committed = true
	log.Info("order committed", zap.Uint("order_id", orderID))

	return orderID, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Detail, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1`, id,
	).Scan(
		&o.ID, &o.UserID, &o.Status, &o.CustomerFirstName, &o.CustomerLastName,
		&o.CustomerEmail, &o.CustomerAddress, &o.PaymentMethod, &o.TotalAmount,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{Order: o, Items: items}, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID uint) ([]Detail, error) {
	return r.queryDetails(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
}

func (r *repository) FindCompletedByUserID(ctx context.Context, userID uint) ([]Detail, error) {
	return r.queryDetails(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1 AND status = 'complete'
		ORDER BY created_at DESC`,
		userID)
}

func (r *repository) FindAll(ctx context.Context) ([]Detail, error) {
	return r.queryDetails(ctx, `
		SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status Status) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING `+orderColumns,
		status, id,
	).Scan(
		&o.ID, &o.UserID, &o.Status, &o.CustomerFirstName, &o.CustomerLastName,
		&o.CustomerEmail, &o.CustomerAddress, &o.PaymentMethod, &o.TotalAmount,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Delete(ctx context.Context, id uint) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// getItems joins current product name/description onto the stored items.
func (r *repository) getItems(ctx context.Context, orderID uint) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT op.id, op.order_id, op.product_id, op.quantity, op.unit_price, p.name, p.description
		FROM order_items op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.Name, &item.Description,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *repository) queryDetails(ctx context.Context, query string, args ...any) ([]Detail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Status, &o.CustomerFirstName, &o.CustomerLastName,
			&o.CustomerEmail, &o.CustomerAddress, &o.PaymentMethod, &o.TotalAmount,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	details := []Detail{}
	for _, o := range orders {
		items, err := r.getItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, Detail{Order: o, Items: items})
	}

	return details, nil
}
