package product

import (
	"context"
	"database/sql"
	"errors"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, name, description string, price float64, stock int, category string) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByCategory(ctx context.Context, category string) ([]Product, error)
	FindTopPopular(ctx context.Context) ([]PopularProduct, error)
	Update(ctx context.Context, id uint, name, description string, price float64, stock int, category string) (*Product, error)
	Delete(ctx context.Context, id uint) (bool, error)
	DecreaseStock(ctx context.Context, id uint, quantity int) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = "id, name, description, price, stock, category, created_at, updated_at"

func scanProduct(row *sql.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Create(ctx context.Context, name, description string, price float64, stock int, category string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, stock, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING `+productColumns,
		name, description, price, stock, category,
	)
	return scanProduct(row)
}

func (r *repository) FindAll(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *repository) FindByCategory(ctx context.Context, category string) ([]Product, error) {
	return r.queryProducts(ctx, `
		SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY created_at DESC`,
		category)
}

// FindTopPopular ranks by order-item row count. Products without orders are
// eligible via the left join and rank last. Ties break by id ascending so the
// ordering is deterministic.
func (r *repository) FindTopPopular(ctx context.Context) ([]PopularProduct, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.price, p.stock, p.category,
		       p.created_at, p.updated_at, COUNT(op.id) AS total_orders
		FROM products p
		LEFT JOIN order_items op ON p.id = op.product_id
		GROUP BY p.id
		ORDER BY total_orders DESC, p.id ASC
		LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []PopularProduct{}
	for rows.Next() {
		var p PopularProduct
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category,
			&p.CreatedAt, &p.UpdatedAt, &p.TotalOrders,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *repository) Update(ctx context.Context, id uint, name, description string, price float64, stock int, category string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, category = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING `+productColumns,
		name, description, price, stock, category, id,
	)
	return scanProduct(row)
}

func (r *repository) Delete(ctx context.Context, id uint) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DecreaseStock subtracts quantity from stock only when enough stock remains,
// as one conditional UPDATE evaluated by the store. The precondition and the
// write are a single statement, so two buyers racing for the last unit can
// never both succeed.
func (r *repository) DecreaseStock(ctx context.Context, id uint, quantity int) (bool, error) {
	log := logger.FromCtx(ctx)

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $1
		WHERE id = $2 AND stock >= $1`,
		quantity, id,
	)
	if err != nil {
		log.Error("db: failed to decrease stock",
			zap.Uint("product_id", id),
			zap.Int("quantity", quantity),
			zap.Error(err),
		)
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}
