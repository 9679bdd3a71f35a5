package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/shopmanager/internal/core/domain/entity"
	"github.com/jcmexdev/shopmanager/internal/core/ports"
)

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository is the SQLite implementation of
// ports.CustomerRepository.
type CustomerRepository struct {
	db *sql.DB
}

func (r *CustomerRepository) Save(ctx context.Context, c *entity.Customer) error {
	const q = `
		INSERT INTO customers (id, name, phone, email, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		c.ID,
		c.Name,
		c.Phone,
		nullableString(c.Email),
		formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save customer %q: %w", c.ID, err)
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	const q = `
		UPDATE customers
		SET    name = ?, phone = ?, email = ?
		WHERE  id = ?`

	res, err := r.db.ExecContext(ctx, q, c.Name, c.Phone, nullableString(c.Email), c.ID)
	if err != nil {
		return fmt.Errorf("sqlite: update customer %q: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	const q = `
		SELECT id, name, phone, COALESCE(email,''), created_at
		FROM   customers
		WHERE  id = ?`

	c, err := scanCustomer(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find customer %q: %w", id, err)
	}
	return c, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	const q = `
		SELECT id, name, phone, COALESCE(email,''), created_at
		FROM   customers
		WHERE  email = ?
		LIMIT  1`

	c, err := scanCustomer(r.db.QueryRowContext(ctx, q, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find customer by email: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context, skip, limit int) ([]entity.Customer, error) {
	const q = `
		SELECT id, name, phone, COALESCE(email,''), created_at
		FROM   customers
		ORDER  BY name
		LIMIT  ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, q, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list customers: %w", err)
	}
	defer rows.Close()

	var out []entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list customers: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete customer %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrCustomerNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row scanner) (*entity.Customer, error) {
	var c entity.Customer
	var createdAt string
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &createdAt); err != nil {
		return nil, err
	}
	var err error
	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
