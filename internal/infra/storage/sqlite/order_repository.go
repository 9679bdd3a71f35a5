package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shopmanager/internal/core/domain/entity"
	"github.com/jcmexdev/shopmanager/internal/core/ports"
)

var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository is the SQLite implementation of
// ports.OrderRepository. The order and its items are written in one
// transaction; items never exist without their order.
type OrderRepository struct {
	db *sql.DB
}

func (r *OrderRepository) Save(ctx context.Context, o *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin save order: %w", err)
	}
	defer tx.Rollback()

	const insertOrder = `
		INSERT INTO orders
			(id, customer_id, status, exchange_rate, subtotal_usd, total_usd, total_clp, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, insertOrder,
		o.ID,
		o.CustomerID,
		string(o.Status),
		o.ExchangeRate.String(),
		o.SubtotalUSD.String(),
		o.TotalUSD.String(),
		o.TotalCLP.String(),
		formatTime(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save order %q: %w", o.ID, err)
	}

	const insertItem = `
		INSERT INTO order_items
			(id, order_id, product_name, quantity,
			 base_unit_price_usd, tax_percent, commission_percent,
			 tax_usd, commission_usd, final_unit_price_usd, subtotal_usd,
			 created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, it := range o.Items {
		_, err = tx.ExecContext(ctx, insertItem,
			it.ID,
			o.ID,
			it.ProductName,
			it.Quantity,
			it.BaseUnitPriceUSD.String(),
			it.TaxPercent.String(),
			it.CommissionPercent.String(),
			it.TaxUSD.String(),
			it.CommissionUSD.String(),
			it.FinalUnitPriceUSD.String(),
			it.SubtotalUSD.String(),
			formatTime(it.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("sqlite: save order item %q: %w", it.ID, err)
		}
	}

	return tx.Commit()
}

const orderColumns = `id, customer_id, status, exchange_rate, subtotal_usd, total_usd, total_clp, created_at`

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: find order %q: %w", id, err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, f ports.OrderFilter) ([]entity.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.CustomerID != "" {
		where = append(where, "customer_id = ?")
		args = append(args, f.CustomerID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}

	q := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Skip)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	var out []entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list orders: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("sqlite: update order status %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	// order_items rows go with the order via ON DELETE CASCADE
	// (foreign_keys pragma is enabled in Open).
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete order %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE customer_id = ?`, customerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count orders for customer %q: %w", customerID, err)
	}
	return count, nil
}

// Summary aggregates in Go rather than with SQL SUM: the money columns
// are decimal TEXT and SQLite would coerce them to floats.
func (r *OrderRepository) Summary(ctx context.Context) (*ports.OrderSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, total_usd, total_clp FROM orders`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: order summary: %w", err)
	}
	defer rows.Close()

	s := &ports.OrderSummary{TotalUSD: decimal.Zero, TotalCLP: decimal.Zero}
	for rows.Next() {
		var status, totalUSD, totalCLP string
		if err := rows.Scan(&status, &totalUSD, &totalCLP); err != nil {
			return nil, fmt.Errorf("sqlite: order summary: %w", err)
		}

		s.Total++
		switch entity.OrderStatus(status) {
		case entity.StatusPending:
			s.Pending++
		case entity.StatusInWarehouse:
			s.InWarehouse++
		case entity.StatusShipped:
			s.Shipped++
		}

		usd, err := decimal.NewFromString(totalUSD)
		if err != nil {
			return nil, fmt.Errorf("sqlite: order summary: bad total_usd %q: %w", totalUSD, err)
		}
		clp, err := decimal.NewFromString(totalCLP)
		if err != nil {
			return nil, fmt.Errorf("sqlite: order summary: bad total_clp %q: %w", totalCLP, err)
		}
		s.TotalUSD = s.TotalUSD.Add(usd)
		s.TotalCLP = s.TotalCLP.Add(clp)
	}
	return s, rows.Err()
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	const q = `
		SELECT id, order_id, product_name, quantity,
		       base_unit_price_usd, tax_percent, commission_percent,
		       tax_usd, commission_usd, final_unit_price_usd, subtotal_usd,
		       created_at
		FROM   order_items
		WHERE  order_id = ?
		ORDER  BY created_at, id`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load items for order %q: %w", orderID, err)
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var (
			it        entity.OrderItem
			createdAt string
			base, tax, comm, taxUSD,
			commUSD, finalUSD, subUSD string
		)
		err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductName, &it.Quantity,
			&base, &tax, &comm,
			&taxUSD, &commUSD, &finalUSD, &subUSD,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: load items for order %q: %w", orderID, err)
		}

		if it.BaseUnitPriceUSD, err = decimal.NewFromString(base); err != nil {
			return nil, fmt.Errorf("sqlite: item %q: bad base price: %w", it.ID, err)
		}
		if it.TaxPercent, err = decimal.NewFromString(tax); err != nil {
			return nil, fmt.Errorf("sqlite: item %q: bad tax percent: %w", it.ID, err)
		}
		if it.CommissionPercent, err = decimal.NewFromString(comm); err != nil {
			return nil, fmt.Errorf("sqlite: item %q: bad commission percent: %w", it.ID, err)
		}
		if it.TaxUSD, err = decimal.NewFromString(taxUSD); err != nil {
			return nil, fmt.Errorf("sqlite: item %q: bad tax: %w", it.ID, err)
		}
		if it.CommissionUSD, err = decimal.NewFromString(commUSD); err != nil {
			return nil, fmt.Errorf("sqlite: item %q: bad commission: %w", it.ID, err)
		}
		if it.FinalUnitPriceUSD, err = decimal.NewFromString(finalUSD); err != nil {
			return nil, fmt.Errorf("sqlite: item %q: bad final price: %w", it.ID, err)
		}
		if it.SubtotalUSD, err = decimal.NewFromString(subUSD); err != nil {
			return nil, fmt.Errorf("sqlite: item %q: bad subtotal: %w", it.ID, err)
		}
		if it.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row scanner) (*entity.Order, error) {
	var (
		o         entity.Order
		status    string
		rate      string
		sub       string
		usd       string
		clp       string
		createdAt string
	)
	if err := row.Scan(&o.ID, &o.CustomerID, &status, &rate, &sub, &usd, &clp, &createdAt); err != nil {
		return nil, err
	}

	o.Status = entity.OrderStatus(status)

	var err error
	if o.ExchangeRate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("sqlite: order %q: bad exchange rate: %w", o.ID, err)
	}
	if o.SubtotalUSD, err = decimal.NewFromString(sub); err != nil {
		return nil, fmt.Errorf("sqlite: order %q: bad subtotal: %w", o.ID, err)
	}
	if o.TotalUSD, err = decimal.NewFromString(usd); err != nil {
		return nil, fmt.Errorf("sqlite: order %q: bad total_usd: %w", o.ID, err)
	}
	if o.TotalCLP, err = decimal.NewFromString(clp); err != nil {
		return nil, fmt.Errorf("sqlite: order %q: bad total_clp: %w", o.ID, err)
	}
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &o, nil
}
