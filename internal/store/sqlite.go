package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/shopspring/decimal"
)

// SQLiteStore implements Backend on a SQLite database file. Money is
// stored in NUMERIC columns, dates as YYYY-MM-DD text and timestamps as
// RFC 3339 text.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// applies pending migrations. Use ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open(SQLiteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers and keeps ":memory:" databases
	// from splitting across pooled connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := ApplyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteOrderColumns = `id, order_date, customer_name, product_link,
	price_thb, shipping_thb, service_fee_lak, th_to_la_charge_lak, actual_th_to_la_cost_lak,
	customer_rate, rate, price_lak, shipping_lak, total_lak, rate_profit_lak, net_profit_lak,
	payment_status, order_status, tracking_no, carrier, tracking_link, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteOrder(r rowScanner) (*domain.Order, error) {
	var (
		o                    domain.Order
		payment, status      string
		createdAt, updatedAt string
	)
	err := r.Scan(
		&o.ID, &o.OrderDate, &o.CustomerName, &o.ProductLink,
		&o.PriceTHB, &o.ShippingTHB, &o.ServiceFeeLAK, &o.THToLAChargeLAK, &o.ActualTHToLACostLAK,
		&o.CustomerRate, &o.Rate, &o.PriceLAK, &o.ShippingLAK, &o.TotalLAK, &o.RateProfitLAK, &o.NetProfitLAK,
		&payment, &status, &o.TrackingNo, &o.Carrier, &o.TrackingLink, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.PaymentStatus = domain.PaymentStatus(payment)
	o.OrderStatus = domain.OrderStatus(status)
	o.CreatedAt = parseTimestamp(createdAt)
	o.UpdatedAt = parseTimestamp(updatedAt)
	return &o, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimestamp returns the zero time for rows written before timestamps
// were recorded.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Insert stores o and returns the id assigned by SQLite.
func (s *SQLiteStore) Insert(ctx context.Context, o *domain.Order) (int64, error) {
	query := `
		INSERT INTO orders (order_date, customer_name, product_link,
			price_thb, shipping_thb, service_fee_lak, th_to_la_charge_lak, actual_th_to_la_cost_lak,
			customer_rate, rate, price_lak, shipping_lak, total_lak, rate_profit_lak, net_profit_lak,
			payment_status, order_status, tracking_no, carrier, tracking_link, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		o.OrderDate, o.CustomerName, o.ProductLink,
		o.PriceTHB, o.ShippingTHB, o.ServiceFeeLAK, o.THToLAChargeLAK, o.ActualTHToLACostLAK,
		o.CustomerRate, o.Rate, o.PriceLAK, o.ShippingLAK, o.TotalLAK, o.RateProfitLAK, o.NetProfitLAK,
		string(o.PaymentStatus), string(o.OrderStatus), o.TrackingNo, o.Carrier, o.TrackingLink,
		formatTimestamp(o.CreatedAt), formatTimestamp(o.UpdatedAt),
	)
	if err != nil {
		return 0, &domain.StorageError{Op: "insert order", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, &domain.StorageError{Op: "insert order", Err: err}
	}
	return id, nil
}

// FindByID retrieves an order by id. It returns
// domain.ErrOrderNotFound if the order does not exist.
func (s *SQLiteStore) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sqliteOrderColumns+" FROM orders WHERE id = ?", id)
	o, err := scanSQLiteOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "find order", Err: err}
	}
	return o, nil
}

// ListRecent returns up to limit orders, newest order_date first and
// newest id first within a date.
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sqliteOrderColumns+" FROM orders ORDER BY order_date DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, &domain.StorageError{Op: "list orders", Err: err}
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, limit)
	for rows.Next() {
		o, err := scanSQLiteOrder(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "list orders", Err: err}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list orders", Err: err}
	}
	return orders, nil
}

// Update overwrites every input and derived column of the order with id.
// It returns domain.ErrOrderNotFound if no row matched.
func (s *SQLiteStore) Update(ctx context.Context, id int64, o *domain.Order) error {
	query := `
		UPDATE orders SET order_date = ?, customer_name = ?, product_link = ?,
			price_thb = ?, shipping_thb = ?, service_fee_lak = ?, th_to_la_charge_lak = ?, actual_th_to_la_cost_lak = ?,
			customer_rate = ?, rate = ?, price_lak = ?, shipping_lak = ?, total_lak = ?, rate_profit_lak = ?, net_profit_lak = ?,
			payment_status = ?, order_status = ?, tracking_no = ?, carrier = ?, tracking_link = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		o.OrderDate, o.CustomerName, o.ProductLink,
		o.PriceTHB, o.ShippingTHB, o.ServiceFeeLAK, o.THToLAChargeLAK, o.ActualTHToLACostLAK,
		o.CustomerRate, o.Rate, o.PriceLAK, o.ShippingLAK, o.TotalLAK, o.RateProfitLAK, o.NetProfitLAK,
		string(o.PaymentStatus), string(o.OrderStatus), o.TrackingNo, o.Carrier, o.TrackingLink,
		formatTimestamp(o.UpdatedAt), id,
	)
	if err != nil {
		return &domain.StorageError{Op: "update order", Err: err}
	}
	return checkAffected(result, "update order")
}

// Delete removes the order with id. It returns domain.ErrOrderNotFound
// if no row matched.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return &domain.StorageError{Op: "delete order", Err: err}
	}
	return checkAffected(result, "delete order")
}

func checkAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: op, Err: err}
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// Aggregate runs q as a single SELECT against the orders table.
func (s *SQLiteStore) Aggregate(ctx context.Context, q domain.AggregateQuery) (decimal.Decimal, error) {
	expr, err := aggregateExpr(q)
	if err != nil {
		return decimal.Zero, err
	}
	query := "SELECT " + expr + " FROM orders"
	where, args := whereClause(q.Filter)
	if where != "" {
		query += " WHERE " + where
	}

	var v decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		return decimal.Zero, &domain.StorageError{Op: "aggregate " + q.String(), Err: err}
	}
	return v, nil
}

// CurrentRate returns the settings row, or the zero Settings when it does
// not exist.
func (s *SQLiteStore) CurrentRate(ctx context.Context) (domain.Settings, error) {
	var (
		rate      decimal.Decimal
		updatedAt sql.NullString
	)
	err := s.db.QueryRowContext(ctx, "SELECT exchange_rate, updated_at FROM settings WHERE id = 1").
		Scan(&rate, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Settings{}, nil
	}
	if err != nil {
		return domain.Settings{}, &domain.StorageError{Op: "read settings", Err: err}
	}

	st := domain.Settings{ExchangeRate: rate}
	if updatedAt.Valid && updatedAt.String != "" {
		t := parseTimestamp(updatedAt.String)
		st.UpdatedAt = &t
	}
	return st, nil
}

// SetExchangeRate upserts the settings row.
func (s *SQLiteStore) SetExchangeRate(ctx context.Context, rate decimal.Decimal, at time.Time) (domain.Settings, error) {
	query := `
		INSERT INTO settings (id, exchange_rate, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET exchange_rate = excluded.exchange_rate, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, rate, formatTimestamp(at)); err != nil {
		return domain.Settings{}, &domain.StorageError{Op: "write settings", Err: err}
	}
	t := parseTimestamp(formatTimestamp(at))
	return domain.Settings{ExchangeRate: rate, UpdatedAt: &t}, nil
}
