package order

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kittipat-l/couture-backend/internal/cart"
)

const orderColumns = `"orderNumber", "deviceId", "providerSessionId", "ownerEmail", "customerName", "shippingAddress", items, subtotal, "shippingFee", total, status, "createdAt"`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ExistsBySession(sessionID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM orders WHERE "providerSessionId" = $1)`, sessionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) NextNumber(deviceID string) (int, error) {
	var next int
	err := r.db.QueryRow(`SELECT COALESCE(MAX("orderNumber"), 0) + 1 FROM orders WHERE "deviceId" = $1`, deviceID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return next, nil
}

func (r *PostgresRepository) Create(o Order) (Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return Order{}, fmt.Errorf("marshal items: %w", err)
	}

	var session sql.NullString
	if o.ProviderSessionID != "" {
		session = sql.NullString{String: o.ProviderSessionID, Valid: true}
	}

	_, err = r.db.Exec(
		`INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.OrderNumber, o.DeviceID, session, o.OwnerEmail, o.CustomerName, o.ShippingAddress,
		items, o.Subtotal, o.ShippingFee, o.Total, o.Status, o.CreatedAt,
	)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) ListByOwner(email string) ([]Order, error) {
	rows, err := r.db.Query(
		`SELECT `+orderColumns+` FROM orders WHERE LOWER("ownerEmail") = LOWER($1) ORDER BY "createdAt" DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) GetByNumber(ownerEmail string, number int) (Order, error) {
	row := r.db.QueryRow(
		`SELECT `+orderColumns+` FROM orders WHERE LOWER("ownerEmail") = LOWER($1) AND "orderNumber" = $2`,
		ownerEmail, number,
	)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *PostgresRepository) UpdateStatus(ownerEmail string, number int, st Status) (Order, error) {
	res, err := r.db.Exec(
		`UPDATE orders SET status = $1 WHERE LOWER("ownerEmail") = LOWER($2) AND "orderNumber" = $3`,
		st, ownerEmail, number,
	)
	if err != nil {
		return Order{}, fmt.Errorf("update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Order{}, err
	}
	if affected == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByNumber(ownerEmail, number)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var (
		o       Order
		session sql.NullString
		items   []byte
	)
	err := row.Scan(
		&o.OrderNumber, &o.DeviceID, &session, &o.OwnerEmail, &o.CustomerName, &o.ShippingAddress,
		&items, &o.Subtotal, &o.ShippingFee, &o.Total, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		return Order{}, err
	}
	if session.Valid {
		o.ProviderSessionID = session.String
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return Order{}, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	if o.Items == nil {
		o.Items = []cart.Item{}
	}
	return o, nil
}
