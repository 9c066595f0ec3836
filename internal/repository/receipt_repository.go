package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/cafeteria-booking/internal/model"
)

// ReceiptStore records bookings handed to payment.
type ReceiptStore interface {
	Create(ctx context.Context, rc *model.Receipt) error
	GetByReference(ctx context.Context, ref string) (model.Receipt, error)
}

// ReceiptRepo stores receipts in MySQL across the receipts, receipt_lines
// and receipt_seats tables.  All timestamps are UTC.
type ReceiptRepo struct {
	db *sql.DB
}

// NewReceiptRepo returns a ReceiptRepo bound to db.
func NewReceiptRepo(db *sql.DB) *ReceiptRepo { return &ReceiptRepo{db: db} }

// Create inserts the receipt with its lines and seats in one transaction and
// fills in ID and CreatedAt.
func (r *ReceiptRepo) Create(ctx context.Context, rc *model.Receipt) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := r.createTx(ctx, tx, rc); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r *ReceiptRepo) createTx(ctx context.Context, tx *sql.Tx, rc *model.Receipt) error {
	const ins = `INSERT INTO receipts (reference, session_id, customer_name, restaurant_id, restaurant, cart_total, seats_total, grand_total, created_at)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if rc.CreatedAt.IsZero() {
		rc.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	res, err := tx.ExecContext(ctx, ins, rc.Reference, rc.SessionID, rc.CustomerName, rc.RestaurantID,
		rc.RestaurantName, rc.CartTotal, rc.SeatsTotal, rc.GrandTotal, rc.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rc.ID = uint64(id)

	if len(rc.Lines) > 0 {
		query := `INSERT INTO receipt_lines (receipt_id, position, name, price, quantity) VALUES `
		args := make([]interface{}, 0, len(rc.Lines)*5)
		for i, l := range rc.Lines {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?)"
			args = append(args, rc.ID, i, l.Name, l.Price, l.Quantity)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if len(rc.Seats) > 0 {
		query := `INSERT INTO receipt_seats (receipt_id, seat_number) VALUES `
		args := make([]interface{}, 0, len(rc.Seats)*2)
		for i, s := range rc.Seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, rc.ID, s)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

// GetByReference loads a receipt with its lines and seats.
func (r *ReceiptRepo) GetByReference(ctx context.Context, ref string) (model.Receipt, error) {
	const q = `SELECT id, reference, session_id, customer_name, restaurant_id, restaurant, cart_total, seats_total, grand_total, created_at
	           FROM receipts WHERE reference = ? LIMIT 1`
	var rc model.Receipt
	err := r.db.QueryRowContext(ctx, q, ref).Scan(&rc.ID, &rc.Reference, &rc.SessionID, &rc.CustomerName,
		&rc.RestaurantID, &rc.RestaurantName, &rc.CartTotal, &rc.SeatsTotal, &rc.GrandTotal, &rc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rc, ErrReceiptNotFound
	}
	if err != nil {
		return rc, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT name, price, quantity FROM receipt_lines WHERE receipt_id = ? ORDER BY position`, rc.ID)
	if err != nil {
		return rc, err
	}
	for rows.Next() {
		var l model.ReceiptLine
		if err := rows.Scan(&l.Name, &l.Price, &l.Quantity); err != nil {
			rows.Close()
			return rc, err
		}
		rc.Lines = append(rc.Lines, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return rc, err
	}
	if err := rows.Close(); err != nil {
		return rc, err
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT seat_number FROM receipt_seats WHERE receipt_id = ? ORDER BY seat_number`, rc.ID)
	if err != nil {
		return rc, err
	}
	defer rows.Close()
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return rc, err
		}
		rc.Seats = append(rc.Seats, s)
	}
	return rc, rows.Err()
}

// MemoryReceiptStore is the in-process ReceiptStore used by tests and when
// no database is configured.
type MemoryReceiptStore struct {
	mu     sync.Mutex
	nextID uint64
	byRef  map[string]model.Receipt
}

func NewMemoryReceiptStore() *MemoryReceiptStore {
	return &MemoryReceiptStore{byRef: make(map[string]model.Receipt)}
}

func (m *MemoryReceiptStore) Create(_ context.Context, rc *model.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.byRef[rc.Reference]; dup {
		return errors.New("duplicate receipt reference")
	}
	m.nextID++
	rc.ID = m.nextID
	if rc.CreatedAt.IsZero() {
		rc.CreatedAt = time.Now().UTC()
	}
	cp := *rc
	cp.Lines = append([]model.ReceiptLine(nil), rc.Lines...)
	cp.Seats = append([]int(nil), rc.Seats...)
	sort.Ints(cp.Seats)
	m.byRef[rc.Reference] = cp
	return nil
}

func (m *MemoryReceiptStore) GetByReference(_ context.Context, ref string) (model.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rc, ok := m.byRef[ref]
	if !ok {
		return model.Receipt{}, ErrReceiptNotFound
	}
	rc.Lines = append([]model.ReceiptLine(nil), rc.Lines...)
	rc.Seats = append([]int(nil), rc.Seats...)
	return rc, nil
}
