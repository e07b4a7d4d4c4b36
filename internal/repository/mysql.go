package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ticketbari/ticketbari/config"
	"github.com/ticketbari/ticketbari/internal/model"
)

type MySQLRepository struct {
	masterDB *sql.DB
	slaveDB  *sql.DB
}

func NewMySQLRepository() (*MySQLRepository, error) {
	masterDB, err := sql.Open("mysql", config.AppConfig.MySQL.Master)
	if err != nil {
		return nil, fmt.Errorf("open master database: %w", err)
	}

	masterDB.SetMaxOpenConns(config.AppConfig.MySQL.MaxOpenConns)
	masterDB.SetMaxIdleConns(config.AppConfig.MySQL.MaxIdleConns)
	masterDB.SetConnMaxLifetime(time.Hour)

	if err = masterDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping master database: %w", err)
	}

	slaveDB, err := sql.Open("mysql", config.AppConfig.MySQL.Slave)
	if err != nil {
		return nil, fmt.Errorf("open slave database: %w", err)
	}

	slaveDB.SetMaxOpenConns(config.AppConfig.MySQL.MaxOpenConns)
	slaveDB.SetMaxIdleConns(config.AppConfig.MySQL.MaxIdleConns)
	slaveDB.SetConnMaxLifetime(time.Hour)

	if err = slaveDB.Ping(); err != nil {
		slog.Warn("slave database unreachable, falling back to master", "error", err)
		slaveDB = masterDB
	}

	return &MySQLRepository{
		masterDB: masterDB,
		slaveDB:  slaveDB,
	}, nil
}

// ---- users ----

// CreateUser inserts a new account.
func (r *MySQLRepository) CreateUser(u *model.User) error {
	query := `INSERT INTO users (id, name, email, photo_url, password_hash, role, fraud, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.masterDB.Exec(query, u.ID, u.Name, u.Email, u.PhotoURL, u.Password, u.Role, u.Fraud, u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail looks an account up by email.
func (r *MySQLRepository) GetUserByEmail(email string) (*model.User, error) {
	query := `SELECT id, name, email, photo_url, password_hash, role, fraud, created_at
			  FROM users WHERE email = ?`
	return r.scanUser(r.slaveDB.QueryRow(query, email))
}

// GetUserByID looks an account up by id.
func (r *MySQLRepository) GetUserByID(id string) (*model.User, error) {
	query := `SELECT id, name, email, photo_url, password_hash, role, fraud, created_at
			  FROM users WHERE id = ?`
	return r.scanUser(r.slaveDB.QueryRow(query, id))
}

func (r *MySQLRepository) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PhotoURL, &u.Password, &u.Role, &u.Fraud, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// ListUsers returns every account, newest first.
func (r *MySQLRepository) ListUsers() ([]*model.User, error) {
	query := `SELECT id, name, email, photo_url, password_hash, role, fraud, created_at
			  FROM users ORDER BY created_at DESC`
	rows, err := r.slaveDB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PhotoURL, &u.Password, &u.Role, &u.Fraud, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// UpdateUserRole promotes or demotes an account.
func (r *MySQLRepository) UpdateUserRole(id string, role model.Role) error {
	res, err := r.masterDB.Exec("UPDATE users SET role = ? WHERE id = ?", role, id)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkUserFraud flags an account as fraudulent and pulls every listing
// of that vendor off the marketplace in the same transaction.
func (r *MySQLRepository) MarkUserFraud(id string) (string, error) {
	tx, err := r.masterDB.Begin()
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}

	var email string
	if err := tx.QueryRow("SELECT email FROM users WHERE id = ? FOR UPDATE", id).Scan(&email); err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("select user: %w", err)
	}

	if _, err := tx.Exec("UPDATE users SET fraud = TRUE WHERE id = ?", id); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("flag user: %w", err)
	}

	if _, err := tx.Exec(
		"UPDATE tickets SET verification_status = ? WHERE vendor_email = ?",
		model.VerificationRejected, email,
	); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("hide vendor tickets: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return email, nil
}

// ---- tickets ----

const ticketColumns = `id, title, image, from_location, to_location, transport_type, price,
	quantity, departure_at, perks, vendor_email, verification_status, advertised, created_at, updated_at`

// CreateTicket inserts a new listing.
func (r *MySQLRepository) CreateTicket(t *model.Ticket) error {
	perks, err := json.Marshal(t.Perks)
	if err != nil {
		return fmt.Errorf("encode perks: %w", err)
	}

	query := `INSERT INTO tickets (` + ticketColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.masterDB.Exec(query,
		t.ID, t.Title, t.Image, t.From, t.To, t.TransportType, t.Price,
		t.Quantity, t.DepartureAt, perks, t.VendorEmail, t.VerificationStatus,
		t.Advertised, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

// UpdateTicket rewrites the vendor-editable fields of a listing that has
// not been rejected. Edits reset moderation back to pending.
func (r *MySQLRepository) UpdateTicket(t *model.Ticket) error {
	perks, err := json.Marshal(t.Perks)
	if err != nil {
		return fmt.Errorf("encode perks: %w", err)
	}

	query := `UPDATE tickets
			  SET title = ?, image = ?, from_location = ?, to_location = ?, transport_type = ?,
				  price = ?, quantity = ?, departure_at = ?, perks = ?,
				  verification_status = ?, updated_at = ?
			  WHERE id = ? AND vendor_email = ? AND verification_status != ?`
	res, err := r.masterDB.Exec(query,
		t.Title, t.Image, t.From, t.To, t.TransportType,
		t.Price, t.Quantity, t.DepartureAt, perks,
		model.VerificationPending, t.UpdatedAt,
		t.ID, t.VendorEmail, model.VerificationRejected,
	)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// SoftDeleteTicket hides a listing. Deletion is expressed through the
// moderation status rather than removing the row, so existing bookings
// keep their reference.
func (r *MySQLRepository) SoftDeleteTicket(id, vendorEmail string) error {
	res, err := r.masterDB.Exec(
		"UPDATE tickets SET verification_status = ?, advertised = FALSE, updated_at = ? WHERE id = ? AND vendor_email = ?",
		model.VerificationRejected, time.Now(), id, vendorEmail,
	)
	if err != nil {
		return fmt.Errorf("soft delete ticket: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTicket returns one listing by id.
func (r *MySQLRepository) GetTicket(id string) (*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	row := r.slaveDB.QueryRow(query, id)
	t, err := scanTicket(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

// TicketFilter narrows and orders marketplace listing queries.
type TicketFilter struct {
	From          string
	To            string
	TransportType string
	PriceSort     string // "asc", "desc" or empty
	Limit         int
	Offset        int
}

// ListApprovedTickets returns approved listings matching the filter.
func (r *MySQLRepository) ListApprovedTickets(f TicketFilter) ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE verification_status = ?`
	args := []any{model.VerificationApproved}

	if f.From != "" {
		query += " AND from_location LIKE ?"
		args = append(args, "%"+f.From+"%")
	}
	if f.To != "" {
		query += " AND to_location LIKE ?"
		args = append(args, "%"+f.To+"%")
	}
	if f.TransportType != "" {
		query += " AND transport_type = ?"
		args = append(args, f.TransportType)
	}

	switch f.PriceSort {
	case "asc":
		query += " ORDER BY price ASC"
	case "desc":
		query += " ORDER BY price DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	return r.queryTickets(query, args...)
}

// ListLatestTickets returns the n most recently approved listings.
func (r *MySQLRepository) ListLatestTickets(n int) ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
			  WHERE verification_status = ? ORDER BY created_at DESC LIMIT ?`
	return r.queryTickets(query, model.VerificationApproved, n)
}

// ListAdvertisedTickets returns listings the admin put on the home page.
func (r *MySQLRepository) ListAdvertisedTickets() ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
			  WHERE verification_status = ? AND advertised = TRUE ORDER BY departure_at ASC`
	return r.queryTickets(query, model.VerificationApproved)
}

// ListVendorTickets returns every listing of one vendor, any status.
func (r *MySQLRepository) ListVendorTickets(vendorEmail string) ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
			  WHERE vendor_email = ? ORDER BY created_at DESC`
	return r.queryTickets(query, vendorEmail)
}

// ListAllTickets returns every listing for admin moderation.
func (r *MySQLRepository) ListAllTickets() ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC`
	return r.queryTickets(query)
}

// SetTicketVerification moves a listing through moderation.
func (r *MySQLRepository) SetTicketVerification(id string, status model.VerificationStatus) error {
	res, err := r.masterDB.Exec(
		"UPDATE tickets SET verification_status = ?, updated_at = ? WHERE id = ?",
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("set ticket verification: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTicketAdvertised toggles home-page advertisement. Only approved
// listings can be advertised.
func (r *MySQLRepository) SetTicketAdvertised(id string, advertised bool) error {
	res, err := r.masterDB.Exec(
		"UPDATE tickets SET advertised = ?, updated_at = ? WHERE id = ? AND verification_status = ?",
		advertised, time.Now(), id, model.VerificationApproved,
	)
	if err != nil {
		return fmt.Errorf("set ticket advertised: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

func (r *MySQLRepository) queryTickets(query string, args ...any) ([]*model.Ticket, error) {
	rows, err := r.slaveDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func scanTicket(scan func(dest ...any) error) (*model.Ticket, error) {
	var t model.Ticket
	var perks []byte
	err := scan(
		&t.ID, &t.Title, &t.Image, &t.From, &t.To, &t.TransportType, &t.Price,
		&t.Quantity, &t.DepartureAt, &perks, &t.VendorEmail, &t.VerificationStatus,
		&t.Advertised, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(perks) > 0 {
		if err := json.Unmarshal(perks, &t.Perks); err != nil {
			return nil, fmt.Errorf("decode perks: %w", err)
		}
	}
	return &t, nil
}

// ---- bookings ----

const bookingColumns = `id, ticket_id, title, image, from_location, to_location, user_email,
	vendor_email, quantity, unit_price, total_price, departure_at, status, created_at`

// CreateBooking inserts a booking after checking, under row lock, that
// the requested quantity is still available on the ticket.
func (r *MySQLRepository) CreateBooking(b *model.Booking) error {
	tx, err := r.masterDB.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	var available int
	err = tx.QueryRow("SELECT quantity FROM tickets WHERE id = ? FOR UPDATE", b.TicketID).Scan(&available)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("select ticket quantity: %w", err)
	}

	if available < b.Quantity {
		tx.Rollback()
		return ErrSoldOut
	}

	query := `INSERT INTO bookings (` + bookingColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.Exec(query,
		b.ID, b.TicketID, b.Title, b.Image, b.From, b.To, b.UserEmail,
		b.VendorEmail, b.Quantity, b.UnitPrice, b.TotalPrice, b.DepartureAt,
		b.Status, b.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetBooking returns one booking by id.
func (r *MySQLRepository) GetBooking(id string) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	row := r.slaveDB.QueryRow(query, id)
	b, err := scanBooking(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// ListUserBookings returns a user's bookings, newest first.
func (r *MySQLRepository) ListUserBookings(userEmail string) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_email = ? ORDER BY created_at DESC`
	return r.queryBookings(query, userEmail)
}

// ListVendorBookings returns every booking placed against one vendor's
// listings, newest first.
func (r *MySQLRepository) ListVendorBookings(vendorEmail string) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE vendor_email = ? ORDER BY created_at DESC`
	return r.queryBookings(query, vendorEmail)
}

// TransitionBooking moves a booking from one status to another. The
// update is conditional on the current status so concurrent decisions
// cannot double-apply.
func (r *MySQLRepository) TransitionBooking(id string, from, to model.BookingStatus) error {
	res, err := r.masterDB.Exec(
		"UPDATE bookings SET status = ? WHERE id = ? AND status = ?",
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("transition booking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// CapturePayment atomically marks the payment paid, moves the booking
// from accepted to paid and decrements the ticket quantity. Any failing
// leg rolls the whole capture back.
func (r *MySQLRepository) CapturePayment(paymentID, bookingID, ticketID string, quantity int, paidAt time.Time) error {
	tx, err := r.masterDB.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	res, err := tx.Exec(
		"UPDATE bookings SET status = ? WHERE id = ? AND status = ?",
		model.BookingStatusPaid, bookingID, model.BookingStatusAccepted,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("mark booking paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return ErrConflict
	}

	res, err = tx.Exec(
		"UPDATE tickets SET quantity = quantity - ? WHERE id = ? AND quantity >= ?",
		quantity, ticketID, quantity,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("decrement ticket quantity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return ErrSoldOut
	}

	res, err = tx.Exec(
		"UPDATE payments SET status = ?, paid_at = ? WHERE id = ? AND status = ?",
		model.PaymentPaid, paidAt, paymentID, model.PaymentCreated,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("mark payment paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return ErrConflict
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *MySQLRepository) queryBookings(query string, args ...any) ([]*model.Booking, error) {
	rows, err := r.slaveDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func scanBooking(scan func(dest ...any) error) (*model.Booking, error) {
	var b model.Booking
	err := scan(
		&b.ID, &b.TicketID, &b.Title, &b.Image, &b.From, &b.To, &b.UserEmail,
		&b.VendorEmail, &b.Quantity, &b.UnitPrice, &b.TotalPrice, &b.DepartureAt,
		&b.Status, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ---- payments ----

const paymentColumns = `id, session_id, booking_id, user_email, amount, status, created_at, paid_at`

// CreatePayment records a freshly opened checkout session.
func (r *MySQLRepository) CreatePayment(p *model.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.masterDB.Exec(query,
		p.ID, p.SessionID, p.BookingID, p.UserEmail, p.Amount, p.Status, p.CreatedAt, p.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetPaymentBySession looks a payment up by its checkout session id.
func (r *MySQLRepository) GetPaymentBySession(sessionID string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE session_id = ?`
	var p model.Payment
	err := r.slaveDB.QueryRow(query, sessionID).Scan(
		&p.ID, &p.SessionID, &p.BookingID, &p.UserEmail, &p.Amount, &p.Status, &p.CreatedAt, &p.PaidAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

// ListUserPayments returns a user's transaction history, newest first.
func (r *MySQLRepository) ListUserPayments(userEmail string) ([]*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_email = ? ORDER BY created_at DESC`
	rows, err := r.slaveDB.Query(query, userEmail)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.SessionID, &p.BookingID, &p.UserEmail, &p.Amount, &p.Status, &p.CreatedAt, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// SetPaymentStatus moves a payment from one status to another.
func (r *MySQLRepository) SetPaymentStatus(id string, from, to model.PaymentStatus) error {
	res, err := r.masterDB.Exec(
		"UPDATE payments SET status = ? WHERE id = ? AND status = ?",
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("set payment status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// ExpireStalePayments moves checkout sessions older than ttl and still
// unpaid to expired, returning how many were swept.
func (r *MySQLRepository) ExpireStalePayments(ttl time.Duration, now time.Time) (int64, error) {
	res, err := r.masterDB.Exec(
		"UPDATE payments SET status = ? WHERE status = ? AND created_at < ?",
		model.PaymentExpired, model.PaymentCreated, now.Add(-ttl),
	)
	if err != nil {
		return 0, fmt.Errorf("expire stale payments: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ---- stats ----

// GetVendorStats aggregates revenue and sales for one vendor from paid
// bookings and their listing count.
func (r *MySQLRepository) GetVendorStats(vendorEmail string) (*model.VendorStats, error) {
	stats := &model.VendorStats{VendorEmail: vendorEmail}

	query := `SELECT COALESCE(SUM(total_price), 0), COALESCE(SUM(quantity), 0)
			  FROM bookings WHERE vendor_email = ? AND status = ?`
	err := r.slaveDB.QueryRow(query, vendorEmail, model.BookingStatusPaid).
		Scan(&stats.TotalRevenue, &stats.TotalTicketsSold)
	if err != nil {
		return nil, fmt.Errorf("aggregate vendor sales: %w", err)
	}

	err = r.slaveDB.QueryRow("SELECT COUNT(*) FROM tickets WHERE vendor_email = ?", vendorEmail).
		Scan(&stats.TotalTicketsAdded)
	if err != nil {
		return nil, fmt.Errorf("count vendor tickets: %w", err)
	}

	return stats, nil
}

// ListAcceptedUnpaidBookings returns accepted, unpaid bookings departing
// inside the window, for payment reminders.
func (r *MySQLRepository) ListAcceptedUnpaidBookings(now time.Time, window time.Duration) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
			  WHERE status = ? AND departure_at > ? AND departure_at <= ?`
	return r.queryBookings(query, model.BookingStatusAccepted, now, now.Add(window))
}

// Close closes the database connections.
func (r *MySQLRepository) Close() {
	if r.masterDB != nil {
		r.masterDB.Close()
	}
	if r.slaveDB != nil && r.slaveDB != r.masterDB {
		r.slaveDB.Close()
	}
}
