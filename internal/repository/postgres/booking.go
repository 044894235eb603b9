package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"bike-rental-marketplace/internal/domain"
	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `booking_id, customer_id, provider_id, partner_id, start_date, end_date, bike_ids, price, deposit, status, collected, created_on, updated_on`

// Save inserts the record, or overwrites the mutable columns when the
// booking is already journaled.
func (r *bookingRepository) Save(ctx context.Context, rec *domain.BookingRecord) error {
	query := `INSERT INTO bookings (` + bookingColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          ON CONFLICT (booking_id) DO UPDATE SET partner_id = EXCLUDED.partner_id, status = EXCLUDED.status, updated_on = EXCLUDED.updated_on`
	logger.DatabaseCall("SaveBooking", "INSERT INTO bookings", "booking_id", rec.BookingID)
	res, err := r.db.ExecContext(ctx, query,
		rec.BookingID, rec.CustomerID, rec.ProviderID, rec.PartnerID,
		rec.StartDate, rec.EndDate, pq.Array(rec.BikeIDs),
		rec.Price, rec.Deposit, rec.Status, rec.Collected,
		rec.CreatedOn, rec.UpdatedOn)
	if err != nil {
		logger.DatabaseResult("SaveBooking", 0, err, "booking_id", rec.BookingID)
		return err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("SaveBooking", n, nil, "booking_id", rec.BookingID)
	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status=$1, updated_on=$2 WHERE booking_id=$3`
	logger.DatabaseCall("UpdateBookingStatus", query, "booking_id", bookingID, "status", status)
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), bookingID)
	if err != nil {
		logger.DatabaseResult("UpdateBookingStatus", 0, err, "booking_id", bookingID)
		return err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UpdateBookingStatus", n, err, "booking_id", bookingID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "booking", ID: bookingID}
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1`
	rec, err := scanBooking(r.db.QueryRowContext(ctx, query, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "booking", ID: bookingID}
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.BookingRecord, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.BookingRecord
	for rows.Next() {
		rec, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.BookingRecord, error) {
	var (
		rec       domain.BookingRecord
		partnerID sql.NullString
		start     time.Time
		end       time.Time
	)
	err := row.Scan(&rec.BookingID, &rec.CustomerID, &rec.ProviderID, &partnerID,
		&start, &end, pq.Array(&rec.BikeIDs), &rec.Price, &rec.Deposit,
		&rec.Status, &rec.Collected, &rec.CreatedOn, &rec.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if partnerID.Valid {
		rec.PartnerID = &partnerID.String
	}
	rec.StartDate = start.Format(domain.DateLayout)
	rec.EndDate = end.Format(domain.DateLayout)
	return &rec, nil
}
