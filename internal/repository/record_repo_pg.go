package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Domenick1991/flightwizard/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRecordNotFound = errors.New("booking record not found")

// RecordRepository appends finished bookings and reads them back. Records are
// stored as independent JSON documents keyed by the booking reference.
type RecordRepository interface {
	Append(ctx context.Context, record *domain.BookingRecord) error
	GetByReference(ctx context.Context, reference string) (*domain.BookingRecord, error)
	List(ctx context.Context) ([]domain.BookingRecord, error)
}

type PGRecordRepository struct {
	db *pgxpool.Pool
}

func NewRecordRepository(db *pgxpool.Pool) RecordRepository {
	return &PGRecordRepository{db: db}
}

func (r *PGRecordRepository) Append(ctx context.Context, record *domain.BookingRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO booking_records (reference, booked_at, payload) VALUES ($1, $2, $3)`,
		record.Reference, record.BookedAt, payload)
	return err
}

func (r *PGRecordRepository) GetByReference(ctx context.Context, reference string) (*domain.BookingRecord, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, `SELECT payload FROM booking_records WHERE reference=$1`, reference).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	var record domain.BookingRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *PGRecordRepository) List(ctx context.Context) ([]domain.BookingRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT payload FROM booking_records ORDER BY booked_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.BookingRecord, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var record domain.BookingRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

var _ RecordRepository = (*PGRecordRepository)(nil)
