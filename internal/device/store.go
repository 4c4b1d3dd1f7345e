package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists devices in Postgres. Read paths use prepared statements
// registered in internal/db.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a device store.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// List returns the full device snapshot ordered by next due date.
func (s *Store) List(ctx context.Context) ([]Device, error) {
	rows, err := s.pool.Query(ctx, "list_devices")
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := s.scanDevice(rows.Scan)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// Get returns a single device by ID.
func (s *Store) Get(ctx context.Context, id string) (*Device, error) {
	d, err := s.scanDevice(func(dest ...any) error {
		return s.pool.QueryRow(ctx, "device_by_id", id).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("get device %s: %w", id, err)
	}
	return &d, nil
}

// Insert persists a new device. A missing ID is generated; the serial is
// normalized (trimmed, uppercased) before storage.
func (s *Store) Insert(ctx context.Context, d *Device) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.Serial = NormalizeSerial(d.Serial)
	if d.Serial == "" {
		return fmt.Errorf("insert device: serial is empty")
	}
	if !d.Type.Valid() {
		d.Type, _ = ParseType(string(d.Type))
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO devices (id, serial, type, last_maintenance, next_due)
		VALUES ($1, $2, $3, $4, $5)`,
		d.ID, d.Serial, string(d.Type), d.LastMaintenance, d.NextDue,
	)
	if err != nil {
		return fmt.Errorf("insert device: %w", err)
	}
	return nil
}

// InsertBatch persists a batch of devices, continuing past individual
// failures. Serials already in the inventory are skipped, so re-importing
// a session is harmless. Returns the number inserted.
func (s *Store) InsertBatch(ctx context.Context, devices []Device) (int, error) {
	inserted := 0
	for i := range devices {
		if exists, err := s.SerialExists(ctx, devices[i].Serial); err == nil && exists {
			s.logger.Warn("serial already in inventory, skipping", "serial", devices[i].Serial)
			continue
		}
		if err := s.Insert(ctx, &devices[i]); err != nil {
			s.logger.Warn("batch insert failed", "serial", devices[i].Serial, "error", err)
			continue
		}
		inserted++
	}
	return inserted, nil
}

// SerialExists reports whether any device already carries the serial,
// compared case-insensitively.
func (s *Store) SerialExists(ctx context.Context, serial string) (bool, error) {
	var one int
	err := s.pool.QueryRow(ctx, "serial_exists", NormalizeSerial(serial)).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("serial exists %s: %w", serial, err)
	}
	return true, nil
}

// Update rewrites all mutable fields of an existing device.
func (s *Store) Update(ctx context.Context, d *Device) error {
	d.Serial = NormalizeSerial(d.Serial)
	if d.Serial == "" {
		return fmt.Errorf("update device: serial is empty")
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE devices
		SET serial = $2, type = $3, last_maintenance = $4, next_due = $5, updated_at = NOW()
		WHERE id = $1`,
		d.ID, d.Serial, string(d.Type), d.LastMaintenance, d.NextDue,
	)
	if err != nil {
		return fmt.Errorf("update device %s: %w", d.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update device %s: not found", d.ID)
	}
	return nil
}

// Delete removes a device.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "delete_device", id)
	if err != nil {
		return fmt.Errorf("delete device %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete device %s: not found", id)
	}
	return nil
}

// MaintainToday records a maintenance for the given devices: last
// maintenance is set to now and the next due date to now + 3 months.
// Returns the number of devices updated.
func (s *Store) MaintainToday(ctx context.Context, ids []string, now time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE devices
		SET last_maintenance = $2, next_due = $3, updated_at = NOW()
		WHERE id = ANY($1)`,
		ids, now, NextDueAfter(now),
	)
	if err != nil {
		return 0, fmt.Errorf("maintain devices: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Counts returns inventory totals grouped by type.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	c := Counts{ByType: make(map[Type]int, len(Types))}
	for _, t := range Types {
		c.ByType[t] = 0
	}

	rows, err := s.pool.Query(ctx, "device_counts")
	if err != nil {
		return c, fmt.Errorf("device counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		var n int
		if err := rows.Scan(&raw, &n); err != nil {
			return c, fmt.Errorf("scan device count: %w", err)
		}
		t, ok := ParseType(raw)
		if !ok {
			s.logger.Warn("unknown device type in store", "raw", raw)
		}
		c.ByType[t] += n
	}
	return c, rows.Err()
}

// scanDevice reads one device row, decoding the raw type string with its
// documented MACBOOK fallback.
func (s *Store) scanDevice(scan func(dest ...any) error) (Device, error) {
	var d Device
	var raw string
	if err := scan(&d.ID, &d.Serial, &raw, &d.LastMaintenance, &d.NextDue); err != nil {
		return d, fmt.Errorf("scan device: %w", err)
	}
	t, ok := ParseType(raw)
	if !ok {
		s.logger.Warn("unknown device type in store", "id", d.ID, "raw", raw)
	}
	d.Type = t
	return d, nil
}
