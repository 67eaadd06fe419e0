package sites

import (
	"context"
	"time"

	"github.com/example/sitebook/internal/booking"
	"github.com/example/sitebook/internal/db"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ db *db.DB }

func NewRepo(d *db.DB) *Repo { return &Repo{db: d} }

const siteColumns = `id,name,purpose,lat,lng,start_day,duration_half_days,duration_start_period,status,client_phone,workers,created_at,updated_at`

func (r *Repo) CreateSite(ctx context.Context, s Site) (Site, error) {
	if err := s.Validate(); err != nil {
		return Site{}, err
	}
	s.ID = uuid.New()
	if s.Status == "" {
		s.Status = StatusNotCarried
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	workers, err := json.Marshal(s.Workers)
	if err != nil {
		return Site{}, err
	}
	err = r.db.Exec(ctx, `
INSERT INTO sites(id,name,purpose,lat,lng,start_day,duration_half_days,duration_start_period,status,client_phone,workers,created_at,updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		s.ID, s.Name, s.Purpose, s.Coordinates.Lat, s.Coordinates.Lng, s.StartDay,
		s.Duration.HalfDays, int16(s.Duration.StartPeriod), string(s.Status), s.ClientPhone, workers,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return Site{}, err
	}
	return s, nil
}

func scanSite(row db.Row) (Site, error) {
	var (
		s           Site
		statusRaw   string
		startPeriod int16
		workersRaw  []byte
	)
	err := row.Scan(
		&s.ID, &s.Name, &s.Purpose, &s.Coordinates.Lat, &s.Coordinates.Lng, &s.StartDay,
		&s.Duration.HalfDays, &startPeriod, &statusRaw, &s.ClientPhone, &workersRaw,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return Site{}, err
	}
	s.Duration.StartPeriod = booking.Period(startPeriod)
	s.Status = Status(statusRaw)
	if len(workersRaw) > 0 {
		if err := json.Unmarshal(workersRaw, &s.Workers); err != nil {
			return Site{}, err
		}
	}
	return s, nil
}

func (r *Repo) GetSite(ctx context.Context, id uuid.UUID) (Site, error) {
	row := r.db.QueryRow(ctx, `SELECT `+siteColumns+` FROM sites WHERE id=$1`, id)
	s, err := scanSite(row)
	if err != nil {
		return Site{}, db.WrapNotFound(err)
	}
	return s, nil
}

func (r *Repo) ListSites(ctx context.Context) ([]Site, error) {
	rows, err := r.db.Query(ctx, `SELECT `+siteColumns+` FROM sites ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateSite(ctx context.Context, s Site) (Site, error) {
	if err := s.Validate(); err != nil {
		return Site{}, err
	}
	workers, err := json.Marshal(s.Workers)
	if err != nil {
		return Site{}, err
	}
	s.UpdatedAt = time.Now().UTC()
	err = r.db.Exec(ctx, `
UPDATE sites
SET name=$2, purpose=$3, lat=$4, lng=$5, start_day=$6, duration_half_days=$7,
    duration_start_period=$8, client_phone=$9, workers=$10, updated_at=$11
WHERE id=$1`,
		s.ID, s.Name, s.Purpose, s.Coordinates.Lat, s.Coordinates.Lng, s.StartDay,
		s.Duration.HalfDays, int16(s.Duration.StartPeriod), s.ClientPhone, workers, s.UpdatedAt,
	)
	if err != nil {
		return Site{}, err
	}
	return r.GetSite(ctx, s.ID)
}

func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return r.db.Exec(ctx, `UPDATE sites SET status=$2, updated_at=now() WHERE id=$1`, id, string(status))
}

func (r *Repo) AddVehicle(ctx context.Context, siteID uuid.UUID, name string) (Vehicle, error) {
	v := Vehicle{
		ID:        uuid.New(),
		SiteID:    siteID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	err := r.db.Exec(ctx, `INSERT INTO vehicles(id, site_id, name, created_at) VALUES ($1,$2,$3,$4)`,
		v.ID, v.SiteID, v.Name, v.CreatedAt)
	if err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

func (r *Repo) ListVehicles(ctx context.Context, siteID uuid.UUID) ([]Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT id, site_id, name, created_at FROM vehicles WHERE site_id=$1 ORDER BY created_at`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.SiteID, &v.Name, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) GetVehicle(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	var v Vehicle
	err := r.db.QueryRow(ctx, `SELECT id, site_id, name, created_at FROM vehicles WHERE id=$1`, id).
		Scan(&v.ID, &v.SiteID, &v.Name, &v.CreatedAt)
	if err != nil {
		return Vehicle{}, db.WrapNotFound(err)
	}
	return v, nil
}

// Reservations returns the accepted intervals of one vehicle.
func (r *Repo) Reservations(ctx context.Context, vehicleID uuid.UUID) ([]booking.Interval, error) {
	rows, err := r.db.Query(ctx, `
SELECT start_day, start_period, end_day, end_period
FROM vehicle_reservations
WHERE vehicle_id=$1
ORDER BY start_day`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIntervals(rows)
}

func scanIntervals(rows db.Rows) ([]booking.Interval, error) {
	var out []booking.Interval
	for rows.Next() {
		var (
			startDay, endDay       time.Time
			startPeriod, endPeriod int16
		)
		if err := rows.Scan(&startDay, &startPeriod, &endDay, &endPeriod); err != nil {
			return nil, err
		}
		iv, err := booking.IntervalFromParts(startDay, booking.Period(startPeriod), endDay, booking.Period(endPeriod))
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// ReserveVehicle books candidate on one vehicle or reports what is in the
// way. The vehicle row is locked for the duration of the transaction so
// concurrent reserves on the same vehicle serialize, even across
// processes; reserves on different vehicles do not contend.
func (r *Repo) ReserveVehicle(ctx context.Context, vehicleID uuid.UUID, candidate booking.Interval) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		var locked uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM vehicles WHERE id=$1 FOR UPDATE`, vehicleID).Scan(&locked); err != nil {
			return db.WrapNotFound(err)
		}

		rows, err := tx.Query(ctx, `
SELECT start_day, start_period, end_day, end_period
FROM vehicle_reservations
WHERE vehicle_id=$1`, vehicleID)
		if err != nil {
			return err
		}
		existing, err := scanIntervals(rows)
		rows.Close()
		if err != nil {
			return err
		}

		if err := booking.NewLedger(existing...).Reserve(candidate); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
INSERT INTO vehicle_reservations(id, vehicle_id, start_day, start_period, end_day, end_period)
VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.New(), vehicleID,
			candidate.StartDay(), int16(candidate.StartPeriod()),
			candidate.EndDay(), int16(candidate.EndPeriod()),
		)
		return err
	})
}
