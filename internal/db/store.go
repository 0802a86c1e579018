package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rotacerta/backend/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const customerColumns = `id, name, status, total_debt, address, neighborhood, city, state, lat, lon`

func (s *Store) InsertCustomers(ctx context.Context, customers []models.Customer) (int64, error) {
	rows := make([][]any, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []any{c.ID, c.Name, c.Status, c.TotalDebt, c.Address, c.Neighborhood, c.City, c.State, c.Lat, c.Lon})
	}
	copyCount, err := s.Pool.CopyFrom(ctx, pgx.Identifier{"customers"},
		[]string{"id", "name", "status", "total_debt", "address", "neighborhood", "city", "state", "lat", "lon"},
		pgx.CopyFromRows(rows))
	return copyCount, err
}

func (s *Store) ListCustomers(ctx context.Context, status, neighborhood, q string, limit, offset int) ([]models.Customer, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + customerColumns + ` FROM customers`
	var args []any
	var wheres []string
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if neighborhood != "" {
		args = append(args, neighborhood)
		wheres = append(wheres, fmt.Sprintf("neighborhood ILIKE $%d", len(args)))
	}
	if q != "" {
		args = append(args, "%"+q+"%")
		wheres = append(wheres, fmt.Sprintf("(name ILIKE $%d OR id ILIKE $%d)", len(args), len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY total_debt DESC, id ASC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

// ListAllCustomers returns the whole directory without the paging cap.
// Clustering and regeocode backfills need the full set, not a page.
func (s *Store) ListAllCustomers(ctx context.Context, status string) ([]models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	var args []any
	if status != "" {
		args = append(args, status)
		query += " WHERE status = $1"
	}
	query += " ORDER BY total_debt DESC, id ASC"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func (s *Store) GetCustomersByIDs(ctx context.Context, ids []string) ([]models.Customer, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	fetched, err := scanCustomers(rows)
	if err != nil {
		return nil, err
	}

	// Preserve the caller's ordering; the planner's tie-breaking
	// depends on input order.
	byID := make(map[string]models.Customer, len(fetched))
	for _, c := range fetched {
		byID[c.ID] = c
	}
	out := make([]models.Customer, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) ListCustomersMissingCoords(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+customerColumns+` FROM customers WHERE lat IS NULL OR lon IS NULL ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func (s *Store) UpdateCustomerCoords(ctx context.Context, id string, lat, lon float64) error {
	_, err := s.Pool.Exec(ctx, `UPDATE customers SET lat = $1, lon = $2 WHERE id = $3`, lat, lon, id)
	return err
}

func scanCustomers(rows pgx.Rows) ([]models.Customer, error) {
	var out []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.TotalDebt, &c.Address, &c.Neighborhood, &c.City, &c.State, &c.Lat, &c.Lon); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Routes are stored one row per route with the ordered stop list
// serialized into a jsonb column; a route is written or replaced as a
// whole, never stop by stop.

func (s *Store) ListRoutes(ctx context.Context) ([]models.CollectionRoute, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, name, status, created_at, total_km, total_minutes, stops FROM routes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CollectionRoute
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, route)
	}
	return out, rows.Err()
}

func (s *Store) GetRoute(ctx context.Context, id string) (models.CollectionRoute, bool, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, name, status, created_at, total_km, total_minutes, stops FROM routes WHERE id = $1`, id)
	if err != nil {
		return models.CollectionRoute{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return models.CollectionRoute{}, false, rows.Err()
	}
	route, err := scanRoute(rows)
	if err != nil {
		return models.CollectionRoute{}, false, err
	}
	return route, true, nil
}

func (s *Store) UpsertRoute(ctx context.Context, route models.CollectionRoute) error {
	stops, err := json.Marshal(route.Stops)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO routes (id, name, status, created_at, total_km, total_minutes, stops)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			total_km = EXCLUDED.total_km,
			total_minutes = EXCLUDED.total_minutes,
			stops = EXCLUDED.stops
	`, route.ID, route.Name, route.Status, route.CreatedAt, route.TotalKm, route.TotalMinutes, stops)
	return err
}

func (s *Store) DeleteRoute(ctx context.Context, id string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanRoute(rows pgx.Rows) (models.CollectionRoute, error) {
	var (
		route models.CollectionRoute
		stops []byte
	)
	if err := rows.Scan(&route.ID, &route.Name, &route.Status, &route.CreatedAt, &route.TotalKm, &route.TotalMinutes, &stops); err != nil {
		return models.CollectionRoute{}, err
	}
	if len(stops) > 0 {
		if err := json.Unmarshal(stops, &route.Stops); err != nil {
			return models.CollectionRoute{}, err
		}
	}
	return route, nil
}
