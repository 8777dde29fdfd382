package outletgate

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

// PostgresStore is the concrete domain.RowExecutor backing the Outlet SQL
// Gate: it runs whatever already-validated SELECT the Gate hands it
// directly against the outlets table, through bun's raw-query path rather
// than its ORM query builder, since the statement text is generated
// upstream and must be executed verbatim.
type PostgresStore struct {
	db *bun.DB
}

var _ domain.RowExecutor = (*PostgresStore)(nil)

// NewPostgresStore opens a bun/pgdriver connection against dsn.
func NewPostgresStore(dsn string) *PostgresStore {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &PostgresStore{db: db}
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Query runs sql, which the Gate has already validated as a single
// read-only SELECT against the outlets table, and scans every row into an
// Outlet. The generated SELECT is not always `SELECT *` (the map-line rule
// asks for a narrower column list), so rows are mapped by column name
// rather than a fixed positional scan; columns the query didn't select
// keep their Outlet zero value.
func (s *PostgresStore) Query(ctx context.Context, query string) ([]domain.Outlet, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSQLExecution, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: read columns: %v", domain.ErrSQLExecution, err)
	}

	var outlets []domain.Outlet
	for rows.Next() {
		dest := make([]any, len(columns))
		for i := range dest {
			dest[i] = new(any)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan outlet row: %v", domain.ErrSQLExecution, err)
		}
		outlets = append(outlets, scanOutlet(columns, dest))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSQLExecution, err)
	}
	return outlets, nil
}

func scanOutlet(columns []string, dest []any) domain.Outlet {
	var o domain.Outlet
	for i, col := range columns {
		val := *(dest[i].(*any))
		switch col {
		case "id":
			if v, ok := val.(int64); ok {
				o.ID = v
			}
		case "name":
			o.Name, _ = val.(string)
		case "address":
			o.Address, _ = val.(string)
		case "city":
			o.City, _ = val.(string)
		case "state":
			o.State, _ = val.(string)
		case "postal_code":
			o.PostalCode, _ = val.(string)
		case "maps_url":
			o.MapsURL, _ = val.(string)
		case "location_category":
			o.LocationCategory, _ = val.(string)
		case "source":
			o.Source, _ = val.(string)
		case "fetched_at":
			if v, ok := val.(time.Time); ok {
				o.FetchedAt = v
			}
		}
	}
	return o
}

// Count runs a COUNT(*)-shaped statement and returns the scalar.
func (s *PostgresStore) Count(ctx context.Context, query string) (int, error) {
	row := s.db.QueryRowContext(ctx, query)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: scan count: %v", domain.ErrSQLExecution, err)
	}
	return count, nil
}
