package market

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ClickHouseOptions locates the seasonality table.
type ClickHouseOptions struct {
	Addr     string
	Database string
	Table    string
	Username string
	Password string
}

// ClickHouseProvider reads rows from a table shaped like
//
//	CREATE TABLE seasonality (
//	    sector      LowCardinality(String),
//	    month_index UInt8,
//	    month       String,
//	    value       Decimal(18, 4),
//	    rsi         Float64,
//	    ma50        Decimal(18, 4)
//	) ENGINE = ReplacingMergeTree ORDER BY (sector, month_index)
type ClickHouseProvider struct {
	conn  driver.Conn
	query string
}

var _ Provider = &ClickHouseProvider{}

// NewClickHouseProvider connects and pings the server.
func NewClickHouseProvider(ctx context.Context, opts ClickHouseOptions) (*ClickHouseProvider, error) {
	query, err := selectQuery(opts.Database, opts.Table)
	if err != nil {
		return nil, err
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse %s: %w", opts.Addr, err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"addr":     opts.Addr,
		"database": opts.Database,
		"table":    opts.Table,
	}).Info("connected to clickhouse")

	return &ClickHouseProvider{conn: conn, query: query}, nil
}

func (p *ClickHouseProvider) Fetch(ctx context.Context, sector string) ([]Row, error) {
	if err := ValidateSector(sector); err != nil {
		return nil, err
	}

	rows, err := p.conn.Query(ctx, p.query, sector)
	if err != nil {
		return nil, fmt.Errorf("query seasonality for %s: %w", sector, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Month, &r.Value, &r.Sector, &r.RSI, &r.MA50); err != nil {
			return nil, fmt.Errorf("scan seasonality row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasonality rows: %w", err)
	}
	return out, nil
}

// Close releases the connection.
func (p *ClickHouseProvider) Close() error {
	return p.conn.Close()
}

func selectQuery(database, table string) (string, error) {
	if table == "" {
		table = "seasonality"
	}
	if !identifierRe.MatchString(table) {
		return "", fmt.Errorf("invalid clickhouse table name %q", table)
	}
	if database != "" {
		if !identifierRe.MatchString(database) {
			return "", fmt.Errorf("invalid clickhouse database name %q", database)
		}
		table = database + "." + table
	}
	return fmt.Sprintf("SELECT month, value, sector, rsi, ma50 FROM %s WHERE sector = ? ORDER BY month_index", table), nil
}
