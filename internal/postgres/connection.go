package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/config"
	"github.com/rs/zerolog/log"
)

// Tables All tables of the card catalog, dependent tables first.
var Tables = []string{
	"card_image",
	"card_price",
	"card_set",
	"card",
}

type DBConnection struct {
	Conn   DBConn
	pgxCon *pgxpool.Pool
}

func Connect(ctx context.Context, cfg config.Database) (*DBConnection, error) {
	c, err := pgxpool.ParseConfig(cfg.ConnectionURL())
	if err != nil {
		return nil, err
	}
	c.MaxConnLifetime = time.Second * 5
	c.MaxConnIdleTime = time.Millisecond * 500
	c.HealthCheckPeriod = time.Millisecond * 500
	c.MaxConns = cfg.MaxConnectionsOrDefault()
	log.Info().Msgf("max database connection is set to %d", c.MaxConns)

	pool, err := pgxpool.ConnectConfig(ctx, c)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, err
	}

	return &DBConnection{
		Conn:   pool,
		pgxCon: pool,
	}, nil
}

func (d *DBConnection) Close() error {
	d.pgxCon.Close()

	return nil
}

// WithTransaction runs f with a connection bound to a new transaction. The transaction is committed
// if f returns no error, otherwise it is rolled back. Nested transactions are not supported.
func (d *DBConnection) WithTransaction(ctx context.Context, f func(conn *DBConnection) error) error {
	switch d.Conn.(type) {
	case pgx.Tx:
		return fmt.Errorf("already inside a transaction")
	default:
		opts := pgx.TxOptions{AccessMode: pgx.ReadWrite, IsoLevel: pgx.ReadCommitted}

		return d.pgxCon.BeginTxFunc(ctx, opts, func(t pgx.Tx) error {
			return f(&DBConnection{
				Conn:   t,
				pgxCon: d.pgxCon,
			})
		})
	}
}

// Cleanup removes all rows of the card catalog.
func (d *DBConnection) Cleanup(ctx context.Context) error {
	_, err := d.Conn.Exec(ctx, fmt.Sprintf("TRUNCATE %s RESTART IDENTITY", strings.Join(Tables, ",")))

	return err
}

// DBConn implemented by pgx.Conn and pgx.Tx
type DBConn interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...interface{}) pgx.Row
}
