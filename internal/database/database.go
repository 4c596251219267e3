package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

// DB is a pool plus the SQL dialect it speaks.
type DB struct {
	*sql.DB
	Dialect Dialect
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS denuncias (
	id           BIGSERIAL PRIMARY KEY,
	nombre       VARCHAR(120) NOT NULL,
	dpi          VARCHAR(30),
	telefono     VARCHAR(30),
	departamento VARCHAR(60),
	tipo         VARCHAR(80) NOT NULL,
	descripcion  TEXT NOT NULL,
	fecha        TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS denuncias (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	nombre       VARCHAR(120) NOT NULL,
	dpi          VARCHAR(30),
	telefono     VARCHAR(30),
	departamento VARCHAR(60),
	tipo         VARCHAR(80) NOT NULL,
	descripcion  TEXT NOT NULL,
	fecha        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// ParseURL maps a DATABASE_URL to a driver dialect and DSN.
//
//	sqlite:///./pgn_chatbot.db  -> sqlite3, ./pgn_chatbot.db
//	sqlite:////var/lib/pgn.db   -> sqlite3, /var/lib/pgn.db
//	sqlite://:memory:           -> sqlite3, :memory:
//	postgres://..., postgresql://... -> postgres, unchanged
func ParseURL(url string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(url, "sqlite:///"):
		return SQLite, strings.TrimPrefix(url, "sqlite:///"), nil
	case strings.HasPrefix(url, "sqlite://"):
		return SQLite, strings.TrimPrefix(url, "sqlite://"), nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Postgres, url, nil
	default:
		return "", "", errors.Errorf("unsupported DATABASE_URL scheme: %q", url)
	}
}

// Open connects, pings and applies the schema.
func Open(ctx context.Context, url string) (*DB, error) {
	dialect, dsn, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	if dialect == SQLite && dsn == "" {
		return nil, errors.New("empty sqlite path")
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, errors.Wrap(err, "db open")
	}
	if dialect == SQLite {
		// one writer; also keeps :memory: databases on a single connection
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "db ping")
	}

	out := &DB{DB: db, Dialect: dialect}
	if err := out.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return out, nil
}

func (d *DB) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if d.Dialect == Postgres {
		schema = postgresSchema
	}
	if _, err := d.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "db migrate")
	}
	return nil
}
