package dialect

import (
	"context"
	"database/sql"
	"strings"
)

// Engine describes the database connection a reporting session is bound
// to: the driver name the connection was opened with, and the handle
// itself. Its only dialect-facing duty is carrying the engine name used
// for selection; query execution stays with the external executor.
type Engine struct {
	name string
	db   *sql.DB
}

// Open opens a database connection with database/sql and wraps it in an
// Engine. The driver must be registered by the caller (usually with a
// blank import).
func Open(driverName, source string) (*Engine, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	return NewEngine(driverName, db), nil
}

// NewEngine wraps an existing database handle.
func NewEngine(driverName string, db *sql.DB) *Engine {
	return &Engine{name: strings.ToLower(driverName), db: db}
}

// Name returns the lower-cased engine name.
func (e *Engine) Name() string { return e.name }

// DB returns the underlying *sql.DB instance.
func (e *Engine) DB() *sql.DB { return e.db }

// Dialect selects the SQL dialect for this engine.
func (e *Engine) Dialect() Dialect { return Detect(e.name) }

// Bind binds this engine's dialect as the process-wide active dialect
// and injects it into every registered utility group.
func (e *Engine) Bind() Dialect {
	d := e.Dialect()
	Bind(d)
	return d
}

// Ping verifies the connection is alive.
func (e *Engine) Ping(ctx context.Context) error { return e.db.PingContext(ctx) }

// Close closes the underlying connection.
func (e *Engine) Close() error { return e.db.Close() }
