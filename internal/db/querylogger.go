package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// loggingConnector implements driver.Connector by opening the wrapped driver
// and decorating each connection so every statement is logged.
type loggingConnector struct {
	drv    driver.Driver
	dsn    string
	logger *slog.Logger
}

// loggingConn wraps driver.Conn to provide statement logging.
type loggingConn struct {
	conn   driver.Conn
	logger *slog.Logger
}

// loggingStmt wraps driver.Stmt to log Exec/Query, their args and latency.
type loggingStmt struct {
	stmt   driver.Stmt
	query  string
	logger *slog.Logger
}

// NewLoggingConnector returns a driver.Connector over drv that logs all SQL
// (query, args, duration) at debug level. Use sql.OpenDB(connector).
// If logger is nil, slog.Default() is used.
func NewLoggingConnector(drv driver.Driver, dsn string, logger *slog.Logger) (driver.Connector, error) {
	if drv == nil {
		return nil, errors.New("query logger: nil driver")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingConnector{drv: drv, dsn: dsn, logger: logger}, nil
}

func (c *loggingConnector) Driver() driver.Driver {
	return loggingDriver{}
}

func (c *loggingConnector) Connect(ctx context.Context) (driver.Conn, error) {
	var (
		conn driver.Conn
		err  error
	)
	if dc, ok := c.drv.(driver.DriverContext); ok {
		var inner driver.Connector
		inner, err = dc.OpenConnector(c.dsn)
		if err != nil {
			return nil, err
		}
		conn, err = inner.Connect(ctx)
	} else {
		conn, err = c.drv.Open(c.dsn)
	}
	if err != nil {
		return nil, err
	}
	return &loggingConn{conn: conn, logger: c.logger}, nil
}

// loggingDriver satisfies Connector.Driver(); connections only come from Connect.
type loggingDriver struct{}

func (loggingDriver) Open(string) (driver.Conn, error) {
	return nil, fmt.Errorf("query logger: use sql.OpenDB(NewLoggingConnector(...)) instead of sql.Open")
}

func (c *loggingConn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := c.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &loggingStmt{stmt: stmt, query: query, logger: c.logger}, nil
}

func (c *loggingConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	prep, ok := c.conn.(driver.ConnPrepareContext)
	if !ok {
		return c.Prepare(query)
	}
	stmt, err := prep.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &loggingStmt{stmt: stmt, query: query, logger: c.logger}, nil
}

func (c *loggingConn) Close() error {
	return c.conn.Close()
}

func (c *loggingConn) Begin() (driver.Tx, error) {
	//nolint:staticcheck // SA1019 – required when underlying conn does not implement ConnBeginTx
	return c.conn.Begin()
}

func (c *loggingConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if beginTx, ok := c.conn.(driver.ConnBeginTx); ok {
		return beginTx.BeginTx(ctx, opts)
	}
	//nolint:staticcheck // SA1019 – fallback when underlying conn does not implement ConnBeginTx
	return c.conn.Begin()
}

// Ping lets sql.DB.Ping reach the server instead of only checking out a conn.
func (c *loggingConn) Ping(ctx context.Context) error {
	if p, ok := c.conn.(driver.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *loggingStmt) Exec(args []driver.Value) (driver.Result, error) {
	defer s.logQuery("exec", args, time.Now())
	//nolint:staticcheck // SA1019 – required when underlying stmt does not implement StmtExecContext
	return s.stmt.Exec(args)
}

func (s *loggingStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	defer s.logQuery("exec", namedValuesToSlice(args), time.Now())
	execCtx, ok := s.stmt.(driver.StmtExecContext)
	if !ok {
		//nolint:staticcheck // SA1019 – fallback when underlying stmt does not implement StmtExecContext
		return s.stmt.Exec(namedValuesToValues(args))
	}
	return execCtx.ExecContext(ctx, args)
}

func (s *loggingStmt) Query(args []driver.Value) (driver.Rows, error) {
	defer s.logQuery("query", args, time.Now())
	//nolint:staticcheck // SA1019 – required when underlying stmt does not implement StmtQueryContext
	return s.stmt.Query(args)
}

func (s *loggingStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	defer s.logQuery("query", namedValuesToSlice(args), time.Now())
	queryCtx, ok := s.stmt.(driver.StmtQueryContext)
	if !ok {
		//nolint:staticcheck // SA1019 – fallback when underlying stmt does not implement StmtQueryContext
		return s.stmt.Query(namedValuesToValues(args))
	}
	return queryCtx.QueryContext(ctx, args)
}

func (s *loggingStmt) Close() error {
	return s.stmt.Close()
}

func (s *loggingStmt) NumInput() int {
	return s.stmt.NumInput()
}

func (s *loggingStmt) logQuery(op string, args any, start time.Time) {
	s.logger.Debug("sql",
		"op", op,
		"sql", s.query,
		"args", args,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func namedValuesToSlice(args []driver.NamedValue) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if a.Name != "" {
			out[i] = a.Name + "=" + formatArg(a.Value)
		} else {
			out[i] = formatArg(a.Value)
		}
	}
	return out
}

func namedValuesToValues(args []driver.NamedValue) []driver.Value {
	out := make([]driver.Value, len(args))
	for i := range args {
		out[i] = args[i].Value
	}
	return out
}

func formatArg(v any) string {
	if v == nil {
		return "NULL"
	}
	switch t := v.(type) {
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
