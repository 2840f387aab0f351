package derby

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"sync"
)

// Execer runs a statement that returns no rows.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Tx is a transactional scope opened by Conn.BeginTx.
type Tx interface {
	Execer
	Commit() error
	Rollback() error
}

// Conn is the driver-level connection the adapter delegates to.
// Use WrapDB for a *sql.DB, or a *Script to collect statements without a database.
type Conn interface {
	Execer
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

type sqlConn struct {
	*sql.DB
}

// WrapDB adapts a *sql.DB opened on a Derby driver bridge to Conn.
func WrapDB(db *sql.DB) Conn {
	return &sqlConn{DB: db}
}

func (c *sqlConn) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	tx, err := c.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Script is a Conn that records every statement instead of executing it.
// Reads fail with ErrNoConnection, so only pure DDL/DML paths can run against it.
type Script struct {
	mu         sync.Mutex
	statements []string
}

func (s *Script) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements = append(s.statements, query)
	return driver.RowsAffected(0), nil
}

func (s *Script) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, ErrNoConnection
}

func (s *Script) BeginTx(context.Context, *sql.TxOptions) (Tx, error) {
	return scriptTx{s}, nil
}

// Statements returns a copy of the recorded statements in issue order.
func (s *Script) Statements() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.statements))
	copy(out, s.statements)
	return out
}

// String renders the script as semicolon-terminated lines.
func (s *Script) String() string {
	var b strings.Builder
	for _, stmt := range s.Statements() {
		b.WriteString(stmt)
		b.WriteString(";\n")
	}
	return b.String()
}

type scriptTx struct {
	s *Script
}

func (t scriptTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.s.ExecContext(ctx, query, args...)
}

func (t scriptTx) Commit() error   { return nil }
func (t scriptTx) Rollback() error { return nil }

// execerFunc lets a closure stand in for an Execer.
type execerFunc func(ctx context.Context, query string, args ...any) (sql.Result, error)

func (f execerFunc) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return f(ctx, query, args...)
}
