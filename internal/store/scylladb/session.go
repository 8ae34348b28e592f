// internal/store/scylladb/session.go
package scylladb

import (
	"context"

	"github.com/gocql/gocql"
)

// sessionInterface is the part of *gocql.Session the store uses.
type sessionInterface interface {
	Query(stmt string, values ...any) queryInterface
	Close()
}

// queryInterface is the part of *gocql.Query the store uses.
type queryInterface interface {
	WithContext(ctx context.Context) queryInterface
	Exec() error
	Scan(dest ...any) error
}

type gocqlSession struct {
	session *gocql.Session
}

func (s gocqlSession) Query(stmt string, values ...any) queryInterface {
	return gocqlQuery{query: s.session.Query(stmt, values...)}
}

func (s gocqlSession) Close() {
	s.session.Close()
}

type gocqlQuery struct {
	query *gocql.Query
}

func (q gocqlQuery) WithContext(ctx context.Context) queryInterface {
	return gocqlQuery{query: q.query.WithContext(ctx)}
}

func (q gocqlQuery) Exec() error {
	return q.query.Exec()
}

func (q gocqlQuery) Scan(dest ...any) error {
	return q.query.Scan(dest...)
}
