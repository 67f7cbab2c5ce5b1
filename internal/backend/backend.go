// Package backend selects and wires a ledger.Store implementation from
// configuration.
package backend

import (
	"fintrack/internal/amqp"
	"fintrack/internal/ledger"
)

type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
	MemoryBackend   BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, PostgresBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds everything backend creation needs.
type Config struct {
	Type BackendType

	// SQLite
	SQLiteDBPath string

	// Postgres
	PostgresURL string

	// AMQP sync queue (optional; only meaningful with the sqlite backend,
	// which is what the sheets worker reads).
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result carries the created store plus the optional sync publisher.
// Queue is nil when AMQP is not configured or not applicable.
type Result struct {
	Store   ledger.Store
	Queue   *amqp.Client
	Cleanup CleanupFunc
}
