package repositories

import "context"

// Tx is the set of repositories available inside a unit of work
type Tx interface {
	EntryRepository
	DoorRepository
	PartCatalog
}

// UnitOfWork runs a function atomically. The function's writes commit when it
// returns nil and are rolled back when it returns an error; the underlying
// connection is released on every path.
type UnitOfWork interface {
	RunInTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Store is a repository backend with an explicit lifecycle
type Store interface {
	Tx
	UnitOfWork
	Ping(ctx context.Context) error
	Close()
}
