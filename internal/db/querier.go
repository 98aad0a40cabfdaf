// Package db owns the SQL schema and every query the service runs against it.
// It supports the embedded SQLite store (the default) and Postgres; the
// dialect only matters when opening the pool and running migrations.
package db

import "context"

// Querier is the interface handlers depend on. *Queries is the concrete
// implementation; tests inject an in-memory stub.
type Querier interface {
	// CreateFriend assigns an identifier, inserts the row and returns it.
	CreateFriend(ctx context.Context, p CreateFriendParams) (Friend, error)

	// ListFriends returns every friend in insertion order.
	ListFriends(ctx context.Context) ([]Friend, error)

	// CreateGiftHistory assigns an identifier, inserts the row and returns it.
	CreateGiftHistory(ctx context.Context, p CreateGiftHistoryParams) (GiftHistory, error)

	// ListGiftHistory returns gift history in insertion order. An empty
	// recipient returns every entry; otherwise only exact matches.
	ListGiftHistory(ctx context.Context, recipient string) ([]GiftHistory, error)
}

var _ Querier = (*Queries)(nil)
