package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	insertFriend = `
		INSERT INTO friends (id, name, birthday, sentiment, email, created_at)
		VALUES (:id, :name, :birthday, :sentiment, :email, :created_at)`

	selectFriends = `
		SELECT id, name, birthday, sentiment, email, created_at
		FROM friends
		ORDER BY id`

	insertGiftHistory = `
		INSERT INTO gift_history (id, recipient, sentiment, suggested_gift, created_at)
		VALUES (:id, :recipient, :sentiment, :suggested_gift, :created_at)`

	selectGiftHistory = `
		SELECT id, recipient, sentiment, suggested_gift, created_at
		FROM gift_history
		ORDER BY id`

	selectGiftHistoryByRecipient = `
		SELECT id, recipient, sentiment, suggested_gift, created_at
		FROM gift_history
		WHERE recipient = ?
		ORDER BY id`
)

// Queries runs the service's SQL through sqlx. Placeholders are written in
// the "?" form and rebound for the pool's driver, so the same statements run
// on SQLite and Postgres.
type Queries struct {
	db    *sqlx.DB
	now   func() time.Time
	newID func() (uuid.UUID, error)
}

// New wraps an open pool. The schema must already be migrated.
func New(db *sqlx.DB) *Queries {
	return &Queries{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
		// UUIDv7 ids sort by creation time, so ORDER BY id is insertion order.
		newID: uuid.NewV7,
	}
}

func (q *Queries) CreateFriend(ctx context.Context, p CreateFriendParams) (Friend, error) {
	id, err := q.newID()
	if err != nil {
		return Friend{}, fmt.Errorf("db: create friend: generate id: %w", err)
	}

	friend := Friend{
		ID:        id.String(),
		Name:      p.Name,
		Birthday:  p.Birthday,
		Sentiment: p.Sentiment,
		Email:     p.Email,
		CreatedAt: q.now(),
	}

	if _, err := q.db.NamedExecContext(ctx, insertFriend, friend); err != nil {
		return Friend{}, fmt.Errorf("db: create friend: %w", err)
	}
	return friend, nil
}

func (q *Queries) ListFriends(ctx context.Context) ([]Friend, error) {
	friends := []Friend{}
	if err := q.db.SelectContext(ctx, &friends, selectFriends); err != nil {
		return nil, fmt.Errorf("db: list friends: %w", err)
	}
	return friends, nil
}

func (q *Queries) CreateGiftHistory(ctx context.Context, p CreateGiftHistoryParams) (GiftHistory, error) {
	id, err := q.newID()
	if err != nil {
		return GiftHistory{}, fmt.Errorf("db: create gift history: generate id: %w", err)
	}

	entry := GiftHistory{
		ID:            id.String(),
		Recipient:     p.Recipient,
		Sentiment:     p.Sentiment,
		SuggestedGift: p.SuggestedGift,
		CreatedAt:     q.now(),
	}

	if _, err := q.db.NamedExecContext(ctx, insertGiftHistory, entry); err != nil {
		return GiftHistory{}, fmt.Errorf("db: create gift history: %w", err)
	}
	return entry, nil
}

func (q *Queries) ListGiftHistory(ctx context.Context, recipient string) ([]GiftHistory, error) {
	entries := []GiftHistory{}

	var err error
	if recipient == "" {
		err = q.db.SelectContext(ctx, &entries, selectGiftHistory)
	} else {
		err = q.db.SelectContext(ctx, &entries, q.db.Rebind(selectGiftHistoryByRecipient), recipient)
	}
	if err != nil {
		return nil, fmt.Errorf("db: list gift history: %w", err)
	}
	return entries, nil
}
