package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Friend is one row of the friends table.
type Friend struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Birthday  Date      `db:"birthday" json:"birthday"`
	Sentiment string    `db:"sentiment" json:"sentiment"`
	Email     *string   `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GiftHistory is one row of the gift_history table. Recipient is a free-text
// name; it is not linked to friends.
type GiftHistory struct {
	ID            string    `db:"id" json:"id"`
	Recipient     string    `db:"recipient" json:"recipient"`
	Sentiment     string    `db:"sentiment" json:"sentiment"`
	SuggestedGift string    `db:"suggested_gift" json:"suggested_gift"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CreateFriendParams holds the caller-supplied columns of a new friend.
// Email is nil when the friend has no address on file.
type CreateFriendParams struct {
	Name      string
	Birthday  Date
	Sentiment string
	Email     *string
}

// CreateGiftHistoryParams holds the caller-supplied columns of a new gift
// history entry.
type CreateGiftHistoryParams struct {
	Recipient     string
	Sentiment     string
	SuggestedGift string
}

// ─── DATE ─────────────────────────────────────────────────────────────────────

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component. It serialises as
// "YYYY-MM-DD" in JSON and in SQL on both supported drivers.
type Date struct {
	time.Time
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner. SQLite hands back either a time.Time (when the
// column's declared type is DATE) or the raw text; Postgres hands back a
// time.Time.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("db: cannot scan %T into Date", src)
	}
}

func (d *Date) scanText(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("db: scan date: %w", err)
	}
	*d = parsed
	return nil
}
