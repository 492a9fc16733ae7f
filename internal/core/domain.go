package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

const (
	Stock      InvestmentKind = "stock"
	Crypto     InvestmentKind = "crypto"
	RealEstate InvestmentKind = "real_estate"
	OtherAsset InvestmentKind = "other"
)

const (
	PaymentEvent EventKind = "payment"
	NoteEvent    EventKind = "note"
)

const (
	USD Currency = "USD"
	MXN Currency = "MXN"
	EUR Currency = "EUR"
)

type (
	TransactionKind string
	InvestmentKind  string
	EventKind       string
	Currency        string

	// Date is a calendar date without time-of-day semantics.
	// The wrapped time is always midnight UTC.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID            string
		Owner         string
		CategoryID    string // empty means uncategorized
		Amount        decimal.Decimal
		Kind          TransactionKind
		Description   string
		Date          Date
		PaymentMethod string // free-form account tag: cash, credit, debit, ...
		CreatedAt     time.Time
	}

	Category struct {
		ID    string
		Owner CategoryOwner
		Name  string
		Icon  string
		Color string // hex, e.g. "#f97316"
	}

	Investment struct {
		ID        string
		Owner     string
		Name      string
		Amount    decimal.Decimal // cost basis, also treated as current value
		Kind      InvestmentKind
		Date      Date
		CreatedAt time.Time
	}

	RecurringService struct {
		ID         string
		Owner      string
		Name       string
		Amount     decimal.Decimal
		DayOfMonth int // 1-31
		CreatedAt  time.Time
	}

	CalendarEvent struct {
		ID        string
		Owner     string
		Date      Date
		Title     string
		Kind      EventKind
		Amount    decimal.Decimal // optional, zero when absent
		CreatedAt time.Time
	}

	Profile struct {
		ID        string
		FullName  string
		Currency  Currency
		UpdatedAt time.Time
	}
)

// CategoryOwner distinguishes shared default categories from user-owned
// ones. The zero value is the shared owner, so defaults survive decoding
// from stores that represent them as a null owner.
type CategoryOwner struct {
	userID string
}

// SharedOwner returns the owner of the process-wide default categories.
func SharedOwner() CategoryOwner {
	return CategoryOwner{}
}

// UserOwner returns the owner for a user-created category.
func UserOwner(userID string) CategoryOwner {
	return CategoryOwner{userID: userID}
}

// IsDefault reports whether the category is a shared default.
func (o CategoryOwner) IsDefault() bool {
	return o.userID == ""
}

// UserID returns the owning user id and whether one is set.
func (o CategoryOwner) UserID() (string, bool) {
	return o.userID, o.userID != ""
}

// IsDefault reports whether the category is a shared, non-deletable default.
func (c Category) IsDefault() bool {
	return c.Owner.IsDefault()
}

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidKind     = errors.New("invalid kind")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidDay      = errors.New("day of month must be between 1 and 31")
	ErrInvalidCurrency = errors.New("unsupported currency")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyTitle      = errors.New("empty title")
	ErrDefaultCategory = errors.New("default categories cannot be deleted")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

func (k InvestmentKind) Valid() bool {
	switch k {
	case Stock, Crypto, RealEstate, OtherAsset:
		return true
	}
	return false
}

func (k EventKind) Valid() bool {
	return k == PaymentEvent || k == NoteEvent
}

func (c Currency) Valid() bool {
	switch c {
	case USD, MXN, EUR:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (i Investment) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !i.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}

func (s RecurringService) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
		return ErrInvalidDay
	}
	return nil
}

func (e CalendarEvent) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (p Profile) Validate() error {
	if !p.Currency.Valid() {
		return ErrInvalidCurrency
	}
	return nil
}
