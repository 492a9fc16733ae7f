package core

import (
	"github.com/shopspring/decimal"
)

// Forms carry user-submitted fields for record creation. The store assigns
// the id and the creation timestamp.
type (
	TransactionForm struct {
		Amount        decimal.Decimal `json:"amount"`
		Kind          TransactionKind `json:"type"`
		CategoryID    string          `json:"category_id"`
		Description   string          `json:"description"`
		Date          Date            `json:"date"`
		PaymentMethod string          `json:"payment_method"`
	}

	CategoryForm struct {
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}

	InvestmentForm struct {
		Name   string          `json:"name"`
		Amount decimal.Decimal `json:"amount"`
		Kind   InvestmentKind  `json:"type"`
		Date   Date            `json:"date"`
	}

	ServiceForm struct {
		Name       string          `json:"name"`
		Amount     decimal.Decimal `json:"amount"`
		DayOfMonth int             `json:"day_of_month"`
	}

	EventForm struct {
		Date   Date            `json:"date"`
		Title  string          `json:"title"`
		Kind   EventKind       `json:"type"`
		Amount decimal.Decimal `json:"amount"`
	}
)

func (f TransactionForm) Validate() error {
	return Transaction{
		Amount:        f.Amount,
		Kind:          f.Kind,
		Date:          f.Date,
		PaymentMethod: f.PaymentMethod,
	}.Validate()
}

func (f CategoryForm) Validate() error {
	return Category{Name: f.Name, Icon: f.Icon, Color: f.Color}.Validate()
}

func (f InvestmentForm) Validate() error {
	return Investment{Name: f.Name, Amount: f.Amount, Kind: f.Kind, Date: f.Date}.Validate()
}

func (f ServiceForm) Validate() error {
	return RecurringService{Name: f.Name, Amount: f.Amount, DayOfMonth: f.DayOfMonth}.Validate()
}

func (f EventForm) Validate() error {
	return CalendarEvent{Date: f.Date, Title: f.Title, Kind: f.Kind, Amount: f.Amount}.Validate()
}
