package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	CategoryRental      Category = "Affitto"
	CategoryCleaning    Category = "Pulizie"
	CategoryMaintenance Category = "Manutenzione"
	CategoryUtilities   Category = "Utenze"
	CategoryTaxes       Category = "Tasse"
	CategoryOthers      Category = "Altro"
)

type (
	TransactionType string

	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Date        Date
		Type        TransactionType
		Category    Category
		Amount      Money
		Description string
		GuestName   string // only meaningful for income
		IsPaid      bool
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidCategory = errors.New("invalid category")
	ErrGuestOnExpense  = errors.New("guest name only allowed on income")
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryRental,
		CategoryCleaning,
		CategoryMaintenance,
		CategoryUtilities,
		CategoryTaxes,
		CategoryOthers,
	}
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (c Category) Validate() error {
	for _, known := range Categories() {
		if c == known {
			return nil
		}
	}
	return ErrInvalidCategory
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (tx Transaction) Validate() error {
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if err := tx.Category.Validate(); err != nil {
		return err
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if tx.Type == Expense && strings.TrimSpace(tx.GuestName) != "" {
		return ErrGuestOnExpense
	}
	return nil
}

// Signed returns the amount in cents, negative for expenses.
func (tx Transaction) Signed() int64 {
	if tx.Type == Expense {
		return -tx.Amount.Cents
	}
	return tx.Amount.Cents
}
