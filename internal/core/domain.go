package core

import (
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// UncategorizedLabel is the display name used for transactions whose
// category has been deleted out from under them.
const UncategorizedLabel = "Uncategorized"

type (
	TransactionType string

	// Date is a calendar day. Any time-of-day component is dropped at
	// construction; aggregation buckets by day.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Category struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"created_at"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		Amount      Money           `json:"amount"`
		Type        TransactionType `json:"type"`
		CategoryID  int64           `json:"category_id"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		CreatedAt   time.Time       `json:"created_at"`

		// CategoryName is denormalized on reads for display. It is empty
		// when the referenced category no longer exists.
		CategoryName string `json:"category_name,omitempty"`
	}

	// Period is a calendar month reporting window.
	Period struct {
		Year  int
		Month int // 1-12
	}
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate creates a Date at UTC midnight for the given calendar day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary timestamp to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// In reports whether the date falls inside the given period.
func (d Date) In(p Period) bool {
	return d.Year() == p.Year && int(d.Month()) == p.Month
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ErrInvalidPeriod
	}
	if p.Year < 1000 || p.Year > 9999 {
		return ErrInvalidPeriod
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Category) Validate() error {
	return ValidateCategoryName(c.Name)
}

// ValidateCategoryName rejects names that are empty after trimming.
// Uniqueness is deliberately not enforced; duplicate names are allowed.
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyCategoryName
	}
	if len(name) > 100 {
		return ErrCategoryNameTooLong
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 255 {
		return ErrDescriptionTooLong
	}
	return nil
}

// CategoryRef names the category a transaction should be attached to:
// either an existing category by id, or a brand-new one by name that is
// created atomically with the save. Exactly one side is set.
type CategoryRef struct {
	id   int64
	name string
}

func ExistingCategory(id int64) CategoryRef {
	return CategoryRef{id: id}
}

func NewCategory(name string) CategoryRef {
	return CategoryRef{name: name}
}

// CategoryRefFrom builds a ref from raw request values without deciding
// which side is meant. Validate rejects the ref unless exactly one side
// is set.
func CategoryRefFrom(id int64, name string) CategoryRef {
	return CategoryRef{id: id, name: name}
}

// Existing returns the referenced category id, if this is an existing ref.
func (r CategoryRef) Existing() (int64, bool) {
	return r.id, r.id > 0
}

// New returns the pending category name, if this is a new-category ref.
func (r CategoryRef) New() (string, bool) {
	return r.name, r.name != ""
}

func (r CategoryRef) Validate() error {
	hasID := r.id > 0
	hasName := r.name != ""
	switch {
	case hasID == hasName:
		return ErrAmbiguousCategoryRef
	case hasName:
		return ValidateCategoryName(r.name)
	default:
		return nil
	}
}
