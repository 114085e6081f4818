package presenceconfig

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock boundary ("HH:MM") independent of any date.
// Window comparisons only ever look at the time-of-day component.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "15:04" or "15:04:05" (seconds discarded).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
		}
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// At returns the TimeOfDay extracted from a full timestamp.
func At(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Minutes() < u.Minutes()
}

func (t TimeOfDay) After(u TimeOfDay) bool {
	return t.Minutes() > u.Minutes()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Value implements driver.Valuer for database storage
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String() + ":00", nil
}

// Scan implements sql.Scanner for database retrieval
func (t *TimeOfDay) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*t = At(v)
		return nil
	default:
		return errors.New("failed to scan TimeOfDay: invalid type")
	}

	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Config is one company's check-in/check-out window policy. At most one
// config per company may be active at a time.
type Config struct {
	ID            string
	CompanyID     string
	CheckinStart  TimeOfDay
	CheckinEnd    TimeOfDay
	CheckoutStart TimeOfDay
	CheckoutEnd   TimeOfDay
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO / join
	CompanyName *string
}

// ValidateWindows enforces checkin_start < checkin_end <= checkout_start < checkout_end.
func (c Config) ValidateWindows() error {
	if !c.CheckinStart.Before(c.CheckinEnd) {
		return ErrInvalidWindowOrder
	}
	if c.CheckoutStart.Before(c.CheckinEnd) {
		return ErrInvalidWindowOrder
	}
	if !c.CheckoutStart.Before(c.CheckoutEnd) {
		return ErrInvalidWindowOrder
	}
	return nil
}

// IsCheckinLate reports whether a check-in at t is after the checkin window
// closes. Windows never reject a check-in; they only label it.
func (c Config) IsCheckinLate(t time.Time) bool {
	return At(t).After(c.CheckinEnd)
}

// IsCheckoutEarly reports whether a check-out at t is before the checkout
// window opens.
func (c Config) IsCheckoutEarly(t time.Time) bool {
	return At(t).Before(c.CheckoutStart)
}

// IsWithinCheckinWindow reports whether t falls inside [checkin_start, checkin_end].
func (c Config) IsWithinCheckinWindow(t time.Time) bool {
	now := At(t).Minutes()
	return now >= c.CheckinStart.Minutes() && now <= c.CheckinEnd.Minutes()
}

// IsWithinCheckoutWindow reports whether t falls inside [checkout_start, checkout_end].
func (c Config) IsWithinCheckoutWindow(t time.Time) bool {
	now := At(t).Minutes()
	return now >= c.CheckoutStart.Minutes() && now <= c.CheckoutEnd.Minutes()
}

// CheckinWindow returns the formatted checkin window, e.g. "08:00 - 09:00".
func (c Config) CheckinWindow() string {
	return c.CheckinStart.String() + " - " + c.CheckinEnd.String()
}

// CheckoutWindow returns the formatted checkout window.
func (c Config) CheckoutWindow() string {
	return c.CheckoutStart.String() + " - " + c.CheckoutEnd.String()
}
