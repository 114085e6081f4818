package presenceconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func testConfig(t *testing.T) Config {
	return Config{
		CheckinStart:  mustTime(t, "07:00"),
		CheckinEnd:    mustTime(t, "09:00"),
		CheckoutStart: mustTime(t, "16:00"),
		CheckoutEnd:   mustTime(t, "20:00"),
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8, tod.Hour)
	assert.Equal(t, 30, tod.Minute)

	tod, err = ParseTimeOfDay("08:30:45")
	require.NoError(t, err)
	assert.Equal(t, "08:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("not a time")
	assert.Error(t, err)
}

func TestTimeOfDayScan(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan("17:45:00"))
	assert.Equal(t, "17:45", tod.String())

	require.NoError(t, tod.Scan([]byte("06:15:00")))
	assert.Equal(t, "06:15", tod.String())

	require.NoError(t, tod.Scan(time.Date(2026, 1, 1, 9, 5, 0, 0, time.UTC)))
	assert.Equal(t, "09:05", tod.String())

	assert.Error(t, tod.Scan(42))
}

func TestValidateWindows(t *testing.T) {
	cfg := testConfig(t)
	assert.NoError(t, cfg.ValidateWindows())

	// checkin_end may touch checkout_start
	cfg.CheckinEnd = mustTime(t, "12:00")
	cfg.CheckoutStart = mustTime(t, "12:00")
	assert.NoError(t, cfg.ValidateWindows())

	inverted := testConfig(t)
	inverted.CheckinStart = mustTime(t, "10:00")
	assert.ErrorIs(t, inverted.ValidateWindows(), ErrInvalidWindowOrder)

	overlapping := testConfig(t)
	overlapping.CheckoutStart = mustTime(t, "08:00")
	assert.ErrorIs(t, overlapping.ValidateWindows(), ErrInvalidWindowOrder)

	emptyCheckout := testConfig(t)
	emptyCheckout.CheckoutEnd = emptyCheckout.CheckoutStart
	assert.ErrorIs(t, emptyCheckout.ValidateWindows(), ErrInvalidWindowOrder)
}

func TestCheckinClassification(t *testing.T) {
	cfg := testConfig(t)

	assert.False(t, cfg.IsCheckinLate(at(8, 59)))
	// boundary is inclusive: exactly checkin_end is still on time
	assert.False(t, cfg.IsCheckinLate(at(9, 0)))
	assert.True(t, cfg.IsCheckinLate(at(9, 1)))
	assert.False(t, cfg.IsCheckinLate(at(6, 0)))
}

func TestCheckoutClassification(t *testing.T) {
	cfg := testConfig(t)

	assert.True(t, cfg.IsCheckoutEarly(at(15, 59)))
	// exactly checkout_start is a full day
	assert.False(t, cfg.IsCheckoutEarly(at(16, 0)))
	assert.False(t, cfg.IsCheckoutEarly(at(19, 30)))
}

func TestWindowInclusion(t *testing.T) {
	cfg := testConfig(t)

	assert.True(t, cfg.IsWithinCheckinWindow(at(7, 0)))
	assert.True(t, cfg.IsWithinCheckinWindow(at(9, 0)))
	assert.False(t, cfg.IsWithinCheckinWindow(at(6, 59)))
	assert.False(t, cfg.IsWithinCheckinWindow(at(9, 1)))

	assert.True(t, cfg.IsWithinCheckoutWindow(at(16, 0)))
	assert.True(t, cfg.IsWithinCheckoutWindow(at(20, 0)))
	assert.False(t, cfg.IsWithinCheckoutWindow(at(20, 1)))
}

func TestWindowFormatting(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, "07:00 - 09:00", cfg.CheckinWindow())
	assert.Equal(t, "16:00 - 20:00", cfg.CheckoutWindow())
}
