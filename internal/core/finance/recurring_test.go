package finance_test

import (
	"testing"
	"time"

	"github.com/SscSPs/couple_finance_app/internal/core/finance"
	"github.com/stretchr/testify/assert"
)

func TestNextRun(t *testing.T) {
	tests := []struct {
		name       string
		current    time.Time
		dayOfMonth int
		want       time.Time
	}{
		{name: "leap year clamp", current: day(2024, 1, 31), dayOfMonth: 31, want: day(2024, 2, 29)},
		{name: "non leap year clamp", current: day(2023, 1, 31), dayOfMonth: 31, want: day(2023, 2, 28)},
		{name: "normal month", current: day(2024, 3, 15), dayOfMonth: 15, want: day(2024, 4, 15)},
		{name: "thirty day month", current: day(2024, 3, 31), dayOfMonth: 31, want: day(2024, 4, 30)},
		{name: "back to full day after short month", current: day(2024, 2, 29), dayOfMonth: 31, want: day(2024, 3, 31)},
		{name: "year rollover", current: day(2024, 12, 10), dayOfMonth: 10, want: day(2025, 1, 10)},
		{name: "day differs from current day", current: day(2024, 5, 3), dayOfMonth: 20, want: day(2024, 6, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finance.NextRun(tt.current, tt.dayOfMonth)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
			assert.True(t, got.After(tt.current))
		})
	}
}

func TestNextRun_KeepsClockAndLocation(t *testing.T) {
	loc := time.FixedZone("COT", -5*60*60)
	current := time.Date(2024, 1, 31, 9, 30, 0, 0, loc)
	got := finance.NextRun(current, 31)
	assert.Equal(t, time.Date(2024, 2, 29, 9, 30, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestFirstRun(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		dayOfMonth int
		want       time.Time
	}{
		{name: "day already passed goes to next month", now: time.Date(2024, 5, 7, 14, 0, 0, 0, time.UTC), dayOfMonth: 5, want: day(2024, 6, 5)},
		{name: "day later this month", now: time.Date(2024, 5, 7, 14, 0, 0, 0, time.UTC), dayOfMonth: 10, want: day(2024, 5, 10)},
		{name: "today is due immediately", now: time.Date(2024, 5, 7, 14, 0, 0, 0, time.UTC), dayOfMonth: 7, want: day(2024, 5, 7)},
		{name: "december rolls into january", now: time.Date(2024, 12, 20, 8, 0, 0, 0, time.UTC), dayOfMonth: 3, want: day(2025, 1, 3)},
		{name: "clamped in short month", now: time.Date(2023, 2, 10, 8, 0, 0, 0, time.UTC), dayOfMonth: 31, want: day(2023, 2, 28)},
		{name: "clamped next month", now: time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC), dayOfMonth: 30, want: day(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, finance.FirstRun(tt.now, tt.dayOfMonth))
		})
	}
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, finance.DaysIn(2024, time.February))
	assert.Equal(t, 28, finance.DaysIn(2023, time.February))
	assert.Equal(t, 28, finance.DaysIn(1900, time.February))
	assert.Equal(t, 29, finance.DaysIn(2000, time.February))
	assert.Equal(t, 30, finance.DaysIn(2024, time.April))
	assert.Equal(t, 31, finance.DaysIn(2024, time.December))
}
