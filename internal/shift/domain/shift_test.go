package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShift_Overlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	s := &Shift{StartsAt: base, EndsAt: base.Add(8 * time.Hour)}

	tests := []struct {
		name     string
		from, to time.Time
		want     bool
	}{
		{"identical", base, base.Add(8 * time.Hour), true},
		{"inside", base.Add(time.Hour), base.Add(2 * time.Hour), true},
		{"straddles start", base.Add(-time.Hour), base.Add(time.Hour), true},
		{"straddles end", base.Add(7 * time.Hour), base.Add(9 * time.Hour), true},
		{"back to back after", base.Add(8 * time.Hour), base.Add(16 * time.Hour), false},
		{"back to back before", base.Add(-8 * time.Hour), base, false},
		{"disjoint", base.Add(24 * time.Hour), base.Add(30 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Overlaps(tt.from, tt.to))
		})
	}
}
