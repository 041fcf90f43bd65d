package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriod_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       Period
		wantErr bool
	}{
		{"single day", Period{From: "2024-05-01", To: "2024-05-01"}, false},
		{"month", Period{From: "2024-05-01", To: "2024-05-31"}, false},
		{"missing from", Period{To: "2024-05-31"}, true},
		{"bad to", Period{From: "2024-05-01", To: "31-05-2024"}, true},
		{"reversed", Period{From: "2024-05-02", To: "2024-05-01"}, true},
		{"too long", Period{From: "2023-01-01", To: "2024-06-01"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatusCounts_PassRate(t *testing.T) {
	assert.Zero(t, StatusCounts{Pending: 4}.PassRate())
	assert.InDelta(t, 0.75, StatusCounts{Passed: 3, Failed: 1, Pending: 9}.PassRate(), 1e-9)
}
