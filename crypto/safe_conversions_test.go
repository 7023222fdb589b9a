package crypto

import (
	"math"
	"testing"
)

func TestSafeUint64ToInt64(t *testing.T) {
	tests := []struct {
		name    string
		input   uint64
		want    int64
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"typical expiry", 1_700_000_360, 1_700_000_360, false},
		{"max int64", math.MaxInt64, math.MaxInt64, false},
		{"overflow", math.MaxInt64 + 1, 0, true},
		{"max uint64", math.MaxUint64, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := safeUint64ToInt64(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("safeUint64ToInt64(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("safeUint64ToInt64(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestSafeInt64ToUint64(t *testing.T) {
	tests := []struct {
		name    string
		input   int64
		want    uint64
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"positive", 42, 42, false},
		{"negative", -1, 0, true},
		{"min int64", math.MinInt64, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := safeInt64ToUint64(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("safeInt64ToUint64(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("safeInt64ToUint64(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
