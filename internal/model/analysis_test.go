package model

import (
	"math"
	"testing"
)

func TestFormatRSI(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{math.NaN(), NotApplicable},
		{0, "0.00"},
		{66.666666, "66.67"},
		{100, "100.00"},
	}
	for _, tt := range tests {
		if got := FormatRSI(tt.in); got != tt.want {
			t.Errorf("FormatRSI(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
