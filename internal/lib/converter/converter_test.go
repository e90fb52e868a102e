package converter

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmountToCents(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		want   int64
	}{
		{
			name:   "Success",
			amount: "1.23",
			want:   123,
		},
		{
			name:   "Zero",
			amount: "0",
			want:   0,
		},
		{
			name:   "Negative",
			amount: "-1.23",
			want:   -123,
		},
		{
			name:   "SubCentRounds",
			amount: "0.015",
			want:   2,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := AmountToCents(decimal.RequireFromString(tc.amount))
			if got != tc.want {
				t.Errorf("unexpected result, want: %d, got: %d", tc.want, got)
			}
		})
	}
}

func TestCentsToAmount(t *testing.T) {
	cases := []struct {
		name  string
		cents int64
		want  string
	}{
		{
			name:  "Success",
			cents: 123,
			want:  "1.23",
		},
		{
			name:  "Zero",
			cents: 0,
			want:  "0",
		},
		{
			name:  "Negative",
			cents: -123,
			want:  "-1.23",
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := CentsToAmount(tc.cents)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("unexpected result, want: %s, got: %s", tc.want, got)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for cents := int64(-250); cents <= 250; cents++ {
		if got := AmountToCents(CentsToAmount(cents)); got != cents {
			t.Fatalf("round trip broke at %d, got %d", cents, got)
		}
	}
}
