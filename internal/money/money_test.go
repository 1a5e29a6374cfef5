package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"4.50", 450},
		{"4.5", 450},
		{"12", 1200},
		{"0.05", 5},
		{".99", 99},
		{"18.00", 1800},
		{"2.500", 250},
		{"-3.25", -325},
		{"+1.10", 110},
		{" 7.00 ", 700},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDecimal(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDecimalRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "4.509", "1,50"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDecimal(in)
			require.Error(t, err)
		})
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "12.00", FormatCents(1200))
	assert.Equal(t, "4.50", FormatCents(450))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "0.00", FormatCents(0))
	assert.Equal(t, "-3.25", FormatCents(-325))
}

func TestRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 450, 1200, 123456} {
		got, err := ParseDecimal(FormatCents(cents))
		require.NoError(t, err)
		assert.Equal(t, cents, got)
	}
}
