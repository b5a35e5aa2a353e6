package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantizeHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"104.395", "104.40"},
		{"104.394", "104.39"},
		{"0.005", "0.01"},
		{"116", "116.00"},
		{"99.999", "100.00"},
	}
	for _, tc := range cases {
		got := Quantize(decimal.RequireFromString(tc.in))
		assert.Equal(t, tc.want, String(got), "quantize %s", tc.in)
	}
}

func TestFactor(t *testing.T) {
	sixteen := MustFromString("16.00")
	assert.True(t, Factor(sixteen, true).Equal(decimal.RequireFromString("1.16")))
	assert.True(t, Factor(MustFromString("10.00"), false).Equal(decimal.RequireFromString("0.9")))
}

func TestFromString(t *testing.T) {
	d, err := FromString("16.00")
	require.NoError(t, err)
	assert.Equal(t, "16.00", String(d))

	_, err = FromString("not-a-number")
	require.Error(t, err)
}
