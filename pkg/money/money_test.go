package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{"plain integer", "450", 45000, false},
		{"decimal", "123.45", 12345, false},
		{"thousands separator", "1,234.56", 123456, false},
		{"currency symbol", "$99.90", 9990, false},
		{"negative", "-75.25", -7525, false},
		{"whitespace", " 10.00 ", 1000, false},
		{"garbage", "TOTAL", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCents, m.Amount())
		})
	}
}

func TestNewFromFloat_Rounding(t *testing.T) {
	assert.Equal(t, int64(10001), NewFromFloat(100.005).Amount())
	assert.Equal(t, int64(10000), NewFromFloat(100.004).Amount())
}

func TestAbs(t *testing.T) {
	m, err := NewFromString("-75.25")
	require.NoError(t, err)

	assert.True(t, m.IsNegative())
	assert.Equal(t, int64(7525), m.Abs().Amount())
	assert.False(t, m.Abs().IsNegative())
}

func TestWithinTolerance(t *testing.T) {
	base := NewFromDecimal(decimal.NewFromFloat(100.00))

	t.Run("half cent apart matches", func(t *testing.T) {
		assert.True(t, base.WithinTolerance(NewFromFloat(100.005)))
	})

	t.Run("two cents apart is distinct", func(t *testing.T) {
		assert.False(t, base.WithinTolerance(NewFromFloat(100.02)))
	})

	t.Run("exactly one cent apart is distinct", func(t *testing.T) {
		assert.False(t, base.WithinTolerance(NewFromFloat(100.01)))
	})
}

func TestString(t *testing.T) {
	m, err := NewFromString("1234.5")
	require.NoError(t, err)
	assert.Equal(t, "1234.50", m.String())
}
