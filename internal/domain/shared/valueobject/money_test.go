package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_AddSubtract(t *testing.T) {
	a := NewMoneyBRLFromFloat(100.50)
	b := NewMoneyBRLFromFloat(49.50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(150)))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(51)))
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	a := NewMoneyBRLFromFloat(10)
	b, err := NewMoney(decimal.NewFromInt(10), USD)
	require.NoError(t, err)

	_, err = a.Add(b)
	assert.Error(t, err)
	_, err = a.Subtract(b)
	assert.Error(t, err)
	_, err = a.LessThan(b)
	assert.Error(t, err)
}

func TestMoney_Min(t *testing.T) {
	a := NewMoneyBRLFromFloat(30)
	b := NewMoneyBRLFromFloat(20)

	assert.True(t, a.Min(b).Equals(b))
	assert.True(t, b.Min(a).Equals(b))
}

func TestMoney_Signs(t *testing.T) {
	m := NewMoneyBRLFromFloat(25)

	assert.True(t, m.IsPositive())
	assert.True(t, m.Negate().IsNegative())
	assert.True(t, m.Negate().Abs().Equals(m))
	assert.True(t, ZeroBRL().IsZero())
}
