package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockStatusBands(t *testing.T) {
	cases := []struct {
		units int
		want  string
	}{
		{0, StockCritical},
		{4, StockCritical},
		{5, StockLow},
		{9, StockLow},
		{10, StockGood},
		{100, StockGood},
	}

	for _, tc := range cases {
		s := &BloodStock{UnitsAvailable: tc.units}
		assert.Equal(t, tc.want, s.Status(), "units=%d", tc.units)
	}
}
