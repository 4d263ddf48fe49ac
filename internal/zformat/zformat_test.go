package zformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountWholeValues(t *testing.T) {
	assert.Equal(t, "0", Amount(0))
	assert.Equal(t, "42", Amount(42))
	assert.Equal(t, "1,234", Amount(1234))
	assert.Equal(t, "123,456,789", Amount(123456789))
}

func TestAmountFractionalValues(t *testing.T) {
	assert.Equal(t, "2,500.50", Amount(2500.5))
	assert.Equal(t, "0.25", Amount(0.25))
}
