package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidScope(t *testing.T) {
	for _, scope := range []string{ScopeAll, ScopeName, ScopeAlias, ScopeAddress} {
		assert.True(t, IsValidScope(scope), scope)
	}
	for _, scope := range []string{"", "ALL", "names", "bogus"} {
		assert.False(t, IsValidScope(scope), scope)
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1, ClampLimit(0))
	assert.Equal(t, 1, ClampLimit(-5))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, 100, ClampLimit(100))
	assert.Equal(t, 1000, ClampLimit(1000))
	assert.Equal(t, 1000, ClampLimit(5000))
}
