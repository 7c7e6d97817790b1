package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		v, err := Generate(Draft)
		require.NoError(t, err)
		assert.False(t, seen[v], "duplicate id %s", v)
		seen[v] = true
	}
}

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{Draft, Template, Library, Task} {
		v, err := Generate(prefix)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(v, prefix+"-"))
		assert.Len(t, v, len(prefix)+1+21)
	}
}
