package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryEmpty(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.Supports(OpPost))
	_, ok := r.BackendFor(OpPost)
	assert.False(t, ok)
	assert.Empty(t, r.Operations())
}

func TestRegistryRegisterAndQuery(t *testing.T) {
	r := NewRegistry()
	r.Register("primary", []Operation{OpPost, OpReply})
	r.Register("search-node", []Operation{OpSearch})

	assert.True(t, r.Supports(OpPost))
	assert.True(t, r.Supports(OpSearch))
	assert.False(t, r.Supports(OpDelete))

	name, ok := r.BackendFor(OpSearch)
	assert.True(t, ok)
	assert.Equal(t, "search-node", name)

	assert.ElementsMatch(t, []Operation{OpPost, OpReply, OpSearch}, r.Operations())
}

func TestRegistryFirstBackendWins(t *testing.T) {
	r := NewRegistry()
	r.Register("a", []Operation{OpPost})
	r.Register("b", []Operation{OpPost})

	name, ok := r.BackendFor(OpPost)
	assert.True(t, ok)
	assert.Equal(t, "a", name)
}
