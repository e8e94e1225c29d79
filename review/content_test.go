package review

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentSinglePostJSON(t *testing.T) {
	c := NewPost("hello world")

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `"hello world"`, string(data))

	var decoded Content
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.IsThread())
	assert.Equal(t, "hello world", decoded.Text())
	assert.Nil(t, decoded.Items())
}

func TestContentThreadJSON(t *testing.T) {
	c := NewThread([]string{"one", "two", "three"})

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `["one","two","three"]`, string(data))

	var decoded Content
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.IsThread())
	assert.Equal(t, []string{"one", "two", "three"}, decoded.Items())
	assert.Empty(t, decoded.Text())
}

func TestContentRejectsOtherShapes(t *testing.T) {
	var c Content
	assert.Error(t, json.Unmarshal([]byte(`{"text":"x"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`42`), &c))
}

func TestNewThreadCopiesInput(t *testing.T) {
	posts := []string{"a", "b"}
	c := NewThread(posts)
	posts[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, c.Items())
}
