package thread

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soletta-dev/postpilot/logger"
)

func TestMain(m *testing.M) {
	logger.InitDiscard()
	m.Run()
}

// fakePoster scripts per-call failures and records what was posted.
type fakePoster struct {
	posts    []string
	replies  []string
	parents  []string
	failRoot bool
	failAt   int // 1-based reply index to fail on, 0 for never
	nextID   int
}

func (f *fakePoster) CreatePost(ctx context.Context, text string) (string, error) {
	if f.failRoot {
		return "", fmt.Errorf("boom")
	}
	f.posts = append(f.posts, text)
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID), nil
}

func (f *fakePoster) CreateReply(ctx context.Context, parentID, text string) (string, error) {
	if f.failAt > 0 && len(f.replies)+1 == f.failAt {
		return "", fmt.Errorf("reply boom")
	}
	f.replies = append(f.replies, text)
	f.parents = append(f.parents, parentID)
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID), nil
}

func TestCreateThreadEmpty(t *testing.T) {
	c := NewCreator(&fakePoster{}, "https://example.com/user")

	result := c.CreateThread(context.Background(), nil, 0)
	assert.False(t, result.Success)
	assert.Equal(t, "thread content is empty", result.ErrorMessage)
	assert.Empty(t, result.PostIDs)
}

func TestCreateThreadLinearChain(t *testing.T) {
	poster := &fakePoster{}
	c := NewCreator(poster, "https://example.com/user")

	result := c.CreateThread(context.Background(), []string{"a", "b", "c"}, 0)
	require.True(t, result.Success)
	assert.Empty(t, result.ErrorMessage)
	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, result.PostIDs)
	assert.Equal(t, "https://example.com/user/status/id-1", result.ThreadURL)

	// Each reply goes to the most recently created post.
	assert.Equal(t, []string{"id-1", "id-2"}, poster.parents)
}

func TestCreateThreadRootFailure(t *testing.T) {
	c := NewCreator(&fakePoster{failRoot: true}, "https://example.com/user")

	result := c.CreateThread(context.Background(), []string{"a", "b"}, 0)
	assert.False(t, result.Success)
	assert.Empty(t, result.PostIDs)
	assert.Contains(t, result.ErrorMessage, "root post failed")
}

func TestCreateThreadPartialChain(t *testing.T) {
	// Third post (second reply) fails: two out of five get published.
	poster := &fakePoster{failAt: 2}
	c := NewCreator(poster, "https://example.com/user")

	result := c.CreateThread(context.Background(), []string{"1", "2", "3", "4", "5"}, 0)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"id-1", "id-2"}, result.PostIDs)
	assert.Equal(t, "published only 2/5 posts", result.ErrorMessage)
	assert.Equal(t, "https://example.com/user/status/id-1", result.ThreadURL)
}

func TestCreateThreadTruncatesLongPosts(t *testing.T) {
	poster := &fakePoster{}
	c := NewCreator(poster, "https://example.com/user")

	long := strings.Repeat("x", 300)
	result := c.CreateThread(context.Background(), []string{long}, 0)
	require.True(t, result.Success)

	require.Len(t, poster.posts, 1)
	posted := poster.posts[0]
	assert.Equal(t, MaxPostLength, len([]rune(posted)))
	assert.True(t, strings.HasSuffix(posted, "..."))
	assert.Equal(t, strings.Repeat("x", 277), strings.TrimSuffix(posted, "..."))
}

func TestCreateThreadExactLimitUntouched(t *testing.T) {
	poster := &fakePoster{}
	c := NewCreator(poster, "https://example.com/user")

	exact := strings.Repeat("y", MaxPostLength)
	result := c.CreateThread(context.Background(), []string{exact}, 0)
	require.True(t, result.Success)
	assert.Equal(t, exact, poster.posts[0])
}

func TestCreateThreadCancelledDuringDelay(t *testing.T) {
	poster := &fakePoster{}
	c := NewCreator(poster, "https://example.com/user")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := c.CreateThread(ctx, []string{"a", "b"}, time.Minute)
	assert.True(t, result.Success)
	assert.Equal(t, []string{"id-1"}, result.PostIDs)
	assert.Equal(t, "published only 1/2 posts", result.ErrorMessage)
}
