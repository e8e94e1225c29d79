package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/soletta-dev/postpilot/logger"
	"github.com/soletta-dev/postpilot/review"
)

// MaxPostLength mirrors the platform limit so generated content can be
// shortened at the source instead of at publish time.
const MaxPostLength = 280

// Kind values accepted by Generate.
const (
	KindHeadlines = "headlines"
	KindThread    = "thread"
	KindFocus     = "focus"
	KindWeekly    = "weekly"
)

// ThreadTopic is a themed sequence of posts meant to go out as one chain.
type ThreadTopic struct {
	Theme string
	Posts []string
}

// TopicPool holds the canned material content is drawn from. Callers can
// supply their own pool; DefaultPool covers the built-in topics.
type TopicPool struct {
	HeadlineTemplates []string
	ThreadTopics      []ThreadTopic
	FocusTemplates    []string
	WeeklyTemplates   []string
	QuoteComments     []string
	SearchQueries     []string
}

// Generator picks content from a pool. The clock and RNG are injectable so
// tests get stable output from a fixed seed.
type Generator struct {
	pool TopicPool
	rng  *rand.Rand
	now  func() time.Time
}

func New(pool TopicPool, seed int64) *Generator {
	return &Generator{
		pool: pool,
		rng:  rand.New(rand.NewSource(seed)),
		now:  time.Now,
	}
}

// NewWithClock is used by tests to pin the dates baked into templates.
func NewWithClock(pool TopicPool, seed int64, now func() time.Time) *Generator {
	g := New(pool, seed)
	g.now = now
	return g
}

// Generate produces content for one of the known kinds. Threads come back
// as multi-post content, everything else as a single post.
func (g *Generator) Generate(kind string) (review.Content, error) {
	switch kind {
	case KindHeadlines:
		return review.NewPost(g.headlines()), nil
	case KindThread:
		return review.NewThread(g.thread()), nil
	case KindFocus:
		return review.NewPost(g.focus()), nil
	case KindWeekly:
		return review.NewPost(g.weeklyRecap()), nil
	default:
		return review.Content{}, fmt.Errorf("unknown content kind: %s", kind)
	}
}

func (g *Generator) headlines() string {
	date := g.now().UTC().Format("2006-01-02")
	template := g.pool.HeadlineTemplates[g.rng.Intn(len(g.pool.HeadlineTemplates))]
	return clamp(fmt.Sprintf(template, date))
}

func (g *Generator) thread() []string {
	topic := g.pool.ThreadTopics[g.rng.Intn(len(g.pool.ThreadTopics))]
	logger.Logger.Printf("Selected thread topic: %s", topic.Theme)
	posts := make([]string, len(topic.Posts))
	copy(posts, topic.Posts)
	return posts
}

func (g *Generator) focus() string {
	topic := g.pool.ThreadTopics[g.rng.Intn(len(g.pool.ThreadTopics))]
	template := g.pool.FocusTemplates[g.rng.Intn(len(g.pool.FocusTemplates))]
	excerpt := topic.Posts[g.rng.Intn(len(topic.Posts))]
	return clamp(fmt.Sprintf(template, topic.Theme, excerpt))
}

func (g *Generator) weeklyRecap() string {
	end := g.now().UTC()
	start := end.AddDate(0, 0, -7)
	template := g.pool.WeeklyTemplates[g.rng.Intn(len(g.pool.WeeklyTemplates))]
	return clamp(fmt.Sprintf(template, start.Format("01-02"), end.Format("01-02")))
}

// QuoteComment returns a comment to attach when quoting a found post.
func (g *Generator) QuoteComment() string {
	return g.pool.QuoteComments[g.rng.Intn(len(g.pool.QuoteComments))]
}

// SearchQuery returns a query for finding quote-worthy posts.
func (g *Generator) SearchQuery() string {
	return g.pool.SearchQueries[g.rng.Intn(len(g.pool.SearchQueries))]
}

func clamp(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxPostLength {
		return text
	}
	return string(runes[:MaxPostLength-3]) + "..."
}
