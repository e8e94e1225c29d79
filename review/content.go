package review

import (
	"encoding/json"
	"fmt"
)

// Content is a tagged variant: either a single post body or an ordered
// sequence of posts forming a thread. On the wire it is stored as either a
// bare JSON string or an array of strings.
type Content struct {
	thread   []string
	single   string
	isThread bool
}

func NewPost(text string) Content {
	return Content{single: text}
}

func NewThread(posts []string) Content {
	copied := make([]string, len(posts))
	copy(copied, posts)
	return Content{thread: copied, isThread: true}
}

func (c Content) IsThread() bool {
	return c.isThread
}

// Text returns the single post body. Zero value for threads.
func (c Content) Text() string {
	if c.isThread {
		return ""
	}
	return c.single
}

// Items returns the thread's posts in order. Nil for single posts.
func (c Content) Items() []string {
	if !c.isThread {
		return nil
	}
	copied := make([]string, len(c.thread))
	copy(copied, c.thread)
	return copied
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.isThread {
		return json.Marshal(c.thread)
	}
	return json.Marshal(c.single)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = NewPost(single)
		return nil
	}

	var thread []string
	if err := json.Unmarshal(data, &thread); err == nil {
		*c = NewThread(thread)
		return nil
	}

	return fmt.Errorf("content must be a string or an array of strings")
}
