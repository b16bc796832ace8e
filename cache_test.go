package blogkit

import (
	"errors"
	"testing"
	"time"
)

func countingLoader(calls *int, posts ...Post) ContentLoader {
	return func() (*ContentStore, error) {
		*calls++
		return NewContentStore(posts)
	}
}

func TestPostCacheReusesStoreWithinTTL(t *testing.T) {
	calls := 0
	c := NewPostCache(countingLoader(&calls, Post{ID: "a"}), time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := c.Store(); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestPostCacheReloadsAfterTTL(t *testing.T) {
	calls := 0
	c := NewPostCache(countingLoader(&calls, Post{ID: "a"}), 20*time.Millisecond)

	if _, err := c.Store(); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, err := c.Store(); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("loader called %d times, want 2", calls)
	}
}

func TestPostCacheInvalidate(t *testing.T) {
	calls := 0
	c := NewPostCache(countingLoader(&calls, Post{ID: "a"}), time.Hour)
	loaded := 0
	c.OnLoad(func(s *ContentStore) { loaded += s.Len() })

	c.Store()
	c.Invalidate()
	c.Store()
	if calls != 2 {
		t.Errorf("loader called %d times, want 2", calls)
	}
	if loaded != 2 {
		t.Errorf("OnLoad saw %d posts in total, want 2", loaded)
	}
}

func TestPostCacheLoadError(t *testing.T) {
	boom := errors.New("boom")
	c := NewPostCache(func() (*ContentStore, error) { return nil, boom }, time.Minute)
	c.OnLoad(func(*ContentStore) { t.Error("OnLoad must not run on a failed load") })

	if _, err := c.ListPosts(""); !errors.Is(err, boom) {
		t.Errorf("ListPosts error = %v, want %v", err, boom)
	}
	if _, err := c.GetPost("a"); !errors.Is(err, boom) {
		t.Errorf("GetPost error = %v, want %v", err, boom)
	}
}

func TestPostCacheQueries(t *testing.T) {
	calls := 0
	c := NewPostCache(countingLoader(&calls,
		Post{ID: "a", Tags: []string{"go"}},
		Post{ID: "b", Tags: []string{"rust"}},
	), time.Minute)

	posts, err := c.ListPosts("go")
	if err != nil || len(posts) != 1 || posts[0].ID != "a" {
		t.Errorf("ListPosts(go) = %v, %v", posts, err)
	}
	all, _ := c.ListPosts("")
	if len(all) != 2 {
		t.Errorf("ListPosts() returned %d posts, want 2", len(all))
	}
	tags, _ := c.ListTags()
	if len(tags) != 2 {
		t.Errorf("ListTags() = %v", tags)
	}
	if _, err := c.GetPost("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost(missing) error = %v, want ErrNotFound", err)
	}
}
