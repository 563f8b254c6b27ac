package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <link>https://example.com</link>
    <description>Posts about &lt;b&gt;things&lt;/b&gt;</description>
    <item>
      <title>First Post</title>
      <link>https://example.com/posts/1</link>
      <guid>post-1</guid>
      <description>&lt;p&gt;Hello&lt;br/&gt;world&lt;/p&gt;</description>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
    </item>
    <item>
      <title>Second Post</title>
      <link>https://example.com/posts/2</link>
      <description>No guid here</description>
      <pubDate>Sun, 01 Jan 2006 15:04:05 GMT</pubDate>
    </item>
    <item>
      <title>Third Post</title>
      <link>https://example.com/posts/3</link>
      <guid>post-3</guid>
    </item>
  </channel>
</rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetUserInfo(t *testing.T) {
	srv := newFeedServer(t)
	s := New()

	info, err := s.GetUserInfo(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetUserInfo returned error: %v", err)
	}
	if info.UserID != srv.URL {
		t.Errorf("user id = %q, want the feed URL", info.UserID)
	}
	if info.Username != "Example Blog" {
		t.Errorf("username = %q, want feed title", info.Username)
	}
	if info.Description != "Posts about things" {
		t.Errorf("description = %q, want HTML stripped", info.Description)
	}
}

func TestGetUserInfoBadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := New().GetUserInfo(context.Background(), srv.URL); err == nil {
		t.Error("expected an error for an unreachable feed")
	}
}

func TestGetUserPosts(t *testing.T) {
	srv := newFeedServer(t)
	s := New()

	records, err := s.GetUserPosts(context.Background(), srv.URL, 0)
	if err != nil {
		t.Fatalf("GetUserPosts returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	first := records[0]
	if first.PostID != "post-1" {
		t.Errorf("post id = %q, want the guid", first.PostID)
	}
	if first.PostURL != "https://example.com/posts/1" {
		t.Errorf("post url = %q", first.PostURL)
	}
	if !strings.Contains(first.Content, "First Post") || !strings.Contains(first.Content, "Hello world") {
		t.Errorf("content = %q, want title plus cleaned description", first.Content)
	}
	if first.PublishedAt.IsZero() {
		t.Error("published time should be parsed from pubDate")
	}

	// Items without a guid fall back to the link
	if records[1].PostID != "https://example.com/posts/2" {
		t.Errorf("post id = %q, want link fallback", records[1].PostID)
	}
}

func TestGetUserPostsMaxCount(t *testing.T) {
	srv := newFeedServer(t)

	records, err := New().GetUserPosts(context.Background(), srv.URL, 2)
	if err != nil {
		t.Fatalf("GetUserPosts returned error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2 with maxCount 2", len(records))
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Hello<br/>world</p>", "Hello world"},
		{"plain text", "plain text"},
		{"<a href=\"x\">link</a> text", "link text"},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
