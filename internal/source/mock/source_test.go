package mock

import (
	"context"
	"testing"
)

func TestGetUserPostsDeterministic(t *testing.T) {
	s := New("weibo")
	ctx := context.Background()

	first, err := s.GetUserPosts(ctx, "u1", 5)
	if err != nil {
		t.Fatalf("GetUserPosts returned error: %v", err)
	}
	if len(first) != 5 {
		t.Fatalf("got %d posts, want 5", len(first))
	}

	second, _ := s.GetUserPosts(ctx, "u1", 5)
	for i := range first {
		if first[i].PostID != second[i].PostID {
			t.Errorf("post %d id changed between calls: %q vs %q", i, first[i].PostID, second[i].PostID)
		}
	}

	// Repeated cycles must yield the same IDs so dedup suppresses them
	if first[0].PostID != "mock_u1_0" {
		t.Errorf("post id = %q, want mock_u1_0", first[0].PostID)
	}
}

func TestGetUserPostsCapped(t *testing.T) {
	s := New("douyin")
	posts, err := s.GetUserPosts(context.Background(), "u1", 100)
	if err != nil {
		t.Fatalf("GetUserPosts returned error: %v", err)
	}
	if len(posts) != 10 {
		t.Errorf("got %d posts, want cap of 10", len(posts))
	}
}

func TestGetUserInfo(t *testing.T) {
	s := New("weibo")
	info, err := s.GetUserInfo(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetUserInfo returned error: %v", err)
	}
	if info.UserID != "u1" || info.Username != "weibo_user_u1" {
		t.Errorf("unexpected profile: %+v", info)
	}
}
