package source

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/social-monitor/internal/models"
)

type namedSource struct {
	name string
}

func (s *namedSource) Platform() string { return s.name }

func (s *namedSource) GetUserInfo(ctx context.Context, userID string) (*models.UserInfo, error) {
	return nil, nil
}

func (s *namedSource) GetUserPosts(ctx context.Context, userID string, maxCount int) ([]*models.PostRecord, error) {
	return nil, nil
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	weibo := &namedSource{name: "weibo"}
	r.Register(weibo)

	got, err := r.Get("weibo")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != PostSource(weibo) {
		t.Errorf("Get returned a different source")
	}

	if _, err := r.Get("unknown"); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("Get for unknown platform = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestRegistryReplaceAndPlatforms(t *testing.T) {
	r := NewRegistry()
	r.Register(&namedSource{name: "weibo"})
	r.Register(&namedSource{name: "douyin"})

	replacement := &namedSource{name: "weibo"}
	r.Register(replacement)

	got, err := r.Get("weibo")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != PostSource(replacement) {
		t.Error("Register should replace the previous source for a platform")
	}

	if platforms := r.Platforms(); !reflect.DeepEqual(platforms, []string{"douyin", "weibo"}) {
		t.Errorf("Platforms() = %v, want sorted [douyin weibo]", platforms)
	}
}
