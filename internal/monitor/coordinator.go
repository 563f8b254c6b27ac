package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/social-monitor/internal/models"
	"github.com/social-monitor/internal/source"
	"github.com/social-monitor/internal/storage"
	"github.com/social-monitor/pkg/logger"
	"github.com/social-monitor/pkg/ratelimit"
)

var (
	// ErrFetchInProgress is returned when a fetch is requested for a
	// target that already has one in flight. Requests are rejected, not
	// queued; a tick that outruns fetch latency skips the target.
	ErrFetchInProgress = errors.New("fetch already in progress for target")

	// ErrUserInfoUnavailable indicates the source returned no usable
	// profile data. The fetch cycle is aborted; the target stays
	// eligible for the next tick.
	ErrUserInfoUnavailable = errors.New("user info unavailable")
)

const (
	defaultMaxConcurrent = 4
	eventBufferSize      = 256
)

// Coordinator orchestrates fetch-and-persist cycles. It guarantees at
// most one in-flight fetch per (platform, user) target while letting
// distinct targets run concurrently, bounded by a weighted semaphore.
// Cycle progress and results are reported as Events.
type Coordinator struct {
	sources *source.Registry
	repo    storage.Repository
	limiter *ratelimit.MultiLimiter
	log     *logger.Logger

	events chan Event
	sem    *semaphore.Weighted

	mu       sync.Mutex
	inflight map[string]bool
	wg       sync.WaitGroup
}

// NewCoordinator creates a coordinator running at most maxConcurrent
// fetches at a time.
func NewCoordinator(
	sources *source.Registry,
	repo storage.Repository,
	limiter *ratelimit.MultiLimiter,
	maxConcurrent int,
	log *logger.Logger,
) *Coordinator {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Coordinator{
		sources:  sources,
		repo:     repo,
		limiter:  limiter,
		log:      log.WithComponent("coordinator"),
		events:   make(chan Event, eventBufferSize),
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		inflight: make(map[string]bool),
	}
}

// Events returns the event stream. The consumer must drain it promptly;
// emit drops events rather than blocking, so a stalled consumer cannot
// wedge fetch goroutines.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}

// IsFetching reports whether a fetch is currently in flight for a target
func (c *Coordinator) IsFetching(platform, userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[TargetKey(platform, userID)]
}

// Fetch starts an asynchronous fetch cycle for a target. It returns
// ErrFetchInProgress when the same target already has a cycle running;
// dispatch itself never blocks on I/O.
func (c *Coordinator) Fetch(ctx context.Context, platform, userID string, maxPosts int) error {
	key := TargetKey(platform, userID)

	c.mu.Lock()
	if c.inflight[key] {
		c.mu.Unlock()
		return ErrFetchInProgress
	}
	c.inflight[key] = true
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			delete(c.inflight, key)
			c.mu.Unlock()
		}()
		c.run(ctx, platform, userID, maxPosts)
	}()

	return nil
}

// Wait blocks until all in-flight fetches have completed
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// run executes one fetch-and-persist cycle. Any failure aborts the
// remaining steps and surfaces as a single ErrorEvent; upserts already
// made in the same cycle are retained, which is safe because re-fetching
// repeats them idempotently.
func (c *Coordinator) run(ctx context.Context, platform, userID string, maxPosts int) {
	log := c.log.WithTarget(platform, userID)

	if err := c.sem.Acquire(ctx, 1); err != nil {
		c.emit(ErrorEvent{Platform: platform, UserID: userID, Err: fmt.Errorf("fetch cancelled: %w", err)})
		return
	}
	defer c.sem.Release(1)

	src, err := c.sources.Get(platform)
	if err != nil {
		c.emit(ErrorEvent{Platform: platform, UserID: userID, Err: err})
		return
	}

	// Allow consumes a token when one is free; otherwise surface the
	// stall as progress before blocking in Wait.
	if !c.limiter.Allow(platform) {
		c.emit(ProgressEvent{Platform: platform, UserID: userID, Message: "waiting for rate limit"})
		if err := c.limiter.Wait(ctx, platform); err != nil {
			c.emit(ErrorEvent{Platform: platform, UserID: userID, Err: fmt.Errorf("rate limit wait: %w", err)})
			return
		}
	}

	c.emit(ProgressEvent{Platform: platform, UserID: userID, Message: "fetching user info"})
	info, err := src.GetUserInfo(ctx, userID)
	if err != nil {
		c.emit(ErrorEvent{Platform: platform, UserID: userID, Err: fmt.Errorf("%w: %v", ErrUserInfoUnavailable, err)})
		return
	}
	if info == nil {
		c.emit(ErrorEvent{Platform: platform, UserID: userID, Err: fmt.Errorf("%w: user %s not found", ErrUserInfoUnavailable, userID)})
		return
	}

	user := &models.User{
		Platform:    platform,
		UserID:      info.UserID,
		Username:    info.Username,
		Avatar:      info.Avatar,
		Description: info.Description,
		Followers:   info.Followers,
	}
	if err := c.repo.UpsertUser(ctx, user); err != nil {
		c.emit(ErrorEvent{Platform: platform, UserID: userID, Err: fmt.Errorf("failed to store user: %w", err)})
		return
	}

	c.emit(ProgressEvent{Platform: platform, UserID: userID, Message: "fetching posts"})
	records, err := src.GetUserPosts(ctx, userID, maxPosts)
	if err != nil {
		c.emit(ErrorEvent{Platform: platform, UserID: userID, Err: fmt.Errorf("failed to fetch posts: %w", err)})
		return
	}

	if len(records) == 0 {
		c.emit(ProgressEvent{Platform: platform, UserID: userID, Message: "no new posts"})
		c.emit(FinishedEvent{Platform: platform, UserID: userID, Count: 0})
		return
	}

	count := 0
	for _, record := range records {
		post := models.Post{
			Platform:    platform,
			PostID:      record.PostID,
			UserID:      info.UserID,
			Username:    info.Username,
			Content:     record.Content,
			Images:      models.StringSlice(record.Images),
			Videos:      models.StringSlice(record.Videos),
			Likes:       record.Likes,
			Comments:    record.Comments,
			Shares:      record.Shares,
			PostURL:     record.PostURL,
			PublishedAt: record.PublishedAt,
		}
		if err := c.repo.UpsertPost(ctx, &post); err != nil {
			c.emit(ErrorEvent{Platform: platform, UserID: userID, Err: fmt.Errorf("failed to store post %s: %w", record.PostID, err)})
			return
		}
		c.emit(NewPostEvent{Post: post})
		count++
	}

	log.Debug().Int("count", count).Msg("Fetch cycle completed")
	c.emit(ProgressEvent{Platform: platform, UserID: userID, Message: fmt.Sprintf("fetched %d posts", count)})
	c.emit(FinishedEvent{Platform: platform, UserID: userID, Count: count})
}

func (c *Coordinator) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.log.Debug().Msg("Event buffer full, dropping event")
	}
}

// TargetKey builds the in-flight guard key for a (platform, user) pair
func TargetKey(platform, userID string) string {
	return platform + "_" + userID
}
