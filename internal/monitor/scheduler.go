package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/social-monitor/internal/config"
	"github.com/social-monitor/internal/models"
	"github.com/social-monitor/internal/storage"
	"github.com/social-monitor/pkg/logger"
)

// DefaultMaxPosts bounds a monitoring fetch when the platform config
// does not set max_posts.
const DefaultMaxPosts = 20

const notificationBufferSize = 64

// Target is a (platform, user) pair subject to periodic fetching
type Target struct {
	Platform string
	UserID   string
}

// Scheduler is the periodic driver of the monitoring engine. Each tick
// enumerates targets and dispatches fetch cycles through the
// Coordinator; new-post events flow back through dedup and keyword
// matching into the notification stream.
type Scheduler struct {
	cfg   *config.Manager
	repo  storage.Repository
	coord *Coordinator
	seen  *SeenSet
	log   *logger.Logger

	notifications chan Notification

	mu      sync.Mutex
	running bool
	cron    *cron.Cron
	entryID cron.EntryID
	stopCh  chan struct{}

	lastMu    sync.Mutex
	lastCheck map[string]time.Time
}

// NewScheduler creates a scheduler. Monitoring does not begin until
// Start is called.
func NewScheduler(
	cfg *config.Manager,
	repo storage.Repository,
	coord *Coordinator,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		cfg:           cfg,
		repo:          repo,
		coord:         coord,
		seen:          NewSeenSet(),
		log:           log.WithComponent("scheduler"),
		notifications: make(chan Notification, notificationBufferSize),
		lastCheck:     make(map[string]time.Time),
	}
}

// Notifications returns the stream of keyword-matched posts for the
// presentation layer.
func (s *Scheduler) Notifications() <-chan Notification {
	return s.notifications
}

// SeenCount returns the size of the dedup set
func (s *Scheduler) SeenCount() int {
	return s.seen.Len()
}

// ResetSeen clears the dedup set. Previously observed posts will trigger
// match notifications again until re-observed.
func (s *Scheduler) ResetSeen() {
	s.seen.Clear()
	s.log.Info().Msg("Seen post set cleared")
}

// Start seeds the dedup set from storage and begins periodic ticking.
// Calling Start while already running is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn().Msg("Monitor already running")
		return nil
	}

	posts, err := s.repo.GetPosts(ctx, storage.PostFilter{Limit: SeenSeedLimit})
	if err != nil {
		return fmt.Errorf("failed to seed seen posts: %w", err)
	}
	s.seen.Seed(posts)
	s.log.Info().Int("seeded", s.seen.Len()).Msg("Loaded seen post history")

	interval := s.cfg.Monitor().Interval

	s.stopCh = make(chan struct{})
	go s.consumeEvents(s.stopCh)

	s.cron = cron.New(cron.WithLogger(cronLogger{s.log}))
	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", interval), func() {
		s.tick(context.Background())
	})
	if err != nil {
		close(s.stopCh)
		return fmt.Errorf("failed to schedule monitor tick: %w", err)
	}
	s.entryID = entryID
	s.cron.Start()

	s.running = true
	s.log.Info().Int("interval_seconds", interval).Msg("Monitor started")
	return nil
}

// Stop halts future ticks immediately. In-flight fetches are not
// cancelled; their posts are still persisted by the coordinator, but no
// further keyword matching or notification happens.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	close(s.stopCh)
	s.running = false
	s.log.Info().Msg("Monitor stopped")
}

// Reschedule replaces the tick interval on a running scheduler. The
// caller is responsible for persisting the new interval; on a stopped
// scheduler this is a no-op since Start reads the interval from config.
func (s *Scheduler) Reschedule(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("interval must be positive, got %d", seconds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), func() {
		s.tick(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to reschedule monitor tick: %w", err)
	}
	s.cron.Remove(s.entryID)
	s.entryID = entryID

	s.log.Info().Int("interval_seconds", seconds).Msg("Monitor rescheduled")
	return nil
}

// Running reports whether the scheduler is ticking
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastChecked returns when a target's last fetch cycle finished
func (s *Scheduler) LastChecked(platform, userID string) (time.Time, bool) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	t, ok := s.lastCheck[TargetKey(platform, userID)]
	return t, ok
}

// Status is a point-in-time snapshot of the scheduler for operator
// surfaces (the daemon's admin endpoints, the management CLI).
type Status struct {
	Running         bool           `json:"running"`
	Enabled         bool           `json:"enabled"`
	IntervalSeconds int            `json:"interval_seconds"`
	SeenPosts       int            `json:"seen_posts"`
	Targets         []TargetStatus `json:"targets"`
}

// TargetStatus describes one monitored target and its last completed check
type TargetStatus struct {
	Platform    string     `json:"platform"`
	UserID      string     `json:"user_id"`
	LastChecked *time.Time `json:"last_checked,omitempty"`
}

// Status reports the current scheduler state and per-target check times
func (s *Scheduler) Status(ctx context.Context) Status {
	mc := s.cfg.Monitor()
	status := Status{
		Running:         s.Running(),
		Enabled:         mc.Enabled,
		IntervalSeconds: mc.Interval,
		SeenPosts:       s.seen.Len(),
	}

	for _, target := range s.Targets(ctx) {
		ts := TargetStatus{Platform: target.Platform, UserID: target.UserID}
		if checked, ok := s.LastChecked(target.Platform, target.UserID); ok {
			ts.LastChecked = &checked
		}
		status.Targets = append(status.Targets, ts)
	}
	return status
}

// tick runs one scheduling pass: skip if monitoring is disabled,
// enumerate targets, dispatch a fetch for each target that is not
// already in flight. Dispatch never blocks on I/O.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.cfg.Monitor().Enabled {
		return
	}

	targets := s.Targets(ctx)
	if len(targets) == 0 {
		s.log.Debug().Msg("No monitor targets configured")
		return
	}

	s.log.Info().Int("targets", len(targets)).Msg("Checking for updates")

	platforms := s.cfg.Platforms()
	for _, target := range targets {
		if s.coord.IsFetching(target.Platform, target.UserID) {
			s.log.Debug().
				Str("platform", target.Platform).
				Str("user_id", target.UserID).
				Msg("Skipping target, fetch in progress")
			continue
		}

		maxPosts := DefaultMaxPosts
		if pc, ok := platforms[target.Platform]; ok && pc.MaxPosts > 0 {
			maxPosts = pc.MaxPosts
		}

		err := s.coord.Fetch(ctx, target.Platform, target.UserID, maxPosts)
		if errors.Is(err, ErrFetchInProgress) {
			s.log.Debug().
				Str("platform", target.Platform).
				Str("user_id", target.UserID).
				Msg("Skipping target, fetch in progress")
		} else if err != nil {
			s.log.Error().
				Err(err).
				Str("platform", target.Platform).
				Str("user_id", target.UserID).
				Msg("Failed to dispatch fetch")
		}
	}
}

// Targets computes the monitor target list: explicitly configured users
// of enabled platforms, or, when no platform has any configured user,
// every (platform, user) pair already persisted. The fallback is global
// across platforms, not per-platform.
func (s *Scheduler) Targets(ctx context.Context) []Target {
	platforms := s.cfg.Platforms()

	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, name)
	}
	sort.Strings(names)

	var targets []Target
	for _, name := range names {
		pc := platforms[name]
		if !pc.Enabled {
			continue
		}
		for _, userID := range pc.Users {
			targets = append(targets, Target{Platform: name, UserID: userID})
		}
	}

	if len(targets) == 0 {
		users, err := s.repo.GetUsers(ctx, "")
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to load fallback targets")
			return nil
		}
		for _, user := range users {
			targets = append(targets, Target{Platform: user.Platform, UserID: user.UserID})
		}
	}

	return targets
}

// consumeEvents processes coordinator events until the scheduler stops.
// Events arriving after Stop are left in the buffer unprocessed.
func (s *Scheduler) consumeEvents(stopCh <-chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case ev, ok := <-s.coord.Events():
			if !ok {
				return
			}
			s.handleEvent(ev)
		}
	}
}

func (s *Scheduler) handleEvent(ev Event) {
	switch e := ev.(type) {
	case NewPostEvent:
		s.handleNewPost(e.Post)
	case FinishedEvent:
		s.lastMu.Lock()
		s.lastCheck[TargetKey(e.Platform, e.UserID)] = time.Now()
		s.lastMu.Unlock()
		if e.Count > 0 {
			s.log.Debug().
				Str("platform", e.Platform).
				Str("user_id", e.UserID).
				Int("count", e.Count).
				Msg("Check finished")
		}
	case ErrorEvent:
		s.log.Warn().
			Err(e.Err).
			Str("platform", e.Platform).
			Str("user_id", e.UserID).
			Msg("Fetch cycle failed")
	case ProgressEvent:
		s.log.Debug().
			Str("platform", e.Platform).
			Str("user_id", e.UserID).
			Msg(e.Message)
	}
}

// cronLogger adapts our logger for cron
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Msgf(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Msgf(msg, keysAndValues...)
}

// handleNewPost runs one observed post through dedup and keyword
// matching, emitting a notification on a match.
func (s *Scheduler) handleNewPost(post models.Post) {
	if !s.seen.Observe(post.Platform, post.PostID) {
		return
	}

	mc := s.cfg.Monitor()
	matched := MatchKeywords(post.Content, mc.Keywords, MatchMode(mc.MatchMode))
	if len(matched) == 0 {
		return
	}

	s.log.Info().
		Str("platform", post.Platform).
		Str("username", post.Username).
		Strs("keywords", matched).
		Msg("Keyword match")

	if !mc.Notify {
		return
	}

	select {
	case s.notifications <- Notification{Post: post, Keywords: matched}:
	default:
		s.log.Warn().Str("post_id", post.PostID).Msg("Notification buffer full, dropping")
	}
}
