package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glabrego/feedsync/internal/feedapi"
)

type FeedClient interface {
	AddFeed(ctx context.Context, feedURL string) (feedapi.Subscription, error)
	ListFeeds(ctx context.Context) ([]feedapi.Subscription, error)
	GetFeed(ctx context.Context, feedURL string) (feedapi.FeedSnapshot, error)
	DeleteFeed(ctx context.Context, feedURL string) error
	ExportURL(feedURL string) string
}

type Repository interface {
	SaveSubscriptions(ctx context.Context, subs []feedapi.Subscription) error
	UpsertSubscription(ctx context.Context, sub feedapi.Subscription) error
	DeleteSubscription(ctx context.Context, url string) error
	ListSubscriptions(ctx context.Context) ([]feedapi.Subscription, error)
	MarkSynced(ctx context.Context) error
}

// Service pairs the feed service with the local subscription cache. The
// service is authoritative: a cache write failing after a successful call is
// logged and does not fail the operation.
type Service struct {
	client FeedClient
	repo   Repository
	logger *slog.Logger
}

func NewService(client FeedClient, repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{client: client, repo: repo, logger: logger}
}

// ListCached returns the subscriptions known from the last session.
func (s *Service) ListCached(ctx context.Context) ([]feedapi.Subscription, error) {
	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions from cache: %w", err)
	}
	return subs, nil
}

// Refresh fetches the full list from the service. The caller decides which
// list to keep, since adds and deletes may settle while the fetch is out;
// it hands that list to SaveList.
func (s *Service) Refresh(ctx context.Context) ([]feedapi.Subscription, error) {
	subs, err := s.client.ListFeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch subscriptions: %w", err)
	}
	return subs, nil
}

// SaveList rewrites the cache with subs and records the sync time.
func (s *Service) SaveList(ctx context.Context, subs []feedapi.Subscription) error {
	if err := s.repo.SaveSubscriptions(ctx, subs); err != nil {
		return fmt.Errorf("save subscriptions: %w", err)
	}
	if err := s.repo.MarkSynced(ctx); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func (s *Service) Subscribe(ctx context.Context, feedURL string) (feedapi.Subscription, error) {
	sub, err := s.client.AddFeed(ctx, feedURL)
	if err != nil {
		return feedapi.Subscription{}, fmt.Errorf("add feed: %w", err)
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		s.logger.Warn("cache write failed", "op", "upsert subscription", "url", sub.URL, "err", err)
	}
	return sub, nil
}

func (s *Service) Unsubscribe(ctx context.Context, feedURL string) error {
	if err := s.client.DeleteFeed(ctx, feedURL); err != nil {
		return fmt.Errorf("delete feed: %w", err)
	}
	if err := s.repo.DeleteSubscription(ctx, feedURL); err != nil {
		s.logger.Warn("cache write failed", "op", "delete subscription", "url", feedURL, "err", err)
	}
	return nil
}

// Snapshot fetches the current items of feedURL. Snapshots are not cached.
func (s *Service) Snapshot(ctx context.Context, feedURL string) (feedapi.FeedSnapshot, error) {
	snap, err := s.client.GetFeed(ctx, feedURL)
	if err != nil {
		return feedapi.FeedSnapshot{}, fmt.Errorf("load feed: %w", err)
	}
	return snap, nil
}

func (s *Service) ExportURL(feedURL string) string {
	return s.client.ExportURL(feedURL)
}
