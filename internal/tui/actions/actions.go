package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/feedsync/internal/feedapi"
	"github.com/glabrego/feedsync/internal/sanitize"
	"github.com/glabrego/feedsync/internal/session"
)

type Service interface {
	Refresh(ctx context.Context) ([]feedapi.Subscription, error)
	SaveList(ctx context.Context, subs []feedapi.Subscription) error
	Subscribe(ctx context.Context, feedURL string) (feedapi.Subscription, error)
	Unsubscribe(ctx context.Context, feedURL string) error
	Snapshot(ctx context.Context, feedURL string) (feedapi.FeedSnapshot, error)
	ExportURL(feedURL string) string
}

type RefreshSuccessMsg struct {
	Subscriptions []feedapi.Subscription
	Duration      time.Duration
}

type RefreshErrorMsg struct {
	Err      error
	Duration time.Duration
}

// CacheErrorMsg reports a failed cache rewrite. The list on screen stays.
type CacheErrorMsg struct {
	Err error
}

// AddSuccessMsg and AddErrorMsg carry the OpID of the submission that
// started the request, so a late answer re-enables only its own submission.
type AddSuccessMsg struct {
	OpID         int
	Subscription feedapi.Subscription
}

type AddErrorMsg struct {
	OpID int
	URL  string
	Err  error
}

type LoadSuccessMsg struct {
	Ticket   session.Ticket
	Snapshot feedapi.FeedSnapshot
}

type LoadErrorMsg struct {
	Ticket session.Ticket
	Err    error
}

type DeleteSuccessMsg struct {
	URL string
}

type DeleteErrorMsg struct {
	URL string
	Err error
}

// NormalizeDoneMsg holds the post-render pass over the bodies of Ticket.
type NormalizeDoneMsg struct {
	Ticket session.Ticket
	Bodies []string
	Err    error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

func RefreshCmd(service Service, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()

		subs, err := service.Refresh(ctx)
		if err != nil {
			return RefreshErrorMsg{Err: err, Duration: time.Since(start)}
		}
		return RefreshSuccessMsg{Subscriptions: subs, Duration: time.Since(start)}
	}
}

// SaveListCmd rewrites the cache with subs. It yields no message on success.
func SaveListCmd(service Service, subs []feedapi.Subscription, timeout time.Duration) tea.Cmd {
	list := append([]feedapi.Subscription(nil), subs...)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := service.SaveList(ctx, list); err != nil {
			return CacheErrorMsg{Err: err}
		}
		return nil
	}
}

func AddCmd(service Service, opID int, feedURL string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		sub, err := service.Subscribe(ctx, feedURL)
		if err != nil {
			return AddErrorMsg{OpID: opID, URL: feedURL, Err: err}
		}
		return AddSuccessMsg{OpID: opID, Subscription: sub}
	}
}

func LoadCmd(service Service, ticket session.Ticket, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		snap, err := service.Snapshot(ctx, ticket.URL)
		if err != nil {
			return LoadErrorMsg{Ticket: ticket, Err: err}
		}
		return LoadSuccessMsg{Ticket: ticket, Snapshot: snap}
	}
}

func DeleteCmd(service Service, feedURL string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := service.Unsubscribe(ctx, feedURL); err != nil {
			return DeleteErrorMsg{URL: feedURL, Err: err}
		}
		return DeleteSuccessMsg{URL: feedURL}
	}
}

// NormalizeCmd runs the post-render pass on already sanitized bodies. The
// result is applied only if the ticket is still current.
func NormalizeCmd(ticket session.Ticket, bodies []string) tea.Cmd {
	in := append([]string(nil), bodies...)
	return func() tea.Msg {
		out := make([]string, len(in))
		for i, body := range in {
			normalized, err := sanitize.Normalize(body)
			if err != nil {
				return NormalizeDoneMsg{Ticket: ticket, Err: fmt.Errorf("normalize item %d: %w", i, err)}
			}
			out[i] = normalized
		}
		return NormalizeDoneMsg{Ticket: ticket, Bodies: out}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened URL in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}
