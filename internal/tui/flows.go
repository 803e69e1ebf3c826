package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/feedsync/internal/feedapi"
	"github.com/glabrego/feedsync/internal/notify"
	tuiactions "github.com/glabrego/feedsync/internal/tui/actions"
	tuiplatform "github.com/glabrego/feedsync/internal/tui/platform"
	tuistate "github.com/glabrego/feedsync/internal/tui/state"
)

const (
	addSuccessText     = "Feed added successfully!"
	addSlowText        = "Adding the feed is still processing, check back in a moment"
	deleteSuccessText  = "Feed deleted successfully!"
	deleteSlowText     = "Deleting the feed is still processing, check back in a moment"
	addErrorPrefix     = "Error adding feed: "
	loadErrorPrefix    = "Error loading feed: "
	deleteErrorPrefix  = "Error deleting feed: "
	refreshErrorPrefix = "Could not refresh feeds, showing cached list: "
)

func failureText(prefix string, err error) string {
	return prefix + feedapi.UserMessage(err, feedapi.GenericReason(err))
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	if m.service == nil || m.refreshing {
		return m, nil
	}
	m.refreshing = true
	m.journal.Reset()
	m.refreshSince = m.journal.Version()
	spin := m.startSpinner()
	return m, tea.Batch(tuiactions.RefreshCmd(m.service, m.opts.RequestTimeout), spin)
}

// onRefreshSuccess replaces the list with the server's. Adds and deletes
// that settled while the fetch was in flight are merged back in, and the
// cache is rewritten from the merged list.
func (m Model) onRefreshSuccess(msg tuiactions.RefreshSuccessMsg) (tea.Model, tea.Cmd) {
	m.refreshing = false
	list, merged := m.journal.Apply(msg.Subscriptions, m.refreshSince)
	m.journal.Reset()
	if merged {
		m.logger.Debug("refresh merged with settled changes", "fetched", len(msg.Subscriptions), "kept", len(list))
	}

	anchor := ""
	if entry, ok := m.subs.At(m.cursor); ok {
		anchor = entry.Subscription.URL
	}
	m.subs.Replace(list)
	if idx := m.subs.IndexOf(anchor); idx >= 0 {
		m.cursor = idx
	}
	m.cursor = tuistate.ClampCursor(m.cursor, m.subs.Len())
	if selected, ok := m.session.Selected(); ok && !m.subs.Has(selected) {
		m.clearSelection()
	}
	m.lastSync = m.nowFn()
	m.logger.Info("subscriptions refreshed", "count", len(list), "duration", msg.Duration)
	return m, tuiactions.SaveListCmd(m.service, list, m.opts.RequestTimeout)
}

func (m Model) onRefreshError(msg tuiactions.RefreshErrorMsg) (tea.Model, tea.Cmd) {
	m.refreshing = false
	m.journal.Reset()
	m.logger.Warn("subscription refresh failed", "err", msg.Err, "duration", msg.Duration)
	return m, m.notify(failureText(refreshErrorPrefix, msg.Err), notify.LevelWarning)
}

// submitAdd validates the input and starts an add. While a previous add
// holds the submit affordance this is a no-op.
func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	if m.addLock != 0 || m.service == nil {
		return m, nil
	}
	feedURL, err := feedapi.ValidateFeedURL(m.input.Value())
	if err != nil {
		return m, m.notify(feedapi.UserMessage(err, feedapi.EmptyURLMessage), notify.LevelError)
	}

	m.addSeq++
	opID := m.addSeq
	m.addLock = opID
	m.logger.Debug("add feed started", "op", opID, "url", feedURL)
	spin := m.startSpinner()
	return m, tea.Batch(
		tuiactions.AddCmd(m.service, opID, feedURL, m.opts.RequestTimeout),
		after(m.opts.AddWatchdog, addWatchdogMsg{opID: opID}),
		spin,
	)
}

// releaseAdd re-enables submit if opID still holds it. Each op releases at
// most once, whichever of settle or watchdog comes first.
func (m *Model) releaseAdd(opID int) {
	if m.addLock == opID {
		m.addLock = 0
	}
}

func (m Model) onAddSuccess(msg tuiactions.AddSuccessMsg) (tea.Model, tea.Cmd) {
	m.releaseAdd(msg.OpID)
	m.input.Reset()

	sub := msg.Subscription
	m.journal.Added(sub)
	cmds := []tea.Cmd{m.notify(addSuccessText, notify.LevelSuccess)}
	if !m.subs.Insert(sub) {
		if token, ok := m.subs.Highlight(sub.URL); ok {
			cmds = append(cmds, after(m.opts.NotificationTTL, highlightDoneMsg{url: sub.URL, token: token}))
		}
	}
	m.logger.Info("feed added", "op", msg.OpID, "url", sub.URL)

	if idx := m.subs.IndexOf(sub.URL); idx >= 0 {
		m.cursor = idx
	}
	next, cmd := m.selectFeed(sub.URL)
	return next, tea.Batch(append(cmds, cmd)...)
}

func (m Model) onAddError(msg tuiactions.AddErrorMsg) (tea.Model, tea.Cmd) {
	m.releaseAdd(msg.OpID)
	m.logger.Warn("add feed failed", "op", msg.OpID, "url", msg.URL, "err", msg.Err)
	return m, m.notify(failureText(addErrorPrefix, msg.Err), notify.LevelError)
}

func (m Model) onAddWatchdog(msg addWatchdogMsg) (tea.Model, tea.Cmd) {
	if m.addLock != msg.opID {
		return m, nil
	}
	m.releaseAdd(msg.opID)
	return m, m.notify(addSlowText, notify.LevelWarning)
}

// selectFeed starts a fresh load of url. Earlier loads become stale.
func (m Model) selectFeed(url string) (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m, nil
	}
	ticket := m.session.Begin(url)
	m.subs.SetRefreshing(url, true)
	m.loadsInFlight[url]++
	m.itemCursor = 0
	m.rebuildPane()
	m.viewport.GotoTop()
	m.logger.Debug("feed load started", "url", url, "generation", ticket.Generation)

	spin := m.startSpinner()
	return m, tea.Batch(
		tuiactions.LoadCmd(m.service, ticket, m.opts.RequestTimeout),
		after(m.opts.LoadWatchdog, loadWatchdogMsg{ticket: ticket}),
		spin,
	)
}

// settleLoad clears the refreshing mark of url once its last request is back,
// current or not.
func (m *Model) settleLoad(url string) {
	m.loadsInFlight[url]--
	if m.loadsInFlight[url] <= 0 {
		delete(m.loadsInFlight, url)
		m.subs.SetRefreshing(url, false)
	}
}

func (m Model) onLoadSuccess(msg tuiactions.LoadSuccessMsg) (tea.Model, tea.Cmd) {
	m.settleLoad(msg.Ticket.URL)
	if !m.session.Succeed(msg.Ticket, msg.Snapshot) {
		m.logger.Debug("stale feed load dropped", "url", msg.Ticket.URL, "generation", msg.Ticket.Generation)
		return m, nil
	}
	m.itemCursor = 0
	m.rebuildPane()
	m.viewport.GotoTop()
	return m, tuiactions.NormalizeCmd(msg.Ticket, m.session.Bodies())
}

func (m Model) onLoadError(msg tuiactions.LoadErrorMsg) (tea.Model, tea.Cmd) {
	m.settleLoad(msg.Ticket.URL)
	if !m.session.Fail(msg.Ticket, msg.Err) {
		m.logger.Debug("stale feed load error dropped", "url", msg.Ticket.URL, "err", msg.Err)
		return m, nil
	}
	m.logger.Warn("feed load failed", "url", msg.Ticket.URL, "err", msg.Err)
	m.rebuildPane()
	return m, m.notify(failureText(loadErrorPrefix, msg.Err), notify.LevelError)
}

func (m Model) onNormalizeDone(msg tuiactions.NormalizeDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Debug("post-render pass skipped", "url", msg.Ticket.URL, "err", msg.Err)
		return m, nil
	}
	if m.session.ApplyNormalized(msg.Ticket, msg.Bodies) {
		top := m.viewport.YOffset
		m.rebuildPane()
		m.viewport.SetYOffset(top)
	}
	return m, nil
}

func (m Model) confirmDelete(url string) (tea.Model, tea.Cmd) {
	if m.service == nil || !m.subs.MarkPendingDelete(url) {
		return m, nil
	}
	m.deleteSeq++
	seq := m.deleteSeq
	m.deletes[url] = seq
	m.logger.Debug("delete feed started", "url", url)
	return m, tea.Batch(
		tuiactions.DeleteCmd(m.service, url, m.opts.RequestTimeout),
		after(m.opts.DeleteWatchdog, deleteWatchdogMsg{url: url, seq: seq}),
	)
}

func (m Model) onDeleteSuccess(msg tuiactions.DeleteSuccessMsg) (tea.Model, tea.Cmd) {
	delete(m.deletes, msg.URL)
	m.journal.Deleted(msg.URL)
	m.logger.Info("feed deleted", "url", msg.URL)

	cmds := []tea.Cmd{m.notify(deleteSuccessText, notify.LevelSuccess)}
	if m.subs.BeginRemoval(msg.URL) {
		cmds = append(cmds, after(m.opts.ExitTransition, removalDoneMsg{url: msg.URL}))
	}
	if selected, ok := m.session.Selected(); ok && selected == msg.URL {
		m.clearSelection()
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) clearSelection() {
	m.session.Clear()
	m.itemCursor = 0
	m.rebuildPane()
	m.viewport.GotoTop()
}

func (m Model) onDeleteError(msg tuiactions.DeleteErrorMsg) (tea.Model, tea.Cmd) {
	delete(m.deletes, msg.URL)
	m.subs.RevertPendingDelete(msg.URL)
	m.logger.Warn("delete feed failed", "url", msg.URL, "err", msg.Err)
	return m, m.notify(failureText(deleteErrorPrefix, msg.Err), notify.LevelError)
}

func (m Model) onDeleteWatchdog(msg deleteWatchdogMsg) (tea.Model, tea.Cmd) {
	if seq, ok := m.deletes[msg.url]; !ok || seq != msg.seq {
		return m, nil
	}
	return m, m.notify(deleteSlowText, notify.LevelWarning)
}

// exportCurrent opens the RSS export of the selected feed, else of the feed
// under the list cursor.
func (m Model) exportCurrent() (tea.Model, tea.Cmd) {
	if m.service == nil {
		return m, nil
	}
	url, ok := m.session.Selected()
	if !ok {
		entry, found := m.subs.At(m.cursor)
		if !found {
			return m, nil
		}
		url = entry.Subscription.URL
	}
	return m, tuiactions.OpenURLCmd(m.service.ExportURL(url), m.openURLFn, m.copyURLFn)
}

func (m Model) openCurrentItem() (tea.Model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	link, err := tuiplatform.ValidateLinkURL(item.Link)
	if err != nil {
		return m, m.notify("Cannot open item: "+err.Error(), notify.LevelError)
	}
	return m, tuiactions.OpenURLCmd(link, m.openURLFn, m.copyURLFn)
}

func (m Model) copyCurrentItem() (tea.Model, tea.Cmd) {
	item, ok := m.currentItem()
	if !ok {
		return m, nil
	}
	link, err := tuiplatform.ValidateLinkURL(item.Link)
	if err != nil {
		return m, m.notify("Cannot copy item link: "+err.Error(), notify.LevelError)
	}
	return m, tuiactions.CopyURLCmd(link, m.copyURLFn)
}
