package ui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/abelbrown/byteme/internal/api"
	"github.com/abelbrown/byteme/internal/config"
	"github.com/abelbrown/byteme/internal/feed"
	"github.com/abelbrown/byteme/internal/follow"
	"github.com/abelbrown/byteme/internal/logging"
	"github.com/abelbrown/byteme/internal/model"
	"github.com/abelbrown/byteme/internal/notify"
	"github.com/abelbrown/byteme/internal/swipe"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

// Saver saves and unsaves Bytes. *api.Client satisfies it.
type Saver interface {
	SaveItem(ctx context.Context, id string) error
	UnsaveItem(ctx context.Context, id string) error
}

// CategoryStore loads and updates the category selection.
// *prefs.Service satisfies it.
type CategoryStore interface {
	Load(ctx context.Context) ([]string, error)
	Update(ctx context.Context, ids []string) ([]string, error)
}

// Deps are the collaborators the App drives. Feeds must hold a
// controller for General; the others are optional.
type Deps struct {
	Feeds      map[feed.Variant]*feed.Controller
	Follow     *follow.Controller
	Saver      Saver
	Categories CategoryStore
	Notices    *notify.Center
	SignedIn   func() bool
	Config     *config.Config
}

type mode int

const (
	modeFeed mode = iota
	modeProfile
	modeSource
	modeCategories
	modeSearch
)

// tabs are the feed tabs in display order.
var tabs = []feed.Variant{feed.General, feed.Followed, feed.Saved}

var tabLabels = map[feed.Variant]string{
	feed.General:  "For You",
	feed.Followed: "Following",
	feed.Saved:    "Saved",
	feed.Search:   "Search",
}

const frameRate = 60

// App is the root Bubble Tea model.
// App does NOT fetch directly; every network call runs in a tea.Cmd
// through a controller and reports back with a message.
type App struct {
	ctx  context.Context
	deps Deps

	thresholds swipe.Thresholds
	cellW      int
	cellH      int
	animation  time.Duration
	toastTTL   time.Duration
	prefetch   int
	mouse      bool

	tab      feed.Variant
	lastTab  feed.Variant // tab to return to when search is dismissed
	mode     mode
	states   map[feed.Variant]feed.State
	sessions map[feed.Variant]*swipe.Session
	listIDs  map[feed.Variant]uint64
	pending  map[feed.Variant]bool
	stale    map[feed.Variant]bool // refetch on next visit
	gesture  *swipe.Gesture

	categories  []string
	navbar      bool
	showNotices bool

	input   textinput.Model
	spinner spinner.Model
	help    help.Model

	spring   harmonica.Spring
	offset   float64
	velocity float64
	target   float64

	width  int
	height int
	ready  bool
	now    func() time.Time
}

// NewApp creates an App over deps.
func NewApp(ctx context.Context, deps Deps) App {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if deps.Notices == nil {
		deps.Notices = notify.NewCenter(50)
	}
	if deps.SignedIn == nil {
		deps.SignedIn = func() bool { return false }
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	ti := textinput.New()
	ti.CharLimit = 200

	cellW, cellH := cfg.Gestures.CellWidthPx, cfg.Gestures.CellHeightPx
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}

	sessions := make(map[feed.Variant]*swipe.Session)
	for v := range deps.Feeds {
		sessions[v] = swipe.NewSession(0)
	}

	return App{
		ctx:        ctx,
		deps:       deps,
		thresholds: swipe.Thresholds{Classify: cfg.Gestures.ClassifyPx, Commit: cfg.Gestures.CommitPx},
		cellW:      cellW,
		cellH:      cellH,
		animation:  cfg.AnimationDuration(),
		toastTTL:   cfg.ToastDuration(),
		prefetch:   cfg.Feed.PrefetchRemaining,
		mouse:      cfg.UI.Mouse,
		tab:        feed.General,
		lastTab:    feed.General,
		states:     make(map[feed.Variant]feed.State),
		sessions:   sessions,
		listIDs:    make(map[feed.Variant]uint64),
		pending:    make(map[feed.Variant]bool),
		stale:      make(map[feed.Variant]bool),
		gesture:    swipe.NewGesture(swipe.Thresholds{Classify: cfg.Gestures.ClassifyPx, Commit: cfg.Gestures.CommitPx}),
		navbar:     cfg.UI.ShowNavbar,
		input:      ti,
		spinner:    s,
		help:       help.New(),
		spring:     harmonica.NewSpring(harmonica.FPS(frameRate), 6.0, 0.8),
		now:        time.Now,
	}
}

// Init loads the category selection (which starts the first feed load)
// and the follow set.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick, a.clockTick()}
	a.pending[feed.General] = true
	cmds = append(cmds, a.loadCategories())
	if a.deps.Follow != nil && !a.deps.Follow.Loaded() {
		cmds = append(cmds, a.loadFollows())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.MouseMsg:
		return a.handleMouseMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case ClockTick:
		cmd := a.clockTick()
		return a, cmd

	case FrameTick:
		a.offset, a.velocity = a.spring.Update(a.offset, a.velocity, a.target)
		if a.springMoving() {
			cmd := a.frameTick()
			return a, cmd
		}
		a.offset, a.velocity = a.target, 0
		return a, nil

	case CategoriesLoaded:
		if msg.Err != nil {
			logging.Warn("Category load failed", "error", msg.Err)
		}
		a.categories = msg.IDs
		if ctrl := a.deps.Feeds[feed.General]; ctrl != nil {
			ctrl.SetFilter(feed.Filter{Categories: msg.IDs})
		}
		cmd := a.load(feed.General, false)
		return a, cmd

	case CategoriesSaved:
		if msg.Err != nil {
			a.deps.Notices.Notify(notify.LevelError, "Couldn't save categories: "+api.UserMessage(msg.Err))
			return a, nil
		}
		a.categories = msg.IDs
		a.deps.Notices.Notify(notify.LevelSuccess, categoriesNotice(msg.IDs))
		if ctrl := a.deps.Feeds[feed.General]; ctrl != nil {
			ctrl.SetFilter(feed.Filter{Categories: msg.IDs})
		}
		a.switchTab(feed.General)
		cmd := a.load(feed.General, false)
		return a, cmd

	case FeedLoaded:
		a.pending[msg.Variant] = false
		a.sync(msg.Variant)
		cmd := a.maybePrefetch(msg.Variant)
		return a, cmd

	case SettleTick:
		if sess := a.sessions[msg.Variant]; sess != nil {
			sess.Settle()
		}
		if msg.Variant != a.tab {
			return a, nil
		}
		// Bring the new card in from the side it slid toward.
		a.offset = -a.target
		a.target = 0
		cmd := tea.Batch(a.frameTick(), a.maybePrefetch(msg.Variant))
		return a, cmd

	case FollowLoaded:
		return a, nil

	case FollowDone:
		if msg.Err == nil {
			a.applyFollow(msg.ChannelID, msg.Following)
			a.stale[feed.Followed] = true
		}
		return a, nil

	case SaveDone:
		a.applySave(msg)
		return a, nil
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.mode == modeCategories || a.mode == modeSearch {
		return a.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Back):
		switch {
		case a.showNotices:
			a.showNotices = false
		case a.mode == modeProfile || a.mode == modeSource:
			a.leaveDetail()
		case a.help.ShowAll:
			a.help.ShowAll = false
		case a.tab == feed.Search:
			a.switchTab(a.lastTab)
		}
		return a, nil

	case key.Matches(msg, keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil

	case key.Matches(msg, keys.Notices):
		a.showNotices = !a.showNotices
		return a, nil

	case key.Matches(msg, keys.Follow):
		cmd := a.toggleFollow()
		return a, cmd
	}

	if a.mode != modeFeed {
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Next):
		return a.apply(swipe.ActionNext)
	case key.Matches(msg, keys.Previous):
		return a.apply(swipe.ActionPrevious)
	case key.Matches(msg, keys.Profile):
		return a.apply(swipe.ActionProfile)
	case key.Matches(msg, keys.Source):
		return a.apply(swipe.ActionSource)
	case key.Matches(msg, keys.Tap):
		return a.apply(swipe.ActionTap)

	case key.Matches(msg, keys.Save):
		cmd := a.toggleSave()
		return a, cmd

	case key.Matches(msg, keys.Refresh):
		cmd := a.load(a.tab, true)
		return a, cmd

	case key.Matches(msg, keys.ForYou):
		cmd := a.switchTab(feed.General)
		return a, cmd
	case key.Matches(msg, keys.Following):
		cmd := a.switchTab(feed.Followed)
		return a, cmd
	case key.Matches(msg, keys.Saved):
		cmd := a.switchTab(feed.Saved)
		return a, cmd

	case key.Matches(msg, keys.Categories):
		a.mode = modeCategories
		a.input.Prompt = "categories> "
		a.input.Placeholder = "comma-separated ids, empty for all"
		a.input.SetValue(strings.Join(a.categories, ","))
		a.input.CursorEnd()
		cmd := a.input.Focus()
		return a, cmd

	case key.Matches(msg, keys.Search):
		if a.deps.Feeds[feed.Search] == nil {
			return a, nil
		}
		a.mode = modeSearch
		a.input.Prompt = "/"
		a.input.Placeholder = "search Bytes"
		a.input.SetValue(a.deps.Feeds[feed.Search].Filter().Query)
		a.input.CursorEnd()
		cmd := a.input.Focus()
		return a, cmd
	}

	return a, nil
}

// handleInputKey routes keys to the prompt while one is open.
func (a App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = modeFeed
		a.input.Blur()
		return a, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(a.input.Value())
		m := a.mode
		a.mode = modeFeed
		a.input.Blur()
		if m == modeCategories {
			cmd := a.saveCategories(splitIDs(value))
			return a, cmd
		}
		cmd := a.search(value)
		return a, cmd

	case tea.KeyCtrlC:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleMouseMsg feeds press, motion, and release into the gesture
// classifier. Cells are scaled to pixels so the thresholds keep their
// meaning.
func (a App) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.mouse {
		return a, nil
	}
	x, y := msg.X*a.cellW, msg.Y*a.cellH

	switch msg.Button {
	case tea.MouseButtonWheelDown:
		if msg.Action == tea.MouseActionPress && a.mode == modeFeed {
			return a.apply(swipe.ActionNext)
		}
		return a, nil
	case tea.MouseButtonWheelUp:
		if msg.Action == tea.MouseActionPress && a.mode == modeFeed {
			return a.apply(swipe.ActionPrevious)
		}
		return a, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			a.gesture.TouchStart(x, y)
		}
	case tea.MouseActionMotion:
		a.gesture.TouchMove(x, y)
	case tea.MouseActionRelease:
		if !a.gesture.Active() {
			return a, nil
		}
		a.gesture.TouchMove(x, y)
		action := a.gesture.TouchEnd()
		if a.mode != modeFeed {
			return a, nil
		}
		return a.apply(action)
	}
	return a, nil
}

// apply performs a navigation action on the current tab.
func (a App) apply(action swipe.Action) (tea.Model, tea.Cmd) {
	sess := a.sessions[a.tab]
	if sess == nil {
		return a, nil
	}

	switch action {
	case swipe.ActionNext:
		switch sess.Next() {
		case swipe.Started:
			cmd := a.slide(-1)
			return a, cmd
		case swipe.EndOfFeed:
			st := a.states[a.tab]
			switch {
			case st.LoadingMore || a.pending[a.tab]:
				a.deps.Notices.Notify(notify.LevelInfo, "Loading more Bytes…")
			case st.HasMore:
				a.deps.Notices.Notify(notify.LevelInfo, "Loading more Bytes…")
				cmd := a.loadMore(a.tab)
				return a, cmd
			default:
				a.deps.Notices.Notify(notify.LevelInfo, "You're all caught up")
			}
		}
		return a, nil

	case swipe.ActionPrevious:
		if sess.Previous() == swipe.Started {
			cmd := a.slide(1)
			return a, cmd
		}
		return a, nil

	case swipe.ActionProfile, swipe.ActionSource:
		if _, ok := a.current(); !ok || sess.Animating() {
			return a, nil
		}
		sess.EnterDetail()
		if action == swipe.ActionProfile {
			a.mode = modeProfile
		} else {
			a.mode = modeSource
		}
		return a, nil

	case swipe.ActionTap:
		a.navbar = !a.navbar
		return a, nil
	}
	return a, nil
}

// slide starts the card animation and schedules the settle.
func (a *App) slide(dir int) tea.Cmd {
	rows := float64(a.cardHeight())
	a.offset = 0
	a.velocity = 0
	a.target = float64(dir) * rows
	v := a.tab
	return tea.Batch(
		tea.Tick(a.animation, func(time.Time) tea.Msg { return SettleTick{Variant: v} }),
		a.frameTick(),
	)
}

func (a App) springMoving() bool {
	return math.Abs(a.offset-a.target) > 0.5 || math.Abs(a.velocity) > 0.5
}

func (a *App) leaveDetail() {
	a.mode = modeFeed
	if sess := a.sessions[a.tab]; sess != nil {
		sess.ReturnFromDetail()
	}
}

// switchTab makes v current, loading it when it has never been loaded or
// was marked stale.
func (a *App) switchTab(v feed.Variant) tea.Cmd {
	if a.deps.Feeds[v] == nil {
		return nil
	}
	if v != feed.Search {
		a.lastTab = v
	}
	a.tab = v
	a.mode = modeFeed
	a.offset, a.velocity, a.target = 0, 0, 0

	if a.pending[v] {
		return nil
	}
	if a.stale[v] {
		a.stale[v] = false
		return a.load(v, true)
	}
	if _, seen := a.states[v]; !seen {
		return a.load(v, false)
	}
	return nil
}

// sync adopts the controller's current state for v. A new list identity
// resets the swipe session; appended pages only extend it.
func (a *App) sync(v feed.Variant) {
	ctrl := a.deps.Feeds[v]
	if ctrl == nil {
		return
	}
	st := ctrl.Snapshot()
	a.states[v] = st

	sess := a.sessions[v]
	if sess == nil {
		sess = swipe.NewSession(0)
		a.sessions[v] = sess
	}
	if prev, ok := a.listIDs[v]; !ok || prev != st.ListID {
		a.listIDs[v] = st.ListID
		sess.Reset(len(st.Items))
		if v == a.tab && (a.mode == modeProfile || a.mode == modeSource) {
			a.mode = modeFeed
		}
		return
	}
	sess.Grow(len(st.Items))
}

// maybePrefetch loads the next page when the viewer is close to the end.
func (a *App) maybePrefetch(v feed.Variant) tea.Cmd {
	sess := a.sessions[v]
	st := a.states[v]
	if sess == nil || !st.HasMore || st.Loading || st.LoadingMore || a.pending[v] || len(st.Items) == 0 {
		return nil
	}
	if !sess.NearEnd(a.prefetch) {
		return nil
	}
	return a.loadMore(v)
}

// current returns the visible item of the current tab.
func (a App) current() (model.FeedItem, bool) {
	st := a.states[a.tab]
	sess := a.sessions[a.tab]
	if sess == nil {
		return model.FeedItem{}, false
	}
	i := sess.Current()
	if i < 0 || i >= len(st.Items) {
		return model.FeedItem{}, false
	}
	return st.Items[i], true
}

// --- commands ---

func (a *App) load(v feed.Variant, force bool) tea.Cmd {
	ctrl := a.deps.Feeds[v]
	if ctrl == nil {
		return nil
	}
	a.pending[v] = true
	ctx := a.ctx
	return func() tea.Msg {
		var st feed.State
		if force {
			st = ctrl.Refresh(ctx)
		} else {
			st = ctrl.LoadInitial(ctx)
		}
		return FeedLoaded{Variant: v, State: st}
	}
}

func (a *App) loadMore(v feed.Variant) tea.Cmd {
	ctrl := a.deps.Feeds[v]
	if ctrl == nil {
		return nil
	}
	st := a.states[v]
	st.LoadingMore = true
	a.states[v] = st
	ctx := a.ctx
	return func() tea.Msg {
		return FeedLoaded{Variant: v, State: ctrl.LoadMore(ctx), More: true}
	}
}

func (a App) loadCategories() tea.Cmd {
	store := a.deps.Categories
	ctx := a.ctx
	return func() tea.Msg {
		if store == nil {
			return CategoriesLoaded{}
		}
		ids, err := store.Load(ctx)
		return CategoriesLoaded{IDs: ids, Err: err}
	}
}

func (a App) saveCategories(ids []string) tea.Cmd {
	store := a.deps.Categories
	ctx := a.ctx
	return func() tea.Msg {
		if store == nil {
			return CategoriesSaved{IDs: ids}
		}
		saved, err := store.Update(ctx, ids)
		return CategoriesSaved{IDs: saved, Err: err}
	}
}

func (a App) loadFollows() tea.Cmd {
	ctrl := a.deps.Follow
	ctx := a.ctx
	return func() tea.Msg {
		return FollowLoaded{Err: ctrl.Initialize(ctx)}
	}
}

func (a *App) search(query string) tea.Cmd {
	ctrl := a.deps.Feeds[feed.Search]
	if ctrl == nil {
		return nil
	}
	if query == "" {
		if a.tab == feed.Search {
			return a.switchTab(a.lastTab)
		}
		return nil
	}
	ctrl.SetFilter(feed.Filter{Query: query})
	delete(a.states, feed.Search)
	a.pending[feed.Search] = false
	return a.switchTab(feed.Search)
}

func (a App) toggleFollow() tea.Cmd {
	item, ok := a.current()
	if !ok || a.deps.Follow == nil {
		return nil
	}
	channel := item.Creator.ChannelID
	if channel == "" {
		a.deps.Notices.Notify(notify.LevelWarn, "This creator can't be followed")
		return nil
	}
	ctrl := a.deps.Follow
	following := ctrl.IsFollowing(channel)
	ctx := a.ctx
	return func() tea.Msg {
		err := ctrl.Toggle(ctx, channel, following)
		if errors.Is(err, follow.ErrToggleInFlight) {
			return nil
		}
		return FollowDone{ChannelID: channel, Following: ctrl.IsFollowing(channel), Err: err}
	}
}

func (a App) toggleSave() tea.Cmd {
	item, ok := a.current()
	if !ok || a.deps.Saver == nil {
		return nil
	}
	if !a.deps.SignedIn() {
		a.deps.Notices.Notify(notify.LevelWarn, "Sign in to save Bytes")
		return nil
	}
	saver := a.deps.Saver
	ctx := a.ctx
	return func() tea.Msg {
		if item.Saved {
			err := saver.UnsaveItem(ctx, item.ID)
			return SaveDone{ItemID: item.ID, Saved: err != nil, Err: err}
		}
		err := saver.SaveItem(ctx, item.ID)
		if errors.Is(err, api.ErrAlreadySaved) {
			return SaveDone{ItemID: item.ID, Saved: true, Already: true}
		}
		return SaveDone{ItemID: item.ID, Saved: err == nil, Err: err}
	}
}

// applySave mirrors a save result into every feed holding the item.
func (a *App) applySave(msg SaveDone) {
	if msg.Err != nil {
		logging.Warn("Save failed", "item", msg.ItemID, "error", msg.Err)
		a.deps.Notices.Notify(notify.LevelError, "Couldn't update saved: "+api.UserMessage(msg.Err))
		return
	}
	switch {
	case msg.Already:
		a.deps.Notices.Notify(notify.LevelInfo, "Already in your collection")
	case msg.Saved:
		a.deps.Notices.Notify(notify.LevelSuccess, "Saved")
	default:
		a.deps.Notices.Notify(notify.LevelSuccess, "Removed from saved")
	}

	for v, ctrl := range a.deps.Feeds {
		if v == feed.Saved && !msg.Saved {
			keep := -1
			if sess := a.sessions[v]; sess != nil {
				keep = sess.Current()
			}
			if ctrl.Remove(msg.ItemID) {
				a.sync(v)
				if keep >= 0 {
					a.sessions[v].Seek(keep)
				}
			}
			continue
		}
		ctrl.UpdateItem(msg.ItemID, func(it *model.FeedItem) { it.Saved = msg.Saved })
		if _, seen := a.states[v]; seen {
			a.sync(v)
		}
	}
	if msg.Saved {
		a.stale[feed.Saved] = true
	}
}

// applyFollow mirrors a confirmed follow change into every feed.
func (a *App) applyFollow(channel string, following bool) {
	for v, ctrl := range a.deps.Feeds {
		ctrl.Mutate(func(it model.FeedItem) bool { return it.Creator.ChannelID == channel },
			func(it *model.FeedItem) { it.Creator.Followed = following })
		if _, seen := a.states[v]; seen {
			a.sync(v)
		}
	}
}

func (a App) clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return ClockTick(t) })
}

func (a App) frameTick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(time.Time) tea.Msg { return FrameTick{} })
}

// --- view ---

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var top []string
	if a.navbar {
		top = append(top, a.renderNavbar())
	}

	var bottom []string
	if a.mode == modeCategories || a.mode == modeSearch {
		bottom = append(bottom, InputBar.Width(a.width).Render(a.input.View()))
	}
	if toast := a.renderToast(); toast != "" {
		bottom = append(bottom, toast)
	}
	bottom = append(bottom, a.renderStatusBar())
	if a.help.ShowAll {
		bottom = append(bottom, a.help.View(keys))
	}

	used := 0
	for _, s := range append(top, bottom...) {
		used += lipgloss.Height(s)
	}
	bodyHeight := a.height - used
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	body := a.renderBody(bodyHeight)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	parts := append(top, body)
	parts = append(parts, bottom...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a App) renderNavbar() string {
	var rendered []string
	for i, v := range tabs {
		if a.deps.Feeds[v] == nil {
			continue
		}
		label := fmt.Sprintf("%d %s", i+1, tabLabels[v])
		if v == a.tab {
			rendered = append(rendered, TabActive.Render(label))
		} else {
			rendered = append(rendered, TabInactive.Render(label))
		}
	}
	if a.tab == feed.Search {
		q := a.deps.Feeds[feed.Search].Filter().Query
		rendered = append(rendered, TabActive.Render("/ "+truncate(q, 24)))
	}
	if len(a.categories) > 0 && a.tab == feed.General {
		rendered = append(rendered, Meta.Render(" #"+strings.Join(a.categories, " #")))
	}
	if a.pending[a.tab] || a.states[a.tab].LoadingMore {
		rendered = append(rendered, " "+a.spinner.View())
	}
	return Navbar.Width(a.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

func (a App) renderBody(height int) string {
	if a.showNotices {
		return a.renderNotices(height)
	}

	st := a.states[a.tab]
	item, ok := a.current()

	if !ok {
		switch {
		case a.pending[a.tab] || st.Loading:
			return HelpStyle.Render(a.spinner.View() + " Loading Bytes…")
		case st.Err != nil && errors.Is(st.Err, api.ErrAuthRequired):
			return HelpStyle.Render("Sign in to see this feed. Run `bytectl login`.")
		case st.Err != nil:
			return ErrorStyle.Render(api.UserMessage(st.Err)) + "\n" + HelpStyle.Render("Press 'r' to retry.")
		default:
			return HelpStyle.Render("No Bytes here yet. Press 'r' to refresh.")
		}
	}

	flags := a.cardFlags(item)
	switch a.mode {
	case modeProfile:
		return RenderProfile(item, flags, a.width)
	case modeSource:
		return RenderSource(item, a.width)
	}

	card := RenderCard(item, flags, a.width, a.now())
	return shiftLines(card, int(math.Round(a.offset)), height)
}

func (a App) cardFlags(item model.FeedItem) cardFlags {
	f := cardFlags{Following: item.Creator.Followed}
	if a.deps.Follow != nil && item.Creator.ChannelID != "" {
		f.Following = a.deps.Follow.IsFollowing(item.Creator.ChannelID)
		f.FollowPending = a.deps.Follow.InFlight(item.Creator.ChannelID)
	}
	return f
}

func (a App) renderStatusBar() string {
	st := a.states[a.tab]
	sess := a.sessions[a.tab]

	pos := "0/0"
	if sess != nil && len(st.Items) > 0 {
		pos = fmt.Sprintf("%d/%d", sess.Current()+1, len(st.Items))
		if st.HasMore {
			pos += "+"
		}
	}
	left := StatusBarText.Render(tabLabels[a.tab] + "  " + pos)
	if st.FromCache {
		left += StatusBarText.Render("  cached")
	}
	if !a.deps.SignedIn() {
		left += StatusBarText.Render("  signed out")
	}

	var right string
	if !a.help.ShowAll {
		h := a.help
		h.Width = a.width - lipgloss.Width(left) - 4
		right = h.ShortHelpView(keys.ShortHelp())
	}
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return StatusBar.Width(a.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (a App) renderToast() string {
	n, ok := a.deps.Notices.Active(a.now(), a.toastTTL)
	if !ok {
		return ""
	}
	style := ToastInfo
	switch n.Level {
	case notify.LevelSuccess:
		style = ToastSuccess
	case notify.LevelWarn:
		style = ToastWarn
	case notify.LevelError:
		style = ToastError
	}
	return style.Render(truncate(n.Text, a.width-2))
}

// renderNotices shows the notification history, newest last.
func (a App) renderNotices(height int) string {
	notices := a.deps.Notices.Snapshot()
	limit := height - 4
	if limit < 1 {
		limit = 1
	}
	if len(notices) > limit {
		notices = notices[len(notices)-limit:]
	}
	var lines []string
	lines = append(lines, DetailHeader.Render("Notifications"))
	if len(notices) == 0 {
		lines = append(lines, Meta.Render("Nothing yet"))
	}
	for _, n := range notices {
		lines = append(lines, fmt.Sprintf("%s %-7s %s", Meta.Render(n.Time.Format("15:04:05")), n.Level, n.Text))
	}
	return NoticePanel.Width(a.width - 2).Render(strings.Join(lines, "\n"))
}

// cardHeight is how far a card travels during a slide.
func (a App) cardHeight() int {
	h := a.height / 2
	if h < 4 {
		h = 4
	}
	return h
}

func categoriesNotice(ids []string) string {
	if len(ids) == 0 {
		return "Showing all categories"
	}
	return "Categories: " + strings.Join(ids, ", ")
}

// splitIDs parses a comma-separated list, dropping blanks.
func splitIDs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// --- accessors for tests ---

// Tab returns the current tab.
func (a App) Tab() feed.Variant { return a.tab }

// Index returns the current swipe index on the current tab.
func (a App) Index() int {
	if sess := a.sessions[a.tab]; sess != nil {
		return sess.Current()
	}
	return 0
}

// NavbarVisible reports whether the navbar is shown.
func (a App) NavbarVisible() bool { return a.navbar }

// InDetail reports whether a profile or source pane is open.
func (a App) InDetail() bool { return a.mode == modeProfile || a.mode == modeSource }
