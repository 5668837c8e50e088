// Command stockwatch is the full-screen terminal dashboard for the
// stockwatch backend: an auth screen for login/registration and a watchlist
// screen for tracking stocks.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"stockwatch/internal/api"
	"stockwatch/internal/config"
	"stockwatch/internal/credstore"
	"stockwatch/internal/dashboard"
	"stockwatch/internal/domain"
	"stockwatch/internal/session"
	"stockwatch/internal/store"
	"stockwatch/internal/util"
	"stockwatch/internal/watchlist"
)

// Styles.
var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	symbolStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	symbolWlStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")) // orange for watchlist
	gainStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	colHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	labelStyle     = lipgloss.NewStyle().Bold(true)
	highlightBG    = lipgloss.Color("236") // dark grey background
)

// hlStyle returns a copy of s with the highlight background applied when hl is true.
func hlStyle(s lipgloss.Style, hl bool) lipgloss.Style {
	if hl {
		return s.Background(highlightBG)
	}
	return s
}

// Views.
type view int

const (
	viewAuth view = iota
	viewWatchlist
)

// Auth form input indexes.
const (
	inputEmail = iota
	inputName
	inputPassword
	inputCount
)

// Messages.
type sessionReadyMsg struct {
	authenticated bool
	err           string
}

type authDoneMsg struct {
	err error
}

type watchlistLoadedMsg struct {
	stocks map[string]domain.Stock
}

type toggleDoneMsg struct {
	symbol string
	added  bool
	err    error
}

// Model.
type model struct {
	cfg    *config.Config
	logger *slog.Logger
	client *api.Client
	sess   *session.Manager
	cache  watchlist.Cache

	view          view
	width, height int
	ready         bool
	viewport      viewport.Model

	// Auth form.
	registerMode bool
	inputs       [inputCount]textinput.Model
	focusIdx     int
	authBusy     bool
	authErr      string

	// Watchlist.
	wl             *watchlist.Model
	stocksBySymbol map[string]domain.Stock
	selected       int
	loading        bool
}

func initialModel(cfg *config.Config, logger *slog.Logger, client *api.Client,
	sess *session.Manager, cache watchlist.Cache) model {

	m := model{
		cfg:    cfg,
		logger: logger,
		client: client,
		sess:   sess,
		cache:  cache,
		view:   viewAuth,
	}

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 100
	email.Focus()

	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 100

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword

	m.inputs[inputEmail] = email
	m.inputs[inputName] = name
	m.inputs[inputPassword] = password

	return m
}

func (m model) Init() tea.Cmd {
	sess := m.sess
	return tea.Batch(textinput.Blink, func() tea.Msg {
		// Refresh once at startup: with no stored token this settles
		// ready/anonymous without a network call.
		err := sess.Refresh(context.Background())
		msg := sessionReadyMsg{authenticated: sess.IsAuthenticated()}
		if err != nil {
			msg.err = err.Error()
		}
		return msg
	})
}

// loadWatchlistCmd fetches catalog, watchlist, and stock records.
func (m *model) loadWatchlistCmd() tea.Cmd {
	wl := m.wl
	client := m.client
	logger := m.logger
	return func() tea.Msg {
		ctx := context.Background()
		wl.LoadAll(ctx)

		stocks, err := client.Stocks(ctx, 0, 500)
		if err != nil {
			logger.Warn("fetching stock records", "error", err)
		}
		bySymbol := make(map[string]domain.Stock, len(stocks))
		for _, s := range stocks {
			bySymbol[s.Symbol] = s
		}
		return watchlistLoadedMsg{stocks: bySymbol}
	}
}

// enterWatchlist switches to the watchlist view for the current user.
func (m *model) enterWatchlist() tea.Cmd {
	user := m.sess.User()
	if user == nil {
		return nil
	}
	m.view = viewWatchlist
	m.loading = true
	m.selected = 0
	m.wl = watchlist.New(m.client, m.cache, m.logger, user.ID)
	return m.loadWatchlistCmd()
}

func (m *model) submitAuthCmd() tea.Cmd {
	email := strings.TrimSpace(m.inputs[inputEmail].Value())
	name := strings.TrimSpace(m.inputs[inputName].Value())
	password := m.inputs[inputPassword].Value()
	registering := m.registerMode
	client := m.client
	sess := m.sess

	return func() tea.Msg {
		ctx := context.Background()
		if registering {
			if _, err := client.Register(ctx, email, name, password); err != nil {
				return authDoneMsg{err: err}
			}
		}
		tok, err := client.Login(ctx, email, password)
		if err != nil {
			return authDoneMsg{err: err}
		}
		if err := sess.Login(ctx, tok.AccessToken); err != nil {
			return authDoneMsg{err: err}
		}
		return authDoneMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.view == viewAuth {
			return m.updateAuth(msg)
		}
		return m.updateWatchlist(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerH := 2
		footerH := 2
		vpHeight := m.height - headerH - footerH
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		if m.view == viewWatchlist {
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case sessionReadyMsg:
		if msg.authenticated {
			cmd := m.enterWatchlist()
			return m, cmd
		}
		m.authErr = msg.err
		return m, nil

	case authDoneMsg:
		m.authBusy = false
		if msg.err != nil {
			m.authErr = msg.err.Error()
			return m, nil
		}
		m.authErr = ""
		cmd := m.enterWatchlist()
		return m, cmd

	case watchlistLoadedMsg:
		m.loading = false
		m.stocksBySymbol = msg.stocks
		if m.ready && m.view == viewWatchlist && m.wl != nil {
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case toggleDoneMsg:
		if msg.err != nil {
			m.logger.Warn("watchlist toggle failed", "symbol", msg.symbol, "error", msg.err)
		}
		if m.ready && m.view == viewWatchlist && m.wl != nil {
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil
	}

	return m, nil
}

func (m model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focusIdx = m.nextInput(m.focusIdx, 1)
		return m.refocus()
	case "shift+tab", "up":
		m.focusIdx = m.nextInput(m.focusIdx, -1)
		return m.refocus()
	case "ctrl+r":
		m.registerMode = !m.registerMode
		m.authErr = ""
		if !m.registerMode && m.focusIdx == inputName {
			m.focusIdx = inputPassword
		}
		return m.refocus()
	case "enter":
		if m.authBusy {
			return m, nil
		}
		m.authBusy = true
		m.authErr = ""
		return m, m.submitAuthCmd()
	case "esc":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

// nextInput steps the focus index, skipping the name field in login mode.
func (m model) nextInput(cur, dir int) int {
	for {
		cur = (cur + dir + inputCount) % inputCount
		if cur == inputName && !m.registerMode {
			continue
		}
		return cur
	}
}

func (m model) refocus() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i := range m.inputs {
		if i == m.focusIdx {
			cmds = append(cmds, m.inputs[i].Focus())
		} else {
			m.inputs[i].Blur()
		}
	}
	return m, tea.Batch(cmds...)
}

func (m model) updateWatchlist(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up":
		if m.selected > 0 {
			m.selected--
		}
		m.viewport.SetContent(m.renderContent())
		m.ensureVisible()
		return m, nil

	case "down":
		if m.selected < len(m.wl.Companies())-1 {
			m.selected++
		}
		m.viewport.SetContent(m.renderContent())
		m.ensureVisible()
		return m, nil

	case " ":
		companies := m.wl.Companies()
		if m.selected >= len(companies) || m.wl.IsMutating() {
			return m, nil
		}
		sym := companies[m.selected].Symbol
		wl := m.wl
		// The list changes only after the server confirms; the view
		// re-renders on toggleDoneMsg.
		if m.wl.Contains(sym) {
			return m, func() tea.Msg {
				err := wl.Remove(context.Background(), sym)
				return toggleDoneMsg{symbol: sym, added: false, err: err}
			}
		}
		return m, func() tea.Msg {
			err := wl.Add(context.Background(), sym)
			return toggleDoneMsg{symbol: sym, added: true, err: err}
		}

	case "r":
		m.loading = true
		return m, m.loadWatchlistCmd()

	case "l":
		m.sess.Logout()
		m.view = viewAuth
		m.registerMode = false
		m.authErr = ""
		m.authBusy = false
		m.wl = nil
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.focusIdx = inputEmail
		return m.refocus()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// ensureVisible scrolls the viewport so the selected row stays on screen.
func (m *model) ensureVisible() {
	headerLines := 3
	line := headerLines + m.selected
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
	} else if line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

// renderContent renders the watchlist screen body.
func (m model) renderContent() string {
	var b strings.Builder

	watched := m.wl.Symbols()
	var watchedStocks []domain.Stock
	for _, sym := range watched {
		if s, ok := m.stocksBySymbol[sym]; ok {
			watchedStocks = append(watchedStocks, s)
		}
	}
	st := dashboard.Compute(watchedStocks)

	avg := dashboard.FormatChange(st.AvgChange)
	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"watchlist: %d   gaining: %d   losing: %d   avg change: %s",
		len(watched), st.Gaining, st.Losing, avg)) + "\n\n")

	b.WriteString(colHeaderStyle.Render(fmt.Sprintf("  %-3s %-8s %-28s %10s %8s %10s",
		"", "Symbol", "Name", "Price", "Change", "MktCap")) + "\n")

	for i, co := range m.wl.Companies() {
		hl := i == m.selected
		onList := m.wl.Contains(co.Symbol)

		mark := " "
		symSt := symbolStyle
		if onList {
			mark = "*"
			symSt = symbolWlStyle
		}

		price, change, mcap := "-", "-", "-"
		changeSt := dimStyle
		if s, ok := m.stocksBySymbol[co.Symbol]; ok {
			price = dashboard.FormatPrice(s.Price)
			change = dashboard.FormatChange(s.ChangePercent)
			mcap = dashboard.FormatMarketCap(s.MarketCap)
			if s.ChangePercent > 0 {
				changeSt = gainStyle
			} else if s.ChangePercent < 0 {
				changeSt = lossStyle
			}
		}

		name := dashboard.Truncate(co.Name, 28)

		b.WriteString(fmt.Sprintf("  %s %s %s %s %s %s\n",
			hlStyle(dimStyle, hl).Render(mark+"  "),
			hlStyle(symSt, hl).Render(fmt.Sprintf("%-8s", co.Symbol)),
			hlStyle(lipgloss.NewStyle(), hl).Render(fmt.Sprintf("%-28s", name)),
			hlStyle(lipgloss.NewStyle(), hl).Render(fmt.Sprintf("%10s", price)),
			hlStyle(changeSt, hl).Render(fmt.Sprintf("%8s", change)),
			hlStyle(dimStyle, hl).Render(fmt.Sprintf("%10s", mcap)),
		))
	}

	return b.String()
}

func (m model) View() string {
	if m.view == viewAuth {
		return m.viewAuthScreen()
	}
	return m.viewWatchlistScreen()
}

func (m model) viewAuthScreen() string {
	var b strings.Builder

	mode := "Log in"
	if m.registerMode {
		mode = "Register"
	}
	b.WriteString(titleStyle.Render(" stockwatch ") + "  " + labelStyle.Render(mode) + "\n\n")

	b.WriteString("  email:    " + m.inputs[inputEmail].View() + "\n")
	if m.registerMode {
		b.WriteString("  name:     " + m.inputs[inputName].View() + "\n")
	}
	b.WriteString("  password: " + m.inputs[inputPassword].View() + "\n\n")

	if m.authBusy {
		b.WriteString(dimStyle.Render("  signing in...") + "\n")
	} else if m.authErr != "" {
		b.WriteString(errStyle.Render("  "+m.authErr) + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("  enter: submit   tab: next field   ctrl+r: toggle register   esc: quit"))
	return b.String()
}

func (m model) viewWatchlistScreen() string {
	if !m.ready {
		return "loading..."
	}

	user := m.sess.User()
	header := titleStyle.Render(" stockwatch ") + "  " + labelStyle.Render(user.DisplayName())
	if user != nil && user.IsVerified {
		header += dimStyle.Render("  [verified]")
	}
	if m.loading {
		header += dimStyle.Render("  syncing...")
	}

	footer := dimStyle.Render("space: toggle watchlist   up/down: select   r: reload   l: logout   q: quit")
	if errMsg := m.wl.Err(); errMsg != "" {
		footer = errStyle.Render(errMsg) + "\n" + footer
	} else {
		footer = "\n" + footer
	}

	return header + "\n\n" + m.viewport.View() + "\n" + footer
}

func main() {
	godotenv.Load()

	cfg, err := config.Load(os.Getenv("STOCKWATCH_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	creds := credstore.New(cfg.Storage.StateDir)
	client := api.NewClient(cfg.API.BaseURL, creds,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second, logger)
	sess := session.New(client, creds, logger)

	var cache watchlist.Cache
	if c, err := store.NewSQLiteCache(cfg.Storage.CachePath); err != nil {
		logger.Warn("opening offline cache", "error", err)
	} else {
		cache = c
		defer c.Close()
	}

	p := tea.NewProgram(
		initialModel(cfg, logger, client, sess, cache),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
