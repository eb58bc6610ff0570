// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/campusrentalfinder/campusctl/internal/client"
	"github.com/campusrentalfinder/campusctl/internal/session"
	"github.com/campusrentalfinder/campusctl/internal/tui/listings"
	"github.com/campusrentalfinder/campusctl/internal/tui/loginform"
	"github.com/campusrentalfinder/campusctl/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenListings
)

// Layout constants
const (
	minTerminalWidth = 80
	panelPadding     = 4
)

// loginResultMsg is sent when a login attempt completes
type loginResultMsg struct {
	err error
}

// listingsLoadedMsg is sent when the rental list is fetched
type listingsLoadedMsg struct {
	rentals []client.Rental
	err     error
}

// detailLoadedMsg is sent when a rental detail and its reviews are fetched
type detailLoadedMsg struct {
	rental  *client.Rental
	reviews []client.Review
	err     error
}

// loggedOutMsg is sent when local logout has completed
type loggedOutMsg struct{}

// App is the root model for the TUI
type App struct {
	client     *client.Client
	store      *session.Store
	screen     Screen
	width      int
	height     int
	err        error
	loading    bool
	lastUpdate time.Time

	// Child models
	login   *loginform.LoginForm
	list    *listings.Listings
	spinner spinner.Model
}

// New creates a new TUI application. An existing stored session skips the
// login screen.
func New(apiClient *client.Client, store *session.Store) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	a := &App{
		client:  apiClient,
		store:   store,
		screen:  ScreenLogin,
		login:   loginform.New(),
		list:    listings.New(nil),
		spinner: sp,
	}
	if store.IsAuthenticated() {
		a.screen = ScreenListings
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenListings {
		a.loading = true
		return tea.Batch(a.loadListings(), a.spinner.Tick)
	}
	return a.login.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list.SetSize(a.contentWidth(), a.contentHeight())
		a.login.SetWidth(a.contentWidth())
		if a.screen == ScreenLogin {
			return a.updateLogin(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenListings:
			return a.updateListings(msg)
		}

	case loginform.CompleteMsg:
		return a, a.doLogin(msg.Email, msg.Password)

	case loginform.CancelledMsg:
		return a, tea.Quit

	case loginResultMsg:
		if msg.err != nil {
			return a, a.login.SetError(msg.err.Error())
		}
		a.screen = ScreenListings
		a.err = nil
		a.loading = true
		return a, tea.Batch(a.loadListings(), a.spinner.Tick)

	case listings.RentalSelectedMsg:
		a.loading = true
		return a, tea.Batch(a.loadDetail(msg.ID), a.spinner.Tick)

	case listings.BackMsg:
		return a, tea.Quit

	case listingsLoadedMsg:
		a.loading = false
		if a.sessionLost(msg.err) {
			return a, nil
		}
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.lastUpdate = time.Now()
		a.list.SetRentals(msg.rentals)
		return a, nil

	case detailLoadedMsg:
		a.loading = false
		if a.sessionLost(msg.err) {
			return a, nil
		}
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.list.ShowDetail(msg.rental, msg.reviews)
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case loggedOutMsg:
		a.screen = ScreenLogin
		a.login = loginform.New()
		return a, a.login.Init()

	default:
		// Forward unknown messages to the login form when active (needed
		// for huh form internals)
		if a.screen == ScreenLogin {
			return a.updateLogin(msg)
		}
	}

	return a, nil
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.login.Update(msg)
	a.login = model.(*loginform.LoginForm)
	return a, cmd
}

func (a *App) updateListings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		if !a.list.InDetail() {
			return a, tea.Quit
		}
	case "r":
		if !a.list.InDetail() {
			a.loading = true
			return a, tea.Batch(a.loadListings(), a.spinner.Tick)
		}
	case "o":
		return a, a.doLogout()
	}

	model, cmd := a.list.Update(msg)
	a.list = model.(*listings.Listings)
	return a, cmd
}

// sessionLost handles expired-session errors by returning to the login
// screen. Tokens are already cleared by the gateway at this point.
func (a *App) sessionLost(err error) bool {
	if err == nil || !client.IsSessionExpired(err) {
		return false
	}
	a.screen = ScreenLogin
	a.login = loginform.New()
	a.login.SetError("session expired, please sign in again")
	return true
}

// doLogin creates a command that attempts to establish a session
func (a *App) doLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		err := a.store.Login(context.Background(), email, password)
		return loginResultMsg{err: err}
	}
}

// doLogout tears down the session and returns to the login screen
func (a *App) doLogout() tea.Cmd {
	return func() tea.Msg {
		_ = a.store.Logout(context.Background())
		return loggedOutMsg{}
	}
}

// loadListings creates a command that fetches the rental list
func (a *App) loadListings() tea.Cmd {
	return func() tea.Msg {
		page, err := a.client.Rentals(context.Background(), client.RentalSearch{})
		if err != nil {
			return listingsLoadedMsg{err: err}
		}
		return listingsLoadedMsg{rentals: page.Results}
	}
}

// loadDetail creates a command that fetches one rental and its reviews
func (a *App) loadDetail(id int) tea.Cmd {
	return func() tea.Msg {
		rental, err := a.client.Rental(context.Background(), id)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		// Reviews are optional enrichment for the detail view
		var reviews []client.Review
		if page, err := a.client.RentalReviews(context.Background(), id); err == nil {
			reviews = page.Results
		}
		return detailLoadedMsg{rental: rental, reviews: reviews}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.login.View()
	case ScreenListings:
		content = a.viewListings()
	default:
		content = a.login.View()
	}

	return a.wrapWithFrame(content)
}

// viewListings renders the listings screen with any pending error
func (a *App) viewListings() string {
	if a.err != nil {
		return styles.StatusCritical.Render("Error: " + a.err.Error())
	}
	if a.loading {
		return styles.Panel.Width(a.contentWidth()).Render(a.spinner.View() + " Loading listings...")
	}
	return styles.ActivePanel.Width(a.contentWidth()).Render(a.list.View())
}

// contentWidth calculates the width available for screen content
func (a *App) contentWidth() int {
	if a.width < minTerminalWidth {
		return minTerminalWidth - panelPadding
	}
	return a.width - panelPadding
}

// contentHeight calculates the height available for screen content
func (a *App) contentHeight() int {
	// Header, footer, panel borders and padding
	return a.height - 8
}

// renderHeader creates the header bar with app branding and session context
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := " " + titleStyle.Render("CampusRentalFinder")

	rightText := ""
	if user := a.store.User(); user != nil && a.screen != ScreenLogin {
		rightText = contextStyle.Render(user.Email) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch {
	case a.screen == ScreenLogin:
		shortcuts = []string{"Tab Next", "Enter Submit", "Esc Quit"}
	case a.list.InDetail():
		shortcuts = []string{"b Back", "o Sign out", "ctrl+c Quit"}
	default:
		shortcuts = []string{"↑↓ Navigate", "Enter Detail", "r Refresh", "o Sign out", "q Quit"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainWidth := lipgloss.Width(" " + strings.Join(shortcuts, "  "))

	rightText := ""
	rightPlainWidth := 0
	if !a.lastUpdate.IsZero() && a.screen == ScreenListings {
		elapsed := formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainWidth = lipgloss.Width("Updated " + elapsed + " ")
	}

	fillWidth := width - 4 - leftPlainWidth - rightPlainWidth
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(apiClient *client.Client, store *session.Store) error {
	app := New(apiClient, store)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
