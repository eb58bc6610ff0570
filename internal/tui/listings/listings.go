// ABOUTME: Rental listings browser TUI component
// ABOUTME: Cursor-driven list with a per-rental detail view including reviews

package listings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/campusrentalfinder/campusctl/internal/client"
	"github.com/campusrentalfinder/campusctl/internal/tui/styles"
)

// state represents the current UI state
type state int

const (
	stateList state = iota
	stateDetail
)

// RentalSelectedMsg is sent when a listing is chosen for detail view
type RentalSelectedMsg struct {
	ID int
}

// BackMsg is sent when the user leaves the listings browser
type BackMsg struct{}

// Styles
var (
	selectedStyle = lipgloss.NewStyle().Foreground(styles.Accent).Bold(true)
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	labelStyle    = lipgloss.NewStyle().Foreground(styles.Muted)
)

// Listings is the rental browsing component
type Listings struct {
	rentals []client.Rental
	detail  *client.Rental
	reviews []client.Review
	cursor  int
	state   state
	width   int
	height  int
}

// New creates a new listings browser
func New(rentals []client.Rental) *Listings {
	return &Listings{
		rentals: rentals,
		state:   stateList,
	}
}

// SetSize updates the render dimensions
func (l *Listings) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// SetRentals replaces the listing data and resets the cursor
func (l *Listings) SetRentals(rentals []client.Rental) {
	l.rentals = rentals
	l.cursor = 0
	l.state = stateList
}

// ShowDetail switches to the detail view for a fetched rental
func (l *Listings) ShowDetail(rental *client.Rental, reviews []client.Review) {
	l.detail = rental
	l.reviews = reviews
	l.state = stateDetail
}

// InDetail reports whether the detail view is active
func (l *Listings) InDetail() bool {
	return l.state == stateDetail
}

// Init implements tea.Model
func (l *Listings) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (l *Listings) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
		l.height = msg.Height
		return l, nil

	case tea.KeyMsg:
		switch l.state {
		case stateList:
			return l.updateList(msg)
		case stateDetail:
			return l.updateDetail(msg)
		}
	}

	return l, nil
}

func (l *Listings) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.rentals)-1 {
			l.cursor++
		}
	case "enter":
		if l.cursor < len(l.rentals) {
			id := l.rentals[l.cursor].ID
			return l, func() tea.Msg { return RentalSelectedMsg{ID: id} }
		}
	case "esc", "b":
		return l, func() tea.Msg { return BackMsg{} }
	}

	return l, nil
}

func (l *Listings) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		l.state = stateList
		l.detail = nil
		l.reviews = nil
		return l, nil
	}

	return l, nil
}

// View implements tea.Model
func (l *Listings) View() string {
	if l.state == stateDetail {
		return l.viewDetail()
	}
	return l.viewList()
}

func (l *Listings) viewList() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Available rentals"))
	b.WriteString("\n\n")

	if len(l.rentals) == 0 {
		b.WriteString(labelStyle.Render("No listings found"))
		return b.String()
	}

	for i, r := range l.rentals {
		cursor := "  "
		style := normalStyle
		if i == l.cursor {
			cursor = "> "
			style = selectedStyle
		}
		line := fmt.Sprintf("%-32s %-12s %2d bd  $%s", truncate(r.Title, 32), r.City, r.Bedrooms, r.Price)
		if r.IsFeatured {
			line += "  " + styles.StatusOK.Render("featured")
		}
		b.WriteString(cursor + style.Render(line) + "\n")
	}

	return b.String()
}

func (l *Listings) viewDetail() string {
	if l.detail == nil {
		return labelStyle.Render("Loading...")
	}
	r := l.detail

	var b strings.Builder
	b.WriteString(styles.Title.Render(r.Title))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(styles.ValueStyle.Render(value))
		b.WriteString("\n")
	}

	row("Price", "$"+r.Price+"/month")
	row("Type", r.PropertyType)
	row("Address", fmt.Sprintf("%s, %s, %s %s", r.Address, r.City, r.State, r.ZipCode))
	row("Layout", fmt.Sprintf("%d bed / %d bath", r.Bedrooms, r.Bathrooms))
	if r.DistanceToCampus > 0 {
		row("Campus", fmt.Sprintf("%.1f miles away", r.DistanceToCampus))
	}
	row("Status", r.Status)

	if r.Description != "" {
		b.WriteString("\n")
		b.WriteString(normalStyle.Render(r.Description))
		b.WriteString("\n")
	}

	if len(l.reviews) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Subtitle.Render("Reviews"))
		b.WriteString("\n")
		for _, rev := range l.reviews {
			b.WriteString(styles.Rating(rev.Rating, 5))
			b.WriteString(" " + normalStyle.Render(truncate(rev.Comment, 60)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// truncate shortens a string for single-line display
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
