// ABOUTME: Login form as a bubbletea model
// ABOUTME: Collects email and password with a styled huh form

package loginform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/campusrentalfinder/campusctl/internal/tui/styles"
)

// CompleteMsg is sent when the form is submitted
type CompleteMsg struct {
	Email    string
	Password string
}

// CancelledMsg is sent when the user cancels
type CancelledMsg struct{}

// LoginForm manages the credential prompt as a bubbletea model
type LoginForm struct {
	form     *huh.Form
	email    string
	password string
	errMsg   string
	width    int
}

// createTheme returns a huh theme matching the app palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Primary)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(styles.Muted)

	return t
}

// New creates a new login form
func New() *LoginForm {
	lf := &LoginForm{}
	lf.form = lf.createForm()
	return lf
}

func (lf *LoginForm) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@university.edu").
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("enter a valid email address")
					}
					return nil
				}).
				Value(&lf.email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&lf.password),
		).Title("Sign in").
			Description("Log in to browse and save campus rentals"),
	).WithTheme(createTheme())
}

// SetError shows a server-side failure and resets the form for another try.
func (lf *LoginForm) SetError(msg string) tea.Cmd {
	lf.errMsg = msg
	lf.password = ""
	lf.form = lf.createForm()
	return lf.form.Init()
}

// Init implements tea.Model
func (lf *LoginForm) Init() tea.Cmd {
	return lf.form.Init()
}

// Update implements tea.Model
func (lf *LoginForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return lf, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := lf.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		lf.form = f
	}

	if lf.form.State == huh.StateCompleted {
		email, password := lf.email, lf.password
		return lf, func() tea.Msg {
			return CompleteMsg{Email: email, Password: password}
		}
	}

	return lf, cmd
}

// SetWidth sets the form width for proper rendering
func (lf *LoginForm) SetWidth(width int) {
	lf.width = width
}

// View implements tea.Model
func (lf *LoginForm) View() string {
	var sb strings.Builder

	if lf.errMsg != "" {
		sb.WriteString(styles.StatusCritical.Render("Login failed: " + lf.errMsg))
		sb.WriteString("\n\n")
	}
	sb.WriteString(lf.form.View())

	return sb.String()
}
