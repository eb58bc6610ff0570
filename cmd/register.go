// ABOUTME: Register command for campusctl
// ABOUTME: Creates a new tenant or landlord account and establishes a session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/campusrentalfinder/campusctl/internal/client"
)

var registerInput client.RegisterInput

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Register a new tenant or landlord account and log in immediately.

Fields can be passed via flags for scripting; missing required fields are
prompted for interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRegister(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerInput.Email, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerInput.Password, "password", "", "Account password")
	registerCmd.Flags().StringVar(&registerInput.FirstName, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&registerInput.LastName, "last-name", "", "Last name")
	registerCmd.Flags().StringVar(&registerInput.UserType, "user-type", "tenant", "Account type: tenant or landlord")
	registerCmd.Flags().StringVar(&registerInput.PhoneNumber, "phone", "", "Phone number (optional)")
	registerCmd.Flags().StringVar(&registerInput.City, "city", "", "City (optional)")
}

// runRegister executes the registration flow and returns exit code
func runRegister(ctx context.Context, w io.Writer) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	input := registerInput
	if input.Email == "" || input.Password == "" || input.FirstName == "" || input.LastName == "" {
		if err := promptRegistration(&input); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	if input.UserType != "tenant" && input.UserType != "landlord" {
		fmt.Fprintln(w, "Error: --user-type must be tenant or landlord")
		return 2
	}
	input.PasswordConfirm = input.Password

	if err := env.store.Register(ctx, input); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	user := env.store.User()
	if user != nil {
		fmt.Fprintf(w, "Registered and logged in as %s (%s)\n", user.Email, user.UserType)
	} else {
		fmt.Fprintln(w, "Registered")
	}
	return 0
}

// promptRegistration asks for the missing registration fields interactively.
func promptRegistration(input *client.RegisterInput) error {
	var fields []huh.Field
	if input.Email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&input.Email))
	}
	if input.FirstName == "" {
		fields = append(fields, huh.NewInput().Title("First name").Value(&input.FirstName))
	}
	if input.LastName == "" {
		fields = append(fields, huh.NewInput().Title("Last name").Value(&input.LastName))
	}
	fields = append(fields, huh.NewSelect[string]().
		Title("Account type").
		Options(
			huh.NewOption("Tenant (student looking for housing)", "tenant"),
			huh.NewOption("Landlord (listing properties)", "landlord"),
		).
		Value(&input.UserType))
	if input.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if len(s) < 8 {
					return fmt.Errorf("password must be at least 8 characters")
				}
				return nil
			}).
			Value(&input.Password))
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase())
	return form.Run()
}
