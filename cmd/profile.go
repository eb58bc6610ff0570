// ABOUTME: Profile commands for campusctl
// ABOUTME: Updates profile fields and changes the account password

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

var profileUpdate client.ProfileUpdate

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Long:  `Apply a partial update to your profile. Only the flags you pass are changed.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runProfileUpdate(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var profilePasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runProfilePassword(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profilePasswordCmd)

	profileUpdateCmd.Flags().StringVar(&profileUpdate.FirstName, "first-name", "", "First name")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.LastName, "last-name", "", "Last name")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.PhoneNumber, "phone", "", "Phone number")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.Bio, "bio", "", "Short biography")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.Address, "address", "", "Street address")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.City, "city", "", "City")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.State, "state", "", "State or province")
	profileUpdateCmd.Flags().StringVar(&profileUpdate.ZipCode, "zip", "", "Zip code")
}

// runProfileUpdate executes the profile update and returns exit code
func runProfileUpdate(ctx context.Context, w io.Writer) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if !env.store.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in. Run 'campusctl login' first.")
		return 1
	}

	if profileUpdate == (client.ProfileUpdate{}) {
		fmt.Fprintln(w, "Error: nothing to update, pass at least one field flag")
		return 2
	}

	user, err := env.client.UpdateProfile(ctx, profileUpdate)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintf(w, "Profile updated for %s\n", user.Email)
	return 0
}

// runProfilePassword prompts for and submits a password change
func runProfilePassword(ctx context.Context, w io.Writer) int {
	env, err := newAppEnv()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if !env.store.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in. Run 'campusctl login' first.")
		return 1
	}

	var input client.PasswordChangeInput
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Current password").
			EchoMode(huh.EchoModePassword).
			Value(&input.CurrentPassword),
		huh.NewInput().
			Title("New password").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if len(s) < 8 {
					return fmt.Errorf("password must be at least 8 characters")
				}
				return nil
			}).
			Value(&input.NewPassword),
		huh.NewInput().
			Title("Confirm new password").
			EchoMode(huh.EchoModePassword).
			Value(&input.NewPasswordConfirm),
	)).WithTheme(huh.ThemeBase())

	if err := form.Run(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if input.NewPassword != input.NewPasswordConfirm {
		fmt.Fprintln(w, "Error: new password confirmation doesn't match")
		return 2
	}

	if err := env.client.ChangePassword(ctx, input); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintln(w, "Password changed")
	return 0
}
