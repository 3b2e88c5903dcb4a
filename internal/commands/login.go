package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/maduarte/chatdeck/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in and store an access token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := ""
		if len(args) > 0 {
			email = args[0]
		}
		return runLogin(cmd.Context(), email)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup [email]",
	Short: "Create an account and sign in",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := ""
		if len(args) > 0 {
			email = args[0]
		}
		return runSignup(cmd.Context(), email)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ClearCredentials(); err != nil {
			return fmt.Errorf("failed to clear credentials: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func runLogin(ctx context.Context, email string) error {
	email, password, err := promptLogin(email, false)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	client, err := newAnonymousClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	creds, err := client.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Login failed"))
		return err
	}

	if err := config.SaveCredentials(creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	fmt.Printf("Logged in as %s\n", email)
	return nil
}

func runSignup(ctx context.Context, email string) error {
	email, password, err := promptLogin(email, true)
	if err != nil {
		return err
	}

	fmt.Print("Full name (optional): ")
	fullName, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	fullName = strings.TrimSpace(fullName)

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	client, err := newAnonymousClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	creds, err := client.Signup(ctx, email, password, fullName)
	if err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Signup failed"))
		return err
	}

	if err := config.SaveCredentials(creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	fmt.Printf("Account created. Logged in as %s\n", email)
	return nil
}

// promptLogin collects email and password, reading the password without
// echo when stdin is a terminal.
func promptLogin(email string, confirm bool) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return "", "", fmt.Errorf("email cannot be empty")
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return "", "", err
	}
	if password == "" {
		return "", "", fmt.Errorf("password cannot be empty")
	}

	if confirm {
		again, err := readPassword("Confirm password: ")
		if err != nil {
			return "", "", err
		}
		if again != password {
			return "", "", fmt.Errorf("passwords do not match")
		}
	}

	return email, password, nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}

	// Piped input, e.g. in scripts
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
