package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Log in to the university API, create an account, or end the session.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the university API",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	_, client, err := newClient()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	fmt.Println("🔄 Logging in...")
	if err := client.Session().Login(context.Background(), username, password); err != nil {
		return err
	}

	id := client.Session().Identity()
	if id.IsAdmin() {
		fmt.Printf("✅ Logged in as %s (administrator). Try: unicompass admin stats\n", id.Username)
	} else {
		fmt.Printf("✅ Logged in as %s. Try: unicompass search\n", id.Username)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	_, client, err := newClient()
	if err != nil {
		return err
	}

	if !client.Session().IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	client.Session().Logout()
	fmt.Println("✅ Logged out successfully.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	_, client, err := newClient()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	fmt.Print("Confirm Password: ")
	confirmBytes, _ := term.ReadPassword(int(syscall.Stdin))
	confirm := string(confirmBytes)
	fmt.Println()

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("🔄 Creating account...")
	if err := client.Register(context.Background(), email, username, password, confirm); err != nil {
		return err
	}

	fmt.Println("✅ Account created! Log in with: unicompass auth login")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, client, err := newClient()
	if err != nil {
		return err
	}

	fmt.Printf("Server:  %s\n", cfg.APIBaseURL)
	id := client.Session().Identity()
	if id == nil {
		fmt.Println("Status:  Not logged in")
		return nil
	}

	fmt.Printf("User:    %s\n", id.Username)
	if len(id.Groups) > 0 {
		fmt.Printf("Groups:  %s\n", strings.Join(id.Groups, ", "))
	}
	if id.IsAdmin() {
		fmt.Println("Status:  ✓ Logged in (administrator)")
	} else {
		fmt.Println("Status:  ✓ Logged in")
	}
	return nil
}
