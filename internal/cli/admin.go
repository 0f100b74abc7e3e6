package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/unicompass/internal/api"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administer users and catalog records",
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show platform counters",
	RunE:  runAdminStats,
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List accounts",
	RunE:  runAdminUsers,
}

var adminUserCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account",
	RunE:  runAdminUserCreate,
}

var adminUserUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an account",
	Long:  `Update an account. Only the fields given as flags are changed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminUserUpdate,
}

var adminUserDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminUserDelete,
}

var (
	userUsername string
	userEmail    string
	userPassword string
	userStaff    bool
)

var adminUniCmd = &cobra.Command{
	Use:   "uni",
	Short: "Manage catalog records",
}

var adminUniCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a catalog record",
	RunE:  runAdminUniCreate,
}

var adminUniUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a catalog record",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminUniUpdate,
}

var adminUniDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a catalog record",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminUniDelete,
}

var uniInput api.UniversityInput

func init() {
	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminUsersCmd)
	adminUsersCmd.AddCommand(adminUserCreateCmd)
	adminUsersCmd.AddCommand(adminUserUpdateCmd)
	adminUsersCmd.AddCommand(adminUserDeleteCmd)

	for _, c := range []*cobra.Command{adminUserCreateCmd, adminUserUpdateCmd} {
		c.Flags().StringVar(&userUsername, "username", "", "Username")
		c.Flags().StringVar(&userEmail, "email", "", "Email address")
		c.Flags().StringVar(&userPassword, "password", "", "Password")
		c.Flags().BoolVar(&userStaff, "staff", false, "Staff flag")
	}
	adminCmd.AddCommand(adminUniCmd)
	adminUniCmd.AddCommand(adminUniCreateCmd)
	adminUniCmd.AddCommand(adminUniUpdateCmd)
	adminUniCmd.AddCommand(adminUniDeleteCmd)

	for _, c := range []*cobra.Command{adminUniCreateCmd, adminUniUpdateCmd} {
		c.Flags().StringVar(&uniInput.Name, "name", "", "University name")
		c.Flags().StringVar(&uniInput.Country, "country", "", "Country")
		c.Flags().StringVar(&uniInput.City, "city", "", "City")
		c.Flags().StringVar(&uniInput.CourseOffered, "course", "", "Course offered")
		c.Flags().StringVar(&uniInput.DegreeLevel, "degree", "", "Degree level")
		c.Flags().StringVar(&uniInput.TuitionFee, "tuition", "", "Tuition fee")
		c.Flags().StringVar(&uniInput.ApplicationFee, "app-fee", "", "Application fee")
		c.Flags().StringVar(&uniInput.Website, "website", "", "Website URL")
		c.Flags().StringVar(&uniInput.ApplicationLink, "apply-link", "", "Application URL")
		c.Flags().StringVar(&uniInput.DeadlineUndergrad, "deadline-undergrad", "", "Undergrad deadline")
		c.Flags().StringVar(&uniInput.DeadlineGrad, "deadline-grad", "", "Grad deadline")
	}
}

func runAdminStats(cmd *cobra.Command, args []string) error {
	_, client, err := newClient()
	if err != nil {
		return err
	}

	stats, err := client.AdminStats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Users:              %d\n", stats.TotalUsers)
	fmt.Printf("Universities:       %d\n", stats.TotalUniversities)
	fmt.Printf("Active subscribers: %d\n", stats.ActiveSubscribers)
	return nil
}

func runAdminUsers(cmd *cobra.Command, args []string) error {
	_, client, err := newClient()
	if err != nil {
		return err
	}

	users, err := client.ListUsers(context.Background())
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Println("No accounts found.")
		return nil
	}
	for _, u := range users {
		staff := ""
		if u.IsStaff {
			staff = "  [staff]"
		}
		fmt.Printf("  %-5d %-20s %-30s%s\n", u.ID, u.Username, u.Email, staff)
	}
	return nil
}

// userInputFromFlags collects only the flags the caller actually set, so an
// update never clobbers fields it was not asked to touch.
func userInputFromFlags(cmd *cobra.Command) api.UserInput {
	var in api.UserInput
	if cmd.Flags().Changed("username") {
		in.Username = userUsername
	}
	if cmd.Flags().Changed("email") {
		in.Email = userEmail
	}
	if cmd.Flags().Changed("password") {
		in.Password = userPassword
	}
	if cmd.Flags().Changed("staff") {
		staff := userStaff
		in.IsStaff = &staff
	}
	return in
}

func runAdminUserCreate(cmd *cobra.Command, args []string) error {
	if userUsername == "" {
		return fmt.Errorf("--username is required")
	}

	_, client, err := newClient()
	if err != nil {
		return err
	}

	u, err := client.CreateUser(context.Background(), userInputFromFlags(cmd))
	if err != nil {
		return err
	}
	fmt.Printf("✅ Created account %q with id %d.\n", u.Username, u.ID)
	return nil
}

func runAdminUserUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}

	_, client, err := newClient()
	if err != nil {
		return err
	}

	u, err := client.UpdateUser(context.Background(), id, userInputFromFlags(cmd))
	if err != nil {
		return err
	}
	fmt.Printf("✅ Updated account %q.\n", u.Username)
	return nil
}

func runAdminUserDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}

	cfg, client, err := newClient()
	if err != nil {
		return err
	}

	if cfg.ConfirmAdminDelete && !confirm(fmt.Sprintf("Delete user %d? This cannot be undone", id)) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := client.DeleteUser(context.Background(), id); err != nil {
		return err
	}
	fmt.Println("✅ User deleted.")
	return nil
}

func runAdminUniCreate(cmd *cobra.Command, args []string) error {
	if uniInput.Name == "" {
		return fmt.Errorf("--name is required")
	}

	_, client, err := newClient()
	if err != nil {
		return err
	}

	u, err := client.CreateUniversity(context.Background(), uniInput)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Created %q with id %d.\n", u.Name, u.ID)
	return nil
}

func runAdminUniUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid university id %q", args[0])
	}

	_, client, err := newClient()
	if err != nil {
		return err
	}

	u, err := client.UpdateUniversity(context.Background(), id, uniInput)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Updated %q.\n", u.Name)
	return nil
}

func runAdminUniDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid university id %q", args[0])
	}

	cfg, client, err := newClient()
	if err != nil {
		return err
	}

	if cfg.ConfirmAdminDelete && !confirm(fmt.Sprintf("Delete university %d? This cannot be undone", id)) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := client.DeleteUniversity(context.Background(), id); err != nil {
		return err
	}
	fmt.Println("✅ University deleted.")
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
