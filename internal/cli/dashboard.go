package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/existflow/unicompass/internal/dashboard"
	"github.com/existflow/unicompass/internal/model"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show your application dashboard",
	Long: `Show your saved universities by application stage.

Commands:
  unicompass dashboard                    # Show all buckets
  unicompass dashboard add 12 favorites   # Save a university into a bucket
  unicompass dashboard renew              # Renew the subscription`,
	RunE: runDashboard,
}

var dashboardAddCmd = &cobra.Command{
	Use:   "add <university-id> <bucket>",
	Short: "Add a university to a dashboard bucket",
	Long: `Add a university to one of: favorites, planning_to_apply, applied,
accepted, visa_approved. Adding one that is already present is a no-op.`,
	Args: cobra.ExactArgs(2),
	RunE: runDashboardAdd,
}

var dashboardRenewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Renew the subscription via the payment provider",
	RunE:  runDashboardRenew,
}

var renewWait bool

func init() {
	dashboardCmd.AddCommand(dashboardAddCmd)
	dashboardCmd.AddCommand(dashboardRenewCmd)

	dashboardRenewCmd.Flags().BoolVar(&renewWait, "wait", false, "Poll until the subscription becomes active")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	_, client, err := newClient()
	if err != nil {
		return err
	}

	mat := dashboard.NewMaterializer(client)
	d, err := mat.Fetch(context.Background())
	if err != nil {
		return err
	}

	fmt.Println("\n📋 My Dashboard")
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("Subscription: %s", d.SubscriptionStatus)
	if d.SubscriptionEndDate != "" {
		fmt.Printf(" (expires %s)", d.SubscriptionEndDate)
	}
	fmt.Println()

	for _, b := range model.Buckets {
		list := d.List(b)
		fmt.Printf("\n%s (%d)\n", b.Label(), len(list))
		if len(list) == 0 {
			fmt.Println("  No universities in this list yet.")
			continue
		}
		for _, u := range list {
			fmt.Printf("  %-5d %s\n", u.ID, u.Name)
		}
	}
	fmt.Println()
	return nil
}

func runDashboardAdd(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid university id %q", args[0])
	}
	bucket, ok := model.ParseBucket(args[1])
	if !ok {
		return fmt.Errorf("unknown bucket %q (try: favorites, planning_to_apply, applied, accepted, visa_approved)", args[1])
	}

	_, client, err := newClient()
	if err != nil {
		return err
	}

	mat := dashboard.NewMaterializer(client)
	result, err := mat.Add(context.Background(), id, bucket)
	if err != nil {
		return err
	}

	if result == dashboard.AlreadyPresent {
		fmt.Printf("Already in %s.\n", bucket.Label())
	} else {
		fmt.Printf("✅ Added to %s.\n", bucket.Label())
	}
	return nil
}

func runDashboardRenew(cmd *cobra.Command, args []string) error {
	_, client, err := newClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	payment, err := client.InitializePayment(ctx)
	if err != nil {
		return err
	}
	if payment.Status != "success" || payment.CheckoutURL == "" {
		if payment.Message != "" {
			return fmt.Errorf("failed to start payment process: %s", payment.Message)
		}
		return fmt.Errorf("failed to start payment process")
	}

	fmt.Println("🔄 Open this checkout URL in your browser to pay:")
	fmt.Printf("   %s\n", payment.CheckoutURL)

	if !renewWait {
		fmt.Println("Run 'unicompass dashboard' afterwards to see the new status.")
		return nil
	}

	fmt.Println("Waiting for the subscription to become active...")
	mat := dashboard.NewMaterializer(client)
	active, err := mat.AwaitSubscription(ctx, 10, 6*time.Second)
	if err != nil {
		return err
	}
	if active {
		fmt.Println("✅ Subscription is active!")
	} else {
		fmt.Println("⚠️  Still not active. The payment may take a moment; check the dashboard later.")
	}
	return nil
}
