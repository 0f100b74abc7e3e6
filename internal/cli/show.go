package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a university in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid university id %q", args[0])
	}

	_, client, err := newClient()
	if err != nil {
		return err
	}

	u, err := client.GetUniversity(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", u.Name)
	fmt.Println(strings.Repeat("─", len(u.Name)))
	fmt.Printf("Location:        %s, %s\n", u.City, u.Country)
	fmt.Printf("Course:          %s\n", u.CourseOffered)
	fmt.Printf("Degree level:    %s\n", u.DegreeLevel)
	fmt.Printf("Tuition fee:     %s\n", orNA(u.TuitionFee))
	fmt.Printf("Application fee: %s\n", orNA(u.ApplicationFee))
	fmt.Printf("Undergrad deadline: %s\n", orNA(u.DeadlineUndergrad))
	fmt.Printf("Grad deadline:      %s\n", orNA(u.DeadlineGrad))
	if u.Website != "" {
		fmt.Printf("Website:         %s\n", u.Website)
	}
	if u.ApplicationLink != "" {
		fmt.Printf("Apply:           %s\n", u.ApplicationLink)
	}

	if len(u.Scholarships) == 0 {
		fmt.Println("\nNo scholarships listed.")
		return nil
	}

	fmt.Println("\nScholarships:")
	for _, sch := range u.Scholarships {
		fmt.Printf("  • %s: %s\n", sch.Name, orNA(sch.Coverage))
		if sch.Eligibility != "" {
			fmt.Printf("    Eligibility: %s\n", sch.Eligibility)
		}
		if sch.Link != "" {
			fmt.Printf("    Link: %s\n", sch.Link)
		}
	}
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}
