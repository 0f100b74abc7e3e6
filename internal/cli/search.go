package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/unicompass/internal/catalog"
	"github.com/existflow/unicompass/internal/model"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the university catalog",
	Long: `Search universities by free text and structured filters.

Examples:
  unicompass search
  unicompass search "computer science" --country Germany
  unicompass search --degree master --max-tuition 15000
  unicompass search --all --city London`,
	RunE: runSearch,
}

var (
	searchCountry    string
	searchCity       string
	searchCourse     string
	searchDegree     string
	searchMaxAppFee  string
	searchMaxTuition string
	searchPages      int
	searchAll        bool
)

func init() {
	searchCmd.Flags().StringVar(&searchCountry, "country", "", "Country (exact match)")
	searchCmd.Flags().StringVar(&searchCity, "city", "", "City (exact match)")
	searchCmd.Flags().StringVar(&searchCourse, "course", "", "Course (substring match)")
	searchCmd.Flags().StringVar(&searchDegree, "degree", "", "Degree level (bachelor, master, both)")
	searchCmd.Flags().StringVar(&searchMaxAppFee, "max-app-fee", "", "Maximum application fee")
	searchCmd.Flags().StringVar(&searchMaxTuition, "max-tuition", "", "Maximum tuition fee")
	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "Number of result pages to fetch")
	searchCmd.Flags().BoolVarP(&searchAll, "all", "a", false, "Fetch the whole catalog and filter locally")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, client, err := newClient()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	filters := catalog.FilterSet{
		Country:    searchCountry,
		City:       searchCity,
		Course:     searchCourse,
		Degree:     searchDegree,
		MaxAppFee:  searchMaxAppFee,
		MaxTuition: searchMaxTuition,
	}

	ctx := context.Background()

	if searchAll {
		all, err := catalog.FetchAll(ctx, client)
		if err != nil {
			return err
		}
		matched := catalog.FilterAll(all, query, filters)
		printUniversities(matched, len(matched))
		return nil
	}

	engine := catalog.NewEngine(client, cfg.PageSize)
	if err := engine.RunQuery(ctx, query, filters); err != nil {
		return err
	}
	for p := 1; p < searchPages && engine.CanLoadMore(); p++ {
		if _, err := engine.LoadMore(ctx); err != nil {
			return err
		}
	}

	printUniversities(engine.Items(), engine.Total())
	if engine.CanLoadMore() {
		fmt.Printf("… more results available, rerun with --pages %d\n", searchPages+1)
	}
	return nil
}

func printUniversities(list []model.University, total int) {
	if len(list) == 0 {
		fmt.Println("No universities match your search/filter.")
		return
	}

	fmt.Printf("\n🎓 Universities (%d of %d)\n", len(list), total)
	fmt.Println(strings.Repeat("─", 72))
	for _, u := range list {
		printUniversityRow(u)
	}
	fmt.Println()
}

func printUniversityRow(u model.University) {
	location := u.City
	if u.Country != "" {
		if location != "" {
			location += ", "
		}
		location += u.Country
	}

	tuition := "n/a"
	if u.TuitionFee != "" {
		tuition = "$" + u.TuitionFee
	}

	name := u.Name
	if r := []rune(name); len(r) > 34 {
		name = string(r[:31]) + "..."
	}

	fmt.Printf("  %-5d %-34s %-22s %-8s %s\n", u.ID, name, location, u.DegreeLevel, tuition)
}
