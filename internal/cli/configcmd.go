package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/unicompass/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change client settings",
	RunE:  runConfig,
}

var (
	configServer   string
	configPageSize int
)

func init() {
	configCmd.Flags().StringVar(&configServer, "server", "", "Set the API base URL")
	configCmd.Flags().IntVar(&configPageSize, "page-size", 0, "Set the catalog page size")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	changed := false
	if configServer != "" {
		cfg.APIBaseURL = configServer
		changed = true
	}
	if configPageSize > 0 {
		cfg.PageSize = configPageSize
		changed = true
	}

	if changed {
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println("✅ Config saved.")
	}

	fmt.Printf("Server:    %s\n", cfg.APIBaseURL)
	fmt.Printf("Page size: %d\n", cfg.PageSize)
	fmt.Printf("Log level: %s\n", cfg.LogLevel)
	return nil
}
