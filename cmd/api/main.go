package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talent-api",
	Short: "Recruitment portal API",
	Long:  `Multi-tenant recruitment portal: HTTP API, database migrations and admin seeding.`,
}

// @title                       Talent API
// @version                     1.0
// @description                 Multi-tenant recruitment portal.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
