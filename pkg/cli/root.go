package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version = "0.0.1"
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "yoroc",
		Short: "Correlation engine for recon scan data",
		Long:  "Yorozuya correlation engine: evaluate declarative correlation rules against observation records exported by collection modules, and emit risk-rated findings.",
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("output", "o", "./scans", "Output directory")
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	// Environment variable support (YOROC_OUTPUT, etc.)
	viper.SetEnvPrefix("YOROC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Subcommands
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
