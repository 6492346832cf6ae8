package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/rules"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Short:   "List and validate correlation rule files",
		Example: "yoroc rules --dir ./rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := viper.GetString("rules.dir")

			ruleset, loadErrs, err := rules.LoadDir(dir)
			if err != nil {
				return err
			}

			for _, r := range ruleset {
				fmt.Printf("✅ %-40s %-8s %s\n", r.ID, r.Meta.Risk, r.Meta.Name)
			}
			for _, le := range loadErrs {
				fmt.Printf("❌ %-40s %v\n", le.File, le.Err)
			}
			fmt.Printf("\n%d valid, %d invalid\n", len(ruleset), len(loadErrs))

			if len(loadErrs) > 0 {
				return fmt.Errorf("%d rule file(s) failed validation", len(loadErrs))
			}
			return nil
		},
	}

	cmd.Flags().String("dir", "./rules", "Directory of YAML correlation rules")
	_ = viper.BindPFlag("rules.dir", cmd.Flags().Lookup("dir"))
	return cmd
}
