package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/engine"
	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/ingest"
	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/rules"
	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/store"
	"github.com/yorozuya-cybersecurity/yorosec-correlator/pkg/utils"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate correlation rules against a records export",
		RunE: func(cmd *cobra.Command, args []string) error {
			recordsPath := viper.GetString("run.records")
			if recordsPath == "" {
				return errors.New("please provide --records pointing to the observation export")
			}
			rulesDir := viper.GetString("run.rules")
			if rulesDir == "" {
				return errors.New("please provide --rules pointing to the rule directory")
			}

			ruleset, loadErrs, err := rules.LoadDir(rulesDir)
			if err != nil {
				return err
			}
			for _, le := range loadErrs {
				fmt.Printf("⚠️  Skipping rule file %s: %v\n", le.File, le.Err)
			}
			if len(ruleset) == 0 {
				return fmt.Errorf("no valid rules in %s", rulesDir)
			}

			recs, err := ingest.ReadFile(recordsPath)
			if err != nil {
				return err
			}
			st, err := store.Populate(recs)
			if err != nil {
				return err
			}

			fmt.Printf("🚀 Correlating %d records against %d rules\n", st.Len(), len(ruleset))
			evalRes, err := engine.Evaluate(cmd.Context(), st, ruleset)
			if err != nil {
				return err
			}

			res := schema.ScanResult{
				ScanID:     uuid.NewString(),
				Target:     viper.GetString("run.target"),
				Timestamp:  time.Now(),
				Records:    st.Len(),
				Findings:   evalRes.Findings,
				RuleErrors: evalRes.RuleErrors,
			}

			outDir := viper.GetString("output")
			file, err := utils.SaveResult(res, outDir)
			if err != nil {
				return err
			}

			if dbPath := viper.GetString("run.db"); dbPath != "" {
				db, err := store.OpenDB(dbPath)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.SaveScan(res); err != nil {
					return err
				}
			}

			fmt.Printf("✅ Correlation complete. Results saved to %s\n", file)
			fmt.Printf("   Total findings: %d\n", len(res.Findings))
			for _, re := range res.RuleErrors {
				fmt.Printf("   ⚠️  Rule %s failed: %s\n", re.RuleID, re.Error)
			}
			return nil
		},
	}

	cmd.Flags().String("records", "", "JSON export of observation records from collection modules")
	cmd.Flags().String("rules", "./rules", "Directory of YAML correlation rules")
	cmd.Flags().String("target", "", "Scan target label to attach to results")
	cmd.Flags().String("db", "", "Optional SQLite database to persist the scan into")
	_ = viper.BindPFlag("run.records", cmd.Flags().Lookup("records"))
	_ = viper.BindPFlag("run.rules", cmd.Flags().Lookup("rules"))
	_ = viper.BindPFlag("run.target", cmd.Flags().Lookup("target"))
	_ = viper.BindPFlag("run.db", cmd.Flags().Lookup("db"))

	return cmd
}
