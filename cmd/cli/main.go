package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tablekit/adapters/excel"
	"tablekit/adapters/slides"
	"tablekit/domain/analysis"
	"tablekit/domain/table"
	"tablekit/internal/analyzer"
	"tablekit/internal/kpi"
	"tablekit/internal/report"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tablekit",
		Short: "Tabular data analysis from the command line",
	}

	rootCmd.AddCommand(
		newReportCmd(),
		newKPIsCmd(),
		newOutliersCmd(),
		newDeckCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadTable(path, sheet string) (*table.Table, error) {
	reader := excel.NewDataReader(path)
	if sheet == "" {
		sheets, err := reader.SheetNames()
		if err != nil {
			return nil, err
		}
		sheet = sheets[0]
	}
	return reader.ReadSheet(sheet)
}

func newReportCmd() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Print the full text analysis report for a workbook or CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(args[0], sheet)
			if err != nil {
				return err
			}

			az, err := analyzer.New(tbl)
			if err != nil {
				return err
			}
			engine, err := kpi.New(tbl)
			if err != nil {
				return err
			}

			fmt.Println(report.New(tbl, az, engine).Build(time.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to analyze (defaults to the first)")
	return cmd
}

func newKPIsCmd() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "kpis [file]",
		Short: "Print KPI recommendations with computed values as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(args[0], sheet)
			if err != nil {
				return err
			}
			engine, err := kpi.New(tbl)
			if err != nil {
				return err
			}

			type kpiOut struct {
				Name        string   `json:"name"`
				Description string   `json:"description"`
				Formula     string   `json:"formula"`
				Value       *float64 `json:"value,omitempty"`
			}
			type groupOut struct {
				Category analysis.KPICategory `json:"category"`
				KPIs     []kpiOut             `json:"kpis"`
			}

			var out []groupOut
			for _, group := range engine.Generate() {
				g := groupOut{Category: group.Category}
				for _, def := range group.KPIs {
					entry := kpiOut{Name: def.Name, Description: def.Description, Formula: def.Formula}
					if v := kpi.Evaluate(tbl, def.Computation); v.Available {
						value := v.Value
						entry.Value = &value
					}
					g.KPIs = append(g.KPIs, entry)
				}
				out = append(out, g)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to analyze (defaults to the first)")
	return cmd
}

func newOutliersCmd() *cobra.Command {
	var sheet, method string

	cmd := &cobra.Command{
		Use:   "outliers [file]",
		Short: "Detect outliers in the numeric columns of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var m analysis.OutlierMethod
			switch method {
			case "iqr":
				m = analysis.OutlierIQR
			case "zscore":
				m = analysis.OutlierZScore
			default:
				return fmt.Errorf("unknown method %q, expected iqr or zscore", method)
			}

			tbl, err := loadTable(args[0], sheet)
			if err != nil {
				return err
			}
			az, err := analyzer.New(tbl)
			if err != nil {
				return err
			}

			outliers := az.DetectOutliers(m)
			if len(outliers) == 0 {
				fmt.Println("No outliers detected.")
				return nil
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(outliers)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to analyze (defaults to the first)")
	cmd.Flags().StringVar(&method, "method", "iqr", "Detection method: iqr or zscore")
	return cmd
}

func newDeckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck [file.pptx]",
		Short: "Analyze the structure of a presentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := slides.OpenDeck(args[0])
			if err != nil {
				return err
			}

			deckAnalyzer := slides.NewAnalyzer(deck)
			out := map[string]interface{}{
				"overview":  deckAnalyzer.Overview(),
				"structure": deckAnalyzer.Structure(),
				"kpis":      deckAnalyzer.KPIs(),
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	return cmd
}
