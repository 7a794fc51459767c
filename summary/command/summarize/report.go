package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/roarscore/roarscore-api/moment"
	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/summary"
	"github.com/roarscore/roarscore-api/utils"
)

var (
	strongColor   = color.New(color.FgGreen, color.Bold)
	positiveColor = color.New(color.FgGreen)
	neutralColor  = color.New(color.FgHiBlack)
	negativeColor = color.New(color.FgRed)
)

var (
	momentOpts = moment.DefaultOptions()
	showFrom   string
	showLimit  int
	exportFile string
)

var momentsCmd = &cobra.Command{
	Use:   "moments",
	Short: "Show the highlight moments of a stored summary.",
	RunE: func(_ *cobra.Command, _ []string) error {
		records, err := loadRecords()
		if err != nil {
			return err
		}
		return printMoments(moment.Find(records, momentOpts))
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the per-second records of a stored summary.",
	RunE: func(_ *cobra.Command, _ []string) error {
		records, err := loadRecords()
		if err != nil {
			return err
		}

		from := 0.0
		if showFrom != "" {
			if from, err = utils.ParseClock(showFrom, false); err != nil {
				return err
			}
		}
		return printRecords(records, from, showLimit)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a stored summary to a parquet file.",
	RunE: func(_ *cobra.Command, _ []string) error {
		records, err := loadRecords()
		if err != nil {
			return err
		}

		f, err := os.Create(exportFile)
		if err != nil {
			return err
		}
		if err := summary.WriteParquet(f, records); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Printf("Wrote %d records to %s.\n", len(records), exportFile)
		return nil
	},
}

func init() {
	momentsCmd.Flags().IntVar(&momentOpts.TopN, "top", moment.DefaultTopN, "number of best seconds considered")
	momentsCmd.Flags().IntVar(&momentOpts.MaxMoments, "max", moment.DefaultMaxMoments, "maximum number of moments")
	momentsCmd.Flags().Float64Var(&momentOpts.Buffer, "buffer", moment.DefaultBuffer, "seconds that join neighbouring highlights")

	showCmd.Flags().StringVar(&showFrom, "from", "", "first second to print, as HH:MM:SS")
	showCmd.Flags().IntVar(&showLimit, "limit", 60, "number of records to print")

	exportCmd.Flags().StringVar(&exportFile, "out", "summary.parquet", "output file")
}

func loadRecords() ([]schema.SummaryRecord, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	records, err := summary.Load(s, hierarchy)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no summary stored for %s", hierarchy)
	}
	return records, nil
}

func colorScore(score float64) string {
	text := fmt.Sprintf("%.0f", score)
	switch {
	case score >= 100:
		return strongColor.Sprint(text)
	case score > 0:
		return positiveColor.Sprint(text)
	case score < 0:
		return negativeColor.Sprint(text)
	default:
		return neutralColor.Sprint(text)
	}
}

func printMoments(moments []schema.Moment) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Label", "Start", "End", "Score", "People"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, m := range moments {
		data = append(data, []string{
			m.Label,
			utils.FormatClock(m.StartTime, true),
			utils.FormatClock(m.EndTime, true),
			colorScore(m.Score),
			fmt.Sprintf("%.0f", m.People),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func printRecords(records []schema.SummaryRecord, from float64, limit int) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Time", "Score", "People", "Ticks"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range records {
		if r.StartTime < from {
			continue
		}
		if limit > 0 && len(data) >= limit {
			break
		}
		data = append(data, []string{
			utils.FormatClock(r.StartTime, true),
			colorScore(r.Score),
			fmt.Sprintf("%.0f", r.People),
			fmt.Sprintf("%d", r.Count),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
