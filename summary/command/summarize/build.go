package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roarscore/roarscore-api/engine"
	"github.com/roarscore/roarscore-api/external/detection"
	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/summary"
)

var (
	scheduleFile string
	profileFile  string
	dataDir      string
	step         float64
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Replay a schedule and store its summary.",
	Long: `Replay a schedule and store its summary.

The schedule file holds either a list of segments
  [{"url": "seg-0.json", "start": 0, "duration": 10}, ...]
or an object with "schedule" or "fragments".
Urls starting with http are downloaded, anything else is read below --data.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runBuild(context.Background())
	},
}

func init() {
	buildCmd.Flags().StringVar(&scheduleFile, "schedule", "schedule.json", "schedule or fragment list")
	buildCmd.Flags().StringVar(&profileFile, "profile", "profile.yaml", "reaction profile")
	buildCmd.Flags().StringVar(&dataDir, "data", ".", "directory of local detection files")
	buildCmd.Flags().Float64Var(&step, "step", summary.DefaultStep, "replay clock step in seconds")
}

func readSchedule(file string) ([]schema.ScheduleSegment, error) {
	d, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var segments []schema.ScheduleSegment
	if err := json.Unmarshal(d, &segments); err == nil {
		return segments, nil
	}

	var doc struct {
		Schedule  []schema.ScheduleSegment `json:"schedule"`
		Fragments []schema.Fragment        `json:"fragments"`
	}
	if err := json.Unmarshal(d, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", file, err)
	}
	if len(doc.Schedule) > 0 {
		return doc.Schedule, nil
	}
	return engine.MergeFragments(doc.Fragments), nil
}

func readProfile(file string) (*schema.ReactionProfile, error) {
	d, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return schema.ParseProfileYAML(d)
}

// mixedSource downloads http urls and reads everything else from disk.
type mixedSource struct {
	remote detection.Source
	local  detection.Source
}

func (m mixedSource) Fetch(ctx context.Context, url string) ([]schema.DetectionRow, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return m.remote.Fetch(ctx, url)
	}
	return m.local.Fetch(ctx, url)
}

func runBuild(ctx context.Context) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	schedule, err := readSchedule(scheduleFile)
	if err != nil {
		return err
	}
	if len(schedule) == 0 {
		return fmt.Errorf("%s has no segments", scheduleFile)
	}

	profile, err := readProfile(profileFile)
	if err != nil {
		return err
	}

	b := summary.Builder{
		Config:  engine.ConfigFromViper(),
		Profile: profile.Emotions,
		Source: mixedSource{
			remote: detection.New(nil),
			local:  detection.NewFileSource(dataDir),
		},
		Step: step,
		Progress: func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rreplayed %d/%d segments", done, total)
		},
	}

	start := time.Now()
	records, err := b.Build(ctx, schedule)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	if err := summary.Save(s, hierarchy, records, schema.DefaultSummaryBatchSize); err != nil {
		return err
	}

	fmt.Printf("Stored %d seconds of %s with profile %q in %v.\n", len(records), hierarchy, profile.Name, time.Since(start).Round(time.Millisecond))
	return nil
}
