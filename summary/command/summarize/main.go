package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/roarscore/roarscore-api/store"
)

var (
	configFile string
	dbPath     string
	hierarchy  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Build, inspect and export reaction summaries offline.",
	Long: `Replay a detection schedule through the scoring engine, store the
per-second summary in a local database and pick its highlight moments.

Examples:
  # Build the summary of a broadcast from local detection files
  summarize build --hierarchy tok-20250101-01 --schedule schedule.json --profile cheer.yaml --data ./detections

  # Show the ten best moments
  summarize moments --hierarchy tok-20250101-01

  # Export to parquet
  summarize export --hierarchy tok-20250101-01 --out tok.parquet`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loadConfig(configFile)
		initLog()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path of configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./roarscore.db", "path of the local summary database")
	rootCmd.PersistentFlags().StringVar(&hierarchy, "hierarchy", "", "summary key, for example tok-20250101-01")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine progress")

	rootCmd.AddCommand(buildCmd, momentsCmd, showCmd, exportCmd)
}

func loadConfig(file string) {
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "cannot read config:", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("roarscore")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func initLog() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func openStore() (store.Store, error) {
	if hierarchy == "" {
		return nil, fmt.Errorf("--hierarchy is required")
	}
	return store.NewBadgerStore(dbPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
