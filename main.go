package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roarscore/roarscore-api/api"
	"github.com/roarscore/roarscore-api/engine"
	"github.com/roarscore/roarscore-api/external/cadence"
	"github.com/roarscore/roarscore-api/external/detection"
	"github.com/roarscore/roarscore-api/store"
)

var (
	server    *api.Server
	dataStore store.Store
)

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("roarscore")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func openStore() (store.Store, error) {
	switch viper.GetString("store.driver") {
	case "badger":
		return store.NewBadgerStore(viper.GetString("badger.path"))
	case "", "mongo":
		opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
		opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
		mongoClient, err := mongo.NewClient(opts)
		if nil != err {
			return nil, fmt.Errorf("create mongo client with error: %w", err)
		}

		if err := mongoClient.Connect(context.Background()); nil != err {
			return nil, fmt.Errorf("connect mongo database with error: %w", err)
		}
		return store.NewMongoStore(mongoClient, viper.GetString("mongo.database")), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", viper.GetString("store.driver"))
	}
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")

		if initialCtx != nil && cancelInitialization != nil {
			log.Info("Cancelling initialization")
			cancelInitialization()
			<-initialCtx.Done()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if server != nil {
			log.Info("Shutdown api server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		if dataStore != nil {
			log.Info("Shutting down db store")
			dataStore.Close()
		}

		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	var err error
	dataStore, err = openStore()
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Infof("Initialized %s store", viper.GetString("store.driver"))

	detectionTimeout := viper.GetDuration("detection.timeout")
	if detectionTimeout <= 0 {
		detectionTimeout = 30 * time.Second
	}
	source := detection.New(&http.Client{
		Timeout: detectionTimeout,
	})

	var cadenceClient cadence.Client
	if viper.GetString("cadence.conn") != "" {
		cadenceClient = cadence.NewClient()
		log.WithField("prefix", "init").Info("Initialized cadence client")
	} else {
		log.WithField("prefix", "init").Warn("No cadence connection, summary rebuilds are disabled")
	}

	engineConfig := engine.ConfigFromViper()

	// Init http server
	server = api.NewServer(
		dataStore,
		source,
		cadenceClient,
		engineConfig)
	log.WithField("prefix", "init").Info("Initialized http server")

	// Remove initial context
	initialCtx = nil
	cancelInitialization = nil

	log.Fatal(server.Run(":" + viper.GetString("server.port")))
}
