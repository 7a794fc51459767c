package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roarscore/roarscore-api/schema"
	"github.com/roarscore/roarscore-api/store"
)

func init() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("roarscore")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func main() {
	schema.NewMongoDBIndexer(viper.GetString("mongo.conn"), viper.GetString("mongo.database")).IndexAll()

	if err := migrateMongo(); nil != err {
		panic(err)
	}
}

func migrateMongo() error {
	ctx := context.Background()
	opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
	opts.SetMaxPoolSize(1)
	client, err := mongo.NewClient(opts)
	if err != nil {
		return err
	}
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	if err := setupCollectionProfile(store.NewMongoStore(client, viper.GetString("mongo.database"))); err != nil {
		fmt.Println("failed to set up collection `profiles`: ", err)
		return err
	}

	return nil
}

// setupCollectionProfile seeds reaction profiles from the yaml files under
// profiles.seed. Existing profiles with the same id are replaced.
func setupCollectionProfile(s store.ProfileStore) error {
	dir := viper.GetString("profiles.seed")
	if dir == "" {
		fmt.Println("no profile seed directory, skip")
		return nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return err
	}

	for _, file := range files {
		data, err := ioutil.ReadFile(file)
		if err != nil {
			return err
		}

		profile, err := schema.ParseProfileYAML(data)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		if err := s.SaveProfile(*profile); err != nil {
			return err
		}
		fmt.Println("initialize profile", profile.ID)
	}

	return nil
}
