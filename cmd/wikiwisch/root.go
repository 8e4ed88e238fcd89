package main

import (
	"fmt"
	"io/ioutil"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/MaxMLang/WikiWisch/bleve"
	"github.com/MaxMLang/WikiWisch/bolt"
	"github.com/MaxMLang/WikiWisch/log"
	"github.com/MaxMLang/WikiWisch/state"
)

var (
	// flags
	env string

	// logger
	logger log.Logger

	// drivers
	boltDriver *bolt.Driver

	// stores
	stateStore *state.Store

	// indices
	bookmarkIndex *bleve.BookmarkIndex

	cfg Configuration
)

type Configuration struct {
	Bolt struct {
		Store string `toml:"store"`
	} `toml:"bolt"`
	Bleve struct {
		Store string `toml:"store"`
	} `toml:"bleve"`
	HTTP struct {
		Addr string `toml:"addr"`
	} `toml:"http"`
	Nasa struct {
		APIKey string `toml:"api_key"`
	} `toml:"nasa"`
}

func init() {
	RootCmd.PersistentFlags().StringVar(&env, "env", "dev", "")
}

var RootCmd = cobra.Command{
	Use:   "wikiwisch",
	Short: "Multi-source discovery feed server",
	Long:  "",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load configuration
		cfgData, err := ioutil.ReadFile(fmt.Sprintf("configuration/config.%s.toml", env))
		if err != nil {
			fmt.Println("error reading configuration:", err)
			return
		}

		err = toml.Unmarshal(cfgData, &cfg)
		if err != nil {
			fmt.Println("error unmarshalling configuration:", err)
			return
		}

		// Create logger
		logger = log.New(env)

		// Create stores
		boltDriver = &bolt.Driver{}
		if err := boltDriver.Open(cfg.Bolt.Store); err != nil {
			logger.Fatal("could not open db:", err)
		}
		stateStore = state.Load(&bolt.StateRepository{Driver: boltDriver}, logger)

		// Create indices
		bookmarkIndex = &bleve.BookmarkIndex{}
		if err := bookmarkIndex.Open(cfg.Bleve.Store); err != nil {
			logger.Fatal("could not open search index:", err)
		}
		if err := bookmarkIndex.Sync(stateStore.State()); err != nil {
			logger.Fatal("could not sync search index:", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := bookmarkIndex.Close(); err != nil {
			logger.Error("error closing search index:", err)
		}
		boltDriver.Close()
	},
}
