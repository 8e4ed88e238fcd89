package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/MaxMLang/WikiWisch"
	"github.com/MaxMLang/WikiWisch/gin"
	"github.com/MaxMLang/WikiWisch/sources/apod"
	"github.com/MaxMLang/WikiWisch/sources/artic"
	"github.com/MaxMLang/WikiWisch/sources/arxiv"
	"github.com/MaxMLang/WikiWisch/sources/biorxiv"
	"github.com/MaxMLang/WikiWisch/sources/onthisday"
	"github.com/MaxMLang/WikiWisch/sources/wikipedia"
)

func init() {
	RootCmd.AddCommand(&WebCmd)
}

var WebCmd = cobra.Command{
	Use:   "web",
	Short: "Start the feed server",
	Run: func(cmd *cobra.Command, args []string) {
		sources := []wikiwisch.Source{
			wikipedia.New(),
			arxiv.New(),
			biorxiv.New(),
			artic.New(),
			apod.New(cfg.Nasa.APIKey),
		}

		handler := gin.New(stateStore, bookmarkIndex, onthisday.New(), logger, sources...)

		addr := cfg.HTTP.Addr
		if addr == "" {
			addr = ":1705"
		}
		logger.Print("server started, listening on", addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			logger.Fatal("server stopped:", err)
		}
	},
}
