package main

import (
	"context"
	"log"
	"os"

	"github.com/Divert12/divert-ai-crew/internal/buildinfo"
	"github.com/Divert12/divert-ai-crew/internal/server"
	"github.com/Divert12/divert-ai-crew/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
