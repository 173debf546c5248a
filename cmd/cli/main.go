package main

import (
	"context"
	"log"
	"os"

	"github.com/Divert12/divert-ai-crew/internal/buildinfo"
	"github.com/Divert12/divert-ai-crew/internal/client/cli"
	"github.com/Divert12/divert-ai-crew/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
