package main

import (
	"context"
	"log"
	"os"

	"github.com/dkarlovs/cloudvault/internal/buildinfo"
	"github.com/dkarlovs/cloudvault/internal/client/cli"
	"github.com/dkarlovs/cloudvault/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
