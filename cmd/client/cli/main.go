package main

import (
	"context"
	"log"

	"dropwatch/internal/client/cli"
	"dropwatch/internal/client/config"
	"dropwatch/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg, logging.NewDefault())
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	app.Run(ctx)

}
