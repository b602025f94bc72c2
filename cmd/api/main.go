package main

import (
	"context"
	"log"

	"marketdash/cmd"
)

func main() {
	apiHandler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	apiHandler.Scheduler.Start(ctx)

	err = apiHandler.StartApi(apiHandler.Port)
	if err != nil {
		log.Fatal(err)
	}
}
