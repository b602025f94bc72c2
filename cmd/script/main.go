package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"marketdash/cmd"
)

// runs a single catalog refresh and dumps the resulting snapshot, handy for
// checking upstream connectivity without the api server
func main() {
	handler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(handler)

	started := handler.Scheduler.Trigger(context.Background())
	if !started {
		log.Fatal("refresh already in flight")
	}

	snapshot := handler.DashboardService.Snapshot()
	for snapshot.IsRefreshing {
		time.Sleep(100 * time.Millisecond)
		snapshot = handler.DashboardService.Snapshot()
	}

	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
