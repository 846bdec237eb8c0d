package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/wayfern/wayfern-backend/internal/app"
)

func main() {
	var dryRun bool
	var limit int
	flag.BoolVar(&dryRun, "dry-run", false, "print plans missing codes without writing")
	flag.IntVar(&limit, "limit", 0, "limit number of plans processed")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()

	rows, err := application.Repos.TripPlan.ListMissingAccessCodes(ctx, nil, limit)
	if err != nil {
		fmt.Printf("load trip plans: %v\n", err)
		os.Exit(1)
	}
	if len(rows) == 0 {
		fmt.Println("no trip plans missing an access code")
		return
	}

	filled := 0
	for _, plan := range rows {
		if plan == nil || plan.ID == uuid.Nil {
			continue
		}
		if dryRun {
			fmt.Printf("would assign code to %s (%s)\n", plan.ID, plan.Destination)
			continue
		}
		code, err := application.Services.AccessCodes.Generate(ctx)
		if err != nil {
			fmt.Printf("generate code for %s: %v\n", plan.ID, err)
			os.Exit(1)
		}
		updates := map[string]interface{}{"access_code": code}
		if err := application.Repos.TripPlan.UpdateFields(ctx, nil, plan.ID, updates); err != nil {
			fmt.Printf("assign code to %s: %v\n", plan.ID, err)
			os.Exit(1)
		}
		fmt.Printf("assigned %s to %s\n", code, plan.ID)
		filled++
	}
	fmt.Printf("done: %d plans updated\n", filled)
}
