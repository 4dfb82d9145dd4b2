package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yungbote/lnd-backend/internal/app"
	"github.com/yungbote/lnd-backend/internal/jobs"
)

func main() {
	var job string
	var year int
	flag.StringVar(&job, "job", "", "job to run: "+jobs.TypeSessionReminders+" | "+jobs.TypeYearlyBadges)
	flag.IntVar(&year, "year", 0, "award year for "+jobs.TypeYearlyBadges+" (default: previous year)")
	flag.Parse()
	if job == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	ctx := context.Background()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	// An explicit year bypasses the scheduler so past years can be re-run.
	if job == jobs.TypeYearlyBadges && year != 0 {
		res, err := a.Services.Badge.AwardYearly(ctx, year)
		if err != nil {
			fmt.Printf("award %d: %v\n", year, err)
			os.Exit(1)
		}
		printJSON(res)
		return
	}

	run, err := a.Scheduler.RunNow(ctx, job)
	if run != nil {
		printJSON(run)
	}
	if err != nil {
		fmt.Printf("run %s: %v\n", job, err)
		os.Exit(1)
	}
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
