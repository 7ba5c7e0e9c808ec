package main

import (
	"context"
	"fmt"
	"os"

	"synthetic-charts/internal/dataset"
	"synthetic-charts/internal/features/reports"
)

// go run etc/tools/preview_charts.go
// in etc/charts/*.png
func main() {
	fmt.Println("Generating preview charts...")

	results, err := reports.RunAll(context.Background(), nil, reports.Options{
		OutputDir: "etc/charts",
		Seed:      dataset.DefaultSeed,
	})
	if err != nil {
		fmt.Printf("Error generating charts: %v\n", err)
		os.Exit(1)
	}

	for _, res := range results {
		fmt.Printf("%-14s %s (%dx%d)\n", res.Variant, res.Path, res.Width, res.Height)
	}
	fmt.Println("Open the files to see the result!")
}
