package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"kmleditor/database"
	"kmleditor/kml"
	"kmleditor/server/services"
	"kmleditor/spreadsheet"
)

func main() {
	kmlPath := flag.String("kml", "MyArea.kml", "Path to the KML file to update")
	xlsxPath := flag.String("xlsx", "", "Path to the spreadsheet with survey data (required)")
	sheet := flag.String("sheet", "", "Sheet name or zero-based index (first sheet by default)")
	nameColumn := flag.String("name-column", "Polygon_Name", "Column with polygon names")
	imageColumns := flag.String("image-columns", "Image_URL_1,Image_URL_2,Image_URL_3", "Comma-separated columns with image URLs")
	textColumns := flag.String("text-columns", "Description_1,Description_2,Notes", "Comma-separated columns with description text")
	merge := flag.Bool("merge", true, "Merge with existing descriptions instead of replacing them")
	borderColor := flag.String("border-color", "", "HTML border color to apply to all polygons, e.g. #2196F3")
	output := flag.String("output", "", "Output KML path (overwrites the input file by default)")
	dryRun := flag.Bool("dry-run", false, "Build the update plan without writing the KML file")
	historyPath := flag.String("history", "", "Path to the history database (disabled by default)")
	flag.Parse()

	if *xlsxPath == "" {
		log.Fatal("flag -xlsx is required")
	}

	godotenv.Load()

	doc, err := kml.Load(*kmlPath)
	if err != nil {
		log.Fatalf("failed to load KML file: %v", err)
	}

	var history *database.HistoryDB
	if *historyPath != "" {
		history, err = database.OpenHistoryDB(*historyPath)
		if err != nil {
			log.Fatalf("failed to open history database: %v", err)
		}
		defer history.Close()
	}

	svc := services.NewEditorService(doc, history)
	req := services.UpdateRequest{
		SpreadsheetPath: *xlsxPath,
		Sheet:           *sheet,
		Mapping: spreadsheet.ColumnMapping{
			PolygonColumn:      *nameColumn,
			ImageColumns:       splitColumns(*imageColumns),
			DescriptionColumns: splitColumns(*textColumns),
		},
		MergeWithExisting: *merge,
		BorderColor:       *borderColor,
		OutputPath:        *output,
	}

	started := time.Now()
	var report *services.UpdateReport
	if *dryRun {
		report, err = svc.Preview(req)
	} else {
		report, err = svc.ApplyFromSpreadsheet(req)
	}
	if err != nil {
		log.Fatalf("failed to update polygons: %v", err)
	}

	fmt.Println("\n--- Polygon Update ---")
	fmt.Printf("KML File: %s\n", *kmlPath)
	fmt.Printf("Spreadsheet: %s\n", *xlsxPath)
	fmt.Printf("Dry Run: %t\n", *dryRun)
	fmt.Printf("Updated Polygons: %d\n", report.Summary.Matched)
	fmt.Printf(" - Images added: %d\n", report.Summary.TotalImages)
	fmt.Printf(" - Text blocks added: %d\n", report.Summary.TotalTexts)
	if len(report.Summary.NearMatches) > 0 {
		fmt.Printf("Near Matches: %s\n", strings.Join(report.Summary.NearMatches, ", "))
	}
	if len(report.Summary.Unmatched) > 0 {
		fmt.Printf("Unmatched Names: %s\n", strings.Join(report.Summary.Unmatched, ", "))
	}
	for _, group := range report.Summary.Ambiguous {
		fmt.Printf("Ambiguous: %q matches %s\n", group.SourceName, strings.Join(group.Candidates, ", "))
	}
	if len(report.Summary.Skipped) > 0 {
		fmt.Printf("Skipped (empty rows): %d\n", len(report.Summary.Skipped))
	}
	for _, warning := range report.Summary.DuplicateKeys {
		fmt.Printf("Warning: %s\n", warning)
	}
	if report.OperationID != "" {
		fmt.Printf("Operation ID: %s\n", report.OperationID)
	}
	fmt.Printf("Duration: %s\n", time.Since(started).Round(time.Millisecond))
}

func splitColumns(raw string) []string {
	var cols []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cols = append(cols, trimmed)
		}
	}
	return cols
}
