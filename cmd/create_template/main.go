package main

import (
	"flag"
	"fmt"
	"log"

	"kmleditor/kml"
	"kmleditor/spreadsheet"
)

func main() {
	kmlPath := flag.String("kml", "MyArea.kml", "Path to the KML file with polygons")
	output := flag.String("output", "polygon_data_template.xlsx", "Output template path")
	rowsPerPolygon := flag.Int("rows", 1, "Number of pre-filled rows per polygon")
	flag.Parse()

	doc, err := kml.Load(*kmlPath)
	if err != nil {
		log.Fatalf("failed to load KML file: %v", err)
	}

	names := doc.PolygonNames()
	if len(names) == 0 {
		log.Fatalf("no polygons found in %s", *kmlPath)
	}

	if err := spreadsheet.WriteTemplate(*output, names, *rowsPerPolygon); err != nil {
		log.Fatalf("failed to write template: %v", err)
	}

	fmt.Printf("Template created: %s (%d polygons)\n", *output, len(names))
}
