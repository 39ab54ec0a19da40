package main

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	flag "github.com/spf13/pflag"

	"github.com/hoyle1974/timeslider"
	"github.com/hoyle1974/timeslider/catalog"
	"github.com/hoyle1974/timeslider/storage"
	"github.com/hoyle1974/timeslider/telemetry"
)

const sampleDocument = `{
	"title": "Sample",
	"layers": [
		{
			"id": "rainfall",
			"title": "Rainfall",
			"timeInfo": {
				"timeExtent": [1577836800000, 1578700800000],
				"interval": 1,
				"intervalUnit": "days"
			}
		},
		{
			"id": "stations",
			"title": "Stations",
			"timeInfo": {
				"timeExtent": [1578096000000, 1578355200000]
			}
		}
	]
}`

func main() {
	source := flag.StringP("source", "s", "memory", "Where the document lives: memory, disk, s3 or package")
	uri := flag.StringP("uri", "u", ".", "The uri to the source: a directory for disk, a database file for package")
	bucket := flag.StringP("bucket", "b", "", "The bucket to use when the source is s3")
	doc := flag.StringP("doc", "d", "docs/sample", "The storage key of the document")
	startStep := flag.Int("start-step", -1, "Move the selection start to this step")
	endStep := flag.Int("end-step", -1, "Move the selection end to this step")

	flag.Parse()

	ctx := context.Background()
	logger := telemetry.NewStdLogger("timeslider: ")

	document, err := openDocument(ctx, *source, *uri, *bucket, *doc, logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := document.Load(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	sources := timeslider.NewSources()
	fmt.Printf("Document: %s\n", document.Title())
	for _, l := range document.Layers() {
		sources.Add(l)
		fmt.Printf("  layer %s (%s): %s extent=%s\n", l.ID(), l.Title(), l.LoadStatus(), l.FullTimeExtent())
	}

	metrics := telemetry.NewMemMetrics()
	controller := timeslider.NewControllerWithConfig(
		timeslider.NewBasicView(),
		sources,
		timeslider.Config{Logger: logger, Metrics: metrics},
	)

	if *startStep >= 0 {
		controller.SetStartStep(*startStep)
	}
	if *endStep >= 0 {
		controller.SetEndStep(*endStep)
	}

	fmt.Printf("Full extent: %s\n", controller.FullTimeExtent())
	fmt.Printf("Steps: %d every %s\n", controller.NumberOfSteps(), controller.StepInterval())
	fmt.Printf("Selection: steps %d..%d covering %s\n",
		controller.StartStep(), controller.EndStep(), controller.CurrentTimeExtent())
	for i, ts := range controller.StepTimes() {
		fmt.Printf("  step %3d  %s\n", i, ts.Format("2006-01-02 15:04:05"))
	}
}

func openDocument(ctx context.Context, source, uri, bucket, doc string, logger telemetry.Logger) (*catalog.Document, error) {
	config := catalog.Config{LoadConcurrency: -1, Logger: logger}

	var store storage.System
	switch source {
	case "package":
		return catalog.OpenPackageWithConfig(uri, config)
	case "memory":
		store = storage.NewMemoryStorage()
		if err := store.Write(ctx, doc, []byte(sampleDocument)); err != nil {
			return nil, err
		}
	case "disk":
		store = storage.NewDiskStorage(uri)
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		store = storage.NewS3Storage(s3.NewFromConfig(awsCfg), bucket)
	default:
		return nil, fmt.Errorf("unsupported source: %s", source)
	}

	return catalog.OpenWithConfig(ctx, store, doc, config)
}
