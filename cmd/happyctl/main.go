// happyctl composes and submits orphanage listings from the terminal and
// inspects published ones. It drives the same draft workflow the web form
// uses: pick a location, select images, fill the fields, submit.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/happymap/happymap/backend/go-services/internal/draft"
	"github.com/happymap/happymap/backend/go-services/internal/happyapi"
	"github.com/happymap/happymap/backend/go-services/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	apiURL := os.Getenv("HAPPY_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:3333"
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	api := happyapi.NewClient(apiURL)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(ctx, api)
	case "get":
		if len(os.Args) < 3 {
			usage()
			os.Exit(2)
		}
		err = runGet(ctx, api, os.Args[2])
	case "create":
		err = runCreate(ctx, api, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  happyctl list
  happyctl get <id>
  happyctl create -name NAME -lat LAT -lng LNG [-about TEXT] [-instructions TEXT]
                  [-hours TEXT] [-weekends] [-image FILE]...

environment:
  HAPPY_API_URL  listing API base URL (default http://localhost:3333)`)
}

func runList(ctx context.Context, api *happyapi.Client) error {
	views, err := api.ListOrphanages(ctx)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		fmt.Println("no orphanages published yet")
		return nil
	}
	for _, v := range views {
		fmt.Printf("%s  %-24s (%.5f, %.5f)  %d image(s)\n", v.ID, v.Name, v.Latitude, v.Longitude, len(v.Images))
	}
	return nil
}

func runGet(ctx context.Context, api *happyapi.Client, id string) error {
	o, err := api.GetOrphanage(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", o.Name)
	fmt.Printf("  location:      %.5f, %.5f\n", o.Latitude, o.Longitude)
	fmt.Printf("  about:         %s\n", o.About)
	fmt.Printf("  instructions:  %s\n", o.Instructions)
	fmt.Printf("  opening hours: %s\n", o.OpeningHours)
	fmt.Printf("  weekends:      %v\n", o.OpenOnWeekends)
	for i, img := range o.Images {
		fmt.Printf("  image %d:       %s\n", i+1, img.URL)
	}
	return nil
}

// imageList collects repeated -image flags in order.
type imageList []string

func (l *imageList) String() string     { return strings.Join(*l, ",") }
func (l *imageList) Set(v string) error { *l = append(*l, v); return nil }

func runCreate(ctx context.Context, api *happyapi.Client, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "orphanage name (required)")
	lat := fs.Float64("lat", 0, "latitude (required)")
	lng := fs.Float64("lng", 0, "longitude (required)")
	about := fs.String("about", "", "about text (max 300 characters)")
	instructions := fs.String("instructions", "", "visit instructions")
	hours := fs.String("hours", "", "opening hours")
	weekends := fs.Bool("weekends", false, "open on weekends")
	var images imageList
	fs.Var(&images, "image", "image file to attach (repeatable, order kept)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d := draft.New("")
	defer d.Close()

	for field, value := range map[string]string{
		"name":          *name,
		"about":         *about,
		"instructions":  *instructions,
		"opening_hours": *hours,
	} {
		if err := d.Set(field, value); err != nil {
			return err
		}
	}
	if *weekends {
		if err := d.Set("open_on_weekends", "true"); err != nil {
			return err
		}
	}

	// the flag pair plays the role of the map click
	latSet, lngSet := false, false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			latSet = true
		case "lng":
			lngSet = true
		}
	})
	if latSet && lngSet {
		d.Location.Pick(*lat, *lng)
	}

	var files []*draft.ImageFile
	for _, path := range images {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read image %s: %w", path, err)
		}
		files = append(files, &draft.ImageFile{Name: filepath.Base(path), Data: data})
	}
	if err := d.Images.SelectImages(files); err != nil {
		return err
	}

	created, err := d.Submit(ctx, api)
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s) with %d image(s)\n", created.Name, created.ID, len(created.Images))
	return nil
}
