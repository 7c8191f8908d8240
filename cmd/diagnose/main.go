// Probes both museum open-data APIs and validates the response envelopes
// against JSON Schemas. Run it when a listing suddenly comes back empty
// to tell a gateway bug from an upstream shape change.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"

	"musegate/internal/museum"
)

const listSchema = `{
	"type": "object",
	"required": ["data"],
	"properties": {
		"data": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "title"],
				"properties": {
					"id": {"type": "integer"},
					"title": {"type": ["string", "null"]}
				}
			}
		}
	}
}`

const detailSchema = `{
	"type": "object",
	"required": ["data"],
	"properties": {
		"data": {
			"type": "object",
			"required": ["id"],
			"properties": {
				"id": {"type": "integer"}
			}
		}
	}
}`

type probe struct {
	name   string
	url    string
	schema string
}

func main() {
	clevelandBase := flag.String("cleveland", "https://openaccess-api.clevelandart.org", "Cleveland API base URL")
	chicagoBase := flag.String("chicago", "https://api.artic.edu", "Chicago API base URL")
	pages := flag.Int("pages", 3, "listing pages to walk per source")
	flag.Parse()

	log := logrus.StandardLogger()
	client := museum.NewClient(museum.ClientConfig{Timeout: 15 * time.Second, RateLimitRPS: 2, Burst: 2}, log)

	var probes []probe
	for p := 1; p <= *pages; p++ {
		probes = append(probes,
			probe{
				name:   fmt.Sprintf("cleveland list p%d", p),
				url:    fmt.Sprintf("%s/api/artworks?limit=10&skip=%d&has_image=1", *clevelandBase, (p-1)*10),
				schema: listSchema,
			},
			probe{
				name:   fmt.Sprintf("chicago list p%d", p),
				url:    fmt.Sprintf("%s/api/v1/artworks/search?page=%d&limit=10&fields=id,title,image_id", *chicagoBase, p),
				schema: listSchema,
			},
		)
	}

	probes = append(probes,
		probe{
			name:   "cleveland detail",
			url:    *clevelandBase + "/api/artworks/94979",
			schema: detailSchema,
		},
		probe{
			name:   "chicago detail",
			url:    *chicagoBase + "/api/v1/artworks/27992?fields=id,title,image_id",
			schema: detailSchema,
		},
	)

	bar := progressbar.Default(int64(len(probes)), "probing")
	ctx := context.Background()
	failures := 0

	for _, pr := range probes {
		if err := check(ctx, client, pr); err != nil {
			log.WithError(err).Errorf("%s FAILED", pr.name)
			failures++
		}
		_ = bar.Add(1)
	}

	if failures > 0 {
		log.Errorf("%d/%d probes failed", failures, len(probes))
		os.Exit(1)
	}
	log.Infof("all %d probes passed", len(probes))
}

func check(ctx context.Context, client *museum.Client, pr probe) error {
	data, code, err := client.GetJSON(ctx, pr.url)
	if err != nil {
		return err
	}
	if code < 200 || code > 299 {
		return fmt.Errorf("status %d", code)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(pr.schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if !result.Valid() {
		for _, desc := range result.Errors() {
			logrus.Warnf("%s: %s", pr.name, desc)
		}
		return fmt.Errorf("schema violations: %d", len(result.Errors()))
	}
	return nil
}
