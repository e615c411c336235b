// Package discoveryengine provides a Vertex AI Search implementation of driven.SearchIndex.
//
// The data store is expected to ingest the rendered objects from the bucket
// itself; this adapter only queries the engine's serving config. Structured
// document data carries the stored metadata tags and derived data carries
// the snippets.
package discoveryengine

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/api/discoveryengine/v1"
	"google.golang.org/api/option"

	"github.com/custodia-labs/prdstore/internal/adapters/driven/google"
	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/ports/driven"
	"github.com/custodia-labs/prdstore/internal/logger"
)

// Scope is the OAuth2 scope the index needs.
const Scope = discoveryengine.CloudPlatformScope

// Defaults for the serving config path.
const (
	DefaultLocation      = "global"
	DefaultServingConfig = "default_search"
)

// Verify interface compliance.
var _ driven.SearchIndex = (*Index)(nil)

// Config identifies the engine serving config.
type Config struct {
	ProjectID     string
	Location      string
	EngineID      string
	ServingConfig string
}

// ServingConfigName returns the full resource name of the serving config.
func (c Config) ServingConfigName() string {
	location := c.Location
	if location == "" {
		location = DefaultLocation
	}
	serving := c.ServingConfig
	if serving == "" {
		serving = DefaultServingConfig
	}
	return fmt.Sprintf("projects/%s/locations/%s/collections/default_collection/engines/%s/servingConfigs/%s",
		c.ProjectID, location, c.EngineID, serving)
}

// Index queries a Vertex AI Search engine.
type Index struct {
	svc     *discoveryengine.Service
	serving string
}

// NewIndex creates an index client. opts are passed to discoveryengine.NewService.
func NewIndex(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Index, error) {
	if cfg.ProjectID == "" {
		return nil, domain.NewValidationError("google.project_id")
	}
	if cfg.EngineID == "" {
		return nil, domain.NewValidationError("search.engine_id")
	}
	svc, err := discoveryengine.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create discoveryengine service: %w", err)
	}
	return &Index{svc: svc, serving: cfg.ServingConfigName()}, nil
}

// Search runs one page of results with snippets enabled.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]driven.IndexHit, error) {
	req := &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequest{
		Query:    query,
		PageSize: int64(limit),
		ContentSearchSpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpec{
			SnippetSpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpecSnippetSpec{
				ReturnSnippet: true,
			},
			SummarySpec: &discoveryengine.GoogleCloudDiscoveryengineV1SearchRequestContentSearchSpecSummarySpec{
				SummaryResultCount: int64(limit),
			},
		},
	}

	resp, err := i.svc.Projects.Locations.Collections.Engines.ServingConfigs.Search(i.serving, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, google.WrapError(err))
	}

	hits := make([]driven.IndexHit, 0, len(resp.Results))
	for _, result := range resp.Results {
		if result.Document == nil {
			continue
		}
		doc := result.Document

		name := doc.Name
		if name == "" {
			name = doc.Id
		}
		if name == "" {
			name = result.Id
		}

		fields, err := structFields(doc.StructData)
		if err != nil {
			logger.Warn("discovery engine: struct data of %s not decodable: %v", name, err)
			fields = map[string]string{}
		}

		hits = append(hits, driven.IndexHit{
			DocumentName: name,
			Fields:       fields,
			Snippet:      firstSnippet(doc.DerivedStructData),
		})
	}
	return hits, nil
}

// structFields flattens structured data into strings. Non-string values keep their JSON text.
func structFields(raw []byte) (map[string]string, error) {
	fields := map[string]string{}
	if len(raw) == 0 {
		return fields, nil
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	for k, v := range data {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			fields[k] = s
			continue
		}
		fields[k] = string(v)
	}
	return fields, nil
}

type derivedData struct {
	Snippets []struct {
		Snippet string `json:"snippet"`
	} `json:"snippets"`
}

func firstSnippet(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var d derivedData
	if err := json.Unmarshal(raw, &d); err != nil || len(d.Snippets) == 0 {
		return ""
	}
	return d.Snippets[0].Snippet
}
