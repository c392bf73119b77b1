package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"dealer-assistant/internal/common/logger"
	"dealer-assistant/internal/models"
)

const sourceElasticsearch = "elasticsearch"

// ElasticsearchLoader pulls up to size documents from each index with a
// match_all search. _source key order is preserved.
type ElasticsearchLoader struct {
	client         *elasticsearch.Client
	leadsIndex     string
	inquiriesIndex string
	size           int
	logger         logger.Logger
}

func NewElasticsearchLoader(client *elasticsearch.Client, leadsIndex, inquiriesIndex string, size int, log logger.Logger) *ElasticsearchLoader {
	return &ElasticsearchLoader{
		client:         client,
		leadsIndex:     leadsIndex,
		inquiriesIndex: inquiriesIndex,
		size:           size,
		logger:         log.With(map[string]interface{}{"loader": sourceElasticsearch}),
	}
}

func (l *ElasticsearchLoader) Load(ctx context.Context) Datasets {
	return Datasets{
		Leads:     l.loadOne(ctx, KindLeads, l.leadsIndex),
		Inquiries: l.loadOne(ctx, KindInquiries, l.inquiriesIndex),
	}
}

func (l *ElasticsearchLoader) loadOne(ctx context.Context, kind, index string) []models.Record {
	records, err := l.search(ctx, index)
	if err != nil {
		logLoadFailure(l.logger, sourceElasticsearch, kind, err)
		return nil
	}
	logLoaded(l.logger, sourceElasticsearch, kind, len(records))
	return records
}

func (l *ElasticsearchLoader) search(ctx context.Context, index string) ([]models.Record, error) {
	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
		"size": l.size,
	}

	body, _ := json.Marshal(queryBody)
	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, l.client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	records := make([]models.Record, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		if len(hit.Source) == 0 {
			continue
		}
		rec, err := DecodeJSONObject(hit.Source)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
