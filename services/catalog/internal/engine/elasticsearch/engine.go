package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/ysam020/assessment/services/catalog/internal/domain"
)

// Engine is an Elasticsearch-backed implementation of the SearchEngine interface.
type Engine struct {
	client    *elasticsearch.Client
	indexName string
	logger    *slog.Logger
}

// esSearchResponse is the structure used to decode Elasticsearch search responses.
type esSearchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Score  float64       `json:"_score"`
			Source domain.Course `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// esBulkResponse is the structure used to decode Elasticsearch bulk responses.
type esBulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

// esErrorResponse is used to decode Elasticsearch error responses.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// New creates a new Elasticsearch engine connected to the given URL.
// It ensures the courses index exists, creating it if necessary.
// If indexName is empty, DefaultIndexName ("courses") is used.
func New(esURL string, indexName string, logger *slog.Logger) (*Engine, error) {
	if indexName == "" {
		indexName = DefaultIndexName
	}

	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	e := &Engine{
		client:    client,
		indexName: indexName,
		logger:    logger,
	}

	if err := e.ensureIndex(); err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to ensure index: %w", err)
	}

	return e, nil
}

// Ping checks whether the Elasticsearch cluster is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// ensureIndex checks whether the courses index exists and creates it if not.
func (e *Engine) ensureIndex() error {
	res, err := e.client.Indices.Exists([]string{e.indexName})
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	// Status 200 means the index exists.
	if res.StatusCode == 200 {
		e.logger.Info("elasticsearch index already exists", "index", e.indexName)
		return nil
	}

	// Create the index with the mapping.
	mapping := buildIndexMapping()
	res, err = e.client.Indices.Create(
		e.indexName,
		e.client.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("create index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("create index: unexpected status %s", res.Status())
	}

	e.logger.Info("elasticsearch index created", "index", e.indexName)
	return nil
}

// Index adds or updates a single course document, keyed by course code.
func (e *Engine) Index(ctx context.Context, course *domain.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("elasticsearch index: marshal course: %w", err)
	}

	res, err := e.client.Index(
		e.indexName,
		bytes.NewReader(data),
		e.client.Index.WithDocumentID(course.CourseCode),
		e.client.Index.WithRefresh("true"),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch index: unexpected status %s", res.Status())
	}

	e.logger.Debug("indexed course", "course_code", course.CourseCode, "title", course.Title)
	return nil
}

// Delete removes a course from the index by its course code.
// It does not return an error if the document does not exist (404 is ignored).
func (e *Engine) Delete(ctx context.Context, courseCode string) error {
	res, err := e.client.Delete(
		e.indexName,
		courseCode,
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	// A 404 means the document was never indexed, which is fine for delete.
	if res.IsError() && res.StatusCode != 404 {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch delete: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch delete: unexpected status %s", res.Status())
	}

	e.logger.Debug("deleted course from index", "course_code", courseCode)
	return nil
}

// Search executes a normalized search query and returns one page of results.
func (e *Engine) Search(ctx context.Context, query *domain.SearchQuery) (*domain.SearchPage, error) {
	esQuery := e.buildSearchQuery(query)

	data, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
		e.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return nil, fmt.Errorf("elasticsearch search: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch search: unexpected status %s", res.Status())
	}

	var esResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch search: decode response: %w", err)
	}

	courses := make([]domain.Course, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		course := hit.Source
		course.RelevanceScore = hit.Score
		courses = append(courses, course)
	}

	return &domain.SearchPage{
		Courses:    courses,
		TotalCount: esResp.Hits.Total.Value,
		TookMs:     int64(esResp.Took),
	}, nil
}

// buildSearchQuery constructs the Elasticsearch query DSL as a map.
func (e *Engine) buildSearchQuery(query *domain.SearchQuery) map[string]interface{} {
	// Build the must clause.
	var mustClause interface{}
	if query.Query != "" {
		mustClause = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query.Query,
				"fields":    []string{"title^3", "description^2", "instructor", "tags"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		}
	} else {
		mustClause = map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}

	// Build the filter clauses.
	filters := e.buildFilters(query)

	// Build the bool query.
	boolQuery := map[string]interface{}{
		"must": []interface{}{mustClause},
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
		"sort": []interface{}{
			map[string]interface{}{"_score": "desc"},
			map[string]interface{}{"title.keyword": "asc"},
		},
		"from":             query.Offset,
		"size":             query.Limit,
		"track_total_hits": true,
	}
}

// buildFilters constructs the conjunctive filter clauses for the search query.
func (e *Engine) buildFilters(query *domain.SearchQuery) []interface{} {
	var filters []interface{}

	if query.Category != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{
				"category": query.Category,
			},
		})
	}

	if query.SkillLevel != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{
				"skill_level": query.SkillLevel,
			},
		})
	}

	if query.Instructor != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{
				"instructor.keyword": query.Instructor,
			},
		})
	}

	return filters
}

// DeleteIndex removes the entire Elasticsearch index.
// It is intended for testing and administrative operations only.
// A 404 response is treated as success (index already absent).
func (e *Engine) DeleteIndex(ctx context.Context) error {
	res, err := e.client.Indices.Delete(
		[]string{e.indexName},
		e.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch delete index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch delete index: unexpected status %s", res.Status())
	}

	e.logger.Info("elasticsearch index deleted", "index", e.indexName)
	return nil
}

// BulkIndex adds or updates multiple courses using the bulk NDJSON API and
// returns the number of documents the index accepted. Per-document failures
// are logged and excluded from the count; only a failure of the bulk request
// itself is returned as an error.
func (e *Engine) BulkIndex(ctx context.Context, courses []domain.Course) (int, error) {
	if len(courses) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer

	for i := range courses {
		// Action line.
		action := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": e.indexName,
				"_id":    courses[i].CourseCode,
			},
		}
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return 0, fmt.Errorf("elasticsearch bulk index: encode action: %w", err)
		}

		// Document line.
		if err := json.NewEncoder(&buf).Encode(courses[i]); err != nil {
			return 0, fmt.Errorf("elasticsearch bulk index: encode document: %w", err)
		}
	}

	res, err := e.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		e.client.Bulk.WithIndex(e.indexName),
		e.client.Bulk.WithRefresh("true"),
		e.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("elasticsearch bulk index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return 0, fmt.Errorf("elasticsearch bulk index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return 0, fmt.Errorf("elasticsearch bulk index: unexpected status %s", res.Status())
	}

	// Count per-item successes from the bulk response.
	var bulkResp esBulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return 0, fmt.Errorf("elasticsearch bulk index: decode response: %w", err)
	}

	indexed := 0
	for _, item := range bulkResp.Items {
		if item.Index.Error.Type == "" {
			indexed++
			continue
		}
		e.logger.Warn("bulk index item failed",
			"course_code", item.Index.ID,
			"type", item.Index.Error.Type,
			"reason", item.Index.Error.Reason,
		)
	}

	e.logger.Info("bulk indexed courses", "requested", len(courses), "indexed", indexed)
	return indexed, nil
}
