package elasticsearch

// DefaultIndexName is the default Elasticsearch index used for course documents.
const DefaultIndexName = "courses"

// buildIndexMapping returns the full JSON mapping for the courses index.
// Text fields share a custom analyzer (standard tokenizer with lowercasing and
// ASCII folding) so accented instructor names and mixed-case titles match
// plain-ASCII queries. Filterable keyword fields carry a lowercase normalizer
// because search parameters are lowercased before they reach the engine.
func buildIndexMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "course_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "asciifolding"]
        }
      },
      "normalizer": {
        "lowercase_normalizer": {
          "type": "custom",
          "filter": ["lowercase", "asciifolding"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id":          { "type": "keyword" },
      "course_code": { "type": "keyword" },
      "title":       { "type": "text", "analyzer": "course_analyzer", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } } },
      "description": { "type": "text", "analyzer": "course_analyzer" },
      "category":    { "type": "keyword", "normalizer": "lowercase_normalizer" },
      "instructor":  { "type": "text", "analyzer": "course_analyzer", "fields": { "keyword": { "type": "keyword", "normalizer": "lowercase_normalizer" } } },
      "duration":    { "type": "keyword" },
      "skill_level": { "type": "keyword", "normalizer": "lowercase_normalizer" },
      "tags":        { "type": "keyword", "normalizer": "lowercase_normalizer" },
      "active":      { "type": "boolean" },
      "created_at":  { "type": "date" },
      "updated_at":  { "type": "date" }
    }
  }
}`
}
