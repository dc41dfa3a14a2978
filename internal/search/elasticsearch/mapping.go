package elasticsearch

// DefaultIndexName is the index used when none is configured.
const DefaultIndexName = "reviewlar_reviews"

// buildIndexMapping maps the searchable fields as wildcard so substring
// queries stay cheap. The full review rides along unindexed.
func buildIndexMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0
  },
  "mappings": {
    "properties": {
      "id":           { "type": "keyword" },
      "slug":         { "type": "keyword" },
      "title":        { "type": "wildcard" },
      "summary":      { "type": "wildcard" },
      "category":     { "type": "wildcard" },
      "published_at": { "type": "date" },
      "review":       { "type": "object", "enabled": false }
    }
  }
}`
}
