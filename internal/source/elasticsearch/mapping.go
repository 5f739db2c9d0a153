package elasticsearch

// DefaultIndexName is the index product documents live in.
const DefaultIndexName = "alternativas_products"

// indexMapping configures Brazilian Portuguese analysis with accent
// folding so the index agrees with the catalog's own text matching.
const indexMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "pt_br_folded": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "asciifolding", "brazilian_stop", "brazilian_stemmer"]
        }
      },
      "filter": {
        "brazilian_stop": { "type": "stop", "stopwords": "_brazilian_" },
        "brazilian_stemmer": { "type": "stemmer", "language": "brazilian" }
      }
    }
  },
  "mappings": {
    "properties": {
      "id":                { "type": "keyword" },
      "name":              { "type": "text", "analyzer": "pt_br_folded", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } } },
      "slug":              { "type": "keyword" },
      "description":       { "type": "text", "analyzer": "pt_br_folded" },
      "short_description": { "type": "text", "analyzer": "pt_br_folded" },
      "category": {
        "properties": {
          "id":   { "type": "keyword" },
          "name": { "type": "text", "analyzer": "pt_br_folded", "fields": { "keyword": { "type": "keyword" } } },
          "slug": { "type": "keyword" }
        }
      },
      "location":     { "type": "object", "enabled": false },
      "pricing":      { "type": "object", "enabled": false },
      "tags":         { "type": "keyword" },
      "features":     { "type": "text", "analyzer": "pt_br_folded" },
      "rating":       { "type": "float" },
      "review_count": { "type": "integer" },
      "views":        { "type": "integer" },
      "user_count":   { "type": "long" },
      "founded_year": { "type": "integer" },
      "is_featured":  { "type": "boolean" },
      "is_unicorn":   { "type": "boolean" },
      "website":      { "type": "keyword", "index": false },
      "logo_url":     { "type": "keyword", "index": false },
      "created_at":   { "type": "date" },
      "updated_at":   { "type": "date" }
    }
  }
}`
