package qdrantstore

import (
	"strings"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/nexus-evo/algorec/pkg/corpus"
)

// Payload field names for algorithm records. Kept flat; the store owns
// the whole payload, so no user-field prefixing is needed.
const (
	fieldName        = "name"
	fieldCollection  = "collection"
	fieldLanguage    = "language"
	fieldDescription = "description"
	fieldCategories  = "categories"
	fieldUpdatedAt   = "updated_at"
)

// recordPayload converts a record's metadata into a Qdrant payload map.
func recordPayload(r corpus.AlgorithmRecord) map[string]any {
	categories := make([]any, len(r.Categories))
	for i, c := range r.Categories {
		categories[i] = c
	}

	return map[string]any{
		fieldName:        r.Name,
		fieldCollection:  r.Collection,
		fieldLanguage:    r.Language,
		fieldDescription: r.Description,
		fieldCategories:  categories,
		fieldUpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// payloadRecord rebuilds a record from a point id, payload, and vector.
// Missing or malformed payload fields degrade to zero values rather than
// failing the whole read.
func payloadRecord(id string, payload map[string]*qdrant.Value, vector []float32) corpus.AlgorithmRecord {
	record := corpus.AlgorithmRecord{ID: id, Vector: vector}

	if v, ok := payload[fieldName]; ok {
		record.Name = v.GetStringValue()
	}
	if v, ok := payload[fieldCollection]; ok {
		record.Collection = v.GetStringValue()
	}
	if v, ok := payload[fieldLanguage]; ok {
		record.Language = v.GetStringValue()
	}
	if v, ok := payload[fieldDescription]; ok {
		record.Description = v.GetStringValue()
	}
	if v, ok := payload[fieldCategories]; ok {
		if list := v.GetListValue(); list != nil {
			for _, item := range list.Values {
				if s := item.GetStringValue(); s != "" {
					record.Categories = append(record.Categories, s)
				}
			}
		}
	}
	if v, ok := payload[fieldUpdatedAt]; ok {
		if ts, err := time.Parse(time.RFC3339Nano, v.GetStringValue()); err == nil {
			record.UpdatedAt = ts
		}
	}

	return record
}

// buildFilter converts a corpus filter into a Qdrant must-filter.
// Category matches against the categories list field; language is a
// keyword match. Qdrant keyword matching is case sensitive and
// ingestion stores both fields lowercased, so hint values are
// lowercased here to keep filtering case insensitive like the
// in-memory store. Returns nil for an unrestricted filter.
func buildFilter(f *corpus.Filter) *qdrant.Filter {
	if f == nil || f.IsZero() {
		return nil
	}

	var must []*qdrant.Condition
	if f.Category != "" {
		must = append(must, qdrant.NewMatch(fieldCategories, strings.ToLower(f.Category)))
	}
	if f.Language != "" {
		must = append(must, qdrant.NewMatch(fieldLanguage, strings.ToLower(f.Language)))
	}

	return &qdrant.Filter{Must: must}
}

// pointVector extracts the dense vector from a retrieved point's
// vectors output, guarding against nil oneof wrappers.
func pointVector(out *qdrant.VectorsOutput) []float32 {
	if out == nil {
		return nil
	}
	if v := out.GetVector(); v != nil {
		return v.GetData()
	}
	return nil
}

// pointID extracts the string form of a point id.
func pointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	return id.GetUuid()
}
