package qdrantstore

import (
	"context"
	"fmt"
	"iter"
	"slices"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/nexus-evo/algorec/pkg/corpus"
	"github.com/nexus-evo/algorec/pkg/logger"
)

// scrollPageSize is the page size used by ScanAll.
const scrollPageSize = 256

// Store is a corpus.Store backed by a Qdrant collection.
//
// Point ids are the record ids (UUIDv5 strings), so upserts are
// naturally last-writer-wins per record and Qdrant guarantees atomic
// point replacement. The collection is created on startup with cosine
// distance and the configured vector size.
type Store struct {
	api *qdrant.Client
	cfg *Config
	log *logger.Logger
}

// NewStore connects to Qdrant, verifies the service is reachable, and
// ensures the corpus collection exists.
func NewStore(cfg *Config, log *logger.Logger) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   cfg.Port,
		APIKey:                 cfg.APIKey,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrantstore: failed to initialize client: %w", err)
	}

	s := &Store{api: client, cfg: cfg, log: log}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if _, err := client.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("qdrantstore: health check failed: %w", err)
	}
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}

	log.Info("qdrant store ready", nil, map[string]interface{}{
		"endpoint":    cfg.Endpoint,
		"collection":  cfg.Collection,
		"vector_size": cfg.VectorSize,
	})
	return s, nil
}

// ensureCollection creates the corpus collection if it does not exist.
// Safe to call repeatedly.
func (s *Store) ensureCollection(ctx context.Context) error {
	collections, err := s.api.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("qdrantstore: failed to list collections: %w", err)
	}
	if slices.Contains(collections, s.cfg.Collection) {
		return nil
	}

	err = s.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.cfg.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrantstore: failed to create collection %q: %w", s.cfg.Collection, err)
	}
	return nil
}

// Upsert inserts or replaces the record as a single waited point write.
func (s *Store) Upsert(ctx context.Context, record corpus.AlgorithmRecord) error {
	if record.ID == "" {
		return fmt.Errorf("%w: empty record id", corpus.ErrValidation)
	}
	if uint64(len(record.Vector)) != s.cfg.VectorSize {
		return fmt.Errorf("%w: vector dimension %d, store dimension %d",
			corpus.ErrValidation, len(record.Vector), s.cfg.VectorSize)
	}

	wait := true
	_, err := s.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.cfg.Collection,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewID(record.ID),
			Vectors: qdrant.NewVectors(record.Vector...),
			Payload: qdrant.NewValueMap(recordPayload(record)),
		}},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrantstore: upsert %q: %w", record.ID, err)
	}
	return nil
}

// Delete removes the point by id. Absent ids are a no-op on the Qdrant side.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	wait := true
	_, err := s.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.cfg.Collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: []*qdrant.PointId{qdrant.NewID(id)}},
			},
		},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrantstore: delete %q: %w", id, err)
	}
	return nil
}

// Get fetches a single point with payload and vector.
func (s *Store) Get(ctx context.Context, id string) (corpus.AlgorithmRecord, error) {
	points, err := s.api.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.cfg.Collection,
		Ids:            []*qdrant.PointId{qdrant.NewID(id)},
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return corpus.AlgorithmRecord{}, fmt.Errorf("qdrantstore: get %q: %w", id, err)
	}
	if len(points) == 0 {
		return corpus.AlgorithmRecord{}, fmt.Errorf("%w: %s", corpus.ErrNotFound, id)
	}

	p := points[0]
	return payloadRecord(pointID(p.Id), p.Payload, pointVector(p.Vectors)), nil
}

// NearestNeighbors queries Qdrant for the top k similar points and
// re-sorts client-side so tie-breaking matches the store contract
// (similarity desc, UpdatedAt desc, id asc).
func (s *Store) NearestNeighbors(ctx context.Context, vector []float32, k int, filter *corpus.Filter) ([]corpus.Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", corpus.ErrValidation, k)
	}
	if uint64(len(vector)) != s.cfg.VectorSize {
		return nil, fmt.Errorf("%w: query dimension %d, store dimension %d",
			corpus.ErrValidation, len(vector), s.cfg.VectorSize)
	}

	limit := uint64(k)
	points, err := s.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.cfg.Collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		Filter:         buildFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrantstore: query: %w", err)
	}

	neighbors := make([]corpus.Neighbor, 0, len(points))
	for _, p := range points {
		neighbors = append(neighbors, corpus.Neighbor{
			Record:     payloadRecord(pointID(p.Id), p.Payload, pointVector(p.Vectors)),
			Similarity: p.Score,
		})
	}

	corpus.SortNeighbors(neighbors)
	return neighbors, nil
}

// ScanAll pages through the collection with Scroll. Qdrant orders scroll
// pages by point id; the offset point is inclusive, so each page after
// the first skips the already-yielded leading point.
func (s *Store) ScanAll(ctx context.Context) iter.Seq2[corpus.AlgorithmRecord, error] {
	return func(yield func(corpus.AlgorithmRecord, error) bool) {
		limit := uint32(scrollPageSize)
		var offset *qdrant.PointId
		var lastID string

		for {
			points, err := s.api.Scroll(ctx, &qdrant.ScrollPoints{
				CollectionName: s.cfg.Collection,
				Limit:          &limit,
				Offset:         offset,
				WithPayload:    qdrant.NewWithPayload(true),
				WithVectors:    qdrant.NewWithVectors(true),
			})
			if err != nil {
				yield(corpus.AlgorithmRecord{}, fmt.Errorf("qdrantstore: scroll: %w", err))
				return
			}

			yielded := 0
			for _, p := range points {
				id := pointID(p.Id)
				if offset != nil && id == lastID {
					continue
				}
				if !yield(payloadRecord(id, p.Payload, pointVector(p.Vectors)), nil) {
					return
				}
				lastID = id
				yielded++
			}

			if yielded == 0 || len(points) < scrollPageSize {
				return
			}
			offset = qdrant.NewID(lastID)
		}
	}
}

// Count returns the exact number of points in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	exact := true
	n, err := s.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.cfg.Collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("qdrantstore: count: %w", err)
	}
	return int(n), nil
}

// Close shuts down the underlying gRPC connection.
func (s *Store) Close() error {
	return s.api.Close()
}
