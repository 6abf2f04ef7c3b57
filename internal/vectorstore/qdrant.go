package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"legalrag/internal/apperr"
	"legalrag/internal/contextutil"
)

// fullTextKey is the payload key under which the passage body is stored.
// The remaining payload fields are descriptive metadata.
const fullTextKey = "original_text"

// QdrantStore implements Store using a Qdrant collection.
// Qdrant returns cosine similarity directly, so no score conversion is needed.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantStore creates a new Qdrant vector store client.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) is derived from the HTTP port.
func NewQdrantStore(urlStr, collection string) (*QdrantStore, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	port := 6334 // Default gRPC port
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			// gRPC port is typically HTTP port + 1
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: collection,
	}, nil
}

// EnsureCollection ensures the collection exists with the specified vector size.
// If the collection exists, validates that the vector size matches.
func (s *QdrantStore) EnsureCollection(ctx context.Context, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return apperr.Upstream(err, "failed to check collection existence")
	}

	if !exists {
		logger.InfoContext(ctx, "creating collection", "collection", s.collection, "vector_size", vectorSize)
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return apperr.Upstream(err, "failed to create collection")
		}
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return apperr.Upstream(err, "failed to get collection info")
	}
	actualSize := collectionVectorSize(info)
	if actualSize == 0 {
		return fmt.Errorf("could not determine collection vector size")
	}
	if actualSize != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, actualSize)
	}

	logger.InfoContext(ctx, "collection validated", "collection", s.collection, "vector_size", vectorSize)
	return nil
}

// Upsert inserts or updates documents in the collection. The passage body is
// stored in the payload under the full-text key alongside the raw metadata
// fields the search path maps back onto the normalized schema.
func (s *QdrantStore) Upsert(ctx context.Context, docs []Document) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(docs) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(docs))
	for _, doc := range docs {
		payload := map[string]any{
			fullTextKey:    doc.Text,
			"LawID":        doc.Metadata.LawID,
			"LawTitle":     doc.Metadata.LawName,
			"LawType":      doc.Metadata.Category,
			"ArticleNum":   doc.Metadata.Article,
			"ArticleTitle": doc.Metadata.Title,
			"filename":     doc.Metadata.Filename,
			"updateDate":   doc.Metadata.UpdateDate,
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(doc.ID),
			Vectors: qdrant.NewVectors(doc.Vector...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert documents", "collection", s.collection, "count", len(docs), "error", err)
		return apperr.Upstream(err, "failed to upsert documents")
	}

	logger.InfoContext(ctx, "upserted documents", "collection", s.collection, "count", len(docs))
	return nil
}

// Search performs a top-k nearest-neighbor query with payload inclusion and
// normalizes the matches. Matches without the full-text payload field are
// silently excluded.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, topK int) ([]Passage, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if topK <= 0 {
		return nil, fmt.Errorf("topK must be greater than 0")
	}

	limit := uint64(topK)
	scoredPoints, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to search collection", "collection", s.collection, "top_k", topK, "error", err)
		return nil, apperr.Upstream(err, "failed to search documents")
	}

	passages := make([]Passage, 0, len(scoredPoints))
	for _, point := range scoredPoints {
		meta := make(map[string]any)
		if point.Payload != nil {
			meta = convertPayloadToMap(point.Payload)
		}
		passage, ok := passageFromPayload(float64(point.Score), meta)
		if !ok {
			continue
		}
		passages = append(passages, passage)
	}

	logger.InfoContext(ctx, "search completed", "collection", s.collection, "top_k", topK, "results", len(passages))
	return passages, nil
}

// Stats returns collection introspection data for health and debug endpoints.
func (s *QdrantStore) Stats(ctx context.Context) (IndexStats, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return IndexStats{}, apperr.Upstream(err, "failed to get collection info")
	}

	var pointsCount int
	if info.PointsCount != nil {
		pointsCount = int(*info.PointsCount)
	}

	return IndexStats{
		Backend:       "qdrant",
		IndexName:     s.collection,
		DocumentCount: pointsCount,
		Dimension:     collectionVectorSize(info),
	}, nil
}

// passageFromPayload maps a raw Qdrant payload onto a normalized Passage.
// Returns false when the payload carries no full text, in which case the
// match must be dropped.
func passageFromPayload(score float64, payload map[string]any) (Passage, bool) {
	text, ok := payload[fullTextKey].(string)
	if !ok || text == "" {
		return Passage{}, false
	}

	return Passage{
		Document:        text,
		SimilarityScore: score,
		Metadata: PassageMetadata{
			LawID:      stringField(payload, "LawID"),
			LawName:    stringField(payload, "LawTitle"),
			Category:   stringField(payload, "LawType"),
			Article:    intField(payload, "ArticleNum"),
			Title:      stringField(payload, "ArticleTitle"),
			Filename:   stringField(payload, "filename"),
			UpdateDate: stringField(payload, "updateDate"),
		},
	}, true
}

func stringField(payload map[string]any, key string) string {
	value, _ := payload[key].(string)
	return value
}

// intField reads an integer payload field, tolerating the numeric types the
// payload conversion can produce. Unparseable values map to 0 ("unknown").
func intField(payload map[string]any, key string) int {
	switch value := payload[key].(type) {
	case int64:
		return int(value)
	case float64:
		return int(value)
	case string:
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func collectionVectorSize(info *qdrant.CollectionInfo) int {
	config := info.GetConfig()
	if config == nil || config.Params == nil {
		return 0
	}
	vectorsConfig := config.Params.GetVectorsConfig()
	if vectorsConfig == nil {
		return 0
	}
	params := vectorsConfig.GetParams()
	if params == nil {
		return 0
	}
	return int(params.Size)
}

// convertPayloadToMap converts Qdrant payload to map[string]any.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a Qdrant Value to a Go any type.
func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}
