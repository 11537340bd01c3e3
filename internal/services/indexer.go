package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"careerlens/resume-assistant/internal/models"
)

// IndexService maintains an optional similarity index over completed
// analyses so past results can be searched by free text. Indexing happens
// off the request path and is best-effort throughout.
type IndexService interface {
	InitCollection() error
	IndexAnalysis(ctx context.Context, analysisID string, kind models.AnalysisKind, excerpt string) error
	SearchSimilar(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
}

type indexService struct {
	client         *qdrant.Client
	geminiService  GeminiService
	collectionName string
	vectorSize     uint64
}

func NewIndexService(urlStr, apiKey, collectionName string, geminiService GeminiService) (IndexService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC client talks to port 6334 by default
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &indexService{
		client:         client,
		geminiService:  geminiService,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
	}, nil
}

// InitCollection implements IndexService.
func (s *indexService) InitCollection() error {
	ctx := context.Background()

	exists, err := s.client.CollectionExists(ctx, s.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Qdrant collection already exists")
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", s.collectionName)
	return nil
}

// IndexAnalysis implements IndexService.
func (s *indexService) IndexAnalysis(ctx context.Context, analysisID string, kind models.AnalysisKind, excerpt string) error {
	embedding, err := s.geminiService.GenerateEmbedding(ctx, excerpt)
	if err != nil {
		return fmt.Errorf("failed to embed analysis excerpt: %w", err)
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(analysisID),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"analysis_id": analysisID,
			"kind":        string(kind),
			"excerpt":     excerpt,
		}),
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchSimilar implements IndexService.
func (s *indexService) SearchSimilar(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	embedding, err := s.geminiService.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchResult, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var results []models.SearchResult
	for _, point := range searchResult {
		payload := point.Payload

		result := models.SearchResult{
			Score: point.Score,
		}

		if id, ok := payload["analysis_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_StringValue); ok {
				result.AnalysisID = val.StringValue
			}
		}

		if kind, ok := payload["kind"]; ok {
			if val, ok := kind.GetKind().(*qdrant.Value_StringValue); ok {
				result.Kind = val.StringValue
			}
		}

		if excerpt, ok := payload["excerpt"]; ok {
			if val, ok := excerpt.GetKind().(*qdrant.Value_StringValue); ok {
				result.Excerpt = val.StringValue
			}
		}

		results = append(results, result)
	}

	return results, nil
}
