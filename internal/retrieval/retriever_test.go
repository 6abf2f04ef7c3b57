package retrieval_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"legalrag/internal/apperr"
	"legalrag/internal/retrieval"
	retrievalmocks "legalrag/internal/retrieval/mocks"
	"legalrag/internal/vectorstore"
	storemocks "legalrag/internal/vectorstore/mocks"
)

func TestRetriever_SearchDocuments(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockEmbedder := retrievalmocks.NewMockEmbedder(ctrl)
	mockStore := storemocks.NewMockStore(ctrl)

	vector := []float32{0.1, 0.2, 0.3}
	passages := []vectorstore.Passage{
		{Document: "doc one", SimilarityScore: 0.95},
		{Document: "doc two", SimilarityScore: 0.80},
	}

	mockEmbedder.EXPECT().EmbedText(gomock.Any(), "lease termination notice").Return(vector, nil)
	mockStore.EXPECT().Search(gomock.Any(), vector, 5).Return(passages, nil)

	retriever := retrieval.New(mockEmbedder, mockStore)
	got, err := retriever.SearchDocuments(context.Background(), "lease termination notice", 5)
	if err != nil {
		t.Fatalf("SearchDocuments() error = %v, want nil", err)
	}
	if len(got) != 2 {
		t.Fatalf("SearchDocuments() returned %d passages, want 2", len(got))
	}
	if got[0].SimilarityScore < got[1].SimilarityScore {
		t.Error("passages not ordered by non-increasing similarity")
	}
}

func TestRetriever_SearchDocuments_InvalidMaxResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	// Validation happens before any embedding or index call.
	mockEmbedder := retrievalmocks.NewMockEmbedder(ctrl)
	mockStore := storemocks.NewMockStore(ctrl)

	retriever := retrieval.New(mockEmbedder, mockStore)

	for _, maxResults := range []int{0, -1, -100} {
		_, err := retriever.SearchDocuments(context.Background(), "query", maxResults)
		if err == nil {
			t.Fatalf("SearchDocuments(maxResults=%d) error = nil, want validation error", maxResults)
		}
		var validationErr *apperr.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("SearchDocuments(maxResults=%d) error = %v, want *apperr.ValidationError", maxResults, err)
		}
		if validationErr.Field != "max_results" {
			t.Errorf("Field = %q, want %q", validationErr.Field, "max_results")
		}
	}
}

func TestRetriever_SearchDocuments_EmbedFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockEmbedder := retrievalmocks.NewMockEmbedder(ctrl)
	// The index must not be queried when embedding fails.
	mockStore := storemocks.NewMockStore(ctrl)

	upstream := apperr.Upstream(errors.New("status 503"), "embeddings request failed")
	mockEmbedder.EXPECT().EmbedText(gomock.Any(), "query").Return(nil, upstream)

	retriever := retrieval.New(mockEmbedder, mockStore)
	_, err := retriever.SearchDocuments(context.Background(), "query", 3)
	if err == nil {
		t.Fatal("SearchDocuments() error = nil, want embed error")
	}
	if !errors.Is(err, apperr.ErrUpstream) {
		t.Errorf("SearchDocuments() error = %v, want wrapped ErrUpstream", err)
	}
}

func TestRetriever_SearchDocuments_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockEmbedder := retrievalmocks.NewMockEmbedder(ctrl)
	mockStore := storemocks.NewMockStore(ctrl)

	vector := []float32{0.5}
	mockEmbedder.EXPECT().EmbedText(gomock.Any(), "query").Return(vector, nil)
	mockStore.EXPECT().Search(gomock.Any(), vector, 3).
		Return(nil, apperr.Upstream(errors.New("grpc unavailable"), "vector search failed"))

	retriever := retrieval.New(mockEmbedder, mockStore)
	_, err := retriever.SearchDocuments(context.Background(), "query", 3)
	if err == nil {
		t.Fatal("SearchDocuments() error = nil, want search error")
	}
	if !errors.Is(err, apperr.ErrUpstream) {
		t.Errorf("SearchDocuments() error = %v, want wrapped ErrUpstream", err)
	}
}

func TestRetriever_SearchDocuments_NoResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockEmbedder := retrievalmocks.NewMockEmbedder(ctrl)
	mockStore := storemocks.NewMockStore(ctrl)

	vector := []float32{0.5}
	mockEmbedder.EXPECT().EmbedText(gomock.Any(), "obscure query").Return(vector, nil)
	mockStore.EXPECT().Search(gomock.Any(), vector, 3).Return([]vectorstore.Passage{}, nil)

	retriever := retrieval.New(mockEmbedder, mockStore)
	got, err := retriever.SearchDocuments(context.Background(), "obscure query", 3)
	if err != nil {
		t.Fatalf("SearchDocuments() error = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Errorf("SearchDocuments() returned %d passages, want 0", len(got))
	}
}
