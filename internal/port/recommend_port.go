package port

import (
	"context"

	"github.com/nikolayk812/stitchstyle/internal/domain"
)

type Recommender interface {
	SuggestKeywords(ctx context.Context, req domain.KeywordRequest) (domain.KeywordResult, error)
	Recommend(ctx context.Context, req domain.RecommendationRequest) (domain.RecommendationResult, error)
}
