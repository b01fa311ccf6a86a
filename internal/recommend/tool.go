package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/nikolayk812/stitchstyle/internal/domain"
	"github.com/nikolayk812/stitchstyle/internal/port"
	"github.com/sirupsen/logrus"
)

const (
	placeholderImage = "https://placehold.co/600x800.png"
	recommendedLabel = "Recommended"

	minDisplayPrice = 3000
	maxDisplayPrice = 15000
)

var ErrBusy = errors.New("request already in progress")

// State is a snapshot of the personalization tool.
type State struct {
	Keywords        []string         `json:"keywords"`
	Preferences     []string         `json:"preferences"`
	Recommendations []domain.Product `json:"recommendations"`
	Suggesting      bool             `json:"suggesting"`
	Recommending    bool             `json:"recommending"`
}

// Tool holds the keyword suggestions, the shopper's chosen preferences and the
// latest recommendations. Each kind of request is single-shot: a second call while
// one is pending gets ErrBusy.
type Tool struct {
	rec port.Recommender
	log logrus.FieldLogger
	now func() time.Time

	mu    sync.Mutex
	state State
}

func NewTool(rec port.Recommender, log logrus.FieldLogger) *Tool {
	return &Tool{
		rec: rec,
		log: log.WithField("component", "recommend"),
		now: time.Now,
	}
}

// Suggest asks for keywords for occasion, seeded with the current preferences.
// On failure the previous keywords stay in place.
func (t *Tool) Suggest(ctx context.Context, occasion string) error {
	occasion = strings.TrimSpace(occasion)
	if occasion == "" {
		return nil
	}

	t.mu.Lock()
	if t.state.Suggesting {
		t.mu.Unlock()
		return ErrBusy
	}
	t.state.Suggesting = true
	previous := slices.Clone(t.state.Preferences)
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.state.Suggesting = false
		t.mu.Unlock()
	}()

	result, err := t.rec.SuggestKeywords(ctx, domain.KeywordRequest{
		Occasion:         occasion,
		PreviousKeywords: previous,
	})
	if err != nil {
		t.log.WithError(err).Error("error suggesting style guide")
		return err
	}

	t.mu.Lock()
	t.state.Keywords = result.Keywords
	t.mu.Unlock()

	return nil
}

// Recommend replaces the recommendations for browsingActivity and the current
// preferences. Previous recommendations are dropped before the call, so a failure
// leaves none.
func (t *Tool) Recommend(ctx context.Context, browsingActivity string) error {
	browsingActivity = strings.TrimSpace(browsingActivity)

	t.mu.Lock()
	if browsingActivity == "" && len(t.state.Preferences) == 0 {
		t.mu.Unlock()
		return nil
	}
	if t.state.Recommending {
		t.mu.Unlock()
		return ErrBusy
	}
	t.state.Recommending = true
	t.state.Recommendations = nil
	preferences := strings.Join(t.state.Preferences, ", ")
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.state.Recommending = false
		t.mu.Unlock()
	}()

	result, err := t.rec.Recommend(ctx, domain.RecommendationRequest{
		PastPreferences:         preferences,
		CurrentBrowsingActivity: browsingActivity,
	})
	if err != nil {
		t.log.WithError(err).Error("error generating recommendations")
		return err
	}

	products := t.toProducts(result.Recommendations)

	t.mu.Lock()
	t.state.Recommendations = products
	t.mu.Unlock()

	return nil
}

// TogglePreference adds keyword to the preferences, or removes it if present.
func (t *Tool) TogglePreference(keyword string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i := slices.Index(t.state.Preferences, keyword); i >= 0 {
		t.state.Preferences = slices.Delete(t.state.Preferences, i, i+1)
	} else {
		t.state.Preferences = append(t.state.Preferences, keyword)
	}

	return slices.Clone(t.state.Preferences)
}

func (t *Tool) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return State{
		Keywords:        slices.Clone(t.state.Keywords),
		Preferences:     slices.Clone(t.state.Preferences),
		Recommendations: slices.Clone(t.state.Recommendations),
		Suggesting:      t.state.Suggesting,
		Recommending:    t.state.Recommending,
	}
}

// toProducts turns generated items into displayable products. The service does not
// price items, so price and rating are placeholders.
func (t *Tool) toProducts(recs []domain.Recommendation) []domain.Product {
	stamp := t.now().UnixNano()
	products := make([]domain.Product, 0, len(recs))

	for i, rec := range recs {
		image := rec.ImageURL
		if image == "" {
			image = placeholderImage
		}

		products = append(products, domain.Product{
			ID:          fmt.Sprintf("rec-%d-%d", i, stamp),
			Name:        rec.Name,
			Description: rec.Description,
			Price:       int64(minDisplayPrice + rand.IntN(maxDisplayPrice-minDisplayPrice+1)),
			Category:    recommendedLabel,
			Images:      []string{image},
			Keywords:    rec.Keywords,
			Rating:      math.Round((3.5+rand.Float64()*1.5)*10) / 10,
			ReviewCount: rand.IntN(100),
			Reviews:     []domain.Review{},
		})
	}

	return products
}
