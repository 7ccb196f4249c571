// Package discovery produces displayable dish sets from structured
// filters, text search, and AI free-text queries. Concurrent requests
// are sequenced: each dispatch gets a strictly increasing number and
// only the highest-numbered response ever becomes visible, so the UI can
// never show a result older than the most recent request.
package discovery

import (
	"context"
	"net/url"
	"sync"

	"github.com/smartcampus/canteen-client/api"
	"github.com/smartcampus/canteen-client/core"
	"github.com/smartcampus/canteen-client/internal/conversation"
)

// failureNotice is appended as the assistant's turn when the
// recommendation backend does not answer. The user's turn always stays.
const failureNotice = "抱歉，推荐服务暂时不可用，请稍后重试。"

// Backend is the slice of the gateway client the engine needs.
type Backend interface {
	SearchDishes(ctx context.Context, query url.Values) (*api.DishPage, error)
	FilterDishes(ctx context.Context, query url.Values) (*api.DishPage, error)
	SearchSuggestions(ctx context.Context, q string) ([]string, error)
	AIRecommend(ctx context.Context, req api.RecommendRequest) (*api.Recommendation, error)
	PopularDishes(ctx context.Context) ([]api.Dish, error)
	RandomDishes(ctx context.Context, limit int) ([]api.Dish, error)
	DishDetail(ctx context.Context, dishID int) (*api.Dish, error)
}

// DishResult is an immutable snapshot returned by one discovery request,
// tagged with its request sequence number.
type DishResult struct {
	Seq    uint64
	Dishes []api.Dish
	Total  int
}

// Engine coordinates dish discovery. Safe for concurrent use; the
// sequencing rule, not locking across network calls, is what resolves
// races between in-flight requests.
type Engine struct {
	backend Backend
	logger  core.Logger

	mu         sync.Mutex
	nextSeq    uint64
	visibleSeq uint64
	visible    DishResult

	turns *conversation.Log
}

// NewEngine creates a discovery engine over the gateway client.
func NewEngine(backend Backend, logger core.Logger) *Engine {
	if logger == nil {
		logger = &core.NoOpLogger{}
	}
	return &Engine{
		backend: backend,
		logger:  logger,
		turns:   conversation.NewLog(),
	}
}

func (e *Engine) claimSeq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextSeq++
	return e.nextSeq
}

// apply installs a settled response as the visible result unless a
// higher-numbered response already landed; stale responses are discarded
// silently. This models cancellation by result-discarding - the network
// call itself is never aborted.
func (e *Engine) apply(result DishResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if result.Seq <= e.visibleSeq {
		e.logger.Debug("Stale discovery response discarded", map[string]interface{}{
			"operation":   "discovery_apply",
			"seq":         result.Seq,
			"visible_seq": e.visibleSeq,
		})
		return
	}
	e.visibleSeq = result.Seq
	e.visible = result
}

// Visible returns the staleness-resolved result: the response of the
// highest-numbered request that has settled so far.
func (e *Engine) Visible() DishResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

// Search runs one discovery request. Criteria are validated locally
// first - an inverted price range fails fast with no network round-trip.
// A free-text query routes to the AI recommendation path; otherwise the
// structured facets go to the filter endpoint. Either way the settled
// response competes for visibility under the sequence rule.
func (e *Engine) Search(ctx context.Context, criteria FilterCriteria) (DishResult, error) {
	if err := criteria.Validate(); err != nil {
		return DishResult{}, err
	}

	seq := e.claimSeq()

	var dishes []api.Dish
	var total int
	if criteria.FreeTextQuery != "" {
		rec, err := e.recommend(ctx, criteria.FreeTextQuery, criteria.hints())
		if err != nil {
			return DishResult{}, err
		}
		dishes, total = rec.Dishes, len(rec.Dishes)
	} else {
		page, err := e.backend.FilterDishes(ctx, criteria.encode())
		if err != nil {
			return DishResult{}, err
		}
		dishes, total = page.Dishes, page.Total
	}

	result := DishResult{Seq: seq, Dishes: dishes, Total: total}
	e.apply(result)
	return result, nil
}

// Query runs a plain keyword search through the search endpoint, under
// the same sequencing rule as Search.
func (e *Engine) Query(ctx context.Context, q string, sort SortKey) (DishResult, error) {
	seq := e.claimSeq()

	query := url.Values{"q": {q}}
	if sort != "" {
		query.Set("ordering", string(sort))
	}

	page, err := e.backend.SearchDishes(ctx, query)
	if err != nil {
		return DishResult{}, err
	}

	result := DishResult{Seq: seq, Dishes: page.Dishes, Total: page.Total}
	e.apply(result)
	return result, nil
}

// Suggestions fetches completion suggestions for a partial query.
func (e *Engine) Suggestions(ctx context.Context, q string) ([]string, error) {
	return e.backend.SearchSuggestions(ctx, q)
}

// Recommend asks the AI assistant for dishes matching a free-text query.
// The user's turn is appended synchronously before dispatch; the
// assistant's turn is appended when the backend answers, or as a failure
// notice when it doesn't. The conversation never silently drops the
// user's turn.
func (e *Engine) Recommend(ctx context.Context, query string, hints map[string]interface{}) (*api.Recommendation, error) {
	return e.recommend(ctx, query, hints)
}

func (e *Engine) recommend(ctx context.Context, query string, hints map[string]interface{}) (*api.Recommendation, error) {
	e.turns.AppendUser(query)

	rec, err := e.backend.AIRecommend(ctx, api.RecommendRequest{
		Query:       query,
		Preferences: hints,
	})
	if err != nil {
		e.turns.AppendAssistant(failureNotice)
		return nil, err
	}

	reply := rec.Reply
	if reply == "" && len(rec.Dishes) > 0 {
		reply = rec.Dishes[0].Name
	}
	e.turns.AppendAssistant(reply)
	return rec, nil
}

// Conversation returns the AI assistant turn history in order.
func (e *Engine) Conversation() []conversation.Turn {
	return e.turns.Turns()
}

// Popular fetches the popularity-ranked dish list.
func (e *Engine) Popular(ctx context.Context) ([]api.Dish, error) {
	return e.backend.PopularDishes(ctx)
}

// Random fetches up to limit random dishes.
func (e *Engine) Random(ctx context.Context, limit int) ([]api.Dish, error) {
	return e.backend.RandomDishes(ctx, limit)
}

// Detail fetches one dish by ID.
func (e *Engine) Detail(ctx context.Context, dishID int) (*api.Dish, error) {
	return e.backend.DishDetail(ctx, dishID)
}

// Reset clears the visible result and the conversation. Wired to
// session clears so a logout restarts discovery from scratch.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.visible = DishResult{}
	// Anything already dispatched is stale after a reset.
	e.visibleSeq = e.nextSeq
	e.mu.Unlock()

	e.turns.Reset()
}
