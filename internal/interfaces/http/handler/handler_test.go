package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copystudio-api/internal/application/catalog"
	"copystudio-api/internal/application/quality"
	"copystudio-api/internal/application/selection"
	"copystudio-api/internal/application/suggest"
	"copystudio-api/internal/application/versions"
	"copystudio-api/internal/domain/entity"
	"copystudio-api/internal/domain/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		ErrorCode string `json:"error_code"`
		Details   string `json:"details"`
	} `json:"error"`
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestTemplateHandler(t *testing.T) {
	h := NewTemplateHandler(catalog.New(catalog.Builtin()), nil)
	r := gin.New()
	r.GET("/templates", h.List)
	r.POST("/templates/suggest", h.Suggest)
	r.GET("/templates/:id", h.Get)

	w, env := do(t, r, http.MethodGet, "/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Templates []struct {
			ID string `json:"id"`
		} `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Templates, 3)
	assert.Equal(t, suggest.TemplateLandingConversion, list.Templates[0].ID)

	w, env = do(t, r, http.MethodPost, "/templates/suggest", map[string]string{
		"request": "Preciso de uma landing page para converter leads de SaaS",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var res suggest.Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Suggestions, 3)
	assert.Equal(t, suggest.TemplateLandingConversion, res.Suggestions[0].TemplateID)
	assert.False(t, res.FallbackToManualSelection)

	for _, body := range []map[string]string{{"request": ""}, {"request": "   "}, {}} {
		w, env = do(t, r, http.MethodPost, "/templates/suggest", body)
		require.Equal(t, http.StatusOK, w.Code, "body %v", body)
		var fb suggest.Result
		require.NoError(t, json.Unmarshal(env.Data, &fb))
		assert.True(t, fb.FallbackToManualSelection)
		assert.Len(t, fb.Suggestions, 3)
	}

	w, env = do(t, r, http.MethodGet, "/templates/"+suggest.TemplateLandingConversion, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), suggest.TemplateLandingConversion)

	w, env = do(t, r, http.MethodGet, "/templates/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "3001", env.Error.ErrorCode)
	assert.Equal(t, "nope", env.Error.Details)
}

type stubEvaluator struct {
	score entity.QualityScore
	err   error
}

func (e stubEvaluator) Evaluate(context.Context, string) (entity.QualityScore, error) {
	return e.score, e.err
}

func TestQualityHandler(t *testing.T) {
	deep := entity.QualityScore{Overall: 80, Source: entity.ScoreSourceDeep, Recommendations: []string{}}

	newRouter := func(ev quality.Evaluator) *gin.Engine {
		h := NewQualityHandler(quality.NewService(ev, "openai", 0))
		r := gin.New()
		r.POST("/score", h.Score)
		r.POST("/deep", h.Deep)
		r.POST("/compare", h.Compare)
		return r
	}

	t.Run("heuristic accepts empty text", func(t *testing.T) {
		w, env := do(t, newRouter(nil), http.MethodPost, "/score", map[string]string{"text": ""})
		require.Equal(t, http.StatusOK, w.Code)
		var score entity.QualityScore
		require.NoError(t, json.Unmarshal(env.Data, &score))
		assert.Equal(t, 4, score.Overall)
		assert.Equal(t, entity.ScoreSourceHeuristic, score.Source)
	})

	t.Run("deep disabled", func(t *testing.T) {
		w, env := do(t, newRouter(nil), http.MethodPost, "/deep", map[string]string{"text": "oi"})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.NotNil(t, env.Error)
	})

	t.Run("deep success", func(t *testing.T) {
		w, env := do(t, newRouter(stubEvaluator{score: deep}), http.MethodPost, "/deep", map[string]string{"text": "oi"})
		require.Equal(t, http.StatusOK, w.Code)
		var score entity.QualityScore
		require.NoError(t, json.Unmarshal(env.Data, &score))
		assert.Equal(t, 80, score.Overall)
	})

	t.Run("deep provider failure is a bad gateway", func(t *testing.T) {
		w, _ := do(t, newRouter(stubEvaluator{err: errors.New("timeout")}), http.MethodPost, "/deep", map[string]string{"text": "oi"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("compare", func(t *testing.T) {
		w, env := do(t, newRouter(nil), http.MethodPost, "/compare", map[string]string{
			"baseline": "texto curto",
			"current":  "# Oferta\n\n- Compre agora e garanta o desconto.\n- Clique no link.",
		})
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Comparison quality.ScoreComparison `json:"comparison"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Positive(t, resp.Comparison.OverallDelta)
		assert.Contains(t, resp.Comparison.Improved, entity.CriterionEstrutura)
	})
}

func TestDiffHandler(t *testing.T) {
	h := NewDiffHandler()
	r := gin.New()
	r.POST("/diff", h.Diff)
	r.POST("/preview", h.Preview)

	w, env := do(t, r, http.MethodPost, "/diff", map[string]string{"baseline": "a\nb", "current": "a\nc"})
	require.Equal(t, http.StatusOK, w.Code)
	var diff struct {
		Lines []entity.DiffLine `json:"lines"`
		Stats struct {
			Added, Removed, Unchanged int
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &diff))
	assert.Equal(t, []entity.DiffLine{
		{Type: entity.DiffLineUnchanged, Text: "a"},
		{Type: entity.DiffLineRemoved, Text: "b"},
		{Type: entity.DiffLineAdded, Text: "c"},
	}, diff.Lines)

	w, env = do(t, r, http.MethodPost, "/preview", map[string]string{"content": "# Título"})
	require.Equal(t, http.StatusOK, w.Code)
	var pv struct {
		HTML string `json:"html"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pv))
	assert.Contains(t, pv.HTML, "<h1")
}

func TestAdapterHandler(t *testing.T) {
	h := NewAdapterHandler()
	r := gin.New()
	r.POST("/adapters/:kind", h.Map)

	w, env := do(t, r, http.MethodPost, "/adapters/runs", `{"runs":[{"run_id":"r1","status":"completed"},{"run_id":"r2"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Kind  string       `json:"kind"`
		Count int          `json:"count"`
		Items []entity.Run `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "runs", resp.Kind)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, entity.StatusPending, resp.Items[1].Status)

	w, env = do(t, r, http.MethodPost, "/adapters/tasks", `not json`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Zero(t, resp.Count)

	w, _ = do(t, r, http.MethodPost, "/adapters/invoices", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type memoryStore struct {
	mu   sync.Mutex
	data map[string]entity.Selection
}

func (s *memoryStore) Get(_ context.Context, sid string) (entity.Selection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.data[sid]
	return sel, ok, nil
}

func (s *memoryStore) Put(_ context.Context, sid string, sel entity.Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sid] = sel
	return nil
}

func (s *memoryStore) Update(_ context.Context, sid string, fn func(entity.Selection) (entity.Selection, error)) (entity.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.data[sid])
	if err != nil {
		return entity.Selection{}, err
	}
	s.data[sid] = next
	return next, nil
}

func TestSelectionHandler(t *testing.T) {
	h := NewSelectionHandler(selection.NewService(&memoryStore{data: map[string]entity.Selection{}}))
	r := gin.New()
	r.GET("/sessions/:sid/selection", h.Get)
	r.PUT("/sessions/:sid/selection", h.Put)
	r.POST("/sessions/:sid/selection/actions", h.Dispatch)

	w, _ := do(t, r, http.MethodGet, "/sessions/s1/selection", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodPut, "/sessions/s1/selection", map[string]string{
		"brand_id": "b1", "project_id": "p1", "thread_id": "t1", "run_id": "r1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, http.MethodPost, "/sessions/s1/selection/actions", map[string]any{
		"actions": []map[string]string{{"type": "select_project", "id": "p2"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Selection entity.Selection `json:"selection"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, entity.Selection{BrandID: "b1", ProjectID: "p2"}, resp.Selection)

	w, _ = do(t, r, http.MethodPost, "/sessions/s1/selection/actions", map[string]any{
		"actions": []map[string]string{{"type": "select_galaxy", "id": "x"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/sessions/s1/selection/actions", map[string]any{"actions": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type memoryVersions struct {
	mu       sync.Mutex
	versions []*entity.ContentVersion
}

func (r *memoryVersions) CreateVersion(_ context.Context, v *entity.ContentVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.ID = fmt.Sprintf("v-%d", len(r.versions)+1)
	r.versions = append(r.versions, v)
	return nil
}

func (r *memoryVersions) GetLatestVersionNo(ctx context.Context, docID string) (int, error) {
	v, _ := r.GetLatestVersion(ctx, docID)
	if v == nil {
		return 0, nil
	}
	return v.VersionNo, nil
}

func (r *memoryVersions) GetVersionByID(_ context.Context, id string) (*entity.ContentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (r *memoryVersions) GetLatestVersion(_ context.Context, docID string) (*entity.ContentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.ContentVersion
	for _, v := range r.versions {
		if v.DocumentID == docID && (latest == nil || v.VersionNo > latest.VersionNo) {
			latest = v
		}
	}
	return latest, nil
}

func (r *memoryVersions) ListVersions(_ context.Context, docID string, p repository.Pagination) (*repository.PagedResult[*entity.ContentVersion], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ContentVersion
	for _, v := range r.versions {
		if v.DocumentID == docID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNo > out[j].VersionNo })
	start := min(p.Offset(), len(out))
	end := min(start+p.Limit(), len(out))
	return repository.NewPagedResult(out[start:end], int64(len(out)), p), nil
}

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestVersionHandler(t *testing.T) {
	h := NewVersionHandler(versions.NewService(&memoryVersions{}, passthroughTx{}))
	r := gin.New()
	r.POST("/documents/:did/versions", h.Create)
	r.GET("/documents/:did/versions", h.List)
	r.GET("/documents/:did/compare", h.Compare)

	w, env := do(t, r, http.MethodPost, "/documents/d1/versions", map[string]string{"content": "linha A", "label": "rascunho"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Version struct {
			ID        string `json:"id"`
			VersionNo int    `json:"version_no"`
		} `json:"version"`
		Created bool `json:"created"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.Created)
	assert.Equal(t, 1, created.Version.VersionNo)
	firstID := created.Version.ID

	w, env = do(t, r, http.MethodPost, "/documents/d1/versions", map[string]string{"content": "linha A"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.False(t, created.Created)
	assert.Equal(t, firstID, created.Version.ID)

	w, _ = do(t, r, http.MethodPost, "/documents/d1/versions", map[string]string{"content": "linha A\nlinha B"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = do(t, r, http.MethodPost, "/documents/d1/versions", map[string]string{"content": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/documents/d1/versions?page=1&page_size=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Versions []struct {
			VersionNo int    `json:"version_no"`
			Content   string `json:"content"`
		} `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Versions, 1)
	assert.Equal(t, 2, list.Versions[0].VersionNo)
	assert.Empty(t, list.Versions[0].Content)

	w, env = do(t, r, http.MethodGet, "/documents/d1/compare?from="+firstID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cmp struct {
		Stats struct {
			Added     int `json:"added"`
			Unchanged int `json:"unchanged"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cmp))
	assert.Equal(t, 1, cmp.Stats.Added)
	assert.Equal(t, 1, cmp.Stats.Unchanged)

	w, _ = do(t, r, http.MethodGet, "/documents/d1/compare?from=missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/documents/d1/compare", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type checker struct{ err error }

func (c checker) HealthCheck(context.Context) error { return c.err }

func TestHealthHandler(t *testing.T) {
	cat := catalog.New(catalog.Builtin())

	ready := NewHealthHandler(checker{}, checker{}, cat, "v1.2.3")
	r := gin.New()
	r.GET("/health", ready.Health)
	r.GET("/ready", ready.Ready)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"ok","version":"v1.2.3"}`, w.Body.String())

	notReady := NewHealthHandler(checker{err: errors.New("refused")}, nil, cat, "")
	r = gin.New()
	r.GET("/ready", notReady.Ready)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Checks map[string]struct {
			Status string `json:"status"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Checks["postgres"].Status)
	assert.Equal(t, "missing", body.Checks["redis"].Status)
	assert.Equal(t, "ok", body.Checks["catalog"].Status)
}
