package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copystudio-api/internal/domain/entity"
)

func TestMapTasksResponse_Empty(t *testing.T) {
	for _, raw := range []string{`{}`, ``, `null`, `[]`, `{"items": "nope"}`, `{"items": {}}`, `not json`} {
		got := MapTasksResponse([]byte(raw))
		assert.NotNil(t, got, raw)
		assert.Empty(t, got, raw)
	}
}

func TestMapTasksResponse_Defaults(t *testing.T) {
	got := MapTasksResponse([]byte(`{"items":[{"task_id":"t1"}]}`))

	require.Len(t, got, 1)
	assert.Equal(t, entity.Task{
		TaskID:     "t1",
		Title:      "",
		Status:     entity.StatusPending,
		AssignedTo: "",
		DueDate:    "",
		Metadata:   map[string]any{},
	}, got[0])
}

func TestMapTasksResponse_WrongTypesAreCoerced(t *testing.T) {
	got := MapTasksResponse([]byte(`{"items":[
		{"task_id": 7, "title": ["x"], "status": null, "assigned_to": "ana", "metadata": "x"},
		"garbage",
		{"task_id": "t3", "status": "completed", "metadata": {"prioridade": "alta"}}
	]}`))

	require.Len(t, got, 3)
	assert.Equal(t, "", got[0].TaskID)
	assert.Equal(t, "", got[0].Title)
	assert.Equal(t, entity.StatusPending, got[0].Status)
	assert.Equal(t, "ana", got[0].AssignedTo)
	assert.Equal(t, map[string]any{}, got[0].Metadata)

	assert.Equal(t, entity.Task{Status: entity.StatusPending, Metadata: map[string]any{}}, got[1])

	assert.Equal(t, entity.StatusCompleted, got[2].Status)
	assert.Equal(t, map[string]any{"prioridade": "alta"}, got[2].Metadata)
}

func TestMapRunsResponse_PrefersRuns(t *testing.T) {
	got := MapRunsResponse([]byte(`{
		"runs":  [{"run_id":"r-new","status":"running","output":{"tokens":12}}],
		"items": [{"run_id":"r-old"}]
	}`))

	require.Len(t, got, 1)
	assert.Equal(t, "r-new", got[0].RunID)
	assert.Equal(t, entity.StatusRunning, got[0].Status)
	assert.Equal(t, map[string]any{"tokens": float64(12)}, got[0].Output)
}

func TestMapRunsResponse_LegacyItems(t *testing.T) {
	got := MapRunsResponse([]byte(`{"items":[{"run_id":"r1","thread_id":"th1","created_at":"2024-01-01T00:00:00Z"}]}`))

	require.Len(t, got, 1)
	assert.Equal(t, entity.Run{
		RunID:     "r1",
		ThreadID:  "th1",
		Status:    entity.StatusPending,
		CreatedAt: "2024-01-01T00:00:00Z",
		Output:    map[string]any{},
	}, got[0])
}

func TestMapRunsResponse_NonArrayRunsFallsBackToItems(t *testing.T) {
	got := MapRunsResponse([]byte(`{"runs": null, "items":[{"run_id":"r1"}]}`))
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].RunID)
}

func TestOtherAdapters(t *testing.T) {
	threads := MapThreadsResponse([]byte(`{"items":[{"thread_id":"th","title":"Lançamento","project_id":"p1"}]}`))
	require.Len(t, threads, 1)
	assert.Equal(t, entity.Thread{ThreadID: "th", Title: "Lançamento", Status: entity.StatusPending, ProjectID: "p1"}, threads[0])

	brands := MapBrandsResponse([]byte(`{"items":[{"brand_id":"b1","name":"Acme"}]}`))
	require.Len(t, brands, 1)
	assert.Equal(t, entity.Brand{BrandID: "b1", Name: "Acme", Metadata: map[string]any{}}, brands[0])

	projects := MapProjectsResponse([]byte(`{"items":[{"project_id":"p1","brand_id":"b1","name":"Site","status":"running"}]}`))
	require.Len(t, projects, 1)
	assert.Equal(t, entity.Project{ProjectID: "p1", BrandID: "b1", Name: "Site", Status: entity.StatusRunning}, projects[0])
}

func TestFromValue(t *testing.T) {
	decoded := map[string]any{"items": []any{map[string]any{"task_id": "t1"}}}
	got := MapTasksResponse(FromValue(decoded))
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].TaskID)

	assert.Empty(t, MapTasksResponse(FromValue(make(chan int))))
}

func TestMap(t *testing.T) {
	for _, kind := range Kinds() {
		recs, err := Map(kind, []byte(`{}`))
		require.NoError(t, err, kind)
		assert.Equal(t, kind, recs.Kind())
		assert.Zero(t, recs.Len())
	}

	recs, err := Map(KindRuns, []byte(`{"runs":[{},{}]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, recs.Len())
	_, ok := recs.(Runs)
	assert.True(t, ok)

	_, err = Map("invoices", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownKind)
}
