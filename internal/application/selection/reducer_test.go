package selection

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copystudio-api/internal/domain/entity"
	apperrors "copystudio-api/pkg/errors"
)

func full() entity.Selection {
	return entity.Selection{BrandID: "b1", ProjectID: "p1", ThreadID: "t1", RunID: "r1"}
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name   string
		state  entity.Selection
		action Action
		want   entity.Selection
	}{
		{"brand clears descendants", full(), Action{Type: ActionSelectBrand, ID: "b2"}, entity.Selection{BrandID: "b2"}},
		{"same brand keeps state", full(), Action{Type: ActionSelectBrand, ID: "b1"}, full()},
		{"project clears thread and run", full(), Action{Type: ActionSelectProject, ID: "p2"}, entity.Selection{BrandID: "b1", ProjectID: "p2"}},
		{"thread clears run", full(), Action{Type: ActionSelectThread, ID: "t2"}, entity.Selection{BrandID: "b1", ProjectID: "p1", ThreadID: "t2"}},
		{"run only sets run", full(), Action{Type: ActionSelectRun, ID: "r2"}, entity.Selection{BrandID: "b1", ProjectID: "p1", ThreadID: "t1", RunID: "r2"}},
		{"reset", full(), Action{Type: ActionReset}, entity.Selection{}},
		{"id is trimmed", entity.Selection{}, Action{Type: ActionSelectBrand, ID: " b9 "}, entity.Selection{BrandID: "b9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reduce(tt.state, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReduce_Errors(t *testing.T) {
	state := full()

	got, err := Reduce(state, Action{Type: "select_planet", ID: "x"})
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, state, got)

	got, err = Reduce(state, Action{Type: ActionSelectRun})
	assert.ErrorIs(t, err, ErrMissingID)
	assert.Equal(t, state, got)
}

func TestReduceAll(t *testing.T) {
	got, err := ReduceAll(entity.Selection{},
		Action{Type: ActionSelectBrand, ID: "b1"},
		Action{Type: ActionSelectProject, ID: "p1"},
		Action{Type: ActionSelectThread, ID: "t1"},
		Action{Type: ActionSelectBrand, ID: "b2"},
	)
	require.NoError(t, err)
	assert.Equal(t, entity.Selection{BrandID: "b2"}, got)
}

type memoryStore struct {
	mu   sync.Mutex
	data map[string]entity.Selection
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]entity.Selection{}}
}

func (m *memoryStore) Get(_ context.Context, sid string) (entity.Selection, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sel, ok := m.data[sid]
	return sel, ok, nil
}

func (m *memoryStore) Put(_ context.Context, sid string, sel entity.Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sid] = sel
	return nil
}

func (m *memoryStore) Update(_ context.Context, sid string, fn func(entity.Selection) (entity.Selection, error)) (entity.Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := fn(m.data[sid])
	if err != nil {
		return entity.Selection{}, err
	}
	m.data[sid] = next
	return next, nil
}

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryStore())

	_, err := svc.Get(ctx, "s1")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	sel, err := svc.Dispatch(ctx, "s1", Action{Type: ActionSelectBrand, ID: "b1"}, Action{Type: ActionSelectProject, ID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, entity.Selection{BrandID: "b1", ProjectID: "p1"}, sel)

	got, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sel, got)

	_, err = svc.Dispatch(ctx, "s1", Action{Type: "nope", ID: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)

	got, _ = svc.Get(ctx, "s1")
	assert.Equal(t, sel, got, "failed dispatch must not change stored state")

	_, err = svc.Get(ctx, " ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
}
