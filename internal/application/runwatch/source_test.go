package runwatch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copystudio-api/internal/config"
	"copystudio-api/internal/domain/entity"
	"copystudio-api/internal/infrastructure/messaging"
	apperrors "copystudio-api/pkg/errors"
)

func TestHTTPRunSource(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if r.URL.Path == "/api/broken" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"runs":[]}`))
	}))
	defer srv.Close()

	backend := config.BackendConfig{BaseURL: srv.URL + "/api/", Token: "secret"}

	src := NewHTTPRunSource(backend, "/runs", srv.Client())
	body, err := src.FetchRuns(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"runs":[]}`, string(body))
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "/api/runs", gotPath)

	_, err = NewHTTPRunSource(backend, "broken", srv.Client()).FetchRuns(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstreamFailed)
}

type fakePublisher struct {
	msgs []*messaging.RunStatusMessage
}

func (p *fakePublisher) PublishRunStatus(_ context.Context, msgs ...*messaging.RunStatusMessage) ([]string, error) {
	p.msgs = append(p.msgs, msgs...)
	ids := make([]string, len(msgs))
	for i := range ids {
		ids[i] = fmt.Sprintf("%d-0", i+1)
	}
	return ids, nil
}

func TestStreamSink(t *testing.T) {
	pub := &fakePublisher{}
	err := NewStreamSink(pub).Publish(context.Background(), []StatusChange{{
		Run:  entity.Run{RunID: "r1", ThreadID: "th1"},
		From: "running",
		To:   "completed",
	}})
	require.NoError(t, err)
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "r1", pub.msgs[0].RunID)
	assert.Equal(t, "th1", pub.msgs[0].ThreadID)
	assert.Equal(t, "completed", pub.msgs[0].To)
}
