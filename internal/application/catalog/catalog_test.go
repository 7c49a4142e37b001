package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copystudio-api/internal/domain/entity"
)

func TestBuiltinMatchesShippedYAML(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "configs", "templates.yaml"))
	require.NoError(t, err)

	parsed, err := ParseYAML(data)
	require.NoError(t, err)

	fromFile := New(parsed).Templates()
	builtin := New(Builtin()).Templates()
	if diff := cmp.Diff(builtin, fromFile); diff != "" {
		t.Fatalf("configs/templates.yaml drifted from Builtin() (-builtin +file):\n%s", diff)
	}
}

func TestCatalog_GetAndOrder(t *testing.T) {
	c := New(Builtin())

	require.Equal(t, 3, c.Len())
	tpl, ok := c.Get("email-nurturing")
	require.True(t, ok)
	assert.Equal(t, 1, tpl.Position)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	ids := make([]string, 0, 3)
	for _, tpl := range c.Templates() {
		ids = append(ids, tpl.ID)
	}
	assert.Equal(t, []string{"landing-conversion", "email-nurturing", "content-strategy"}, ids)
}

func TestCatalog_TemplatesReturnsCopy(t *testing.T) {
	c := New(Builtin())
	snapshot := c.Templates()
	snapshot[0].Name = "mutated"

	tpl, _ := c.Get("landing-conversion")
	assert.Equal(t, "Landing Page de Conversão", tpl.Name)
}

func TestCatalog_ReloadKeepsPreviousOnError(t *testing.T) {
	c := New(Builtin())

	err := c.Reload(context.Background(), SourceFunc(func(context.Context) ([]entity.Template, error) {
		return nil, errors.New("boom")
	}))
	require.Error(t, err)
	assert.Equal(t, 3, c.Len())

	err = c.Reload(context.Background(), SourceFunc(func(context.Context) ([]entity.Template, error) {
		return []entity.Template{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}}, nil
	}))
	require.ErrorContains(t, err, "duplicate id")
	assert.Equal(t, 3, c.Len())
}

func TestParseYAML_RejectsMissingID(t *testing.T) {
	_, err := ParseYAML([]byte("templates:\n  - name: Sem id\n"))
	require.ErrorContains(t, err, "id is required")
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  - id: a\n    name: A\n"), 0o644))

	c, err := Load(context.Background(), FileSource{Path: path})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, c, path) }()

	// 等待 watcher 注册完成后再写入
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  - id: a\n    name: A\n  - id: b\n    name: B\n"), 0o644))

	assert.Eventually(t, func() bool { return c.Len() == 2 }, 3*time.Second, 20*time.Millisecond)

	// 损坏的文件不会覆盖当前快照
	require.NoError(t, os.WriteFile(path, []byte("templates: ["), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 2, c.Len())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
