package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techtree-backend/domain/core/aggregates"
	"techtree-backend/domain/core/valueobjects"
	"techtree-backend/domain/events"
	pkgerrors "techtree-backend/pkg/errors"
)

const chainYAML = `
nodes:
  - {id: a, label: Alpha, category: ReactorConcept, trl: 4}
  - {id: b, label: Beta, category: Milestone}
  - {id: c, label: Gamma, category: EnablingTechnology}
edges:
  - {source: a, target: b}
  - {source: b, target: c}
`

const chainJSON = `{
  "nodes": [
    {"id": "a", "label": "Alpha", "category": "ReactorConcept"},
    {"id": "b", "label": "Beta", "category": "Milestone"}
  ],
  "edges": [{"source": "a", "target": "b"}]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEmbedded(t *testing.T) {
	tree, err := LoadEmbedded(nil)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(tree.Nodes()), 30)
	counts := tree.CountByCategory()
	for _, c := range valueobjects.AllCategories() {
		assert.Positive(t, counts[c], "category %s has no nodes", c)
	}

	q1, ok := tree.Node(valueobjects.MustNodeID("q-sci"))
	require.True(t, ok)
	assert.Equal(t, "Scientific Breakeven (Q>1)", q1.Label())
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"tree.yaml", FormatYAML, false},
		{"tree.YML", FormatYAML, false},
		{"/data/tree.json", FormatJSON, false},
		{"tree.toml", "", true},
		{"tree", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		f, err := Parse([]byte(chainYAML), FormatYAML)
		require.NoError(t, err)
		assert.Len(t, f.Nodes, 3)
		assert.Equal(t, 4, f.Nodes[0].TRL)
		assert.Equal(t, EdgeRecord{Source: "b", Target: "c"}, f.Edges[1])
	})

	t.Run("json", func(t *testing.T) {
		f, err := Parse([]byte(chainJSON), FormatJSON)
		require.NoError(t, err)
		assert.Len(t, f.Nodes, 2)
		assert.Len(t, f.Edges, 1)
	})

	t.Run("unknown yaml field", func(t *testing.T) {
		_, err := Parse([]byte("nodes:\n  - {id: a, colour: red}\n"), FormatYAML)
		assert.Error(t, err)
	})

	t.Run("unknown json field", func(t *testing.T) {
		_, err := Parse([]byte(`{"nodes": [], "links": []}`), FormatJSON)
		assert.Error(t, err)
	})
}

func TestFileBuild_RoundTrip(t *testing.T) {
	// Arrange
	f, err := Parse([]byte(chainYAML), FormatYAML)
	require.NoError(t, err)

	// Act
	tree, err := f.Build(nil)
	require.NoError(t, err)
	back := FromTree(tree)

	// Assert
	assert.Equal(t, f, back)
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", `
nodes:
  - {id: a, label: Alpha, category: ReactorConcept}
edges:
  - {source: a, target: ghost}
`)

	_, err := LoadFile(path, nil)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

type recordingPublisher struct {
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	p.events = append(p.events, evts...)
	return nil
}

func TestStore_Reload(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.yaml", chainYAML)
	pub := &recordingPublisher{}
	store, err := NewStore(path, nil, pub, nil, zap.NewNop())
	require.NoError(t, err)

	first := store.Current()
	assert.Equal(t, uint64(1), first.Revision())
	assert.Equal(t, path, first.Source())

	// Act
	writeFile(t, dir, "tree.yaml", chainJSON2YAML)
	second, err := store.Reload(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Revision())
	assert.Same(t, second, store.Current())
	assert.Len(t, second.Nodes(), 2)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.EventTypeTreeReloaded, pub.events[0].GetEventType())

	// Snapshots handed out earlier are untouched.
	assert.Len(t, first.Nodes(), 3)
}

const chainJSON2YAML = `
nodes:
  - {id: a, label: Alpha, category: ReactorConcept}
  - {id: b, label: Beta, category: Milestone}
edges:
  - {source: a, target: b}
`

func TestStore_ReloadFailureKeepsSnapshot(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.yaml", chainYAML)
	pub := &recordingPublisher{}
	store, err := NewStore(path, nil, pub, nil, zap.NewNop())
	require.NoError(t, err)
	before := store.Current()

	// Act
	writeFile(t, dir, "tree.yaml", "nodes: [")
	_, err = store.Reload(context.Background())

	// Assert
	require.Error(t, err)
	assert.Same(t, before, store.Current())
	assert.Empty(t, pub.events)
}

func TestStore_Embedded(t *testing.T) {
	store, err := NewStore("", nil, nil, nil, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, EmbeddedSourceName, store.Current().Source())
	assert.Empty(t, store.Path())
}

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) Reload(context.Context) (*aggregates.TechTree, error) {
	r.calls.Add(1)
	return nil, nil
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.yaml", chainYAML)
	reloader := &countingReloader{}
	w, err := NewWatcher(path, reloader, zap.NewNop())
	require.NoError(t, err)
	w.WithDebounce(20 * time.Millisecond).Start()
	defer w.Stop()

	// Act
	writeFile(t, dir, "other.yaml", chainYAML)
	writeFile(t, dir, "tree.yaml", chainJSON2YAML)

	// Assert
	require.Eventually(t, func() bool { return reloader.calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.yaml", chainYAML)
	w, err := NewWatcher(path, &countingReloader{}, zap.NewNop())
	require.NoError(t, err)
	w.Start()

	w.Stop()
	w.Stop()
}

func TestNewWatcher_RequiresPath(t *testing.T) {
	_, err := NewWatcher("", &countingReloader{}, zap.NewNop())
	assert.Error(t, err)
}
