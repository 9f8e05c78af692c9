package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nkromin/CustomerCareRAG/internal/agent/model"
)

const samplePolicy = `# Employee Handbook

General provisions apply to all employees.

## Sick Leave

Employees receive 30 days of paid sick leave per calendar year. A medical
certificate is required for absences longer than three consecutive days.

## Annual Leave

Employees accrue 2.5 days of annual leave per month. Unused annual leave may
be carried over into the first quarter of the following year.
`

func writePolicyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hr_policies.md"), []byte(samplePolicy), 0o644))
	return dir
}

func newTestIndex(t *testing.T, dir string) *PolicyIndex {
	t.Helper()
	idx, err := New(model.IndexConfig{
		DocsDir:      dir,
		ChunkSize:    800,
		ChunkOverlap: 150,
		CacheSize:    16,
	})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestSearchFindsRelevantSection(t *testing.T) {
	idx := newTestIndex(t, writePolicyDir(t))

	passages, err := idx.Search(context.Background(), "paid sick leave medical certificate", 5)
	require.NoError(t, err)
	require.NotEmpty(t, passages)

	assert.Equal(t, "Sick Leave", passages[0].Section)
	assert.Contains(t, passages[0].Text, "30 days")
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	idx := newTestIndex(t, writePolicyDir(t))

	passages, err := idx.Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestSearchNoMatches(t *testing.T) {
	idx := newTestIndex(t, writePolicyDir(t))

	passages, err := idx.Search(context.Background(), "zzzqqqxyzzy", 5)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestSearchResultsAreCached(t *testing.T) {
	idx := newTestIndex(t, writePolicyDir(t))

	first, err := idx.Search(context.Background(), "annual leave", 3)
	require.NoError(t, err)
	second, err := idx.Search(context.Background(), "annual leave", 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(model.IndexConfig{DocsDir: filepath.Join(t.TempDir(), "absent")})
	assert.Error(t, err)
}

func TestSplitSections(t *testing.T) {
	sections := splitSections(samplePolicy, "hr_policies")
	require.Len(t, sections, 3)
	assert.Equal(t, "Employee Handbook", sections[0].title)
	assert.Equal(t, "Sick Leave", sections[1].title)
	assert.Equal(t, "Annual Leave", sections[2].title)
	assert.Contains(t, sections[1].body, "medical")
}

func TestSplitSectionsNoHeadings(t *testing.T) {
	sections := splitSections("plain text without headings", "fallback")
	require.Len(t, sections, 1)
	assert.Equal(t, "fallback", sections[0].title)
}

func TestChunkTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 20) // 200 runes
	chunks := chunkText(text, 100, 20)

	require.True(t, len(chunks) >= 2)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 100)
	}
	// Consecutive chunks share the overlap region.
	tail := chunks[0][len(chunks[0])-20:]
	assert.True(t, strings.HasPrefix(chunks[1], tail))
}

func TestChunkTextShortInput(t *testing.T) {
	chunks := chunkText("short", 100, 20)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0])
}
