package buildcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kieli-lang/kieli/internal/source"
)

func compileOnce(t *testing.T, c *Cache, db *source.Database, path, text string) {
	id := db.OpenDocument(path, text)
	doc := db.Document(id)
	unit := c.Compile(doc)
	require.NotNil(t, unit, "Compile(%s) returned nil unit", path)
}

func TestCacheMetrics(t *testing.T) {
	tests := []struct {
		name       string
		run        func(t *testing.T, c *Cache, db *source.Database)
		wantHits   int
		wantMisses int
	}{
		{
			name: "hits on unchanged text",
			run: func(t *testing.T, c *Cache, db *source.Database) {
				compileOnce(t, c, db, "a.ki", "let x = 1;")
				compileOnce(t, c, db, "a.ki", "let x = 1;")
			},
			wantHits:   1,
			wantMisses: 1,
		},
		{
			name: "misses on changed text",
			run: func(t *testing.T, c *Cache, db *source.Database) {
				compileOnce(t, c, db, "a.ki", "let x = 1;")
				compileOnce(t, c, db, "a.ki", "let x = 2;")
			},
			wantHits:   0,
			wantMisses: 2,
		},
		{
			name: "invalidate forces recompile",
			run: func(t *testing.T, c *Cache, db *source.Database) {
				compileOnce(t, c, db, "a.ki", "let x = 1;")
				c.Invalidate("a.ki")
				compileOnce(t, c, db, "a.ki", "let x = 1;")
			},
			wantHits:   0,
			wantMisses: 2,
		},
		{
			name: "distinct documents do not collide",
			run: func(t *testing.T, c *Cache, db *source.Database) {
				compileOnce(t, c, db, "a.ki", "let x = 1;")
				compileOnce(t, c, db, "b.ki", "let x = 1;")
			},
			wantHits:   0,
			wantMisses: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := source.NewDatabase()
			c := New()
			tt.run(t, c, db)

			assert.Equal(t, tt.wantHits, c.Metrics.Hits, "Hits")
			assert.Equal(t, tt.wantMisses, c.Metrics.Misses, "Misses")
		})
	}
}

func TestCacheHitRate(t *testing.T) {
	t.Run("no requests", func(t *testing.T) {
		var m Metrics
		assert.Equal(t, float64(0), m.HitRate())
	})

	t.Run("one hit one miss", func(t *testing.T) {
		db := source.NewDatabase()
		c := New()
		compileOnce(t, c, db, "a.ki", "let x = 1;")
		compileOnce(t, c, db, "a.ki", "let x = 1;")

		assert.Equal(t, float64(50), c.Metrics.HitRate())
	})
}
