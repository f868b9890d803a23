package layout

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topowatch/internal/domain"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		count int
		want  Grid
	}{
		{1, Grid{Rows: 1, Cols: 1}},
		{2, Grid{Rows: 2, Cols: 1}},
		{3, Grid{Rows: 3, Cols: 1}},
		{4, Grid{Rows: 2, Cols: 2}},
		{5, Grid{Rows: 3, Cols: 2}},
		{6, Grid{Rows: 3, Cols: 2}},
		{9, Grid{Rows: 3, Cols: 3}},
		{25, Grid{Rows: 5, Cols: 5}},
	}

	for _, tt := range tests {
		got, err := Allocate(tt.count, DefaultMaxSide)
		require.NoError(t, err, "count %d", tt.count)
		assert.Equal(t, tt.want, got, "count %d", tt.count)
	}
}

func TestAllocateEdgeCases(t *testing.T) {
	t.Run("zero topologies need no grid", func(t *testing.T) {
		g, err := Allocate(0, DefaultMaxSide)
		require.NoError(t, err)
		assert.Equal(t, 0, g.Cells())
	})

	t.Run("overflow falls back to the largest bounded grid", func(t *testing.T) {
		g, err := Allocate(26, DefaultMaxSide)
		assert.True(t, errors.Is(err, domain.ErrLayoutOverflow))
		assert.Equal(t, Grid{Rows: 5, Cols: 5}, g)
	})

	t.Run("bound is configurable", func(t *testing.T) {
		g, err := Allocate(30, 6)
		require.NoError(t, err)
		assert.Equal(t, Grid{Rows: 6, Cols: 5}, g, "fewer columns win the tie")
	})

	t.Run("non-positive bound uses the default", func(t *testing.T) {
		g, err := Allocate(25, 0)
		require.NoError(t, err)
		assert.Equal(t, Grid{Rows: 5, Cols: 5}, g)
	})
}

func TestAllocateProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("grid covers count and stays near square", prop.ForAll(
		func(count int) bool {
			g, err := Allocate(count, DefaultMaxSide)
			if err != nil {
				return false
			}
			return g.Cells() >= count && abs(g.Rows-g.Cols) <= 2
		},
		gen.IntRange(1, 25),
	))

	properties.Property("no smaller grid within the bound would fit", prop.ForAll(
		func(count int) bool {
			g, _ := Allocate(count, DefaultMaxSide)
			for r := 1; r <= DefaultMaxSide; r++ {
				for c := 1; c <= DefaultMaxSide; c++ {
					if abs(r-c) <= 2 && r*c >= count && r*c < g.Cells() {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 25),
	))

	properties.TestingRun(t)
}

func TestViewports(t *testing.T) {
	t.Run("fills rows left to right", func(t *testing.T) {
		vps := Viewports(Grid{Rows: 3, Cols: 2}, 5, 200, 300)
		require.Len(t, vps, 5)

		assert.Equal(t, domain.Viewport{Index: 0, Row: 0, Col: 0, X: 0, Y: 0, Width: 100, Height: 100, Visible: true}, vps[0])
		assert.Equal(t, domain.Viewport{Index: 3, Row: 1, Col: 1, X: 100, Y: 100, Width: 100, Height: 100, Visible: true}, vps[3])
		assert.Equal(t, 2, vps[4].Row)
	})

	t.Run("overflowing topologies are hidden", func(t *testing.T) {
		vps := Viewports(Grid{Rows: 1, Cols: 1}, 2, 100, 100)
		assert.True(t, vps[0].Visible)
		assert.False(t, vps[1].Visible)
	})

	t.Run("empty grid yields hidden viewports", func(t *testing.T) {
		vps := Viewports(Grid{}, 1, 100, 100)
		assert.False(t, vps[0].Visible)
	})
}
