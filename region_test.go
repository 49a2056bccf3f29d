package xltrans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustArea(t *testing.T, s string) AreaRef {
	t.Helper()
	a, err := ParseAreaRef(s)
	require.NoError(t, err)
	return a
}

func mustRef(t *testing.T, s string) CellRef {
	t.Helper()
	r, err := ParseCellRef(s)
	require.NoError(t, err)
	return r
}

func TestRegionIndex_Empty(t *testing.T) {
	idx := BuildRegionIndex(nil)
	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.Covered(mustRef(t, "A1")))
	assert.True(t, idx.IsMaster(mustRef(t, "A1")))
	_, ok := idx.MasterOf(mustRef(t, "A1"))
	assert.False(t, ok)
}

func TestRegionIndex_SingleRegion(t *testing.T) {
	idx := BuildRegionIndex([]AreaRef{mustArea(t, "B2:C4")})
	assert.Equal(t, 6, idx.Len())

	for _, cell := range []string{"B2", "C2", "B3", "C3", "B4", "C4"} {
		ref := mustRef(t, cell)
		assert.True(t, idx.Covered(ref), cell)
		master, ok := idx.MasterOf(ref)
		require.True(t, ok, cell)
		assert.Equal(t, "B2", master.CellName(), cell)
	}

	assert.True(t, idx.IsMaster(mustRef(t, "B2")))
	assert.False(t, idx.IsMaster(mustRef(t, "C2")))
	assert.False(t, idx.IsMaster(mustRef(t, "B4")))
	assert.True(t, idx.IsMaster(mustRef(t, "D4")), "outside the region")
	assert.False(t, idx.Covered(mustRef(t, "A1")))
}

func TestRegionIndex_MasterIsIdempotent(t *testing.T) {
	idx := BuildRegionIndex([]AreaRef{mustArea(t, "A1:B2"), mustArea(t, "D5:F5")})
	for _, cell := range []string{"A1", "B1", "A2", "B2", "D5", "E5", "F5"} {
		m1, ok := idx.MasterOf(mustRef(t, cell))
		require.True(t, ok)
		m2, ok := idx.MasterOf(m1)
		require.True(t, ok)
		assert.Equal(t, m1, m2, cell)
	}
}

func TestRegionIndex_MasterKeepsSheet(t *testing.T) {
	idx := BuildRegionIndex([]AreaRef{mustArea(t, "Data!A1:B2")})
	master, ok := idx.MasterOf(mustRef(t, "Data!B2"))
	require.True(t, ok)
	assert.Equal(t, "Data!A1", master.String())
}

func TestRegionIndex_OverlapLastRegionWins(t *testing.T) {
	idx := BuildRegionIndex([]AreaRef{mustArea(t, "A1:B2"), mustArea(t, "B2:C3")})

	master, ok := idx.MasterOf(mustRef(t, "B2"))
	require.True(t, ok)
	assert.Equal(t, "B2", master.CellName())
	assert.True(t, idx.IsMaster(mustRef(t, "B2")))

	master, ok = idx.MasterOf(mustRef(t, "B1"))
	require.True(t, ok)
	assert.Equal(t, "A1", master.CellName())

	overlaps := idx.Overlaps()
	require.Len(t, overlaps, 1)
	assert.Equal(t, "B2", overlaps[0].Ref.CellName())
	assert.Len(t, overlaps[0].Regions, 2)
}

func TestRegionIndex_OverlapsRowMajor(t *testing.T) {
	idx := BuildRegionIndex([]AreaRef{mustArea(t, "A1:C3"), mustArea(t, "B2:D4")})
	var cells []string
	for _, ov := range idx.Overlaps() {
		cells = append(cells, ov.Ref.CellName())
	}
	assert.Equal(t, []string{"B2", "C2", "B3", "C3"}, cells)
}

func TestRegionIndex_NoOverlaps(t *testing.T) {
	idx := BuildRegionIndex([]AreaRef{mustArea(t, "A1:B2"), mustArea(t, "C1:D2")})
	assert.Empty(t, idx.Overlaps())
}
