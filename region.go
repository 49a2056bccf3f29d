package xltrans

import "sort"

// RegionIndex maps every coordinate covered by a merged region to the master
// (top-left) coordinate of that region. Coordinates outside every region are
// not recorded and are their own master.
//
// Keys ignore the sheet name; an index is built for exactly one sheet.
type RegionIndex struct {
	covered  map[CellRef]struct{}
	masterOf map[CellRef]CellRef
	claims   map[CellRef][]AreaRef
}

// Overlap describes a coordinate claimed by more than one merged region.
type Overlap struct {
	Ref     CellRef
	Regions []AreaRef
}

// BuildRegionIndex enumerates every region's rectangle. When regions
// overlap, the region that appears later in the input wins the shared
// coordinates.
func BuildRegionIndex(regions []AreaRef) *RegionIndex {
	idx := &RegionIndex{
		covered:  make(map[CellRef]struct{}),
		masterOf: make(map[CellRef]CellRef),
		claims:   make(map[CellRef][]AreaRef),
	}
	for _, region := range regions {
		master := region.First.Coord()
		for _, ref := range region.Cells() {
			key := ref.Coord()
			idx.covered[key] = struct{}{}
			idx.masterOf[key] = master
			idx.claims[key] = append(idx.claims[key], region)
		}
	}
	return idx
}

// Covered reports whether ref lies inside any merged region.
func (idx *RegionIndex) Covered(ref CellRef) bool {
	_, ok := idx.covered[ref.Coord()]
	return ok
}

// MasterOf returns the master coordinate of the region covering ref.
// The returned ref carries the sheet name of the argument.
func (idx *RegionIndex) MasterOf(ref CellRef) (CellRef, bool) {
	master, ok := idx.masterOf[ref.Coord()]
	if !ok {
		return CellRef{}, false
	}
	master.Sheet = ref.Sheet
	return master, true
}

// IsMaster reports whether ref is read and written by the pipeline: either
// it is outside every region, or it is its region's master.
func (idx *RegionIndex) IsMaster(ref CellRef) bool {
	master, ok := idx.MasterOf(ref)
	if !ok {
		return true
	}
	return master.Row == ref.Row && master.Col == ref.Col
}

// Len returns the number of covered coordinates.
func (idx *RegionIndex) Len() int {
	return len(idx.covered)
}

// Overlaps lists coordinates claimed by two or more regions, in row-major
// order.
func (idx *RegionIndex) Overlaps() []Overlap {
	var out []Overlap
	for ref, regions := range idx.claims {
		if len(regions) > 1 {
			out = append(out, Overlap{Ref: ref, Regions: regions})
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessRef(out[i].Ref, out[j].Ref) })
	return out
}

func lessRef(a, b CellRef) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}
