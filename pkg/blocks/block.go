package blocks

import "fmt"

// Roi is an n-dimensional region of interest in voxel coordinates.
type Roi struct {
	Offset []int64 `cbor:"offset"`
	Shape  []int64 `cbor:"shape"`
}

// Size returns the number of voxels covered by the region.
func (r Roi) Size() int64 {
	if len(r.Shape) == 0 {
		return 0
	}
	size := int64(1)
	for _, s := range r.Shape {
		size *= s
	}
	return size
}

// End returns the exclusive upper bound of the region per dimension.
func (r Roi) End() []int64 {
	end := make([]int64, len(r.Offset))
	for i := range r.Offset {
		end[i] = r.Offset[i] + r.Shape[i]
	}
	return end
}

func (r Roi) String() string {
	return fmt.Sprintf("%v+%v", r.Offset, r.Shape)
}

// Block is a unit of work assigned by the scheduler. The read region is a
// superset of the write region to provide context for processing. A block has
// a single owner at a time: it belongs to the caller between acquire and
// release.
type Block struct {
	BlockID  int64 `cbor:"block_id"`
	ReadRoi  Roi   `cbor:"read_roi"`
	WriteRoi Roi   `cbor:"write_roi"`
}

func (b *Block) String() string {
	return fmt.Sprintf("block %d (read %s, write %s)", b.BlockID, b.ReadRoi, b.WriteRoi)
}
