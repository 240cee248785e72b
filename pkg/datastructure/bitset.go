package datastructure

// BitSet fixed-size membership set, one bit per id. Used as the closed set
// of a single search: Set is idempotent, bits are only cleared in bulk by
// Reset at the start of the next search.
type BitSet struct {
	bits []uint8
}

func NewBitSet(size int32) *BitSet {
	return &BitSet{
		bits: make([]uint8, (size+7)>>3),
	}
}

func (b *BitSet) Set(id int32) {
	b.bits[id>>3] |= 1 << (id & 7)
}

func (b *BitSet) Has(id int32) bool {
	return b.bits[id>>3]&(1<<(id&7)) != 0
}

// Reset clear every bit. Linear memory fill, run once per search.
func (b *BitSet) Reset() {
	for i := range b.bits {
		b.bits[i] = 0
	}
}
