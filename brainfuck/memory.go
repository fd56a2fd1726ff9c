package brainfuck

// FixedTape is a preallocated row of cells. The pointer wraps modulo the cell
// count and is always in [0, len(cells)).
type FixedTape struct {
	cells []byte
	ptr   int
}

func NewFixedTape(cellCount uint) *FixedTape {
	if cellCount == 0 {
		cellCount = DefaultCellCount
	}
	return &FixedTape{
		cells: make([]byte, cellCount),
	}
}

func (t *FixedTape) Kind() TapeKind { return FixedTapeKind }

func (t *FixedTape) index(offset int) int {
	n := len(t.cells)
	i := (t.ptr + offset%n) % n
	if i < 0 {
		i += n
	}
	return i
}

func (t *FixedTape) Get() byte          { return t.cells[t.ptr] }
func (t *FixedTape) Set(v byte)         { t.cells[t.ptr] = v }
func (t *FixedTape) Add(delta int)      { t.cells[t.ptr] += byte(delta) }
func (t *FixedTape) Move(delta int)     { t.ptr = t.index(delta) }
func (t *FixedTape) GetAt(off int) byte { return t.cells[t.index(off)] }

func (t *FixedTape) AddAt(off int, delta int) {
	t.cells[t.index(off)] += byte(delta)
}

func (t *FixedTape) Position() int { return t.ptr }

func (t *FixedTape) Seek(pos int) {
	t.ptr = 0
	t.ptr = t.index(pos)
}

// Cells exposes the backing store. Native code addresses it directly.
func (t *FixedTape) Cells() []byte { return t.cells }

func (t *FixedTape) Reset() {
	for i := range t.cells {
		t.cells[i] = 0
	}
	t.ptr = 0
}

// GrowableTape materialises cells lazily in both directions. cells[i] holds
// logical position origin+i; positions outside that window read as zero.
type GrowableTape struct {
	cells  []byte
	origin int
	ptr    int
}

func NewGrowableTape(initial uint) *GrowableTape {
	return &GrowableTape{
		cells: make([]byte, initial),
	}
}

func (t *GrowableTape) Kind() TapeKind { return GrowableTapeKind }

func (t *GrowableTape) read(pos int) byte {
	i := pos - t.origin
	if i < 0 || i >= len(t.cells) {
		return 0
	}
	return t.cells[i]
}

func (t *GrowableTape) slot(pos int) int {
	t.Reserve(pos, pos)
	return pos - t.origin
}

func (t *GrowableTape) Get() byte          { return t.read(t.ptr) }
func (t *GrowableTape) Set(v byte)         { t.cells[t.slot(t.ptr)] = v }
func (t *GrowableTape) Add(delta int)      { t.cells[t.slot(t.ptr)] += byte(delta) }
func (t *GrowableTape) Move(delta int)     { t.ptr += delta }
func (t *GrowableTape) GetAt(off int) byte { return t.read(t.ptr + off) }

func (t *GrowableTape) AddAt(off int, delta int) {
	t.cells[t.slot(t.ptr+off)] += byte(delta)
}

func (t *GrowableTape) Position() int { return t.ptr }
func (t *GrowableTape) Seek(pos int)  { t.ptr = pos }

// Reserve materialises every logical position in [lo, hi]. The window at
// least doubles on each growth so repeated single steps stay cheap.
func (t *GrowableTape) Reserve(lo, hi int) {
	if lo < t.origin {
		need := t.origin - lo
		if need < len(t.cells) {
			need = len(t.cells)
		}
		grown := make([]byte, len(t.cells)+need)
		copy(grown[need:], t.cells)
		t.cells = grown
		t.origin -= need
	}
	if end := t.origin + len(t.cells); hi >= end {
		need := hi - end + 1
		if need < len(t.cells) {
			need = len(t.cells)
		}
		t.cells = append(t.cells, make([]byte, need)...)
	}
}

// Cells returns the materialised window; Origin is the logical position of
// its first cell.
func (t *GrowableTape) Cells() []byte { return t.cells }
func (t *GrowableTape) Origin() int   { return t.origin }

func (t *GrowableTape) Reset() {
	for i := range t.cells {
		t.cells[i] = 0
	}
	t.ptr = 0
}
