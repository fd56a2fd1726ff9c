package brainfuck

const (
	DEBUG = false

	// DefaultCellCount is the classic 30000 cell tape.
	DefaultCellCount uint = 30000
)
