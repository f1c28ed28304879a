package model

// Block is the slice of a Table produced for one entry of the ticker list.
type Block struct {
	Ticker string
	Rows   int
}

// Table is the concatenation of every ticker's adjusted bars, in ticker-list
// order, rows within a block in provider (ascending date) order.
type Table struct {
	Rows   []AdjustedBar
	Blocks []Block
}

// Append adds one ticker block to the end of the table.
func (t *Table) Append(ticker string, rows []AdjustedBar) {
	t.Rows = append(t.Rows, rows...)
	t.Blocks = append(t.Blocks, Block{Ticker: ticker, Rows: len(rows)})
}

// Len returns the total number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// BlockRows returns the rows of the i-th block.
func (t *Table) BlockRows(i int) []AdjustedBar {
	start := 0
	for j := 0; j < i; j++ {
		start += t.Blocks[j].Rows
	}
	return t.Rows[start : start+t.Blocks[i].Rows]
}
