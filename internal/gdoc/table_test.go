package gdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/docs/v1"
)

func TestTableDims(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		r, c int
	}{
		{"square", [][]string{{"a", "b"}, {"c", "d"}}, 2, 2},
		{"ragged takes max", [][]string{{"a"}, {"b", "c", "d"}}, 2, 3},
		{"single", [][]string{{"x"}}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := tableDims(tt.rows)
			assert.Equal(t, tt.r, r)
			assert.Equal(t, tt.c, c)
		})
	}
}

// buildTable lays out an empty nRows x nCols table starting at base, with
// each cell spanning two indices (cell boundary plus its empty paragraph),
// mirroring the shape the Docs API reports after InsertTable.
func buildTable(base int64, nRows, nCols int) *docs.Table {
	table := &docs.Table{}
	idx := base + 1 // first row starts one past the table element
	for r := 0; r < nRows; r++ {
		row := &docs.TableRow{StartIndex: idx}
		idx++
		for c := 0; c < nCols; c++ {
			row.TableCells = append(row.TableCells, &docs.TableCell{
				StartIndex: idx,
				EndIndex:   idx + 2,
			})
			idx += 2
		}
		row.EndIndex = idx
		table.TableRows = append(table.TableRows, row)
	}
	return table
}

func TestFindTableAt(t *testing.T) {
	doc := &docs.Document{Body: &docs.Body{Content: []*docs.StructuralElement{
		{StartIndex: 1, EndIndex: 5, Paragraph: &docs.Paragraph{}},
		{StartIndex: 5, EndIndex: 20, Table: buildTable(5, 1, 1)},
		{StartIndex: 30, EndIndex: 50, Table: buildTable(30, 2, 2)},
	}}}

	assert.Same(t, doc.Body.Content[1].Table, findTableAt(doc, 1))
	assert.Same(t, doc.Body.Content[1].Table, findTableAt(doc, 5))
	assert.Same(t, doc.Body.Content[2].Table, findTableAt(doc, 6))
	assert.Nil(t, findTableAt(doc, 100))
	assert.Nil(t, findTableAt(&docs.Document{}, 0))
}

func TestCellFillRequestsReverseOrder(t *testing.T) {
	table := buildTable(10, 2, 2)
	reqs := cellFillRequests(table, [][]string{{"A", "B"}, {"C", "D"}})
	require.Len(t, reqs, 4)
	var texts []string
	for i, r := range reqs {
		require.NotNil(t, r.InsertText, "request %d", i)
		texts = append(texts, r.InsertText.Text)
		if i > 0 {
			assert.Less(t, r.InsertText.Location.Index, reqs[i-1].InsertText.Location.Index,
				"fill offsets must strictly descend")
		}
	}
	assert.Equal(t, []string{"D", "C", "B", "A"}, texts)
}

func TestCellFillRequestsSkipsEmptyAndMissing(t *testing.T) {
	table := buildTable(10, 2, 3)
	// Ragged source: row 0 has only two cells, one of them empty.
	reqs := cellFillRequests(table, [][]string{{"a", ""}, {"x", "y", "z"}})
	require.Len(t, reqs, 4)
	assert.Equal(t, "z", reqs[0].InsertText.Text)
	assert.Equal(t, "a", reqs[3].InsertText.Text)
}

// Replaying the emitted fill batch sequentially against offsets that shift
// forward after each insertion must land every value in its intended cell.
func TestCellFillReplaySimulation(t *testing.T) {
	rows := [][]string{{"A", "B"}, {"C", "D"}}
	table := buildTable(7, 2, 2)
	reqs := cellFillRequests(table, rows)

	type cell struct {
		r, c  int
		start int64
	}
	var cells []cell
	for r, row := range table.TableRows {
		for c, tc := range row.TableCells {
			cells = append(cells, cell{r, c, tc.StartIndex})
		}
	}

	landed := map[[2]int]string{}
	for _, req := range reqs {
		require.NotNil(t, req.InsertText)
		at := req.InsertText.Location.Index
		text := req.InsertText.Text

		hit := -1
		for i, cl := range cells {
			if cl.start+1 == at {
				hit = i
				break
			}
		}
		require.GreaterOrEqual(t, hit, 0, "insert at %d does not address any cell", at)
		landed[[2]int{cells[hit].r, cells[hit].c}] = text

		// The committed insertion shifts every later cell forward.
		for i := range cells {
			if cells[i].start > cells[hit].start {
				cells[i].start += int64(len(text))
			}
		}
	}

	for r, row := range rows {
		for c, want := range row {
			assert.Equal(t, want, landed[[2]int{r, c}], "cell %d,%d", r, c)
		}
	}
}

func TestHeaderBoldRequests(t *testing.T) {
	table := buildTable(10, 2, 2)
	// Pretend the header cells were filled with one character each.
	for _, cell := range table.TableRows[0].TableCells {
		cell.EndIndex++
	}
	reqs := headerBoldRequests(table)
	require.Len(t, reqs, 2)
	for _, r := range reqs {
		require.NotNil(t, r.UpdateTextStyle)
		assert.Equal(t, "bold", r.UpdateTextStyle.Fields)
		assert.True(t, r.UpdateTextStyle.TextStyle.Bold)
		assert.Less(t, r.UpdateTextStyle.Range.StartIndex, r.UpdateTextStyle.Range.EndIndex)
	}
}

func TestHeaderBoldRequestsSkipsEmptyCells(t *testing.T) {
	// Empty cells (start+1 == end-1) produce no bold request.
	assert.Nil(t, headerBoldRequests(buildTable(10, 1, 2)))
	assert.Nil(t, headerBoldRequests(&docs.Table{}))
}
