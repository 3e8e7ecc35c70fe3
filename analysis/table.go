package analysis

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//Table is a result made of columns of numbers, with some comments describing it.
type Table struct {
	Comments []string
	Labels   []string
	Columns  [][]float64
}

func newTable(labels ...string) *Table {
	return &Table{Labels: labels, Columns: make([][]float64, len(labels))}
}

//Comment adds a comment line to the table.
func (T *Table) Comment(format string, args ...interface{}) {
	T.Comments = append(T.Comments, fmt.Sprintf(format, args...))
}

//Column returns the column with the given label, or nil.
func (T *Table) Column(label string) []float64 {
	for i, v := range T.Labels {
		if v == label {
			return T.Columns[i]
		}
	}
	return nil
}

//Rows returns the number of rows in the table.
func (T *Table) Rows() int {
	if len(T.Columns) == 0 {
		return 0
	}
	return len(T.Columns[0])
}

//Write writes the comments, preceded by '#', then the column labels and the
//data, one row per line, with the columns separated by spaces.
func (T *Table) Write(w io.Writer) error {
	b := bufio.NewWriter(w)
	for _, c := range T.Comments {
		fmt.Fprintf(b, "# %s\n", c)
	}
	if len(T.Labels) > 0 {
		fmt.Fprintf(b, "# %s\n", strings.Join(T.Labels, " "))
	}
	for i := 0; i < T.Rows(); i++ {
		for j, col := range T.Columns {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(col[i], 'g', 8, 64))
		}
		b.WriteByte('\n')
	}
	return b.Flush()
}
