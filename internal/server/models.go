package server

import "fmt"

// SummarizeRequest is the POST /summarize body. Row values arrive as
// arbitrary JSON scalars; they are coerced to strings before loading.
type SummarizeRequest struct {
	Headers          []string          `json:"headers"`
	Rows             [][]interface{}   `json:"rows"`
	QuestionShortMap map[string]string `json:"questionShortMap"`
}

// StringRows coerces every cell to text: nil becomes the empty string,
// everything else its default formatting.
func (r SummarizeRequest) StringRows() [][]string {
	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			switch t := v.(type) {
			case nil:
				cells[j] = ""
			case string:
				cells[j] = t
			default:
				cells[j] = fmt.Sprint(t)
			}
		}
		rows[i] = cells
	}
	return rows
}
