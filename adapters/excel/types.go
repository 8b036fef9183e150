package excel

// RawData is a sheet read as text: a header row and the data rows under it
type RawData struct {
	Headers []string
	Rows    [][]string
}
