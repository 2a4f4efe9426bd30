package excel

// RawData is a sheet as read: trimmed headers and rows padded to header width
type RawData struct {
	Headers []string
	Rows    [][]string
}
