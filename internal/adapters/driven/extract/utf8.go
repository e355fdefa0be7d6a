package extract

import "strings"

// decodeUTF8 drops invalid UTF-8 sequences.
func decodeUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}
