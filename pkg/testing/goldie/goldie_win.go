//go:build windows

package goldie

import "bytes"

// golden files are checked in with unix line endings
func normalize(actual []byte) []byte {
	return bytes.ReplaceAll(actual, []byte("\r\n"), []byte("\n"))
}
