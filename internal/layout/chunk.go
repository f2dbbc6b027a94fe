package layout

import "fmt"

// MaxClusterSize is the largest number of group keys assigned to one
// combined sheet; it matches the four-panel template capacity.
const MaxClusterSize = 4

// Chunk splits sortedKeys into consecutive clusters of at most maxSize
// keys each, preserving order. The final cluster may be smaller. An
// empty input yields zero clusters. A maxSize below 1 is a programming
// error and panics.
func Chunk(sortedKeys []string, maxSize int) [][]string {
	if maxSize < 1 {
		panic(fmt.Sprintf("layout: chunk size must be >= 1, got %d", maxSize))
	}
	var clusters [][]string
	for start := 0; start < len(sortedKeys); start += maxSize {
		end := start + maxSize
		if end > len(sortedKeys) {
			end = len(sortedKeys)
		}
		clusters = append(clusters, sortedKeys[start:end])
	}
	return clusters
}
