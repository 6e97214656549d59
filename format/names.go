package format

import "github.com/dolthub/swiss"

var nameIndex *swiss.Map[string, PixelFormat]

func init() {
	nameIndex = swiss.NewMap[string, PixelFormat](uint32(Count))
	for f := PixelFormat(0); f < Count; f++ {
		nameIndex.Put(descriptions[f].Name, f)
	}
}

// Lookup resolves a format name as produced by PixelFormat.String back into
// a PixelFormat.
func Lookup(name string) (PixelFormat, bool) {
	return nameIndex.Get(name)
}
