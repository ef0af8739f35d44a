package common

import (
	"github.com/inhies/go-bytesize"
)

// GetSize renders a byte count the way humans read it (e.g. 1.50MB).
func GetSize(sizeVal int64) string {
	size := bytesize.New(float64(sizeVal))
	return size.String()
}
