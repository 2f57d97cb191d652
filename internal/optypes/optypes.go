// Package optypes defines OpType and lists the structured operations covered
// by the verifier.
package optypes

import "fmt"

// OpType is an enum of the structured operation kinds. It is a closed set:
// verification and shape inference switch over these tags and share their
// helpers as free functions.
type OpType int

const (
	Invalid OpType = iota

	Scatter
	Sort
	Fft
	Scan
	Reverse
	Topk
	Pack
	UnPack
	WinogradInputTransform
	WinogradFilterTransform
	WinogradOutputTransform
	Attention

	// Last should always be kept the last, it is used as a counter/marker.
	Last
)

var opTypeNames = [...]string{
	Invalid:                 "Invalid",
	Scatter:                 "Scatter",
	Sort:                    "Sort",
	Fft:                     "Fft",
	Scan:                    "Scan",
	Reverse:                 "Reverse",
	Topk:                    "Topk",
	Pack:                    "Pack",
	UnPack:                  "UnPack",
	WinogradInputTransform:  "WinogradInputTransform",
	WinogradFilterTransform: "WinogradFilterTransform",
	WinogradOutputTransform: "WinogradOutputTransform",
	Attention:               "Attention",
}

// String implements fmt.Stringer.
func (op OpType) String() string {
	if op < Invalid || op >= Last {
		return fmt.Sprintf("OpType(%d)", int(op))
	}
	return opTypeNames[op]
}
