package adsb

import (
	"sort"
	"strconv"
	"strings"

	"modes1090/internal/frame"
)

// NIC is a navigation integrity category. Some type codes only narrow the
// category down to a few candidates; the NIC supplement bits that would
// settle it are not decoded, so such values stay ambiguous.
type NIC struct {
	candidates []int
}

// DefiniteNIC returns a NIC with a single known value
func DefiniteNIC(v int) NIC {
	return NIC{candidates: []int{v}}
}

// AmbiguousNIC returns a NIC that is one of the candidates. Candidates are
// kept in descending order.
func AmbiguousNIC(candidates ...int) NIC {
	c := append([]int(nil), candidates...)
	sort.Sort(sort.Reverse(sort.IntSlice(c)))
	return NIC{candidates: c}
}

// Ambiguous reports whether more than one category is possible
func (n NIC) Ambiguous() bool {
	return len(n.candidates) > 1
}

// Value returns the category when it is definite
func (n NIC) Value() (int, bool) {
	if len(n.candidates) != 1 {
		return 0, false
	}
	return n.candidates[0], true
}

// Candidates returns every possible category, highest first
func (n NIC) Candidates() []int {
	return append([]int(nil), n.candidates...)
}

// String renders "11" or "9 or 8"
func (n NIC) String() string {
	parts := make([]string, len(n.candidates))
	for i, c := range n.candidates {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, " or ")
}

var nicByTypeCode = map[uint8]NIC{
	0:  DefiniteNIC(0),
	5:  DefiniteNIC(11),
	6:  DefiniteNIC(10),
	7:  AmbiguousNIC(9, 8),
	8:  AmbiguousNIC(7, 6, 0),
	20: DefiniteNIC(11),
	21: DefiniteNIC(10),
	22: DefiniteNIC(0),
}

var nicTypeCodes = []uint8{0, 5, 6, 7, 8, 20, 21, 22}

// NICValue returns the navigation integrity category implied by the type
// code of a DF 17 frame. Type codes 0, 5-8 and 20-22 are supported.
func NICValue(f frame.Frame) (NIC, error) {
	tc, err := TypeCode(f)
	if err != nil {
		return NIC{}, err
	}

	nic, ok := nicByTypeCode[tc]
	if !ok {
		return NIC{}, unsupported("navigation integrity category", tc, nicTypeCodes...)
	}

	return AmbiguousNIC(nic.candidates...), nil
}
