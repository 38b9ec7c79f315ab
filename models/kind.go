package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind says which stock or flow a record belongs to.
type Kind int

const (
	ForSale Kind = iota
	Unsold
	Signed
)

// KindCount is the number of snapshot kinds.
const KindCount = 3

var kindNames = [KindCount]struct {
	native  string
	display string
}{
	{"可售信息", "For Sale"},
	{"未售信息", "Unsold"},
	{"签约信息", "Signed"},
}

// AllKinds returns the kinds in output order.
func AllKinds() []Kind { return []Kind{ForSale, Unsold, Signed} }

func (k Kind) Valid() bool { return k >= 0 && int(k) < KindCount }

// IsStock reports whether the kind is a standing inventory (averaged monthly)
// rather than a flow (summed monthly).
func (k Kind) IsStock() bool { return k == ForSale || k == Unsold }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k].display
}

// Native returns the section name used on the government site and in workbooks.
func (k Kind) Native() string {
	if !k.Valid() {
		return ""
	}
	return kindNames[k].native
}

// ParseKind resolves either the native or the display name.
func ParseKind(name string) (Kind, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	for i, n := range kindNames {
		if name == n.native || strings.EqualFold(name, n.display) {
			return Kind(i), nil
		}
	}
	return -1, fmt.Errorf("unknown data type %q", name)
}
