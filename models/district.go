package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// District is one of the eleven administrative districts of Guangzhou.
type District int

const (
	Yuexiu District = iota
	Liwan
	Haizhu
	Tianhe
	Baiyun
	Huangpu
	Panyu
	Huadu
	Nansha
	Conghua
	Zengcheng
)

// DistrictCount is the number of districts covered by the statistics.
const DistrictCount = 11

var districtNames = [DistrictCount]struct {
	native  string
	display string
}{
	{"越秀区", "Yuexiu"},
	{"荔湾区", "Liwan"},
	{"海珠区", "Haizhu"},
	{"天河区", "Tianhe"},
	{"白云区", "Baiyun"},
	{"黄埔区", "Huangpu"},
	{"番禺区", "Panyu"},
	{"花都区", "Huadu"},
	{"南沙区", "Nansha"},
	{"从化区", "Conghua"},
	{"增城区", "Zengcheng"},
}

// AllDistricts returns every district in publication order.
func AllDistricts() []District {
	out := make([]District, DistrictCount)
	for i := range out {
		out[i] = District(i)
	}
	return out
}

func (d District) Valid() bool { return d >= 0 && int(d) < DistrictCount }

// String returns the display name used in exported tables.
func (d District) String() string {
	if !d.Valid() {
		return fmt.Sprintf("District(%d)", int(d))
	}
	return districtNames[d].display
}

// Native returns the district name as printed on the government site.
func (d District) Native() string {
	if !d.Valid() {
		return ""
	}
	return districtNames[d].native
}

// ParseDistrict resolves either the native or the display name.
func ParseDistrict(name string) (District, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	for i, n := range districtNames {
		if name == n.native || strings.EqualFold(name, n.display) {
			return District(i), nil
		}
	}
	return -1, fmt.Errorf("unknown district %q", name)
}
