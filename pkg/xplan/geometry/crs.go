package geometry

import (
	"fmt"
	"regexp"
	"strings"
)

// CRS identifies a coordinate reference system by authority and code, e.g. EPSG:25832
type CRS struct {
	Authority string
	Code      string
}

func (c CRS) String() string {
	if c.IsZero() {
		return ""
	}
	return c.Authority + ":" + c.Code
}

func (c CRS) IsZero() bool {
	return c.Authority == "" && c.Code == ""
}

var (
	shortCRS = regexp.MustCompile(`^([A-Za-z]+):(\d+)$`)
	urnCRS   = regexp.MustCompile(`^urn:(?:x-)?ogc:def:crs:([A-Za-z]+):[^:]*:(\d+)$`)
	httpCRS  = regexp.MustCompile(`^https?://www\.opengis\.net/def/crs/([A-Za-z]+)/[^/]+/(\d+)$`)
)

// ParseCRS accepts the short AUTHORITY:CODE form as well as the OGC urn and
// http forms of a CRS identifier
func ParseCRS(s string) (CRS, error) {
	s = strings.TrimSpace(s)
	for _, re := range []*regexp.Regexp{shortCRS, urnCRS, httpCRS} {
		if m := re.FindStringSubmatch(s); m != nil {
			return CRS{Authority: strings.ToUpper(m[1]), Code: m[2]}, nil
		}
	}
	return CRS{}, fmt.Errorf("unsupported crs identifier %q", s)
}

func EPSG(code int) CRS {
	return CRS{Authority: "EPSG", Code: fmt.Sprintf("%d", code)}
}
