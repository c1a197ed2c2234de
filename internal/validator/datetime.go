package validator

import (
	"time"

	"github.com/ButlerSebastian/adl-sub000/internal/diagnostic"
	"github.com/ButlerSebastian/adl-sub000/internal/location"
)

// dateTimeLayouts are the accepted literal date/time layouts for a
// Constrained<string> bound, translated one-for-one from the source
// compiler's strptime format list ("%Y-%m-%d", "%Y/%m/%d", "%m/%d/%Y",
// "%d/%m/%Y", "%Y%m%d", "%Y-%m-%d %H:%M:%S", "%Y-%m-%d %H:%M",
// "%Y/%m/%d %H:%M:%S", "%H:%M:%S", "%H:%M") into Go reference-time form.
// A range bound is always a literal value here, never a separate format
// pattern, so only this literal check applies.
var dateTimeLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"20060102",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"15:04:05",
	"15:04",
}

// checkDateTimeBound reports INVALID_DATE_TIME_FORMAT when bound matches
// none of dateTimeLayouts.
func (c *checker) checkDateTimeBound(bound string, loc location.Location) {
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, bound); err == nil {
			return
		}
	}
	c.diags.Add(diagnostic.New(diagnostic.CodeInvalidDateTimeFormat, diagnostic.CategoryValidation, loc,
		"%q does not match any accepted date/time layout", bound))
}
