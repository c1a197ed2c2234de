// Package diagnostic defines the single diagnostic record shared by every
// compiler phase: one code+category enum pair instead of a separate
// error type per phase.
package diagnostic

import (
	"fmt"
	"sort"

	"github.com/ButlerSebastian/adl-sub000/internal/location"
)

// Category classifies a Diagnostic for reporting and filtering purposes.
type Category string

const (
	CategorySyntax     Category = "syntax"
	CategorySemantic   Category = "semantic"
	CategoryValidation Category = "validation"
	CategoryType       Category = "type"
)

// Code enumerates every diagnostic code the compiler can emit.
type Code string

const (
	CodeUnexpectedChar  Code = "UNEXPECTED_CHAR"
	CodeUnexpectedToken Code = "UNEXPECTED_TOKEN"
	CodeParseError      Code = "PARSE_ERROR"

	CodeDuplicateType      Code = "DUPLICATE_TYPE"
	CodeDuplicateEnum      Code = "DUPLICATE_ENUM"
	CodeDuplicatePolicyID  Code = "DUPLICATE_POLICY_ID"
	CodeDuplicateNodeID    Code = "DUPLICATE_NODE_ID"
	CodeDuplicateField     Code = "DUPLICATE_FIELD"
	CodeDuplicateEnumValue Code = "DUPLICATE_ENUM_VALUE"

	CodeInvalidTypeReference  Code = "INVALID_TYPE_REFERENCE"
	CodeInvalidConstraint     Code = "INVALID_CONSTRAINT_RANGE"
	CodeInvalidEnumValueName  Code = "INVALID_ENUM_VALUE_NAME"
	CodeInvalidEnumValueType  Code = "INVALID_ENUM_VALUE_TYPE"
	CodeInvalidEnforcMode     Code = "INVALID_ENFORCEMENT_MODE"
	CodeInvalidEnforcAction   Code = "INVALID_ENFORCEMENT_ACTION"
	CodeInvalidEdgeReference  Code = "INVALID_EDGE_REFERENCE"
	CodeCycleDetected         Code = "CYCLE_DETECTED"
	CodeTriggerHasIncoming    Code = "TRIGGER_HAS_INCOMING_EDGE"
	CodeOutputHasOutgoing     Code = "OUTPUT_HAS_OUTGOING_EDGE"
	CodeConditionNeedsBranch  Code = "CONDITION_NEEDS_TWO_BRANCHES"
	CodeStringTooShort        Code = "STRING_TOO_SHORT"
	CodeStringTooLong         Code = "STRING_TOO_LONG"
	CodeInvalidDateTimeFormat Code = "INVALID_DATE_TIME_FORMAT"
	CodeInvalidDateTimePatt   Code = "INVALID_DATE_TIME_PATTERN"
	CodeMissingDefaultAllow   Code = "MISSING_DEFAULT_ALLOW"
	CodeInvalidSemver         Code = "INVALID_SEMVER"
	CodeCircularImport        Code = "CIRCULAR_IMPORT"

	CodeValidationTerminated Code = "VALIDATION_TERMINATED"
)

// Diagnostic is the single structured record every compiler phase emits.
type Diagnostic struct {
	Code     Code
	Category Category
	Message  string
	Location location.Location
}

// New builds a Diagnostic.
func New(code Code, category Category, loc location.Location, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s [%s]", d.Location, d.Message, d.Code)
}

// criticalCategories are the categories counted toward early termination.
var criticalCategories = map[Category]bool{
	CategorySemantic: true,
	CategoryType:     true,
}

// terminationThreshold is the number of critical diagnostics after which
// the validator stops visiting further nodes.
const terminationThreshold = 10

// Collector accumulates diagnostics in traversal order and enforces the
// critical-error ceiling.
type Collector struct {
	items      []Diagnostic
	critical   int
	terminated bool
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends d unless the collector has already terminated. It returns
// false once termination has occurred, telling the caller to stop
// visiting further nodes.
func (c *Collector) Add(d Diagnostic) bool {
	if c.terminated {
		return false
	}
	c.items = append(c.items, d)
	if criticalCategories[d.Category] {
		c.critical++
		if c.critical >= terminationThreshold {
			c.terminated = true
			c.items = append(c.items, New(CodeValidationTerminated, CategoryValidation, d.Location,
				"validation terminated after %d critical errors", c.critical))
			return false
		}
	}
	return true
}

// Terminated reports whether the critical-error ceiling has been reached.
func (c *Collector) Terminated() bool {
	return c.terminated
}

// All returns every collected diagnostic in traversal order.
func (c *Collector) All() []Diagnostic {
	return c.items
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	return len(c.items)
}

// ByCategory groups diagnostics by category.
func (c *Collector) ByCategory() map[Category][]Diagnostic {
	out := make(map[Category][]Diagnostic)
	for _, d := range c.items {
		out[d.Category] = append(out[d.Category], d)
	}
	return out
}

// Summary is the validator's categorized, cacheable output.
type Summary struct {
	Total      int
	ByCategory map[Category][]Diagnostic
	Terminated bool
	Items      []Diagnostic // every diagnostic, in traversal order
}

// Summarize builds a Summary from the collector's current state.
func (c *Collector) Summarize() Summary {
	return Summary{
		Total:      len(c.items),
		ByCategory: c.ByCategory(),
		Terminated: c.terminated,
		Items:      c.items,
	}
}

// TopN returns the N most-repeated diagnostic messages, most frequent
// first, ties broken by first occurrence order.
func (s Summary) TopN(n int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, d := range s.Items {
		if _, ok := firstSeen[d.Message]; !ok {
			firstSeen[d.Message] = order
			order++
		}
		counts[d.Message]++
	}

	type entry struct {
		message string
		count   int
		first   int
	}
	entries := make([]entry, 0, len(counts))
	for msg, count := range counts {
		entries = append(entries, entry{msg, count, firstSeen[msg]})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].first < entries[j].first
	})

	if n > len(entries) {
		n = len(entries)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = entries[i].message
	}
	return out
}
