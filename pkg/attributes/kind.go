package attributes

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// Kind is an enumeration family, named as in the remote aggregate.
type Kind string

const (
	Language      Kind = "language"
	Severity      Kind = "severity"
	MTEngine      Kind = "mtEngine"
	Process       Kind = "process"
	ContentType   Kind = "contentType"
	SegmentOrigin Kind = "segmentOrigin"
	CATTool       Kind = "catTool"
	Industry      Kind = "industry"
	ErrorCategory Kind = "errorCategory"
	QualityLevel  Kind = "qualitylevel"
)

// Kinds lists every known kind.
var Kinds = []Kind{
	Language,
	Severity,
	MTEngine,
	Process,
	ContentType,
	SegmentOrigin,
	CATTool,
	Industry,
	ErrorCategory,
	QualityLevel,
}

// ParseKind accepts a kind in any common casing: "mt-engine", "mt_engine",
// "MtEngine" and "mtEngine" all name MTEngine.
func ParseKind(s string) (Kind, error) {
	normalized := strings.ToLower(strcase.ToLowerCamel(s))
	for _, k := range Kinds {
		if strings.ToLower(string(k)) == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown attribute kind %q", s)
}

// matchesCode reports whether kind is keyed by a code rather than a name.
func (k Kind) matchesCode() bool {
	return k == Language
}
