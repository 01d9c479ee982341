package attributes

// Record is one enumeration entry.
type Record struct {
	Kind Kind   `json:"-" yaml:"kind"`
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// Code is the locale code of a language; empty for other kinds.
	Code string `json:"localeCode,omitempty" yaml:"code,omitempty"`
}

// Key returns the value callers resolve the record by.
func (r Record) Key() string {
	if r.Kind.matchesCode() {
		return r.Code
	}
	return r.Name
}

// Hydratable is a domain object that receives a resolved id and display name.
type Hydratable interface {
	AttributeKey() string
	Hydrate(id int64, name string)
}
