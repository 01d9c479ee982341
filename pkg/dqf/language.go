package dqf

// Language is a locale code optionally hydrated with its remote enumeration
// id and display name.
type Language struct {
	Code string
	ID   int64
	Name string
}

// NewLanguage returns an unhydrated language for code.
func NewLanguage(code string) *Language {
	return &Language{Code: code}
}

// AttributeKey returns the key used to resolve the language.
func (l *Language) AttributeKey() string {
	return l.Code
}

// Hydrate records the resolved remote id and display name.
func (l *Language) Hydrate(id int64, name string) {
	l.ID = id
	l.Name = name
}

// IsHydrated reports whether the language carries a remote id.
func (l *Language) IsHydrated() bool {
	return l.ID != 0
}
