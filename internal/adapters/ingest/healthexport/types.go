package healthexport

// ElementKind distinguishes scanner events
type ElementKind int

const (
	// Open is a start tag with its attribute bag
	Open ElementKind = iota
	// Close is a matching end tag
	Close
)

// Attrs is an attribute bag keyed by lower-cased attribute name
type Attrs map[string]string

// Get returns the attribute value or "" when absent
func (a Attrs) Get(name string) string { return a[name] }

// Has reports whether the attribute is present and non-empty
func (a Attrs) Has(name string) bool { return a[name] != "" }

// Element is one structural event from the export file
// Name is lower-cased; Attrs is nil for Close events
type Element struct {
	Kind  ElementKind
	Name  string
	Attrs Attrs
}
