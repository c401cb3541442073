package namespace

import "strings"

// DefaultDelimiter separates namespace segments.
const DefaultDelimiter = ":"

// Namespace prefixes keys with a fixed root. The zero value has no root
// and leaves keys untouched. Namespaces are immutable.
type Namespace struct {
	root      string
	delimiter string
}

// Option configures a Namespace.
type Option func(*Namespace)

// WithDelimiter overrides DefaultDelimiter.
func WithDelimiter(d string) Option {
	return func(n *Namespace) { n.delimiter = d }
}

// New returns a namespace rooted at root. Leading and trailing delimiters
// on root are trimmed.
func New(root string, opts ...Option) Namespace {
	n := Namespace{delimiter: DefaultDelimiter}
	for _, opt := range opts {
		opt(&n)
	}
	if n.delimiter != "" {
		root = strings.Trim(root, n.delimiter)
	}
	n.root = root
	return n
}

// Root returns the namespace without a trailing delimiter.
func (n Namespace) Root() string { return n.root }

// Delimiter returns the segment separator.
func (n Namespace) Delimiter() string { return n.delim() }

// Prefix returns the string every namespaced key starts with. It is empty
// when the namespace has no root.
func (n Namespace) Prefix() string {
	if n.root == "" {
		return ""
	}
	return n.root + n.delim()
}

// Key returns k inside the namespace. Keys already carrying the prefix are
// returned unchanged.
func (n Namespace) Key(k string) string {
	if n.Has(k) {
		return k
	}
	return n.Prefix() + k
}

// Keys maps Key over ks.
func (n Namespace) Keys(ks ...string) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = n.Key(k)
	}
	return out
}

// Strip removes the namespace prefix from k, if present.
func (n Namespace) Strip(k string) string {
	return strings.TrimPrefix(k, n.Prefix())
}

// Has reports whether k lies inside the namespace.
func (n Namespace) Has(k string) bool {
	p := n.Prefix()
	return p != "" && strings.HasPrefix(k, p)
}

// Append returns a child namespace with parts added as new segments.
// Empty parts are skipped.
func (n Namespace) Append(parts ...string) Namespace {
	segments := make([]string, 0, len(parts)+1)
	if n.root != "" {
		segments = append(segments, n.root)
	}
	for _, p := range parts {
		if p = strings.Trim(p, n.delim()); p != "" {
			segments = append(segments, p)
		}
	}
	return Namespace{root: strings.Join(segments, n.delim()), delimiter: n.delimiter}
}

func (n Namespace) String() string { return n.root }

func (n Namespace) delim() string {
	if n.delimiter == "" {
		return DefaultDelimiter
	}
	return n.delimiter
}
