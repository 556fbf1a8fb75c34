package tree

import "strconv"

// Builder grows a destination tree one path at a time. Intermediate
// containers are created on demand; whatever stands in the way is replaced.
type Builder struct {
	root *Map
}

// NewBuilder starts an empty destination tree.
func NewBuilder() *Builder {
	return &Builder{root: NewMap()}
}

// Root returns the tree built so far.
func (b *Builder) Root() *Map {
	return b.root
}

// Start returns a position at the root container.
func (b *Builder) Start() *Pos {
	return &Pos{node: b.root, replace: func(Value) {}}
}

// Pos is a container inside a Builder's tree.
type Pos struct {
	node    Value
	replace func(Value)
}

// Container returns the container this position points at. Its identity is
// stable for as long as the container is not promoted from a list to a map.
func (p *Pos) Container() Value {
	return p.node
}

// Enter moves to the container stored under k, creating it when absent or
// when a scalar occupies the slot. asList selects the kind of a new container.
func (p *Pos) Enter(k Key, asList bool) *Pos {
	if _, child, ok := Child(p.node, k.String()); ok && IsContainer(child) {
		return &Pos{node: child, replace: p.replacer(k)}
	}

	var child Value = NewMap()
	if asList {
		child = NewList()
	}

	p.Assign(k, child)

	return &Pos{node: child, replace: p.replacer(k)}
}

// Assign stores v under k in this container.
func (p *Pos) Assign(k Key, v Value) {
	switch c := p.node.(type) {
	case *Map:
		c.Set(k.String(), v)
	case *List:
		i, ok := parseIndex(k.String())
		switch {
		case ok && i < c.Len():
			c.Set(i, v)
		case ok && i == c.Len():
			c.Append(v)
		default:
			m := promote(c)
			m.Set(k.String(), v)
			p.node = m
			p.replace(m)
		}
	}
}

// Ensure creates an empty map under k unless a container is already there.
func (p *Pos) Ensure(k Key) {
	if _, child, ok := Child(p.node, k.String()); ok && IsContainer(child) {
		return
	}

	p.Assign(k, NewMap())
}

func (p *Pos) replacer(k Key) func(Value) {
	return func(v Value) { p.Assign(k, v) }
}

// promote turns a list into a map keyed by decimal positions.
func promote(l *List) *Map {
	m := NewMap()
	for i, v := range l.All() {
		m.Set(strconv.Itoa(i), v)
	}

	return m
}
