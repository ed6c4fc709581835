// internal/physics/group.go
package physics

import "github.com/xkilldash9x/softphys/api/schemas"

// GroupOptions controls how a group propagates offsets.
type GroupOptions struct {
	// InvertRight mirrors offsets onto the right side with the opposite sign.
	InvertRight bool
	// LeftOnly restricts every operation to the left member.
	LeftOnly bool
}

// Group pairs the left and right parameter of one setting.
type Group struct {
	name  string
	left  *Parameter
	right *Parameter
	opts  GroupOptions
}

// NewGroup pairs left and right. A nil right member implies LeftOnly.
func NewGroup(name string, left, right *Parameter, opts GroupOptions) *Group {
	if right == nil {
		opts.LeftOnly = true
	}
	return &Group{name: name, left: left, right: right, opts: opts}
}

func (g *Group) Name() string          { return g.name }
func (g *Group) Left() *Parameter      { return g.left }
func (g *Group) Right() *Parameter     { return g.right }
func (g *Group) Options() GroupOptions { return g.opts }

// Side returns the member on side s, or nil for the right side of a left-only group.
func (g *Group) Side(s schemas.Side) *Parameter {
	if s == schemas.Right {
		if g.opts.LeftOnly {
			return nil
		}
		return g.right
	}
	return g.left
}

// Each calls fn for every active member.
func (g *Group) Each(fn func(schemas.Side, *Parameter)) {
	fn(schemas.Left, g.left)
	if !g.opts.LeftOnly {
		fn(schemas.Right, g.right)
	}
}

// SetOffset applies v to the left member and, unless left-only, to the right
// member, inverted when configured.
func (g *Group) SetOffset(v float64) {
	g.left.SetOffset(v)
	if g.opts.LeftOnly {
		return
	}
	if g.opts.InvertRight {
		v = -v
	}
	g.right.SetOffset(v)
}

// Reset drops the dynamic contributions of every member.
func (g *Group) Reset() {
	g.Each(func(_ schemas.Side, p *Parameter) { p.Reset() })
}
