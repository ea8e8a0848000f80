package compiler

import (
	"fmt"

	"github.com/coregx/rex/internal/ast"
	"github.com/coregx/rex/internal/group"
)

// Options controls the mode flags baked into the compiled NFA.
type Options struct {
	CaseInsensitive bool
	Multiline       bool
	Dotall          bool
}

// compiler holds the in-progress state table for one Compile call.
type compiler struct {
	states []State
	groups *group.Registry
}

// Compile builds an NFA from expr, resolving named and relative
// backreferences against groups. It returns an error (never a partial
// NFA) if a backreference cannot be resolved.
func Compile(expr ast.Expr, groups *group.Registry, opts Options) (*NFA, error) {
	c := &compiler{groups: groups}

	entry, exit, err := c.compile(expr)
	if err != nil {
		return nil, err
	}

	accept := c.newState()
	c.states[accept].Accept = true
	c.addTrans(exit, Transition{Kind: TEpsilon, Target: accept})

	return &NFA{
		States:          c.states,
		Start:           entry,
		Accept:          accept,
		CaseInsensitive: opts.CaseInsensitive,
		Multiline:       opts.Multiline,
		Dotall:          opts.Dotall,
	}, nil
}

func (c *compiler) newState() StateID {
	id := StateID(len(c.states))
	c.states = append(c.states, State{ID: id})
	return id
}

func (c *compiler) addTrans(from StateID, t Transition) {
	c.states[from].Transitions = append(c.states[from].Transitions, t)
}

// fragment is the (entry, exit) pair every compile* helper produces. exit
// is always a bare state with no transitions yet; the caller wires
// whatever follows onto it.
type fragment struct {
	entry, exit StateID
}

func (c *compiler) pairFragment() fragment {
	return fragment{entry: c.newState(), exit: c.newState()}
}

func (c *compiler) compile(e ast.Expr) (entry, exit StateID, err error) {
	switch n := e.(type) {
	case ast.Empty:
		f := c.pairFragment()
		c.addTrans(f.entry, Transition{Kind: TEpsilon, Target: f.exit})
		return f.entry, f.exit, nil

	case ast.Literal:
		f := c.pairFragment()
		c.addTrans(f.entry, Transition{Kind: TChar, Ch: n.Ch, Target: f.exit})
		return f.entry, f.exit, nil

	case ast.AnyChar:
		f := c.pairFragment()
		c.addTrans(f.entry, Transition{Kind: TAny, Target: f.exit})
		return f.entry, f.exit, nil

	case ast.Seq:
		return c.compileSeq(n.Items)

	case ast.Alt:
		return c.compileAlt(n.Branches)

	case ast.Class:
		f := c.pairFragment()
		cls := n
		c.addTrans(f.entry, Transition{Kind: TClass, Class: &cls, Target: f.exit})
		return f.entry, f.exit, nil

	case ast.Quantified:
		return c.compileQuantified(n)

	case ast.Group:
		return c.compileWrapped(n.Child, n.Index)

	case ast.NonCapGroup:
		return c.compile(n.Child)

	case ast.NamedGroup:
		return c.compileWrapped(n.Child, n.Index)

	case ast.StartAnchor:
		f := c.pairFragment()
		c.addTrans(f.entry, Transition{Kind: TStartAnchor, Target: f.exit})
		return f.entry, f.exit, nil

	case ast.EndAnchor:
		f := c.pairFragment()
		c.addTrans(f.entry, Transition{Kind: TEndAnchor, Target: f.exit})
		return f.entry, f.exit, nil

	case ast.Backref:
		if err := c.groups.ValidateNumber(n.Index); err != nil {
			return InvalidState, InvalidState, err
		}
		f := c.pairFragment()
		c.addTrans(f.entry, Transition{Kind: TBackref, GroupIndex: n.Index, Target: f.exit})
		return f.entry, f.exit, nil

	case ast.RelBackref:
		// Resolved against the numbered subset at compile time: the
		// absolute index is baked into the transition so the simulator
		// doesn't need to re-resolve it on every thread step.
		idx, err := c.groups.ResolveRelative(n.Offset)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		f := c.pairFragment()
		c.addTrans(f.entry, Transition{Kind: TBackref, GroupIndex: idx, Target: f.exit})
		return f.entry, f.exit, nil

	case ast.NamedBackref:
		if err := c.groups.ValidateName(n.Name); err != nil {
			return InvalidState, InvalidState, err
		}
		info, _ := c.groups.ByName(n.Name)
		f := c.pairFragment()
		c.addTrans(f.entry, Transition{Kind: TBackref, GroupIndex: info.Index, Target: f.exit})
		return f.entry, f.exit, nil

	case ast.Shorthand:
		f := c.pairFragment()
		c.addTrans(f.entry, Transition{Kind: TShorthand, Shorthand: n.Class, Target: f.exit})
		return f.entry, f.exit, nil

	case ast.WordBoundary:
		f := c.pairFragment()
		c.addTrans(f.entry, Transition{Kind: TWordBoundary, Target: f.exit})
		return f.entry, f.exit, nil

	case ast.NonWordBoundary:
		f := c.pairFragment()
		c.addTrans(f.entry, Transition{Kind: TNonWordBoundary, Target: f.exit})
		return f.entry, f.exit, nil

	default:
		return InvalidState, InvalidState, fmt.Errorf("compiler: unsupported AST node %T", e)
	}
}

func (c *compiler) compileSeq(items []ast.Expr) (StateID, StateID, error) {
	if len(items) == 0 {
		return c.compile(ast.Empty{})
	}

	first, prevExit, err := c.compile(items[0])
	if err != nil {
		return InvalidState, InvalidState, err
	}

	for _, item := range items[1:] {
		e, x, err := c.compile(item)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		c.addTrans(prevExit, Transition{Kind: TEpsilon, Target: e})
		prevExit = x
	}

	return first, prevExit, nil
}

func (c *compiler) compileAlt(branches []ast.Expr) (StateID, StateID, error) {
	entry := c.newState()
	exit := c.newState()

	for _, branch := range branches {
		e, x, err := c.compile(branch)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		c.addTrans(entry, Transition{Kind: TEpsilon, Target: e})
		c.addTrans(x, Transition{Kind: TEpsilon, Target: exit})
	}

	return entry, exit, nil
}

// compileWrapped wraps inner in group-start(index)/group-end(index)
// epsilon-like transitions.
func (c *compiler) compileWrapped(child ast.Expr, index int) (StateID, StateID, error) {
	innerEntry, innerExit, err := c.compile(child)
	if err != nil {
		return InvalidState, InvalidState, err
	}

	entry := c.newState()
	c.addTrans(entry, Transition{Kind: TGroupStart, GroupIndex: index, Target: innerEntry})

	exit := c.newState()
	c.addTrans(innerExit, Transition{Kind: TGroupEnd, GroupIndex: index, Target: exit})

	return entry, exit, nil
}

func (c *compiler) compileQuantified(q ast.Quantified) (StateID, StateID, error) {
	switch q.Quant.Kind {
	case ast.QuantStar:
		return c.compileStar(q.Child, q.Quant.Lazy)
	case ast.QuantPlus:
		return c.compilePlus(q.Child, q.Quant.Lazy)
	case ast.QuantOptional:
		return c.compileOptional(q.Child, q.Quant.Lazy)
	case ast.QuantExact:
		return c.compileExactN(q.Child, q.Quant.Min)
	case ast.QuantAtLeast:
		return c.compileAtLeast(q.Child, q.Quant.Min, q.Quant.Lazy)
	case ast.QuantBetween:
		return c.compileBetween(q.Child, q.Quant.Min, q.Quant.Max, q.Quant.Lazy)
	default:
		return InvalidState, InvalidState, fmt.Errorf("compiler: unknown quantifier kind %v", q.Quant.Kind)
	}
}

// compileStar wires a 0-or-more loop. The order the two epsilons are
// added to S and to O is what makes this greedy ("enter the loop first")
// or lazy ("exit first").
func (c *compiler) compileStar(child ast.Expr, lazy bool) (StateID, StateID, error) {
	i, o, err := c.compile(child)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	s := c.newState()
	a := c.newState()

	if lazy {
		c.addTrans(s, Transition{Kind: TEpsilon, Target: a})
		c.addTrans(s, Transition{Kind: TEpsilon, Target: i})
		c.addTrans(o, Transition{Kind: TEpsilon, Target: a})
		c.addTrans(o, Transition{Kind: TEpsilon, Target: i})
	} else {
		c.addTrans(s, Transition{Kind: TEpsilon, Target: i})
		c.addTrans(s, Transition{Kind: TEpsilon, Target: a})
		c.addTrans(o, Transition{Kind: TEpsilon, Target: i})
		c.addTrans(o, Transition{Kind: TEpsilon, Target: a})
	}

	return s, a, nil
}

func (c *compiler) compilePlus(child ast.Expr, lazy bool) (StateID, StateID, error) {
	i, o, err := c.compile(child)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	a := c.newState()

	if lazy {
		c.addTrans(o, Transition{Kind: TEpsilon, Target: a})
		c.addTrans(o, Transition{Kind: TEpsilon, Target: i})
	} else {
		c.addTrans(o, Transition{Kind: TEpsilon, Target: i})
		c.addTrans(o, Transition{Kind: TEpsilon, Target: a})
	}

	return i, a, nil
}

// compileOptional has no lazy form exposed by the grammar, but honors
// Quant.Lazy by swapping preference order if a caller ever sets it, since
// the wiring trivially supports it.
func (c *compiler) compileOptional(child ast.Expr, lazy bool) (StateID, StateID, error) {
	i, o, err := c.compile(child)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	s := c.newState()
	a := c.newState()

	if lazy {
		c.addTrans(s, Transition{Kind: TEpsilon, Target: a})
		c.addTrans(s, Transition{Kind: TEpsilon, Target: i})
	} else {
		c.addTrans(s, Transition{Kind: TEpsilon, Target: i})
		c.addTrans(s, Transition{Kind: TEpsilon, Target: a})
	}
	c.addTrans(o, Transition{Kind: TEpsilon, Target: a})

	return s, a, nil
}

// compileExactN splices n independent copies of child in sequence. n == 0
// accepts exactly the empty string.
func (c *compiler) compileExactN(child ast.Expr, n int) (StateID, StateID, error) {
	if n == 0 {
		return c.compile(ast.Empty{})
	}

	first, prevExit, err := c.compile(child)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	for k := 1; k < n; k++ {
		e, x, err := c.compile(child)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		c.addTrans(prevExit, Transition{Kind: TEpsilon, Target: e})
		prevExit = x
	}
	return first, prevExit, nil
}

// compileAtLeast splices n exact copies, then appends a star (or lazy
// star) fragment of a fresh copy.
func (c *compiler) compileAtLeast(child ast.Expr, n int, lazy bool) (StateID, StateID, error) {
	star, starExit, err := c.compileStar(child, lazy)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	if n == 0 {
		return star, starExit, nil
	}

	first, prevExit, err := c.compileExactN(child, n)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	c.addTrans(prevExit, Transition{Kind: TEpsilon, Target: star})
	return first, starExit, nil
}

// compileBetween splices n exact copies, then chains m-n optional copies,
// each junction offering "continue into another copy" vs "exit" in
// greedy- or lazy-preferred order.
func (c *compiler) compileBetween(child ast.Expr, n, m int, lazy bool) (StateID, StateID, error) {
	final := c.newState()

	var entry StateID
	var prev StateID

	if n == 0 {
		prev = c.newState()
		entry = prev
	} else {
		e, x, err := c.compileExactN(child, n)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		entry = e
		prev = x
	}

	optional := m - n
	for k := 0; k < optional; k++ {
		ci, co, err := c.compile(child)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if lazy {
			c.addTrans(prev, Transition{Kind: TEpsilon, Target: final})
			c.addTrans(prev, Transition{Kind: TEpsilon, Target: ci})
		} else {
			c.addTrans(prev, Transition{Kind: TEpsilon, Target: ci})
			c.addTrans(prev, Transition{Kind: TEpsilon, Target: final})
		}
		prev = co
	}
	c.addTrans(prev, Transition{Kind: TEpsilon, Target: final})

	return entry, final, nil
}
