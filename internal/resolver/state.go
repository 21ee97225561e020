package resolver

// Resource is a successfully resolved module: an absolute path plus the
// original query/fragment suffix reattached verbatim.
type Resource struct {
	Path string
	// Suffix is the query/fragment text, in original order (see Request).
	Suffix string
}

// Info is the current focus of resolution: a referring directory plus a
// request, immutable — rewriting always produces a new Info (spec.md §3).
type Info struct {
	Dir              string
	Req              Request
	FullySpecified   bool
	ResolveToContext bool
}

func (i Info) WithRequest(r Request) Info {
	out := i
	out.Req = r
	return out
}

func (i Info) WithDir(dir string) Info {
	out := i
	out.Dir = dir
	return out
}

// stateTag discriminates the State sum type.
type stateTag uint8

const (
	stateResolving stateTag = iota
	stateSuccess
	stateIgnored
	stateFailed
	stateError
)

// State is the pipeline's per-stage sum type: Resolving(Info) |
// Success(Resource) | Ignored | Failed(Info) | Error(*Error). Once a
// stage produces Success/Ignored/Error, no downstream stage may mutate
// it further (spec.md §3 State invariant) — enforced by then,
// which only ever feeds a stage function a Resolving state.
type State struct {
	tag      stateTag
	info     Info
	resource Resource
	err      *Error
}

func Resolving(info Info) State { return State{tag: stateResolving, info: info} }
func Success(r Resource) State  { return State{tag: stateSuccess, resource: r} }
func Ignored() State            { return State{tag: stateIgnored} }
func Failed(info Info) State    { return State{tag: stateFailed, info: info} }
func ErrorState(err *Error) State {
	return State{tag: stateError, err: err}
}

func (s State) IsResolving() bool { return s.tag == stateResolving }
func (s State) IsFinished() bool  { return s.tag != stateResolving && s.tag != stateFailed }
func (s State) Info() Info        { return s.info }
func (s State) Resource() Resource { return s.resource }
func (s State) Err() *Error       { return s.err }
func (s State) IsSuccess() bool   { return s.tag == stateSuccess }
func (s State) IsIgnored() bool   { return s.tag == stateIgnored }
func (s State) IsError() bool     { return s.tag == stateError }
func (s State) IsFailed() bool    { return s.tag == stateFailed }

// Context is per-call mutable scratch: the recursion depth (hard limit
// 127 per spec.md §3/§4.8) plus a cycle-detection set of in-progress
// (dir, specifier) pairs, used by stageImports. Alias rewriting and
// exports lookups do not use it; they rely on the depth limit.
type Context struct {
	depth int
	seen  map[string]bool
}

const maxDepth = 127

func NewContext() *Context {
	return &Context{seen: make(map[string]bool)}
}

// Enter increments recursion depth, returning Overflow if the hard limit
// is breached. Callers must defer the returned release function.
func (c *Context) Enter(path string) (*Error, func()) {
	c.depth++
	if c.depth > maxDepth {
		c.depth--
		return overflow(path), func() {}
	}
	return nil, func() { c.depth-- }
}

// MarkCycle records (dir, specifier) as being in progress; isCycle is
// true if it was already on the stack, in which case nothing is recorded.
func (c *Context) MarkCycle(dir, specifier string) (release func(), isCycle bool) {
	key := dir + "\x00" + specifier
	if c.seen[key] {
		return func() {}, true
	}
	c.seen[key] = true
	return func() { delete(c.seen, key) }, false
}
