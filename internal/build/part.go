package build

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// maxAncestorDepth bounds the parent climb. The server is trusted not to
// return parent cycles, but a bound turns one into an IntegrityError instead
// of an unbounded loop.
const maxAncestorDepth = 64

// Part is a generic inventory item in the structural part hierarchy,
// distinct from its configured instance (AssemblyPart). Parts are created by
// the build's cache on first fetch of their URL and are immutable afterwards
// except for the single parent-link assignment.
type Part struct {
	url       string
	name      string
	parentURL string

	mu     sync.Mutex
	parent *Part
}

// URL returns the part's identity URL.
func (p *Part) URL() string { return p.url }

// Name returns the part's display name.
func (p *Part) Name() string { return p.name }

// ParentURL returns the URL of the structural parent, or "" at a root.
func (p *Part) ParentURL() string { return p.parentURL }

// IsRoot reports whether the part has no structural parent.
func (p *Part) IsRoot() bool { return p.parentURL == "" }

// Parent returns the resolved parent part, or nil if the part is a root or
// its chain has not been walked yet.
func (p *Part) Parent() *Part {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parent
}

// setParent links the resolved parent. The first link wins; a concurrent
// walk over a shared ancestor must not reassign it.
func (p *Part) setParent(parent *Part) {
	p.mu.Lock()
	if p.parent == nil {
		p.parent = parent
	}
	p.mu.Unlock()
}

// walkAncestors climbs from p to the root of its chain, resolving each
// parent URL through the shared cache. Already-linked parents are followed
// without refetching, so re-walking a shared ancestor costs no network I/O.
func (p *Part) walkAncestors(ctx context.Context, cache *partCache) error {
	cur := p
	for depth := 0; ; depth++ {
		if depth >= maxAncestorDepth {
			return &IntegrityError{URL: cur.url, Depth: depth}
		}
		if cur.parentURL == "" {
			return nil
		}
		parent := cur.Parent()
		if parent == nil {
			resolved, err := cache.resolve(ctx, cur.parentURL)
			if err != nil {
				return fmt.Errorf("resolve parent of %s: %w", cur.url, err)
			}
			cur.setParent(resolved)
			parent = cur.Parent()
		}
		cur = parent
	}
}

// SubassemblyComponentName returns the subassembly grouping named by the
// part (mfn, nsif or buoy), or "" when the part name matches none.
func (p *Part) SubassemblyComponentName() string {
	name := strings.ToLower(p.name)
	for _, sa := range subassemblyNames {
		if strings.Contains(name, sa) {
			return sa
		}
	}
	return ""
}

func (p *Part) String() string { return p.name }
