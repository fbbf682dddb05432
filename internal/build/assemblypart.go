package build

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"moorbuild/internal/rdb"
)

var trailingDigits = regexp.MustCompile(`[0-9]+$`)

// ComponentBasename strips the trailing digit run from a component name, so
// instance names like "OPTAAD1" collapse to the type name "OPTAAD". An empty
// component name gives "".
func ComponentBasename(componentName string) string {
	if componentName == "" {
		return ""
	}
	return trailingDigits.ReplaceAllString(componentName, "")
}

// AssemblyPart is an installed instance of a part within one deployment
// build, carrying the deployment-specific configuration values. Its parent
// is a node in the raw parts hierarchy, not another assembly part; the two
// hierarchies share the build's part cache.
type AssemblyPart struct {
	url       string
	name      string
	parentURL string
	config    map[string]string

	componentName           string
	parentCPU               string
	instanceOnSubassembly   string
	dataSourceLogIdentifier string
	componentBasename       string

	mu     sync.Mutex
	parent *Part
}

// newAssemblyPart flattens the record's configuration-value list into a map
// (last value wins per name) and precomputes the derived classification
// fields. Missing configuration keys leave their fields empty.
func newAssemblyPart(record rdb.AssemblyPartRecord) *AssemblyPart {
	config := make(map[string]string, len(record.ConfigurationValues))
	for _, cv := range record.ConfigurationValues {
		config[cv.Name] = cv.Value
	}

	ap := &AssemblyPart{
		url:       record.URL,
		name:      record.PartName,
		parentURL: record.ParentURL,
		config:    config,

		componentName:           config[KeyComponentName],
		parentCPU:               config[KeyParentCPU],
		instanceOnSubassembly:   config[KeyInstanceOnSubassembly],
		dataSourceLogIdentifier: config[KeyDataSourceLogIdentifier],
	}
	ap.componentBasename = ComponentBasename(ap.componentName)
	return ap
}

// URL returns the assembly part's identity URL.
func (ap *AssemblyPart) URL() string { return ap.url }

// Name returns the part's display name.
func (ap *AssemblyPart) Name() string { return ap.name }

// Config returns the flattened configuration map. Values are opaque strings.
func (ap *AssemblyPart) Config() map[string]string { return ap.config }

// ComponentName returns the configured component name, or "".
func (ap *AssemblyPart) ComponentName() string { return ap.componentName }

// ParentCPU returns the configured parent CPU label, or "".
func (ap *AssemblyPart) ParentCPU() string { return ap.parentCPU }

// InstanceOnSubassembly returns the configured instance label, or "".
func (ap *AssemblyPart) InstanceOnSubassembly() string { return ap.instanceOnSubassembly }

// DataSourceLogIdentifier returns the configured log identifier, or "".
func (ap *AssemblyPart) DataSourceLogIdentifier() string { return ap.dataSourceLogIdentifier }

// ComponentBasename returns the component name with its trailing digit run
// stripped.
func (ap *AssemblyPart) ComponentBasename() string { return ap.componentBasename }

// IsCPU reports whether the component basename names a control processor
// (STC, CPM or DCL, any case).
func (ap *AssemblyPart) IsCPU() bool {
	return cpuBasenames[strings.ToLower(ap.componentBasename)]
}

// Parent returns the structural parent Part, or nil when the assembly part
// has none or its chain has not been walked.
func (ap *AssemblyPart) Parent() *Part {
	ap.mu.Lock()
	defer ap.mu.Unlock()
	return ap.parent
}

// walkParent links the assembly part to its structural parent and resolves
// that part's full ancestor chain through the shared cache. A parentless
// assembly part is a no-op.
func (ap *AssemblyPart) walkParent(ctx context.Context, cache *partCache) error {
	if ap.parentURL == "" {
		return nil
	}
	parent, err := cache.resolve(ctx, ap.parentURL)
	if err != nil {
		return fmt.Errorf("assembly part %q: %w", ap.name, err)
	}
	ap.mu.Lock()
	if ap.parent == nil {
		ap.parent = parent
	}
	ap.mu.Unlock()
	return parent.walkAncestors(ctx, cache)
}

// Subassembly returns the root of the part's ancestor chain. ok is false
// when the assembly part has no structural parent; callers must branch on it.
func (ap *AssemblyPart) Subassembly() (sub *Part, ok bool) {
	parent := ap.Parent()
	for depth := 0; parent != nil && depth < maxAncestorDepth; depth++ {
		next := parent.Parent()
		if next == nil {
			return parent, true
		}
		parent = next
	}
	return nil, false
}

func (ap *AssemblyPart) String() string {
	return fmt.Sprintf("%s (%s)", ap.name, ap.componentName)
}
