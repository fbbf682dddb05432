package build

// Configuration-value names carried by RDB assembly-part records.
const (
	KeyComponentName           = "Component Name"
	KeyInstanceOnSubassembly   = "Instance on Subassembly"
	KeyParentCPU               = "Parent CPU"
	KeyDataSourceLogIdentifier = "Data Source Log Identifier"
)

// subassemblyNames are the structural groupings found at the root of a
// part's ancestor chain.
var subassemblyNames = []string{"mfn", "nsif", "buoy"}

// cpuBasenames identify control-processor component types by basename.
var cpuBasenames = map[string]bool{
	"stc": true,
	"cpm": true,
	"dcl": true,
}
