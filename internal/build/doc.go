// Package build reconstructs the inventory of one mooring deployment from
// the RDB asset-tracking service.
//
// A Build holds one AssemblyPart per installed part instance in the
// deployment record, plus a shared ancestor cache of Part nodes. Resolving a
// build walks every assembly part's structural parent chain up to its root
// subassembly; each part URL is fetched from the API at most once per build,
// no matter how many assembly parts reference it.
package build
