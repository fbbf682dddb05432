package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"moorbuild/internal/rdb"
)

// defaultParallelism bounds concurrent ancestry resolution within one build.
const defaultParallelism = 4

// Build is the reconstructed inventory of one deployment: an assembly part
// per installed instance, plus the shared ancestor cache. A Build is
// populated during Resolve and read-only afterwards.
type Build struct {
	deploymentNumber string
	record           rdb.DeploymentRecord
	assemblyParts    map[string]*AssemblyPart
	cache            *partCache
}

// ResolveOption configures Resolve.
type ResolveOption func(*resolveConfig)

type resolveConfig struct {
	parallelism int
	logger      *slog.Logger
}

// WithParallelism sets the number of assembly parts resolved concurrently.
func WithParallelism(n int) ResolveOption {
	return func(cfg *resolveConfig) {
		if n > 0 {
			cfg.parallelism = n
		}
	}
}

// WithLogger configures structured logging during resolution.
func WithLogger(l *slog.Logger) ResolveOption {
	return func(cfg *resolveConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// Resolve fetches the deployment record for deploymentNumber (for example
// "CP10CNSM-00001"), constructs an assembly part per embedded record and
// resolves every ancestor chain. Either the whole build resolves or Resolve
// fails; partial builds are never returned.
func Resolve(ctx context.Context, client *rdb.Client, deploymentNumber string, opts ...ResolveOption) (*Build, error) {
	cfg := resolveConfig{
		parallelism: defaultParallelism,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	records, err := client.FindDeployments(ctx, deploymentNumber)
	if err != nil {
		return nil, fmt.Errorf("find deployment %s: %w", deploymentNumber, err)
	}
	if len(records) != 1 {
		return nil, &NotFoundError{DeploymentNumber: deploymentNumber, Matches: len(records)}
	}
	record := records[0]

	b := &Build{
		deploymentNumber: deploymentNumber,
		record:           record,
		assemblyParts:    make(map[string]*AssemblyPart, len(record.AssemblyParts)),
		cache:            newPartCache(client),
	}

	cfg.logger.InfoContext(ctx, "resolving build",
		"deployment", deploymentNumber, "assembly_parts", len(record.AssemblyParts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.parallelism)
	for _, apRecord := range record.AssemblyParts {
		ap := newAssemblyPart(apRecord)
		b.assemblyParts[ap.url] = ap
		g.Go(func() error {
			return ap.walkParent(gctx, b.cache)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("deployment %s: %w", deploymentNumber, err)
	}

	cfg.logger.InfoContext(ctx, "build resolved",
		"deployment", deploymentNumber, "ancestors", len(b.cache.snapshot()))

	return b, nil
}

// DeploymentNumber returns the deployment number the build was resolved for.
func (b *Build) DeploymentNumber() string { return b.deploymentNumber }

// Record returns the raw deployment record the build was constructed from.
func (b *Build) Record() rdb.DeploymentRecord { return b.record }

// AssemblyParts returns the assembly parts keyed by their URL.
func (b *Build) AssemblyParts() map[string]*AssemblyPart { return b.assemblyParts }

// AssemblyPart returns one assembly part by URL, or nil.
func (b *Build) AssemblyPart(url string) *AssemblyPart { return b.assemblyParts[url] }

// Ancestors returns a copy of the shared ancestor cache keyed by part URL.
func (b *Build) Ancestors() map[string]*Part { return b.cache.snapshot() }

// CPUs returns the assembly parts classified as control processors.
func (b *Build) CPUs() []*AssemblyPart {
	var cpus []*AssemblyPart
	for _, ap := range b.assemblyParts {
		if ap.IsCPU() {
			cpus = append(cpus, ap)
		}
	}
	return cpus
}
