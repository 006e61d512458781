package resolver

import (
	"github.com/agentx-labs/typelocator/internal/typesys"
	"github.com/rs/zerolog"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithOnlyDefaultConstructor keeps only candidates that can be built without
// arguments.
func WithOnlyDefaultConstructor(on bool) Option {
	return func(r *Resolver) { r.onlyDefaultConstructor = on }
}

// WithOnlySerializable keeps only candidates satisfying typesys.Serializable.
func WithOnlySerializable(on bool) Option {
	return func(r *Resolver) { r.onlySerializable = on }
}

// WithSources adds descriptor sources consulted before the discovered unit
// files, typically a static *typesys.Registry.
func WithSources(sources ...typesys.Source) Option {
	return func(r *Resolver) { r.sources = append(r.sources, sources...) }
}

// WithEnvironment sets the host features used when loading candidates
// (default typesys.HostEnvironment).
func WithEnvironment(env typesys.Environment) Option {
	return func(r *Resolver) { r.env = env }
}

// WithUnitSuffix sets the suffix used to read unit files back from their
// origin (default traversal.DefaultSuffix).
func WithUnitSuffix(suffix string) Option {
	return func(r *Resolver) { r.suffix = suffix }
}

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.log = l }
}
