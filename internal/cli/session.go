package cli

import (
	"fmt"

	"github.com/agentx-labs/typelocator/internal/config"
	"github.com/agentx-labs/typelocator/internal/logging"
	"github.com/agentx-labs/typelocator/internal/registry"
	"github.com/agentx-labs/typelocator/internal/resolver"
	"github.com/agentx-labs/typelocator/internal/traversal"
	"github.com/agentx-labs/typelocator/internal/typesys"
)

// Shared instances, one per traversal strategy.
var (
	resolvers  = &resolver.Pool{}
	registries = &registry.Pool{}
)

// buildTraversal picks the traversal strategy from the settings: a fixed
// list, a properties list, or the search path (current directory when
// unset), optionally cached.
func buildTraversal(s config.Settings) (traversal.Traversal, error) {
	switch {
	case s.ListFile != "":
		return traversal.LoadFixedList(s.ListFile)
	case s.PropertiesFile != "":
		return traversal.LoadPropertiesList(s.PropertiesFile)
	}

	entries := traversal.SplitList(s.SearchPath)
	if len(entries) == 0 {
		entries = []string{"."}
	}
	excluder, err := buildExcluder()
	if err != nil {
		return nil, err
	}
	sp := traversal.NewSearchPath(entries,
		traversal.WithSuffix(s.UnitSuffix),
		traversal.WithExcluder(excluder))
	if s.CacheFile != "" {
		return traversal.NewCached(sp, s.CacheFile), nil
	}
	return sp, nil
}

func buildExcluder() (traversal.Excluder, error) {
	if len(excludeDirs) == 0 && len(excludeFiles) == 0 {
		return traversal.AllowAll{}, nil
	}
	ex := traversal.NewSimpleExcluder()
	for _, d := range excludeDirs {
		ex.Dir(d)
	}
	for _, p := range excludeFiles {
		if err := ex.FilePattern(p); err != nil {
			return nil, fmt.Errorf("--exclude-file: %w", err)
		}
	}
	return ex, nil
}

// openResolver returns the shared resolver for the configured traversal.
// Types registered in typesys.Builtin take precedence over unit files, and
// are the only descriptors available to fixed and properties lists.
func openResolver(s config.Settings) (*resolver.Resolver, error) {
	t, err := buildTraversal(s)
	if err != nil {
		return nil, fmt.Errorf("building traversal: %w", err)
	}
	return resolver.Shared(resolvers, t,
		resolver.WithOnlyDefaultConstructor(s.OnlyDefaultConstructor),
		resolver.WithOnlySerializable(s.OnlySerializable),
		resolver.WithUnitSuffix(s.UnitSuffix),
		resolver.WithSources(typesys.Builtin()),
	), nil
}

func openRegistry(s config.Settings) (*registry.Registry, error) {
	r, err := openResolver(s)
	if err != nil {
		return nil, err
	}
	log := logging.For("cli")
	packages := config.LoadTableOrEmpty(s.PackagesFile, log)
	blacklist := config.LoadTableOrEmpty(s.BlacklistFile, log)
	return registry.Shared(registries, r, packages, blacklist), nil
}
