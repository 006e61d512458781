package units

import (
	"errors"
	"fmt"

	"github.com/agentx-labs/typelocator/internal/index"
	"github.com/agentx-labs/typelocator/internal/logging"
	"github.com/agentx-labs/typelocator/internal/manifest"
	"github.com/agentx-labs/typelocator/internal/traversal"
	"github.com/agentx-labs/typelocator/internal/typesys"
	"github.com/rs/zerolog"
)

// Source implements typesys.Source over an index: the descriptor for a name
// is read from the unit files in the origins the name was discovered in.
type Source struct {
	idx    *index.Index
	suffix string
	log    zerolog.Logger
}

// NewSource returns a Source reading units with the given suffix (empty
// means traversal.DefaultSuffix).
func NewSource(idx *index.Index, suffix string) *Source {
	if suffix == "" {
		suffix = traversal.DefaultSuffix
	}
	return &Source{idx: idx, suffix: suffix, log: logging.For("units")}
}

// Describe implements typesys.Source. Names without an origin, such as those
// from a fixed list, are unknown to this source.
func (s *Source) Describe(name string) (*typesys.Descriptor, error) {
	origins := s.idx.OriginsOf(name)
	if len(origins) == 0 {
		return nil, fmt.Errorf("%w: %s has no unit", typesys.ErrUnknownType, name)
	}

	var (
		best *typesys.Descriptor
		errs []error
	)
	for _, origin := range origins {
		data, err := traversal.ReadUnit(origin, name, s.suffix)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		d, err := manifest.ParseUnit(name, origin, data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if best == nil {
			best = d
			continue
		}
		s.log.Warn().
			Str("type", name).
			Str("kept", best.Origin).
			Str("other", origin).
			Msg("type discovered in more than one origin")
		if newer(d.Version, best.Version) {
			best = d
		}
	}

	if best == nil {
		return nil, fmt.Errorf("describing %s: %w", name, errors.Join(errs...))
	}
	for _, err := range errs {
		s.log.Debug().Err(err).Str("type", name).Msg("ignoring unreadable duplicate unit")
	}
	return best, nil
}
