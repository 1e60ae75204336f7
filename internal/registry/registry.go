package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fortuna/services/cfb-analytics-service/internal/grading"
	"github.com/fortuna/services/cfb-analytics-service/pkg/contracts"
)

// ErrParserNotFound is returned when no parser is registered under a key
var ErrParserNotFound = errors.New("play parser not found")

// Registry manages available play parsers
type Registry struct {
	parsers map[string]contracts.PlayParser
}

// New creates a registry with the built-in text parser
func New() *Registry {
	r := &Registry{
		parsers: make(map[string]contracts.PlayParser),
	}

	r.Register(grading.NewTextPlayParser())

	// A structured participant feed registers here once the provider exposes one

	return r
}

// Register adds a parser, replacing any parser with the same key
func (r *Registry) Register(parser contracts.PlayParser) {
	r.parsers[parser.ParserKey()] = parser
}

// Get retrieves a parser by key
func (r *Registry) Get(key string) (contracts.PlayParser, error) {
	parser, ok := r.parsers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrParserNotFound, key)
	}
	return parser, nil
}

// Keys returns all registered parser keys, sorted
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.parsers))
	for key := range r.parsers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
