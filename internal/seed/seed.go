// Package seed loads initial option values from a YAML file.
//
// A seed file maps option keys to values:
//
//	SystemName: ListenUp
//	DocsLink: https://docs.example.com
//	HeaderNavModules:
//	  home: true
//	  pricing: {enabled: true, requireAuth: true}
//	  customMenus: []
//
// Scalars are stored as their literal text. Maps and lists are encoded to
// JSON, which is how structured options are stored.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/listenupapp/listenup-console/internal/domain"
	"github.com/listenupapp/listenup-console/internal/store"
)

// Load reads and parses the seed file at path.
func Load(path string) (map[string]string, error) {
	//#nosec G304 -- path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	values, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

// Parse decodes seed YAML into option values.
func Parse(data []byte) (map[string]string, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}

	values := make(map[string]string, len(doc))
	for key, node := range doc {
		switch node.Kind {
		case yaml.ScalarNode:
			if node.Tag == "!!null" {
				values[key] = ""
			} else {
				values[key] = node.Value
			}
		case yaml.MappingNode, yaml.SequenceNode:
			var v any
			if err := node.Decode(&v); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("encode %s as JSON: %w", key, err)
			}
			values[key] = string(encoded)
		default:
			return nil, fmt.Errorf("unsupported value for %s at line %d", key, node.Line)
		}
	}
	return values, nil
}

// OptionWriter stores a validated option value.
type OptionWriter interface {
	Update(ctx context.Context, key, value string) (*domain.Option, error)
}

// Result lists what an Apply call did, each sorted by key.
type Result struct {
	Applied []string
	Skipped []string
}

// Applier writes seed values through the option service so they get the
// same validation and change events as an admin save.
type Applier struct {
	store   store.OptionStore
	options OptionWriter
	logger  *slog.Logger
}

// NewApplier creates a new seed applier.
func NewApplier(store store.OptionStore, options OptionWriter, logger *slog.Logger) *Applier {
	return &Applier{
		store:   store,
		options: options,
		logger:  logger,
	}
}

// ApplyMissing writes only the keys that have never been stored. Used at
// boot so restarts never clobber admin edits.
func (a *Applier) ApplyMissing(ctx context.Context, values map[string]string) (*Result, error) {
	return a.apply(ctx, values, false)
}

// ApplyAll writes every key, replacing stored values.
func (a *Applier) ApplyAll(ctx context.Context, values map[string]string) (*Result, error) {
	return a.apply(ctx, values, true)
}

func (a *Applier) apply(ctx context.Context, values map[string]string, overwrite bool) (*Result, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	result := &Result{}
	for _, key := range keys {
		if !overwrite {
			_, err := a.store.GetOption(ctx, key)
			if err == nil {
				result.Skipped = append(result.Skipped, key)
				continue
			}
			if !errors.Is(err, store.ErrNotFound) {
				return result, fmt.Errorf("check option %s: %w", key, err)
			}
		}

		if _, err := a.options.Update(ctx, key, values[key]); err != nil {
			return result, fmt.Errorf("seed option %s: %w", key, err)
		}
		result.Applied = append(result.Applied, key)
	}

	a.logger.Info("seed applied",
		"applied", len(result.Applied),
		"skipped", len(result.Skipped),
		"overwrite", overwrite,
	)

	return result, nil
}
