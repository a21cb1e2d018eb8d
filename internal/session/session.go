// Package session orchestrates map generation: it drives the generator,
// parses and normalizes the result, flattens it for layout, and caches
// successful maps in SQLite so repeat topics load instantly.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bubbledive/sparkmap/internal/dive"
	"github.com/bubbledive/sparkmap/internal/graph"
	"github.com/bubbledive/sparkmap/internal/insight"
	"github.com/bubbledive/sparkmap/internal/openai"
)

// ErrEmptyTopic means the requested topic was empty after trimming.
var ErrEmptyTopic = errors.New("topic cannot be empty")

// Generator produces raw map text and condenses dive contexts. Satisfied by
// *openai.Client.
type Generator interface {
	GenerateMap(ctx context.Context, topic, extra string) (*openai.MapResult, error)
	CondenseTopic(ctx context.Context, dctx dive.Context) (string, error)
}

// Map is one fully prepared map, ready for layout, export, or outline.
type Map struct {
	Topic     string
	Tree      *insight.Node
	Graph     *graph.Graph
	Citations []insight.Citation
	Elapsed   time.Duration
	FromCache bool
}

// Session ties a generator to an optional cache store.
type Session struct {
	gen           Generator
	store         *Store
	maxTooltipLen int
}

// Options configures a Session.
type Options struct {
	// MaxTooltipLen caps tooltip length during normalization. Zero uses
	// insight.DefaultMaxTooltipLen.
	MaxTooltipLen int
}

// New creates a session. The store may be nil to disable caching.
func New(gen Generator, store *Store, opts Options) *Session {
	if opts.MaxTooltipLen <= 0 {
		opts.MaxTooltipLen = insight.DefaultMaxTooltipLen
	}
	return &Session{gen: gen, store: store, maxTooltipLen: opts.MaxTooltipLen}
}

// BuildMap produces the map for a topic, from cache when possible. With
// fresh set, the cache is bypassed and the entry overwritten on success.
// Generation is all or nothing: a malformed tree fails the whole call and
// leaves the cache untouched.
func (s *Session) BuildMap(ctx context.Context, topic string, fresh bool) (*Map, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	if !fresh && s.store != nil {
		rec, err := s.store.Get(topic)
		if err != nil {
			return nil, fmt.Errorf("reading cache: %w", err)
		}
		if rec != nil {
			return &Map{
				Topic:     rec.Topic,
				Tree:      rec.Tree,
				Graph:     graph.Flatten(rec.Tree),
				Citations: rec.Citations,
				Elapsed:   rec.Duration,
				FromCache: true,
			}, nil
		}
	}

	start := time.Now()
	result, err := s.gen.GenerateMap(ctx, topic, "")
	if err != nil {
		return nil, fmt.Errorf("generating map: %w", err)
	}

	raw, err := insight.ExtractTree(result.Text)
	if err != nil {
		return nil, err
	}
	tree := insight.Normalize(raw, s.maxTooltipLen)
	elapsed := time.Since(start)

	if s.store != nil {
		if _, err := s.store.Put(topic, tree, result.Citations, elapsed); err != nil {
			return nil, err
		}
	}

	return &Map{
		Topic:     topic,
		Tree:      tree,
		Graph:     graph.Flatten(tree),
		Citations: result.Citations,
		Elapsed:   elapsed,
	}, nil
}

// Dive condenses a dive context into the next topic and builds its map. The
// condensed topic goes through the same cache as direct requests.
func (s *Session) Dive(ctx context.Context, dctx dive.Context) (*Map, error) {
	topic, err := s.gen.CondenseTopic(ctx, dctx)
	if err != nil {
		return nil, fmt.Errorf("condensing topic: %w", err)
	}
	return s.BuildMap(ctx, topic, false)
}
