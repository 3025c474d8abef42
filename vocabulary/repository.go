package vocabulary

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/medterm/crosswalk/core"
)

// Source names one sub-vocabulary backing file.
type Source struct {
	// System is the tag stamped onto every concept loaded from Path.
	System string
	// Path is the CodeSystem JSON file location.
	Path string
}

// DefaultSources returns the standard three sub-vocabulary files under dir.
func DefaultSources(dir string) []Source {
	return []Source{
		{System: "Ayurveda", Path: dir + "/AyurvedaJson.json"},
		{System: "Siddha", Path: dir + "/SiddhaJson.json"},
		{System: "Unani", Path: dir + "/UnaniJson.json"},
	}
}

// Repository holds the loaded concepts and their indices.
// It is read-only after Load.
type Repository struct {
	concepts []*core.Concept
	byKey    map[string]*core.Concept // "system|code" -> concept
	systems  []string
	logger   *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// Load reads the given sources and builds the repository.
// Sources that are missing or malformed are skipped with a warning; Load
// fails only when every source is unusable.
func Load(sources []Source, opts ...Option) (*Repository, error) {
	r := &Repository{
		byKey:  make(map[string]*core.Concept),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	for _, src := range sources {
		concepts, err := loadSource(src)
		if err != nil {
			r.logger.Warn("skipping vocabulary source", "system", src.System, "path", src.Path, "err", err)
			continue
		}
		r.systems = append(r.systems, src.System)
		for _, concept := range concepts {
			if err := core.ValidateConcept(concept); err != nil {
				r.logger.Warn("skipping concept", "system", src.System, "code", concept.Code, "err", err)
				continue
			}
			r.concepts = append(r.concepts, concept)
			r.byKey[concept.Key()] = concept
		}
		r.logger.Info("loaded vocabulary source", "system", src.System, "concepts", len(concepts))
	}

	if len(r.systems) == 0 {
		return nil, ErrNoSources
	}
	return r, nil
}

// codeSystemFile mirrors the CodeSystem JSON document shape.
type codeSystemFile struct {
	Concept []conceptEntry `json:"concept"`
}

type conceptEntry struct {
	Code        string             `json:"code"`
	Display     string             `json:"display"`
	Definition  string             `json:"definition"`
	Designation []designationEntry `json:"designation"`
}

type designationEntry struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

func loadSource(src Source) ([]*core.Concept, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, err
	}

	var file codeSystemFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	concepts := make([]*core.Concept, 0, len(file.Concept))
	for _, entry := range file.Concept {
		concept := &core.Concept{
			Code:       entry.Code,
			Display:    entry.Display,
			Definition: entry.Definition,
			System:     src.System,
		}
		for _, d := range entry.Designation {
			concept.Designations = append(concept.Designations, core.Designation{
				Language: d.Language,
				Value:    d.Value,
			})
		}
		concepts = append(concepts, concept)
	}
	return concepts, nil
}

// All returns every loaded concept in insertion order.
// Callers must not mutate the returned slice or its elements.
func (r *Repository) All() []*core.Concept {
	return r.concepts
}

// Systems returns the tags of the sources that loaded successfully.
func (r *Repository) Systems() []string {
	return r.systems
}

// Lookup returns the concept with the given system and exact code.
// Returns ErrNotFound when no such concept exists.
func (r *Repository) Lookup(system, code string) (*core.Concept, error) {
	concept, ok := r.byKey[system+"|"+code]
	if !ok {
		return nil, ErrNotFound
	}
	return concept, nil
}

// FindByCode returns concepts from one system whose code starts with the
// given prefix, case-insensitively, in insertion order. An empty system
// matches every system.
func (r *Repository) FindByCode(system, codePrefix string) []*core.Concept {
	prefix := strings.ToLower(codePrefix)
	var matches []*core.Concept
	for _, concept := range r.concepts {
		if system != "" && concept.System != system {
			continue
		}
		if strings.HasPrefix(strings.ToLower(concept.Code), prefix) {
			matches = append(matches, concept)
		}
	}
	return matches
}

// Len returns the number of loaded concepts.
func (r *Repository) Len() int {
	return len(r.concepts)
}
