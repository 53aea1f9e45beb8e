package dataset

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Kind names the type of entries a dataset document holds.
type Kind string

const (
	KindPlanetaryConstants Kind = "planetary_constants"
	KindEulerParameters    Kind = "euler_parameters"
)

func (k Kind) String() string {
	switch k {
	case KindPlanetaryConstants:
		return "planetary constants"
	case KindEulerParameters:
		return "Euler parameters"
	}
	return string(k)
}

var datasetValidate = validator.New(validator.WithRequiredStructEnabled())

type entry interface {
	PlanetaryData | EulerParameter
	key() (int32, string)
}

type document[T entry] struct {
	Kind    Kind `yaml:"kind" validate:"required,oneof=planetary_constants euler_parameters"`
	Entries []T  `yaml:"entries" validate:"dive"`
}

// Set is an immutable collection of dataset entries indexed by id and by
// name. When several entries share an id or a name, the last one wins.
type Set[T entry] struct {
	kind    Kind
	entries []T
	byID    map[int32]int
	byName  map[string]int
}

// PlanetaryDataSet holds planetary constants.
type PlanetaryDataSet = Set[PlanetaryData]

// EulerParameterSet holds fixed rotations.
type EulerParameterSet = Set[EulerParameter]

func newSet[T entry](kind Kind, entries []T) *Set[T] {
	s := &Set[T]{
		kind:    kind,
		entries: entries,
		byID:    make(map[int32]int, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		id, name := e.key()
		s.byID[id] = i
		if name != "" {
			s.byName[name] = i
		}
	}
	return s
}

// NewPlanetaryDataSet validates entries and indexes them.
func NewPlanetaryDataSet(entries ...PlanetaryData) (*PlanetaryDataSet, error) {
	return build(KindPlanetaryConstants, entries)
}

// NewEulerParameterSet validates entries and indexes them.
func NewEulerParameterSet(entries ...EulerParameter) (*EulerParameterSet, error) {
	return build(KindEulerParameters, entries)
}

func build[T entry](kind Kind, entries []T) (*Set[T], error) {
	doc := document[T]{Kind: kind, Entries: slices.Clone(entries)}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return newSet(kind, doc.Entries), nil
}

func (d *document[T]) validate() error {
	if err := datasetValidate.Struct(d); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidDataset, d.Kind, err)
	}
	for i := range d.Entries {
		if v, ok := any(&d.Entries[i]).(interface{ check() error }); ok {
			if err := v.check(); err != nil {
				return fmt.Errorf("%w: %s entry %d: %w", ErrInvalidDataset, d.Kind, i, err)
			}
		}
	}
	return nil
}

// DetectKind returns the kind declared by a dataset document, or false
// when b is not a YAML mapping with a known kind.
func DetectKind(b []byte) (Kind, bool) {
	var head struct {
		Kind Kind `yaml:"kind"`
	}
	if err := yaml.Unmarshal(b, &head); err != nil {
		return "", false
	}
	switch head.Kind {
	case KindPlanetaryConstants, KindEulerParameters:
		return head.Kind, true
	}
	return "", false
}

// DecodePlanetaryData decodes and validates a planetary constants document.
func DecodePlanetaryData(b []byte) (*PlanetaryDataSet, error) {
	return decode[PlanetaryData](KindPlanetaryConstants, b)
}

// DecodeEulerParameters decodes and validates an Euler parameters document.
func DecodeEulerParameters(b []byte) (*EulerParameterSet, error) {
	return decode[EulerParameter](KindEulerParameters, b)
}

func decode[T entry](kind Kind, b []byte) (*Set[T], error) {
	var doc document[T]
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	if doc.Kind != kind {
		return nil, fmt.Errorf("%w: expected kind %q, got %q", ErrInvalidDataset, kind, doc.Kind)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return newSet(kind, doc.Entries), nil
}

// Kind returns the kind of the entries.
func (s *Set[T]) Kind() Kind { return s.kind }

// Len returns the number of entries.
func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns a copy of the entries in document order.
func (s *Set[T]) Entries() []T {
	if s == nil {
		return nil
	}
	return slices.Clone(s.entries)
}

// Get returns the entry with the given id.
func (s *Set[T]) Get(id int32) (T, error) {
	if s != nil {
		if i, ok := s.byID[id]; ok {
			return s.entries[i], nil
		}
	}
	var zero T
	return zero, &LookupError{Kind: s.kindOrZero(), ID: id}
}

// GetByName returns the entry with the given name.
func (s *Set[T]) GetByName(name string) (T, error) {
	if s != nil {
		if i, ok := s.byName[name]; ok {
			return s.entries[i], nil
		}
	}
	var zero T
	return zero, &LookupError{Kind: s.kindOrZero(), Name: name}
}

func (s *Set[T]) kindOrZero() Kind {
	if s == nil {
		return ""
	}
	return s.kind
}

// Encode renders the set as a YAML document that Decode reads back.
func (s *Set[T]) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document[T]{Kind: s.kind, Entries: s.entries}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
