package dex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Segment is one constituent dex of a game. Exactly one of Pokedex (a remote
// pokedex reference) or ManualIDs is set.
type Segment struct {
	Key       string `yaml:"key" json:"key" validate:"required,excludesall=/\\"`
	Title     string `yaml:"title" json:"title" validate:"required"`
	Kind      Kind   `yaml:"kind" json:"kind" validate:"omitempty,oneof=base dlc forms"`
	Optional  bool   `yaml:"optional" json:"optional"`
	Pokedex   int    `yaml:"pokedex,omitempty" json:"pokedex,omitempty" validate:"gte=0"`
	ManualIDs []int  `yaml:"manual_ids,omitempty" json:"manualIds,omitempty" validate:"omitempty,dive,gt=0"`
}

// IsManual reports whether the segment lists its ids explicitly.
func (s Segment) IsManual() bool {
	return s.ManualIDs != nil
}

// Game identifies one trackable title.
type Game struct {
	ID            string    `yaml:"id" json:"id" validate:"required"`
	Title         string    `yaml:"title" json:"title" validate:"required"`
	StoragePrefix string    `yaml:"storage_prefix" json:"storagePrefix" validate:"required,excludesall=-/\\"`
	Segments      []Segment `yaml:"segments" json:"segments" validate:"required,min=1,dive"`
}

// Segment returns the segment with the given key.
func (g Game) Segment(key string) (Segment, bool) {
	for _, s := range g.Segments {
		if s.Key == key {
			return s, true
		}
	}
	return Segment{}, false
}

// OptionalKeys returns the keys of segments that may be toggled, in
// declaration order.
func (g Game) OptionalKeys() []string {
	keys := make([]string, 0, len(g.Segments))
	for _, s := range g.Segments {
		if s.Optional {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

// DefaultEnabled is the enabled-segment set used when nothing is persisted:
// every non-optional segment and none of the optional ones.
func DefaultEnabled(g Game) KeySet {
	set := NewKeySet()
	for _, s := range g.Segments {
		if !s.Optional {
			set.Add(s.Key)
		}
	}
	return set
}

// Included reports whether the segment is active under the enabled set.
func Included(s Segment, enabled KeySet) bool {
	return !s.Optional || enabled.Has(s.Key)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(segmentSourceValidation, Segment{})
	return v
}

// segmentSourceValidation enforces that exactly one data source is present.
func segmentSourceValidation(sl validator.StructLevel) {
	s := sl.Current().Interface().(Segment)
	hasPokedex := s.Pokedex > 0
	hasManual := s.ManualIDs != nil
	if hasPokedex == hasManual {
		sl.ReportError(s.Pokedex, "Pokedex", "pokedex", "onesource", "")
	}
}

// Validate checks the game definition.
func (g Game) Validate() error {
	if err := validate.Struct(g); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("dex: game %q: %s", g.ID, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("dex: game %q: %w", g.ID, err)
	}
	seen := make(map[string]struct{}, len(g.Segments))
	for _, s := range g.Segments {
		if _, dup := seen[s.Key]; dup {
			return fmt.Errorf("dex: game %q: duplicate segment key %q", g.ID, s.Key)
		}
		seen[s.Key] = struct{}{}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "onesource":
		return fmt.Sprintf("%s needs exactly one of pokedex or manual_ids", fe.Namespace())
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	default:
		return fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
}
