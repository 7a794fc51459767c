package schema

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

const (
	ProfileCollection = "profiles"
)

// Profile maps an emotion name to a signed weight in [-1, 1].
// It is read-only for the duration of a scoring pass.
type Profile map[string]float64

// Weight returns the weight of an emotion, zero when it is not part of the profile.
func (p Profile) Weight(emotion string) float64 {
	if p == nil {
		return 0
	}
	return p[emotion]
}

// Validate checks that every weight is inside [-1, 1].
func (p Profile) Validate() error {
	for name, w := range p {
		if w < -1 || w > 1 {
			return fmt.Errorf("weight of %q out of range: %v", name, w)
		}
	}
	return nil
}

// ReactionProfile - stored reaction profile document
type ReactionProfile struct {
	ID       string  `json:"id" bson:"id" yaml:"id"`
	Name     string  `json:"name" bson:"name" yaml:"name"`
	Emotions Profile `json:"emotions" bson:"emotions" yaml:"emotions"`
}

// ParseProfileYAML decodes a reaction profile from a yaml document
func ParseProfileYAML(data []byte) (*ReactionProfile, error) {
	var p ReactionProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	if err := p.Emotions.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}
