package landmark

import (
	"encoding/json"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/ayusman/bodyscan/internal/body"
)

// SchemaNamed accepts landmarks identified by name only.
const SchemaNamed = "named"

type jsonLandmark struct {
	Name       string   `json:"name,omitempty"`
	Index      *int     `json:"index,omitempty"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          *float64 `json:"z,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Visibility *float64 `json:"visibility,omitempty"`
}

// Payload is the wire form of one view.
type Payload struct {
	Schema      string         `json:"schema,omitempty"`
	ImageWidth  float64        `json:"image_width"`
	ImageHeight float64        `json:"image_height"`
	Landmarks   []jsonLandmark `json:"landmarks"`
}

// Decode reads a landmark payload from r.
func Decode(r io.Reader) (*Set, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decode landmarks")
	}
	return p.Set()
}

// UnmarshalJSON lets a Set be embedded directly in request bodies.
func (s *Set) UnmarshalJSON(data []byte) error {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	set, err := p.Set()
	if err != nil {
		return err
	}
	*s = *set
	return nil
}

// MarshalJSON writes the set in the named schema.
func (s *Set) MarshalJSON() ([]byte, error) {
	p := Payload{
		Schema:      SchemaNamed,
		ImageWidth:  s.ImageWidth,
		ImageHeight: s.ImageHeight,
		Landmarks:   make([]jsonLandmark, 0, len(s.Points)),
	}
	for _, j := range s.sortedJoints() {
		l := s.Points[j]
		conf := l.Confidence
		jl := jsonLandmark{Name: string(j), X: l.X, Y: l.Y, Confidence: &conf}
		if l.HasZ {
			z := l.Z
			jl.Z = &z
		}
		p.Landmarks = append(p.Landmarks, jl)
	}
	return json.Marshal(p)
}

// Set converts the payload, resolving indices through its schema.
func (p Payload) Set() (*Set, error) {
	var schema Schema
	if p.Schema != "" && p.Schema != SchemaNamed {
		var ok bool
		if schema, ok = SchemaByName(p.Schema); !ok {
			return nil, errors.Errorf("unknown landmark schema %q", p.Schema)
		}
	}

	s := NewSet(p.ImageWidth, p.ImageHeight)
	for i, jl := range p.Landmarks {
		j, err := jl.joint(schema)
		if err != nil {
			return nil, errors.Wrapf(err, "landmark %d", i)
		}
		if !finite(jl.X) || !finite(jl.Y) {
			return nil, errors.Errorf("landmark %d (%s): non-finite coordinate", i, j)
		}
		l := Landmark{Joint: j, X: jl.X, Y: jl.Y, Confidence: 1}
		if jl.Z != nil {
			l.Z, l.HasZ = *jl.Z, true
		}
		switch {
		case jl.Confidence != nil:
			l.Confidence = *jl.Confidence
		case jl.Visibility != nil:
			l.Confidence = *jl.Visibility
		}
		s.Add(l)
	}
	return s, nil
}

func (jl jsonLandmark) joint(schema Schema) (body.Joint, error) {
	if jl.Name != "" {
		j, ok := body.Parse(jl.Name)
		if !ok {
			return "", errors.Errorf("unknown joint %q", jl.Name)
		}
		return j, nil
	}
	if jl.Index == nil {
		return "", errors.New("landmark has neither name nor index")
	}
	if schema.Len() == 0 {
		return "", errors.New("indexed landmark requires a schema")
	}
	j, ok := schema.Joint(*jl.Index)
	if !ok {
		return "", errors.Errorf("index %d out of range for %s schema", *jl.Index, schema.Name)
	}
	return j, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
