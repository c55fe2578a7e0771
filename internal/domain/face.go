package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"sort"
)

// Unknown é o nome devolvido quando nenhuma identidade fica abaixo do threshold
const Unknown = "Unknown"

const embeddingKey = "embedding"

// Embedding representa um vetor facial e os metadados do extrator.
// Metadata keeps every other key of the stored object verbatim (facial_area,
// face_confidence, ...), so round-trips never lose extractor output.
type Embedding struct {
	Vector   []float64
	Metadata map[string]json.RawMessage
}

func (e Embedding) MarshalJSON() ([]byte, error) {
	obj := make(map[string]json.RawMessage, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		if k == embeddingKey {
			continue
		}
		obj[k] = v
	}

	vec := e.Vector
	if vec == nil {
		vec = []float64{}
	}
	raw, err := json.Marshal(vec)
	if err != nil {
		return nil, err
	}
	obj[embeddingKey] = raw

	return json.Marshal(obj)
}

func (e *Embedding) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	raw, ok := obj[embeddingKey]
	if !ok {
		return errors.New(`missing "embedding" field`)
	}

	var vec []float64
	if err := json.Unmarshal(raw, &vec); err != nil {
		return fmt.Errorf("decode embedding vector: %w", err)
	}
	delete(obj, embeddingKey)

	e.Vector = vec
	e.Metadata = nil
	if len(obj) > 0 {
		e.Metadata = obj
	}
	return nil
}

// WithMetadata returns a copy of e with key set to the JSON encoding of v.
func (e Embedding) WithMetadata(key string, v any) Embedding {
	raw, err := json.Marshal(v)
	if err != nil || bytes.Equal(raw, []byte("null")) {
		return e
	}

	md := make(map[string]json.RawMessage, len(e.Metadata)+1)
	for k, val := range e.Metadata {
		md[k] = val
	}
	md[key] = raw
	e.Metadata = md
	return e
}

// Gallery mapeia cada identidade para os embeddings cadastrados, na ordem de cadastro.
type Gallery map[string][]Embedding

// Names returns the identities in lexicographic order. Every lookup that
// depends on iteration order goes through it.
func (g Gallery) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Add appends e to name, creating the identity when needed, and returns the
// number of embeddings now stored for name.
func (g Gallery) Add(name string, e Embedding) int {
	g[name] = append(g[name], e)
	return len(g[name])
}

// Size returns the total number of stored embeddings.
func (g Gallery) Size() int {
	n := 0
	for _, embs := range g {
		n += len(embs)
	}
	return n
}

// Clone returns a copy whose slices can be appended to without touching g.
func (g Gallery) Clone() Gallery {
	out := make(Gallery, len(g))
	for name, embs := range g {
		out[name] = append([]Embedding(nil), embs...)
	}
	return out
}

// Validate checks that no identity is blank or empty and that no vector is empty.
func (g Gallery) Validate() error {
	for _, name := range g.Names() {
		if name == "" {
			return errors.New("identity with empty name")
		}
		embs := g[name]
		if len(embs) == 0 {
			return fmt.Errorf("identity %q has no embeddings", name)
		}
		for i, e := range embs {
			if len(e.Vector) == 0 {
				return fmt.Errorf("identity %q: embedding %d is empty", name, i)
			}
		}
	}
	return nil
}

// BoundingBox em coordenadas de pixel da imagem original (x2/y2 exclusivos)
type BoundingBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

func (b BoundingBox) Empty() bool {
	return b.X2 <= b.X1 || b.Y2 <= b.Y1
}

func BoxFromRect(r image.Rectangle) BoundingBox {
	return BoundingBox{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// FaceRegion é uma face detectada: recorte e posição na imagem
type FaceRegion struct {
	Image      image.Image
	Box        BoundingBox
	Confidence float64
}

// Match é o resultado do matcher para um embedding
type Match struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

func (m Match) Known() bool {
	return m.Name != Unknown
}

// Registration é o resultado de um cadastro bem-sucedido
type Registration struct {
	Name        string      `json:"name"`
	Embeddings  int         `json:"embeddings"`
	BoundingBox BoundingBox `json:"bounding_box"`
	FacesFound  int         `json:"faces_found"`
}

// FaceResult descreve uma face processada no reconhecimento
type FaceResult struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Name        string      `json:"name"`
	Distance    float64     `json:"distance"`
	Extracted   bool        `json:"extracted"`
}

// Recognition é o resultado de um reconhecimento
type Recognition struct {
	Names     []string     `json:"recognized_faces"`
	Faces     []FaceResult `json:"faces"`
	LatencyMs int64        `json:"latency_ms"`
}
