package embedding

import (
	"encoding/binary"
	"errors"
	"math"
)

// Vector is a fixed-length, L2-normalized face embedding.
type Vector []float32

var ErrInvalidEncoding = errors.New("invalid embedding encoding")

// Distance returns the cosine distance between a and b: 0 means identical
// direction, values near 1 mean orthogonal. Zero-norm input makes the
// metric undefined; the maximum meaningful distance 1.0 is returned.
func Distance(a, b Vector) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// Comparator decides whether two embeddings belong to the same person.
type Comparator struct {
	Threshold float64
}

func NewComparator(threshold float64) Comparator {
	return Comparator{Threshold: threshold}
}

// SamePerson is strict: a distance exactly at the threshold does not match.
func (c Comparator) SamePerson(a, b Vector) bool {
	return Distance(a, b) < c.Threshold
}

// Encode serializes the vector as little-endian float32 bytes.
func Encode(v Vector) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func Decode(data []byte) (Vector, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, ErrInvalidEncoding
	}
	v := make(Vector, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return v, nil
}
