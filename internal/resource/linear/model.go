// Package linear is a logistic scoring model stored as a small yaml, json or
// toml file inside each version directory. It is the Resource the swapd
// service hot-swaps.
package linear

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"swapd/internal/config"
)

// DefaultFileBase is probed with each supported extension when no explicit
// model file name is configured.
const DefaultFileBase = "model"

// Model scores a feature vector as sigmoid(bias + sum(weights[f] * x[f])).
// Features absent from Weights are ignored.
type Model struct {
	// File is the model file name inside the version directory. Empty means
	// probe model.yaml, model.yml, model.json, model.toml.
	File string

	Name    string
	Bias    float64
	Weights map[string]float64
	dir     string
}

// file is the on-disk shape.
type file struct {
	Name    string             `json:"name" yaml:"name" toml:"name"`
	Bias    float64            `json:"bias" yaml:"bias" toml:"bias"`
	Weights map[string]float64 `json:"weights" yaml:"weights" toml:"weights"`
}

// Factory returns a constructor for empty models reading fileName.
func Factory(fileName string) func() *Model {
	return func() *Model { return &Model{File: fileName} }
}

// Load reads and validates the model file in dir.
func (m *Model) Load(dir string) error {
	path, err := m.locate(dir)
	if err != nil {
		return err
	}
	var f file
	if err := config.DecodeFile(path, &f); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if err := f.validate(); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	m.Name, m.Bias, m.Weights, m.dir = f.Name, f.Bias, f.Weights, dir
	return nil
}

func (m *Model) locate(dir string) (string, error) {
	if m.File != "" {
		p := filepath.Join(dir, m.File)
		if _, err := os.Stat(p); err != nil {
			return "", err
		}
		return p, nil
	}
	for _, ext := range config.Extensions {
		p := filepath.Join(dir, DefaultFileBase+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no %s.{%s} in %s", DefaultFileBase, strings.Join(trimDots(config.Extensions), ","), dir)
}

func trimDots(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = strings.TrimPrefix(e, ".")
	}
	return out
}

func (f file) validate() error {
	if len(f.Weights) == 0 {
		return errors.New("model has no weights")
	}
	if bad(f.Bias) {
		return fmt.Errorf("bias is not finite: %v", f.Bias)
	}
	for k, w := range f.Weights {
		if k == "" {
			return errors.New("empty feature name")
		}
		if bad(w) {
			return fmt.Errorf("weight %q is not finite: %v", k, w)
		}
	}
	return nil
}

func bad(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

// Loaded reports whether Load succeeded on this instance.
func (m *Model) Loaded() bool { return m.Weights != nil }

// Dir returns the version directory the model was loaded from.
func (m *Model) Dir() string { return m.dir }

// Score returns the model's probability for features, in [0, 1].
func (m *Model) Score(features map[string]float64) float64 {
	z := m.Bias
	for k, x := range features {
		if w, ok := m.Weights[k]; ok {
			z += w * x
		}
	}
	return 1 / (1 + math.Exp(-z))
}

// Features returns the model's feature names, sorted.
func (m *Model) Features() []string {
	out := make([]string, 0, len(m.Weights))
	for k := range m.Weights {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
