package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// PromptStore loads named prompt templates from disk and compiles them by
// substituting {{placeholder}} markers. Templates are cached after the
// first load; a missing template is a configuration fault, never retried.
type PromptStore interface {
	Load(name string) (string, error)
	Get(name string, variables map[string]string) (string, error)
}

type promptStore struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]string
}

func NewPromptStore(dir string) PromptStore {
	return &promptStore{
		dir:   dir,
		cache: make(map[string]string),
	}
}

func (s *promptStore) Load(name string) (string, error) {
	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	content, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", fmt.Errorf("impossible de charger le prompt %s: %w", name, err)
	}

	s.mu.Lock()
	s.cache[name] = string(content)
	s.mu.Unlock()

	return string(content), nil
}

func (s *promptStore) Get(name string, variables map[string]string) (string, error) {
	template, err := s.Load(name)
	if err != nil {
		return "", err
	}
	return ReplacePromptVariables(template, variables), nil
}

// ReplacePromptVariables substitutes every {{name}} marker with its
// replacement in a single pass over the template. Replacement values are
// inserted verbatim and never rescanned, so a value containing {{...}}
// cannot trigger further expansion. Unknown markers are left untouched so
// template evolution does not break older callers.
func ReplacePromptVariables(template string, variables map[string]string) string {
	var b strings.Builder
	rest := template

	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}}")
		if end == -1 {
			b.WriteString(rest)
			break
		}

		b.WriteString(rest[:start])
		name := rest[start+2 : start+end]
		if value, ok := variables[name]; ok {
			b.WriteString(value)
		} else {
			b.WriteString(rest[start : start+end+2])
		}
		rest = rest[start+end+2:]
	}

	return b.String()
}
