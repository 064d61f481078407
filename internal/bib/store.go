// store.go loads records from YAML and serves them to templates.
package bib

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/bibweb/pkg/tex"
)

// Store is a set of publications keyed by record key. It implements
// tex.DataProvider.
type Store struct {
	pubs map[string]*Publication
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{pubs: make(map[string]*Publication)}
}

// LoadFile reads a YAML record file.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads records from YAML of the form
//
//	key:
//	  type: article
//	  title: ...
//	  topics: [types, security]
//
// Scalar values of any YAML type become strings. Values that cannot be
// converted are reported together; the remaining records are still loaded.
func Load(r io.Reader) (*Store, error) {
	var raw map[string]map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}

	s := NewStore()
	var errs *multierror.Error
	for key, rec := range raw {
		fields := make(map[string]string, len(rec))
		var topics []string
		for name, v := range rec {
			if name == "topics" {
				t, err := cast.ToStringSliceE(v)
				if err != nil {
					errs = multierror.Append(errs, fmt.Errorf("record %s: field %s: %w", key, name, err))
					continue
				}
				topics = t
				continue
			}
			str, err := cast.ToStringE(v)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("record %s: field %s: %w", key, name, err))
				continue
			}
			fields[name] = str
		}
		p := NewPublication(key, fields)
		p.AddTopics(topics...)
		s.Add(p)
	}
	return s, errs.ErrorOrNil()
}

// Add inserts or replaces a publication.
func (s *Store) Add(p *Publication) {
	s.pubs[p.Key] = p
}

// Get returns the publication with the given key.
func (s *Store) Get(key string) (*Publication, bool) {
	p, ok := s.pubs[key]
	return p, ok
}

// Len returns the number of publications.
func (s *Store) Len() int {
	return len(s.pubs)
}

// All returns every publication ordered by key.
func (s *Store) All() []*Publication {
	keys := make([]string, 0, len(s.pubs))
	for k := range s.pubs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Publication, len(keys))
	for i, k := range keys {
		out[i] = s.pubs[k]
	}
	return out
}

// Lookup implements tex.DataProvider.
func (s *Store) Lookup(key, field string) (string, bool) {
	p, ok := s.pubs[key]
	if !ok {
		return "", false
	}
	return p.Namespace().Lookup(field)
}

// Put implements tex.DataProvider.
func (s *Store) Put(key, field, value string) error {
	p, ok := s.pubs[key]
	if !ok {
		return fmt.Errorf("publication %q: %w", key, tex.ErrNotFound)
	}
	p.Set(field, value)
	return nil
}
