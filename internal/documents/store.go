package documents

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"travelchat/internal/domain"
)

var validate = validator.New()

// Load reads the travel corpus from a JSON array at path. A missing,
// unreadable or malformed source yields the built-in defaults.
func Load(path string, logger arbor.ILogger) []domain.TravelDocument {
	docs, err := readFile(path, logger)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info().Str("path", path).Msg("No document file found, using built-in travel documents")
		} else {
			logger.Warn().Err(err).Str("path", path).Msg("Could not load document file, using built-in travel documents")
		}
		docs = Defaults()
		logger.Info().Int("documents", len(docs)).Str("source", "built-in").Msg("Documents loaded")
		return docs
	}
	logger.Info().Int("documents", len(docs)).Str("source", path).Msg("Documents loaded")
	return docs
}

func readFile(path string, logger arbor.ILogger) ([]domain.TravelDocument, error) {
	if strings.TrimSpace(path) == "" {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []domain.TravelDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	out := make([]domain.TravelDocument, 0, len(raw))
	for i, doc := range raw {
		if err := validate.Struct(doc); err != nil {
			logger.Warn().Int("index", i).Err(err).Msg("Skipping invalid travel document")
			continue
		}
		out = append(out, doc)
	}
	if len(out) == 0 {
		return nil, errors.New("no valid documents in source")
	}
	return out, nil
}

// Store holds the corpus for the lifetime of the process. It is loaded
// once and never mutated afterwards, so it is safe for concurrent readers.
type Store struct {
	path   string
	logger arbor.ILogger
	once   sync.Once
	docs   []domain.TravelDocument
}

// NewStore creates a store that loads from path on first use.
func NewStore(path string, logger arbor.ILogger) *Store {
	return &Store{path: path, logger: logger}
}

// NewStaticStore creates a store over an in-memory corpus.
func NewStaticStore(docs []domain.TravelDocument) *Store {
	s := &Store{docs: append([]domain.TravelDocument(nil), docs...)}
	s.once.Do(func() {})
	return s
}

func (s *Store) load() {
	s.once.Do(func() {
		s.docs = Load(s.path, s.logger)
	})
}

// All returns a copy of the corpus.
func (s *Store) All() []domain.TravelDocument {
	s.load()
	return append([]domain.TravelDocument(nil), s.docs...)
}

// Len returns the number of loaded documents.
func (s *Store) Len() int {
	s.load()
	return len(s.docs)
}

// Texts returns the searchable text of every document, in corpus order.
func (s *Store) Texts() []string {
	s.load()
	out := make([]string, len(s.docs))
	for i, d := range s.docs {
		out[i] = Text(d)
	}
	return out
}

// Text flattens a document into the text used for ranking and embedding.
func Text(d domain.TravelDocument) string {
	parts := []string{d.Name, d.Location, d.Description, d.Price, d.BestTime, d.Tips}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// Format renders a document as labelled lines for prompt context.
func Format(d domain.TravelDocument) string {
	var b strings.Builder
	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
	}
	field("Name", d.Name)
	field("Location", d.Location)
	field("Description", d.Description)
	field("Price", d.Price)
	field("Best time to visit", d.BestTime)
	field("Tips", d.Tips)
	return strings.TrimRight(b.String(), "\n")
}
