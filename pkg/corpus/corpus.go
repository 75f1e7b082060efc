/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: corpus.go
Description: Name corpus for QueryCollect. Holds the fixed list of human names used for
realistic string columns. Loaded once at startup from a local file, an HTTP(S) URL or the
embedded default list and immutable afterwards.
*/

package corpus

import (
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/detective-solutions/QueryCollect/pkg/logging"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEmptyCorpus is returned when a source yields no non-empty name
	ErrEmptyCorpus = errors.New("corpus: no names")
	// ErrUnsupportedFormat is returned for formats other than csv and txt
	ErrUnsupportedFormat = errors.New("corpus: unsupported format")
)

// Format is the layout of a corpus source
type Format string

const (
	FormatAuto Format = ""    // Derived from the source extension
	FormatCSV  Format = "csv" // First column of every record
	FormatTXT  Format = "txt" // One name per line
)

// DefaultTimeout bounds remote corpus downloads
const DefaultTimeout = 30 * time.Second

//go:embed data/names.csv
var defaultNames string

// Corpus is an ordered, immutable list of non-empty names
type Corpus struct {
	names  []string
	source string
}

// New creates a corpus from names. Entries are trimmed and empty entries dropped.
func New(source string, names []string) (*Corpus, error) {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCorpus, source)
	}
	return &Corpus{names: cleaned, source: source}, nil
}

// Default returns the embedded corpus
func Default() *Corpus {
	c, err := Parse("embedded", strings.NewReader(defaultNames), FormatCSV)
	if err != nil {
		panic(fmt.Sprintf("corpus: embedded names are invalid: %v", err))
	}
	return c
}

// Names returns a copy of the names in source order
func (c *Corpus) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Len returns the number of names
func (c *Corpus) Len() int {
	return len(c.names)
}

// Source describes where the names were loaded from
func (c *Corpus) Source() string {
	return c.source
}

// Parse reads names from r in the given format
func Parse(source string, r io.Reader, format Format) (*Corpus, error) {
	var names []string
	switch format {
	case FormatCSV:
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV corpus %s: %w", source, err)
		}
		for _, rec := range records {
			if len(rec) > 0 {
				names = append(names, rec[0])
			}
		}
	case FormatTXT:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read TXT corpus %s: %w", source, err)
		}
		names = strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return New(source, names)
}

// DetectFormat derives the format from the source extension, defaulting to txt
func DetectFormat(source string) Format {
	if strings.EqualFold(filepath.Ext(source), ".csv") {
		return FormatCSV
	}
	return FormatTXT
}

// Loader fetches corpora from files or HTTP(S) URLs
type Loader struct {
	Client *http.Client
	Logger logrus.FieldLogger
}

// NewLoader creates a loader with a bounded HTTP client
func NewLoader(logger logrus.FieldLogger) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Loader{
		Client: &http.Client{Timeout: DefaultTimeout},
		Logger: logger,
	}
}

// Load reads the corpus at source. An empty source selects the embedded corpus.
func (l *Loader) Load(ctx context.Context, source string, format Format) (*Corpus, error) {
	if source == "" {
		c := Default()
		l.Logger.WithField("names", c.Len()).Info("Using embedded name corpus")
		return c, nil
	}
	if format == FormatAuto {
		format = DetectFormat(source)
	}

	var reader io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build corpus request: %w", err)
		}
		resp, err := l.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch corpus: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("corpus %s returned status %d", source, resp.StatusCode)
		}
		reader = resp.Body
	} else {
		file, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open corpus file: %w", err)
		}
		reader = file
	}
	defer reader.Close()

	c, err := Parse(source, reader, format)
	if err != nil {
		return nil, err
	}

	l.Logger.WithFields(logrus.Fields{
		"source": source,
		"format": format,
		"names":  c.Len(),
	}).Info("Loaded name corpus")
	return c, nil
}
