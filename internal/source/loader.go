package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/legalese/internal/model"
	"github.com/ppiankov/legalese/internal/simplify"
)

const (
	contentTypeText = "text/plain"
	contentTypeHTML = "text/html"

	// StdinRef selects standard input
	StdinRef = "-"
)

// ErrUnsupportedFormat is returned for document formats that cannot be read as text
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Loader resolves document references
type Loader struct {
	fetcher  *Fetcher
	stdin    io.Reader
	maxBytes int64
}

// NewLoader creates a loader using the HTTP settings for remote documents
func NewLoader(cfg model.HTTPConfig) *Loader {
	fetcher := NewFetcher(cfg.Timeout, cfg.UserAgent, cfg.MaxBodyBytes, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	if cfg.RespectRobots {
		fetcher.WithRobots()
	}
	return &Loader{
		fetcher:  fetcher,
		stdin:    os.Stdin,
		maxBytes: cfg.MaxBodyBytes,
	}
}

// WithFetcher replaces the fetcher used for URLs
func (l *Loader) WithFetcher(f *Fetcher) *Loader {
	l.fetcher = f
	return l
}

// WithStdin replaces the reader used for "-"
func (l *Loader) WithStdin(r io.Reader) *Loader {
	l.stdin = r
	return l
}

// Load reads the document named by ref: "-" for stdin, an http(s) URL,
// or a file path. HTML is reduced to its visible text.
func (l *Loader) Load(ctx context.Context, ref string) (*Document, error) {
	switch {
	case ref == StdinRef:
		return l.loadStdin()
	case IsURL(ref):
		return l.loadURL(ctx, ref)
	default:
		return l.loadFile(ref)
	}
}

// IsURL reports whether ref is an http or https URL
func IsURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (l *Loader) loadStdin() (*Document, error) {
	data, err := l.readLimited(l.stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return &Document{
		Name:        "stdin",
		Origin:      StdinRef,
		Text:        simplify.Trim(string(data)),
		ContentType: contentTypeText,
	}, nil
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) (*Document, error) {
	result, err := l.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	mediaType := contentTypeText
	if result.ContentType != "" {
		if parsed, _, err := mime.ParseMediaType(result.ContentType); err == nil {
			mediaType = parsed
		}
	}

	doc := &Document{
		Name:        result.Name,
		Origin:      result.FinalURL,
		ContentType: mediaType,
	}

	switch {
	case mediaType == contentTypeHTML || mediaType == "application/xhtml+xml":
		extracted, err := ExtractHTML(bytes.NewReader(result.Body))
		if err != nil {
			return nil, err
		}
		if extracted.Title != "" {
			doc.Name = extracted.Title
		}
		doc.Text = simplify.Trim(extracted.Text)
	case mediaType == "application/pdf":
		return nil, fmt.Errorf("%s: %w (pdf)", rawURL, ErrUnsupportedFormat)
	case strings.HasPrefix(mediaType, "text/"):
		doc.Text = simplify.Trim(string(result.Body))
	default:
		return nil, fmt.Errorf("%s: %w (%s)", rawURL, ErrUnsupportedFormat, mediaType)
	}

	return doc, nil
}

func (l *Loader) loadFile(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return nil, fmt.Errorf("%s: %w (pdf)", path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := l.readLimited(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc := &Document{
		Name:        strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Origin:      path,
		ContentType: contentTypeText,
	}

	if ext == ".html" || ext == ".htm" {
		extracted, err := ExtractHTML(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		doc.Text = simplify.Trim(extracted.Text)
		doc.ContentType = contentTypeHTML
		return doc, nil
	}

	doc.Text = simplify.Trim(string(data))
	return doc, nil
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	if l.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, l.maxBytes)
	}
	return data, nil
}
