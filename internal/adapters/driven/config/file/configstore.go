package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/halcyon-tools/jirafetch/internal/core/domain"
)

// EnvToken is the environment variable that overrides the stored token.
const EnvToken = "JIRAFETCH_TOKEN"

// Defaults applied when the config file omits a setting.
const (
	DefaultFormat         = domain.FormatJSON
	DefaultBaseName       = "jira_tickets"
	DefaultTicketsPerFile = 100
)

// fileConfig mirrors the on-disk TOML layout.
type fileConfig struct {
	BaseURL          string              `toml:"base_url"`
	Token            string              `toml:"token,omitempty"`
	Query            string              `toml:"query"`
	Fields           []string            `toml:"fields,omitempty"`
	MaxResults       int                 `toml:"max_results,omitempty"`
	PageSize         int                 `toml:"page_size,omitempty"`
	ExportFormat     string              `toml:"export_format,omitempty"`
	ExportBaseName   string              `toml:"export_base_name,omitempty"`
	ExportDir        string              `toml:"export_dir,omitempty"`
	TicketsPerFile   int                 `toml:"tickets_per_file,omitempty"`
	GlobalExclusions []string            `toml:"global_exclusions,omitempty"`
	FieldExclusions  map[string][]string `toml:"field_exclusions,omitempty"`
}

// Store is the file-based configuration store. The config file is
// created on first Save with owner-only permissions since it may hold
// the API token.
type Store struct {
	path string
	cfg  fileConfig
}

// NewStore opens the config store at path. An empty path defaults to
// ~/.jirafetch/config.toml. A missing file is not an error; the store
// starts empty and commands that need settings report what is missing.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".jirafetch", "config.toml")
	}

	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &s.cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return s, nil
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

// BaseURL returns the tracker base URL.
func (s *Store) BaseURL() string {
	return s.cfg.BaseURL
}

// Token returns the API token. The JIRAFETCH_TOKEN environment variable
// takes precedence over the stored value.
func (s *Store) Token() string {
	if env := os.Getenv(EnvToken); env != "" {
		return env
	}
	return s.cfg.Token
}

// Fields returns the per-issue fields to request from the tracker.
// Defaults to key and summary when unset, matching the minimal useful
// export.
func (s *Store) Fields() []string {
	if len(s.cfg.Fields) == 0 {
		return []string{"key", "summary"}
	}
	return s.cfg.Fields
}

// ExportDir returns the directory artifacts are written to, defaulting
// to the working directory.
func (s *Store) ExportDir() string {
	if s.cfg.ExportDir == "" {
		return "."
	}
	return s.cfg.ExportDir
}

// ExportConfig assembles the immutable run configuration from the
// stored settings, applying defaults for anything omitted.
func (s *Store) ExportConfig() domain.ExportConfig {
	cfg := domain.ExportConfig{
		Query:            s.cfg.Query,
		Fields:           s.Fields(),
		MaxResults:       s.cfg.MaxResults,
		PageSize:         s.cfg.PageSize,
		Format:           s.cfg.ExportFormat,
		BaseName:         s.cfg.ExportBaseName,
		TicketsPerFile:   s.cfg.TicketsPerFile,
		GlobalExclusions: domain.ExclusionSpec(s.cfg.GlobalExclusions),
	}

	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.BaseName == "" {
		cfg.BaseName = DefaultBaseName
	}
	if cfg.TicketsPerFile == 0 {
		cfg.TicketsPerFile = DefaultTicketsPerFile
	}
	if len(s.cfg.FieldExclusions) > 0 {
		cfg.FieldExclusions = make(domain.FieldExclusions, len(s.cfg.FieldExclusions))
		for field, paths := range s.cfg.FieldExclusions {
			cfg.FieldExclusions[field] = domain.ExclusionSpec(paths)
		}
	}

	return cfg
}

// Set updates a single setting by its TOML key and persists the file.
func (s *Store) Set(key, value string) error {
	switch key {
	case "base_url":
		s.cfg.BaseURL = value
	case "query":
		s.cfg.Query = value
	case "export_format":
		s.cfg.ExportFormat = value
	case "export_base_name":
		s.cfg.ExportBaseName = value
	case "export_dir":
		s.cfg.ExportDir = value
	case "max_results", "page_size", "tickets_per_file":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		switch key {
		case "max_results":
			s.cfg.MaxResults = n
		case "page_size":
			s.cfg.PageSize = n
		case "tickets_per_file":
			s.cfg.TicketsPerFile = n
		}
	default:
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
	return s.Save()
}

// SetToken stores the API token and persists the file.
func (s *Store) SetToken(token string) error {
	s.cfg.Token = token
	return s.Save()
}

// Save writes the configuration to disk with owner-only permissions.
func (s *Store) Save() error {
	data, err := toml.Marshal(s.cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
