package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

// Loader reads the catalog from a directory of YAML files
type Loader struct {
	dir string
}

// NewLoader creates a loader for the given catalog directory
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Dir returns the directory the loader reads from
func (l *Loader) Dir() string {
	return l.dir
}

// Name identifies the source in logs
func (l *Loader) Name() string {
	return "yaml:" + l.dir
}

// Load reads every *.yaml / *.yml file in the directory (lexical order) and
// returns the projects in file order. Invalid records are skipped with a
// warning; a later record reusing an earlier id is dropped.
func (l *Loader) Load(ctx context.Context) ([]*models.Project, error) {
	slog.Info("loading catalog from directory", "dir", l.dir)

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(l.dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to glob catalog files: %w", err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if len(files) == 0 {
		if _, err := os.Stat(l.dir); err != nil {
			return nil, fmt.Errorf("failed to read catalog directory: %w", err)
		}
	}

	seen := make(map[string]struct{})
	var projects []*models.Project

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loaded, err := l.LoadFile(file)
		if err != nil {
			slog.Warn("failed to load catalog file", "file", file, "error", err)
			continue
		}

		for _, p := range loaded {
			if _, dup := seen[p.ID]; dup {
				slog.Warn("duplicate project id, skipping", "file", file, "id", p.ID, "title", p.Title)
				continue
			}
			seen[p.ID] = struct{}{}
			projects = append(projects, p)
		}
	}

	slog.Info("catalog loaded", "projects", len(projects), "files", len(files))
	return projects, nil
}

// LoadFile parses a single catalog file
func (l *Loader) LoadFile(path string) ([]*models.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes catalog YAML. source is only used in log messages.
func Parse(data []byte, source string) ([]*models.Project, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	projects := make([]*models.Project, 0, len(cf.Projects))
	for i, pf := range cf.Projects {
		p, err := pf.toProject()
		if err != nil {
			slog.Warn("invalid catalog record, skipping",
				"source", source,
				"index", i,
				"title", pf.Title,
				"error", err,
			)
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// --- YAML file structs ---

// catalogFile represents the YAML structure of a catalog file
type catalogFile struct {
	Projects []projectFile `yaml:"projects"`
}

// projectFile represents a single project record in a catalog file
type projectFile struct {
	ID               string   `yaml:"id"`
	Title            string   `yaml:"title"`
	Description      string   `yaml:"description"`
	Type             string   `yaml:"type"`
	Category         string   `yaml:"category"`
	Language         string   `yaml:"language"`
	Genre            string   `yaml:"genre"`
	Poster           string   `yaml:"poster"`
	Trailer          string   `yaml:"trailer"`
	FundedPercentage float64  `yaml:"funded_percentage"`
	TargetAmount     float64  `yaml:"target_amount"`
	RaisedAmount     float64  `yaml:"raised_amount"`
	TimeLeft         string   `yaml:"time_left"`
	Tags             []string `yaml:"tags"`
	Director         string   `yaml:"director"`
	Artist           string   `yaml:"artist"`
	Perks            []string `yaml:"perks"`
	Rating           *float64 `yaml:"rating"`
}

func (pf projectFile) toProject() (*models.Project, error) {
	if strings.TrimSpace(pf.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	kind, ok := models.ParseKind(pf.Type)
	if !ok {
		return nil, fmt.Errorf("unknown project type %q", pf.Type)
	}

	if pf.Director != "" && pf.Artist != "" {
		return nil, fmt.Errorf("director and artist are mutually exclusive")
	}

	id := strings.TrimSpace(pf.ID)
	if id == "" {
		id = uuid.New().String()
	}

	p := &models.Project{
		ID:               id,
		Title:            pf.Title,
		Description:      pf.Description,
		Kind:             kind,
		Category:         pf.Category,
		Language:         pf.Language,
		Genre:            pf.Genre,
		PosterURL:        pf.Poster,
		TrailerURL:       pf.Trailer,
		FundedPercentage: clamp(sanitize(pf.FundedPercentage), 0, 100),
		TargetAmount:     sanitize(pf.TargetAmount),
		RaisedAmount:     sanitize(pf.RaisedAmount),
		TimeLeft:         strings.TrimSpace(pf.TimeLeft),
		Tags:             nonNil(pf.Tags),
		Director:         pf.Director,
		Artist:           pf.Artist,
		Perks:            nonNil(pf.Perks),
	}

	if pf.Rating != nil {
		r := sanitize(*pf.Rating)
		p.Rating = &r
	}

	return p, nil
}

// sanitize maps NaN, infinities and negatives to 0
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
