// Package store keeps fitted potentials on disk, one directory per entry
// with JSON metadata, the potential record and optional CSV energy scans.
package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/polypot/internal/potential"
	"github.com/san-kum/polypot/internal/record"
)

var ErrNotFound = errors.New("store: entry not found")

const (
	metadataFile  = "metadata.json"
	potentialFile = "potential.json"
	scanFile      = "scan.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	BodyOrder int                `json:"body_order"`
	Cutoff    float64            `json:"cutoff"`
	Terms     int                `json:"terms"`
	Functions int                `json:"functions"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// ScanPoint is one energy of a one-parameter scan, e.g. over the lattice
// constant.
type ScanPoint struct {
	Param  float64
	Energy float64
}

// Save writes p under a new entry and returns its id.
func (s *Store) Save(name string, p *potential.Potential, metrics map[string]float64) (string, error) {
	now := time.Now()
	id := fmt.Sprintf("%s_%d", name, now.UnixNano())
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	meta := Metadata{
		ID:        id,
		Name:      name,
		Timestamp: now,
		BodyOrder: p.BodyOrder(),
		Cutoff:    p.Cutoff(),
		Terms:     len(p.Terms()),
		Functions: p.Len(),
		Metrics:   metrics,
	}

	f, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := record.WriteFile(filepath.Join(dir, potentialFile), p.ToRecord()); err != nil {
		return "", err
	}
	return id, nil
}

// List returns all readable entries, oldest first.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	out := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		out = append(out, *meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadPotential(id string, opts ...potential.Option) (*potential.Potential, error) {
	path := filepath.Join(s.baseDir, id, potentialFile)
	r, err := record.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return potential.FromRecord(r, opts...)
}

// SaveScan stores scan points for an existing entry, replacing any earlier
// scan.
func (s *Store) SaveScan(id, param string, points []ScanPoint) error {
	if _, err := s.Load(id); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(s.baseDir, id, scanFile))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{param, "energy"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			strconv.FormatFloat(p.Param, 'g', -1, 64),
			strconv.FormatFloat(p.Energy, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadScan returns the parameter name and points of an entry's scan.
func (s *Store) LoadScan(id string) (string, []ScanPoint, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, scanFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("%w: no scan for %s", ErrNotFound, id)
		}
		return "", nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return "", nil, err
	}
	if len(rows) == 0 {
		return "", []ScanPoint{}, nil
	}

	points := make([]ScanPoint, 0, len(rows)-1)
	for i, row := range rows[1:] {
		x, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return "", nil, fmt.Errorf("scan row %d: %w", i+1, err)
		}
		e, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return "", nil, fmt.Errorf("scan row %d: %w", i+1, err)
		}
		points = append(points, ScanPoint{Param: x, Energy: e})
	}
	return rows[0][0], points, nil
}
