package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/windscope/internal/wave"
)

const (
	metadataFile    = "metadata.json"
	oscillatorsFile = "oscillators.csv"
)

var (
	ErrNotFound    = errors.New("bank not found")
	ErrInvalidName = errors.New("invalid bank name")
)

// Store keeps named oscillator banks, one directory per bank.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type BankMetadata struct {
	Name        string    `json:"name"`
	Timestamp   time.Time `json:"timestamp"`
	Oscillators int       `json:"oscillators"`
	NextID      int       `json:"next_id"`
	StartMs     float64   `json:"start_ms"`
	EndMs       float64   `json:"end_ms"`
	LapRate     float64   `json:"lap_rate"`
}

// Settings are the analysis inputs stored alongside a bank.
type Settings struct {
	Range   wave.Range
	LapRate float64
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Save writes the bank under name, replacing any bank of the same name.
func (s *Store) Save(name string, bank wave.Bank, set Settings) error {
	if err := validName(name); err != nil {
		return err
	}
	dir := filepath.Join(s.baseDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	meta := BankMetadata{
		Name:        name,
		Timestamp:   time.Now(),
		Oscillators: bank.Len(),
		NextID:      bank.NextID,
		StartMs:     set.Range.StartMs,
		EndMs:       set.Range.EndMs,
		LapRate:     set.LapRate,
	}

	if err := writeFile(filepath.Join(dir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, oscillatorsFile), func(w io.Writer) error {
		return writeOscillators(w, bank)
	})
}

// createFile opens a file for writing; tests swap it.
var createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// writeFile creates path, fills it with write and reports the close error
// of a file that was otherwise written successfully.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeOscillators(out io.Writer, bank wave.Bank) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"id", "frequency", "phase"}); err != nil {
		return err
	}
	for _, o := range bank.Oscillators {
		row := []string{
			strconv.Itoa(o.ID),
			strconv.FormatFloat(o.Frequency, 'g', -1, 64),
			strconv.FormatFloat(o.Phase, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable bank, sorted by name.
func (s *Store) List() ([]BankMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BankMetadata{}, nil
		}
		return nil, err
	}

	banks := make([]BankMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		banks = append(banks, *meta)
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i].Name < banks[j].Name })
	return banks, nil
}

func (s *Store) Load(name string) (*BankMetadata, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, name, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}

	var meta BankMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &meta, nil
}

// LoadBank reads the oscillators of a saved bank. The returned NextID is the
// larger of the stored counter and one past the highest stored id.
func (s *Store) LoadBank(name string) (wave.Bank, *BankMetadata, error) {
	meta, err := s.Load(name)
	if err != nil {
		return wave.Bank{}, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, name, oscillatorsFile))
	if err != nil {
		return wave.Bank{}, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return wave.Bank{}, nil, err
	}

	bank := wave.Bank{Oscillators: []wave.Oscillator{}, NextID: meta.NextID}
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 3 {
			continue
		}
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		freq, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		phase, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			continue
		}
		bank.Oscillators = append(bank.Oscillators, wave.Oscillator{ID: id, Frequency: freq, Phase: phase})
		if id >= bank.NextID {
			bank.NextID = id + 1
		}
	}
	return bank, meta, nil
}

func (s *Store) Delete(name string) error {
	if _, err := s.Load(name); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, name))
}

func (m BankMetadata) Settings() Settings {
	return Settings{Range: wave.Range{StartMs: m.StartMs, EndMs: m.EndMs}, LapRate: m.LapRate}
}
