package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/windscope/internal/wave"
)

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	bank := wave.BankOf([2]float64{440, 90}, [2]float64{220, 0}, [2]float64{7.25, -30}).Remove(1)
	set := Settings{Range: wave.Range{StartMs: 0, EndMs: 16}, LapRate: 60}
	require.NoError(t, st.Save("chord", bank, set))

	got, meta, err := st.LoadBank("chord")
	require.NoError(t, err)
	assert.Equal(t, bank, got)
	assert.Equal(t, "chord", meta.Name)
	assert.Equal(t, 2, meta.Oscillators)
	assert.Equal(t, set, meta.Settings())
	assert.False(t, meta.Timestamp.IsZero())

	// ids removed before saving must not come back
	next := got.AddDefault()
	assert.Equal(t, 3, next.Oscillators[2].ID)
}

func TestStoreOverwrite(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Save("a", wave.NewBank(), Settings{}))
	require.NoError(t, st.Save("a", wave.BankOf([2]float64{1, 0}, [2]float64{2, 0}), Settings{LapRate: 2}))

	bank, meta, err := st.LoadBank("a")
	require.NoError(t, err)
	assert.Equal(t, 2, bank.Len())
	assert.Equal(t, 2.0, meta.LapRate)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	banks, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, banks)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, st.Save(name, wave.NewBank(), Settings{}))
	}
	// stray entries are skipped
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "broken"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	banks, err = st.List()
	require.NoError(t, err)
	require.Len(t, banks, 3)
	assert.Equal(t, "alpha", banks[0].Name)
	assert.Equal(t, "mid", banks[1].Name)
	assert.Equal(t, "zeta", banks[2].Name)
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	banks, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, banks)
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = st.LoadBank("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, st.Delete("missing"), ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Save("gone", wave.NewBank(), Settings{}))
	require.NoError(t, st.Delete("gone"))

	_, err := st.Load("gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreInvalidName(t *testing.T) {
	st := New(t.TempDir())
	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		assert.ErrorIs(t, st.Save(name, wave.NewBank(), Settings{}), ErrInvalidName, "name %q", name)
		_, err := st.Load(name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestLoadBankRepairsCounter(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Save("b", wave.NewBank(), Settings{}))

	csv := "id,frequency,phase\n0,440,90\n9,10,0\nbad,row\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b", "oscillators.csv"), []byte(csv), 0644))

	bank, _, err := st.LoadBank("b")
	require.NoError(t, err)
	assert.Equal(t, 2, bank.Len())
	assert.Equal(t, 10, bank.NextID)
}

type failingClose struct {
	*os.File
	err error
}

func (f failingClose) Close() error {
	f.File.Close()
	return f.err
}

func TestStoreSaveReportsCloseError(t *testing.T) {
	diskFull := errors.New("no space left on device")
	orig := createFile
	createFile = func(path string) (io.WriteCloser, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		if filepath.Base(path) == oscillatorsFile {
			return failingClose{File: f, err: diskFull}, nil
		}
		return f, nil
	}
	t.Cleanup(func() { createFile = orig })

	st := New(t.TempDir())
	require.NoError(t, st.Init())
	err := st.Save("chord", wave.BankOf([2]float64{440, 0}), Settings{})
	assert.ErrorIs(t, err, diskFull)
}
