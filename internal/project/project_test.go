package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs", "tower-a"+FileExtension)

	p := model.NewProject("Tower A")
	p.Settings.StockLength = 10
	p.Settings.EnableSplicing = true
	p.Requirements = []model.Requirement{
		{Identifier: "A1", Diameter: 12, Length: 2.5, Quantity: 10},
		{Identifier: "B1", Diameter: 16, Length: 4, Quantity: 4, Note: "column"},
	}

	require.NoError(t, Save(path, p))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, p.ID, loaded.ID)
	assert.Equal(t, "Tower A", loaded.Name)
	assert.Equal(t, p.Requirements, loaded.Requirements)
	assert.Equal(t, 10.0, loaded.Settings.StockLength)
	assert.True(t, loaded.Settings.EnableSplicing)
	assert.Nil(t, loaded.Result)
}

func TestSaveWritesVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.barcut")
	require.NoError(t, Save(path, model.NewProject("x")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "`+FormatVersion+`"`)
}

func TestLoadRejectsMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.barcut")
	require.NoError(t, os.WriteFile(path, []byte(`{"project":{"name":"x"}}`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing version")
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.barcut")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.barcut"))
	assert.Error(t, err)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.barcut")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1.0.0","project":{"id":"abc","name":"bare"}}`), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.NotNil(t, p.Requirements)
	assert.Equal(t, model.DefaultSettings().StockLength, p.Settings.StockLength)
}
