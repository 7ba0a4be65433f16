package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetKeysSorted(t *testing.T) {
	m := map[string]int{"b": 2, "a": 1, "c": 3}
	assert.Equal(t, []string{"a", "b", "c"}, GetKeysSorted(m))
}

func TestMinMaxClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(1, Min(1, 2))
	assert.Equal(2, Max(1, 2))
	assert.Equal(1.5, Clamp(3.0, 0.5, 1.5))
	assert.Equal(0.5, Clamp(0.1, 0.5, 1.5))
	assert.Equal(1.0, Clamp(1.0, 0.5, 1.5))
}

func TestWriteAndReadJSON(t *testing.T) {
	assert := assert.New(t)
	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	path := filepath.Join(t.TempDir(), "doc.json")

	assert.NoError(WriteJSON(path, doc{Name: "x", Count: 3}))
	got, err := ReadJSON[doc](path)
	assert.NoError(err)
	assert.Equal(doc{Name: "x", Count: 3}, got)

	_, err = ReadJSON[doc](filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(err)
}
