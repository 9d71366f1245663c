package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_JSONRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	in := map[string]int{"rows": 10, "cols": 3}

	path, err := store.WriteJSON(DirIngestion, "summary.json", in)
	require.NoError(t, err)
	require.Equal(t, store.Path(DirIngestion, "summary.json"), path)

	var out map[string]int
	require.NoError(t, store.ReadJSON(DirIngestion, "summary.json", &out))
	require.Equal(t, in, out)
}

func TestStore_GobRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	type payload struct {
		Name  string
		Means []float64
	}
	in := payload{Name: "scaler", Means: []float64{1.5, -2}}

	_, err := store.WriteGob(DirPreprocessing, "scaler.gob", in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, store.ReadGob(DirPreprocessing, "scaler.gob", &out))
	require.Equal(t, in, out)
}

func TestStore_Missing(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.WriteJSON(DirTraining, "present.json", 1)
	require.NoError(t, err)

	missing := store.Missing(DirTraining, "present.json", "a.csv", "b.csv")
	require.Equal(t, []string{
		store.Path(DirTraining, "a.csv"),
		store.Path(DirTraining, "b.csv"),
	}, missing)

	require.Empty(t, store.Missing(DirTraining, "present.json"))
}

func TestStore_Copy(t *testing.T) {
	store := NewStore(t.TempDir())
	src := store.Path(DirTraining, "trained_model.gob")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("blob"), 0o644))

	dst, err := store.Copy(DirTraining, "trained_model.gob", DirDeployment, "model.gob")
	require.NoError(t, err)

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "blob", string(raw))
}

func TestStore_ReadMissingArtifact(t *testing.T) {
	store := NewStore(t.TempDir())
	var v int
	require.Error(t, store.ReadJSON(DirEvaluation, "absent.json", &v))
	require.Error(t, store.ReadGob(DirEvaluation, "absent.gob", &v))
}
