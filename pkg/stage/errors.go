package stage

import (
	"io/fs"
	"os"

	"github.com/pkg/errors"

	"mlpipeline/pkg/dataprep"
	"mlpipeline/pkg/model"
)

// Sentinel kinds caught at the stage boundary. Together with the dataprep
// and model sentinels they form the full failure taxonomy.
var (
	ErrConfig          = errors.New("configuration error")
	ErrMissingArtifact = errors.New("missing upstream artifact")
)

// Classify maps an error to its taxonomy label for the failure record.
// Errors are classified only here, at the stage boundary, never at finer
// granularity.
func Classify(err error) string {
	switch {
	case errors.Is(err, ErrConfig):
		return "ConfigError"
	case errors.Is(err, ErrMissingArtifact):
		return "MissingArtifact"
	case errors.Is(err, dataprep.ErrSplit):
		return "SplitError"
	case errors.Is(err, dataprep.ErrTransform):
		return "TransformError"
	case errors.Is(err, model.ErrModel):
		return "ModelError"
	case isIO(err):
		return "IOError"
	default:
		return "Error"
	}
}

func isIO(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission)
}
