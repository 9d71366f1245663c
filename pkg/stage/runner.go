// Package stage implements the uniform per-stage control-flow contract: load
// configuration, check upstream artifacts, execute the stage body, persist
// artifacts and emit exactly one structured result record.
package stage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"mlpipeline/pkg/artifact"
	"mlpipeline/pkg/config"
)

// phase is the runner's state. Every run moves Loading -> Executing ->
// Reporting and terminates in either Succeeded or Failed; failures jump
// straight to Reporting.
type phase int

const (
	phaseLoading phase = iota
	phaseExecuting
	phaseReporting
	phaseSucceeded
	phaseFailed
)

// Context carries the per-invocation collaborators into a stage body.
type Context struct {
	Config *config.Config
	Store  *artifact.Store
	Log    zerolog.Logger
}

// Stage is one independently invoked unit of the pipeline.
type Stage interface {
	// Name is the stage identifier used in result records and as the
	// stage's artifact subdirectory.
	Name() string
	// Requires lists the artifact paths that must exist before the stage
	// may execute.
	Requires(store *artifact.Store) []string
	// Execute runs the stage body and returns its output summary and the
	// artifact paths it wrote.
	Execute(ctx *Context) (outputs map[string]any, artifacts []string, err error)
}

// SuccessRecord is the single structured record emitted on the primary
// channel when a stage succeeds.
type SuccessRecord struct {
	Status    string         `json:"status"`
	Stage     string         `json:"stage"`
	Outputs   map[string]any `json:"outputs"`
	Artifacts []string       `json:"artifacts"`
}

// FailureRecord is the single structured record emitted on the secondary
// channel when a stage fails.
type FailureRecord struct {
	Status    string `json:"status"`
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Traceback string `json:"traceback"`
}

// Runner drives one stage invocation through the phase machine.
type Runner struct {
	Stage  Stage
	Stdout io.Writer
	Stderr io.Writer

	phase phase
}

// NewRunner returns a runner wired to the process's standard streams.
func NewRunner(s Stage) *Runner {
	return &Runner{Stage: s, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes the stage against the given configuration file and returns
// the process exit code: 0 on success, 1 on any failure. The stage never
// terminates without emitting a result record.
func (r *Runner) Run(configPath string) int {
	runID := uuid.NewString()
	log := zerolog.New(zerolog.ConsoleWriter{Out: r.Stdout, NoColor: true}).
		With().Timestamp().Str("stage", r.Stage.Name()).Str("run_id", runID).Logger()

	r.phase = phaseLoading
	cfg, err := config.Load(configPath)
	if err != nil {
		return r.fail(log, errors.Wrap(ErrConfig, err.Error()))
	}
	store := artifact.NewStore(cfg.Data.OutputPath)

	if missing := r.Stage.Requires(store); len(missing) > 0 {
		return r.fail(log, errors.Wrapf(ErrMissingArtifact, "%v", missing))
	}

	r.phase = phaseExecuting
	log.Info().Msg("starting stage")
	outputs, artifacts, err := r.execute(&Context{Config: cfg, Store: store, Log: log})
	if err != nil {
		return r.fail(log, err)
	}

	r.phase = phaseReporting
	rec := SuccessRecord{
		Status:    "success",
		Stage:     r.Stage.Name(),
		Outputs:   outputs,
		Artifacts: artifacts,
	}
	if err := emit(r.Stdout, rec); err != nil {
		return r.fail(log, err)
	}
	log.Info().Msg("stage completed successfully")
	r.phase = phaseSucceeded
	return 0
}

// execute invokes the stage body, converting any panic into an error so the
// invocation always reaches Reporting.
func (r *Runner) execute(ctx *Context) (outputs map[string]any, artifacts []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Errorf("panic: %v", rec)
		}
	}()
	return r.Stage.Execute(ctx)
}

func (r *Runner) fail(log zerolog.Logger, err error) int {
	r.phase = phaseReporting
	kind := Classify(err)
	log.Error().Str("kind", kind).Msg(err.Error())
	rec := FailureRecord{
		Status:    "error",
		Stage:     r.Stage.Name(),
		Message:   fmt.Sprintf("%s: %s", kind, err.Error()),
		Traceback: fmt.Sprintf("%+v", err),
	}
	if emitErr := emit(r.Stderr, rec); emitErr != nil {
		fmt.Fprintln(r.Stderr, rec.Message)
	}
	r.phase = phaseFailed
	return 1
}

func emit(w io.Writer, rec any) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshal result record")
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
