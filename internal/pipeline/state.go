package pipeline

import (
	"sync"

	"github.com/go-gota/gota/dataframe"

	"pvcli/internal/config"
	"pvcli/internal/features"
	"pvcli/pkg/contracts/domain"
)

// State carries everything a run accumulates: the current table, the
// artifact paths written so far, the evaluation report, and per-step
// progress. Steps replace the table with their output; they never mutate
// it in place.
type State struct {
	mu sync.RWMutex

	runID string
	cfg   *config.Config

	table    dataframe.DataFrame
	hasTable bool

	steps     map[string]*StepState
	stepOrder []string

	artifacts map[string]string
	prep      *features.PrepStats
	report    *domain.EvaluationReport
}

// NewState creates a run state for the given run ID and config snapshot
func NewState(runID string, cfg *config.Config) *State {
	return &State{
		runID:     runID,
		cfg:       cfg,
		steps:     make(map[string]*StepState),
		artifacts: make(map[string]string),
	}
}

// RunID returns the run identifier
func (s *State) RunID() string {
	return s.runID
}

// Config returns the config snapshot the run was started with
func (s *State) Config() *config.Config {
	return s.cfg
}

// Table returns the current table and whether one has been set
func (s *State) Table() (dataframe.DataFrame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table, s.hasTable
}

// SetTable replaces the current table with a step's output
func (s *State) SetTable(df dataframe.DataFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = df
	s.hasTable = true
}

// RegisterStep creates and tracks the state for one step. Registering
// the same ID twice returns the existing state.
func (s *State) RegisterStep(id, name string) *StepState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.steps[id]; ok {
		return existing
	}
	ss := NewStepState(id, name)
	s.steps[id] = ss
	s.stepOrder = append(s.stepOrder, id)
	return ss
}

// StepState returns the tracked state for a step ID
func (s *State) StepState(id string) (*StepState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ss, ok := s.steps[id]
	return ss, ok
}

// StepStates returns the tracked states in registration order
func (s *State) StepStates() []*StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*StepState, 0, len(s.stepOrder))
	for _, id := range s.stepOrder {
		out = append(out, s.steps[id])
	}
	return out
}

// SetArtifact records the path of a written artifact
func (s *State) SetArtifact(name, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[name] = path
}

// Artifacts returns a copy of the artifact name to path map
func (s *State) Artifacts() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.artifacts))
	for k, v := range s.artifacts {
		out[k] = v
	}
	return out
}

// SetPreparation records the fitted preparation statistics
func (s *State) SetPreparation(p features.PrepStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prep = &p
}

// Preparation returns the fitted preparation statistics and whether the
// prepare step has recorded them.
func (s *State) Preparation() (features.PrepStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prep == nil {
		return features.PrepStats{}, false
	}
	return *s.prep, true
}

// SetReport stores the evaluation report
func (s *State) SetReport(r domain.EvaluationReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = &r
}

// Report returns the evaluation report and whether one has been set
func (s *State) Report() (domain.EvaluationReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return domain.EvaluationReport{}, false
	}
	return *s.report, true
}
