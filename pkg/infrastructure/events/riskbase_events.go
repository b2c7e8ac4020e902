package events

const (
	RunStartedEvent       = "run.started"
	StepSkippedEvent      = "step.skipped"
	FamilyClassifiedEvent = "family.classified"
	RunCompletedEvent     = "run.completed"
	RunFailedEvent        = "run.failed"

	MatrixImportedEvent = "matrix.imported"
	MatrixUpdatedEvent  = "matrix.updated"

	ResultsSavedEvent = "results.saved"
)

// MatrixStream is the stream that records policy maintenance.
const MatrixStream = "matrix"

type RunStarted struct {
	Rows          int    `json:"rows"`
	MatrixEntries int    `json:"matrix_entries"`
	CatalogVer    string `json:"catalog_version"`
}

type StepSkipped struct {
	Family  string   `json:"family"`
	Step    int      `json:"step"`
	Name    string   `json:"name"`
	Missing []string `json:"missing"`
}

type FamilyClassified struct {
	Family  string         `json:"family"`
	Rows    int            `json:"rows"`
	Lookups int            `json:"lookups"`
	Hits    int            `json:"hits"`
	ByRule  map[string]int `json:"by_rule"`
}

type RunCompleted struct {
	Rows       int    `json:"rows"`
	DurationMS int64  `json:"duration_ms"`
	Provision  string `json:"provision"`
}

type RunFailed struct {
	Reason string `json:"reason"`
}

type MatrixImported struct {
	Entries int `json:"entries"`
}

type MatrixUpdated struct {
	PolicyIDs []int64 `json:"policy_ids"`
	Updated   int     `json:"updated"`
}

type ResultsSaved struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

func NewRunStartedEvent(runID string, rows, matrixEntries int, catalogVersion string) Event {
	return NewEvent(RunStartedEvent, runID, RunStarted{
		Rows:          rows,
		MatrixEntries: matrixEntries,
		CatalogVer:    catalogVersion,
	})
}

func NewStepSkippedEvent(runID, family string, step int, name string, missing []string) Event {
	return NewEvent(StepSkippedEvent, runID, StepSkipped{
		Family:  family,
		Step:    step,
		Name:    name,
		Missing: missing,
	})
}

func NewFamilyClassifiedEvent(runID string, data FamilyClassified) Event {
	return NewEvent(FamilyClassifiedEvent, runID, data)
}

func NewRunCompletedEvent(runID string, rows int, durationMS int64, provision string) Event {
	return NewEvent(RunCompletedEvent, runID, RunCompleted{
		Rows:       rows,
		DurationMS: durationMS,
		Provision:  provision,
	})
}

func NewRunFailedEvent(runID string, err error) Event {
	return NewEvent(RunFailedEvent, runID, RunFailed{Reason: err.Error()})
}

func NewMatrixImportedEvent(entries int) Event {
	return NewEvent(MatrixImportedEvent, MatrixStream, MatrixImported{Entries: entries})
}

func NewMatrixUpdatedEvent(policyIDs []int64, updated int) Event {
	return NewEvent(MatrixUpdatedEvent, MatrixStream, MatrixUpdated{PolicyIDs: policyIDs, Updated: updated})
}

func NewResultsSavedEvent(runID, table string, rows int) Event {
	return NewEvent(ResultsSavedEvent, runID, ResultsSaved{Table: table, Rows: rows})
}
