// Package document runs the four-step upload pipeline: acquire a presigned
// target, transfer the bytes, confirm the upload, trigger analysis. Steps are
// strictly ordered; the first failure aborts the run and the accumulated
// document ID is discarded. A retry always starts a fresh run because the
// presigned URL carries a short expiry.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/Alijeyrad/simorq_mobile/pkg/remote"
)

// MaxSizeBytes is the default upload size cap (100 MiB).
const MaxSizeBytes int64 = 100 << 20

// DefaultAllowedMimeTypes is the default set of accepted document types.
var DefaultAllowedMimeTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"application/dicom",
}

// Stage is the monotonically advancing position of a pipeline run.
type Stage string

const (
	StageValidated   Stage = "validated"
	StageURLAcquired Stage = "url_acquired"
	StageUploading   Stage = "uploading"
	StageUploaded    Stage = "uploaded"
	StageConfirmed   Stage = "confirmed"
	StageAnalyzing   Stage = "analyzing"
	StageFailed      Stage = "failed"
)

// progress labels shown after each stage transition; each names the work
// that is underway once the stage is reached.
var stageLabels = map[Stage]string{
	StageValidated:   "Preparing upload…",
	StageURLAcquired: "Upload target ready",
	StageUploading:   "Uploading file…",
	StageUploaded:    "Confirming upload…",
	StageConfirmed:   "Starting analysis…",
	StageAnalyzing:   "Analysis queued",
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type Input struct {
	OwnerID  string
	FileName string
	MimeType string
	Data     []byte
}

// Result describes a finished run. RunID identifies the local attempt;
// DocumentID is issued by the backend at the acquire step.
type Result struct {
	RunID      string
	DocumentID string
	Stage      Stage
	Target     *remote.UploadTarget
}

type Config struct {
	// MaxSizeBytes overrides the 100 MiB default when positive.
	MaxSizeBytes int64

	// AllowedMimeTypes overrides DefaultAllowedMimeTypes when non-empty.
	AllowedMimeTypes []string

	// OnProgress, when set, is invoked after every stage transition with a
	// human-readable label for UI consumption.
	OnProgress func(stage Stage, label string)

	Logger *slog.Logger
}

// ---------------------------------------------------------------------------
// Interfaces
// ---------------------------------------------------------------------------

// API is the slice of the backend client the pipeline drives.
type API interface {
	CreateUploadURL(ctx context.Context, req remote.CreateUploadURLRequest) (*remote.UploadTarget, error)
	ConfirmDocument(ctx context.Context, documentID string) error
	AnalyzeDocument(ctx context.Context, documentID string) error
}

// Store transfers raw bytes to the presigned target.
type Store interface {
	Put(ctx context.Context, uploadURL, contentType string, body []byte) error
}

type Pipeline interface {
	Upload(ctx context.Context, in Input) (*Result, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type pipeline struct {
	api        API
	store      Store
	maxSize    int64
	allowed    []string
	onProgress func(Stage, string)
	logger     *slog.Logger
}

func New(api API, store Store, cfg Config) Pipeline {
	p := &pipeline{
		api:        api,
		store:      store,
		maxSize:    cfg.MaxSizeBytes,
		allowed:    cfg.AllowedMimeTypes,
		onProgress: cfg.OnProgress,
		logger:     cfg.Logger,
	}
	if p.maxSize <= 0 {
		p.maxSize = MaxSizeBytes
	}
	if len(p.allowed) == 0 {
		p.allowed = DefaultAllowedMimeTypes
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Upload runs one complete pipeline instance. The validation gate runs before
// any remote call; a gate failure issues zero network requests.
func (p *pipeline) Upload(ctx context.Context, in Input) (*Result, error) {
	if err := p.validate(in); err != nil {
		return nil, err
	}

	run := &Result{RunID: uuid.NewString(), Stage: StageValidated}
	p.advance(run, StageValidated)

	// Step 1: acquire upload target. This is where the backend issues the
	// document ID.
	target, err := p.api.CreateUploadURL(ctx, remote.CreateUploadURLRequest{
		OwnerID:   in.OwnerID,
		FileName:  in.FileName,
		MimeType:  in.MimeType,
		SizeBytes: int64(len(in.Data)),
	})
	if err != nil {
		return nil, p.fail(run, StepAcquire, err)
	}
	run.DocumentID = target.DocumentID
	run.Target = target
	p.advance(run, StageURLAcquired)

	// Step 2: transfer bytes directly to object storage.
	p.advance(run, StageUploading)
	if err := p.store.Put(ctx, target.UploadURL, in.MimeType, in.Data); err != nil {
		return nil, p.fail(run, StepTransfer, err)
	}
	p.advance(run, StageUploaded)

	// Step 3: confirm with the main service.
	if err := p.api.ConfirmDocument(ctx, run.DocumentID); err != nil {
		return nil, p.fail(run, StepConfirm, err)
	}
	p.advance(run, StageConfirmed)

	// Step 4: enqueue analysis.
	if err := p.api.AnalyzeDocument(ctx, run.DocumentID); err != nil {
		return nil, p.fail(run, StepAnalyze, err)
	}
	p.advance(run, StageAnalyzing)

	p.logger.Info("document ingested",
		"run_id", run.RunID, "document_id", run.DocumentID, "file", in.FileName)
	return run, nil
}

func (p *pipeline) validate(in Input) error {
	if size := int64(len(in.Data)); size > p.maxSize {
		return &ValidationError{
			Reason:  "size",
			Message: fmt.Sprintf("file is too large: the limit is %d MiB", p.maxSize>>20),
		}
	}
	if !slices.Contains(p.allowed, in.MimeType) {
		return &ValidationError{
			Reason:  "mime_type",
			Message: "file type " + in.MimeType + " is not supported",
		}
	}
	return nil
}

func (p *pipeline) advance(run *Result, stage Stage) {
	run.Stage = stage
	if p.onProgress != nil {
		p.onProgress(stage, stageLabels[stage])
	}
}

// fail marks the run failed and reports which step broke. The document ID,
// if one was issued, rides along for the error message but the run itself is
// not resumable.
func (p *pipeline) fail(run *Result, step Step, err error) error {
	run.Stage = StageFailed
	if p.onProgress != nil {
		p.onProgress(StageFailed, "Upload failed")
	}
	p.logger.Warn("upload pipeline failed",
		"run_id", run.RunID, "step", string(step), "document_id", run.DocumentID, "err", err)
	return &StepError{Step: step, DocumentID: run.DocumentID, Err: err}
}
