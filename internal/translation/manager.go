package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"horse.fit/quill/internal/cache"
	"horse.fit/quill/internal/post"
)

const confirmationMessage = "Post and comments translated successfully"

// Stage names the pipeline step that produced an error.
type Stage string

const (
	StageTitle   Stage = "title"
	StageMarkup  Stage = "markup"
	StageBody    Stage = "body"
	StageComment Stage = "comment"
	StagePersist Stage = "persist"
)

// StageError wraps the first error of a TranslatePost run. CommentID is set
// for the comment stage.
type StageError struct {
	Stage     Stage
	CommentID int64
	Err       error
}

func (e *StageError) Error() string {
	if e.Stage == StageComment {
		return fmt.Sprintf("translate comment %d: %v", e.CommentID, e.Err)
	}
	return fmt.Sprintf("translate %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Translator is the client capability the manager needs.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string, opts Options) (*Result, error)
	Catalog() Catalog
}

// Persister stores a post after it was translated.
type Persister interface {
	SavePost(ctx context.Context, p *post.Post) error
}

type CommentTranslation struct {
	CommentID      int64  `json:"comment_id"`
	TranslatedText string `json:"translated_text"`
}

// Confirmation describes a successful TranslatePost run.
type Confirmation struct {
	Message            string               `json:"message"`
	RunID              string               `json:"run_id"`
	PostID             int64                `json:"post_id"`
	TargetLang         string               `json:"target_lang"`
	DetectedSourceLang string               `json:"detected_source_lang,omitempty"`
	Comments           []CommentTranslation `json:"comments"`
}

// ManagerOptions configures NewManager. Only Translator is required.
type ManagerOptions struct {
	Translator Translator
	Persister  Persister
	// Status records run outcomes. Without it TranslationStatus always
	// reports not_translated.
	Status    cache.Cache
	StatusTTL time.Duration
	Logger    *zerolog.Logger
}

// Manager translates whole posts all-or-nothing.
type Manager struct {
	translator Translator
	persister  Persister
	status     cache.Cache
	statusTTL  time.Duration
	logger     zerolog.Logger
	now        func() time.Time
	newRunID   func() string
}

func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Translator == nil {
		return nil, fmt.Errorf("%w: translator is required", ErrConfiguration)
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	statusTTL := opts.StatusTTL
	if statusTTL <= 0 {
		statusTTL = DefaultStatusTTL
	}

	return &Manager{
		translator: opts.Translator,
		persister:  opts.Persister,
		status:     opts.Status,
		statusTTL:  statusTTL,
		logger:     logger.With().Str("component", "translation_manager").Logger(),
		now:        time.Now,
		newRunID:   uuid.NewString,
	}, nil
}

// SupportedLanguages returns the client's filtered catalog.
func (m *Manager) SupportedLanguages() Catalog {
	return m.translator.Catalog()
}

// TranslationStatus returns the last recorded outcome for p.
func (m *Manager) TranslationStatus(ctx context.Context, p *post.Post) (Status, error) {
	if p == nil {
		return Status{}, fmt.Errorf("post is nil")
	}
	return LoadStatus(ctx, m.status, p.ID)
}

// TranslatePost translates p into targetLang in the order title, markup,
// body, comments. A blank title or blank markup takes the body translation,
// and the body is translated at most once. On any error p is left untouched
// and a *StageError is returned. On success every field is replaced and the
// post is handed to the persister.
func (m *Manager) TranslatePost(ctx context.Context, p *post.Post, targetLang string) (Confirmation, error) {
	if p == nil {
		return Confirmation{}, fmt.Errorf("post is nil")
	}

	runID := m.newRunID()
	logger := m.logger.With().Str("run_id", runID).Int64("post_id", p.ID).Str("target_lang", targetLang).Logger()

	plan, err := m.translateFields(ctx, p, targetLang)
	if err != nil {
		m.fail(ctx, logger, runID, p.ID, targetLang, err)
		return Confirmation{}, err
	}

	p.Title = plan.title
	p.RenderedMarkup = plan.markup
	p.Body = plan.body.Text
	for i, translated := range plan.comments {
		p.Comments[i].Content = translated
	}

	if m.persister != nil {
		if err := m.persister.SavePost(ctx, p); err != nil {
			stageErr := &StageError{Stage: StagePersist, Err: err}
			m.fail(ctx, logger, runID, p.ID, targetLang, stageErr)
			return Confirmation{}, stageErr
		}
	}

	confirmation := Confirmation{
		Message:            confirmationMessage,
		RunID:              runID,
		PostID:             p.ID,
		TargetLang:         targetLang,
		DetectedSourceLang: plan.body.DetectedSourceLang,
		Comments:           make([]CommentTranslation, 0, len(plan.comments)),
	}
	for i, translated := range plan.comments {
		confirmation.Comments = append(confirmation.Comments, CommentTranslation{
			CommentID:      p.Comments[i].ID,
			TranslatedText: translated,
		})
	}

	m.recordStatus(ctx, Status{
		PostID:             p.ID,
		State:              StatusTranslated,
		TargetLang:         targetLang,
		DetectedSourceLang: plan.body.DetectedSourceLang,
		RunID:              runID,
	})
	logger.Info().Int("comments", len(plan.comments)).Str("detected_source_lang", plan.body.DetectedSourceLang).Msg("post translated")
	return confirmation, nil
}

type postPlan struct {
	title    string
	markup   string
	body     *Result
	comments []string
}

func (m *Manager) translateFields(ctx context.Context, p *post.Post, targetLang string) (postPlan, error) {
	var plan postPlan

	body := func() (*Result, error) {
		if plan.body != nil {
			return plan.body, nil
		}
		result, err := m.translator.Translate(ctx, p.Body, targetLang, Options{})
		if err != nil {
			return nil, &StageError{Stage: StageBody, Err: err}
		}
		plan.body = result
		return result, nil
	}

	if strings.TrimSpace(p.Title) == "" {
		result, err := body()
		if err != nil {
			return postPlan{}, err
		}
		plan.title = result.Text
	} else {
		result, err := m.translator.Translate(ctx, p.Title, targetLang, Options{})
		if err != nil {
			return postPlan{}, &StageError{Stage: StageTitle, Err: err}
		}
		plan.title = result.Text
	}

	if strings.TrimSpace(p.RenderedMarkup) == "" {
		result, err := body()
		if err != nil {
			return postPlan{}, err
		}
		plan.markup = result.Text
	} else {
		result, err := m.translator.Translate(ctx, p.RenderedMarkup, targetLang, Options{})
		if err != nil {
			return postPlan{}, &StageError{Stage: StageMarkup, Err: err}
		}
		plan.markup = result.Text
	}

	if _, err := body(); err != nil {
		return postPlan{}, err
	}

	plan.comments = make([]string, 0, len(p.Comments))
	for _, comment := range p.Comments {
		result, err := m.translator.Translate(ctx, comment.Content, targetLang, Options{})
		if err != nil {
			return postPlan{}, &StageError{Stage: StageComment, CommentID: comment.ID, Err: err}
		}
		plan.comments = append(plan.comments, result.Text)
	}
	return plan, nil
}

func (m *Manager) fail(ctx context.Context, logger zerolog.Logger, runID string, postID int64, targetLang string, err error) {
	status := Status{
		PostID:     postID,
		State:      StatusFailed,
		TargetLang: targetLang,
		ErrorKind:  KindOf(err),
		Error:      err.Error(),
		RunID:      runID,
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		status.Stage = stageErr.Stage
		status.CommentID = stageErr.CommentID
	}
	m.recordStatus(ctx, status)

	logger.Warn().Err(err).Str("stage", string(status.Stage)).Str("kind", string(status.ErrorKind)).Msg("post translation failed")
}
