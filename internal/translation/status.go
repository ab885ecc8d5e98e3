package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"horse.fit/quill/internal/cache"
)

const (
	DefaultStatusTTL = 30 * 24 * time.Hour

	statusKeyPrefix = "translation_status_"
)

type StatusState string

const (
	StatusNotTranslated StatusState = "not_translated"
	StatusTranslated    StatusState = "translated"
	StatusFailed        StatusState = "failed"
)

// Status is the last recorded translation outcome for a post.
type Status struct {
	PostID             int64       `json:"post_id"`
	State              StatusState `json:"state"`
	TargetLang         string      `json:"target_lang,omitempty"`
	DetectedSourceLang string      `json:"detected_source_lang,omitempty"`
	Stage              Stage       `json:"stage,omitempty"`
	CommentID          int64       `json:"comment_id,omitempty"`
	ErrorKind          Kind        `json:"error_kind,omitempty"`
	Error              string      `json:"error,omitempty"`
	RunID              string      `json:"run_id,omitempty"`
	UpdatedAt          *time.Time  `json:"updated_at,omitempty"`
}

func statusKey(postID int64) string {
	return statusKeyPrefix + strconv.FormatInt(postID, 10)
}

func (m *Manager) recordStatus(ctx context.Context, status Status) {
	if m.status == nil {
		return
	}
	updated := m.now().UTC()
	status.UpdatedAt = &updated

	raw, err := json.Marshal(status)
	if err != nil {
		m.logger.Warn().Err(err).Int64("post_id", status.PostID).Msg("encode translation status")
		return
	}
	if err := m.status.Set(ctx, statusKey(status.PostID), raw, m.statusTTL); err != nil {
		m.logger.Warn().Err(err).Int64("post_id", status.PostID).Msg("translation status write failed")
	}
}

// LoadStatus reads the recorded status of postID from c. A miss, or a nil
// cache, reports not_translated.
func LoadStatus(ctx context.Context, c cache.Cache, postID int64) (Status, error) {
	notTranslated := Status{PostID: postID, State: StatusNotTranslated}
	if c == nil {
		return notTranslated, nil
	}

	raw, ok, err := c.Get(ctx, statusKey(postID))
	if err != nil {
		return Status{}, fmt.Errorf("read translation status: %w", err)
	}
	if !ok {
		return notTranslated, nil
	}

	var status Status
	if err := json.Unmarshal(raw, &status); err != nil {
		return Status{}, fmt.Errorf("decode translation status: %w", err)
	}
	return status, nil
}
