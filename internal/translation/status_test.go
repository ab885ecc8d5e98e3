package translation

import (
	"context"
	"testing"
	"time"

	"horse.fit/quill/internal/cache"
)

func TestLoadStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	status, err := LoadStatus(ctx, nil, 4)
	if err != nil || status.State != StatusNotTranslated || status.PostID != 4 {
		t.Fatalf("nil cache: status=%+v err=%v", status, err)
	}

	store := cache.NewMemory(nil)
	if err := store.Set(ctx, statusKey(4), []byte(`{"post_id":4,"state":"failed","stage":"comment","comment_id":9,"error_kind":"quota_exceeded"}`), time.Hour); err != nil {
		t.Fatalf("seed status: %v", err)
	}
	status, err = LoadStatus(ctx, store, 4)
	if err != nil {
		t.Fatalf("load status: %v", err)
	}
	if status.State != StatusFailed || status.Stage != StageComment || status.CommentID != 9 || status.ErrorKind != KindQuotaExceeded {
		t.Fatalf("unexpected status %+v", status)
	}

	if err := store.Set(ctx, statusKey(5), []byte(`not json`), time.Hour); err != nil {
		t.Fatalf("seed corrupt status: %v", err)
	}
	if _, err := LoadStatus(ctx, store, 5); err == nil {
		t.Fatalf("expected decode error for corrupt status")
	}
}
