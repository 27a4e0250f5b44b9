package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/service"
)

// closeNotifyRecorder 补齐 c.Stream 依赖的 http.CloseNotifier
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestStreamChangesEmitsFeedEvents(t *testing.T) {
	api, a, _ := setupTestAPI(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &closeNotifyRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/changes", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		api.StreamChanges(c)
		close(done)
	}()

	// 等待订阅建立后再写入
	time.Sleep(50 * time.Millisecond)
	goal, err := a.Goals.Create(service.GoalInput{Title: "Stream me", Category: "Work"})
	if err != nil {
		t.Fatalf("failed to create goal: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after the request context was cancelled")
	}

	body := w.Body.String()
	if !strings.Contains(body, "event:goal.created") {
		t.Fatalf("expected goal.created event, got %q", body)
	}
	if !strings.Contains(body, goal.ID) {
		t.Fatalf("expected goal id in stream, got %q", body)
	}
}
