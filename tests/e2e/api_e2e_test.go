package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/app"
	"github.com/goaltracker/internal/handler"
	"github.com/goaltracker/internal/logger"
	"github.com/goaltracker/internal/router"
)

var cst = time.FixedZone("CST", 8*3600)

type e2eSuite struct {
	app     *app.App
	client  httpClient
	clock   *stepClock
	baseURL string
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type localClient struct {
	handler http.Handler
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w.Result(), nil
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	return c.now
}

type goalJSON struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Category       string  `json:"category"`
	IsCompleted    bool    `json:"is_completed"`
	WeekStart      string  `json:"week_start"`
	SortOrder      int     `json:"sort_order"`
	RolledOverFrom *string `json:"rolled_over_from"`
	DueDate        *string `json:"due_date"`
	IsFocusedToday bool    `json:"is_focused_today"`
	IsOverdue      bool    `json:"is_overdue"`
}

func TestE2E_WeeklyLifecycle(t *testing.T) {
	suite := newE2ESuite(t)

	t.Run("plan the week", suite.testPlanWeek)
	t.Run("recap and events", suite.testRecapAndEvents)
	t.Run("next week launch", suite.testNextWeekLaunch)
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := &stepClock{now: time.Date(2026, 1, 7, 9, 0, 0, 0, cst)}
	a, err := app.New(app.Options{
		DatabasePath: filepath.Join(t.TempDir(), "e2e.db"),
		Location:     cst,
		Clock:        clock,
		Logger:       logger.Discard(),
	})
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	// 首次启动：只记录本周
	if report := a.Startup(); report.Rollover.Performed {
		t.Fatalf("first launch must not roll over")
	}

	engine := router.SetupRouter(handler.NewAPI(a), logger.Discard())
	return &e2eSuite{
		app:     a,
		client:  &localClient{handler: engine},
		clock:   clock,
		baseURL: "http://example.test",
	}
}

func (s *e2eSuite) testPlanWeek(t *testing.T) {
	first := s.createGoal(t, map[string]interface{}{"title": "Write design doc", "category": "Work", "due_date": "2026-01-06"})
	second := s.createGoal(t, map[string]interface{}{"title": "Review PRs", "category": "Work"})
	third := s.createGoal(t, map[string]interface{}{"title": "Plan Q1", "category": "Work"})
	s.createGoal(t, map[string]interface{}{"title": "Run 10k", "category": "Health"})

	if first.SortOrder != 0 || second.SortOrder != 1 || third.SortOrder != 2 {
		t.Fatalf("expected sequential sort orders, got %d %d %d", first.SortOrder, second.SortOrder, third.SortOrder)
	}
	if !first.IsOverdue {
		t.Fatalf("expected goal due yesterday to be overdue")
	}

	// 把第三个移到最前
	resp := s.mustRequestJSON(t, http.MethodPost, "/api/goals/move", map[string]interface{}{
		"category": "Work",
		"ids":      []string{first.ID, second.ID, third.ID},
		"from":     2,
		"to":       0,
	})
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	var list struct {
		Goals []goalJSON `json:"goals"`
	}
	resp = s.mustRequest(t, http.MethodGet, "/api/weeks/2026-01-07/goals", nil)
	decodeJSON(t, resp, &list)
	var work []string
	for _, goal := range list.Goals {
		if goal.Category == "Work" {
			work = append(work, goal.Title)
		}
	}
	if strings.Join(work, ",") != "Plan Q1,Write design doc,Review PRs" {
		t.Fatalf("unexpected work order: %v", work)
	}

	resp = s.mustRequest(t, http.MethodPost, "/api/goals/"+second.ID+"/toggle", nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = s.mustRequest(t, http.MethodPost, "/api/goals/"+first.ID+"/focus", nil)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	var focused struct {
		Goals []goalJSON `json:"goals"`
	}
	resp = s.mustRequest(t, http.MethodGet, "/api/goals/focus?week=2026-01-05", nil)
	decodeJSON(t, resp, &focused)
	if len(focused.Goals) != 1 || focused.Goals[0].ID != first.ID {
		t.Fatalf("unexpected focused goals: %+v", focused.Goals)
	}

	var overdue struct {
		Goals []goalJSON `json:"goals"`
	}
	resp = s.mustRequest(t, http.MethodGet, "/api/goals/due?when=overdue", nil)
	decodeJSON(t, resp, &overdue)
	if len(overdue.Goals) != 1 || overdue.Goals[0].ID != first.ID {
		t.Fatalf("unexpected overdue goals: %+v", overdue.Goals)
	}

	var stats struct {
		Stats struct {
			Total      int                       `json:"total"`
			Completed  int                       `json:"completed"`
			Categories map[string]map[string]int `json:"categories"`
		} `json:"stats"`
	}
	resp = s.mustRequest(t, http.MethodGet, "/api/weeks/2026-01-05/stats", nil)
	decodeJSON(t, resp, &stats)
	if stats.Stats.Total != 4 || stats.Stats.Completed != 1 || stats.Stats.Categories["Work"]["total"] != 3 {
		t.Fatalf("unexpected stats: %+v", stats.Stats)
	}
}

func (s *e2eSuite) testRecapAndEvents(t *testing.T) {
	resp := s.mustRequestJSON(t, http.MethodPut, "/api/weeks/2026-01-05/recap", map[string]interface{}{
		"overview":     "Solid week",
		"song_of_week": "Clair de Lune",
	})
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = s.mustRequestJSON(t, http.MethodPut, "/api/weeks/2026-01-08/recap", map[string]interface{}{
		"lessons": "Ship smaller",
	})
	var recap struct {
		Recap struct {
			Overview string `json:"overview"`
			Lessons  string `json:"lessons"`
		} `json:"recap"`
	}
	decodeJSON(t, resp, &recap)
	if recap.Recap.Overview != "Solid week" || recap.Recap.Lessons != "Ship smaller" {
		t.Fatalf("expected partial updates to merge, got %+v", recap.Recap)
	}

	resp = s.mustRequest(t, http.MethodGet, "/api/weeks/2026-01-05/recap/export", nil)
	body := readBody(t, resp)
	for _, expect := range []string{"OVERVIEW\nSolid week", "SONG OF THE WEEK\nClair de Lune", "LESSONS LEARNED\nShip smaller"} {
		if !strings.Contains(body, expect) {
			t.Fatalf("export missing %q:\n%s", expect, body)
		}
	}
	if strings.Contains(body, "WINS") {
		t.Fatalf("export must skip empty sections:\n%s", body)
	}

	resp = s.mustRequestJSON(t, http.MethodPost, "/api/events", map[string]interface{}{
		"title":    "Offsite",
		"start_at": "2026-01-09T00:00:00+08:00",
		"end_at":   "2026-01-09T00:00:00+08:00",
		"all_day":  true,
	})
	expectStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	var events struct {
		Events []struct {
			Title  string `json:"title"`
			AllDay bool   `json:"all_day"`
			EndAt  string `json:"end_at"`
		} `json:"events"`
	}
	resp = s.mustRequest(t, http.MethodGet, "/api/events", nil)
	decodeJSON(t, resp, &events)
	if len(events.Events) != 1 || !events.Events[0].AllDay || events.Events[0].EndAt != "2026-01-10T00:00:00+08:00" {
		t.Fatalf("unexpected events: %+v", events.Events)
	}
}

func (s *e2eSuite) testNextWeekLaunch(t *testing.T) {
	s.clock.now = time.Date(2026, 1, 12, 8, 30, 0, 0, cst)
	report := s.app.Startup()
	if !report.Rollover.Performed || len(report.Rollover.Copied) != 3 {
		t.Fatalf("expected three incomplete goals rolled over, got %+v", report.Rollover)
	}
	if report.Archived != 1 {
		t.Fatalf("expected one completed goal archived, got %d", report.Archived)
	}

	var list struct {
		WeekStart string     `json:"week_start"`
		Goals     []goalJSON `json:"goals"`
	}
	resp := s.mustRequest(t, http.MethodGet, "/api/weeks/2026-01-12/goals", nil)
	decodeJSON(t, resp, &list)
	if len(list.Goals) != 3 {
		t.Fatalf("expected three goals in the new week, got %d", len(list.Goals))
	}
	for _, goal := range list.Goals {
		if goal.RolledOverFrom == nil || goal.IsCompleted || goal.IsFocusedToday {
			t.Fatalf("unexpected rolled over goal: %+v", goal)
		}
	}

	var archive struct {
		Weeks []struct {
			WeekStart *string `json:"week_start"`
			Goals     []struct {
				Title string `json:"title"`
			} `json:"goals"`
		} `json:"weeks"`
	}
	resp = s.mustRequest(t, http.MethodGet, "/api/archive?grouped=1", nil)
	decodeJSON(t, resp, &archive)
	if len(archive.Weeks) != 1 || archive.Weeks[0].WeekStart == nil || *archive.Weeks[0].WeekStart != "2026-01-05" {
		t.Fatalf("unexpected archive groups: %+v", archive.Weeks)
	}
	if archive.Weeks[0].Goals[0].Title != "Review PRs" {
		t.Fatalf("unexpected archived goal: %+v", archive.Weeks[0].Goals)
	}

	resp = s.mustRequest(t, http.MethodDelete, "/api/archive", nil)
	var cleared struct {
		Deleted int `json:"deleted"`
	}
	decodeJSON(t, resp, &cleared)
	if cleared.Deleted != 1 {
		t.Fatalf("expected one archived goal cleared, got %d", cleared.Deleted)
	}

	// 同一周再次启动不会重复结转
	s.clock.now = s.clock.now.Add(3 * time.Hour)
	if report := s.app.Startup(); report.Rollover.Performed {
		t.Fatalf("second launch in the same week must not roll over")
	}
}

func (s *e2eSuite) createGoal(t *testing.T, payload map[string]interface{}) goalJSON {
	t.Helper()
	resp := s.mustRequestJSON(t, http.MethodPost, "/api/goals", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create goal failed with status %d: %s", resp.StatusCode, readBody(t, resp))
	}
	var created struct {
		Goal goalJSON `json:"goal"`
	}
	decodeJSON(t, resp, &created)
	return created.Goal
}

func (s *e2eSuite) mustRequest(t *testing.T, method, path string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		t.Fatalf("failed to build request %s %s: %v", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func (s *e2eSuite) mustRequestJSON(t *testing.T, method, path string, payload map[string]interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return s.mustRequest(t, method, path, bytes.NewReader(data))
}

func expectStatus(t *testing.T, resp *http.Response, code int) {
	t.Helper()
	if resp.StatusCode != code {
		t.Fatalf("expected status %d, got %d: %s", code, resp.StatusCode, readBody(t, resp))
	}
}

func decodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	body := readBody(t, resp)
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		t.Fatalf("failed to decode json: %v\nbody=%s", err, body)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(data)
}
