package tracker

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func testAuth(c *fiber.Ctx) error {
	c.Locals("user_id", "user-1")
	return c.Next()
}

func TestTrackerHandlers(t *testing.T) {
	f := newFixture()
	app := fiber.New()
	RegisterRoutes(app.Group("/tracker"), f.tracker, testAuth)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/tracker/start", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("start: %v status=%d", err, resp.StatusCode)
	}
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.Working || st.ProjectName != "Acme" {
		t.Fatalf("unexpected status: %+v", st)
	}

	req := httptest.NewRequest(http.MethodPut, "/tracker/task", bytes.NewReader([]byte(`{"task_description":"standup"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("task: %v status=%d", err, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/tracker/location", bytes.NewReader([]byte(`{"lat":37.5,"lng":127.0}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("location: %v status=%d", err, resp.StatusCode)
	}
	if len(f.points.appended) != 1 {
		t.Fatalf("expected a recorded point")
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/tracker/stop", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("stop: %v status=%d", err, resp.StatusCode)
	}
	if len(f.sessions.appended) != 1 || f.sessions.appended[0].TaskDescription != "standup" {
		t.Fatalf("unexpected closed sessions: %+v", f.sessions.appended)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/tracker/status", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %v status=%d", err, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Working {
		t.Fatalf("expected idle after stop")
	}
}

func TestTrackerHandlersBadBody(t *testing.T) {
	f := newFixture()
	app := fiber.New()
	RegisterRoutes(app.Group("/tracker"), f.tracker, testAuth)

	req := httptest.NewRequest(http.MethodPost, "/tracker/location", bytes.NewReader([]byte(`{`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}
