package handlers

import (
	"fmt"
	"net/http"
	"testing"
)

func TestDashboardHandler_Flow(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup(t, "dash")

	for i, lang := range []string{"go", "go", "python"} {
		w, body := env.do(t, "POST", "/api/ai/get-review", token, map[string]string{
			"code":     fmt.Sprintf("snippet %d", i),
			"language": lang,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("review %d: status %d, body %v", i, w.Code, body)
		}
	}

	w, body := env.do(t, "GET", "/api/dashboard/stats", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	data := dataOf(t, body)
	reviews := data["reviews"].(map[string]interface{})
	if reviews["total"].(float64) != 3 || reviews["this_week"].(float64) != 3 {
		t.Errorf("reviews = %v", reviews)
	}
	if reviews["improvement"].(float64) != 100 {
		t.Errorf("improvement = %v, expected 100", reviews["improvement"])
	}
	languages := data["languages"].(map[string]interface{})
	list := languages["list"].([]interface{})
	if first := list[0].(map[string]interface{}); first["name"] != "go" || first["count"].(float64) != 2 {
		t.Errorf("languages.list[0] = %v", first)
	}
	if len(data["recent_activity"].([]interface{})) != 3 {
		t.Errorf("recent_activity = %v", data["recent_activity"])
	}

	w, body = env.do(t, "GET", "/api/dashboard/history?page=1&limit=2&language=go", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
	data = dataOf(t, body)
	if len(data["items"].([]interface{})) != 2 || data["total"].(float64) != 2 || data["total_pages"].(float64) != 1 {
		t.Errorf("history = %v", data)
	}

	w, body = env.do(t, "GET", "/api/dashboard/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile status = %d", w.Code)
	}
	stats := dataOf(t, body)["stats"].(map[string]interface{})
	if stats["favorite_language"] != "go" || stats["languages_used"].(float64) != 2 {
		t.Errorf("profile stats = %v", stats)
	}
}

func TestDashboardHandler_HistoryIsolatedPerUser(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bobby")

	env.do(t, "POST", "/api/ai/get-review", alice, map[string]string{"code": "a"})

	_, body := env.do(t, "GET", "/api/dashboard/history", bob, nil)
	data := dataOf(t, body)
	if data["total"].(float64) != 0 || len(data["items"].([]interface{})) != 0 {
		t.Errorf("bob history = %v, expected empty", data)
	}
}

func TestDashboardHandler_HistoryBadQuery(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup(t, "dash")

	w, _ := env.do(t, "GET", "/api/dashboard/history?page=abc", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusBadRequest)
	}
}

func TestDashboardHandler_StorageFailure(t *testing.T) {
	env := newTestEnv(t, brokenStore{})
	token := env.signup(t, "dash")

	w, body := env.do(t, "GET", "/api/dashboard/stats", token, nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("stats status = %d, expected 500", w.Code)
	}
	if body["error"] != "Failed to fetch dashboard stats" {
		t.Errorf("error = %v", body["error"])
	}

	w, body = env.do(t, "GET", "/api/dashboard/history?page=3", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d, expected degraded 200", w.Code)
	}
	data := dataOf(t, body)
	if items, ok := data["items"].([]interface{}); !ok || len(items) != 0 {
		t.Errorf("items = %v, expected []", data["items"])
	}
	if _, ok := data["total"]; ok {
		t.Error("total should be omitted when the store failed")
	}
	if data["page"].(float64) != 3 {
		t.Errorf("page = %v, expected 3", data["page"])
	}
}
