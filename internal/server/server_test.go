package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/workdeck/workdeck/internal/db"
	"github.com/workdeck/workdeck/internal/models"
	"gorm.io/gorm"
)

func testRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return newRouter(Opts{DB: gdb}), gdb
}

// do runs a JSON request against the router and decodes the response body
// into out when out is non-nil.
func do(t *testing.T, router *gin.Engine, method, path string, body, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s response: %v\n%s", method, path, err, w.Body.String())
		}
	}
	return w
}

func createProject(t *testing.T, router *gin.Engine, name string) models.Project {
	t.Helper()
	var p models.Project
	w := do(t, router, http.MethodPost, "/api/projects", gin.H{"name": name}, &p)
	if w.Code != http.StatusCreated {
		t.Fatalf("create project: status %d: %s", w.Code, w.Body.String())
	}
	return p
}

func TestStart_NilDB(t *testing.T) {
	err := Start(context.Background(), Opts{DB: nil})
	if err == nil {
		t.Fatal("expected error for nil db")
	}
	if !strings.Contains(err.Error(), "db is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "db is required")
	}
}

func TestProjectLifecycle(t *testing.T) {
	router, _ := testRouter(t)

	p := createProject(t, router, "api")
	if p.Name != "api" || len(p.ID) != 36 {
		t.Fatalf("created project = %+v", p)
	}

	var got models.Project
	if w := do(t, router, http.MethodGet, "/api/projects/"+p.ID, nil, &got); w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	if got.ID != p.ID {
		t.Errorf("get returned %s, want %s", got.ID, p.ID)
	}
	if got.Items == nil {
		t.Error("items missing from project read")
	}

	var patched models.Project
	w := do(t, router, http.MethodPatch, "/api/projects/"+p.ID,
		gin.H{"description": "backend service"}, &patched)
	if w.Code != http.StatusOK {
		t.Fatalf("patch: status %d: %s", w.Code, w.Body.String())
	}
	if patched.Description != "backend service" {
		t.Errorf("description = %q", patched.Description)
	}
	if patched.Name != "api" {
		t.Errorf("name = %q, patch must not clear it", patched.Name)
	}

	var list []models.Project
	do(t, router, http.MethodGet, "/api/projects", nil, &list)
	if len(list) != 1 {
		t.Fatalf("list = %d projects, want 1", len(list))
	}

	if w := do(t, router, http.MethodDelete, "/api/projects/"+p.ID, nil, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/api/projects/"+p.ID, nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", w.Code)
	}
}

func TestProject_NotFoundAndValidation(t *testing.T) {
	router, _ := testRouter(t)

	if w := do(t, router, http.MethodGet, "/api/projects/no-such-id", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("get missing: status %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/api/projects/no-such-id", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("delete missing: status %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/api/projects", gin.H{}, nil); w.Code != http.StatusBadRequest {
		t.Errorf("create without name: status %d, want 400", w.Code)
	}
}

func TestItemEndpoints(t *testing.T) {
	router, _ := testRouter(t)
	p := createProject(t, router, "api")

	var first, second models.Item
	w := do(t, router, http.MethodPost, "/api/items",
		gin.H{"project_id": p.ID, "title": "read docs"}, &first)
	if w.Code != http.StatusCreated {
		t.Fatalf("create item: status %d: %s", w.Code, w.Body.String())
	}
	if first.Type != models.ItemNote {
		t.Errorf("type = %q, want default note", first.Type)
	}
	do(t, router, http.MethodPost, "/api/items",
		gin.H{"project_id": p.ID, "title": "open editor", "type": "ide", "ide_type": "goland"}, &second)
	if second.IDEType == nil || *second.IDEType != "goland" {
		t.Errorf("ide_type = %v, want goland", second.IDEType)
	}
	if second.Order != 1 {
		t.Errorf("order = %d, want 1", second.Order)
	}

	// Reorder returns the new sequence.
	var items []models.Item
	w = do(t, router, http.MethodPost, "/api/projects/"+p.ID+"/items/reorder",
		gin.H{"ids": []string{second.ID, first.ID}}, &items)
	if w.Code != http.StatusOK {
		t.Fatalf("reorder: status %d", w.Code)
	}
	if items[0].ID != second.ID || items[0].Order != 0 {
		t.Errorf("items[0] = %s order %d after reorder", items[0].ID, items[0].Order)
	}

	// Clearing an optional field via empty string.
	var patched models.Item
	do(t, router, http.MethodPatch, "/api/items/"+second.ID, gin.H{"ide_type": ""}, &patched)
	if patched.IDEType != nil {
		t.Errorf("ide_type = %v, want cleared", patched.IDEType)
	}

	if w := do(t, router, http.MethodDelete, "/api/items/"+first.ID, nil, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: status %d", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/api/items/"+first.ID, nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/api/items",
		gin.H{"project_id": "no-such-id", "title": "x"}, nil); w.Code != http.StatusBadRequest {
		t.Errorf("orphan create: status %d, want 400", w.Code)
	}
}

func TestCardEndpoints(t *testing.T) {
	router, _ := testRouter(t)
	p := createProject(t, router, "api")

	var bottom, top models.FileCard
	w := do(t, router, http.MethodPost, "/api/cards",
		gin.H{"project_id": p.ID, "filename": "notes.md", "content": "hi", "position_x": 12.5}, &bottom)
	if w.Code != http.StatusCreated {
		t.Fatalf("create card: status %d: %s", w.Code, w.Body.String())
	}
	if bottom.PositionX != 12.5 {
		t.Errorf("position_x = %v, want 12.5", bottom.PositionX)
	}
	do(t, router, http.MethodPost, "/api/cards",
		gin.H{"project_id": p.ID, "filename": "todo.md"}, &top)
	if top.ZIndex != 1 {
		t.Errorf("z_index = %d, want 1", top.ZIndex)
	}

	var patched models.FileCard
	do(t, router, http.MethodPatch, "/api/cards/"+bottom.ID,
		gin.H{"is_expanded": true, "position_y": 40.0}, &patched)
	if !patched.IsExpanded || patched.PositionY != 40 {
		t.Errorf("patched card = %+v", patched)
	}
	if patched.Content != "hi" {
		t.Errorf("content = %q, patch must not clear it", patched.Content)
	}

	var fronted models.FileCard
	if w := do(t, router, http.MethodPost, "/api/cards/"+bottom.ID+"/front", nil, &fronted); w.Code != http.StatusOK {
		t.Fatalf("front: status %d", w.Code)
	}
	if fronted.ZIndex <= top.ZIndex {
		t.Errorf("fronted z_index = %d, want above %d", fronted.ZIndex, top.ZIndex)
	}

	var cards []models.FileCard
	w = do(t, router, http.MethodPost, "/api/projects/"+p.ID+"/cards/restack",
		gin.H{"ids": []string{top.ID, bottom.ID}}, &cards)
	if w.Code != http.StatusOK {
		t.Fatalf("restack: status %d", w.Code)
	}
	if cards[0].ID != top.ID || cards[1].ZIndex != 1 {
		t.Errorf("restacked cards = %+v", cards)
	}
}

func TestCardContentCap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	router := newRouter(Opts{DB: gdb, MaxCardBytes: 8})
	p := createProject(t, router, "api")

	w := do(t, router, http.MethodPost, "/api/cards",
		gin.H{"project_id": p.ID, "filename": "big.txt", "content": "123456789"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("oversized create: status %d, want 400", w.Code)
	}
}

func TestSettingEndpoints(t *testing.T) {
	router, _ := testRouter(t)

	if w := do(t, router, http.MethodGet, "/api/settings/theme", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("get missing: status %d, want 404", w.Code)
	}

	var put map[string]string
	w := do(t, router, http.MethodPut, "/api/settings/theme", gin.H{"value": "dark"}, &put)
	if w.Code != http.StatusOK || put["value"] != "dark" {
		t.Fatalf("put: status %d body %v", w.Code, put)
	}

	var got map[string]string
	do(t, router, http.MethodGet, "/api/settings/theme", nil, &got)
	if got["value"] != "dark" {
		t.Errorf("get = %v", got)
	}

	var all map[string]string
	do(t, router, http.MethodGet, "/api/settings", nil, &all)
	if len(all) != 1 || all["theme"] != "dark" {
		t.Errorf("all = %v", all)
	}

	if w := do(t, router, http.MethodDelete, "/api/settings/theme", nil, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete: status %d", w.Code)
	}
}

func TestExportImportEndpoints(t *testing.T) {
	router, _ := testRouter(t)
	p := createProject(t, router, "api")
	do(t, router, http.MethodPost, "/api/items", gin.H{"project_id": p.ID, "title": "n"}, nil)

	var env map[string]json.RawMessage
	if w := do(t, router, http.MethodGet, "/api/export", nil, &env); w.Code != http.StatusOK {
		t.Fatalf("export: status %d", w.Code)
	}
	for _, key := range []string{"version", "projects", "items", "fileCards"} {
		if _, ok := env[key]; !ok {
			t.Errorf("export missing key %q", key)
		}
	}

	// Re-importing our own snapshot is a no-op in merge mode.
	body, _ := json.Marshal(env)
	req := httptest.NewRequest(http.MethodPost, "/api/import?mode=merge", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("import: status %d: %s", w.Code, w.Body.String())
	}
	var res map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res["projectsImported"] != 0 || res["skipped"] != 2 {
		t.Errorf("import result = %v, want all skipped", res)
	}

	// A narrowed export honors ?projects=.
	var filtered map[string]json.RawMessage
	do(t, router, http.MethodGet, "/api/export?projects=", nil, &filtered)
	var projects []json.RawMessage
	json.Unmarshal(filtered["projects"], &projects)
	if len(projects) != 0 {
		t.Errorf("empty filter exported %d projects", len(projects))
	}

	// Malformed envelopes are rejected.
	req = httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(`{"projects":[]}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("import without items: status %d, want 400", w.Code)
	}
}

func TestChangesEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "test.db")
	gdb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	router := newRouter(Opts{DB: gdb, Watcher: db.NewWatcher(path)})

	var status map[string]bool
	do(t, router, http.MethodGet, "/api/changes", nil, &status)
	if status["changed"] {
		t.Error("changed = true right after baseline")
	}

	// Simulate another process touching the database file.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("x"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	do(t, router, http.MethodGet, "/api/changes", nil, &status)
	if !status["changed"] {
		t.Error("changed = false after external write")
	}

	if w := do(t, router, http.MethodPost, "/api/changes/ack", nil, nil); w.Code != http.StatusNoContent {
		t.Fatalf("ack: status %d", w.Code)
	}
	do(t, router, http.MethodGet, "/api/changes", nil, &status)
	if status["changed"] {
		t.Error("changed = true after ack")
	}
}
