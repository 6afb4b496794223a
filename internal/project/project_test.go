package project

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/workdeck/workdeck/internal/db"
	"github.com/workdeck/workdeck/internal/models"
	"gorm.io/gorm"
)

// testDB opens a migrated throwaway database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return gdb
}

func TestCreate(t *testing.T) {
	gdb := testDB(t)

	p, err := Create(gdb, CreateOpts{Name: "api", Description: "backend service"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(p.ID) != 36 {
		t.Errorf("ID = %q, want 36-char UUID", p.ID)
	}
	if p.CreatedAt != p.UpdatedAt {
		t.Errorf("created_at %q != updated_at %q on create", p.CreatedAt, p.UpdatedAt)
	}
	if string(p.Metadata) != "{}" {
		t.Errorf("default metadata = %q, want {}", string(p.Metadata))
	}
}

func TestCreate_Validation(t *testing.T) {
	gdb := testDB(t)

	if _, err := Create(gdb, CreateOpts{}); err == nil {
		t.Error("expected error for missing name")
	}
	_, err := Create(gdb, CreateOpts{Name: "x", Metadata: models.Metadata("{broken")})
	if err == nil {
		t.Error("expected error for invalid metadata")
	}
}

func TestGet_NotFound(t *testing.T) {
	gdb := testDB(t)

	p, err := Get(gdb, "no-such-id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p != nil {
		t.Errorf("Get(missing) = %+v, want nil", p)
	}
}

func TestGet_AttachesItems(t *testing.T) {
	gdb := testDB(t)
	p, err := Create(gdb, CreateOpts{Name: "api"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Seed items directly, out of order, to verify read-side sorting.
	for _, row := range []struct {
		id    string
		order int
	}{{"i-b", 1}, {"i-a", 0}, {"i-c", 2}} {
		err := gdb.Create(&models.Item{
			ID: row.id, ProjectID: p.ID, Type: models.ItemNote, Title: row.id,
			Order: row.order, CreatedAt: models.Now(), UpdatedAt: models.Now(),
		}).Error
		if err != nil {
			t.Fatalf("seed item: %v", err)
		}
	}

	got, err := Get(gdb, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(got.Items))
	}
	for i, want := range []string{"i-a", "i-b", "i-c"} {
		if got.Items[i].ID != want {
			t.Errorf("items[%d] = %s, want %s", i, got.Items[i].ID, want)
		}
	}
}

func TestList_MostRecentFirst(t *testing.T) {
	gdb := testDB(t)

	first, _ := Create(gdb, CreateOpts{Name: "older"})
	time.Sleep(2 * time.Millisecond)
	second, _ := Create(gdb, CreateOpts{Name: "newer"})

	projects, err := List(gdb)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("len = %d, want 2", len(projects))
	}
	if projects[0].ID != second.ID {
		t.Errorf("projects[0] = %s, want most recent %s", projects[0].Name, second.Name)
	}

	// Touching the older project moves it to the front.
	time.Sleep(2 * time.Millisecond)
	name := "renamed"
	if _, err := Update(gdb, first.ID, UpdateOpts{Name: &name}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	projects, _ = List(gdb)
	if projects[0].ID != first.ID {
		t.Errorf("projects[0] = %s, want just-updated project", projects[0].Name)
	}
}

func TestUpdate_PartialPatch(t *testing.T) {
	gdb := testDB(t)
	p, _ := Create(gdb, CreateOpts{Name: "api", Description: "original"})

	time.Sleep(2 * time.Millisecond)
	name := "api-v2"
	got, err := Update(gdb, p.ID, UpdateOpts{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "api-v2" {
		t.Errorf("name = %q, want api-v2", got.Name)
	}
	if got.Description != "original" {
		t.Errorf("description = %q, patch must not clear unspecified fields", got.Description)
	}
	if !(got.UpdatedAt > p.UpdatedAt) {
		t.Errorf("updated_at not bumped: %q -> %q", p.UpdatedAt, got.UpdatedAt)
	}
	if got.CreatedAt != p.CreatedAt {
		t.Errorf("created_at changed on update")
	}
}

func TestUpdate_MetadataRoundTrip(t *testing.T) {
	gdb := testDB(t)
	p, _ := Create(gdb, CreateOpts{Name: "api"})

	raw := `{"github_url":"https://example.com/api","section_order":["items","cards"]}`
	got, err := Update(gdb, p.ID, UpdateOpts{Metadata: models.Metadata(raw)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if string(got.Metadata) != raw {
		t.Errorf("metadata = %s, want exact round trip of %s", string(got.Metadata), raw)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	gdb := testDB(t)
	name := "x"
	got, err := Update(gdb, "no-such-id", UpdateOpts{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got != nil {
		t.Errorf("Update(missing) = %+v, want nil", got)
	}
}

func TestDelete_Cascades(t *testing.T) {
	gdb := testDB(t)
	p, _ := Create(gdb, CreateOpts{Name: "api"})
	err := gdb.Create(&models.Item{
		ID: "i-1", ProjectID: p.ID, Type: models.ItemNote, Title: "n",
		CreatedAt: models.Now(), UpdatedAt: models.Now(),
	}).Error
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}
	err = gdb.Create(&models.FileCard{
		ID: "c-1", ProjectID: p.ID, Filename: "f.txt",
		CreatedAt: models.Now(), UpdatedAt: models.Now(),
	}).Error
	if err != nil {
		t.Fatalf("seed card: %v", err)
	}

	ok, err := Delete(gdb, p.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !ok {
		t.Fatal("Delete returned false for existing project")
	}

	var items, cards int64
	gdb.Model(&models.Item{}).Count(&items)
	gdb.Model(&models.FileCard{}).Count(&cards)
	if items != 0 || cards != 0 {
		t.Errorf("after cascade delete: %d items, %d cards remain", items, cards)
	}
}

func TestDelete_NotFound(t *testing.T) {
	gdb := testDB(t)
	ok, err := Delete(gdb, "no-such-id")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok {
		t.Error("Delete(missing) = true, want false")
	}
}

func TestGet_CorruptMetadataDegrades(t *testing.T) {
	gdb := testDB(t)
	p, _ := Create(gdb, CreateOpts{Name: "api"})

	err := gdb.Exec("UPDATE projects SET metadata = '{oops' WHERE id = ?", p.ID).Error
	if err != nil {
		t.Fatalf("corrupt metadata: %v", err)
	}

	got, err := Get(gdb, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Metadata) != "{}" {
		t.Errorf("metadata = %q, want degraded {}", string(got.Metadata))
	}

	// The stored value is left untouched on disk.
	var raw string
	gdb.Raw("SELECT metadata FROM projects WHERE id = ?", p.ID).Scan(&raw)
	if raw != "{oops" {
		t.Errorf("stored metadata = %q, read path must not rewrite it", raw)
	}
}
