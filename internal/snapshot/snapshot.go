// Package snapshot serializes the full entity graph to a portable JSON
// envelope and re-ingests such envelopes with merge or replace semantics.
// All reads and writes go through the same tables as the live store; the
// envelope shape is a compatibility surface and must not change.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/workdeck/workdeck/internal/models"
	"gorm.io/gorm"
)

// Version is the envelope format version written on export.
const Version = "1.0"

// Mode selects import semantics.
type Mode string

const (
	// Merge keeps existing entities and only adds new ones, by ID.
	Merge Mode = "merge"
	// Replace wipes all existing data before inserting the snapshot.
	Replace Mode = "replace"
)

// Envelope is the export/import document. Snapshots from older releases
// may lack fileCards entirely; that is read as empty.
type Envelope struct {
	Version    string           `json:"version"`
	ExportedAt string           `json:"exportedAt"`
	Projects   []ProjectRecord  `json:"projects"`
	Items      []models.Item    `json:"items"`
	FileCards  []FileCardRecord `json:"fileCards"`
}

// ProjectRecord is a project row in the envelope. Metadata is a nested
// JSON object at this layer; its string encoding is a storage detail.
type ProjectRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Metadata    models.Metadata `json:"metadata"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// FileCardRecord is a file card row in the envelope. The expanded and
// minimized flags are 0/1 integers on the wire, matching snapshots written
// by every prior release.
type FileCardRecord struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	Filename    string  `json:"filename"`
	Content     string  `json:"content"`
	PositionX   float64 `json:"position_x"`
	PositionY   float64 `json:"position_y"`
	IsExpanded  int     `json:"is_expanded"`
	IsMinimized int     `json:"is_minimized"`
	ZIndex      int     `json:"z_index"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Result reports exactly what an import did. Counts are exact, not
// estimates — they are the only feedback a user gets about a partial
// import.
type Result struct {
	ProjectsImported  int `json:"projectsImported"`
	ItemsImported     int `json:"itemsImported"`
	FileCardsImported int `json:"fileCardsImported"`
	Skipped           int `json:"skipped"`
}

// Decode parses and validates envelope bytes. An envelope without the
// projects and items keys is rejected before any mutation can happen; a
// missing fileCards key is read as empty.
func Decode(data []byte) (*Envelope, error) {
	var probe struct {
		Projects json.RawMessage `json:"projects"`
		Items    json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("snapshot: parse: %w", err)
	}
	if probe.Projects == nil || probe.Items == nil {
		return nil, fmt.Errorf("snapshot: envelope is missing projects or items")
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("snapshot: parse: %w", err)
	}
	return &env, nil
}

// Export produces a point-in-time snapshot. A nil projectIDs exports
// everything; an empty, non-nil slice exports nothing. No locking is
// taken — a concurrent write may surface as a partially-updated project,
// which is acceptable for a local single-user store.
func Export(gdb *gorm.DB, projectIDs []string) (*Envelope, error) {
	env := &Envelope{
		Version:    Version,
		ExportedAt: models.Now(),
		Projects:   []ProjectRecord{},
		Items:      []models.Item{},
		FileCards:  []FileCardRecord{},
	}
	if projectIDs != nil && len(projectIDs) == 0 {
		return env, nil
	}

	var projects []models.Project
	q := gdb.Order("updated_at DESC")
	if projectIDs != nil {
		q = q.Where("id IN ?", projectIDs)
	}
	if err := q.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("snapshot: export projects: %w", err)
	}

	selected := make([]string, 0, len(projects))
	for _, p := range projects {
		selected = append(selected, p.ID)
		env.Projects = append(env.Projects, ProjectRecord{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Metadata:    p.Metadata,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}

	itemQ := gdb.Order(`project_id, "order" ASC`)
	cardQ := gdb.Order("project_id, z_index ASC")
	if projectIDs != nil {
		itemQ = itemQ.Where("project_id IN ?", selected)
		cardQ = cardQ.Where("project_id IN ?", selected)
	}

	if err := itemQ.Find(&env.Items).Error; err != nil {
		return nil, fmt.Errorf("snapshot: export items: %w", err)
	}
	if env.Items == nil {
		env.Items = []models.Item{}
	}

	var cards []models.FileCard
	if err := cardQ.Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("snapshot: export file cards: %w", err)
	}
	for _, c := range cards {
		env.FileCards = append(env.FileCards, FileCardRecord{
			ID:          c.ID,
			ProjectID:   c.ProjectID,
			Filename:    c.Filename,
			Content:     c.Content,
			PositionX:   c.PositionX,
			PositionY:   c.PositionY,
			IsExpanded:  boolToInt(c.IsExpanded),
			IsMinimized: boolToInt(c.IsMinimized),
			ZIndex:      c.ZIndex,
			CreatedAt:   c.CreatedAt,
			UpdatedAt:   c.UpdatedAt,
		})
	}

	return env, nil
}

// Import ingests an envelope. Merge mode skips any entity whose ID already
// exists (existing data wins, no field merge); replace mode wipes file
// cards, items, then projects before inserting. In both modes an item or
// card whose project is absent after the project phase is skipped and
// counted rather than failing the import. Timestamps from the envelope are
// preserved verbatim, never regenerated.
func Import(gdb *gorm.DB, env *Envelope, mode Mode) (*Result, error) {
	switch mode {
	case Merge, Replace:
	default:
		return nil, fmt.Errorf("snapshot: unknown import mode %q", mode)
	}

	if mode == Replace {
		for _, table := range []string{"file_cards", "items", "projects"} {
			if err := gdb.Exec("DELETE FROM " + table).Error; err != nil {
				return nil, fmt.Errorf("snapshot: clear %s: %w", table, err)
			}
		}
	}

	var res Result

	existingProjects, err := idSet(gdb, "projects")
	if err != nil {
		return nil, err
	}
	for _, rec := range env.Projects {
		if existingProjects[rec.ID] {
			res.Skipped++
			continue
		}
		p := models.Project{
			ID:          rec.ID,
			Name:        rec.Name,
			Description: rec.Description,
			Metadata:    rec.Metadata,
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
		}
		if err := gdb.Create(&p).Error; err != nil {
			return nil, fmt.Errorf("snapshot: import project %s: %w", rec.ID, err)
		}
		existingProjects[rec.ID] = true
		res.ProjectsImported++
	}

	// Orphan checks run against the post-insertion project set, so children
	// of projects imported in this same batch are valid.
	existingItems, err := idSet(gdb, "items")
	if err != nil {
		return nil, err
	}
	for _, it := range env.Items {
		if existingItems[it.ID] || !existingProjects[it.ProjectID] {
			res.Skipped++
			continue
		}
		rec := it
		if err := gdb.Create(&rec).Error; err != nil {
			return nil, fmt.Errorf("snapshot: import item %s: %w", it.ID, err)
		}
		existingItems[it.ID] = true
		res.ItemsImported++
	}

	existingCards, err := idSet(gdb, "file_cards")
	if err != nil {
		return nil, err
	}
	for _, rec := range env.FileCards {
		if existingCards[rec.ID] || !existingProjects[rec.ProjectID] {
			res.Skipped++
			continue
		}
		c := models.FileCard{
			ID:          rec.ID,
			ProjectID:   rec.ProjectID,
			Filename:    rec.Filename,
			Content:     rec.Content,
			PositionX:   rec.PositionX,
			PositionY:   rec.PositionY,
			IsExpanded:  rec.IsExpanded != 0,
			IsMinimized: rec.IsMinimized != 0,
			ZIndex:      rec.ZIndex,
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
		}
		if err := gdb.Create(&c).Error; err != nil {
			return nil, fmt.Errorf("snapshot: import file card %s: %w", rec.ID, err)
		}
		existingCards[rec.ID] = true
		res.FileCardsImported++
	}

	return &res, nil
}

func idSet(gdb *gorm.DB, table string) (map[string]bool, error) {
	var ids []string
	if err := gdb.Table(table).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("snapshot: read %s ids: %w", table, err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
