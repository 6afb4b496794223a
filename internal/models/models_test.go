package models

import (
	"database/sql/driver"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

// assertFieldType checks that a struct field has the expected Go type.
func assertFieldType(t *testing.T, typ reflect.Type, fieldName, expectedType string) {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	got := f.Type.String()
	if got != expectedType {
		t.Errorf("%s.%s type = %q, want %q", typ.Name(), fieldName, got, expectedType)
	}
}

func TestProject_Fields(t *testing.T) {
	typ := reflect.TypeOf(Project{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "size:36")
	assertGormTag(t, typ, "Name", "not null")
	assertGormTag(t, typ, "Description", "type:text")
	assertGormTag(t, typ, "Metadata", "type:text")
	assertGormTag(t, typ, "UpdatedAt", "index")

	assertFieldType(t, typ, "ID", "string")
	assertFieldType(t, typ, "Metadata", "models.Metadata")
	assertFieldType(t, typ, "CreatedAt", "string")
	assertFieldType(t, typ, "UpdatedAt", "string")
	assertFieldType(t, typ, "Items", "[]models.Item")
}

func TestItem_Fields(t *testing.T) {
	typ := reflect.TypeOf(Item{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ProjectID", "size:36")
	assertGormTag(t, typ, "ProjectID", "index")
	assertGormTag(t, typ, "Type", "not null")
	assertGormTag(t, typ, "Title", "not null")
	assertGormTag(t, typ, "Order", "column:order")
	assertGormTag(t, typ, "Order", "default:0")

	assertFieldType(t, typ, "IDEType", "*string")
	assertFieldType(t, typ, "RemoteIDEType", "*string")
	assertFieldType(t, typ, "CodingAgentType", "*string")
	assertFieldType(t, typ, "CodingAgentArgs", "*string")
	assertFieldType(t, typ, "CodingAgentEnv", "*string")
	assertFieldType(t, typ, "CommandMode", "*string")
	assertFieldType(t, typ, "Order", "int")
}

func TestFileCard_Fields(t *testing.T) {
	typ := reflect.TypeOf(FileCard{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ProjectID", "index")
	assertGormTag(t, typ, "Filename", "not null")
	assertGormTag(t, typ, "ZIndex", "default:0")

	assertFieldType(t, typ, "PositionX", "float64")
	assertFieldType(t, typ, "PositionY", "float64")
	assertFieldType(t, typ, "IsExpanded", "bool")
	assertFieldType(t, typ, "IsMinimized", "bool")
	assertFieldType(t, typ, "ZIndex", "int")
}

func TestSetting_Fields(t *testing.T) {
	typ := reflect.TypeOf(Setting{})
	assertGormTag(t, typ, "Key", "primaryKey")
	assertGormTag(t, typ, "Value", "not null")
}

func TestItemTypeConstants(t *testing.T) {
	want := []string{"note", "ide", "remote-ide", "coding-agent", "file", "url", "command"}
	got := []string{ItemNote, ItemIDE, ItemRemoteIDE, ItemCodingAgent, ItemFile, ItemURL, ItemCommand}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("item type tags = %v, want %v", got, want)
	}
}

func TestMetadata_Value(t *testing.T) {
	tests := []struct {
		name string
		m    Metadata
		want driver.Value
	}{
		{"empty becomes object", Metadata(nil), "{}"},
		{"invalid becomes object", Metadata("{broken"), "{}"},
		{"object kept verbatim", Metadata(`{"a":1}`), `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.m.Value()
			if err != nil {
				t.Fatalf("Value() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMetadata_Scan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"string", `{"k":"v"}`, `{"k":"v"}`},
		{"bytes", []byte(`{"k":"v"}`), `{"k":"v"}`},
		{"nil degrades", nil, "{}"},
		{"empty degrades", "", "{}"},
		{"corrupt degrades", "{not json", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Metadata
			if err := m.Scan(tt.value); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if string(m) != tt.want {
				t.Errorf("Scan() = %q, want %q", string(m), tt.want)
			}
		})
	}
}

func TestMetadata_Scan_UnsupportedType(t *testing.T) {
	var m Metadata
	if err := m.Scan(42); err == nil {
		t.Fatal("expected error scanning int")
	}
}

func TestMetadata_JSONRoundTrip(t *testing.T) {
	raw := `{"github_url":"https://example.com","section_order":["items","cards"]}`
	var m Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != raw {
		t.Errorf("round trip = %s, want %s", out, raw)
	}
}

func TestNow_Format(t *testing.T) {
	ts := Now()
	parsed, err := time.Parse(TimeLayout, ts)
	if err != nil {
		t.Fatalf("Now() = %q, not parseable: %v", ts, err)
	}
	if parsed.Location() != time.UTC {
		t.Errorf("Now() location = %v, want UTC", parsed.Location())
	}
	if !strings.HasSuffix(ts, "Z") {
		t.Errorf("Now() = %q, want Z suffix", ts)
	}
}

func TestNow_LexicographicOrder(t *testing.T) {
	earlier := time.Date(2026, 3, 1, 10, 0, 0, 5_000_000, time.UTC).Format(TimeLayout)
	later := time.Date(2026, 3, 1, 10, 0, 0, 250_000_000, time.UTC).Format(TimeLayout)
	if !(earlier < later) {
		t.Errorf("timestamps not string-ordered: %q vs %q", earlier, later)
	}
}
