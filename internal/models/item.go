package models

// Item type tags. The set is extensible; unknown tags are stored as-is.
const (
	ItemNote        = "note"
	ItemIDE         = "ide"
	ItemRemoteIDE   = "remote-ide"
	ItemCodingAgent = "coding-agent"
	ItemFile        = "file"
	ItemURL         = "url"
	ItemCommand     = "command"
)

// Command execution modes for command items.
const (
	CommandModeBackground = "background"
	CommandModeOutput     = "output"
)

// Item is a typed entry within a project: a note, an IDE or remote-IDE
// shortcut, a coding-agent launcher, a file/url reference, or a shell
// command. Content semantics depend on Type (path, URL, command text, or
// note body).
type Item struct {
	ID              string  `gorm:"primaryKey;size:36" json:"id"`
	ProjectID       string  `gorm:"size:36;not null;index" json:"project_id"`
	Type            string  `gorm:"size:32;not null" json:"type"`
	Title           string  `gorm:"not null" json:"title"`
	Content         string  `gorm:"type:text;not null;default:''" json:"content"`
	IDEType         *string `gorm:"column:ide_type;size:64" json:"ide_type,omitempty"`
	RemoteIDEType   *string `gorm:"column:remote_ide_type;size:64" json:"remote_ide_type,omitempty"`
	CodingAgentType *string `gorm:"size:64" json:"coding_agent_type,omitempty"`
	CodingAgentArgs *string `gorm:"type:text" json:"coding_agent_args,omitempty"`
	CodingAgentEnv  *string `gorm:"type:text" json:"coding_agent_env,omitempty"`
	CommandMode     *string `gorm:"size:16" json:"command_mode,omitempty"`
	CommandCwd      *string `json:"command_cwd,omitempty"`
	CommandHost     *string `json:"command_host,omitempty"`
	Order           int     `gorm:"column:order;not null;default:0" json:"order"`
	CreatedAt       string  `gorm:"not null" json:"created_at"`
	UpdatedAt       string  `gorm:"not null" json:"updated_at"`
}
