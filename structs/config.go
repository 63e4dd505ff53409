package structs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zond/escaperoom"
)

const (
	StartIntro = "intro"
)

// Config holds the settings for one game session.
type Config struct {
	// DataDir holds the evidence files and, by default, the produced files.
	DataDir string `yaml:"data_dir"`
	// Start is a move name or StartIntro.
	Start             string `yaml:"start"`
	TranscriptPath    string `yaml:"transcript"`
	ChronologicalPath string `yaml:"chronological_log"`
	SavePath          string `yaml:"save"`
	// AuditPath enables the JSON audit log when non-empty.
	AuditPath      string `yaml:"audit_log"`
	AuditMaxSizeMB int    `yaml:"audit_max_size_mb"`
	AuditBackups   int    `yaml:"audit_backups"`
	Intro          bool   `yaml:"intro"`
	// ScriptPath runs commands from a file instead of the terminal.
	ScriptPath string `yaml:"script"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:           "data",
		Start:             Lobby.Key(),
		TranscriptPath:    filepath.Join("data", "run.txt"),
		ChronologicalPath: filepath.Join("data", "transcript_crono.txt"),
		SavePath:          filepath.Join("data", "save.json"),
		AuditMaxSizeMB:    10,
		AuditBackups:      3,
		Intro:             true,
	}
}

// LoadConfig overlays the YAML file at path on DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return nil, escaperoom.WithStack(err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "parsing %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StartRoom resolves Start, treating StartIntro as the lobby.
func (c *Config) StartRoom() (Room, error) {
	if c.Start == "" || c.Start == StartIntro {
		return Lobby, nil
	}
	r, ok := ParseRoom(c.Start)
	if !ok {
		return Lobby, errors.Errorf("unknown start room %q", c.Start)
	}
	return r, nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir can't be empty")
	}
	if _, err := c.StartRoom(); err != nil {
		return err
	}
	if c.TranscriptPath == "" || c.ChronologicalPath == "" {
		return errors.New("transcript and chronological_log paths can't be empty")
	}
	if c.AuditMaxSizeMB < 0 || c.AuditBackups < 0 {
		return errors.New("audit rotation settings can't be negative")
	}
	return nil
}
