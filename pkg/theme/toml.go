package theme

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the TOML-serializable representation of a Theme.
type thTOMLTheme struct {
	Name     string         `toml:"name"`
	Base     thTOMLBase     `toml:"base"`
	State    thTOMLState    `toml:"state"`
	Progress thTOMLProgress `toml:"progress"`
	Help     thTOMLHelp     `toml:"help"`
}

type thTOMLBase struct {
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
	Border     string `toml:"border"`
	Digits     string `toml:"digits"`
}

type thTOMLState struct {
	Running string `toml:"running"`
	Paused  string `toml:"paused"`
	Stopped string `toml:"stopped"`
	Done    string `toml:"done"`
}

type thTOMLProgress struct {
	From  string `toml:"from"`
	To    string `toml:"to"`
	Empty string `toml:"empty"`
}

type thTOMLHelp struct {
	Key  string `toml:"key"`
	Desc string `toml:"desc"`
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML theme definition from raw bytes.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt thTOMLTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}

	t := Theme{
		Name:       tt.Name,
		Foreground: tt.Base.Foreground,
		Dim:        tt.Base.Dim,
		Accent:     tt.Base.Accent,
		Border:     tt.Base.Border,
		Digits:     tt.Base.Digits,

		Running: tt.State.Running,
		Paused:  tt.State.Paused,
		Stopped: tt.State.Stopped,
		Done:    tt.State.Done,

		ProgressFrom:  tt.Progress.From,
		ProgressTo:    tt.Progress.To,
		ProgressEmpty: tt.Progress.Empty,

		HelpKey:  tt.Help.Key,
		HelpDesc: tt.Help.Desc,
	}

	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}

	return t, nil
}

// SaveToTOML serializes a theme to TOML bytes.
func SaveToTOML(t Theme) ([]byte, error) {
	tt := thTOMLTheme{
		Name: t.Name,
		Base: thTOMLBase{
			Foreground: t.Foreground,
			Dim:        t.Dim,
			Accent:     t.Accent,
			Border:     t.Border,
			Digits:     t.Digits,
		},
		State: thTOMLState{
			Running: t.Running,
			Paused:  t.Paused,
			Stopped: t.Stopped,
			Done:    t.Done,
		},
		Progress: thTOMLProgress{
			From:  t.ProgressFrom,
			To:    t.ProgressTo,
			Empty: t.ProgressEmpty,
		},
		Help: thTOMLHelp{
			Key:  t.HelpKey,
			Desc: t.HelpDesc,
		},
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// thColorFields lists every color field by its TOML-ish name.
func thColorFields(t Theme) map[string]string {
	return map[string]string{
		"foreground":     t.Foreground,
		"dim":            t.Dim,
		"accent":         t.Accent,
		"border":         t.Border,
		"digits":         t.Digits,
		"running":        t.Running,
		"paused":         t.Paused,
		"stopped":        t.Stopped,
		"done":           t.Done,
		"progress_from":  t.ProgressFrom,
		"progress_to":    t.ProgressTo,
		"progress_empty": t.ProgressEmpty,
		"help_key":       t.HelpKey,
		"help_desc":      t.HelpDesc,
	}
}

// thValidateTheme checks that the name is set and every color is valid hex.
func thValidateTheme(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("theme: missing required field %q", "name")
	}
	for field, value := range thColorFields(t) {
		if value == "" {
			return fmt.Errorf("theme: missing required field %q", field)
		}
		if !thHexColorRegex.MatchString(value) {
			return fmt.Errorf("theme: invalid hex color %q for field %q (expected #RRGGBB)", value, field)
		}
	}
	return nil
}
