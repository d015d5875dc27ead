package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dalali/dalali-cli/internal/api"
)

// fieldKind controls per-field input behavior.
type fieldKind int

const (
	fieldText fieldKind = iota
	fieldPassword
	// fieldFilePath values hold a local path; submit opens the file and
	// ships it as a multipart attachment.
	fieldFilePath
)

type formField struct {
	key         string
	label       string
	kind        fieldKind
	placeholder string
	required    bool
	input       textinput.Model
}

// form is a vertical stack of labeled text inputs with one focused row.
// Views own the submit action; the form only manages focus and values.
type form struct {
	fields  []formField
	focused int
}

func newForm(fields []formField) *form {
	f := &form{fields: fields}
	for i := range f.fields {
		in := textinput.New()
		in.Placeholder = f.fields[i].placeholder
		in.CharLimit = 256
		in.Width = 44
		if f.fields[i].kind == fieldPassword {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.fields[i].input = in
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

// setValue seeds a field, used when editing an existing record.
func (f *form) setValue(key, value string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].input.SetValue(value)
			return
		}
	}
}

func (f *form) value(key string) string {
	for i := range f.fields {
		if f.fields[i].key == key {
			return strings.TrimSpace(f.fields[i].input.Value())
		}
	}
	return ""
}

// missing returns the label of the first required field left blank, or "".
func (f *form) missing() string {
	for i := range f.fields {
		if f.fields[i].required && strings.TrimSpace(f.fields[i].input.Value()) == "" {
			return f.fields[i].label
		}
	}
	return ""
}

// attachment opens the named file-path field. A blank path returns
// (nil, nil): optional images simply aren't sent.
func (f *form) attachment(key string) (*api.Attachment, error) {
	path := f.value(key)
	if path == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return &api.Attachment{
		Field:    key,
		FileName: filepath.Base(path),
		Reader:   file,
	}, nil
}

// handleKey moves focus with tab/shift+tab/up/down and feeds everything
// else to the focused input. Returns true when enter was pressed on the
// last field, which views treat as submit.
func (f *form) handleKey(msg tea.KeyMsg) (submit bool, cmd tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		f.focusField(f.focused + 1)
		return false, nil
	case "shift+tab", "up":
		f.focusField(f.focused - 1)
		return false, nil
	case "enter":
		if f.focused == len(f.fields)-1 {
			return true, nil
		}
		f.focusField(f.focused + 1)
		return false, nil
	}
	if f.focused >= 0 && f.focused < len(f.fields) {
		f.fields[f.focused].input, cmd = f.fields[f.focused].input.Update(msg)
	}
	return false, cmd
}

func (f *form) focusField(idx int) {
	if len(f.fields) == 0 {
		return
	}
	if idx < 0 {
		idx = len(f.fields) - 1
	}
	if idx >= len(f.fields) {
		idx = 0
	}
	f.fields[f.focused].input.Blur()
	f.focused = idx
	f.fields[f.focused].input.Focus()
}

func (f *form) render() string {
	var b strings.Builder
	for i := range f.fields {
		label := f.fields[i].label
		if f.fields[i].required {
			label += " *"
		}
		style := labelStyle
		if i == f.focused {
			style = focusedStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
		b.WriteString(f.fields[i].input.View())
		if i < len(f.fields)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
