package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-stdlog/stdlog"

	"github.com/alexhholmes/layoutdecl/internal/field"
	"github.com/alexhholmes/layoutdecl/internal/layout"
	"github.com/alexhholmes/layoutdecl/internal/render"
)

// Menu entries, in display order.
const (
	ActionAdd    = "Add field"
	ActionRemove = "Remove field"
	ActionJSON   = "Show JSON"
	ActionCheck  = "Check layout"
	ActionSave   = "Save"
	ActionQuit   = "Quit"
)

var menu = []string{ActionAdd, ActionRemove, ActionJSON, ActionCheck, ActionSave, ActionQuit}

const cancelOption = "Cancel"

// SaveFunc persists the model and returns the path written.
type SaveFunc func(m *layout.Model) (string, error)

// Session is one interactive editing session over a model.
type Session struct {
	driver    Driver
	validator *field.Validator
	model     *layout.Model
	save      SaveFunc
	log       stdlog.Logger
}

// NewSession wires a driver to a model. A nil save disables the Save
// action; a nil logger discards.
func NewSession(d Driver, v *field.Validator, m *layout.Model, save SaveFunc, log stdlog.Logger) *Session {
	if log == nil {
		log = stdlog.Discard
	} else {
		log = log.Named("session")
	}
	return &Session{driver: d, validator: v, model: m, save: save, log: log}
}

// Run shows the menu until the user quits or aborts. Quitting with unsaved
// changes asks for confirmation first.
func (s *Session) Run(ctx context.Context) error {
	dirty := false
	for {
		choice, err := s.driver.Select(ctx, SelectConfig{Message: "What next?", Options: menu})
		if err != nil {
			return err
		}

		switch indexOr(menu, choice) {
		case ActionAdd:
			added, err := s.AddField(ctx)
			if err != nil {
				return err
			}
			dirty = dirty || added
		case ActionRemove:
			removed, err := s.RemoveField(ctx)
			if err != nil {
				return err
			}
			dirty = dirty || removed
		case ActionJSON:
			data, err := s.model.ExportIndent()
			if err != nil {
				return err
			}
			if err := s.driver.Info(ctx, string(data)); err != nil {
				return err
			}
		case ActionCheck:
			if err := s.driver.Info(ctx, render.Report(s.model.Analyze())); err != nil {
				return err
			}
		case ActionSave:
			if err := s.Save(ctx); err != nil {
				return err
			}
			dirty = false
		case ActionQuit:
			if !dirty {
				return nil
			}
			leave, err := s.driver.Confirm(ctx, "Discard unsaved changes?", false)
			if err != nil {
				return err
			}
			if leave {
				return nil
			}
		default:
			return fmt.Errorf("prompt: unknown menu choice %d", choice)
		}
	}
}

// AddField asks for a field declaration and inserts it. Range failures
// are shown and the offsets asked again; declining to retry abandons the
// field. Reports whether a field was added.
func (s *Session) AddField(ctx context.Context) (bool, error) {
	name, err := s.driver.Input(ctx, InputConfig{
		Message:   "Field name",
		Validator: validateName,
	})
	if err != nil {
		return false, err
	}

	kinds := s.validator.Kinds()
	options := make([]string, len(kinds))
	for i, k := range kinds {
		options[i] = k.String()
	}
	kindIdx, err := s.driver.Select(ctx, SelectConfig{Message: "Type", Options: options})
	if err != nil {
		return false, err
	}
	if kindIdx < 0 || kindIdx >= len(kinds) {
		return false, fmt.Errorf("prompt: unknown type choice %d", kindIdx)
	}

	c := field.Candidate{Name: name, Kind: options[kindIdx]}

	for {
		if c.RawStart, err = s.driver.Input(ctx, InputConfig{Message: "From", Default: c.RawStart}); err != nil {
			return false, err
		}
		if c.RawEnd, err = s.driver.Input(ctx, InputConfig{Message: "To", Default: c.RawEnd}); err != nil {
			return false, err
		}
		if c.Constraints == nil {
			desc, err := s.driver.TextArea(ctx, "Description")
			if err != nil {
				return false, err
			}
			c.Constraints = map[string]string{}
			if desc = strings.TrimSpace(desc); desc != "" {
				c.Constraints["description"] = desc
			}
		}

		f, err := s.validator.Validate(c)
		if err == nil {
			err = s.model.Insert(f)
		}
		if err == nil {
			s.log.Info("Field declared", "id", f.ID, "label", f.Name)
			return true, s.driver.Info(ctx, render.Header(s.model.Snapshot().Header, false))
		}

		var verr field.ValidationError
		if !errors.As(err, &verr) {
			return false, err
		}
		if err := s.driver.Info(ctx, verr.Message); err != nil {
			return false, err
		}
		if verr.Slot == field.SlotName || verr.Slot == field.SlotKind {
			return false, nil
		}
		retry, err := s.driver.Confirm(ctx, "Edit offsets?", true)
		if err != nil || !retry {
			return false, err
		}
	}
}

// RemoveField lets the user pick a declared field to delete. Reports
// whether a field was removed.
func (s *Session) RemoveField(ctx context.Context) (bool, error) {
	header := s.model.Snapshot().Header
	if len(header) == 0 {
		return false, s.driver.Info(ctx, "No fields declared")
	}

	options := make([]string, 0, len(header)+1)
	for _, f := range header {
		options = append(options, fmt.Sprintf("%s %s", f.Name, f.Offsets))
	}
	options = append(options, cancelOption)

	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Remove which field?", Options: options})
	if err != nil {
		return false, err
	}
	if idx < 0 || idx >= len(header) {
		return false, nil
	}

	removed := s.model.Remove(header[idx].ID)
	if removed {
		s.log.Info("Field removed", "id", header[idx].ID, "label", header[idx].Name)
	}
	return removed, s.driver.Info(ctx, render.Header(s.model.Snapshot().Header, false))
}

// Save writes the export through the session's SaveFunc.
func (s *Session) Save(ctx context.Context) error {
	if s.save == nil {
		return s.driver.Info(ctx, "Saving is not available")
	}
	path, err := s.save(s.model)
	if err != nil {
		s.log.Error(err, "Save failed")
		return err
	}
	return s.driver.Info(ctx, "Saved "+path)
}

func validateName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("required")
	}
	if utf8.RuneCountInString(s) > field.MaxNameLength {
		return fmt.Errorf("at most %d characters", field.MaxNameLength)
	}
	return nil
}

func indexOr(options []string, idx int) string {
	if idx < 0 || idx >= len(options) {
		return ""
	}
	return options[idx]
}
