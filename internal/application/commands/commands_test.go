package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"treedit/internal/application"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

// stubCodec understands just enough scalar syntax for command tests
type stubCodec struct{}

func (stubCodec) Decode([]byte, ports.Format) (*domain.Node, error) {
	return nil, errors.New("not implemented")
}

func (stubCodec) Encode(*domain.Node, ports.Format) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (stubCodec) ParseScalar(text string) (*domain.Node, error) {
	switch text {
	case "", "null":
		return domain.Null(), nil
	case "true", "false":
		return domain.Bool(text == "true"), nil
	case "{}":
		return domain.Object(), nil
	case "[]":
		return domain.Array(), nil
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return domain.Int(i), nil
	}
	if strings.HasPrefix(text, "[") {
		return nil, fmt.Errorf("unterminated flow sequence")
	}
	return domain.String(strings.Trim(text, `"`)), nil
}

type memRegisters map[rune]domain.Entry

func (m memRegisters) Put(name rune, e domain.Entry) error {
	m[name] = e
	return nil
}

func (m memRegisters) Get(name rune) (domain.Entry, bool, error) {
	e, ok := m[name]
	return e, ok, nil
}

type memRepo struct {
	saved map[string]*domain.Node
	err   error
}

func (r *memRepo) Load(path string) (*domain.Node, ports.Format, error) {
	return r.saved[path], ports.FormatYAML, nil
}

func (r *memRepo) Save(path string, root *domain.Node, _ ports.Format) error {
	if r.err != nil {
		return r.err
	}
	if r.saved == nil {
		r.saved = map[string]*domain.Node{}
	}
	r.saved[path] = root.Clone()
	return nil
}

func newSession(root *domain.Node) *application.Session {
	return application.NewSession(root, application.Options{HistoryLimit: 10, ExpandOnLoad: true})
}

func configDoc() *domain.Node {
	return domain.Object(
		domain.E("name", domain.String("svc")),
		domain.E("ports", domain.Array(domain.Int(80), domain.Int(443))),
		domain.E("env", domain.Object()),
	)
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func TestInsertCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cursor  domain.Path
		mode    application.InsertMode
		key     string
		wantErr bool
		errMsg  string
	}{
		{
			name:   "object sibling with key",
			cursor: domain.Path{0},
			mode:   application.InsertAfter,
			key:    "version",
		},
		{
			name:    "object sibling without key",
			cursor:  domain.Path{0},
			mode:    application.InsertAfter,
			wantErr: true,
			errMsg:  "key is required",
		},
		{
			name:   "array element needs no key",
			cursor: domain.Path{1, 0},
			mode:   application.InsertBefore,
		},
		{
			name:    "child of empty object needs key",
			cursor:  domain.Path{2},
			mode:    application.InsertChild,
			wantErr: true,
			errMsg:  "key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(configDoc())
			if err := s.SetCursor(tt.cursor); err != nil {
				t.Fatalf("SetCursor: %v", err)
			}
			err := NewInsertCommand(s, stubCodec{}, tt.mode, tt.key, "1").Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestInsertCommand_Execute(t *testing.T) {
	s := newSession(configDoc())
	if err := s.SetCursor(domain.Path{1, 1}); err != nil {
		t.Fatal(err)
	}

	result, err := NewInsertCommand(s, stubCodec{}, application.InsertAfter, "", "8080").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Path.String() != "1.2" {
		t.Errorf("expected path 1.2, got %s", result.Path)
	}
	if got := s.Get(domain.Path{1, 2}).Int; got != 8080 {
		t.Errorf("expected 8080, got %d", got)
	}
	if !contains(result.Message, "Inserted number") {
		t.Errorf("unexpected message %q", result.Message)
	}
}

func TestInsertCommand_BadValueLeavesTreeUntouched(t *testing.T) {
	s := newSession(configDoc())
	before := s.Root().Clone()

	_, err := NewInsertCommand(s, stubCodec{}, application.InsertAfter, "x", "[1, 2").Execute(context.Background())
	var valErr *application.ValidationError
	if !errors.As(err, &valErr) || valErr.Field != "value" {
		t.Fatalf("expected value ValidationError, got %v", err)
	}
	if !before.Equal(s.Root()) {
		t.Error("tree changed after failed insert")
	}
}

func TestYankPasteRoundTrip(t *testing.T) {
	s := newSession(configDoc())
	regs := memRegisters{}

	if err := s.SetCursor(domain.Path{1}); err != nil {
		t.Fatal(err)
	}
	if _, err := NewYankCommand(s, regs, 'a').Execute(context.Background()); err != nil {
		t.Fatalf("yank: %v", err)
	}
	if regs['a'].Key != "ports" {
		t.Errorf("expected key ports in register, got %q", regs['a'].Key)
	}

	result, err := NewPasteCommand(s, regs, 'a', application.InsertAfter).Execute(context.Background())
	if err != nil {
		t.Fatalf("paste: %v", err)
	}
	if result.Key != "ports_1" {
		t.Errorf("expected de-duplicated key ports_1, got %q", result.Key)
	}
	if result.Path.String() != "2" {
		t.Errorf("expected path 2, got %s", result.Path)
	}
	if !s.Get(domain.Path{1}).Equal(s.Get(domain.Path{2})) {
		t.Error("pasted value differs from yanked value")
	}

	// the register keeps its own copy
	s.Get(domain.Path{2}).Items[0].Int = 1
	if regs['a'].Value.Items[0].Int != 80 {
		t.Error("register aliased the pasted node")
	}
}

func TestPasteCommand_IntoArrayDropsKey(t *testing.T) {
	s := newSession(configDoc())
	regs := memRegisters{'a': domain.E("name", domain.Int(22))}
	if err := s.SetCursor(domain.Path{1, 0}); err != nil {
		t.Fatal(err)
	}

	result, err := NewPasteCommand(s, regs, 'a', application.InsertBefore).Execute(context.Background())
	if err != nil {
		t.Fatalf("paste: %v", err)
	}
	if result.Key != "" || result.Path.String() != "1.0" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestPasteCommand_EmptyRegister(t *testing.T) {
	s := newSession(configDoc())
	_, err := NewPasteCommand(s, memRegisters{}, 'q', application.InsertAfter).Execute(context.Background())
	if !errors.Is(err, application.ErrEmptyRegister) {
		t.Errorf("expected ErrEmptyRegister, got %v", err)
	}

	_, err = NewPasteCommand(s, memRegisters{}, '!', application.InsertAfter).Execute(context.Background())
	var valErr *application.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError for bad register, got %v", err)
	}
}

func TestDeleteCommand(t *testing.T) {
	s := newSession(configDoc())
	regs := memRegisters{}

	result, err := NewDeleteCommand(s, regs, ports.UnnamedRegister).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Removed.Key != "name" {
		t.Errorf("expected name removed, got %q", result.Removed.Key)
	}
	if regs[ports.UnnamedRegister].Value.Text != "svc" {
		t.Error("deleted value was not stored in the register")
	}
	if s.Root().Len() != 2 {
		t.Errorf("expected 2 entries left, got %d", s.Root().Len())
	}
}

func TestDeleteCommand_Root(t *testing.T) {
	s := newSession(domain.Int(1))
	_, err := NewDeleteCommand(s, nil, 0).Execute(context.Background())
	if err == nil || !contains(err.Error(), "root") {
		t.Errorf("expected root error, got %v", err)
	}
}

func TestRenameCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cursor  domain.Path
		newKey  string
		wantErr bool
		errMsg  string
	}{
		{name: "object entry", cursor: domain.Path{0}, newKey: "title"},
		{name: "empty key", cursor: domain.Path{0}, newKey: "", wantErr: true, errMsg: "new key is required"},
		{name: "array element", cursor: domain.Path{1, 0}, newKey: "x", wantErr: true, errMsg: "only object entries have keys"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(configDoc())
			if err := s.SetCursor(tt.cursor); err != nil {
				t.Fatal(err)
			}
			err := NewRenameCommand(s, tt.newKey).Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRenameCommand_Execute(t *testing.T) {
	s := newSession(configDoc())

	result, err := NewRenameCommand(s, "title").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OldKey != "name" || result.NewKey != "title" {
		t.Errorf("unexpected result %+v", result)
	}

	_, err = NewRenameCommand(s, "ports").Execute(context.Background())
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestSetValueCommand(t *testing.T) {
	s := newSession(configDoc())
	if err := s.SetCursor(domain.Path{2}); err != nil {
		t.Fatal(err)
	}

	result, err := NewSetValueCommand(s, stubCodec{}, "true").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Kind != domain.KindBool {
		t.Errorf("expected bool, got %s", result.Kind)
	}
	if result.Message != "Set 2 to true" {
		t.Errorf("unexpected message %q", result.Message)
	}
	if key, _ := s.Root().Key(2); key != "env" {
		t.Errorf("key changed to %q", key)
	}
}

func TestUndoRedoCommands(t *testing.T) {
	s := newSession(configDoc())
	ctx := context.Background()

	undo, err := NewUndoCommand(s).Execute(ctx)
	if err != nil || undo.Applied {
		t.Fatalf("expected no-op undo, got %+v, %v", undo, err)
	}

	if _, err := NewRenameCommand(s, "title").Execute(ctx); err != nil {
		t.Fatal(err)
	}

	undo, err = NewUndoCommand(s).Execute(ctx)
	if err != nil || !undo.Applied {
		t.Fatalf("expected undo, got %+v, %v", undo, err)
	}
	if key, _ := s.Root().Key(0); key != "name" {
		t.Errorf("undo did not restore key, got %q", key)
	}

	redo, err := NewRedoCommand(s).Execute(ctx)
	if err != nil || !redo.Applied {
		t.Fatalf("expected redo, got %+v, %v", redo, err)
	}

	redo, err = NewRedoCommand(s).Execute(ctx)
	if err != nil || redo.Applied || redo.Message != "Already at newest change" {
		t.Errorf("expected no-op redo, got %+v, %v", redo, err)
	}

	bad := NewRedoCommand(s)
	bad.Branch = 3
	if _, err := bad.Execute(ctx); err == nil {
		t.Error("expected error for missing branch")
	}
}

func TestSaveCommand(t *testing.T) {
	s := newSession(configDoc())
	repo := &memRepo{}
	ctx := context.Background()

	if _, err := NewRenameCommand(s, "title").Execute(ctx); err != nil {
		t.Fatal(err)
	}
	if !s.Dirty() {
		t.Fatal("expected dirty session")
	}

	result, err := NewSaveCommand(s, repo, "conf.yaml", ports.FormatYAML).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "Wrote conf.yaml" {
		t.Errorf("unexpected message %q", result.Message)
	}
	if s.Dirty() {
		t.Error("session still dirty after save")
	}
	if !repo.saved["conf.yaml"].Equal(s.Root()) {
		t.Error("saved tree differs")
	}

	repo.err = errors.New("disk full")
	if _, err := NewRenameCommand(s, "name").Execute(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSaveCommand(s, repo, "conf.yaml", ports.FormatYAML).Execute(ctx); err == nil {
		t.Error("expected save error")
	}
	if !s.Dirty() {
		t.Error("failed save must keep the session dirty")
	}

	if err := NewSaveCommand(s, repo, " ", ports.FormatYAML).Validate(); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestListPathsCommand(t *testing.T) {
	root := configDoc()

	all, err := NewListPathsCommand(root, domain.Root, 0).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != domain.CountNodes(root)-1 {
		t.Errorf("expected %d paths, got %d", domain.CountNodes(root)-1, len(all))
	}

	top, err := NewListPathsCommand(root, domain.Root, 1).Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 3 || top[1].Key != "ports" || top[1].Kind != domain.KindArray {
		t.Errorf("unexpected top level listing %+v", top)
	}

	sub, err := NewListPathsCommand(root, domain.Path{1}, 0).Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sub) != 2 || sub[1].Path.String() != "1.1" {
		t.Errorf("unexpected subtree listing %+v", sub)
	}

	if _, err := NewListPathsCommand(root, domain.Path{7}, 0).Execute(context.Background()); !errors.Is(err, domain.ErrPathNotFound) {
		t.Errorf("expected ErrPathNotFound, got %v", err)
	}
}
