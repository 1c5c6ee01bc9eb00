package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-stdlog/stdlog"

	"github.com/alexhholmes/layoutdecl/internal/config"
	"github.com/alexhholmes/layoutdecl/internal/field"
	"github.com/alexhholmes/layoutdecl/internal/layout"
	"github.com/alexhholmes/layoutdecl/internal/loader"
	"github.com/alexhholmes/layoutdecl/internal/parser"
	"github.com/alexhholmes/layoutdecl/internal/prompt"
	"github.com/alexhholmes/layoutdecl/internal/render"
)

const usage = `usage: %s <command> [flags]

commands:
  new      declare fields interactively
  add      append a field to a layout document
  remove   remove a field by id
  list     print the header listing
  check    report record length, gaps and overlapping fields
  export   re-export a JSON or YAML document as JSON
`

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitInvalid = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintf(stderr, usage, "layoutdecl")
		return exitUsage
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "new":
		err = runNew(rest, stdout, stderr)
	case "add":
		err = runAdd(rest, stdout, stderr)
	case "remove":
		err = runRemove(rest, stdout, stderr)
	case "list":
		err = runList(rest, stdout, stderr)
	case "check":
		err = runCheck(rest, stdout, stderr)
	case "export":
		err = runExport(rest, stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprintf(stdout, usage, "layoutdecl")
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", cmd)
		fmt.Fprintf(stderr, usage, "layoutdecl")
		return exitUsage
	}

	return exitCode(err, stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}

	var usageErr usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	var verr field.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(stderr, "invalid %s: %s\n", verr.Slot, verr.Message)
		return exitInvalid
	}

	if errors.Is(err, prompt.ErrAborted) {
		fmt.Fprintln(stderr, "aborted")
		return exitFailure
	}

	fmt.Fprintf(stderr, "error: %v\n", err)
	return exitFailure
}

type usageError struct {
	msg string
}

func (u usageError) Error() string {
	return u.msg
}

// multiFlag collects repeated string flags.
type multiFlag []string

func (m *multiFlag) String() string {
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// env is everything a command needs once flags and config are read.
type env struct {
	cfg       config.Config
	log       stdlog.Logger
	validator *field.Validator
	loader    *loader.Loader
}

func newEnv(configPath string, stderr io.Writer) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger(stderr)
	v := cfg.Validator()
	return &env{
		cfg:       cfg,
		log:       log,
		validator: v,
		loader:    loader.New(v, log),
	}, nil
}

func (e *env) newModel() *layout.Model {
	return layout.NewModel(e.cfg.ModelOptions(e.log)...)
}

// open loads path into a fresh model. A missing file yields an empty model
// when allowMissing is set.
func (e *env) open(path string, allowMissing bool) (*layout.Model, error) {
	m := e.newModel()
	if _, err := os.Stat(path); err != nil {
		if allowMissing && os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}
	if err := e.loader.LoadFile(path, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (e *env) write(m *layout.Model, path string) (string, error) {
	if e.cfg.Indent {
		return m.WriteFileIndent(path)
	}
	return m.WriteFile(path)
}

// docPath resolves the document a command works on, falling back to def.
// A path without an extension names the .json file an update writes, so
// reads and writes agree. Documents updated in place must be JSON.
func docPath(path, def string, update bool) (string, error) {
	if path == "" {
		path = def
	}
	if filepath.Ext(path) == "" {
		return layout.ExportPath(path), nil
	}
	if update && layout.ExportPath(path) != path {
		return "", usageError{msg: fmt.Sprintf("%s: only .json documents can be updated, convert it with export first", path)}
	}
	return path, nil
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "configuration file (YAML or JSON)")
	return fs, configPath
}

func runNew(args []string, stdout, stderr io.Writer) error {
	fs, configPath := newFlagSet("new", stderr)
	out := fs.String("o", "", "export path (defaults to the configured output)")
	from := fs.String("from", "", "start from an existing JSON or YAML document")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := newEnv(*configPath, stderr)
	if err != nil {
		return err
	}
	target := e.cfg.Output
	if *out != "" {
		target = *out
	}

	m := e.newModel()
	if *from != "" {
		if err := e.loader.LoadFile(*from, m); err != nil {
			return err
		}
	}

	save := func(m *layout.Model) (string, error) {
		return e.write(m, target)
	}
	s := prompt.NewSession(prompt.NewSurveyDriver(stdout), e.validator, m, save, e.log)
	return s.Run(context.Background())
}

func runAdd(args []string, stdout, stderr io.Writer) error {
	fs, configPath := newFlagSet("add", stderr)
	doc := fs.String("doc", "", "layout document to update (created when missing)")
	name := fs.String("name", "", "field label")
	kind := fs.String("type", "", "field type")
	rng := fs.String("range", "", "offsets as start:end")
	start := fs.String("start", "", "start offset (alternative to -range)")
	end := fs.String("end", "", "end offset (alternative to -range)")
	var constraints multiFlag
	fs.Var(&constraints, "c", "constraint as key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := newEnv(*configPath, stderr)
	if err != nil {
		return err
	}
	path, err := docPath(*doc, e.cfg.Output, true)
	if err != nil {
		return err
	}

	c := field.Candidate{Name: *name, Kind: *kind, RawStart: *start, RawEnd: *end}
	if *rng != "" {
		if c.RawStart != "" || c.RawEnd != "" {
			return usageError{msg: "-range cannot be combined with -start/-end"}
		}
		if c.RawStart, c.RawEnd, err = parser.ParseRange(*rng); err != nil {
			return usageError{msg: err.Error()}
		}
	}
	if c.Constraints, err = parser.ParseConstraints(constraints); err != nil {
		return usageError{msg: err.Error()}
	}

	f, err := e.validator.Validate(c)
	if err != nil {
		return err
	}

	m, err := e.open(path, true)
	if err != nil {
		return err
	}
	if err := m.Insert(f); err != nil {
		return err
	}
	written, err := e.write(m, path)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, f.ID)
	e.log.Info("Field added", "id", f.ID, "path", written)
	return nil
}

func runRemove(args []string, stdout, stderr io.Writer) error {
	fs, configPath := newFlagSet("remove", stderr)
	doc := fs.String("doc", "", "layout document to update")
	id := fs.String("id", "", "id of the field to remove")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return usageError{msg: "-id is required"}
	}

	e, err := newEnv(*configPath, stderr)
	if err != nil {
		return err
	}
	path, err := docPath(*doc, e.cfg.Output, true)
	if err != nil {
		return err
	}

	m, err := e.open(path, false)
	if err != nil {
		return err
	}
	if !m.Remove(*id) {
		fmt.Fprintf(stdout, "no field with id %s\n", *id)
		return nil
	}
	_, err = e.write(m, path)
	return err
}

func runList(args []string, stdout, stderr io.Writer) error {
	fs, configPath := newFlagSet("list", stderr)
	doc := fs.String("doc", "", "layout document to read")
	ids := fs.Bool("ids", false, "show field ids")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := newEnv(*configPath, stderr)
	if err != nil {
		return err
	}
	path, err := docPath(*doc, e.cfg.Output, false)
	if err != nil {
		return err
	}

	m, err := e.open(path, false)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, render.Header(m.Snapshot().Header, *ids))
	return nil
}

func runCheck(args []string, stdout, stderr io.Writer) error {
	fs, configPath := newFlagSet("check", stderr)
	doc := fs.String("doc", "", "layout document to read")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := newEnv(*configPath, stderr)
	if err != nil {
		return err
	}
	path, err := docPath(*doc, e.cfg.Output, false)
	if err != nil {
		return err
	}

	// Load without the overlap check so overlaps are reported, not refused.
	m := layout.NewModel(layout.WithLogger(e.log))
	if err := e.loader.LoadFile(path, m); err != nil {
		return err
	}

	report := m.Analyze()
	fmt.Fprint(stdout, render.Report(report))
	if !report.IsValid() {
		return field.ValidationError{
			Slot:    field.SlotRange,
			Message: fmt.Sprintf("%d overlapping field pair(s)", len(report.Collisions)),
		}
	}
	return nil
}

func runExport(args []string, stdout, stderr io.Writer) error {
	fs, configPath := newFlagSet("export", stderr)
	doc := fs.String("doc", "", "layout document to read (JSON or YAML)")
	out := fs.String("o", "", "export path; prints to stdout when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *doc == "" {
		return usageError{msg: "-doc is required"}
	}

	e, err := newEnv(*configPath, stderr)
	if err != nil {
		return err
	}
	path, err := docPath(*doc, "", false)
	if err != nil {
		return err
	}
	m, err := e.open(path, false)
	if err != nil {
		return err
	}

	if *out != "" {
		written, err := e.write(m, *out)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, written)
		return nil
	}

	var data []byte
	if e.cfg.Indent {
		data, err = m.ExportIndent()
	} else {
		data, err = m.Export()
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, string(data))
	return nil
}
