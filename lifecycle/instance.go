// Package lifecycle drives one benchmark instance through prologue, code
// loading, execution and close.
//
// The prologue snapshots the host standard and flags before changing them,
// and code loading pushes the host AST before clearing it. Close undoes both
// from whatever state the instance reached, so a failed instance never leaks
// its configuration into the next one. Instances must run one at a time.
package lifecycle

import (
	"log/slog"
	"reflect"
	"time"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/specs-feup/clava-benchmarks/catalog"
	"github.com/specs-feup/clava-benchmarks/host"
	"github.com/specs-feup/clava-benchmarks/logging"
)

// Env holds the host capabilities shared by every instance of a run.
type Env struct {
	Config    host.Config
	Workspace host.Workspace
	Resources host.Resources
	WorkDir   host.WorkDir

	// NewCMaker creates the build settings of an instance. Nil uses a
	// LibList.
	NewCMaker func(instance string) host.CMaker

	Logger *slog.Logger
}

// snapshot is the per-instance state that must not outlive Close.
type snapshot struct {
	standard string
	flags    string
	captured bool
	pushed   bool
	staged   []Stage
}

// Instance is one (benchmark, size) pair bound to a recipe.
type Instance struct {
	*sim.HookableBase

	name     string
	sel      catalog.Selection
	standard string
	recipe   *Recipe
	env      Env
	logger   *slog.Logger
	cmaker   host.CMaker

	state  State
	failed bool
	snap   snapshot

	exe      host.Executable
	executor host.Executor
}

// NewInstance creates an instance in the Created state. standard is the
// language standard the benchmark needs; empty leaves the host standard as
// it is.
func NewInstance(env Env, recipe *Recipe, sel catalog.Selection, standard string) *Instance {
	if recipe.NormalizeSize != nil {
		sel.Size = recipe.NormalizeSize(sel.Size)
	}

	name := recipe.Suite + "-" + sel.Benchmark + "-" + sel.Size

	logger := env.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	var cmaker host.CMaker
	if env.NewCMaker != nil {
		cmaker = env.NewCMaker(name)
	} else {
		cmaker = &LibList{}
	}
	cmaker.AddLibs(recipe.Libs...)

	return &Instance{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		sel:          sel,
		standard:     standard,
		recipe:       recipe,
		env:          env,
		logger:       logger.With("instance", name),
		cmaker:       cmaker,
	}
}

// Name returns "<suite>-<benchmark>-<size>".
func (i *Instance) Name() string { return i.name }

// Suite returns the suite name of the recipe.
func (i *Instance) Suite() string { return i.recipe.Suite }

// Selection returns the benchmark and the normalized size.
func (i *Instance) Selection() catalog.Selection { return i.sel }

// Standard returns the language standard the prologue applies.
func (i *Instance) Standard() string { return i.standard }

// State returns the current lifecycle state.
func (i *Instance) State() State { return i.state }

// CMaker returns the build settings of the instance.
func (i *Instance) CMaker() host.CMaker { return i.cmaker }

// Executable returns the executable set by the build step, if any.
func (i *Instance) Executable() host.Executable { return i.exe }

// SetExecutable associates the build output and the executor that runs it.
// Nil values, including typed nil pointers, leave the instance without one.
func (i *Instance) SetExecutable(exe host.Executable, executor host.Executor) {
	i.exe, i.executor = nil, nil
	if !isNil(exe) {
		i.exe = exe
	}
	if !isNil(executor) {
		i.executor = executor
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Prologue snapshots the host standard and flags and applies the ones this
// benchmark needs.
func (i *Instance) Prologue() error {
	return i.phase(PhasePrologue, Created, PrologueApplied, i.prologue)
}

func (i *Instance) prologue() error {
	cfg := i.env.Config

	i.snap.standard = cfg.Standard()
	i.snap.flags = cfg.Flags()
	i.snap.captured = true

	if i.standard != "" {
		if err := cfg.SetStandard(i.standard); err != nil {
			return errors.Wrapf(err, "failed to set standard %q", i.standard)
		}
	}

	if i.recipe.Flags != nil {
		if fragment := i.recipe.Flags(i.sel); fragment != "" {
			if err := cfg.SetFlags(i.snap.flags + " " + fragment); err != nil {
				return errors.Wrap(err, "failed to set flags")
			}
		}
	}

	return nil
}

// Load isolates the host AST and registers the benchmark sources with it.
func (i *Instance) Load() error {
	return i.phase(PhaseLoad, PrologueApplied, CodeLoaded, i.load)
}

func (i *Instance) load() error {
	files, err := i.recipe.Sources.Select(i.env.Resources, i.sel)
	if err != nil {
		return errors.Wrap(err, "failed to select sources")
	}

	ws := i.env.Workspace
	if err := ws.PushAST(); err != nil {
		return errors.Wrap(err, "failed to push AST")
	}
	i.snap.pushed = true

	if err := ws.RemoveChildren(); err != nil {
		return errors.Wrap(err, "failed to clear AST")
	}

	for _, f := range files {
		if err := ws.AddFile(f); err != nil {
			return errors.Wrapf(err, "failed to add %s", f.Name)
		}
	}

	if err := ws.Rebuild(); err != nil {
		return errors.Wrap(err, "failed to rebuild AST")
	}

	if i.recipe.LoadData != nil {
		if err := i.stage(i.recipe.LoadData(i.sel)); err != nil {
			return err
		}
	}

	i.logger.Debug("code loaded", "files", len(files))

	return nil
}

// Execute runs the executable set by SetExecutable and returns the executor
// for inspection. The exit status is not interpreted.
func (i *Instance) Execute() (host.Executor, error) {
	err := i.phase(PhaseExecute, CodeLoaded, Executed, i.execute)
	if err != nil {
		return nil, err
	}
	return i.executor, nil
}

func (i *Instance) execute() error {
	if i.exe == nil || i.executor == nil {
		return &NoExecutableError{Instance: i.name}
	}

	var inv Invocation
	if i.recipe.Invoke != nil {
		var err error
		inv, err = i.recipe.Invoke(i.sel, i.env)
		if err != nil {
			return errors.Wrap(err, "failed to prepare invocation")
		}
	}

	if err := i.stage(inv.Data); err != nil {
		return err
	}

	i.logger.Debug("executing", "path", i.exe.Path(), "args", inv.Args)

	if err := i.executor.Execute(i.exe.Path(), inv.Args...); err != nil {
		return errors.Wrap(err, "execution failed")
	}

	return nil
}

func (i *Instance) stage(stages []Stage) error {
	res := i.env.Resources
	wd := i.env.WorkDir

	for _, s := range stages {
		if s.Folder {
			if !res.IsFolder(s.Source) {
				return errors.Errorf("data folder %q not found", s.Source)
			}
			src, err := res.File(s.Source)
			if err != nil {
				return err
			}
			if _, err := wd.CopyFolder(src.Path, s.target()); err != nil {
				return errors.Wrapf(err, "failed to copy folder %s", s.Source)
			}
		} else {
			src, err := res.File(s.Source)
			if err != nil {
				return err
			}
			if _, err := wd.CopyFile(src, s.target()); err != nil {
				return errors.Wrapf(err, "failed to copy %s", s.Source)
			}
		}

		i.snap.staged = append(i.snap.staged, s)
	}

	return nil
}

// Close restores the host standard and flags, pops the AST and removes the
// work-dir artifacts of the instance. It can be called from any state and
// more than once. Cleanup problems are logged, never returned.
func (i *Instance) Close() {
	if i.state == Closed {
		return
	}

	from := i.state
	start := time.Now()
	i.invoke(HookPosPhaseStart, PhaseEvent{Instance: i, Phase: PhaseClose, From: from, To: Closed})

	i.restore()
	i.cleanup()

	i.snap = snapshot{}
	i.state = Closed

	i.invoke(HookPosPhaseEnd, PhaseEvent{
		Instance: i,
		Phase:    PhaseClose,
		From:     from,
		To:       Closed,
		Duration: time.Since(start),
	})
}

func (i *Instance) restore() {
	if i.snap.captured {
		cfg := i.env.Config
		if err := cfg.SetStandard(i.snap.standard); err != nil {
			i.logger.Warn("failed to restore standard", "standard", i.snap.standard, "error", err)
		}
		if err := cfg.SetFlags(i.snap.flags); err != nil {
			i.logger.Warn("failed to restore flags", "flags", i.snap.flags, "error", err)
		}
	}

	if i.snap.pushed {
		if err := i.env.Workspace.PopAST(); err != nil {
			i.logger.Warn("failed to pop AST", "error", err)
		}
	}
}

func (i *Instance) cleanup() {
	wd := i.env.WorkDir
	if wd == nil {
		return
	}

	var c Cleanup
	if i.recipe.Cleanup != nil {
		c = i.recipe.Cleanup(i.sel)
	}

	files := c.Files
	folders := c.Folders
	for _, s := range i.snap.staged {
		if s.Folder {
			folders = append(folders, s.target())
		} else {
			files = append(files, s.target())
		}
	}

	if len(c.Extensions) > 0 {
		names, err := wd.List()
		if err != nil {
			i.logger.Warn("failed to list work dir", "error", err)
		}
		for _, name := range names {
			if hasSuffix(name, c.Extensions) {
				files = append(files, name)
			}
		}
	}

	for _, name := range files {
		if !wd.Exists(name) {
			continue
		}
		if err := wd.Delete(name); err != nil {
			i.logger.Warn("failed to delete file", "file", name, "error", err)
		}
	}

	for _, name := range folders {
		if !wd.Exists(name) {
			continue
		}
		if err := wd.DeleteFolder(name); err != nil {
			i.logger.Warn("failed to delete folder", "folder", name, "error", err)
		}
	}
}

// phase runs fn if the instance is in state from and moves it to state to
// on success. A failed phase leaves only Close callable.
func (i *Instance) phase(p Phase, from, to State, fn func() error) error {
	if i.state != from || i.failed {
		return &InvalidLifecycleStateError{
			Instance: i.name,
			Phase:    p,
			State:    i.state,
			Failed:   i.failed,
		}
	}

	start := time.Now()
	i.invoke(HookPosPhaseStart, PhaseEvent{Instance: i, Phase: p, From: from, To: to})

	err := fn()
	if err != nil {
		i.failed = true
		i.logger.Error("phase failed", "phase", p, "error", err)
	} else {
		i.state = to
	}

	i.invoke(HookPosPhaseEnd, PhaseEvent{
		Instance: i,
		Phase:    p,
		From:     from,
		To:       i.state,
		Err:      err,
		Duration: time.Since(start),
	})

	return err
}

func (i *Instance) invoke(pos *sim.HookPos, e PhaseEvent) {
	if i.NumHooks() == 0 {
		return
	}

	i.InvokeHook(sim.HookCtx{
		Domain: i,
		Pos:    pos,
		Item:   i.sel,
		Detail: e,
	})
}
