package engine

import (
	"bytes"
	"context"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/function-runtime/errors"
	"github.com/wippyai/function-runtime/provider"
)

// Function is a compiled module bound to its protocol revision. It is
// reusable: every Invoke instantiates it fresh against a new provider
// context.
type Function struct {
	engine   *Engine
	compiled wazero.CompiledModule
	revision revision
}

// Result carries everything one invocation produced.
type Result struct {
	// Output is the finalized output as JSON.
	Output []byte
	// Logs are the lines the function emitted through the log call.
	Logs []string
	// Stderr is anything the guest wrote to its stderr stream.
	Stderr []byte
	// Duration covers instantiation through finalization.
	Duration time.Duration
}

// Revision reports the detected protocol revision, 1 or 2.
func (f *Function) Revision() int {
	return f.revision.number()
}

// Imports lists the module's imported functions as "namespace#name".
func (f *Function) Imports() []string {
	var out []string
	for _, fn := range f.compiled.ImportedFunctions() {
		moduleName, name, _ := fn.Import()
		out = append(out, moduleName+"#"+name)
	}
	return out
}

// Close releases the compiled module.
func (f *Function) Close(ctx context.Context) error {
	return f.compiled.Close(ctx)
}

// Invoke runs the function once over a JSON input payload.
func (f *Function) Invoke(ctx context.Context, input []byte) (*Result, error) {
	p, err := provider.NewContext(input)
	if err != nil {
		return nil, err
	}
	return f.invoke(ctx, p)
}

// InvokeMsgpack runs the function once over a msgpack input payload.
func (f *Function) InvokeMsgpack(ctx context.Context, input []byte) (*Result, error) {
	p, err := provider.NewContextFromMsgpack(input)
	if err != nil {
		return nil, err
	}
	return f.invoke(ctx, p)
}

func (f *Function) invoke(ctx context.Context, p *provider.Context) (*Result, error) {
	start := time.Now()
	invCtx := withProvider(ctx, p)

	var stderr bytes.Buffer
	cfg := wazero.NewModuleConfig().
		WithName(""). // anonymous, so concurrent instantiations never collide
		WithStderr(&stderr)

	mod, err := f.engine.runtime.InstantiateModule(invCtx, f.compiled, cfg)
	if err != nil {
		// a clean exit(0) surfaces as an ExitError from _start
		if exitErr, ok := err.(*sys.ExitError); !ok || exitErr.ExitCode() != 0 {
			return nil, errors.Wrap(errors.PhaseRun, errors.KindInstantiation, err, "run function")
		}
	}
	if mod != nil {
		defer mod.Close(ctx)
	}

	output, err := p.FinalizeJSON()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Output:   output,
		Logs:     p.Logs(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	Logger().Debug("function invoked",
		zap.Int("revision", f.revision.number()),
		zap.Int("output_bytes", len(res.Output)),
		zap.Int("log_lines", len(res.Logs)),
		zap.Duration("duration", res.Duration))

	return res, nil
}
