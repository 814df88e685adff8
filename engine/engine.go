package engine

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/function-runtime/abi"
	"github.com/wippyai/function-runtime/errors"
)

// Engine wraps a wazero runtime. It is safe for concurrent use and is
// reused across functions and invocations.
type Engine struct {
	runtime wazero.Runtime

	hostMu         sync.Mutex
	hostRegistered map[string]bool
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32
}

// New creates an engine with default configuration.
func New(ctx context.Context) (*Engine, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)

	return &Engine{
		runtime:        runtime,
		hostRegistered: make(map[string]bool),
	}, nil
}

// Close releases the runtime and every compiled function.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// LoadFunction compiles a module and prepares it for invocation. The
// protocol revision is read off the module's imports: a function imports
// exactly one of the two revision namespaces.
func (e *Engine) LoadFunction(ctx context.Context, wasmBytes []byte) (*Function, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}

	revision, err := detectRevision(compiled)
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, err
	}

	if err := e.ensureHostModule(ctx, revision); err != nil {
		_ = compiled.Close(ctx)
		return nil, err
	}

	Logger().Debug("function loaded",
		zap.Int("revision", revision.number()),
		zap.Int("size", len(wasmBytes)))

	return &Function{engine: e, compiled: compiled, revision: revision}, nil
}

// revision selects one of the two wire namespaces.
type revision uint8

const (
	revisionV1 revision = 1
	revisionV2 revision = 2
)

func (r revision) namespace() string {
	if r == revisionV1 {
		return abi.NamespaceV1
	}
	return abi.NamespaceV2
}

func (r revision) number() int {
	return int(r)
}

func detectRevision(compiled wazero.CompiledModule) (revision, error) {
	var sawV1, sawV2 bool
	var unknown []string

	for _, fn := range compiled.ImportedFunctions() {
		moduleName, name, _ := fn.Import()
		switch moduleName {
		case abi.NamespaceV1:
			sawV1 = true
			if !knownImports[name] && name != abi.FuncContextNew {
				unknown = append(unknown, moduleName+"#"+name)
			}
		case abi.NamespaceV2:
			sawV2 = true
			if !knownImports[name] {
				unknown = append(unknown, moduleName+"#"+name)
			}
		}
	}

	switch {
	case sawV1 && sawV2:
		return 0, errors.InvalidInput(errors.PhaseLoad, "module imports both protocol revisions")
	case !sawV1 && !sawV2:
		return 0, errors.InvalidInput(errors.PhaseLoad, "module imports no protocol revision")
	case len(unknown) > 0:
		return 0, errors.NewMissingImportsError(unknown)
	case sawV1:
		return revisionV1, nil
	default:
		return revisionV2, nil
	}
}

var knownImports = map[string]bool{
	abi.FuncInputGet:                 true,
	abi.FuncInputGetValLen:           true,
	abi.FuncInputReadUTF8Str:         true,
	abi.FuncInputGetObjProp:          true,
	abi.FuncInputGetInternedObjProp:  true,
	abi.FuncInputGetAtIndex:          true,
	abi.FuncInputGetObjKeyAtIndex:    true,
	abi.FuncOutputNewBool:            true,
	abi.FuncOutputNewNull:            true,
	abi.FuncOutputNewI32:             true,
	abi.FuncOutputNewF64:             true,
	abi.FuncOutputNewUTF8Str:         true,
	abi.FuncOutputNewInternedUTF8Str: true,
	abi.FuncOutputNewObject:          true,
	abi.FuncOutputFinishObject:       true,
	abi.FuncOutputNewArray:           true,
	abi.FuncOutputFinishArray:        true,
	abi.FuncOutputFinalize:           true,
	abi.FuncInternUTF8Str:            true,
	abi.FuncLogNewUTF8Str:            true,
}
