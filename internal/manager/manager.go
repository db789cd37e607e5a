// Package manager discovers, boots, and routes calls to tool providers.
// Providers come from the merged configuration; each is brought online
// concurrently and its declared tools are namespaced into one flat tool
// map shared with the model.
package manager

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/vaayne/toolman/internal/client"
	"github.com/vaayne/toolman/internal/config"
	"github.com/vaayne/toolman/internal/naming"
	"github.com/vaayne/toolman/internal/tools"
)

const (
	// initConcurrency caps how many provider clients start at once.
	initConcurrency = 10
	// specConcurrency caps how many tool spec fetches run at once.
	specConcurrency = 20
)

// RemoteClient is the view of a booted provider the manager needs: spec
// discovery and tool invocation.
type RemoteClient interface {
	tools.Caller
	GetToolSpec(ctx context.Context) ([]tools.ToolSpec, error)
}

// StartableClient is an unstarted provider client. Construction must be
// cheap and infallible; all failures surface from Start.
type StartableClient interface {
	RemoteClient
	Start(ctx context.Context) error
}

// BuildClientFunc constructs an unstarted client for one provider.
type BuildClientFunc func(name string, cfg config.ServerConfig, logger *zap.Logger) StartableClient

// Manager owns the booted provider clients and routes tool invocations to
// them. The client map is built once during New and is read-only
// afterwards, so lookups need no synchronization.
type Manager struct {
	clients map[string]RemoteClient
	logger  *zap.Logger
}

// New merges nothing and boots everything: it takes the already-merged
// configuration, brings every enabled provider online concurrently (capped
// at initConcurrency), and renders live progress to out. Individual
// provider failures are reported to out and logged but never fail the
// batch.
func New(ctx context.Context, cfg *config.Config, out io.Writer, logger *zap.Logger) (*Manager, error) {
	return NewWithBuilder(ctx, cfg, out, logger, func(name string, sc config.ServerConfig, l *zap.Logger) StartableClient {
		return client.New(name, sc, l)
	})
}

// NewWithBuilder is New with a custom client constructor. Tests use it to
// boot fake providers.
func NewWithBuilder(ctx context.Context, cfg *config.Config, out io.Writer, logger *zap.Logger, build BuildClientFunc) (*Manager, error) {
	type preInit struct {
		name   string
		client StartableClient
	}

	// The hasher backing the sanitizer's empty-name fallback is shared
	// across the whole pass, so fallback values depend on insertion order.
	// Downstream collision handling tolerates the duplicates this can
	// produce.
	hasher := fnv.New64a()
	pre := make([]preInit, 0, len(cfg.MCPServers))
	for rawName, serverCfg := range cfg.MCPServers {
		if !serverCfg.IsEnabled() {
			logger.Info("Skipping disabled server", zap.String("server", rawName))
			continue
		}
		name := naming.NormalizeServerName(rawName, hasher)
		pre = append(pre, preInit{name: name, client: build(name, serverCfg, logger)})
	}

	// Buffered for every signal we could ever send, so a display that has
	// already exited never blocks a boot.
	msgs := make(chan loadingMsg, 2*len(pre))
	displayDone := newDisplay(out).run(msgs)

	type initResult struct {
		name   string
		client StartableClient
		err    error
	}
	results := make([]initResult, len(pre))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(initConcurrency, len(pre)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p := pre[i]
				send(msgs, loadingMsg{kind: msgAdd, name: p.name})
				err := p.client.Start(ctx)
				send(msgs, loadingMsg{kind: msgRemove, name: p.name})
				results[i] = initResult{name: p.name, client: p.client, err: err}
			}
		}()
	}
	for i := range pre {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	close(msgs)
	if err := <-displayDone; err != nil {
		logger.Error("Loading display task exited unsuccessfully", zap.Error(err))
	}

	clients := make(map[string]RemoteClient, len(results))
	for _, res := range results {
		if res.err != nil {
			color.New(color.FgRed).Fprint(out, "Error")
			fmt.Fprint(out, ": Init for MCP server ")
			color.New(color.FgGreen).Fprint(out, res.name)
			fmt.Fprintf(out, " has failed: %v\n", res.err)
			logger.Error("Error initializing mcp client",
				zap.String("server", res.name),
				zap.Error(res.err))
			continue
		}

		// Collision resolution by displacement: insert, and as long as the
		// slot was occupied, take the dislodged client, append "1" to its
		// name, and retry. Which client keeps the unsuffixed name depends
		// on completion order.
		name := res.name
		c := RemoteClient(res.client)
		for {
			prev, occupied := clients[name]
			clients[name] = c
			if !occupied {
				break
			}
			name += "1"
			c = prev
		}
	}

	return &Manager{clients: clients, logger: logger}, nil
}

// send delivers a progress signal without ever blocking the boot path.
func send(ch chan<- loadingMsg, m loadingMsg) {
	select {
	case ch <- m:
	default:
	}
}

// LoadTools aggregates the builtin tool catalog with every booted
// provider's declared tools. Remote tool names are rewritten to
// {provider}___{name}; a provider whose spec fetch fails is reported to out
// and contributes nothing.
func (m *Manager) LoadTools(ctx context.Context, out io.Writer) (map[string]tools.ToolSpec, error) {
	specs, err := tools.BuiltinToolIndex()
	if err != nil {
		return nil, err
	}

	type fetchTask struct {
		name   string
		client RemoteClient
	}
	type fetchResult struct {
		name  string
		specs []tools.ToolSpec
		err   error
	}

	tasks := make([]fetchTask, 0, len(m.clients))
	for name, c := range m.clients {
		tasks = append(tasks, fetchTask{name: name, client: c})
	}
	results := make([]fetchResult, len(tasks))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(specConcurrency, len(tasks)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				t := tasks[i]
				list, err := t.client.GetToolSpec(ctx)
				results[i] = fetchResult{name: t.name, specs: list, err: err}
			}
		}()
	}
	for i := range tasks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, res := range results {
		if res.err != nil {
			color.New(color.FgRed).Fprint(out, "Error")
			fmt.Fprint(out, ": Failed to obtain tool specs for ")
			color.New(color.FgGreen).Fprint(out, res.name)
			fmt.Fprintf(out, ": %v\n", res.err)
			m.logger.Error("Error obtaining tool spec",
				zap.String("server", res.name),
				zap.Error(res.err))
			continue
		}
		// Namespacing avoids naming conflicts across providers and tells
		// the router which provider to call the tool on.
		for _, spec := range res.specs {
			spec.Name = res.name + tools.NamespaceDelimiter + spec.Name
			specs[spec.Name] = spec
		}
	}

	return specs, nil
}

// Route maps an incoming invocation to either a typed builtin tool or a
// RemoteCall against a booted provider. Failures are returned as
// error-status Results for the model, never as Go errors.
func (m *Manager) Route(tu tools.ToolUse) (tools.Tool, *tools.Result) {
	if t, isBuiltin, err := tools.ParseBuiltin(tu.Name, tu.Args); isBuiltin {
		if err != nil {
			return nil, tools.ErrorResult(tu.ID, fmt.Sprintf(
				"Failed to validate tool parameters: %v. The model has either suggested tool parameters which are incompatible with the existing tools, or has suggested one or more tool that does not exist in the list of known tools.", err))
		}
		return t, nil
	}

	providerName, toolName, ok := tools.SplitNamespaced(tu.Name)
	if !ok {
		return nil, tools.ErrorResult(tu.ID, fmt.Sprintf("The tool, %q is supplied with incorrect name", tu.Name))
	}

	c, ok := m.clients[providerName]
	if !ok {
		return nil, tools.ErrorResult(tu.ID, fmt.Sprintf("The tool, %q is not supported by the client", providerName))
	}

	// The params field expected by MCP is {name, arguments}, where name is
	// the un-namespaced tool name and arguments is the invocation payload.
	return &tools.RemoteCall{
		Client: c,
		Name:   toolName,
		Method: tools.MethodToolsCall,
		Params: &mcp.CallToolParams{
			Name:      toolName,
			Arguments: tu.Args,
		},
	}, nil
}

// ClientNames returns the names the booted clients ended up under, after
// collision resolution.
func (m *Manager) ClientNames() []string {
	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	return names
}

// Client returns the booted client registered under name.
func (m *Manager) Client(name string) (RemoteClient, bool) {
	c, ok := m.clients[name]
	return c, ok
}

// Close shuts down every booted client that supports it.
func (m *Manager) Close() {
	for name, c := range m.clients {
		closer, ok := c.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			m.logger.Warn("Failed to close client",
				zap.String("server", name),
				zap.Error(err))
		}
	}
}
