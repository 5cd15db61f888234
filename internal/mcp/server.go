// Package mcp exposes the Convive client to agents over the Model Context
// Protocol. The transition tool goes through the same confirmation gate as
// the interactive UI: the first call arms, a second call inside the expiry
// window executes.
package mcp

import (
	"context"
	"fmt"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/convive/convive/internal/config"
	"github.com/convive/convive/internal/confirm"
	"github.com/convive/convive/internal/history"
	"github.com/convive/convive/internal/model"
	"github.com/convive/convive/internal/notify"
	"github.com/convive/convive/internal/repo"
)

// Config holds MCP server configuration.
type Config struct {
	ConfigPath string
}

// Server wraps the MCP SDK server around the Convive client stack.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *repo.Client
	log       *history.Log
	nf        notify.Notifier

	mu    sync.Mutex
	cfg   *config.Config
	gates map[model.EventID]*gateEntry
}

// gateEntry pairs a gate with the receipt its last executed effect
// produced, so the handler can report it.
type gateEntry struct {
	gate        *confirm.Gate
	mu          sync.Mutex
	lastReceipt *repo.TransitionReceipt
}

// New creates an MCP server with loaded config, API client, and tools.
func New(c Config) (*Server, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}

	client, err := repo.New(cfg.BaseURL, cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	log, err := history.Open(cfg.HistoryLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open history log: %w", err)
	}

	var nf notify.Notifier
	if d := notify.NewDispatcher(cfg.Webhooks); d != nil {
		nf = d
	}

	s := &Server{
		client: client,
		log:    log,
		nf:     nf,
		cfg:    cfg,
		gates:  map[model.EventID]*gateEntry{},
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "convive",
			Version: repo.Version,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close closes the history log.
func (s *Server) Close() error {
	return s.log.Close()
}

// ApplyConfig swaps in a hot-reloaded config. Gates created afterwards use
// the new expiry; already-armed gates keep the window they promised.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	if d := notify.NewDispatcher(cfg.Webhooks); d != nil {
		s.nf = d
	} else {
		s.nf = nil
	}
	s.pruneIdle()
}

// pruneIdle drops gates holding no live confirmation state and no
// unreported receipt, so a long session does not accumulate one entry per
// event ever touched. Callers hold s.mu.
func (s *Server) pruneIdle() {
	for id, e := range s.gates {
		e.mu.Lock()
		pending := e.lastReceipt != nil
		e.mu.Unlock()
		if !pending && e.gate.Idle() {
			delete(s.gates, id)
		}
	}
}

// gateFor returns the gate owning confirmation state for one event,
// creating it on first use.
func (s *Server) gateFor(id model.EventID) *gateEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.gates[id]; ok {
		return e
	}
	s.pruneIdle()

	e := &gateEntry{}
	effects := map[model.ActionKey]confirm.Effect{}
	for _, key := range model.ActionKeys {
		key := key
		effects[key] = func(ctx context.Context, eventID model.EventID) error {
			receipt, err := s.client.PerformTransition(ctx, eventID, key)
			entry := history.Entry{
				EventID: string(eventID),
				Action:  string(key),
				Outcome: "success",
			}
			if err != nil {
				entry.Outcome = "failure"
				entry.Error = err.Error()
			} else {
				entry.ReceiptID = receipt.ID
				e.mu.Lock()
				e.lastReceipt = receipt
				e.mu.Unlock()
			}
			_ = s.log.Record(entry)
			return err
		}
	}

	opts := []confirm.GateOption{}
	if s.nf != nil {
		opts = append(opts, confirm.WithNotifier(s.nf))
	}
	e.gate = confirm.NewGate(id, s.cfg.ConfirmExpiry, effects, opts...)
	s.gates[id] = e
	return e
}

func (e *gateEntry) takeReceipt() *repo.TransitionReceipt {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.lastReceipt
	e.lastReceipt = nil
	return r
}

// registerTools adds all convive tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "convive_events",
		Description: "List Convive events for a tab (discover, attending, hosting), optionally filtered by status or search text.",
	}, s.handleEvents)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "convive_event",
		Description: "Fetch one Convive event with its items and claim counts.",
	}, s.handleEvent)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "convive_transition",
		Description: "Request an irreversible event transition (publish, cancel, complete, purge, restore). The first call arms the action; call again within the confirmation window to execute it.",
	}, s.handleTransition)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "convive_claim",
		Description: "Claim or release units of an event item. Negative counts release.",
	}, s.handleClaim)
}
