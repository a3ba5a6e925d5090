// ABOUTME: MCP server exposing the repquest tracker to assistants over stdio.
// ABOUTME: Completions are archived through the syncer when one is configured.
package mcp

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harperreed/repquest/internal/sync"
	"github.com/harperreed/repquest/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const instructions = `repquest tracks a rotating training split. Call get_today first; slots
are addressed by workout id, 1-based position, or lift name. Sets are logged
as weight and reps. complete_workout records history; finish_day advances
the split.`

// Options configure NewServer. The zero value serves without archiving.
type Options struct {
	Syncer  *sync.Syncer
	Logger  *log.Logger
	Version string
}

// Server wraps the MCP server with tracker access.
type Server struct {
	mcpServer *mcp.Server
	tracker   *tracker.Tracker
	syncer    *sync.Syncer
	logger    *log.Logger
}

// NewServer registers the repquest tools and resources over tr.
func NewServer(tr *tracker.Tracker, opts Options) (*Server, error) {
	if tr == nil {
		return nil, errors.New("mcp: nil tracker")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		mcpServer: mcp.NewServer(
			&mcp.Implementation{Name: "repquest", Version: version},
			&mcp.ServerOptions{Instructions: instructions},
		),
		tracker: tr,
		syncer:  opts.Syncer,
		logger:  logger,
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Serve runs the server on stdio until ctx is done or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// archive pushes the current snapshot and returns a note for the tool result.
// Failures are logged; the local state is already saved.
func (s *Server) archive(ctx context.Context) string {
	if s.syncer == nil {
		return ""
	}
	queued, err := s.syncer.Archive(ctx, s.tracker.Snapshot())
	switch {
	case err != nil:
		s.logger.Warn("archive failed", "err", err)
		return "archive failed"
	case queued:
		return "archive queued for sync"
	default:
		return "archived"
	}
}
