// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes journal tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/daybook/internal/dates"
	"github.com/starford/daybook/internal/hints"
	"github.com/starford/daybook/internal/index"
	"github.com/starford/daybook/internal/journal"
	"github.com/starford/daybook/internal/parser"
	"github.com/starford/daybook/internal/session"
)

const formatURI = "daybook://format"

// Server wraps the MCP server with journal tools. Tool calls share one
// session and are serialized.
type Server struct {
	mcp *server.MCPServer
	db  *index.DB

	mu   sync.Mutex
	sess *session.Session
}

// New creates a new MCP server with all journal tools registered. db may be
// nil, in which case search_entries is not offered.
func New(sess *session.Session, db *index.DB) *Server {
	s := &Server{sess: sess, db: db}

	s.mcp = server.NewMCPServer(
		"Daybook",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("day_entries",
		mcp.WithDescription("List the entries written on a day, followed by entries from other days that are due on it."),
		mcp.WithString("date", mcp.Description("Day to show: YYYY/MM/DD, MM/DD, today, tomorrow, a weekday or dN (default today)")),
	), s.dayEntries)

	s.mcp.AddTool(mcp.NewTool("filter_entries",
		mcp.WithDescription("Run a filter query over the whole journal. Read the format contract for the query syntax."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Filter query, e.g. \"!tasks #work @before:01/31\"")),
	), s.filterEntries)

	s.mcp.AddTool(mcp.NewTool("later_entries",
		mcp.WithDescription("List entries stored on other days whose @date places them on the given day."),
		mcp.WithString("date", mcp.Description("Target day (default today)")),
	), s.laterEntries)

	s.mcp.AddTool(mcp.NewTool("add_entry",
		mcp.WithDescription("Add an entry to a day. Relative @dates are rewritten to absolute ones and #1..#0 expand to favorite tags."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Entry text without the marker")),
		mcp.WithString("type", mcp.Description("task, done, note or event (default task)")),
		mcp.WithString("date", mcp.Description("Day to add to (default today)")),
	), s.addEntry)

	s.mcp.AddTool(mcp.NewTool("toggle_entry",
		mcp.WithDescription("Flip completion of a task, addressed by its day and entry index from day_entries."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Entry index within the day, starting at 0")),
		mcp.WithString("date", mcp.Description("Day holding the task (default today)")),
	), s.toggleEntry)

	s.mcp.AddTool(mcp.NewTool("rename_tag",
		mcp.WithDescription("Rename a tag everywhere in the journal. Only exact tag matches change."),
		mcp.WithString("old", mcp.Required(), mcp.Description("Tag to rename, without #")),
		mcp.WithString("new", mcp.Required(), mcp.Description("New tag name, without #")),
	), s.renameTag)

	s.mcp.AddTool(mcp.NewTool("delete_tag",
		mcp.WithDescription("Remove a tag everywhere in the journal. Entries left empty are removed."),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag to delete, without #")),
	), s.deleteTag)

	s.mcp.AddTool(mcp.NewTool("complete_input",
		mcp.WithDescription("Return completion hints for partial input."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Text typed so far")),
		mcp.WithString("mode", mcp.Description("command, filter or entry (default filter)")),
	), s.completeInput)

	s.mcp.AddTool(mcp.NewTool("get_journal_format",
		mcp.WithDescription("Returns the journal format contract. "+
			"Call this before adding entries or writing filter queries."),
	), s.getJournalFormat)

	if db != nil {
		s.mcp.AddTool(mcp.NewTool("search_entries",
			mcp.WithDescription("Full-text search through entry content."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		), s.searchEntries)
	}

	// Resource: journal format contract.
	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Journal Format Contract",
			mcp.WithResourceDescription("Journal file format, entry markers, tags, dates and filter syntax."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// entryDTO is the JSON shape of an entry.
type entryDTO struct {
	Index      *int   `json:"index,omitempty"`
	SourceDate string `json:"source_date,omitempty"`
	LineIndex  *int   `json:"line_index,omitempty"`
	Type       string   `json:"type"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags,omitempty"`
	Dates      []string `json:"dates,omitempty"`
}

func newEntryDTO(t journal.EntryType, content string) entryDTO {
	tokens := parser.Parse(content)
	return entryDTO{Type: t.String(), Content: content, Tags: tokens.Tags, Dates: tokens.Dates}
}

func fromCrossDay(entries []journal.CrossDayEntry) []entryDTO {
	out := make([]entryDTO, len(entries))
	for i, e := range entries {
		line := e.LineIndex
		out[i] = newEntryDTO(e.Type, e.Content)
		out[i].SourceDate = dates.FormatDay(e.SourceDate)
		out[i].LineIndex = &line
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// gotoArg opens the day named by the optional date argument.
func (s *Server) gotoArg(req mcp.CallToolRequest) error {
	expr := req.GetString("date", "today")
	date, ok := dates.Resolve(expr, s.sess.Now(), dates.ContextInterface)
	if !ok {
		return fmt.Errorf("invalid date: %q", expr)
	}
	return s.sess.Goto(date)
}

func (s *Server) dayEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gotoArg(req); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries := s.sess.Entries()
	day := make([]entryDTO, len(entries))
	for i, e := range entries {
		idx := i
		day[i] = newEntryDTO(e.Type, e.Content)
		day[i].Index = &idx
	}
	laterEntries, err := s.sess.LaterEntries()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := s.sess.Title()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(struct {
		Journal string     `json:"journal,omitempty"`
		Date    string     `json:"date"`
		Entries []entryDTO `json:"entries"`
		Later   []entryDTO `json:"later"`
	}{title, dates.FormatDay(s.sess.Date()), day, fromCrossDay(laterEntries)})
}

func (s *Server) filterEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := s.sess.Filter(query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(struct {
		Query         string     `json:"query"`
		Entries       []entryDTO `json:"entries"`
		InvalidTokens []string   `json:"invalid_tokens,omitempty"`
	}{view.Spec.Query, fromCrossDay(view.Entries), view.Spec.InvalidTokens})
}

func (s *Server) laterEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gotoArg(req); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, err := s.sess.LaterEntries()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(fromCrossDay(entries))
}

func (s *Server) addEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	typ, ok := journal.ParseEntryType(req.GetString("type", "task"))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown entry type: %q", req.GetString("type", ""))), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gotoArg(req); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	idx, err := s.sess.AddEntry(journal.Entry{Type: typ, Content: content}, -1)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e := s.sess.Entries()[idx]
	return mcp.NewToolResultText(fmt.Sprintf("added to %s at %d: %s", dates.FormatDay(s.sess.Date()), idx, e.String())), nil
}

func (s *Server) toggleEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idx, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gotoArg(req); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.sess.ToggleEntry(idx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.sess.Entries()[idx].String()), nil
}

func (s *Server) renameTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	old, err := req.RequireString("old")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newName, err := req.RequireString("new")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.sess.RenameTag(old, newName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("renamed #%s to #%s in %d places", old, newName, n)), nil
}

func (s *Server) deleteTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.sess.DeleteTag(tag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted #%s from %d places", tag, n)), nil
}

func (s *Server) completeInput(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := req.RequireString("input")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, ok := hints.ParseMode(req.GetString("mode", "filter"))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown mode: %q", req.GetString("mode", ""))), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.sess.Hints(input, mode)
	completion, _ := h.FirstCompletion()
	return jsonResult(struct {
		Kind       string   `json:"kind"`
		Candidates []string `json:"candidates,omitempty"`
		Message    string   `json:"message,omitempty"`
		Completion string   `json:"completion,omitempty"`
	}{h.Kind.String(), candidates(h), message(h), completion})
}

func candidates(h hints.Context) []string {
	if h.Kind == hints.Negation && h.Inner != nil {
		return h.Inner.Candidates
	}
	return h.Candidates
}

func message(h hints.Context) string {
	if h.Kind == hints.Negation && h.Inner != nil {
		return h.Inner.Message
	}
	return h.Message
}

func (s *Server) searchEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	j := s.sess.Journal()
	if _, err := index.Sync(s.db, j, s.sess.Logger()); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(j.Path(), query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(fromCrossDay(results))
}

func (s *Server) getJournalFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(JournalFormatContract), nil
}

func (s *Server) readFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     JournalFormatContract,
		},
	}, nil
}
