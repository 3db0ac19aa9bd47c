// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes library tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/andersmmg/novel-app/internal/library"
)

// Server wraps the MCP server with library tools.
type Server struct {
	mcp *server.MCPServer
	lib *library.Library
}

// New creates a new MCP server with all library tools registered.
func New(lib *library.Library) *Server {
	s := &Server{lib: lib}

	s.mcp = server.NewMCPServer(
		"NovelLibrary",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_stories",
		mcp.WithDescription("List every story in the library with its metadata and counters."),
	), s.listStories)

	s.mcp.AddTool(mcp.NewTool("read_chapter",
		mcp.WithDescription("Read the full text of one chapter, frontmatter included."),
		mcp.WithString("story", mcp.Required(), mcp.Description("Archive name of the story (e.g. novel.story)")),
		mcp.WithString("chapter", mcp.Required(), mcp.Description("Chapter file name (e.g. opening.md)")),
	), s.readChapter)

	s.mcp.AddTool(mcp.NewTool("story_stats",
		mcp.WithDescription("Return word, quote and paragraph counts for a story."),
		mcp.WithString("story", mcp.Required(), mcp.Description("Archive name of the story")),
	), s.storyStats)

	s.mcp.AddTool(mcp.NewTool("create_story",
		mcp.WithDescription("Create a new empty story in the library. "+
			"Chapters added later MUST follow the canonical archive format; read it first "+
			"via the get_story_contract tool or the novel://story-format resource."),
		mcp.WithString("title", mcp.Description("Story title (defaults to Untitled Story)")),
	), s.createStory)

	s.mcp.AddTool(mcp.NewTool("get_story_contract",
		mcp.WithDescription("Returns the canonical .story archive format contract."),
	), s.getStoryContract)

	// Resource: story archive format contract.
	s.mcp.AddResource(
		mcp.NewResource("novel://story-format", "Story Format Contract",
			mcp.WithResourceDescription("Canonical .story archive layout that all stories follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readStoryFormatResource,
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

func (s *Server) listStories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.lib.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readChapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	storyPath, err := req.RequireString("story")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	chapter, err := req.RequireString("chapter")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	st, err := s.lib.Load(storyPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", storyPath)), nil
	}
	chapterPath := chapter
	if !strings.HasPrefix(chapterPath, "chapters/") {
		chapterPath = "chapters/" + chapterPath
	}
	ch := st.ChapterByPath(chapterPath)
	if ch == nil {
		return mcp.NewToolResultError(fmt.Sprintf("chapter not found: %s", chapter)), nil
	}
	return mcp.NewToolResultText(ch.Content), nil
}

func (s *Server) storyStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	storyPath, err := req.RequireString("story")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st, err := s.lib.Load(storyPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", storyPath)), nil
	}
	paragraphs, _ := st.ParagraphCount(ctx)
	stats := map[string]int{
		"wordCount":      st.WordCount(),
		"quoteCount":     st.QuoteCount(),
		"paragraphCount": paragraphs,
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createStory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := ""
	if v, err := req.RequireString("title"); err == nil {
		title = v
	}
	st, err := s.lib.Create(title)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", st.Path)), nil
}

func (s *Server) getStoryContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(StoryFormatContract), nil
}

func (s *Server) readStoryFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "novel://story-format",
			MIMEType: "text/markdown",
			Text:     StoryFormatContract,
		},
	}, nil
}
