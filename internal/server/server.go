package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/dejo1307/symfonymcp/internal/candidates"
	"github.com/dejo1307/symfonymcp/internal/completion"
	"github.com/dejo1307/symfonymcp/internal/logger"
	"github.com/dejo1307/symfonymcp/internal/resolver"
	"github.com/dejo1307/symfonymcp/internal/source"
	"github.com/dejo1307/symfonymcp/internal/yamlpath"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// BundledSchemaURI is the resource serving the embedded reference XML.
const BundledSchemaURI = "symfony://schema/default"

// Server wraps the MCP server and connects it to the completion service.
type Server struct {
	mcp *mcp.Server
	svc *completion.Service
	log *zap.SugaredLogger
}

// New creates a new MCP server wired to the given service.
func New(svc *completion.Service) *Server {
	s := &Server{
		svc: svc,
		log: logger.ComponentLogger("server"),
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "symfonymcp",
		Version: Version,
	}, nil)

	s.registerResources()
	s.registerTools()
	return s
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// registerResources adds the bundled reference document.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         BundledSchemaURI,
		Name:        "Symfony configuration reference",
		Description: "Bundled XML reference used when a project has no .idea/symfony2-config.xml override",
		MIMEType:    "application/xml",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: string(source.Bundled()), MIMEType: "application/xml"},
			},
		}, nil
	})
}

// cursorArgs locate the configuration keys either directly or from a YAML
// buffer and cursor.
type cursorArgs struct {
	ProjectRoot string   `json:"project_root,omitempty" jsonschema:"Project directory searched for .idea/symfony2-config.xml. Defaults to the configured project root."`
	Path        []string `json:"path,omitempty" jsonschema:"YAML keys enclosing the cursor, root first, e.g. [doctrine orm connections default]"`
	YAML        string   `json:"yaml,omitempty" jsonschema:"YAML file content; used with line and column when path is empty"`
	Line        int      `json:"line,omitempty" jsonschema:"1-based cursor line in yaml"`
	Column      int      `json:"column,omitempty" jsonschema:"1-based cursor column in yaml"`
}

func (a cursorArgs) keys() []string {
	return keysAt(a.Path, a.YAML, a.Line, a.Column)
}

// completeArgs are cursorArgs plus the output format.
type completeArgs struct {
	ProjectRoot string   `json:"project_root,omitempty" jsonschema:"Project directory searched for .idea/symfony2-config.xml. Defaults to the configured project root."`
	Path        []string `json:"path,omitempty" jsonschema:"YAML keys enclosing the cursor, root first, e.g. [doctrine orm connections default]"`
	YAML        string   `json:"yaml,omitempty" jsonschema:"YAML file content; used with line and column when path is empty"`
	Line        int      `json:"line,omitempty" jsonschema:"1-based cursor line in yaml"`
	Column      int      `json:"column,omitempty" jsonschema:"1-based cursor column in yaml"`
	Format      string   `json:"format,omitempty" jsonschema:"markdown (default) or json"`
}

func (a completeArgs) keys() []string {
	return keysAt(a.Path, a.YAML, a.Line, a.Column)
}

// keysAt returns the explicit path or derives it from the YAML cursor.
func keysAt(path []string, content string, line, column int) []string {
	if len(path) > 0 {
		return path
	}
	if content == "" {
		return nil
	}
	return yamlpath.ParentKeys([]byte(content), line, column)
}

type sectionsArgs struct {
	ProjectRoot string `json:"project_root,omitempty" jsonschema:"Project directory searched for .idea/symfony2-config.xml"`
}

// registerTools adds the completion tools.
func (s *Server) registerTools() {
	// Tool: complete_config
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "complete_config",
		Description: "List Symfony configuration keys valid at a position in a YAML config file: options of the enclosing section and its nested sections. Prototype sections (user-named collections such as doctrine connections) are marked.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args completeArgs) (*mcp.CallToolResult, any, error) {
		path := args.keys()
		if len(path) == 0 {
			return errorResult("path is empty: give path, or yaml with line and column inside a section"), nil, nil
		}

		cands := s.svc.Complete(ctx, completion.Request{ProjectRoot: args.ProjectRoot, Path: path})

		text := candidates.Markdown(path, cands)
		if strings.EqualFold(args.Format, "json") {
			data, err := json.MarshalIndent(completeResult{Path: path, Candidates: cands}, "", "  ")
			if err != nil {
				return errorResult(fmt.Sprintf("failed to marshal candidates: %v", err)), nil, nil
			}
			text = string(data)
		}
		return textResult(text), nil, nil
	})

	// Tool: resolve_config_path
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "resolve_config_path",
		Description: "Explain how YAML configuration keys map onto the Symfony configuration reference: matched element per key, singular fallbacks and skipped prototype instance keys.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args cursorArgs) (*mcp.CallToolResult, any, error) {
		path := args.keys()
		res, src, err := s.svc.Resolve(ctx, completion.Request{ProjectRoot: args.ProjectRoot, Path: path})
		if err != nil {
			return errorResult(fmt.Sprintf("resolution failed: %v", err)), nil, nil
		}

		data, err := json.MarshalIndent(resolveResult{
			Source: src.String(),
			Path:   path,
			Node:   res.Node.Path(),
			Steps:  res.Steps,
		}, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("failed to marshal trace: %v", err)), nil, nil
		}
		return textResult(string(data)), nil, nil
	})

	// Tool: list_config_sections
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_config_sections",
		Description: "List the top-level configuration sections (bundles) known to the schema that applies to a project.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args sectionsArgs) (*mcp.CallToolResult, any, error) {
		doc, src, err := s.svc.Document(ctx, args.ProjectRoot)
		if err != nil {
			s.log.Warnw("schema unavailable", logger.FieldSource, src.String(), logger.FieldError, err)
			return errorResult("schema unavailable for this project"), nil, nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Schema: %s\n\n", src))
		for _, name := range doc.Sections() {
			sb.WriteString("- ")
			sb.WriteString(name)
			sb.WriteString("\n")
		}
		return textResult(sb.String()), nil, nil
	})
}

type completeResult struct {
	Path       []string               `json:"path"`
	Candidates []candidates.Candidate `json:"candidates"`
}

type resolveResult struct {
	Source string          `json:"source"`
	Path   []string        `json:"path"`
	Node   string          `json:"node"`
	Steps  []resolver.Step `json:"steps"`
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
