// Package mcp implements a Model Context Protocol server exposing the records
// company operations as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/recordstore/internal/catalog"
	"github.com/Sumatoshi-tech/recordstore/pkg/observability"
	"github.com/Sumatoshi-tech/recordstore/pkg/version"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "recordstore"

	// toolCount is the expected number of registered tools.
	toolCount = 10
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional RED metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.REDMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer

	// CompanyOptions configure the company served by the tools.
	CompanyOptions []catalog.Option
}

// Server wraps the MCP SDK server around a single records company.
type Server struct {
	inner   *mcpsdk.Server
	tools   []string
	metrics *observability.REDMetrics
	tracer  trace.Tracer

	mu      sync.Mutex
	company *catalog.Company
}

// NewServer creates a new MCP server with all catalog tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	companyOpts := deps.CompanyOptions

	if deps.Logger != nil {
		opts.Logger = deps.Logger
		companyOpts = append([]catalog.Option{catalog.WithLogger(deps.Logger)}, companyOpts...)
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		opts,
	)

	srv := &Server{
		inner:   inner,
		tools:   make([]string, 0, toolCount),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
		company: catalog.New(companyOpts...),
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTools adds all catalog tools to the server.
func (s *Server) registerTools() {
	addTool(s, ToolNameNewMonth, newMonthDescription, s.handleNewMonth)
	addTool(s, ToolNameAddCustomer, addCustomerDescription, s.handleAddCustomer)
	addTool(s, ToolNameGetPhone, getPhoneDescription, s.handleGetPhone)
	addTool(s, ToolNameMakeMember, makeMemberDescription, s.handleMakeMember)
	addTool(s, ToolNameIsMember, isMemberDescription, s.handleIsMember)
	addTool(s, ToolNameBuyRecord, buyRecordDescription, s.handleBuyRecord)
	addTool(s, ToolNameAddPrize, addPrizeDescription, s.handleAddPrize)
	addTool(s, ToolNameGetExpenses, getExpensesDescription, s.handleGetExpenses)
	addTool(s, ToolNamePutOnTop, putOnTopDescription, s.handlePutOnTop)
	addTool(s, ToolNameGetPlace, getPlaceDescription, s.handleGetPlace)
}

// toolHandler is the typed handler signature shared by every tool.
type toolHandler[Input any] = func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error)

func addTool[Input any](s *Server, name, description string, handler toolHandler[Input]) {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        name,
		Description: description,
	}, withMetrics(s.metrics, name, withTracing(s.tracer, name, handler)))

	s.tools = append(s.tools, name)
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps an MCP tool handler to create an OTel span per invocation
// and include trace_id in the response content when sampled.
func withTracing[Input any](tracer trace.Tracer, toolName string, handler toolHandler[Input]) toolHandler[Input] {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		if result != nil {
			span.SetAttributes(attribute.Bool("mcp.is_error", result.IsError))
		}

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics wraps an MCP tool handler to record RED metrics per invocation.
func withMetrics[Input any](metrics *observability.REDMetrics, toolName string, handler toolHandler[Input]) toolHandler[Input] {
	if metrics == nil {
		return handler
	}

	op := mcpSpanPrefix + toolName

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		decInflight := metrics.TrackInflight(ctx, op)
		defer decInflight()

		result, output, err := handler(ctx, req, input)

		status := observability.StatusOK
		if err != nil || (result != nil && result.IsError) {
			status = observability.StatusError
		}

		metrics.RecordRequest(ctx, op, status, time.Since(start))

		return result, output, err
	}
}

// call runs fn against the company under the server lock and converts its
// outcome into a tool result.
func (s *Server) call(fn func(c *catalog.Company) (any, error)) (*mcpsdk.CallToolResult, ToolOutput, error) {
	s.mu.Lock()
	value, err := fn(s.company)
	s.mu.Unlock()

	if err != nil {
		return errorResult(err)
	}

	return jsonResult(value)
}

// Tool description constants.
const (
	newMonthDescription = "Start a new month with the given per-record stock heights. " +
		"Clears member expenses and prizes, resets purchase counts and separates all record columns."
	addCustomerDescription = "Register a customer with an id and a phone number."
	getPhoneDescription    = "Return the phone number of a customer."
	makeMemberDescription  = "Enroll a customer in the club. New members start with no expenses."
	isMemberDescription    = "Report whether a customer is a club member."
	buyRecordDescription   = "Sell one copy of a record to a customer. Members pay the base price " +
		"plus the number of earlier sales of that record this month."
	addPrizeDescription    = "Credit an amount to every member whose id lies in the half-open range [lo, hi)."
	getExpensesDescription = "Return a member's expenses for the month, net of prizes."
	putOnTopDescription    = "Stack the column holding record r1 on top of the column holding record r2."
	getPlaceDescription    = "Return the column of a record and its height from the bottom of that column."
)
