package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/recordstore/internal/catalog"
)

// Tool name constants.
const (
	ToolNameNewMonth    = "recordstore_new_month"
	ToolNameAddCustomer = "recordstore_add_customer"
	ToolNameGetPhone    = "recordstore_get_phone"
	ToolNameMakeMember  = "recordstore_make_member"
	ToolNameIsMember    = "recordstore_is_member"
	ToolNameBuyRecord   = "recordstore_buy_record"
	ToolNameAddPrize    = "recordstore_add_prize"
	ToolNameGetExpenses = "recordstore_get_expenses"
	ToolNamePutOnTop    = "recordstore_put_on_top"
	ToolNameGetPlace    = "recordstore_get_place"
)

// Input types (auto-generate JSON schemas via struct tags).

// NewMonthInput is the input schema for recordstore_new_month.
type NewMonthInput struct {
	Stocks []int `json:"stocks" jsonschema:"stock height of each record; record ids are the indices"`
}

// AddCustomerInput is the input schema for recordstore_add_customer.
type AddCustomerInput struct {
	ID    int `json:"id"    jsonschema:"customer id"`
	Phone int `json:"phone" jsonschema:"customer phone number"`
}

// CustomerInput is the input schema for tools addressing one customer.
type CustomerInput struct {
	ID int `json:"id" jsonschema:"customer id"`
}

// BuyRecordInput is the input schema for recordstore_buy_record.
type BuyRecordInput struct {
	CustomerID int `json:"customer_id" jsonschema:"buying customer id"`
	RecordID   int `json:"record_id"   jsonschema:"record id"`
}

// AddPrizeInput is the input schema for recordstore_add_prize.
type AddPrizeInput struct {
	Lo     int     `json:"lo"     jsonschema:"first member id covered"`
	Hi     int     `json:"hi"     jsonschema:"first member id past the range"`
	Amount float64 `json:"amount" jsonschema:"positive prize per member"`
}

// PutOnTopInput is the input schema for recordstore_put_on_top.
type PutOnTopInput struct {
	R1 int `json:"r1" jsonschema:"record whose column is moved"`
	R2 int `json:"r2" jsonschema:"record whose column stays at the bottom"`
}

// RecordInput is the input schema for recordstore_get_place.
type RecordInput struct {
	Record int `json:"record" jsonschema:"record id"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result payloads.

type statusResult struct {
	Status string `json:"status"`
}

type phoneResult struct {
	statusResult

	ID    int `json:"id"`
	Phone int `json:"phone"`
}

type memberResult struct {
	statusResult

	ID     int  `json:"id"`
	Member bool `json:"member"`
}

type expensesResult struct {
	statusResult

	ID       int     `json:"id"`
	Expenses float64 `json:"expenses"`
}

type placeResult struct {
	statusResult

	Record int `json:"record"`
	Column int `json:"column"`
	Height int `json:"height"`
}

var success = statusResult{Status: catalog.StatusSuccess}

func (s *Server) handleNewMonth(_ context.Context, _ *mcpsdk.CallToolRequest, in NewMonthInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.call(func(c *catalog.Company) (any, error) {
		return success, c.NewMonth(in.Stocks)
	})
}

func (s *Server) handleAddCustomer(_ context.Context, _ *mcpsdk.CallToolRequest, in AddCustomerInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.call(func(c *catalog.Company) (any, error) {
		return success, c.AddCustomer(in.ID, in.Phone)
	})
}

func (s *Server) handleGetPhone(_ context.Context, _ *mcpsdk.CallToolRequest, in CustomerInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.call(func(c *catalog.Company) (any, error) {
		phone, err := c.Phone(in.ID)

		return phoneResult{statusResult: success, ID: in.ID, Phone: phone}, err
	})
}

func (s *Server) handleMakeMember(_ context.Context, _ *mcpsdk.CallToolRequest, in CustomerInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.call(func(c *catalog.Company) (any, error) {
		return success, c.MakeMember(in.ID)
	})
}

func (s *Server) handleIsMember(_ context.Context, _ *mcpsdk.CallToolRequest, in CustomerInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.call(func(c *catalog.Company) (any, error) {
		member, err := c.IsMember(in.ID)

		return memberResult{statusResult: success, ID: in.ID, Member: member}, err
	})
}

func (s *Server) handleBuyRecord(_ context.Context, _ *mcpsdk.CallToolRequest, in BuyRecordInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.call(func(c *catalog.Company) (any, error) {
		return success, c.BuyRecord(in.CustomerID, in.RecordID)
	})
}

func (s *Server) handleAddPrize(_ context.Context, _ *mcpsdk.CallToolRequest, in AddPrizeInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.call(func(c *catalog.Company) (any, error) {
		return success, c.AddPrize(in.Lo, in.Hi, in.Amount)
	})
}

func (s *Server) handleGetExpenses(_ context.Context, _ *mcpsdk.CallToolRequest, in CustomerInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.call(func(c *catalog.Company) (any, error) {
		total, err := c.Expenses(in.ID)

		return expensesResult{statusResult: success, ID: in.ID, Expenses: total}, err
	})
}

func (s *Server) handlePutOnTop(_ context.Context, _ *mcpsdk.CallToolRequest, in PutOnTopInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.call(func(c *catalog.Company) (any, error) {
		return success, c.PutOnTop(in.R1, in.R2)
	})
}

func (s *Server) handleGetPlace(_ context.Context, _ *mcpsdk.CallToolRequest, in RecordInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.call(func(c *catalog.Company) (any, error) {
		column, height, err := c.Place(in.Record)

		return placeResult{statusResult: success, Record: in.Record, Column: column, Height: height}, err
	})
}

// Result helpers.

// errorResult builds a CallToolResult with isError set. The text starts with
// the catalog status name.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: catalog.StatusOf(err) + ": " + err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("%w: encode result: %w", catalog.ErrFailure, err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
