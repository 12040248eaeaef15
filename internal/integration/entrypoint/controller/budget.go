package controller

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/application/usecase/budget"
	"github.com/snowbudget/backend/internal/domain/entity"
	domainerror "github.com/snowbudget/backend/internal/domain/error"
	"github.com/snowbudget/backend/internal/integration/entrypoint/dto"
	"github.com/snowbudget/backend/internal/integration/entrypoint/middleware"
)

// LedgerFactory builds a fresh ledger as of the given instant. The budget is
// reloaded per request so file edits and cycle resets take effect immediately.
type LedgerFactory func(at time.Time) (*budget.Ledger, error)

// BudgetController handles every budget endpoint.
type BudgetController struct {
	newLedger   LedgerFactory
	notifier    *Notifier
	suggestions adapter.SuggestionService
	exporter    adapter.SpreadsheetExporter
	audit       adapter.ResetAuditRepository
}

// NewBudgetController creates a new budget controller instance. The
// suggestion service, exporter, and audit repository are optional.
func NewBudgetController(
	newLedger LedgerFactory,
	notifier *Notifier,
	suggestions adapter.SuggestionService,
	exporter adapter.SpreadsheetExporter,
	audit adapter.ResetAuditRepository,
) *BudgetController {
	return &BudgetController{
		newLedger:   newLedger,
		notifier:    notifier,
		suggestions: suggestions,
		exporter:    exporter,
		audit:       audit,
	}
}

// GetAll handles /get/all requests, returning every class with its history.
func (c *BudgetController) GetAll(ctx *gin.Context) {
	var req struct{ dto.RequestMeta }
	c.bindOptional(ctx, &req)

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("", dto.ToClassListResponse(ledger.All())))
}

// GetClass handles /get/class requests.
func (c *BudgetController) GetClass(ctx *gin.Context) {
	var req dto.GetClassRequest
	if !c.bind(ctx, &req) {
		return
	}
	if req.ClassID == "" {
		c.respond(ctx, req.RequestMeta, dto.Fail("Missing JSON fields."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	class, err := ledger.GetClass(req.ClassID)
	if err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("", dto.ToClassResponse(class)))
}

// GetTransaction handles /get/transaction requests.
func (c *BudgetController) GetTransaction(ctx *gin.Context) {
	var req dto.GetTransactionRequest
	if !c.bind(ctx, &req) {
		return
	}
	if req.TransactionID == "" {
		c.respond(ctx, req.RequestMeta, dto.Fail("Missing JSON fields."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	t, err := ledger.GetTransaction(req.TransactionID)
	if err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("", dto.ToTransactionResponse(t)))
}

// GetResets handles /get/resets requests, returning the cycle's reset anchors
// as epoch timestamps.
func (c *BudgetController) GetResets(ctx *gin.Context) {
	var req struct{ dto.RequestMeta }
	c.bindOptional(ctx, &req)

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}

	anchors := ledger.Anchors()
	stamps := make([]int64, len(anchors))
	for i, a := range anchors {
		stamps[i] = a.Unix()
	}
	c.respond(ctx, req.RequestMeta, dto.OK("", stamps))
}

// GetResetHistory handles /get/resets/history requests, returning the reset
// events recorded for the current period.
func (c *BudgetController) GetResetHistory(ctx *gin.Context) {
	var req struct{ dto.RequestMeta }
	c.bindOptional(ctx, &req)

	if c.audit == nil {
		c.respond(ctx, req.RequestMeta, dto.Fail("Reset history is not configured."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	events, err := c.audit.FindByPeriod(ctx.Request.Context(), ledger.PeriodKey())
	if err != nil {
		c.respond(ctx, req.RequestMeta, dto.Fail("Failed to read reset history."))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("", dto.ToResetEventListResponse(events)))
}

// GetSavings handles /get/savings requests.
func (c *BudgetController) GetSavings(ctx *gin.Context) {
	var req struct{ dto.RequestMeta }
	c.bindOptional(ctx, &req)

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("", dto.ToSavingsListResponse(ledger.Spec().Savings)))
}

// GetSummary handles /get/summary requests, returning the period's totals,
// surplus, and savings allocations.
func (c *BudgetController) GetSummary(ctx *gin.Context) {
	var req struct{ dto.RequestMeta }
	c.bindOptional(ctx, &req)

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("", dto.ToSummaryResponse(ledger.Summarize())))
}

// GetSpreadsheet handles /get/spreadsheet requests, exporting the budget to
// the configured spreadsheet.
func (c *BudgetController) GetSpreadsheet(ctx *gin.Context) {
	var req struct{ dto.RequestMeta }
	c.bindOptional(ctx, &req)

	if c.exporter == nil {
		c.respond(ctx, req.RequestMeta, dto.Fail("Spreadsheet export is not configured."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	record := ledger.ExportRecord()
	ref, err := c.exporter.Export(ctx.Request.Context(), record.Name, record.Classes)
	if err != nil {
		slog.Error("Spreadsheet export failed", "error", err)
		c.respond(ctx, req.RequestMeta, dto.Fail("Spreadsheet export failed."))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("Spreadsheet written.", ref))
}

// SearchClass handles /search/class requests.
func (c *BudgetController) SearchClass(ctx *gin.Context) {
	var req dto.SearchRequest
	if !c.bind(ctx, &req) {
		return
	}
	if req.Query == "" {
		c.respond(ctx, req.RequestMeta, dto.Fail("Missing JSON fields."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	matches, err := ledger.SearchClass(req.Query)
	if err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("", dto.ToClassListResponse(matches)))
}

// SearchTransaction handles /search/transaction requests.
func (c *BudgetController) SearchTransaction(ctx *gin.Context) {
	var req dto.SearchRequest
	if !c.bind(ctx, &req) {
		return
	}
	if req.Query == "" {
		c.respond(ctx, req.RequestMeta, dto.Fail("Missing JSON fields."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	matches, err := ledger.SearchTransaction(req.Query)
	if err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("", dto.ToTransactionListResponse(matches)))
}

// CreateClass handles /create/class requests.
func (c *BudgetController) CreateClass(ctx *gin.Context) {
	var req dto.CreateClassRequest
	if !c.bind(ctx, &req) {
		return
	}
	if req.Name == "" || req.Type == "" || req.Keywords == nil {
		c.respond(ctx, req.RequestMeta, dto.Fail("Missing JSON fields."))
		return
	}

	classType, err := entity.ParseBudgetClassType(req.Type)
	if err != nil {
		c.respond(ctx, req.RequestMeta, dto.Fail("Invalid JSON fields."))
		return
	}

	var target *entity.BudgetTarget
	if req.Target != nil {
		kind, err := entity.ParseTargetKind(req.Target.Type)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.StatusOnly("Failed to parse \"target\" content."))
			return
		}
		target, err = entity.NewBudgetTarget(req.Target.Value, kind)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.StatusOnly("Failed to parse \"target\" content."))
			return
		}
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	class := entity.NewBudgetClass(req.Name, classType, req.Description, req.Keywords, target)
	if err := ledger.AddClass(class); err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("Class created.", dto.ToClassResponse(class)))
}

// CreateTransaction handles /create/transaction requests.
func (c *BudgetController) CreateTransaction(ctx *gin.Context) {
	var req dto.CreateTransactionRequest
	if !c.bind(ctx, &req) {
		return
	}
	if req.ClassID == "" || req.Price == nil || req.Timestamp == nil {
		c.respond(ctx, req.RequestMeta, dto.Fail("Missing JSON fields."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	class, err := ledger.GetClass(req.ClassID)
	if err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}

	t, err := entity.NewTransaction(*req.Price, req.Vendor, req.Description, time.Unix(*req.Timestamp, 0), req.Recurring)
	if err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	if err := ledger.AddTransaction(class, t); err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("Transaction created.", dto.ToTransactionResponse(t)))
}

// CreateTransactionSearch handles /create/transaction/search requests: the
// class is picked by keyword query instead of an explicit ID.
func (c *BudgetController) CreateTransactionSearch(ctx *gin.Context) {
	var req dto.CreateTransactionSearchRequest
	if !c.bind(ctx, &req) {
		return
	}
	if req.Query == "" || req.Price == nil || req.Timestamp == nil {
		c.respond(ctx, req.RequestMeta, dto.Fail("Missing JSON fields."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	matches, err := ledger.SearchClass(req.Query)
	if err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	class := matches[0]

	t, err := entity.NewTransaction(*req.Price, req.Vendor, req.Description, time.Unix(*req.Timestamp, 0), false)
	if err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	if err := ledger.AddTransaction(class, t); err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	msg := fmt.Sprintf("Transaction created. Added to class: %q.", class.Name)
	c.respond(ctx, req.RequestMeta, dto.OK(msg, dto.ToTransactionResponse(t)))
}

// SuggestClass handles /suggest/class requests, asking the suggestion service
// to pick the class best matching the transaction text.
func (c *BudgetController) SuggestClass(ctx *gin.Context) {
	var req dto.SuggestClassRequest
	if !c.bind(ctx, &req) {
		return
	}
	if req.Vendor == "" && req.Description == "" {
		c.respond(ctx, req.RequestMeta, dto.Fail("Missing JSON fields."))
		return
	}
	if c.suggestions == nil {
		c.respond(ctx, req.RequestMeta, dto.Fail("Suggestions are not configured."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	suggestion, err := c.suggestions.SuggestClass(ctx.Request.Context(), req.Vendor, req.Description, ledger.All())
	if err != nil {
		slog.Error("Class suggestion failed", "error", err)
		c.respond(ctx, req.RequestMeta, dto.Fail("Suggestion failed."))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("", dto.SuggestionResponse{
		ClassID:    suggestion.ClassID,
		ClassName:  suggestion.ClassName,
		Confidence: suggestion.Confidence,
		Reasoning:  suggestion.Reasoning,
	}))
}

// DeleteClass handles /delete/class requests.
func (c *BudgetController) DeleteClass(ctx *gin.Context) {
	var req dto.DeleteClassRequest
	if !c.bind(ctx, &req) {
		return
	}
	if req.ClassID == "" {
		c.respond(ctx, req.RequestMeta, dto.Fail("Missing JSON fields."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	class, err := ledger.GetClass(req.ClassID)
	if err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	if err := ledger.DeleteClass(class); err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("Class deleted.", nil))
}

// DeleteTransaction handles /delete/transaction requests.
func (c *BudgetController) DeleteTransaction(ctx *gin.Context) {
	var req dto.DeleteTransactionRequest
	if !c.bind(ctx, &req) {
		return
	}
	if req.TransactionID == "" {
		c.respond(ctx, req.RequestMeta, dto.Fail("Missing JSON fields."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	t, err := ledger.GetTransaction(req.TransactionID)
	if err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	if err := ledger.DeleteTransaction(t); err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK("Transaction deleted.", nil))
}

// EditClass handles /edit/class requests: any subset of the class's mutable
// fields may be updated in one call.
func (c *BudgetController) EditClass(ctx *gin.Context) {
	var req dto.EditClassRequest
	if !c.bind(ctx, &req) {
		return
	}
	if req.ClassID == "" {
		c.respond(ctx, req.RequestMeta, dto.Fail("Missing JSON fields."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	stored, err := ledger.GetClass(req.ClassID)
	if err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	modified := stored.Copy()

	changes := 0
	if req.Type != nil {
		classType, err := entity.ParseBudgetClassType(*req.Type)
		if err != nil {
			c.respond(ctx, req.RequestMeta, dto.Fail("Invalid JSON fields."))
			return
		}
		modified.Type = classType
		changes++
	}
	if req.Name != nil {
		modified.Name = *req.Name
		changes++
	}
	if req.Description != nil {
		modified.Description = *req.Description
		changes++
	}
	if req.Keywords != nil {
		modified.Keywords = *req.Keywords
		changes++
	}
	if change, present, err := req.TargetChange(); present {
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.StatusOnly("Failed to parse \"target\" content."))
			return
		}
		if change == nil {
			modified.Target = nil
		} else {
			kind, err := entity.ParseTargetKind(change.Type)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, dto.StatusOnly("Failed to parse \"target\" content."))
				return
			}
			target, err := entity.NewBudgetTarget(change.Value, kind)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, dto.StatusOnly("Failed to parse \"target\" content."))
				return
			}
			modified.Target = target
		}
		changes++
	}

	if changes == 0 {
		c.respond(ctx, req.RequestMeta, dto.OK("Made no changes.", nil))
		return
	}
	if err := ledger.UpdateClass(modified); err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK(fmt.Sprintf("Made %d changes.", changes), nil))
}

// EditTransaction handles /edit/transaction requests. Setting class_id moves
// the transaction to another class. Updates are applied by deleting and
// re-adding the transaction so it lands in the right period bucket.
func (c *BudgetController) EditTransaction(ctx *gin.Context) {
	var req dto.EditTransactionRequest
	if !c.bind(ctx, &req) {
		return
	}
	if req.TransactionID == "" {
		c.respond(ctx, req.RequestMeta, dto.Fail("Missing JSON fields."))
		return
	}

	ledger, ok := c.ledger(ctx, req.EffectiveTime())
	if !ok {
		return
	}
	t, err := ledger.GetTransaction(req.TransactionID)
	if err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}

	var destination *entity.BudgetClass
	if req.ClassID != nil {
		destination, err = ledger.GetClass(*req.ClassID)
		if err != nil {
			c.respond(ctx, req.RequestMeta, failure(err))
			return
		}
	}

	changes := 0
	if req.Price != nil {
		if *req.Price < 0 {
			c.respond(ctx, req.RequestMeta, dto.Fail("Invalid JSON fields."))
			return
		}
		t.Price = *req.Price
		changes++
	}
	if req.Vendor != nil {
		t.Vendor = *req.Vendor
		changes++
	}
	if req.Description != nil {
		t.Description = *req.Description
		changes++
	}
	if req.Timestamp != nil {
		t.Timestamp = time.Unix(int64(*req.Timestamp), 0)
		changes++
	}
	if req.Recurring != nil {
		t.Recurring = *req.Recurring
		changes++
	}
	if destination != nil {
		changes++
	}

	if changes == 0 {
		c.respond(ctx, req.RequestMeta, dto.OK("Made no changes.", nil))
		return
	}

	if destination == nil {
		destination, err = ledger.GetClass(t.OwnerClassID)
		if err != nil {
			c.respond(ctx, req.RequestMeta, failure(err))
			return
		}
	}
	if err := ledger.DeleteTransaction(t); err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	if err := ledger.AddTransaction(destination, t); err != nil {
		c.respond(ctx, req.RequestMeta, failure(err))
		return
	}
	c.respond(ctx, req.RequestMeta, dto.OK(fmt.Sprintf("Made %d changes.", changes), nil))
}

// bind decodes a JSON request body, rejecting missing or unparsable bodies.
func (c *BudgetController) bind(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			ctx.JSON(http.StatusBadRequest, dto.StatusOnly("Missing request body."))
		} else {
			ctx.JSON(http.StatusBadRequest, dto.StatusOnly("Failed to parse request body."))
		}
		return false
	}
	return true
}

// bindOptional decodes a JSON body when one is present; endpoints that accept
// GET work without one.
func (c *BudgetController) bindOptional(ctx *gin.Context, req any) {
	if ctx.Request.Body != nil && ctx.Request.ContentLength > 0 {
		_ = ctx.ShouldBindJSON(req)
	}
}

// ledger builds a fresh ledger for the request, recording any cycle resets it
// triggered in the audit trail.
func (c *BudgetController) ledger(ctx *gin.Context, at time.Time) (*budget.Ledger, bool) {
	ledger, err := c.newLedger(at)
	if err != nil {
		slog.Error("Failed to load the budget", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.Fail("Failed to load the budget."))
		return nil, false
	}

	if c.audit != nil && len(ledger.ResetClassIDs()) > 0 {
		event := &adapter.ResetEvent{
			ID:               uuid.New(),
			PeriodKey:        ledger.PeriodKey(),
			AffectedClassIDs: ledger.ResetClassIDs(),
			OccurredAt:       time.Now().UTC(),
		}
		if err := c.audit.Record(ctx.Request.Context(), event); err != nil {
			slog.Warn("Failed to record reset event", "period", ledger.PeriodKey(), "error", err)
		}
	}
	return ledger, true
}

// respond writes the response and fires the optional outcome notification.
func (c *BudgetController) respond(ctx *gin.Context, meta dto.RequestMeta, resp dto.Response) {
	ctx.JSON(http.StatusOK, resp)
	if meta.Notify {
		if claims, ok := middleware.GetClaimsFromContext(ctx); ok {
			c.notifier.Notify(ctx.Request.Context(), claims.Username, resp)
		}
	}
}

// failure maps a recoverable ledger error to the failed-response message.
func failure(err error) dto.Response {
	var budgetErr *domainerror.BudgetError
	if errors.As(err, &budgetErr) {
		return dto.Fail(fmt.Sprintf("Failed: %s", budgetErr.Message))
	}
	return dto.Fail(fmt.Sprintf("Failed: %s", err.Error()))
}
