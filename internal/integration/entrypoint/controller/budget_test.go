package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snowbudget/backend/internal/application/usecase/budget"
	"github.com/snowbudget/backend/internal/integration/entrypoint/dto"
	"github.com/snowbudget/backend/internal/integration/persistence"
)

// testEnvelope mirrors the wire envelope with a concrete payload type left to
// each assertion.
type testEnvelope struct {
	Message string          `json:"message"`
	Success *bool           `json:"success"`
	Payload json.RawMessage `json:"payload"`
}

func newBudgetTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	configPath := filepath.Join(root, "budget.json")
	content := fmt.Sprintf(`{
		"name": "household",
		"save_location": %q,
		"backup_location": %q,
		"reset_dates": ["1-1"],
		"surplus_savings": [{"category": "emergency", "percent": 0.5}]
	}`, filepath.Join(root, "save"), filepath.Join(root, "backup"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	spec, err := budget.LoadSpec(configPath)
	if err != nil {
		t.Fatalf("failed to load spec: %v", err)
	}
	store := persistence.NewClassStore(spec.SaveLocation, spec.BackupLocation)
	newLedger := func(at time.Time) (*budget.Ledger, error) {
		return budget.NewLedger(spec, store, at)
	}

	controller := NewBudgetController(newLedger, NewNotifier(nil, nil), nil, nil, nil)

	engine := gin.New()
	engine.POST("/get/all", controller.GetAll)
	engine.POST("/get/class", controller.GetClass)
	engine.POST("/get/transaction", controller.GetTransaction)
	engine.POST("/get/resets", controller.GetResets)
	engine.POST("/get/savings", controller.GetSavings)
	engine.POST("/get/summary", controller.GetSummary)
	engine.POST("/get/spreadsheet", controller.GetSpreadsheet)
	engine.POST("/search/class", controller.SearchClass)
	engine.POST("/search/transaction", controller.SearchTransaction)
	engine.POST("/create/class", controller.CreateClass)
	engine.POST("/create/transaction", controller.CreateTransaction)
	engine.POST("/create/transaction/search", controller.CreateTransactionSearch)
	engine.POST("/delete/class", controller.DeleteClass)
	engine.POST("/delete/transaction", controller.DeleteTransaction)
	engine.POST("/edit/class", controller.EditClass)
	engine.POST("/edit/transaction", controller.EditTransaction)
	engine.POST("/suggest/class", controller.SuggestClass)
	return engine
}

func post(t *testing.T, engine *gin.Engine, path string, body any) (int, testEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var envelope testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, envelope
}

func createTestClass(t *testing.T, engine *gin.Engine) dto.ClassResponse {
	t.Helper()
	code, resp := post(t, engine, "/create/class", map[string]any{
		"name":        "Groceries",
		"type":        "expense",
		"description": "Food and staples",
		"keywords":    []string{"food", "grocery"},
	})
	if code != http.StatusOK || resp.Message != "Class created." {
		t.Fatalf("class creation failed: %d %q", code, resp.Message)
	}
	var class dto.ClassResponse
	if err := json.Unmarshal(resp.Payload, &class); err != nil {
		t.Fatalf("failed to decode class payload: %v", err)
	}
	return class
}

func createTestTransaction(t *testing.T, engine *gin.Engine, classID string) dto.TransactionResponse {
	t.Helper()
	code, resp := post(t, engine, "/create/transaction", map[string]any{
		"class_id":    classID,
		"price":       7.98,
		"vendor":      "Weber",
		"description": "cookout supplies",
		"timestamp":   time.Now().Unix(),
	})
	if code != http.StatusOK || resp.Message != "Transaction created." {
		t.Fatalf("transaction creation failed: %d %q", code, resp.Message)
	}
	var tx dto.TransactionResponse
	if err := json.Unmarshal(resp.Payload, &tx); err != nil {
		t.Fatalf("failed to decode transaction payload: %v", err)
	}
	return tx
}

func TestBudgetController_CreateClass(t *testing.T) {
	engine := newBudgetTestServer(t)

	t.Run("creates a class", func(t *testing.T) {
		class := createTestClass(t, engine)
		if class.ID == "" || class.Name != "Groceries" {
			t.Errorf("unexpected class payload: %+v", class)
		}
	})

	t.Run("missing fields fail inside a 200", func(t *testing.T) {
		code, resp := post(t, engine, "/create/class", map[string]any{"name": "Rent"})
		if code != http.StatusOK {
			t.Errorf("expected 200, got %d", code)
		}
		if resp.Message != "Missing JSON fields." || resp.Success == nil || *resp.Success {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("rejects an unknown class type", func(t *testing.T) {
		_, resp := post(t, engine, "/create/class", map[string]any{
			"name": "Rent", "type": "mystery", "keywords": []string{"rent"},
		})
		if resp.Message != "Invalid JSON fields." {
			t.Errorf("expected invalid-fields message, got %q", resp.Message)
		}
	})

	t.Run("rejects a malformed target with a 400", func(t *testing.T) {
		code, resp := post(t, engine, "/create/class", map[string]any{
			"name": "Rent", "type": "expense", "keywords": []string{"rent"},
			"target": map[string]any{"value": 1.5, "type": "percent_income"},
		})
		if code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", code)
		}
		if resp.Message != `Failed to parse "target" content.` {
			t.Errorf("unexpected message: %q", resp.Message)
		}
		if resp.Success != nil {
			t.Error("expected no success flag on a 400 response")
		}
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		_, resp := post(t, engine, "/create/class", map[string]any{
			"name": "groceries", "type": "expense", "keywords": []string{"food"},
		})
		if resp.Success == nil || *resp.Success {
			t.Errorf("expected a failure for a duplicate name, got %+v", resp)
		}
	})

	t.Run("missing body is a 400", func(t *testing.T) {
		code, resp := post(t, engine, "/create/class", nil)
		if code != http.StatusBadRequest || resp.Message != "Missing request body." {
			t.Errorf("unexpected response: %d %q", code, resp.Message)
		}
	})
}

func TestBudgetController_TransactionLifecycle(t *testing.T) {
	engine := newBudgetTestServer(t)
	class := createTestClass(t, engine)
	tx := createTestTransaction(t, engine, class.ID)

	t.Run("get transaction by ID", func(t *testing.T) {
		_, resp := post(t, engine, "/get/transaction", map[string]any{"transaction_id": tx.ID})
		var got dto.TransactionResponse
		if err := json.Unmarshal(resp.Payload, &got); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if got.ID != tx.ID || got.Vendor != "Weber" {
			t.Errorf("unexpected transaction: %+v", got)
		}
	})

	t.Run("search finds it by description", func(t *testing.T) {
		_, resp := post(t, engine, "/search/transaction", map[string]any{"query": "cookout"})
		var got []dto.TransactionResponse
		if err := json.Unmarshal(resp.Payload, &got); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if len(got) != 1 || got[0].ID != tx.ID {
			t.Errorf("unexpected matches: %+v", got)
		}
	})

	t.Run("search miss reports the failure", func(t *testing.T) {
		_, resp := post(t, engine, "/search/transaction", map[string]any{"query": "yacht"})
		if resp.Success == nil || *resp.Success {
			t.Errorf("expected a failure, got %+v", resp)
		}
	})

	t.Run("edit counts the changes", func(t *testing.T) {
		_, resp := post(t, engine, "/edit/transaction", map[string]any{
			"transaction_id": tx.ID,
			"price":          9.49,
			"vendor":         "Weber Grill",
		})
		if resp.Message != "Made 2 changes." {
			t.Errorf("expected two changes, got %q", resp.Message)
		}
	})

	t.Run("edit with no fields makes no changes", func(t *testing.T) {
		_, resp := post(t, engine, "/edit/transaction", map[string]any{"transaction_id": tx.ID})
		if resp.Message != "Made no changes." {
			t.Errorf("expected no changes, got %q", resp.Message)
		}
	})

	t.Run("edit rejects a negative price", func(t *testing.T) {
		_, resp := post(t, engine, "/edit/transaction", map[string]any{
			"transaction_id": tx.ID,
			"price":          -3.0,
		})
		if resp.Message != "Invalid JSON fields." {
			t.Errorf("expected invalid-fields message, got %q", resp.Message)
		}
	})

	t.Run("delete removes it", func(t *testing.T) {
		_, resp := post(t, engine, "/delete/transaction", map[string]any{"transaction_id": tx.ID})
		if resp.Message != "Transaction deleted." {
			t.Errorf("unexpected message: %q", resp.Message)
		}
		_, resp = post(t, engine, "/get/transaction", map[string]any{"transaction_id": tx.ID})
		if resp.Success == nil || *resp.Success {
			t.Errorf("expected a failure after deletion, got %+v", resp)
		}
	})
}

func TestBudgetController_TransactionBySearch(t *testing.T) {
	engine := newBudgetTestServer(t)
	createTestClass(t, engine)

	code, resp := post(t, engine, "/create/transaction/search", map[string]any{
		"query":       "food",
		"price":       12.00,
		"vendor":      "market",
		"description": "produce",
		"timestamp":   time.Now().Unix(),
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Message != `Transaction created. Added to class: "Groceries".` {
		t.Errorf("unexpected message: %q", resp.Message)
	}

	_, resp = post(t, engine, "/create/transaction/search", map[string]any{
		"query":     "unmatched",
		"price":     1.0,
		"timestamp": time.Now().Unix(),
	})
	if resp.Success == nil || *resp.Success {
		t.Errorf("expected a failure for an unmatched query, got %+v", resp)
	}
}

func TestBudgetController_EditClass(t *testing.T) {
	engine := newBudgetTestServer(t)
	class := createTestClass(t, engine)

	t.Run("updates fields and counts changes", func(t *testing.T) {
		_, resp := post(t, engine, "/edit/class", map[string]any{
			"class_id":    class.ID,
			"name":        "Food",
			"description": "Everything edible",
			"keywords":    []string{"food", "snacks"},
		})
		if resp.Message != "Made 3 changes." {
			t.Errorf("expected three changes, got %q", resp.Message)
		}

		_, resp = post(t, engine, "/get/class", map[string]any{"class_id": class.ID})
		var got dto.ClassResponse
		if err := json.Unmarshal(resp.Payload, &got); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if got.Name != "Food" || len(got.Keywords) != 2 {
			t.Errorf("unexpected class after edit: %+v", got)
		}
	})

	t.Run("sets and clears the target", func(t *testing.T) {
		_, resp := post(t, engine, "/edit/class", map[string]any{
			"class_id": class.ID,
			"target":   map[string]any{"value": 250.0, "type": "dollar"},
		})
		if resp.Message != "Made 1 changes." {
			t.Errorf("expected one change, got %q", resp.Message)
		}

		_, resp = post(t, engine, "/edit/class", map[string]any{
			"class_id": class.ID,
			"target":   nil,
		})
		if resp.Message != "Made 1 changes." {
			t.Errorf("expected clearing the target to count, got %q", resp.Message)
		}

		_, resp = post(t, engine, "/get/class", map[string]any{"class_id": class.ID})
		var got dto.ClassResponse
		if err := json.Unmarshal(resp.Payload, &got); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if got.Target != nil {
			t.Errorf("expected the target to be cleared, got %+v", got.Target)
		}
	})

	t.Run("no recognized fields makes no changes", func(t *testing.T) {
		_, resp := post(t, engine, "/edit/class", map[string]any{"class_id": class.ID})
		if resp.Message != "Made no changes." {
			t.Errorf("expected no changes, got %q", resp.Message)
		}
	})
}

func TestBudgetController_Views(t *testing.T) {
	engine := newBudgetTestServer(t)
	class := createTestClass(t, engine)
	createTestTransaction(t, engine, class.ID)

	t.Run("get all lists every class", func(t *testing.T) {
		_, resp := post(t, engine, "/get/all", map[string]any{})
		var got []dto.ClassResponse
		if err := json.Unmarshal(resp.Payload, &got); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if len(got) != 1 || len(got[0].History) != 1 {
			t.Errorf("unexpected listing: %+v", got)
		}
	})

	t.Run("resets returns epoch anchors", func(t *testing.T) {
		_, resp := post(t, engine, "/get/resets", map[string]any{})
		var stamps []int64
		if err := json.Unmarshal(resp.Payload, &stamps); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if len(stamps) != 1 || stamps[0] == 0 {
			t.Errorf("unexpected anchors: %v", stamps)
		}
	})

	t.Run("savings lists the configured categories", func(t *testing.T) {
		_, resp := post(t, engine, "/get/savings", map[string]any{})
		var got []dto.SavingsCategoryResponse
		if err := json.Unmarshal(resp.Payload, &got); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if len(got) != 1 || got[0].Category != "emergency" || got[0].Percent != 0.5 {
			t.Errorf("unexpected savings: %+v", got)
		}
	})

	t.Run("summary reports the expense total", func(t *testing.T) {
		_, resp := post(t, engine, "/get/summary", map[string]any{})
		var got dto.SummaryResponse
		if err := json.Unmarshal(resp.Payload, &got); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if got.TotalExpense != 7.98 || got.TotalIncome != 0 {
			t.Errorf("unexpected summary: %+v", got)
		}
	})

	t.Run("unconfigured integrations fail gracefully", func(t *testing.T) {
		_, resp := post(t, engine, "/get/spreadsheet", map[string]any{})
		if resp.Message != "Spreadsheet export is not configured." {
			t.Errorf("unexpected message: %q", resp.Message)
		}
		_, resp = post(t, engine, "/suggest/class", map[string]any{"vendor": "market"})
		if resp.Message != "Suggestions are not configured." {
			t.Errorf("unexpected message: %q", resp.Message)
		}
	})
}

func TestBudgetController_DeleteClass(t *testing.T) {
	engine := newBudgetTestServer(t)
	class := createTestClass(t, engine)

	_, resp := post(t, engine, "/delete/class", map[string]any{"class_id": class.ID})
	if resp.Message != "Class deleted." {
		t.Fatalf("unexpected message: %q", resp.Message)
	}

	_, resp = post(t, engine, "/get/class", map[string]any{"class_id": class.ID})
	if resp.Success == nil || *resp.Success {
		t.Errorf("expected a failure after deletion, got %+v", resp)
	}
}
