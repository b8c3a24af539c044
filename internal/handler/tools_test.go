package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/forge"
	"github.com/osse101/ToolForge_Go/internal/toolstate"
)

// MockForgeService mocks forge.Service
type MockForgeService struct {
	mock.Mock
}

func (m *MockForgeService) BuildTool(ctx context.Context, toolType string, materialIDs []string) (*forge.Tool, error) {
	args := m.Called(ctx, toolType, materialIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.Tool), args.Error(1)
}

func (m *MockForgeService) BuildToolFromParts(ctx context.Context, toolType string, parts []domain.ItemStack) (*forge.Tool, error) {
	args := m.Called(ctx, toolType, parts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.Tool), args.Error(1)
}

func (m *MockForgeService) PreviewTool(ctx context.Context, toolType string, materialIDs []string) (*domain.ToolDocument, error) {
	args := m.Called(ctx, toolType, materialIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ToolDocument), args.Error(1)
}

func (m *MockForgeService) GetTool(ctx context.Context, id string) (*forge.Tool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.Tool), args.Error(1)
}

func (m *MockForgeService) RepairTool(ctx context.Context, id string, items []domain.ItemStack) (*forge.RepairOutcome, error) {
	args := m.Called(ctx, id, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.RepairOutcome), args.Error(1)
}

func (m *MockForgeService) DamageTool(ctx context.Context, id string, amount int) (*forge.Tool, error) {
	args := m.Called(ctx, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.Tool), args.Error(1)
}

func (m *MockForgeService) ApplyModifier(ctx context.Context, id, modifierID string) (*forge.Tool, error) {
	args := m.Called(ctx, id, modifierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forge.Tool), args.Error(1)
}

func (m *MockForgeService) ListToolTypes(ctx context.Context) []forge.ToolTypeInfo {
	args := m.Called(ctx)
	return args.Get(0).([]forge.ToolTypeInfo)
}

func (m *MockForgeService) ListMaterials(ctx context.Context) []forge.MaterialInfo {
	args := m.Called(ctx)
	return args.Get(0).([]forge.MaterialInfo)
}

const testToolID = "3b8a6f52-1c4d-4e0a-9f1e-2d7c5b9a0e11"

func sampleTool() *forge.Tool {
	return &forge.Tool{
		ID:       testToolID,
		Revision: 1,
		Status:   toolstate.StatusRebuilt,
		Document: &domain.ToolDocument{
			Version:  domain.ToolDocumentVersion,
			ToolType: "hatchet",
			Base:     domain.BaseData{Materials: []string{"wood", "stone"}},
			Tool:     domain.ToolData{Durability: 131},
		},
	}
}

// serve routes the request through chi so URL parameters resolve
func serve(method, pattern, target, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHandleBuildTool(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockForgeService{}
		svc.On("BuildTool", mock.Anything, "hatchet", []string{"wood", "stone"}).Return(sampleTool(), nil)

		w := serve("POST", "/tools", "/tools", `{"tool_type":"hatchet","materials":["wood","stone"]}`, HandleBuildTool(svc))

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp struct {
			Message string       `json:"message"`
			Data    ToolResponse `json:"data"`
		}
		decodeBody(t, w, &resp)
		assert.Equal(t, MsgToolBuilt, resp.Message)
		assert.Equal(t, testToolID, resp.Data.ID)
		assert.Equal(t, "rebuilt", resp.Data.Status)
		assert.Equal(t, 131, resp.Data.Document.Tool.Durability)
		svc.AssertExpectations(t)
	})

	t.Run("Validation errors never reach the service", func(t *testing.T) {
		svc := &MockForgeService{}

		w := serve("POST", "/tools", "/tools", `{"tool_type":"Hatchet","materials":[]}`, HandleBuildTool(svc))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ValidationErrorResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, ErrMsgInvalidRequestSummary, resp.Error)
		assert.Contains(t, resp.Fields, "tool_type")
		assert.Contains(t, resp.Fields, "materials")
		svc.AssertNotCalled(t, "BuildTool", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Malformed body", func(t *testing.T) {
		svc := &MockForgeService{}

		w := serve("POST", "/tools", "/tools", `{"tool_type":`, HandleBuildTool(svc))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidRequest)
	})

	t.Run("Unknown fields are rejected", func(t *testing.T) {
		svc := &MockForgeService{}

		w := serve("POST", "/tools", "/tools", `{"tool_type":"hatchet","materials":["wood"],"durability":9999}`, HandleBuildTool(svc))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	errorCases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"unknown tool type", domain.ErrUnknownToolType, http.StatusBadRequest, ErrMsgUnknownToolTypeError},
		{"unknown material", domain.ErrUnknownMaterial, http.StatusBadRequest, ErrMsgUnknownMaterialError},
		{"invalid composition", domain.ErrInvalidComposition, http.StatusBadRequest, ErrMsgInvalidCompositionErr},
		{"unknown material with hint", &domain.UnknownMaterialError{ID: "ston", Suggestion: "stone"}, http.StatusBadRequest, "Unknown material 'ston'. Did you mean 'stone'?"},
		{"storage failure", fmt.Errorf("failed to persist tool: %w", assert.AnError), http.StatusInternalServerError, ErrMsgGenericServerError},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &MockForgeService{}
			svc.On("BuildTool", mock.Anything, "hatchet", []string{"wood", "stone"}).
				Return(nil, fmt.Errorf("wrapped: %w", tc.err))

			w := serve("POST", "/tools", "/tools", `{"tool_type":"hatchet","materials":["wood","stone"]}`, HandleBuildTool(svc))

			assert.Equal(t, tc.wantStatus, w.Code)
			var resp ErrorResponse
			decodeBody(t, w, &resp)
			assert.Equal(t, tc.wantMsg, resp.Error)
		})
	}
}

func TestHandlePreviewTool(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockForgeService{}
		doc := &domain.ToolDocument{ToolType: "hatchet", Base: domain.BaseData{Materials: []string{"stone", "stone"}}}
		svc.On("PreviewTool", mock.Anything, "hatchet", []string{"stone", "stone"}).Return(doc, nil)

		w := serve("POST", "/tools/preview", "/tools/preview", `{"tool_type":"hatchet","materials":["stone","stone"]}`, HandlePreviewTool(svc))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data domain.ToolDocument `json:"data"`
		}
		decodeBody(t, w, &resp)
		assert.Equal(t, []string{"stone", "stone"}, resp.Data.Base.Materials)
		svc.AssertExpectations(t)
	})

	t.Run("Unknown material", func(t *testing.T) {
		svc := &MockForgeService{}
		svc.On("PreviewTool", mock.Anything, "hatchet", []string{"mithril"}).Return(nil, domain.ErrUnknownMaterial)

		w := serve("POST", "/tools/preview", "/tools/preview", `{"tool_type":"hatchet","materials":["mithril"]}`, HandlePreviewTool(svc))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgUnknownMaterialError)
	})
}

func TestHandleGetTool(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockForgeService{}
		svc.On("GetTool", mock.Anything, testToolID).Return(sampleTool(), nil)

		w := serve("GET", "/tools/{id}", "/tools/"+testToolID, "", HandleGetTool(svc))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"durability":131`)
	})

	t.Run("Nothing to rebuild", func(t *testing.T) {
		svc := &MockForgeService{}
		svc.On("GetTool", mock.Anything, testToolID).
			Return(&forge.Tool{ID: testToolID, Revision: 4, Status: toolstate.StatusNothingToRebuild}, nil)

		w := serve("GET", "/tools/{id}", "/tools/"+testToolID, "", HandleGetTool(svc))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), MsgNothingToBuild)
		assert.Contains(t, w.Body.String(), `"status":"nothing_to_rebuild"`)
		assert.NotContains(t, w.Body.String(), `"document"`)
	})

	errorCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", domain.ErrToolNotFound, http.StatusNotFound},
		{"material left the registry", domain.ErrUnknownMaterial, http.StatusUnprocessableEntity},
		{"malformed bytes", domain.ErrMalformedState, http.StatusUnprocessableEntity},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &MockForgeService{}
			svc.On("GetTool", mock.Anything, testToolID).Return(nil, tc.err)

			w := serve("GET", "/tools/{id}", "/tools/"+testToolID, "", HandleGetTool(svc))

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}

	t.Run("Id that is not a uuid is not found", func(t *testing.T) {
		svc := &MockForgeService{}
		svc.On("GetTool", mock.Anything, "abc").
			Return(nil, fmt.Errorf("failed to load tool 'abc': %w", fmt.Errorf("%w: 'abc'", domain.ErrToolNotFound)))

		w := serve("GET", "/tools/{id}", "/tools/abc", "", HandleGetTool(svc))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgToolNotFoundError)
	})
}

func TestHandleAssembleTool(t *testing.T) {
	parts := []domain.ItemStack{
		{Item: "pick_head", Material: "stone", Quantity: 1},
		{Item: "tool_rod", Material: "wood", Quantity: 1},
	}
	body := `{"tool_type":"pickaxe","parts":[{"part":"pick_head","material":"stone"},{"part":"tool_rod","material":"wood"}]}`

	t.Run("Success", func(t *testing.T) {
		svc := &MockForgeService{}
		svc.On("BuildToolFromParts", mock.Anything, "pickaxe", parts).Return(sampleTool(), nil)

		w := serve("POST", "/tools/assemble", "/tools/assemble", body, HandleAssembleTool(svc))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), MsgToolBuilt)
		svc.AssertExpectations(t)
	})

	t.Run("Part the slot rejects", func(t *testing.T) {
		svc := &MockForgeService{}
		svc.On("BuildToolFromParts", mock.Anything, "pickaxe", parts).
			Return(nil, fmt.Errorf("%w: slot 0 of pickaxe rejects part", domain.ErrInvalidComposition))

		w := serve("POST", "/tools/assemble", "/tools/assemble", body, HandleAssembleTool(svc))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidCompositionErr)
	})

	t.Run("Part without material never reaches the service", func(t *testing.T) {
		svc := &MockForgeService{}

		w := serve("POST", "/tools/assemble", "/tools/assemble",
			`{"tool_type":"pickaxe","parts":[{"part":"pick_head"}]}`, HandleAssembleTool(svc))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "BuildToolFromParts", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleRepairTool(t *testing.T) {
	t.Run("Repaired", func(t *testing.T) {
		svc := &MockForgeService{}
		repaired := sampleTool()
		repaired.Document.Tool.Damage = 47
		items := []domain.ItemStack{{Item: "cobblestone", Quantity: 3}, {Item: "dirt", Quantity: 1}}
		svc.On("RepairTool", mock.Anything, testToolID, items).Return(&forge.RepairOutcome{
			Tool:          repaired,
			Repaired:      true,
			Remaining:     []domain.ItemStack{{Item: "dirt", Quantity: 1}},
			UnitsConsumed: 3,
			Iterations:    1,
			Restored:      3,
		}, nil)

		body := `{"items":[{"item":"cobblestone","quantity":3},{"item":"dirt","quantity":1}]}`
		w := serve("POST", "/tools/{id}/repair", "/tools/"+testToolID+"/repair", body, HandleRepairTool(svc))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp RepairResponse
		decodeBody(t, w, &resp)
		assert.True(t, resp.Repaired)
		assert.Equal(t, MsgToolRepaired, resp.Message)
		assert.Equal(t, 47, resp.Tool.Document.Tool.Damage)
		assert.Equal(t, 3, resp.Restored)
		assert.Equal(t, []domain.ItemStack{{Item: "dirt", Quantity: 1}}, resp.Remaining)
		svc.AssertExpectations(t)
	})

	t.Run("Nothing consumed", func(t *testing.T) {
		svc := &MockForgeService{}
		svc.On("RepairTool", mock.Anything, testToolID, mock.Anything).Return(&forge.RepairOutcome{
			Tool:      sampleTool(),
			Remaining: []domain.ItemStack{{Item: "dirt", Quantity: 1}},
		}, nil)

		w := serve("POST", "/tools/{id}/repair", "/tools/"+testToolID+"/repair", `{"items":[{"item":"dirt","quantity":1}]}`, HandleRepairTool(svc))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp RepairResponse
		decodeBody(t, w, &resp)
		assert.False(t, resp.Repaired)
		assert.Equal(t, MsgNothingRepaired, resp.Message)
	})

	t.Run("Invalid quantity", func(t *testing.T) {
		svc := &MockForgeService{}

		w := serve("POST", "/tools/{id}/repair", "/tools/"+testToolID+"/repair", `{"items":[{"item":"dirt","quantity":0}]}`, HandleRepairTool(svc))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "RepairTool", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("No base data", func(t *testing.T) {
		svc := &MockForgeService{}
		svc.On("RepairTool", mock.Anything, testToolID, mock.Anything).Return(nil, domain.ErrNoBaseData)

		w := serve("POST", "/tools/{id}/repair", "/tools/"+testToolID+"/repair", `{"items":[{"item":"dirt","quantity":1}]}`, HandleRepairTool(svc))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgNoBaseDataError)
	})
}

func TestHandleDamageTool(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockForgeService{}
		damaged := sampleTool()
		damaged.Document.Tool.Damage = 20
		damaged.Revision = 2
		svc.On("DamageTool", mock.Anything, testToolID, 20).Return(damaged, nil)

		w := serve("POST", "/tools/{id}/damage", "/tools/"+testToolID+"/damage", `{"amount":20}`, HandleDamageTool(svc))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"revision":2`)
	})

	t.Run("Zero amount", func(t *testing.T) {
		svc := &MockForgeService{}

		w := serve("POST", "/tools/{id}/damage", "/tools/"+testToolID+"/damage", `{"amount":0}`, HandleDamageTool(svc))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Concurrent writer", func(t *testing.T) {
		svc := &MockForgeService{}
		svc.On("DamageTool", mock.Anything, testToolID, 5).Return(nil, domain.ErrRevisionConflict)

		w := serve("POST", "/tools/{id}/damage", "/tools/"+testToolID+"/damage", `{"amount":5}`, HandleDamageTool(svc))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgConflictError)
	})
}

func TestHandleApplyModifier(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"applied", nil, http.StatusOK},
		{"unknown modifier", domain.ErrUnknownModifier, http.StatusBadRequest},
		{"no free slots", domain.ErrNoFreeModifiers, http.StatusConflict},
		{"max level", domain.ErrModifierMaxLevel, http.StatusConflict},
		{"not found", domain.ErrToolNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockForgeService{}
			if tt.err != nil {
				svc.On("ApplyModifier", mock.Anything, testToolID, "reinforced").Return(nil, tt.err)
			} else {
				svc.On("ApplyModifier", mock.Anything, testToolID, "reinforced").Return(sampleTool(), nil)
			}

			w := serve("POST", "/tools/{id}/modifiers", "/tools/"+testToolID+"/modifiers", `{"modifier":"reinforced"}`, HandleApplyModifier(svc))

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleListings(t *testing.T) {
	svc := &MockForgeService{}
	svc.On("ListToolTypes", mock.Anything).Return([]forge.ToolTypeInfo{{Name: "hatchet", DisplayName: "Hatchet"}})
	svc.On("ListMaterials", mock.Anything).Return([]forge.MaterialInfo{{ID: "wood", DisplayName: "Wood"}})

	w := serve("GET", "/tool-types", "/tool-types", "", HandleListToolTypes(svc))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"display_name":"Hatchet"`)

	w = serve("GET", "/materials", "/materials", "", HandleListMaterials(svc))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"wood"`)
}

func TestMapServiceErrorToUserMessage_HidesInternalErrors(t *testing.T) {
	status, msg := mapServiceErrorToUserMessage(fmt.Errorf("pq: relation tool_states does not exist"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrMsgGenericServerError, msg)
}
