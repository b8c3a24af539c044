package handler

import (
	"net/http"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/forge"
	"github.com/osse101/ToolForge_Go/internal/logger"
)

// BuildToolRequest is the body of POST /api/v1/tools
type BuildToolRequest struct {
	ToolType  string   `json:"tool_type" validate:"required,max=64,resource_id"`
	Materials []string `json:"materials" validate:"required,min=1,max=16,dive,required,max=64,resource_id"`
}

// PartItem is one crafted part, named by part kind and material
type PartItem struct {
	Part     string `json:"part" validate:"required,max=64,resource_id"`
	Material string `json:"material" validate:"required,max=64,resource_id"`
}

// AssembleToolRequest is the body of POST /api/v1/tools/assemble.
// Parts are given in slot order.
type AssembleToolRequest struct {
	ToolType string     `json:"tool_type" validate:"required,max=64,resource_id"`
	Parts    []PartItem `json:"parts" validate:"required,min=1,max=16,dive"`
}

// RepairItem is one stack offered for a repair
type RepairItem struct {
	Item     string `json:"item" validate:"required,max=128,resource_id"`
	Quantity int    `json:"quantity" validate:"min=1,max=4096"`
}

// RepairToolRequest is the body of POST /api/v1/tools/{id}/repair
type RepairToolRequest struct {
	Items []RepairItem `json:"items" validate:"required,min=1,max=64,dive"`
}

// DamageToolRequest is the body of POST /api/v1/tools/{id}/damage
type DamageToolRequest struct {
	Amount int `json:"amount" validate:"min=1,max=1048576"`
}

// ApplyModifierRequest is the body of POST /api/v1/tools/{id}/modifiers
type ApplyModifierRequest struct {
	Modifier string `json:"modifier" validate:"required,max=64,resource_id"`
}

// ToolResponse is a tool as returned by the API
type ToolResponse struct {
	ID       string               `json:"id"`
	Revision int64                `json:"revision"`
	Status   string               `json:"status"`
	Document *domain.ToolDocument `json:"document,omitempty"`
}

// RepairResponse is the result of a repair request
type RepairResponse struct {
	Message       string             `json:"message"`
	Repaired      bool               `json:"repaired"`
	Tool          ToolResponse       `json:"tool"`
	Remaining     []domain.ItemStack `json:"remaining"`
	UnitsConsumed int                `json:"units_consumed"`
	Iterations    int                `json:"iterations"`
	Restored      int                `json:"restored"`
}

func toToolResponse(t *forge.Tool) ToolResponse {
	return ToolResponse{
		ID:       t.ID,
		Revision: t.Revision,
		Status:   t.Status.String(),
		Document: t.Document,
	}
}

// HandleBuildTool composes and persists a new tool
func HandleBuildTool(svc forge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		req, ok := decodeRequest[BuildToolRequest](w, r, "Build tool")
		if !ok {
			return
		}

		t, err := svc.BuildTool(r.Context(), req.ToolType, req.Materials)
		if err != nil {
			status, msg := mapBuildError(err)
			log.Warn(ErrMsgBuildToolFailed, "error", err, "tool_type", req.ToolType, "status", status)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusCreated, DataResponse{Message: MsgToolBuilt, Data: toToolResponse(t)})
	}
}

// HandleAssembleTool builds and persists a tool from crafted parts
func HandleAssembleTool(svc forge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeRequest[AssembleToolRequest](w, r, "Assemble tool")
		if !ok {
			return
		}

		parts := make([]domain.ItemStack, len(req.Parts))
		for i, p := range req.Parts {
			parts[i] = domain.ItemStack{Item: p.Part, Material: p.Material, Quantity: 1}
		}

		t, err := svc.BuildToolFromParts(r.Context(), req.ToolType, parts)
		if err != nil {
			status, msg := mapBuildError(err)
			logger.FromContext(r.Context()).Warn(ErrMsgBuildToolFailed, "error", err, "tool_type", req.ToolType, "status", status)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusCreated, DataResponse{Message: MsgToolBuilt, Data: toToolResponse(t)})
	}
}

// HandlePreviewTool renders a display-only document for a material combination
func HandlePreviewTool(svc forge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeRequest[BuildToolRequest](w, r, "Preview tool")
		if !ok {
			return
		}

		doc, err := svc.PreviewTool(r.Context(), req.ToolType, req.Materials)
		if err != nil {
			status, msg := mapBuildError(err)
			logger.FromContext(r.Context()).Debug(ErrMsgPreviewToolFailed, "error", err, "tool_type", req.ToolType, "status", status)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: doc})
	}
}

// HandleGetTool loads a tool, rebuilding it from its materials and modifiers
func HandleGetTool(svc forge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathParam(w, r, "id")
		if !ok {
			return
		}

		t, err := svc.GetTool(r.Context(), id)
		if err != nil {
			status, msg := mapStoredToolError(err)
			logger.FromContext(r.Context()).Warn(ErrMsgGetToolFailed, "error", err, "tool_id", id, "status", status)
			respondError(w, status, msg)
			return
		}

		resp := DataResponse{Data: toToolResponse(t)}
		if t.Document == nil {
			resp.Message = MsgNothingToBuild
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// HandleRepairTool consumes the offered items to restore durability
func HandleRepairTool(svc forge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathParam(w, r, "id")
		if !ok {
			return
		}

		req, ok := decodeRequest[RepairToolRequest](w, r, "Repair tool")
		if !ok {
			return
		}

		items := make([]domain.ItemStack, len(req.Items))
		for i, it := range req.Items {
			items[i] = domain.ItemStack{Item: it.Item, Quantity: it.Quantity}
		}

		outcome, err := svc.RepairTool(r.Context(), id, items)
		if err != nil {
			status, msg := mapStoredToolError(err)
			logger.FromContext(r.Context()).Warn(ErrMsgRepairToolFailed, "error", err, "tool_id", id, "status", status)
			respondError(w, status, msg)
			return
		}

		msg := MsgNothingRepaired
		if outcome.Repaired {
			msg = MsgToolRepaired
		}
		respondJSON(w, http.StatusOK, RepairResponse{
			Message:       msg,
			Repaired:      outcome.Repaired,
			Tool:          toToolResponse(outcome.Tool),
			Remaining:     outcome.Remaining,
			UnitsConsumed: outcome.UnitsConsumed,
			Iterations:    outcome.Iterations,
			Restored:      outcome.Restored,
		})
	}
}

// HandleDamageTool applies wear to a tool
func HandleDamageTool(svc forge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathParam(w, r, "id")
		if !ok {
			return
		}

		req, ok := decodeRequest[DamageToolRequest](w, r, "Damage tool")
		if !ok {
			return
		}

		t, err := svc.DamageTool(r.Context(), id, req.Amount)
		if err != nil {
			status, msg := mapStoredToolError(err)
			logger.FromContext(r.Context()).Warn(ErrMsgDamageToolFailed, "error", err, "tool_id", id, "status", status)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: toToolResponse(t)})
	}
}

// HandleApplyModifier adds one modifier level to a tool
func HandleApplyModifier(svc forge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathParam(w, r, "id")
		if !ok {
			return
		}

		req, ok := decodeRequest[ApplyModifierRequest](w, r, "Apply modifier")
		if !ok {
			return
		}

		t, err := svc.ApplyModifier(r.Context(), id, req.Modifier)
		if err != nil {
			status, msg := mapStoredToolError(err)
			logger.FromContext(r.Context()).Warn(ErrMsgApplyModifierFailed, "error", err, "tool_id", id, "modifier", req.Modifier, "status", status)
			respondError(w, status, msg)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Message: MsgModifierApplied, Data: toToolResponse(t)})
	}
}

// HandleListToolTypes lists the registered tool types
func HandleListToolTypes(svc forge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: svc.ListToolTypes(r.Context())})
	}
}

// HandleListMaterials lists the registered materials
func HandleListMaterials(svc forge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: svc.ListMaterials(r.Context())})
	}
}
