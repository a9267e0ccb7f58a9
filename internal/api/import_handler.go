package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/aiplanner/internal/api/shared"
	"github.com/phrazzld/aiplanner/internal/service"
)

// ImportService is the import boundary used by ImportHandler.
type ImportService interface {
	ImportFromCanvas(ctx context.Context, userID uuid.UUID, rawToken string) (service.ImportSummary, error)
}

// ImportHandler runs Canvas imports for the authenticated user.
type ImportHandler struct {
	imports ImportService
}

// NewImportHandler creates an ImportHandler.
func NewImportHandler(imports ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// ImportCanvas handles POST /api/imports/canvas. The access token is used
// for this request only and never stored.
func (h *ImportHandler) ImportCanvas(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ImportCanvasRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	summary, err := h.imports.ImportFromCanvas(r.Context(), userID, req.Token)
	if err != nil {
		HandleAPIError(w, r, err, "", summary.Messages...)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
