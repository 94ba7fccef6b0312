package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"statedash/config"
)

// SheetImporter triggers the external spreadsheet import pipeline for the
// configured spreadsheet. The pipeline's mapping logic lives outside this
// service.
type SheetImporter interface {
	Import(ctx context.Context, spreadsheetID string) error
}

// HTTPSheetImporter posts the spreadsheet ID to the importer service.
type HTTPSheetImporter struct {
	Client *http.Client
	URL    string
}

func NewHTTPSheetImporter(url string) *HTTPSheetImporter {
	return &HTTPSheetImporter{
		Client: &http.Client{Timeout: 60 * time.Second},
		URL:    url,
	}
}

func (i *HTTPSheetImporter) Import(ctx context.Context, spreadsheetID string) error {
	body, _ := json.Marshal(map[string]string{"spreadsheet_id": spreadsheetID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build importer request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.Client.Do(req)
	if err != nil {
		return fmt.Errorf("importer request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("importer responded with status %d", resp.StatusCode)
	}
	return nil
}

// SyncHandler exposes the cron-triggered sheet sync endpoint, gated by a
// shared secret.
type SyncHandler struct {
	Importer      SheetImporter
	SpreadsheetID string
	Secret        string
}

func NewSyncHandler(importer SheetImporter) *SyncHandler {
	return &SyncHandler{
		Importer:      importer,
		SpreadsheetID: config.GetEnvWithDefault("SYNC_SPREADSHEET_ID", ""),
		Secret:        config.GetEnvWithDefault("SYNC_SECRET", ""),
	}
}

// TriggerSync handles POST /sync/sheet. When a secret is configured it must
// match the X-Sync-Secret header or the secret query parameter.
func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if h.Secret != "" {
		provided := r.Header.Get("X-Sync-Secret")
		if provided == "" {
			provided = r.URL.Query().Get("secret")
		}
		if provided != h.Secret {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "Invalid sync secret"})
			return
		}
	}

	if h.SpreadsheetID == "" {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "No spreadsheet configured"})
		return
	}

	if err := h.Importer.Import(r.Context(), h.SpreadsheetID); err != nil {
		log.Printf("Sheet sync failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Sync failed"})
		return
	}

	log.Printf("Sheet sync triggered for spreadsheet %s", h.SpreadsheetID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Sync triggered",
	})
}
