package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Lllllllleong/summaryflow/internal/services"
)

const downloadMethods = "GET,DELETE,OPTIONS"

var (
	downloadInstance *services.DownloadFunction
	downloadOnce     sync.Once
	downloadInitErr  error
)

// HandleDownloadURL is the HTTP entry point of the download function.
func HandleDownloadURL(w http.ResponseWriter, r *http.Request) {
	downloadOnce.Do(func() {
		downloadInstance, downloadInitErr = services.NewDownload(context.Background())
	})
	if downloadInitErr != nil {
		unavailable(downloadMethods, downloadInitErr)(w, r)
		return
	}
	DownloadURL(downloadInstance)(w, r)
}

// DownloadURL returns the download/list/delete handler for svc.
func DownloadURL(svc *services.DownloadFunction) http.HandlerFunc {
	return endpoint(downloadMethods, func(w http.ResponseWriter, r *http.Request, logCtx *slog.Logger) {
		req, err := services.ParseDownloadRequest(r.Method, r.URL.Query())
		if err != nil {
			fail(w, logCtx, downloadMethods, err)
			return
		}

		body, err := svc.Process(r.Context(), req)
		if err != nil {
			fail(w, logCtx, downloadMethods, err)
			return
		}
		writeJSON(w, http.StatusOK, downloadMethods, body)
	})
}
