package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Lllllllleong/summaryflow/internal/services"
)

const uploadMethods = "GET,OPTIONS"

var (
	uploadInstance *services.UploadFunction
	uploadOnce     sync.Once
	uploadInitErr  error
)

// HandleUploadURL is the HTTP entry point of the upload-URL function. The
// service is created on first use.
func HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	uploadOnce.Do(func() {
		uploadInstance, uploadInitErr = services.NewUpload(context.Background())
	})
	if uploadInitErr != nil {
		unavailable(uploadMethods, uploadInitErr)(w, r)
		return
	}
	UploadURL(uploadInstance)(w, r)
}

// UploadURL returns the upload-URL handler for svc.
func UploadURL(svc *services.UploadFunction) http.HandlerFunc {
	return endpoint(uploadMethods, func(w http.ResponseWriter, r *http.Request, logCtx *slog.Logger) {
		if r.Method != http.MethodGet {
			fail(w, logCtx, uploadMethods, services.ErrMethodNotAllowed)
			return
		}

		req, err := services.ParseUploadRequest(r.URL.Query())
		if err != nil {
			fail(w, logCtx, uploadMethods, err)
			return
		}

		res, err := svc.Process(r.Context(), req)
		if err != nil {
			fail(w, logCtx, uploadMethods, err)
			return
		}
		logCtx.Info("Issued upload URL.", "key", res.Key, "targetLang", res.TargetLang)
		writeJSON(w, http.StatusOK, uploadMethods, res)
	})
}
