package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Lllllllleong/summaryflow/internal/gcp"
	"github.com/Lllllllleong/summaryflow/internal/models"
)

// UploadConfig holds configuration for the upload-URL function.
type UploadConfig struct {
	Bucket string
	Prefix string
	URLTTL time.Duration
}

// UploadFunction issues signed PUT URLs into the input bucket.
type UploadFunction struct {
	store  ObjectStore
	config UploadConfig
}

// NewUpload creates an UploadFunction from UPLOAD_BUCKET, UPLOAD_PREFIX and
// URL_TTL_SECONDS.
func NewUpload(ctx context.Context) (*UploadFunction, error) {
	bucket := gcp.GetEnv("UPLOAD_BUCKET", "")
	if bucket == "" {
		return nil, fmt.Errorf("UPLOAD_BUCKET environment variable must be set")
	}
	ttl, err := gcp.GetEnvInt("URL_TTL_SECONDS", 3600)
	if err != nil {
		return nil, err
	}

	store, err := gcp.NewStorage(ctx)
	if err != nil {
		return nil, err
	}
	return NewUploadWith(UploadConfig{
		Bucket: bucket,
		Prefix: gcp.GetEnv("UPLOAD_PREFIX", "incoming/"),
		URLTTL: time.Duration(ttl) * time.Second,
	}, store), nil
}

// NewUploadWith assembles an UploadFunction from explicit dependencies.
func NewUploadWith(config UploadConfig, store ObjectStore) *UploadFunction {
	return &UploadFunction{store: store, config: config}
}

// ParseUploadRequest validates the query parameters of an upload-URL request.
func ParseUploadRequest(query url.Values) (*models.UploadURLRequest, error) {
	filename, err := ValidateFilename(query.Get("filename"))
	if err != nil {
		return nil, err
	}

	req := &models.UploadURLRequest{
		Filename:    filename,
		ContentType: strings.TrimSpace(query.Get("contentType")),
	}

	lang := query.Get("lang")
	if lang == "" {
		lang = query.Get("targetLang")
	}
	if lang = strings.TrimSpace(lang); lang != "" {
		if req.TargetLang, err = ValidateLanguage(lang); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// Process builds the object key under the upload prefix and signs a PUT URL for it.
func (f *UploadFunction) Process(ctx context.Context, req *models.UploadURLRequest) (*models.UploadURLResponse, error) {
	key, err := f.objectKey(req)
	if err != nil {
		return nil, err
	}

	signed, err := f.store.PresignPut(f.config.Bucket, key, f.config.URLTTL, req.ContentType)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to presign upload URL", "error", err, "bucket", f.config.Bucket, "key", key)
		return nil, err
	}

	return &models.UploadURLResponse{
		URL:         signed,
		Bucket:      f.config.Bucket,
		Key:         key,
		TargetLang:  req.TargetLang,
		ContentType: req.ContentType,
	}, nil
}

// objectKey forces the filename under Prefix, optionally namespaced by the
// target language, without doubling a prefix the caller already supplied.
func (f *UploadFunction) objectKey(req *models.UploadURLRequest) (string, error) {
	name := strings.TrimPrefix(req.Filename, f.config.Prefix)
	if req.TargetLang != "" {
		name = strings.TrimPrefix(name, req.TargetLang+"/")
	}
	if name == "" {
		return "", ErrInvalidFilename
	}
	if req.TargetLang != "" {
		return f.config.Prefix + req.TargetLang + "/" + name, nil
	}
	return f.config.Prefix + name, nil
}
