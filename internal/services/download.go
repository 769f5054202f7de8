package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Lllllllleong/summaryflow/internal/gcp"
	"github.com/Lllllllleong/summaryflow/internal/models"
)

const defaultListPageSize = 1000

// Folder is the bucket/prefix pair a public folder name maps to.
type Folder struct {
	Bucket string
	Prefix string
}

// DownloadConfig holds configuration for the download function.
type DownloadConfig struct {
	Folders  map[string]Folder
	URLTTL   time.Duration
	PageSize int
}

// DownloadFunction signs GET URLs for, lists and deletes pipeline outputs.
type DownloadFunction struct {
	store  ObjectStore
	config DownloadConfig
}

// NewDownload creates a DownloadFunction serving the summaries, translations
// and errors folders of OUTPUT_BUCKET.
func NewDownload(ctx context.Context) (*DownloadFunction, error) {
	bucket := gcp.GetEnv("OUTPUT_BUCKET", "")
	if bucket == "" {
		return nil, fmt.Errorf("OUTPUT_BUCKET environment variable must be set")
	}
	ttl, err := gcp.GetEnvInt("URL_TTL_SECONDS", 3600)
	if err != nil {
		return nil, err
	}
	pageSize, err := gcp.GetEnvInt("LIST_PAGE_SIZE", defaultListPageSize)
	if err != nil {
		return nil, err
	}

	store, err := gcp.NewStorage(ctx)
	if err != nil {
		return nil, err
	}
	return NewDownloadWith(DownloadConfig{
		Folders: map[string]Folder{
			"summaries":    {Bucket: bucket, Prefix: gcp.GetEnv("SUMMARY_PREFIX", "summaries/")},
			"translations": {Bucket: bucket, Prefix: gcp.GetEnv("TRANSLATION_PREFIX", "translations/")},
			"errors":       {Bucket: bucket, Prefix: gcp.GetEnv("ERROR_PREFIX", "errors/")},
		},
		URLTTL:   time.Duration(ttl) * time.Second,
		PageSize: pageSize,
	}, store), nil
}

// NewDownloadWith assembles a DownloadFunction from explicit dependencies.
func NewDownloadWith(config DownloadConfig, store ObjectStore) *DownloadFunction {
	if config.PageSize <= 0 {
		config.PageSize = defaultListPageSize
	}
	return &DownloadFunction{store: store, config: config}
}

// ParseDownloadRequest validates the method and query parameters of a
// download request. Filename validation happens later against the folder.
func ParseDownloadRequest(method string, query url.Values) (*models.DownloadRequest, error) {
	req := &models.DownloadRequest{
		Folder:   query.Get("folder"),
		Filename: query.Get("filename"),
	}
	switch method {
	case http.MethodGet:
		req.Action = models.ActionPresign
		if IsTruthy(query.Get("list")) {
			req.Action = models.ActionList
		}
	case http.MethodDelete:
		req.Action = models.ActionDelete
	default:
		return nil, fmt.Errorf("%w: %s", ErrMethodNotAllowed, method)
	}

	if req.Folder == "" {
		return nil, fmt.Errorf("%w: folder", ErrMissingParameter)
	}
	if req.Action != models.ActionList && req.Filename == "" {
		return nil, fmt.Errorf("%w: filename", ErrMissingParameter)
	}
	return req, nil
}

// Process dispatches req and returns the JSON body to send back.
func (f *DownloadFunction) Process(ctx context.Context, req *models.DownloadRequest) (any, error) {
	folder, ok := f.config.Folders[req.Folder]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFolder, req.Folder)
	}

	switch req.Action {
	case models.ActionList:
		return f.list(ctx, folder)
	case models.ActionDelete:
		return f.delete(ctx, folder, req.Filename)
	default:
		return f.presign(ctx, folder, req.Filename)
	}
}

func (f *DownloadFunction) presign(ctx context.Context, folder Folder, filename string) (*models.DownloadURLResponse, error) {
	key, err := folderKey(folder, filename)
	if err != nil {
		return nil, err
	}
	exists, err := f.store.Exists(ctx, folder.Bucket, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", key, gcp.ErrNotFound)
	}

	signed, err := f.store.PresignGet(folder.Bucket, key, f.config.URLTTL)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to presign download URL", "error", err, "bucket", folder.Bucket, "key", key)
		return nil, err
	}
	return &models.DownloadURLResponse{URL: signed}, nil
}

func (f *DownloadFunction) delete(ctx context.Context, folder Folder, filename string) (*models.DeleteResponse, error) {
	key, err := folderKey(folder, filename)
	if err != nil {
		return nil, err
	}
	if err := f.store.Delete(ctx, folder.Bucket, key); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Deleted object.", "bucket", folder.Bucket, "key", key)
	return &models.DeleteResponse{Deleted: key}, nil
}

// list collects every page under the folder prefix, newest first.
func (f *DownloadFunction) list(ctx context.Context, folder Folder) (*models.ListResponse, error) {
	var objects []gcp.ObjectInfo
	token := ""
	for {
		page, next, err := f.store.ListPage(ctx, folder.Bucket, folder.Prefix, token, f.config.PageSize)
		if err != nil {
			return nil, err
		}
		for _, obj := range page {
			if strings.HasSuffix(obj.Key, "/") {
				continue
			}
			objects = append(objects, obj)
		}
		if next == "" {
			break
		}
		token = next
	}

	sort.SliceStable(objects, func(i, j int) bool {
		if !objects[i].LastModified.Equal(objects[j].LastModified) {
			return objects[i].LastModified.After(objects[j].LastModified)
		}
		return objects[i].Key < objects[j].Key
	})

	files := make([]models.FileEntry, 0, len(objects))
	for _, obj := range objects {
		files = append(files, models.FileEntry{
			Key:          obj.Key,
			Name:         strings.TrimPrefix(obj.Key, folder.Prefix),
			Size:         obj.Size,
			LastModified: obj.LastModified.UTC().Format(time.RFC3339),
		})
	}
	return &models.ListResponse{Files: files}, nil
}

// folderKey validates filename and places it under the folder prefix unless
// it already starts with it.
func folderKey(folder Folder, filename string) (string, error) {
	cleaned, err := ValidateFilename(filename)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(cleaned, folder.Prefix) {
		return cleaned, nil
	}
	return folder.Prefix + cleaned, nil
}
