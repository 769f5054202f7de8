package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/Lllllllleong/summaryflow/internal/gcp"
	"github.com/Lllllllleong/summaryflow/internal/models"
)

func testDownload(store *fakeStore, pageSize int) *DownloadFunction {
	return NewDownloadWith(DownloadConfig{
		Folders: map[string]Folder{
			"summaries":    {Bucket: outBucket, Prefix: "summaries/"},
			"translations": {Bucket: outBucket, Prefix: "translations/"},
		},
		URLTTL:   time.Hour,
		PageSize: pageSize,
	}, store)
}

func TestParseDownloadRequest(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		query   url.Values
		want    models.DownloadAction
		wantErr error
	}{
		{"presign", http.MethodGet, url.Values{"folder": {"summaries"}, "filename": {"a.txt"}}, models.ActionPresign, nil},
		{"list", http.MethodGet, url.Values{"folder": {"summaries"}, "list": {"true"}}, models.ActionList, nil},
		{"list false is presign", http.MethodGet, url.Values{"folder": {"summaries"}, "list": {"0"}, "filename": {"a"}}, models.ActionPresign, nil},
		{"delete", http.MethodDelete, url.Values{"folder": {"summaries"}, "filename": {"a.txt"}}, models.ActionDelete, nil},
		{"post rejected", http.MethodPost, url.Values{"folder": {"summaries"}}, 0, ErrMethodNotAllowed},
		{"missing folder", http.MethodGet, url.Values{"filename": {"a.txt"}}, 0, ErrMissingParameter},
		{"missing filename", http.MethodGet, url.Values{"folder": {"summaries"}}, 0, ErrMissingParameter},
		{"delete missing filename", http.MethodDelete, url.Values{"folder": {"summaries"}}, 0, ErrMissingParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseDownloadRequest(tt.method, tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || req.Action != tt.want {
				t.Fatalf("got %+v, %v", req, err)
			}
		})
	}
}

func TestDownloadPresign(t *testing.T) {
	store := newFakeStore()
	store.seed(outBucket, "summaries/a.summary.txt", "x", timeAt(0))
	f := testDownload(store, 10)

	for _, filename := range []string{"a.summary.txt", "summaries/a.summary.txt", "/a.summary.txt"} {
		body, err := f.Process(context.Background(), &models.DownloadRequest{Action: models.ActionPresign, Folder: "summaries", Filename: filename})
		if err != nil {
			t.Fatalf("Process(%q): %v", filename, err)
		}
		res := body.(*models.DownloadURLResponse)
		if res.URL != "https://signed.example/get/out-bucket/summaries/a.summary.txt?ttl=1h0m0s" {
			t.Fatalf("URL = %q", res.URL)
		}
	}
}

func TestDownloadErrors(t *testing.T) {
	store := newFakeStore()
	f := testDownload(store, 10)

	_, err := f.Process(context.Background(), &models.DownloadRequest{Action: models.ActionPresign, Folder: "secrets", Filename: "a"})
	if !errors.Is(err, ErrUnknownFolder) {
		t.Fatalf("expected ErrUnknownFolder, got %v", err)
	}

	_, err = f.Process(context.Background(), &models.DownloadRequest{Action: models.ActionPresign, Folder: "summaries", Filename: "missing.txt"})
	if !errors.Is(err, gcp.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	before := store.calls
	_, err = f.Process(context.Background(), &models.DownloadRequest{Action: models.ActionDelete, Folder: "summaries", Filename: "../../etc/passwd"})
	if !errors.Is(err, ErrInvalidFilename) {
		t.Fatalf("expected ErrInvalidFilename, got %v", err)
	}
	if store.calls != before {
		t.Fatalf("storage called for invalid filename")
	}
}

func TestDownloadDelete(t *testing.T) {
	store := newFakeStore()
	store.seed(outBucket, "translations/fr/a.summary.fr.txt", "x", timeAt(0))
	f := testDownload(store, 10)

	body, err := f.Process(context.Background(), &models.DownloadRequest{Action: models.ActionDelete, Folder: "translations", Filename: "fr/a.summary.fr.txt"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res := body.(*models.DeleteResponse); res.Deleted != "translations/fr/a.summary.fr.txt" {
		t.Fatalf("deleted = %q", res.Deleted)
	}
	if _, ok := store.object(outBucket, "translations/fr/a.summary.fr.txt"); ok {
		t.Fatalf("object still present")
	}

	_, err = f.Process(context.Background(), &models.DownloadRequest{Action: models.ActionDelete, Folder: "translations", Filename: "fr/a.summary.fr.txt"})
	if !errors.Is(err, gcp.ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestDownloadListAcrossPagesNewestFirst(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 7; i++ {
		store.seed(outBucket, fmt.Sprintf("summaries/doc%d.summary.txt", i), "x", timeAt(i*((i%3)+1)))
	}
	store.seed(outBucket, "summaries/", "", timeAt(100))
	store.seed(outBucket, "translations/fr/other.txt", "x", timeAt(50))
	f := testDownload(store, 2)

	body, err := f.Process(context.Background(), &models.DownloadRequest{Action: models.ActionList, Folder: "summaries"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	files := body.(*models.ListResponse).Files
	if len(files) != 7 {
		t.Fatalf("got %d files, want 7: %+v", len(files), files)
	}
	if store.listCalls < 4 {
		t.Fatalf("expected the listing to span several pages, got %d calls", store.listCalls)
	}
	for i := 1; i < len(files); i++ {
		prev, _ := time.Parse(time.RFC3339, files[i-1].LastModified)
		cur, _ := time.Parse(time.RFC3339, files[i].LastModified)
		if cur.After(prev) {
			t.Fatalf("files not newest-first at %d: %+v", i, files)
		}
	}
	if files[0].Key != "summaries/doc5.summary.txt" || files[0].Name != "doc5.summary.txt" || files[0].Size != 1 {
		t.Fatalf("unexpected newest entry: %+v", files[0])
	}
}

func TestDownloadListEmpty(t *testing.T) {
	body, err := testDownload(newFakeStore(), 2).Process(context.Background(), &models.DownloadRequest{Action: models.ActionList, Folder: "translations"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if files := body.(*models.ListResponse).Files; files == nil || len(files) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", files)
	}
}
