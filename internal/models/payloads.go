package models

// These structs define the payloads exchanged at the function boundaries:
// the storage trigger event, the HTTP query parameters after parsing, and the
// JSON bodies returned to callers.

// StorageObjectEvent is the data of a Cloud Storage object-finalized CloudEvent.
type StorageObjectEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// SummaryResult is returned by the summarization pipeline on success.
type SummaryResult struct {
	Status         string `json:"status"`
	SummaryKey     string `json:"summaryKey"`
	TranslationKey string `json:"translationKey"`
	TargetLang     string `json:"targetLang"`
}

// ErrorReport is stored next to the outputs when a pipeline run fails.
type ErrorReport struct {
	InputKey string `json:"input_key"`
	Error    string `json:"error"`
}

// UploadURLRequest is the validated input of the upload-URL function.
type UploadURLRequest struct {
	Filename    string
	ContentType string
	TargetLang  string
}

// UploadURLResponse tells the browser where to PUT the file.
type UploadURLResponse struct {
	URL         string `json:"url"`
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	TargetLang  string `json:"targetLang,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// DownloadAction is what a download-function request asks for.
type DownloadAction int

const (
	ActionPresign DownloadAction = iota
	ActionList
	ActionDelete
)

// DownloadRequest is the validated input of the download function.
type DownloadRequest struct {
	Action   DownloadAction
	Folder   string
	Filename string
}

// DownloadURLResponse carries a signed GET URL.
type DownloadURLResponse struct {
	URL string `json:"url"`
}

// FileEntry is one object in a folder listing.
type FileEntry struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	LastModified string `json:"lastModified"`
}

// ListResponse is a full folder listing, newest first.
type ListResponse struct {
	Files []FileEntry `json:"files"`
}

// DeleteResponse names the removed object.
type DeleteResponse struct {
	Deleted string `json:"deleted"`
}

// ErrorResponse is the body of every non-2xx HTTP response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse answers CORS pre-flight requests.
type MessageResponse struct {
	Message string `json:"message"`
}
