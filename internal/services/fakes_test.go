package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/summaryflow/internal/gcp"
	"github.com/Lllllllleong/summaryflow/internal/models"
)

type storedObject struct {
	data        []byte
	contentType string
	updated     time.Time
}

// fakeStore is an in-memory ObjectStore that pages listings pageSize at a time.
type fakeStore struct {
	mu        sync.Mutex
	objects   map[string]storedObject
	calls     int
	listCalls int
	putErr    error
	signErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]storedObject)}
}

func objKey(bucket, key string) string { return bucket + "|" + key }

func (s *fakeStore) seed(bucket, key, data string, updated time.Time) {
	s.objects[objKey(bucket, key)] = storedObject{data: []byte(data), updated: updated}
}

func (s *fakeStore) object(bucket, key string) (storedObject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[objKey(bucket, key)]
	return obj, ok
}

func (s *fakeStore) Get(_ context.Context, bucket, key string, maxBytes int64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	obj, ok := s.objects[objKey(bucket, key)]
	if !ok {
		return nil, gcp.ErrNotFound
	}
	if int64(len(obj.data)) > maxBytes {
		return nil, gcp.ErrObjectTooLarge
	}
	return obj.data, nil
}

func (s *fakeStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[objKey(bucket, key)] = storedObject{data: data, contentType: contentType, updated: time.Now()}
	return nil
}

func (s *fakeStore) ListPage(_ context.Context, bucket, prefix, pageToken string, pageSize int) ([]gcp.ObjectInfo, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.listCalls++

	var keys []string
	for k := range s.objects {
		if len(k) > len(bucket)+1 && k[:len(bucket)+1] == bucket+"|" {
			name := k[len(bucket)+1:]
			if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
				keys = append(keys, name)
			}
		}
	}
	sort.Strings(keys)

	start := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil {
			return nil, "", errors.New("bad page token")
		}
		start = n
	}
	end := start + pageSize
	next := strconv.Itoa(end)
	if end >= len(keys) {
		end = len(keys)
		next = ""
	}

	var page []gcp.ObjectInfo
	for _, k := range keys[start:end] {
		obj := s.objects[objKey(bucket, k)]
		page = append(page, gcp.ObjectInfo{Key: k, Size: int64(len(obj.data)), LastModified: obj.updated})
	}
	return page, next, nil
}

func (s *fakeStore) Exists(_ context.Context, bucket, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	_, ok := s.objects[objKey(bucket, key)]
	return ok, nil
}

func (s *fakeStore) Delete(_ context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if _, ok := s.objects[objKey(bucket, key)]; !ok {
		return gcp.ErrNotFound
	}
	delete(s.objects, objKey(bucket, key))
	return nil
}

func (s *fakeStore) PresignGet(bucket, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.signErr != nil {
		return "", s.signErr
	}
	return "https://signed.example/get/" + bucket + "/" + key + "?ttl=" + ttl.String(), nil
}

func (s *fakeStore) PresignPut(bucket, key string, ttl time.Duration, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.signErr != nil {
		return "", s.signErr
	}
	return "https://signed.example/put/" + bucket + "/" + key + "?ct=" + contentType, nil
}

type fakeGenerator struct {
	out     string
	err     error
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.out, g.err
}

type translateCall struct {
	text, source, target string
}

type fakeTranslator struct {
	out   string
	err   error
	calls []translateCall
}

func (t *fakeTranslator) Translate(_ context.Context, text, sourceLang, targetLang string) (string, error) {
	t.calls = append(t.calls, translateCall{text, sourceLang, targetLang})
	return t.out, t.err
}

type fakeRuns struct {
	started   map[string]models.Run
	completed map[string][2]string
	failed    map[string]string
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{
		started:   make(map[string]models.Run),
		completed: make(map[string][2]string),
		failed:    make(map[string]string),
	}
}

func (r *fakeRuns) Start(_ context.Context, runID string, run models.Run) error {
	r.started[runID] = run
	return nil
}

func (r *fakeRuns) Complete(_ context.Context, runID, summaryKey, translationKey string) error {
	r.completed[runID] = [2]string{summaryKey, translationKey}
	return nil
}

func (r *fakeRuns) Fail(_ context.Context, runID, errDetails string) error {
	r.failed[runID] = errDetails
	return nil
}

// fakeModel returns canned text parts, or an error, for any prompt.
type fakeModel struct {
	parts   []string
	err     error
	prompts []string
}

func (m *fakeModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, p := range parts {
		if txt, ok := p.(genai.Text); ok {
			m.prompts = append(m.prompts, string(txt))
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	content := &genai.Content{Role: "model"}
	for _, p := range m.parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}, nil
}

type fakePredictor struct {
	body []byte
	resp string
	err  error
}

func (p *fakePredictor) RawPredict(_ context.Context, body []byte) ([]byte, error) {
	p.body = body
	return []byte(p.resp), p.err
}

func timeAt(minutes int) time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}
