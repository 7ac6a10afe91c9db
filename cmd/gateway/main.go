package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"page-slicer/internal/app"
	"page-slicer/internal/httputil"
	"page-slicer/internal/loader"
	"page-slicer/internal/page"
	"page-slicer/internal/queue"
)

func main() {
	deps, err := app.Build(app.WithQueue)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	r := httputil.NewRouter(deps.Log)
	r.Post("/api/documents", documentHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := httputil.Serve(ctx, deps.Log, srv); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

// documentRequest is the JSON form of an upload. Text is a string or an
// array of page strings.
type documentRequest struct {
	Name     string          `json:"name"`
	Metadata page.Metadata   `json:"metadata"`
	Text     json.RawMessage `json:"text"`
}

var errBadRequest = errors.New("bad request")

func documentHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize)

		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		var (
			payload queue.SlicePayload
			err     error
		)
		switch mediaType {
		case "application/json":
			payload, err = decodeJSON(r.Body)
		case "multipart/form-data":
			payload, err = decodeUpload(r, maxFileSize)
		default:
			httputil.Fail(deps.Log, w, "unsupported content type (use application/json or multipart/form-data)", nil, http.StatusUnsupportedMediaType)
			return
		}
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, errBadRequest) {
				status = http.StatusBadRequest
			}
			httputil.Fail(deps.Log, w, err.Error(), err, status)
			return
		}

		task, err := queue.NewSliceTask(payload)
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid document", err, http.StatusBadRequest)
			return
		}
		if err := queue.EnqueueWithRetry(r.Context(), deps.Queue, task, 3, 200*time.Millisecond); err != nil {
			httputil.Fail(deps.Log.With("task_id", task.ID), w, "failed to enqueue document; please retry", err, http.StatusInternalServerError)
			return
		}

		httputil.WriteJSON(w, http.StatusAccepted, map[string]any{
			"task_id": task.ID.String(),
			"name":    payload.Name,
			"pages":   len(payload.Text),
			"status":  "queued",
		})
	}
}

func decodeJSON(body io.Reader) (queue.SlicePayload, error) {
	var req documentRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return queue.SlicePayload{}, fmt.Errorf("%w: invalid JSON body", errBadRequest)
	}
	if req.Name == "" {
		return queue.SlicePayload{}, fmt.Errorf("%w: name is required", errBadRequest)
	}
	text, err := decodeText(req.Text)
	if err != nil {
		return queue.SlicePayload{}, fmt.Errorf("%w: text must be a string or an array of strings", errBadRequest)
	}
	return queue.SlicePayload{Name: req.Name, Metadata: req.Metadata, Text: text}, nil
}

func decodeText(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, err
	}
	return many, nil
}

// decodeUpload reads a multipart "file" field. PDFs become one page per PDF
// page; text files are a single page. Optional url, title and category form
// fields fill the metadata.
func decodeUpload(r *http.Request, maxFileSize int64) (queue.SlicePayload, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return queue.SlicePayload{}, fmt.Errorf("%w: file is required", errBadRequest)
	}
	defer file.Close()

	if header.Size > maxFileSize {
		return queue.SlicePayload{}, fmt.Errorf("%w: file too large (max %d bytes)", errBadRequest, maxFileSize)
	}

	contentType := header.Header.Get("Content-Type")

	// If Content-Type is missing, detect from filename
	if contentType == "" || contentType == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(header.Filename)) {
		case ".txt":
			contentType = "text/plain"
		case ".pdf":
			contentType = "application/pdf"
		}
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return queue.SlicePayload{}, fmt.Errorf("failed to read file: %w", err)
	}

	var text []string
	switch contentType {
	case "text/plain":
		text = []string{string(content)}
	case "application/pdf":
		text, err = loader.ReadPDF(content)
		if err != nil {
			return queue.SlicePayload{}, fmt.Errorf("%w: unreadable PDF", errBadRequest)
		}
	default:
		return queue.SlicePayload{}, fmt.Errorf("%w: unsupported file type (only PDF and TXT allowed)", errBadRequest)
	}

	meta := page.Metadata{}
	for _, key := range []string{"url", "title", "category"} {
		if v := r.FormValue(key); v != "" {
			meta[key] = v
		}
	}
	return queue.SlicePayload{Name: header.Filename, Metadata: meta, Text: text}, nil
}
