package mock

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/viant/detect/schema"
)

// MaxUploadSize mirrors the backend upload limit
const MaxUploadSize = 20 << 20

func (b *Backend) meHandler(w http.ResponseWriter, r *http.Request) {
	username, _ := r.Context().Value(usernameKey).(string)
	writeJSON(w, http.StatusOK, &schema.User{ID: 1, Username: username, Email: username + "@example.com"})
}

func (b *Backend) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadSize + 1<<20); err != nil {
		writeDetail(w, http.StatusBadRequest, "file required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()
	if header.Size > MaxUploadSize {
		writeDetail(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	switch header.Header.Get("Content-Type") {
	case "image/jpeg", "image/png":
	default:
		writeDetail(w, http.StatusUnsupportedMediaType, "only jpg/png")
		return
	}
	_, _ = io.Copy(io.Discard, file)
	fileID := time.Now().UTC().Format("20060102150405") + "_" + header.Filename
	upload := &schema.Upload{FileID: fileID, FileURL: "/media/uploads/" + fileID}
	b.mux.Lock()
	b.uploads[fileID] = upload
	b.mux.Unlock()
	writeJSON(w, http.StatusOK, upload)
}

func (b *Backend) detectHandler(w http.ResponseWriter, r *http.Request) {
	request := struct {
		FileID string `json:"file_id"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.FileID == "" {
		writeDetail(w, http.StatusBadRequest, "file_id required")
		return
	}
	b.mux.Lock()
	defer b.mux.Unlock()
	upload, ok := b.uploads[request.FileID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "file not found")
		return
	}
	items := []*schema.DetectionItem{
		{ID: uuid.NewString(), Class: "person", Confidence: 0.91, X: 10, Y: 20, W: 50, H: 120},
		{ID: uuid.NewString(), Class: "car", Confidence: 0.78, X: 200, Y: 140, W: 160, H: 90},
	}
	annotated := "/media/annotated/" + upload.FileID
	detection := &schema.Detection{
		ID:           uuid.NewString(),
		Filename:     upload.FileID,
		FileURL:      upload.FileURL,
		AnnotatedURL: &annotated,
		ModelVersion: "1.0",
		PodID:        "inference-local",
		TotalObjects: len(items),
		AvgConf:      (items[0].Confidence + items[1].Confidence) / 2,
		CreatedAt:    time.Now().UTC(),
		Items:        items,
	}
	b.detections = append(b.detections, detection)
	writeJSON(w, http.StatusOK, detection)
}

func (b *Backend) resultsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.newestFirst())
}

func (b *Backend) resultHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, detection := range b.newestFirst() {
		if detection.ID == id {
			writeJSON(w, http.StatusOK, detection)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func (b *Backend) summaryHandler(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil {
		days = 7
	}
	days = max(1, min(days, 90))
	start := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

	summary := &schema.Summary{RangeDays: days}
	perDay := map[string]*schema.SeriesPoint{}
	perClass := map[string]int{}
	confSum := 0.0
	for _, detection := range b.newestFirst() {
		if detection.CreatedAt.Before(start) {
			continue
		}
		summary.TotalImages++
		summary.TotalObjects += detection.TotalObjects
		confSum += detection.AvgConf
		day := detection.CreatedAt.Format(time.DateOnly)
		point, ok := perDay[day]
		if !ok {
			point = &schema.SeriesPoint{Date: day}
			perDay[day] = point
		}
		point.AvgConf = (point.AvgConf*float64(point.Images) + detection.AvgConf) / float64(point.Images+1)
		point.Images++
		point.Objects += detection.TotalObjects
		for _, item := range detection.Items {
			perClass[item.Class]++
		}
		if len(summary.Latest) < 5 {
			summary.Latest = append(summary.Latest, &schema.LatestEntry{
				ID:           detection.ID,
				CreatedAt:    detection.CreatedAt.Format(time.RFC3339),
				Filename:     detection.Filename,
				AnnotatedURL: detection.AnnotatedURL,
				FileURL:      detection.FileURL,
				TotalObjects: detection.TotalObjects,
				AvgConf:      round3(detection.AvgConf),
			})
		}
	}
	if summary.TotalImages > 0 {
		summary.AvgConf = round3(confSum / float64(summary.TotalImages))
	}
	for _, point := range perDay {
		point.AvgConf = round3(point.AvgConf)
		summary.Series = append(summary.Series, point)
	}
	sort.Slice(summary.Series, func(i, j int) bool { return summary.Series[i].Date < summary.Series[j].Date })
	for class, count := range perClass {
		summary.ByClass = append(summary.ByClass, &schema.ClassCount{Class: class, Count: count})
	}
	sort.Slice(summary.ByClass, func(i, j int) bool {
		if summary.ByClass[i].Count == summary.ByClass[j].Count {
			return summary.ByClass[i].Class < summary.ByClass[j].Class
		}
		return summary.ByClass[i].Count > summary.ByClass[j].Count
	})
	writeJSON(w, http.StatusOK, summary)
}

func (b *Backend) newestFirst() []*schema.Detection {
	b.mux.Lock()
	defer b.mux.Unlock()
	ret := make([]*schema.Detection, len(b.detections))
	for i, detection := range b.detections {
		ret[len(b.detections)-1-i] = detection
	}
	return ret
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
