package schema

import "time"

type (
	// Upload represents a stored source image
	Upload struct {
		FileID  string `json:"file_id"`
		FileURL string `json:"file_url"`
	}

	// DetectionItem represents a single detected object
	DetectionItem struct {
		ID         string  `json:"id,omitempty"`
		Class      string  `json:"klass"`
		Confidence float64 `json:"confidence"`
		X          int     `json:"x"`
		Y          int     `json:"y"`
		W          int     `json:"w"`
		H          int     `json:"h"`
	}

	// Detection represents an inference run over an uploaded image
	Detection struct {
		ID           string           `json:"id"`
		Filename     string           `json:"filename"`
		FileURL      string           `json:"file_url"`
		AnnotatedURL *string          `json:"annotated_url"`
		ModelVersion string           `json:"model_version"`
		PodID        string           `json:"pod_id"`
		TotalObjects int              `json:"total_objects"`
		AvgConf      float64          `json:"avg_conf"`
		CreatedAt    time.Time        `json:"created_at"`
		Items        []*DetectionItem `json:"items"`
	}

	SeriesPoint struct {
		Date    string  `json:"date"`
		Images  int     `json:"images"`
		AvgConf float64 `json:"avg_conf"`
		Objects int     `json:"objects"`
	}

	ClassCount struct {
		Class string `json:"klass"`
		Count int    `json:"count"`
	}

	LatestEntry struct {
		ID           string  `json:"id"`
		CreatedAt    string  `json:"created_at"`
		Filename     string  `json:"filename"`
		AnnotatedURL *string `json:"annotated_url"`
		FileURL      string  `json:"file_url"`
		TotalObjects int     `json:"total_objects"`
		AvgConf      float64 `json:"avg_conf"`
	}

	// Summary represents aggregate analytics over a day range
	Summary struct {
		RangeDays    int            `json:"range_days"`
		TotalImages  int            `json:"total_images"`
		TotalObjects int            `json:"total_objects"`
		AvgConf      float64        `json:"avg_conf"`
		Series       []*SeriesPoint `json:"series"`
		ByClass      []*ClassCount  `json:"by_class"`
		Latest       []*LatestEntry `json:"latest"`
	}

	// User represents the authenticated account
	User struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
)
