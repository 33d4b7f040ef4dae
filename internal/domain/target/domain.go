package target

import "time"

// Kind selects the check pipeline applied to a target. Only uptime
// monitoring exists today; the column is kept for forward compatibility.
type Kind string

const (
	KindUptime Kind = "uptime"
)

type Target struct {
	ID         int64      `json:"id"`
	OwnerID    int64      `json:"owner_id"`
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	Kind       Kind       `json:"kind"`
	Interval   time.Duration `json:"interval"`
	Timeout    time.Duration `json:"timeout"`
	Enabled    bool       `json:"enabled"`
	LastStatus *string    `json:"last_status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Normalize enforces interval > 0 and timeout < interval, falling back to
// the given defaults for rows edited outside the API's validation.
func (t *Target) Normalize(defaultInterval, defaultTimeout time.Duration) {
	if t.Interval <= 0 {
		t.Interval = defaultInterval
	}
	if t.Timeout <= 0 || t.Timeout >= t.Interval {
		t.Timeout = defaultTimeout
	}
	if t.Timeout >= t.Interval {
		t.Timeout = t.Interval / 2
	}
	if t.Kind == "" {
		t.Kind = KindUptime
	}
}

func (t *Target) IsHTTPS() bool {
	return len(t.URL) >= 8 && t.URL[:8] == "https://"
}
