package symptomd

import (
	"context"
	"time"

	modeluc "github.com/kailas-cloud/symptomd/internal/usecase/model"
)

// ModelInfo describes the serving model.
type ModelInfo struct {
	Available bool
	Path      string
	Version   string
	Kind      string
	Classes   []string
	Unmapped  []string // classes without catalog guidance
	LoadedAt  time.Time
	LastError string
	LastTry   time.Time
}

// Reload reads the artifact again and swaps it in after verification.
// On failure the previous model keeps serving.
func (c *Client) Reload(ctx context.Context) (info ModelInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("reload", start, err) }()

	if _, err = c.modelSvc.Load(ctx, modeluc.TriggerSDK); err != nil {
		return toModelInfo(c.modelSvc.Status()), err //nolint:wrapcheck // wraps ErrModelUnavailable
	}
	return toModelInfo(c.modelSvc.Status()), nil
}

// Model returns the serving model status.
func (c *Client) Model() ModelInfo {
	return toModelInfo(c.modelSvc.Status())
}

func toModelInfo(st modeluc.Status) ModelInfo {
	info := ModelInfo{
		Available: st.Available,
		Path:      st.Path,
		LastError: st.LastError,
		LastTry:   st.LastTry,
	}
	if m := st.Model; m != nil {
		info.Version = m.Version()
		info.Kind = m.Kind()
		info.LoadedAt = m.LoadedAt()
		for _, l := range m.Classes() {
			info.Classes = append(info.Classes, string(l))
		}
		for _, l := range m.Unmapped() {
			info.Unmapped = append(info.Unmapped, string(l))
		}
	}
	return info
}
