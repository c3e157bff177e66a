package visittrack

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Reporter sends at most one visit per window to the tracking endpoint.
// Every failure mode is swallowed; a page view must never break because
// analytics is down.
type Reporter struct {
	endpoint string
	identity *Identity
	client   *http.Client
	now      func() time.Time
}

// NewReporter creates a reporter posting to endpoint, e.g.
// "https://example.com/api/visits".
func NewReporter(endpoint string, store Store) *Reporter {
	return &Reporter{
		endpoint: endpoint,
		identity: NewIdentity(store),
		client:   &http.Client{Timeout: 5 * time.Second},
		now:      time.Now,
	}
}

type recordResponse struct {
	Recorded bool `json:"recorded"`
}

// Report posts a visit unless the local marker says we are still inside the
// suppression window. It returns true only when the server confirmed a new
// recorded visit.
func (r *Reporter) Report(ctx context.Context) bool {
	now := r.now()
	if !r.identity.ShouldRecord(now) {
		return false
	}

	payload, err := json.Marshal(map[string]string{
		"visitorId": r.identity.VisitorID(),
	})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return false
	}

	var body recordResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	if !body.Recorded {
		return false
	}

	// Only a confirmed visit advances the marker, so a suppressed or failed
	// attempt retries on the next call.
	_ = r.identity.setLastVisit(now)
	return true
}
