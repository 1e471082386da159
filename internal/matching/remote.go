package matching

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bandmate/internal/models"
)

// remoteProfile is the subset of a profile the scoring service sees.
// Email, password, and counters stay out of the request.
type remoteProfile struct {
	ID              uint   `json:"id"`
	Role            string `json:"role"`
	Genres          string `json:"genres"`
	Location        string `json:"location"`
	Skills          string `json:"skills"`
	ExperienceLevel string `json:"experience_level"`
	CollabType      string `json:"collab_type"`
}

type scoreRequest struct {
	Seeker    remoteProfile `json:"seeker"`
	Candidate remoteProfile `json:"candidate"`
}

type scoreResponse struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// RemoteMatcher calls an external scoring service over HTTP.
type RemoteMatcher struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRemoteMatcher returns a matcher backed by the service at baseURL.
func NewRemoteMatcher(baseURL, token string) *RemoteMatcher {
	return &RemoteMatcher{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Score posts both profiles to the service's /score endpoint.
func (m *RemoteMatcher) Score(ctx context.Context, seeker, candidate *models.Profile) (*Result, error) {
	payload, err := json.Marshal(scoreRequest{
		Seeker:    toRemote(seeker),
		Candidate: toRemote(candidate),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/score", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("matching service returned %d", resp.StatusCode)
	}

	var body scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Score < 0 {
		body.Score = 0
	}
	if body.Score > 100 {
		body.Score = 100
	}
	return &Result{ProfileID: candidate.ID, Score: body.Score, Reasons: body.Reasons}, nil
}

func toRemote(p *models.Profile) remoteProfile {
	return remoteProfile{
		ID:              p.ID,
		Role:            string(p.Role),
		Genres:          p.Genres,
		Location:        p.Location,
		Skills:          p.Skills,
		ExperienceLevel: p.ExperienceLevel,
		CollabType:      p.CollabType,
	}
}
