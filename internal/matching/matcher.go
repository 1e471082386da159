// Package matching scores how well two profiles fit as collaborators.
// Scoring is pluggable: a remote service does the real work when
// configured, with a local heuristic as the fallback.
package matching

import (
	"context"
	"sort"
	"strings"

	"bandmate/internal/models"
)

// Result is one scored candidate. Score runs 0 to 100.
type Result struct {
	ProfileID uint     `json:"profile_id"`
	Score     int      `json:"score"`
	Reasons   []string `json:"reasons,omitempty"`
}

// Matcher scores a candidate collaborator for a seeker.
type Matcher interface {
	Score(ctx context.Context, seeker, candidate *models.Profile) (*Result, error)
}

// Rank scores every candidate and returns them best first. Candidates
// that fail to score are skipped rather than failing the whole ranking.
func Rank(ctx context.Context, m Matcher, seeker *models.Profile, candidates []models.Profile) []Result {
	results := make([]Result, 0, len(candidates))
	for i := range candidates {
		if candidates[i].ID == seeker.ID {
			continue
		}
		res, err := m.Score(ctx, seeker, &candidates[i])
		if err != nil {
			continue
		}
		results = append(results, *res)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Heuristic scores candidates locally from profile overlap. It is the
// default when no remote matching service is configured.
type Heuristic struct{}

// complementary maps a role to roles it typically collaborates with.
var complementary = map[models.Role][]models.Role{
	models.RoleArtist:     {models.RoleProducer, models.RoleSongwriter, models.RoleDJ},
	models.RoleProducer:   {models.RoleArtist, models.RoleSongwriter},
	models.RoleSongwriter: {models.RoleArtist, models.RoleProducer},
	models.RoleDJ:         {models.RoleArtist, models.RolePromoter},
	models.RolePromoter:   {models.RoleArtist, models.RoleDJ, models.RolePR},
	models.RolePR:         {models.RoleArtist, models.RolePromoter},
}

// Score rates the candidate on complementary roles, shared genres,
// location, and collaboration preferences.
func (Heuristic) Score(ctx context.Context, seeker, candidate *models.Profile) (*Result, error) {
	res := &Result{ProfileID: candidate.ID}

	for _, role := range complementary[seeker.Role] {
		if candidate.Role == role {
			res.Score += 35
			res.Reasons = append(res.Reasons, "complementary role: "+string(candidate.Role))
			break
		}
	}

	if shared := sharedEntries(seeker.Genres, candidate.Genres); len(shared) > 0 {
		bonus := 15 * len(shared)
		if bonus > 35 {
			bonus = 35
		}
		res.Score += bonus
		res.Reasons = append(res.Reasons, "shared genres: "+strings.Join(shared, ", "))
	}

	if seeker.Location != "" && strings.EqualFold(seeker.Location, candidate.Location) {
		res.Score += 20
		res.Reasons = append(res.Reasons, "same location")
	}

	if seeker.CollabType != "" && strings.EqualFold(seeker.CollabType, candidate.CollabType) {
		res.Score += 10
		res.Reasons = append(res.Reasons, "matching collaboration type")
	}

	if res.Score > 100 {
		res.Score = 100
	}
	return res, nil
}

func sharedEntries(a, b string) []string {
	if a == "" || b == "" {
		return nil
	}
	inA := make(map[string]bool)
	for _, entry := range strings.Split(a, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			inA[entry] = true
		}
	}
	var shared []string
	for _, entry := range strings.Split(b, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" && inA[entry] {
			shared = append(shared, entry)
			inA[entry] = false
		}
	}
	return shared
}
