// Package aggregate collects per-player results into per-position
// repositories and derives the cross-position ranking from them.
package aggregate

import (
	"fmt"
	"sync"

	"nflstats/analyzer/internal/models"

	"github.com/rs/zerolog/log"
)

// Outcome is the result of an append attempt.
type Outcome int

const (
	Accepted Outcome = iota
	DuplicateSkipped
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case DuplicateSkipped:
		return "duplicate-skipped"
	default:
		return "rejected"
	}
}

// Decision is a duplicate resolver's verdict on a repeated player identity.
type Decision int

const (
	// Same: the incoming result belongs to the already stored player.
	Same Decision = iota
	// New: a different individual sharing the name; store it disambiguated.
	New
)

// DuplicateResolver decides whether a repeated player identity is the stored
// player or a new individual sharing a name. The core treats the call as a
// blocking decision point; a CLI may back it with a console prompt, a batch
// job uses AutoSkip.
type DuplicateResolver interface {
	Resolve(playerID string, existing *models.PlayerResult) Decision
}

// ResolverFunc adapts a function to the DuplicateResolver interface.
type ResolverFunc func(playerID string, existing *models.PlayerResult) Decision

func (f ResolverFunc) Resolve(playerID string, existing *models.PlayerResult) Decision {
	return f(playerID, existing)
}

// AutoSkip treats every repeat identity as the same player. Safe default for
// unattended runs.
func AutoSkip() DuplicateResolver {
	return ResolverFunc(func(string, *models.PlayerResult) Decision { return Same })
}

// Repository is the append-only, duplicate-checked store of player results
// for one canonical position. Appends are serialized: the duplicate check and
// the insert are atomic under the repository mutex.
type Repository struct {
	position string
	resolver DuplicateResolver

	mu      sync.Mutex
	results []*models.PlayerResult
	index   map[string]int
}

// NewRepository creates an empty repository for a canonical position.
func NewRepository(pos string, resolver DuplicateResolver) *Repository {
	if resolver == nil {
		resolver = AutoSkip()
	}
	return &Repository{
		position: pos,
		resolver: resolver,
		index:    make(map[string]int),
	}
}

// Position returns the canonical position this repository stores.
func (r *Repository) Position() string {
	return r.position
}

// Append stores a result, enforcing playerId uniqueness via the configured
// duplicate policy. Results for another position are rejected.
func (r *Repository) Append(res *models.PlayerResult) Outcome {
	if res.Position != r.position {
		log.Warn().
			Str("player", res.PlayerID).
			Str("repository", r.position).
			Str("result_position", res.Position).
			Msg("Result rejected: position mismatch")
		return Rejected
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, dup := r.index[res.PlayerID]
	if !dup {
		r.insert(res)
		return Accepted
	}

	if r.resolver.Resolve(res.PlayerID, r.results[existing]) == Same {
		log.Debug().
			Str("player", res.PlayerID).
			Str("position", r.position).
			Msg("Duplicate player skipped")
		return DuplicateSkipped
	}

	// A new individual sharing the name: store under a disambiguated identity.
	disambiguated := *res
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", res.PlayerID, n)
		if _, taken := r.index[candidate]; !taken {
			disambiguated.PlayerID = candidate
			break
		}
	}
	r.insert(&disambiguated)
	return Accepted
}

func (r *Repository) insert(res *models.PlayerResult) {
	r.index[res.PlayerID] = len(r.results)
	r.results = append(r.results, res)
}

// Players returns a snapshot of the stored results in insertion order.
func (r *Repository) Players() []*models.PlayerResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.PlayerResult, len(r.results))
	copy(out, r.results)
	return out
}

// Len reports the number of stored results.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

// Store owns one repository per canonical position, created on first use and
// remembered in insertion order for stable ranking ties.
type Store struct {
	resolver DuplicateResolver

	mu    sync.Mutex
	order []string
	repos map[string]*Repository
}

// NewStore creates an empty store sharing one duplicate resolver.
func NewStore(resolver DuplicateResolver) *Store {
	return &Store{
		resolver: resolver,
		repos:    make(map[string]*Repository),
	}
}

// Repo returns the repository for a position, creating it if needed.
func (s *Store) Repo(pos string) *Repository {
	s.mu.Lock()
	defer s.mu.Unlock()
	repo, ok := s.repos[pos]
	if !ok {
		repo = NewRepository(pos, s.resolver)
		s.repos[pos] = repo
		s.order = append(s.order, pos)
	}
	return repo
}

// Positions returns the positions in first-seen order.
func (s *Store) Positions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
