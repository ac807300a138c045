package profile

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Repository holds the loaded agent profiles and answers name and role
// lookups. Reload replaces the whole set atomically, so readers never
// observe a half-loaded directory.
type Repository struct {
	mu  sync.RWMutex
	dir string
	// byName maps agent name to its profile.
	byName map[string]*Agent
	// byRole maps role to profiles that fill it, sorted by name.
	byRole map[string][]*Agent
	// debugLog is an optional logging function.
	debugLog func(format string, args ...interface{})
}

// NewRepository creates a repository over a profile directory. The
// directory is not read until Load is called.
func NewRepository(dir string) *Repository {
	return &Repository{
		dir:      dir,
		byName:   make(map[string]*Agent),
		byRole:   make(map[string][]*Agent),
		debugLog: func(format string, args ...interface{}) {},
	}
}

// SetDebugLog sets the debug logging function.
func (r *Repository) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		r.debugLog = fn
	}
}

// Load reads every *.yaml profile in the directory. A missing directory
// leaves the repository empty; a malformed profile fails the whole load
// so a bad edit cannot silently drop agents.
func (r *Repository) Load() error {
	byName := make(map[string]*Agent)
	byRole := make(map[string][]*Agent)

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			r.debugLog("[profile] directory %s does not exist, no profiles loaded", r.dir)
			r.swap(byName, byRole)
			return nil
		}
		return fmt.Errorf("read profile dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read profile %s: %w", path, err)
		}
		agent, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if _, exists := byName[agent.Name]; exists {
			return fmt.Errorf("%s: duplicate agent name %s", path, agent.Name)
		}
		byName[agent.Name] = agent
		byRole[agent.Role] = append(byRole[agent.Role], agent)
	}

	for role := range byRole {
		agents := byRole[role]
		sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })
	}

	r.swap(byName, byRole)
	log.Printf("[profile] loaded %d agent profiles from %s", len(byName), r.dir)
	return nil
}

func (r *Repository) swap(byName map[string]*Agent, byRole map[string][]*Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName = byName
	r.byRole = byRole
}

// ByName returns the profile with the given name.
func (r *Repository) ByName(name string) (*Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.byName[name]
	return agent, ok
}

// ByRole returns the first profile (by name) that fills the given role.
func (r *Repository) ByRole(role string) (*Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agents := r.byRole[role]
	if len(agents) == 0 {
		return nil, false
	}
	return agents[0], true
}

// Agents returns all loaded profiles sorted by name.
func (r *Repository) Agents() []*Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Agent, 0, len(r.byName))
	for _, agent := range r.byName {
		out = append(out, agent)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Count returns the number of loaded profiles.
func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
