package ai

import (
	"fmt"
	"sort"
)

// Registry indexes Planners by domain ID.
//
// Invariant: each domain ID is registered at most once.
type Registry struct {
	planners map[string]*Planner
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{planners: make(map[string]*Planner)}
}

// Register creates and stores a Planner for domain.
//
// Precondition: domain must not be nil.
// Postcondition: returns error on domain ID collision or an invalid domain.
func (r *Registry) Register(domain *Domain) error {
	if err := domain.Validate(); err != nil {
		return err
	}
	if _, exists := r.planners[domain.ID]; exists {
		return fmt.Errorf("ai.Registry: domain %q already registered", domain.ID)
	}
	r.planners[domain.ID] = NewPlanner(domain)
	return nil
}

// PlannerFor returns the Planner for domainID, or false if not registered.
func (r *Registry) PlannerFor(domainID string) (*Planner, bool) {
	p, ok := r.planners[domainID]
	return p, ok
}

// IDs returns the registered domain IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.planners))
	for id := range r.planners {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
