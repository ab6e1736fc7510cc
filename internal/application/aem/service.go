package aem

import (
	"strings"
	"sync"

	domain "github.com/bryanwahyu/aem-assistant/internal/domain/aem"
)

// Service owns the in-memory configuration store.
// Semua akses lewat method di sini, aman dipakai concurrent.
type Service struct {
	mu    sync.RWMutex
	store domain.Store
}

// NewService seeds the store from seed (deep-copied).
func NewService(seed domain.Store) *Service {
	return &Service{store: seed.Clone()}
}

// Snapshot returns a deep copy of the full aggregate.
func (s *Service) Snapshot() domain.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Clone()
}

// Tenants returns the available tenants.
func (s *Service) Tenants() []domain.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Tenant{}, s.store.AvailableTenants...)
}

//
// ==== URLS ====
//

// ListURLs returns tracked URLs of tenant, or all when tenant is empty.
func (s *Service) ListURLs(tenant string) []domain.TrackedURL {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.TrackedURL{}
	for _, u := range s.store.URLs {
		if tenant == "" || u.Tenant == tenant {
			out = append(out, u)
		}
	}
	return out
}

// AddURL validates in and appends it with id = max+1.
func (s *Service) AddURL(in domain.URLInput) (domain.TrackedURL, error) {
	in.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := in.Validate(s.store); err != nil {
		return domain.TrackedURL{}, err
	}
	u := domain.TrackedURL{ID: nextURLID(s.store.URLs), Value: in.Value, Tenant: in.Tenant}
	s.store.URLs = append(s.store.URLs, u)
	return u, nil
}

// UpdateURL merges p over the URL with id. Missing id returns (nil, nil).
func (s *Service) UpdateURL(id int, p domain.URLPatch) (*domain.TrackedURL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.store.URLs {
		if u.ID != id {
			continue
		}
		if err := p.Validate(s.store); err != nil {
			return nil, err
		}
		updated := p.Apply(u)
		s.store.URLs[i] = updated
		return &updated, nil
	}
	return nil, nil
}

// DeleteURL removes every URL with id. Absent ids are a no-op.
func (s *Service) DeleteURL(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.store.URLs[:0]
	for _, u := range s.store.URLs {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.store.URLs = kept
}

// FindURLInText returns the first tracked URL whose value occurs in text.
func (s *Service) FindURLInText(text string) (domain.TrackedURL, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.store.URLs {
		if u.Value != "" && strings.Contains(text, u.Value) {
			return u, true
		}
	}
	return domain.TrackedURL{}, false
}

//
// ==== COMPONENTS ====
//

// ListComponents returns component definitions of tenant, or all when tenant is empty.
func (s *Service) ListComponents(tenant string) []domain.ComponentDefinition {
	snap := s.Snapshot()
	out := []domain.ComponentDefinition{}
	for _, c := range snap.Components {
		if tenant == "" || c.Tenant == tenant {
			out = append(out, c)
		}
	}
	return out
}

// AddComponent validates in and appends it with id = max+1.
func (s *Service) AddComponent(in domain.ComponentInput) (domain.ComponentDefinition, error) {
	in.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := in.Validate(s.store); err != nil {
		return domain.ComponentDefinition{}, err
	}
	c := domain.ComponentDefinition{
		ID:          nextComponentID(s.store.Components),
		Name:        in.Name,
		Selector:    in.Selector,
		HelperProps: append([]string(nil), in.HelperProps...),
		Tenant:      in.Tenant,
	}
	s.store.Components = append(s.store.Components, c)
	c.HelperProps = append([]string(nil), c.HelperProps...)
	return c, nil
}

// UpdateComponent merges p over the component with id. Missing id returns (nil, nil).
func (s *Service) UpdateComponent(id int, p domain.ComponentPatch) (*domain.ComponentDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.store.Components {
		if c.ID != id {
			continue
		}
		if err := p.Validate(s.store); err != nil {
			return nil, err
		}
		updated := p.Apply(c)
		s.store.Components[i] = updated
		updated.HelperProps = append([]string(nil), updated.HelperProps...)
		return &updated, nil
	}
	return nil, nil
}

// DeleteComponent removes every component with id. Absent ids are a no-op.
func (s *Service) DeleteComponent(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.store.Components[:0]
	for _, c := range s.store.Components {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.store.Components = kept
}

// FindComponent returns the first component whose name or selector occurs in text,
// compared case-insensitively.
func (s *Service) FindComponent(text string) (domain.ComponentDefinition, bool) {
	q := strings.ToLower(text)
	for _, c := range s.Snapshot().Components {
		name, sel := strings.ToLower(c.Name), strings.ToLower(c.Selector)
		if (name != "" && strings.Contains(q, name)) || (sel != "" && strings.Contains(q, sel)) {
			return c, true
		}
	}
	return domain.ComponentDefinition{}, false
}

// ComponentBySelector finds a definition by exact selector.
func (s *Service) ComponentBySelector(selector string) (domain.ComponentDefinition, bool) {
	for _, c := range s.Snapshot().Components {
		if c.Selector == selector {
			return c, true
		}
	}
	return domain.ComponentDefinition{}, false
}

//
// ==== PAGE OVERRIDES ====
//

// SetPageOverride records a props override for url+selector, replacing an earlier one.
func (s *Service) SetPageOverride(o domain.PageOverride) (domain.PageOverride, error) {
	o.URL = strings.TrimSpace(o.URL)
	o.Selector = strings.TrimSpace(o.Selector)
	if err := domain.ValidatePageURL(o.URL); err != nil {
		return domain.PageOverride{}, err
	}
	if err := domain.ValidateSelector(o.Selector); err != nil {
		return domain.PageOverride{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.store.PageOverrides {
		if existing.URL == o.URL && existing.Selector == o.Selector {
			s.store.PageOverrides[i] = o
			return o, nil
		}
	}
	s.store.PageOverrides = append(s.store.PageOverrides, o)
	return o, nil
}

func nextURLID(urls []domain.TrackedURL) int {
	max := 0
	for _, u := range urls {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}

func nextComponentID(comps []domain.ComponentDefinition) int {
	max := 0
	for _, c := range comps {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}
