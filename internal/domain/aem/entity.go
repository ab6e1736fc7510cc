package aem

// Tenant is a site/brand that owns its own URLs and component definitions.
type Tenant struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Domain   string `json:"domain"`
	Selector string `json:"selector"`
}

// Environment id/label pair
type Environment struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// SelectedEnvDetails is informational only and never enforced against the collections.
type SelectedEnvDetails struct {
	Tenant   string `json:"tenant"`
	Env      string `json:"env"`
	Selector string `json:"selector"`
	BaseURL  string `json:"baseUrl"`
}

// TrackedURL a page the inspector may probe
type TrackedURL struct {
	ID     int    `json:"id"`
	Value  string `json:"value"`
	Tenant string `json:"tenant"`
}

// ComponentDefinition describes a component marker. Selector is matched against the
// data-component attribute; HelperProps name the payload fields pulled out for display.
type ComponentDefinition struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Selector    string   `json:"selector"`
	HelperProps []string `json:"helperProps,omitempty"`
	Tenant      string   `json:"tenant"`
}

// PageOverride is a session-scoped props override posted by the UI.
type PageOverride struct {
	URL      string `json:"url"`
	Selector string `json:"selector"`
	Props    string `json:"props"`
}

// Store is the configuration aggregate
type Store struct {
	Environments        []Environment         `json:"environments"`
	SelectedEnvDetails  SelectedEnvDetails    `json:"selectedEnvDetails"`
	SelectedEnvironment string                `json:"selectedEnvironment"`
	AvailableTenants    []Tenant              `json:"availableTenants"`
	SelectedTenant      string                `json:"selectedTenant"`
	URLs                []TrackedURL          `json:"urls"`
	Components          []ComponentDefinition `json:"components"`
	PageOverrides       []PageOverride        `json:"pageOverrides"`
}

// Clone returns a deep copy so callers never share the backing slices.
func (s Store) Clone() Store {
	out := s
	out.Environments = append([]Environment(nil), s.Environments...)
	out.AvailableTenants = append([]Tenant(nil), s.AvailableTenants...)
	out.URLs = append([]TrackedURL(nil), s.URLs...)
	out.PageOverrides = append([]PageOverride(nil), s.PageOverrides...)
	out.Components = make([]ComponentDefinition, len(s.Components))
	for i, c := range s.Components {
		c.HelperProps = append([]string(nil), c.HelperProps...)
		out.Components[i] = c
	}
	if out.Environments == nil {
		out.Environments = []Environment{}
	}
	if out.AvailableTenants == nil {
		out.AvailableTenants = []Tenant{}
	}
	if out.URLs == nil {
		out.URLs = []TrackedURL{}
	}
	if out.PageOverrides == nil {
		out.PageOverrides = []PageOverride{}
	}
	return out
}

// HasTenant reports whether id names one of the available tenants.
func (s Store) HasTenant(id string) bool {
	for _, t := range s.AvailableTenants {
		if t.ID == id {
			return true
		}
	}
	return false
}
