package aem

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrValidation marks a rejected write; wrapped with the reason.
var ErrValidation = errors.New("validation failed")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// URLInput body for creating a tracked URL
type URLInput struct {
	Value  string `json:"value"`
	Tenant string `json:"tenant"`
}

// URLPatch body for updating a tracked URL; nil fields are left untouched.
type URLPatch struct {
	Value  *string `json:"value,omitempty"`
	Tenant *string `json:"tenant,omitempty"`
}

// ComponentInput body for creating a component definition
type ComponentInput struct {
	Name        string   `json:"name"`
	Selector    string   `json:"selector"`
	HelperProps []string `json:"helperProps,omitempty"`
	Tenant      string   `json:"tenant"`
}

// ComponentPatch body for updating a component definition
type ComponentPatch struct {
	Name        *string   `json:"name,omitempty"`
	Selector    *string   `json:"selector,omitempty"`
	HelperProps *[]string `json:"helperProps,omitempty"`
	Tenant      *string   `json:"tenant,omitempty"`
}

// Normalize trims whitespace from every field.
func (in *URLInput) Normalize() {
	in.Value = strings.TrimSpace(in.Value)
	in.Tenant = strings.TrimSpace(in.Tenant)
}

// Normalize trims names, selectors and helper props, dropping empty helpers.
func (in *ComponentInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Selector = strings.TrimSpace(in.Selector)
	in.Tenant = strings.TrimSpace(in.Tenant)
	in.HelperProps = cleanHelpers(in.HelperProps)
}

func cleanHelpers(props []string) []string {
	var out []string
	for _, p := range props {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidatePageURL accepts absolute http(s) URLs only.
func ValidatePageURL(raw string) error {
	if raw == "" {
		return invalid("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return invalid("url %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid("url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return invalid("url %q: host is required", raw)
	}
	return nil
}

// ValidateSelector rejects empty selectors and characters that cannot appear in a
// data-component attribute value written by the CMS.
func ValidateSelector(sel string) error {
	if sel == "" {
		return invalid("selector is required")
	}
	if strings.ContainsAny(sel, " \t\r\n\"'<>") {
		return invalid("selector %q contains whitespace or quote characters", sel)
	}
	return nil
}

// ValidateTenant checks the tenant against the store's available tenants.
func ValidateTenant(s Store, tenant string) error {
	if tenant == "" {
		return invalid("tenant is required")
	}
	if !s.HasTenant(tenant) {
		return invalid("unknown tenant %q", tenant)
	}
	return nil
}

// Validate checks a URL input against the current store.
func (in URLInput) Validate(s Store) error {
	if err := ValidatePageURL(in.Value); err != nil {
		return err
	}
	return ValidateTenant(s, in.Tenant)
}

// Validate checks a URL patch; only present fields are validated.
func (p URLPatch) Validate(s Store) error {
	if p.Value != nil {
		if err := ValidatePageURL(strings.TrimSpace(*p.Value)); err != nil {
			return err
		}
	}
	if p.Tenant != nil {
		return ValidateTenant(s, strings.TrimSpace(*p.Tenant))
	}
	return nil
}

// Validate checks a component input against the current store.
func (in ComponentInput) Validate(s Store) error {
	if in.Name == "" {
		return invalid("name is required")
	}
	if err := ValidateSelector(in.Selector); err != nil {
		return err
	}
	return ValidateTenant(s, in.Tenant)
}

// Validate checks a component patch; only present fields are validated.
func (p ComponentPatch) Validate(s Store) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("name cannot be empty")
	}
	if p.Selector != nil {
		if err := ValidateSelector(strings.TrimSpace(*p.Selector)); err != nil {
			return err
		}
	}
	if p.Tenant != nil {
		return ValidateTenant(s, strings.TrimSpace(*p.Tenant))
	}
	return nil
}

// Apply merges the patch over u. The id is never touched.
func (p URLPatch) Apply(u TrackedURL) TrackedURL {
	if p.Value != nil {
		u.Value = strings.TrimSpace(*p.Value)
	}
	if p.Tenant != nil {
		u.Tenant = strings.TrimSpace(*p.Tenant)
	}
	return u
}

// Apply merges the patch over c. The id is never touched.
func (p ComponentPatch) Apply(c ComponentDefinition) ComponentDefinition {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Selector != nil {
		c.Selector = strings.TrimSpace(*p.Selector)
	}
	if p.HelperProps != nil {
		c.HelperProps = cleanHelpers(*p.HelperProps)
	}
	if p.Tenant != nil {
		c.Tenant = strings.TrimSpace(*p.Tenant)
	}
	return c
}
