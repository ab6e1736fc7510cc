package aem

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/aem-assistant/internal/domain/aem"
)

func emptySeed() domain.Store {
	seed := domain.DefaultSeed()
	seed.URLs = nil
	seed.Components = nil
	return seed
}

func strPtr(s string) *string { return &s }

func TestAddURL_IDsStartAtOneAndIncrease(t *testing.T) {
	svc := NewService(emptySeed())

	for want := 1; want <= 5; want++ {
		u, err := svc.AddURL(domain.URLInput{Value: "https://x.test/", Tenant: "EW"})
		require.NoError(t, err)
		assert.Equal(t, want, u.ID)
	}
}

func TestAddURL_ReturnsStoredEntity(t *testing.T) {
	svc := NewService(emptySeed())

	u, err := svc.AddURL(domain.URLInput{Value: " https://x.test/ ", Tenant: "EW"})
	require.NoError(t, err)
	assert.Equal(t, domain.TrackedURL{ID: 1, Value: "https://x.test/", Tenant: "EW"}, u)
	assert.Equal(t, []domain.TrackedURL{u}, svc.ListURLs(""))
}

func TestAddURL_Validation(t *testing.T) {
	svc := NewService(emptySeed())

	tests := []struct {
		name string
		in   domain.URLInput
	}{
		{"empty value", domain.URLInput{Tenant: "EW"}},
		{"relative url", domain.URLInput{Value: "/cv-ketels", Tenant: "EW"}},
		{"ftp scheme", domain.URLInput{Value: "ftp://x.test/", Tenant: "EW"}},
		{"missing tenant", domain.URLInput{Value: "https://x.test/"}},
		{"unknown tenant", domain.URLInput{Value: "https://x.test/", Tenant: "ACME"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddURL(tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Empty(t, svc.ListURLs(""))
}

func TestIDsRestartWhenCollectionEmptied(t *testing.T) {
	svc := NewService(emptySeed())

	a, err := svc.AddURL(domain.URLInput{Value: "https://a.test/", Tenant: "EW"})
	require.NoError(t, err)
	b, err := svc.AddURL(domain.URLInput{Value: "https://b.test/", Tenant: "EW"})
	require.NoError(t, err)

	svc.DeleteURL(a.ID)
	c, err := svc.AddURL(domain.URLInput{Value: "https://c.test/", Tenant: "EW"})
	require.NoError(t, err)
	assert.Equal(t, 3, c.ID, "next id follows the current maximum")

	svc.DeleteURL(b.ID)
	svc.DeleteURL(c.ID)
	d, err := svc.AddURL(domain.URLInput{Value: "https://d.test/", Tenant: "EW"})
	require.NoError(t, err)
	assert.Equal(t, 1, d.ID)
}

func TestUpdateURL_IgnoresIDInBody(t *testing.T) {
	svc := NewService(domain.DefaultSeed())

	var patch domain.URLPatch
	require.NoError(t, json.Unmarshal([]byte(`{"id": 99, "value": "https://dev-www.energiewacht.nl/nieuw"}`), &patch))

	u, err := svc.UpdateURL(2, patch)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, 2, u.ID)
	assert.Equal(t, "https://dev-www.energiewacht.nl/nieuw", u.Value)
	assert.Equal(t, "EW", u.Tenant)

	for _, got := range svc.ListURLs("") {
		assert.NotEqual(t, 99, got.ID)
	}
}

func TestUpdateURL_MissingReturnsNil(t *testing.T) {
	svc := NewService(domain.DefaultSeed())

	u, err := svc.UpdateURL(404, domain.URLPatch{Value: strPtr("https://x.test/")})
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestUpdateURL_RejectsUnknownTenant(t *testing.T) {
	svc := NewService(domain.DefaultSeed())

	_, err := svc.UpdateURL(1, domain.URLPatch{Tenant: strPtr("ACME")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "EW", svc.ListURLs("")[0].Tenant)
}

func TestDeleteURL_Idempotent(t *testing.T) {
	svc := NewService(domain.DefaultSeed())
	before := len(svc.ListURLs(""))

	svc.DeleteURL(3)
	svc.DeleteURL(3)
	assert.Len(t, svc.ListURLs(""), before-1)
}

func TestListURLs_TenantFilter(t *testing.T) {
	svc := NewService(domain.DefaultSeed())

	kli := svc.ListURLs("KLI")
	require.Len(t, kli, 2)
	for _, u := range kli {
		assert.Equal(t, "KLI", u.Tenant)
	}
	assert.Empty(t, svc.ListURLs("NOPE"))
}

func TestComponentCRUD(t *testing.T) {
	svc := NewService(emptySeed())

	c, err := svc.AddComponent(domain.ComponentInput{
		Name:        "Hero V1",
		Selector:    "heroV1",
		HelperProps: []string{" heading ", ""},
		Tenant:      "EW",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.ID)
	assert.Equal(t, []string{"heading"}, c.HelperProps)

	helpers := []string{"heading", "subheading"}
	updated, err := svc.UpdateComponent(1, domain.ComponentPatch{HelperProps: &helpers})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Hero V1", updated.Name)
	assert.Equal(t, helpers, updated.HelperProps)

	_, err = svc.AddComponent(domain.ComponentInput{Name: "Bad", Selector: "has space", Tenant: "EW"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc.DeleteComponent(1)
	svc.DeleteComponent(1)
	assert.Empty(t, svc.ListComponents(""))
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	svc := NewService(domain.DefaultSeed())

	snap := svc.Snapshot()
	snap.URLs[0].Value = "mutated"
	snap.Components[0].HelperProps[0] = "mutated"

	fresh := svc.Snapshot()
	assert.NotEqual(t, "mutated", fresh.URLs[0].Value)
	assert.NotEqual(t, "mutated", fresh.Components[0].HelperProps[0])
}

func TestFindComponent(t *testing.T) {
	svc := NewService(domain.DefaultSeed())

	c, ok := svc.FindComponent("Where is the Hero V1 component used?")
	require.True(t, ok)
	assert.Equal(t, "heroV1", c.Selector)

	c, ok = svc.FindComponent("any page with TEASERSV4?")
	require.True(t, ok)
	assert.Equal(t, "Teaser V4", c.Name)

	_, ok = svc.FindComponent("hello there")
	assert.False(t, ok)
}

func TestFindURLInText(t *testing.T) {
	svc := NewService(domain.DefaultSeed())

	u, ok := svc.FindURLInText("what is on https://dev-www.klimaatroute.nl/zakelijk please")
	require.True(t, ok)
	assert.Equal(t, "KLI", u.Tenant)

	_, ok = svc.FindURLInText("what is on https://example.org/")
	assert.False(t, ok)
}

func TestSetPageOverride_ReplacesSameTarget(t *testing.T) {
	svc := NewService(domain.DefaultSeed())

	_, err := svc.SetPageOverride(domain.PageOverride{URL: "https://x.test/", Selector: "heroV1", Props: `{"a":1}`})
	require.NoError(t, err)
	_, err = svc.SetPageOverride(domain.PageOverride{URL: "https://x.test/", Selector: "heroV1", Props: `{"a":2}`})
	require.NoError(t, err)

	overrides := svc.Snapshot().PageOverrides
	require.Len(t, overrides, 1)
	assert.Equal(t, `{"a":2}`, overrides[0].Props)

	_, err = svc.SetPageOverride(domain.PageOverride{URL: "nope", Selector: "heroV1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestConcurrentAdds_UniqueIDs(t *testing.T) {
	svc := NewService(emptySeed())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddURL(domain.URLInput{Value: "https://x.test/", Tenant: "EW"})
		}()
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, u := range svc.ListURLs("") {
		assert.False(t, seen[u.ID], "duplicate id %d", u.ID)
		seen[u.ID] = true
	}
	assert.Len(t, seen, 50)
}
