package aem

// DefaultSeed returns the configuration every process starts from.
func DefaultSeed() Store {
	return Store{
		Environments: []Environment{
			{ID: "dev", Value: "Development"},
			{ID: "stage", Value: "Stage"},
			{ID: "prod", Value: "Production"},
		},
		SelectedEnvDetails: SelectedEnvDetails{
			Tenant:   "EW",
			Env:      "dev",
			Selector: "/content/nl-energiewacht-com/nl_NL",
			BaseURL:  "https://dev-www.energiewacht.nl",
		},
		SelectedEnvironment: "dev",
		AvailableTenants: []Tenant{
			{ID: "EW", Value: "Energiewacht", Domain: "energiewacht.nl", Selector: "/content/nl-energiewacht-com/nl_NL"},
			{ID: "EWW", Value: "Energiewacht West", Domain: "energiewachtwest.nl", Selector: "/content/nl-energiewachtwest-com/nl_NL"},
			{ID: "VOLNXT", Value: "Volta NXT", Domain: "voltanxt.nl", Selector: "/content/nl-voltanxt-com/nl_NL"},
			{ID: "NLI", Value: "Nederland Isoleert", Domain: "nederlandisoleert.nl", Selector: "/content/nl-nederlandisoleert-com/nl_NL"},
			{ID: "KLI", Value: "Klimaatroute", Domain: "klimaatroute.nl", Selector: "/content/nl-klimaatroute-com/nl_NL"},
		},
		SelectedTenant: "EW",
		URLs: []TrackedURL{
			{ID: 1, Value: "https://dev-www.energiewacht.nl/", Tenant: "EW"},
			{ID: 2, Value: "https://dev-www.energiewacht.nl/cv-ketels", Tenant: "EW"},
			{ID: 3, Value: "https://dev-www.energiewacht.nl/cv-ketels/onderhoud", Tenant: "EW"},
			{ID: 4, Value: "https://dev-www.energiewacht.nl/zonnepanelen", Tenant: "EW"},
			{ID: 5, Value: "https://dev-www.energiewacht.nl/warmtepompen", Tenant: "EW"},

			{ID: 12, Value: "https://dev-www.energiewachtwest.nl/", Tenant: "EWW"},
			{ID: 13, Value: "https://dev-www.energiewachtwest.nl/over-ons", Tenant: "EWW"},
			{ID: 14, Value: "https://dev-www.energiewachtwest.nl/service", Tenant: "EWW"},

			{ID: 15, Value: "https://dev-www.voltanxt.nl/", Tenant: "VOLNXT"},
			{ID: 16, Value: "https://dev-www.voltanxt.nl/producten", Tenant: "VOLNXT"},
			{ID: 17, Value: "https://dev-www.voltanxt.nl/advies", Tenant: "VOLNXT"},

			{ID: 18, Value: "https://dev-www.nederlandisoleert.nl/", Tenant: "NLI"},
			{ID: 19, Value: "https://dev-www.nederlandisoleert.nl/dakisolatie", Tenant: "NLI"},
			{ID: 20, Value: "https://dev-www.nederlandisoleert.nl/vloerisolatie", Tenant: "NLI"},

			{ID: 21, Value: "https://dev-www.klimaatroute.nl/", Tenant: "KLI"},
			{ID: 22, Value: "https://dev-www.klimaatroute.nl/zakelijk", Tenant: "KLI"},
		},
		Components: []ComponentDefinition{
			{ID: 1, Name: "Multi-Step Form", Selector: "container", HelperProps: []string{"action", "emailSubject"}, Tenant: "EW"},
			{ID: 2, Name: "Hero V1", Selector: "heroV1", HelperProps: []string{"heading"}, Tenant: "EW"},
			{ID: 3, Name: "Hero V2", Selector: "heroV2", Tenant: "EW"},
			{ID: 4, Name: "Hero V3", Selector: "heroV3", Tenant: "EWW"},
			{ID: 5, Name: "Teaser V1", Selector: "teasersV1", Tenant: "VOLNXT"},
			{ID: 6, Name: "Teaser V2", Selector: "teasersV2", Tenant: "NLI"},
			{ID: 7, Name: "Teaser V4", Selector: "teasersV4", Tenant: "KLI"},
			{ID: 8, Name: "Teaser V6", Selector: "teasersV5", Tenant: "EW"},
		},
	}
}
