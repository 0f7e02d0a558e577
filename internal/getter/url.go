package getter

// CatalogURL constructs a go-getter URL for a catalog inside a repository.
//
// The double-slash separates the repository from the subpath, which is
// native go-getter syntax. For example:
//
//	CatalogURL("github.com/acme/deck-stages", "aws", "v1.2.0")
//	→ "github.com/acme/deck-stages//aws?ref=v1.2.0"
func CatalogURL(baseURL, subpath, ref string) string {
	url := baseURL
	if subpath != "" {
		url += "//" + subpath
	}

	if ref != "" {
		url += "?ref=" + ref
	}

	return url
}
