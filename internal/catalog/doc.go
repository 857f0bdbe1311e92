// Package catalog models MLHub catalog documents and provides the API
// session used to fetch them.
//
// A catalog collection is a paginated set of features (items). Each item
// carries a map of named assets ({title, href}) and a list of relationship
// links. Label items link to their source scenes via rel="source" links.
//
// # Usage
//
//	session := catalog.NewSession(client, catalog.SessionConfig{
//	    BaseURL:      "https://api.radiant.earth/mlhub/v1",
//	    CollectionID: "ref_landcovernet_v1_labels",
//	})
//
//	item, err := session.GetItem(ctx, "", "ref_landcovernet_v1_labels_29PKL_19")
//	refs, err := catalog.ItemAssets(item, []string{"labels"})
package catalog
