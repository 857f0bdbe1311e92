package crawler

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/dataJSA/radiant-mlhub/internal/catalog"
	"github.com/dataJSA/radiant-mlhub/internal/fanout"
	"github.com/dataJSA/radiant-mlhub/internal/logging"
)

// rootDir is the top of the persisted layout for every crawl.
const rootDir = "landcovernet"

// labelAssetKey names the ground-truth raster on a label item.
const labelAssetKey = "labels"

// AssetReference pairs a destination directory with the catalog reference
// URI its bytes are fetched from. Immutable once created.
type AssetReference struct {
	Path string
	URI  string
}

// WalkerOptions configures a Walker.
type WalkerOptions struct {
	// Workers bounds the parallel source-item fetches per label item.
	// <= 0 selects the fanout default.
	Workers int

	// Logger overrides the package component logger.
	Logger *zerolog.Logger
}

// Walker derives asset references from label items, fetching related source
// items through the session as needed.
type Walker struct {
	session *catalog.Session
	workers int
	log     zerolog.Logger
}

// NewWalker creates a Walker over the given session.
func NewWalker(session *catalog.Session, opts WalkerOptions) *Walker {
	log := logging.NewLogger("crawler")
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Walker{
		session: session,
		workers: opts.Workers,
		log:     log,
	}
}

// itemPath returns the label destination directory for an item id.
func itemPath(id string) string {
	return rootDir + "/" + id + "/"
}

// datedPath appends a day-granularity date directory to a label path.
// Unparsable or absent datetimes collapse to the epoch 0001_01_01.
func datedPath(labelPath, datetime string) string {
	t, err := time.Parse(time.RFC3339, datetime)
	if err != nil {
		t = time.Time{}
	}
	return labelPath + t.Format("2006_01_02") + "/"
}

// LabelAssets resolves the label raster of a label item into exactly one
// asset reference under landcovernet/{id}/.
func (w *Walker) LabelAssets(item *catalog.Item) ([]AssetReference, error) {
	refs, err := catalog.ItemAssets(item, []string{labelAssetKey})
	if err != nil {
		return nil, err
	}
	return []AssetReference{{Path: itemPath(item.ID), URI: refs[0].Href}}, nil
}

// SourceAssets fetches every rel="source" item linked from a label item and
// returns one reference group per source scene, index-ordered by link
// position. A failed source fetch degrades to an empty group.
func (w *Walker) SourceAssets(ctx context.Context, item *catalog.Item) [][]AssetReference {
	labelPath := itemPath(item.ID)
	links := item.SourceLinks()

	return fanout.Map(ctx, w.workers, links, func(ctx context.Context, href string) []AssetReference {
		source, err := w.session.GetURI(ctx, href)
		if err != nil {
			w.log.Warn().
				Err(err).
				Str("item", item.ID).
				Str("source", href).
				Msg("source item fetch failed, skipping scene")
			return nil
		}

		scenePath := datedPath(labelPath, source.Properties.Datetime)

		keys := make([]string, 0, len(source.Assets))
		for key := range source.Assets {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		refs := make([]AssetReference, 0, len(keys))
		for _, key := range keys {
			refs = append(refs, AssetReference{Path: scenePath, URI: source.Assets[key].Href})
		}
		return refs
	})
}

// AllAssets returns the source scene reference groups of a label item
// followed by a final single-element group holding the label reference.
func (w *Walker) AllAssets(ctx context.Context, item *catalog.Item) ([][]AssetReference, error) {
	labels, err := w.LabelAssets(item)
	if err != nil {
		return nil, err
	}
	groups := w.SourceAssets(ctx, item)
	return append(groups, labels), nil
}
