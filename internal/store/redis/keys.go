package redis

const (
	// KeyPrefixCatalog is the prefix of every cached catalog read.
	KeyPrefixCatalog = "shelf:catalog:"
	// KeyPrefixRevoked is the prefix of revoked session token IDs.
	KeyPrefixRevoked = "shelf:session:revoked:"
	// KeyPrefixGeneration holds the flush counters. It sits outside the
	// catalog prefix so a flush never deletes them.
	KeyPrefixGeneration = "shelf:gen:"

	keyGenerationCatalog = KeyPrefixGeneration + "catalog"
)

// KindPrefix returns the prefix of every cached read of one collection.
func KindPrefix(kind string) string {
	return KeyPrefixCatalog + kind + ":"
}

// GenerationKey returns the flush counter of one collection.
func GenerationKey(kind string) string {
	return KeyPrefixGeneration + kind
}

// SlugKey returns the key caching a single item lookup under a generation.
func SlugKey(kind, gen, slug string) string {
	return KindPrefix(kind) + gen + ":slug:" + slug
}

// ListKey returns the key caching a list query under a generation. The query
// is expected in canonical form.
func ListKey(kind, gen, query string) string {
	return KindPrefix(kind) + gen + ":list:" + query
}

// RevokedKey returns the key marking a token ID as signed out.
func RevokedKey(tokenID string) string {
	return KeyPrefixRevoked + tokenID
}
