package loader

// LoaderBuilderOption is a functional option for configuring a Loader
// during construction.
type LoaderBuilderOption func(*loaderImpl)

// WithIDPrefix is an option builder that prefixes every imported asset id.
// Useful when several files define skins or animations with the same name.
//
// Parameters:
//   - prefix: the prefix, e.g. "fox/"
//
// Returns:
//   - LoaderBuilderOption: a function that applies the prefix
func WithIDPrefix(prefix string) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.idPrefix = prefix
	}
}
