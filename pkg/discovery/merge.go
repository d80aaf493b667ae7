package discovery

// Merge combines partial metadata gathered from multiple places. Sources
// are applied in call order: for each field, the first source supplying a
// non-empty value wins, and later sources never overwrite a filled field.
// List locally-authored header metadata first to give it precedence over
// remotely discovered values.
func Merge(sources ...LibraryMetadata) LibraryMetadata {
	var out LibraryMetadata
	for _, src := range sources {
		if out.Description == "" {
			out.Description = src.Description
		}
		if out.File == "" {
			out.File = src.File
		}
		if out.Author == "" {
			out.Author = src.Author
		}
		if out.Link == "" {
			out.Link = src.Link
		}
		if out.Date == "" {
			out.Date = src.Date
		}
		if out.Version == "" {
			out.Version = src.Version
		}
	}
	return out
}
