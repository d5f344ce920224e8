// Package spec provides the nested document type that carries all
// workflow task state ("fw_spec") and the utilities operating on it:
// arrow-separated key paths, the dict-mod command language, recursive
// merging with exclusion markers and marker-guided comparison.
package spec
