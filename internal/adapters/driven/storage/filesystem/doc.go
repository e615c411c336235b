// Package filesystem provides a directory-backed implementation of driven.BlobStore.
//
// Each object is a plain file at <root>/<key>, so canonical documents can be
// opened in any editor. Content type and metadata tags live in a YAML sidecar
// at <root>/.meta/<key>.yaml.
//
// Writes go through a temp file in the target directory. Overwrites rename the
// temp file into place; create-only writes hard-link it, which fails if the key
// already exists.
package filesystem
