// Package schema describes where model definitions come from. A Source names
// a file, an fs.FS entry or a URL; a Loader reads it into a Document; an
// Adapter turns a Document into a model.Catalog. Manifest and OpenAPI
// adapters live in their own packages.
package schema
