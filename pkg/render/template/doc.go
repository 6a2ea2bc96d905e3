// Package template defines the renderer contract used to turn generation
// plans into Python source. Implementations live in subpackages; gotemplate
// provides the pongo2-backed engine loaded with the embedded .py-tpl files.
package template
