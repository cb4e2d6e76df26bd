// Package render writes the catalog as a static HTML page. The movie grid
// fragment comes from query.RenderGrid and is embedded in a page template
// shipped with the binary.
package render
