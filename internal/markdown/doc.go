// Package markdown reads blog articles written as Markdown files with a YAML
// front matter block and renders article bodies to HTML.
package markdown
