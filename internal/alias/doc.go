// Package alias resolves raw email addresses to the display labels
// configured in the alias list.
package alias
