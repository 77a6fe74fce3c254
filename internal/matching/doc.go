// package matching provides text normalization and similarity scoring for
// resolving scraped now-playing metadata against catalog search results.
package matching
