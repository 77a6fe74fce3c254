// package services defines the Catalog and Source interfaces for interacting
// with the streaming catalog HTTP API and the station's now-playing widget.
//
// Spotify (catalog), station page scraper (source)
package services
