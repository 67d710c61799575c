// Package config loads the operator-supplied configuration: the YAML rules
// file with skip/stop/header pattern lists, and the four optional
// line-oriented list files (aliases, ignored message IDs, ignored attachment
// fingerprints, ignored text blocks).
//
// Every input is optional. A missing rules file yields the built-in
// Danish/English defaults; a missing list file yields an empty set or map.
// Configuration is loaded once at startup and read-only afterwards.
package config
