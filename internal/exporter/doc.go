// Package exporter writes normalized card records to the supported output
// encodings: json, csv, txt, html, and apkg. A single Export call fans out
// over the requested formats; failures in one format never abort the
// others, and the machine-readable json artifact is always produced so a
// record of the run survives even when every other format fails.
package exporter
