// Package normalizer converts raw language-model output into canonical
// card records. Model output is expected to be JSON but is not trusted:
// the normalizer runs an ordered ladder of parsing strategies (strict,
// fence-stripping, bracket scanning, line splitting) and the first one
// that yields candidate cards wins. The normalizer never fails; anything
// it repairs or drops is reported as a structured warning instead.
package normalizer
