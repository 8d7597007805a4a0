// Package history persists a browsable log of completed generation runs
// in a bbolt database. Each record keeps the deck name, card count, a
// short content preview, and the paths of the artifacts the run produced.
package history
